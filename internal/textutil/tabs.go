package textutil

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

const DefaultTabWidth = 8

// ExpandTabs replaces tab characters with spaces respecting terminal column width.
func ExpandTabs(text string, tabWidth int) string {
	if tabWidth <= 0 || !strings.ContainsRune(text, '\t') {
		return text
	}

	var builder strings.Builder
	column := 0
	for _, ru := range text {
		if ru == '\t' {
			spaces := tabWidth - (column % tabWidth)
			builder.WriteString(strings.Repeat(" ", spaces))
			column += spaces
			continue
		}
		builder.WriteRune(ru)
		column += runeWidth(ru)
	}
	return builder.String()
}

// Render derives the on-screen form of a row's raw text: NFC composed, tabs
// expanded and control bytes made visible.
func Render(text string) string {
	return SanitizeTerminalText(ExpandTabs(norm.NFC.String(text), DefaultTabWidth))
}
