package textutil

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// DisplayWidth reports the printable width of text accounting for wide runes.
func DisplayWidth(text string) int {
	width := 0
	for _, ru := range text {
		width += runeWidth(ru)
	}
	return width
}

// Fit truncates text to at most width columns and right-pads it with spaces
// so the result occupies exactly width columns. A wide rune that would
// straddle the edge is dropped and replaced by padding.
func Fit(text string, width int) string {
	if width <= 0 {
		return ""
	}
	var b strings.Builder
	used := 0
	for _, ru := range text {
		w := runeWidth(ru)
		if used+w > width {
			break
		}
		b.WriteRune(ru)
		used += w
	}
	if used < width {
		b.WriteString(strings.Repeat(" ", width-used))
	}
	return b.String()
}

func runeWidth(ru rune) int {
	w := runewidth.RuneWidth(ru)
	if w < 1 {
		return 1
	}
	return w
}

// Truncate cuts text to at most width columns without padding.
func Truncate(text string, width int) string {
	used := 0
	for i, ru := range text {
		w := runeWidth(ru)
		if used+w > width {
			return text[:i]
		}
		used += w
	}
	return text
}

// SkipColumns drops the leading cols columns of text. A wide rune split by
// the cut is dropped whole.
func SkipColumns(text string, cols int) string {
	skipped := 0
	for i, ru := range text {
		if skipped >= cols {
			return text[i:]
		}
		skipped += runeWidth(ru)
	}
	return ""
}
