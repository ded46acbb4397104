package textutil

import "strings"

// SanitizeTerminalText replaces control characters so file names cannot
// inject terminal escape sequences when rendered.
func SanitizeTerminalText(text string) string {
	for i := 0; i < len(text); i++ {
		if isControl(text[i]) {
			return sanitize(text)
		}
	}
	return text
}

func isControl(b byte) bool {
	return b < 0x20 || b == 0x7f
}

func sanitize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c == '\t', c == '\n', c == '\r':
			b.WriteByte(' ')
		case isControl(c):
			b.WriteByte('?')
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
