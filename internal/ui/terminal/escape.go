package terminal

import "strconv"

// Escape sequences emitted by the shell and the browser.
const (
	SeqClearScreen = "\x1b[2J"
	SeqHome        = "\x1b[H"
	SeqKeypadApp   = "\x1b="
	SeqKeypadNum   = "\x1b>"
	SeqQueryCursor = "\x1b[6n"
	SeqCursorFar   = "\x1b[999C\x1b[999B"
	SeqHideCursor  = "\x1b[?25l"
	SeqShowCursor  = "\x1b[?25h"
	SeqReverse     = "\x1b[7m"
	SeqAttrReset   = "\x1b[0m"
	SeqClearLine   = "\x1b[0K"
)

// AppendCursorTo appends a cursor positioning sequence (1-based row and col).
func AppendCursorTo(dst []byte, row, col int) []byte {
	if row < 1 {
		row = 1
	}
	if col < 1 {
		col = 1
	}
	dst = append(dst, "\x1b["...)
	dst = strconv.AppendInt(dst, int64(row), 10)
	dst = append(dst, ';')
	dst = strconv.AppendInt(dst, int64(col), 10)
	return append(dst, 'H')
}

// CursorTo returns a cursor positioning sequence (1-based row and col).
func CursorTo(row, col int) string {
	return string(AppendCursorTo(nil, row, col))
}
