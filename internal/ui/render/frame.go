// Package render paints the browser into a bordered VT100 viewport.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/kk-code-lab/rshell/internal/rows"
	"github.com/kk-code-lab/rshell/internal/textutil"
	"github.com/kk-code-lab/rshell/internal/ui/terminal"
)

// Frame is everything one refresh needs.
type Frame struct {
	Rows       []*rows.Row
	RowOff     int
	ColOff     int
	ScreenRows int
	ScreenCols int
	CursorY    int

	// Status is drawn below the box. Callers pass "" once it has expired.
	Status string

	// Suffix labels a row by file type; nil means no labels.
	Suffix func(name string) string
}

// borderPadding is the left and right border plus one space on each side.
const borderPadding = 4

// ContentWidth is the number of columns available for row text.
func ContentWidth(screenCols int) int {
	if w := screenCols - borderPadding; w > 0 {
		return w
	}
	return 0
}

// Draw renders f and hands it to w in exactly one Write.
func Draw(w io.Writer, f Frame) error {
	var ab AppendBuffer
	AppendFrame(&ab, f)
	if err := ab.Flush(w); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// AppendFrame appends the escape sequences for f to ab.
func AppendFrame(ab *AppendBuffer, f Frame) {
	ab.WriteString(terminal.SeqHideCursor)
	ab.WriteString(terminal.SeqHome)

	appendBorder(ab, f.ScreenCols)
	for y := 0; y < f.ScreenRows; y++ {
		ab.WriteString("|")
		filerow := f.RowOff + y
		if filerow < 0 || filerow >= len(f.Rows) {
			ab.Repeat(' ', f.ScreenCols-2)
		} else {
			appendRow(ab, f, f.Rows[filerow], y == f.CursorY)
		}
		ab.WriteString("|\r\n")
	}
	appendBorder(ab, f.ScreenCols)

	ab.WriteString(terminal.SeqClearLine)
	if f.Status != "" {
		ab.WriteString(textutil.Truncate(f.Status, f.ScreenCols))
	}

	// Row 1 is the top border and column 3 is the first text column.
	ab.CursorTo(f.CursorY+2, 3)
}

func appendBorder(ab *AppendBuffer, cols int) {
	ab.WriteString("+")
	ab.Repeat('-', cols-2)
	ab.WriteString("+\r\n")
}

func appendRow(ab *AppendBuffer, f Frame, r *rows.Row, selected bool) {
	if selected {
		ab.WriteString(terminal.SeqReverse)
	}
	ab.WriteString(" ")
	ab.WriteString(RowText(r, f.ColOff, ContentWidth(f.ScreenCols), f.Suffix))
	ab.WriteString(" ")
	if selected {
		ab.WriteString(terminal.SeqAttrReset)
	}
}

// RowText lays out one row's display text in exactly width columns: the
// render text scrolled by coloff, padding, then the type suffix. Text too
// wide for the interior is truncated, suffix included.
func RowText(r *rows.Row, coloff, width int, suffix func(string) string) string {
	if width <= 0 {
		return ""
	}
	text := r.Render
	if coloff > 0 {
		text = textutil.SkipColumns(text, coloff)
	}
	label := ""
	if suffix != nil {
		label = suffix(r.Text)
	}

	var sb strings.Builder
	sb.WriteString(text)
	if gap := width - textutil.DisplayWidth(text) - textutil.DisplayWidth(label); gap > 0 {
		sb.WriteString(strings.Repeat(" ", gap))
	}
	sb.WriteString(label)
	return textutil.Fit(sb.String(), width)
}
