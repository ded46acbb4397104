package render

import (
	"io"

	"github.com/kk-code-lab/rshell/internal/ui/terminal"
)

// AppendBuffer accumulates one frame of terminal output so it can be
// flushed with a single write.
type AppendBuffer struct {
	b []byte
}

func (ab *AppendBuffer) WriteString(s string) {
	ab.b = append(ab.b, s...)
}

func (ab *AppendBuffer) WriteByte(c byte) error {
	ab.b = append(ab.b, c)
	return nil
}

// Repeat appends c n times. Non-positive counts append nothing.
func (ab *AppendBuffer) Repeat(c byte, n int) {
	for ; n > 0; n-- {
		ab.b = append(ab.b, c)
	}
}

// CursorTo appends a 1-based cursor positioning sequence.
func (ab *AppendBuffer) CursorTo(row, col int) {
	ab.b = terminal.AppendCursorTo(ab.b, row, col)
}

func (ab *AppendBuffer) Len() int { return len(ab.b) }

func (ab *AppendBuffer) Bytes() []byte { return ab.b }

// Flush writes everything in one call and releases the buffer.
func (ab *AppendBuffer) Flush(w io.Writer) error {
	defer ab.Reset()
	if len(ab.b) == 0 {
		return nil
	}
	_, err := w.Write(ab.b)
	return err
}

func (ab *AppendBuffer) Reset() {
	ab.b = nil
}
