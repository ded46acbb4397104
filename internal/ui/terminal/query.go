package terminal

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	// ErrReportOverflow means the terminal sent more than a cursor report
	// can hold without terminating it.
	ErrReportOverflow = errors.New("cursor position report too long")
	// ErrMalformedReport means the reply was not ESC [ row ; col R.
	ErrMalformedReport = errors.New("malformed cursor position report")
)

const reportBufferSize = 32

func cursorReport(row, col int) string {
	return "\x1b[" + strconv.Itoa(row) + ";" + strconv.Itoa(col) + "R"
}

// CursorPosition asks the terminal where the cursor is. Each reply byte is
// awaited for at most wait.
func CursorPosition(c Conn, wait time.Duration) (row, col int, err error) {
	if _, err := io.WriteString(c, SeqQueryCursor); err != nil {
		return 0, 0, fmt.Errorf("query cursor: %w", err)
	}

	var buf [reportBufferSize]byte
	n := 0
	terminated := false
	for n < len(buf)-1 {
		rn, err := c.ReadTimeout(buf[n:n+1], wait)
		if err != nil {
			return 0, 0, fmt.Errorf("read cursor report: %w", err)
		}
		if rn != 1 {
			break
		}
		if buf[n] == 'R' {
			terminated = true
			break
		}
		n++
	}
	if !terminated {
		if n >= len(buf)-1 {
			return 0, 0, ErrReportOverflow
		}
		return 0, 0, ErrMalformedReport
	}
	return parseReport(buf[:n])
}

func parseReport(b []byte) (int, int, error) {
	if len(b) < 2 || b[0] != 0x1b || b[1] != '[' {
		return 0, 0, ErrMalformedReport
	}
	rowPart, colPart, ok := bytes.Cut(b[2:], []byte{';'})
	if !ok {
		return 0, 0, ErrMalformedReport
	}
	row, err := strconv.Atoi(string(rowPart))
	if err != nil || row < 0 {
		return 0, 0, ErrMalformedReport
	}
	col, err := strconv.Atoi(string(colPart))
	if err != nil || col < 0 {
		return 0, 0, ErrMalformedReport
	}
	return row, col, nil
}

// WindowSize measures the terminal by pushing the cursor to the bottom-right
// corner and asking where it landed. The original cursor position is
// restored afterwards; a failed restore is only logged.
func WindowSize(c Conn, wait time.Duration, log logrus.FieldLogger) (rows, cols int, err error) {
	origRow, origCol, err := CursorPosition(c, wait)
	if err != nil {
		return 0, 0, fmt.Errorf("read cursor position: %w", err)
	}
	if _, err := io.WriteString(c, SeqCursorFar); err != nil {
		return 0, 0, fmt.Errorf("move cursor: %w", err)
	}
	rows, cols, err = CursorPosition(c, wait)
	if err != nil {
		return 0, 0, fmt.Errorf("read window corner: %w", err)
	}
	if _, werr := io.WriteString(c, CursorTo(origRow, origCol)); werr != nil && log != nil {
		log.WithError(werr).Warn("restore cursor position")
	}
	return rows, cols, nil
}
