package terminal

import (
	"bytes"
	"io"
	"sync"
	"time"
)

// MemConn is an in-memory Conn for scripted sessions. Reads drain Input;
// once it is empty a timed read reports no data and a blocking read
// reports io.EOF.
type MemConn struct {
	mu     sync.Mutex
	input  []byte
	Out    bytes.Buffer
	Writes int
	Cols   int
	Rows   int
	// OnWrite may return a reply to each write. The reply is read before
	// any input still queued, as a terminal answering a query would be.
	OnWrite func(p []byte) []byte
	closed  bool
}

// NewMemConn returns a MemConn of the given size with input queued.
func NewMemConn(cols, rows int, input string) *MemConn {
	return &MemConn{input: []byte(input), Cols: cols, Rows: rows}
}

// Feed queues more input.
func (m *MemConn) Feed(s string) {
	m.mu.Lock()
	m.input = append(m.input, s...)
	m.mu.Unlock()
}

func (m *MemConn) Write(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return 0, io.ErrClosedPipe
	}
	m.Writes++
	n, err := m.Out.Write(p)
	if m.OnWrite != nil {
		if reply := m.OnWrite(p); len(reply) > 0 {
			m.input = append(reply, m.input...)
		}
	}
	return n, err
}

func (m *MemConn) ReadTimeout(p []byte, d time.Duration) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return 0, io.EOF
	}
	if len(m.input) == 0 {
		if d < 0 {
			return 0, io.EOF
		}
		return 0, nil
	}
	n := copy(p, m.input)
	m.input = m.input[n:]
	return n, nil
}

func (m *MemConn) Size() (int, int, error) {
	if m.Cols <= 0 || m.Rows <= 0 {
		return 0, 0, ErrNoTerminal
	}
	return m.Cols, m.Rows, nil
}

func (m *MemConn) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}

// AnswerCursorQueries returns an OnWrite hook that replies to every cursor
// position query with the given 1-based position.
func AnswerCursorQueries(row, col int) func([]byte) []byte {
	report := []byte(cursorReport(row, col))
	query := []byte(SeqQueryCursor)
	return func(p []byte) []byte {
		var out []byte
		for i := bytes.Count(p, query); i > 0; i-- {
			out = append(out, report...)
		}
		return out
	}
}
