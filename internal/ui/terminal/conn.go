// Package terminal talks to a VT100-style terminal over a raw byte transport.
package terminal

import (
	"errors"
	"fmt"
	"io"
	"time"
)

// ErrNoTerminal is returned when no interactive terminal can be opened.
var ErrNoTerminal = errors.New("no terminal available")

// Conn is a raw byte transport to a terminal.
type Conn interface {
	io.Writer

	// ReadTimeout reads into p, waiting at most d for the first byte. A
	// negative d waits indefinitely. It returns 0 and a nil error when no
	// data arrived in time; a closed transport reports an error instead.
	ReadTimeout(p []byte, d time.Duration) (int, error)

	// Size reports the terminal dimensions as known to the platform.
	Size() (cols, rows int, err error)

	Close() error
}

// Backend names accepted by Open.
const (
	BackendTTY   = "tty"
	BackendTcell = "tcell"
)

// Open puts the controlling terminal into raw mode using the named backend.
func Open(backend string) (Conn, error) {
	switch backend {
	case "", BackendTTY:
		return openTTY()
	case BackendTcell:
		return openTcell()
	default:
		return nil, fmt.Errorf("unknown terminal backend %q", backend)
	}
}

// Reader adapts a Conn to a blocking io.Reader.
func Reader(c Conn) io.Reader {
	return blockingReader{c}
}

type blockingReader struct {
	c Conn
}

func (r blockingReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	for {
		n, err := r.c.ReadTimeout(p, -1)
		if n > 0 || err != nil {
			return n, err
		}
	}
}
