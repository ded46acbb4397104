//go:build !windows && !plan9 && !js && !wasip1

package terminal

import (
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
)

// tcellConn drives the terminal through tcell's Tty. tcell reads block, so a
// pump goroutine feeds a channel that ReadTimeout selects on.
type tcellConn struct {
	tty     tcell.Tty
	data    chan []byte
	errc    chan error
	done    chan struct{}
	pending []byte
	once    sync.Once
}

func openTcell() (Conn, error) {
	tty, err := tcell.NewDevTty()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoTerminal, err)
	}
	if err := tty.Start(); err != nil {
		_ = tty.Close()
		return nil, fmt.Errorf("start tty: %w", err)
	}
	c := &tcellConn{
		tty:  tty,
		data: make(chan []byte, 16),
		errc: make(chan error, 1),
		done: make(chan struct{}),
	}
	go c.pump()
	return c, nil
}

func (c *tcellConn) pump() {
	buf := make([]byte, 128)
	for {
		n, err := c.tty.Read(buf)
		if n > 0 {
			chunk := append([]byte(nil), buf[:n]...)
			select {
			case c.data <- chunk:
			case <-c.done:
				return
			}
		}
		if err != nil {
			select {
			case c.errc <- err:
			default:
			}
			return
		}
		if n == 0 {
			select {
			case <-c.done:
				return
			default:
			}
		}
	}
}

func (c *tcellConn) Write(p []byte) (int, error) {
	return c.tty.Write(p)
}

func (c *tcellConn) ReadTimeout(p []byte, d time.Duration) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if len(c.pending) == 0 {
		var timeout <-chan time.Time
		if d >= 0 {
			timer := time.NewTimer(d)
			defer timer.Stop()
			timeout = timer.C
		}
		select {
		case chunk := <-c.data:
			c.pending = chunk
		case err := <-c.errc:
			return 0, err
		case <-timeout:
			return 0, nil
		}
	}
	n := copy(p, c.pending)
	c.pending = c.pending[n:]
	return n, nil
}

func (c *tcellConn) Size() (int, int, error) {
	ws, err := c.tty.WindowSize()
	if err != nil {
		return 0, 0, err
	}
	return ws.Width, ws.Height, nil
}

func (c *tcellConn) Close() error {
	var err error
	c.once.Do(func() {
		close(c.done)
		_ = c.tty.Drain()
		err = c.tty.Stop()
		if cerr := c.tty.Close(); err == nil {
			err = cerr
		}
	})
	return err
}
