//go:build !windows && !plan9 && !js && !wasip1

package terminal

import (
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

type ttyConn struct {
	file    *os.File
	fd      int
	restore *term.State
}

func openTTY() (Conn, error) {
	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoTerminal, err)
	}
	fd := int(tty.Fd())
	state, err := term.MakeRaw(fd)
	if err != nil {
		_ = tty.Close()
		return nil, fmt.Errorf("enable raw mode: %w", err)
	}
	return &ttyConn{file: tty, fd: fd, restore: state}, nil
}

func (c *ttyConn) Write(p []byte) (int, error) {
	return c.file.Write(p)
}

func (c *ttyConn) ReadTimeout(p []byte, d time.Duration) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	for {
		var readfds unix.FdSet
		fdSetAdd(&readfds, c.fd)
		var tv *unix.Timeval
		if d >= 0 {
			t := unix.NsecToTimeval(d.Nanoseconds())
			tv = &t
		}
		n, err := unix.Select(c.fd+1, &readfds, nil, nil, tv)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return 0, err
		}
		if n == 0 || !fdSetHas(&readfds, c.fd) {
			return 0, nil
		}
		rn, err := unix.Read(c.fd, p)
		if err == unix.EINTR || err == unix.EAGAIN {
			continue
		}
		if err != nil {
			return 0, err
		}
		if rn == 0 {
			return 0, io.EOF
		}
		return rn, nil
	}
}

func (c *ttyConn) Size() (int, int, error) {
	return term.GetSize(c.fd)
}

func (c *ttyConn) Close() error {
	var err error
	if c.restore != nil {
		err = term.Restore(c.fd, c.restore)
		c.restore = nil
	}
	if cerr := c.file.Close(); err == nil {
		err = cerr
	}
	return err
}

func fdSetAdd(set *unix.FdSet, fd int) {
	if fd < 0 {
		return
	}
	set.Bits[fd/64] |= 1 << (uint(fd) % 64)
}

func fdSetHas(set *unix.FdSet, fd int) bool {
	if fd < 0 {
		return false
	}
	return set.Bits[fd/64]&(1<<(uint(fd)%64)) != 0
}
