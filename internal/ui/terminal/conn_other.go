//go:build windows || plan9 || js || wasip1

package terminal

func openTTY() (Conn, error) {
	return nil, ErrNoTerminal
}

func openTcell() (Conn, error) {
	return nil, ErrNoTerminal
}
