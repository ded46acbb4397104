package shell

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"golang.org/x/term"
)

// LineReader yields one input line at a time without its terminator.
type LineReader interface {
	ReadLine() (string, error)
}

// NewTerminalReader returns a line editor over a raw-mode terminal. The
// returned terminal is also the writer shell output should go through, as it
// translates newlines for raw mode.
func NewTerminalReader(rw io.ReadWriter, prompt string) *term.Terminal {
	return term.NewTerminal(rw, prompt)
}

type plainReader struct {
	r      *bufio.Reader
	out    io.Writer
	prompt string
}

// NewPlainReader reads lines from r, printing prompt to out before each one.
func NewPlainReader(r io.Reader, out io.Writer, prompt string) LineReader {
	return &plainReader{r: bufio.NewReader(r), out: out, prompt: prompt}
}

func (p *plainReader) ReadLine() (string, error) {
	if p.out != nil && p.prompt != "" {
		fmt.Fprint(p.out, p.prompt)
	}
	line, err := p.r.ReadString('\n')
	if err != nil && (line == "" || err != io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// SetPrompt replaces the prompt printed before the next line.
func (p *plainReader) SetPrompt(prompt string) {
	p.prompt = prompt
}
