package shell

import (
	"errors"
	"strings"
)

// MaxArgs is the default bound on arguments per line, command name included.
const MaxArgs = 16

// altSpace stands in for spaces inside quotes while the line is split.
const altSpace = '\x07'

var (
	ErrUnbalancedQuote = errors.New("invalid quoted string")
	ErrTooManyArgs     = errors.New("too many arguments")
)

// Tokenize splits a command line into at most max arguments. Single or
// double quotes group words, and quotes wrapping a whole argument are
// removed. An empty or blank line yields no arguments and no error.
func Tokenize(line string, max int) ([]string, error) {
	if line == "" {
		return nil, nil
	}
	if max <= 0 {
		max = MaxArgs
	}

	buf := []byte(line)
	for i, c := range buf {
		if c == '\r' || c == '\n' || c == '\t' {
			buf[i] = ' '
		}
	}

	inQuotes := false
	var quote byte
	for i, c := range buf {
		switch {
		case c == '\'' || c == '"':
			if !inQuotes {
				inQuotes, quote = true, c
			} else if c == quote {
				inQuotes, quote = false, 0
			}
		case c == ' ' && inQuotes:
			buf[i] = altSpace
		}
	}
	if inQuotes {
		return nil, ErrUnbalancedQuote
	}

	collapsed := make([]byte, 0, len(buf))
	for i, c := range buf {
		if c == ' ' && i > 0 && buf[i-1] == ' ' {
			continue
		}
		collapsed = append(collapsed, c)
	}
	if string(collapsed) == " " {
		return nil, nil
	}
	s := string(collapsed)
	s = strings.TrimSuffix(s, " ")
	s = strings.TrimPrefix(s, " ")

	args := strings.Split(s, " ")
	if len(args) > max {
		return nil, ErrTooManyArgs
	}
	for i, arg := range args {
		arg = strings.ReplaceAll(arg, string(rune(altSpace)), " ")
		if n := len(arg); n > 0 && (arg[0] == '\'' || arg[0] == '"') && arg[0] == arg[n-1] {
			if n == 1 {
				arg = ""
			} else {
				arg = arg[1 : n-1]
			}
		}
		args[i] = arg
	}
	return args, nil
}
