// Package shell is the line-oriented command interpreter.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kk-code-lab/rshell/internal/applog"
	fsutil "github.com/kk-code-lab/rshell/internal/fs"
)

// Handler runs a command. args[0] is the command name.
type Handler func(s *Shell, args []string)

// Command binds a name to its handler. A nil Handler marks the command that
// ends the session.
type Command struct {
	Name    string
	Handler Handler
}

// IsExit reports whether c is the terminate sentinel.
func (c *Command) IsExit() bool {
	return c != nil && c.Handler == nil
}

// HelpEntry documents one command. Entries with an empty Summary are hidden
// from the listing. An alias sets AliasOf and shows that command's help.
type HelpEntry struct {
	Name    string
	Summary string
	Usage   string
	AliasOf string
}

// BrowseFunc opens the directory browser at dir.
type BrowseFunc func(ctx context.Context, dir string) error

// Options configures a Shell. Zero fields get defaults.
type Options struct {
	Out     io.Writer
	Lines   LineReader
	MaxArgs int
	Version string
	// Prompt is restored on Lines after a confirmation question.
	Prompt string

	// Root is the host directory that "/" refers to.
	Root       string
	Extensions fsutil.Extensions
	Browse     BrowseFunc

	Log logrus.FieldLogger
	Now func() time.Time
}

// Shell dispatches command lines against a fixed command table.
type Shell struct {
	Out io.Writer

	lines       LineReader
	prompt      string
	commands    []Command
	help        []HelpEntry
	helpOrder   []int
	interactive bool
	maxArgs     int
	version     string

	root   string
	lister fsutil.Lister
	exts   fsutil.Extensions
	browse BrowseFunc

	ctx context.Context
	log logrus.FieldLogger
	now func() time.Time
}

// New builds a shell with the built-in command table.
func New(opts Options) *Shell {
	s := &Shell{
		Out:     opts.Out,
		lines:   opts.Lines,
		prompt:  opts.Prompt,
		maxArgs: opts.MaxArgs,
		version: opts.Version,
		root:    opts.Root,
		exts:    opts.Extensions,
		browse:  opts.Browse,
		log:     opts.Log,
		now:     opts.Now,
		ctx:     context.Background(),
	}
	if s.Out == nil {
		s.Out = io.Discard
	}
	if s.maxArgs <= 0 {
		s.maxArgs = MaxArgs
	}
	if s.version == "" {
		s.version = "dev"
	}
	if s.root == "" {
		s.root = "/"
	}
	if s.exts == nil {
		s.exts = fsutil.DefaultExtensions
	}
	if s.log == nil {
		s.log = applog.Discard()
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.lister = fsutil.NewOSLister(s.root)
	s.commands, s.help = builtins()
	s.helpOrder = alphabetize(s.help)
	return s
}

// Interactive reports whether the running command came from the prompt.
func (s *Shell) Interactive() bool { return s.interactive }

// Commands returns the command table in registration order.
func (s *Shell) Commands() []Command { return s.commands }

func (s *Shell) printf(format string, args ...any) {
	fmt.Fprintf(s.Out, format, args...)
}

// Execute tokenizes line and runs the first command whose name matches
// exactly. It returns the matched command, or nil when nothing ran. The exit
// sentinel is returned without being run.
func (s *Shell) Execute(line string, interactive bool) *Command {
	args, err := Tokenize(line, s.maxArgs)
	switch {
	case errors.Is(err, ErrUnbalancedQuote):
		s.printf("Invalid quoted string\n")
		return nil
	case errors.Is(err, ErrTooManyArgs):
		s.printf("Error: too many arguments\n")
		return nil
	case err != nil || len(args) == 0:
		return nil
	}

	prev := s.interactive
	s.interactive = interactive
	defer func() { s.interactive = prev }()

	for i := range s.commands {
		cmd := &s.commands[i]
		if cmd.Name != args[0] {
			continue
		}
		if cmd.Handler != nil {
			s.log.WithField("command", cmd.Name).Debug("executing")
			cmd.Handler(s, args)
		}
		return cmd
	}
	s.printf("Invalid command, type 'help' for help\n")
	return nil
}

// Exec runs command non-interactively, as scripts and startup do. The
// caller's mode is restored afterwards.
func (s *Shell) Exec(command string) *Command {
	return s.Execute(strings.Clone(command), false)
}

// Run prints the banner and reads commands until EOF, exit, or ctx is done.
func (s *Shell) Run(ctx context.Context) error {
	if s.lines == nil {
		return errors.New("shell has no input")
	}
	prevCtx := s.ctx
	s.ctx = ctx
	defer func() { s.ctx = prevCtx }()

	s.printf("\n")
	s.Exec("ver")
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, err := s.lines.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.printf("\n")
				return nil
			}
			return fmt.Errorf("read line: %w", err)
		}
		if line == "" {
			continue
		}
		if cmd := s.Execute(line, true); cmd.IsExit() {
			return nil
		}
	}
}
