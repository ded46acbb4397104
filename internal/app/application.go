// Package app wires configuration, logging and the terminal into the shell
// and the browser.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/kk-code-lab/rshell/internal/applog"
	"github.com/kk-code-lab/rshell/internal/browse"
	"github.com/kk-code-lab/rshell/internal/config"
	fsutil "github.com/kk-code-lab/rshell/internal/fs"
	"github.com/kk-code-lab/rshell/internal/media"
	"github.com/kk-code-lab/rshell/internal/shell"
	"github.com/kk-code-lab/rshell/internal/ui/terminal"
)

// Options are command-line overrides applied on top of the config file.
type Options struct {
	ConfigPath string
	Backend    string
	LogFile    string
	Version    string

	Stdin  io.Reader
	Stdout io.Writer
}

// Application represents the running program.
type Application struct {
	cfg       config.Config
	log       *logrus.Logger
	logCloser io.Closer
	version   string

	stdin  io.Reader
	stdout io.Writer

	openTerminal func(backend string) (terminal.Conn, error)
	isTerminal   func(r io.Reader) bool
}

// NewApplication loads the configuration and opens the log.
func NewApplication(opts Options) (*Application, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if b := strings.TrimSpace(opts.Backend); b != "" {
		cfg.Backend = strings.ToLower(b)
	}
	if opts.LogFile != "" {
		cfg.LogFile = opts.LogFile
	}

	log, closer, err := applog.New(cfg.LogFile)
	if err != nil {
		return nil, err
	}

	app := &Application{
		cfg:          cfg,
		log:          log,
		logCloser:    closer,
		version:      opts.Version,
		stdin:        opts.Stdin,
		stdout:       opts.Stdout,
		openTerminal: terminal.Open,
		isTerminal:   isTerminal,
	}
	if app.stdin == nil {
		app.stdin = os.Stdin
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	log.WithFields(logrus.Fields{
		"root":    cfg.Root,
		"backend": cfg.Backend,
	}).Info("rshell starting")
	return app, nil
}

// Config returns the resolved configuration.
func (app *Application) Config() config.Config {
	return app.cfg
}

// Close releases the log file.
func (app *Application) Close() error {
	app.log.Info("rshell exiting")
	return app.logCloser.Close()
}

// RunShell runs the interactive shell. With a terminal on stdin the line
// editor works in raw mode over the configured backend; otherwise lines are
// read plainly from stdin and browsing is unavailable.
func (app *Application) RunShell(ctx context.Context) error {
	if !app.isTerminal(app.stdin) {
		app.log.Info("stdin is not a terminal, reading plain lines")
		sh := app.newShell(app.stdout, shell.NewPlainReader(app.stdin, app.stdout, app.cfg.Prompt), app.cfg.Prompt, nil)
		return sh.Run(ctx)
	}

	conn, err := app.openTerminal(app.cfg.Backend)
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			app.log.WithError(err).Warn("failed to restore terminal")
		}
	}()

	rw := struct {
		io.Reader
		io.Writer
	}{terminal.Reader(conn), conn}
	editor := shell.NewTerminalReader(rw, app.cfg.Prompt)
	if cols, rows, err := conn.Size(); err == nil {
		_ = editor.SetSize(cols, rows)
	}

	sh := app.newShell(editor, editor, app.cfg.Prompt, app.browseOn(conn))
	return sh.Run(ctx)
}

// RunCommands executes each command non-interactively and stops at exit.
func (app *Application) RunCommands(ctx context.Context, commands []string) error {
	sh := app.newShell(app.stdout, shell.NewPlainReader(app.stdin, app.stdout, ""), "", app.Browse)
	for _, command := range commands {
		if err := ctx.Err(); err != nil {
			return err
		}
		if cmd := sh.Exec(command); cmd.IsExit() {
			break
		}
	}
	return nil
}

// Browse opens the terminal and browses from dir, or from the configured
// start directory when dir is empty.
func (app *Application) Browse(ctx context.Context, dir string) error {
	if dir == "" {
		dir = app.cfg.StartDir
	}
	conn, err := app.openTerminal(app.cfg.Backend)
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	defer conn.Close()
	return app.browseOn(conn)(ctx, dir)
}

func (app *Application) browseOn(conn terminal.Conn) shell.BrowseFunc {
	return func(ctx context.Context, dir string) error {
		b, err := browse.New(conn, browse.Options{
			Lister:        fsutil.NewOSLister(app.cfg.Root),
			Extensions:    app.extensions(),
			Prober:        media.BeepProber{FS: os.DirFS(app.cfg.Root)},
			Log:           app.log.WithField("component", "browse"),
			EscapeTimeout: app.cfg.EscapeTimeout,
			StatusTimeout: app.cfg.StatusTimeout,
		})
		if err != nil {
			return err
		}
		err = b.Run(ctx, dir)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}
}

func (app *Application) newShell(out io.Writer, lines shell.LineReader, prompt string, browseFn shell.BrowseFunc) *shell.Shell {
	return shell.New(shell.Options{
		Out:        out,
		Lines:      lines,
		Prompt:     prompt,
		MaxArgs:    app.cfg.MaxArgs,
		Version:    app.version,
		Root:       app.cfg.Root,
		Extensions: app.extensions(),
		Browse:     browseFn,
		Log:        app.log.WithField("component", "shell"),
	})
}

func (app *Application) extensions() fsutil.Extensions {
	return fsutil.NewExtensions(app.cfg.Extensions...)
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
