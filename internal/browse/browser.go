// Package browse implements the full-screen directory browser.
package browse

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kk-code-lab/rshell/internal/applog"
	fsutil "github.com/kk-code-lab/rshell/internal/fs"
	"github.com/kk-code-lab/rshell/internal/media"
	"github.com/kk-code-lab/rshell/internal/rows"
	"github.com/kk-code-lab/rshell/internal/ui/render"
	"github.com/kk-code-lab/rshell/internal/ui/terminal"
)

// ErrNoContext is returned when a browser cannot be built.
var ErrNoContext = errors.New("browser needs a terminal")

const (
	helpMessage = "HELP: up/down = move | q = quit | ENTER = open"
	upDir       = "../"

	defaultScreenRows = 24
	defaultScreenCols = 80

	// Rows taken by the two borders and the status line.
	chromeRows = 3

	DefaultStatusTimeout = 5 * time.Second
)

// Options wires the browser to its collaborators. Zero fields get defaults.
type Options struct {
	Lister        fsutil.Lister
	Extensions    fsutil.Extensions
	Prober        media.Prober
	Estimator     media.Estimator
	Log           logrus.FieldLogger
	Clock         func() time.Time
	EscapeTimeout time.Duration
	StatusTimeout time.Duration
}

// Browser is the state of one browsing session.
type Browser struct {
	cx, cy     int
	rowoff     int
	coloff     int
	screenrows int
	screencols int

	store *rows.Store
	dir   string

	status     string
	statusTime time.Time

	conn       terminal.Conn
	infoActive bool
	scanErr    error

	lister        fsutil.Lister
	exts          fsutil.Extensions
	prober        media.Prober
	estimator     media.Estimator
	log           logrus.FieldLogger
	clock         func() time.Time
	escapeTimeout time.Duration
	statusTimeout time.Duration
}

// New builds a browser over conn.
func New(conn terminal.Conn, opts Options) (*Browser, error) {
	if conn == nil {
		return nil, ErrNoContext
	}
	if opts.Lister == nil {
		return nil, fmt.Errorf("%w: no directory lister", ErrNoContext)
	}

	b := &Browser{
		conn:          conn,
		dir:           "/",
		lister:        opts.Lister,
		exts:          opts.Extensions,
		prober:        opts.Prober,
		estimator:     opts.Estimator,
		log:           opts.Log,
		clock:         opts.Clock,
		escapeTimeout: opts.EscapeTimeout,
		statusTimeout: opts.StatusTimeout,
	}
	if b.exts == nil {
		b.exts = fsutil.DefaultExtensions
	}
	if b.estimator == nil {
		b.estimator = media.NoEstimator{}
	}
	if b.log == nil {
		b.log = applog.Discard()
	}
	if b.clock == nil {
		b.clock = time.Now
	}
	if b.escapeTimeout <= 0 {
		b.escapeTimeout = terminal.DefaultEscapeTimeout
	}
	if b.statusTimeout <= 0 {
		b.statusTimeout = DefaultStatusTimeout
	}
	b.store = rows.NewStore(b.log)
	return b, nil
}

// Run browses from dir until the user quits, the transport closes, or ctx is
// cancelled. Cancellation is noticed between keypresses.
func (b *Browser) Run(ctx context.Context, dir string) error {
	b.dir = normalizeDir(dir)
	defer b.store.Reset()

	b.updateWindowSize()
	b.setStatus(helpMessage)

	b.write(terminal.SeqClearScreen + terminal.SeqHome + terminal.SeqKeypadApp)
	defer b.write(terminal.SeqClearScreen + terminal.SeqHome + terminal.SeqKeypadNum + terminal.SeqShowCursor)

	b.rescan()

	for {
		if err := b.refresh(); err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		key, err := terminal.ReadKey(b.conn, b.escapeTimeout)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read key: %w", err)
		}
		if !b.processKey(key) {
			return nil
		}
	}
}

// Path is the current directory without its trailing slash.
func (b *Browser) Path() string {
	if b.dir == "/" {
		return b.dir
	}
	return strings.TrimSuffix(b.dir, "/")
}

// InfoActive reports whether the file info screen is showing.
func (b *Browser) InfoActive() bool { return b.infoActive }

// ScanErr is the failure of the most recent directory scan, if any. It tells
// an unreadable directory apart from an empty one.
func (b *Browser) ScanErr() error { return b.scanErr }

// Rows exposes the current screen model.
func (b *Browser) Rows() *rows.Store { return b.store }

// Status returns the status message if it is still current.
func (b *Browser) Status() string {
	if b.status == "" || b.clock().Sub(b.statusTime) >= b.statusTimeout {
		return ""
	}
	return b.status
}

func (b *Browser) setStatus(format string, args ...any) {
	b.status = fmt.Sprintf(format, args...)
	b.statusTime = b.clock()
}

func (b *Browser) refresh() error {
	return render.Draw(b.conn, render.Frame{
		Rows:       b.store.Rows(),
		RowOff:     b.rowoff,
		ColOff:     b.coloff,
		ScreenRows: b.screenrows,
		ScreenCols: b.screencols,
		CursorY:    b.cy,
		Status:     b.Status(),
		Suffix:     b.exts.Match,
	})
}

func (b *Browser) write(s string) {
	if _, err := io.WriteString(b.conn, s); err != nil {
		b.log.WithError(err).Warn("terminal write failed")
	}
}

// updateWindowSize asks the terminal for its size, keeping the platform's
// answer (or 24x80) when the query fails.
func (b *Browser) updateWindowSize() {
	rowsN, cols := defaultScreenRows, defaultScreenCols
	if c, r, err := b.conn.Size(); err == nil && c > 0 && r > 0 {
		rowsN, cols = r, c
	}
	if r, c, err := terminal.WindowSize(b.conn, b.escapeTimeout, b.log); err == nil && r > 0 && c > 0 {
		rowsN, cols = r, c
	} else if err != nil {
		b.log.WithError(err).Debug("window size query failed")
	}
	b.screencols = cols
	b.screenrows = rowsN - chromeRows
	if b.screenrows < 1 {
		b.screenrows = 1
	}
}

// normalizeDir turns any path into the browser's "/a/b/" form.
func normalizeDir(dir string) string {
	cleaned := path.Clean("/" + strings.TrimSpace(dir))
	if cleaned == "/" {
		return cleaned
	}
	return cleaned + "/"
}

// parentDir strips the last component of a "/a/b/" path. The root is its own
// parent.
func parentDir(dir string) string {
	if dir == "/" {
		return dir
	}
	trimmed := strings.TrimSuffix(dir, "/")
	return trimmed[:strings.LastIndexByte(trimmed, '/')+1]
}
