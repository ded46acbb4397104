package browse

import (
	"context"
	"errors"
	"io"
	iofs "io/fs"
	"reflect"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/sirupsen/logrus"

	fsutil "github.com/kk-code-lab/rshell/internal/fs"
	"github.com/kk-code-lab/rshell/internal/media"
	"github.com/kk-code-lab/rshell/internal/rows"
	"github.com/kk-code-lab/rshell/internal/ui/terminal"
)

type fakeProber struct {
	length time.Duration
	err    error
	asked  []string
}

func (p *fakeProber) Length(name string) (time.Duration, error) {
	p.asked = append(p.asked, name)
	return p.length, p.err
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

// decomposed spells "été.wav" with combining accents.
const decomposed = "e\u0301te\u0301.wav"

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"intro.wav":         &fstest.MapFile{},
		"readme.txt":        &fstest.MapFile{},
		"music/B.mp3":       &fstest.MapFile{},
		"music/a.wav":       &fstest.MapFile{},
		"music/notes.txt":   &fstest.MapFile{},
		"music/.hidden.wav": &fstest.MapFile{},
		"music/Zdir/x.wav":  &fstest.MapFile{},
		"music/adir/y.mp3":  &fstest.MapFile{},
		"music/.git/config": &fstest.MapFile{},
		"music/été.wav":   &fstest.MapFile{},
	}
}

func newTestBrowser(t *testing.T, conn terminal.Conn, prober media.Prober) (*Browser, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	b, err := New(conn, Options{
		Lister: &fsutil.FSLister{FS: testFS()},
		Prober: prober,
		Clock:  clock.Now,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	b.screenrows = 5
	b.screencols = 40
	return b, clock
}

func rowTexts(s *rows.Store) []string {
	out := make([]string, 0, s.Len())
	for _, r := range s.Rows() {
		out = append(out, r.Text)
	}
	return out
}

func TestNewWithoutTerminal(t *testing.T) {
	if _, err := New(nil, Options{Lister: &fsutil.FSLister{FS: testFS()}}); !errors.Is(err, ErrNoContext) {
		t.Fatalf("expected ErrNoContext, got %v", err)
	}
	if _, err := New(terminal.NewMemConn(80, 24, ""), Options{}); !errors.Is(err, ErrNoContext) {
		t.Fatalf("expected ErrNoContext without a lister, got %v", err)
	}
}

func TestScanFiltersAndSorts(t *testing.T) {
	b, _ := newTestBrowser(t, terminal.NewMemConn(80, 24, ""), nil)
	b.dir = "/music/"
	if err := b.scan(b.dir); err != nil {
		t.Fatalf("scan: %v", err)
	}
	want := []string{"../", "adir/", "Zdir/", "a.wav", "B.mp3", decomposed}
	if got := rowTexts(b.store); !reflect.DeepEqual(got, want) {
		t.Fatalf("scan rows = %q, want %q", got, want)
	}
	if got := b.store.At(5).Render; got != "\u00e9t\u00e9.wav" {
		t.Fatalf("render should be NFC, got %q", got)
	}
	if !b.store.At(0).IsDir() || !b.store.At(3).IsFile() {
		t.Fatalf("unexpected classification")
	}
}

func TestScanRootHasNoUpRow(t *testing.T) {
	b, _ := newTestBrowser(t, terminal.NewMemConn(80, 24, ""), nil)
	if err := b.scan("/"); err != nil {
		t.Fatalf("scan: %v", err)
	}
	want := []string{"music/", "intro.wav"}
	if got := rowTexts(b.store); !reflect.DeepEqual(got, want) {
		t.Fatalf("root rows = %q, want %q", got, want)
	}
}

func TestScanFailureLeavesEmptyListing(t *testing.T) {
	b, _ := newTestBrowser(t, terminal.NewMemConn(80, 24, ""), nil)
	b.dir = "/missing/"
	b.rescan()

	if b.ScanErr() == nil {
		t.Fatalf("expected scan error")
	}
	if b.store.Len() != 0 {
		t.Fatalf("expected empty listing, got %q", rowTexts(b.store))
	}
	if got := b.Status(); got != "Cannot read /missing" {
		t.Fatalf("status = %q", got)
	}
	// Navigation on an empty store does nothing.
	for _, k := range []terminal.Key{terminal.KeyEnter, terminal.KeyArrowDown, terminal.KeyPageUp} {
		if !b.processKey(k) {
			t.Fatalf("key %d should not quit", k)
		}
	}
	if b.cy != 0 || b.rowoff != 0 {
		t.Fatalf("cursor moved on empty store: cy=%d rowoff=%d", b.cy, b.rowoff)
	}
}

func TestEmptyDirectoryIsNotAnError(t *testing.T) {
	fsys := testFS()
	fsys["empty"] = &fstest.MapFile{Mode: iofs.ModeDir | 0o755}
	b, _ := newTestBrowser(t, terminal.NewMemConn(80, 24, ""), nil)
	b.lister = &fsutil.FSLister{FS: fsys}
	b.dir = "/empty/"
	b.rescan()
	if b.ScanErr() != nil {
		t.Fatalf("unexpected scan error: %v", b.ScanErr())
	}
	if got := rowTexts(b.store); !reflect.DeepEqual(got, []string{"../"}) {
		t.Fatalf("rows = %q", got)
	}
}

func TestNavigationRoundTrip(t *testing.T) {
	b, _ := newTestBrowser(t, terminal.NewMemConn(80, 24, ""), nil)
	b.rescan()

	// "music/" is the first row at the root.
	b.processKey(terminal.KeyEnter)
	if b.dir != "/music/" || b.Path() != "/music" {
		t.Fatalf("dir = %q path = %q", b.dir, b.Path())
	}
	b.processKey(terminal.KeyArrowDown)
	b.processKey(terminal.KeyEnter)
	if b.dir != "/music/adir/" {
		t.Fatalf("dir = %q, want /music/adir/", b.dir)
	}
	if got := rowTexts(b.store); !reflect.DeepEqual(got, []string{"../", "y.mp3"}) {
		t.Fatalf("adir rows = %q", got)
	}

	b.processKey(terminal.KeyEnter)
	b.processKey(terminal.KeyEnter)
	if b.dir != "/" || b.Path() != "/" {
		t.Fatalf("expected to be back at root, got %q", b.dir)
	}
	if got := rowTexts(b.store); !reflect.DeepEqual(got, []string{"music/", "intro.wav"}) {
		t.Fatalf("root rows = %q", got)
	}
}

func TestCursorClampsAndScrolls(t *testing.T) {
	b, _ := newTestBrowser(t, terminal.NewMemConn(80, 24, ""), nil)
	b.screenrows = 3
	b.dir = "/music/"
	b.rescan()
	n := b.store.Len()

	b.processKey(terminal.KeyArrowUp)
	if b.cy != 0 || b.rowoff != 0 {
		t.Fatalf("up at top moved: cy=%d rowoff=%d", b.cy, b.rowoff)
	}
	for i := 0; i < 10; i++ {
		b.processKey(terminal.KeyArrowDown)
	}
	if b.rowoff+b.cy != n-1 {
		t.Fatalf("cursor row = %d, want last row %d", b.rowoff+b.cy, n-1)
	}
	if b.cy != b.screenrows-1 || b.rowoff != n-b.screenrows {
		t.Fatalf("cy=%d rowoff=%d", b.cy, b.rowoff)
	}

	b.processKey(terminal.KeyPageUp)
	if b.cy != 0 || b.rowoff != 2 {
		t.Fatalf("after page up cy=%d rowoff=%d", b.cy, b.rowoff)
	}
	b.processKey(terminal.KeyPageUp)
	if b.cy != 0 || b.rowoff != 0 {
		t.Fatalf("page up should stop at the top, cy=%d rowoff=%d", b.cy, b.rowoff)
	}
	b.processKey(terminal.KeyPageDown)
	if b.rowoff+b.cy != b.screenrows {
		t.Fatalf("page down moved to %d", b.rowoff+b.cy)
	}
}

func TestShowFileInfo(t *testing.T) {
	prober := &fakeProber{length: 3*time.Minute + 7*time.Second}
	b, _ := newTestBrowser(t, terminal.NewMemConn(80, 24, ""), prober)
	b.dir = "/music/"
	b.rescan()

	for b.store.At(b.rowoff+b.cy).Text != "a.wav" {
		b.processKey(terminal.KeyArrowDown)
	}
	b.processKey(terminal.KeyEnter)

	if !b.InfoActive() {
		t.Fatalf("expected info screen")
	}
	want := []string{"../", "", "a.wav", "", "  Length: 3:07", "  Key: Unknown", "  BPM: Unknown"}
	if got := rowTexts(b.store); !reflect.DeepEqual(got, want) {
		t.Fatalf("info rows = %q, want %q", got, want)
	}
	if !reflect.DeepEqual(prober.asked, []string{"music/a.wav"}) {
		t.Fatalf("prober asked for %q", prober.asked)
	}
	for i, r := range b.store.Rows()[1:] {
		if !r.IsInfo() || r.Name() != "" {
			t.Fatalf("row %d should be a nameless info row", i+1)
		}
	}

	// Movement is disabled on the info screen.
	b.processKey(terminal.KeyArrowDown)
	if b.cy != 0 {
		t.Fatalf("cursor moved on info screen")
	}

	// "../" walks up from the file's directory.
	b.processKey(terminal.KeyEnter)
	if b.InfoActive() || b.dir != "/" {
		t.Fatalf("expected listing of /, got dir=%q info=%v", b.dir, b.InfoActive())
	}
	if got, want := rowTexts(b.store), []string{"music/", "intro.wav"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("root listing = %q, want %q", got, want)
	}
}

func TestShowFileInfoUnknownLength(t *testing.T) {
	b, _ := newTestBrowser(t, terminal.NewMemConn(80, 24, ""), &fakeProber{err: media.ErrUnknownLength})
	b.rescan()
	b.processKey(terminal.KeyArrowDown)
	b.processKey(terminal.KeyEnter)
	if got := b.store.At(4).Text; got != "  Length: Unknown" {
		t.Fatalf("length row = %q", got)
	}
}

func TestStatusExpires(t *testing.T) {
	b, clock := newTestBrowser(t, terminal.NewMemConn(80, 24, ""), nil)
	b.setStatus("hello %d", 1)
	if got := b.Status(); got != "hello 1" {
		t.Fatalf("Status = %q", got)
	}
	clock.now = clock.now.Add(4 * time.Second)
	if b.Status() == "" {
		t.Fatalf("status should still show after 4s")
	}
	clock.now = clock.now.Add(time.Second)
	if got := b.Status(); got != "" {
		t.Fatalf("status should expire after 5s, got %q", got)
	}
}

func TestQuitKeys(t *testing.T) {
	b, _ := newTestBrowser(t, terminal.NewMemConn(80, 24, ""), nil)
	if b.processKey('q') || b.processKey(terminal.KeyCtrlQ) {
		t.Fatalf("q and Ctrl-Q should quit")
	}
	if !b.processKey(terminal.KeyEsc) || !b.processKey('x') {
		t.Fatalf("other keys should not quit")
	}
}

func TestRunSession(t *testing.T) {
	conn := terminal.NewMemConn(0, 0, "\x1b[B\x1bOr\r\x1bOr\x1b[Aq")
	conn.OnWrite = terminal.AnswerCursorQueries(12, 60)
	b, _ := newTestBrowser(t, conn, &fakeProber{length: time.Minute})

	if err := b.Run(context.Background(), "music"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if b.screenrows != 9 || b.screencols != 60 {
		t.Fatalf("screen = %dx%d, want 9x60", b.screenrows, b.screencols)
	}
	if b.Path() != "/music/Zdir" {
		t.Fatalf("ended in %q", b.Path())
	}
	if b.store.Len() != 0 {
		t.Fatalf("store should be released on exit")
	}

	out := conn.Out.String()
	enter := terminal.SeqClearScreen + terminal.SeqHome + terminal.SeqKeypadApp
	exit := terminal.SeqClearScreen + terminal.SeqHome + terminal.SeqKeypadNum
	if !strings.Contains(out, enter) {
		t.Fatalf("missing start sequence")
	}
	if !strings.Contains(out, exit) || strings.LastIndex(out, exit) < strings.LastIndex(out, "+\r\n") {
		t.Fatalf("exit sequence should follow the last frame")
	}
	if !strings.Contains(out, helpMessage) {
		t.Fatalf("help status not drawn")
	}
}

func TestRunFallsBackToPlatformSize(t *testing.T) {
	conn := terminal.NewMemConn(100, 30, "")
	b, _ := newTestBrowser(t, conn, nil)
	if err := b.Run(context.Background(), "/"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if b.screenrows != 27 || b.screencols != 100 {
		t.Fatalf("screen = %dx%d, want 27x100", b.screenrows, b.screencols)
	}
}

func TestRunEndsOnClosedTransport(t *testing.T) {
	conn := terminal.NewMemConn(80, 24, "")
	conn.OnWrite = terminal.AnswerCursorQueries(24, 80)
	b, _ := newTestBrowser(t, conn, nil)
	if err := b.Run(context.Background(), "/"); err != nil {
		t.Fatalf("Run on closed input: %v", err)
	}
}

func TestRunHonoursCancellation(t *testing.T) {
	conn := terminal.NewMemConn(80, 24, "\x1b[B")
	conn.OnWrite = terminal.AnswerCursorQueries(24, 80)
	b, _ := newTestBrowser(t, conn, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := b.Run(ctx, "/"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestPathHelpers(t *testing.T) {
	for in, want := range map[string]string{
		"":          "/",
		"/":         "/",
		"music":     "/music/",
		"/music/":   "/music/",
		"a//b/../c": "/a/c/",
	} {
		if got := normalizeDir(in); got != want {
			t.Fatalf("normalizeDir(%q) = %q, want %q", in, got, want)
		}
	}
	for in, want := range map[string]string{
		"/":       "/",
		"/music/": "/",
		"/a/b/":   "/a/",
	} {
		if got := parentDir(in); got != want {
			t.Fatalf("parentDir(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNewDefaultsToDiscardLogger(t *testing.T) {
	b, err := New(terminal.NewMemConn(80, 24, ""), Options{Lister: &fsutil.FSLister{FS: testFS()}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l, ok := b.log.(*logrus.Logger)
	if !ok || l.Out != io.Discard {
		t.Fatalf("expected a discarding logger, got %#v", b.log)
	}
}
