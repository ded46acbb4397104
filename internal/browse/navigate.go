package browse

import (
	"errors"
	"strconv"

	fsutil "github.com/kk-code-lab/rshell/internal/fs"
	"github.com/kk-code-lab/rshell/internal/media"
	"github.com/kk-code-lab/rshell/internal/rows"
	"github.com/kk-code-lab/rshell/internal/ui/terminal"
)

// processKey applies one keypress. It returns false when the user quits.
func (b *Browser) processKey(key terminal.Key) bool {
	switch key {
	case terminal.KeyEnter:
		if b.store.Len() == 0 {
			return true
		}
		row := b.store.At(b.rowoff + b.cy)
		switch {
		case row == nil:
		case row.IsDir():
			b.enterDir(row)
		case row.IsFile():
			b.showFileInfo(row)
		}
	case 'q', terminal.KeyCtrlQ:
		return false
	case terminal.KeyPageUp, terminal.KeyPageDown:
		dir := terminal.KeyArrowUp
		if key == terminal.KeyPageDown {
			dir = terminal.KeyArrowDown
		}
		for i := 0; i < b.screenrows; i++ {
			b.moveCursor(dir)
		}
	case terminal.KeyArrowUp, terminal.KeyArrowDown:
		b.moveCursor(key)
	}
	return true
}

// moveCursor scrolls once the cursor reaches a viewport edge. The info
// screen does not scroll.
func (b *Browser) moveCursor(key terminal.Key) {
	if b.infoActive {
		return
	}
	filerow := b.rowoff + b.cy
	switch key {
	case terminal.KeyArrowUp:
		if b.cy == 0 {
			if b.rowoff > 0 {
				b.rowoff--
			}
		} else {
			b.cy--
		}
	case terminal.KeyArrowDown:
		if filerow < b.store.Len()-1 {
			if b.cy == b.screenrows-1 {
				b.rowoff++
			} else {
				b.cy++
			}
		}
	}

	// Keep the column inside the current row.
	rowlen := 0
	if row := b.store.At(b.rowoff + b.cy); row != nil {
		rowlen = len(row.Text)
	}
	if filecol := b.coloff + b.cx; filecol > rowlen {
		b.cx -= filecol - rowlen
		if b.cx < 0 {
			b.coloff += b.cx
			b.cx = 0
		}
	}
}

// enterDir moves into the directory named by row. The "../" row always walks
// to the parent of the current directory, on the info screen too.
func (b *Browser) enterDir(row *rows.Row) {
	// Text holds the full name; the entry's copy may be truncated.
	if name := row.Text; name == upDir {
		b.dir = parentDir(b.dir)
	} else {
		b.dir += name
	}
	b.rescan()
}

// rescan discards the screen model and lists the current directory.
func (b *Browser) rescan() {
	b.resetView()
	b.infoActive = false
	b.scanErr = b.scan(b.dir)
	if b.scanErr != nil {
		b.setStatus("Cannot read %s", b.Path())
	}
}

func (b *Browser) resetView() {
	b.store.Reset()
	b.cx, b.cy = 0, 0
	b.rowoff, b.coloff = 0, 0
}

// showFileInfo replaces the listing with the metadata of the file in row.
func (b *Browser) showFileInfo(row *rows.Row) {
	name := row.Text
	full := fsutil.ToFSPath(b.dir + name)

	length := "Unknown"
	if b.prober != nil {
		d, err := b.prober.Length(full)
		if err != nil {
			b.log.WithError(err).WithField("file", full).Debug("track length unavailable")
		} else {
			length = media.FormatLength(d)
		}
	}
	key, bpm := "Unknown", "Unknown"
	if a, err := b.estimator.Estimate(full); err == nil {
		if a.Key != "" {
			key = a.Key
		}
		if a.BPM > 0 {
			bpm = strconv.Itoa(a.BPM)
		}
	} else if !errors.Is(err, media.ErrUnsupported) {
		b.log.WithError(err).WithField("file", full).Debug("track analysis failed")
	}

	b.resetView()
	b.infoActive = true
	b.store.Append(upDir, rows.NewDirectory(upDir))
	b.store.Append("", rows.Info{})
	b.store.Append(name, rows.Info{})
	b.store.Append("", rows.Info{})
	b.store.Append("  Length: "+length, rows.Info{})
	b.store.Append("  Key: "+key, rows.Info{})
	b.store.Append("  BPM: "+bpm, rows.Info{})
}
