package browse

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/kk-code-lab/rshell/internal/applog"
	fsutil "github.com/kk-code-lab/rshell/internal/fs"
	"github.com/kk-code-lab/rshell/internal/rows"
)

// Scan appends the visible entries of dir to store and sorts them. Non-root
// directories start with a "../" row. Hidden names are skipped, directories
// get a trailing slash, and files appear only with a recognised extension.
// When dir cannot be opened the store is left untouched.
func Scan(l fsutil.Lister, exts fsutil.Extensions, store *rows.Store, dir string, log logrus.FieldLogger) error {
	if log == nil {
		log = applog.Discard()
	}
	entry := log.WithField("dir", dir)
	entry.Debug("scanning directory")

	d, err := l.Open(dir)
	if err != nil {
		entry.WithError(err).Warn("failed to open directory")
		return fmt.Errorf("scan %s: %w", dir, err)
	}
	defer d.Close()

	start := store.Len()
	if dir != "/" {
		store.Append(upDir, rows.NewDirectory(upDir))
	}

	var readErr error
	for {
		ent, err := d.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			readErr = fmt.Errorf("scan %s: %w", dir, err)
			entry.WithError(err).Warn("directory read stopped early")
			break
		}
		if ent.IsHidden() {
			continue
		}
		if ent.IsDir {
			name := ent.Name + "/"
			store.Append(name, rows.NewDirectory(name))
			continue
		}
		if exts.Match(ent.Name) == "" {
			continue
		}
		store.Append(ent.Name, rows.NewFile(ent.Name))
	}

	store.SortFrom(start)
	entry.WithField("entries", store.Len()-start).Debug("finished scanning")
	return readErr
}

func (b *Browser) scan(dir string) error {
	return Scan(b.lister, b.exts, b.store, dir, b.log)
}
