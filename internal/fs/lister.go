package fs

import (
	"errors"
	"fmt"
	"io"
	iofs "io/fs"
	"os"
	"path"
)

const readDirBatch = 64

// Lister opens directories for enumeration.
type Lister interface {
	Open(dirPath string) (Dir, error)
}

// Dir yields entries one at a time; Next returns io.EOF after the last one.
type Dir interface {
	Next() (Entry, error)
	Close() error
}

// FSLister enumerates directories of an io/fs file system. Browser paths are
// absolute ("/" is the file system root).
type FSLister struct {
	FS iofs.FS
}

// NewOSLister returns a lister rooted at the given host directory.
func NewOSLister(root string) *FSLister {
	if root == "" {
		root = "/"
	}
	return &FSLister{FS: os.DirFS(root)}
}

// Open starts enumerating dirPath.
func (l *FSLister) Open(dirPath string) (Dir, error) {
	if l == nil || l.FS == nil {
		return nil, errors.New("no file system configured")
	}
	name := ToFSPath(dirPath)
	f, err := l.FS.Open(name)
	if err != nil {
		return nil, fmt.Errorf("cannot open directory %s: %w", dirPath, err)
	}
	rd, ok := f.(iofs.ReadDirFile)
	if !ok {
		_ = f.Close()
		return nil, fmt.Errorf("cannot open directory %s: not a directory", dirPath)
	}
	return &fsDir{fsys: l.FS, base: name, file: rd}, nil
}

type fsDir struct {
	fsys    iofs.FS
	base    string
	file    iofs.ReadDirFile
	pending []iofs.DirEntry
	done    bool
}

func (d *fsDir) Next() (Entry, error) {
	for len(d.pending) == 0 {
		if d.done {
			return Entry{}, io.EOF
		}
		batch, err := d.file.ReadDir(readDirBatch)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				return Entry{}, err
			}
			d.done = true
		}
		d.pending = batch
	}

	e := d.pending[0]
	d.pending = d.pending[1:]

	isDir := e.IsDir()
	// For symlinks, check if target is a directory
	if e.Type()&iofs.ModeSymlink != 0 {
		if info, err := iofs.Stat(d.fsys, path.Join(d.base, e.Name())); err == nil {
			isDir = info.IsDir()
		}
	}
	return Entry{Name: e.Name(), IsDir: isDir}, nil
}

func (d *fsDir) Close() error {
	return d.file.Close()
}
