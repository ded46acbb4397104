// Package rows holds the ordered set of lines the browser displays.
package rows

// MaxNameLength bounds the name carried by File and Directory entries.
const MaxNameLength = 128

// Entry classifies a row. It is one of File, Directory or Info.
type Entry interface {
	isEntry()
}

// File is a listed file.
type File struct {
	Name string
}

// Directory is a listed directory; Name keeps its trailing separator.
type Directory struct {
	Name string
}

// Info is a synthetic informational line and has no name.
type Info struct{}

func (File) isEntry()      {}
func (Directory) isEntry() {}
func (Info) isEntry()      {}

// NewFile returns a File entry with its name bounded to MaxNameLength.
func NewFile(name string) File {
	return File{Name: boundName(name)}
}

// NewDirectory returns a Directory entry with its name bounded to MaxNameLength.
func NewDirectory(name string) Directory {
	return Directory{Name: boundName(name)}
}

func boundName(name string) string {
	if len(name) > MaxNameLength-1 {
		return name[:MaxNameLength-1]
	}
	return name
}

// Name returns the entry's name, or "" for Info rows.
func Name(e Entry) string {
	switch v := e.(type) {
	case File:
		return v.Name
	case Directory:
		return v.Name
	default:
		return ""
	}
}

// Row is one displayable line.
type Row struct {
	Index  int
	Text   string
	Render string
	Entry  Entry
}

// IsDir reports whether the row is a directory.
func (r *Row) IsDir() bool {
	_, ok := r.Entry.(Directory)
	return ok
}

// IsFile reports whether the row is a file.
func (r *Row) IsFile() bool {
	_, ok := r.Entry.(File)
	return ok
}

// IsInfo reports whether the row is informational.
func (r *Row) IsInfo() bool {
	_, ok := r.Entry.(Info)
	return ok
}

// Name returns the row's file or directory name.
func (r *Row) Name() string {
	return Name(r.Entry)
}
