package fs

import (
	"path"
	"strings"
)

// Entry is one name produced by a directory enumeration.
type Entry struct {
	Name  string
	IsDir bool
}

// IsHidden reports whether the entry should be treated as hidden.
func (e Entry) IsHidden() bool {
	return IsHidden(e.Name)
}

// IsHidden checks if a name is hidden (leading dot).
func IsHidden(name string) bool {
	return len(name) > 0 && name[0] == '.'
}

// Extension returns the lower-cased extension of name without the dot.
// Names without a dot, or whose only dot is the first byte, have none.
func Extension(name string) string {
	dot := strings.LastIndexByte(name, '.')
	if dot <= 0 || dot == len(name)-1 {
		return ""
	}
	return strings.ToLower(name[dot+1:])
}

// Extensions is a set of recognised file extensions (lower case, no dot).
type Extensions map[string]struct{}

// DefaultExtensions are the audio containers the browser shows.
var DefaultExtensions = NewExtensions("wav", "mp3")

// NewExtensions builds a set from the given extensions; leading dots and
// case are ignored.
func NewExtensions(exts ...string) Extensions {
	set := make(Extensions, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			set[ext] = struct{}{}
		}
	}
	return set
}

// Match returns the recognised extension of name, or "" when it has none.
func (s Extensions) Match(name string) string {
	ext := Extension(name)
	if ext == "" {
		return ""
	}
	if _, ok := s[ext]; !ok {
		return ""
	}
	return ext
}

// ToFSPath maps a browser path ("/", "/music/", "/a/b") onto an io/fs path.
func ToFSPath(p string) string {
	cleaned := strings.Trim(path.Clean("/"+p), "/")
	if cleaned == "" {
		return "."
	}
	return cleaned
}
