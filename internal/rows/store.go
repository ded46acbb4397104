package rows

import (
	"math"
	"sort"
	"strings"

	"github.com/kk-code-lab/rshell/internal/textutil"
	"github.com/sirupsen/logrus"
)

// MaxRenderSize is the largest render buffer a row may derive.
const MaxRenderSize uint64 = math.MaxUint32

// Store is an ordered sequence of rows. The zero value is an empty store.
type Store struct {
	rows []*Row
	log  logrus.FieldLogger

	maxRender uint64
}

// NewStore creates an empty store that reports refused renders to log.
func NewStore(log logrus.FieldLogger) *Store {
	return &Store{log: log}
}

// Len returns the number of rows.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.rows)
}

// At returns the row at i, or nil when i is out of range.
func (s *Store) At(i int) *Row {
	if s == nil || i < 0 || i >= len(s.rows) {
		return nil
	}
	return s.rows[i]
}

// Rows returns the backing rows in order. Callers must not modify the slice.
func (s *Store) Rows() []*Row {
	return s.rows
}

// Insert adds a row at position at, shifting later rows down. Positions
// outside [0, Len()] are ignored.
func (s *Store) Insert(at int, text string, entry Entry) {
	if at < 0 || at > len(s.rows) {
		return
	}
	if entry == nil {
		entry = Info{}
	}

	row := &Row{Index: at, Text: text, Entry: entry}
	s.updateRender(row)

	s.rows = append(s.rows, nil)
	copy(s.rows[at+1:], s.rows[at:])
	s.rows[at] = row
	for j := at + 1; j < len(s.rows); j++ {
		s.rows[j].Index++
	}
}

// Append inserts a row at the end of the store.
func (s *Store) Append(text string, entry Entry) {
	s.Insert(len(s.rows), text, entry)
}

func (s *Store) updateRender(row *Row) {
	limit := s.maxRender
	if limit == 0 {
		limit = MaxRenderSize
	}
	if uint64(len(row.Text))+1 > limit {
		if s.log != nil {
			s.log.WithField("length", len(row.Text)).Warn("name is too long to render")
		}
		row.Render = ""
		return
	}
	row.Render = textutil.Render(row.Text)
}

// Reset releases every row. It is safe on an empty or zero store.
func (s *Store) Reset() {
	if s == nil {
		return
	}
	for i := range s.rows {
		s.rows[i] = nil
	}
	s.rows = nil
}

// String joins the raw text of all rows with "\n"; there is no final
// terminator.
func (s *Store) String() string {
	if s.Len() == 0 {
		return ""
	}
	var b strings.Builder
	for j, r := range s.rows {
		if j > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(r.Text)
	}
	return b.String()
}

// Bytes returns String as bytes along with its length.
func (s *Store) Bytes() ([]byte, int) {
	buf := []byte(s.String())
	return buf, len(buf)
}

// SortFrom orders rows[start:] with Compare and renumbers them.
func (s *Store) SortFrom(start int) {
	if start < 0 {
		start = 0
	}
	if start >= len(s.rows) {
		return
	}
	tail := s.rows[start:]
	sort.SliceStable(tail, func(i, j int) bool {
		return Compare(tail[i], tail[j]) < 0
	})
	for j := start; j < len(s.rows); j++ {
		s.rows[j].Index = j
	}
}

// Sort orders the whole store.
func (s *Store) Sort() {
	s.SortFrom(0)
}
