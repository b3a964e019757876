package mapping

import (
	"github.com/user/tablemap"
)

// NewReaderSource adapts a forward-only cursor to the source contract.
// Values resolve against the cursor's current position; the per-call entry
// is ignored.
func NewReaderSource(rd tablemap.Reader) tablemap.DataSource {
	return &readerSource{rd: rd}
}

type readerSource struct {
	rd tablemap.Reader
}

func (s *readerSource) FieldCount() int { return s.rd.FieldCount() }

func (s *readerSource) FieldName(i int) string { return s.rd.FieldName(i) }

func (s *readerSource) Value(i int, entry any) any { return s.rd.Value(i) }
