package rowset

import (
	"github.com/user/tablemap"
)

// NewRowSource returns a tabular view of one row at the given version.
// Availability of the version is checked here, once, so per-cell reads on
// the returned source cannot fail.
func NewRowSource(r *Row, ver Version) (tablemap.DataSource, error) {
	if r == nil {
		return nil, &tablemap.ArgumentError{Arg: "row", Reason: "nil row"}
	}
	if _, err := r.versionCells(ver); err != nil {
		return nil, err
	}
	return &rowSource{row: r, ver: ver}, nil
}

type rowSource struct {
	row *Row
	ver Version
}

func (s *rowSource) FieldCount() int { return len(s.row.table.columns) }

func (s *rowSource) FieldName(i int) string { return s.row.table.columns[i].name }

func (s *rowSource) Value(i int, entry any) any {
	v, err := s.row.ValueAt(i, s.ver)
	if err != nil {
		return nil
	}
	return v
}

// NewRowReceiver returns a receiving view of one row. Writes follow the
// row's normal write rules, including typed column conversion.
func NewRowReceiver(r *Row) (tablemap.DataReceiver, error) {
	if r == nil {
		return nil, &tablemap.ArgumentError{Arg: "row", Reason: "nil row"}
	}
	return &rowReceiver{row: r}, nil
}

type rowReceiver struct {
	row *Row
}

func (rc *rowReceiver) Ordinal(name string) int {
	return rc.row.table.Ordinal(name)
}

func (rc *rowReceiver) SetValue(i int, name string, entry any, value any) error {
	return rc.row.SetValue(i, value)
}
