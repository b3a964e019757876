// Package sqlrows adapts database/sql result sets to the engine's cursor
// contract, so query results map straight into structs, maps and tables.
package sqlrows

import (
	"database/sql"
	"strings"

	"github.com/user/tablemap"
)

// Rows is a forward-only cursor over a database/sql result set.
type Rows struct {
	rows     *sql.Rows
	columns  []string
	ordinals map[string]int
	values   []any
	ptrs     []any
	err      error
}

var _ tablemap.Reader = (*Rows)(nil)

// Wrap adapts a live result set. Column metadata is read once, up front. The
// caller keeps ownership of rows and closes it after iteration.
func Wrap(rows *sql.Rows) (*Rows, error) {
	if rows == nil {
		return nil, &tablemap.ArgumentError{Arg: "rows", Reason: "nil result set"}
	}
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	r := &Rows{
		rows:     rows,
		columns:  cols,
		ordinals: make(map[string]int, len(cols)),
		values:   make([]any, len(cols)),
		ptrs:     make([]any, len(cols)),
	}
	for i, c := range cols {
		key := strings.ToLower(c)
		if _, ok := r.ordinals[key]; !ok {
			r.ordinals[key] = i
		}
		r.ptrs[i] = &r.values[i]
	}
	return r, nil
}

// Next advances to the next record and scans its values. It returns false at
// the end of the set or on the first error; Err tells which. Byte slices are
// copied to strings because drivers may reuse their buffers between records.
func (r *Rows) Next() bool {
	if r.err != nil {
		return false
	}
	if !r.rows.Next() {
		r.err = r.rows.Err()
		return false
	}
	if err := r.rows.Scan(r.ptrs...); err != nil {
		r.err = err
		return false
	}
	for i, v := range r.values {
		if b, ok := v.([]byte); ok {
			r.values[i] = string(b)
		}
	}
	return true
}

// FieldCount returns the number of columns.
func (r *Rows) FieldCount() int { return len(r.columns) }

// FieldName returns the i-th column name.
func (r *Rows) FieldName(i int) string { return r.columns[i] }

// Ordinal resolves a column name case-insensitively, -1 when absent.
func (r *Rows) Ordinal(name string) int {
	if i, ok := r.ordinals[strings.ToLower(name)]; ok {
		return i
	}
	return -1
}

// Value returns the i-th value of the current record.
func (r *Rows) Value(i int) any {
	if i < 0 || i >= len(r.values) {
		return nil
	}
	return r.values[i]
}

// Err returns the first error hit while advancing or scanning.
func (r *Rows) Err() error { return r.err }
