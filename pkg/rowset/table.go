// Package rowset is an in-memory tabular store in the relational style:
// named, optionally typed columns over rows that track their own lifecycle.
// Rows carry original, current and proposed value sets so edits can be
// staged, accepted or rolled back, and deletions stay visible until changes
// are accepted.
package rowset

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/user/tablemap"
)

// Column describes one table column. A nil type leaves cells untyped; a
// concrete type makes every write convert into it.
type Column struct {
	name string
	typ  reflect.Type
	ord  int
}

// Name returns the column name.
func (c *Column) Name() string { return c.name }

// Type returns the declared cell type, nil for untyped columns.
func (c *Column) Type() reflect.Type { return c.typ }

// Ordinal returns the column position.
func (c *Column) Ordinal() int { return c.ord }

// Table is an ordered set of columns over an ordered set of rows.
type Table struct {
	name     string
	columns  []*Column
	ordinals map[string]int
	rows     []*Row
}

// New creates an empty table.
func New(name string) *Table {
	return &Table{name: name, ordinals: map[string]int{}}
}

// Name returns the table name.
func (t *Table) Name() string { return t.name }

// AddColumn appends a column. Existing rows grow a nil cell for it. Column
// names are unique case-insensitively.
func (t *Table) AddColumn(name string, typ reflect.Type) (*Column, error) {
	if name == "" {
		return nil, &tablemap.ArgumentError{Arg: "name", Reason: "empty column name"}
	}
	key := strings.ToLower(name)
	if _, ok := t.ordinals[key]; ok {
		return nil, &tablemap.ArgumentError{Arg: "name", Reason: fmt.Sprintf("column %q already in table %q", name, t.name)}
	}
	c := &Column{name: name, typ: typ, ord: len(t.columns)}
	t.ordinals[key] = c.ord
	t.columns = append(t.columns, c)
	for _, r := range t.rows {
		r.current = append(r.current, nil)
		if r.original != nil {
			r.original = append(r.original, nil)
		}
		if r.proposed != nil {
			r.proposed = append(r.proposed, nil)
		}
	}
	return c, nil
}

// NumColumns returns the number of columns.
func (t *Table) NumColumns() int { return len(t.columns) }

// Column returns the i-th column.
func (t *Table) Column(i int) *Column { return t.columns[i] }

// Ordinal resolves a column name case-insensitively, -1 when absent.
func (t *Table) Ordinal(name string) int {
	if i, ok := t.ordinals[strings.ToLower(name)]; ok {
		return i
	}
	return -1
}

// NewRow creates a detached row shaped for this table. The row joins the
// table only through Add.
func (t *Table) NewRow() *Row {
	return &Row{
		table:    t,
		proposed: make([]any, len(t.columns)),
		state:    StateDetached,
	}
}

// Add attaches a detached row created by this table, promoting its proposed
// values to current and marking it added.
func (t *Table) Add(r *Row) error {
	if r == nil || r.table != t {
		return &tablemap.ArgumentError{Arg: "row", Reason: "row does not belong to this table"}
	}
	if r.state != StateDetached {
		return &tablemap.ArgumentError{Arg: "row", Reason: fmt.Sprintf("row is already %s", r.state)}
	}
	r.current = r.proposed
	r.proposed = nil
	r.editing = false
	r.state = StateAdded
	t.rows = append(t.rows, r)
	return nil
}

// AddValues creates, fills and attaches a row in one step. Values are
// assigned to columns in order and converted for typed columns.
func (t *Table) AddValues(values ...any) (*Row, error) {
	if len(values) > len(t.columns) {
		return nil, &tablemap.ArgumentError{Arg: "values", Reason: fmt.Sprintf("%d values for %d columns", len(values), len(t.columns))}
	}
	r := t.NewRow()
	for i, v := range values {
		if err := r.SetValue(i, v); err != nil {
			return nil, err
		}
	}
	if err := t.Add(r); err != nil {
		return nil, err
	}
	return r, nil
}

// NumRows returns the number of attached rows, deleted ones included.
func (t *Table) NumRows() int { return len(t.rows) }

// Row returns the i-th attached row.
func (t *Table) Row(i int) *Row { return t.rows[i] }

// AcceptChanges commits every row: added and modified rows become unchanged,
// deleted rows leave the table.
func (t *Table) AcceptChanges() {
	for _, r := range append([]*Row(nil), t.rows...) {
		r.AcceptChanges()
	}
}

// RejectChanges rolls every row back: added rows leave the table, modified
// and deleted ones return to their original values.
func (t *Table) RejectChanges() {
	for _, r := range append([]*Row(nil), t.rows...) {
		r.RejectChanges()
	}
}

// Clear drops all rows, leaving columns in place.
func (t *Table) Clear() {
	for _, r := range t.rows {
		r.state = StateDetached
		r.proposed = r.current
		r.current = nil
		r.original = nil
	}
	t.rows = nil
}

func (t *Table) remove(r *Row) {
	for i, row := range t.rows {
		if row == r {
			t.rows = append(t.rows[:i], t.rows[i+1:]...)
			return
		}
	}
}
