package rowset

import (
	"fmt"

	"github.com/user/tablemap"
	"github.com/user/tablemap/pkg/convert"
)

// State is a row's lifecycle position within its table.
type State int

const (
	StateDetached State = iota
	StateAdded
	StateUnchanged
	StateModified
	StateDeleted
)

func (s State) String() string {
	switch s {
	case StateDetached:
		return "detached"
	case StateAdded:
		return "added"
	case StateUnchanged:
		return "unchanged"
	case StateModified:
		return "modified"
	case StateDeleted:
		return "deleted"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Version selects which of a row's value sets to read. Default resolves to
// the proposed values while a row is detached or being edited, otherwise to
// the current values.
type Version int

const (
	VersionDefault Version = iota
	VersionOriginal
	VersionCurrent
	VersionProposed
)

func (v Version) String() string {
	switch v {
	case VersionDefault:
		return "default"
	case VersionOriginal:
		return "original"
	case VersionCurrent:
		return "current"
	case VersionProposed:
		return "proposed"
	}
	return fmt.Sprintf("version(%d)", int(v))
}

// Row is one record of a table. A row starts detached with only proposed
// values; adding it to its table promotes them to current. Edits on attached
// rows keep the original values for rollback, and deletion only marks the
// row until changes are accepted.
type Row struct {
	table    *Table
	current  []any
	original []any
	proposed []any
	state    State
	editing  bool
}

// Table returns the table the row was created by.
func (r *Row) Table() *Table { return r.table }

// State returns the row's lifecycle state.
func (r *Row) State() State { return r.state }

// Value reads a cell through default version resolution. Unavailable
// versions and out of range ordinals read as nil.
func (r *Row) Value(i int) any {
	v, err := r.ValueAt(i, VersionDefault)
	if err != nil {
		return nil
	}
	return v
}

// ValueByName reads a cell by column name through default version
// resolution.
func (r *Row) ValueByName(name string) any {
	return r.Value(r.table.Ordinal(name))
}

// ValueAt reads a cell at an explicit version. Reading a version the row
// does not hold in its current state is an argument error.
func (r *Row) ValueAt(i int, ver Version) (any, error) {
	cells, err := r.versionCells(ver)
	if err != nil {
		return nil, err
	}
	if i < 0 || i >= len(cells) {
		return nil, &tablemap.ArgumentError{Arg: "ordinal", Reason: fmt.Sprintf("column %d out of range", i)}
	}
	return cells[i], nil
}

// HasVersion reports whether the row holds the given version in its current
// state.
func (r *Row) HasVersion(ver Version) bool {
	_, err := r.versionCells(ver)
	return err == nil
}

func (r *Row) versionCells(ver Version) ([]any, error) {
	switch ver {
	case VersionDefault:
		if r.state == StateDeleted {
			return nil, &tablemap.ArgumentError{Arg: "version", Reason: "deleted row has no default version"}
		}
		if r.editing || r.state == StateDetached {
			return r.proposed, nil
		}
		return r.current, nil
	case VersionCurrent:
		switch r.state {
		case StateDeleted:
			return nil, &tablemap.ArgumentError{Arg: "version", Reason: "deleted row has no current version"}
		case StateDetached:
			return nil, &tablemap.ArgumentError{Arg: "version", Reason: "detached row has no current version"}
		}
		return r.current, nil
	case VersionOriginal:
		if r.original != nil {
			return r.original, nil
		}
		if r.state == StateUnchanged {
			return r.current, nil
		}
		return nil, &tablemap.ArgumentError{Arg: "version", Reason: fmt.Sprintf("%s row has no original version", r.state)}
	case VersionProposed:
		if r.proposed == nil {
			return nil, &tablemap.ArgumentError{Arg: "version", Reason: fmt.Sprintf("%s row has no proposed version", r.state)}
		}
		return r.proposed, nil
	}
	return nil, &tablemap.ArgumentError{Arg: "version", Reason: fmt.Sprintf("unknown version %d", int(ver))}
}

// SetValue writes a cell, converting the value to the column's type when one
// is declared. Writes go to the proposed values while the row is detached or
// being edited; a first direct write on an unchanged row snapshots the
// original values and marks the row modified. Deleted rows reject writes.
func (r *Row) SetValue(i int, v any) error {
	if i < 0 || i >= len(r.table.columns) {
		return &tablemap.ArgumentError{Arg: "ordinal", Reason: fmt.Sprintf("column %d out of range", i)}
	}
	if r.state == StateDeleted {
		return &tablemap.ArgumentError{Arg: "row", Reason: "deleted row cannot be modified"}
	}
	col := r.table.columns[i]
	if v != nil && col.typ != nil {
		conv, err := convert.ToType(v, col.typ, nil)
		if err != nil {
			return err
		}
		v = conv
	}
	if r.editing || r.state == StateDetached {
		r.proposed[i] = v
		return nil
	}
	if r.state == StateUnchanged {
		if r.original == nil {
			r.original = snapshot(r.current)
		}
		r.state = StateModified
	}
	r.current[i] = v
	return nil
}

// SetValueByName writes a cell by column name.
func (r *Row) SetValueByName(name string, v any) error {
	i := r.table.Ordinal(name)
	if i < 0 {
		return &tablemap.ArgumentError{Arg: "name", Reason: fmt.Sprintf("no column %q in table %q", name, r.table.name)}
	}
	return r.SetValue(i, v)
}

// BeginEdit opens staged editing: subsequent writes accumulate in the
// proposed values until EndEdit or CancelEdit.
func (r *Row) BeginEdit() error {
	if r.state == StateDeleted {
		return &tablemap.ArgumentError{Arg: "row", Reason: "deleted row cannot be edited"}
	}
	if r.editing || r.state == StateDetached {
		return nil
	}
	r.proposed = snapshot(r.current)
	r.editing = true
	return nil
}

// EndEdit promotes the proposed values to current. A detached row keeps its
// proposed values until it is added to the table.
func (r *Row) EndEdit() error {
	if r.state == StateDetached {
		r.editing = false
		return nil
	}
	if !r.editing {
		return nil
	}
	if r.state == StateUnchanged {
		if r.original == nil {
			r.original = snapshot(r.current)
		}
		r.state = StateModified
	}
	r.current = r.proposed
	r.proposed = nil
	r.editing = false
	return nil
}

// CancelEdit discards the proposed values. A detached row is reset to empty
// cells.
func (r *Row) CancelEdit() {
	if r.state == StateDetached {
		r.proposed = make([]any, len(r.table.columns))
		return
	}
	r.proposed = nil
	r.editing = false
}

// Delete marks an attached row deleted, keeping its original values for
// RejectChanges. An added row is removed from the table outright.
func (r *Row) Delete() error {
	switch r.state {
	case StateDetached:
		return &tablemap.ArgumentError{Arg: "row", Reason: "detached row cannot be deleted"}
	case StateDeleted:
		return nil
	case StateAdded:
		r.table.remove(r)
		r.state = StateDetached
		r.proposed = r.current
		r.current = nil
		return nil
	}
	if r.original == nil {
		r.original = snapshot(r.current)
	}
	r.proposed = nil
	r.editing = false
	r.state = StateDeleted
	return nil
}

// AcceptChanges makes the row's current values its original ones. A deleted
// row is removed from the table.
func (r *Row) AcceptChanges() {
	if r.editing {
		r.EndEdit()
	}
	switch r.state {
	case StateDetached:
		return
	case StateDeleted:
		r.table.remove(r)
		r.state = StateDetached
		return
	}
	r.original = snapshot(r.current)
	r.state = StateUnchanged
}

// RejectChanges rolls the row back to its original values. An added row is
// removed from the table.
func (r *Row) RejectChanges() {
	r.proposed = nil
	r.editing = false
	switch r.state {
	case StateDetached:
		return
	case StateAdded:
		r.table.remove(r)
		r.state = StateDetached
		return
	case StateModified, StateDeleted:
		if r.original != nil {
			r.current = snapshot(r.original)
		}
		r.state = StateUnchanged
	}
}

func snapshot(cells []any) []any {
	out := make([]any, len(cells))
	copy(out, cells)
	return out
}
