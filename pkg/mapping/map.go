// Package mapping implements the operations that move records between
// tabular shapes and business objects. Rows, tables, forward-only cursors
// and objects all hide behind the same source and receiver contracts, so one
// copy algorithm serves every direction: tabular to object, object to
// tabular, tabular to tabular and object to object.
package mapping

import (
	"fmt"
	"reflect"

	"github.com/user/tablemap"
	"github.com/user/tablemap/pkg/convert"
	"github.com/user/tablemap/pkg/descriptor"
	"github.com/user/tablemap/pkg/rowset"
)

// fail applies the package's error boundary: argument misuse and already
// wrapped errors pass through, everything else is counted, logged and
// wrapped with the operation name.
func fail(op string, err error) error {
	switch err.(type) {
	case *tablemap.ArgumentError, *tablemap.MappingError:
		return err
	}
	MappingErrors.Inc()
	logger.Error("mapping operation failed", "op", op, "error", err)
	return &tablemap.MappingError{Op: op, Err: err}
}

// ToStruct maps one row into an existing struct, resolving columns to
// members by name.
func ToStruct(r *rowset.Row, dest any) error {
	return toStructOp("ToStruct", r, rowset.VersionDefault, dest)
}

// ToStructAt is ToStruct reading an explicit row version.
func ToStructAt(r *rowset.Row, ver rowset.Version, dest any) error {
	return toStructOp("ToStructAt", r, ver, dest)
}

func toStructOp(op string, r *rowset.Row, ver rowset.Version, dest any) error {
	if r == nil {
		return &tablemap.ArgumentError{Arg: "row", Reason: "nil row"}
	}
	src, err := rowset.NewRowSource(r, ver)
	if err != nil {
		return fail(op, err)
	}
	if err := intoExisting(src, nil, dest); err != nil {
		return fail(op, err)
	}
	return nil
}

// FromStruct writes a struct's mapped members into a row's columns by name.
// Columns the struct does not map keep their values.
func FromStruct(src any, r *rowset.Row) error {
	const op = "FromStruct"
	if r == nil {
		return &tablemap.ArgumentError{Arg: "row", Reason: "nil row"}
	}
	d, err := sourceDescriptor(src)
	if err != nil {
		return fail(op, err)
	}
	rc, err := rowset.NewRowReceiver(r)
	if err != nil {
		return fail(op, err)
	}
	if err := Copy(d, src, rc, nil); err != nil {
		return fail(op, err)
	}
	return nil
}

// ToSlice maps a table's rows into a slice of structs, appending one element
// per row. The destination must be a pointer to a slice of structs or of
// struct pointers. Deleted rows are skipped. Extra parameters are forwarded
// to factories and self-initializing destinations.
func ToSlice(t *rowset.Table, dest any, params ...any) error {
	return toSliceOp("ToSlice", t, rowset.VersionDefault, dest, params)
}

// ToSliceAt is ToSlice reading an explicit row version. Unlike the default
// version it does not skip deleted rows, so reading their original values is
// possible; asking for a version some row does not hold is an error.
func ToSliceAt(t *rowset.Table, ver rowset.Version, dest any, params ...any) error {
	return toSliceOp("ToSliceAt", t, ver, dest, params)
}

func toSliceOp(op string, tbl *rowset.Table, ver rowset.Version, dest any, params []any) error {
	if tbl == nil {
		return &tablemap.ArgumentError{Arg: "table", Reason: "nil table"}
	}
	sl, et, byPtr, err := sliceOf(dest)
	if err != nil {
		return err
	}
	d, err := descriptor.Get(et)
	if err != nil {
		return fail(op, err)
	}
	c := newConstructor(et, d)
	for i := 0; i < tbl.NumRows(); i++ {
		row := tbl.Row(i)
		if ver == rowset.VersionDefault && row.State() == rowset.StateDeleted {
			continue
		}
		src, err := rowset.NewRowSource(row, ver)
		if err != nil {
			return fail(op, err)
		}
		ep, err := c.mapEntry(src, nil, params)
		if err != nil {
			return fail(op, err)
		}
		if byPtr {
			sl.Set(reflect.Append(sl, ep))
		} else {
			sl.Set(reflect.Append(sl, ep.Elem()))
		}
	}
	return nil
}

// ToMap maps a table's rows into a map of structs keyed by one column's
// values, converted to the map's key type. The destination must be a pointer
// to a map with struct or struct pointer values; a nil map is allocated.
// Deleted rows are skipped and later rows win duplicate keys.
func ToMap(tbl *rowset.Table, keyColumn string, dest any, params ...any) error {
	const op = "ToMap"
	if tbl == nil {
		return &tablemap.ArgumentError{Arg: "table", Reason: "nil table"}
	}
	mp, kt, et, byPtr, err := mapDestOf(dest)
	if err != nil {
		return err
	}
	ki := tbl.Ordinal(keyColumn)
	if ki < 0 {
		return &tablemap.ArgumentError{Arg: "keyColumn", Reason: fmt.Sprintf("no column %q in table %q", keyColumn, tbl.Name())}
	}
	d, err := descriptor.Get(et)
	if err != nil {
		return fail(op, err)
	}
	if mp.IsNil() {
		mp.Set(reflect.MakeMap(mp.Type()))
	}
	c := newConstructor(et, d)
	for i := 0; i < tbl.NumRows(); i++ {
		row := tbl.Row(i)
		if row.State() == rowset.StateDeleted {
			continue
		}
		src, err := rowset.NewRowSource(row, rowset.VersionDefault)
		if err != nil {
			return fail(op, err)
		}
		key, err := convert.ToType(src.Value(ki, nil), kt, nil)
		if err != nil {
			return fail(op, err)
		}
		ep, err := c.mapEntry(src, nil, params)
		if err != nil {
			return fail(op, err)
		}
		if byPtr {
			mp.SetMapIndex(reflect.ValueOf(key), ep)
		} else {
			mp.SetMapIndex(reflect.ValueOf(key), ep.Elem())
		}
	}
	return nil
}

// ReadSlice drains a forward-only cursor into a slice of structs, one
// element per record.
func ReadSlice(rd tablemap.Reader, dest any, params ...any) error {
	const op = "ReadSlice"
	if rd == nil {
		return &tablemap.ArgumentError{Arg: "reader", Reason: "nil reader"}
	}
	sl, et, byPtr, err := sliceOf(dest)
	if err != nil {
		return err
	}
	d, err := descriptor.Get(et)
	if err != nil {
		return fail(op, err)
	}
	c := newConstructor(et, d)
	src := NewReaderSource(rd)
	for rd.Next() {
		ep, err := c.mapEntry(src, nil, params)
		if err != nil {
			return fail(op, err)
		}
		if byPtr {
			sl.Set(reflect.Append(sl, ep))
		} else {
			sl.Set(reflect.Append(sl, ep.Elem()))
		}
	}
	if err := rd.Err(); err != nil {
		return fail(op, err)
	}
	return nil
}

// ReadMap drains a forward-only cursor into a map of structs keyed by one
// field's values. Later records win duplicate keys.
func ReadMap(rd tablemap.Reader, keyColumn string, dest any, params ...any) error {
	const op = "ReadMap"
	if rd == nil {
		return &tablemap.ArgumentError{Arg: "reader", Reason: "nil reader"}
	}
	mp, kt, et, byPtr, err := mapDestOf(dest)
	if err != nil {
		return err
	}
	ki := rd.Ordinal(keyColumn)
	if ki < 0 {
		return &tablemap.ArgumentError{Arg: "keyColumn", Reason: fmt.Sprintf("no field %q in reader", keyColumn)}
	}
	d, err := descriptor.Get(et)
	if err != nil {
		return fail(op, err)
	}
	if mp.IsNil() {
		mp.Set(reflect.MakeMap(mp.Type()))
	}
	c := newConstructor(et, d)
	src := NewReaderSource(rd)
	for rd.Next() {
		key, err := convert.ToType(rd.Value(ki), kt, nil)
		if err != nil {
			return fail(op, err)
		}
		ep, err := c.mapEntry(src, nil, params)
		if err != nil {
			return fail(op, err)
		}
		if byPtr {
			mp.SetMapIndex(reflect.ValueOf(key), ep)
		} else {
			mp.SetMapIndex(reflect.ValueOf(key), ep.Elem())
		}
	}
	if err := rd.Err(); err != nil {
		return fail(op, err)
	}
	return nil
}

// ReadTable drains a forward-only cursor into a table, creating untyped
// columns for cursor fields the table does not have yet. Loaded rows are in
// the added state until changes are accepted.
func ReadTable(rd tablemap.Reader, t *rowset.Table) error {
	const op = "ReadTable"
	if rd == nil {
		return &tablemap.ArgumentError{Arg: "reader", Reason: "nil reader"}
	}
	if t == nil {
		return &tablemap.ArgumentError{Arg: "table", Reason: "nil table"}
	}
	for i := 0; i < rd.FieldCount(); i++ {
		name := rd.FieldName(i)
		if name == "" {
			continue
		}
		if t.Ordinal(name) < 0 {
			if _, err := t.AddColumn(name, nil); err != nil {
				return fail(op, err)
			}
		}
	}
	src := NewReaderSource(rd)
	rows := 0
	for rd.Next() {
		r := t.NewRow()
		rc, err := rowset.NewRowReceiver(r)
		if err != nil {
			return fail(op, err)
		}
		if err := Copy(src, nil, rc, nil); err != nil {
			return fail(op, err)
		}
		if err := t.Add(r); err != nil {
			return fail(op, err)
		}
		rows++
	}
	if err := rd.Err(); err != nil {
		return fail(op, err)
	}
	logger.Debug("table loaded", "table", t.Name(), "rows", rows)
	return nil
}

// FromSlice writes a slice of structs into a table, one row per element. An
// empty table grows untyped columns named after the element type's members;
// nil elements are skipped.
func FromSlice(src any, t *rowset.Table) error {
	const op = "FromSlice"
	if t == nil {
		return &tablemap.ArgumentError{Arg: "table", Reason: "nil table"}
	}
	rv := reflect.ValueOf(src)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return &tablemap.ArgumentError{Arg: "src", Reason: "nil source slice"}
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Slice {
		return &tablemap.ArgumentError{Arg: "src", Reason: fmt.Sprintf("source is %s, want a slice", rv.Kind())}
	}
	et := rv.Type().Elem()
	if et.Kind() == reflect.Ptr {
		et = et.Elem()
	}
	if et.Kind() != reflect.Struct {
		return &tablemap.ArgumentError{Arg: "src", Reason: fmt.Sprintf("slice element %s is not a struct", et)}
	}
	d, err := descriptor.Get(et)
	if err != nil {
		return fail(op, err)
	}
	if t.NumColumns() == 0 {
		for i := 0; i < d.FieldCount(); i++ {
			if _, err := t.AddColumn(d.FieldName(i), nil); err != nil {
				return fail(op, err)
			}
		}
	}
	for i := 0; i < rv.Len(); i++ {
		ev := rv.Index(i)
		if ev.Kind() == reflect.Ptr && ev.IsNil() {
			continue
		}
		r := t.NewRow()
		rc, err := rowset.NewRowReceiver(r)
		if err != nil {
			return fail(op, err)
		}
		if err := Copy(d, ev.Interface(), rc, nil); err != nil {
			return fail(op, err)
		}
		if err := t.Add(r); err != nil {
			return fail(op, err)
		}
	}
	return nil
}

// CopyTable copies rows between tables, matching columns by name. An empty
// destination grows a copy of the source's columns. Deleted source rows are
// skipped; columns missing on either side are ignored.
func CopyTable(src, dst *rowset.Table) error {
	const op = "CopyTable"
	if src == nil || dst == nil {
		return &tablemap.ArgumentError{Arg: "table", Reason: "nil table"}
	}
	if dst.NumColumns() == 0 {
		for i := 0; i < src.NumColumns(); i++ {
			c := src.Column(i)
			if _, err := dst.AddColumn(c.Name(), c.Type()); err != nil {
				return fail(op, err)
			}
		}
	}
	for i := 0; i < src.NumRows(); i++ {
		row := src.Row(i)
		if row.State() == rowset.StateDeleted {
			continue
		}
		s, err := rowset.NewRowSource(row, rowset.VersionDefault)
		if err != nil {
			return fail(op, err)
		}
		nr := dst.NewRow()
		rc, err := rowset.NewRowReceiver(nr)
		if err != nil {
			return fail(op, err)
		}
		if err := Copy(s, nil, rc, nil); err != nil {
			return fail(op, err)
		}
		if err := dst.Add(nr); err != nil {
			return fail(op, err)
		}
	}
	return nil
}

// CopyStruct copies mapped members between two structs by name, converting
// values member to member. Members present on only one side are ignored.
func CopyStruct(src, dest any) error {
	const op = "CopyStruct"
	d, err := sourceDescriptor(src)
	if err != nil {
		return fail(op, err)
	}
	if err := intoExisting(d, src, dest); err != nil {
		return fail(op, err)
	}
	return nil
}

// FromSource maps one record of an arbitrary source into an existing struct.
// It is the escape hatch for custom source shapes.
func FromSource(src tablemap.DataSource, entry any, dest any) error {
	const op = "FromSource"
	if src == nil {
		return &tablemap.ArgumentError{Arg: "src", Reason: "nil source"}
	}
	if err := intoExisting(src, entry, dest); err != nil {
		return fail(op, err)
	}
	return nil
}

func sourceDescriptor(src any) (*descriptor.Descriptor, error) {
	if src == nil {
		return nil, &tablemap.ArgumentError{Arg: "src", Reason: "nil source object"}
	}
	return descriptor.Of(src)
}

func sliceOf(dest any) (reflect.Value, reflect.Type, bool, error) {
	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return reflect.Value{}, nil, false, &tablemap.ArgumentError{Arg: "dest", Reason: "destination must be a non-nil pointer to a slice"}
	}
	sl := rv.Elem()
	if sl.Kind() != reflect.Slice {
		return reflect.Value{}, nil, false, &tablemap.ArgumentError{Arg: "dest", Reason: fmt.Sprintf("destination points at %s, want a slice", sl.Kind())}
	}
	et := sl.Type().Elem()
	byPtr := et.Kind() == reflect.Ptr
	if byPtr {
		et = et.Elem()
	}
	if et.Kind() != reflect.Struct {
		return reflect.Value{}, nil, false, &tablemap.ArgumentError{Arg: "dest", Reason: fmt.Sprintf("slice element %s is not a struct", et)}
	}
	return sl, et, byPtr, nil
}

func mapDestOf(dest any) (reflect.Value, reflect.Type, reflect.Type, bool, error) {
	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return reflect.Value{}, nil, nil, false, &tablemap.ArgumentError{Arg: "dest", Reason: "destination must be a non-nil pointer to a map"}
	}
	mp := rv.Elem()
	if mp.Kind() != reflect.Map {
		return reflect.Value{}, nil, nil, false, &tablemap.ArgumentError{Arg: "dest", Reason: fmt.Sprintf("destination points at %s, want a map", mp.Kind())}
	}
	et := mp.Type().Elem()
	byPtr := et.Kind() == reflect.Ptr
	if byPtr {
		et = et.Elem()
	}
	if et.Kind() != reflect.Struct {
		return reflect.Value{}, nil, nil, false, &tablemap.ArgumentError{Arg: "dest", Reason: fmt.Sprintf("map value %s is not a struct", et)}
	}
	return mp, mp.Type().Key(), et, byPtr, nil
}
