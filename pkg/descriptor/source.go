package descriptor

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/user/tablemap"
	"github.com/user/tablemap/pkg/convert"
)

// FieldCount returns the number of mapped members.
func (d *Descriptor) FieldCount() int { return len(d.fields) }

// FieldName returns the tabular name of the i-th member.
func (d *Descriptor) FieldName(i int) string { return d.fields[i].Name }

// Ordinal resolves a tabular name to a member position, case-insensitively,
// returning -1 for names the type does not map.
func (d *Descriptor) Ordinal(name string) int {
	if i, ok := d.ordinals[strings.ToLower(name)]; ok {
		return i
	}
	return -1
}

// Value extracts the i-th member of an entry in tabular form: enumerators
// become literals, wrappers unwrap, and members declared nullable yield nil
// for their null forms. An entry of the wrong type yields nil.
func (d *Descriptor) Value(i int, entry any) any {
	rv := reflect.ValueOf(entry)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() || rv.Type() != d.typ {
		return nil
	}
	f := &d.fields[i]
	out := convert.FromValue(rv.FieldByIndex(f.Index).Interface())
	if (f.Nullable || f.Wrapper != nil) && convert.IsNull(out) {
		return nil
	}
	return out
}

// SetValue converts a tabular value and stores it into the named member of
// an entry, which must be a non-nil struct pointer. Members declared
// nullable have null forms of the incoming value normalized to nil first.
func (d *Descriptor) SetValue(ordinal int, name string, entry any, value any) error {
	if ordinal < 0 || ordinal >= len(d.fields) {
		return &tablemap.ArgumentError{Arg: "ordinal", Reason: fmt.Sprintf("field %d out of range for %s", ordinal, d.typ)}
	}
	rv := reflect.ValueOf(entry)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return &tablemap.ArgumentError{Arg: "entry", Reason: "destination must be a non-nil struct pointer"}
	}
	rv = rv.Elem()
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			rv.Set(reflect.New(rv.Type().Elem()))
		}
		rv = rv.Elem()
	}
	if rv.Type() != d.typ {
		return &tablemap.ArgumentError{Arg: "entry", Reason: fmt.Sprintf("destination is %s, descriptor is %s", rv.Type(), d.typ)}
	}
	f := &d.fields[ordinal]
	if f.Nullable && convert.IsNull(value) {
		value = nil
	}
	out, err := convert.ToType(value, f.Type, f.Wrapper)
	if err != nil {
		return err
	}
	fv := rv.FieldByIndex(f.Index)
	if out == nil {
		fv.Set(reflect.Zero(f.Type))
		return nil
	}
	fv.Set(reflect.ValueOf(out))
	return nil
}
