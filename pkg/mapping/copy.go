package mapping

import (
	"fmt"

	"github.com/user/tablemap"
)

// Copy moves one record from a source to a receiver. This is the one copy
// path every operation in the package funnels through. Staged initialization
// brackets the writes when the destination asks for it, each named field is
// offered to a FieldSetter destination before generic resolution, fields the
// receiver has no slot for are skipped, and unnamed source fields are
// ignored.
func Copy(source tablemap.DataSource, sourceEntry any, receiver tablemap.DataReceiver, receiverEntry any) error {
	if source == nil {
		return &tablemap.ArgumentError{Arg: "source", Reason: "nil source"}
	}
	if receiver == nil {
		return &tablemap.ArgumentError{Arg: "receiver", Reason: "nil receiver"}
	}
	if ini, ok := receiverEntry.(tablemap.Initializer); ok {
		ini.BeginInit()
		defer ini.EndInit()
	}
	setter, settable := receiverEntry.(tablemap.FieldSetter)

	n := source.FieldCount()
	for i := 0; i < n; i++ {
		name := source.FieldName(i)
		if name == "" {
			continue
		}
		value := source.Value(i, sourceEntry)
		if settable && setter.SetField(name, value) {
			continue
		}
		ord := receiver.Ordinal(name)
		if ord < 0 {
			continue
		}
		if err := receiver.SetValue(ord, name, receiverEntry, value); err != nil {
			return fmt.Errorf("field %q: %w", name, err)
		}
	}
	RowsMapped.Inc()
	return nil
}
