package tablemap

import "fmt"

// SchemaError reports that a descriptor could not be built for a type, for
// example an unmappable destination type or a wrapper override that cannot
// express the member it is declared on.
type SchemaError struct {
	Type   string
	Field  string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("tablemap: schema error on %s.%s: %s", e.Type, e.Field, e.Reason)
	}
	return fmt.Sprintf("tablemap: schema error on %s: %s", e.Type, e.Reason)
}

// NotMappableError reports an enumeration value with no declared association
// and no declared default.
type NotMappableError struct {
	Type  string
	Value any
}

func (e *NotMappableError) Error() string {
	return fmt.Sprintf("tablemap: value %v is not mappable to %s", e.Value, e.Type)
}

// ConversionError reports a raw value that could not be coerced to the
// destination type.
type ConversionError struct {
	Value any
	To    string
	Err   error
}

func (e *ConversionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("tablemap: cannot convert %v (%T) to %s: %v", e.Value, e.Value, e.To, e.Err)
	}
	return fmt.Sprintf("tablemap: cannot convert %v (%T) to %s", e.Value, e.Value, e.To)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// ArgumentError reports a nil or otherwise unusable required argument. It is
// never wrapped by the operation boundary.
type ArgumentError struct {
	Arg    string
	Reason string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("tablemap: argument %s: %s", e.Arg, e.Reason)
}

// MappingError is the single wrapper raised at every public operation
// boundary for failures that are not argument errors or mapping errors
// themselves. The original cause is available through Unwrap.
type MappingError struct {
	Op  string
	Err error
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("tablemap: %s: %v", e.Op, e.Err)
}

func (e *MappingError) Unwrap() error {
	return e.Err
}
