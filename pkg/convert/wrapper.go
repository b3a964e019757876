package convert

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	scannerType = reflect.TypeOf((*sql.Scanner)(nil)).Elem()
	valuerType  = reflect.TypeOf((*driver.Valuer)(nil)).Elem()
	timeType    = reflect.TypeOf(time.Time{})
)

// IsWrapperType reports whether t is a nullable wrapper: a struct with a
// Valid bool field whose pointer implements sql.Scanner, such as
// sql.NullString or pgtype.Int4. The Valid field keeps types that are merely
// scannable, decimal.Decimal for one, out of wrapper inference.
func IsWrapperType(t reflect.Type) bool {
	if t == nil || t.Kind() != reflect.Struct || t == timeType {
		return false
	}
	if !reflect.PtrTo(t).Implements(scannerType) {
		return false
	}
	f, ok := t.FieldByName("Valid")
	return ok && f.Type.Kind() == reflect.Bool
}

// WrapperValueType returns the native type a wrapper holds, taken from its
// first exported field other than Valid. Returns nil when no such field
// exists.
func WrapperValueType(t reflect.Type) reflect.Type {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" || f.Name == "Valid" {
			continue
		}
		return f.Type
	}
	return nil
}

// CompatibleWrapper checks that a wrapper type can stand in for a member of
// the given type: the wrapper must be scannable, and unless the member is the
// wrapper itself it must also be a Valuer holding a value of the member's
// kind family.
func CompatibleWrapper(wrapper, member reflect.Type) error {
	if !IsWrapperType(wrapper) {
		return fmt.Errorf("type %s is not a scannable wrapper", wrapper)
	}
	if wrapper == member {
		return nil
	}
	if !wrapper.Implements(valuerType) && !reflect.PtrTo(wrapper).Implements(valuerType) {
		return fmt.Errorf("wrapper %s has no Value method to unwrap into %s", wrapper, member)
	}
	vt := WrapperValueType(wrapper)
	if vt == nil {
		return fmt.Errorf("wrapper %s exposes no value field", wrapper)
	}
	wf, mf := kindFamily(vt), kindFamily(member)
	if wf == familyNone || mf == familyNone || wf != mf {
		return fmt.Errorf("wrapper %s holds %s, member is %s", wrapper, vt, member)
	}
	return nil
}

type family int

const (
	familyNone family = iota
	familyNumeric
	familyString
	familyBool
	familyTime
	familyBytes
)

func kindFamily(t reflect.Type) family {
	if t == timeType {
		return familyTime
	}
	if t == reflect.TypeOf(decimal.Decimal{}) || t == reflect.TypeOf(uuid.UUID{}) {
		return familyString
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return familyNumeric
	case reflect.String:
		return familyString
	case reflect.Bool:
		return familyBool
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return familyBytes
		}
	}
	return familyNone
}

// Wrap constructs a wrapper value of type w from a raw tabular value. A nil
// raw yields the wrapper's null state. The raw value is normalized to the
// driver types Scan implementations accept before scanning.
func Wrap(raw any, w reflect.Type) (any, error) {
	pv := reflect.New(w)
	sc, ok := pv.Interface().(sql.Scanner)
	if !ok {
		return nil, fmt.Errorf("type %s is not a scannable wrapper", w)
	}
	if raw == nil {
		if err := sc.Scan(nil); err != nil {
			return nil, err
		}
		return pv.Elem().Interface(), nil
	}
	if err := sc.Scan(driverValue(raw)); err != nil {
		return nil, err
	}
	return pv.Elem().Interface(), nil
}

// Unwrap extracts the native value from a Valuer, reporting whether v was
// one. A null wrapper unwraps to nil. Valuer errors are swallowed and leave
// the original value in place; tabular reads have no error channel for them.
func Unwrap(v any) (any, bool) {
	vv, ok := v.(driver.Valuer)
	if !ok {
		rv := reflect.ValueOf(v)
		if !rv.IsValid() || !reflect.PtrTo(rv.Type()).Implements(valuerType) {
			return v, false
		}
		pv := reflect.New(rv.Type())
		pv.Elem().Set(rv)
		vv = pv.Interface().(driver.Valuer)
	}
	out, err := vv.Value()
	if err != nil {
		return v, false
	}
	return out, true
}

// driverValue reduces an arbitrary raw value to one of the types Scan
// implementations conventionally accept: int64, float64, bool, string,
// []byte, time.Time or nil.
func driverValue(raw any) any {
	switch t := raw.(type) {
	case nil, int64, float64, bool, string, []byte, time.Time:
		return raw
	case int:
		return int64(t)
	case int8:
		return int64(t)
	case int16:
		return int64(t)
	case int32:
		return int64(t)
	case uint:
		return int64(t)
	case uint8:
		return int64(t)
	case uint16:
		return int64(t)
	case uint32:
		return int64(t)
	case uint64:
		return int64(t)
	case float32:
		return float64(t)
	case uuid.UUID:
		return t.String()
	case decimal.Decimal:
		return t.String()
	}
	if out, ok := Unwrap(raw); ok {
		if out == nil {
			return nil
		}
		return driverValue(out)
	}
	return raw
}

var wrapperNames = struct {
	mu    sync.RWMutex
	types map[string]reflect.Type
}{types: map[string]reflect.Type{
	"NullBool":    reflect.TypeOf(sql.NullBool{}),
	"NullByte":    reflect.TypeOf(sql.NullByte{}),
	"NullFloat64": reflect.TypeOf(sql.NullFloat64{}),
	"NullInt16":   reflect.TypeOf(sql.NullInt16{}),
	"NullInt32":   reflect.TypeOf(sql.NullInt32{}),
	"NullInt64":   reflect.TypeOf(sql.NullInt64{}),
	"NullString":  reflect.TypeOf(sql.NullString{}),
	"NullTime":    reflect.TypeOf(sql.NullTime{}),
	"NullUUID":    reflect.TypeOf(uuid.NullUUID{}),
	"NullDecimal": reflect.TypeOf(decimal.NullDecimal{}),
}}

// RegisterWrapper makes a wrapper type addressable by name in struct tags.
// The database/sql Null types, uuid.NullUUID and decimal.NullDecimal are
// preregistered.
func RegisterWrapper(name string, prototype any) error {
	t := reflect.TypeOf(prototype)
	if t == nil {
		return fmt.Errorf("nil wrapper prototype for %q", name)
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if !IsWrapperType(t) {
		return fmt.Errorf("type %s is not a scannable wrapper", t)
	}
	wrapperNames.mu.Lock()
	wrapperNames.types[name] = t
	wrapperNames.mu.Unlock()
	return nil
}

// WrapperByName resolves a registered wrapper name to its type.
func WrapperByName(name string) (reflect.Type, bool) {
	wrapperNames.mu.RLock()
	t, ok := wrapperNames.types[name]
	wrapperNames.mu.RUnlock()
	return t, ok
}
