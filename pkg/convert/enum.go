package convert

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/user/tablemap"
)

// EnumValue associates one enumerator of a named type with the literal that
// represents it in tabular data. The literal may be of any scalar type; a
// single enumerator may appear several times with different literals, in
// which case the first declaration wins on the outbound side.
type EnumValue struct {
	Enum    any
	Literal any
}

type enumTable struct {
	typ    reflect.Type
	values []EnumValue
	def    any
	hasDef bool
}

var enums = struct {
	mu     sync.RWMutex
	tables map[reflect.Type]*enumTable
}{tables: map[reflect.Type]*enumTable{}}

// RegisterEnum declares the literal association table for an enumerated type,
// given by prototype. An optional default value is returned for literals with
// no declared association; without one such literals are a mapping failure.
// Registering a type again replaces its table.
func RegisterEnum(prototype any, values []EnumValue, defaultValue ...any) error {
	t := reflect.TypeOf(prototype)
	if t == nil {
		return fmt.Errorf("nil enum prototype")
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.String:
	default:
		return fmt.Errorf("enum prototype %s must have an integer or string kind", t)
	}
	tb := &enumTable{typ: t, values: make([]EnumValue, len(values))}
	for i, v := range values {
		vt := reflect.TypeOf(v.Enum)
		if vt == nil || !vt.AssignableTo(t) {
			return fmt.Errorf("enum value %v is not a %s", v.Enum, t)
		}
		tb.values[i] = v
	}
	if len(defaultValue) > 0 {
		dt := reflect.TypeOf(defaultValue[0])
		if dt == nil || !dt.AssignableTo(t) {
			return fmt.Errorf("enum default %v is not a %s", defaultValue[0], t)
		}
		tb.def = defaultValue[0]
		tb.hasDef = true
	}
	enums.mu.Lock()
	enums.tables[t] = tb
	enums.mu.Unlock()
	return nil
}

func enumFor(t reflect.Type) (*enumTable, bool) {
	enums.mu.RLock()
	tb, ok := enums.tables[t]
	enums.mu.RUnlock()
	return tb, ok
}

// IsEnum reports whether a table of literal associations is registered for t.
func IsEnum(t reflect.Type) bool {
	_, ok := enumFor(t)
	return ok
}

// ToEnum resolves a raw tabular literal to an enumerator of type t. A literal
// with no association yields the table's default, or a NotMappableError when
// none was declared.
func ToEnum(t reflect.Type, raw any) (any, error) {
	tb, ok := enumFor(t)
	if !ok {
		return nil, &tablemap.NotMappableError{Type: t.String(), Value: raw}
	}
	for _, v := range tb.values {
		if literalEqual(v.Literal, raw) {
			return reflect.ValueOf(v.Enum).Convert(t).Interface(), nil
		}
	}
	if tb.hasDef {
		return reflect.ValueOf(tb.def).Convert(t).Interface(), nil
	}
	return nil, &tablemap.NotMappableError{Type: t.String(), Value: raw}
}

// FromEnum resolves an enumerator back to its declared literal, reporting
// whether v's type has a table at all. An enumerator missing from its own
// table falls back to its underlying value.
func FromEnum(v any) (any, bool) {
	t := reflect.TypeOf(v)
	if t == nil {
		return v, false
	}
	tb, ok := enumFor(t)
	if !ok {
		return v, false
	}
	rv := reflect.ValueOf(v)
	for _, ev := range tb.values {
		if reflect.ValueOf(ev.Enum).Convert(t).Interface() == rv.Interface() {
			return ev.Literal, true
		}
	}
	switch t.Kind() {
	case reflect.String:
		return rv.String(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint(), true
	default:
		return rv.Int(), true
	}
}

// literalEqual compares a declared literal with a raw tabular value by
// underlying value, tolerating the width and signedness differences drivers
// introduce. Comparison never crosses kind families.
func literalEqual(lit, raw any) bool {
	if lit == nil || raw == nil {
		return lit == nil && raw == nil
	}
	if b, ok := raw.([]byte); ok {
		raw = string(b)
	}
	lv, rv := reflect.ValueOf(lit), reflect.ValueOf(raw)
	switch lf, rf := kindFamily(lv.Type()), kindFamily(rv.Type()); {
	case lf != rf:
		return false
	case lf == familyString:
		return asString(lv) == asString(rv)
	case lf == familyBool:
		return lv.Bool() == rv.Bool()
	case lf == familyNumeric:
		return numericEqual(lv, rv)
	}
	if lv.Type() == rv.Type() && lv.Comparable() {
		return lv.Interface() == rv.Interface()
	}
	return false
}

func asString(v reflect.Value) string {
	if v.Kind() == reflect.String {
		return v.String()
	}
	if s, ok := v.Interface().(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprint(v.Interface())
}

func numericEqual(a, b reflect.Value) bool {
	af, bf := toFloat(a), toFloat(b)
	return af == bf
}

func toFloat(v reflect.Value) float64 {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint())
	default:
		return v.Float()
	}
}
