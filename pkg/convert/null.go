package convert

import (
	"reflect"
	"strings"
	"time"
	"unicode"
)

// IsNull reports whether a value is logically null under the engine's fixed
// policy: native nil (including typed nil pointers and interfaces), a string
// that is empty once trailing whitespace is trimmed, a zero time instant, or
// an integer of any size equal to zero. The policy is not configurable;
// callers needing different semantics pre- or post-process values themselves.
func IsNull(v any) bool {
	if v == nil {
		return true
	}
	switch t := v.(type) {
	case string:
		return strings.TrimRightFunc(t, unicode.IsSpace) == ""
	case time.Time:
		return t.IsZero()
	case int:
		return t == 0
	case int8:
		return t == 0
	case int16:
		return t == 0
	case int32:
		return t == 0
	case int64:
		return t == 0
	case uint:
		return t == 0
	case uint8:
		return t == 0
	case uint16:
		return t == 0
	case uint32:
		return t == 0
	case uint64:
		return t == 0
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return true
		}
		return IsNull(rv.Elem().Interface())
	case reflect.String:
		return strings.TrimRightFunc(rv.String(), unicode.IsSpace) == ""
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() == 0
	}
	return false
}
