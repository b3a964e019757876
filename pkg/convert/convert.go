// Package convert turns raw tabular values into business-object member
// values and back. It owns the null policy, the enum association tables and
// the nullable wrapper support the rest of the engine builds on.
package convert

import (
	"fmt"
	"math/big"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"github.com/user/tablemap"
)

var (
	stringType  = reflect.TypeOf("")
	bytesType   = reflect.TypeOf([]byte(nil))
	uuidType    = reflect.TypeOf(uuid.UUID{})
	decimalType = reflect.TypeOf(decimal.Decimal{})
)

// ToType converts a raw tabular value to the destination type. A non-nil
// wrapper type overrides inference: when it equals dest the wrapper itself is
// built, otherwise the raw value passes through the wrapper for null
// normalization and its native value continues to dest. Without an override,
// enum tables are consulted first, then wrapper destinations, then plain
// coercion. A nil raw always yields the destination's null state.
func ToType(raw any, dest reflect.Type, wrapper reflect.Type) (any, error) {
	if dest == nil {
		return nil, &tablemap.ArgumentError{Arg: "dest", Reason: "nil destination type"}
	}
	if wrapper != nil {
		w, err := Wrap(raw, wrapper)
		if err != nil {
			return nil, &tablemap.ConversionError{Value: raw, To: dest.String(), Err: err}
		}
		if wrapper == dest {
			return w, nil
		}
		raw, _ = Unwrap(w)
	}
	if raw == nil {
		return zeroValue(dest)
	}
	if IsEnum(dest) {
		return ToEnum(dest, raw)
	}
	if IsWrapperType(dest) {
		w, err := Wrap(raw, dest)
		if err != nil {
			return nil, &tablemap.ConversionError{Value: raw, To: dest.String(), Err: err}
		}
		return w, nil
	}
	return coerce(raw, dest)
}

// FromValue maps a business-object member value to its tabular form:
// enumerators become their declared literals, Valuers unwrap to a native
// value or nil, pointers dereference, nil stays nil.
func FromValue(v any) any {
	if v == nil {
		return nil
	}
	if lit, ok := FromEnum(v); ok {
		return lit
	}
	if out, ok := Unwrap(v); ok {
		return out
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
		return FromValue(rv.Elem().Interface())
	}
	return v
}

// zeroValue is the destination's representation of null: a null wrapper for
// wrapper types, the zero value otherwise.
func zeroValue(dest reflect.Type) (any, error) {
	if IsWrapperType(dest) {
		return Wrap(nil, dest)
	}
	return reflect.Zero(dest).Interface(), nil
}

func coerce(raw any, dest reflect.Type) (any, error) {
	rt := reflect.TypeOf(raw)
	if rt == dest {
		return raw, nil
	}
	if out, ok := Unwrap(raw); ok {
		if out == nil {
			return zeroValue(dest)
		}
		raw, rt = out, reflect.TypeOf(out)
		if rt == dest {
			return raw, nil
		}
	}
	if b, ok := raw.([]byte); ok && dest.Kind() != reflect.String && dest != bytesType && dest != uuidType {
		raw, rt = string(b), stringType
	}
	raw, rt = flatten(raw, rt)

	var out any
	var err error
	switch {
	case dest == timeType:
		out, err = cast.ToTimeE(raw)
	case dest == uuidType:
		out, err = toUUID(raw)
	case dest == decimalType:
		out, err = toDecimal(raw)
	default:
		switch dest.Kind() {
		case reflect.String:
			out, err = toString(raw)
		case reflect.Bool:
			out, err = cast.ToBoolE(raw)
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			out, err = cast.ToInt64E(raw)
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			out, err = cast.ToUint64E(raw)
		case reflect.Float32, reflect.Float64:
			out, err = cast.ToFloat64E(raw)
		case reflect.Ptr:
			inner, e := ToType(raw, dest.Elem(), nil)
			if e != nil {
				return nil, e
			}
			pv := reflect.New(dest.Elem())
			pv.Elem().Set(reflect.ValueOf(inner))
			return pv.Interface(), nil
		case reflect.Interface:
			if rt.Implements(dest) {
				return raw, nil
			}
			err = fmt.Errorf("%s does not implement %s", rt, dest)
		case reflect.Slice:
			if dest.Elem().Kind() == reflect.Uint8 {
				if s, ok := raw.(string); ok {
					return reflect.ValueOf([]byte(s)).Convert(dest).Interface(), nil
				}
			}
			if rt.ConvertibleTo(dest) {
				return reflect.ValueOf(raw).Convert(dest).Interface(), nil
			}
			err = fmt.Errorf("no conversion from %s", rt)
		default:
			if rt.ConvertibleTo(dest) {
				return reflect.ValueOf(raw).Convert(dest).Interface(), nil
			}
			err = fmt.Errorf("no conversion from %s", rt)
		}
	}
	if err != nil {
		return nil, &tablemap.ConversionError{Value: raw, To: dest.String(), Err: err}
	}
	ov := reflect.ValueOf(out)
	if ov.Type() != dest {
		if !ov.Type().ConvertibleTo(dest) {
			return nil, &tablemap.ConversionError{Value: raw, To: dest.String(), Err: fmt.Errorf("no conversion from %s", ov.Type())}
		}
		ov = ov.Convert(dest)
	}
	return ov.Interface(), nil
}

// flatten reduces named basic types to their underlying predeclared form so
// the cast helpers recognize them. Structs, arrays and slices pass through.
func flatten(raw any, rt reflect.Type) (any, reflect.Type) {
	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.String:
		if rt != stringType {
			return rv.String(), stringType
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), reflect.TypeOf(int64(0))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint(), reflect.TypeOf(uint64(0))
	case reflect.Float32, reflect.Float64:
		return rv.Float(), reflect.TypeOf(float64(0))
	case reflect.Bool:
		return rv.Bool(), reflect.TypeOf(false)
	}
	return raw, rt
}

func toString(raw any) (string, error) {
	switch t := raw.(type) {
	case time.Time:
		return t.Format(time.RFC3339), nil
	case []byte:
		return string(t), nil
	case uuid.UUID:
		return t.String(), nil
	case decimal.Decimal:
		return t.String(), nil
	}
	return cast.ToStringE(raw)
}

func toUUID(raw any) (uuid.UUID, error) {
	switch t := raw.(type) {
	case uuid.UUID:
		return t, nil
	case [16]byte:
		return uuid.UUID(t), nil
	case []byte:
		if len(t) == 16 {
			return uuid.FromBytes(t)
		}
		return uuid.Parse(string(t))
	case string:
		return uuid.Parse(t)
	}
	return uuid.UUID{}, fmt.Errorf("unable to cast %T to uuid.UUID", raw)
}

func toDecimal(raw any) (decimal.Decimal, error) {
	switch t := raw.(type) {
	case decimal.Decimal:
		return t, nil
	case string:
		return decimal.NewFromString(t)
	case int64:
		return decimal.NewFromInt(t), nil
	case uint64:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(t), 0), nil
	case float64:
		return decimal.NewFromFloat(t), nil
	case []byte:
		return decimal.NewFromString(string(t))
	}
	return decimal.Decimal{}, fmt.Errorf("unable to cast %T to decimal.Decimal", raw)
}
