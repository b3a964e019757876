package convert

import (
	"errors"
	"reflect"
	"testing"

	"github.com/user/tablemap"
)

type orderState int

const (
	orderOpen orderState = iota
	orderShipped
	orderClosed
)

type accessKind string

const (
	accessRead  accessKind = "read"
	accessWrite accessKind = "write"
)

func TestEnumRoundTrip(t *testing.T) {
	err := RegisterEnum(orderState(0), []EnumValue{
		{orderOpen, "O"},
		{orderShipped, "S"},
		{orderClosed, "C"},
	})
	if err != nil {
		t.Fatalf("RegisterEnum() error = %v", err)
	}

	got, err := ToEnum(reflect.TypeOf(orderState(0)), "S")
	if err != nil {
		t.Fatalf("ToEnum() error = %v", err)
	}
	if got != orderShipped {
		t.Errorf("ToEnum(S) = %v, want %v", got, orderShipped)
	}

	lit, ok := FromEnum(orderClosed)
	if !ok || lit != "C" {
		t.Errorf("FromEnum(orderClosed) = %v, %v, want C, true", lit, ok)
	}
}

func TestEnumLiteralWidths(t *testing.T) {
	type priority int8
	err := RegisterEnum(priority(0), []EnumValue{
		{priority(1), 10},
		{priority(2), 20},
	})
	if err != nil {
		t.Fatalf("RegisterEnum() error = %v", err)
	}

	// drivers hand back int64 and []byte, the table declares int and string
	got, err := ToEnum(reflect.TypeOf(priority(0)), int64(20))
	if err != nil {
		t.Fatalf("ToEnum() error = %v", err)
	}
	if got != priority(2) {
		t.Errorf("ToEnum(int64 20) = %v, want 2", got)
	}

	err = RegisterEnum(accessKind(""), []EnumValue{
		{accessRead, "R"},
		{accessWrite, "W"},
	})
	if err != nil {
		t.Fatalf("RegisterEnum() error = %v", err)
	}
	got, err = ToEnum(reflect.TypeOf(accessKind("")), []byte("W"))
	if err != nil {
		t.Fatalf("ToEnum() error = %v", err)
	}
	if got != accessWrite {
		t.Errorf("ToEnum(bytes W) = %v, want write", got)
	}
}

func TestEnumUnknownLiteral(t *testing.T) {
	type color int
	err := RegisterEnum(color(0), []EnumValue{{color(1), "red"}})
	if err != nil {
		t.Fatalf("RegisterEnum() error = %v", err)
	}

	_, err = ToEnum(reflect.TypeOf(color(0)), "violet")
	if err == nil {
		t.Fatal("ToEnum() expected error")
	}
	var nme *tablemap.NotMappableError
	if !errors.As(err, &nme) {
		t.Fatalf("ToEnum() error = %T, want *NotMappableError", err)
	}
	if nme.Value != "violet" {
		t.Errorf("NotMappableError.Value = %v, want violet", nme.Value)
	}
}

func TestEnumDefault(t *testing.T) {
	type shade int
	err := RegisterEnum(shade(0), []EnumValue{{shade(1), "light"}}, shade(9))
	if err != nil {
		t.Fatalf("RegisterEnum() error = %v", err)
	}

	got, err := ToEnum(reflect.TypeOf(shade(0)), "unknown")
	if err != nil {
		t.Fatalf("ToEnum() error = %v", err)
	}
	if got != shade(9) {
		t.Errorf("ToEnum(unknown) = %v, want 9", got)
	}
}

func TestEnumUndeclaredEnumerator(t *testing.T) {
	type rank int
	err := RegisterEnum(rank(0), []EnumValue{{rank(1), "one"}})
	if err != nil {
		t.Fatalf("RegisterEnum() error = %v", err)
	}

	// an enumerator without an association falls back to its number
	lit, ok := FromEnum(rank(5))
	if !ok || lit != int64(5) {
		t.Errorf("FromEnum(rank 5) = %v, %v, want 5, true", lit, ok)
	}
}

func TestFromEnumUnregistered(t *testing.T) {
	type loose int
	if _, ok := FromEnum(loose(1)); ok {
		t.Error("FromEnum(unregistered) = true, want false")
	}
}

func TestRegisterEnumValidation(t *testing.T) {
	if err := RegisterEnum(struct{}{}, nil); err == nil {
		t.Error("RegisterEnum(struct) expected error")
	}
	type fine int
	if err := RegisterEnum(fine(0), []EnumValue{{Enum: "wrong type", Literal: 1}}); err == nil {
		t.Error("RegisterEnum(mismatched value) expected error")
	}
}

func TestToTypeEnumDestination(t *testing.T) {
	type phase int
	err := RegisterEnum(phase(0), []EnumValue{
		{phase(1), "start"},
		{phase(2), "end"},
	})
	if err != nil {
		t.Fatalf("RegisterEnum() error = %v", err)
	}

	got, err := ToType("end", reflect.TypeOf(phase(0)), nil)
	if err != nil {
		t.Fatalf("ToType() error = %v", err)
	}
	if got != phase(2) {
		t.Errorf("ToType(end) = %v, want 2", got)
	}
}
