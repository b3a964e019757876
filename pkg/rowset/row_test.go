package rowset

import (
	"errors"
	"reflect"
	"testing"

	"github.com/user/tablemap"
)

func personTable(t *testing.T) *Table {
	t.Helper()
	tbl := New("person")
	if _, err := tbl.AddColumn("ID", reflect.TypeOf(0)); err != nil {
		t.Fatalf("AddColumn() error = %v", err)
	}
	if _, err := tbl.AddColumn("Name", reflect.TypeOf("")); err != nil {
		t.Fatalf("AddColumn() error = %v", err)
	}
	return tbl
}

func TestRowLifecycle(t *testing.T) {
	tbl := personTable(t)

	r := tbl.NewRow()
	if r.State() != StateDetached {
		t.Fatalf("State() = %v, want detached", r.State())
	}
	if err := r.SetValue(0, 1); err != nil {
		t.Fatalf("SetValue() error = %v", err)
	}
	if err := r.SetValueByName("Name", "ada"); err != nil {
		t.Fatalf("SetValueByName() error = %v", err)
	}
	if got := r.Value(1); got != "ada" {
		t.Errorf("Value(1) = %#v, want ada", got)
	}

	if err := tbl.Add(r); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if r.State() != StateAdded {
		t.Errorf("State() = %v, want added", r.State())
	}
	if got := r.Value(0); got != 1 {
		t.Errorf("Value(0) = %#v, want 1", got)
	}

	r.AcceptChanges()
	if r.State() != StateUnchanged {
		t.Errorf("State() = %v, want unchanged", r.State())
	}

	// a direct write keeps the original values and marks the row modified
	if err := r.SetValueByName("Name", "grace"); err != nil {
		t.Fatalf("SetValueByName() error = %v", err)
	}
	if r.State() != StateModified {
		t.Errorf("State() = %v, want modified", r.State())
	}
	orig, err := r.ValueAt(1, VersionOriginal)
	if err != nil {
		t.Fatalf("ValueAt(original) error = %v", err)
	}
	if orig != "ada" {
		t.Errorf("original = %#v, want ada", orig)
	}
	if got := r.Value(1); got != "grace" {
		t.Errorf("current = %#v, want grace", got)
	}
}

func TestRowTypedColumn(t *testing.T) {
	tbl := personTable(t)
	r := tbl.NewRow()
	if err := r.SetValue(0, "42"); err != nil {
		t.Fatalf("SetValue() error = %v", err)
	}
	if got := r.Value(0); got != 42 {
		t.Errorf("Value(0) = %#v, want int 42", got)
	}

	if err := r.SetValue(0, "not a number"); err == nil {
		t.Error("SetValue(bad int) expected error")
	}

	if err := r.SetValue(0, nil); err != nil {
		t.Fatalf("SetValue(nil) error = %v", err)
	}
	if got := r.Value(0); got != nil {
		t.Errorf("Value(0) = %#v, want nil cell", got)
	}
}

func TestRowEditing(t *testing.T) {
	tbl := personTable(t)
	r, err := tbl.AddValues(1, "ada")
	if err != nil {
		t.Fatalf("AddValues() error = %v", err)
	}
	tbl.AcceptChanges()

	if err := r.BeginEdit(); err != nil {
		t.Fatalf("BeginEdit() error = %v", err)
	}
	if err := r.SetValueByName("Name", "grace"); err != nil {
		t.Fatalf("SetValue() error = %v", err)
	}

	// while editing, default reads see proposed, current stays put
	if got := r.Value(1); got != "grace" {
		t.Errorf("Value() = %#v, want grace", got)
	}
	cur, err := r.ValueAt(1, VersionCurrent)
	if err != nil {
		t.Fatalf("ValueAt(current) error = %v", err)
	}
	if cur != "ada" {
		t.Errorf("current = %#v, want ada", cur)
	}

	r.CancelEdit()
	if got := r.Value(1); got != "ada" {
		t.Errorf("Value() after cancel = %#v, want ada", got)
	}
	if r.State() != StateUnchanged {
		t.Errorf("State() = %v, want unchanged", r.State())
	}

	if err := r.BeginEdit(); err != nil {
		t.Fatalf("BeginEdit() error = %v", err)
	}
	if err := r.SetValueByName("Name", "grace"); err != nil {
		t.Fatalf("SetValue() error = %v", err)
	}
	if err := r.EndEdit(); err != nil {
		t.Fatalf("EndEdit() error = %v", err)
	}
	if r.State() != StateModified {
		t.Errorf("State() = %v, want modified", r.State())
	}
	if got := r.Value(1); got != "grace" {
		t.Errorf("Value() after end = %#v, want grace", got)
	}
	orig, err := r.ValueAt(1, VersionOriginal)
	if err != nil {
		t.Fatalf("ValueAt(original) error = %v", err)
	}
	if orig != "ada" {
		t.Errorf("original = %#v, want ada", orig)
	}
}

func TestRowDelete(t *testing.T) {
	tbl := personTable(t)
	r, err := tbl.AddValues(1, "ada")
	if err != nil {
		t.Fatalf("AddValues() error = %v", err)
	}
	tbl.AcceptChanges()

	if err := r.Delete(); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if r.State() != StateDeleted {
		t.Errorf("State() = %v, want deleted", r.State())
	}
	if tbl.NumRows() != 1 {
		t.Errorf("NumRows() = %d, deleted row should stay until accepted", tbl.NumRows())
	}

	if _, err := r.ValueAt(0, VersionDefault); err == nil {
		t.Error("ValueAt(default) on deleted row expected error")
	}
	orig, err := r.ValueAt(1, VersionOriginal)
	if err != nil {
		t.Fatalf("ValueAt(original) error = %v", err)
	}
	if orig != "ada" {
		t.Errorf("original = %#v, want ada", orig)
	}

	if err := r.SetValue(0, 2); err == nil {
		t.Error("SetValue() on deleted row expected error")
	}

	tbl.AcceptChanges()
	if tbl.NumRows() != 0 {
		t.Errorf("NumRows() = %d, want 0 after accept", tbl.NumRows())
	}
}

func TestRowDeleteAdded(t *testing.T) {
	tbl := personTable(t)
	r, err := tbl.AddValues(1, "ada")
	if err != nil {
		t.Fatalf("AddValues() error = %v", err)
	}

	// deleting a row that was never accepted removes it outright
	if err := r.Delete(); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if tbl.NumRows() != 0 {
		t.Errorf("NumRows() = %d, want 0", tbl.NumRows())
	}
	if r.State() != StateDetached {
		t.Errorf("State() = %v, want detached", r.State())
	}
}

func TestRowRejectChanges(t *testing.T) {
	tbl := personTable(t)
	r, err := tbl.AddValues(1, "ada")
	if err != nil {
		t.Fatalf("AddValues() error = %v", err)
	}
	tbl.AcceptChanges()

	if err := r.SetValueByName("Name", "grace"); err != nil {
		t.Fatalf("SetValue() error = %v", err)
	}
	r.RejectChanges()
	if got := r.Value(1); got != "ada" {
		t.Errorf("Value() after reject = %#v, want ada", got)
	}
	if r.State() != StateUnchanged {
		t.Errorf("State() = %v, want unchanged", r.State())
	}

	if err := r.Delete(); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	r.RejectChanges()
	if r.State() != StateUnchanged {
		t.Errorf("State() after rejected delete = %v, want unchanged", r.State())
	}

	added, err := tbl.AddValues(2, "lin")
	if err != nil {
		t.Fatalf("AddValues() error = %v", err)
	}
	tbl.RejectChanges()
	if tbl.NumRows() != 1 {
		t.Errorf("NumRows() = %d, want 1 after rejecting the add", tbl.NumRows())
	}
	if added.State() != StateDetached {
		t.Errorf("State() = %v, want detached", added.State())
	}
}

func TestRowVersionAvailability(t *testing.T) {
	tbl := personTable(t)

	detached := tbl.NewRow()
	if !detached.HasVersion(VersionProposed) || !detached.HasVersion(VersionDefault) {
		t.Error("detached row should hold proposed and default versions")
	}
	if detached.HasVersion(VersionCurrent) || detached.HasVersion(VersionOriginal) {
		t.Error("detached row should hold neither current nor original")
	}

	added, err := tbl.AddValues(1, "ada")
	if err != nil {
		t.Fatalf("AddValues() error = %v", err)
	}
	if !added.HasVersion(VersionCurrent) {
		t.Error("added row should hold current")
	}
	if added.HasVersion(VersionOriginal) || added.HasVersion(VersionProposed) {
		t.Error("added row should hold neither original nor proposed")
	}

	added.AcceptChanges()
	if !added.HasVersion(VersionOriginal) {
		t.Error("unchanged row should hold original")
	}

	var ae *tablemap.ArgumentError
	_, err = added.ValueAt(0, VersionProposed)
	if !errors.As(err, &ae) {
		t.Errorf("ValueAt(proposed) error = %T, want *ArgumentError", err)
	}
}
