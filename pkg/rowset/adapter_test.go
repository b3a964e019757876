package rowset

import (
	"testing"
)

func TestNewRowSource(t *testing.T) {
	tbl := personTable(t)
	r, err := tbl.AddValues(1, "ada")
	if err != nil {
		t.Fatalf("AddValues() error = %v", err)
	}

	src, err := NewRowSource(r, VersionDefault)
	if err != nil {
		t.Fatalf("NewRowSource() error = %v", err)
	}
	if src.FieldCount() != 2 {
		t.Errorf("FieldCount() = %d, want 2", src.FieldCount())
	}
	if src.FieldName(0) != "ID" || src.FieldName(1) != "Name" {
		t.Errorf("FieldName() = %q, %q", src.FieldName(0), src.FieldName(1))
	}
	if got := src.Value(1, nil); got != "ada" {
		t.Errorf("Value(1) = %#v, want ada", got)
	}
}

func TestNewRowSourceVersionChecked(t *testing.T) {
	tbl := personTable(t)
	r, err := tbl.AddValues(1, "ada")
	if err != nil {
		t.Fatalf("AddValues() error = %v", err)
	}
	tbl.AcceptChanges()
	if err := r.Delete(); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	// a deleted row serves its original values but no default ones
	if _, err := NewRowSource(r, VersionDefault); err == nil {
		t.Error("NewRowSource(deleted, default) expected error")
	}
	src, err := NewRowSource(r, VersionOriginal)
	if err != nil {
		t.Fatalf("NewRowSource(original) error = %v", err)
	}
	if got := src.Value(1, nil); got != "ada" {
		t.Errorf("Value(1) = %#v, want ada", got)
	}
}

func TestNewRowReceiver(t *testing.T) {
	tbl := personTable(t)
	r := tbl.NewRow()

	rc, err := NewRowReceiver(r)
	if err != nil {
		t.Fatalf("NewRowReceiver() error = %v", err)
	}
	if i := rc.Ordinal("name"); i != 1 {
		t.Errorf("Ordinal(name) = %d, want 1", i)
	}
	if i := rc.Ordinal("missing"); i != -1 {
		t.Errorf("Ordinal(missing) = %d, want -1", i)
	}
	if err := rc.SetValue(0, "ID", nil, "42"); err != nil {
		t.Fatalf("SetValue() error = %v", err)
	}
	if got := r.Value(0); got != 42 {
		t.Errorf("Value(0) = %#v, want 42", got)
	}
}
