package descriptor

import (
	"database/sql"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/user/tablemap"
)

type person struct {
	ID        int    `map:"id"`
	FirstName string `map:"first_name"`
	Age       int
	Secret    string `map:"-"`
	internal  string
}

func TestGetFields(t *testing.T) {
	d, err := Get(reflect.TypeOf(person{}))
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if d.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", d.Len())
	}

	want := []string{"id", "first_name", "Age"}
	for i, name := range want {
		if got := d.FieldName(i); got != name {
			t.Errorf("FieldName(%d) = %q, want %q", i, got, name)
		}
	}

	if i := d.Ordinal("FIRST_NAME"); i != 1 {
		t.Errorf("Ordinal(FIRST_NAME) = %d, want 1", i)
	}
	if i := d.Ordinal("age"); i != 2 {
		t.Errorf("Ordinal(age) = %d, want 2", i)
	}
	if i := d.Ordinal("secret"); i != -1 {
		t.Errorf("Ordinal(secret) = %d, want -1", i)
	}
	if i := d.Ordinal("internal"); i != -1 {
		t.Errorf("Ordinal(internal) = %d, want -1", i)
	}
}

func TestGetCached(t *testing.T) {
	d1, err := Get(reflect.TypeOf(person{}))
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	d2, err := Get(reflect.TypeOf(&person{}))
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if d1 != d2 {
		t.Error("Get() built distinct descriptors for one type")
	}
}

func TestGetConcurrent(t *testing.T) {
	type wide struct {
		A int
		B string
		C float64
	}
	out := make([]*Descriptor, 16)
	var wg sync.WaitGroup
	for i := range out {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			d, err := Get(reflect.TypeOf(wide{}))
			if err != nil {
				t.Errorf("Get() error = %v", err)
				return
			}
			out[i] = d
		}(i)
	}
	wg.Wait()
	for i := 1; i < len(out); i++ {
		if out[i] != out[0] {
			t.Fatal("concurrent Get() published more than one descriptor")
		}
	}
}

type auditFields struct {
	CreatedAt time.Time `map:"created_at"`
	UpdatedBy string    `map:"updated_by"`
}

type document struct {
	auditFields
	Title     string `map:"title"`
	UpdatedBy int    `map:"updated_by"`
}

func TestEmbeddedPromotion(t *testing.T) {
	d, err := Get(reflect.TypeOf(document{}))
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if d.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", d.Len())
	}

	f, ok := d.Lookup("created_at")
	if !ok {
		t.Fatal("Lookup(created_at) missed")
	}
	if len(f.Index) != 2 {
		t.Errorf("promoted member path = %v, want depth 2", f.Index)
	}

	// the outer declaration shadows the promoted one
	f, ok = d.Lookup("updated_by")
	if !ok {
		t.Fatal("Lookup(updated_by) missed")
	}
	if f.Type.Kind() != reflect.Int {
		t.Errorf("updated_by type = %s, want int", f.Type)
	}

	doc := document{Title: "t"}
	doc.CreatedAt = time.Date(2022, 5, 1, 0, 0, 0, 0, time.UTC)
	if got := d.Value(d.Ordinal("created_at"), &doc); got != doc.CreatedAt {
		t.Errorf("Value(created_at) = %v, want %v", got, doc.CreatedAt)
	}
}

func TestGetNotStruct(t *testing.T) {
	_, err := Get(reflect.TypeOf(0))
	var se *tablemap.SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("Get(int) error = %T, want *SchemaError", err)
	}
}

type selfBuilt struct {
	ID int `map:"id"`
}

func (s *selfBuilt) InitMapping(*tablemap.InitContext) {}

func TestNeedsInit(t *testing.T) {
	d, err := Get(reflect.TypeOf(selfBuilt{}))
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !d.NeedsInit() {
		t.Error("NeedsInit() = false for a self-initializing type")
	}

	d, err = Get(reflect.TypeOf(person{}))
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if d.NeedsInit() {
		t.Error("NeedsInit() = true for a plain type")
	}
}

func TestGetBadTags(t *testing.T) {
	type unknownWrapper struct {
		N int `map:"n,wrapper=NoSuch"`
	}
	type incompatibleWrapper struct {
		N int `map:"n,wrapper=NullString"`
	}
	type unknownOption struct {
		N int `map:"n,bogus"`
	}

	tests := []struct {
		name  string
		typ   reflect.Type
		field string
	}{
		{"unknown wrapper", reflect.TypeOf(unknownWrapper{}), "N"},
		{"incompatible wrapper", reflect.TypeOf(incompatibleWrapper{}), "N"},
		{"unknown option", reflect.TypeOf(unknownOption{}), "N"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Get(tt.typ)
			var se *tablemap.SchemaError
			if !errors.As(err, &se) {
				t.Fatalf("Get() error = %T, want *SchemaError", err)
			}
			if se.Field != tt.field {
				t.Errorf("SchemaError.Field = %q, want %q", se.Field, tt.field)
			}
		})
	}
}

type account struct {
	Name  string         `map:"name,nullable"`
	Score int            `map:"score,wrapper=NullInt64"`
	Note  sql.NullString `map:"note"`
}

func TestValue(t *testing.T) {
	d, err := Get(reflect.TypeOf(account{}))
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	a := account{Name: "ada", Score: 5, Note: sql.NullString{String: "x", Valid: true}}
	if got := d.Value(d.Ordinal("name"), &a); got != "ada" {
		t.Errorf("Value(name) = %#v, want ada", got)
	}
	if got := d.Value(d.Ordinal("score"), &a); got != 5 {
		t.Errorf("Value(score) = %#v, want 5", got)
	}
	if got := d.Value(d.Ordinal("note"), &a); got != "x" {
		t.Errorf("Value(note) = %#v, want x", got)
	}

	// null forms surface as nil
	blank := account{Name: "   "}
	if got := d.Value(d.Ordinal("name"), &blank); got != nil {
		t.Errorf("Value(blank name) = %#v, want nil", got)
	}
	if got := d.Value(d.Ordinal("score"), &blank); got != nil {
		t.Errorf("Value(zero score) = %#v, want nil", got)
	}
	if got := d.Value(d.Ordinal("note"), &blank); got != nil {
		t.Errorf("Value(null note) = %#v, want nil", got)
	}
}

func TestValueWrongEntry(t *testing.T) {
	d, err := Get(reflect.TypeOf(account{}))
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got := d.Value(0, person{}); got != nil {
		t.Errorf("Value(wrong type) = %#v, want nil", got)
	}
	if got := d.Value(0, (*account)(nil)); got != nil {
		t.Errorf("Value(nil entry) = %#v, want nil", got)
	}
}

func TestSetValue(t *testing.T) {
	d, err := Get(reflect.TypeOf(account{}))
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	var a account
	if err := d.SetValue(d.Ordinal("name"), "name", &a, []byte("ada")); err != nil {
		t.Fatalf("SetValue(name) error = %v", err)
	}
	if err := d.SetValue(d.Ordinal("score"), "score", &a, int64(7)); err != nil {
		t.Fatalf("SetValue(score) error = %v", err)
	}
	if err := d.SetValue(d.Ordinal("note"), "note", &a, "hello"); err != nil {
		t.Fatalf("SetValue(note) error = %v", err)
	}
	if a.Name != "ada" || a.Score != 7 {
		t.Errorf("entry = %+v, want ada/7", a)
	}
	if !a.Note.Valid || a.Note.String != "hello" {
		t.Errorf("Note = %+v, want valid hello", a.Note)
	}

	// nullable members normalize null forms to the zero value
	if err := d.SetValue(d.Ordinal("name"), "name", &a, "   "); err != nil {
		t.Fatalf("SetValue(whitespace) error = %v", err)
	}
	if a.Name != "" {
		t.Errorf("Name = %q, want empty", a.Name)
	}
	if err := d.SetValue(d.Ordinal("note"), "note", &a, nil); err != nil {
		t.Fatalf("SetValue(nil) error = %v", err)
	}
	if a.Note.Valid {
		t.Errorf("Note = %+v, want invalid", a.Note)
	}
}

func TestSetValueBadEntry(t *testing.T) {
	d, err := Get(reflect.TypeOf(account{}))
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	var ae *tablemap.ArgumentError
	if err := d.SetValue(0, "name", account{}, "x"); !errors.As(err, &ae) {
		t.Errorf("SetValue(value entry) error = %T, want *ArgumentError", err)
	}
	var a account
	if err := d.SetValue(99, "name", &a, "x"); !errors.As(err, &ae) {
		t.Errorf("SetValue(bad ordinal) error = %T, want *ArgumentError", err)
	}
}
