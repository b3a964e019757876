// Package descriptor builds and caches the mapping schema of struct types:
// which members are mapped, under what names, and with what conversion
// attributes. A descriptor doubles as the tabular view of its struct, serving
// values out of entries and writing converted values back into them.
package descriptor

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/user/tablemap"
	"github.com/user/tablemap/pkg/convert"
)

// Field is one mapped struct member. Index is the traversal path to the
// member, spanning promoted members of embedded structs. Wrapper, when set,
// forces conversion through a nullable wrapper type regardless of the member
// type. Nullable members have their null forms normalized to nil in tabular
// form and to the zero value in object form.
type Field struct {
	Name     string
	Index    []int
	Type     reflect.Type
	Wrapper  reflect.Type
	Nullable bool
}

// Descriptor is the cached mapping schema of one struct type.
type Descriptor struct {
	typ       reflect.Type
	fields    []Field
	ordinals  map[string]int
	needsInit bool
}

var cache sync.Map // reflect.Type -> *Descriptor

// Get returns the descriptor for a struct type, building and caching it on
// first use. Pointer types resolve to their element. Concurrent callers for
// the same type always observe the same descriptor instance.
func Get(t reflect.Type) (*Descriptor, error) {
	if t == nil {
		return nil, &tablemap.ArgumentError{Arg: "t", Reason: "nil type"}
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, &tablemap.SchemaError{Type: t.String(), Reason: "not a struct type"}
	}
	if d, ok := cache.Load(t); ok {
		return d.(*Descriptor), nil
	}
	d, err := build(t)
	if err != nil {
		return nil, err
	}
	actual, _ := cache.LoadOrStore(t, d)
	return actual.(*Descriptor), nil
}

// Of returns the descriptor for a value's type.
func Of(v any) (*Descriptor, error) {
	t := reflect.TypeOf(v)
	if t == nil {
		return nil, &tablemap.ArgumentError{Arg: "v", Reason: "nil value"}
	}
	return Get(t)
}

// Type returns the described struct type.
func (d *Descriptor) Type() reflect.Type { return d.typ }

// Len returns the number of mapped members.
func (d *Descriptor) Len() int { return len(d.fields) }

// Field returns the i-th mapped member.
func (d *Descriptor) Field(i int) *Field { return &d.fields[i] }

// Lookup resolves a tabular name to its member, case-insensitively.
func (d *Descriptor) Lookup(name string) (*Field, bool) {
	i, ok := d.ordinals[strings.ToLower(name)]
	if !ok {
		return nil, false
	}
	return &d.fields[i], true
}

// NeedsInit reports whether destinations of this type take part in their own
// construction, decided once when the descriptor is built.
func (d *Descriptor) NeedsInit() bool { return d.needsInit }

var (
	timeType    = reflect.TypeOf(time.Time{})
	ctxInitType = reflect.TypeOf((*tablemap.ContextInitializer)(nil)).Elem()
)

type embedded struct {
	typ  reflect.Type
	path []int
}

func build(t reflect.Type) (*Descriptor, error) {
	pt := reflect.PtrTo(t)
	d := &Descriptor{
		typ:       t,
		ordinals:  map[string]int{},
		needsInit: pt.Implements(ctxInitType),
	}

	// level order so outer declarations shadow promoted ones
	queue := []embedded{{typ: t}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for i := 0; i < cur.typ.NumField(); i++ {
			sf := cur.typ.Field(i)
			if sf.PkgPath != "" {
				continue
			}
			tag := sf.Tag.Get("map")
			if tag == "-" {
				continue
			}
			name, opts := parseTag(tag)
			path := append(append([]int{}, cur.path...), i)
			if sf.Anonymous && name == "" && len(opts) == 0 &&
				sf.Type.Kind() == reflect.Struct &&
				sf.Type != timeType && !convert.IsWrapperType(sf.Type) {
				queue = append(queue, embedded{typ: sf.Type, path: path})
				continue
			}
			if name == "" {
				name = sf.Name
			}
			f := Field{Name: name, Index: path, Type: sf.Type}
			for _, opt := range opts {
				switch {
				case opt == "nullable":
					f.Nullable = true
				case strings.HasPrefix(opt, "wrapper="):
					wn := strings.TrimPrefix(opt, "wrapper=")
					wt, ok := convert.WrapperByName(wn)
					if !ok {
						return nil, &tablemap.SchemaError{Type: t.String(), Field: sf.Name, Reason: fmt.Sprintf("unknown wrapper %q", wn)}
					}
					if err := convert.CompatibleWrapper(wt, sf.Type); err != nil {
						return nil, &tablemap.SchemaError{Type: t.String(), Field: sf.Name, Reason: err.Error()}
					}
					f.Wrapper = wt
				case opt == "":
				default:
					return nil, &tablemap.SchemaError{Type: t.String(), Field: sf.Name, Reason: fmt.Sprintf("unknown tag option %q", opt)}
				}
			}
			lower := strings.ToLower(f.Name)
			if _, taken := d.ordinals[lower]; taken {
				continue
			}
			d.ordinals[lower] = len(d.fields)
			d.fields = append(d.fields, f)
		}
	}
	descriptorBuilds.Inc()
	return d, nil
}

func parseTag(tag string) (string, []string) {
	if tag == "" {
		return "", nil
	}
	parts := strings.Split(tag, ",")
	return parts[0], parts[1:]
}
