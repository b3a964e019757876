package mapping

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/user/tablemap"
	"github.com/user/tablemap/pkg/descriptor"
)

// Factory builds one destination instance, replacing plain allocation for
// types whose construction takes arguments. The context carries the source
// and the operation's extra parameters; its Entry field is not populated yet
// when the factory runs. The returned value must be a non-nil pointer to the
// registered type.
type Factory func(ctx *tablemap.InitContext) (any, error)

var factories sync.Map // reflect.Type -> Factory

// RegisterFactory installs a factory for the prototype's struct type,
// replacing any earlier one. A nil factory removes the registration.
func RegisterFactory(prototype any, f Factory) error {
	t := reflect.TypeOf(prototype)
	if t == nil {
		return &tablemap.ArgumentError{Arg: "prototype", Reason: "nil prototype"}
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return &tablemap.ArgumentError{Arg: "prototype", Reason: fmt.Sprintf("%s is not a struct type", t)}
	}
	if f == nil {
		factories.Delete(t)
		return nil
	}
	factories.Store(t, f)
	return nil
}

// constructor is the construction strategy for one destination type,
// resolved before a multi-row operation starts so the per-row path never
// inspects types: the descriptor records at build time whether the type
// initializes itself, the factory registry is consulted once here.
type constructor struct {
	typ     reflect.Type
	desc    *descriptor.Descriptor
	factory Factory
}

func newConstructor(t reflect.Type, d *descriptor.Descriptor) constructor {
	c := constructor{typ: t, desc: d}
	if f, ok := factories.Load(t); ok {
		c.factory = f.(Factory)
	}
	return c
}

// newEntry builds one destination instance as a pointer value, through the
// factory when one is registered.
func (c constructor) newEntry(ctx *tablemap.InitContext) (reflect.Value, error) {
	if c.factory == nil {
		return reflect.New(c.typ), nil
	}
	v, err := c.factory(ctx)
	if err != nil {
		return reflect.Value{}, fmt.Errorf("factory for %s: %w", c.typ, err)
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.Kind() != reflect.Ptr || rv.IsNil() || rv.Type().Elem() != c.typ {
		return reflect.Value{}, &tablemap.ArgumentError{Arg: "factory", Reason: fmt.Sprintf("factory for %s returned %T", c.typ, v)}
	}
	return rv, nil
}

// mapEntry allocates, initializes and fills one destination record from one
// source record, returning a pointer to the new entry. A destination that
// stops its own mapping is returned as its InitMapping left it.
func (c constructor) mapEntry(src tablemap.DataSource, srcEntry any, params []any) (reflect.Value, error) {
	ctx := &tablemap.InitContext{Source: src, SourceEntry: srcEntry, Params: params}
	ep, err := c.newEntry(ctx)
	if err != nil {
		return reflect.Value{}, err
	}
	entry := ep.Interface()
	ctx.Entry = entry
	if c.desc.NeedsInit() {
		entry.(tablemap.ContextInitializer).InitMapping(ctx)
		if ctx.Stopped() {
			return ep, nil
		}
	}
	if err := Copy(src, srcEntry, c.desc, entry); err != nil {
		return reflect.Value{}, err
	}
	return ep, nil
}

// intoExisting initializes and fills an existing destination from one source
// record.
func intoExisting(src tablemap.DataSource, srcEntry any, dest any) error {
	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return &tablemap.ArgumentError{Arg: "dest", Reason: "destination must be a non-nil struct pointer"}
	}
	d, err := descriptor.Of(dest)
	if err != nil {
		return err
	}
	ctx := &tablemap.InitContext{Source: src, SourceEntry: srcEntry, Entry: dest}
	if d.NeedsInit() {
		if ci, ok := dest.(tablemap.ContextInitializer); ok {
			ci.InitMapping(ctx)
			if ctx.Stopped() {
				return nil
			}
		}
	}
	return Copy(src, srcEntry, d, dest)
}
