package ecs

import (
	"fmt"
	"iter"
	"reflect"
	"strings"
)

var goKinds = [...]reflect.Kind{
	I8:   reflect.Int8,
	UI8:  reflect.Uint8,
	I16:  reflect.Int16,
	UI16: reflect.Uint16,
	I32:  reflect.Int32,
	UI32: reflect.Uint32,
	F32:  reflect.Float32,
	F64:  reflect.Float64,
}

// Record reads and writes a component through a Go struct whose fields
// mirror the component's fields. Struct fields are matched by an `ecs:"name"`
// tag or, without a tag, by case-insensitive name. `ecs:"-"` skips a field.
// Scalars must use the exact Go type of the field (int8 for i8, float64 for
// f64 and so on) and arrays a Go array of that type and length.
type Record[T any] struct {
	component *Component
	// offsets[i] is the struct field index holding component field i.
	offsets []int
}

// Bind checks T against c and returns a record for it.
func Bind[T any](c *Component) (*Record[T], error) {
	var zero T
	structType := reflect.TypeOf(zero)
	if structType == nil || structType.Kind() != reflect.Struct {
		return nil, &SchemaError{Component: c.name, Err: fmt.Errorf("record type %v is not a struct", structType)}
	}

	byName := make(map[string]int, structType.NumField())
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		if !field.IsExported() {
			continue
		}
		tag := field.Tag.Get("ecs")
		if tag == "-" {
			continue
		}
		name := strings.ToLower(field.Name)
		if tag != "" {
			name = tag
		}
		if _, dup := byName[name]; dup {
			return nil, &SchemaError{Component: c.name, Field: name, Err: fmt.Errorf("%v maps two struct fields to it", structType)}
		}
		byName[name] = i
	}

	offsets := make([]int, len(c.fields))
	for i, spec := range c.fields {
		key := spec.Name
		idx, ok := byName[key]
		if !ok {
			key = strings.ToLower(spec.Name)
			idx, ok = byName[key]
		}
		if !ok {
			return nil, &SchemaError{Component: c.name, Field: spec.Name, Err: fmt.Errorf("%v has no matching field", structType)}
		}
		if err := checkGoType(structType.Field(idx).Type, spec); err != nil {
			return nil, &SchemaError{Component: c.name, Field: spec.Name, Err: err}
		}
		offsets[i] = idx
		delete(byName, key)
	}
	for name := range byName {
		return nil, &SchemaError{Component: c.name, Field: name, Err: fmt.Errorf("%v has a field the component lacks", structType)}
	}

	return &Record[T]{component: c, offsets: offsets}, nil
}

// MustBind is Bind for setup code; it panics on a mismatch.
func MustBind[T any](c *Component) *Record[T] {
	r, err := Bind[T](c)
	if err != nil {
		panic(err)
	}
	return r
}

func checkGoType(t reflect.Type, spec FieldSpec) error {
	want := goKinds[spec.Type]
	if spec.IsArray() {
		if t.Kind() != reflect.Array || t.Len() != spec.Len || t.Elem().Kind() != want {
			return fmt.Errorf("want [%d]%v, got %v", spec.Len, want, t)
		}
		return nil
	}
	if t.Kind() != want {
		return fmt.Errorf("want %v, got %v", want, t)
	}
	return nil
}

// Component returns the bound component.
func (r *Record[T]) Component() *Component {
	return r.component
}

// Get copies the component's values into a T.
func (r *Record[T]) Get(e Entity) (T, error) {
	var out T
	c := r.component
	store, err := c.live(e)
	if err != nil {
		return out, err
	}
	if !store.Has(c.handle, e.id) {
		return out, &NotAttachedError{Component: c.name, Entity: e}
	}

	rv := reflect.ValueOf(&out).Elem()
	for i, spec := range c.fields {
		dst := rv.Field(r.offsets[i])
		if !spec.IsArray() {
			setNumber(dst, store.Get(c.handle, i, e.id, 0))
			continue
		}
		for j := 0; j < spec.Len; j++ {
			setNumber(dst.Index(j), store.Get(c.handle, i, e.id, j))
		}
	}
	return out, nil
}

// Set writes every field of value, attaching the component when absent.
func (r *Record[T]) Set(e Entity, value T) error {
	c := r.component
	store, err := c.live(e)
	if err != nil {
		return err
	}
	if !store.Has(c.handle, e.id) {
		if err := c.attach(store, e); err != nil {
			return err
		}
	}

	rv := reflect.ValueOf(value)
	for i, spec := range c.fields {
		src := rv.Field(r.offsets[i])
		if !spec.IsArray() {
			store.Set(c.handle, i, e.id, 0, numberOf(src))
			continue
		}
		for j := 0; j < spec.Len; j++ {
			store.Set(c.handle, i, e.id, j, numberOf(src.Index(j)))
		}
	}
	return nil
}

// Iter yields every entity matching q that carries the component, with its
// values.
func (r *Record[T]) Iter(q *Query) iter.Seq2[Entity, T] {
	return func(yield func(Entity, T) bool) {
		for _, e := range q.Entities() {
			value, err := r.Get(e)
			if err != nil {
				continue
			}
			if !yield(e, value) {
				return
			}
		}
	}
}

func setNumber(dst reflect.Value, v float64) {
	switch dst.Kind() {
	case reflect.Int8, reflect.Int16, reflect.Int32:
		dst.SetInt(int64(v))
	case reflect.Uint8, reflect.Uint16, reflect.Uint32:
		dst.SetUint(uint64(v))
	default:
		dst.SetFloat(v)
	}
}
