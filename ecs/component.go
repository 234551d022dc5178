package ecs

import (
	"errors"
	"fmt"

	"github.com/plus3/excess/ecs/colstore"
)

// Component is a compiled, named field set. A Component belongs to the
// Manager that defined it and can be attached to entities of any World built
// on that manager; the values always live in the entity's world.
type Component struct {
	id      ComponentID
	name    string
	manager *Manager
	handle  *colstore.Handle
	fields  []FieldSpec
}

// Name returns the registered name.
func (c *Component) Name() string {
	return c.name
}

// ID returns the registration index.
func (c *Component) ID() ComponentID {
	return c.id
}

// Fields returns a copy of the declared fields in order.
func (c *Component) Fields() []FieldSpec {
	out := make([]FieldSpec, len(c.fields))
	copy(out, c.fields)
	return out
}

// IsMarker reports whether the component has no fields.
func (c *Component) IsMarker() bool {
	return len(c.fields) == 0
}

// Field looks up a field declaration by name.
func (c *Component) Field(name string) (FieldSpec, bool) {
	idx, ok := c.handle.Index(name)
	if !ok {
		return FieldSpec{}, false
	}
	return c.fields[idx], true
}

func (c *Component) String() string {
	return c.name
}

// live fails for zero, stale and removed entities.
func (c *Component) live(e Entity) (*colstore.World, error) {
	if !e.Valid() {
		return nil, &UnknownEntityError{Entity: e}
	}
	return e.world.store, nil
}

func (c *Component) attach(store *colstore.World, e Entity) error {
	err := store.Attach(c.handle, e.id)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, colstore.ErrAttached):
		return &AlreadyAttachedError{Component: c.name, Entity: e}
	case errors.Is(err, colstore.ErrDeadEntity):
		return &UnknownEntityError{Entity: e}
	default:
		return fmt.Errorf("attach %s: %w", c.name, err)
	}
}

// AddTo attaches the component with every field zero.
func (c *Component) AddTo(e Entity) error {
	store, err := c.live(e)
	if err != nil {
		return err
	}
	return c.attach(store, e)
}

// SetOn writes the given fields. Fields not mentioned keep their values. When
// the component is not attached it is attached first, so unmentioned fields
// start at zero. All values are validated before anything is written.
func (c *Component) SetOn(e Entity, values Values) error {
	store, err := c.live(e)
	if err != nil {
		return err
	}
	writes, err := c.prepare(values)
	if err != nil {
		return err
	}
	if !store.Has(c.handle, e.id) {
		if err := c.attach(store, e); err != nil {
			return err
		}
	}
	for _, w := range writes {
		if w.array == nil {
			store.Set(c.handle, w.field, e.id, 0, w.scalar)
			continue
		}
		for i, v := range w.array {
			store.Set(c.handle, w.field, e.id, i, v)
		}
	}
	return nil
}

// ReadFrom returns a copy of the component's values. Later writes do not
// change the returned map. Markers yield an empty map.
func (c *Component) ReadFrom(e Entity) (Values, error) {
	store, err := c.live(e)
	if err != nil {
		return nil, err
	}
	if !store.Has(c.handle, e.id) {
		return nil, &NotAttachedError{Component: c.name, Entity: e}
	}
	return c.snapshot(store, e.id), nil
}

func (c *Component) snapshot(store *colstore.World, id uint32) Values {
	out := make(Values, len(c.fields))
	for idx, spec := range c.fields {
		if !spec.IsArray() {
			out[spec.Name] = store.Get(c.handle, idx, id, 0)
			continue
		}
		arr := make([]float64, spec.Len)
		for i := range arr {
			arr[i] = store.Get(c.handle, idx, id, i)
		}
		out[spec.Name] = arr
	}
	return out
}

// ViewOf returns a view that reads and writes storage directly.
func (c *Component) ViewOf(e Entity) (View, error) {
	store, err := c.live(e)
	if err != nil {
		return View{}, err
	}
	if !store.Has(c.handle, e.id) {
		return View{}, &NotAttachedError{Component: c.name, Entity: e}
	}
	return View{component: c, entity: e}, nil
}

// RemoveFrom detaches the component and discards its values.
func (c *Component) RemoveFrom(e Entity) error {
	store, err := c.live(e)
	if err != nil {
		return err
	}
	if !store.Detach(c.handle, e.id) {
		return &NotAttachedError{Component: c.name, Entity: e}
	}
	return nil
}

// Has reports whether the component is attached. Invalid entities carry
// nothing.
func (c *Component) Has(e Entity) bool {
	if !e.Valid() {
		return false
	}
	return e.world.store.Has(c.handle, e.id)
}
