package ecs

import (
	"fmt"

	"github.com/plus3/excess/ecs/colstore"
)

// Entity is a handle to one entity of a World. It carries the id, the
// version of the id at creation time, and the owning world. The zero Entity
// belongs to no world and is never valid.
//
// Entity caches nothing: every method goes back to storage.
type Entity struct {
	id      uint32
	version uint32
	world   *World
}

func entityFromRef(w *World, ref colstore.Ref) Entity {
	return Entity{id: ref.ID(), version: ref.Version(), world: w}
}

func (e Entity) ref() colstore.Ref {
	return colstore.NewRef(e.id, e.version)
}

// ID returns the numeric id. Ids of removed entities are reused, so the id
// alone does not identify an entity across removals; store the Entity or
// resolve the id with World.Entity.
func (e Entity) ID() uint32 {
	return e.id
}

// Version returns how many times the id had been released before this
// entity took it.
func (e Entity) Version() uint32 {
	return e.version
}

// World returns the owning world, or nil for the zero Entity.
func (e Entity) World() *World {
	return e.world
}

// Valid reports whether the entity is still alive in its world.
func (e Entity) Valid() bool {
	return e.world != nil && e.world.store.Alive(e.ref())
}

func (e Entity) String() string {
	if e.world == nil {
		return "Entity(nil)"
	}
	return fmt.Sprintf("Entity(%d.%d)", e.id, e.version)
}

// AddComponent attaches c. With nil values the fields are zero; otherwise the
// given fields are written after attaching. Attaching a component the entity
// already carries fails.
func (e Entity) AddComponent(c *Component, values Values) error {
	if values == nil {
		return c.AddTo(e)
	}
	if c.Has(e) {
		return &AlreadyAttachedError{Component: c.name, Entity: e}
	}
	return c.SetOn(e, values)
}

// HasComponent reports whether c is attached.
func (e Entity) HasComponent(c *Component) bool {
	return c.Has(e)
}

// ReadComponent returns a snapshot of c's values.
func (e Entity) ReadComponent(c *Component) (Values, error) {
	return c.ReadFrom(e)
}

// RemoveComponent detaches c.
func (e Entity) RemoveComponent(c *Component) error {
	return c.RemoveFrom(e)
}

// SetValues writes the given fields of c, attaching it first when absent.
func (e Entity) SetValues(c *Component, values Values) error {
	return c.SetOn(e, values)
}
