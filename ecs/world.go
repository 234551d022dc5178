package ecs

import (
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/plus3/excess/ecs/colstore"
)

// ErrNilComponent is returned when a query is defined with a nil component.
var ErrNilComponent = errors.New("ecs: nil component")

// World is the registry of live entities and the factory for queries. Each
// world is an independent namespace of component values, even when several
// worlds share one Manager.
type World struct {
	id      uuid.UUID
	manager *Manager
	store   *colstore.World
	log     *zap.Logger
	queries []*Query

	singletons map[ComponentID]Entity
}

// NewWorld creates an empty world over the manager's components.
func NewWorld(m *Manager, opts ...Option) *World {
	cfg := newConfig(opts)
	w := &World{
		id:      uuid.New(),
		manager: m,
		store:   colstore.NewWorld(),

		singletons: make(map[ComponentID]Entity),
	}
	w.log = cfg.logger.With(zap.Stringer("world", w.id))
	w.log.Debug("world created")
	return w
}

// ID returns the world's unique identifier.
func (w *World) ID() uuid.UUID {
	return w.id
}

// Manager returns the manager the world was built on.
func (w *World) Manager() *Manager {
	return w.manager
}

// CreateEntity allocates an entity with no components.
func (w *World) CreateEntity() Entity {
	e := entityFromRef(w, w.store.NewEntity())
	if ce := w.log.Check(zap.DebugLevel, "entity created"); ce != nil {
		ce.Write(zap.Uint32("id", e.id), zap.Uint32("version", e.version))
	}
	return e
}

// Entity resolves a raw id, such as one kept in a ui32 field, to the live
// entity currently holding it.
func (w *World) Entity(id uint32) (Entity, error) {
	ref, ok := w.store.Resolve(id)
	if !ok {
		return Entity{}, &UnknownEntityError{Entity: Entity{id: id, world: w}}
	}
	return entityFromRef(w, ref), nil
}

// Alive reports whether e is a live entity of this world.
func (w *World) Alive(e Entity) bool {
	return e.world == w && e.Valid()
}

// RemoveEntity releases the entity and discards all of its component values.
// The id may be handed out again; e and every copy of it become invalid.
func (w *World) RemoveEntity(e Entity) error {
	if e.world != w || !w.store.RemoveEntity(e.ref()) {
		return &UnknownEntityError{Entity: e}
	}
	if ce := w.log.Check(zap.DebugLevel, "entity removed"); ce != nil {
		ce.Write(zap.Uint32("id", e.id), zap.Uint32("version", e.version))
	}
	return nil
}

// Entities returns every live entity. The order is not stable across
// removals.
func (w *World) Entities() []Entity {
	refs := w.store.Entities()
	out := make([]Entity, len(refs))
	for i, ref := range refs {
		out[i] = entityFromRef(w, ref)
	}
	return out
}

// Len returns the number of live entities.
func (w *World) Len() int {
	return w.store.Len()
}

// DefineQuery builds a query for entities carrying every component of with
// and none of without. With both empty it matches every entity. The query
// stays registered with the world until it is closed.
func (w *World) DefineQuery(with, without []*Component) (*Query, error) {
	with, err := dedupe(with)
	if err != nil {
		return nil, err
	}
	without, err = dedupe(without)
	if err != nil {
		return nil, err
	}

	pred, err := w.store.Predicate(handlesOf(with), handlesOf(without))
	if err != nil {
		return nil, fmt.Errorf("define query: %w", err)
	}

	q := &Query{
		world:   w,
		with:    with,
		without: without,
		pred:    pred,
		enter:   pred.Tracker(),
		exit:    pred.Tracker(),
	}
	w.queries = append(w.queries, q)

	w.log.Debug("query defined",
		zap.Stringer("query", q),
		zap.Uint64("predicate", pred.Key()),
	)
	return q, nil
}

func (w *World) forgetQuery(q *Query) {
	w.queries = slices.DeleteFunc(w.queries, func(other *Query) bool { return other == q })
	w.log.Debug("query closed", zap.Stringer("query", q))
}

// Queries returns every open query defined on the world, in definition order.
func (w *World) Queries() []*Query {
	out := make([]*Query, len(w.queries))
	copy(out, w.queries)
	return out
}

// ComponentStats reports how many entities carry one component.
type ComponentStats struct {
	Component *Component
	Count     int
}

// WorldStats is a point-in-time summary of a world.
type WorldStats struct {
	ID         uuid.UUID
	Entities   int
	Components []ComponentStats
	Queries    int
}

// Stats summarizes the world. Components are listed in registration order,
// including those no entity carries.
func (w *World) Stats() WorldStats {
	stats := WorldStats{
		ID:       w.id,
		Entities: w.store.Len(),
		Queries:  len(w.queries),
	}
	for _, c := range w.manager.components {
		stats.Components = append(stats.Components, ComponentStats{
			Component: c,
			Count:     w.store.Count(c.handle),
		})
	}
	return stats
}

// dedupe copies the list, dropping repeats and keeping first occurrences.
func dedupe(components []*Component) ([]*Component, error) {
	out := make([]*Component, 0, len(components))
	seen := make(map[*Component]struct{}, len(components))
	for _, c := range components {
		if c == nil {
			return nil, ErrNilComponent
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out, nil
}

func handlesOf(components []*Component) []*colstore.Handle {
	out := make([]*colstore.Handle, len(components))
	for i, c := range components {
		out[i] = c.handle
	}
	return out
}
