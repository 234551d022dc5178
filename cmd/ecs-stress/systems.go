package main

import (
	"math/rand/v2"

	"github.com/plus3/excess/ecs"
)

const maxComponentsPerEntity = 5

// churnSystem replaces a fraction of the live entities every tick with fresh
// ones carrying random components.
type churnSystem struct {
	rng        *rand.Rand
	components []*ecs.Component
	rate       float64

	removed int64
	created int64
}

func (s *churnSystem) Execute(frame *ecs.UpdateFrame) {
	entities := frame.World.Entities()
	n := int(float64(len(entities)) * s.rate)
	if n == 0 {
		return
	}

	s.rng.Shuffle(len(entities), func(i, j int) {
		entities[i], entities[j] = entities[j], entities[i]
	})
	for _, e := range entities[:n] {
		frame.Commands.Remove(e)
		frame.Commands.Create(s.spawn)
	}
	s.removed += int64(n)
	s.created += int64(n)
}

func (s *churnSystem) spawn(e ecs.Entity) error {
	return spawnRandom(s.rng, s.components, e)
}

// mutateSystem rewrites the first field of each query's first data component
// on every matching entity.
type mutateSystem struct {
	queries []*ecs.Query
	writes  int64
}

func (s *mutateSystem) Execute(*ecs.UpdateFrame) {
	for _, q := range s.queries {
		c := firstDataComponent(q.With())
		if c == nil {
			continue
		}
		field := c.Fields()[0].Name
		for e := range q.All() {
			view, err := c.ViewOf(e)
			if err != nil {
				continue
			}
			// Keeps integer fields within [0, 100] and floats bounded.
			view.Set(field, 100-view.Get(field))
			s.writes++
		}
	}
}

// movementSystem integrates Velocity into Position. It is only registered
// when the schema defines both components.
type movementSystem struct {
	Moving *ecs.Query `ecs:"with=Position,Velocity;without=Static"`

	position *ecs.Component
	velocity *ecs.Component
	moved    int64
}

func (s *movementSystem) Execute(frame *ecs.UpdateFrame) {
	for e := range s.Moving.All() {
		p, err := s.position.ViewOf(e)
		if err != nil {
			continue
		}
		v, err := s.velocity.ViewOf(e)
		if err != nil {
			continue
		}
		p.Set("x", p.Get("x")+v.Get("x")*frame.DeltaTime)
		p.Set("y", p.Get("y")+v.Get("y")*frame.DeltaTime)
		s.moved++
	}
}

func newMovementSystem(m *ecs.Manager) (*movementSystem, bool) {
	position, ok := m.Component("Position")
	if !ok || !hasFields(position, "x", "y") {
		return nil, false
	}
	velocity, ok := m.Component("Velocity")
	if !ok || !hasFields(velocity, "x", "y") {
		return nil, false
	}
	return &movementSystem{position: position, velocity: velocity}, true
}

func hasFields(c *ecs.Component, names ...string) bool {
	for _, name := range names {
		if _, ok := c.Field(name); !ok {
			return false
		}
	}
	return true
}

func firstDataComponent(components []*ecs.Component) *ecs.Component {
	for _, c := range components {
		if !c.IsMarker() {
			return c
		}
	}
	return nil
}

// spawnRandom attaches between one and maxComponentsPerEntity distinct
// components with random values.
func spawnRandom(rng *rand.Rand, components []*ecs.Component, e ecs.Entity) error {
	n := min(rng.IntN(maxComponentsPerEntity)+1, len(components))
	for _, i := range rng.Perm(len(components))[:n] {
		c := components[i]
		if err := c.SetOn(e, randomValues(rng, c)); err != nil {
			return err
		}
	}
	return nil
}

func randomValues(rng *rand.Rand, c *ecs.Component) ecs.Values {
	values := make(ecs.Values, len(c.Fields()))
	for _, f := range c.Fields() {
		if !f.IsArray() {
			values[f.Name] = randomNumber(rng, f.Type)
			continue
		}
		elems := make([]float64, f.Len)
		for i := range elems {
			elems[i] = randomNumber(rng, f.Type)
		}
		values[f.Name] = elems
	}
	return values
}

// randomNumber returns a value every NumberType can hold exactly.
func randomNumber(rng *rand.Rand, t ecs.NumberType) float64 {
	switch t {
	case ecs.F32, ecs.F64:
		return float64(rng.IntN(200)-100) / 4
	default:
		return float64(rng.IntN(100))
	}
}

// randomQueries defines n queries, each requiring one or two components and
// sometimes excluding a third.
func randomQueries(rng *rand.Rand, world *ecs.World, components []*ecs.Component, n int) ([]*ecs.Query, error) {
	queries := make([]*ecs.Query, 0, n)
	for range n {
		picks := rng.Perm(len(components))
		withCount := min(rng.IntN(2)+1, len(picks))
		with := make([]*ecs.Component, 0, withCount)
		for _, i := range picks[:withCount] {
			with = append(with, components[i])
		}

		var without []*ecs.Component
		if len(picks) > withCount && rng.IntN(2) == 0 {
			without = append(without, components[picks[withCount]])
		}

		q, err := world.DefineQuery(with, without)
		if err != nil {
			return nil, err
		}
		queries = append(queries, q)
	}
	return queries, nil
}
