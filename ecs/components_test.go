package ecs_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/plus3/excess/ecs"
)

// Common test schema.
var testSchema = ecs.Schema{
	Components: []ecs.ComponentSpec{
		{Name: "Position", Entry: ecs.Vector2()},
		{Name: "Velocity", Entry: ecs.SchemaEntry{
			ecs.Scalar("dx", ecs.F32),
			ecs.Scalar("dy", ecs.F32),
		}},
		{Name: "Health", Entry: ecs.SchemaEntry{
			ecs.Scalar("current", ecs.I32),
			ecs.Scalar("max", ecs.I32),
		}},
		{Name: "Path", Entry: ecs.SchemaEntry{
			ecs.Array("points", ecs.F32, 4),
			ecs.Scalar("cursor", ecs.UI8),
		}},
		{Name: "Sprite", Entry: ecs.SchemaEntry{
			ecs.Scalar("name", ecs.UI32),
		}},
	},
	Markers: []string{"Static", "Player"},
}

type fixture struct {
	manager *ecs.Manager
	world   *ecs.World

	position *ecs.Component
	velocity *ecs.Component
	health   *ecs.Component
	path     *ecs.Component
	sprite   *ecs.Component
	static   *ecs.Component
	player   *ecs.Component
}

func newFixture(t testing.TB) *fixture {
	t.Helper()
	m := ecs.NewManager()
	require.NoError(t, m.RegisterSchema(testSchema))
	return &fixture{
		manager:  m,
		world:    ecs.NewWorld(m),
		position: m.MustComponent("Position"),
		velocity: m.MustComponent("Velocity"),
		health:   m.MustComponent("Health"),
		path:     m.MustComponent("Path"),
		sprite:   m.MustComponent("Sprite"),
		static:   m.MustComponent("Static"),
		player:   m.MustComponent("Player"),
	}
}

// spawn creates an entity carrying the given components with zero values.
func (f *fixture) spawn(t testing.TB, components ...*ecs.Component) ecs.Entity {
	t.Helper()
	e := f.world.CreateEntity()
	for _, c := range components {
		require.NoError(t, c.AddTo(e))
	}
	return e
}
