package debugui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/excess/ecs"
)

type testWorld struct {
	world    *ecs.World
	position *ecs.Component
	velocity *ecs.Component
	path     *ecs.Component
	static   *ecs.Component
	entities []ecs.Entity
}

// newTestWorld builds three entities: Position, Position+Static and
// Velocity+Path.
func newTestWorld(t *testing.T) *testWorld {
	t.Helper()
	m := ecs.NewManager()
	require.NoError(t, m.RegisterSchema(ecs.Schema{
		Components: []ecs.ComponentSpec{
			{Name: "Position", Entry: ecs.Vector2()},
			{Name: "Velocity", Entry: ecs.Vector2()},
			{Name: "Path", Entry: ecs.SchemaEntry{
				ecs.Array("points", ecs.F32, 4),
				ecs.Scalar("cursor", ecs.UI8),
			}},
		},
		Markers: []string{"Static"},
	}))
	require.NoError(t, RegisterComponents(m))

	tw := &testWorld{
		world:    ecs.NewWorld(m),
		position: m.MustComponent("Position"),
		velocity: m.MustComponent("Velocity"),
		path:     m.MustComponent("Path"),
		static:   m.MustComponent("Static"),
	}
	for _, components := range [][]*ecs.Component{
		{tw.position},
		{tw.position, tw.static},
		{tw.velocity, tw.path},
	} {
		e := tw.world.CreateEntity()
		for _, c := range components {
			require.NoError(t, c.AddTo(e))
		}
		tw.entities = append(tw.entities, e)
	}
	return tw
}

func entitiesOf(rows []EntityInfo) []ecs.Entity {
	out := make([]ecs.Entity, len(rows))
	for i, row := range rows {
		out[i] = row.Entity
	}
	return out
}

func TestEntityRows(t *testing.T) {
	tw := newTestWorld(t)
	rows := collectEntities(tw.world)
	sortEntities(rows, 0, true)

	require.Len(t, rows, 3)
	assert.Equal(t, tw.entities, entitiesOf(rows))
	assert.Equal(t, []string{"Position", "Static"}, rows[1].ComponentNames)
	assert.Equal(t, []ecs.ComponentID{tw.velocity.ID(), tw.path.ID()}, rows[2].ComponentIDs)

	t.Run("filter by text", func(t *testing.T) {
		assert.Equal(t, tw.entities[1:2], entitiesOf(filterEntities(rows, "STAT", nil)))
		assert.Equal(t, tw.entities[2:], entitiesOf(filterEntities(rows, "2", nil)))
		assert.Empty(t, filterEntities(rows, "missing", nil))
	})

	t.Run("filter by component", func(t *testing.T) {
		id := tw.position.ID()
		assert.Equal(t, tw.entities[:2], entitiesOf(filterEntities(rows, "", &id)))
		assert.Equal(t, tw.entities[1:2], entitiesOf(filterEntities(rows, "static", &id)))
	})

	t.Run("sort", func(t *testing.T) {
		sorted := append([]EntityInfo(nil), rows...)

		sortEntities(sorted, 0, false)
		assert.Equal(t, []ecs.Entity{tw.entities[2], tw.entities[1], tw.entities[0]}, entitiesOf(sorted))

		sortEntities(sorted, 3, true)
		assert.Equal(t, tw.entities[0], sorted[0].Entity, "ties keep their previous order")
		assert.Len(t, sorted[2].ComponentIDs, 2)
	})
}

func TestMatchEntities(t *testing.T) {
	tw := newTestWorld(t)

	assert.Equal(t, tw.entities[:1], matchEntities(tw.world, []*ecs.Component{tw.position}, []*ecs.Component{tw.static}))
	assert.Equal(t, tw.entities[2:], matchEntities(tw.world, []*ecs.Component{tw.velocity, tw.path}, nil))
	assert.Empty(t, matchEntities(tw.world, []*ecs.Component{tw.velocity}, []*ecs.Component{tw.path}))
	assert.Empty(t, tw.world.Queries(), "ad-hoc selections do not define queries")

	assert.Equal(t, "with Position; without Static", selectionKey([]*ecs.Component{tw.position}, []*ecs.Component{tw.static}))
	assert.Equal(t, "with Velocity,Path", selectionKey([]*ecs.Component{tw.velocity, tw.path}, nil))
}

func TestQueryDebuggerSelection(t *testing.T) {
	tw := newTestWorld(t)
	qd := NewQueryDebugger()

	qd.toggle(qd.with, qd.without, tw.position.ID(), true)
	qd.toggle(qd.without, qd.with, tw.static.ID(), true)
	qd.toggle(qd.without, qd.with, tw.position.ID(), true)

	with, without := qd.selection(tw.world.Manager().Components())
	assert.Empty(t, with, "excluding a component clears its requirement")
	assert.Equal(t, []*ecs.Component{tw.position, tw.static}, without)

	qd.toggle(qd.without, qd.with, tw.position.ID(), false)
	_, without = qd.selection(tw.world.Manager().Components())
	assert.Equal(t, []*ecs.Component{tw.static}, without)
}

func TestComponentRows(t *testing.T) {
	tw := newTestWorld(t)
	rows := collectComponents(tw.world.Stats())
	require.Len(t, rows, 5)

	assert.Equal(t, ComponentInfo{
		ID:          tw.position.ID(),
		Name:        "Position",
		Fields:      "[x: f64 y: f64]",
		FieldCount:  2,
		EntityCount: 2,
	}, rows[0])
	assert.Equal(t, "marker", rows[3].Fields)
	assert.Equal(t, 1, rows[3].EntityCount)

	sortComponents(rows, 3, false)
	names := make([]string, len(rows))
	for i, row := range rows {
		names[i] = row.Name
	}
	assert.Equal(t, []string{"Position", "Velocity", "Path", "Static", InputComponent}, names)

	sortComponents(rows, 0, true)
	assert.Equal(t, InputComponent, rows[0].Name)
}

func TestLayoutCache(t *testing.T) {
	tw := newTestWorld(t)
	cache := NewLayoutCache()

	fields := cache.Fields(tw.path)
	require.Len(t, fields, 2)
	assert.Equal(t, FieldLayout{Name: "points", Label: "##Path.points", Type: ecs.F32, Len: 4, IsFloat: true}, fields[0])
	assert.Equal(t, FieldLayout{Name: "cursor", Label: "##Path.cursor", Type: ecs.UI8}, fields[1])
	assert.Equal(t, fields, cache.Fields(tw.path))
	assert.Empty(t, cache.Fields(tw.static))
}

func TestWantsInput(t *testing.T) {
	t.Run("unregistered", func(t *testing.T) {
		m := ecs.NewManager()
		w := ecs.NewWorld(m)
		mouse, keyboard := WantsInput(w)
		assert.False(t, mouse)
		assert.False(t, keyboard)
		assert.Zero(t, w.Len())
	})

	t.Run("registered", func(t *testing.T) {
		tw := newTestWorld(t)
		input := tw.world.Manager().MustComponent(InputComponent)
		_, err := ecs.NewSingleton(tw.world, input, ecs.Values{"mouse": 1})
		require.NoError(t, err)

		mouse, keyboard := WantsInput(tw.world)
		assert.True(t, mouse)
		assert.False(t, keyboard)
	})
}

func TestImguiSystemAdd(t *testing.T) {
	var system ImguiSystem
	calls := 0
	system.Add(func() { calls++ }, func() { calls += 10 })
	require.Len(t, system.Items, 2)

	for _, item := range system.Items {
		item()
	}
	assert.Equal(t, 11, calls)
}
