package ecs_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/excess/ecs"
)

func mustQuery(t *testing.T, w *ecs.World, with, without []*ecs.Component) *ecs.Query {
	t.Helper()
	q, err := w.DefineQuery(with, without)
	require.NoError(t, err)
	return q
}

func TestQueryEntities(t *testing.T) {
	f := newFixture(t)

	moving := f.spawn(t, f.position, f.velocity)
	still := f.spawn(t, f.position, f.velocity, f.static)
	placed := f.spawn(t, f.position)
	bare := f.world.CreateEntity()

	tests := []struct {
		name    string
		with    []*ecs.Component
		without []*ecs.Component
		want    []ecs.Entity
	}{
		{"everything", nil, nil, []ecs.Entity{moving, still, placed, bare}},
		{"required", []*ecs.Component{f.position}, nil, []ecs.Entity{moving, still, placed}},
		{"all required", []*ecs.Component{f.position, f.velocity}, nil, []ecs.Entity{moving, still}},
		{"excluded", []*ecs.Component{f.position, f.velocity}, []*ecs.Component{f.static}, []ecs.Entity{moving}},
		{"only excluded", nil, []*ecs.Component{f.position}, []ecs.Entity{bare}},
		{"duplicates", []*ecs.Component{f.velocity, f.velocity}, nil, []ecs.Entity{moving, still}},
		{"nothing matches", []*ecs.Component{f.health}, nil, []ecs.Entity{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := mustQuery(t, f.world, tt.with, tt.without)
			assert.ElementsMatch(t, tt.want, q.Entities())
			assert.Equal(t, len(tt.want), q.Count())
			for _, e := range tt.want {
				assert.True(t, q.Matches(e))
			}
		})
	}
}

func TestQueryMatchesPredicateUnderChurn(t *testing.T) {
	f := newFixture(t)
	rng := rand.New(rand.NewSource(1))
	pool := []*ecs.Component{f.position, f.velocity, f.health, f.static}
	q := mustQuery(t, f.world, []*ecs.Component{f.position, f.velocity}, []*ecs.Component{f.static})

	var entities []ecs.Entity
	for step := 0; step < 400; step++ {
		switch op := rng.Intn(4); {
		case op == 0 || len(entities) == 0:
			entities = append(entities, f.world.CreateEntity())
		case op == 1:
			i := rng.Intn(len(entities))
			require.NoError(t, f.world.RemoveEntity(entities[i]))
			entities = append(entities[:i], entities[i+1:]...)
		default:
			e := entities[rng.Intn(len(entities))]
			c := pool[rng.Intn(len(pool))]
			if c.Has(e) {
				require.NoError(t, c.RemoveFrom(e))
			} else {
				require.NoError(t, c.AddTo(e))
			}
		}

		var want []ecs.Entity
		for _, e := range entities {
			if f.position.Has(e) && f.velocity.Has(e) && !f.static.Has(e) {
				want = append(want, e)
			}
		}
		require.ElementsMatch(t, want, q.Entities(), "step %d", step)
	}
}

func TestQueryConstraintsAreCopies(t *testing.T) {
	f := newFixture(t)
	with := []*ecs.Component{f.position}
	without := []*ecs.Component{f.static}
	q := mustQuery(t, f.world, with, without)

	with[0] = f.health
	without[0] = f.player
	assert.Equal(t, []*ecs.Component{f.position}, q.With())
	assert.Equal(t, []*ecs.Component{f.static}, q.Without())

	got := q.With()
	got[0] = f.health
	assert.Equal(t, []*ecs.Component{f.position}, q.With())
}

func TestQueryRejectsNilComponent(t *testing.T) {
	f := newFixture(t)
	_, err := f.world.DefineQuery([]*ecs.Component{nil}, nil)
	assert.ErrorIs(t, err, ecs.ErrNilComponent)
	assert.Empty(t, f.world.Queries())
}

func TestQueryNotifyEntered(t *testing.T) {
	f := newFixture(t)
	q := mustQuery(t, f.world, []*ecs.Component{f.position}, []*ecs.Component{f.static})

	var entered []ecs.Entity
	q.RegisterEnterListener(func(e ecs.Entity) { entered = append(entered, e) })

	existing := f.spawn(t, f.position)
	assert.Equal(t, 1, q.NotifyEntered())
	assert.Equal(t, []ecs.Entity{existing}, entered)

	entered = nil
	assert.Equal(t, 0, q.NotifyEntered())
	assert.Empty(t, entered, "no state change, no notification")

	e := f.world.CreateEntity()
	assert.Equal(t, 0, q.NotifyEntered())
	require.NoError(t, f.position.AddTo(e))
	assert.Equal(t, 1, q.NotifyEntered())
	assert.Equal(t, 0, q.NotifyEntered())
	assert.Equal(t, []ecs.Entity{e}, entered)

	entered = nil
	require.NoError(t, f.static.AddTo(e))
	q.NotifyEntered()
	require.NoError(t, f.static.RemoveFrom(e))
	q.NotifyEntered()
	assert.Equal(t, []ecs.Entity{e}, entered, "re-entering after leaving is a new transition")
}

func TestQueryNotifyExited(t *testing.T) {
	f := newFixture(t)
	q := mustQuery(t, f.world, []*ecs.Component{f.position}, nil)

	var exited []ecs.Entity
	q.RegisterExitListener(func(e ecs.Entity) { exited = append(exited, e) })

	detached := f.spawn(t, f.position)
	removed := f.spawn(t, f.position)
	kept := f.spawn(t, f.position)
	assert.Equal(t, 0, q.NotifyExited())

	require.NoError(t, f.position.RemoveFrom(detached))
	require.NoError(t, f.world.RemoveEntity(removed))
	assert.Equal(t, 2, q.NotifyExited())
	assert.ElementsMatch(t, []ecs.Entity{detached, removed}, exited)
	assert.False(t, removed.Valid())
	assert.True(t, kept.Valid())

	exited = nil
	assert.Equal(t, 0, q.NotifyExited())
	assert.Empty(t, exited)
}

func TestQueryNotifyChannelsAreIndependent(t *testing.T) {
	f := newFixture(t)
	q := mustQuery(t, f.world, []*ecs.Component{f.position}, nil)

	e := f.spawn(t, f.position)
	assert.Equal(t, 0, q.NotifyExited())
	assert.Equal(t, 1, q.NotifyEntered(), "polling exits must not consume enters")

	require.NoError(t, f.world.RemoveEntity(e))
	assert.Equal(t, 0, q.NotifyEntered())
	assert.Equal(t, 1, q.NotifyExited(), "polling enters must not consume exits")
}

func TestQueryEnterThenExitWithinOneTick(t *testing.T) {
	f := newFixture(t)
	q := mustQuery(t, f.world, []*ecs.Component{f.position}, nil)
	calls := 0
	q.RegisterEnterListener(func(ecs.Entity) { calls++ })
	q.RegisterExitListener(func(ecs.Entity) { calls++ })

	e := f.spawn(t, f.position)
	require.NoError(t, f.world.RemoveEntity(e))
	q.NotifyEntered()
	q.NotifyExited()
	assert.Zero(t, calls)
}

func TestQueryRecycledIDIsNewTransition(t *testing.T) {
	f := newFixture(t)
	q := mustQuery(t, f.world, []*ecs.Component{f.position}, nil)
	var entered, exited []ecs.Entity
	q.AddEnterListener(func(e ecs.Entity) { entered = append(entered, e) })
	q.AddExitListener(func(e ecs.Entity) { exited = append(exited, e) })

	old := f.spawn(t, f.position)
	q.NotifyEntered()
	q.NotifyExited()

	require.NoError(t, f.world.RemoveEntity(old))
	reused := f.spawn(t, f.position)
	require.Equal(t, old.ID(), reused.ID())

	q.NotifyEntered()
	q.NotifyExited()
	assert.Equal(t, []ecs.Entity{old, reused}, entered)
	assert.Equal(t, []ecs.Entity{old}, exited)
}

func TestQueryListeners(t *testing.T) {
	f := newFixture(t)
	q := mustQuery(t, f.world, []*ecs.Component{f.position}, nil)

	var calls []string
	q.AddEnterListener(func(ecs.Entity) { calls = append(calls, "first") })
	q.AddEnterListener(func(ecs.Entity) { calls = append(calls, "second") })

	f.spawn(t, f.position)
	q.NotifyEntered()
	assert.Equal(t, []string{"first", "second"}, calls)

	calls = nil
	q.RegisterEnterListener(func(ecs.Entity) { calls = append(calls, "only") })
	f.spawn(t, f.position)
	q.NotifyEntered()
	assert.Equal(t, []string{"only"}, calls)

	calls = nil
	q.RegisterEnterListener(nil)
	f.spawn(t, f.position)
	assert.Equal(t, 1, q.NotifyEntered(), "snapshot advances without listeners")
	assert.Empty(t, calls)
}

func TestQueryListenerMayChangeWorld(t *testing.T) {
	f := newFixture(t)
	q := mustQuery(t, f.world, []*ecs.Component{f.position}, nil)
	q.RegisterEnterListener(func(e ecs.Entity) {
		require.NoError(t, f.world.RemoveEntity(e))
	})

	f.spawn(t, f.position)
	f.spawn(t, f.position)
	assert.Equal(t, 0, q.NotifyExited())
	assert.Equal(t, 2, q.NotifyEntered())
	assert.Equal(t, 0, f.world.Len())
	assert.Equal(t, 2, q.NotifyExited())
}

func TestSubquery(t *testing.T) {
	f := newFixture(t)
	parent := mustQuery(t, f.world, []*ecs.Component{f.position}, []*ecs.Component{f.static})

	both := f.spawn(t, f.position, f.velocity)
	f.spawn(t, f.position)
	f.spawn(t, f.velocity)
	f.spawn(t, f.position, f.velocity, f.static)

	sub, err := parent.DefineSubquery([]*ecs.Component{f.velocity}, nil)
	require.NoError(t, err)

	assert.Equal(t, []ecs.Entity{both}, sub.Entities())
	for _, e := range sub.Entities() {
		assert.True(t, parent.Matches(e))
		assert.True(t, f.velocity.Has(e))
	}
	assert.Equal(t, []*ecs.Component{f.position, f.velocity}, sub.With())
	assert.Equal(t, []*ecs.Component{f.static}, sub.Without())

	assert.Equal(t, []*ecs.Component{f.position}, parent.With(), "parent is unchanged")
	assert.Equal(t, 2, parent.Count())

	narrower, err := sub.DefineSubquery(nil, []*ecs.Component{f.health})
	require.NoError(t, err)
	assert.Equal(t, []*ecs.Component{f.static, f.health}, narrower.Without())
	assert.Equal(t, []*ecs.Component{f.static}, sub.Without())

	assert.Len(t, f.world.Queries(), 3)
}

func TestSubqueryNotificationsAreSeparate(t *testing.T) {
	f := newFixture(t)
	parent := mustQuery(t, f.world, []*ecs.Component{f.position}, nil)
	sub, err := parent.DefineSubquery(nil, nil)
	require.NoError(t, err)

	f.spawn(t, f.position)
	assert.Equal(t, 1, parent.NotifyEntered())
	assert.Equal(t, 1, sub.NotifyEntered())
}

func TestQueryClose(t *testing.T) {
	f := newFixture(t)
	parent := mustQuery(t, f.world, []*ecs.Component{f.position}, nil)
	twin := mustQuery(t, f.world, []*ecs.Component{f.position}, nil)

	for range 100 {
		sub, err := parent.DefineSubquery([]*ecs.Component{f.velocity}, nil)
		require.NoError(t, err)
		sub.Close()
		sub.Close()
		assert.True(t, sub.Closed())
	}
	assert.Equal(t, []*ecs.Query{parent, twin}, f.world.Queries())
	assert.Equal(t, 2, f.world.Stats().Queries)

	calls := 0
	twin.AddEnterListener(func(ecs.Entity) { calls++ })
	e := f.spawn(t, f.position)
	twin.Close()
	assert.Equal(t, 0, twin.NotifyEntered())
	assert.Equal(t, 0, twin.NotifyExited())
	assert.Zero(t, calls)
	assert.Equal(t, []ecs.Entity{e}, twin.Entities())

	assert.False(t, parent.Closed())
	assert.Equal(t, 1, parent.NotifyEntered())
	assert.Equal(t, []*ecs.Query{parent}, f.world.Queries())
}

func TestQueryAll(t *testing.T) {
	f := newFixture(t)
	f.spawn(t, f.health)
	f.spawn(t, f.health)
	f.spawn(t, f.health)
	q := mustQuery(t, f.world, []*ecs.Component{f.health}, nil)

	n := 0
	for e := range q.All() {
		assert.True(t, f.health.Has(e))
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
	assert.Equal(t, "Query(with Health)", q.String())
}
