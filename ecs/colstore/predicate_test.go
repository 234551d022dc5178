package colstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredicateMatch(t *testing.T) {
	w := NewWorld()
	pos := mustCompile(t, Field{Name: "x", Kind: Float64})
	vel := mustCompile(t, Field{Name: "dx", Kind: Float64})
	frozen := mustCompile(t)

	moving := w.NewEntity()
	still := w.NewEntity()
	iced := w.NewEntity()
	bare := w.NewEntity()

	for _, ref := range []Ref{moving, still, iced} {
		require.NoError(t, w.Attach(pos, ref.ID()))
	}
	require.NoError(t, w.Attach(vel, moving.ID()))
	require.NoError(t, w.Attach(vel, iced.ID()))
	require.NoError(t, w.Attach(frozen, iced.ID()))

	tests := []struct {
		name    string
		with    []*Handle
		without []*Handle
		want    []Ref
	}{
		{"all", nil, nil, []Ref{moving, still, iced, bare}},
		{"with pos", []*Handle{pos}, nil, []Ref{moving, still, iced}},
		{"with pos vel", []*Handle{pos, vel}, nil, []Ref{moving, iced}},
		{"with vel without frozen", []*Handle{vel}, []*Handle{frozen}, []Ref{moving}},
		{"without pos", nil, []*Handle{pos}, []Ref{bare}},
		{"contradiction", []*Handle{pos}, []*Handle{pos}, []Ref{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := w.Predicate(tt.with, tt.without)
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.want, p.Match())
			assert.Equal(t, len(tt.want), p.Count())
			for _, ref := range tt.want {
				assert.True(t, p.Matches(ref))
			}
		})
	}
}

func TestPredicateInterning(t *testing.T) {
	w := NewWorld()
	a := mustCompile(t)
	b := mustCompile(t)

	p1, err := w.Predicate([]*Handle{a, b}, nil)
	require.NoError(t, err)
	p2, err := w.Predicate([]*Handle{b, a}, nil)
	require.NoError(t, err)
	p3, err := w.Predicate([]*Handle{a}, []*Handle{b})
	require.NoError(t, err)

	assert.Same(t, p1, p2)
	assert.NotSame(t, p1, p3)
	assert.NotEqual(t, p1.Key(), p3.Key())
}

func TestPredicateRelease(t *testing.T) {
	w := NewWorld()
	a := mustCompile(t)

	p1, err := w.Predicate([]*Handle{a}, nil)
	require.NoError(t, err)
	p2, err := w.Predicate([]*Handle{a}, nil)
	require.NoError(t, err)
	require.Same(t, p1, p2)

	p1.Release()
	assert.Len(t, w.predicates, 1)
	p2.Release()
	assert.Empty(t, w.predicates)
	p2.Release()

	p3, err := w.Predicate([]*Handle{a}, nil)
	require.NoError(t, err)
	assert.NotSame(t, p1, p3)
	assert.Equal(t, p1.Key(), p3.Key())
}

func TestTrackerEnteredExited(t *testing.T) {
	w := NewWorld()
	tag := mustCompile(t)
	p, err := w.Predicate([]*Handle{tag}, nil)
	require.NoError(t, err)

	enter := p.Tracker()
	exit := p.Tracker()

	a := w.NewEntity()
	b := w.NewEntity()
	require.NoError(t, w.Attach(tag, a.ID()))

	assert.Equal(t, []Ref{a}, enter.Entered())
	assert.Empty(t, enter.Entered(), "no change since last poll")
	assert.Empty(t, exit.Exited())

	require.NoError(t, w.Attach(tag, b.ID()))
	w.Detach(tag, a.ID())

	assert.Equal(t, []Ref{b}, enter.Entered())
	assert.Equal(t, []Ref{a}, exit.Exited())
	assert.Empty(t, exit.Exited())
}

func TestTrackerSeesRecycledIDAsNewEntity(t *testing.T) {
	w := NewWorld()
	tag := mustCompile(t)
	p, err := w.Predicate([]*Handle{tag}, nil)
	require.NoError(t, err)
	enter := p.Tracker()
	exit := p.Tracker()

	old := w.NewEntity()
	require.NoError(t, w.Attach(tag, old.ID()))
	enter.Entered()
	exit.Exited()

	w.RemoveEntity(old)
	reused := w.NewEntity()
	require.Equal(t, old.ID(), reused.ID())
	require.NoError(t, w.Attach(tag, reused.ID()))

	assert.Equal(t, []Ref{reused}, enter.Entered())
	assert.Equal(t, []Ref{old}, exit.Exited())
}

func TestTrackersAreIndependent(t *testing.T) {
	w := NewWorld()
	tag := mustCompile(t)
	p, err := w.Predicate([]*Handle{tag}, nil)
	require.NoError(t, err)

	first := p.Tracker()
	second := p.Tracker()

	e := w.NewEntity()
	require.NoError(t, w.Attach(tag, e.ID()))

	assert.Equal(t, []Ref{e}, first.Entered())
	assert.Equal(t, []Ref{e}, second.Entered())
}
