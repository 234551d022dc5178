package ecs

import (
	"iter"
	"strings"

	"github.com/plus3/excess/ecs/colstore"
)

// Listener receives one entity per transition.
type Listener func(Entity)

// Query selects the entities of one world that carry every required
// component and none of the excluded ones. Its constraint sets are fixed at
// construction.
//
// A query answers on two independent channels. Entities evaluates the
// predicate on every call. NotifyEntered and NotifyExited are polled once
// per tick and report the transitions since their own previous call; each
// keeps a separate snapshot, so polling one never consumes the other's
// transitions.
//
// A query lives as long as its world unless it is closed.
type Query struct {
	world   *World
	with    []*Component
	without []*Component

	pred  *colstore.Predicate
	enter *colstore.Tracker
	exit  *colstore.Tracker

	onEnter []Listener
	onExit  []Listener
	closed  bool
}

// World returns the world the query is bound to.
func (q *Query) World() *World {
	return q.world
}

// With returns a copy of the required components.
func (q *Query) With() []*Component {
	return append([]*Component(nil), q.with...)
}

// Without returns a copy of the excluded components.
func (q *Query) Without() []*Component {
	return append([]*Component(nil), q.without...)
}

// Entities returns the entities matching now.
func (q *Query) Entities() []Entity {
	refs := q.pred.Match()
	out := make([]Entity, len(refs))
	for i, ref := range refs {
		out[i] = entityFromRef(q.world, ref)
	}
	return out
}

// All iterates the entities matching when iteration starts.
func (q *Query) All() iter.Seq[Entity] {
	return func(yield func(Entity) bool) {
		for _, e := range q.Entities() {
			if !yield(e) {
				return
			}
		}
	}
}

// Count returns the number of entities matching now.
func (q *Query) Count() int {
	return q.pred.Count()
}

// Matches reports whether e is a live entity of the query's world that
// satisfies the predicate.
func (q *Query) Matches(e Entity) bool {
	return e.world == q.world && q.pred.Matches(e.ref())
}

// RegisterEnterListener replaces every enter listener with fn. A nil fn
// clears them.
func (q *Query) RegisterEnterListener(fn Listener) {
	q.onEnter = nil
	if fn != nil {
		q.onEnter = append(q.onEnter, fn)
	}
}

// RegisterExitListener replaces every exit listener with fn. A nil fn clears
// them.
func (q *Query) RegisterExitListener(fn Listener) {
	q.onExit = nil
	if fn != nil {
		q.onExit = append(q.onExit, fn)
	}
}

// AddEnterListener appends fn to the enter listeners. Listeners run in the
// order they were added.
func (q *Query) AddEnterListener(fn Listener) {
	if fn != nil {
		q.onEnter = append(q.onEnter, fn)
	}
}

// AddExitListener appends fn to the exit listeners.
func (q *Query) AddExitListener(fn Listener) {
	if fn != nil {
		q.onExit = append(q.onExit, fn)
	}
}

// NotifyEntered calls the enter listeners once for every entity that
// started matching since the previous call and returns how many did. The
// first call reports every matching entity. Calling it with no listeners
// still advances the snapshot.
func (q *Query) NotifyEntered() int {
	if q.closed {
		return 0
	}
	refs := q.enter.Entered()
	q.dispatch(refs, q.onEnter)
	return len(refs)
}

// NotifyExited calls the exit listeners once for every entity that stopped
// matching since the previous call, including removed entities, and returns
// how many did. Handles of removed entities are no longer valid.
func (q *Query) NotifyExited() int {
	if q.closed {
		return 0
	}
	refs := q.exit.Exited()
	q.dispatch(refs, q.onExit)
	return len(refs)
}

// Close detaches the query from its world: it is dropped from Queries, its
// listeners are cleared and it no longer reports transitions. Schedulers
// stop watching it on their next tick. Entities and Count keep working.
func (q *Query) Close() {
	if q.closed {
		return
	}
	q.closed = true
	q.onEnter, q.onExit = nil, nil
	q.pred.Release()
	q.world.forgetQuery(q)
}

// Closed reports whether Close has been called.
func (q *Query) Closed() bool {
	return q.closed
}

func (q *Query) dispatch(refs []colstore.Ref, listeners []Listener) {
	if len(listeners) == 0 {
		return
	}
	// Listeners may add or remove listeners while running.
	listeners = append([]Listener(nil), listeners...)
	for _, ref := range refs {
		e := entityFromRef(q.world, ref)
		for _, fn := range listeners {
			fn(e)
		}
	}
}

// DefineSubquery builds a new query over the union of this query's
// constraints and the extra ones. The parent is not changed and the two
// queries share no state.
func (q *Query) DefineSubquery(with, without []*Component) (*Query, error) {
	return q.world.DefineQuery(
		append(q.With(), with...),
		append(q.Without(), without...),
	)
}

func (q *Query) String() string {
	var b strings.Builder
	b.WriteString("Query(")
	writeNames(&b, "with", q.with)
	if len(q.without) > 0 {
		if len(q.with) > 0 {
			b.WriteString("; ")
		}
		writeNames(&b, "without", q.without)
	}
	b.WriteString(")")
	return b.String()
}

func writeNames(b *strings.Builder, label string, components []*Component) {
	if len(components) == 0 {
		return
	}
	b.WriteString(label)
	b.WriteString(" ")
	for i, c := range components {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(c.name)
	}
}
