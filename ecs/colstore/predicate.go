package colstore

import (
	"github.com/cespare/xxhash/v2"
	"github.com/kamstrup/intmap"
)

// Predicate selects the entities of one world that carry every handle of a
// required set and none of an excluded set. Predicates are interned per
// world: equal constraint sets yield the same *Predicate until every
// reference has been released.
type Predicate struct {
	world   *World
	with    mask
	without mask
	key     uint64
	refs    int
}

// Predicate returns the interned predicate for the two handle sets. Handles
// the world has not seen yet are assigned bits here.
func (w *World) Predicate(with, without []*Handle) (*Predicate, error) {
	var withMask, withoutMask mask
	for _, h := range with {
		s, err := w.storeFor(h)
		if err != nil {
			return nil, err
		}
		withMask.set(s.bit)
	}
	for _, h := range without {
		s, err := w.storeFor(h)
		if err != nil {
			return nil, err
		}
		withoutMask.set(s.bit)
	}

	buf := make([]byte, 0, 64)
	buf = withMask.appendBytes(buf)
	buf = withoutMask.appendBytes(buf)
	key := xxhash.Sum64(buf)

	if p, ok := w.predicates[key]; ok && p.with == withMask && p.without == withoutMask {
		p.refs++
		return p, nil
	}
	p := &Predicate{
		world:   w,
		with:    withMask,
		without: withoutMask,
		key:     key,
		refs:    1,
	}
	w.predicates[key] = p
	return p, nil
}

// Release drops one reference taken by World.Predicate. The world forgets
// the predicate once none remain; it still evaluates if used afterwards.
func (p *Predicate) Release() {
	if p.refs == 0 {
		return
	}
	p.refs--
	if p.refs == 0 && p.world.predicates[p.key] == p {
		delete(p.world.predicates, p.key)
	}
}

// Key returns the hash identifying the predicate within its world.
func (p *Predicate) Key() uint64 {
	return p.key
}

func (p *Predicate) matches(id uint32) bool {
	m := p.world.masks[id]
	return m.containsAll(p.with) && m.containsNone(p.without)
}

// Matches reports whether the ref is alive and satisfies the predicate.
func (p *Predicate) Matches(ref Ref) bool {
	return p.world.Alive(ref) && p.matches(ref.ID())
}

// Match evaluates the predicate against every live entity, in dense order.
func (p *Predicate) Match() []Ref {
	w := p.world
	out := make([]Ref, 0)
	for _, id := range w.dense {
		if p.matches(id) {
			out = append(out, NewRef(id, w.versions[id]))
		}
	}
	return out
}

// Count returns the number of live entities satisfying the predicate.
func (p *Predicate) Count() int {
	n := 0
	for _, id := range p.world.dense {
		if p.matches(id) {
			n++
		}
	}
	return n
}

// Tracker reports the refs that began or stopped matching a predicate since
// the tracker was last polled. Each tracker owns its own snapshot, so two
// trackers over the same predicate never consume each other's transitions.
type Tracker struct {
	pred  *Predicate
	order []Ref
	seen  *intmap.Set[Ref]
}

// Tracker creates a tracker with an empty snapshot: the first poll of
// Entered reports every currently matching entity.
func (p *Predicate) Tracker() *Tracker {
	return &Tracker{
		pred: p,
		seen: intmap.NewSet[Ref](0),
	}
}

// Entered returns the refs matching now that were not matching at the
// previous poll, then records the current match set.
func (t *Tracker) Entered() []Ref {
	current := t.pred.Match()
	var entered []Ref
	for _, ref := range current {
		if !t.seen.Has(ref) {
			entered = append(entered, ref)
		}
	}
	t.record(current)
	return entered
}

// Exited returns the refs that matched at the previous poll and do not
// match now, then records the current match set. Removed entities are
// reported with their old version.
func (t *Tracker) Exited() []Ref {
	current := t.pred.Match()
	now := intmap.NewSet[Ref](len(current))
	for _, ref := range current {
		now.Add(ref)
	}
	var exited []Ref
	for _, ref := range t.order {
		if !now.Has(ref) {
			exited = append(exited, ref)
		}
	}
	t.order = current
	t.seen = now
	return exited
}

func (t *Tracker) record(current []Ref) {
	t.seen.Clear()
	for _, ref := range current {
		t.seen.Add(ref)
	}
	t.order = current
}
