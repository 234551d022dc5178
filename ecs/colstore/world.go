package colstore

import (
	"fmt"

	"github.com/kamstrup/intmap"
)

// Ref identifies one occupancy of an entity id: the version (upper 32 bits)
// and the id (lower 32 bits). Removing an entity bumps the version of its
// id, so refs taken before the removal stop being alive even after the id
// is recycled.
type Ref uint64

// NewRef packs an id and a version into a Ref.
func NewRef(id uint32, version uint32) Ref {
	return Ref(uint64(version)<<32 | uint64(id))
}

// ID extracts the entity id.
func (r Ref) ID() uint32 {
	return uint32(r & 0xFFFFFFFF)
}

// Version extracts the version of the id at the time the ref was taken.
func (r Ref) Version() uint32 {
	return uint32(r >> 32)
}

// store holds the columns of one handle inside one world.
type store struct {
	handle *Handle
	bit    uint8
	cols   []column
	count  int
}

func newStore(h *Handle, bit uint8) *store {
	s := &store{
		handle: h,
		bit:    bit,
		cols:   make([]column, len(h.fields)),
	}
	for i, f := range h.fields {
		s.cols[i] = f.Kind.newColumn(f.Width())
	}
	return s
}

func (s *store) zero(id uint32) {
	for _, col := range s.cols {
		col.Zero(id)
	}
}

// World is one namespace of entities and their component values.
type World struct {
	versions []uint32
	sparse   []int32
	dense    []uint32
	masks    []mask
	free     []uint32

	stores *intmap.Map[uint32, *store]
	byBit  []*store

	predicates map[uint64]*Predicate
}

// NewWorld creates an empty world.
func NewWorld() *World {
	return &World{
		stores:     intmap.New[uint32, *store](32),
		predicates: make(map[uint64]*Predicate),
	}
}

// NewEntity allocates an entity id. Removed ids are reused first-in
// first-out; a reused id keeps the version bumped by its removal.
func (w *World) NewEntity() Ref {
	var id uint32
	if len(w.free) > 0 {
		id = w.free[0]
		w.free = w.free[1:]
		if len(w.free) == 0 {
			w.free = nil
		}
	} else {
		id = uint32(len(w.versions))
		w.versions = append(w.versions, 0)
		w.sparse = append(w.sparse, -1)
		w.masks = append(w.masks, mask{})
	}

	w.sparse[id] = int32(len(w.dense))
	w.dense = append(w.dense, id)
	return NewRef(id, w.versions[id])
}

func (w *World) live(id uint32) bool {
	return int(id) < len(w.sparse) && w.sparse[id] >= 0
}

// Alive reports whether the ref still names a live entity.
func (w *World) Alive(ref Ref) bool {
	id := ref.ID()
	return w.live(id) && w.versions[id] == ref.Version()
}

// Resolve returns the current ref of a live id.
func (w *World) Resolve(id uint32) (Ref, bool) {
	if !w.live(id) {
		return 0, false
	}
	return NewRef(id, w.versions[id]), true
}

// RemoveEntity releases the entity and discards all of its component values.
// It returns false when the ref is not alive.
func (w *World) RemoveEntity(ref Ref) bool {
	if !w.Alive(ref) {
		return false
	}
	id := ref.ID()

	m := w.masks[id]
	for _, s := range w.byBit {
		if m.has(s.bit) {
			s.zero(id)
			s.count--
		}
	}
	w.masks[id] = mask{}

	pos := w.sparse[id]
	last := w.dense[len(w.dense)-1]
	w.dense[pos] = last
	w.sparse[last] = pos
	w.dense = w.dense[:len(w.dense)-1]
	w.sparse[id] = -1

	w.versions[id]++
	w.free = append(w.free, id)
	return true
}

// Entities returns refs for all live entities in dense order. Removal moves
// the last entity into the removed slot, so the order is not stable across
// removals.
func (w *World) Entities() []Ref {
	out := make([]Ref, len(w.dense))
	for i, id := range w.dense {
		out[i] = NewRef(id, w.versions[id])
	}
	return out
}

// Len returns the number of live entities.
func (w *World) Len() int {
	return len(w.dense)
}

// storeFor returns the world-local store for h, assigning it a bit on first use.
func (w *World) storeFor(h *Handle) (*store, error) {
	if s, ok := w.stores.Get(h.id); ok {
		return s, nil
	}
	if len(w.byBit) >= MaxComponents {
		return nil, fmt.Errorf("handle %d: %w", h.id, ErrTooManyComponents)
	}
	s := newStore(h, uint8(len(w.byBit)))
	w.stores.Put(h.id, s)
	w.byBit = append(w.byBit, s)
	return s, nil
}

func (w *World) lookup(h *Handle) *store {
	s, _ := w.stores.Get(h.id)
	return s
}

// Attach marks the handle present on the entity with zeroed values.
func (w *World) Attach(h *Handle, id uint32) error {
	if !w.live(id) {
		return ErrDeadEntity
	}
	s, err := w.storeFor(h)
	if err != nil {
		return err
	}
	if w.masks[id].has(s.bit) {
		return ErrAttached
	}
	w.masks[id].set(s.bit)
	s.zero(id)
	s.count++
	return nil
}

// Detach clears the handle from the entity. It returns false when the handle
// was not attached.
func (w *World) Detach(h *Handle, id uint32) bool {
	s := w.lookup(h)
	if s == nil || !w.live(id) || !w.masks[id].has(s.bit) {
		return false
	}
	w.masks[id].unset(s.bit)
	s.zero(id)
	s.count--
	return true
}

// Has reports whether the handle is attached to the entity.
func (w *World) Has(h *Handle, id uint32) bool {
	s := w.lookup(h)
	if s == nil || !w.live(id) {
		return false
	}
	return w.masks[id].has(s.bit)
}

// Get reads element i of a field. Values of detached rows read as zero.
func (w *World) Get(h *Handle, field int, id uint32, i int) float64 {
	s := w.lookup(h)
	if s == nil {
		return 0
	}
	return s.cols[field].Get(id, i)
}

// Set writes element i of a field. Presence is not checked.
func (w *World) Set(h *Handle, field int, id uint32, i int, v float64) {
	s, err := w.storeFor(h)
	if err != nil {
		return
	}
	s.cols[field].Set(id, i, v)
}

// Count returns how many entities carry the handle.
func (w *World) Count(h *Handle) int {
	s := w.lookup(h)
	if s == nil {
		return 0
	}
	return s.count
}

// Handles returns every handle the world has seen, in bit order.
func (w *World) Handles() []*Handle {
	out := make([]*Handle, len(w.byBit))
	for i, s := range w.byBit {
		out[i] = s.handle
	}
	return out
}
