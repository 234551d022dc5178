package ecs

// View reads and writes one component of one entity in place. It holds no
// copy of the values: every call checks that the entity is alive and still
// carries the component, and goes to storage. While that check fails the
// view reads zero and drops writes. A view of a removed entity stays invalid
// even after its id is reused.
//
// Methods taking a field name panic if the component has no such field.
type View struct {
	component *Component
	entity    Entity
}

// Valid reports whether the view still refers to attached values.
func (v View) Valid() bool {
	return v.component != nil && v.component.Has(v.entity)
}

// Entity returns the viewed entity.
func (v View) Entity() Entity {
	return v.entity
}

// Component returns the viewed component.
func (v View) Component() *Component {
	return v.component
}

func (v View) index(field string) int {
	idx, ok := v.component.handle.Index(field)
	if !ok {
		panic("ecs: component " + v.component.name + " has no field " + field)
	}
	return idx
}

// Get reads a scalar field, or the first element of an array field.
func (v View) Get(field string) float64 {
	return v.At(field, 0)
}

// At reads element i of an array field. Out of range elements read zero.
func (v View) At(field string, i int) float64 {
	idx := v.index(field)
	if !v.Valid() {
		return 0
	}
	return v.entity.world.store.Get(v.component.handle, idx, v.entity.id, i)
}

// Set writes a scalar field, or the first element of an array field.
func (v View) Set(field string, value float64) {
	v.SetAt(field, 0, value)
}

// SetAt writes element i of an array field. Out of range writes are dropped.
func (v View) SetAt(field string, i int, value float64) {
	idx := v.index(field)
	if !v.Valid() {
		return
	}
	v.entity.world.store.Set(v.component.handle, idx, v.entity.id, i, value)
}

// Len returns the element count of a field: 1 for scalars.
func (v View) Len(field string) int {
	spec := v.component.fields[v.index(field)]
	if spec.IsArray() {
		return spec.Len
	}
	return 1
}

// Values copies the current values out, or returns nil when the view is no
// longer valid.
func (v View) Values() Values {
	if !v.Valid() {
		return nil
	}
	return v.component.snapshot(v.entity.world.store, v.entity.id)
}
