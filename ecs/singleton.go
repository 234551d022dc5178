package ecs

// Singleton gives access to the one instance of a component that represents
// world-wide state such as a score or game settings. The instance lives on a
// dedicated entity, so it shows up in queries and Entities like any other.
type Singleton struct {
	world     *World
	component *Component
}

// NewSingleton returns the singleton of c in w. If the world has none yet it
// creates the holder entity and writes init, when given. Later calls return
// an accessor to the same instance and ignore init.
func NewSingleton(w *World, c *Component, init Values) (*Singleton, error) {
	s := &Singleton{world: w, component: c}
	if s.Exists() {
		return s, nil
	}

	e := w.CreateEntity()
	var err error
	if init == nil {
		err = c.AddTo(e)
	} else {
		err = c.SetOn(e, init)
	}
	if err != nil {
		_ = w.RemoveEntity(e)
		return nil, err
	}
	w.singletons[c.id] = e
	return s, nil
}

// Entity returns the holder entity. It is invalid once the singleton has
// been removed.
func (s *Singleton) Entity() Entity {
	return s.world.singletons[s.component.id]
}

// Get returns a live view of the instance. The view is invalid when the
// singleton no longer exists.
func (s *Singleton) Get() View {
	return View{component: s.component, entity: s.Entity()}
}

// Exists reports whether the holder entity is alive and still carries the
// component.
func (s *Singleton) Exists() bool {
	e, ok := s.world.singletons[s.component.id]
	if !ok {
		return false
	}
	if !s.component.Has(e) {
		delete(s.world.singletons, s.component.id)
		return false
	}
	return true
}
