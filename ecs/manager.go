package ecs

import (
	"go.uber.org/zap"
)

// ComponentID is the stable index a Manager assigns to each component in
// registration order.
type ComponentID uint16

// Manager owns compiled component definitions. Each registered name maps to
// exactly one Component for the manager's lifetime, and that Component may
// be used by every World built on the manager.
type Manager struct {
	log        *zap.Logger
	components []*Component
	byName     map[string]ComponentID
}

// NewManager creates an empty manager.
func NewManager(opts ...Option) *Manager {
	cfg := newConfig(opts)
	return &Manager{
		log:    cfg.logger,
		byName: make(map[string]ComponentID),
	}
}

// DefineComponent compiles entry and registers it under name. A nil or empty
// entry defines a marker. Redefining a name fails and keeps the original.
func (m *Manager) DefineComponent(name string, entry SchemaEntry) (*Component, error) {
	if _, exists := m.byName[name]; exists {
		return nil, &DuplicateDefinitionError{Name: name}
	}

	handle, err := compileEntry(name, entry)
	if err != nil {
		return nil, err
	}

	fields := make([]FieldSpec, len(entry))
	copy(fields, entry)

	c := &Component{
		id:      ComponentID(len(m.components)),
		name:    name,
		manager: m,
		handle:  handle,
		fields:  fields,
	}
	m.components = append(m.components, c)
	m.byName[name] = c.id

	m.log.Debug("component defined",
		zap.String("component", name),
		zap.Uint16("id", uint16(c.id)),
		zap.Int("fields", len(fields)),
	)
	return c, nil
}

// DefineMarker registers a component with no fields.
func (m *Manager) DefineMarker(name string) (*Component, error) {
	return m.DefineComponent(name, nil)
}

// RegisterSchema defines every component of the schema in declared order,
// then every marker. It stops at the first failure; definitions made before
// it stay registered.
func (m *Manager) RegisterSchema(schema Schema) error {
	for _, spec := range schema.Components {
		if _, err := m.DefineComponent(spec.Name, spec.Entry); err != nil {
			return err
		}
	}
	for _, name := range schema.Markers {
		if _, err := m.DefineMarker(name); err != nil {
			return err
		}
	}
	m.log.Info("schema registered",
		zap.Int("components", len(schema.Components)),
		zap.Int("markers", len(schema.Markers)),
	)
	return nil
}

// Component looks up a definition by name.
func (m *Manager) Component(name string) (*Component, bool) {
	id, ok := m.byName[name]
	if !ok {
		return nil, false
	}
	return m.components[id], true
}

// MustComponent looks up a definition by name and panics when it is missing.
func (m *Manager) MustComponent(name string) *Component {
	c, ok := m.Component(name)
	if !ok {
		panic("ecs: component " + name + " is not defined")
	}
	return c
}

// ComponentByID looks up a definition by its registration index.
func (m *Manager) ComponentByID(id ComponentID) (*Component, bool) {
	if int(id) >= len(m.components) {
		return nil, false
	}
	return m.components[id], true
}

// Components returns every definition in registration order.
func (m *Manager) Components() []*Component {
	out := make([]*Component, len(m.components))
	copy(out, m.components)
	return out
}

// Len returns the number of registered components.
func (m *Manager) Len() int {
	return len(m.components)
}
