package debugui

import (
	"fmt"
	"sync"

	"github.com/plus3/excess/ecs"
)

// FieldLayout describes how the inspector edits one component field. Label
// is the hidden ImGui id of the field's input widget.
type FieldLayout struct {
	Name    string
	Label   string
	Type    ecs.NumberType
	Len     int
	IsFloat bool
}

// LayoutCache holds the editor layout of each component, keyed by id. Ids
// are only unique within one manager.
type LayoutCache struct {
	mu      sync.RWMutex
	layouts map[ecs.ComponentID][]FieldLayout
}

// NewLayoutCache creates an empty cache.
func NewLayoutCache() *LayoutCache {
	return &LayoutCache{
		layouts: make(map[ecs.ComponentID][]FieldLayout),
	}
}

// Fields returns the layout of c's fields in declaration order, building it
// on first use. Markers have an empty layout.
func (lc *LayoutCache) Fields(c *ecs.Component) []FieldLayout {
	lc.mu.RLock()
	cached, ok := lc.layouts[c.ID()]
	lc.mu.RUnlock()
	if ok {
		return cached
	}

	lc.mu.Lock()
	defer lc.mu.Unlock()

	if cached, ok := lc.layouts[c.ID()]; ok {
		return cached
	}

	specs := c.Fields()
	fields := make([]FieldLayout, 0, len(specs))
	for _, spec := range specs {
		fields = append(fields, FieldLayout{
			Name:    spec.Name,
			Label:   fmt.Sprintf("##%s.%s", c.Name(), spec.Name),
			Type:    spec.Type,
			Len:     spec.Len,
			IsFloat: spec.Type == ecs.F32 || spec.Type == ecs.F64,
		})
	}

	lc.layouts[c.ID()] = fields
	return fields
}
