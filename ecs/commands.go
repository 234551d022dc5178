package ecs

import (
	"errors"
	"fmt"
)

// Commands buffers structural changes made while systems run and applies
// them at the end of the frame, so a system iterating a query never sees the
// world change underneath it.
type Commands struct {
	creates  []createCommand
	removes  []Entity
	sets     []setCommand
	detaches []detachCommand
	defers   []func()
}

// NewCommands creates an empty buffer.
func NewCommands() *Commands {
	return &Commands{}
}

type createCommand struct {
	init func(Entity) error
}

type setCommand struct {
	entity    Entity
	component *Component
	values    Values
}

type detachCommand struct {
	entity    Entity
	component *Component
}

// Create queues an entity creation. init, if not nil, runs on the new entity
// during the flush.
func (c *Commands) Create(init func(Entity) error) {
	c.creates = append(c.creates, createCommand{init: init})
}

// Remove queues an entity removal.
func (c *Commands) Remove(e Entity) {
	c.removes = append(c.removes, e)
}

// Set queues a SetOn of the given values.
func (c *Commands) Set(e Entity, component *Component, values Values) {
	c.sets = append(c.sets, setCommand{entity: e, component: component, values: values})
}

// Detach queues a RemoveFrom.
func (c *Commands) Detach(e Entity, component *Component) {
	c.detaches = append(c.detaches, detachCommand{entity: e, component: component})
}

// Defer queues a function to run after every other command.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// Len returns the number of queued commands.
func (c *Commands) Len() int {
	return len(c.creates) + len(c.removes) + len(c.sets) + len(c.detaches) + len(c.defers)
}

// Flush applies the queued commands to w and empties the buffer. Removals run
// first, then detaches, sets, creations and deferred functions. Commands
// aimed at an entity removed in the same flush are skipped. Every failure is
// collected; a failing command does not stop the others.
func (c *Commands) Flush(w *World) error {
	var errs []error
	removed := make(map[Entity]struct{}, len(c.removes))

	for _, e := range c.removes {
		if _, done := removed[e]; done {
			continue
		}
		if err := w.RemoveEntity(e); err != nil {
			errs = append(errs, fmt.Errorf("remove: %w", err))
			continue
		}
		removed[e] = struct{}{}
	}

	for _, cmd := range c.detaches {
		if _, gone := removed[cmd.entity]; gone {
			continue
		}
		if err := cmd.component.RemoveFrom(cmd.entity); err != nil {
			errs = append(errs, fmt.Errorf("detach %s: %w", cmd.component.name, err))
		}
	}

	for _, cmd := range c.sets {
		if _, gone := removed[cmd.entity]; gone {
			continue
		}
		if err := cmd.component.SetOn(cmd.entity, cmd.values); err != nil {
			errs = append(errs, fmt.Errorf("set %s: %w", cmd.component.name, err))
		}
	}

	for _, cmd := range c.creates {
		e := w.CreateEntity()
		if cmd.init == nil {
			continue
		}
		if err := cmd.init(e); err != nil {
			errs = append(errs, fmt.Errorf("create: %w", err))
		}
	}

	for _, fn := range c.defers {
		fn()
	}

	c.reset()
	return errors.Join(errs...)
}

func (c *Commands) reset() {
	c.creates = c.creates[:0]
	c.removes = c.removes[:0]
	c.sets = c.sets[:0]
	c.detaches = c.detaches[:0]
	c.defers = c.defers[:0]
}
