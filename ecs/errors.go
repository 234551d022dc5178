package ecs

import (
	"fmt"
)

// SchemaError reports a component definition that cannot be compiled.
type SchemaError struct {
	Component string
	Field     string
	Err       error
}

func (e *SchemaError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("schema: component %q: %v", e.Component, e.Err)
	}
	return fmt.Sprintf("schema: component %q field %q: %v", e.Component, e.Field, e.Err)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// DuplicateDefinitionError reports a second registration of a component name.
type DuplicateDefinitionError struct {
	Name string
}

func (e *DuplicateDefinitionError) Error() string {
	return fmt.Sprintf("component %q is already defined", e.Name)
}

// NotAttachedError reports access to a component the entity does not carry.
type NotAttachedError struct {
	Component string
	Entity    Entity
}

func (e *NotAttachedError) Error() string {
	return fmt.Sprintf("component %q is not attached to %v", e.Component, e.Entity)
}

// AlreadyAttachedError reports an attach of a component the entity already carries.
type AlreadyAttachedError struct {
	Component string
	Entity    Entity
}

func (e *AlreadyAttachedError) Error() string {
	return fmt.Sprintf("component %q is already attached to %v", e.Component, e.Entity)
}

// UnknownEntityError reports an entity handle the world does not recognize:
// never created, already removed, or from a zero Entity.
type UnknownEntityError struct {
	Entity Entity
}

func (e *UnknownEntityError) Error() string {
	return fmt.Sprintf("unknown entity %v", e.Entity)
}

// ValueError reports a value that does not fit the component's fields.
type ValueError struct {
	Component string
	Field     string
	Reason    string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("component %q field %q: %s", e.Component, e.Field, e.Reason)
}
