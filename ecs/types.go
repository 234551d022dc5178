// Package ecs is a schema-driven entity-component layer.
//
// Components are declared as data: a Schema names each component and its
// numeric fields (scalars or fixed-length arrays of a primitive type), or no
// fields at all for marker components. A Manager compiles the schema once
// into storage handles that any number of Worlds can share; the values
// stored under a handle always belong to one World. Entities are handles
// into a World, and Queries select entities by required and excluded
// components, either on demand or as enter/exit transitions polled once per
// tick.
//
// The layer is synchronous and single-threaded: every call completes before
// it returns and callers that share a World across goroutines must provide
// their own locking.
package ecs

import (
	"fmt"

	"github.com/plus3/excess/ecs/colstore"
)

// NumberType is a primitive numeric type usable in a schema field.
type NumberType uint8

const (
	I8 NumberType = iota
	UI8
	I16
	UI16
	I32
	UI32
	F32
	F64
)

var numberTypeNames = [...]string{
	I8:   "i8",
	UI8:  "ui8",
	I16:  "i16",
	UI16: "ui16",
	I32:  "i32",
	UI32: "ui32",
	F32:  "f32",
	F64:  "f64",
}

var numberTypeKinds = [...]colstore.Kind{
	I8:   colstore.Int8,
	UI8:  colstore.Uint8,
	I16:  colstore.Int16,
	UI16: colstore.Uint16,
	I32:  colstore.Int32,
	UI32: colstore.Uint32,
	F32:  colstore.Float32,
	F64:  colstore.Float64,
}

func (t NumberType) String() string {
	if int(t) < len(numberTypeNames) {
		return numberTypeNames[t]
	}
	return fmt.Sprintf("NumberType(%d)", uint8(t))
}

// kind maps the type onto the storage engine's primitive vocabulary.
func (t NumberType) kind() (colstore.Kind, bool) {
	if int(t) < len(numberTypeKinds) {
		return numberTypeKinds[t], true
	}
	return 0, false
}

// ParseNumberType resolves a type name such as "f64" or "ui8".
func ParseNumberType(name string) (NumberType, error) {
	for i, n := range numberTypeNames {
		if n == name {
			return NumberType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown number type %q", name)
}
