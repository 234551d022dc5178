// Package colstore is a column-oriented entity storage engine.
//
// Component data lives in dense, block-allocated columns indexed directly by
// entity id, one column per field. Presence is tracked with a fixed 256-bit
// mask per entity, which is also what predicates are evaluated against.
// Handles are compiled once and may be shared by any number of worlds; the
// values stored under a handle are always partitioned per world.
package colstore

import "fmt"

// Kind is a primitive numeric column type.
type Kind uint8

const (
	Int8 Kind = iota + 1
	Uint8
	Int16
	Uint16
	Int32
	Uint32
	Float32
	Float64
)

// MaxArrayLen is the longest fixed-length array field a handle can hold.
const MaxArrayLen = 1024

// Size returns the width of one element in bytes.
func (k Kind) Size() int {
	switch k {
	case Int8, Uint8:
		return 1
	case Int16, Uint16:
		return 2
	case Int32, Uint32, Float32:
		return 4
	case Float64:
		return 8
	}
	return 0
}

// Valid reports whether k is one of the defined kinds.
func (k Kind) Valid() bool {
	return k >= Int8 && k <= Float64
}

func (k Kind) String() string {
	switch k {
	case Int8:
		return "int8"
	case Uint8:
		return "uint8"
	case Int16:
		return "int16"
	case Uint16:
		return "uint16"
	case Int32:
		return "int32"
	case Uint32:
		return "uint32"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// newColumn creates an empty column for the kind holding width elements per row.
func (k Kind) newColumn(width int) column {
	switch k {
	case Int8:
		return newTypedColumn[int8](width)
	case Uint8:
		return newTypedColumn[uint8](width)
	case Int16:
		return newTypedColumn[int16](width)
	case Uint16:
		return newTypedColumn[uint16](width)
	case Int32:
		return newTypedColumn[int32](width)
	case Uint32:
		return newTypedColumn[uint32](width)
	case Float32:
		return newTypedColumn[float32](width)
	case Float64:
		return newTypedColumn[float64](width)
	}
	panic("colstore: column for invalid kind " + k.String())
}
