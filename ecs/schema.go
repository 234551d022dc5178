package ecs

import (
	"errors"
	"fmt"

	"github.com/plus3/excess/ecs/colstore"
)

// FieldSpec declares one component field. Len is zero for a scalar and the
// element count for a fixed-length array.
type FieldSpec struct {
	Name string
	Type NumberType
	Len  int
}

// Scalar declares a single-value field.
func Scalar(name string, t NumberType) FieldSpec {
	return FieldSpec{Name: name, Type: t}
}

// Array declares a fixed-length array field.
func Array(name string, t NumberType, n int) FieldSpec {
	return FieldSpec{Name: name, Type: t, Len: n}
}

// IsArray reports whether the field holds a fixed-length array.
func (f FieldSpec) IsArray() bool {
	return f.Len > 0
}

func (f FieldSpec) String() string {
	if f.IsArray() {
		return fmt.Sprintf("%s: [%s, %d]", f.Name, f.Type, f.Len)
	}
	return fmt.Sprintf("%s: %s", f.Name, f.Type)
}

// SchemaEntry is the ordered field list of one component. An empty entry
// declares a marker component.
type SchemaEntry []FieldSpec

// ComponentSpec names one schema entry.
type ComponentSpec struct {
	Name  string
	Entry SchemaEntry
}

// Schema declares every component a world will use. Components and markers
// are registered in slice order, components first.
type Schema struct {
	Components []ComponentSpec
	Markers    []string
}

// Vector2 returns a new two-dimensional f64 entry.
func Vector2() SchemaEntry {
	return SchemaEntry{
		Scalar("x", F64),
		Scalar("y", F64),
	}
}

// Vector3 returns a new three-dimensional f64 entry.
func Vector3() SchemaEntry {
	return SchemaEntry{
		Scalar("x", F64),
		Scalar("y", F64),
		Scalar("z", F64),
	}
}

var (
	errEmptyName      = errors.New("empty name")
	errUnknownType    = errors.New("type has no storage mapping")
	errNegativeLength = errors.New("negative array length")
)

// compileEntry maps every field onto the engine's primitives and compiles
// the handle. The first unmappable field fails the whole component.
func compileEntry(name string, entry SchemaEntry) (*colstore.Handle, error) {
	if name == "" {
		return nil, &SchemaError{Err: errEmptyName}
	}

	fields := make([]colstore.Field, len(entry))
	seen := make(map[string]struct{}, len(entry))
	for i, spec := range entry {
		if spec.Name == "" {
			return nil, &SchemaError{Component: name, Field: fmt.Sprintf("#%d", i), Err: errEmptyName}
		}
		if _, dup := seen[spec.Name]; dup {
			return nil, &SchemaError{Component: name, Field: spec.Name, Err: colstore.ErrFieldName}
		}
		seen[spec.Name] = struct{}{}

		kind, ok := spec.Type.kind()
		if !ok {
			return nil, &SchemaError{Component: name, Field: spec.Name, Err: fmt.Errorf("%w: %v", errUnknownType, spec.Type)}
		}
		if spec.Len < 0 {
			return nil, &SchemaError{Component: name, Field: spec.Name, Err: errNegativeLength}
		}
		if spec.Len > colstore.MaxArrayLen {
			return nil, &SchemaError{
				Component: name,
				Field:     spec.Name,
				Err:       fmt.Errorf("%w: %d > %d", colstore.ErrArrayLength, spec.Len, colstore.MaxArrayLen),
			}
		}
		fields[i] = colstore.Field{Name: spec.Name, Kind: kind, Len: spec.Len}
	}

	handle, err := colstore.Compile(fields...)
	if err != nil {
		return nil, &SchemaError{Component: name, Err: err}
	}
	return handle, nil
}
