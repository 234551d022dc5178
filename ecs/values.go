package ecs

import (
	"fmt"
	"reflect"
)

// Values maps field names to component values. Reads produce float64 for
// scalar fields and []float64 for array fields. Writes accept any Go integer
// or float for scalars and any slice or array of them for arrays.
type Values map[string]any

func isNumericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func numberOf(v reflect.Value) float64 {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(v.Uint())
	default:
		return v.Float()
	}
}

// toScalar converts a single numeric value.
func toScalar(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case float32:
		return float64(n), true
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || !isNumericKind(rv.Kind()) {
		return 0, false
	}
	return numberOf(rv), true
}

// toArray converts a slice or array of numeric values.
func toArray(v any) ([]float64, bool) {
	if f, ok := v.([]float64); ok {
		return f, true
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return nil, false
	}
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]float64, rv.Len())
	for i := range out {
		elem := rv.Index(i)
		if elem.Kind() == reflect.Interface {
			elem = elem.Elem()
		}
		if !elem.IsValid() || !isNumericKind(elem.Kind()) {
			return nil, false
		}
		out[i] = numberOf(elem)
	}
	return out, true
}

// fieldWrite is one validated assignment.
type fieldWrite struct {
	field  int
	scalar float64
	array  []float64
}

// prepare validates every entry of values against the component's fields
// and converts them. Nothing is written when any entry fails.
func (c *Component) prepare(values Values) ([]fieldWrite, error) {
	writes := make([]fieldWrite, 0, len(values))
	for name, raw := range values {
		idx, ok := c.handle.Index(name)
		if !ok {
			return nil, &ValueError{Component: c.name, Field: name, Reason: "unknown field"}
		}
		spec := c.fields[idx]
		if !spec.IsArray() {
			f, ok := toScalar(raw)
			if !ok {
				return nil, &ValueError{Component: c.name, Field: name, Reason: fmt.Sprintf("%T is not a number", raw)}
			}
			writes = append(writes, fieldWrite{field: idx, scalar: f})
			continue
		}
		arr, ok := toArray(raw)
		if !ok {
			return nil, &ValueError{Component: c.name, Field: name, Reason: fmt.Sprintf("%T is not a numeric sequence", raw)}
		}
		if len(arr) != spec.Len {
			return nil, &ValueError{Component: c.name, Field: name, Reason: fmt.Sprintf("want %d elements, got %d", spec.Len, len(arr))}
		}
		writes = append(writes, fieldWrite{field: idx, array: arr})
	}
	return writes, nil
}
