package colstore

import (
	"fmt"
	"sync/atomic"
)

// Field describes one column of a handle. Len is zero for scalars and the
// fixed element count for array fields.
type Field struct {
	Name string
	Kind Kind
	Len  int
}

// Width returns the number of elements stored per row.
func (f Field) Width() int {
	if f.Len == 0 {
		return 1
	}
	return f.Len
}

// Handle is a compiled component layout. It carries no values itself.
type Handle struct {
	id     uint32
	fields []Field
	index  map[string]int
}

var nextHandleID atomic.Uint32

// Compile validates the field list and produces a handle. A handle with no
// fields is a tag: it only records presence.
func Compile(fields ...Field) (*Handle, error) {
	h := &Handle{
		fields: make([]Field, len(fields)),
		index:  make(map[string]int, len(fields)),
	}
	for i, f := range fields {
		if f.Name == "" {
			return nil, fmt.Errorf("field %d: %w", i, ErrFieldName)
		}
		if _, dup := h.index[f.Name]; dup {
			return nil, fmt.Errorf("field %q declared twice: %w", f.Name, ErrFieldName)
		}
		if !f.Kind.Valid() {
			return nil, fmt.Errorf("field %q: %w", f.Name, ErrInvalidKind)
		}
		if f.Len < 0 || f.Len > MaxArrayLen {
			return nil, fmt.Errorf("field %q length %d: %w", f.Name, f.Len, ErrArrayLength)
		}
		h.fields[i] = f
		h.index[f.Name] = i
	}
	h.id = nextHandleID.Add(1)
	return h, nil
}

// ID returns the process-unique handle id.
func (h *Handle) ID() uint32 {
	return h.id
}

// Fields returns a copy of the handle's field list.
func (h *Handle) Fields() []Field {
	out := make([]Field, len(h.fields))
	copy(out, h.fields)
	return out
}

// NumFields returns the number of fields.
func (h *Handle) NumFields() int {
	return len(h.fields)
}

// Field returns the field at position i.
func (h *Handle) Field(i int) Field {
	return h.fields[i]
}

// Index returns the position of the named field.
func (h *Handle) Index(name string) (int, bool) {
	i, ok := h.index[name]
	return i, ok
}

// Tag reports whether the handle has no fields.
func (h *Handle) Tag() bool {
	return len(h.fields) == 0
}
