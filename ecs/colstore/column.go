package colstore

import "math"

const (
	blockSize = 64
)

type number interface {
	~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 | ~float32 | ~float64
}

// column is a type-erased dense field column indexed by entity id.
type column interface {
	Get(row uint32, i int) float64
	Set(row uint32, i int, v float64)
	Zero(row uint32)
	Width() int
}

// typedColumn stores one field of type T in fixed-size blocks of rows.
// Every row holds width consecutive elements; scalar fields have width 1.
// Blocks are allocated on first write, so reads past the end return zero.
type typedColumn[T number] struct {
	width   int
	integer bool
	blocks  [][]T
}

func newTypedColumn[T number](width int) *typedColumn[T] {
	if width < 1 {
		width = 1
	}
	c := &typedColumn[T]{width: width}
	switch any(T(0)).(type) {
	case float32, float64:
	default:
		c.integer = true
	}
	return c
}

func (c *typedColumn[T]) Width() int {
	return c.width
}

func (c *typedColumn[T]) slot(row uint32, i int) (int, int) {
	blockIdx := int(row / blockSize)
	slotIdx := int(row%blockSize)*c.width + i
	return blockIdx, slotIdx
}

func (c *typedColumn[T]) ensure(blockIdx int) {
	for blockIdx >= len(c.blocks) {
		c.blocks = append(c.blocks, make([]T, blockSize*c.width))
	}
}

// Get returns element i of the row, widened to float64.
func (c *typedColumn[T]) Get(row uint32, i int) float64 {
	if i < 0 || i >= c.width {
		return 0
	}
	blockIdx, slotIdx := c.slot(row, i)
	if blockIdx >= len(c.blocks) {
		return 0
	}
	return float64(c.blocks[blockIdx][slotIdx])
}

// Set stores v into element i of the row, converting to T. Integer columns
// truncate toward zero and wrap modulo 2^n; NaN and infinities store zero.
func (c *typedColumn[T]) Set(row uint32, i int, v float64) {
	if i < 0 || i >= c.width {
		return
	}
	blockIdx, slotIdx := c.slot(row, i)
	c.ensure(blockIdx)
	if c.integer {
		c.blocks[blockIdx][slotIdx] = T(wrap32(v))
		return
	}
	c.blocks[blockIdx][slotIdx] = T(v)
}

// wrap32 reduces v to its low 32 bits as an integer. Narrower integer types
// keep the low bits of the result, which is the same as wrapping modulo
// their own width.
func wrap32(v float64) uint32 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	m := math.Mod(math.Trunc(v), 1<<32)
	if m < 0 {
		m += 1 << 32
	}
	return uint32(m)
}

// Zero clears every element of the row.
func (c *typedColumn[T]) Zero(row uint32) {
	blockIdx, start := c.slot(row, 0)
	if blockIdx >= len(c.blocks) {
		return
	}
	clear(c.blocks[blockIdx][start : start+c.width])
}
