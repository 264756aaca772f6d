package stats

import (
	"errors"
	"fmt"
	"time"
)

// Kind selects how a table's cells are interpreted and rendered.
type Kind int

const (
	// KindCount cells hold integer event counts.
	KindCount Kind = iota
	// KindDuration cells hold accumulated nanoseconds and render as seconds.
	KindDuration
)

func (k Kind) String() string {
	switch k {
	case KindDuration:
		return "duration"
	default:
		return "count"
	}
}

// Axis is one classification dimension of a table with a fixed, ordered set of labels.
type Axis struct {
	Name   string
	Labels []string
}

// Size returns the number of labels on the axis.
func (a Axis) Size() int {
	return len(a.Labels)
}

// IndexedAxis builds an axis labelled "0".."n-1".
func IndexedAxis(name string, n int) Axis {
	labels := make([]string, n)
	for i := range labels {
		labels[i] = fmt.Sprintf("%d", i)
	}
	return Axis{Name: name, Labels: labels}
}

// ErrKeyArity reports a key whose length does not match the table's axis count.
var ErrKeyArity = errors.New("key arity mismatch")

// ErrKeyRange reports a key component outside its axis.
var ErrKeyRange = errors.New("key out of range")

// KeyError describes a rejected write against a table.
type KeyError struct {
	Table string
	Key   []int
	Err   error
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("table %s: key %v: %v", e.Table, e.Key, e.Err)
}

func (e *KeyError) Unwrap() error {
	return e.Err
}

// Table is a named multi-axis accumulator. Cells are stored row-major with the
// last axis varying fastest, which is also the render order.
type Table struct {
	name    string
	kind    Kind
	axes    []Axis
	strides []int
	cells   []int64
}

// NewTable allocates a zeroed table. A table without axes is a scalar with one cell.
func NewTable(name string, kind Kind, axes ...Axis) *Table {
	size := 1
	strides := make([]int, len(axes))
	for i := len(axes) - 1; i >= 0; i-- {
		strides[i] = size
		size *= axes[i].Size()
	}
	copied := make([]Axis, len(axes))
	for i, axis := range axes {
		copied[i] = Axis{Name: axis.Name, Labels: append([]string(nil), axis.Labels...)}
	}
	return &Table{
		name:    name,
		kind:    kind,
		axes:    copied,
		strides: strides,
		cells:   make([]int64, size),
	}
}

// Name returns the table name.
func (t *Table) Name() string { return t.name }

// Kind returns the cell interpretation.
func (t *Table) Kind() Kind { return t.kind }

// Axes returns a copy of the table axes, outermost first.
func (t *Table) Axes() []Axis {
	return append([]Axis(nil), t.axes...)
}

// Scalar reports whether the table has no axes.
func (t *Table) Scalar() bool { return len(t.axes) == 0 }

// Len returns the number of cells.
func (t *Table) Len() int { return len(t.cells) }

func (t *Table) offset(key []int) (int, error) {
	if len(key) != len(t.axes) {
		return 0, &KeyError{Table: t.name, Key: append([]int(nil), key...), Err: ErrKeyArity}
	}
	off := 0
	for i, k := range key {
		if k < 0 || k >= t.axes[i].Size() {
			return 0, &KeyError{Table: t.name, Key: append([]int(nil), key...), Err: ErrKeyRange}
		}
		off += k * t.strides[i]
	}
	return off, nil
}

// Add increments the cell at key by delta.
func (t *Table) Add(delta int64, key ...int) error {
	off, err := t.offset(key)
	if err != nil {
		return err
	}
	t.cells[off] += delta
	return nil
}

// AddDuration accumulates d into the cell at key.
func (t *Table) AddDuration(d time.Duration, key ...int) error {
	return t.Add(int64(d), key...)
}

// Value returns the cell at key, or zero for an invalid key.
func (t *Table) Value(key ...int) int64 {
	off, err := t.offset(key)
	if err != nil {
		return 0
	}
	return t.cells[off]
}

// Reset zeroes every cell.
func (t *Table) Reset() {
	clear(t.cells)
}

// Zero reports whether every cell is zero.
func (t *Table) Zero() bool {
	for _, v := range t.cells {
		if v != 0 {
			return false
		}
	}
	return true
}

// Each visits every cell in row-major order. The key slice is reused between
// calls and must be copied if retained.
func (t *Table) Each(fn func(key []int, value int64)) {
	key := make([]int, len(t.axes))
	for off, v := range t.cells {
		rem := off
		for i, stride := range t.strides {
			key[i] = rem / stride
			rem %= stride
		}
		fn(key, v)
	}
}

// Labels resolves a numeric key into axis labels.
func (t *Table) Labels(key []int) []string {
	out := make([]string, len(key))
	for i, k := range key {
		if i < len(t.axes) && k >= 0 && k < t.axes[i].Size() {
			out[i] = t.axes[i].Labels[k]
		}
	}
	return out
}
