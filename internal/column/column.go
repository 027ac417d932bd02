// Package column implements the typed column kernel (Int, Double,
// String) shared by every dataframe.
package column

import (
	"sort"
	"strings"

	"nodeframe/internal/pool"
)

// Kind identifies a column's element type.
type Kind int

const (
	KindInt Kind = iota
	KindDouble
	KindString
)

// Column is the common interface every typed column satisfies. Filter
// methods return the row indices that match, mirroring the original's
// vector<size_t> return convention; unsupported comparisons (e.g.
// Contains on a non-string column) return an empty slice rather than
// an error.
type Column interface {
	Kind() Kind
	Len() int
	Clone() Column

	FilterEqual(value any) []int
	FilterNotEqual(value any) []int
	FilterLessThan(value any) []int
	FilterLessOrEqual(value any) []int
	FilterGreaterThan(value any) []int
	FilterGreaterOrEqual(value any) []int
	FilterContains(value any) []int

	FilterByIndices(indices []int) Column
	SortedIndices(indices []int, ascending bool)
}

// IntColumn stores 64-bit integers.
type IntColumn struct {
	Values []int64
}

func NewIntColumn(values []int64) *IntColumn { return &IntColumn{Values: values} }

func (c *IntColumn) Kind() Kind { return KindInt }
func (c *IntColumn) Len() int   { return len(c.Values) }
func (c *IntColumn) Clone() Column {
	v := make([]int64, len(c.Values))
	copy(v, c.Values)
	return &IntColumn{Values: v}
}

func asInt64(value any) (int64, bool) {
	switch v := value.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	}
	return 0, false
}

func (c *IntColumn) FilterEqual(value any) []int {
	target, ok := asInt64(value)
	if !ok {
		return nil
	}
	var out []int
	for i, v := range c.Values {
		if v == target {
			out = append(out, i)
		}
	}
	return out
}

func (c *IntColumn) FilterNotEqual(value any) []int {
	target, ok := asInt64(value)
	if !ok {
		return nil
	}
	var out []int
	for i, v := range c.Values {
		if v != target {
			out = append(out, i)
		}
	}
	return out
}

func (c *IntColumn) FilterLessThan(value any) []int {
	target, ok := asInt64(value)
	if !ok {
		return nil
	}
	var out []int
	for i, v := range c.Values {
		if v < target {
			out = append(out, i)
		}
	}
	return out
}

func (c *IntColumn) FilterLessOrEqual(value any) []int {
	target, ok := asInt64(value)
	if !ok {
		return nil
	}
	var out []int
	for i, v := range c.Values {
		if v <= target {
			out = append(out, i)
		}
	}
	return out
}

func (c *IntColumn) FilterGreaterThan(value any) []int {
	target, ok := asInt64(value)
	if !ok {
		return nil
	}
	var out []int
	for i, v := range c.Values {
		if v > target {
			out = append(out, i)
		}
	}
	return out
}

func (c *IntColumn) FilterGreaterOrEqual(value any) []int {
	target, ok := asInt64(value)
	if !ok {
		return nil
	}
	var out []int
	for i, v := range c.Values {
		if v >= target {
			out = append(out, i)
		}
	}
	return out
}

func (c *IntColumn) FilterContains(any) []int { return nil }

func (c *IntColumn) FilterByIndices(indices []int) Column {
	out := make([]int64, 0, len(indices))
	for _, i := range indices {
		if i < 0 || i >= len(c.Values) {
			continue
		}
		out = append(out, c.Values[i])
	}
	return &IntColumn{Values: out}
}

func (c *IntColumn) SortedIndices(indices []int, ascending bool) {
	sort.SliceStable(indices, func(i, j int) bool {
		a, b := c.Values[indices[i]], c.Values[indices[j]]
		if ascending {
			return a < b
		}
		return a > b
	})
}

// DoubleColumn stores 64-bit floats.
type DoubleColumn struct {
	Values []float64
}

func NewDoubleColumn(values []float64) *DoubleColumn { return &DoubleColumn{Values: values} }

func (c *DoubleColumn) Kind() Kind { return KindDouble }
func (c *DoubleColumn) Len() int   { return len(c.Values) }
func (c *DoubleColumn) Clone() Column {
	v := make([]float64, len(c.Values))
	copy(v, c.Values)
	return &DoubleColumn{Values: v}
}

func asFloat64(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int64:
		return float64(v), true
	case int:
		return float64(v), true
	}
	return 0, false
}

func (c *DoubleColumn) FilterEqual(value any) []int {
	target, ok := asFloat64(value)
	if !ok {
		return nil
	}
	var out []int
	for i, v := range c.Values {
		if v == target {
			out = append(out, i)
		}
	}
	return out
}

func (c *DoubleColumn) FilterNotEqual(value any) []int {
	target, ok := asFloat64(value)
	if !ok {
		return nil
	}
	var out []int
	for i, v := range c.Values {
		if v != target {
			out = append(out, i)
		}
	}
	return out
}

func (c *DoubleColumn) FilterLessThan(value any) []int {
	target, ok := asFloat64(value)
	if !ok {
		return nil
	}
	var out []int
	for i, v := range c.Values {
		if v < target {
			out = append(out, i)
		}
	}
	return out
}

func (c *DoubleColumn) FilterLessOrEqual(value any) []int {
	target, ok := asFloat64(value)
	if !ok {
		return nil
	}
	var out []int
	for i, v := range c.Values {
		if v <= target {
			out = append(out, i)
		}
	}
	return out
}

func (c *DoubleColumn) FilterGreaterThan(value any) []int {
	target, ok := asFloat64(value)
	if !ok {
		return nil
	}
	var out []int
	for i, v := range c.Values {
		if v > target {
			out = append(out, i)
		}
	}
	return out
}

func (c *DoubleColumn) FilterGreaterOrEqual(value any) []int {
	target, ok := asFloat64(value)
	if !ok {
		return nil
	}
	var out []int
	for i, v := range c.Values {
		if v >= target {
			out = append(out, i)
		}
	}
	return out
}

func (c *DoubleColumn) FilterContains(any) []int { return nil }

func (c *DoubleColumn) FilterByIndices(indices []int) Column {
	out := make([]float64, 0, len(indices))
	for _, i := range indices {
		if i < 0 || i >= len(c.Values) {
			continue
		}
		out = append(out, c.Values[i])
	}
	return &DoubleColumn{Values: out}
}

func (c *DoubleColumn) SortedIndices(indices []int, ascending bool) {
	sort.SliceStable(indices, func(i, j int) bool {
		a, b := c.Values[indices[i]], c.Values[indices[j]]
		if ascending {
			return a < b
		}
		return a > b
	})
}

// StringColumn stores pool ids referencing a shared StringPool.
type StringColumn struct {
	IDs  []uint32
	Pool *pool.Pool
}

func NewStringColumn(ids []uint32, p *pool.Pool) *StringColumn {
	return &StringColumn{IDs: ids, Pool: p}
}

func (c *StringColumn) Kind() Kind { return KindString }
func (c *StringColumn) Len() int   { return len(c.IDs) }
func (c *StringColumn) Clone() Column {
	v := make([]uint32, len(c.IDs))
	copy(v, c.IDs)
	return &StringColumn{IDs: v, Pool: c.Pool}
}

func (c *StringColumn) At(i int) string {
	if i < 0 || i >= len(c.IDs) {
		return ""
	}
	return c.Pool.Get(c.IDs[i])
}

// FilterEqual interns value into the column's pool once and compares ids
// rather than resolved strings, reducing every row comparison to an
// integer compare as the pool is meant to allow.
func (c *StringColumn) FilterEqual(value any) []int {
	target, ok := value.(string)
	if !ok {
		return nil
	}
	targetID := c.Pool.Intern(target)
	var out []int
	for i, id := range c.IDs {
		if id == targetID {
			out = append(out, i)
		}
	}
	return out
}

func (c *StringColumn) FilterNotEqual(value any) []int {
	target, ok := value.(string)
	if !ok {
		return nil
	}
	targetID := c.Pool.Intern(target)
	var out []int
	for i, id := range c.IDs {
		if id != targetID {
			out = append(out, i)
		}
	}
	return out
}

func (c *StringColumn) FilterLessThan(value any) []int {
	target, ok := value.(string)
	if !ok {
		return nil
	}
	var out []int
	for i := range c.IDs {
		if c.At(i) < target {
			out = append(out, i)
		}
	}
	return out
}

func (c *StringColumn) FilterLessOrEqual(value any) []int {
	target, ok := value.(string)
	if !ok {
		return nil
	}
	var out []int
	for i := range c.IDs {
		if c.At(i) <= target {
			out = append(out, i)
		}
	}
	return out
}

func (c *StringColumn) FilterGreaterThan(value any) []int {
	target, ok := value.(string)
	if !ok {
		return nil
	}
	var out []int
	for i := range c.IDs {
		if c.At(i) > target {
			out = append(out, i)
		}
	}
	return out
}

func (c *StringColumn) FilterGreaterOrEqual(value any) []int {
	target, ok := value.(string)
	if !ok {
		return nil
	}
	var out []int
	for i := range c.IDs {
		if c.At(i) >= target {
			out = append(out, i)
		}
	}
	return out
}

func (c *StringColumn) FilterContains(value any) []int {
	target, ok := value.(string)
	if !ok {
		return nil
	}
	var out []int
	for i := range c.IDs {
		if strings.Contains(c.At(i), target) {
			out = append(out, i)
		}
	}
	return out
}

func (c *StringColumn) FilterByIndices(indices []int) Column {
	out := make([]uint32, 0, len(indices))
	for _, i := range indices {
		if i < 0 || i >= len(c.IDs) {
			continue
		}
		out = append(out, c.IDs[i])
	}
	return &StringColumn{IDs: out, Pool: c.Pool}
}

func (c *StringColumn) SortedIndices(indices []int, ascending bool) {
	sort.SliceStable(indices, func(i, j int) bool {
		a, b := c.At(indices[i]), c.At(indices[j])
		if ascending {
			return a < b
		}
		return a > b
	})
}
