package column_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"nodeframe/internal/column"
	"nodeframe/internal/pool"
)

func TestIntColumnFilters(t *testing.T) {
	c := column.NewIntColumn([]int64{1, 2, 3, 2, 5})

	assert.Equal(t, []int{1, 3}, c.FilterEqual(int64(2)))
	assert.Equal(t, []int{0, 2, 4}, c.FilterNotEqual(int64(2)))
	assert.Equal(t, []int{0}, c.FilterLessThan(int64(2)))
	assert.Equal(t, []int{4}, c.FilterGreaterThan(int64(3)))
	assert.Nil(t, c.FilterContains("x"))
}

func TestIntColumnFilterByIndicesSkipsOutOfRange(t *testing.T) {
	c := column.NewIntColumn([]int64{10, 20, 30})
	out := c.FilterByIndices([]int{0, 99, 2, -1})

	got := out.(*column.IntColumn)
	assert.Equal(t, []int64{10, 30}, got.Values)
}

func TestIntColumnSortedIndicesStable(t *testing.T) {
	c := column.NewIntColumn([]int64{3, 1, 2, 1})
	idx := []int{0, 1, 2, 3}
	c.SortedIndices(idx, true)

	assert.Equal(t, []int{1, 3, 2, 0}, idx)
}

func TestStringColumnFilterEqualUsesPool(t *testing.T) {
	p := pool.New()
	ids := []uint32{p.Intern("a"), p.Intern("b"), p.Intern("a")}
	c := column.NewStringColumn(ids, p)

	assert.Equal(t, []int{0, 2}, c.FilterEqual("a"))
	assert.Equal(t, []int{0, 2}, c.FilterContains("a"))
	assert.Equal(t, []int{1}, c.FilterContains("b"))
}

func TestDoubleColumnClone(t *testing.T) {
	c := column.NewDoubleColumn([]float64{1.5, 2.5})
	clone := c.Clone().(*column.DoubleColumn)
	clone.Values[0] = 9.9

	assert.Equal(t, 1.5, c.Values[0])
	assert.Equal(t, 9.9, clone.Values[0])
}
