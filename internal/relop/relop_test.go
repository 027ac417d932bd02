package relop_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nodeframe/internal/column"
	"nodeframe/internal/frame"
	"nodeframe/internal/relop"
)

func TestGroupBySumAndCount(t *testing.T) {
	f := frame.New()
	require.NoError(t, f.AddStringColumn("dept", []string{"eng", "eng", "sales", "eng"}))
	require.NoError(t, f.AddDoubleColumn("amount", []float64{10, 20, 5, 30}))

	out, err := relop.GroupBy(f, []string{"dept"}, []relop.Aggregation{
		{Column: "amount", Func: relop.AggSum, As: "total"},
		{Column: "amount", Func: relop.AggCount, As: "n"},
	})
	require.NoError(t, err)
	require.Equal(t, 2, out.RowCount())

	dept, _ := out.GetColumn("dept")
	total, _ := out.GetColumn("total")
	n, _ := out.GetColumn("n")

	deptCol := dept.(*column.StringColumn)
	assert.Equal(t, "eng", deptCol.At(0))
	assert.Equal(t, "sales", deptCol.At(1))
	assert.Equal(t, []float64{60, 5}, total.(*column.DoubleColumn).Values)
	assert.Equal(t, []int64{3, 1}, n.(*column.IntColumn).Values)
}

func TestInnerJoinMatchesOnKey(t *testing.T) {
	left := frame.New()
	require.NoError(t, left.AddIntColumn("id", []int64{1, 2, 3}))
	require.NoError(t, left.AddStringColumn("name", []string{"a", "b", "c"}))

	right := frame.New()
	require.NoError(t, right.AddIntColumn("id", []int64{2, 3, 4}))
	require.NoError(t, right.AddDoubleColumn("score", []float64{0.2, 0.3, 0.4}))

	out, err := relop.InnerJoin(left, right, []relop.KeyMapping{{Left: "id", Right: "id"}})
	require.NoError(t, err)
	assert.Equal(t, 2, out.RowCount())

	id, _ := out.GetColumn("id")
	assert.Equal(t, []int64{2, 3}, id.(*column.IntColumn).Values)
}

func TestInnerJoinRejectsTypeMismatch(t *testing.T) {
	left := frame.New()
	require.NoError(t, left.AddIntColumn("id", []int64{1}))
	right := frame.New()
	require.NoError(t, right.AddStringColumn("id", []string{"1"}))

	_, err := relop.InnerJoin(left, right, []relop.KeyMapping{{Left: "id", Right: "id"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "type mismatch")
}

func TestPivotPreservesStringValueColumnType(t *testing.T) {
	f := frame.New()
	require.NoError(t, f.AddStringColumn("region", []string{"north", "north", "south"}))
	require.NoError(t, f.AddStringColumn("city", []string{"gdansk", "gdansk", "krakow"}))
	require.NoError(t, f.AddStringColumn("status", []string{"ok", "late", "ok"}))

	out, err := relop.Pivot(f, "city", "status", []string{"region"}, "")
	require.NoError(t, err)

	col, ok := out.GetColumn("gdansk")
	require.True(t, ok)
	sc, ok := col.(*column.StringColumn)
	require.True(t, ok, "pivoted column should keep status's string type rather than widen to double")
	assert.Equal(t, "late", sc.At(0))
}

func TestPivotAppliesPrefixToColumnNames(t *testing.T) {
	f := frame.New()
	require.NoError(t, f.AddStringColumn("region", []string{"north", "south"}))
	require.NoError(t, f.AddStringColumn("city", []string{"gdansk", "krakow"}))
	require.NoError(t, f.AddIntColumn("amount", []int64{10, 20}))

	out, err := relop.Pivot(f, "city", "amount", []string{"region"}, "amt_")
	require.NoError(t, err)

	assert.True(t, out.HasColumn("amt_gdansk"))
	assert.True(t, out.HasColumn("amt_krakow"))
	assert.False(t, out.HasColumn("gdansk"))
}

func TestPivotJSONProducesRowObjectsKeyedByPivotValue(t *testing.T) {
	f := frame.New()
	require.NoError(t, f.AddStringColumn("region", []string{"north", "south"}))
	require.NoError(t, f.AddStringColumn("city", []string{"gdansk", "krakow"}))
	require.NoError(t, f.AddIntColumn("amount", []int64{10, 20}))

	js, err := relop.PivotJSON(f, "city", "amount", []string{"region"}, "")
	require.NoError(t, err)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(js), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "north", rows[0]["region"])
	assert.EqualValues(t, 10, rows[0]["gdansk"])
	assert.Nil(t, rows[0]["krakow"])
}

func TestGroupByTreeAndJSON(t *testing.T) {
	f := frame.New()
	require.NoError(t, f.AddStringColumn("city", []string{"gdansk", "gdansk", "krakow"}))
	require.NoError(t, f.AddIntColumn("amount", []int64{10, 20, 5}))

	aggs := []relop.Aggregation{{Column: "amount", Func: relop.AggSum, As: "total"}}
	tree, err := relop.GroupByTree(f, []string{"city"}, aggs)
	require.NoError(t, err)
	require.Len(t, tree, 2)

	js, err := relop.TreeJSON(f, []string{"city"}, aggs, tree)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(js), &decoded))
	assert.Equal(t, []any{"city", "total"}, decoded["columns"])

	data := decoded["data"].([]any)
	row := data[0].([]any)
	assert.Equal(t, "gdansk", row[0])
	assert.EqualValues(t, 30, row[1])
	children := row[2].([]any)
	assert.Len(t, children, 2)
}

func TestFlexJoinPartitionsByMatchCount(t *testing.T) {
	left := frame.New()
	require.NoError(t, left.AddIntColumn("id", []int64{1, 2, 3}))

	right := frame.New()
	require.NoError(t, right.AddIntColumn("id", []int64{2, 2, 9}))
	require.NoError(t, right.AddStringColumn("tag", []string{"x", "y", "z"}))

	result, err := relop.FlexJoin(left, right, []relop.KeyMapping{{Left: "id", Right: "id"}}, relop.DefaultFlexJoinOptions())
	require.NoError(t, err)

	require.NotNil(t, result.NoMatch)
	assert.Equal(t, 2, result.NoMatch.RowCount())
	require.NotNil(t, result.MultipleMatch)
	assert.Equal(t, 2, result.MultipleMatch.RowCount())
}
