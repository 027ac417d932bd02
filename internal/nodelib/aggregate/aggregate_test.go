package aggregate_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nodeframe/internal/column"
	"nodeframe/internal/frame"
	"nodeframe/internal/node"
	"nodeframe/internal/nodelib/aggregate"
	"nodeframe/internal/workload"
)

func sampleFrame(t *testing.T) *frame.Frame {
	t.Helper()
	f := frame.New()
	require.NoError(t, f.AddStringColumn("city", []string{"gdansk", "gdansk", "krakow"}))
	require.NoError(t, f.AddIntColumn("amount", []int64{10, 20, 5}))
	return f
}

func TestGroupSumsByColumn(t *testing.T) {
	reg := node.NewRegistry()
	aggregate.Register(reg)
	def, ok := reg.GetNode("group")
	require.True(t, ok)

	ctx := node.NewContext()
	ctx.SetInput("csv", workload.Csv(sampleFrame(t)))
	ctx.SetInput("group_by", workload.String("city"))
	ctx.SetInput("agg_columns", workload.String("amount"))
	ctx.SetInput("agg_funcs", workload.String("sum"))
	def.Run(ctx)

	require.False(t, ctx.HasError())
	w, ok := ctx.GetOutput("csv")
	require.True(t, ok)
	out, err := w.GetCsv()
	require.NoError(t, err)
	assert.Equal(t, 2, out.RowCount())
}

func TestGroupRequiresCsv(t *testing.T) {
	reg := node.NewRegistry()
	aggregate.Register(reg)
	def, _ := reg.GetNode("group")

	ctx := node.NewContext()
	ctx.SetInput("group_by", workload.String("city"))
	def.Run(ctx)

	assert.True(t, ctx.HasError())
}

func TestTreeGroupProducesColumnarJSON(t *testing.T) {
	reg := node.NewRegistry()
	aggregate.Register(reg)
	def, ok := reg.GetNode("tree_group")
	require.True(t, ok)

	ctx := node.NewContext()
	ctx.SetInput("csv", workload.Csv(sampleFrame(t)))
	ctx.SetInput("group_by", workload.String("city"))
	def.Run(ctx)

	require.False(t, ctx.HasError())
	w, ok := ctx.GetOutput("tree_json")
	require.True(t, ok)
	s, err := w.GetString()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(s), &decoded))
	assert.Equal(t, []any{"city"}, decoded["columns"])

	data, ok := decoded["data"].([]any)
	require.True(t, ok)
	require.Len(t, data, 2)

	row, ok := data[0].([]any)
	require.True(t, ok)
	assert.Equal(t, "gdansk", row[0])
	children, ok := row[len(row)-1].([]any)
	require.True(t, ok)
	assert.Len(t, children, 2) // two source rows for gdansk
}

func TestPivotRequiresColumns(t *testing.T) {
	reg := node.NewRegistry()
	aggregate.Register(reg)
	def, _ := reg.GetNode("pivot")

	ctx := node.NewContext()
	ctx.SetInput("csv", workload.Csv(sampleFrame(t)))
	def.Run(ctx)

	assert.True(t, ctx.HasError())
}

func TestPivotJSONAppliesPrefix(t *testing.T) {
	reg := node.NewRegistry()
	aggregate.Register(reg)
	def, ok := reg.GetNode("pivot")
	require.True(t, ok)

	ctx := node.NewContext()
	ctx.SetInput("csv", workload.Csv(sampleFrame(t)))
	ctx.SetInput("pivot_column", workload.String("city"))
	ctx.SetInput("value_column", workload.String("amount"))
	ctx.SetInput("prefix", workload.String("city_"))
	def.Run(ctx)

	require.False(t, ctx.HasError())
	w, ok := ctx.GetOutput("pivot_json")
	require.True(t, ok)
	s, err := w.GetString()
	require.NoError(t, err)
	assert.Contains(t, s, "city_gdansk")
	assert.Contains(t, s, "city_krakow")
}

func TestPivotDfPreservesValueColumnType(t *testing.T) {
	reg := node.NewRegistry()
	aggregate.Register(reg)
	def, ok := reg.GetNode("pivot_df")
	require.True(t, ok)

	f := frame.New()
	require.NoError(t, f.AddStringColumn("region", []string{"north", "north", "south"}))
	require.NoError(t, f.AddStringColumn("city", []string{"gdansk", "gdansk", "krakow"}))
	require.NoError(t, f.AddStringColumn("status", []string{"ok", "late", "ok"}))

	ctx := node.NewContext()
	ctx.SetInput("csv", workload.Csv(f))
	ctx.SetInput("pivot_column", workload.String("city"))
	ctx.SetInput("value_column", workload.String("status"))
	ctx.SetInput("index_columns", workload.String("region"))
	def.Run(ctx)

	require.False(t, ctx.HasError())
	w, ok := ctx.GetOutput("csv")
	require.True(t, ok)
	out, err := w.GetCsv()
	require.NoError(t, err)

	col, ok := out.GetColumn("gdansk")
	require.True(t, ok)
	_, isString := col.(*column.StringColumn)
	assert.True(t, isString, "pivoted column should keep the string value_column's type")
}
