package selectops_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nodeframe/internal/frame"
	"nodeframe/internal/node"
	"nodeframe/internal/nodelib/selectops"
	"nodeframe/internal/workload"
)

func sampleFrame(t *testing.T) *frame.Frame {
	t.Helper()
	f := frame.New()
	require.NoError(t, f.AddIntColumn("id", []int64{1, 2}))
	require.NoError(t, f.AddStringColumn("name", []string{"a", "b"}))
	require.NoError(t, f.AddStringColumn("_tmp_scratch", []string{"x", "y"}))
	return f
}

func TestSelectByName(t *testing.T) {
	reg := node.NewRegistry()
	selectops.Register(reg)
	def, ok := reg.GetNode("select_by_name")
	require.True(t, ok)

	ctx := node.NewContext()
	ctx.SetInput("csv", workload.Csv(sampleFrame(t)))
	ctx.SetInput("columns", workload.String("name"))
	def.Run(ctx)

	require.False(t, ctx.HasError())
	w, _ := ctx.GetOutput("csv")
	out, err := w.GetCsv()
	require.NoError(t, err)
	assert.Equal(t, []string{"name"}, out.ColumnNames())
}

func TestCleanTmpColumnsDropsPrefixed(t *testing.T) {
	reg := node.NewRegistry()
	selectops.Register(reg)
	def, ok := reg.GetNode("clean_tmp_columns")
	require.True(t, ok)

	ctx := node.NewContext()
	ctx.SetInput("csv", workload.Csv(sampleFrame(t)))
	def.Run(ctx)

	require.False(t, ctx.HasError())
	w, _ := ctx.GetOutput("csv")
	out, _ := w.GetCsv()
	assert.ElementsMatch(t, []string{"id", "name"}, out.ColumnNames())
}

func TestRemapByName(t *testing.T) {
	reg := node.NewRegistry()
	selectops.Register(reg)
	def, ok := reg.GetNode("remap_by_name")
	require.True(t, ok)

	ctx := node.NewContext()
	ctx.SetInput("csv", workload.Csv(sampleFrame(t)))
	ctx.SetInput("from", workload.String("name"))
	ctx.SetInput("to", workload.String("label"))
	def.Run(ctx)

	require.False(t, ctx.HasError())
	w, _ := ctx.GetOutput("csv")
	out, _ := w.GetCsv()
	assert.Contains(t, out.ColumnNames(), "label")
}

func TestSelectByNameRequiresCsv(t *testing.T) {
	reg := node.NewRegistry()
	selectops.Register(reg)
	def, _ := reg.GetNode("select_by_name")

	ctx := node.NewContext()
	ctx.SetInput("columns", workload.String("name"))
	def.Run(ctx)

	assert.True(t, ctx.HasError())
}
