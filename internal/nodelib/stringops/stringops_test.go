package stringops_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nodeframe/internal/column"
	"nodeframe/internal/frame"
	"nodeframe/internal/node"
	"nodeframe/internal/nodelib/stringops"
	"nodeframe/internal/workload"
)

func sampleFrame(t *testing.T) *frame.Frame {
	t.Helper()
	f := frame.New()
	require.NoError(t, f.AddStringColumn("name", []string{"  Alice ", "Bob"}))
	return f
}

func stringValues(t *testing.T, f *frame.Frame, col string) []string {
	t.Helper()
	c, ok := f.GetColumn(col)
	require.True(t, ok)
	sc, ok := c.(*column.StringColumn)
	require.True(t, ok)
	out := make([]string, sc.Len())
	for i := range out {
		out[i] = sc.At(i)
	}
	return out
}

func TestTrim(t *testing.T) {
	reg := node.NewRegistry()
	stringops.Register(reg)
	def, ok := reg.GetNode("trim")
	require.True(t, ok)

	ctx := node.NewContext()
	ctx.SetInput("csv", workload.Csv(sampleFrame(t)))
	ctx.SetInput("column", workload.String("name"))
	def.Run(ctx)

	require.False(t, ctx.HasError())
	w, _ := ctx.GetOutput("csv")
	out, _ := w.GetCsv()
	assert.Equal(t, []string{"Alice", "Bob"}, stringValues(t, out, "name"))
}

func TestSubstring(t *testing.T) {
	reg := node.NewRegistry()
	stringops.Register(reg)
	def, ok := reg.GetNode("substring")
	require.True(t, ok)

	ctx := node.NewContext()
	ctx.SetInput("csv", workload.Csv(sampleFrame(t)))
	ctx.SetInput("column", workload.String("name"))
	ctx.SetInput("start", workload.Int(0))
	ctx.SetInput("length", workload.Int(3))
	def.Run(ctx)

	require.False(t, ctx.HasError())
	w, _ := ctx.GetOutput("csv")
	out, _ := w.GetCsv()
	assert.Equal(t, []string{"  A", "Bob"}, stringValues(t, out, "name"))
}

func TestToIntegerAddsTypedColumn(t *testing.T) {
	reg := node.NewRegistry()
	stringops.Register(reg)
	def, ok := reg.GetNode("to_integer")
	require.True(t, ok)

	f := frame.New()
	require.NoError(t, f.AddStringColumn("code", []string{"12", "not-a-number"}))

	ctx := node.NewContext()
	ctx.SetInput("csv", workload.Csv(f))
	ctx.SetInput("column", workload.String("code"))
	def.Run(ctx)

	require.False(t, ctx.HasError())
	w, _ := ctx.GetOutput("csv")
	out, _ := w.GetCsv()
	assert.True(t, out.HasColumn("code_int"))
}

func TestReplaceRequiresColumn(t *testing.T) {
	reg := node.NewRegistry()
	stringops.Register(reg)
	def, _ := reg.GetNode("replace")

	ctx := node.NewContext()
	ctx.SetInput("csv", workload.Csv(sampleFrame(t)))
	def.Run(ctx)

	assert.True(t, ctx.HasError())
}
