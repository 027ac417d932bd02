package dynamicops_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nodeframe/internal/frame"
	"nodeframe/internal/node"
	"nodeframe/internal/nodelib/dynamicops"
	"nodeframe/internal/workload"
)

func TestDynamicBeginPassesCsvThrough(t *testing.T) {
	reg := node.NewRegistry()
	dynamicops.Register(reg)
	def, ok := reg.GetNode("dynamic_begin")
	require.True(t, ok)

	f := frame.New()
	require.NoError(t, f.AddIntColumn("id", []int64{1, 2, 3}))

	ctx := node.NewContext()
	ctx.SetInput("csv", workload.Csv(f))
	def.Run(ctx)

	require.False(t, ctx.HasError())
	w, ok := ctx.GetOutput("csv")
	require.True(t, ok)
	out, err := w.GetCsv()
	require.NoError(t, err)
	assert.Equal(t, 3, out.RowCount())
}

func TestDynamicEndPassesCsvThrough(t *testing.T) {
	reg := node.NewRegistry()
	dynamicops.Register(reg)
	def, ok := reg.GetNode("dynamic_end")
	require.True(t, ok)

	f := frame.New()
	require.NoError(t, f.AddIntColumn("id", []int64{1}))

	ctx := node.NewContext()
	ctx.SetInput("csv", workload.Csv(f))
	def.Run(ctx)

	require.False(t, ctx.HasError())
	w, _ := ctx.GetOutput("csv")
	out, err := w.GetCsv()
	require.NoError(t, err)
	assert.Equal(t, 1, out.RowCount())
}
