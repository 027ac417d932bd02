package labelops_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nodeframe/internal/graph"
	"nodeframe/internal/node"
	"nodeframe/internal/nodelib/labelops"
	"nodeframe/internal/workload"
)

func TestDefineThenRefWithinSharedLabelStore(t *testing.T) {
	reg := node.NewRegistry()
	labelops.Register(reg)
	defineDef, ok := reg.GetNode("label_define_int")
	require.True(t, ok)
	refDef, ok := reg.GetNode("label_ref_int")
	require.True(t, ok)

	labels := graph.NewLabelRegistry()

	defineCtx := node.NewContext()
	defineCtx.SetLabelStore(labels)
	defineCtx.SetInput("name", workload.String("count"))
	defineCtx.SetInput("value", workload.Int(7))
	defineDef.Run(defineCtx)
	require.False(t, defineCtx.HasError())

	refCtx := node.NewContext()
	refCtx.SetLabelStore(labels)
	refCtx.SetInput("name", workload.String("count"))
	refDef.Run(refCtx)

	require.False(t, refCtx.HasError())
	w, ok := refCtx.GetOutput("value")
	require.True(t, ok)
	v, err := w.GetInt()
	require.NoError(t, err)
	assert.Equal(t, int64(7), v)
}

func TestRefUndefinedLabelErrors(t *testing.T) {
	reg := node.NewRegistry()
	labelops.Register(reg)
	def, _ := reg.GetNode("label_ref_string")

	ctx := node.NewContext()
	ctx.SetLabelStore(graph.NewLabelRegistry())
	ctx.SetInput("name", workload.String("missing"))
	def.Run(ctx)

	assert.True(t, ctx.HasError())
}
