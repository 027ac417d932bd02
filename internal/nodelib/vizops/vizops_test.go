package vizops_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nodeframe/internal/frame"
	"nodeframe/internal/node"
	"nodeframe/internal/nodelib/vizops"
	"nodeframe/internal/workload"
)

func TestTimelineOutputTagsOutputType(t *testing.T) {
	reg := node.NewRegistry()
	vizops.Register(reg)
	def, ok := reg.GetNode("timeline_output")
	require.True(t, ok)

	f := frame.New()
	require.NoError(t, f.AddIntColumn("ts", []int64{1, 2}))

	ctx := node.NewContext()
	ctx.SetInput("csv", workload.Csv(f))
	ctx.SetInput("name", workload.String("events"))
	def.Run(ctx)

	require.False(t, ctx.HasError())
	w, ok := ctx.GetOutput("output_type")
	require.True(t, ok)
	v, err := w.GetString()
	require.NoError(t, err)
	assert.Equal(t, "timeline", v)
}

func TestBarChartOutputRequiresCsv(t *testing.T) {
	reg := node.NewRegistry()
	vizops.Register(reg)
	def, _ := reg.GetNode("bar_chart_output")

	ctx := node.NewContext()
	ctx.SetInput("name", workload.String("events"))
	def.Run(ctx)

	assert.True(t, ctx.HasError())
}
