// Package vizops registers publish-only visualization node types:
// timeline_output and bar_chart_output. Both pass their csv through
// and attach an output_type string; they produce no output_metadata
// (the x_field/y_field inputs are not read) and render no chart.
package vizops

import (
	"nodeframe/internal/node"
	"nodeframe/internal/workload"
)

// Register adds timeline_output and bar_chart_output to reg.
func Register(reg *node.Registry) {
	registerVizOutput(reg, "timeline_output", "timeline")
	registerVizOutput(reg, "bar_chart_output", "bar_chart")
}

func registerVizOutput(reg *node.Registry, name, outputType string) {
	node.NewBuilder(name, "viz").
		Input("csv", workload.TypeCsv).
		Input("name", workload.TypeString).
		InputOptional("x_field", workload.TypeString).
		InputOptional("y_field", workload.TypeString).
		Output("csv", workload.TypeCsv).
		Output("output_type", workload.TypeString).
		OnCompile(func(ctx *node.Context) {
			csvW, _ := ctx.GetInputWorkload("csv")
			f, err := csvW.GetCsv()
			if err != nil || f == nil {
				ctx.SetError(name + ": csv is required")
				return
			}
			ctx.SetOutputCsv("csv", f)
			ctx.SetOutputString("output_type", outputType)
		}).
		BuildAndRegister(reg)
}
