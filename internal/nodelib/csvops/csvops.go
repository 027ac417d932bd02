// Package csvops registers the csv plumbing nodes: csv_source (read a
// file into a frame), field (make a Field workload from a literal
// name), join_flex (wraps relop.FlexJoin), and output (publishes a
// frame as a named graph output).
package csvops

import (
	"nodeframe/internal/csvio"
	"nodeframe/internal/node"
	"nodeframe/internal/relop"
	"nodeframe/internal/workload"
)

// Register adds csv_source, field, join_flex, and output to reg.
func Register(reg *node.Registry) {
	node.NewBuilder("csv_source", "csv").
		Input("path", workload.TypeString).
		Output("csv", workload.TypeCsv).
		OnCompile(func(ctx *node.Context) {
			w, _ := ctx.GetInputWorkload("path")
			path, err := w.GetString()
			if err != nil {
				ctx.SetError("csv_source: path is required")
				return
			}
			f, err := csvio.ReadFile(path)
			if err != nil {
				ctx.SetError(err.Error())
				return
			}
			ctx.SetOutputCsv("csv", f)
		}).
		EntryPoint().
		BuildAndRegister(reg)

	node.NewBuilder("field", "csv").
		Input("name", workload.TypeString).
		Output("field", workload.TypeField).
		OnCompile(func(ctx *node.Context) {
			w, _ := ctx.GetInputWorkload("name")
			name, err := w.GetString()
			if err != nil {
				ctx.SetError("field: name is required")
				return
			}
			ctx.SetOutput("field", workload.Field(name))
		}).
		BuildAndRegister(reg)

	node.NewBuilder("join_flex", "csv").
		Input("left", workload.TypeCsv).
		Input("right", workload.TypeCsv).
		Input("left_key", workload.TypeString).
		Input("right_key", workload.TypeString).
		Output("no_match", workload.TypeCsv).
		Output("single_match", workload.TypeCsv).
		Output("multiple_match", workload.TypeCsv).
		OnCompile(func(ctx *node.Context) {
			leftW, _ := ctx.GetInputWorkload("left")
			rightW, _ := ctx.GetInputWorkload("right")
			left, err := leftW.GetCsv()
			if err != nil {
				ctx.SetError("join_flex: left csv is required")
				return
			}
			right, err := rightW.GetCsv()
			if err != nil {
				ctx.SetError("join_flex: right csv is required")
				return
			}
			leftKeyW, _ := ctx.GetInputWorkload("left_key")
			rightKeyW, _ := ctx.GetInputWorkload("right_key")
			leftKey, _ := leftKeyW.GetString()
			rightKey, _ := rightKeyW.GetString()
			if rightKey == "" {
				rightKey = leftKey
			}

			result, err := relop.FlexJoin(left, right,
				[]relop.KeyMapping{{Left: leftKey, Right: rightKey}},
				relop.DefaultFlexJoinOptions())
			if err != nil {
				ctx.SetError(err.Error())
				return
			}
			if result.NoMatch != nil {
				ctx.SetOutputCsv("no_match", result.NoMatch)
			}
			if result.SingleMatch != nil {
				ctx.SetOutputCsv("single_match", result.SingleMatch)
			}
			if result.MultipleMatch != nil {
				ctx.SetOutputCsv("multiple_match", result.MultipleMatch)
			}
		}).
		BuildAndRegister(reg)

	node.NewBuilder("output", "csv").
		Input("csv", workload.TypeCsv).
		Input("name", workload.TypeString).
		Output("csv", workload.TypeCsv).
		OnCompile(func(ctx *node.Context) {
			w, _ := ctx.GetInputWorkload("csv")
			f, err := w.GetCsv()
			if err != nil {
				ctx.SetError("output: csv is required")
				return
			}
			ctx.SetOutputCsv("csv", f)
		}).
		BuildAndRegister(reg)
}
