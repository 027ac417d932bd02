// Package dynamicops registers dynamic_begin and dynamic_end, the
// passthrough markers bounding a dynamic zone. Each forwards its csv
// input unchanged; nothing in this module inserts nodes between them.
package dynamicops

import (
	"nodeframe/internal/node"
	"nodeframe/internal/workload"
)

// Register adds dynamic_begin and dynamic_end to reg.
func Register(reg *node.Registry) {
	node.NewBuilder("dynamic_begin", "dynamic").
		Input("csv", workload.TypeCsv).
		Output("csv", workload.TypeCsv).
		OnCompile(func(ctx *node.Context) {
			w, _ := ctx.GetInputWorkload("csv")
			ctx.SetOutput("csv", w)
		}).
		BuildAndRegister(reg)

	node.NewBuilder("dynamic_end", "dynamic").
		Input("csv", workload.TypeCsv).
		Output("csv", workload.TypeCsv).
		OnCompile(func(ctx *node.Context) {
			w, _ := ctx.GetInputWorkload("csv")
			ctx.SetOutput("csv", w)
		}).
		BuildAndRegister(reg)
}
