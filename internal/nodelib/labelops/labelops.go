// Package labelops registers the label_define_* and label_ref_*
// node types, backing named intermediate values that other parts of
// a graph can refer to without an explicit connection. Labels are
// stored per-execution (node.Context.DefineLabel/GetLabel), not
// process-wide, so two concurrent graph runs never see each other's
// values.
package labelops

import (
	"nodeframe/internal/node"
	"nodeframe/internal/workload"
)

// Register adds every label_define_*/label_ref_* node definition to reg.
func Register(reg *node.Registry) {
	registerDefine(reg, "label_define_csv", workload.TypeCsv)
	registerDefine(reg, "label_define_int", workload.TypeInt)
	registerDefine(reg, "label_define_double", workload.TypeDouble)
	registerDefine(reg, "label_define_string", workload.TypeString)
	registerDefine(reg, "label_define_field", workload.TypeField)

	registerRef(reg, "label_ref_csv", workload.TypeCsv)
	registerRef(reg, "label_ref_int", workload.TypeInt)
	registerRef(reg, "label_ref_double", workload.TypeDouble)
	registerRef(reg, "label_ref_string", workload.TypeString)
	registerRef(reg, "label_ref_field", workload.TypeField)
}

func registerDefine(reg *node.Registry, name string, t workload.NodeType) {
	node.NewBuilder(name, "label").
		Input("name", workload.TypeString).
		Input("value", t).
		Output("value", t).
		OnCompile(func(ctx *node.Context) {
			nameW, _ := ctx.GetInputWorkload("name")
			label, err := nameW.GetString()
			if err != nil || label == "" {
				ctx.SetError(name + ": name is required")
				return
			}
			value, _ := ctx.GetInputWorkload("value")
			ctx.DefineLabel(label, value)
			ctx.SetOutput("value", value)
		}).
		BuildAndRegister(reg)
}

func registerRef(reg *node.Registry, name string, t workload.NodeType) {
	node.NewBuilder(name, "label").
		Input("name", workload.TypeString).
		Output("value", t).
		OnCompile(func(ctx *node.Context) {
			nameW, _ := ctx.GetInputWorkload("name")
			label, err := nameW.GetString()
			if err != nil || label == "" {
				ctx.SetError(name + ": name is required")
				return
			}
			value, ok := ctx.GetLabel(label)
			if !ok {
				ctx.SetError(name + ": undefined label " + label)
				return
			}
			ctx.SetOutput("value", value)
		}).
		BuildAndRegister(reg)
}
