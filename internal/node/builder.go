package node

import "nodeframe/internal/workload"

// Builder assembles a Definition through a fluent call chain, mirroring
// the original's NodeBuilder.
type Builder struct {
	def Definition
}

// NewBuilder starts building a node named name in category.
func NewBuilder(name, category string) *Builder {
	return &Builder{def: Definition{Name: name, Category: category}}
}

// Input adds a required input port accepting a single type.
func (b *Builder) Input(name string, t workload.NodeType) *Builder {
	b.def.Inputs = append(b.def.Inputs, InputDef{Name: name, Type: workload.Single(t), Required: true})
	return b
}

// InputMulti adds a required input port accepting any of types.
func (b *Builder) InputMulti(name string, types ...workload.NodeType) *Builder {
	b.def.Inputs = append(b.def.Inputs, InputDef{Name: name, Type: workload.Multi(types...), Required: true})
	return b
}

// InputOptional adds an optional input port accepting a single type.
func (b *Builder) InputOptional(name string, t workload.NodeType) *Builder {
	b.def.Inputs = append(b.def.Inputs, InputDef{Name: name, Type: workload.Single(t), Required: false})
	return b
}

// InputOptionalMulti adds an optional input port accepting any of types.
func (b *Builder) InputOptionalMulti(name string, types ...workload.NodeType) *Builder {
	b.def.Inputs = append(b.def.Inputs, InputDef{Name: name, Type: workload.Multi(types...), Required: false})
	return b
}

// Output adds an output port accepting a single type.
func (b *Builder) Output(name string, t workload.NodeType) *Builder {
	b.def.Outputs = append(b.def.Outputs, OutputDef{Name: name, Type: workload.Single(t)})
	return b
}

// OutputMulti adds an output port accepting any of types.
func (b *Builder) OutputMulti(name string, types ...workload.NodeType) *Builder {
	b.def.Outputs = append(b.def.Outputs, OutputDef{Name: name, Type: workload.Multi(types...)})
	return b
}

// OnCompile sets the node's compile function.
func (b *Builder) OnCompile(fn CompileFunc) *Builder {
	b.def.Compile = fn
	return b
}

// EntryPoint marks this node as a graph entry point (no required
// upstream connections needed to schedule it).
func (b *Builder) EntryPoint() *Builder {
	b.def.IsEntryPoint = true
	return b
}

// Build returns the assembled Definition.
func (b *Builder) Build() Definition {
	return b.def
}

// BuildAndRegister builds the definition and registers it in reg.
func (b *Builder) BuildAndRegister(reg *Registry) Definition {
	def := b.Build()
	reg.Register(def)
	return def
}
