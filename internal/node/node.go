// Package node implements the node-type kernel: port definitions, a
// fluent builder, a registry of node definitions, and the per-node
// execution context passed to a node's compile function.
package node

import (
	"errors"
	"fmt"

	"nodeframe/internal/frame"
	"nodeframe/internal/workload"
)

// ErrUnknownColumn names the failure of a node referencing a csv
// column that does not exist. No function in this package returns it.
var ErrUnknownColumn = errors.New("node: unknown column")

// InputDef describes one named input port.
type InputDef struct {
	Name     string
	Type     workload.PortType
	Required bool
}

// OutputDef describes one named output port.
type OutputDef struct {
	Name string
	Type workload.PortType
}

// CompileFunc implements a node's behavior: read Context inputs,
// write Context outputs, optionally call Context.SetError.
type CompileFunc func(*Context)

// Definition is an immutable node type: its name, category, ports, and
// compile function.
type Definition struct {
	Name          string
	Category      string
	Inputs        []InputDef
	Outputs       []OutputDef
	Compile       CompileFunc
	IsEntryPoint  bool
}

// FindInput returns the input port definition named name, if any.
func (d *Definition) FindInput(name string) (InputDef, bool) {
	for _, in := range d.Inputs {
		if in.Name == name {
			return in, true
		}
	}
	return InputDef{}, false
}

// FindOutput returns the output port definition named name, if any.
func (d *Definition) FindOutput(name string) (OutputDef, bool) {
	for _, out := range d.Outputs {
		if out.Name == name {
			return out, true
		}
	}
	return OutputDef{}, false
}

// Run executes the node's compile function against ctx.
func (d *Definition) Run(ctx *Context) {
	d.Compile(ctx)
}

// LabelStore is the minimal interface a label registry must satisfy
// to be reachable from a node's compile function. graph.LabelRegistry
// implements it; Context depends only on this interface so the node
// package never imports graph (which imports node).
type LabelStore interface {
	Define(name string, w workload.Workload)
	Get(name string) (workload.Workload, bool)
}

// Context carries a node's inputs, collects its outputs, tracks the
// active csv (the frame implicitly threaded between csv-producing and
// csv-consuming nodes), and gives label_define_*/label_ref_* nodes
// access to the execution's label registry.
type Context struct {
	inputs    map[string]workload.Workload
	outputs   map[string]workload.Workload
	activeCsv *frame.Frame
	labels    LabelStore
	errored   bool
	errMsg    string
}

// NewContext returns an empty Context.
func NewContext() *Context {
	return &Context{
		inputs:  make(map[string]workload.Workload),
		outputs: make(map[string]workload.Workload),
	}
}

// SetInput binds w to the named input port. Called by the graph
// executor while assembling a node's context before running it.
func (c *Context) SetInput(name string, w workload.Workload) { c.inputs[name] = w }

// GetInputWorkload returns the workload bound to the named input port.
func (c *Context) GetInputWorkload(name string) (workload.Workload, bool) {
	w, ok := c.inputs[name]
	return w, ok
}

// HasInput reports whether name has a non-null bound workload.
func (c *Context) HasInput(name string) bool {
	w, ok := c.inputs[name]
	return ok && !w.IsNull()
}

// HasInputEntry reports whether name has any bound workload at all,
// including an explicit null.
func (c *Context) HasInputEntry(name string) bool {
	_, ok := c.inputs[name]
	return ok
}

// SetOutput binds w to the named output port.
func (c *Context) SetOutput(name string, w workload.Workload) { c.outputs[name] = w }

// SetOutputInt is a convenience wrapper around SetOutput.
func (c *Context) SetOutputInt(name string, v int64) { c.SetOutput(name, workload.Int(v)) }

// SetOutputDouble is a convenience wrapper around SetOutput.
func (c *Context) SetOutputDouble(name string, v float64) { c.SetOutput(name, workload.Double(v)) }

// SetOutputString is a convenience wrapper around SetOutput.
func (c *Context) SetOutputString(name string, v string) { c.SetOutput(name, workload.String(v)) }

// SetOutputBool is a convenience wrapper around SetOutput.
func (c *Context) SetOutputBool(name string, v bool) { c.SetOutput(name, workload.Bool(v)) }

// SetOutputCsv is a convenience wrapper around SetOutput.
func (c *Context) SetOutputCsv(name string, f *frame.Frame) { c.SetOutput(name, workload.Csv(f)) }

// GetOutput returns the workload bound to the named output port.
func (c *Context) GetOutput(name string) (workload.Workload, bool) {
	w, ok := c.outputs[name]
	return w, ok
}

// Outputs returns every bound output, keyed by port name.
func (c *Context) Outputs() map[string]workload.Workload {
	out := make(map[string]workload.Workload, len(c.outputs))
	for k, v := range c.outputs {
		out[k] = v
	}
	return out
}

// GetActiveCsv returns the csv frame threaded through this node.
func (c *Context) GetActiveCsv() *frame.Frame { return c.activeCsv }

// SetActiveCsv sets the csv frame threaded through this node.
func (c *Context) SetActiveCsv(f *frame.Frame) { c.activeCsv = f }

// SetLabelStore binds the label registry reachable from this node's
// compile function. Called by the executor before every node runs.
func (c *Context) SetLabelStore(s LabelStore) { c.labels = s }

// DefineLabel stores name/w in the bound label registry, if any.
func (c *Context) DefineLabel(name string, w workload.Workload) {
	if c.labels != nil {
		c.labels.Define(name, w)
	}
}

// GetLabel reads name from the bound label registry, if any.
func (c *Context) GetLabel(name string) (workload.Workload, bool) {
	if c.labels == nil {
		return workload.Workload{}, false
	}
	return c.labels.Get(name)
}

// IntAtRow broadcasts the named input to an int64 at rowIndex against
// the active csv.
func (c *Context) IntAtRow(inputName string, rowIndex int) (int64, error) {
	w, ok := c.inputs[inputName]
	if !ok {
		return 0, fmt.Errorf("node: input %q not bound", inputName)
	}
	return workload.IntAtRow(w, rowIndex, c.activeCsv)
}

// DoubleAtRow is the double analogue of IntAtRow.
func (c *Context) DoubleAtRow(inputName string, rowIndex int) (float64, error) {
	w, ok := c.inputs[inputName]
	if !ok {
		return 0, fmt.Errorf("node: input %q not bound", inputName)
	}
	return workload.DoubleAtRow(w, rowIndex, c.activeCsv)
}

// StringAtRow is the string analogue of IntAtRow.
func (c *Context) StringAtRow(inputName string, rowIndex int) (string, error) {
	w, ok := c.inputs[inputName]
	if !ok {
		return "", fmt.Errorf("node: input %q not bound", inputName)
	}
	return workload.StringAtRow(w, rowIndex, c.activeCsv)
}

// SetError marks this node's execution as failed with msg. A
// CompileFunc returns nothing, so this flag, read by the executor
// through HasError, is the only way a node reports failure.
func (c *Context) SetError(msg string) {
	c.errored = true
	c.errMsg = msg
}

func (c *Context) HasError() bool        { return c.errored }
func (c *Context) GetErrorMessage() string { return c.errMsg }
