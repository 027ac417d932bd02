// Package mathops registers the five arithmetic node types
// (add/subtract/multiply/divide/modulus), all built from one shared
// broadcasting helper, mirroring the original's registerMathNode
// closure factory.
package mathops

import (
	"fmt"
	"math"

	"nodeframe/internal/node"
	"nodeframe/internal/workload"
)

type binaryFn func(a, b float64) (float64, error)

// Register adds add/subtract/multiply/divide/modulus to reg.
func Register(reg *node.Registry) {
	registerMathNode(reg, "add", func(a, b float64) (float64, error) { return a + b, nil })
	registerMathNode(reg, "subtract", func(a, b float64) (float64, error) { return a - b, nil })
	registerMathNode(reg, "multiply", func(a, b float64) (float64, error) { return a * b, nil })
	registerMathNode(reg, "divide", func(a, b float64) (float64, error) {
		if b == 0 {
			return 0, fmt.Errorf("mathops: division by zero")
		}
		return a / b, nil
	})
	registerMathNode(reg, "modulus", func(a, b float64) (float64, error) {
		if b == 0 {
			return 0, fmt.Errorf("mathops: modulus by zero")
		}
		return math.Mod(a, b), nil
	})
}

// registerMathNode builds one math node type sharing fn as its
// per-row computation: if neither src nor operand is a field, it
// takes a pure-scalar fast path; otherwise it requires an active csv,
// computes every row via broadcasting, clones the other columns, and
// writes the result into the column chosen by destColumnName (a Field
// workload bound to the dest input, else the src field name, else
// "_{name}_result"). A plain string bound to dest is ignored.
func registerMathNode(reg *node.Registry, name string, fn binaryFn) {
	node.NewBuilder(name, "math").
		InputOptional("csv", workload.TypeCsv).
		InputMulti("src", workload.TypeInt, workload.TypeDouble, workload.TypeField).
		InputOptional("dest", workload.TypeField).
		InputMulti("operand", workload.TypeInt, workload.TypeDouble, workload.TypeField).
		Output("csv", workload.TypeCsv).
		Output("result", workload.TypeDouble).
		OnCompile(func(ctx *node.Context) {
			src, hasSrc := ctx.GetInputWorkload("src")
			operand, hasOperand := ctx.GetInputWorkload("operand")
			if !hasSrc || src.IsNull() || !hasOperand || operand.IsNull() {
				ctx.SetError(name + ": src and operand are required")
				return
			}

			if !src.IsField() && !operand.IsField() {
				a, err := scalarFloat(src)
				if err != nil {
					ctx.SetError(err.Error())
					return
				}
				b, err := scalarFloat(operand)
				if err != nil {
					ctx.SetError(err.Error())
					return
				}
				result, err := fn(a, b)
				if err != nil {
					ctx.SetError(err.Error())
					return
				}
				ctx.SetOutputDouble("result", result)
				return
			}

			csv := ctx.GetActiveCsv()
			if explicit, ok := ctx.GetInputWorkload("csv"); ok && explicit.IsCsv() {
				if f, err := explicit.GetCsv(); err == nil && f != nil {
					csv = f
				}
			}
			if csv == nil {
				ctx.SetError(name + ": field operand requires an active csv")
				return
			}

			destName := destColumnName(ctx, src, name)

			out := csv.Clone()
			values := make([]float64, csv.RowCount())
			for row := 0; row < csv.RowCount(); row++ {
				a, err := workload.DoubleAtRow(src, row, csv)
				if err != nil {
					ctx.SetError(err.Error())
					return
				}
				b, err := workload.DoubleAtRow(operand, row, csv)
				if err != nil {
					ctx.SetError(err.Error())
					return
				}
				v, err := fn(a, b)
				if err != nil {
					ctx.SetError(err.Error())
					return
				}
				values[row] = v
			}
			if err := out.SetDoubleColumn(destName, values); err != nil {
				ctx.SetError(err.Error())
				return
			}

			ctx.SetOutputCsv("csv", out)
			if len(values) > 0 {
				ctx.SetOutputDouble("result", values[0])
			} else {
				ctx.SetOutputDouble("result", 0.0)
			}
		}).
		BuildAndRegister(reg)
}

func destColumnName(ctx *node.Context, src workload.Workload, nodeName string) string {
	if dest, ok := ctx.GetInputWorkload("dest"); ok && dest.IsField() {
		if name, err := dest.GetFieldName(); err == nil && name != "" {
			return name
		}
	}
	if src.IsField() {
		if name, err := src.GetFieldName(); err == nil {
			return name
		}
	}
	return "_" + nodeName + "_result"
}

func scalarFloat(w workload.Workload) (float64, error) {
	switch w.Type() {
	case workload.TypeInt:
		v, err := w.GetInt()
		return float64(v), err
	case workload.TypeDouble:
		return w.GetDouble()
	}
	return 0, fmt.Errorf("mathops: expected a numeric scalar")
}
