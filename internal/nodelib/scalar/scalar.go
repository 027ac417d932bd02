// Package scalar registers the literal-value node types: int_value,
// double_value, string_value, bool_value, null_value, and the
// scalar/field conversion helpers scalars_to_csv and string_as_field.
package scalar

import (
	"strconv"

	"nodeframe/internal/frame"
	"nodeframe/internal/node"
	"nodeframe/internal/workload"
)

// Register adds every scalar node definition to reg.
func Register(reg *node.Registry) {
	node.NewBuilder("int_value", "scalar").
		InputOptional("value", workload.TypeString).
		Output("value", workload.TypeInt).
		OnCompile(func(ctx *node.Context) {
			w, _ := ctx.GetInputWorkload("value")
			v, err := parseInt(w)
			if err != nil {
				ctx.SetError(err.Error())
				return
			}
			ctx.SetOutputInt("value", v)
		}).
		BuildAndRegister(reg)

	node.NewBuilder("double_value", "scalar").
		InputOptional("value", workload.TypeString).
		Output("value", workload.TypeDouble).
		OnCompile(func(ctx *node.Context) {
			w, _ := ctx.GetInputWorkload("value")
			v, err := parseDouble(w)
			if err != nil {
				ctx.SetError(err.Error())
				return
			}
			ctx.SetOutputDouble("value", v)
		}).
		BuildAndRegister(reg)

	node.NewBuilder("string_value", "scalar").
		InputOptional("value", workload.TypeString).
		Output("value", workload.TypeString).
		OnCompile(func(ctx *node.Context) {
			w, _ := ctx.GetInputWorkload("value")
			s, _ := w.GetString()
			ctx.SetOutputString("value", s)
		}).
		BuildAndRegister(reg)

	node.NewBuilder("bool_value", "scalar").
		InputOptional("value", workload.TypeString).
		Output("value", workload.TypeBool).
		OnCompile(func(ctx *node.Context) {
			w, _ := ctx.GetInputWorkload("value")
			s, _ := w.GetString()
			ctx.SetOutputBool("value", s == "true" || s == "1")
		}).
		BuildAndRegister(reg)

	node.NewBuilder("null_value", "scalar").
		Output("value", workload.TypeNull).
		OnCompile(func(ctx *node.Context) {
			ctx.SetOutput("value", workload.Null())
		}).
		BuildAndRegister(reg)

	node.NewBuilder("string_as_field", "scalar").
		Input("name", workload.TypeString).
		Output("field", workload.TypeField).
		OnCompile(func(ctx *node.Context) {
			w, _ := ctx.GetInputWorkload("name")
			s, err := w.GetString()
			if err != nil {
				ctx.SetError(err.Error())
				return
			}
			ctx.SetOutput("field", workload.Field(s))
		}).
		BuildAndRegister(reg)

	node.NewBuilder("scalars_to_csv", "scalar").
		InputMulti("value", workload.TypeInt, workload.TypeDouble, workload.TypeString, workload.TypeBool).
		Input("column", workload.TypeString).
		Output("csv", workload.TypeCsv).
		OnCompile(func(ctx *node.Context) {
			value, _ := ctx.GetInputWorkload("value")
			colW, _ := ctx.GetInputWorkload("column")
			colName, err := colW.GetString()
			if err != nil {
				ctx.SetError("scalars_to_csv: column name required")
				return
			}
			f := frame.New()
			if err := addScalarColumn(f, colName, value); err != nil {
				ctx.SetError(err.Error())
				return
			}
			ctx.SetOutputCsv("csv", f)
		}).
		BuildAndRegister(reg)
}

func addScalarColumn(f *frame.Frame, name string, w workload.Workload) error {
	switch w.Type() {
	case workload.TypeInt:
		v, _ := w.GetInt()
		return f.AddIntColumn(name, []int64{v})
	case workload.TypeDouble:
		v, _ := w.GetDouble()
		return f.AddDoubleColumn(name, []float64{v})
	case workload.TypeString:
		v, _ := w.GetString()
		return f.AddStringColumn(name, []string{v})
	case workload.TypeBool:
		v, _ := w.GetBool()
		b := int64(0)
		if v {
			b = 1
		}
		return f.AddIntColumn(name, []int64{b})
	}
	return f.AddStringColumn(name, []string{""})
}

func parseInt(w workload.Workload) (int64, error) {
	switch w.Type() {
	case workload.TypeInt:
		return w.GetInt()
	case workload.TypeDouble:
		v, err := w.GetDouble()
		return int64(v), err
	case workload.TypeString:
		s, err := w.GetString()
		if err != nil {
			return 0, err
		}
		if s == "" {
			return 0, nil
		}
		return strconv.ParseInt(s, 10, 64)
	}
	return 0, nil
}

func parseDouble(w workload.Workload) (float64, error) {
	switch w.Type() {
	case workload.TypeDouble:
		return w.GetDouble()
	case workload.TypeInt:
		v, err := w.GetInt()
		return float64(v), err
	case workload.TypeString:
		s, err := w.GetString()
		if err != nil {
			return 0, err
		}
		if s == "" {
			return 0, nil
		}
		return strconv.ParseFloat(s, 64)
	}
	return 0, nil
}
