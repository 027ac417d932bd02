// Package stringops registers the per-cell string transform node
// types: add_column, trim, to_lower, to_upper, replace, to_integer,
// substring, split, concat, and json_extract.
package stringops

import (
	"encoding/json"
	"strconv"
	"strings"

	"nodeframe/internal/frame"
	"nodeframe/internal/node"
	"nodeframe/internal/workload"
)

type stringFn func(s string) string

// Register adds every string node definition to reg.
func Register(reg *node.Registry) {
	registerTransform(reg, "trim", strings.TrimSpace)
	registerTransform(reg, "to_lower", strings.ToLower)
	registerTransform(reg, "to_upper", strings.ToUpper)

	node.NewBuilder("add_column", "string").
		Input("csv", workload.TypeCsv).
		Input("name", workload.TypeString).
		InputMulti("value", workload.TypeString, workload.TypeField).
		Output("csv", workload.TypeCsv).
		OnCompile(func(ctx *node.Context) {
			csv, ok := requireCsv(ctx, "add_column")
			if !ok {
				return
			}
			nameW, _ := ctx.GetInputWorkload("name")
			name, _ := nameW.GetString()
			value, _ := ctx.GetInputWorkload("value")

			out := csv.Clone()
			values := make([]string, csv.RowCount())
			for row := 0; row < csv.RowCount(); row++ {
				v, err := workload.StringAtRow(value, row, csv)
				if err != nil {
					ctx.SetError(err.Error())
					return
				}
				values[row] = v
			}
			if err := out.AddStringColumn(name, values); err != nil {
				ctx.SetError(err.Error())
				return
			}
			ctx.SetOutputCsv("csv", out)
		}).
		BuildAndRegister(reg)

	node.NewBuilder("replace", "string").
		Input("csv", workload.TypeCsv).
		Input("column", workload.TypeString).
		Input("search", workload.TypeString).
		Input("replacement", workload.TypeString).
		Output("csv", workload.TypeCsv).
		OnCompile(func(ctx *node.Context) {
			csv, colName, ok := requireColumn(ctx, "replace")
			if !ok {
				return
			}
			searchW, _ := ctx.GetInputWorkload("search")
			replW, _ := ctx.GetInputWorkload("replacement")
			search, _ := searchW.GetString()
			repl, _ := replW.GetString()
			applyStringTransform(ctx, csv, colName, func(s string) string {
				return strings.ReplaceAll(s, search, repl)
			})
		}).
		BuildAndRegister(reg)

	node.NewBuilder("substring", "string").
		Input("csv", workload.TypeCsv).
		Input("column", workload.TypeString).
		Input("start", workload.TypeInt).
		InputOptional("length", workload.TypeInt).
		Output("csv", workload.TypeCsv).
		OnCompile(func(ctx *node.Context) {
			csv, colName, ok := requireColumn(ctx, "substring")
			if !ok {
				return
			}
			startW, _ := ctx.GetInputWorkload("start")
			start, _ := startW.GetInt()
			length := int64(-1)
			if w, ok := ctx.GetInputWorkload("length"); ok && !w.IsNull() {
				length, _ = w.GetInt()
			}
			applyStringTransform(ctx, csv, colName, func(s string) string {
				return substring(s, int(start), int(length))
			})
		}).
		BuildAndRegister(reg)

	node.NewBuilder("split", "string").
		Input("csv", workload.TypeCsv).
		Input("column", workload.TypeString).
		Input("separator", workload.TypeString).
		Input("index", workload.TypeInt).
		Output("csv", workload.TypeCsv).
		OnCompile(func(ctx *node.Context) {
			csv, colName, ok := requireColumn(ctx, "split")
			if !ok {
				return
			}
			sepW, _ := ctx.GetInputWorkload("separator")
			sep, _ := sepW.GetString()
			idxW, _ := ctx.GetInputWorkload("index")
			idx, _ := idxW.GetInt()
			applyStringTransform(ctx, csv, colName, func(s string) string {
				parts := strings.Split(s, sep)
				if int(idx) < 0 || int(idx) >= len(parts) {
					return ""
				}
				return parts[idx]
			})
		}).
		BuildAndRegister(reg)

	node.NewBuilder("concat", "string").
		Input("csv", workload.TypeCsv).
		Input("columns", workload.TypeString).
		Input("separator", workload.TypeString).
		Input("dest", workload.TypeString).
		Output("csv", workload.TypeCsv).
		OnCompile(func(ctx *node.Context) {
			csv, ok := requireCsv(ctx, "concat")
			if !ok {
				return
			}
			columnsW, _ := ctx.GetInputWorkload("columns")
			columnsStr, _ := columnsW.GetString()
			sepW, _ := ctx.GetInputWorkload("separator")
			sep, _ := sepW.GetString()
			destW, _ := ctx.GetInputWorkload("dest")
			dest, _ := destW.GetString()

			cols := strings.Split(columnsStr, ",")
			for i := range cols {
				cols[i] = strings.TrimSpace(cols[i])
			}

			out := csv.Clone()
			values := make([]string, csv.RowCount())
			for row := 0; row < csv.RowCount(); row++ {
				var parts []string
				for _, c := range cols {
					v, err := workload.StringAtRow(workload.Field(c), row, csv)
					if err != nil {
						ctx.SetError(err.Error())
						return
					}
					parts = append(parts, v)
				}
				values[row] = strings.Join(parts, sep)
			}
			if err := out.AddStringColumn(dest, values); err != nil {
				ctx.SetError(err.Error())
				return
			}
			ctx.SetOutputCsv("csv", out)
		}).
		BuildAndRegister(reg)

	node.NewBuilder("to_integer", "string").
		Input("csv", workload.TypeCsv).
		Input("column", workload.TypeString).
		Output("csv", workload.TypeCsv).
		OnCompile(func(ctx *node.Context) {
			csv, colName, ok := requireColumn(ctx, "to_integer")
			if !ok {
				return
			}
			out := csv.Clone()
			values := make([]int64, csv.RowCount())
			for row := 0; row < csv.RowCount(); row++ {
				s, err := workload.StringAtRow(workload.Field(colName), row, csv)
				if err != nil {
					ctx.SetError(err.Error())
					return
				}
				v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
				if err != nil {
					continue
				}
				values[row] = v
			}
			if err := out.AddIntColumn(colName+"_int", values); err != nil {
				ctx.SetError(err.Error())
				return
			}
			ctx.SetOutputCsv("csv", out)
		}).
		BuildAndRegister(reg)

	node.NewBuilder("json_extract", "string").
		Input("csv", workload.TypeCsv).
		Input("column", workload.TypeString).
		Input("path", workload.TypeString).
		Output("csv", workload.TypeCsv).
		OnCompile(func(ctx *node.Context) {
			csv, colName, ok := requireColumn(ctx, "json_extract")
			if !ok {
				return
			}
			pathW, _ := ctx.GetInputWorkload("path")
			path, _ := pathW.GetString()
			applyStringTransform(ctx, csv, colName+"_"+path, func(s string) string {
				var v any
				if err := json.Unmarshal([]byte(s), &v); err != nil {
					return ""
				}
				m, ok := v.(map[string]any)
				if !ok {
					return ""
				}
				if r, ok := m[path]; ok {
					return renderJSONValue(r)
				}
				return ""
			})
		}).
		BuildAndRegister(reg)
}

func registerTransform(reg *node.Registry, name string, fn stringFn) {
	node.NewBuilder(name, "string").
		Input("csv", workload.TypeCsv).
		Input("column", workload.TypeString).
		Output("csv", workload.TypeCsv).
		OnCompile(func(ctx *node.Context) {
			csv, colName, ok := requireColumn(ctx, name)
			if !ok {
				return
			}
			applyStringTransform(ctx, csv, colName, fn)
		}).
		BuildAndRegister(reg)
}

func applyStringTransform(ctx *node.Context, csv *frame.Frame, colName string, fn stringFn) {
	out := csv.Clone()
	values := make([]string, csv.RowCount())
	for row := 0; row < csv.RowCount(); row++ {
		s, err := workload.StringAtRow(workload.Field(colName), row, csv)
		if err != nil {
			ctx.SetError(err.Error())
			return
		}
		values[row] = fn(s)
	}
	if err := out.SetStringColumn(colName, values); err != nil {
		ctx.SetError(err.Error())
		return
	}
	ctx.SetOutputCsv("csv", out)
}

func requireCsv(ctx *node.Context, nodeName string) (*frame.Frame, bool) {
	w, _ := ctx.GetInputWorkload("csv")
	f, err := w.GetCsv()
	if err != nil || f == nil {
		ctx.SetError(nodeName + ": csv is required")
		return nil, false
	}
	return f, true
}

func requireColumn(ctx *node.Context, nodeName string) (*frame.Frame, string, bool) {
	csv, ok := requireCsv(ctx, nodeName)
	if !ok {
		return nil, "", false
	}
	colW, _ := ctx.GetInputWorkload("column")
	colName, err := colW.GetString()
	if err != nil || colName == "" {
		ctx.SetError(nodeName + ": column is required")
		return nil, "", false
	}
	return csv, colName, true
}

func substring(s string, start, length int) string {
	if start < 0 {
		start = 0
	}
	if start >= len(s) {
		return ""
	}
	end := len(s)
	if length >= 0 && start+length < end {
		end = start + length
	}
	return s[start:end]
}

func renderJSONValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	default:
		b, _ := json.Marshal(t)
		return string(b)
	}
}
