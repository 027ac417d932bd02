// Package aggregate registers the grouping node types: group (flat
// group-by), tree_group (hierarchical group-by), pivot, and pivot_df,
// all thin wrappers over internal/relop.
package aggregate

import (
	"strings"

	"nodeframe/internal/frame"
	"nodeframe/internal/node"
	"nodeframe/internal/relop"
	"nodeframe/internal/workload"
)

// Register adds group, tree_group, pivot, and pivot_df to reg.
func Register(reg *node.Registry) {
	node.NewBuilder("group", "aggregate").
		Input("csv", workload.TypeCsv).
		Input("group_by", workload.TypeString).
		InputOptional("agg_columns", workload.TypeString).
		InputOptional("agg_funcs", workload.TypeString).
		Output("csv", workload.TypeCsv).
		OnCompile(func(ctx *node.Context) {
			csv, groupCols, aggs, ok := readGroupArgs(ctx)
			if !ok {
				return
			}
			out, err := relop.GroupBy(csv, groupCols, aggs)
			if err != nil {
				ctx.SetError(err.Error())
				return
			}
			ctx.SetOutputCsv("csv", out)
		}).
		BuildAndRegister(reg)

	node.NewBuilder("tree_group", "aggregate").
		Input("csv", workload.TypeCsv).
		Input("group_by", workload.TypeString).
		InputOptional("agg_columns", workload.TypeString).
		InputOptional("agg_funcs", workload.TypeString).
		Output("tree_json", workload.TypeString).
		OnCompile(func(ctx *node.Context) {
			csv, groupCols, aggs, ok := readGroupArgs(ctx)
			if !ok {
				return
			}
			tree, err := relop.GroupByTree(csv, groupCols, aggs)
			if err != nil {
				ctx.SetError(err.Error())
				return
			}
			treeJSON, err := relop.TreeJSON(csv, groupCols, aggs, tree)
			if err != nil {
				ctx.SetError(err.Error())
				return
			}
			ctx.SetOutputString("tree_json", treeJSON)
		}).
		BuildAndRegister(reg)

	node.NewBuilder("pivot", "aggregate").
		Input("csv", workload.TypeCsv).
		Input("pivot_column", workload.TypeString).
		Input("value_column", workload.TypeString).
		InputOptional("index_columns", workload.TypeString).
		InputOptional("prefix", workload.TypeString).
		Output("pivot_json", workload.TypeString).
		OnCompile(func(ctx *node.Context) {
			csv, pivotCol, valueCol, indexCols, prefix, ok := readPivotArgs(ctx, "pivot")
			if !ok {
				return
			}
			out, err := relop.PivotJSON(csv, pivotCol, valueCol, indexCols, prefix)
			if err != nil {
				ctx.SetError(err.Error())
				return
			}
			ctx.SetOutputString("pivot_json", out)
		}).
		BuildAndRegister(reg)

	node.NewBuilder("pivot_df", "aggregate").
		Input("csv", workload.TypeCsv).
		Input("pivot_column", workload.TypeString).
		Input("value_column", workload.TypeString).
		InputOptional("index_columns", workload.TypeString).
		InputOptional("prefix", workload.TypeString).
		Output("csv", workload.TypeCsv).
		OnCompile(func(ctx *node.Context) {
			csv, pivotCol, valueCol, indexCols, prefix, ok := readPivotArgs(ctx, "pivot_df")
			if !ok {
				return
			}
			out, err := relop.Pivot(csv, pivotCol, valueCol, indexCols, prefix)
			if err != nil {
				ctx.SetError(err.Error())
				return
			}
			ctx.SetOutputCsv("csv", out)
		}).
		BuildAndRegister(reg)
}

func readPivotArgs(ctx *node.Context, nodeName string) (csv *frame.Frame, pivotCol, valueCol string, indexCols []string, prefix string, ok bool) {
	csvW, _ := ctx.GetInputWorkload("csv")
	csv, err := csvW.GetCsv()
	if err != nil || csv == nil {
		ctx.SetError(nodeName + ": csv is required")
		return nil, "", "", nil, "", false
	}
	pivotW, _ := ctx.GetInputWorkload("pivot_column")
	valueW, _ := ctx.GetInputWorkload("value_column")
	pivotCol, _ = pivotW.GetString()
	valueCol, _ = valueW.GetString()
	if pivotCol == "" || valueCol == "" {
		ctx.SetError(nodeName + ": pivot_column and value_column are required")
		return nil, "", "", nil, "", false
	}
	if w, ok := ctx.GetInputWorkload("index_columns"); ok && !w.IsNull() {
		if s, err := w.GetString(); err == nil && s != "" {
			indexCols = splitList(s)
		}
	}
	if w, ok := ctx.GetInputWorkload("prefix"); ok && !w.IsNull() {
		if s, err := w.GetString(); err == nil {
			prefix = s
		}
	}
	return csv, pivotCol, valueCol, indexCols, prefix, true
}

func readGroupArgs(ctx *node.Context) (csv *frame.Frame, groupCols []string, aggs []relop.Aggregation, ok bool) {
	csvW, _ := ctx.GetInputWorkload("csv")
	f, err := csvW.GetCsv()
	if err != nil || f == nil {
		ctx.SetError("group: csv is required")
		return nil, nil, nil, false
	}

	groupByW, _ := ctx.GetInputWorkload("group_by")
	groupBy, err := groupByW.GetString()
	if err != nil || groupBy == "" {
		ctx.SetError("group: group_by is required")
		return nil, nil, nil, false
	}
	groupCols = splitList(groupBy)

	var columns, funcs []string
	if w, ok := ctx.GetInputWorkload("agg_columns"); ok && !w.IsNull() {
		if s, err := w.GetString(); err == nil && s != "" {
			columns = splitList(s)
		}
	}
	if w, ok := ctx.GetInputWorkload("agg_funcs"); ok && !w.IsNull() {
		if s, err := w.GetString(); err == nil && s != "" {
			funcs = splitList(s)
		}
	}
	for i, col := range columns {
		fn := relop.AggSum
		if i < len(funcs) {
			fn = relop.AggFunc(funcs[i])
		}
		aggs = append(aggs, relop.Aggregation{Column: col, Func: fn})
	}

	return f, groupCols, aggs, true
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
