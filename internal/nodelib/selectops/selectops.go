// Package selectops registers the column-shaping node types:
// select_by_name, select_by_pos, reorder_columns, clean_tmp_columns,
// and remap_by_name.
package selectops

import (
	"strconv"
	"strings"

	"nodeframe/internal/frame"
	"nodeframe/internal/node"
	"nodeframe/internal/workload"
)

// Register adds every column-shaping node definition to reg.
func Register(reg *node.Registry) {
	node.NewBuilder("select_by_name", "select").
		Input("csv", workload.TypeCsv).
		Input("columns", workload.TypeString).
		Output("csv", workload.TypeCsv).
		OnCompile(func(ctx *node.Context) {
			csv, ok := requireCsv(ctx, "select_by_name")
			if !ok {
				return
			}
			namesW, _ := ctx.GetInputWorkload("columns")
			names, _ := namesW.GetString()
			ctx.SetOutputCsv("csv", csv.Select(splitList(names)))
		}).
		BuildAndRegister(reg)

	node.NewBuilder("select_by_pos", "select").
		Input("csv", workload.TypeCsv).
		Input("positions", workload.TypeString).
		Output("csv", workload.TypeCsv).
		OnCompile(func(ctx *node.Context) {
			csv, ok := requireCsv(ctx, "select_by_pos")
			if !ok {
				return
			}
			posW, _ := ctx.GetInputWorkload("positions")
			posStr, _ := posW.GetString()
			all := csv.ColumnNames()
			var names []string
			for _, p := range splitList(posStr) {
				i, err := strconv.Atoi(p)
				if err != nil || i < 0 || i >= len(all) {
					continue
				}
				names = append(names, all[i])
			}
			ctx.SetOutputCsv("csv", csv.Select(names))
		}).
		BuildAndRegister(reg)

	node.NewBuilder("reorder_columns", "select").
		Input("csv", workload.TypeCsv).
		Input("order", workload.TypeString).
		Output("csv", workload.TypeCsv).
		OnCompile(func(ctx *node.Context) {
			csv, ok := requireCsv(ctx, "reorder_columns")
			if !ok {
				return
			}
			orderW, _ := ctx.GetInputWorkload("order")
			orderStr, _ := orderW.GetString()
			requested := splitList(orderStr)
			seen := make(map[string]bool, len(requested))
			for _, n := range requested {
				seen[n] = true
			}
			final := append([]string{}, requested...)
			for _, n := range csv.ColumnNames() {
				if !seen[n] {
					final = append(final, n)
				}
			}
			ctx.SetOutputCsv("csv", csv.Select(final))
		}).
		BuildAndRegister(reg)

	node.NewBuilder("clean_tmp_columns", "select").
		Input("csv", workload.TypeCsv).
		InputOptional("prefix", workload.TypeString).
		Output("csv", workload.TypeCsv).
		OnCompile(func(ctx *node.Context) {
			csv, ok := requireCsv(ctx, "clean_tmp_columns")
			if !ok {
				return
			}
			prefix := "_tmp_"
			if w, ok := ctx.GetInputWorkload("prefix"); ok && !w.IsNull() {
				if s, err := w.GetString(); err == nil && s != "" {
					prefix = s
				}
			}
			var keep []string
			for _, n := range csv.ColumnNames() {
				if !strings.HasPrefix(n, prefix) {
					keep = append(keep, n)
				}
			}
			ctx.SetOutputCsv("csv", csv.Select(keep))
		}).
		BuildAndRegister(reg)

	node.NewBuilder("remap_by_name", "select").
		Input("csv", workload.TypeCsv).
		Input("from", workload.TypeString).
		Input("to", workload.TypeString).
		Output("csv", workload.TypeCsv).
		OnCompile(func(ctx *node.Context) {
			csv, ok := requireCsv(ctx, "remap_by_name")
			if !ok {
				return
			}
			fromW, _ := ctx.GetInputWorkload("from")
			toW, _ := ctx.GetInputWorkload("to")
			fromList := splitList(mustString(fromW))
			toList := splitList(mustString(toW))

			out := frame.NewWithPool(csv.StringPool())
			renamed := make(map[string]string, len(fromList))
			for i, f := range fromList {
				if i < len(toList) {
					renamed[f] = toList[i]
				}
			}
			for _, name := range csv.ColumnNames() {
				col, _ := csv.GetColumn(name)
				outName := name
				if r, ok := renamed[name]; ok {
					outName = r
				}
				_ = out.AddColumn(outName, col)
			}
			ctx.SetOutputCsv("csv", out)
		}).
		BuildAndRegister(reg)
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

func mustString(w workload.Workload) string {
	s, _ := w.GetString()
	return s
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
