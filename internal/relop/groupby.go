// Package relop implements the relational operators layered on top of
// frame.Frame: group-by (flat and hierarchical), pivot, and the two
// join variants.
package relop

import (
	"encoding/json"
	"math"
	"strconv"

	"nodeframe/internal/column"
	"nodeframe/internal/frame"
	"nodeframe/internal/pool"
)

// AggFunc names a supported aggregation.
type AggFunc string

const (
	AggCount AggFunc = "count"
	AggSum   AggFunc = "sum"
	AggAvg   AggFunc = "avg"
	AggMin   AggFunc = "min"
	AggMax   AggFunc = "max"
	AggFirst AggFunc = "first"
	AggBlank AggFunc = "blank"
	AggNone  AggFunc = "none"
)

// Aggregation names one output column and how to compute it.
type Aggregation struct {
	Column string
	Func   AggFunc
	As     string // output column name, defaults to Column if empty
}

// groupKey is a composite key of up-to-64-bit slots, one per group
// column, mirroring the original's GroupKey/GroupKeyHash scheme.
type groupKey struct {
	values []uint64
}

func keyString(k groupKey) string {
	b := make([]byte, len(k.values)*8)
	for i, v := range k.values {
		for j := 0; j < 8; j++ {
			b[i*8+j] = byte(v >> (8 * j))
		}
	}
	return string(b)
}

func extractSlot(col column.Column, row int) uint64 {
	switch c := col.(type) {
	case *column.IntColumn:
		return uint64(c.Values[row])
	case *column.DoubleColumn:
		return math.Float64bits(c.Values[row])
	case *column.StringColumn:
		return uint64(c.IDs[row])
	}
	return 0
}

// GroupBy groups f by groupCols and computes aggs, returning a new
// frame with one row per distinct group. Group representative values
// are taken from the first row seen for that key; groups are emitted
// in first-sighting order for deterministic output across calls.
func GroupBy(f *frame.Frame, groupCols []string, aggs []Aggregation) (*frame.Frame, error) {
	type group struct {
		key  groupKey
		rows []int
	}
	index := make(map[string]int)
	var groups []group

	groupColumns := make([]column.Column, len(groupCols))
	for i, name := range groupCols {
		c, ok := f.GetColumn(name)
		if !ok {
			continue
		}
		groupColumns[i] = c
	}

	for row := 0; row < f.RowCount(); row++ {
		key := groupKey{values: make([]uint64, len(groupCols))}
		for i, c := range groupColumns {
			if c == nil {
				continue
			}
			key.values[i] = extractSlot(c, row)
		}
		ks := keyString(key)
		if idx, ok := index[ks]; ok {
			groups[idx].rows = append(groups[idx].rows, row)
			continue
		}
		index[ks] = len(groups)
		groups = append(groups, group{key: key, rows: []int{row}})
	}

	out := frame.NewWithPool(f.StringPool())

	for _, name := range groupCols {
		c, ok := f.GetColumn(name)
		if !ok {
			continue
		}
		reps := make([]int, len(groups))
		for g, grp := range groups {
			reps[g] = grp.rows[0]
		}
		if err := out.AddColumn(name, c.FilterByIndices(reps)); err != nil {
			return nil, err
		}
	}

	for _, agg := range aggs {
		outName := agg.As
		if outName == "" {
			outName = agg.Column
		}
		srcCol, hasSrc := f.GetColumn(agg.Column)

		switch agg.Func {
		case AggCount:
			counts := make([]int64, len(groups))
			for g, grp := range groups {
				counts[g] = int64(len(grp.rows))
			}
			if err := out.AddIntColumn(outName, counts); err != nil {
				return nil, err
			}
		case AggSum, AggAvg, AggMin, AggMax:
			values := make([]float64, len(groups))
			if hasSrc {
				for g, grp := range groups {
					values[g] = computeNumeric(srcCol, grp.rows, agg.Func)
				}
			}
			if err := out.AddDoubleColumn(outName, values); err != nil {
				return nil, err
			}
		case AggFirst:
			if !hasSrc {
				continue
			}
			reps := make([]int, len(groups))
			for g, grp := range groups {
				reps[g] = grp.rows[0]
			}
			if err := out.AddColumn(outName, srcCol.FilterByIndices(reps)); err != nil {
				return nil, err
			}
		}
	}

	return out, nil
}

func computeNumeric(col column.Column, rows []int, fn AggFunc) float64 {
	var sum float64
	var min, max float64
	initialized := false
	for _, r := range rows {
		v := numericAt(col, r)
		sum += v
		if !initialized {
			min, max = v, v
			initialized = true
			continue
		}
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	switch fn {
	case AggSum:
		return sum
	case AggAvg:
		if len(rows) == 0 {
			return 0
		}
		return sum / float64(len(rows))
	case AggMin:
		return min
	case AggMax:
		return max
	}
	return 0
}

func numericAt(col column.Column, row int) float64 {
	switch c := col.(type) {
	case *column.IntColumn:
		return float64(c.Values[row])
	case *column.DoubleColumn:
		return c.Values[row]
	}
	return 0
}

// TreeNode is one row of a hierarchical group-by-tree result. Rows
// holds every source row folded into this group, used to render the
// leaf-level _children array of raw rows.
type TreeNode struct {
	Values   map[string]any
	Children []*TreeNode
	Rows     []int
}

// GroupByTree groups f hierarchically by groupCols (outermost first),
// applying aggs at every level, producing nested TreeNodes. TreeNode
// has no JSON tags; TreeJSON renders the {columns, data, _children}
// wire shape from them.
func GroupByTree(f *frame.Frame, groupCols []string, aggs []Aggregation) ([]*TreeNode, error) {
	return groupByTreeLevel(f, sortedRowIndices(f), groupCols, aggs)
}

func sortedRowIndices(f *frame.Frame) []int {
	idx := make([]int, f.RowCount())
	for i := range idx {
		idx[i] = i
	}
	return idx
}

func groupByTreeLevel(f *frame.Frame, rows []int, groupCols []string, aggs []Aggregation) ([]*TreeNode, error) {
	if len(groupCols) == 0 {
		return nil, nil
	}
	col, ok := f.GetColumn(groupCols[0])
	if !ok {
		return nil, nil
	}

	var order []string
	buckets := make(map[string][]int)
	for _, r := range rows {
		ks := keyString(groupKey{values: []uint64{extractSlot(col, r)}})
		if _, seen := buckets[ks]; !seen {
			order = append(order, ks)
		}
		buckets[ks] = append(buckets[ks], r)
	}

	nodes := make([]*TreeNode, 0, len(order))
	for _, ks := range order {
		groupRows := buckets[ks]
		rep := groupRows[0]
		node := &TreeNode{Values: map[string]any{groupCols[0]: cellAt(col, rep)}, Rows: groupRows}
		for _, agg := range aggs {
			outName := agg.As
			if outName == "" {
				outName = agg.Column
			}
			node.Values[outName] = computeTreeAgg(f, groupRows, agg)
		}
		if len(groupCols) > 1 {
			children, err := groupByTreeLevel(f, groupRows, groupCols[1:], aggs)
			if err != nil {
				return nil, err
			}
			node.Children = children
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

func computeTreeAgg(f *frame.Frame, rows []int, agg Aggregation) any {
	switch agg.Func {
	case AggCount:
		return int64(len(rows))
	case AggBlank, AggNone, "":
		return nil
	case AggFirst:
		c, ok := f.GetColumn(agg.Column)
		if !ok || len(rows) == 0 {
			return nil
		}
		return cellAt(c, rows[0])
	case AggSum, AggAvg, AggMin, AggMax:
		c, ok := f.GetColumn(agg.Column)
		if !ok {
			return nil
		}
		return computeNumeric(c, rows, agg.Func)
	}
	return nil
}

func cellAt(col column.Column, row int) any {
	switch c := col.(type) {
	case *column.IntColumn:
		return c.Values[row]
	case *column.DoubleColumn:
		return c.Values[row]
	case *column.StringColumn:
		return c.At(row)
	}
	return nil
}

// TreeJSON renders GroupByTree's result in the columnar {columns,data}
// shape: columns are [this level's group column, every aggregation's
// output name], and each row's trailing element is that row's nested
// children — a further {columns,data} level if more group columns
// remain, otherwise the _children array of full source rows (one
// value per column of f), matching groupByTree's wire format
// (DataFrameAggregator.cpp:298-339).
func TreeJSON(f *frame.Frame, groupCols []string, aggs []Aggregation, nodes []*TreeNode) (string, error) {
	b, err := json.MarshalIndent(treeLevelJSON(f, groupCols, aggs, nodes), "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func treeLevelJSON(f *frame.Frame, groupCols []string, aggs []Aggregation, nodes []*TreeNode) map[string]any {
	aggNames := make([]string, len(aggs))
	for i, agg := range aggs {
		name := agg.As
		if name == "" {
			name = agg.Column
		}
		aggNames[i] = name
	}
	columns := append([]string{groupCols[0]}, aggNames...)

	data := make([][]any, 0, len(nodes))
	for _, n := range nodes {
		row := make([]any, 0, len(columns)+1)
		row = append(row, n.Values[groupCols[0]])
		for _, name := range aggNames {
			row = append(row, n.Values[name])
		}
		if len(groupCols) > 1 {
			row = append(row, treeLevelJSON(f, groupCols[1:], aggs, n.Children))
		} else {
			row = append(row, rawChildRows(f, n.Rows))
		}
		data = append(data, row)
	}
	return map[string]any{"columns": columns, "data": data}
}

// rawChildRows flattens rows into the leaf _children array: one array
// per source row, one value per column of f in column order.
func rawChildRows(f *frame.Frame, rows []int) [][]any {
	allColumns := f.ColumnNames()
	out := make([][]any, len(rows))
	for i, r := range rows {
		row := make([]any, len(allColumns))
		for j, name := range allColumns {
			c, _ := f.GetColumn(name)
			row[j] = cellAt(c, r)
		}
		out[i] = row
	}
	return out
}

// pivotGroup is one distinct index-column combination in a pivot,
// identified by its row of first occurrence (rep) and every source row
// folding into it.
type pivotGroup struct {
	rep  int
	rows []int
}

// pivotGroups buckets f's rows by the composite text key of indexCols,
// in first-sighting order, shared by Pivot and PivotJSON.
func pivotGroups(f *frame.Frame, indexCols []string) ([]string, map[string]*pivotGroup) {
	order := make([]string, 0)
	groups := make(map[string]*pivotGroup)

	indexColumns := make([]column.Column, len(indexCols))
	for i, name := range indexCols {
		c, _ := f.GetColumn(name)
		indexColumns[i] = c
	}

	for row := 0; row < f.RowCount(); row++ {
		var ks string
		for _, c := range indexColumns {
			if c == nil {
				continue
			}
			ks += valueToString(c, row) + "\x1f"
		}
		g, ok := groups[ks]
		if !ok {
			g = &pivotGroup{rep: row}
			groups[ks] = g
			order = append(order, ks)
		}
		g.rows = append(g.rows, row)
	}
	return order, groups
}

// distinctPivotValues lists pivotCol's values in first-sighting order;
// each becomes one pivoted output column (optionally prefix-qualified).
func distinctPivotValues(f *frame.Frame, pivotCol column.Column) []string {
	var values []string
	seen := make(map[string]bool)
	for row := 0; row < f.RowCount(); row++ {
		s := valueToString(pivotCol, row)
		if !seen[s] {
			seen[s] = true
			values = append(values, s)
		}
	}
	return values
}

// pivotColumnFor allocates n cells of kind, defaulted to that type's
// zero value, used to seed a pivoted column before it is filled.
func pivotColumnFor(kind column.Kind, n int, p *pool.Pool) column.Column {
	switch kind {
	case column.KindInt:
		return column.NewIntColumn(make([]int64, n))
	case column.KindDouble:
		return column.NewDoubleColumn(make([]float64, n))
	case column.KindString:
		ids := make([]uint32, n)
		blank := p.Intern("")
		for i := range ids {
			ids[i] = blank
		}
		return column.NewStringColumn(ids, p)
	}
	return column.NewIntColumn(make([]int64, n))
}

// setPivotCell copies src[srcRow] into dst[dstRow], both assumed to
// share dst's kind (the caller builds dst from valueCol's own kind).
func setPivotCell(dst column.Column, dstRow int, src column.Column, srcRow int) {
	switch d := dst.(type) {
	case *column.IntColumn:
		if s, ok := src.(*column.IntColumn); ok {
			d.Values[dstRow] = s.Values[srcRow]
		}
	case *column.DoubleColumn:
		if s, ok := src.(*column.DoubleColumn); ok {
			d.Values[dstRow] = s.Values[srcRow]
		}
	case *column.StringColumn:
		if s, ok := src.(*column.StringColumn); ok {
			d.IDs[dstRow] = d.Pool.Intern(s.At(srcRow))
		}
	}
}

// Pivot reshapes f by spreading distinct values of pivotCol into new
// columns holding valueCol, grouped by indexCols (defaulting to every
// other column when indexCols is nil). When several rows of one group
// share a pivot value, the last such row's value is kept, as in
// PivotJSON. Pivoted columns keep valueCol's
// native type (int/double/string) rather than being widened to double,
// and their names are prefix-qualified when prefix is non-empty.
func Pivot(f *frame.Frame, pivotCol, valueCol string, indexCols []string, prefix string) (*frame.Frame, error) {
	pc, ok := f.GetColumn(pivotCol)
	if !ok {
		return nil, nil
	}
	vc, ok := f.GetColumn(valueCol)
	if !ok {
		return nil, nil
	}

	if indexCols == nil {
		for _, name := range f.ColumnNames() {
			if name != pivotCol && name != valueCol {
				indexCols = append(indexCols, name)
			}
		}
	}

	pivotValues := distinctPivotValues(f, pc)
	order, groups := pivotGroups(f, indexCols)

	out := frame.NewWithPool(f.StringPool())
	for _, name := range indexCols {
		c, ok := f.GetColumn(name)
		if !ok {
			continue
		}
		reps := make([]int, len(order))
		for i, ks := range order {
			reps[i] = groups[ks].rep
		}
		if err := out.AddColumn(name, c.FilterByIndices(reps)); err != nil {
			return nil, err
		}
	}

	for _, pv := range pivotValues {
		col := pivotColumnFor(vc.Kind(), len(order), out.StringPool())
		for gi, ks := range order {
			g := groups[ks]
			for _, row := range g.rows {
				if valueToString(pc, row) == pv {
					setPivotCell(col, gi, vc, row)
				}
			}
		}
		if err := out.AddColumn(prefix+pv, col); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// PivotJSON performs the same reshape as Pivot but renders the result
// as a JSON array of row objects keyed by column name (one key per
// index column, one per prefix-qualified pivot value), matching the
// original's object-per-row pivot rather than pivotToDataFrame's
// columnar frame form.
func PivotJSON(f *frame.Frame, pivotCol, valueCol string, indexCols []string, prefix string) (string, error) {
	pc, ok := f.GetColumn(pivotCol)
	if !ok {
		return "[]", nil
	}
	vc, ok := f.GetColumn(valueCol)
	if !ok {
		return "[]", nil
	}

	if indexCols == nil {
		for _, name := range f.ColumnNames() {
			if name != pivotCol && name != valueCol {
				indexCols = append(indexCols, name)
			}
		}
	}

	pivotValues := distinctPivotValues(f, pc)
	order, groups := pivotGroups(f, indexCols)

	rows := make([]map[string]any, 0, len(order))
	for _, ks := range order {
		g := groups[ks]
		row := make(map[string]any, len(indexCols)+len(pivotValues))
		for _, name := range indexCols {
			c, ok := f.GetColumn(name)
			if !ok {
				continue
			}
			row[name] = cellAt(c, g.rep)
		}
		for _, pv := range pivotValues {
			row[prefix+pv] = nil
		}
		for _, r := range g.rows {
			row[prefix+valueToString(pc, r)] = cellAt(vc, r)
		}
		rows = append(rows, row)
	}

	b, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func valueToString(col column.Column, row int) string {
	switch c := col.(type) {
	case *column.IntColumn:
		return strconv.FormatInt(c.Values[row], 10)
	case *column.DoubleColumn:
		return strconv.FormatFloat(c.Values[row], 'g', -1, 64)
	case *column.StringColumn:
		return c.At(row)
	}
	return ""
}
