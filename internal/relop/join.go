package relop

import (
	"fmt"
	"math"

	"nodeframe/internal/column"
	"nodeframe/internal/frame"
	"nodeframe/internal/pool"
)

// JoinMode controls how unmatched or multiply-matched rows are
// represented in a FlexJoin's three output partitions.
type JoinMode int

const (
	KeepAll JoinMode = iota
	KeepHeaderOnly
	KeepLeftOnly
	Skip
)

// KeyMapping pairs a left column name with its right counterpart.
type KeyMapping struct {
	Left  string
	Right string
}

// FlexJoinOptions controls per-partition behavior of FlexJoin.
type FlexJoinOptions struct {
	NoMatchMode       JoinMode
	SingleMatchMode   JoinMode
	MultipleMatchMode JoinMode
}

// DefaultFlexJoinOptions mirrors the original's defaults.
func DefaultFlexJoinOptions() FlexJoinOptions {
	return FlexJoinOptions{
		NoMatchMode:       KeepHeaderOnly,
		SingleMatchMode:   KeepAll,
		MultipleMatchMode: KeepAll,
	}
}

// FlexJoinResult partitions output rows by match cardinality.
type FlexJoinResult struct {
	NoMatch       *frame.Frame
	SingleMatch   *frame.Frame
	MultipleMatch *frame.Frame
}

type joinKey struct {
	values []uint64
}

func extractKeyValue(col column.Column, row int, targetPool *pool.Pool) (uint64, error) {
	switch c := col.(type) {
	case *column.IntColumn:
		return uint64(c.Values[row]), nil
	case *column.DoubleColumn:
		return math.Float64bits(c.Values[row]), nil
	case *column.StringColumn:
		return uint64(targetPool.Intern(c.At(row))), nil
	}
	return 0, fmt.Errorf("relop: unsupported join key column type")
}

func keyColumnsMatch(left, right column.Column) bool {
	return left.Kind() == right.Kind()
}

// InnerJoin joins left and right on the given key mappings, keeping
// only rows with a match on both sides. A fresh result pool is used so
// string values from both sides carry consistent ids; the smaller side
// (by row count) builds the hash table, matching the original's
// build-side selection.
func InnerJoin(left, right *frame.Frame, keys []KeyMapping) (*frame.Frame, error) {
	if err := validateKeys(left, right, keys); err != nil {
		return nil, err
	}

	resultPool := pool.New()
	buildFromLeft := left.RowCount() <= right.RowCount()

	var buildFrame, probeFrame *frame.Frame
	var buildKeyNames, probeKeyNames []string
	if buildFromLeft {
		buildFrame, probeFrame = left, right
		for _, k := range keys {
			buildKeyNames = append(buildKeyNames, k.Left)
			probeKeyNames = append(probeKeyNames, k.Right)
		}
	} else {
		buildFrame, probeFrame = right, left
		for _, k := range keys {
			buildKeyNames = append(buildKeyNames, k.Right)
			probeKeyNames = append(probeKeyNames, k.Left)
		}
	}

	index, err := buildHashTable(buildFrame, buildKeyNames, resultPool)
	if err != nil {
		return nil, err
	}

	out := frame.NewWithPool(resultPool)
	schema := buildJoinSchema(left, right, keys)

	var leftRows, rightRows []int
	for probeRow := 0; probeRow < probeFrame.RowCount(); probeRow++ {
		key, err := rowKey(probeFrame, probeKeyNames, probeRow, resultPool)
		if err != nil {
			return nil, err
		}
		matches, ok := index[toKeyString(key)]
		if !ok {
			continue
		}
		for _, buildRow := range matches {
			if buildFromLeft {
				leftRows = append(leftRows, buildRow)
				rightRows = append(rightRows, probeRow)
			} else {
				leftRows = append(leftRows, probeRow)
				rightRows = append(rightRows, buildRow)
			}
		}
	}

	return assembleJoinOutput(out, schema, left, right, leftRows, rightRows)
}

type joinColumnRef struct {
	name   string
	source column.Column
	from   string // "left" or "right"
	orig   string
}

type joinSchema struct {
	keyCols   []joinColumnRef
	leftCols  []joinColumnRef
	rightCols []joinColumnRef
}

func buildJoinSchema(left, right *frame.Frame, keys []KeyMapping) joinSchema {
	var schema joinSchema
	used := make(map[string]bool)

	for _, k := range keys {
		c, _ := left.GetColumn(k.Left)
		schema.keyCols = append(schema.keyCols, joinColumnRef{name: k.Left, source: c, from: "left", orig: k.Left})
		used[k.Left] = true
	}

	leftKeySet := make(map[string]bool)
	for _, k := range keys {
		leftKeySet[k.Left] = true
	}
	rightKeySet := make(map[string]bool)
	for _, k := range keys {
		rightKeySet[k.Right] = true
	}

	for _, name := range left.ColumnNames() {
		if leftKeySet[name] {
			continue
		}
		outName := name
		if used[outName] {
			outName = name + "_left"
		}
		used[outName] = true
		c, _ := left.GetColumn(name)
		schema.leftCols = append(schema.leftCols, joinColumnRef{name: outName, source: c, from: "left", orig: name})
	}

	for _, name := range right.ColumnNames() {
		if rightKeySet[name] {
			continue
		}
		outName := name
		if used[outName] {
			outName = name + "_right"
		}
		used[outName] = true
		c, _ := right.GetColumn(name)
		schema.rightCols = append(schema.rightCols, joinColumnRef{name: outName, source: c, from: "right", orig: name})
	}

	return schema
}

func emptyColumnLike(c column.Column) column.Column {
	return c.FilterByIndices(nil)
}

// rebindToPool returns col unchanged unless it is a StringColumn whose
// ids reference a different pool than target, in which case its values
// are re-interned into target. Every join result frame is built with its
// own fresh pool, so gathered string payload columns must be rebound to
// it to keep every String column pointing at its owning frame's pool.
func rebindToPool(col column.Column, target *pool.Pool) column.Column {
	sc, ok := col.(*column.StringColumn)
	if !ok || sc.Pool == target {
		return col
	}
	ids := make([]uint32, sc.Len())
	for i := range ids {
		ids[i] = target.Intern(sc.At(i))
	}
	return column.NewStringColumn(ids, target)
}

func assembleJoinOutput(out *frame.Frame, schema joinSchema, left, right *frame.Frame, leftRows, rightRows []int) (*frame.Frame, error) {
	resultPool := out.StringPool()
	for _, col := range schema.keyCols {
		c, _ := left.GetColumn(col.orig)
		if err := out.AddColumn(col.name, rebindToPool(c.FilterByIndices(leftRows), resultPool)); err != nil {
			return nil, err
		}
	}
	for _, col := range schema.leftCols {
		c, _ := left.GetColumn(col.orig)
		if err := out.AddColumn(col.name, rebindToPool(c.FilterByIndices(leftRows), resultPool)); err != nil {
			return nil, err
		}
	}
	for _, col := range schema.rightCols {
		c, _ := right.GetColumn(col.orig)
		if err := out.AddColumn(col.name, rebindToPool(c.FilterByIndices(rightRows), resultPool)); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func validateKeys(left, right *frame.Frame, keys []KeyMapping) error {
	if len(keys) == 0 {
		return fmt.Errorf("relop: join requires at least one key mapping")
	}
	for _, k := range keys {
		lc, ok := left.GetColumn(k.Left)
		if !ok {
			return fmt.Errorf("relop: left column %q not found", k.Left)
		}
		rc, ok := right.GetColumn(k.Right)
		if !ok {
			return fmt.Errorf("relop: right column %q not found", k.Right)
		}
		if !keyColumnsMatch(lc, rc) {
			return fmt.Errorf("relop: join key type mismatch on %q/%q", k.Left, k.Right)
		}
	}
	return nil
}

func buildHashTable(f *frame.Frame, keyNames []string, resultPool *pool.Pool) (map[string][]int, error) {
	cols := make([]column.Column, len(keyNames))
	for i, name := range keyNames {
		c, ok := f.GetColumn(name)
		if !ok {
			return nil, fmt.Errorf("relop: column %q not found", name)
		}
		cols[i] = c
	}
	index := make(map[string][]int)
	for row := 0; row < f.RowCount(); row++ {
		values := make([]uint64, len(cols))
		for i, c := range cols {
			v, err := extractKeyValue(c, row, resultPool)
			if err != nil {
				return nil, err
			}
			values[i] = v
		}
		ks := toKeyString(joinKey{values: values})
		index[ks] = append(index[ks], row)
	}
	return index, nil
}

func rowKey(f *frame.Frame, keyNames []string, row int, resultPool *pool.Pool) (joinKey, error) {
	values := make([]uint64, len(keyNames))
	for i, name := range keyNames {
		c, ok := f.GetColumn(name)
		if !ok {
			return joinKey{}, fmt.Errorf("relop: column %q not found", name)
		}
		v, err := extractKeyValue(c, row, resultPool)
		if err != nil {
			return joinKey{}, err
		}
		values[i] = v
	}
	return joinKey{values: values}, nil
}

func toKeyString(k joinKey) string {
	return keyString(groupKey{values: k.values})
}

// FlexJoin joins left and right on keys, partitioning output rows by
// match cardinality per opts. Rows with zero matches go to NoMatch,
// rows with exactly one match to SingleMatch, rows with more than one
// to MultipleMatch; a JoinMode of Skip drops that partition entirely,
// KeepHeaderOnly keeps the left-side rows with every right-side cell set
// to its type's zero value (0, 0.0, or ""), KeepLeftOnly keeps
// only the left-side columns (no right-side join), KeepAll keeps the
// fully joined row.
func FlexJoin(left, right *frame.Frame, keys []KeyMapping, opts FlexJoinOptions) (*FlexJoinResult, error) {
	if err := validateKeys(left, right, keys); err != nil {
		return nil, err
	}

	var rightKeyNames []string
	for _, k := range keys {
		rightKeyNames = append(rightKeyNames, k.Right)
	}

	resultPool := pool.New()
	index, err := buildHashTable(right, rightKeyNames, resultPool)
	if err != nil {
		return nil, err
	}

	schema := buildJoinSchema(left, right, keys)

	var noMatchRows, singleLeftRows, singleRightRows, multiLeftRows, multiRightRows []int

	for row := 0; row < left.RowCount(); row++ {
		var leftKeyNames []string
		for _, k := range keys {
			leftKeyNames = append(leftKeyNames, k.Left)
		}
		key, err := rowKey(left, leftKeyNames, row, resultPool)
		if err != nil {
			return nil, err
		}
		matches := index[toKeyString(key)]
		switch len(matches) {
		case 0:
			noMatchRows = append(noMatchRows, row)
		case 1:
			singleLeftRows = append(singleLeftRows, row)
			singleRightRows = append(singleRightRows, matches[0])
		default:
			for _, m := range matches {
				multiLeftRows = append(multiLeftRows, row)
				multiRightRows = append(multiRightRows, m)
			}
		}
	}

	noMatch, err := buildPartition(opts.NoMatchMode, schema, left, right, noMatchRows, nil)
	if err != nil {
		return nil, err
	}
	single, err := buildPartition(opts.SingleMatchMode, schema, left, right, singleLeftRows, singleRightRows)
	if err != nil {
		return nil, err
	}
	multi, err := buildPartition(opts.MultipleMatchMode, schema, left, right, multiLeftRows, multiRightRows)
	if err != nil {
		return nil, err
	}

	return &FlexJoinResult{NoMatch: noMatch, SingleMatch: single, MultipleMatch: multi}, nil
}

func buildPartition(mode JoinMode, schema joinSchema, left, right *frame.Frame, leftRows, rightRows []int) (*frame.Frame, error) {
	resultPool := pool.New()
	out := frame.NewWithPool(resultPool)

	switch mode {
	case Skip:
		return nil, nil
	case KeepHeaderOnly:
		for _, col := range schema.keyCols {
			c, _ := left.GetColumn(col.orig)
			if err := out.AddColumn(col.name, rebindToPool(c.FilterByIndices(leftRows), resultPool)); err != nil {
				return nil, err
			}
		}
		for _, col := range schema.leftCols {
			c, _ := left.GetColumn(col.orig)
			if err := out.AddColumn(col.name, rebindToPool(c.FilterByIndices(leftRows), resultPool)); err != nil {
				return nil, err
			}
		}
		for _, col := range schema.rightCols {
			if err := out.AddColumn(col.name, defaultColumn(col.source, len(leftRows), resultPool)); err != nil {
				return nil, err
			}
		}
		return out, nil
	case KeepLeftOnly:
		for _, col := range schema.keyCols {
			c, _ := left.GetColumn(col.orig)
			if err := out.AddColumn(col.name, rebindToPool(c.FilterByIndices(leftRows), resultPool)); err != nil {
				return nil, err
			}
		}
		for _, col := range schema.leftCols {
			c, _ := left.GetColumn(col.orig)
			if err := out.AddColumn(col.name, rebindToPool(c.FilterByIndices(leftRows), resultPool)); err != nil {
				return nil, err
			}
		}
		return out, nil
	case KeepAll:
		hasMatches := len(rightRows) == len(leftRows) && len(leftRows) > 0
		for _, col := range schema.keyCols {
			c, _ := left.GetColumn(col.orig)
			if err := out.AddColumn(col.name, rebindToPool(c.FilterByIndices(leftRows), resultPool)); err != nil {
				return nil, err
			}
		}
		for _, col := range schema.leftCols {
			c, _ := left.GetColumn(col.orig)
			if err := out.AddColumn(col.name, rebindToPool(c.FilterByIndices(leftRows), resultPool)); err != nil {
				return nil, err
			}
		}
		for _, col := range schema.rightCols {
			if hasMatches {
				c, _ := right.GetColumn(col.orig)
				if err := out.AddColumn(col.name, rebindToPool(c.FilterByIndices(rightRows), resultPool)); err != nil {
					return nil, err
				}
				continue
			}
			if err := out.AddColumn(col.name, defaultColumn(col.source, len(leftRows), resultPool)); err != nil {
				return nil, err
			}
		}
		return out, nil
	}
	return out, nil
}

// defaultColumn builds a column of n native-type zero values (0, 0.0,
// or ""), used to fill unmatched right-side cells in a KeepAll or
// KeepHeaderOnly no-match partition without dropping the left-side row.
func defaultColumn(like column.Column, n int, targetPool *pool.Pool) column.Column {
	switch like.(type) {
	case *column.IntColumn:
		return column.NewIntColumn(make([]int64, n))
	case *column.DoubleColumn:
		return column.NewDoubleColumn(make([]float64, n))
	case *column.StringColumn:
		ids := make([]uint32, n)
		id := targetPool.Intern("")
		for i := range ids {
			ids[i] = id
		}
		return column.NewStringColumn(ids, targetPool)
	}
	return like.FilterByIndices(nil)
}
