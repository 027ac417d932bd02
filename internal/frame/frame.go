// Package frame implements DataFrame: a named, ordered set of typed
// columns sharing one string pool.
package frame

import (
	"encoding/json"
	"fmt"
	"strconv"

	"nodeframe/internal/column"
	"nodeframe/internal/pool"
)

// Frame is a columnar table. Columns are addressed by name; column
// order is preserved independently of the underlying map.
type Frame struct {
	columns      map[string]column.Column
	columnOrder  []string
	stringPool   *pool.Pool
	rows         int
	defaultedRow int // count of text cells defaulted on parse failure
}

// New returns an empty frame backed by a fresh string pool.
func New() *Frame {
	return &Frame{
		columns:    make(map[string]column.Column),
		stringPool: pool.New(),
	}
}

// NewWithPool returns an empty frame backed by an existing pool, used
// when a frame must share ids with another (e.g. join results).
func NewWithPool(p *pool.Pool) *Frame {
	return &Frame{
		columns:    make(map[string]column.Column),
		stringPool: p,
	}
}

// StringPool returns the frame's shared string pool.
func (f *Frame) StringPool() *pool.Pool { return f.stringPool }

// SetStringPool replaces the frame's pool. Callers are responsible for
// ensuring any existing StringColumn ids remain valid against it.
func (f *Frame) SetStringPool(p *pool.Pool) { f.stringPool = p }

// AddColumn appends col under name, appearing after existing columns in
// iteration order. It fails if a column named name already exists; use
// SetColumn to replace one.
func (f *Frame) AddColumn(name string, col column.Column) error {
	if _, exists := f.columns[name]; exists {
		return fmt.Errorf("frame: column %q already exists", name)
	}
	if f.rows > 0 && col.Len() != f.rows && len(f.columns) > 0 {
		return fmt.Errorf("frame: column %q has %d rows, frame has %d", name, col.Len(), f.rows)
	}
	f.columnOrder = append(f.columnOrder, name)
	f.columns[name] = col
	if col.Len() > f.rows {
		f.rows = col.Len()
	}
	return nil
}

// SetColumn adds col under name, replacing any existing column of the
// same name in place (column order preserved) rather than failing.
func (f *Frame) SetColumn(name string, col column.Column) error {
	if f.rows > 0 && col.Len() != f.rows && len(f.columns) > 0 {
		return fmt.Errorf("frame: column %q has %d rows, frame has %d", name, col.Len(), f.rows)
	}
	if _, exists := f.columns[name]; !exists {
		f.columnOrder = append(f.columnOrder, name)
	}
	f.columns[name] = col
	if col.Len() > f.rows {
		f.rows = col.Len()
	}
	return nil
}

// AddRow appends one row built from textValues, which must hold exactly
// ColumnCount() entries in column order. Each value is parsed against
// its column's native type; a value that fails to parse falls back to
// that type's zero value (0, 0.0, "") and increments the frame's
// defaulted-cell counter, mirroring csvio's ingestion behavior.
func (f *Frame) AddRow(textValues []string) error {
	if len(textValues) != len(f.columnOrder) {
		return fmt.Errorf("frame: add_row needs %d values, got %d", len(f.columnOrder), len(textValues))
	}
	for i, name := range f.columnOrder {
		text := textValues[i]
		switch c := f.columns[name].(type) {
		case *column.IntColumn:
			v, err := strconv.ParseInt(text, 10, 64)
			if err != nil {
				f.RecordDefaultedCell()
				v = 0
			}
			c.Values = append(c.Values, v)
		case *column.DoubleColumn:
			v, err := strconv.ParseFloat(text, 64)
			if err != nil {
				f.RecordDefaultedCell()
				v = 0
			}
			c.Values = append(c.Values, v)
		case *column.StringColumn:
			c.IDs = append(c.IDs, f.stringPool.Intern(text))
		}
	}
	f.rows++
	return nil
}

// AddIntColumn is a convenience wrapper around AddColumn.
func (f *Frame) AddIntColumn(name string, values []int64) error {
	return f.AddColumn(name, column.NewIntColumn(values))
}

// AddDoubleColumn is a convenience wrapper around AddColumn.
func (f *Frame) AddDoubleColumn(name string, values []float64) error {
	return f.AddColumn(name, column.NewDoubleColumn(values))
}

// AddStringColumn interns values into the frame's pool and adds a
// StringColumn.
func (f *Frame) AddStringColumn(name string, values []string) error {
	return f.AddColumn(name, f.newStringColumn(values))
}

// SetIntColumn is a convenience wrapper around SetColumn.
func (f *Frame) SetIntColumn(name string, values []int64) error {
	return f.SetColumn(name, column.NewIntColumn(values))
}

// SetDoubleColumn is a convenience wrapper around SetColumn.
func (f *Frame) SetDoubleColumn(name string, values []float64) error {
	return f.SetColumn(name, column.NewDoubleColumn(values))
}

// SetStringColumn interns values into the frame's pool and sets name to
// a StringColumn, replacing any existing column of that name.
func (f *Frame) SetStringColumn(name string, values []string) error {
	return f.SetColumn(name, f.newStringColumn(values))
}

func (f *Frame) newStringColumn(values []string) *column.StringColumn {
	ids := make([]uint32, len(values))
	for i, v := range values {
		ids[i] = f.stringPool.Intern(v)
	}
	return column.NewStringColumn(ids, f.stringPool)
}

// GetColumn returns the named column, or nil, ok=false.
func (f *Frame) GetColumn(name string) (column.Column, bool) {
	c, ok := f.columns[name]
	return c, ok
}

// HasColumn reports whether name exists.
func (f *Frame) HasColumn(name string) bool {
	_, ok := f.columns[name]
	return ok
}

// ColumnNames returns column names in their defined order.
func (f *Frame) ColumnNames() []string {
	out := make([]string, len(f.columnOrder))
	copy(out, f.columnOrder)
	return out
}

// ColumnCount returns the number of columns.
func (f *Frame) ColumnCount() int { return len(f.columnOrder) }

// RowCount returns the number of rows.
func (f *Frame) RowCount() int { return f.rows }

// Empty reports whether the frame has zero rows.
func (f *Frame) Empty() bool { return f.rows == 0 }

// RecordDefaultedCell increments the counter of text cells that fell
// back to a zero value on parse failure.
func (f *Frame) RecordDefaultedCell() { f.defaultedRow++ }

// DefaultedCellCount returns how many cells were defaulted on parse
// failure, during CSV ingestion or AddRow.
func (f *Frame) DefaultedCellCount() int { return f.defaultedRow }

// FilterByIndices returns a new frame containing only the given rows,
// in the given order, sharing this frame's string pool.
func (f *Frame) FilterByIndices(indices []int) *Frame {
	out := NewWithPool(f.stringPool)
	for _, name := range f.columnOrder {
		col := f.columns[name]
		_ = out.AddColumn(name, col.FilterByIndices(indices))
	}
	return out
}

// Select projects the frame down to the named columns, preserving the
// requested order. Unknown names are skipped.
func (f *Frame) Select(names []string) *Frame {
	out := NewWithPool(f.stringPool)
	for _, name := range names {
		col, ok := f.columns[name]
		if !ok {
			continue
		}
		_ = out.AddColumn(name, col)
	}
	return out
}

// Clone deep-copies every column but shares the string pool.
func (f *Frame) Clone() *Frame {
	out := NewWithPool(f.stringPool)
	out.rows = f.rows
	for _, name := range f.columnOrder {
		_ = out.AddColumn(name, f.columns[name].Clone())
	}
	return out
}

// jsonFrame is the wire shape used by ToJSON/ToJSONWithSchema,
// matching internal/output's payload-struct idiom.
type jsonFrame struct {
	Columns []string `json:"columns"`
	Schema  []string `json:"schema,omitempty"`
	Data    [][]any  `json:"data"`
}

// ToJSON renders the frame as {columns, data} with native JSON types.
func (f *Frame) ToJSON() (string, error) {
	return f.encode(false)
}

// ToJSONWithSchema additionally emits a parallel "schema" array naming
// each column's kind.
func (f *Frame) ToJSONWithSchema() (string, error) {
	return f.encode(true)
}

func (f *Frame) encode(withSchema bool) (string, error) {
	payload := jsonFrame{Columns: f.columnOrder}
	if withSchema {
		for _, name := range f.columnOrder {
			payload.Schema = append(payload.Schema, kindName(f.columns[name].Kind()))
		}
	}
	payload.Data = make([][]any, f.rows)
	for r := 0; r < f.rows; r++ {
		row := make([]any, len(f.columnOrder))
		for i, name := range f.columnOrder {
			row[i] = f.cellValue(name, r)
		}
		payload.Data[r] = row
	}
	b, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b) + "\n", nil
}

func (f *Frame) cellValue(name string, row int) any {
	col := f.columns[name]
	switch c := col.(type) {
	case *column.IntColumn:
		if row < len(c.Values) {
			return c.Values[row]
		}
	case *column.DoubleColumn:
		if row < len(c.Values) {
			return c.Values[row]
		}
	case *column.StringColumn:
		return c.At(row)
	}
	return nil
}

func kindName(k column.Kind) string {
	switch k {
	case column.KindInt:
		return "int"
	case column.KindDouble:
		return "double"
	case column.KindString:
		return "string"
	}
	return "unknown"
}
