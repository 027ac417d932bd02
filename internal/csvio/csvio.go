// Package csvio reads and writes frame.Frame values as CSV files,
// backing the csv_source/output node types. Column types are inferred
// from the first data row: a cell parsing as an integer becomes an int
// column, a cell parsing as a float becomes a double column, otherwise
// the column is a string column for its full height. A cell that
// fails to parse against its column's inferred type falls back to that
// type's zero value and increments the frame's defaulted-cell counter
// rather than failing the whole read.
package csvio

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"nodeframe/internal/column"
	"nodeframe/internal/frame"
)

// ReadFile parses the CSV file at path into a frame.
func ReadFile(path string) (*frame.Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

// Read parses CSV data from r into a frame.
func Read(r io.Reader) (*frame.Frame, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return frame.New(), nil
		}
		return nil, err
	}

	var rows [][]string
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	out := frame.New()
	kinds := make([]column.Kind, len(header))
	for col := range header {
		kinds[col] = inferKind(rows, col)
	}

	for col, name := range header {
		switch kinds[col] {
		case column.KindInt:
			values := make([]int64, len(rows))
			for r, row := range rows {
				v, err := strconv.ParseInt(cellOrEmpty(row, col), 10, 64)
				if err != nil {
					out.RecordDefaultedCell()
					continue
				}
				values[r] = v
			}
			if err := out.AddIntColumn(name, values); err != nil {
				return nil, err
			}
		case column.KindDouble:
			values := make([]float64, len(rows))
			for r, row := range rows {
				v, err := strconv.ParseFloat(cellOrEmpty(row, col), 64)
				if err != nil {
					out.RecordDefaultedCell()
					continue
				}
				values[r] = v
			}
			if err := out.AddDoubleColumn(name, values); err != nil {
				return nil, err
			}
		default:
			values := make([]string, len(rows))
			for r, row := range rows {
				values[r] = cellOrEmpty(row, col)
			}
			if err := out.AddStringColumn(name, values); err != nil {
				return nil, err
			}
		}
	}

	return out, nil
}

func cellOrEmpty(row []string, col int) string {
	if col < len(row) {
		return row[col]
	}
	return ""
}

func inferKind(rows [][]string, col int) column.Kind {
	if len(rows) == 0 {
		return column.KindString
	}
	sample := cellOrEmpty(rows[0], col)
	if _, err := strconv.ParseInt(sample, 10, 64); err == nil {
		return column.KindInt
	}
	if _, err := strconv.ParseFloat(sample, 64); err == nil {
		return column.KindDouble
	}
	return column.KindString
}

// WriteFile renders f as CSV to the file at path.
func WriteFile(path string, f *frame.Frame) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()
	return Write(out, f)
}

// Write renders f as CSV to w.
func Write(w io.Writer, f *frame.Frame) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	names := f.ColumnNames()
	if err := cw.Write(names); err != nil {
		return err
	}

	cols := make([]column.Column, len(names))
	for i, name := range names {
		cols[i], _ = f.GetColumn(name)
	}

	for row := 0; row < f.RowCount(); row++ {
		record := make([]string, len(names))
		for i, col := range cols {
			record[i] = cellToString(col, row)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	return cw.Error()
}

func cellToString(col column.Column, row int) string {
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
