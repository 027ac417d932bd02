package workload

import (
	"fmt"

	"nodeframe/internal/column"
)

func cellAsFloat(col column.Column, row int) (float64, error) {
	switch c := col.(type) {
	case *column.IntColumn:
		if row < 0 || row >= len(c.Values) {
			return 0, fmt.Errorf("workload: row %d out of range", row)
		}
		return float64(c.Values[row]), nil
	case *column.DoubleColumn:
		if row < 0 || row >= len(c.Values) {
			return 0, fmt.Errorf("workload: row %d out of range", row)
		}
		return c.Values[row], nil
	}
	return 0, fmt.Errorf("workload: column is not numeric")
}

func cellAsString(col column.Column, row int) (string, error) {
	switch c := col.(type) {
	case *column.StringColumn:
		return c.At(row), nil
	case *column.IntColumn:
		if row < 0 || row >= len(c.Values) {
			return "", fmt.Errorf("workload: row %d out of range", row)
		}
		return fmt.Sprintf("%d", c.Values[row]), nil
	case *column.DoubleColumn:
		if row < 0 || row >= len(c.Values) {
			return "", fmt.Errorf("workload: row %d out of range", row)
		}
		return fmt.Sprintf("%g", c.Values[row]), nil
	}
	return "", fmt.Errorf("workload: unsupported column type")
}
