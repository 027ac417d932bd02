// Package workload implements the tagged value type carried on every
// node port (Workload) and the set-of-accepted-types contract
// (PortType) that lets scalar and columnar inputs interoperate.
package workload

import (
	"fmt"

	"nodeframe/internal/frame"
)

// NodeType identifies the kind of value a Workload carries.
type NodeType int

const (
	TypeInt NodeType = iota
	TypeDouble
	TypeString
	TypeBool
	TypeNull
	TypeField
	TypeCsv
)

func (t NodeType) String() string {
	switch t {
	case TypeInt:
		return "int"
	case TypeDouble:
		return "double"
	case TypeString:
		return "string"
	case TypeBool:
		return "bool"
	case TypeNull:
		return "null"
	case TypeField:
		return "field"
	case TypeCsv:
		return "csv"
	}
	return "unknown"
}

// Workload is a tagged union over {int64, float64, string, bool,
// nil, field name, *frame.Frame}. Go has no variant type, so the tag
// and payload are kept in lockstep by the constructors below; callers
// must go through them rather than building a Workload literal.
type Workload struct {
	tag    NodeType
	i      int64
	d      float64
	s      string
	b      bool
	csv    *frame.Frame
	field  string
}

func Int(v int64) Workload    { return Workload{tag: TypeInt, i: v} }
func Double(v float64) Workload { return Workload{tag: TypeDouble, d: v} }
func String(v string) Workload { return Workload{tag: TypeString, s: v} }
func Bool(v bool) Workload    { return Workload{tag: TypeBool, b: v} }
func Null() Workload          { return Workload{tag: TypeNull} }
func Field(name string) Workload { return Workload{tag: TypeField, field: name} }
func Csv(f *frame.Frame) Workload { return Workload{tag: TypeCsv, csv: f} }

// Type returns the workload's tag.
func (w Workload) Type() NodeType { return w.tag }

func (w Workload) IsNull() bool  { return w.tag == TypeNull }
func (w Workload) IsField() bool { return w.tag == TypeField }
func (w Workload) IsCsv() bool   { return w.tag == TypeCsv }
func (w Workload) IsScalar() bool {
	switch w.tag {
	case TypeInt, TypeDouble, TypeString, TypeBool:
		return true
	}
	return false
}

func (w Workload) GetInt() (int64, error) {
	if w.tag != TypeInt {
		return 0, fmt.Errorf("workload: expected int, got %s", w.tag)
	}
	return w.i, nil
}

func (w Workload) GetDouble() (float64, error) {
	if w.tag != TypeDouble {
		return 0, fmt.Errorf("workload: expected double, got %s", w.tag)
	}
	return w.d, nil
}

func (w Workload) GetString() (string, error) {
	if w.tag != TypeString {
		return "", fmt.Errorf("workload: expected string, got %s", w.tag)
	}
	return w.s, nil
}

func (w Workload) GetBool() (bool, error) {
	if w.tag != TypeBool {
		return false, fmt.Errorf("workload: expected bool, got %s", w.tag)
	}
	return w.b, nil
}

func (w Workload) GetFieldName() (string, error) {
	if w.tag != TypeField {
		return "", fmt.Errorf("workload: expected field, got %s", w.tag)
	}
	return w.field, nil
}

func (w Workload) GetCsv() (*frame.Frame, error) {
	if w.tag != TypeCsv {
		return nil, fmt.Errorf("workload: expected csv, got %s", w.tag)
	}
	return w.csv, nil
}

// IntAtRow broadcasts w to a scalar int64 at rowIndex: a scalar int
// returns itself regardless of row, while a Field workload looks the
// named column up in csv and returns that row's value, converting
// doubles by truncation.
func IntAtRow(w Workload, rowIndex int, csv *frame.Frame) (int64, error) {
	switch w.tag {
	case TypeInt:
		return w.i, nil
	case TypeDouble:
		return int64(w.d), nil
	case TypeField:
		if csv == nil {
			return 0, fmt.Errorf("workload: field %q referenced with no active csv", w.field)
		}
		return fieldInt(csv, w.field, rowIndex)
	}
	return 0, fmt.Errorf("workload: cannot broadcast %s to int", w.tag)
}

// DoubleAtRow is the double analogue of IntAtRow.
func DoubleAtRow(w Workload, rowIndex int, csv *frame.Frame) (float64, error) {
	switch w.tag {
	case TypeInt:
		return float64(w.i), nil
	case TypeDouble:
		return w.d, nil
	case TypeField:
		if csv == nil {
			return 0, fmt.Errorf("workload: field %q referenced with no active csv", w.field)
		}
		return fieldDouble(csv, w.field, rowIndex)
	}
	return 0, fmt.Errorf("workload: cannot broadcast %s to double", w.tag)
}

// StringAtRow is the string analogue of IntAtRow.
func StringAtRow(w Workload, rowIndex int, csv *frame.Frame) (string, error) {
	switch w.tag {
	case TypeString:
		return w.s, nil
	case TypeField:
		if csv == nil {
			return "", fmt.Errorf("workload: field %q referenced with no active csv", w.field)
		}
		return fieldString(csv, w.field, rowIndex)
	}
	return "", fmt.Errorf("workload: cannot broadcast %s to string", w.tag)
}

func fieldInt(csv *frame.Frame, name string, row int) (int64, error) {
	col, ok := csv.GetColumn(name)
	if !ok {
		return 0, fmt.Errorf("workload: unknown column %q", name)
	}
	v, err := cellAsFloat(col, row)
	return int64(v), err
}

func fieldDouble(csv *frame.Frame, name string, row int) (float64, error) {
	col, ok := csv.GetColumn(name)
	if !ok {
		return 0, fmt.Errorf("workload: unknown column %q", name)
	}
	return cellAsFloat(col, row)
}

func fieldString(csv *frame.Frame, name string, row int) (string, error) {
	col, ok := csv.GetColumn(name)
	if !ok {
		return "", fmt.Errorf("workload: unknown column %q", name)
	}
	return cellAsString(col, row)
}
