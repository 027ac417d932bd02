// Package pgquery builds dynamic PostgreSQL function calls, a typed
// port of the original DynRequest builder. Unlike the original, which
// inlined escaped literals into the SQL text, Builder emits positional
// placeholders ($1, $2, ...) and a parallel argument slice so the
// query can be sent through pgx's parameterized Query/Exec, never
// interpolating untrusted data into SQL text directly.
package pgquery

import (
	"fmt"
	"strings"

	"nodeframe/internal/frame"
	"nodeframe/internal/workload"
)

// Builder assembles a "SELECT * FROM fn($1, $2, ...)" call.
type Builder struct {
	functionName string
	args         []any
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Func sets the target function name.
func (b *Builder) Func(name string) *Builder {
	b.functionName = name
	return b
}

// AddIntParam appends a scalar bigint argument.
func (b *Builder) AddIntParam(v int64) *Builder {
	b.args = append(b.args, v)
	return b
}

// AddDoubleParam appends a scalar double precision argument.
func (b *Builder) AddDoubleParam(v float64) *Builder {
	b.args = append(b.args, v)
	return b
}

// AddStringParam appends a scalar text argument.
func (b *Builder) AddStringParam(v string) *Builder {
	b.args = append(b.args, v)
	return b
}

// AddBoolParam appends a scalar boolean argument.
func (b *Builder) AddBoolParam(v bool) *Builder {
	b.args = append(b.args, v)
	return b
}

// AddNullParam appends an untyped SQL NULL argument.
func (b *Builder) AddNullParam() *Builder {
	b.args = append(b.args, nil)
	return b
}

// AddIntArrayParam appends a bigint[] argument.
func (b *Builder) AddIntArrayParam(values []int64) *Builder {
	b.args = append(b.args, values)
	return b
}

// AddDoubleArrayParam appends a double precision[] argument.
func (b *Builder) AddDoubleArrayParam(values []float64) *Builder {
	b.args = append(b.args, values)
	return b
}

// AddStringArrayParam appends a text[] argument.
func (b *Builder) AddStringArrayParam(values []string) *Builder {
	b.args = append(b.args, values)
	return b
}

// AddIntArrayFromWorkload broadcasts w (scalar or field) across every
// row of csv into a bigint[] argument.
func (b *Builder) AddIntArrayFromWorkload(w workload.Workload, csv *frame.Frame) *Builder {
	if csv == nil {
		return b.AddNullParam()
	}
	values := make([]int64, csv.RowCount())
	for row := range values {
		v, err := workload.IntAtRow(w, row, csv)
		if err != nil {
			return b.AddNullParam()
		}
		values[row] = v
	}
	return b.AddIntArrayParam(values)
}

// AddDoubleArrayFromWorkload is the double analogue of
// AddIntArrayFromWorkload.
func (b *Builder) AddDoubleArrayFromWorkload(w workload.Workload, csv *frame.Frame) *Builder {
	if csv == nil {
		return b.AddNullParam()
	}
	values := make([]float64, csv.RowCount())
	for row := range values {
		v, err := workload.DoubleAtRow(w, row, csv)
		if err != nil {
			return b.AddNullParam()
		}
		values[row] = v
	}
	return b.AddDoubleArrayParam(values)
}

// AddStringArrayFromWorkload is the string analogue of
// AddIntArrayFromWorkload.
func (b *Builder) AddStringArrayFromWorkload(w workload.Workload, csv *frame.Frame) *Builder {
	if csv == nil {
		return b.AddNullParam()
	}
	values := make([]string, csv.RowCount())
	for row := range values {
		v, err := workload.StringAtRow(w, row, csv)
		if err != nil {
			return b.AddNullParam()
		}
		values[row] = v
	}
	return b.AddStringArrayParam(values)
}

// BuildSQL returns the parameterized call text and its argument slice,
// ready for pgx's Query/Exec.
func (b *Builder) BuildSQL() (string, []any) {
	placeholders := make([]string, len(b.args))
	for i := range b.args {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	sql := fmt.Sprintf("SELECT * FROM %s(%s)", b.functionName, strings.Join(placeholders, ", "))
	return sql, b.args
}

// FunctionName returns the configured function name.
func (b *Builder) FunctionName() string { return b.functionName }

// Args returns the accumulated argument slice.
func (b *Builder) Args() []any { return b.args }
