// Package pgops registers the PostgreSQL integration node types:
// postgres_config (assembles a connection string), postgres_query (a
// raw SQL query sent without bind parameters), and postgres_func (a
// dynamic function call assembled via internal/pgquery).
// postgres_config only formats a string; the other two call
// internal/pgclient, and each opens and closes its own pool per
// invocation rather than holding one open
// across the node's lifetime, since a Definition's compile function
// has no place to stash a long-lived resource between graph runs.
package pgops

import (
	"context"
	"fmt"

	"nodeframe/internal/frame"
	"nodeframe/internal/node"
	"nodeframe/internal/pgclient"
	"nodeframe/internal/pgquery"
	"nodeframe/internal/workload"
)

// Register adds postgres_config, postgres_query, and postgres_func to reg.
func Register(reg *node.Registry) {
	node.NewBuilder("postgres_config", "postgres").
		Input("host", workload.TypeString).
		Input("port", workload.TypeInt).
		Input("database", workload.TypeString).
		Input("user", workload.TypeString).
		Input("password", workload.TypeString).
		Output("conn", workload.TypeString).
		OnCompile(func(ctx *node.Context) {
			host := mustString(ctx, "host")
			port := mustInt(ctx, "port")
			database := mustString(ctx, "database")
			user := mustString(ctx, "user")
			password := mustString(ctx, "password")
			conn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s", user, password, host, port, database)
			ctx.SetOutputString("conn", conn)
		}).
		BuildAndRegister(reg)

	node.NewBuilder("postgres_query", "postgres").
		Input("conn", workload.TypeString).
		Input("sql", workload.TypeString).
		Output("csv", workload.TypeCsv).
		OnCompile(func(ctx *node.Context) {
			conn := mustString(ctx, "conn")
			sql := mustString(ctx, "sql")
			if conn == "" || sql == "" {
				ctx.SetError("postgres_query: conn and sql are required")
				return
			}
			background := context.Background()
			client, err := pgclient.Connect(background, conn)
			if err != nil {
				ctx.SetError(err.Error())
				return
			}
			defer client.Close()

			out, err := client.Query(background, sql)
			if err != nil {
				ctx.SetError(err.Error())
				return
			}
			ctx.SetOutputCsv("csv", out)
		}).
		BuildAndRegister(reg)

	node.NewBuilder("postgres_func", "postgres").
		Input("conn", workload.TypeString).
		Input("function", workload.TypeString).
		InputMulti("arg1", workload.TypeInt, workload.TypeDouble, workload.TypeString, workload.TypeField, workload.TypeNull).
		InputMulti("arg2", workload.TypeInt, workload.TypeDouble, workload.TypeString, workload.TypeField, workload.TypeNull).
		Output("csv", workload.TypeCsv).
		OnCompile(func(ctx *node.Context) {
			conn := mustString(ctx, "conn")
			fn := mustString(ctx, "function")
			if conn == "" || fn == "" {
				ctx.SetError("postgres_func: conn and function are required")
				return
			}

			b := pgquery.NewBuilder().Func(fn)
			csv := ctx.GetActiveCsv()
			appendArg(ctx, b, "arg1", csv)
			appendArg(ctx, b, "arg2", csv)

			background := context.Background()
			client, err := pgclient.Connect(background, conn)
			if err != nil {
				ctx.SetError(err.Error())
				return
			}
			defer client.Close()

			out, err := client.CallFunc(background, b)
			if err != nil {
				ctx.SetError(err.Error())
				return
			}
			ctx.SetOutputCsv("csv", out)
		}).
		BuildAndRegister(reg)
}

func appendArg(ctx *node.Context, b *pgquery.Builder, name string, csv *frame.Frame) {
	w, ok := ctx.GetInputWorkload(name)
	if !ok || w.IsNull() {
		b.AddNullParam()
		return
	}
	switch w.Type() {
	case workload.TypeInt:
		v, _ := w.GetInt()
		b.AddIntParam(v)
	case workload.TypeDouble:
		v, _ := w.GetDouble()
		b.AddDoubleParam(v)
	case workload.TypeString:
		v, _ := w.GetString()
		b.AddStringParam(v)
	case workload.TypeField:
		b.AddIntArrayFromWorkload(w, csv)
	default:
		b.AddNullParam()
	}
}

func mustString(ctx *node.Context, name string) string {
	w, ok := ctx.GetInputWorkload(name)
	if !ok {
		return ""
	}
	s, _ := w.GetString()
	return s
}

func mustInt(ctx *node.Context, name string) int64 {
	w, ok := ctx.GetInputWorkload(name)
	if !ok {
		return 0
	}
	v, _ := w.GetInt()
	return v
}
