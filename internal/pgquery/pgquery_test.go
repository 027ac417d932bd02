package pgquery_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nodeframe/internal/frame"
	"nodeframe/internal/pgquery"
	"nodeframe/internal/workload"
)

func TestBuildSQLUsesPositionalPlaceholders(t *testing.T) {
	b := pgquery.NewBuilder().
		Func("compute_score").
		AddIntParam(1).
		AddStringParam("gdansk").
		AddNullParam()

	sql, args := b.BuildSQL()

	assert.Equal(t, "SELECT * FROM compute_score($1, $2, $3)", sql)
	require.Len(t, args, 3)
	assert.Equal(t, int64(1), args[0])
	assert.Equal(t, "gdansk", args[1])
	assert.Nil(t, args[2])
}

func TestAddIntArrayFromWorkloadBroadcastsField(t *testing.T) {
	f := frame.New()
	require.NoError(t, f.AddIntColumn("amount", []int64{10, 20, 30}))

	b := pgquery.NewBuilder().Func("sum_amounts").
		AddIntArrayFromWorkload(workload.Field("amount"), f)

	_, args := b.BuildSQL()
	require.Len(t, args, 1)
	assert.Equal(t, []int64{10, 20, 30}, args[0])
}

func TestAddIntArrayFromWorkloadNilCsvAddsNull(t *testing.T) {
	b := pgquery.NewBuilder().Func("noop").
		AddIntArrayFromWorkload(workload.Field("missing"), nil)

	_, args := b.BuildSQL()
	require.Len(t, args, 1)
	assert.Nil(t, args[0])
}
