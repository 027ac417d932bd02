package workload_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nodeframe/internal/frame"
	"nodeframe/internal/workload"
)

func TestScalarWorkloadAccessors(t *testing.T) {
	w := workload.Int(42)
	v, err := w.GetInt()
	require.NoError(t, err)
	assert.Equal(t, int64(42), v)

	_, err = w.GetString()
	assert.Error(t, err)
}

func TestFieldBroadcastReadsActiveCsv(t *testing.T) {
	f := frame.New()
	require.NoError(t, f.AddDoubleColumn("price", []float64{1.5, 2.5, 3.5}))

	w := workload.Field("price")
	v, err := workload.DoubleAtRow(w, 1, f)
	require.NoError(t, err)
	assert.Equal(t, 2.5, v)
}

func TestFieldBroadcastWithoutCsvErrors(t *testing.T) {
	w := workload.Field("price")
	_, err := workload.DoubleAtRow(w, 0, nil)
	assert.Error(t, err)
}

func TestPortTypeAcceptsMultiType(t *testing.T) {
	pt := workload.Multi(workload.TypeInt, workload.TypeField)

	assert.True(t, pt.Accepts(workload.TypeInt))
	assert.True(t, pt.Accepts(workload.TypeField))
	assert.False(t, pt.Accepts(workload.TypeString))
	assert.True(t, pt.IsMultiType())
}
