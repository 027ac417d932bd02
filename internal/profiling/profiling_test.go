package profiling_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nodeframe/internal/profiling"
)

func TestStartStopRecordsDuration(t *testing.T) {
	r := profiling.NewRecorder()
	r.Start("node-a")
	time.Sleep(time.Millisecond)
	r.Stop("node-a")

	durations := r.Durations()
	require.Contains(t, durations, "node-a")
	assert.Greater(t, durations["node-a"], time.Duration(0))
}

func TestStopWithoutStartIsNoop(t *testing.T) {
	r := profiling.NewRecorder()
	r.Stop("never-started")
	assert.Empty(t, r.Durations())
}

func TestResetClearsRecordedDurations(t *testing.T) {
	r := profiling.NewRecorder()
	r.Start("node-a")
	r.Stop("node-a")
	require.NotEmpty(t, r.Durations())

	r.Reset()
	assert.Empty(t, r.Durations())
}

func TestDurationsReturnsDefensiveCopy(t *testing.T) {
	r := profiling.NewRecorder()
	r.Start("node-a")
	r.Stop("node-a")

	snapshot := r.Durations()
	snapshot["node-a"] = 0
	assert.NotEqual(t, time.Duration(0), r.Durations()["node-a"])
}
