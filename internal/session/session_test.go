package session_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nodeframe/internal/graph"
	"nodeframe/internal/node"
	"nodeframe/internal/nodelib/scalar"
	"nodeframe/internal/session"
)

func TestCreateAndGetTouchesActivity(t *testing.T) {
	m := session.NewManager(time.Minute)
	m.Create("s1", "g1")

	s, ok := m.Get("s1")
	require.True(t, ok)
	assert.Equal(t, "g1", s.GraphID)
}

func TestRemoveDeletesSession(t *testing.T) {
	m := session.NewManager(time.Minute)
	m.Create("s1", "g1")
	m.Remove("s1")

	_, ok := m.Get("s1")
	assert.False(t, ok)
}

func TestSweepIdleRemovesExpiredSessions(t *testing.T) {
	m := session.NewManager(time.Millisecond)
	m.Create("s1", "g1")
	time.Sleep(5 * time.Millisecond)

	removed := m.SweepIdle()
	assert.Equal(t, []string{"s1"}, removed)
	assert.Equal(t, 0, m.Count())
}

func TestExecuteRunsGraphThroughFreshExecutor(t *testing.T) {
	m := session.NewManager(time.Minute)
	s := m.Create("s1", "g1")

	registry := node.NewRegistry()
	scalar.Register(registry)

	g := graph.New()
	g.AddNodeWithID(graph.NodeInstance{ID: "n1", Definition: "int_value", Properties: map[string]string{"value": "7"}})

	results, _, err := s.Execute(registry, g, nil, nil)
	require.NoError(t, err)
	assert.Contains(t, results, "n1")
}
