package graph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nodeframe/internal/graph"
	"nodeframe/internal/node"
	"nodeframe/internal/workload"
)

func buildRegistry() *node.Registry {
	reg := node.NewRegistry()
	node.NewBuilder("const_int", "scalar").
		Output("value", workload.TypeInt).
		OnCompile(func(ctx *node.Context) {
			ctx.SetOutputInt("value", 7)
		}).
		BuildAndRegister(reg)
	node.NewBuilder("double_it", "math").
		Input("src", workload.TypeInt).
		Output("result", workload.TypeInt).
		OnCompile(func(ctx *node.Context) {
			w, _ := ctx.GetInputWorkload("src")
			v, err := w.GetInt()
			if err != nil {
				ctx.SetError(err.Error())
				return
			}
			ctx.SetOutputInt("result", v*2)
		}).
		BuildAndRegister(reg)
	return reg
}

func TestExecuteRunsNodesInDependencyOrder(t *testing.T) {
	reg := buildRegistry()
	g := graph.New()
	a := g.AddNode(graph.NodeInstance{Definition: "const_int"})
	b := g.AddNode(graph.NodeInstance{Definition: "double_it"})
	g.Connect(graph.Connection{SourceNodeID: a, SourcePort: "value", TargetNodeID: b, TargetPort: "src"})

	exec := graph.NewExecutor(reg, nil)
	results, _, err := exec.Execute(g, nil)
	require.NoError(t, err)

	bResult := results[b]
	require.False(t, bResult.HasError)
	v, err := bResult.Outputs["result"].GetInt()
	require.NoError(t, err)
	assert.Equal(t, int64(14), v)
}

func TestExecuteDetectsCycle(t *testing.T) {
	reg := buildRegistry()
	g := graph.New()
	a := g.AddNode(graph.NodeInstance{Definition: "double_it"})
	b := g.AddNode(graph.NodeInstance{Definition: "double_it"})
	g.Connect(graph.Connection{SourceNodeID: a, SourcePort: "result", TargetNodeID: b, TargetPort: "src"})
	g.Connect(graph.Connection{SourceNodeID: b, SourcePort: "result", TargetNodeID: a, TargetPort: "src"})

	exec := graph.NewExecutor(reg, nil)
	_, _, err := exec.Execute(g, nil)
	assert.ErrorIs(t, err, graph.ErrCycleDetected)
}

func TestExecuteEmitsStartedAndCompletedEvents(t *testing.T) {
	reg := buildRegistry()
	g := graph.New()
	g.AddNode(graph.NodeInstance{Definition: "const_int"})

	var events []graph.ExecutionEvent
	exec := graph.NewExecutor(reg, func(e graph.ExecutionEvent) { events = append(events, e) })
	_, _, err := exec.Execute(g, nil)
	require.NoError(t, err)

	require.Len(t, events, 2)
	assert.Equal(t, graph.Started, events[0].Status)
	assert.Equal(t, graph.Completed, events[1].Status)
}
