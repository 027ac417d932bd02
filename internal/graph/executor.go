package graph

import (
	"fmt"
	"time"

	"nodeframe/internal/frame"
	"nodeframe/internal/node"
	"nodeframe/internal/workload"
)

// ErrCycleDetected is returned when the graph's connections contain a
// cycle, making topological scheduling impossible.
var ErrCycleDetected = fmt.Errorf("graph: cycle detected")

// NodeResult is one node's outputs and error state after execution.
type NodeResult struct {
	NodeID       string
	Outputs      map[string]workload.Workload
	HasError     bool
	ErrorMessage string
}

// Executor runs a Graph against a Registry of node Definitions.
type Executor struct {
	registry *node.Registry
	callback ExecutionCallback
}

// NewExecutor returns an Executor bound to registry. callback may be
// nil.
func NewExecutor(registry *node.Registry, callback ExecutionCallback) *Executor {
	return &Executor{registry: registry, callback: callback}
}

// Execute runs every node in g in dependency order, returning each
// node's result keyed by node id. A fresh LabelRegistry is created for
// this call only, scoping label_define_*/label_ref_* state to this
// one Execute invocation. csvOverrides substitutes a frame for any
// node whose "_identifier" property matches a key, short-circuiting
// that node's own compile function with a direct csv output.
func (e *Executor) Execute(g *Graph, csvOverrides CsvOverrides) (map[string]NodeResult, *ExecutionRecord, error) {
	order, err := e.topologicalSort(g)
	if err != nil {
		return nil, nil, err
	}

	results := make(map[string]NodeResult, len(order))
	record := newExecutionRecord()
	labels := NewLabelRegistry()

	for _, id := range order {
		inst, ok := g.GetNode(id)
		if !ok {
			continue
		}

		if csvOverrides != nil {
			if ident, ok := inst.Properties["_identifier"]; ok {
				if override, ok := csvOverrides[ident]; ok {
					results[id] = NodeResult{NodeID: id, Outputs: map[string]workload.Workload{"csv": workload.Csv(override)}}
					continue
				}
			}
		}

		def, ok := e.registry.GetNode(inst.Definition)
		if !ok {
			msg := fmt.Sprintf("unknown node definition %q", inst.Definition)
			results[id] = NodeResult{NodeID: id, HasError: true, ErrorMessage: msg}
			record.Errors[id] = msg
			e.emit(ExecutionEvent{NodeID: id, Status: Failed, ErrorMessage: msg})
			continue
		}

		e.emit(ExecutionEvent{NodeID: id, Status: Started})
		start := time.Now()

		ctx := node.NewContext()
		ctx.SetLabelStore(labels)
		e.gatherInputs(g, inst, def, results, ctx)
		if activeCsv := e.findActiveCsv(g, id, results); activeCsv != nil {
			ctx.SetActiveCsv(activeCsv)
		}

		def.Run(ctx)

		elapsed := time.Since(start)
		record.NodeDurations[id] = elapsed

		result := NodeResult{NodeID: id, Outputs: ctx.Outputs()}
		if ctx.HasError() {
			result.HasError = true
			result.ErrorMessage = ctx.GetErrorMessage()
			record.Errors[id] = result.ErrorMessage
			e.emit(ExecutionEvent{NodeID: id, Status: Failed, ErrorMessage: result.ErrorMessage})
		} else {
			e.emit(ExecutionEvent{NodeID: id, Status: Completed, DurationMs: float64(elapsed.Microseconds()) / 1000.0})
		}
		results[id] = result
	}

	return results, record, nil
}

// ExecuteNode runs a single Definition in isolation against pre-bound
// inputs, for unit-testing a node's compile function without
// assembling a graph.
func (e *Executor) ExecuteNode(def node.Definition, inputs map[string]workload.Workload, activeCsv *frame.Frame) NodeResult {
	ctx := node.NewContext()
	for name, w := range inputs {
		ctx.SetInput(name, w)
	}
	if activeCsv != nil {
		ctx.SetActiveCsv(activeCsv)
	}
	def.Run(ctx)
	result := NodeResult{NodeID: def.Name, Outputs: ctx.Outputs()}
	if ctx.HasError() {
		result.HasError = true
		result.ErrorMessage = ctx.GetErrorMessage()
	}
	return result
}

func (e *Executor) emit(evt ExecutionEvent) {
	if e.callback != nil {
		e.callback(evt)
	}
}

// topologicalSort orders nodes via Kahn's algorithm over the graph's
// connections, returning ErrCycleDetected if not every node can be
// ordered.
func (e *Executor) topologicalSort(g *Graph) ([]string, error) {
	nodes := g.Nodes()
	inDegree := make(map[string]int, len(nodes))
	adjacency := make(map[string][]string)
	for _, n := range nodes {
		inDegree[n.ID] = 0
	}
	for _, c := range g.Connections() {
		if _, ok := inDegree[c.TargetNodeID]; !ok {
			continue
		}
		adjacency[c.SourceNodeID] = append(adjacency[c.SourceNodeID], c.TargetNodeID)
		inDegree[c.TargetNodeID]++
	}

	var queue []string
	for _, n := range nodes {
		if inDegree[n.ID] == 0 {
			queue = append(queue, n.ID)
		}
	}

	var order []string
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		order = append(order, id)
		for _, next := range adjacency[id] {
			inDegree[next]--
			if inDegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	if len(order) != len(nodes) {
		return nil, ErrCycleDetected
	}
	return order, nil
}

// gatherInputs binds every declared input port of def either to the
// upstream node's corresponding output, to a literal node property of
// the same name (used for unconnected scalar configuration values), or
// to Null when neither is present.
func (e *Executor) gatherInputs(g *Graph, inst *NodeInstance, def node.Definition, results map[string]NodeResult, ctx *node.Context) {
	for _, in := range def.Inputs {
		conn, ok := g.GetConnectionTo(inst.ID, in.Name)
		if !ok {
			if v, ok := inst.Properties[in.Name]; ok {
				ctx.SetInput(in.Name, workload.String(v))
				continue
			}
			ctx.SetInput(in.Name, workload.Null())
			continue
		}
		srcResult, ok := results[conn.SourceNodeID]
		if !ok {
			ctx.SetInput(in.Name, workload.Null())
			continue
		}
		w, ok := srcResult.Outputs[conn.SourcePort]
		if !ok {
			ctx.SetInput(in.Name, workload.Null())
			continue
		}
		ctx.SetInput(in.Name, w)
	}
}

// findActiveCsv walks upstream from nodeID looking for the nearest
// already-executed node that produced a "csv" output, matching the
// original's active-csv inference by upstream graph walk.
func (e *Executor) findActiveCsv(g *Graph, nodeID string, results map[string]NodeResult) *frame.Frame {
	visited := make(map[string]bool)
	var walk func(id string) *frame.Frame
	walk = func(id string) *frame.Frame {
		if visited[id] {
			return nil
		}
		visited[id] = true
		for _, c := range g.Connections() {
			if c.TargetNodeID != id {
				continue
			}
			if result, ok := results[c.SourceNodeID]; ok {
				if w, ok := result.Outputs["csv"]; ok && w.IsCsv() {
					if f, err := w.GetCsv(); err == nil && f != nil {
						return f
					}
				}
			}
			if found := walk(c.SourceNodeID); found != nil {
				return found
			}
		}
		return nil
	}
	return walk(nodeID)
}
