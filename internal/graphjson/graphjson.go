// Package graphjson renders graph.Graph and execution results to the
// wire JSON shapes served by internal/server, following the teacher's
// internal/output payload-struct-plus-Summary idiom.
package graphjson

import (
	"encoding/json"
	"fmt"

	"nodeframe/internal/graph"
	"nodeframe/internal/workload"
)

type nodePayload struct {
	ID         string            `json:"id"`
	Type       string            `json:"type"`
	Properties map[string]string `json:"properties,omitempty"`
	X          float64           `json:"x,omitempty"`
	Y          float64           `json:"y,omitempty"`
}

type connectionPayload struct {
	SourceNodeID string `json:"source_node_id"`
	SourcePort   string `json:"source_port"`
	TargetNodeID string `json:"target_node_id"`
	TargetPort   string `json:"target_port"`
}

type groupPayload struct {
	Title    string    `json:"title"`
	Bounding [4]float64 `json:"bounding"`
	Color    string    `json:"color,omitempty"`
	FontSize int       `json:"font_size,omitempty"`
}

type graphSummary struct {
	Nodes       int `json:"nodes"`
	Connections int `json:"connections"`
}

// GraphPayload is the wire shape of a full graph document.
type GraphPayload struct {
	Format      string              `json:"format"`
	Summary     graphSummary        `json:"summary"`
	Nodes       []nodePayload       `json:"nodes"`
	Connections []connectionPayload `json:"connections"`
	Groups      []groupPayload      `json:"groups,omitempty"`
}

// FormatGraph renders g as a GraphPayload JSON document.
func FormatGraph(g *graph.Graph) (string, error) {
	payload := GraphPayload{Format: "graph"}
	for _, n := range g.Nodes() {
		np := nodePayload{
			ID:         n.ID,
			Type:       n.Definition,
			Properties: n.Properties,
		}
		if n.HasPos {
			np.X, np.Y = n.X, n.Y
		}
		payload.Nodes = append(payload.Nodes, np)
	}
	for _, c := range g.Connections() {
		payload.Connections = append(payload.Connections, connectionPayload{
			SourceNodeID: c.SourceNodeID,
			SourcePort:   c.SourcePort,
			TargetNodeID: c.TargetNodeID,
			TargetPort:   c.TargetPort,
		})
	}
	for _, grp := range g.Groups() {
		payload.Groups = append(payload.Groups, groupPayload{
			Title:    grp.Title,
			Bounding: grp.Bounding,
			Color:    grp.Color,
			FontSize: grp.FontSize,
		})
	}
	payload.Summary = graphSummary{
		Nodes:       len(payload.Nodes),
		Connections: len(payload.Connections),
	}
	return marshalJSON(payload)
}

// ParseGraph parses a document written by FormatGraph back into a live
// graph.Graph.
func ParseGraph(body string) (*graph.Graph, error) {
	var payload GraphPayload
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return nil, fmt.Errorf("graphjson: parse graph: %w", err)
	}
	g := graph.New()
	for _, n := range payload.Nodes {
		g.AddNodeWithID(graph.NodeInstance{
			ID:         n.ID,
			Definition: n.Type,
			Properties: n.Properties,
			X:          n.X,
			Y:          n.Y,
			HasPos:     n.X != 0 || n.Y != 0,
		})
	}
	for _, c := range payload.Connections {
		g.Connect(graph.Connection{
			SourceNodeID: c.SourceNodeID,
			SourcePort:   c.SourcePort,
			TargetNodeID: c.TargetNodeID,
			TargetPort:   c.TargetPort,
		})
	}
	for _, grp := range payload.Groups {
		g.AddGroup(graph.VisualGroup{
			Title:    grp.Title,
			Bounding: grp.Bounding,
			Color:    grp.Color,
			FontSize: grp.FontSize,
		})
	}
	return g, nil
}

type nodeResultPayload struct {
	NodeID       string         `json:"node_id"`
	Outputs      map[string]any `json:"outputs,omitempty"`
	HasError     bool           `json:"has_error"`
	ErrorMessage string         `json:"error_message,omitempty"`
}

type executionSummary struct {
	NodesRun int `json:"nodes_run"`
	Errors   int `json:"errors"`
}

// ExecutionPayload is the wire shape of an Execute response.
type ExecutionPayload struct {
	Format  string              `json:"format"`
	Summary executionSummary    `json:"summary"`
	Results []nodeResultPayload `json:"results"`
	Events  []map[string]any    `json:"events,omitempty"`
}

// FormatExecution renders an executor run's results and events.
func FormatExecution(results map[string]graph.NodeResult, events []graph.ExecutionEvent) (string, error) {
	payload := ExecutionPayload{Format: "execution"}
	for _, evt := range events {
		payload.Events = append(payload.Events, evt.ToJSON())
	}
	errorCount := 0
	for _, r := range results {
		outputs := make(map[string]any, len(r.Outputs))
		for name, w := range r.Outputs {
			outputs[name] = renderWorkload(w)
		}
		if r.HasError {
			errorCount++
		}
		payload.Results = append(payload.Results, nodeResultPayload{
			NodeID:       r.NodeID,
			Outputs:      outputs,
			HasError:     r.HasError,
			ErrorMessage: r.ErrorMessage,
		})
	}
	payload.Summary = executionSummary{
		NodesRun: len(payload.Results),
		Errors:   errorCount,
	}
	return marshalJSON(payload)
}

// renderWorkload reduces a Workload to a JSON-friendly native value.
// csv outputs are rendered as {"columns": names, "rows": count} and
// field outputs as {"field": name}, rather than the opaque Workload
// struct; a csv's cell values are not included.
func renderWorkload(w workload.Workload) any {
	switch w.Type() {
	case workload.TypeInt:
		v, _ := w.GetInt()
		return v
	case workload.TypeDouble:
		v, _ := w.GetDouble()
		return v
	case workload.TypeString:
		v, _ := w.GetString()
		return v
	case workload.TypeBool:
		v, _ := w.GetBool()
		return v
	case workload.TypeField:
		name, _ := w.GetFieldName()
		return map[string]string{"field": name}
	case workload.TypeCsv:
		f, err := w.GetCsv()
		if err != nil || f == nil {
			return nil
		}
		return map[string]any{"columns": f.ColumnNames(), "rows": f.RowCount()}
	}
	return nil
}

func marshalJSON(payload any) (string, error) {
	b, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b) + "\n", nil
}
