// Package graph implements the node graph data structure and its
// executor: topological scheduling, active-csv inference, a
// per-execution label registry, and execution events. It does not
// expand dynamic zones: dynamic_begin/dynamic_end nodes run as plain
// passthrough nodes and no operations are inserted between them.
package graph

import (
	"fmt"
	"sync/atomic"

	"nodeframe/internal/frame"
)

// NodeInstance is one placed node in a graph: a reference to a
// Definition by name, its property bag, and optional layout position.
type NodeInstance struct {
	ID         string
	Definition string
	Properties map[string]string
	X, Y       float64
	HasPos     bool
}

// Connection wires one node's output port to another node's input
// port.
type Connection struct {
	SourceNodeID   string
	SourcePort     string
	TargetNodeID   string
	TargetPort     string
}

// VisualGroup is layout-only metadata with no execution semantics.
type VisualGroup struct {
	Title    string
	Bounding [4]float64
	Color    string
	FontSize int
}

// Graph holds a set of node instances, the connections between them,
// and visual groups.
type Graph struct {
	nodes       map[string]*NodeInstance
	order       []string
	connections []Connection
	groups      []VisualGroup
	nextID      int64
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{nodes: make(map[string]*NodeInstance), nextID: 1}
}

// AddNode adds a node instance, generating an id if inst.ID is empty.
func (g *Graph) AddNode(inst NodeInstance) string {
	if inst.ID == "" {
		inst.ID = fmt.Sprintf("n%d", atomic.AddInt64(&g.nextID, 1)-1)
	}
	cp := inst
	g.nodes[cp.ID] = &cp
	g.order = append(g.order, cp.ID)
	return cp.ID
}

// AddNodeWithID adds a node instance with an explicit id, used when
// deserializing a previously saved graph.
func (g *Graph) AddNodeWithID(inst NodeInstance) {
	cp := inst
	if _, exists := g.nodes[cp.ID]; !exists {
		g.order = append(g.order, cp.ID)
	}
	g.nodes[cp.ID] = &cp
}

// RemoveNode deletes the named node and any connections touching it.
func (g *Graph) RemoveNode(id string) {
	delete(g.nodes, id)
	for i, n := range g.order {
		if n == id {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
	var kept []Connection
	for _, c := range g.connections {
		if c.SourceNodeID != id && c.TargetNodeID != id {
			kept = append(kept, c)
		}
	}
	g.connections = kept
}

// GetNode returns the named node instance.
func (g *Graph) GetNode(id string) (*NodeInstance, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Connect adds a connection between two node ports.
func (g *Graph) Connect(c Connection) {
	g.connections = append(g.connections, c)
}

// Disconnect removes any connection matching c exactly.
func (g *Graph) Disconnect(c Connection) {
	var kept []Connection
	for _, existing := range g.connections {
		if existing != c {
			kept = append(kept, existing)
		}
	}
	g.connections = kept
}

// GetConnectionTo returns the connection feeding targetNode's
// targetPort, if any.
func (g *Graph) GetConnectionTo(targetNode, targetPort string) (Connection, bool) {
	for _, c := range g.connections {
		if c.TargetNodeID == targetNode && c.TargetPort == targetPort {
			return c, true
		}
	}
	return Connection{}, false
}

// SetProperty sets a string property on the named node.
func (g *Graph) SetProperty(nodeID, key, value string) {
	n, ok := g.nodes[nodeID]
	if !ok {
		return
	}
	if n.Properties == nil {
		n.Properties = make(map[string]string)
	}
	n.Properties[key] = value
}

// GetProperty returns a property value from the named node.
func (g *Graph) GetProperty(nodeID, key string) (string, bool) {
	n, ok := g.nodes[nodeID]
	if !ok {
		return "", false
	}
	v, ok := n.Properties[key]
	return v, ok
}

// Nodes returns node instances in insertion order.
func (g *Graph) Nodes() []*NodeInstance {
	out := make([]*NodeInstance, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.nodes[id])
	}
	return out
}

// Connections returns every connection.
func (g *Graph) Connections() []Connection {
	out := make([]Connection, len(g.connections))
	copy(out, g.connections)
	return out
}

// Groups returns every visual group.
func (g *Graph) Groups() []VisualGroup {
	out := make([]VisualGroup, len(g.groups))
	copy(out, g.groups)
	return out
}

// AddGroup appends a visual group.
func (g *Graph) AddGroup(vg VisualGroup) {
	if vg.FontSize == 0 {
		vg.FontSize = 24
	}
	g.groups = append(g.groups, vg)
}

// ClearGroups removes every visual group.
func (g *Graph) ClearGroups() { g.groups = nil }

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// SetNextID overrides the auto-increment counter used by AddNode,
// used after deserializing a graph to avoid id collisions.
func (g *Graph) SetNextID(n int64) { g.nextID = n }

// NextID returns the current auto-increment counter value.
func (g *Graph) NextID() int64 { return g.nextID }

// CsvOverrides maps an identifier property value to a frame that
// should be substituted in place of whatever a csv_source node would
// otherwise produce, letting callers inject data without editing the
// graph.
type CsvOverrides map[string]*frame.Frame
