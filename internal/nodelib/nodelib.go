// Package nodelib aggregates every built-in node subpackage behind
// one RegisterAll call, mirroring the teacher's common.registerNodes
// aggregation point.
package nodelib

import (
	"nodeframe/internal/node"
	"nodeframe/internal/nodelib/aggregate"
	"nodeframe/internal/nodelib/csvops"
	"nodeframe/internal/nodelib/dynamicops"
	"nodeframe/internal/nodelib/labelops"
	"nodeframe/internal/nodelib/mathops"
	"nodeframe/internal/nodelib/pgops"
	"nodeframe/internal/nodelib/scalar"
	"nodeframe/internal/nodelib/selectops"
	"nodeframe/internal/nodelib/stringops"
	"nodeframe/internal/nodelib/vizops"
)

// RegisterAll registers every standard node type into reg.
func RegisterAll(reg *node.Registry) {
	scalar.Register(reg)
	mathops.Register(reg)
	csvops.Register(reg)
	aggregate.Register(reg)
	selectops.Register(reg)
	stringops.Register(reg)
	labelops.Register(reg)
	dynamicops.Register(reg)
	pgops.Register(reg)
	vizops.Register(reg)
}
