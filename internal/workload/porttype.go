package workload

// PortType is the set of NodeTypes a port accepts. A single-type port
// is the common case; multi-type ports (e.g. "Int or Field") appear on
// math-node operand inputs.
type PortType struct {
	types []NodeType
}

// Single returns a PortType accepting exactly one NodeType.
func Single(t NodeType) PortType { return PortType{types: []NodeType{t}} }

// Multi returns a PortType accepting any of the given NodeTypes.
func Multi(types ...NodeType) PortType { return PortType{types: types} }

// Accepts reports whether t is one of the port's accepted types.
func (p PortType) Accepts(t NodeType) bool {
	for _, accepted := range p.types {
		if accepted == t {
			return true
		}
	}
	return false
}

// AcceptsWorkload reports whether w's type is accepted by p.
func (p PortType) AcceptsWorkload(w Workload) bool {
	return p.Accepts(w.Type())
}

// IsMultiType reports whether the port accepts more than one type.
func (p PortType) IsMultiType() bool { return len(p.types) > 1 }

// Types returns the accepted types.
func (p PortType) Types() []NodeType {
	out := make([]NodeType, len(p.types))
	copy(out, p.types)
	return out
}

// PrimaryType returns the first accepted type, the port's nominal type
// when only one is declared.
func (p PortType) PrimaryType() NodeType {
	if len(p.types) == 0 {
		return TypeNull
	}
	return p.types[0]
}
