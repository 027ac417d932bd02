package graph

import "nodeframe/internal/workload"

// LabelRegistry holds named workloads defined by label_define_* nodes
// and read back by label_ref_* nodes. Per the redesign flag in
// SPEC_FULL.md §5, one LabelRegistry is constructed fresh for each
// Executor.Execute call rather than shared as a process-wide
// singleton, removing the cross-execution clobbering hazard the
// original design flags as known-hazardous.
type LabelRegistry struct {
	labels map[string]workload.Workload
}

// NewLabelRegistry returns an empty registry.
func NewLabelRegistry() *LabelRegistry {
	return &LabelRegistry{labels: make(map[string]workload.Workload)}
}

// Define binds name to w, overwriting any previous binding.
func (r *LabelRegistry) Define(name string, w workload.Workload) {
	r.labels[name] = w
}

// Get returns the workload bound to name.
func (r *LabelRegistry) Get(name string) (workload.Workload, bool) {
	w, ok := r.labels[name]
	return w, ok
}

// Has reports whether name is bound.
func (r *LabelRegistry) Has(name string) bool {
	_, ok := r.labels[name]
	return ok
}

// Clear removes every binding.
func (r *LabelRegistry) Clear() { r.labels = make(map[string]workload.Workload) }

// Names returns every bound label name.
func (r *LabelRegistry) Names() []string {
	out := make([]string, 0, len(r.labels))
	for name := range r.labels {
		out = append(out, name)
	}
	return out
}
