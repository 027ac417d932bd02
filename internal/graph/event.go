package graph

import "time"

// ExecutionStatus is the lifecycle stage an ExecutionEvent reports.
type ExecutionStatus int

const (
	Started ExecutionStatus = iota
	Completed
	Failed
)

func (s ExecutionStatus) String() string {
	switch s {
	case Started:
		return "started"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// ExecutionEvent reports one node's progress through a single
// Execute call.
type ExecutionEvent struct {
	NodeID       string
	Status       ExecutionStatus
	DurationMs   float64
	ErrorMessage string
	CsvMetadata  map[string]any
}

// ToJSON renders the event as a plain map, matching the wire shape
// {node_id, status, duration_ms, csv_metadata, error_message}.
func (e ExecutionEvent) ToJSON() map[string]any {
	out := map[string]any{
		"node_id": e.NodeID,
		"status":  e.Status.String(),
	}
	switch e.Status {
	case Completed:
		out["duration_ms"] = e.DurationMs
		if e.CsvMetadata != nil {
			out["csv_metadata"] = e.CsvMetadata
		}
	case Failed:
		out["error_message"] = e.ErrorMessage
	}
	return out
}

// ExecutionCallback receives one ExecutionEvent per node lifecycle
// transition during Execute.
type ExecutionCallback func(ExecutionEvent)

// ExecutionRecord accumulates per-node durations and the final
// success/failure state of one Execute call. It is not connected to
// internal/profiling.
type ExecutionRecord struct {
	NodeDurations map[string]time.Duration
	Errors        map[string]string
}

func newExecutionRecord() *ExecutionRecord {
	return &ExecutionRecord{
		NodeDurations: make(map[string]time.Duration),
		Errors:        make(map[string]string),
	}
}
