package workflow

import "time"

// OutputResult is the resolved value of a single output node at the end of
// a run. Answer is always populated; ImageURL is set only when the upstream
// value was an inline image.
type OutputResult struct {
	Answer   string `json:"answer,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// LogStatus classifies a run log entry.
type LogStatus string

const (
	// StatusRunning marks a node that has started executing.
	StatusRunning LogStatus = "running"

	// StatusSuccess marks a node that completed and recorded its output.
	StatusSuccess LogStatus = "success"

	// StatusFailed marks the node whose failure aborted the run.
	StatusFailed LogStatus = "failed"
)

// LogEntry is one line of the per-run execution log.
type LogEntry struct {
	ID        string    `json:"id"`
	NodeID    string    `json:"nodeId"`
	NodeLabel string    `json:"nodeLabel"`
	Status    LogStatus `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Report is the outcome of one workflow run.
//
// Results maps output node IDs to their resolved values; output nodes on
// branches a router never activated are omitted entirely. On failure,
// Error carries a human-readable message, FailedNodeID identifies the
// aborting node, and Results is empty.
type Report struct {
	Results      map[string]OutputResult `json:"results"`
	Error        string                  `json:"error,omitempty"`
	FailedNodeID string                  `json:"failedNodeId,omitempty"`

	// Log records node lifecycle events in execution order. It is
	// populated on both successful and failed runs.
	Log []LogEntry `json:"log,omitempty"`
}

// Failed reports whether the run aborted before completing.
func (r *Report) Failed() bool {
	return r.Error != ""
}
