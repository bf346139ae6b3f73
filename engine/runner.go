package engine

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/flowmesh/flowmesh/internal/utils"
	"github.com/flowmesh/flowmesh/observability"
	"github.com/flowmesh/flowmesh/providers/genai"
	"github.com/flowmesh/flowmesh/workflow"
)

// Runner executes workflows. It holds only immutable collaborators, so a
// single Runner is safe to share across concurrent Execute calls; every
// run's mutable state is local to that call.
type Runner struct {
	provider genai.Provider
	fetcher  Fetcher
	observer observability.Observer
}

// NewRunner creates a Runner with the given options.
func NewRunner(opts ...Option) *Runner {
	runner := &Runner{}
	for _, opt := range opts {
		opt(runner)
	}
	return runner
}

// runState is the per-run mutable state: recorded node outputs, the live
// set, and the execution log. It is discarded once the report is produced.
type runState struct {
	outputs  map[string]string
	produced map[string]bool
	live     liveSet
	log      []workflow.LogEntry
}

func (state *runState) record(nodeID, value string) {
	state.outputs[nodeID] = value
	state.produced[nodeID] = true
}

func (state *runState) appendLog(node *workflow.Node, status workflow.LogStatus, message string) {
	state.log = append(state.log, workflow.LogEntry{
		ID:        uuid.NewString(),
		NodeID:    node.ID,
		NodeLabel: node.Type.Label(),
		Status:    status,
		Message:   message,
		Timestamp: time.Now(),
	})
}

// Execute runs the workflow to completion and returns its report. The
// report is never nil: structural failures (invalid document, cycle) and
// node failures are encoded in its Error and FailedNodeID fields, with
// Results left empty.
//
// Nodes run strictly sequentially in topological order. A node whose
// activating branch was never chosen is skipped without error; the first
// node-local failure aborts the run immediately.
func (r *Runner) Execute(ctx context.Context, wf *workflow.Workflow) *workflow.Report {
	report := &workflow.Report{Results: make(map[string]workflow.OutputResult)}
	observer := r.observerFor(ctx)

	if wf == nil {
		report.Error = "No workflow was provided."
		return report
	}

	runID := uuid.NewString()
	if observer != nil {
		observer.Info(ctx, "Workflow run started",
			observability.String(observability.AttrRunID, runID),
			observability.String(observability.AttrWorkflowName, wf.Name),
			observability.Int(observability.AttrNodeCount, len(wf.Nodes)),
		)
	}

	if err := wf.Validate(); err != nil {
		report.Error = err.Error()
		return report
	}

	sorted, err := topologicalSort(wf)
	if err != nil {
		var cycleErr *CycleError
		if errors.As(err, &cycleErr) {
			report.FailedNodeID = cycleErr.NodeID
		}
		report.Error = err.Error()
		if observer != nil {
			observer.Error(ctx, "Workflow validation failed",
				observability.String(observability.AttrRunID, runID),
				observability.Error(err),
			)
		}
		return report
	}

	incoming := make(map[string][]workflow.Edge)
	outgoing := make(map[string][]workflow.Edge)
	for _, edge := range wf.Edges {
		incoming[edge.Target] = append(incoming[edge.Target], edge)
		outgoing[edge.Source] = append(outgoing[edge.Source], edge)
	}

	state := &runState{
		outputs:  make(map[string]string, len(wf.Nodes)),
		produced: make(map[string]bool, len(wf.Nodes)),
		live:     newLiveSet(wf),
	}

	eval := &evaluator{provider: r.provider, fetcher: r.fetcher}

	for _, node := range sorted {
		if !state.live.has(node.ID) {
			if observer != nil {
				observer.Debug(ctx, "Node skipped: branch not activated",
					observability.String(observability.AttrRunID, runID),
					observability.String(observability.AttrNodeID, node.ID),
					observability.String(observability.AttrNodeType, string(node.Type)),
				)
			}
			continue
		}

		inputs, byHandle := r.gatherInputs(incoming[node.ID], state)

		result, nodeErr := eval.evaluate(ctx, node, inputs, byHandle)
		if nodeErr != nil {
			failure := &NodeError{NodeID: node.ID, Label: node.Type.Label(), Err: nodeErr}
			state.appendLog(node, workflow.StatusFailed, nodeErr.Error())
			report.Error = failure.Error()
			report.FailedNodeID = node.ID
			report.Log = state.log
			if observer != nil {
				observer.Error(ctx, "Node failed, aborting run",
					observability.String(observability.AttrRunID, runID),
					observability.String(observability.AttrNodeID, node.ID),
					observability.String(observability.AttrNodeType, string(node.Type)),
					observability.Error(nodeErr),
				)
			}
			return report
		}

		if result.hasValue {
			state.record(node.ID, result.value)
		}
		state.live.activateOutgoing(node, outgoing[node.ID], result.decision)
		state.appendLog(node, workflow.StatusSuccess, utils.TruncateString(result.value, 120))

		if observer != nil {
			attrs := []observability.Attribute{
				observability.String(observability.AttrRunID, runID),
				observability.String(observability.AttrNodeID, node.ID),
				observability.String(observability.AttrNodeType, string(node.Type)),
			}
			if result.decision != nil {
				attrs = append(attrs, observability.Bool(observability.AttrRouterDecision, *result.decision))
			}
			observer.Debug(ctx, "Node completed", attrs...)
		}
	}

	r.aggregate(wf, incoming, state, report)
	report.Log = state.log

	if observer != nil {
		observer.Info(ctx, "Workflow run finished",
			observability.String(observability.AttrRunID, runID),
			observability.Int("result.count", len(report.Results)),
		)
	}

	return report
}

// gatherInputs resolves a node's upstream values. inputs collects the
// non-empty outputs of executed predecessors in edge order; byHandle maps
// each incoming edge's target handle to its source's recorded output for
// handle-addressed consumers.
func (r *Runner) gatherInputs(incomingEdges []workflow.Edge, state *runState) ([]string, map[string]string) {
	var inputs []string
	byHandle := make(map[string]string, len(incomingEdges))

	for _, edge := range incomingEdges {
		if !state.produced[edge.Source] {
			continue
		}
		value := state.outputs[edge.Source]
		byHandle[edge.TargetHandle] = value
		if value != "" {
			inputs = append(inputs, value)
		}
	}

	return inputs, byHandle
}

// aggregate resolves every live output node to its final result. Output
// nodes on branches that never activated are omitted entirely; an output
// node with no incoming edge reports a fixed placeholder.
func (r *Runner) aggregate(wf *workflow.Workflow, incoming map[string][]workflow.Edge, state *runState, report *workflow.Report) {
	outputSeen := false

	for i := range wf.Nodes {
		node := &wf.Nodes[i]
		if node.Type != workflow.NodeOutput {
			continue
		}
		outputSeen = true

		if !state.live.has(node.ID) {
			continue
		}

		edges := incoming[node.ID]
		if len(edges) == 0 {
			report.Results[node.ID] = workflow.OutputResult{Answer: "(Output node is not connected)"}
			continue
		}

		parentID := edges[0].Source
		if !state.produced[parentID] {
			report.Results[node.ID] = workflow.OutputResult{Answer: "Workflow completed with no textual output."}
			continue
		}

		value := state.outputs[parentID]
		if workflow.IsImageValue(value) {
			report.Results[node.ID] = workflow.OutputResult{
				Answer:   "Image generated successfully.",
				ImageURL: value,
			}
			continue
		}
		report.Results[node.ID] = workflow.OutputResult{Answer: value}
	}

	if !outputSeen {
		report.Error = "No Output node found in workflow."
	}
}

func (r *Runner) observerFor(ctx context.Context) observability.Observer {
	if r.observer != nil {
		return r.observer
	}
	return observability.ObserverFromContext(ctx)
}
