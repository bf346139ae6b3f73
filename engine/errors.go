package engine

import (
	"errors"
	"fmt"
)

// Sentinel errors for node-local failure classes. Node failures are wrapped
// in a *NodeError that preserves the failing node's identity; use errors.Is
// against these sentinels to classify a failure.
var (
	// ErrUnsupportedNodeType means a node's declared type has no evaluator.
	ErrUnsupportedNodeType = errors.New("unsupported node type")

	// ErrMissingInput means a generative node had no usable upstream value
	// and no literal configuration to fall back on.
	ErrMissingInput = errors.New("missing required input")
)

// CycleError is returned when graph validation finds a cycle. NodeID names
// one node that is part of the cycle.
type CycleError struct {
	NodeID string
}

// Error implements the error interface.
func (e *CycleError) Error() string {
	return fmt.Sprintf("Workflow has a cycle. Cannot execute. Check connections for node %s.", e.NodeID)
}

// ScriptError wraps a failure while evaluating a user-supplied expression
// in a code or router node. Op distinguishes the two message prefixes.
type ScriptError struct {
	Op  string // "code" or "router"
	Err error
}

// Error implements the error interface.
func (e *ScriptError) Error() string {
	if e.Op == "router" {
		return fmt.Sprintf("Router Condition Error: %v", e.Err)
	}
	return fmt.Sprintf("Code Snippet Error: %v", e.Err)
}

// Unwrap returns the underlying evaluation error.
func (e *ScriptError) Unwrap() error {
	return e.Err
}

// NodeError attributes a node-local failure to the node that raised it.
type NodeError struct {
	NodeID string
	Label  string
	Err    error
}

// Error implements the error interface with the user-facing attribution
// format used in reports.
func (e *NodeError) Error() string {
	return fmt.Sprintf("Error at %s: %v", e.Label, e.Err)
}

// Unwrap returns the underlying node failure.
func (e *NodeError) Unwrap() error {
	return e.Err
}
