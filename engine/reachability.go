package engine

import (
	"github.com/flowmesh/flowmesh/workflow"
)

// Router output handles. Exactly one of the two outgoing edges of a router
// is honored per run, selected by the evaluated condition.
const (
	handleTrue  = "true"
	handleFalse = "false"
)

// liveSet tracks the nodes permitted to execute during a run. Structural
// reachability is not enough: a node downstream of a router is live only if
// the router's decision selected its branch. The set starts with the root
// nodes and grows as executed nodes activate their outgoing edges.
type liveSet map[string]struct{}

// newLiveSet seeds the set with every node that has no incoming edge.
func newLiveSet(wf *workflow.Workflow) liveSet {
	hasIncoming := make(map[string]bool, len(wf.Nodes))
	for _, edge := range wf.Edges {
		hasIncoming[edge.Target] = true
	}

	live := make(liveSet, len(wf.Nodes))
	for i := range wf.Nodes {
		if !hasIncoming[wf.Nodes[i].ID] {
			live.add(wf.Nodes[i].ID)
		}
	}
	return live
}

func (s liveSet) add(nodeID string) {
	s[nodeID] = struct{}{}
}

func (s liveSet) has(nodeID string) bool {
	_, live := s[nodeID]
	return live
}

// activateOutgoing marks downstream nodes live after node has executed.
//
// For a router, decision selects the single outgoing edge whose source
// handle matches; the other branch, and everything exclusively downstream
// of it, never becomes live. Every other node type (distributor fan-out
// included) activates all outgoing edges.
func (s liveSet) activateOutgoing(node *workflow.Node, outgoing []workflow.Edge, decision *bool) {
	if node.Type == workflow.NodeRouter && decision != nil {
		selectedHandle := handleFalse
		if *decision {
			selectedHandle = handleTrue
		}
		for _, edge := range outgoing {
			if edge.SourceHandle == selectedHandle {
				s.add(edge.Target)
				return
			}
		}
		return
	}

	for _, edge := range outgoing {
		s.add(edge.Target)
	}
}
