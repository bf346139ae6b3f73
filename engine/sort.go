package engine

import (
	"github.com/flowmesh/flowmesh/workflow"
)

// topologicalSort orders the workflow's nodes so every edge points from an
// earlier to a later node, using Kahn's algorithm. The queue is seeded in
// node declaration order and processed FIFO, so the ordering is
// deterministic for a given document.
//
// If the produced sequence is shorter than the node count the graph has a
// cycle; the returned *CycleError names one node left unsorted.
func topologicalSort(wf *workflow.Workflow) ([]*workflow.Node, error) {
	inDegree := make(map[string]int, len(wf.Nodes))
	adjacency := make(map[string][]string, len(wf.Nodes))

	for i := range wf.Nodes {
		inDegree[wf.Nodes[i].ID] = 0
	}
	for _, edge := range wf.Edges {
		adjacency[edge.Source] = append(adjacency[edge.Source], edge.Target)
		inDegree[edge.Target]++
	}

	nodesByID := make(map[string]*workflow.Node, len(wf.Nodes))
	for i := range wf.Nodes {
		nodesByID[wf.Nodes[i].ID] = &wf.Nodes[i]
	}

	queue := make([]string, 0, len(wf.Nodes))
	for i := range wf.Nodes {
		if inDegree[wf.Nodes[i].ID] == 0 {
			queue = append(queue, wf.Nodes[i].ID)
		}
	}

	sorted := make([]*workflow.Node, 0, len(wf.Nodes))
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		sorted = append(sorted, nodesByID[current])

		for _, successor := range adjacency[current] {
			inDegree[successor]--
			if inDegree[successor] == 0 {
				queue = append(queue, successor)
			}
		}
	}

	if len(sorted) != len(wf.Nodes) {
		// Report one node that never reached in-degree zero.
		sortedIDs := make(map[string]bool, len(sorted))
		for _, node := range sorted {
			sortedIDs[node.ID] = true
		}
		for i := range wf.Nodes {
			if !sortedIDs[wf.Nodes[i].ID] {
				return nil, &CycleError{NodeID: wf.Nodes[i].ID}
			}
		}
	}

	return sorted, nil
}
