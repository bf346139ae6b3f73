// Package engine executes workflow graphs. A [Runner] topologically sorts
// the graph, walks it sequentially while a live set tracks which branches a
// router actually activated, dispatches each live node to its per-type
// evaluator, and aggregates the values reaching output nodes into a
// workflow.Report.
//
// Execution is strictly sequential: each generative service call completes
// before the next node runs, and the first node failure aborts the whole
// run with the failing node's identity preserved in the report. All run
// state (node outputs, live set, log) is created per call to Execute and
// discarded afterwards, so a single Runner may serve concurrent runs.
package engine
