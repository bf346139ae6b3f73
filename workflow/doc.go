// Package workflow defines the data model for executable node graphs:
// typed nodes with per-type payloads, directed edges with optional named
// handles, the inline image value encoding used on edges, and the report
// structure produced by a run.
//
// A [Workflow] is the sole input to the execution engine. It is treated as
// immutable for the duration of a run; all mutable run state lives inside
// the engine and is discarded once the [Report] is produced.
package workflow
