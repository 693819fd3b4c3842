// Package geolog captures data produced while a geometry node graph
// evaluates and turns it into a queryable view afterwards. Interactive
// tooling needs intermediate results, not just the final output: attribute
// search, node warnings, socket inspection and viewer nodes all read from
// here.
//
// The package distinguishes loggers from logs:
//
//   - Logger (TreeLogger): used during evaluation. Every worker writes into
//     its own logger per compute context, so the hot path never synchronizes
//     or aggregates. Records are dumped into append-only chunked lists; most
//     of them are never looked at again, so any processing up front would be
//     wasted.
//   - Log (TreeLog, NodeLog): used when tooling reads the data back. A log
//     merges every worker's logger for one compute context into node- and
//     socket-indexed structures. Each reduction step runs once, lazily, on
//     first access.
//
// The root of a capture is ModifierLog: one per modifier evaluation pass,
// discarded wholesale on re-evaluation. References into a ModifierLog must
// not be retained past the pass that produced them.
package geolog
