package geolog

import "time"

// NodeLog is the reduced, query-ready data for one node in one context.
// Fields are filled in by the TreeLog Ensure* steps; which fields are valid
// depends on which steps have run.
type NodeLog struct {
	// Warnings generated for this node, deduplicated. Includes warnings
	// propagated up from contexts this node spawned.
	Warnings WarningSet
	// ExecutionTime is the summed duration of all executions of this node.
	ExecutionTime time.Duration
	// InputValues and OutputValues map socket indices to resolved values.
	InputValues  map[int]*ValueLog
	OutputValues map[int]*ValueLog
	// UsedNamedAttributes maps attribute names to merged usage flags.
	UsedNamedAttributes map[string]NamedAttributeUsage
	// DebugMessages collects development messages in log order.
	DebugMessages []string
}

func newNodeLog() *NodeLog {
	return &NodeLog{
		InputValues:         make(map[int]*ValueLog),
		OutputValues:        make(map[int]*ValueLog),
		UsedNamedAttributes: make(map[string]NamedAttributeUsage),
	}
}
