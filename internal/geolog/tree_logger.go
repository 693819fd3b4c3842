package geolog

import (
	"time"

	"geotrace/internal/chunk"
	"geotrace/internal/compute"
	"geotrace/internal/geo"
	"geotrace/internal/gtype"
)

// TreeLogger collects raw data for one node tree in one compute context,
// written by exactly one worker. Appends are allocation-only; nothing is
// merged or deduplicated here. Several workers evaluating the same context
// each get their own TreeLogger, reconciled later by TreeLog.
type TreeLogger struct {
	// ParentHash identifies the enclosing context, zero for the root.
	ParentHash compute.Hash
	// ParentNodeID is the node in the parent tree that spawned this
	// context (group node or zone output node). Valid when HasParentNode.
	ParentNodeID  int32
	HasParentNode bool
	// ChildrenHashes lists contexts this one spawned, in discovery order.
	ChildrenHashes []compute.Hash

	warnings        chunk.List[WarningWithNode]
	inputValues     chunk.List[SocketValueLog]
	outputValues    chunk.List[SocketValueLog]
	executionSpans  chunk.List[NodeExecutionSpan]
	viewerLogs      chunk.List[ViewerNodeLogWithNode]
	attributeUsages chunk.List[AttributeUsageWithNode]
	debugMessages   chunk.List[DebugMessage]
	gizmoNodes      chunk.List[EvaluatedGizmoNode]
}

// WarningWithNode is one raw warning record.
type WarningWithNode struct {
	NodeID  int32
	Warning NodeWarning
}

// SocketValueLog is one raw socket value record.
type SocketValueLog struct {
	NodeID      int32
	SocketIndex int
	Value       *ValueLog
}

// NodeExecutionSpan is one timed node execution.
type NodeExecutionSpan struct {
	NodeID int32
	Start  time.Time
	End    time.Time
}

// ViewerNodeLogWithNode is one raw viewer snapshot record.
type ViewerNodeLogWithNode struct {
	NodeID int32
	Log    *ViewerNodeLog
}

// AttributeUsageWithNode is one raw named-attribute usage record.
type AttributeUsageWithNode struct {
	NodeID        int32
	AttributeName string
	Usage         NamedAttributeUsage
}

// DebugMessage is one raw free-form development message.
type DebugMessage struct {
	NodeID  int32
	Message string
}

// EvaluatedGizmoNode marks that a gizmo node ran.
type EvaluatedGizmoNode struct {
	NodeID int32
}

// LogWarning attaches a warning to a node.
func (l *TreeLogger) LogWarning(nodeID int32, typ WarningType, message string) {
	l.warnings.Append(WarningWithNode{NodeID: nodeID, Warning: NodeWarning{Type: typ, Message: message}})
}

// LogInputValue captures the value arriving at an input socket.
func (l *TreeLogger) LogInputValue(nodeID int32, socketIndex int, value gtype.Pointer) {
	l.inputValues.Append(SocketValueLog{NodeID: nodeID, SocketIndex: socketIndex, Value: captureValue(value)})
}

// LogOutputValue captures the value a node produced on an output socket.
func (l *TreeLogger) LogOutputValue(nodeID int32, socketIndex int, value gtype.Pointer) {
	l.outputValues.Append(SocketValueLog{NodeID: nodeID, SocketIndex: socketIndex, Value: captureValue(value)})
}

// LogNodeExecution records the time interval one node execution took.
func (l *TreeLogger) LogNodeExecution(nodeID int32, start, end time.Time) {
	l.executionSpans.Append(NodeExecutionSpan{NodeID: nodeID, Start: start, End: end})
}

// LogViewerNode snapshots the geometry a viewer node received. Ownership of
// the snapshot transfers to the logger.
func (l *TreeLogger) LogViewerNode(nodeID int32, geometry geo.Geometry) {
	l.viewerLogs.Append(ViewerNodeLogWithNode{NodeID: nodeID, Log: &ViewerNodeLog{Geometry: geometry}})
}

// LogUsedNamedAttribute records that a node accessed an attribute by name.
func (l *TreeLogger) LogUsedNamedAttribute(nodeID int32, name string, usage NamedAttributeUsage) {
	l.attributeUsages.Append(AttributeUsageWithNode{NodeID: nodeID, AttributeName: name, Usage: usage})
}

// LogDebugMessage records a free-form message for development builds.
func (l *TreeLogger) LogDebugMessage(nodeID int32, message string) {
	l.debugMessages.Append(DebugMessage{NodeID: nodeID, Message: message})
}

// LogEvaluatedGizmoNode records that a gizmo node ran in this context.
func (l *TreeLogger) LogEvaluatedGizmoNode(nodeID int32) {
	l.gizmoNodes.Append(EvaluatedGizmoNode{NodeID: nodeID})
}
