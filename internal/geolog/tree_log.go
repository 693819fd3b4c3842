package geolog

import (
	"time"

	"geotrace/internal/compute"
	"geotrace/internal/geo"
	"geotrace/internal/graph"
	"geotrace/internal/gtype"
)

type socketKey struct {
	nodeID int32
	index  int
	output bool
}

// TreeLog is the reduced view of one compute context: every TreeLogger
// written for that context, merged. Instances are built lazily by
// ModifierLog and cached for the life of the pass.
//
// Reduction is split into Ensure* steps so tooling pays only for the data
// it reads. Each step runs at most once; calling it again is a no-op. The
// read path is single-threaded by contract, so plain booleans guard the
// steps.
type TreeLog struct {
	modifierLog *ModifierLog
	// loggers holds the constituent loggers in discovery order. The order
	// is the tie-break for equally specific socket values.
	loggers        []*TreeLogger
	childrenHashes []compute.Hash

	reducedNodeWarnings        bool
	reducedExecutionTimes      bool
	reducedSocketValues        bool
	reducedViewerNodeLogs      bool
	reducedExistingAttributes  bool
	reducedUsedNamedAttributes bool
	reducedDebugMessages       bool
	reducedEvaluatedGizmoNodes bool

	// Nodes maps node ids to their reduced logs.
	Nodes map[int32]*NodeLog
	// ViewerNodeLogs maps viewer node ids to their geometry snapshots.
	ViewerNodeLogs map[int32]*ViewerNodeLog
	// AllWarnings is the distinct union of every node's warnings,
	// including child contexts.
	AllWarnings WarningSet
	// ExecutionTime sums all node execution spans of this context.
	ExecutionTime time.Duration
	// ExistingAttributes lists attributes seen on any geometry in this
	// tree, deduplicated by name.
	ExistingAttributes []geo.AttributeInfo
	// UsedNamedAttributes merges usage flags per attribute name across the
	// whole tree, including child contexts.
	UsedNamedAttributes map[string]NamedAttributeUsage
	// EvaluatedGizmoNodes holds ids of nodes that evaluated a gizmo.
	EvaluatedGizmoNodes map[int32]struct{}

	// valueDepth records, per resolved socket, how many contexts below
	// this one the winning value came from. Deeper values are more
	// specific and take precedence.
	valueDepth map[socketKey]int
}

func newTreeLog(m *ModifierLog, loggers []*TreeLogger, children []compute.Hash) *TreeLog {
	return &TreeLog{
		modifierLog:         m,
		loggers:             loggers,
		childrenHashes:      children,
		Nodes:               make(map[int32]*NodeLog),
		ViewerNodeLogs:      make(map[int32]*ViewerNodeLog),
		UsedNamedAttributes: make(map[string]NamedAttributeUsage),
		EvaluatedGizmoNodes: make(map[int32]struct{}),
	}
}

// Empty reports whether nothing was logged for this context.
func (t *TreeLog) Empty() bool {
	return len(t.loggers) == 0 && len(t.childrenHashes) == 0
}

func (t *TreeLog) node(id int32) *NodeLog {
	n, ok := t.Nodes[id]
	if !ok {
		n = newNodeLog()
		t.Nodes[id] = n
	}
	return n
}

// spawnerNodeID returns the node in the parent tree that spawned this
// context, taken from whichever logger recorded it.
func (t *TreeLog) spawnerNodeID() (int32, bool) {
	for _, l := range t.loggers {
		if l.HasParentNode {
			return l.ParentNodeID, true
		}
	}
	return 0, false
}

// EnsureNodeWarnings merges warnings from all loggers and child contexts.
// Child warnings surface on the node that spawned the child, so problems
// inside groups and zones stay visible from outside. When tree is given,
// zones whose body never ran get a synthesized informational warning on
// their output node. Idempotent.
func (t *TreeLog) EnsureNodeWarnings(tree *graph.Tree) {
	if t.reducedNodeWarnings {
		return
	}
	t.reducedNodeWarnings = true

	for _, l := range t.loggers {
		l.warnings.Each(func(w *WarningWithNode) {
			t.node(w.NodeID).Warnings.Add(w.Warning)
			t.AllWarnings.Add(w.Warning)
		})
	}

	spawned := make(map[int32]struct{})
	for _, h := range t.childrenHashes {
		child := t.modifierLog.TreeLog(h)
		child.EnsureNodeWarnings(nil)
		if id, ok := child.spawnerNodeID(); ok {
			spawned[id] = struct{}{}
			t.node(id).Warnings.AddAll(&child.AllWarnings)
		}
		t.AllWarnings.AddAll(&child.AllWarnings)
	}

	if tree != nil {
		for _, z := range tree.Zones {
			if _, ok := spawned[z.OutputNodeID]; ok {
				continue
			}
			w := NodeWarning{Type: WarningInfo, Message: "Zone body was not evaluated"}
			t.node(z.OutputNodeID).Warnings.Add(w)
			t.AllWarnings.Add(w)
		}
	}
}

// EnsureExecutionTimes sums node execution spans into per-node totals and
// the tree total. Spans from different workers are additive: the context
// hash already separates distinct instantiations. Idempotent.
func (t *TreeLog) EnsureExecutionTimes() {
	if t.reducedExecutionTimes {
		return
	}
	t.reducedExecutionTimes = true

	for _, l := range t.loggers {
		l.executionSpans.Each(func(s *NodeExecutionSpan) {
			d := s.End.Sub(s.Start)
			t.node(s.NodeID).ExecutionTime += d
			t.ExecutionTime += d
		})
	}
}

// EnsureSocketValues resolves one value per (node, socket). The most
// specific value wins: a value logged in a child context replaces one
// logged here, because the child saw the socket from closer in. Between
// equally specific candidates the first-discovered one stays. Idempotent.
func (t *TreeLog) EnsureSocketValues() {
	if t.reducedSocketValues {
		return
	}
	t.reducedSocketValues = true
	t.valueDepth = make(map[socketKey]int)

	for _, l := range t.loggers {
		l.inputValues.Each(func(r *SocketValueLog) {
			t.insertSocketValue(socketKey{r.NodeID, r.SocketIndex, false}, r.Value, 0)
		})
		l.outputValues.Each(func(r *SocketValueLog) {
			t.insertSocketValue(socketKey{r.NodeID, r.SocketIndex, true}, r.Value, 0)
		})
	}

	for _, h := range t.childrenHashes {
		child := t.modifierLog.TreeLog(h)
		child.EnsureSocketValues()
		for key, depth := range child.valueDepth {
			t.insertSocketValue(key, child.socketValue(key), depth+1)
		}
	}
}

func (t *TreeLog) insertSocketValue(key socketKey, value *ValueLog, depth int) {
	if existing, ok := t.valueDepth[key]; ok && depth <= existing {
		return
	}
	t.valueDepth[key] = depth
	n := t.node(key.nodeID)
	if key.output {
		n.OutputValues[key.index] = value
	} else {
		n.InputValues[key.index] = value
	}
}

func (t *TreeLog) socketValue(key socketKey) *ValueLog {
	n, ok := t.Nodes[key.nodeID]
	if !ok {
		return nil
	}
	if key.output {
		return n.OutputValues[key.index]
	}
	return n.InputValues[key.index]
}

// EnsureViewerNodeLogs indexes viewer snapshots by node id. Idempotent.
func (t *TreeLog) EnsureViewerNodeLogs() {
	if t.reducedViewerNodeLogs {
		return
	}
	t.reducedViewerNodeLogs = true

	for _, l := range t.loggers {
		l.viewerLogs.Each(func(r *ViewerNodeLogWithNode) {
			if _, ok := t.ViewerNodeLogs[r.NodeID]; !ok {
				t.ViewerNodeLogs[r.NodeID] = r.Log
			}
		})
	}
}

// EnsureExistingAttributes collects every attribute seen on any geometry
// summary in this tree, deduplicated by name. An entry that knows its
// domain and type replaces one where the attribute was only referenced.
// Idempotent.
func (t *TreeLog) EnsureExistingAttributes() {
	if t.reducedExistingAttributes {
		return
	}
	t.reducedExistingAttributes = true

	indexByName := make(map[string]int)
	add := func(a geo.AttributeInfo) {
		if i, ok := indexByName[a.Name]; ok {
			if !t.ExistingAttributes[i].Known() && a.Known() {
				t.ExistingAttributes[i] = a
			}
			return
		}
		indexByName[a.Name] = len(t.ExistingAttributes)
		t.ExistingAttributes = append(t.ExistingAttributes, a)
	}

	addRecord := func(r *SocketValueLog) {
		if r.Value.Kind != ValueGeometry {
			return
		}
		for _, a := range r.Value.Geometry.Attributes {
			add(a)
		}
	}
	for _, l := range t.loggers {
		l.inputValues.Each(addRecord)
		l.outputValues.Each(addRecord)
	}
}

// EnsureUsedNamedAttributes merges named-attribute usage flags with
// bitwise OR, per node and tree-wide. Usage inside child contexts counts
// against the spawning node, so a group that writes "uv" reports as
// writing "uv". Idempotent.
func (t *TreeLog) EnsureUsedNamedAttributes() {
	if t.reducedUsedNamedAttributes {
		return
	}
	t.reducedUsedNamedAttributes = true

	for _, l := range t.loggers {
		l.attributeUsages.Each(func(r *AttributeUsageWithNode) {
			n := t.node(r.NodeID)
			n.UsedNamedAttributes[r.AttributeName] |= r.Usage
			t.UsedNamedAttributes[r.AttributeName] |= r.Usage
		})
	}

	for _, h := range t.childrenHashes {
		child := t.modifierLog.TreeLog(h)
		child.EnsureUsedNamedAttributes()
		spawner, hasSpawner := child.spawnerNodeID()
		for name, usage := range child.UsedNamedAttributes {
			if hasSpawner {
				t.node(spawner).UsedNamedAttributes[name] |= usage
			}
			t.UsedNamedAttributes[name] |= usage
		}
	}
}

// EnsureDebugMessages gathers development messages per node in log order.
// Idempotent.
func (t *TreeLog) EnsureDebugMessages() {
	if t.reducedDebugMessages {
		return
	}
	t.reducedDebugMessages = true

	for _, l := range t.loggers {
		l.debugMessages.Each(func(m *DebugMessage) {
			n := t.node(m.NodeID)
			n.DebugMessages = append(n.DebugMessages, m.Message)
		})
	}
}

// EnsureEvaluatedGizmoNodes collects the nodes that evaluated a gizmo. A
// child context with gizmo activity marks its spawning node here, so the
// editor can tell that a group contains active gizmos. Idempotent.
func (t *TreeLog) EnsureEvaluatedGizmoNodes() {
	if t.reducedEvaluatedGizmoNodes {
		return
	}
	t.reducedEvaluatedGizmoNodes = true

	for _, l := range t.loggers {
		l.gizmoNodes.Each(func(g *EvaluatedGizmoNode) {
			t.EvaluatedGizmoNodes[g.NodeID] = struct{}{}
		})
	}

	for _, h := range t.childrenHashes {
		child := t.modifierLog.TreeLog(h)
		child.EnsureEvaluatedGizmoNodes()
		if len(child.EvaluatedGizmoNodes) == 0 {
			continue
		}
		if id, ok := child.spawnerNodeID(); ok {
			t.EvaluatedGizmoNodes[id] = struct{}{}
		}
	}
}

// FindSocketValueLog returns the resolved value for a socket, or nil when
// nothing was logged for it. Runs EnsureSocketValues on first use.
func (t *TreeLog) FindSocketValueLog(nodeID int32, socketIndex int, output bool) *ValueLog {
	t.EnsureSocketValues()
	return t.socketValue(socketKey{nodeID, socketIndex, output})
}

// FindPrimitiveSocketValue returns the socket's value as T. It reports
// false when nothing was logged, when the value is not an opaque copy
// (fields and geometries never convert), or when the conversion table has
// no entry for T. A false result means "value unknown", not an error.
func FindPrimitiveSocketValue[T any](t *TreeLog, nodeID int32, socketIndex int, output bool) (T, bool) {
	var zero T
	vl := t.FindSocketValueLog(nodeID, socketIndex, output)
	if vl == nil || vl.Kind != ValueOpaque {
		return zero, false
	}
	return gtype.ConvertTo[T](vl.Value)
}
