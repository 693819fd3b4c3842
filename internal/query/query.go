// Package query maps UI-level addresses (node editor paths, zones, viewer
// paths) to compute contexts and their reduced logs. It is the bridge
// between what an editor displays and what a ModifierLog captured.
package query

import (
	"geotrace/internal/compute"
	"geotrace/internal/geolog"
	"geotrace/internal/graph"
)

// contextForElems extends root by one context per path element.
func contextForElems(root compute.Context, elems []graph.PathElem) compute.Context {
	b := compute.NewBuilder(root)
	for _, e := range elems {
		switch e.Kind {
		case graph.PathGroupNode:
			b.PushGroupNode(e.NodeID)
		case graph.PathRepeatZone:
			b.PushRepeatZone(e.NodeID, e.Index)
		case graph.PathForeachElement:
			b.PushForeachElement(e.NodeID, e.Index)
		case graph.PathSimulationZone:
			b.PushSimulationZone(e.NodeID)
		}
	}
	return b.Current()
}

// ContextForEditorPath resolves the compute context of the tree a node
// editor displays.
func ContextForEditorPath(path graph.EditorPath) compute.Context {
	return contextForElems(compute.NewModifierContext(path.ModifierName), path.Elems)
}

// ContextForViewerPath resolves the compute context containing the viewer
// node a viewer path addresses.
func ContextForViewerPath(path graph.ViewerPath) compute.Context {
	return contextForElems(compute.NewModifierContext(path.ModifierName), path.Elems)
}

// zoneChain returns the ancestors of z from outermost to z itself.
func zoneChain(z *graph.Zone) []*graph.Zone {
	var chain []*graph.Zone
	for c := z; c != nil; c = c.Parent {
		chain = append([]*graph.Zone{c}, chain...)
	}
	return chain
}

// zoneContext builds the context for one zone body under base. inspection
// selects the iteration/element to look at per zone output node; absent
// entries default to the first one.
func zoneContext(base compute.Context, z *graph.Zone, inspection map[int32]int) compute.Context {
	b := compute.NewBuilder(base)
	for _, c := range zoneChain(z) {
		idx := inspection[c.OutputNodeID]
		switch c.Kind {
		case graph.ZoneRepeat:
			b.PushRepeatZone(c.OutputNodeID, idx)
		case graph.ZoneForeach:
			b.PushForeachElement(c.OutputNodeID, idx)
		case graph.ZoneSimulation:
			b.PushSimulationZone(c.OutputNodeID)
		}
	}
	return b.Current()
}

// ContextHashByZone maps every zone of the displayed tree to the context
// hash active for it under the given editor path. Zones whose context never
// logged anything are omitted; before the modifier evaluated at all the
// result is empty.
func ContextHashByZone(tree *graph.Tree, path graph.EditorPath, log *geolog.ModifierLog, inspection map[int32]int) map[int32]compute.Hash {
	out := make(map[int32]compute.Hash)
	if log == nil || tree == nil {
		return out
	}
	base := ContextForEditorPath(path)
	if !log.HasContext(base.Hash()) {
		return out
	}
	for _, z := range tree.Zones {
		ctx := zoneContext(base, z, inspection)
		if log.HasContext(ctx.Hash()) {
			out[z.OutputNodeID] = ctx.Hash()
		}
	}
	return out
}

// TreeLogByZone resolves each active zone of the displayed tree to its
// reduced log, plus the displayed tree itself under node id 0.
func TreeLogByZone(tree *graph.Tree, path graph.EditorPath, log *geolog.ModifierLog, inspection map[int32]int) map[int32]*geolog.TreeLog {
	out := make(map[int32]*geolog.TreeLog)
	if log == nil || tree == nil {
		return out
	}
	base := ContextForEditorPath(path)
	if !log.HasContext(base.Hash()) {
		return out
	}
	out[0] = log.TreeLog(base.Hash())
	for id, h := range ContextHashByZone(tree, path, log, inspection) {
		out[id] = log.TreeLog(h)
	}
	return out
}

// FindViewerNodeLog returns the geometry snapshot logged for the viewer
// node a path addresses, or nil when the viewer did not run.
func FindViewerNodeLog(log *geolog.ModifierLog, path graph.ViewerPath) *geolog.ViewerNodeLog {
	if log == nil {
		return nil
	}
	ctx := ContextForViewerPath(path)
	tl := log.TreeLog(ctx.Hash())
	tl.EnsureViewerNodeLogs()
	return tl.ViewerNodeLogs[path.ViewerNodeID]
}
