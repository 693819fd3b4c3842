package query

import (
	"testing"
	"time"

	"geotrace/internal/compute"
	"geotrace/internal/geo"
	"geotrace/internal/geolog"
	"geotrace/internal/graph"
)

type stubGeometry struct{ verts int }

func (g stubGeometry) Summarize() geo.Summary {
	return geo.Summary{Mesh: &geo.MeshInfo{VertsNum: g.verts}}
}

func demoTree() *graph.Tree {
	outer := &graph.Zone{Kind: graph.ZoneRepeat, InputNodeID: 10, OutputNodeID: 11, NodeIDs: []int32{12}}
	inner := &graph.Zone{Kind: graph.ZoneSimulation, InputNodeID: 13, OutputNodeID: 14, NodeIDs: []int32{15}, Parent: outer}
	return &graph.Tree{
		Name: "main",
		Nodes: []graph.Node{
			{ID: 1, Label: "Grid"}, {ID: 10, Label: "Repeat Input"},
			{ID: 11, Label: "Repeat Output"}, {ID: 14, Label: "Sim Output"},
		},
		Zones: []*graph.Zone{outer, inner},
	}
}

func TestContextHashByZone(t *testing.T) {
	tree := demoTree()
	path := graph.EditorPath{ModifierName: "GeometryNodes"}
	m := geolog.NewModifierLog(1)

	// Before evaluation: no mapping at all.
	if got := ContextHashByZone(tree, path, m, nil); len(got) != 0 {
		t.Fatalf("expected empty mapping before evaluation, got %v", got)
	}

	root := compute.NewModifierContext("GeometryNodes")
	iter := compute.NewRepeatZoneContext(root, 11, 0)
	sim := compute.NewSimulationZoneContext(iter, 14)
	m.LocalLogger(0, root).LogNodeExecution(1, time.Unix(0, 0), time.Unix(0, 1))
	m.LocalLogger(0, iter).LogNodeExecution(12, time.Unix(0, 0), time.Unix(0, 1))
	m.LocalLogger(0, sim).LogNodeExecution(15, time.Unix(0, 0), time.Unix(0, 1))

	got := ContextHashByZone(tree, path, m, nil)
	if len(got) != 2 {
		t.Fatalf("expected both zones mapped, got %v", got)
	}
	if got[11] != iter.Hash() {
		t.Fatalf("repeat zone mapped to wrong context")
	}
	if got[14] != sim.Hash() {
		t.Fatalf("nested simulation zone must chain through its ancestors")
	}

	// Selecting iteration 1 moves the zone to a context that never ran.
	got = ContextHashByZone(tree, path, m, map[int32]int{11: 1})
	if _, ok := got[11]; ok {
		t.Fatalf("unevaluated iteration must be omitted")
	}
}

func TestTreeLogByZone(t *testing.T) {
	tree := demoTree()
	path := graph.EditorPath{ModifierName: "GeometryNodes"}
	m := geolog.NewModifierLog(1)
	root := compute.NewModifierContext("GeometryNodes")
	iter := compute.NewRepeatZoneContext(root, 11, 0)
	m.LocalLogger(0, root).LogWarning(1, geolog.WarningWarn, "w")
	m.LocalLogger(0, iter).LogWarning(12, geolog.WarningError, "e")

	logs := TreeLogByZone(tree, path, m, nil)
	if logs[0] == nil || logs[11] == nil {
		t.Fatalf("expected displayed tree and repeat zone logs, got %v", logs)
	}
	logs[11].EnsureNodeWarnings(nil)
	if logs[11].AllWarnings.Len() != 1 {
		t.Fatalf("zone log must reduce its own context only")
	}
}

func TestFindViewerNodeLog(t *testing.T) {
	m := geolog.NewModifierLog(1)
	root := compute.NewModifierContext("GeometryNodes")
	group := compute.NewGroupNodeContext(root, 5)
	m.LocalLogger(0, group).LogViewerNode(42, stubGeometry{verts: 9})

	path := graph.ViewerPath{
		ModifierName: "GeometryNodes",
		Elems:        []graph.PathElem{{Kind: graph.PathGroupNode, NodeID: 5}},
		ViewerNodeID: 42,
	}
	vl := FindViewerNodeLog(m, path)
	if vl == nil || vl.Geometry.Summarize().Mesh.VertsNum != 9 {
		t.Fatalf("viewer snapshot not found via path")
	}

	path.ViewerNodeID = 43
	if FindViewerNodeLog(m, path) != nil {
		t.Fatalf("missing viewer node must yield nil")
	}
	if FindViewerNodeLog(nil, path) != nil {
		t.Fatalf("nil store must yield nil")
	}
}
