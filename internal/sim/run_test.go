package sim

import (
	"context"
	"testing"
	"time"

	"geotrace/internal/compute"
	"geotrace/internal/geolog"
	"geotrace/internal/graph"
	"geotrace/internal/query"
)

const demoScene = `
name = "Demo"
workers = 4

[[tree]]
name = "main"
main = true

  [[tree.node]]
  id = 1
  label = "Grid"
  duration_us = 120
  verts = 100
  attrs = [{name = "position", domain = "point", type = "vector"}]

  [[tree.node]]
  id = 2
  label = "Scatter"
  duration_us = 80
  warning = "density exceeds budget"
  severity = "warning"
  reads = ["density"]

  [[tree.node]]
  id = 3
  label = "Detail"
  group = "detail"
  duration_us = 10

  [[tree.node]]
  id = 10
  label = "Repeat Input"

  [[tree.node]]
  id = 11
  label = "Repeat Output"
  duration_us = 5

  [[tree.node]]
  id = 12
  label = "Smooth"
  duration_us = 30
  int_value = 7

  [[tree.node]]
  id = 4
  label = "Viewer"
  viewer = true
  verts = 100

  [[tree.zone]]
  kind = "repeat"
  input = 10
  output = 11
  iterations = 3
  nodes = [12]

[[tree]]
name = "detail"

  [[tree.node]]
  id = 50
  label = "Noise"
  duration_us = 40
  writes = ["uv"]

  [[tree.node]]
  id = 51
  label = "Gizmo Dial"
  gizmo = true
`

func mustRun(t *testing.T) (*geolog.ModifierLog, *graph.Tree) {
	t.Helper()
	scene, err := ParseScene(demoScene)
	if err != nil {
		t.Fatalf("parse scene: %v", err)
	}
	m, tree, err := Run(context.Background(), scene)
	if err != nil {
		t.Fatalf("run scene: %v", err)
	}
	return m, tree
}

func TestRunCapturesExpectedFacts(t *testing.T) {
	m, tree := mustRun(t)
	root := compute.NewModifierContext("Demo")
	log := m.TreeLog(root.Hash())

	log.EnsureNodeWarnings(tree)
	if !log.AllWarnings.Contains(geolog.NodeWarning{Type: geolog.WarningWarn, Message: "density exceeds budget"}) {
		t.Fatalf("node warning missing")
	}

	log.EnsureExecutionTimes()
	if log.Nodes[1].ExecutionTime != 120*time.Microsecond {
		t.Fatalf("node 1 time wrong: %v", log.Nodes[1].ExecutionTime)
	}
	// Three iterations of node 12 accumulate in their own contexts; the
	// main tree only sums its own spans.
	if log.Nodes[12] != nil && log.Nodes[12].ExecutionTime != 0 {
		t.Fatalf("zone body time must not leak into the main context")
	}

	log.EnsureUsedNamedAttributes()
	if log.UsedNamedAttributes["density"] != geolog.UsageRead {
		t.Fatalf("read usage missing: %v", log.UsedNamedAttributes)
	}
	// The group writes "uv"; usage surfaces on the group node.
	if log.Nodes[3].UsedNamedAttributes["uv"] != geolog.UsageWrite {
		t.Fatalf("group usage must surface on the group node")
	}

	log.EnsureEvaluatedGizmoNodes()
	if _, ok := log.EvaluatedGizmoNodes[3]; !ok {
		t.Fatalf("gizmo inside group must mark the group node")
	}

	log.EnsureExistingAttributes()
	found := false
	for _, a := range log.ExistingAttributes {
		if a.Name == "position" {
			found = true
		}
	}
	if !found {
		t.Fatalf("geometry attributes missing: %v", log.ExistingAttributes)
	}

	log.EnsureViewerNodeLogs()
	if log.ViewerNodeLogs[4] == nil {
		t.Fatalf("viewer snapshot missing")
	}
}

func TestRunZoneContextsVisible(t *testing.T) {
	m, tree := mustRun(t)
	path := graph.EditorPath{ModifierName: "Demo"}

	hashes := query.ContextHashByZone(tree, path, m, nil)
	if len(hashes) != 1 {
		t.Fatalf("expected the repeat zone mapped, got %v", hashes)
	}
	iterLog := m.TreeLog(hashes[11])
	iterLog.EnsureExecutionTimes()
	if iterLog.Nodes[12] == nil || iterLog.Nodes[12].ExecutionTime != 30*time.Microsecond {
		t.Fatalf("iteration context must hold the body's spans")
	}

	// The zone body value is visible from the outer tree through the
	// innermost-wins resolution.
	outer := m.TreeLog(compute.NewModifierContext("Demo").Hash())
	if v, ok := geolog.FindPrimitiveSocketValue[int](outer, 12, 0, true); !ok || v != 7 {
		t.Fatalf("zone body value not resolved from outer tree: %d %v", v, ok)
	}
}

func TestRunDeterministicTimes(t *testing.T) {
	scene, err := ParseScene(demoScene)
	if err != nil {
		t.Fatal(err)
	}
	total := func() time.Duration {
		m, _, err := Run(context.Background(), scene)
		if err != nil {
			t.Fatal(err)
		}
		log := m.TreeLog(compute.NewModifierContext("Demo").Hash())
		log.EnsureExecutionTimes()
		return log.ExecutionTime
	}
	a, b := total(), total()
	if a != b || a == 0 {
		t.Fatalf("synthetic clocks must make times deterministic: %v vs %v", a, b)
	}
}

func TestSceneValidation(t *testing.T) {
	if _, err := ParseScene(`name = "x"`); err == nil {
		t.Fatalf("scene without main tree must fail")
	}
	bad := `
[[tree]]
name = "main"
main = true
  [[tree.node]]
  id = 1
  group = "missing"
`
	if _, err := ParseScene(bad); err == nil {
		t.Fatalf("unknown group reference must fail")
	}
	badZone := `
[[tree]]
name = "main"
main = true
  [[tree.zone]]
  kind = "spiral"
  output = 2
`
	if _, err := ParseScene(badZone); err == nil {
		t.Fatalf("unknown zone kind must fail")
	}
}
