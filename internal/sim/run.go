package sim

import (
	"context"
	"runtime"
	"time"

	"fortio.org/safecast"
	"golang.org/x/sync/errgroup"

	"geotrace/internal/compute"
	"geotrace/internal/geo"
	"geotrace/internal/geolog"
	"geotrace/internal/graph"
	"geotrace/internal/gtype"
)

// geometryType tags synthetic geometry payloads for the logger's
// classification.
var geometryType = gtype.NewOpaque("geometry", nil)

// syntheticGeometry is the stand-in geometry value the simulator produces.
type syntheticGeometry struct {
	summary geo.Summary
}

func (g syntheticGeometry) Summarize() geo.Summary { return g.summary }

// Run evaluates the scene's main tree across a worker pool, logging into a
// fresh ModifierLog exactly the way the engine would. Timestamps are
// synthetic and per-worker, so the captured execution times are
// deterministic for a given scene. Returns the log together with the graph
// view UI queries need.
func Run(ctx context.Context, scene *Scene) (*geolog.ModifierLog, *graph.Tree, error) {
	main, err := scene.MainTree()
	if err != nil {
		return nil, nil, err
	}
	tree, err := scene.Graph()
	if err != nil {
		return nil, nil, err
	}

	workers := scene.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	m := geolog.NewModifierLog(workers)
	root := compute.NewModifierContext(scene.ModifierName())

	// Top-level nodes are distributed across workers; zone bodies and
	// group trees evaluate within the worker that reached them, like the
	// engine inlining a subtree into the task that needs it.
	jobs := make(chan *NodeSpec)
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			clock := time.Unix(0, 0)
			for n := range jobs {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				if err := scene.execNode(m, w, root, main, n, &clock); err != nil {
					return err
				}
			}
			return nil
		})
	}

	inZone := zoneMembers(main)
	g.Go(func() error {
		defer close(jobs)
		for i := range main.Nodes {
			n := &main.Nodes[i]
			if _, ok := inZone[n.ID]; ok {
				continue
			}
			select {
			case jobs <- n:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return m, tree, nil
}

// zoneMembers returns the ids of nodes living inside any zone body.
func zoneMembers(tree *TreeSpec) map[int32]struct{} {
	out := make(map[int32]struct{})
	for _, z := range tree.Zones {
		for _, id := range z.Nodes {
			out[id] = struct{}{}
		}
	}
	return out
}

// execNode simulates one node execution in one context, emitting the same
// log calls the engine emits. Zone output nodes run their body iterations,
// group nodes descend into their tree.
func (s *Scene) execNode(m *geolog.ModifierLog, worker int, ctx compute.Context, tree *TreeSpec, n *NodeSpec, clock *time.Time) error {
	if z := zoneByOutput(tree, n.ID); z != nil {
		if err := s.execZone(m, worker, ctx, tree, z, clock); err != nil {
			return err
		}
	}

	logger := m.LocalLogger(worker, ctx)

	start := *clock
	end := start.Add(time.Duration(n.DurationUS) * time.Microsecond)
	*clock = end
	logger.LogNodeExecution(n.ID, start, end)

	if n.Warning != "" {
		sev, err := parseSeverity(n.Severity)
		if err != nil {
			return err
		}
		logger.LogWarning(n.ID, sev, n.Warning)
	}
	if n.Debug != "" {
		logger.LogDebugMessage(n.ID, n.Debug)
	}
	if n.Gizmo {
		logger.LogEvaluatedGizmoNode(n.ID)
	}
	for _, name := range n.Reads {
		logger.LogUsedNamedAttribute(n.ID, name, geolog.UsageRead)
	}
	for _, name := range n.Writes {
		logger.LogUsedNamedAttribute(n.ID, name, geolog.UsageWrite)
	}

	if n.Value != nil {
		logger.LogOutputValue(n.ID, 0, gtype.Pointer{Type: gtype.Float, Value: *n.Value})
	}
	if n.IntValue != nil {
		v, err := safecast.Conv[int](*n.IntValue)
		if err != nil {
			return err
		}
		logger.LogOutputValue(n.ID, 0, gtype.Pointer{Type: gtype.Int, Value: v})
	}
	if n.Verts > 0 || len(n.Attrs) > 0 {
		geom := syntheticGeometry{summary: n.geometrySummary()}
		if n.Viewer {
			logger.LogViewerNode(n.ID, geom)
		} else {
			logger.LogOutputValue(n.ID, 0, gtype.Pointer{Type: geometryType, Value: geom})
		}
	} else if n.Viewer {
		logger.LogViewerNode(n.ID, syntheticGeometry{})
	}

	if n.Group != "" {
		sub := s.tree(n.Group)
		childCtx := compute.NewGroupNodeContext(ctx, n.ID)
		if err := s.evalTree(m, worker, childCtx, sub, clock); err != nil {
			return err
		}
	}
	return nil
}

// evalTree runs every node of a tree sequentially in the given context.
func (s *Scene) evalTree(m *geolog.ModifierLog, worker int, ctx compute.Context, tree *TreeSpec, clock *time.Time) error {
	inZone := zoneMembers(tree)
	for i := range tree.Nodes {
		n := &tree.Nodes[i]
		if _, ok := inZone[n.ID]; ok {
			continue
		}
		if err := s.execNode(m, worker, ctx, tree, n, clock); err != nil {
			return err
		}
	}
	return nil
}

// execZone runs a zone body once per iteration in per-iteration contexts.
// Zero iterations leaves the body unevaluated, which the warning reduction
// later reports.
func (s *Scene) execZone(m *geolog.ModifierLog, worker int, ctx compute.Context, tree *TreeSpec, z *ZoneSpec, clock *time.Time) error {
	kind, err := parseZoneKind(z.Kind)
	if err != nil {
		return err
	}
	for it := 0; it < z.Iterations; it++ {
		var child compute.Context
		switch kind {
		case graph.ZoneRepeat:
			child = compute.NewRepeatZoneContext(ctx, z.Output, it)
		case graph.ZoneForeach:
			child = compute.NewForeachElementContext(ctx, z.Output, it)
		case graph.ZoneSimulation:
			// Frames share one context; the loop just re-enters it.
			child = compute.NewSimulationZoneContext(ctx, z.Output)
		}
		for _, id := range z.Nodes {
			n := nodeByID(tree, id)
			if n == nil {
				continue
			}
			if err := s.execNode(m, worker, child, tree, n, clock); err != nil {
				return err
			}
		}
	}
	return nil
}

func zoneByOutput(tree *TreeSpec, nodeID int32) *ZoneSpec {
	for i := range tree.Zones {
		if tree.Zones[i].Output == nodeID {
			return &tree.Zones[i]
		}
	}
	return nil
}

func nodeByID(tree *TreeSpec, id int32) *NodeSpec {
	for i := range tree.Nodes {
		if tree.Nodes[i].ID == id {
			return &tree.Nodes[i]
		}
	}
	return nil
}

// geometrySummary builds the summary of a synthetic geometry node output.
func (n *NodeSpec) geometrySummary() geo.Summary {
	s := geo.Summary{Name: n.Label}
	if n.Verts > 0 {
		s.Mesh = &geo.MeshInfo{VertsNum: n.Verts, EdgesNum: n.Verts, FacesNum: n.Verts / 2}
	}
	for _, a := range n.Attrs {
		s.Attributes = append(s.Attributes, geo.AttributeInfo{
			Name:   a.Name,
			Domain: parseDomain(a.Domain),
			Type:   parseDataType(a.Type),
		})
	}
	return s
}

func parseDomain(s string) geo.Domain {
	switch s {
	case "point":
		return geo.DomainPoint
	case "edge":
		return geo.DomainEdge
	case "face":
		return geo.DomainFace
	case "corner":
		return geo.DomainCorner
	case "curve":
		return geo.DomainCurve
	case "instance":
		return geo.DomainInstance
	case "layer":
		return geo.DomainLayer
	default:
		return 0
	}
}

func parseDataType(s string) geo.DataType {
	switch s {
	case "float":
		return geo.DataFloat
	case "int":
		return geo.DataInt
	case "bool":
		return geo.DataBool
	case "vector":
		return geo.DataVector
	case "color":
		return geo.DataColor
	case "string":
		return geo.DataString
	case "quaternion":
		return geo.DataQuaternion
	default:
		return 0
	}
}
