// Package graph carries the minimal node-tree structure the trace subsystem
// needs from the editing layer: stable node ids, zones (sub-regions whose
// bodies evaluate in their own contexts) and viewer paths. The real graph
// model lives with the engine; this is the read-only slice of it that
// queries and reductions consume.
package graph

// Node is one node of a tree, identified by an id that is stable for the
// life of the tree.
type Node struct {
	ID    int32
	Label string
}

// ZoneKind distinguishes the zone flavors that spawn child contexts.
type ZoneKind uint8

const (
	ZoneRepeat ZoneKind = iota + 1
	ZoneForeach
	ZoneSimulation
)

func (k ZoneKind) String() string {
	switch k {
	case ZoneRepeat:
		return "repeat"
	case ZoneForeach:
		return "foreach"
	case ZoneSimulation:
		return "simulation"
	default:
		return "unknown"
	}
}

// Zone is a region of a tree whose body runs in child compute contexts.
// The output node identifies the zone; nested zones point at their parent.
type Zone struct {
	Kind         ZoneKind
	InputNodeID  int32
	OutputNodeID int32
	// NodeIDs lists the body nodes, excluding the input/output pair.
	NodeIDs []int32
	Parent  *Zone
}

// Tree is a read-only view of one node tree.
type Tree struct {
	Name  string
	Nodes []Node
	Zones []*Zone
}

// Node returns the node with the given id, or nil.
func (t *Tree) Node(id int32) *Node {
	for i := range t.Nodes {
		if t.Nodes[i].ID == id {
			return &t.Nodes[i]
		}
	}
	return nil
}

// ZoneByOutput returns the zone identified by its output node, or nil.
func (t *Tree) ZoneByOutput(outputNodeID int32) *Zone {
	for _, z := range t.Zones {
		if z.OutputNodeID == outputNodeID {
			return z
		}
	}
	return nil
}

// ZoneContaining returns the innermost zone whose body contains the node,
// or nil when the node sits at the top level.
func (t *Tree) ZoneContaining(nodeID int32) *Zone {
	var found *Zone
	for _, z := range t.Zones {
		if !z.contains(nodeID) {
			continue
		}
		if found == nil || depth(z) > depth(found) {
			found = z
		}
	}
	return found
}

func (z *Zone) contains(nodeID int32) bool {
	for _, id := range z.NodeIDs {
		if id == nodeID {
			return true
		}
	}
	return false
}

func depth(z *Zone) int {
	d := 0
	for p := z.Parent; p != nil; p = p.Parent {
		d++
	}
	return d
}
