package graph

// PathElemKind tags one step of a viewer path.
type PathElemKind uint8

const (
	// PathGroupNode descends into the node group behind a group node.
	PathGroupNode PathElemKind = iota + 1
	// PathRepeatZone descends into one iteration of a repeat zone.
	PathRepeatZone
	// PathForeachElement descends into a foreach body for one element.
	PathForeachElement
	// PathSimulationZone descends into a simulation zone body.
	PathSimulationZone
)

// PathElem is one step from a modifier down to the displayed tree. NodeID
// is the group node or zone output node; Index is the iteration or element
// selected for inspection where the kind has one.
type PathElem struct {
	Kind   PathElemKind
	NodeID int32
	Index  int
}

// ViewerPath addresses an active viewer node: the modifier, the chain of
// groups and zones leading to its tree, and the viewer node itself.
type ViewerPath struct {
	ModifierName string
	Elems        []PathElem
	ViewerNodeID int32
}

// EditorPath addresses the tree a node editor currently displays, without a
// terminal viewer node.
type EditorPath struct {
	ModifierName string
	Elems        []PathElem
}
