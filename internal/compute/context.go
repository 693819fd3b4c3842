// Package compute models the identity of node-tree instantiations during
// evaluation. Node groups can be entered from several call sites and zones
// can repeat their body many times; each such instantiation is a separate
// compute context with a content-derived hash. The hash chain distinguishes
// "the same subtree, invoked from somewhere else" while collapsing repeated
// visits of one logical call site to a single identity.
package compute

// Context is one element of an instantiation chain. Implementations are
// immutable once constructed; the hash is computed in the constructor.
type Context interface {
	// Hash returns the content-derived identity of this context.
	Hash() Hash
	// Parent returns the enclosing context, or nil for a root.
	Parent() Context
}

const (
	kindModifier byte = iota + 1
	kindGroupNode
	kindRepeatZone
	kindForeachElement
	kindSimulationZone
)

// ModifierContext is the root of a chain: one geometry-nodes modifier on one
// object.
type ModifierContext struct {
	modifierName string
	hash         Hash
}

// NewModifierContext creates the root context for a modifier evaluation.
func NewModifierContext(modifierName string) *ModifierContext {
	return &ModifierContext{
		modifierName: modifierName,
		hash:         mix(Hash{}, kindModifier, mixString(modifierName)),
	}
}

func (c *ModifierContext) Hash() Hash      { return c.hash }
func (c *ModifierContext) Parent() Context { return nil }

// ModifierName returns the name of the modifier this chain belongs to.
func (c *ModifierContext) ModifierName() string { return c.modifierName }

// GroupNodeContext identifies evaluation inside a node group, entered
// through a specific group node of the parent tree.
type GroupNodeContext struct {
	parent Context
	nodeID int32
	hash   Hash
}

// NewGroupNodeContext creates the context for entering a node group through
// the given group node.
func NewGroupNodeContext(parent Context, nodeID int32) *GroupNodeContext {
	return &GroupNodeContext{
		parent: parent,
		nodeID: nodeID,
		hash:   mix(parent.Hash(), kindGroupNode, uint64(uint32(nodeID))),
	}
}

func (c *GroupNodeContext) Hash() Hash      { return c.hash }
func (c *GroupNodeContext) Parent() Context { return c.parent }

// NodeID returns the group node in the parent tree that spawned this
// context.
func (c *GroupNodeContext) NodeID() int32 { return c.nodeID }

// RepeatZoneContext identifies one iteration of a repeat zone. Iterations
// are distinct instantiations: each gets its own hash.
type RepeatZoneContext struct {
	parent       Context
	outputNodeID int32
	iteration    int
	hash         Hash
}

// NewRepeatZoneContext creates the context for iteration i of the repeat
// zone identified by its output node.
func NewRepeatZoneContext(parent Context, outputNodeID int32, iteration int) *RepeatZoneContext {
	return &RepeatZoneContext{
		parent:       parent,
		outputNodeID: outputNodeID,
		iteration:    iteration,
		hash:         mix(parent.Hash(), kindRepeatZone, uint64(uint32(outputNodeID)), uint64(iteration)),
	}
}

func (c *RepeatZoneContext) Hash() Hash      { return c.hash }
func (c *RepeatZoneContext) Parent() Context { return c.parent }

// OutputNodeID returns the repeat-zone output node in the parent tree.
func (c *RepeatZoneContext) OutputNodeID() int32 { return c.outputNodeID }

// Iteration returns the zero-based iteration index.
func (c *RepeatZoneContext) Iteration() int { return c.iteration }

// ForeachElementContext identifies evaluation of a foreach-element zone body
// for one element.
type ForeachElementContext struct {
	parent       Context
	outputNodeID int32
	index        int
	hash         Hash
}

// NewForeachElementContext creates the context for element index of the
// foreach zone identified by its output node.
func NewForeachElementContext(parent Context, outputNodeID int32, index int) *ForeachElementContext {
	return &ForeachElementContext{
		parent:       parent,
		outputNodeID: outputNodeID,
		index:        index,
		hash:         mix(parent.Hash(), kindForeachElement, uint64(uint32(outputNodeID)), uint64(index)),
	}
}

func (c *ForeachElementContext) Hash() Hash      { return c.hash }
func (c *ForeachElementContext) Parent() Context { return c.parent }

// OutputNodeID returns the foreach-zone output node in the parent tree.
func (c *ForeachElementContext) OutputNodeID() int32 { return c.outputNodeID }

// Index returns the element index this body evaluation belongs to.
func (c *ForeachElementContext) Index() int { return c.index }

// SimulationZoneContext identifies evaluation of a simulation zone body.
// All frames share one context: the zone state persists across frames, so
// there is one logical instantiation per zone.
type SimulationZoneContext struct {
	parent       Context
	outputNodeID int32
	hash         Hash
}

// NewSimulationZoneContext creates the context for the simulation zone
// identified by its output node.
func NewSimulationZoneContext(parent Context, outputNodeID int32) *SimulationZoneContext {
	return &SimulationZoneContext{
		parent:       parent,
		outputNodeID: outputNodeID,
		hash:         mix(parent.Hash(), kindSimulationZone, uint64(uint32(outputNodeID))),
	}
}

func (c *SimulationZoneContext) Hash() Hash      { return c.hash }
func (c *SimulationZoneContext) Parent() Context { return c.parent }

// OutputNodeID returns the simulation-zone output node in the parent tree.
func (c *SimulationZoneContext) OutputNodeID() int32 { return c.outputNodeID }

// SpawnerNodeID returns the node in the parent tree that caused ctx to
// exist (group node or zone output node), and false for root contexts.
func SpawnerNodeID(ctx Context) (int32, bool) {
	switch c := ctx.(type) {
	case *GroupNodeContext:
		return c.nodeID, true
	case *RepeatZoneContext:
		return c.outputNodeID, true
	case *ForeachElementContext:
		return c.outputNodeID, true
	case *SimulationZoneContext:
		return c.outputNodeID, true
	default:
		return 0, false
	}
}
