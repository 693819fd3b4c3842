package compute

// Builder maintains a stack of contexts while walking into groups and
// zones. It mirrors how evaluation and UI code descend a node-editor path:
// push on entering an instantiation, pop on leaving it.
type Builder struct {
	stack []Context
}

// NewBuilder creates a builder rooted at the given context.
func NewBuilder(root Context) *Builder {
	return &Builder{stack: []Context{root}}
}

// Current returns the innermost context.
func (b *Builder) Current() Context {
	return b.stack[len(b.stack)-1]
}

// PushGroupNode enters the node group behind the given group node.
func (b *Builder) PushGroupNode(nodeID int32) {
	b.stack = append(b.stack, NewGroupNodeContext(b.Current(), nodeID))
}

// PushRepeatZone enters one iteration of a repeat zone.
func (b *Builder) PushRepeatZone(outputNodeID int32, iteration int) {
	b.stack = append(b.stack, NewRepeatZoneContext(b.Current(), outputNodeID, iteration))
}

// PushForeachElement enters a foreach-element zone body for one element.
func (b *Builder) PushForeachElement(outputNodeID int32, index int) {
	b.stack = append(b.stack, NewForeachElementContext(b.Current(), outputNodeID, index))
}

// PushSimulationZone enters a simulation zone body.
func (b *Builder) PushSimulationZone(outputNodeID int32) {
	b.stack = append(b.stack, NewSimulationZoneContext(b.Current(), outputNodeID))
}

// Pop leaves the innermost context. Popping the root is a programming
// error and panics.
func (b *Builder) Pop() {
	if len(b.stack) == 1 {
		panic("compute: popped root context")
	}
	b.stack = b.stack[:len(b.stack)-1]
}

// Depth returns the number of contexts on the stack.
func (b *Builder) Depth() int {
	return len(b.stack)
}
