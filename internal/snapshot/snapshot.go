// Package snapshot serializes a reduced tree log for bug reports and
// offline inspection. The live store is rebuilt every evaluation pass and
// never reloaded; a snapshot is a one-way export of what a pass captured.
package snapshot

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"geotrace/internal/compute"
	"geotrace/internal/geolog"
)

// SchemaVersion guards decoding - increment when the payload shape changes.
const SchemaVersion uint16 = 1

// ErrSchema indicates a snapshot written by an incompatible version.
type ErrSchema struct {
	Got uint16
}

func (e *ErrSchema) Error() string {
	return fmt.Sprintf("snapshot schema %d, this build reads %d", e.Got, SchemaVersion)
}

// Warning mirrors geolog.NodeWarning in a serialization-stable shape.
type Warning struct {
	Severity uint8
	Message  string
}

// SocketValue is the flattened form of one resolved socket value.
type SocketValue struct {
	Index  int
	Output bool
	Kind   uint8
	// Repr is a human-readable rendering; payloads are not round-tripped.
	Repr string
}

// Node is the flattened form of one reduced node log.
type Node struct {
	ID         int32
	DurationNS int64
	Warnings   []Warning
	Values     []SocketValue
	Usages     map[string]uint8
	Debug      []string
}

// Attribute is the flattened form of one existing-attribute entry.
type Attribute struct {
	Name   string
	Domain string
	Type   string
}

// Snapshot is the complete export of one tree log.
type Snapshot struct {
	Schema       uint16
	Scene        string
	ContextHash  string
	DurationNS   int64
	AllWarnings  []Warning
	Nodes        []Node
	Attributes   []Attribute
	UsedNamed    map[string]uint8
	GizmoNodeIDs []int32
	ViewerNodes  []int32
}

// Build reduces the log as far as the export needs and flattens it. The
// tree log stays valid and cached; building a snapshot is read-only.
func Build(scene string, hash compute.Hash, log *geolog.TreeLog) *Snapshot {
	log.EnsureNodeWarnings(nil)
	log.EnsureExecutionTimes()
	log.EnsureSocketValues()
	log.EnsureViewerNodeLogs()
	log.EnsureExistingAttributes()
	log.EnsureUsedNamedAttributes()
	log.EnsureDebugMessages()
	log.EnsureEvaluatedGizmoNodes()

	s := &Snapshot{
		Schema:      SchemaVersion,
		Scene:       scene,
		ContextHash: hash.String(),
		DurationNS:  int64(log.ExecutionTime),
		UsedNamed:   make(map[string]uint8, len(log.UsedNamedAttributes)),
	}
	for _, w := range log.AllWarnings.Slice() {
		s.AllWarnings = append(s.AllWarnings, Warning{Severity: uint8(w.Type), Message: w.Message})
	}
	for name, usage := range log.UsedNamedAttributes {
		s.UsedNamed[name] = uint8(usage)
	}
	for _, a := range log.ExistingAttributes {
		attr := Attribute{Name: a.Name}
		if a.Known() {
			attr.Domain = a.Domain.String()
			attr.Type = a.Type.String()
		}
		s.Attributes = append(s.Attributes, attr)
	}

	ids := make([]int32, 0, len(log.Nodes))
	for id := range log.Nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		n := log.Nodes[id]
		node := Node{
			ID:         id,
			DurationNS: int64(n.ExecutionTime),
			Debug:      n.DebugMessages,
			Usages:     make(map[string]uint8, len(n.UsedNamedAttributes)),
		}
		for _, w := range n.Warnings.Slice() {
			node.Warnings = append(node.Warnings, Warning{Severity: uint8(w.Type), Message: w.Message})
		}
		for name, usage := range n.UsedNamedAttributes {
			node.Usages[name] = uint8(usage)
		}
		node.Values = append(node.Values, flattenValues(n.InputValues, false)...)
		node.Values = append(node.Values, flattenValues(n.OutputValues, true)...)
		s.Nodes = append(s.Nodes, node)
	}

	for id := range log.ViewerNodeLogs {
		s.ViewerNodes = append(s.ViewerNodes, id)
	}
	sort.Slice(s.ViewerNodes, func(i, j int) bool { return s.ViewerNodes[i] < s.ViewerNodes[j] })
	for id := range log.EvaluatedGizmoNodes {
		s.GizmoNodeIDs = append(s.GizmoNodeIDs, id)
	}
	sort.Slice(s.GizmoNodeIDs, func(i, j int) bool { return s.GizmoNodeIDs[i] < s.GizmoNodeIDs[j] })
	return s
}

func flattenValues(values map[int]*geolog.ValueLog, output bool) []SocketValue {
	idx := make([]int, 0, len(values))
	for i := range values {
		idx = append(idx, i)
	}
	sort.Ints(idx)
	out := make([]SocketValue, 0, len(idx))
	for _, i := range idx {
		out = append(out, SocketValue{
			Index:  i,
			Output: output,
			Kind:   uint8(values[i].Kind),
			Repr:   RenderValue(values[i]),
		})
	}
	return out
}

// RenderValue renders a captured value for display and export.
func RenderValue(v *geolog.ValueLog) string {
	switch v.Kind {
	case geolog.ValueOpaque:
		return fmt.Sprintf("%v (%s)", v.Value.Value, v.Value.Type)
	case geolog.ValueField:
		if len(v.Field.InputTooltips) == 0 {
			return fmt.Sprintf("%s field", v.Field.TypeName)
		}
		return fmt.Sprintf("%s field of %s", v.Field.TypeName, strings.Join(v.Field.InputTooltips, ", "))
	case geolog.ValueGeometry:
		return renderGeometry(v)
	default:
		return "unknown"
	}
}

func renderGeometry(v *geolog.ValueLog) string {
	g := v.Geometry
	var parts []string
	if g.Mesh != nil {
		parts = append(parts, fmt.Sprintf("mesh %dv/%de/%df", g.Mesh.VertsNum, g.Mesh.EdgesNum, g.Mesh.FacesNum))
	}
	if g.Curve != nil {
		parts = append(parts, fmt.Sprintf("curve %dp/%ds", g.Curve.PointsNum, g.Curve.SplinesNum))
	}
	if g.PointCloud != nil {
		parts = append(parts, fmt.Sprintf("points %d", g.PointCloud.PointsNum))
	}
	if g.GreasePencil != nil {
		parts = append(parts, fmt.Sprintf("grease pencil %dl", g.GreasePencil.LayersNum))
	}
	if g.Instances != nil {
		parts = append(parts, fmt.Sprintf("instances %d", g.Instances.InstancesNum))
	}
	if g.Volume != nil {
		parts = append(parts, fmt.Sprintf("volume %dg", g.Volume.GridsNum))
	}
	if g.Grid != nil {
		if g.Grid.IsEmpty {
			parts = append(parts, "grid (empty)")
		} else {
			parts = append(parts, "grid")
		}
	}
	if len(parts) == 0 {
		return "empty geometry"
	}
	return strings.Join(parts, ", ")
}

// Encode writes the snapshot in msgpack framing.
func (s *Snapshot) Encode(w io.Writer) error {
	return msgpack.NewEncoder(w).Encode(s)
}

// Decode reads a snapshot and rejects incompatible schemas.
func Decode(r io.Reader) (*Snapshot, error) {
	var s Snapshot
	if err := msgpack.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if s.Schema != SchemaVersion {
		return nil, &ErrSchema{Got: s.Schema}
	}
	return &s, nil
}
