package geolog

import (
	"geotrace/internal/geo"
	"geotrace/internal/gtype"
)

// ValueKind discriminates how a socket value was captured. Simple values
// are copied whole; fields and geometries are reduced to summaries because
// storing every intermediate in full would dominate evaluation cost.
type ValueKind uint8

const (
	// ValueOpaque is a full copy of a small value together with its type
	// descriptor.
	ValueOpaque ValueKind = iota + 1
	// ValueField keeps the field's output type and input descriptions only.
	ValueField
	// ValueGeometry keeps component counts and the attribute listing only.
	ValueGeometry
)

// FieldSummary is what remains of a logged field value.
type FieldSummary struct {
	TypeName      string
	InputTooltips []string
}

// ValueLog is one captured socket value, a tagged variant over the capture
// strategies. Exactly one payload matches Kind.
type ValueLog struct {
	Kind     ValueKind
	Value    gtype.Pointer // ValueOpaque
	Field    *FieldSummary // ValueField
	Geometry *geo.Summary  // ValueGeometry
}

// ViewerNodeLog holds the one case where a value is kept whole: the
// geometry a viewer node received, snapshotted for display.
type ViewerNodeLog struct {
	Geometry geo.Geometry
}

// captureValue classifies a runtime value and builds its ValueLog. The
// classification is fixed: field, geometry, grid, otherwise opaque copy.
func captureValue(value gtype.Pointer) *ValueLog {
	switch v := value.Value.(type) {
	case geo.Field:
		return &ValueLog{Kind: ValueField, Field: &FieldSummary{
			TypeName:      v.ValueTypeName(),
			InputTooltips: v.InputDescriptions(),
		}}
	case geo.Geometry:
		s := v.Summarize()
		return &ValueLog{Kind: ValueGeometry, Geometry: &s}
	case geo.Grid:
		s := v.SummarizeGrid()
		return &ValueLog{Kind: ValueGeometry, Geometry: &s}
	default:
		return &ValueLog{Kind: ValueOpaque, Value: gtype.Pointer{
			Type:  value.Type,
			Value: value.CloneValue(),
		}}
	}
}
