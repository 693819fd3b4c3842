package geolog

import (
	"fmt"
	"testing"
	"time"

	"geotrace/internal/geo"
	"geotrace/internal/gtype"
)

// fakeGeometry implements geo.Geometry for tests.
type fakeGeometry struct {
	summary geo.Summary
}

func (g fakeGeometry) Summarize() geo.Summary { return g.summary }

// fakeField implements geo.Field for tests.
type fakeField struct {
	typeName string
	inputs   []string
}

func (f fakeField) ValueTypeName() string       { return f.typeName }
func (f fakeField) InputDescriptions() []string { return f.inputs }

// fakeGrid implements geo.Grid for tests.
type fakeGrid struct{}

func (fakeGrid) SummarizeGrid() geo.Summary {
	return geo.Summary{Grid: &geo.GridInfo{IsEmpty: true}}
}

func TestLogValueKeepsCallOrder(t *testing.T) {
	l := &TreeLogger{}
	type call struct {
		node   int32
		socket int
	}
	var calls []call
	for i := 0; i < 200; i++ {
		c := call{node: int32(i % 7), socket: i % 3}
		calls = append(calls, c)
		l.LogInputValue(c.node, c.socket, gtype.Pointer{Type: gtype.Int, Value: i})
	}
	if l.inputValues.Len() != len(calls) {
		t.Fatalf("expected %d records, got %d", len(calls), l.inputValues.Len())
	}
	i := 0
	l.inputValues.Each(func(r *SocketValueLog) {
		if r.NodeID != calls[i].node || r.SocketIndex != calls[i].socket {
			t.Fatalf("record %d is (%d,%d), call was (%d,%d)",
				i, r.NodeID, r.SocketIndex, calls[i].node, calls[i].socket)
		}
		if r.Value.Kind != ValueOpaque || r.Value.Value.Value.(int) != i {
			t.Fatalf("record %d lost its payload", i)
		}
		i++
	})
}

func TestLogValueClassification(t *testing.T) {
	l := &TreeLogger{}
	l.LogOutputValue(1, 0, gtype.Pointer{Type: gtype.Float, Value: 1.5})
	fieldType := gtype.NewOpaque("field", nil)
	l.LogOutputValue(1, 1, gtype.Pointer{Type: fieldType, Value: fakeField{typeName: "float", inputs: []string{"Position"}}})
	geomType := gtype.NewOpaque("geometry", nil)
	l.LogOutputValue(1, 2, gtype.Pointer{Type: geomType, Value: fakeGeometry{summary: geo.Summary{
		Mesh: &geo.MeshInfo{VertsNum: 8, EdgesNum: 12, FacesNum: 6},
	}}})
	gridType := gtype.NewOpaque("grid", nil)
	l.LogOutputValue(1, 3, gtype.Pointer{Type: gridType, Value: fakeGrid{}})

	var kinds []ValueKind
	l.outputValues.Each(func(r *SocketValueLog) { kinds = append(kinds, r.Value.Kind) })
	want := []ValueKind{ValueOpaque, ValueField, ValueGeometry, ValueGeometry}
	if fmt.Sprint(kinds) != fmt.Sprint(want) {
		t.Fatalf("classification mismatch: got %v want %v", kinds, want)
	}

	var fields []*FieldSummary
	l.outputValues.Each(func(r *SocketValueLog) {
		if r.Value.Kind == ValueField {
			fields = append(fields, r.Value.Field)
		}
	})
	if len(fields) != 1 || fields[0].TypeName != "float" || fields[0].InputTooltips[0] != "Position" {
		t.Fatalf("field summary not captured: %+v", fields)
	}
}

func TestLogValueCopiesOpaquePayload(t *testing.T) {
	l := &TreeLogger{}
	buf := []byte{1, 2, 3}
	ty := gtype.NewOpaque("buffer", func(v any) any {
		src := v.([]byte)
		out := make([]byte, len(src))
		copy(out, src)
		return out
	})
	l.LogInputValue(4, 0, gtype.Pointer{Type: ty, Value: buf})
	buf[0] = 99
	l.inputValues.Each(func(r *SocketValueLog) {
		if got := r.Value.Value.Value.([]byte)[0]; got != 1 {
			t.Fatalf("logged value must own a copy, saw mutation: %d", got)
		}
	})
}

func TestLoggerRecordsAllFacts(t *testing.T) {
	l := &TreeLogger{}
	l.LogWarning(2, WarningError, "bad input")
	l.LogNodeExecution(2, time.Unix(0, 0), time.Unix(0, 10))
	l.LogViewerNode(5, fakeGeometry{})
	l.LogUsedNamedAttribute(2, "uv", UsageRead)
	l.LogDebugMessage(2, "step 1")
	l.LogEvaluatedGizmoNode(9)

	if l.warnings.Len() != 1 || l.executionSpans.Len() != 1 || l.viewerLogs.Len() != 1 ||
		l.attributeUsages.Len() != 1 || l.debugMessages.Len() != 1 || l.gizmoNodes.Len() != 1 {
		t.Fatalf("every log call must append exactly one record")
	}
}
