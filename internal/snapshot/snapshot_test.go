package snapshot

import (
	"bytes"
	"testing"
	"time"

	"geotrace/internal/compute"
	"geotrace/internal/geolog"
	"geotrace/internal/gtype"
)

func buildLog(t *testing.T) (*geolog.ModifierLog, compute.Hash) {
	t.Helper()
	m := geolog.NewModifierLog(2)
	root := compute.NewModifierContext("Demo")
	base := time.Unix(0, 0)

	l0 := m.LocalLogger(0, root)
	l0.LogNodeExecution(1, base, base.Add(50*time.Microsecond))
	l0.LogWarning(1, geolog.WarningError, "bad input")
	l0.LogOutputValue(1, 0, gtype.Pointer{Type: gtype.Int, Value: 4})
	l0.LogUsedNamedAttribute(1, "uv", geolog.UsageRead)

	l1 := m.LocalLogger(1, root)
	l1.LogNodeExecution(2, base, base.Add(25*time.Microsecond))
	l1.LogDebugMessage(2, "pass two")
	l1.LogEvaluatedGizmoNode(2)

	return m, root.Hash()
}

func TestSnapshotRoundTrip(t *testing.T) {
	m, hash := buildLog(t)
	s := Build("Demo", hash, m.TreeLog(hash))

	var buf bytes.Buffer
	if err := s.Encode(&buf); err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if got.Scene != "Demo" || got.ContextHash != hash.String() {
		t.Fatalf("identity lost: %+v", got)
	}
	if got.DurationNS != int64(75*time.Microsecond) {
		t.Fatalf("duration lost: %d", got.DurationNS)
	}
	if len(got.Nodes) != 2 || got.Nodes[0].ID != 1 || got.Nodes[1].ID != 2 {
		t.Fatalf("nodes must export sorted by id: %+v", got.Nodes)
	}
	if len(got.Nodes[0].Warnings) != 1 || got.Nodes[0].Warnings[0].Message != "bad input" {
		t.Fatalf("warnings lost")
	}
	if got.Nodes[0].Usages["uv"] != uint8(geolog.UsageRead) {
		t.Fatalf("usages lost")
	}
	if len(got.Nodes[0].Values) != 1 || got.Nodes[0].Values[0].Repr != "4 (int)" {
		t.Fatalf("socket value rendering lost: %+v", got.Nodes[0].Values)
	}
	if len(got.GizmoNodeIDs) != 1 || got.GizmoNodeIDs[0] != 2 {
		t.Fatalf("gizmo nodes lost")
	}
}

func TestDecodeRejectsWrongSchema(t *testing.T) {
	m, hash := buildLog(t)
	s := Build("Demo", hash, m.TreeLog(hash))
	s.Schema = SchemaVersion + 1

	var buf bytes.Buffer
	if err := s.Encode(&buf); err != nil {
		t.Fatal(err)
	}
	if _, err := Decode(&buf); err == nil {
		t.Fatalf("incompatible schema must be rejected")
	}
}

func TestBuildIsRepeatable(t *testing.T) {
	m, hash := buildLog(t)
	log := m.TreeLog(hash)
	a := Build("Demo", hash, log)
	b := Build("Demo", hash, log)
	if a.DurationNS != b.DurationNS || len(a.Nodes) != len(b.Nodes) {
		t.Fatalf("snapshot of an already-reduced log must match the first build")
	}
}
