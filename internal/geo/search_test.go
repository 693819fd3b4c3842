package geo

import "testing"

func TestSearchAttributesCaseFolding(t *testing.T) {
	attrs := []AttributeInfo{
		{Name: "position", Domain: DomainPoint, Type: DataVector},
		{Name: "UVMap", Domain: DomainCorner, Type: DataVector},
		{Name: "Wärme", Domain: DomainPoint, Type: DataFloat},
		{Name: "uv_rotation"},
	}
	got := SearchAttributes(attrs, "UV")
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(got))
	}
	if got[0].Name != "UVMap" || got[1].Name != "uv_rotation" {
		t.Fatalf("known attributes must sort first: %v", got)
	}
	if got := SearchAttributes(attrs, "WÄRME"); len(got) != 1 || got[0].Name != "Wärme" {
		t.Fatalf("case folding must match non-ASCII names: %v", got)
	}
}

func TestSearchAttributesEmptyQuery(t *testing.T) {
	attrs := []AttributeInfo{{Name: "b"}, {Name: "a"}}
	got := SearchAttributes(attrs, "")
	if len(got) != 2 || got[0].Name != "a" {
		t.Fatalf("empty query returns everything sorted: %v", got)
	}
}
