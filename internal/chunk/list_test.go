package chunk

import "testing"

func TestAppendKeepsOrder(t *testing.T) {
	var l List[int]
	const n = 5000
	for i := 0; i < n; i++ {
		l.Append(i)
	}
	if l.Len() != n {
		t.Fatalf("expected %d elements, got %d", n, l.Len())
	}
	next := 0
	l.Each(func(v *int) {
		if *v != next {
			t.Fatalf("expected %d at position %d, got %d", next, next, *v)
		}
		next++
	})
	if next != n {
		t.Fatalf("iterated %d elements, expected %d", next, n)
	}
}

func TestAppendPointersStayValid(t *testing.T) {
	var l List[string]
	ptrs := make([]*string, 0, 100)
	for i := 0; i < 100; i++ {
		ptrs = append(ptrs, l.Append("v"))
	}
	for i, p := range ptrs {
		*p = string(rune('a' + i%26))
	}
	i := 0
	l.Each(func(v *string) {
		if v != ptrs[i] {
			t.Fatalf("element %d moved after later appends", i)
		}
		i++
	})
}

func TestZeroValueUsable(t *testing.T) {
	var l List[struct{ a, b int }]
	if l.Len() != 0 {
		t.Fatalf("zero list should be empty")
	}
	l.Each(func(*struct{ a, b int }) {
		t.Fatal("zero list should not iterate")
	})
}
