package generator

import "testing"

func TestNewSeededIsRepeatable(t *testing.T) {
	a := NewSeeded(42)
	b := NewSeeded(42)
	for i := 0; i < 20; i++ {
		if x, y := a.Float64(), b.Float64(); x != y {
			t.Fatalf("draw %d differs: %v vs %v", i, x, y)
		}
		if x, y := a.Intn(1000), b.Intn(1000); x != y {
			t.Fatalf("int draw %d differs: %d vs %d", i, x, y)
		}
	}
}

func TestBetweenStaysInRange(t *testing.T) {
	g := NewSeeded(7)
	for i := 0; i < 500; i++ {
		v := g.Between(3, 5)
		if v < 3 || v >= 5 {
			t.Fatalf("value out of range: %v", v)
		}
	}
	if got := g.Between(4, 4); got != 4 {
		t.Fatalf("expected lo for empty range, got %v", got)
	}
}
