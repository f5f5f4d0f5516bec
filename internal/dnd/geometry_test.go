package dnd

import "testing"

func TestBoxContains(t *testing.T) {
	b := Box{X: 10, Y: 10, Width: 100, Height: 50}
	tests := []struct {
		p    Point
		want bool
	}{
		{Point{10, 10}, true},
		{Point{50, 30}, true},
		{Point{109, 59}, true},
		{Point{110, 30}, false}, // right edge is exclusive
		{Point{50, 60}, false},
		{Point{9, 10}, false},
	}
	for _, tt := range tests {
		if got := b.Contains(tt.p); got != tt.want {
			t.Errorf("Contains(%+v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestBoxIntersects(t *testing.T) {
	a := Box{X: 0, Y: 0, Width: 100, Height: 100}
	tests := []struct {
		b    Box
		want bool
	}{
		{Box{50, 50, 100, 100}, true},
		{Box{100, 0, 10, 10}, false}, // touching edges don't overlap
		{Box{-10, -10, 20, 20}, true},
		{Box{200, 200, 10, 10}, false},
	}
	for _, tt := range tests {
		if got := a.Intersects(tt.b); got != tt.want {
			t.Errorf("Intersects(%+v) = %v, want %v", tt.b, got, tt.want)
		}
	}
}

func TestBoxOverlapArea(t *testing.T) {
	a := Box{X: 0, Y: 0, Width: 100, Height: 100}
	tests := []struct {
		b    Box
		want int
	}{
		{Box{50, 50, 100, 100}, 2500},
		{Box{0, 0, 100, 100}, 10000},
		{Box{90, 90, 100, 100}, 100},
		{Box{100, 100, 10, 10}, 0},
	}
	for _, tt := range tests {
		if got := a.OverlapArea(tt.b); got != tt.want {
			t.Errorf("OverlapArea(%+v) = %d, want %d", tt.b, got, tt.want)
		}
	}
}
