package x11

import "testing"

func TestRectContains(t *testing.T) {
	r := Rect{X: 100, Y: 50, Width: 200, Height: 100}

	inside := []Point{{100, 50}, {299, 149}, {200, 100}}
	for _, p := range inside {
		if !r.Contains(p) {
			t.Fatalf("expected %v inside %v", p, r)
		}
	}
	outside := []Point{{99, 50}, {300, 149}, {100, 150}, {0, 0}}
	for _, p := range outside {
		if r.Contains(p) {
			t.Fatalf("expected %v outside %v", p, r)
		}
	}
}

func TestRectMidpoint(t *testing.T) {
	r := Rect{X: 100, Y: 50, Width: 200, Height: 100}
	if got := r.Midpoint(); got != (Point{X: 200, Y: 100}) {
		t.Fatalf("expected midpoint (200,100), got %v", got)
	}
}

func TestRectString(t *testing.T) {
	r := Rect{X: 10, Y: 20, Width: 800, Height: 600}
	if got := r.String(); got != "800x600+10+20" {
		t.Fatalf("unexpected string form %q", got)
	}
}
