package geo

import "testing"

func TestRectEdgesAndCenter(t *testing.T) {
	r := Rect{X: 10, Y: 20, Width: 100, Height: 40}

	if r.Right() != 110 {
		t.Errorf("Right() = %v, want 110", r.Right())
	}
	if r.Bottom() != 60 {
		t.Errorf("Bottom() = %v, want 60", r.Bottom())
	}
	if c := r.Center(); c.X != 60 || c.Y != 40 {
		t.Errorf("Center() = %+v, want (60,40)", c)
	}
}

func TestRectUnion(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 50, Height: 50}
	b := Rect{X: 100, Y: 30, Width: 20, Height: 40}

	u := a.Union(b)
	want := Rect{X: 0, Y: 0, Width: 120, Height: 70}
	if u != want {
		t.Errorf("Union = %+v, want %+v", u, want)
	}

	// Union with a contained rect is identity.
	inner := Rect{X: 10, Y: 10, Width: 5, Height: 5}
	if got := a.Union(inner); got != a {
		t.Errorf("Union with contained rect = %+v, want %+v", got, a)
	}
}

func TestRectPad(t *testing.T) {
	r := Rect{X: 10, Y: 10, Width: 20, Height: 20}
	p := r.Pad(5)
	want := Rect{X: 5, Y: 5, Width: 30, Height: 30}
	if p != want {
		t.Errorf("Pad(5) = %+v, want %+v", p, want)
	}
	if !p.Contains(r) {
		t.Error("padded rect should contain the original")
	}
}

func TestRectContains(t *testing.T) {
	outer := Rect{X: 0, Y: 0, Width: 100, Height: 100}

	tests := []struct {
		name  string
		inner Rect
		want  bool
	}{
		{"strictly inside", Rect{X: 10, Y: 10, Width: 10, Height: 10}, true},
		{"identical", outer, true},
		{"overlapping edge", Rect{X: 95, Y: 0, Width: 10, Height: 10}, false},
		{"outside", Rect{X: 200, Y: 200, Width: 10, Height: 10}, false},
	}
	for _, tt := range tests {
		if got := outer.Contains(tt.inner); got != tt.want {
			t.Errorf("%s: Contains = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestFromCenter(t *testing.T) {
	r := FromCenter(Point{X: 50, Y: 50}, 20, 10)
	want := Rect{X: 40, Y: 45, Width: 20, Height: 10}
	if r != want {
		t.Errorf("FromCenter = %+v, want %+v", r, want)
	}
	if c := r.Center(); c.X != 50 || c.Y != 50 {
		t.Errorf("round trip center = %+v, want (50,50)", c)
	}
}
