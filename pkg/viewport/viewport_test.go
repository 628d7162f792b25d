package viewport

import (
	"math"
	"testing"

	"github.com/matzehuels/organogram/pkg/layout"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestToGraph(t *testing.T) {
	tests := []struct {
		name   string
		tr     Transform
		client layout.Point
		origin layout.Point
		want   layout.Point
	}{
		{"identity", Identity(), layout.Point{X: 300, Y: 200}, layout.Point{}, layout.Point{X: 300, Y: 200}},
		{"origin offset", Identity(), layout.Point{X: 300, Y: 200}, layout.Point{X: 100, Y: 50}, layout.Point{X: 200, Y: 150}},
		{"pan and zoom", Transform{X: 40, Y: -20, K: 2}, layout.Point{X: 340, Y: 230}, layout.Point{X: 100, Y: 50}, layout.Point{X: 100, Y: 100}},
		{"zoomed out", Transform{X: 0, Y: 0, K: 0.5}, layout.Point{X: 50, Y: 25}, layout.Point{}, layout.Point{X: 100, Y: 50}},
		{"zero scale treated as 1", Transform{X: 10}, layout.Point{X: 30, Y: 5}, layout.Point{}, layout.Point{X: 20, Y: 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.tr.ToGraph(tt.client, tt.origin)
			if !near(got.X, tt.want.X) || !near(got.Y, tt.want.Y) {
				t.Errorf("ToGraph() = %v, want %v", got, tt.want)
			}
			back := tt.tr.ToScreen(got)
			if !near(back.X+tt.origin.X, tt.client.X) || !near(back.Y+tt.origin.Y, tt.client.Y) {
				t.Errorf("ToScreen(ToGraph()) = %v, want %v", back, tt.client)
			}
		})
	}
}

func TestZoomBy(t *testing.T) {
	center := layout.Point{X: 400, Y: 300}
	tr := Identity()

	in := tr.ZoomBy(ZoomStep, center)
	if !near(in.K, 1.5) {
		t.Errorf("K = %v, want 1.5", in.K)
	}
	// The diagram point under the zoom center stays put.
	before := tr.ToGraph(center, layout.Point{})
	after := in.ToGraph(center, layout.Point{})
	if !near(before.X, after.X) || !near(before.Y, after.Y) {
		t.Errorf("center drifted: %v → %v", before, after)
	}

	for range 10 {
		in = in.ZoomBy(ZoomStep, center)
	}
	if in.K != MaxScale {
		t.Errorf("K = %v, want clamp at %v", in.K, MaxScale)
	}

	out := tr
	for range 10 {
		out = out.ZoomBy(1/ZoomStep, center)
	}
	if out.K != MinScale {
		t.Errorf("K = %v, want clamp at %v", out.K, MinScale)
	}
}

func TestPan(t *testing.T) {
	got := Transform{X: 1, Y: 2, K: 1.5}.Pan(10, -5)
	if got != (Transform{X: 11, Y: -3, K: 1.5}) {
		t.Errorf("Pan() = %+v", got)
	}
}

func TestFit(t *testing.T) {
	tests := []struct {
		name   string
		bounds layout.Box
		w, h   float64
		wantK  float64
	}{
		{"small graph not enlarged", layout.Box{Left: 0, Right: 160, Top: 0, Bottom: 80}, 1000, 800, 1},
		{"wide graph", layout.Box{Left: -1000, Right: 1000, Top: 100, Bottom: 180}, 1000, 800, 0.4},
		{"tall graph", layout.Box{Left: 0, Right: 100, Top: 0, Bottom: 6400}, 1000, 800, 0.1},
		{"huge graph clamps", layout.Box{Left: 0, Right: 1e6, Top: 0, Bottom: 10}, 1000, 800, MinScale},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Fit(tt.bounds, tt.w, tt.h)
			if !near(got.K, tt.wantK) {
				t.Errorf("K = %v, want %v", got.K, tt.wantK)
			}
			c := got.ToScreen(layout.Point{X: tt.bounds.CenterX(), Y: tt.bounds.CenterY()})
			if !near(c.X, tt.w/2) || !near(c.Y, tt.h/2) {
				t.Errorf("bounds center maps to %v, want canvas center", c)
			}
		})
	}
}
