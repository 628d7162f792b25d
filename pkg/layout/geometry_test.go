package layout

import (
	"testing"

	"github.com/matzehuels/organogram/pkg/diagram"
)

func TestConnectionPath(t *testing.T) {
	cfg := DefaultConfig()
	src := diagram.Node{X: 0, Y: 0}
	dst := diagram.Node{X: 200, Y: 300}

	p := ConnectionPath(src, dst, cfg)

	wantStart := Point{X: 80, Y: 80}
	wantEnd := Point{X: 280, Y: 300}
	if p.Start != wantStart {
		t.Errorf("Start = %v, want %v", p.Start, wantStart)
	}
	if p.End != wantEnd {
		t.Errorf("End = %v, want %v", p.End, wantEnd)
	}
	if p.C1 != (Point{X: 80, Y: 190}) || p.C2 != (Point{X: 280, Y: 190}) {
		t.Errorf("controls = %v %v, want (80,190) (280,190)", p.C1, p.C2)
	}

	want := "M 80 80 C 80 190, 280 190, 280 300"
	if got := p.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestLabelPosition(t *testing.T) {
	tests := []struct {
		name     string
		src, dst diagram.Node
		want     Point
	}{
		{"vertical", diagram.Node{X: 0, Y: 0}, diagram.Node{X: 0, Y: 200}, Point{X: 80, Y: 140}},
		{"diagonal", diagram.Node{X: -100, Y: 100}, diagram.Node{X: 100, Y: 250}, Point{X: 80, Y: 215}},
		{"target above", diagram.Node{X: 0, Y: 400}, diagram.Node{X: 0, Y: 0}, Point{X: 80, Y: 240}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LabelPosition(tt.src, tt.dst, DefaultConfig()); got != tt.want {
				t.Errorf("LabelPosition() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGeometry(t *testing.T) {
	g := diagram.New()
	g.AddNode(diagram.Node{ID: "a", X: 10, Y: 20})
	g.AddNode(diagram.Node{ID: "b", X: 10, Y: 220})
	g.AddEdge(diagram.Edge{Source: "a", Target: "b"})

	geo, ok := Geometry(g, "a_b", DefaultConfig())
	if !ok {
		t.Fatal("Geometry(a_b) not found")
	}
	if geo.Path.Start != (Point{X: 90, Y: 100}) || geo.Path.End != (Point{X: 90, Y: 220}) {
		t.Errorf("path = %v", geo.Path)
	}
	if geo.Label != (Point{X: 90, Y: 160}) {
		t.Errorf("label = %v", geo.Label)
	}
	if _, ok := Geometry(g, "missing", DefaultConfig()); ok {
		t.Error("Geometry(missing) ok = true")
	}
}

func TestBounds(t *testing.T) {
	cfg := DefaultConfig()
	g := diagram.New()
	if _, ok := Bounds(g, cfg); ok {
		t.Error("Bounds(empty) ok = true")
	}
	g.AddNode(diagram.Node{ID: "a", X: -100, Y: 50})
	g.AddNode(diagram.Node{ID: "b", X: 300, Y: 400})

	b, ok := Bounds(g, cfg)
	if !ok {
		t.Fatal("Bounds ok = false")
	}
	want := Box{Left: -100, Right: 460, Top: 50, Bottom: 480}
	if b != want {
		t.Errorf("Bounds = %+v, want %+v", b, want)
	}
	if b.Width() != 560 || b.Height() != 430 {
		t.Errorf("size = %vx%v", b.Width(), b.Height())
	}
}
