package render

import (
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/organogram/pkg/diagram"
	"github.com/matzehuels/organogram/pkg/interact"
	"github.com/matzehuels/organogram/pkg/layout"
	"github.com/matzehuels/organogram/pkg/snapshot"
)

func setup(t *testing.T) (*interact.Controller, *Scene) {
	t.Helper()
	g := diagram.New()
	for _, id := range []string{"A", "B", "C", "D"} {
		if err := g.AddNode(diagram.Node{ID: id, Kind: diagram.KindEntity, Name: "Node " + id}); err != nil {
			t.Fatal(err)
		}
	}
	for _, e := range [][2]string{{"A", "B"}, {"A", "C"}, {"B", "D"}} {
		if _, err := g.AddEdge(diagram.Edge{Source: e[0], Target: e[1], Percentage: 50}); err != nil {
			t.Fatal(err)
		}
	}
	cfg := layout.DefaultConfig()
	layout.Apply(g, cfg)
	c := interact.New(g, cfg, log.New(io.Discard))
	s := NewScene(cfg)
	s.Sync(g)
	return c, s
}

func handle(t *testing.T, c *interact.Controller, s *Scene, ev interact.Event) interact.Change {
	t.Helper()
	ch, err := c.HandleEvent(ev)
	if err != nil {
		t.Fatalf("HandleEvent(%s): %v", ev.Kind, err)
	}
	s.Apply(c.Graph(), ch)
	return ch
}

func TestApplyDragTouchesIncidentEdgesOnly(t *testing.T) {
	c, s := setup(t)

	untouched, _ := s.Edge("A_C")
	before := *untouched

	handle(t, c, s, interact.Event{Kind: interact.DragStart, NodeID: "B"})
	handle(t, c, s, interact.Event{Kind: interact.DragMove, NodeID: "B", X: 500, Y: 500})

	after, ok := s.Edge("A_C")
	if !ok || after != untouched {
		t.Fatal("A_C handle was replaced")
	}
	if *after != before {
		t.Errorf("A_C = %+v, want unchanged %+v", *after, before)
	}

	for _, id := range []string{"A_B", "B_D"} {
		v, _ := s.Edge(id)
		want, _ := layout.Geometry(c.Graph(), id, c.Config())
		if v.Path != want.Path.String() {
			t.Errorf("%s path = %q, want %q", id, v.Path, want.Path.String())
		}
		if v.Rev != 1 {
			t.Errorf("%s rev = %d, want 1", id, v.Rev)
		}
	}

	b, _ := s.Node("B")
	if b.Box.Left != 500 || b.Box.Top != 500 {
		t.Errorf("B box = %+v, want origin (500, 500)", b.Box)
	}
	if !b.Selected {
		t.Error("dragged node should be selected")
	}
}

func TestApplyDelete(t *testing.T) {
	c, s := setup(t)
	handle(t, c, s, interact.Event{Kind: interact.ClickNode, NodeID: "B"})
	handle(t, c, s, interact.Event{Kind: interact.Delete})

	if _, ok := s.Node("B"); ok {
		t.Error("B handle should be gone")
	}
	for _, id := range []string{"A_B", "B_D"} {
		if _, ok := s.Edge(id); ok {
			t.Errorf("%s handle should be gone", id)
		}
	}
	if got := len(s.Edges()); got != 1 {
		t.Errorf("edges = %d, want 1", got)
	}
}

func TestApplySelectionMovesHighlight(t *testing.T) {
	c, s := setup(t)
	handle(t, c, s, interact.Event{Kind: interact.ClickNode, NodeID: "A"})
	handle(t, c, s, interact.Event{Kind: interact.ClickEdge, EdgeID: "A_C"})

	if a, _ := s.Node("A"); a.Selected {
		t.Error("A should no longer be selected")
	}
	if e, _ := s.Edge("A_C"); !e.Selected {
		t.Error("A_C should be selected")
	}

	handle(t, c, s, interact.Event{Kind: interact.Escape})
	if e, _ := s.Edge("A_C"); e.Selected {
		t.Error("escape should clear the highlight")
	}
}

func TestApplyFullResyncs(t *testing.T) {
	c, s := setup(t)
	old, _ := s.Edge("A_B")
	handle(t, c, s, interact.Event{Kind: interact.AutoLayout})
	if cur, _ := s.Edge("A_B"); cur == old {
		t.Error("full change should rebuild handles")
	}
}

func TestApplyUpdateEdgeText(t *testing.T) {
	c, s := setup(t)
	ch, err := c.HandleEvent(interact.Event{Kind: interact.Connect, Edge: nil})
	if err == nil {
		t.Fatalf("connect without record should fail, got %+v", ch)
	}
	handle(t, c, s, interact.Event{Kind: interact.Connect, Edge: edgeRecord("C", "D", 12.5)})
	if v, ok := s.Edge("C_D"); !ok || v.Text != "12.5%" || v.Path == "" {
		t.Errorf("C_D handle = %+v", v)
	}
}

func TestWriteSVG(t *testing.T) {
	_, s := setup(t)
	out := string(RenderSVG(s))
	for _, want := range []string{`<svg xmlns="http://www.w3.org/2000/svg"`, `id="node-A"`, `id="edge-A_B"`, "50%", "Node A"} {
		if !strings.Contains(out, want) {
			t.Errorf("svg missing %q", want)
		}
	}
	if strings.Index(out, `class="connections"`) > strings.Index(out, `class="nodes"`) {
		t.Error("connections should be drawn beneath nodes")
	}
}

func TestLabels(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"short", "Holdco", "Holdco"},
		{"exact", "abcdefghijklmnopqr", "abcdefghijklmnopqr"},
		{"long", "Wyoming Foundation Holdings", "Wyoming Foundat..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.in, TitleMaxLen); got != tt.want {
				t.Errorf("Truncate(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}

	if got := Icon(diagram.Node{Kind: diagram.KindEntity, EntityType: "FUND"}); got != "💰" {
		t.Errorf("fund icon = %q", got)
	}
	if got := Details(diagram.Node{Kind: diagram.KindParty, Nationality: "DE", Jurisdiction: "WY"}); got != "DE" {
		t.Errorf("party details = %q, want DE", got)
	}
	if got := PercentLabel(100); got != "100%" {
		t.Errorf("PercentLabel(100) = %q", got)
	}
}

func edgeRecord(src, dst string, pct float64) *snapshot.EdgeRecord {
	return &snapshot.EdgeRecord{Source: src, Target: dst, Percentage: pct}
}
