package diagram

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"testing"
)

func build(t *testing.T, nodes []string, edges [][2]string) *Graph {
	t.Helper()
	g := New()
	for _, id := range nodes {
		if err := g.AddNode(Node{ID: id, Kind: KindEntity, Name: id}); err != nil {
			t.Fatalf("AddNode(%s): %v", id, err)
		}
	}
	for _, e := range edges {
		if _, err := g.AddEdge(Edge{Source: e[0], Target: e[1], Percentage: 50}); err != nil {
			t.Fatalf("AddEdge(%s→%s): %v", e[0], e[1], err)
		}
	}
	return g
}

func TestAddNode(t *testing.T) {
	g := New()

	if err := g.AddNode(Node{ID: "a", X: 10, Y: 20, Level: 3}); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	n, ok := g.Node("a")
	if !ok {
		t.Fatal("node a not found")
	}
	if n.X != 10 || n.Y != 20 {
		t.Errorf("position = (%v,%v), want (10,20)", n.X, n.Y)
	}
	if n.Level != 0 {
		t.Errorf("Level = %d, want 0", n.Level)
	}

	if err := g.AddNode(Node{ID: "a", Name: "other"}); !errors.Is(err, ErrDuplicateNodeID) {
		t.Errorf("duplicate AddNode error = %v, want ErrDuplicateNodeID", err)
	}
	if n, _ := g.Node("a"); n.Name != "" || n.X != 10 {
		t.Errorf("duplicate insert mutated existing node: %+v", n)
	}
	if err := g.AddNode(Node{}); !errors.Is(err, ErrInvalidNodeID) {
		t.Errorf("empty id error = %v, want ErrInvalidNodeID", err)
	}
	if g.NodeCount() != 1 {
		t.Errorf("NodeCount = %d, want 1", g.NodeCount())
	}
}

func TestAddEdge(t *testing.T) {
	tests := []struct {
		name    string
		edge    Edge
		wantID  string
		wantErr error
	}{
		{"derived id", Edge{Source: "a", Target: "b"}, "a_b", nil},
		{"explicit id", Edge{ID: "own-1", Source: "b", Target: "a"}, "own-1", nil},
		{"missing source", Edge{Source: "x", Target: "a"}, "", ErrUnknownSourceNode},
		{"missing target", Edge{Source: "a", Target: "x"}, "", ErrUnknownTargetNode},
		{"collision", Edge{ID: "a_b", Source: "b", Target: "a"}, "", ErrDuplicateEdgeID},
	}

	g := build(t, []string{"a", "b"}, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := g.EdgeCount()
			id, err := g.AddEdge(tt.edge)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if id != tt.wantID {
				t.Errorf("id = %q, want %q", id, tt.wantID)
			}
			if tt.wantErr != nil && g.EdgeCount() != before {
				t.Errorf("rejected insert changed EdgeCount %d → %d", before, g.EdgeCount())
			}
		})
	}
}

func TestRemoveNodeCascade(t *testing.T) {
	g := build(t,
		[]string{"a", "b", "c", "d"},
		[][2]string{{"a", "b"}, {"b", "c"}, {"c", "d"}, {"d", "b"}, {"a", "d"}},
	)

	removed := g.RemoveNode("b")
	want := []string{"a_b", "b_c", "d_b"}
	if !slices.Equal(removed, want) {
		t.Errorf("removed = %v, want %v", removed, want)
	}
	if g.HasNode("b") {
		t.Error("node b still present")
	}
	gotEdges := []string{}
	for _, e := range g.Edges() {
		gotEdges = append(gotEdges, e.ID)
	}
	if !slices.Equal(gotEdges, []string{"c_d", "a_d"}) {
		t.Errorf("remaining edges = %v, want [c_d a_d]", gotEdges)
	}
	if got := g.IncidentEdges("d"); !slices.Equal(got, []string{"c_d", "a_d"}) {
		t.Errorf("IncidentEdges(d) = %v", got)
	}

	if removed := g.RemoveNode("missing"); removed != nil {
		t.Errorf("RemoveNode(missing) = %v, want nil", removed)
	}
}

func TestRemoveEdge(t *testing.T) {
	g := build(t, []string{"a", "b"}, [][2]string{{"a", "b"}})
	if !g.RemoveEdge("a_b") {
		t.Error("RemoveEdge(a_b) = false, want true")
	}
	if g.RemoveEdge("a_b") {
		t.Error("second RemoveEdge(a_b) = true, want false")
	}
	if g.NodeCount() != 2 {
		t.Errorf("NodeCount = %d, want 2", g.NodeCount())
	}
	if len(g.OutEdges("a")) != 0 || len(g.InEdges("b")) != 0 {
		t.Error("adjacency not cleaned up")
	}
}

func TestIncidentEdgesSelfLoop(t *testing.T) {
	g := build(t, []string{"a", "b"}, [][2]string{{"a", "a"}, {"b", "a"}})
	if got := g.IncidentEdges("a"); !slices.Equal(got, []string{"a_a", "b_a"}) {
		t.Errorf("IncidentEdges(a) = %v, want [a_a b_a]", got)
	}
	g.RemoveNode("a")
	if g.EdgeCount() != 0 {
		t.Errorf("EdgeCount = %d, want 0", g.EdgeCount())
	}
}

func TestClear(t *testing.T) {
	g := build(t, []string{"a", "b"}, [][2]string{{"a", "b"}})
	g.Clear()
	if g.NodeCount() != 0 || g.EdgeCount() != 0 {
		t.Errorf("after Clear: %d nodes, %d edges", g.NodeCount(), g.EdgeCount())
	}
	if err := g.AddNode(Node{ID: "a"}); err != nil {
		t.Errorf("AddNode after Clear: %v", err)
	}
}

func TestUpdateEdgeAndPlacement(t *testing.T) {
	g := build(t, []string{"a", "b"}, [][2]string{{"a", "b"}})
	shares := int64(500)
	if err := g.UpdateEdge("a_b", EdgeProps{Percentage: 120, Shares: &shares, CorporateName: "Acme"}); err != nil {
		t.Fatalf("UpdateEdge: %v", err)
	}
	e, _ := g.Edge("a_b")
	if e.Percentage != 120 || *e.Shares != 500 || e.CorporateName != "Acme" {
		t.Errorf("edge = %+v", e)
	}
	if e.Source != "a" || e.Target != "b" {
		t.Error("UpdateEdge changed endpoints")
	}
	if err := g.UpdateEdge("nope", EdgeProps{}); !errors.Is(err, ErrUnknownEdge) {
		t.Errorf("UpdateEdge(nope) = %v, want ErrUnknownEdge", err)
	}

	if err := g.SetPlacement("b", 2, -100, 400); err != nil {
		t.Fatalf("SetPlacement: %v", err)
	}
	if err := g.MoveNode("b", 5, 6); err != nil {
		t.Fatalf("MoveNode: %v", err)
	}
	n, _ := g.Node("b")
	if n.Level != 2 || n.X != 5 || n.Y != 6 {
		t.Errorf("node b = %+v", n)
	}
	if err := g.MoveNode("zz", 0, 0); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("MoveNode(zz) = %v, want ErrUnknownNode", err)
	}
}

func TestClone(t *testing.T) {
	g := build(t, []string{"a", "b"}, [][2]string{{"a", "b"}})
	v := 10.0
	g.UpdateEdge("a_b", EdgeProps{ShareValueUSD: &v})

	c := g.Clone()
	ce, _ := c.Edge("a_b")
	*ce.ShareValueUSD = 99
	c.MoveNode("a", 99, 99)
	c.RemoveNode("b")

	if n, _ := g.Node("a"); n.X == 99 {
		t.Error("clone shares node storage")
	}
	if g.EdgeCount() != 1 {
		t.Error("clone shares edge storage")
	}
	if e, _ := g.Edge("a_b"); *e.ShareValueUSD != 10 {
		t.Errorf("ShareValueUSD = %v, want 10", *e.ShareValueUSD)
	}
}

// Any sequence of adds and removes keeps every edge endpoint in the node set.
func TestReferentialIntegrity(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	g := New()
	id := func() string { return fmt.Sprintf("n%d", r.IntN(12)) }

	for range 2000 {
		switch r.IntN(4) {
		case 0:
			_ = g.AddNode(Node{ID: id()})
		case 1, 2:
			_, _ = g.AddEdge(Edge{Source: id(), Target: id()})
		case 3:
			g.RemoveNode(id())
		}

		for _, e := range g.Edges() {
			if !g.HasNode(e.Source) || !g.HasNode(e.Target) {
				t.Fatalf("edge %s references missing node", e.ID)
			}
		}
	}
}

func TestRemoveNodeExactEdges(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 5))
	for trial := range 50 {
		g := New()
		for i := range 8 {
			g.AddNode(Node{ID: fmt.Sprintf("n%d", i)})
		}
		for range 20 {
			g.AddEdge(Edge{Source: fmt.Sprintf("n%d", r.IntN(8)), Target: fmt.Sprintf("n%d", r.IntN(8))})
		}

		victim := fmt.Sprintf("n%d", r.IntN(8))
		var want, keep []string
		for _, e := range g.Edges() {
			if e.Source == victim || e.Target == victim {
				want = append(want, e.ID)
			} else {
				keep = append(keep, e.ID)
			}
		}

		got := g.RemoveNode(victim)
		if !slices.Equal(got, want) {
			t.Fatalf("trial %d: removed %v, want %v", trial, got, want)
		}
		var left []string
		for _, e := range g.Edges() {
			left = append(left, e.ID)
		}
		if !slices.Equal(left, keep) {
			t.Fatalf("trial %d: kept %v, want %v", trial, left, keep)
		}
	}
}
