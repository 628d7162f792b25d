package layout

import (
	"slices"
	"testing"

	"github.com/matzehuels/organogram/pkg/diagram"
)

func graphOf(t *testing.T, nodes []string, edges [][2]string) *diagram.Graph {
	t.Helper()
	g := diagram.New()
	for _, id := range nodes {
		if err := g.AddNode(diagram.Node{ID: id, Kind: diagram.KindEntity}); err != nil {
			t.Fatalf("AddNode(%s): %v", id, err)
		}
	}
	for _, e := range edges {
		if _, err := g.AddEdge(diagram.Edge{Source: e[0], Target: e[1]}); err != nil {
			t.Fatalf("AddEdge(%s→%s): %v", e[0], e[1], err)
		}
	}
	return g
}

func TestLevels(t *testing.T) {
	tests := []struct {
		name  string
		nodes []string
		edges [][2]string
		want  [][]string
	}{
		{
			name: "Empty",
			want: nil,
		},
		{
			name:  "Tree",
			nodes: []string{"A", "B", "C", "D"},
			edges: [][2]string{{"A", "B"}, {"A", "C"}, {"B", "D"}},
			want:  [][]string{{"A"}, {"B", "C"}, {"D"}},
		},
		{
			name:  "RootsInInsertionOrder",
			nodes: []string{"x", "r2", "r1"},
			edges: [][2]string{{"r1", "x"}},
			want:  [][]string{{"r2", "r1"}, {"x"}},
		},
		{
			name:  "TwoNodeCycle",
			nodes: []string{"A", "B"},
			edges: [][2]string{{"A", "B"}, {"B", "A"}},
			want:  [][]string{{"A", "B"}},
		},
		{
			name:  "CycleBelowRoot",
			nodes: []string{"R", "A", "B"},
			edges: [][2]string{{"R", "A"}, {"A", "B"}, {"B", "A"}},
			want:  [][]string{{"R"}, {"A"}, {"B"}},
		},
		{
			name:  "OrphanCycleBesideTree",
			nodes: []string{"A", "B", "C", "D"},
			edges: [][2]string{{"A", "B"}, {"C", "D"}, {"D", "C"}},
			want:  [][]string{{"A", "C", "D"}, {"B"}},
		},
		{
			name:  "SelfLoop",
			nodes: []string{"A"},
			edges: [][2]string{{"A", "A"}},
			want:  [][]string{{"A"}},
		},
		{
			// D is reachable at depth 1 (R→D) and depth 2 (R→A→D). It keeps
			// the level of whichever path the traversal finishes first.
			name:  "FirstVisitWinsShallow",
			nodes: []string{"R", "A", "D"},
			edges: [][2]string{{"R", "A"}, {"R", "D"}, {"A", "D"}},
			want:  [][]string{{"R"}, {"A", "D"}},
		},
		{
			// Two roots at different depths above D: D is discovered first
			// via R1 (level 1) and is not moved down under B.
			name:  "DiamondKeepsFirstLevel",
			nodes: []string{"R1", "R2", "B", "D"},
			edges: [][2]string{{"R2", "B"}, {"R1", "D"}, {"B", "D"}},
			want:  [][]string{{"R1", "R2"}, {"D", "B"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := graphOf(t, tt.nodes, tt.edges)
			got := Levels(g)
			if len(got) != len(tt.want) {
				t.Fatalf("Levels() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if !slices.Equal(got[i], tt.want[i]) {
					t.Errorf("level %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestApplyTree(t *testing.T) {
	g := graphOf(t, []string{"A", "B", "C", "D"}, [][2]string{{"A", "B"}, {"A", "C"}, {"B", "D"}})
	cfg := DefaultConfig()

	Apply(g, cfg)

	want := map[string]Placement{
		"A": {Level: 0, X: -cfg.NodeSpacing / 2, Y: cfg.BaseY},
		"B": {Level: 1, X: -cfg.NodeSpacing, Y: cfg.BaseY + cfg.LevelHeight},
		"C": {Level: 1, X: 0, Y: cfg.BaseY + cfg.LevelHeight},
		"D": {Level: 2, X: -cfg.NodeSpacing / 2, Y: cfg.BaseY + 2*cfg.LevelHeight},
	}
	for id, w := range want {
		n, _ := g.Node(id)
		if n.Level != w.Level || n.X != w.X || n.Y != w.Y {
			t.Errorf("%s = (level %d, %v, %v), want (level %d, %v, %v)", id, n.Level, n.X, n.Y, w.Level, w.X, w.Y)
		}
	}

	// B and C are one spacing apart and straddle the band's center.
	b, _ := g.Node("B")
	c, _ := g.Node("C")
	if c.X-b.X != cfg.NodeSpacing {
		t.Errorf("C.X - B.X = %v, want %v", c.X-b.X, cfg.NodeSpacing)
	}
}

func TestApplyIdempotent(t *testing.T) {
	g := graphOf(t,
		[]string{"p1", "p2", "h", "s1", "s2", "s3"},
		[][2]string{{"p1", "h"}, {"p2", "h"}, {"h", "s1"}, {"h", "s2"}, {"s1", "s3"}},
	)
	cfg := DefaultConfig()

	Apply(g, cfg)
	first := g.Nodes()
	Apply(g, cfg)
	second := g.Nodes()

	if !slices.Equal(first, second) {
		t.Errorf("second layout differs:\nfirst  %+v\nsecond %+v", first, second)
	}
}

func TestApplyCycleAllLevelZero(t *testing.T) {
	g := graphOf(t, []string{"A", "B"}, [][2]string{{"A", "B"}, {"B", "A"}})
	cfg := DefaultConfig()
	res := Apply(g, cfg)

	if len(res.Placements) != 2 {
		t.Fatalf("placements = %d, want 2", len(res.Placements))
	}
	for _, n := range g.Nodes() {
		if n.Level != 0 || n.Y != cfg.BaseY {
			t.Errorf("%s = level %d y %v, want level 0 y %v", n.ID, n.Level, n.Y, cfg.BaseY)
		}
	}
}

func TestComputeDoesNotMutate(t *testing.T) {
	g := graphOf(t, []string{"A", "B"}, [][2]string{{"A", "B"}})
	g.MoveNode("B", 7, 7)
	res := Compute(g, DefaultConfig())

	if p, ok := res.Position("B"); !ok || p.Level != 1 {
		t.Errorf("Position(B) = %+v, %v", p, ok)
	}
	if n, _ := g.Node("B"); n.X != 7 || n.Level != 0 {
		t.Errorf("Compute mutated node: %+v", n)
	}
}

func TestConfigWithDefaults(t *testing.T) {
	got := Config{NodeSpacing: 300, BaseY: 0}.WithDefaults()
	if got.NodeSpacing != 300 {
		t.Errorf("NodeSpacing = %v, want 300", got.NodeSpacing)
	}
	if got.NodeWidth != DefaultNodeWidth || got.NodeHeight != DefaultNodeHeight || got.LevelHeight != DefaultLevelHeight {
		t.Errorf("defaults not applied: %+v", got)
	}
	if got.BaseY != 0 {
		t.Errorf("BaseY = %v, want 0", got.BaseY)
	}
}
