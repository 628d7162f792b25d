package dot

import (
	"strings"
	"testing"

	"github.com/matzehuels/organogram/pkg/diagram"
	"github.com/matzehuels/organogram/pkg/layout"
)

func sample(t *testing.T) *diagram.Graph {
	t.Helper()
	g := diagram.New()
	_ = g.AddNode(diagram.Node{ID: "party_1", Kind: diagram.KindParty, Name: "Alice", Nationality: "DE"})
	_ = g.AddNode(diagram.Node{ID: "entity_1", Kind: diagram.KindEntity, Name: "Holdco", Jurisdiction: "WY", TotalShares: 1000})
	if _, err := g.AddEdge(diagram.Edge{Source: "party_1", Target: "entity_1", Percentage: 60}); err != nil {
		t.Fatal(err)
	}
	layout.Apply(g, layout.DefaultConfig())
	return g
}

func TestToDOT(t *testing.T) {
	src := ToDOT(sample(t), layout.DefaultConfig(), Options{})

	for _, want := range []string{
		"digraph organogram {",
		`"party_1" [label="Alice", fillcolor="#f093fb"];`,
		`"party_1" -> "entity_1" [label="60%"];`,
		"width=2.2222222222222223",
	} {
		if !strings.Contains(src, want) {
			t.Errorf("DOT missing %q:\n%s", want, src)
		}
	}
	if strings.Contains(src, "pos=") {
		t.Error("unpinned DOT should not carry positions")
	}
}

func TestToDOTPinned(t *testing.T) {
	src := ToDOT(sample(t), layout.DefaultConfig(), Options{Pinned: true, Detailed: true})

	// party_1 sits at (-100, 100): center (-20, -140) in Graphviz orientation.
	if !strings.Contains(src, `pos="-20,-140!"`) {
		t.Errorf("missing pinned position:\n%s", src)
	}
	if !strings.Contains(src, `label="Holdco\nWY\n1000 shares"`) {
		t.Errorf("missing detailed label:\n%s", src)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox = %s, want %s", got, want)
	}
}
