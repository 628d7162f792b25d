package snapshot

import (
	"bytes"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/organogram/pkg/diagram"
	orgerrors "github.com/matzehuels/organogram/pkg/errors"
)

func quietLogger() *log.Logger { return log.New(io.Discard) }

func TestLoadSkipsRejectedRecords(t *testing.T) {
	s := Snapshot{
		Nodes: []NodeRecord{
			{ID: "entity_1", Type: "entity", Name: "Holdco", X: 10, Y: 20, Level: 2},
			{ID: "party_1", Type: "party", Name: "Alice"},
			{ID: "entity_1", Type: "entity", Name: "Dup"},
		},
		Edges: []EdgeRecord{
			{Source: "party_1", Target: "entity_1", Percentage: 60},
			{ID: "bad", Source: "party_1", Target: "ghost", Percentage: 10},
			{Source: "party_1", Target: "entity_1", Percentage: 5},
		},
	}
	var buf bytes.Buffer
	g, res := Build(s, log.New(&buf))

	if res.Nodes != 2 || res.Edges != 1 {
		t.Errorf("loaded nodes=%d edges=%d, want 2 and 1", res.Nodes, res.Edges)
	}
	if len(res.Skipped) != 3 {
		t.Fatalf("skipped = %d, want 3", len(res.Skipped))
	}
	for _, sk := range res.Skipped {
		if !orgerrors.IsReferential(sk.Err) {
			t.Errorf("skip %s: err = %v, want REFERENTIAL", sk.ID, sk.Err)
		}
	}
	if got := res.Skipped[2].ID; got != "party_1_entity_1" {
		t.Errorf("derived skip id = %q, want party_1_entity_1", got)
	}
	if n, _ := g.Node("entity_1"); n.Name != "Holdco" || n.Level != 2 || n.X != 10 {
		t.Errorf("entity_1 = %+v, want first record kept", n)
	}
	if !strings.Contains(buf.String(), "skipping edge") {
		t.Errorf("expected warn log for skipped edge, got %q", buf.String())
	}
}

func TestLoadSkipsUnknownNodeType(t *testing.T) {
	s := Snapshot{
		Nodes: []NodeRecord{
			{ID: "a", Type: "company", Name: "A"},
			{ID: "b", Name: "B"},
		},
		Edges: []EdgeRecord{{Source: "b", Target: "a", Percentage: 50}},
	}
	g, res := Build(s, quietLogger())

	if g.HasNode("a") {
		t.Error("node with type company should be skipped")
	}
	if n, ok := g.Node("b"); !ok || n.Kind != diagram.KindEntity {
		t.Errorf("b = %+v, %v, want entity by default", n, ok)
	}
	if res.Nodes != 1 || res.Edges != 0 {
		t.Errorf("loaded nodes=%d edges=%d, want 1 and 0", res.Nodes, res.Edges)
	}
	if len(res.Skipped) != 2 {
		t.Fatalf("skipped = %d, want 2", len(res.Skipped))
	}
	if !orgerrors.Is(res.Skipped[0].Err, orgerrors.ErrCodeInvalidInput) {
		t.Errorf("skip a: err = %v, want INVALID_INPUT", res.Skipped[0].Err)
	}
	if !orgerrors.IsReferential(res.Skipped[1].Err) {
		t.Errorf("skip b_a: err = %v, want REFERENTIAL", res.Skipped[1].Err)
	}
}

func TestFromGraphRoundTrip(t *testing.T) {
	g := diagram.New()
	_ = g.AddNode(diagram.Node{ID: "a", Kind: diagram.KindEntity, Name: "A", TotalShares: 1000, Jurisdiction: "DE"})
	_ = g.AddNode(diagram.Node{ID: "b", Kind: diagram.KindParty, Name: "B", Nationality: "FR"})
	usd := 12.5
	_, _ = g.AddEdge(diagram.Edge{Source: "b", Target: "a", Percentage: 40, ShareValueUSD: &usd})

	s := FromGraph(g)
	data, err := Marshal(s)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	back, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	g2, res := Build(back, quietLogger())
	if len(res.Skipped) != 0 {
		t.Fatalf("unexpected skips: %+v", res.Skipped)
	}
	e, ok := g2.Edge("b_a")
	if !ok || e.Percentage != 40 || e.ShareValueUSD == nil || *e.ShareValueUSD != 12.5 {
		t.Errorf("edge b_a = %+v, want percentage 40 and usd 12.5", e)
	}
	if n, _ := g2.Node("a"); n.TotalShares != 1000 || n.Jurisdiction != "DE" {
		t.Errorf("node a = %+v", n)
	}
}

func TestFromGraphWireShape(t *testing.T) {
	data, err := json.Marshal(FromGraph(diagram.New()))
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(data), `{"nodes":[],"edges":[]}`; got != want {
		t.Errorf("empty snapshot = %s, want %s", got, want)
	}

	g := diagram.New()
	_ = g.AddNode(diagram.Node{ID: "a", Kind: diagram.KindEntity, Name: "A"})
	req := NewSaveRequest("42", g)
	data, _ = json.Marshal(req)
	for _, key := range []string{`"structure_id":"42"`, `"type":"entity"`, `"level":0`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("save request %s missing %s", data, key)
		}
	}
	if strings.Contains(string(data), "total_shares") {
		t.Errorf("unset total_shares should be omitted: %s", data)
	}
}

func TestNodeFromRecordDefaultsKind(t *testing.T) {
	if got := NodeFromRecord(NodeRecord{ID: "x"}).Kind; got != diagram.KindEntity {
		t.Errorf("kind = %q, want entity", got)
	}
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.json")
	s := Snapshot{Nodes: []NodeRecord{{ID: "a", Type: "party", Name: "A"}}, Edges: []EdgeRecord{}}
	if err := WriteFile(path, s); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(got.Nodes) != 1 || got.Nodes[0].Name != "A" {
		t.Errorf("ReadFile = %+v", got)
	}

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.json"))
	if !orgerrors.Is(err, orgerrors.ErrCodeNotFound) {
		t.Errorf("missing file err = %v, want NOT_FOUND", err)
	}
}

func TestReadMalformed(t *testing.T) {
	_, err := Read(strings.NewReader("{nodes:"))
	if !orgerrors.Is(err, orgerrors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}
