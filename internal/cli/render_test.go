package cli

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/organogram/pkg/diagram"
	"github.com/matzehuels/organogram/pkg/layout"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "dot", []string{"dot"}},
		{"multiple formats", "svg,pdf,png", []string{"svg", "pdf", "png"}},
		{"spaces and case", " SVG , dot ", []string{"svg", "dot"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateFormats(t *testing.T) {
	tests := []struct {
		name    string
		formats []string
		wantErr bool
	}{
		{"valid svg", []string{"svg"}, false},
		{"valid all", []string{"svg", "dot", "pdf", "png"}, false},
		{"json is not a render format", []string{"json"}, true},
		{"mixed valid invalid", []string{"svg", "invalid"}, true},
		{"empty slice", []string{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateFormats(tt.formats)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateFormats(%v) error = %v, wantErr %v", tt.formats, err, tt.wantErr)
			}
		})
	}
}

func TestValidateEngine(t *testing.T) {
	for _, e := range []string{engineScene, engineGraphviz} {
		if err := validateEngine(e); err != nil {
			t.Errorf("validateEngine(%q) = %v, want nil", e, err)
		}
	}
	if err := validateEngine("tower"); err == nil {
		t.Error("validateEngine(tower) should fail")
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", ""},
		{"out", "out"},
		{"out.svg", "out"},
		{"dir/chart.png", "dir/chart"},
		{"chart.v2", "chart.v2"},
	}
	for _, tt := range tests {
		if got := basePath(tt.in); got != tt.want {
			t.Errorf("basePath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestOutputPath(t *testing.T) {
	if got := outputPath("", "data/acme.json", ".layout.json"); got != "data/acme.layout.json" {
		t.Errorf("outputPath derived = %q", got)
	}
	if got := outputPath("x.json", "data/acme.json", ".layout.json"); got != "x.json" {
		t.Errorf("outputPath explicit = %q", got)
	}
}

func TestRenderGraphScene(t *testing.T) {
	g := diagram.New()
	_ = g.AddNode(diagram.Node{ID: "a", Kind: diagram.KindEntity, Name: "Holdco"})
	_ = g.AddNode(diagram.Node{ID: "b", Kind: diagram.KindParty, Name: "Alice"})
	_, _ = g.AddEdge(diagram.Edge{Source: "b", Target: "a", Percentage: 75})
	cfg := layout.DefaultConfig()
	layout.Apply(g, cfg)

	c := New(&strings.Builder{}, LogInfo)
	opts := renderOpts{engine: engineScene}

	svg, err := c.renderGraph(context.Background(), g, cfg, "svg", opts)
	if err != nil {
		t.Fatalf("renderGraph(svg) error: %v", err)
	}
	for _, want := range []string{"<svg", "Holdco", "75%"} {
		if !strings.Contains(string(svg), want) {
			t.Errorf("svg missing %q", want)
		}
	}

	dotSrc, err := c.renderGraph(context.Background(), g, cfg, "dot", opts)
	if err != nil {
		t.Fatalf("renderGraph(dot) error: %v", err)
	}
	if !strings.HasPrefix(string(dotSrc), "digraph organogram") {
		t.Errorf("dot output = %q", dotSrc)
	}
}
