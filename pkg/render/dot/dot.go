package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/organogram/pkg/diagram"
	"github.com/matzehuels/organogram/pkg/layout"
	"github.com/matzehuels/organogram/pkg/render"
)

// pointsPerInch converts canvas pixels to Graphviz inches.
const pointsPerInch = 72.0

// Options configures DOT generation and rendering.
type Options struct {
	// Pinned fixes nodes at their diagram positions and renders with neato.
	Pinned bool

	// Detailed adds jurisdiction or nationality and share counts to labels.
	Detailed bool
}

// ToDOT converts a diagram to Graphviz DOT source.
func ToDOT(g *diagram.Graph, cfg layout.Config, opts Options) string {
	cfg = cfg.WithDefaults()

	var buf bytes.Buffer
	buf.WriteString("digraph organogram {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	fmt.Fprintf(&buf, "  node [shape=box, style=\"rounded,filled\", fontcolor=white, fontsize=12, fixedsize=true, width=%s, height=%s];\n",
		inches(cfg.NodeWidth), inches(cfg.NodeHeight))
	buf.WriteString("  edge [color=\"#666666\", fontsize=10];\n")
	if opts.Pinned {
		buf.WriteString("  splines=true;\n")
	} else {
		buf.WriteString("  ranksep=0.8;\n")
		buf.WriteString("  nodesep=0.4;\n")
	}
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		attrs := []string{fmt.Sprintf("label=%q", fmtLabel(n, opts.Detailed)), fmt.Sprintf("fillcolor=%q", fillColor(n))}
		if opts.Pinned {
			// Graphviz positions are node centers with Y pointing up.
			cx := n.X + cfg.NodeWidth/2
			cy := -(n.Y + cfg.NodeHeight/2)
			attrs = append(attrs, fmt.Sprintf("pos=\"%s,%s!\"", num(cx), num(cy)))
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", e.Source, e.Target, render.PercentLabel(e.Percentage))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n diagram.Node, detailed bool) string {
	title := render.Truncate(n.Name, render.TitleMaxLen)
	if title == "" {
		title = n.ID
	}
	if !detailed {
		return title
	}
	parts := []string{title}
	if d := render.Details(n); d != "" {
		parts = append(parts, d)
	}
	if n.Kind == diagram.KindEntity && n.TotalShares > 0 {
		parts = append(parts, fmt.Sprintf("%d shares", n.TotalShares))
	}
	return strings.Join(parts, "\n")
}

func fillColor(n diagram.Node) string {
	if n.Kind == diagram.KindParty {
		return "#f093fb"
	}
	return "#667eea"
}

func inches(px float64) string { return num(px / pointsPerInch) }

func num(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, src string, opts Options) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	if opts.Pinned {
		gv.SetLayout(graphviz.NEATO)
	}

	g, err := graphviz.ParseBytes([]byte(src))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a plain
// pixel viewBox so the output scales like the native SVG export.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
