package render

import (
	"bytes"
	"fmt"
	"html"
	"io"

	"github.com/matzehuels/organogram/pkg/diagram"
)

// Palette of the editor canvas.
const (
	colorEntity     = "#667eea"
	colorParty      = "#f093fb"
	colorSelected   = "#28a745"
	colorConnection = "#666"

	svgMargin   = 40
	labelWidth  = 50
	labelHeight = 20
	cornerR     = 12
)

// RenderSVG draws the scene as a standalone SVG document.
func RenderSVG(s *Scene) []byte {
	var buf bytes.Buffer
	_ = WriteSVG(&buf, s)
	return buf.Bytes()
}

// WriteSVG writes the scene as SVG to w. Connectors are drawn beneath nodes,
// matching the editor's layer order.
func WriteSVG(w io.Writer, s *Scene) error {
	var buf bytes.Buffer

	bounds, ok := s.Bounds()
	minX, minY, width, height := 0.0, 0.0, 0.0, 0.0
	if ok {
		minX, minY = bounds.Left-svgMargin, bounds.Top-svgMargin
		width, height = bounds.Width()+2*svgMargin, bounds.Height()+2*svgMargin
	}
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.1f %.1f %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		minX, minY, width, height, width, height)
	buf.WriteString(svgDefs)

	buf.WriteString(`  <g class="connections">` + "\n")
	for _, e := range s.Edges() {
		writeEdge(&buf, e)
	}
	buf.WriteString("  </g>\n")

	buf.WriteString(`  <g class="nodes">` + "\n")
	for _, n := range s.Nodes() {
		writeNode(&buf, n)
	}
	buf.WriteString("  </g>\n")

	buf.WriteString("</svg>\n")
	_, err := w.Write(buf.Bytes())
	return err
}

const svgDefs = `  <defs>
    <marker id="arrow" viewBox="0 0 10 10" refX="9" refY="5" markerWidth="6" markerHeight="6" orient="auto-start-reverse">
      <path d="M 0 0 L 10 5 L 0 10 z" fill="` + colorConnection + `"/>
    </marker>
  </defs>
`

func writeEdge(buf *bytes.Buffer, e *EdgeView) {
	stroke := colorConnection
	if e.Selected {
		stroke = colorSelected
	}
	fmt.Fprintf(buf, `    <g class="connection-group" id="edge-%s">`+"\n", html.EscapeString(e.ID))
	fmt.Fprintf(buf, `      <path class="connection" d="%s" fill="none" stroke="%s" stroke-width="2" marker-end="url(#arrow)"/>`+"\n",
		e.Path, stroke)
	fmt.Fprintf(buf, `      <rect class="connection-background" x="%.1f" y="%.1f" width="%d" height="%d" rx="4" fill="white" stroke="%s"/>`+"\n",
		e.Label.X-labelWidth/2, e.Label.Y-labelHeight/2, labelWidth, labelHeight, stroke)
	fmt.Fprintf(buf, `      <text class="connection-label" x="%.1f" y="%.1f" text-anchor="middle" dominant-baseline="central" font-size="11">%s</text>`+"\n",
		e.Label.X, e.Label.Y, html.EscapeString(e.Text))
	buf.WriteString("    </g>\n")
}

func writeNode(buf *bytes.Buffer, n *NodeView) {
	fill := colorEntity
	if n.Kind == diagram.KindParty {
		fill = colorParty
	}
	stroke := "none"
	if n.Selected {
		stroke = colorSelected
	}
	cx := n.Box.Width() / 2
	fmt.Fprintf(buf, `    <g class="node" id="node-%s" transform="translate(%.1f, %.1f)">`+"\n",
		html.EscapeString(n.ID), n.Box.Left, n.Box.Top)
	fmt.Fprintf(buf, `      <rect class="node-%s" width="%.0f" height="%.0f" rx="%d" ry="%d" fill="%s" stroke="%s" stroke-width="3"/>`+"\n",
		n.Kind, n.Box.Width(), n.Box.Height(), cornerR, cornerR, fill, stroke)
	fmt.Fprintf(buf, `      <text class="node-icon" x="%.1f" y="25" text-anchor="middle">%s</text>`+"\n", cx, n.Icon)
	fmt.Fprintf(buf, `      <text class="node-text" x="%.1f" y="45" text-anchor="middle" font-size="12" fill="white">%s</text>`+"\n",
		cx, html.EscapeString(n.Title))
	if n.Details != "" {
		fmt.Fprintf(buf, `      <text class="node-details" x="%.1f" y="60" text-anchor="middle" font-size="10" fill="white">%s</text>`+"\n",
			cx, html.EscapeString(n.Details))
	}
	buf.WriteString("    </g>\n")
}
