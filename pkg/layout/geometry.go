package layout

import (
	"strconv"
	"strings"

	"github.com/matzehuels/organogram/pkg/diagram"
)

// Path is a cubic Bézier connector from Start to End.
type Path struct {
	Start, C1, C2, End Point
}

// String renders the path as SVG path data.
func (p Path) String() string {
	var b strings.Builder
	b.WriteString("M ")
	writePoint(&b, p.Start)
	b.WriteString(" C ")
	writePoint(&b, p.C1)
	b.WriteString(", ")
	writePoint(&b, p.C2)
	b.WriteString(", ")
	writePoint(&b, p.End)
	return b.String()
}

func writePoint(b *strings.Builder, pt Point) {
	b.WriteString(strconv.FormatFloat(pt.X, 'f', -1, 64))
	b.WriteByte(' ')
	b.WriteString(strconv.FormatFloat(pt.Y, 'f', -1, 64))
}

// Anchors returns the connector endpoints: the source's bottom-center and
// the target's top-center.
func Anchors(src, dst diagram.Node, cfg Config) (from, to Point) {
	return NodeBox(src, cfg).BottomCenter(), NodeBox(dst, cfg).TopCenter()
}

// ConnectionPath returns the vertical S-curve between two nodes. Both control
// points lie on the horizontal line through the anchors' vertical midpoint.
func ConnectionPath(src, dst diagram.Node, cfg Config) Path {
	from, to := Anchors(src, dst, cfg)
	midY := (from.Y + to.Y) / 2
	return Path{
		Start: from,
		C1:    Point{X: from.X, Y: midY},
		C2:    Point{X: to.X, Y: midY},
		End:   to,
	}
}

// LabelPosition returns the midpoint of the straight line between the anchors.
func LabelPosition(src, dst diagram.Node, cfg Config) Point {
	from, to := Anchors(src, dst, cfg)
	return Point{X: (from.X + to.X) / 2, Y: (from.Y + to.Y) / 2}
}

// EdgeGeometry is everything needed to redraw one connector.
type EdgeGeometry struct {
	EdgeID string
	Path   Path
	Label  Point
}

// Geometry computes the connector geometry for an edge from the current store.
// It returns false if the edge or one of its endpoints is missing.
func Geometry(g *diagram.Graph, edgeID string, cfg Config) (EdgeGeometry, bool) {
	e, ok := g.Edge(edgeID)
	if !ok {
		return EdgeGeometry{}, false
	}
	src, okS := g.Node(e.Source)
	dst, okD := g.Node(e.Target)
	if !okS || !okD {
		return EdgeGeometry{}, false
	}
	return EdgeGeometry{
		EdgeID: edgeID,
		Path:   ConnectionPath(src, dst, cfg),
		Label:  LabelPosition(src, dst, cfg),
	}, true
}
