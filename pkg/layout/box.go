package layout

import "github.com/matzehuels/organogram/pkg/diagram"

// Point is a position in diagram coordinates. Y grows downward.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Box is the rectangle a node occupies on the canvas.
// Top is the smaller Y since the canvas Y axis points down.
type Box struct {
	Left, Right float64
	Top, Bottom float64
}

// NodeBox returns the box of n under cfg. The node's position is its top-left corner.
func NodeBox(n diagram.Node, cfg Config) Box {
	return Box{Left: n.X, Right: n.X + cfg.NodeWidth, Top: n.Y, Bottom: n.Y + cfg.NodeHeight}
}

// Width returns the horizontal span of the box.
func (b Box) Width() float64 { return b.Right - b.Left }

// Height returns the vertical span of the box.
func (b Box) Height() float64 { return b.Bottom - b.Top }

// CenterX returns the horizontal center of the box.
func (b Box) CenterX() float64 { return (b.Left + b.Right) / 2 }

// CenterY returns the vertical center of the box.
func (b Box) CenterY() float64 { return (b.Top + b.Bottom) / 2 }

// TopCenter is where incoming connectors attach.
func (b Box) TopCenter() Point { return Point{X: b.CenterX(), Y: b.Top} }

// BottomCenter is where outgoing connectors attach.
func (b Box) BottomCenter() Point { return Point{X: b.CenterX(), Y: b.Bottom} }

// Union returns the smallest box containing both b and o.
func (b Box) Union(o Box) Box {
	return Box{
		Left:   min(b.Left, o.Left),
		Right:  max(b.Right, o.Right),
		Top:    min(b.Top, o.Top),
		Bottom: max(b.Bottom, o.Bottom),
	}
}

// Bounds returns the box enclosing every node, and false for an empty graph.
func Bounds(g *diagram.Graph, cfg Config) (Box, bool) {
	nodes := g.Nodes()
	if len(nodes) == 0 {
		return Box{}, false
	}
	b := NodeBox(nodes[0], cfg)
	for _, n := range nodes[1:] {
		b = b.Union(NodeBox(n, cfg))
	}
	return b, true
}
