// Package viewport models the pan/zoom transform between the editor canvas
// and diagram coordinates.
//
// A [Transform] maps a diagram point p to the screen as p*K + (X, Y), relative
// to the canvas origin. Palette drops arrive in client coordinates and are
// mapped back with [Transform.ToGraph] so a dropped node lands under the
// cursor whatever the current view.
package viewport

import "github.com/matzehuels/organogram/pkg/layout"

// Zoom limits and step used by the editor's zoom buttons.
const (
	MinScale = 0.1
	MaxScale = 3.0
	ZoomStep = 1.5

	// fitMargin leaves 10% of the canvas free on each side after fit-to-screen.
	fitMargin = 0.8
)

// Transform is a uniform scale K followed by a translation (X, Y).
type Transform struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	K float64 `json:"k"`
}

// Identity returns the transform with no pan and unit zoom.
func Identity() Transform { return Transform{K: 1} }

// ToGraph converts a client-space point to diagram coordinates.
// origin is the client position of the canvas' top-left corner.
func (t Transform) ToGraph(client, origin layout.Point) layout.Point {
	k := t.scale()
	return layout.Point{
		X: (client.X - origin.X - t.X) / k,
		Y: (client.Y - origin.Y - t.Y) / k,
	}
}

// ToScreen converts a diagram point to canvas-relative screen coordinates.
func (t Transform) ToScreen(p layout.Point) layout.Point {
	k := t.scale()
	return layout.Point{X: p.X*k + t.X, Y: p.Y*k + t.Y}
}

// Pan shifts the view by (dx, dy) screen units.
func (t Transform) Pan(dx, dy float64) Transform {
	t.X += dx
	t.Y += dy
	return t
}

// ZoomBy multiplies the scale by factor, clamped to [MinScale, MaxScale],
// keeping the screen point center fixed.
func (t Transform) ZoomBy(factor float64, center layout.Point) Transform {
	k := t.scale()
	next := clamp(k * factor)
	if next == k {
		t.K = k
		return t
	}
	ratio := next / k
	return Transform{
		X: center.X - (center.X-t.X)*ratio,
		Y: center.Y - (center.Y-t.Y)*ratio,
		K: next,
	}
}

// Fit returns the transform that centers bounds in a width×height canvas,
// using at most 80% of either dimension and never zooming in past 1.
func Fit(bounds layout.Box, width, height float64) Transform {
	k := 1.0
	if bw := bounds.Width(); bw > 0 {
		k = min(k, width*fitMargin/bw)
	}
	if bh := bounds.Height(); bh > 0 {
		k = min(k, height*fitMargin/bh)
	}
	k = clamp(k)
	return Transform{
		X: width/2 - k*bounds.CenterX(),
		Y: height/2 - k*bounds.CenterY(),
		K: k,
	}
}

func (t Transform) scale() float64 {
	if t.K <= 0 {
		return 1
	}
	return t.K
}

func clamp(k float64) float64 {
	return max(MinScale, min(MaxScale, k))
}
