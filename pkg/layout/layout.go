package layout

import "github.com/matzehuels/organogram/pkg/diagram"

// Placement is the computed level and position of one node.
type Placement struct {
	ID    string  `json:"id"`
	Level int     `json:"level"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// Result is the outcome of an auto layout pass.
type Result struct {
	Levels     [][]string  `json:"levels"`
	Placements []Placement `json:"placements"` // level order, then discovery order
}

// Position returns the placement for id.
func (r Result) Position(id string) (Placement, bool) {
	for _, p := range r.Placements {
		if p.ID == id {
			return p, true
		}
	}
	return Placement{}, false
}

// Compute assigns a level and grid position to every node without touching the graph.
func Compute(g *diagram.Graph, cfg Config) Result {
	levels := Levels(g)
	res := Result{Levels: levels, Placements: make([]Placement, 0, g.NodeCount())}
	for level, ids := range levels {
		y := cfg.BaseY + float64(level)*cfg.LevelHeight
		startX := -float64(len(ids)) * cfg.NodeSpacing / 2
		for i, id := range ids {
			res.Placements = append(res.Placements, Placement{
				ID:    id,
				Level: level,
				X:     startX + float64(i)*cfg.NodeSpacing,
				Y:     y,
			})
		}
	}
	return res
}

// Apply computes the layout and writes level and position into the graph.
func Apply(g *diagram.Graph, cfg Config) Result {
	res := Compute(g, cfg)
	for _, p := range res.Placements {
		_ = g.SetPlacement(p.ID, p.Level, p.X, p.Y)
	}
	return res
}
