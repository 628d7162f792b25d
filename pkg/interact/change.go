package interact

import "github.com/matzehuels/organogram/pkg/layout"

// SelectionKind says what a selection points at.
type SelectionKind string

const (
	SelectNode SelectionKind = "node"
	SelectEdge SelectionKind = "edge"
)

// Selection is the single selected node or edge.
type Selection struct {
	Kind SelectionKind `json:"kind"`
	ID   string        `json:"id"`
}

// EdgeUpdate is the redraw geometry of one connector.
type EdgeUpdate struct {
	ID    string       `json:"id"`
	Path  string       `json:"path"`  // SVG path data
	Label layout.Point `json:"label"` // percentage label anchor
}

func edgeUpdate(g layout.EdgeGeometry) EdgeUpdate {
	return EdgeUpdate{ID: g.EdgeID, Path: g.Path.String(), Label: g.Label}
}

// Change describes what a binding must redraw after an event.
// The zero value means nothing changed.
type Change struct {
	Moved        []string `json:"moved,omitempty"`
	AddedNodes   []string `json:"added_nodes,omitempty"`
	RemovedNodes []string `json:"removed_nodes,omitempty"`
	AddedEdges   []string `json:"added_edges,omitempty"`
	RemovedEdges []string `json:"removed_edges,omitempty"`
	UpdatedEdges []string `json:"updated_edges,omitempty"` // properties changed, geometry may not have

	// Edges carries fresh geometry for every connector that must be redrawn.
	Edges []EdgeUpdate `json:"edges,omitempty"`

	// Selection is the selection after the event; SelectionChanged reports
	// whether it differs from before.
	Selection        *Selection `json:"selection,omitempty"`
	SelectionChanged bool       `json:"selection_changed,omitempty"`

	Full          bool `json:"full,omitempty"`     // redraw everything
	Viewport      bool `json:"viewport,omitempty"` // transform changed
	SaveRequested bool `json:"save_requested,omitempty"`
}

// Empty reports whether the change requires no redraw and no action.
func (c Change) Empty() bool {
	return len(c.Moved) == 0 && len(c.AddedNodes) == 0 && len(c.RemovedNodes) == 0 &&
		len(c.AddedEdges) == 0 && len(c.RemovedEdges) == 0 && len(c.UpdatedEdges) == 0 &&
		len(c.Edges) == 0 && !c.SelectionChanged && !c.Full && !c.Viewport && !c.SaveRequested
}

// Mutates reports whether the change altered the graph, as opposed to only
// the selection or the view.
func (c Change) Mutates() bool {
	return c.Full || len(c.Moved) > 0 || len(c.AddedNodes) > 0 || len(c.RemovedNodes) > 0 ||
		len(c.AddedEdges) > 0 || len(c.RemovedEdges) > 0 || len(c.UpdatedEdges) > 0
}
