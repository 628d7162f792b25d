package render

import (
	"slices"

	"github.com/matzehuels/organogram/pkg/diagram"
	"github.com/matzehuels/organogram/pkg/interact"
	"github.com/matzehuels/organogram/pkg/layout"
)

// NodeView is the drawable handle of one node.
type NodeView struct {
	ID       string
	Kind     diagram.Kind
	Box      layout.Box
	Icon     string
	Title    string
	Details  string
	Selected bool

	// Rev counts content updates since the handle was created.
	Rev int
}

// EdgeView is the drawable handle of one connector.
type EdgeView struct {
	ID       string
	Source   string
	Target   string
	Path     string
	Label    layout.Point
	Text     string
	Selected bool

	Rev int
}

// Scene maps element ids to view handles. Handles are updated in place, so a
// pointer obtained from [Scene.Node] or [Scene.Edge] stays valid until the
// element is removed or the scene is resynced.
type Scene struct {
	cfg       layout.Config
	nodes     map[string]*NodeView
	edges     map[string]*EdgeView
	nodeOrder []string
	edgeOrder []string
	selected  *interact.Selection
}

// NewScene creates an empty scene drawing with cfg.
func NewScene(cfg layout.Config) *Scene {
	return &Scene{
		cfg:   cfg.WithDefaults(),
		nodes: make(map[string]*NodeView),
		edges: make(map[string]*EdgeView),
	}
}

// Node returns the handle for a node id.
func (s *Scene) Node(id string) (*NodeView, bool) {
	v, ok := s.nodes[id]
	return v, ok
}

// Edge returns the handle for an edge id.
func (s *Scene) Edge(id string) (*EdgeView, bool) {
	v, ok := s.edges[id]
	return v, ok
}

// Nodes returns node handles in draw order.
func (s *Scene) Nodes() []*NodeView {
	out := make([]*NodeView, len(s.nodeOrder))
	for i, id := range s.nodeOrder {
		out[i] = s.nodes[id]
	}
	return out
}

// Edges returns edge handles in draw order.
func (s *Scene) Edges() []*EdgeView {
	out := make([]*EdgeView, len(s.edgeOrder))
	for i, id := range s.edgeOrder {
		out[i] = s.edges[id]
	}
	return out
}

// Bounds returns the box enclosing every node handle.
func (s *Scene) Bounds() (layout.Box, bool) {
	if len(s.nodeOrder) == 0 {
		return layout.Box{}, false
	}
	b := s.nodes[s.nodeOrder[0]].Box
	for _, id := range s.nodeOrder[1:] {
		b = b.Union(s.nodes[id].Box)
	}
	return b, true
}

// Sync discards every handle and rebuilds the scene from g.
func (s *Scene) Sync(g *diagram.Graph) {
	s.nodes = make(map[string]*NodeView, g.NodeCount())
	s.edges = make(map[string]*EdgeView, g.EdgeCount())
	s.nodeOrder = s.nodeOrder[:0]
	s.edgeOrder = s.edgeOrder[:0]
	for _, n := range g.Nodes() {
		s.addNode(n)
	}
	for _, e := range g.Edges() {
		s.addEdge(g, e)
	}
	s.mark(s.selected, true)
}

// Apply updates only the handles named by ch. A change flagged Full falls
// back to [Scene.Sync].
func (s *Scene) Apply(g *diagram.Graph, ch interact.Change) {
	if ch.Full {
		if ch.SelectionChanged {
			s.selected = ch.Selection
		}
		s.Sync(g)
		return
	}

	for _, id := range ch.RemovedEdges {
		s.removeEdge(id)
	}
	for _, id := range ch.RemovedNodes {
		s.removeNode(id)
	}
	for _, id := range ch.AddedNodes {
		if n, ok := g.Node(id); ok {
			s.addNode(n)
		}
	}
	for _, id := range ch.AddedEdges {
		if e, ok := g.Edge(id); ok {
			s.addEdge(g, e)
		}
	}
	for _, id := range ch.Moved {
		if n, ok := g.Node(id); ok {
			if v, ok := s.nodes[id]; ok {
				v.Box = layout.NodeBox(n, s.cfg)
				v.Rev++
			}
		}
	}
	for _, id := range ch.UpdatedEdges {
		if e, ok := g.Edge(id); ok {
			if v, ok := s.edges[id]; ok {
				v.Text = PercentLabel(e.Percentage)
				v.Rev++
			}
		}
	}
	for _, u := range ch.Edges {
		if v, ok := s.edges[u.ID]; ok && !slices.Contains(ch.AddedEdges, u.ID) {
			v.Path, v.Label = u.Path, u.Label
			v.Rev++
		}
	}
	if ch.SelectionChanged {
		s.applySelection(ch.Selection)
	}
}

func (s *Scene) addNode(n diagram.Node) {
	s.nodes[n.ID] = &NodeView{
		ID:      n.ID,
		Kind:    n.Kind,
		Box:     layout.NodeBox(n, s.cfg),
		Icon:    Icon(n),
		Title:   Truncate(n.Name, TitleMaxLen),
		Details: Details(n),
	}
	s.nodeOrder = append(s.nodeOrder, n.ID)
}

func (s *Scene) addEdge(g *diagram.Graph, e diagram.Edge) {
	v := &EdgeView{ID: e.ID, Source: e.Source, Target: e.Target, Text: PercentLabel(e.Percentage)}
	if geo, ok := layout.Geometry(g, e.ID, s.cfg); ok {
		v.Path, v.Label = geo.Path.String(), geo.Label
	}
	s.edges[e.ID] = v
	s.edgeOrder = append(s.edgeOrder, e.ID)
}

func (s *Scene) removeNode(id string) {
	if _, ok := s.nodes[id]; !ok {
		return
	}
	delete(s.nodes, id)
	s.nodeOrder = slices.DeleteFunc(s.nodeOrder, func(x string) bool { return x == id })
}

func (s *Scene) removeEdge(id string) {
	if _, ok := s.edges[id]; !ok {
		return
	}
	delete(s.edges, id)
	s.edgeOrder = slices.DeleteFunc(s.edgeOrder, func(x string) bool { return x == id })
}

func (s *Scene) applySelection(sel *interact.Selection) {
	s.mark(s.selected, false)
	s.selected = sel
	s.mark(sel, true)
}

func (s *Scene) mark(sel *interact.Selection, on bool) {
	if sel == nil {
		return
	}
	switch sel.Kind {
	case interact.SelectNode:
		if v, ok := s.nodes[sel.ID]; ok {
			v.Selected = on
		}
	case interact.SelectEdge:
		if v, ok := s.edges[sel.ID]; ok {
			v.Selected = on
		}
	}
}
