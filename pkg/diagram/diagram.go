package diagram

import (
	"cmp"
	"errors"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists. The existing node is left untouched.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrDuplicateEdgeID is returned by [Graph.AddEdge] when an edge with the
	// same (given or derived) ID already exists. Collisions are rejected, not upserted.
	ErrDuplicateEdgeID = errors.New("duplicate edge ID")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the Source node
	// does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the Target node
	// does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrUnknownNode is returned by mutators addressing a node that is not in the graph.
	ErrUnknownNode = errors.New("unknown node")

	// ErrUnknownEdge is returned by mutators addressing an edge that is not in the graph.
	ErrUnknownEdge = errors.New("unknown edge")
)

// Kind distinguishes the two kinds of organogram participant.
type Kind string

const (
	// KindEntity is a legal entity (company, trust, fund, foundation).
	KindEntity Kind = "entity"
	// KindParty is a natural person or external owner.
	KindParty Kind = "party"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool { return k == KindEntity || k == KindParty }

// Node is an entity or party placed on the diagram.
//
// Entity-only attributes are EntityType, Jurisdiction and TotalShares;
// Nationality applies to parties. The zero value is not usable - ID must be set.
type Node struct {
	ID    string
	Kind  Kind
	Name  string
	X, Y  float64
	Level int // Hierarchy level assigned by auto layout (0 = top)

	EntityType   string
	Jurisdiction string
	TotalShares  int64 // 0 when unknown
	Nationality  string
}

// Edge is a directed ownership link: Source owns Percentage of Target.
// Percentage is not capped at 100 at this layer.
type Edge struct {
	ID         string
	Source     string
	Target     string
	Percentage float64

	Shares        *int64
	CorporateName string
	HashNumber    string
	ShareValueUSD *float64
	ShareValueEUR *float64
}

// EdgeID derives the identifier used when an edge is added without one.
func EdgeID(source, target string) string { return source + "_" + target }

// EdgeProps holds the editable properties of an ownership connection.
// It mirrors the connection property form; endpoints are not editable.
type EdgeProps struct {
	Percentage    float64
	Shares        *int64
	CorporateName string
	HashNumber    string
	ShareValueUSD *float64
	ShareValueEUR *float64
}

// Graph is the in-memory store of organogram nodes and ownership edges.
//
// Nodes and edges are keyed by ID and iterated in insertion order, which the
// layout relies on for deterministic root and discovery ordering. The store
// enforces referential integrity: no edge ever references a missing node.
// Cycles are allowed.
//
// The zero value is not usable - use New. Graph is not safe for concurrent use.
type Graph struct {
	nodes     map[string]*Node
	edges     map[string]*Edge
	nodeOrder []string
	edgeOrder []string
	outgoing  map[string][]string // node ID -> edge IDs with Source == node, insertion order
	incoming  map[string][]string // node ID -> edge IDs with Target == node, insertion order
	edgeSeq   map[string]uint64   // edge ID -> insertion sequence
	nextSeq   uint64
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:    make(map[string]*Node),
		edges:    make(map[string]*Edge),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
		edgeSeq:  make(map[string]uint64),
	}
}

// AddNode inserts a node at its given position with level 0.
// Returns ErrInvalidNodeID for an empty ID or ErrDuplicateNodeID if the ID is
// taken; in both cases the graph is unchanged.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	n.Level = 0
	g.nodes[n.ID] = &n
	g.nodeOrder = append(g.nodeOrder, n.ID)
	return nil
}

// AddEdge inserts an ownership edge and returns its ID.
// An empty ID is derived with [EdgeID]. Returns ErrUnknownSourceNode or
// ErrUnknownTargetNode if an endpoint is missing, or ErrDuplicateEdgeID if the
// ID is taken; in all cases the graph is unchanged.
func (g *Graph) AddEdge(e Edge) (string, error) {
	if e.ID == "" {
		e.ID = EdgeID(e.Source, e.Target)
	}
	if _, exists := g.edges[e.ID]; exists {
		return "", ErrDuplicateEdgeID
	}
	if _, ok := g.nodes[e.Source]; !ok {
		return "", ErrUnknownSourceNode
	}
	if _, ok := g.nodes[e.Target]; !ok {
		return "", ErrUnknownTargetNode
	}
	g.edges[e.ID] = &e
	g.edgeOrder = append(g.edgeOrder, e.ID)
	g.edgeSeq[e.ID] = g.nextSeq
	g.nextSeq++
	g.outgoing[e.Source] = append(g.outgoing[e.Source], e.ID)
	g.incoming[e.Target] = append(g.incoming[e.Target], e.ID)
	return e.ID, nil
}

// RemoveNode removes the node and every edge whose Source or Target is id.
// It returns the IDs of the removed edges in insertion order, or nil if the
// node does not exist.
func (g *Graph) RemoveNode(id string) []string {
	if _, ok := g.nodes[id]; !ok {
		return nil
	}
	removed := g.IncidentEdges(id)
	for _, eid := range removed {
		g.RemoveEdge(eid)
	}
	delete(g.nodes, id)
	delete(g.outgoing, id)
	delete(g.incoming, id)
	g.nodeOrder = slices.DeleteFunc(g.nodeOrder, func(s string) bool { return s == id })
	return removed
}

// RemoveEdge removes a single edge. It reports whether the edge existed.
func (g *Graph) RemoveEdge(id string) bool {
	e, ok := g.edges[id]
	if !ok {
		return false
	}
	delete(g.edges, id)
	delete(g.edgeSeq, id)
	match := func(s string) bool { return s == id }
	g.edgeOrder = slices.DeleteFunc(g.edgeOrder, match)
	g.outgoing[e.Source] = slices.DeleteFunc(g.outgoing[e.Source], match)
	g.incoming[e.Target] = slices.DeleteFunc(g.incoming[e.Target], match)
	return true
}

// Clear empties the graph.
func (g *Graph) Clear() {
	*g = *New()
}

// Node returns a copy of the node with the given ID.
func (g *Graph) Node(id string) (Node, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

// Edge returns a copy of the edge with the given ID.
func (g *Graph) Edge(id string) (Edge, bool) {
	e, ok := g.edges[id]
	if !ok {
		return Edge{}, false
	}
	return *e, true
}

// HasNode reports whether a node with the given ID exists.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// HasEdge reports whether an edge with the given ID exists.
func (g *Graph) HasEdge(id string) bool {
	_, ok := g.edges[id]
	return ok
}

// Nodes returns copies of all nodes in insertion order.
func (g *Graph) Nodes() []Node {
	out := make([]Node, len(g.nodeOrder))
	for i, id := range g.nodeOrder {
		out[i] = *g.nodes[id]
	}
	return out
}

// Edges returns copies of all edges in insertion order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edgeOrder))
	for i, id := range g.edgeOrder {
		out[i] = *g.edges[id]
	}
	return out
}

// NodeIDs returns all node IDs in insertion order.
func (g *Graph) NodeIDs() []string { return slices.Clone(g.nodeOrder) }

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// OutEdges returns the IDs of edges leaving the node, in edge insertion order.
// The returned slice should not be modified.
func (g *Graph) OutEdges(id string) []string { return g.outgoing[id] }

// InEdges returns the IDs of edges entering the node, in edge insertion order.
// The returned slice should not be modified.
func (g *Graph) InEdges(id string) []string { return g.incoming[id] }

// IncidentEdges returns the IDs of every edge touching the node, in edge
// insertion order. A self-loop is reported once. Runs in O(degree).
func (g *Graph) IncidentEdges(id string) []string {
	out, in := g.outgoing[id], g.incoming[id]
	if len(out) == 0 && len(in) == 0 {
		return nil
	}
	ids := make([]string, 0, len(out)+len(in))
	ids = append(ids, out...)
	for _, eid := range in {
		if !slices.Contains(out, eid) {
			ids = append(ids, eid)
		}
	}
	slices.SortFunc(ids, func(a, b string) int { return cmp.Compare(g.edgeSeq[a], g.edgeSeq[b]) })
	return ids
}

// MoveNode sets the node's position without touching its level.
func (g *Graph) MoveNode(id string, x, y float64) error {
	n, ok := g.nodes[id]
	if !ok {
		return ErrUnknownNode
	}
	n.X, n.Y = x, y
	return nil
}

// SetPlacement sets level and position together, as auto layout does.
func (g *Graph) SetPlacement(id string, level int, x, y float64) error {
	n, ok := g.nodes[id]
	if !ok {
		return ErrUnknownNode
	}
	n.Level, n.X, n.Y = level, x, y
	return nil
}

// UpdateEdge replaces the editable properties of an edge.
func (g *Graph) UpdateEdge(id string, p EdgeProps) error {
	e, ok := g.edges[id]
	if !ok {
		return ErrUnknownEdge
	}
	e.Percentage = p.Percentage
	e.Shares = p.Shares
	e.CorporateName = p.CorporateName
	e.HashNumber = p.HashNumber
	e.ShareValueUSD = p.ShareValueUSD
	e.ShareValueEUR = p.ShareValueEUR
	return nil
}

// Clone returns a deep copy of the graph, preserving insertion order.
func (g *Graph) Clone() *Graph {
	c := New()
	for _, id := range g.nodeOrder {
		n := *g.nodes[id]
		c.nodes[id] = &n
	}
	for _, id := range g.edgeOrder {
		e := *g.edges[id]
		e.Shares = clonePtr(e.Shares)
		e.ShareValueUSD = clonePtr(e.ShareValueUSD)
		e.ShareValueEUR = clonePtr(e.ShareValueEUR)
		c.edges[id] = &e
	}
	c.nodeOrder = slices.Clone(g.nodeOrder)
	c.edgeOrder = slices.Clone(g.edgeOrder)
	for k, v := range g.outgoing {
		c.outgoing[k] = slices.Clone(v)
	}
	for k, v := range g.incoming {
		c.incoming[k] = slices.Clone(v)
	}
	for k, v := range g.edgeSeq {
		c.edgeSeq[k] = v
	}
	c.nextSeq = g.nextSeq
	return c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
