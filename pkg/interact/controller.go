package interact

import (
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/organogram/pkg/diagram"
	orgerrors "github.com/matzehuels/organogram/pkg/errors"
	"github.com/matzehuels/organogram/pkg/layout"
	"github.com/matzehuels/organogram/pkg/observability"
	"github.com/matzehuels/organogram/pkg/snapshot"
	"github.com/matzehuels/organogram/pkg/viewport"
)

// Controller turns editor events into graph mutations. Construct one per
// editor with [New] and hand it to the bindings.
type Controller struct {
	graph  *diagram.Graph
	cfg    layout.Config
	logger *log.Logger

	view     viewport.Transform
	width    float64
	height   float64
	sel      *Selection
	dragging bool
	dragNode string

	newID func() string
}

// New creates a controller editing g. A nil logger uses log.Default().
func New(g *diagram.Graph, cfg layout.Config, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.Default()
	}
	return &Controller{
		graph:  g,
		cfg:    cfg.WithDefaults(),
		logger: logger,
		view:   viewport.Identity(),
		newID:  uuid.NewString,
	}
}

// Graph returns the store the controller edits.
func (c *Controller) Graph() *diagram.Graph { return c.graph }

// Config returns the layout configuration.
func (c *Controller) Config() layout.Config { return c.cfg }

// Viewport returns the current pan/zoom transform.
func (c *Controller) Viewport() viewport.Transform { return c.view }

// Selected returns the current selection, if any.
func (c *Controller) Selected() (Selection, bool) {
	if c.sel == nil {
		return Selection{}, false
	}
	return *c.sel, true
}

// Dragging reports whether a node drag is in progress.
func (c *Controller) Dragging() bool { return c.dragging }

// HandleEvent applies ev and reports what must be redrawn. Rejected events
// return a coded error and leave the graph unchanged.
func (c *Controller) HandleEvent(ev Event) (Change, error) {
	start := time.Now()
	ch, err := c.dispatch(ev)
	observability.Engine().OnEvent(string(ev.Kind), time.Since(start), err)
	if err != nil {
		c.logger.Warn("event rejected", "kind", ev.Kind, "err", err)
		return Change{}, err
	}
	return ch, nil
}

func (c *Controller) dispatch(ev Event) (Change, error) {
	switch ev.Kind {
	case DragStart:
		return c.dragStart(ev.NodeID)
	case DragMove:
		return c.dragMove(ev.NodeID, ev.X, ev.Y)
	case DragEnd:
		return c.dragEnd(), nil
	case ClickNode:
		return c.clickNode(ev.NodeID)
	case ClickEdge:
		return c.clickEdge(ev.EdgeID)
	case ClickCanvas:
		if c.dragging {
			return Change{}, nil
		}
		return c.selectNone(), nil
	case Escape:
		return c.selectNone(), nil
	case Drop:
		return c.drop(ev)
	case AddItem:
		return c.addItem(ev.Item)
	case AddNode:
		return c.addNode(ev.Node)
	case Connect:
		return c.connect(ev.Edge)
	case UpdateEdge:
		return c.updateEdge(ev.Edge)
	case Delete:
		return c.deleteSelected(), nil
	case DeleteNode:
		return c.deleteNode(ev.NodeID)
	case DeleteEdge:
		return c.deleteEdge(ev.EdgeID)
	case AutoLayout:
		return c.autoLayout(), nil
	case Clear:
		return c.clear(), nil
	case ZoomIn:
		return c.zoom(viewport.ZoomStep), nil
	case ZoomOut:
		return c.zoom(1 / viewport.ZoomStep), nil
	case Pan:
		c.view = c.view.Pan(ev.X, ev.Y)
		return Change{Viewport: true}, nil
	case FitToScreen:
		return c.fit(), nil
	case Resize:
		return c.resize(ev.Width, ev.Height)
	case Key:
		return c.key(ev.Key), nil
	}
	return Change{}, orgerrors.New(orgerrors.ErrCodeInvalidEvent, "unknown event kind %q", ev.Kind)
}

// Load inserts a snapshot into the store, clears transient state and, when
// the snapshot has nodes, applies auto layout the way the editor does on
// startup.
func (c *Controller) Load(s snapshot.Snapshot) (Change, snapshot.LoadResult) {
	res := snapshot.Load(c.graph, s, c.logger)
	c.sel, c.dragging, c.dragNode = nil, false, ""
	ch := Change{Full: true, SelectionChanged: true}
	if res.Nodes > 0 {
		ch.Viewport = c.autoLayout().Viewport
	}
	return ch, res
}

// =============================================================================
// Drag and selection
// =============================================================================

func (c *Controller) dragStart(id string) (Change, error) {
	if !c.graph.HasNode(id) {
		return Change{}, orgerrors.Wrap(orgerrors.ErrCodeNotFound, diagram.ErrUnknownNode, "drag %s", id)
	}
	c.dragging, c.dragNode = true, id
	return c.selectItem(SelectNode, id), nil
}

func (c *Controller) dragMove(id string, x, y float64) (Change, error) {
	if !c.dragging || id != c.dragNode {
		return Change{}, orgerrors.New(orgerrors.ErrCodeInvalidEvent, "drag move for %s without drag start", id)
	}
	if err := c.graph.MoveNode(id, x, y); err != nil {
		c.dragging, c.dragNode = false, ""
		return Change{}, orgerrors.Wrap(orgerrors.ErrCodeNotFound, err, "drag %s", id)
	}
	return Change{Moved: []string{id}, Edges: c.incidentGeometry(id)}, nil
}

func (c *Controller) dragEnd() Change {
	c.dragging, c.dragNode = false, ""
	return Change{}
}

func (c *Controller) clickNode(id string) (Change, error) {
	if c.dragging {
		return Change{}, nil
	}
	if !c.graph.HasNode(id) {
		return Change{}, orgerrors.Wrap(orgerrors.ErrCodeNotFound, diagram.ErrUnknownNode, "select %s", id)
	}
	return c.selectItem(SelectNode, id), nil
}

func (c *Controller) clickEdge(id string) (Change, error) {
	if c.dragging {
		return Change{}, nil
	}
	if !c.graph.HasEdge(id) {
		return Change{}, orgerrors.Wrap(orgerrors.ErrCodeNotFound, diagram.ErrUnknownEdge, "select %s", id)
	}
	return c.selectItem(SelectEdge, id), nil
}

func (c *Controller) selectItem(kind SelectionKind, id string) Change {
	next := Selection{Kind: kind, ID: id}
	changed := c.sel == nil || *c.sel != next
	c.sel = &next
	return Change{Selection: &next, SelectionChanged: changed}
}

func (c *Controller) selectNone() Change {
	if c.sel == nil {
		return Change{}
	}
	c.sel = nil
	return Change{SelectionChanged: true}
}

// =============================================================================
// Creation
// =============================================================================

func (c *Controller) drop(ev Event) (Change, error) {
	item, err := ParsePaletteItem(ev.Payload)
	if err != nil {
		return Change{}, err
	}
	pos := c.view.ToGraph(layout.Point{X: ev.X, Y: ev.Y}, ev.Origin)
	return c.insertNode(item.Node(pos))
}

func (c *Controller) addItem(item *PaletteItem) (Change, error) {
	if item == nil {
		return Change{}, orgerrors.New(orgerrors.ErrCodeInvalidInput, "add item without palette item")
	}
	if err := item.validate(); err != nil {
		return Change{}, err
	}
	center := layout.Point{X: c.width / 2, Y: c.height / 2}
	pos := c.view.ToGraph(center, layout.Point{})
	return c.insertNode(item.Node(pos))
}

func (c *Controller) addNode(rec *snapshot.NodeRecord) (Change, error) {
	if rec == nil {
		return Change{}, orgerrors.New(orgerrors.ErrCodeInvalidInput, "add node without node record")
	}
	n := snapshot.NodeFromRecord(*rec)
	if n.ID == "" {
		n.ID = c.newID()
	}
	if !n.Kind.Valid() {
		return Change{}, orgerrors.New(orgerrors.ErrCodeInvalidInput, "unknown node type %q", n.Kind)
	}
	return c.insertNode(n)
}

func (c *Controller) insertNode(n diagram.Node) (Change, error) {
	if err := c.graph.AddNode(n); err != nil {
		return Change{}, orgerrors.Wrap(orgerrors.ErrCodeReferential, err, "add node %s", n.ID)
	}
	return Change{AddedNodes: []string{n.ID}}, nil
}

func (c *Controller) connect(rec *snapshot.EdgeRecord) (Change, error) {
	if rec == nil {
		return Change{}, orgerrors.New(orgerrors.ErrCodeInvalidInput, "connect without edge record")
	}
	id, err := c.graph.AddEdge(snapshot.EdgeFromRecord(*rec))
	if err != nil {
		return Change{}, orgerrors.Wrap(orgerrors.ErrCodeReferential, err, "connect %s to %s", rec.Source, rec.Target)
	}
	return Change{AddedEdges: []string{id}, Edges: c.geometry(id)}, nil
}

func (c *Controller) updateEdge(rec *snapshot.EdgeRecord) (Change, error) {
	if rec == nil || rec.ID == "" {
		return Change{}, orgerrors.New(orgerrors.ErrCodeInvalidInput, "update edge without edge id")
	}
	e := snapshot.EdgeFromRecord(*rec)
	props := diagram.EdgeProps{
		Percentage:    e.Percentage,
		Shares:        e.Shares,
		CorporateName: e.CorporateName,
		HashNumber:    e.HashNumber,
		ShareValueUSD: e.ShareValueUSD,
		ShareValueEUR: e.ShareValueEUR,
	}
	if err := c.graph.UpdateEdge(rec.ID, props); err != nil {
		return Change{}, orgerrors.Wrap(orgerrors.ErrCodeNotFound, err, "update edge %s", rec.ID)
	}
	return Change{UpdatedEdges: []string{rec.ID}, Edges: c.geometry(rec.ID)}, nil
}

// =============================================================================
// Deletion
// =============================================================================

func (c *Controller) deleteSelected() Change {
	if c.sel == nil {
		return Change{}
	}
	var (
		ch  Change
		err error
	)
	switch c.sel.Kind {
	case SelectNode:
		ch, err = c.deleteNode(c.sel.ID)
	case SelectEdge:
		ch, err = c.deleteEdge(c.sel.ID)
	}
	if err != nil {
		// The selection pointed at something already gone.
		return c.selectNone()
	}
	return ch
}

func (c *Controller) deleteNode(id string) (Change, error) {
	if !c.graph.HasNode(id) {
		return Change{}, orgerrors.Wrap(orgerrors.ErrCodeNotFound, diagram.ErrUnknownNode, "delete %s", id)
	}
	removed := c.graph.RemoveNode(id)
	if c.dragNode == id {
		c.dragging, c.dragNode = false, ""
	}
	ch := Change{RemovedNodes: []string{id}, RemovedEdges: removed}
	if c.sel != nil && (c.sel.ID == id || (c.sel.Kind == SelectEdge && !c.graph.HasEdge(c.sel.ID))) {
		c.sel = nil
		ch.SelectionChanged = true
	}
	return ch, nil
}

func (c *Controller) deleteEdge(id string) (Change, error) {
	if !c.graph.RemoveEdge(id) {
		return Change{}, orgerrors.Wrap(orgerrors.ErrCodeNotFound, diagram.ErrUnknownEdge, "delete %s", id)
	}
	ch := Change{RemovedEdges: []string{id}}
	if c.sel != nil && c.sel.Kind == SelectEdge && c.sel.ID == id {
		c.sel = nil
		ch.SelectionChanged = true
	}
	return ch, nil
}

func (c *Controller) clear() Change {
	c.graph.Clear()
	c.sel, c.dragging, c.dragNode = nil, false, ""
	return Change{Full: true, SelectionChanged: true}
}

// =============================================================================
// Layout and view
// =============================================================================

func (c *Controller) autoLayout() Change {
	if c.graph.NodeCount() == 0 {
		return Change{}
	}
	start := time.Now()
	res := layout.Apply(c.graph, c.cfg)
	observability.Engine().OnLayout(c.graph.NodeCount(), len(res.Levels), time.Since(start))

	ch := Change{Full: true, Moved: c.graph.NodeIDs()}
	if fit := c.fit(); fit.Viewport {
		ch.Viewport = true
	}
	return ch
}

func (c *Controller) zoom(factor float64) Change {
	center := layout.Point{X: c.width / 2, Y: c.height / 2}
	next := c.view.ZoomBy(factor, center)
	if next == c.view {
		return Change{}
	}
	c.view = next
	return Change{Viewport: true}
}

func (c *Controller) fit() Change {
	if c.width <= 0 || c.height <= 0 {
		return Change{}
	}
	bounds, ok := layout.Bounds(c.graph, c.cfg)
	if !ok {
		return Change{}
	}
	c.view = viewport.Fit(bounds, c.width, c.height)
	return Change{Viewport: true}
}

func (c *Controller) resize(w, h float64) (Change, error) {
	if w < 0 || h < 0 {
		return Change{}, orgerrors.New(orgerrors.ErrCodeInvalidInput, "negative canvas size %gx%g", w, h)
	}
	c.width, c.height = w, h
	return Change{}, nil
}

// SetViewport replaces the transform, as a binding does after a wheel zoom.
// The scale is clamped to the zoom limits.
func (c *Controller) SetViewport(t viewport.Transform) {
	k := max(viewport.MinScale, min(viewport.MaxScale, t.K))
	c.view = viewport.Transform{X: t.X, Y: t.Y, K: k}
}

// =============================================================================
// Keyboard
// =============================================================================

func (c *Controller) key(k string) Change {
	switch normalizeKey(k) {
	case "ctrl+s":
		return Change{SaveRequested: true}
	case "ctrl+a":
		return c.autoLayout()
	case "delete":
		return c.deleteSelected()
	case "escape":
		return c.selectNone()
	}
	return Change{}
}

// =============================================================================
// Geometry
// =============================================================================

func (c *Controller) geometry(ids ...string) []EdgeUpdate {
	out := make([]EdgeUpdate, 0, len(ids))
	for _, id := range ids {
		if g, ok := layout.Geometry(c.graph, id, c.cfg); ok {
			out = append(out, edgeUpdate(g))
		}
	}
	return out
}

func (c *Controller) incidentGeometry(nodeID string) []EdgeUpdate {
	return c.geometry(c.graph.IncidentEdges(nodeID)...)
}

// AllGeometry returns connector geometry for every edge, for a full redraw.
func (c *Controller) AllGeometry() []EdgeUpdate {
	edges := c.graph.Edges()
	ids := make([]string, len(edges))
	for i, e := range edges {
		ids[i] = e.ID
	}
	return c.geometry(ids...)
}

// IsRejection reports whether err is one of the rejections HandleEvent logs
// and skips, as opposed to a programming error in the binding.
func IsRejection(err error) bool {
	var e *orgerrors.Error
	if !errors.As(err, &e) {
		return false
	}
	switch e.Code {
	case orgerrors.ErrCodeReferential, orgerrors.ErrCodeInvalidInput, orgerrors.ErrCodeNotFound:
		return true
	}
	return false
}
