package cli

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/organogram/pkg/api"
	"github.com/matzehuels/organogram/pkg/diagram"
	"github.com/matzehuels/organogram/pkg/drafts"
	orgerrors "github.com/matzehuels/organogram/pkg/errors"
	"github.com/matzehuels/organogram/pkg/interact"
	"github.com/matzehuels/organogram/pkg/render"
	"github.com/matzehuels/organogram/pkg/snapshot"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	paneStyle         = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
)

// Terminal cells are mapped onto a canvas of this many pixels per cell.
const (
	cellWidth  = 10
	cellHeight = 20

	// nudge is how far one shift+arrow press drags the selected node.
	nudge = 20.0
)

type editorPane int

const (
	paneNodes editorPane = iota
	paneEdges
)

// =============================================================================
// EditorModel - terminal organogram editor
// =============================================================================

// EditorModel is the bubbletea model of `organogram edit`. Every key press is
// translated into an interact.Event, and the resulting change is applied to
// a render.Scene that the view is drawn from.
type EditorModel struct {
	ctx         context.Context
	ctrl        *interact.Controller
	scene       *render.Scene
	client      *api.Client // nil disables ctrl+s
	drafts      *draftWriter
	structureID string
	draftTTL    time.Duration
	rev         uint64 // bumped by every graph mutation

	pane   editorPane
	cursor int
	height int

	status    string
	statusErr bool
	dirty     bool
	Quit      bool
}

// NewEditorModel wraps ctrl. The scene is synced from the controller's graph.
func NewEditorModel(ctx context.Context, ctrl *interact.Controller, client *api.Client, store drafts.Store, structureID string, ttl time.Duration) *EditorModel {
	if store == nil {
		store = drafts.NullStore{}
	}
	scene := render.NewScene(ctrl.Config())
	scene.Sync(ctrl.Graph())
	return &EditorModel{
		ctx:         ctx,
		ctrl:        ctrl,
		scene:       scene,
		client:      client,
		drafts:      &draftWriter{store: store},
		structureID: structureID,
		draftTTL:    ttl,
		height:      15,
	}
}

type saveDoneMsg struct {
	rev     uint64 // graph revision the request was built from
	message string
	err     error
}

type draftSavedMsg struct{ err error }

func (m *EditorModel) Init() tea.Cmd { return nil }

func (m *EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = max(5, msg.Height-12)
		return m, m.send(interact.Event{Kind: interact.Resize, Width: float64(msg.Width * cellWidth), Height: float64(msg.Height * cellHeight)})

	case saveDoneMsg:
		if msg.err != nil {
			m.setError(orgerrors.UserMessage(msg.err))
			return m, nil
		}
		m.setStatus(msg.message)
		if msg.rev != m.rev {
			// Edited while the request was in flight; the draft holds those edits.
			return m, nil
		}
		m.dirty = false
		return m, m.discardDraft(msg.rev)

	case draftSavedMsg:
		if msg.err != nil {
			m.setError("autosave failed: " + orgerrors.UserMessage(msg.err))
		}
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg.String())
	}
	return m, nil
}

func (m *EditorModel) handleKey(key string) tea.Cmd {
	switch key {
	case "q", "ctrl+c":
		m.Quit = true
		return tea.Quit
	case "tab":
		m.pane = 1 - m.pane
		m.cursor = 0
		return nil
	case "up", "k":
		return m.moveCursor(-1)
	case "down", "j":
		return m.moveCursor(1)
	case "enter", " ":
		return m.selectCursor()
	case "shift+up":
		return m.drag(0, -nudge)
	case "shift+down":
		return m.drag(0, nudge)
	case "shift+left":
		return m.drag(-nudge, 0)
	case "shift+right":
		return m.drag(nudge, 0)
	case "l":
		return m.send(interact.Event{Kind: interact.AutoLayout})
	case "f":
		return m.send(interact.Event{Kind: interact.FitToScreen})
	case "+", "=":
		return m.send(interact.Event{Kind: interact.ZoomIn})
	case "-":
		return m.send(interact.Event{Kind: interact.ZoomOut})
	case "e":
		return m.send(interact.Event{Kind: interact.AddNode, Node: &snapshot.NodeRecord{Type: string(diagram.KindEntity), Name: "New entity"}})
	case "p":
		return m.send(interact.Event{Kind: interact.AddNode, Node: &snapshot.NodeRecord{Type: string(diagram.KindParty), Name: "New party"}})
	case "x":
		return m.send(interact.Event{Kind: interact.Key, Key: "delete"})
	case "backspace", "delete", "esc", "ctrl+s", "ctrl+a":
		return m.send(interact.Event{Kind: interact.Key, Key: key})
	}
	return nil
}

// send runs ev through the controller and returns any follow-up command.
func (m *EditorModel) send(ev interact.Event) tea.Cmd {
	ch, err := m.ctrl.HandleEvent(ev)
	if err != nil {
		m.setError(orgerrors.UserMessage(err))
		return nil
	}
	m.scene.Apply(m.ctrl.Graph(), ch)
	m.clampCursor()

	var cmds []tea.Cmd
	if ch.Mutates() {
		m.rev++
		m.dirty = true
		cmds = append(cmds, m.autosave())
	}
	if ch.SaveRequested {
		cmds = append(cmds, m.save())
	}
	return tea.Batch(cmds...)
}

func (m *EditorModel) moveCursor(delta int) tea.Cmd {
	n := m.rows()
	if n == 0 {
		return nil
	}
	m.cursor = max(0, min(n-1, m.cursor+delta))
	return m.selectCursor()
}

func (m *EditorModel) selectCursor() tea.Cmd {
	if m.pane == paneNodes {
		nodes := m.scene.Nodes()
		if m.cursor < len(nodes) {
			return m.send(interact.Event{Kind: interact.ClickNode, NodeID: nodes[m.cursor].ID})
		}
		return nil
	}
	edges := m.scene.Edges()
	if m.cursor < len(edges) {
		return m.send(interact.Event{Kind: interact.ClickEdge, EdgeID: edges[m.cursor].ID})
	}
	return nil
}

// drag moves the selected node the way a pointer drag would.
func (m *EditorModel) drag(dx, dy float64) tea.Cmd {
	sel, ok := m.ctrl.Selected()
	if !ok || sel.Kind != interact.SelectNode {
		m.setError("select a node to move it")
		return nil
	}
	n, ok := m.ctrl.Graph().Node(sel.ID)
	if !ok {
		return nil
	}
	return tea.Batch(
		m.send(interact.Event{Kind: interact.DragStart, NodeID: sel.ID}),
		m.send(interact.Event{Kind: interact.DragMove, NodeID: sel.ID, X: n.X + dx, Y: n.Y + dy}),
		m.send(interact.Event{Kind: interact.DragEnd}),
	)
}

func (m *EditorModel) autosave() tea.Cmd {
	if m.structureID == "" {
		return nil
	}
	d := drafts.NewDraft(m.structureID, snapshot.FromGraph(m.ctrl.Graph()), m.draftTTL)
	w, ctx, rev := m.drafts, m.ctx, m.rev
	return func() tea.Msg {
		return draftSavedMsg{err: w.put(ctx, d, rev)}
	}
}

func (m *EditorModel) discardDraft(rev uint64) tea.Cmd {
	if m.structureID == "" {
		return nil
	}
	w, ctx, id := m.drafts, m.ctx, m.structureID
	return func() tea.Msg {
		return draftSavedMsg{err: w.discard(ctx, id, rev)}
	}
}

// save submits the graph as it is now. Every ctrl+s sends its own request.
func (m *EditorModel) save() tea.Cmd {
	if m.client == nil {
		m.setError("no structure API configured")
		return nil
	}
	m.setStatus("Saving...")
	req := snapshot.NewSaveRequest(m.structureID, m.ctrl.Graph())
	client, ctx, rev := m.client, m.ctx, m.rev
	return func() tea.Msg {
		resp, err := client.Submit(ctx, req)
		if err != nil {
			return saveDoneMsg{rev: rev, err: err}
		}
		msg := resp.Message
		if msg == "" {
			msg = "Organogram saved"
		}
		return saveDoneMsg{rev: rev, message: msg}
	}
}

// draftWriter orders the editor's draft writes, which run as concurrent
// commands. A write or discard older than the last one applied is dropped.
type draftWriter struct {
	mu    sync.Mutex
	store drafts.Store
	rev   uint64
}

func (w *draftWriter) put(ctx context.Context, d *drafts.Draft, rev uint64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if rev <= w.rev {
		return nil
	}
	if err := w.store.Put(ctx, d); err != nil {
		return err
	}
	w.rev = rev
	return nil
}

func (w *draftWriter) discard(ctx context.Context, structureID string, rev uint64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if rev < w.rev {
		return nil
	}
	if err := w.store.Delete(ctx, structureID); err != nil {
		return err
	}
	w.rev = rev
	return nil
}

func (m *EditorModel) rows() int {
	if m.pane == paneNodes {
		return len(m.scene.Nodes())
	}
	return len(m.scene.Edges())
}

func (m *EditorModel) clampCursor() {
	if n := m.rows(); m.cursor >= n {
		m.cursor = max(0, n-1)
	}
}

func (m *EditorModel) setStatus(s string) { m.status, m.statusErr = s, false }
func (m *EditorModel) setError(s string)  { m.status, m.statusErr = s, true }

// Graph returns the edited graph, for writing out after the program exits.
func (m *EditorModel) Graph() *diagram.Graph { return m.ctrl.Graph() }

// Dirty reports whether there are edits not yet saved to the API.
func (m *EditorModel) Dirty() bool { return m.dirty }

// =============================================================================
// View
// =============================================================================

func (m *EditorModel) View() string {
	var b strings.Builder

	title := "Organogram"
	if m.structureID != "" {
		title += " · structure " + m.structureID
	}
	if m.dirty {
		title += " *"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ select  shift+arrows move  tab nodes/edges  l layout  e/p add  x delete  ctrl+s save  q quit"))
	b.WriteString("\n\n")

	nodes := paneStyle.Render(m.nodeList())
	edges := paneStyle.Render(m.edgeList())
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, nodes, " ", edges))
	b.WriteString("\n")

	view := m.ctrl.Viewport()
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  zoom %.0f%%  pan %.0f,%.0f  %d nodes  %d edges",
		view.K*100, view.X, view.Y, m.ctrl.Graph().NodeCount(), m.ctrl.Graph().EdgeCount())))
	b.WriteString("\n")

	if m.status != "" {
		if m.statusErr {
			b.WriteString(styleIconError.Render(iconError) + " " + StyleError.Render(m.status))
		} else {
			b.WriteString(styleIconSuccess.Render(iconSuccess) + " " + m.status)
		}
	}
	return b.String()
}

func (m *EditorModel) nodeList() string {
	var b strings.Builder
	header := "Nodes"
	if m.pane == paneNodes {
		header = StyleTitle.Render(header)
	}
	b.WriteString(header + "\n")

	nodes := m.scene.Nodes()
	if len(nodes) == 0 {
		b.WriteString(listDimStyle.Render("empty, press e or p to add"))
		return b.String()
	}
	start, end := window(len(nodes), m.cursor, m.height)
	for i := start; i < end; i++ {
		n := nodes[i]
		kind := styleEntity.Render("entity")
		if n.Kind == diagram.KindParty {
			kind = styleParty.Render("party ")
		}
		line := fmt.Sprintf("%s %-18s %s %s", n.Icon, n.Title, kind,
			listDimStyle.Render(fmt.Sprintf("(%.0f, %.0f) %s", n.Box.Left, n.Box.Top, n.Details)))
		b.WriteString(m.row(i, paneNodes, n.Selected, line))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *EditorModel) edgeList() string {
	var b strings.Builder
	header := "Ownership"
	if m.pane == paneEdges {
		header = StyleTitle.Render(header)
	}
	b.WriteString(header + "\n")

	edges := m.scene.Edges()
	if len(edges) == 0 {
		b.WriteString(listDimStyle.Render("no connections"))
		return b.String()
	}
	start, end := window(len(edges), m.cursor, m.height)
	for i := start; i < end; i++ {
		e := edges[i]
		line := fmt.Sprintf("%s %s %s %s", m.nodeTitle(e.Source), iconArrow, m.nodeTitle(e.Target), StyleValue.Render(e.Text))
		b.WriteString(m.row(i, paneEdges, e.Selected, line))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *EditorModel) row(i int, pane editorPane, selected bool, line string) string {
	cursor := "  "
	if m.pane == pane && i == m.cursor {
		cursor = "▸ "
	}
	if selected {
		return listSelectedStyle.Render(cursor+line) + "\n"
	}
	return listNormalStyle.Render(cursor+line) + "\n"
}

func (m *EditorModel) nodeTitle(id string) string {
	if n, ok := m.scene.Node(id); ok {
		return n.Title
	}
	return id
}

// window returns the visible [start, end) slice of n rows keeping cursor in view.
func window(n, cursor, height int) (int, int) {
	if n <= height {
		return 0, n
	}
	start := max(0, cursor-height+1)
	return start, min(n, start+height)
}

// =============================================================================
// Helpers
// =============================================================================

func formatRelativeTime(t time.Time) string {
	diff := time.Since(t)
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Local().Format("Jan 2, 2006")
	}
}
