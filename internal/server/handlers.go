package server

import (
	"context"
	"net/http"

	"github.com/matzehuels/organogram/pkg/api"
	"github.com/matzehuels/organogram/pkg/drafts"
	orgerrors "github.com/matzehuels/organogram/pkg/errors"
	"github.com/matzehuels/organogram/pkg/interact"
	"github.com/matzehuels/organogram/pkg/render"
	"github.com/matzehuels/organogram/pkg/snapshot"
	"github.com/matzehuels/organogram/pkg/viewport"
)

// eventResponse is what a canvas needs to redraw after one event.
type eventResponse struct {
	Change   interact.Change       `json:"change"`
	Viewport *viewport.Transform   `json:"viewport,omitempty"`
	Geometry []interact.EdgeUpdate `json:"geometry,omitempty"` // every edge, on full redraws
	Save     *saveResult           `json:"save,omitempty"`
}

// saveResult mirrors the structure API's save response.
type saveResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

type loadResponse struct {
	Nodes   int           `json:"nodes"`
	Edges   int           `json:"edges"`
	Skipped []skippedItem `json:"skipped,omitempty"`
}

type skippedItem struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	var ev interact.Event
	if err := decodeJSON(w, r, &ev); err != nil {
		writeError(w, r, err)
		return
	}
	s.respond(w, r, ev)
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, interact.Event{Kind: interact.AutoLayout})
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, ev interact.Event) {
	resp, next, err := s.apply(ev)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if next.draft != nil {
		s.writeDraft(r.Context(), next.draft, next.rev)
	}
	if next.save != nil {
		res := s.submit(r.Context(), *next.save, next.rev)
		resp.Save = &res
	}
	writeJSON(w, r, http.StatusOK, resp)
}

// followUp is the I/O an event leaves to be done once s.mu is released.
type followUp struct {
	rev   uint64
	draft *drafts.Draft
	save  *snapshot.SaveRequest
}

// apply runs one event through the controller and brings the scene up to
// date. Draft and save snapshots are taken here, at event time.
func (s *Server) apply(ev interact.Event) (eventResponse, followUp, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, err := s.ctrl.HandleEvent(ev)
	if err != nil {
		return eventResponse{}, followUp{}, err
	}
	s.scene.Apply(s.ctrl.Graph(), ch)

	resp := eventResponse{Change: ch}
	if ch.Viewport {
		v := s.ctrl.Viewport()
		resp.Viewport = &v
	}
	if ch.Full {
		resp.Geometry = s.ctrl.AllGeometry()
	}
	if ch.Mutates() {
		s.mutated()
	}

	next := followUp{rev: s.rev}
	// A drag autosaves once, when it ends.
	if s.pending && !s.ctrl.Dragging() {
		next.draft = s.draftLocked()
	}
	if ch.SaveRequested && s.opts.API != nil {
		req := snapshot.NewSaveRequest(s.opts.StructureID, s.ctrl.Graph())
		next.save = &req
	} else if ch.SaveRequested {
		res := failure(errNoAPI())
		resp.Save = &res
	}
	return resp, next, nil
}

// mutated records a graph change. Callers hold s.mu.
func (s *Server) mutated() {
	s.rev++
	s.pending = true
}

// draftLocked snapshots the graph as a draft, or returns nil when drafts are
// disabled. Callers hold s.mu.
func (s *Server) draftLocked() *drafts.Draft {
	s.pending = false
	if s.opts.StructureID == "" {
		return nil
	}
	if _, ok := s.opts.Drafts.(drafts.NullStore); ok {
		return nil
	}
	return drafts.NewDraft(s.opts.StructureID, snapshot.FromGraph(s.ctrl.Graph()), s.opts.DraftTTL)
}

func (s *Server) handleGetGraph(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	snap := snapshot.FromGraph(s.ctrl.Graph())
	s.mu.Unlock()
	writeJSON(w, r, http.StatusOK, snap)
}

func (s *Server) handlePutGraph(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	snap, err := snapshot.Read(r.Body)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.mu.Lock()
	resp := s.replace(snap)
	d, rev := s.draftLocked(), s.rev
	s.mu.Unlock()

	if d != nil {
		s.writeDraft(r.Context(), d, rev)
	}
	writeJSON(w, r, http.StatusOK, resp)
}

// replace clears the editor and loads snap. Callers hold s.mu.
func (s *Server) replace(snap snapshot.Snapshot) loadResponse {
	if _, err := s.ctrl.HandleEvent(interact.Event{Kind: interact.Clear}); err != nil {
		s.logger.Error("clear failed", "err", err)
	}
	ch, res := s.ctrl.Load(snap)
	s.scene.Apply(s.ctrl.Graph(), ch)
	s.mutated()

	resp := loadResponse{Nodes: res.Nodes, Edges: res.Edges}
	for _, sk := range res.Skipped {
		resp.Skipped = append(resp.Skipped, skippedItem{ID: sk.ID, Error: orgerrors.UserMessage(sk.Err)})
	}
	return resp
}

func (s *Server) handleGeometry(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	geo := s.ctrl.AllGeometry()
	s.mu.Unlock()
	writeJSON(w, r, http.StatusOK, geo)
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	svg := render.RenderSVG(s.scene)
	s.mu.Unlock()

	w.Header().Set("Content-Type", "image/svg+xml")
	if _, err := w.Write(svg); err != nil {
		s.logger.Debug("write svg", "err", err)
	}
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if s.opts.API == nil {
		res := failure(errNoAPI())
		writeJSON(w, r, statusFor(orgerrors.Code(res.Code)), res)
		return
	}

	s.mu.Lock()
	req, rev := snapshot.NewSaveRequest(s.opts.StructureID, s.ctrl.Graph()), s.rev
	s.mu.Unlock()

	res := s.submit(r.Context(), req, rev)
	status := http.StatusOK
	if !res.Success {
		status = statusFor(orgerrors.Code(res.Code))
	}
	writeJSON(w, r, status, res)
}

// submit sends a save request snapshotted at rev. Failures leave the graph
// and the draft untouched. On success the draft is discarded only if the
// graph has not changed since the snapshot.
func (s *Server) submit(ctx context.Context, req snapshot.SaveRequest, rev uint64) saveResult {
	resp, err := s.opts.API.Submit(ctx, req)
	if err != nil {
		s.logger.Warn("save failed", "structure", req.StructureID, "err", err)
		return failure(err)
	}
	s.discardDraft(ctx, rev)

	msg := resp.Message
	if msg == "" {
		msg = "Organogram saved successfully"
	}
	return saveResult{Success: true, Message: msg}
}

func errNoAPI() error {
	return orgerrors.New(orgerrors.ErrCodeUnsupported, "no structure API configured")
}

func failure(err error) saveResult {
	return saveResult{Error: orgerrors.UserMessage(err), Code: string(orgerrors.GetCode(err))}
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	if s.opts.API == nil {
		writeError(w, r, errNoAPI())
		return
	}
	res, err := s.opts.API.Validate(r.Context(), s.opts.StructureID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, api.ValidateResponse{Success: true, ValidationResults: &res})
}

func (s *Server) handleGetDraft(w http.ResponseWriter, r *http.Request) {
	d, err := s.opts.Drafts.Get(r.Context(), s.opts.StructureID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, d)
}

func (s *Server) handleRestoreDraft(w http.ResponseWriter, r *http.Request) {
	d, err := s.opts.Drafts.Get(r.Context(), s.opts.StructureID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.mu.Lock()
	resp := s.replace(d.Snapshot)
	s.mu.Unlock()
	writeJSON(w, r, http.StatusOK, resp)
}

func (s *Server) handleDeleteDraft(w http.ResponseWriter, r *http.Request) {
	if err := s.opts.Drafts.Delete(r.Context(), s.opts.StructureID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeDraft stores d, snapshotted at rev, unless a newer draft has already
// been written or discarded. Failures are logged only.
func (s *Server) writeDraft(ctx context.Context, d *drafts.Draft, rev uint64) {
	s.draftMu.Lock()
	defer s.draftMu.Unlock()
	if rev <= s.draftRev {
		return
	}
	if err := s.opts.Drafts.Put(ctx, d); err != nil {
		s.logger.Warn("autosave failed", "structure", d.StructureID, "err", err)
		return
	}
	s.draftRev = rev
}

// discardDraft deletes the draft after a save snapshotted at rev, provided
// no mutation happened since. A later mutation keeps its draft.
func (s *Server) discardDraft(ctx context.Context, rev uint64) {
	s.draftMu.Lock()
	defer s.draftMu.Unlock()

	s.mu.Lock()
	current := s.rev
	s.mu.Unlock()
	if current != rev {
		s.logger.Debug("graph changed during save, keeping draft", "structure", s.opts.StructureID)
		return
	}
	if err := s.opts.Drafts.Delete(ctx, s.opts.StructureID); err != nil {
		s.logger.Warn("failed to discard draft", "structure", s.opts.StructureID, "err", err)
		return
	}
	s.draftRev = max(s.draftRev, rev)
}
