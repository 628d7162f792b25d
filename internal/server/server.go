// Package server binds the organogram engine to HTTP.
//
// A browser canvas posts raw editor events to /events and redraws whatever
// the returned change names. The engine is single-threaded, so every access
// to it is serialized through one mutex. The mutex is never held across I/O:
// drafts and save requests are snapshotted under it and written after it is
// released. Mutations autosave a draft once no drag is in progress; save and
// validate are forwarded to the structure API.
//
// Routes:
//
//	GET  /health
//	POST /events        interact.Event      -> {"change": interact.Change}
//	GET  /graph         snapshot.Snapshot   (?pretty=true)
//	PUT  /graph         snapshot.Snapshot   -> load summary, replaces the graph
//	GET  /geometry      []interact.EdgeUpdate for every edge
//	GET  /svg           current scene as SVG
//	POST /layout        auto layout
//	POST /save          submit to the structure API
//	GET  /validate      server-side validation results
//	GET  /draft         autosaved draft for the structure
//	POST /draft/restore load the draft into the editor
//	DELETE /draft       discard the draft
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/organogram/pkg/api"
	"github.com/matzehuels/organogram/pkg/buildinfo"
	"github.com/matzehuels/organogram/pkg/drafts"
	"github.com/matzehuels/organogram/pkg/interact"
	"github.com/matzehuels/organogram/pkg/render"
)

// Options configures a Server.
type Options struct {
	StructureID   string
	API           *api.Client  // nil disables /save and /validate
	Drafts        drafts.Store // nil disables autosave
	DraftTTL      time.Duration
	AllowedOrigin string // CORS origin; empty disables CORS headers
	Logger        *log.Logger
}

// Server serves one editor session over HTTP.
type Server struct {
	mu      sync.Mutex // guards ctrl, scene, rev and pending
	ctrl    *interact.Controller
	scene   *render.Scene
	rev     uint64 // bumped by every graph mutation
	pending bool   // mutations not yet written as a draft

	// draftMu orders draft writes and deletes, which run outside mu.
	draftMu  sync.Mutex
	draftRev uint64 // rev of the newest draft written or discarded

	opts   Options
	logger *log.Logger
	router chi.Router
}

// New creates a server around ctrl. The scene is synced from the
// controller's graph immediately.
func New(ctrl *interact.Controller, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Drafts == nil {
		opts.Drafts = drafts.NullStore{}
	}
	if opts.DraftTTL == 0 {
		opts.DraftTTL = drafts.DefaultTTL
	}
	s := &Server{
		ctrl:   ctrl,
		scene:  render.NewScene(ctrl.Config()),
		opts:   opts,
		logger: opts.Logger,
	}
	s.scene.Sync(ctrl.Graph())
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.logger))
	if s.opts.AllowedOrigin != "" {
		r.Use(cors(s.opts.AllowedOrigin))
	}

	r.Get("/health", s.handleHealth)
	r.Post("/events", s.handleEvent)
	r.Get("/graph", s.handleGetGraph)
	r.Put("/graph", s.handlePutGraph)
	r.Get("/geometry", s.handleGeometry)
	r.Get("/svg", s.handleSVG)
	r.Post("/layout", s.handleLayout)
	r.Post("/save", s.handleSave)
	r.Get("/validate", s.handleValidate)
	r.Route("/draft", func(r chi.Router) {
		r.Get("/", s.handleGetDraft)
		r.Post("/restore", s.handleRestoreDraft)
		r.Delete("/", s.handleDeleteDraft)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr, "structure", s.opts.StructureID, "version", buildinfo.String())

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	}
}
