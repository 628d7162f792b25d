package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks reports every hook event to a logger at debug level.
// The CLI registers it when running with --verbose.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks writing to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{Logger: logger}
}

func (h *LogHooks) OnEvent(kind string, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("event rejected", "kind", kind, "duration", d, "err", err)
		return
	}
	h.Logger.Debug("event", "kind", kind, "duration", d)
}

func (h *LogHooks) OnLayout(nodes, levels int, d time.Duration) {
	h.Logger.Debug("auto layout", "nodes", nodes, "levels", levels, "duration", d)
}

func (h *LogHooks) OnRequest(_ context.Context, method, path string) {
	h.Logger.Debug("api request", "method", method, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.Logger.Debug("api response", "method", method, "path", path, "status", status, "duration", d)
}

func (h *LogHooks) OnError(_ context.Context, method, path string, err error) {
	h.Logger.Debug("api error", "method", method, "path", path, "err", err)
}

func (h *LogHooks) OnDraftLoad(_ context.Context, backend string, found bool) {
	h.Logger.Debug("draft load", "backend", backend, "found", found)
}

func (h *LogHooks) OnDraftSave(_ context.Context, backend string, size int) {
	h.Logger.Debug("draft save", "backend", backend, "bytes", size)
}

// Register installs h for every hook category.
func (h *LogHooks) Register() {
	SetEngineHooks(h)
	SetAPIHooks(h)
	SetDraftHooks(h)
}
