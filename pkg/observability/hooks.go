// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about editor interaction, structure API calls and draft
// storage.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, never by libraries, so the engine packages
// stay free of import cycles and backend dependencies.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetEngineHooks(&myEngineHooks{})
//	    observability.SetAPIHooks(&myAPIHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	start := time.Now()
//	change, err := c.dispatch(ev)
//	observability.Engine().OnEvent(string(ev.Kind), time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Engine Hooks
// =============================================================================

// EngineHooks receives events from the interaction controller.
// The engine is synchronous, so these hooks carry no context.
type EngineHooks interface {
	// OnEvent records one handled event. err is non-nil for rejected events.
	OnEvent(kind string, duration time.Duration, err error)

	// OnLayout records an auto layout pass.
	OnLayout(nodeCount, levelCount int, duration time.Duration)
}

// =============================================================================
// API Hooks
// =============================================================================

// APIHooks receives events from structure API calls.
type APIHooks interface {
	// OnRequest records an outgoing request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records a response, including success=false bodies.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)

	// OnError records a failed call (network failure, timeout, rejected save).
	OnError(ctx context.Context, method, path string, err error)
}

// =============================================================================
// Draft Hooks
// =============================================================================

// DraftHooks receives events from draft storage.
type DraftHooks interface {
	// OnDraftLoad records a draft lookup and whether it was found.
	OnDraftLoad(ctx context.Context, backend string, found bool)

	// OnDraftSave records a draft write.
	OnDraftSave(ctx context.Context, backend string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopEngineHooks is a no-op implementation of EngineHooks.
type NoopEngineHooks struct{}

func (NoopEngineHooks) OnEvent(string, time.Duration, error) {}
func (NoopEngineHooks) OnLayout(int, int, time.Duration)     {}

// NoopAPIHooks is a no-op implementation of APIHooks.
type NoopAPIHooks struct{}

func (NoopAPIHooks) OnRequest(context.Context, string, string)                      {}
func (NoopAPIHooks) OnResponse(context.Context, string, string, int, time.Duration) {}
func (NoopAPIHooks) OnError(context.Context, string, string, error)                 {}

// NoopDraftHooks is a no-op implementation of DraftHooks.
type NoopDraftHooks struct{}

func (NoopDraftHooks) OnDraftLoad(context.Context, string, bool) {}
func (NoopDraftHooks) OnDraftSave(context.Context, string, int)  {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	engineHooks EngineHooks = NoopEngineHooks{}
	apiHooks    APIHooks    = NoopAPIHooks{}
	draftHooks  DraftHooks  = NoopDraftHooks{}
	hooksMu     sync.RWMutex
)

// SetEngineHooks registers custom engine hooks.
// This should be called once at application startup before any events are handled.
func SetEngineHooks(h EngineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		engineHooks = h
	}
}

// SetAPIHooks registers custom API hooks.
// This should be called once at application startup before any API calls.
func SetAPIHooks(h APIHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		apiHooks = h
	}
}

// SetDraftHooks registers custom draft hooks.
func SetDraftHooks(h DraftHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		draftHooks = h
	}
}

// Engine returns the registered engine hooks.
func Engine() EngineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return engineHooks
}

// API returns the registered API hooks.
func API() APIHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return apiHooks
}

// Drafts returns the registered draft hooks.
func Drafts() DraftHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return draftHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	engineHooks = NoopEngineHooks{}
	apiHooks = NoopAPIHooks{}
	draftHooks = NoopDraftHooks{}
}
