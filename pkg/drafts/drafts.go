// Package drafts stores unsaved organogram edits between editor sessions.
//
// A draft is the latest snapshot of a structure that has not been submitted
// to the structure API yet. The editor autosaves one after every mutating
// event and offers it back on the next start. Drafts are a local
// convenience: the structure API remains the source of truth.
//
// Backends:
//   - file: JSON files under ~/.config/organogram/drafts (CLI default)
//   - redis: one hash per prefix, field per structure id (shared servers)
//   - mongo: one document per structure id in the "drafts" collection
//   - none: discards everything
//
// # Usage
//
//	store, err := drafts.Open(ctx, drafts.Config{Backend: "file"}, logger)
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	err = store.Put(ctx, drafts.NewDraft("42", snapshot.FromGraph(g), drafts.DefaultTTL))
//	d, err := store.Get(ctx, "42")
//	if errors.Is(err, drafts.ErrNotFound) {
//	    // nothing to restore
//	}
package drafts

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	orgerrors "github.com/matzehuels/organogram/pkg/errors"
	"github.com/matzehuels/organogram/pkg/snapshot"
)

// ErrNotFound is returned when no live draft exists for a structure.
var ErrNotFound = orgerrors.New(orgerrors.ErrCodeDraftNotFound, "draft not found")

// DefaultTTL is how long a draft survives without being rewritten.
const DefaultTTL = 7 * 24 * time.Hour

// Backend names accepted by [Open].
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
	BackendNone  = "none"
)

// Draft is an unsubmitted snapshot of one structure.
type Draft struct {
	StructureID string            `json:"structure_id" bson:"structure_id"`
	Snapshot    snapshot.Snapshot `json:"snapshot" bson:"snapshot"`
	SavedAt     time.Time         `json:"saved_at" bson:"saved_at"`
	ExpiresAt   time.Time         `json:"expires_at,omitempty" bson:"expires_at,omitempty"`
}

// NewDraft stamps s with the current time. A ttl of zero never expires.
func NewDraft(structureID string, s snapshot.Snapshot, ttl time.Duration) *Draft {
	now := time.Now().UTC()
	d := &Draft{StructureID: structureID, Snapshot: s, SavedAt: now}
	if ttl > 0 {
		d.ExpiresAt = now.Add(ttl)
	}
	return d
}

// IsExpired reports whether the draft has outlived its TTL.
func (d *Draft) IsExpired() bool {
	return !d.ExpiresAt.IsZero() && time.Now().After(d.ExpiresAt)
}

// Store is the interface for draft storage backends.
type Store interface {
	// Get returns the draft for a structure, or ErrNotFound.
	// Expired drafts are reported as ErrNotFound.
	Get(ctx context.Context, structureID string) (*Draft, error)

	// Put creates or replaces the draft for d.StructureID.
	Put(ctx context.Context, d *Draft) error

	// Delete removes a draft. Deleting a missing draft is not an error.
	Delete(ctx context.Context, structureID string) error

	// List returns all live drafts, most recently saved first.
	List(ctx context.Context) ([]*Draft, error)

	// Close releases backend resources.
	Close() error
}

// Config selects and configures a backend.
type Config struct {
	Backend string
	TTL     time.Duration

	Dir string // file

	RedisAddr   string // redis
	RedisPrefix string

	MongoURI      string // mongo
	MongoDatabase string
}

// Open creates the store selected by cfg.Backend. An empty backend means file.
func Open(ctx context.Context, cfg Config, logger *log.Logger) (Store, error) {
	if logger == nil {
		logger = log.Default()
	}
	switch cfg.Backend {
	case "", BackendFile:
		return NewFileStore(cfg.Dir)
	case BackendRedis:
		return OpenRedis(ctx, cfg.RedisAddr, cfg.RedisPrefix, cfg.TTL, logger)
	case BackendMongo:
		return OpenMongo(ctx, cfg.MongoURI, cfg.MongoDatabase, logger)
	case BackendNone:
		return NullStore{}, nil
	}
	return nil, orgerrors.New(orgerrors.ErrCodeInvalidInput, "unknown draft backend %q", cfg.Backend)
}

// checkDraft validates a draft before it is written.
func checkDraft(d *Draft) error {
	if d == nil {
		return orgerrors.New(orgerrors.ErrCodeInvalidInput, "nil draft")
	}
	return orgerrors.ValidateStructureID(d.StructureID)
}

// hashID maps a structure id to a fixed-length storage key.
func hashID(structureID string) string {
	sum := sha256.Sum256([]byte(structureID))
	return hex.EncodeToString(sum[:])
}

// sortDrafts orders drafts newest first, then by structure id.
func sortDrafts(ds []*Draft) {
	slices.SortFunc(ds, func(a, b *Draft) int {
		if c := b.SavedAt.Compare(a.SavedAt); c != 0 {
			return c
		}
		if a.StructureID < b.StructureID {
			return -1
		}
		if a.StructureID > b.StructureID {
			return 1
		}
		return 0
	})
}

// IsNotFound reports whether err means no draft exists.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || orgerrors.Is(err, orgerrors.ErrCodeDraftNotFound)
}

func wrapBackend(backend, op string, err error) error {
	return orgerrors.Wrap(orgerrors.ErrCodeInternal, err, "%s drafts: %s", backend, op)
}

// String describes a draft for CLI listings.
func (d *Draft) String() string {
	return fmt.Sprintf("%s (%d nodes, %d edges, saved %s)",
		d.StructureID, len(d.Snapshot.Nodes), len(d.Snapshot.Edges), d.SavedAt.Local().Format(time.DateTime))
}
