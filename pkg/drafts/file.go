package drafts

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/matzehuels/organogram/pkg/observability"
)

// FileStore keeps one JSON file per draft. Files are sharded by the first two
// hex characters of the structure id's SHA-256 to keep directories small.
type FileStore struct {
	mu  sync.RWMutex
	dir string
}

// NewFileStore creates a file store in dir.
// If dir is empty, defaults to ~/.config/organogram/drafts/
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, wrapBackend(BackendFile, "home dir", err)
		}
		dir = filepath.Join(home, ".config", "organogram", "drafts")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, wrapBackend(BackendFile, "create dir", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the base directory of the store.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) path(structureID string) string {
	hash := hashID(structureID)
	return filepath.Join(s.dir, hash[:2], hash[2:]+".json")
}

// Get reads the draft for structureID. Expired drafts are deleted and
// reported as ErrNotFound.
func (s *FileStore) Get(ctx context.Context, structureID string) (*Draft, error) {
	s.mu.RLock()
	d, err := readDraft(s.path(structureID))
	s.mu.RUnlock()

	found := err == nil && d != nil && !d.IsExpired()
	observability.Drafts().OnDraftLoad(ctx, BackendFile, found)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrNotFound
	}
	if d.IsExpired() {
		_ = s.Delete(ctx, structureID)
		return nil, ErrNotFound
	}
	return d, nil
}

// Put writes d atomically through a temporary file in the same shard.
func (s *FileStore) Put(ctx context.Context, d *Draft) error {
	if err := checkDraft(d); err != nil {
		return err
	}
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return wrapBackend(BackendFile, "marshal", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(d.StructureID)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return wrapBackend(BackendFile, "create shard", err)
	}
	// Write then rename so a crash never leaves a torn draft.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return wrapBackend(BackendFile, "write", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return wrapBackend(BackendFile, "rename", err)
	}
	observability.Drafts().OnDraftSave(ctx, BackendFile, len(data))
	return nil
}

// Delete removes the draft for structureID. A missing draft is not an error.
func (s *FileStore) Delete(ctx context.Context, structureID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(structureID)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return wrapBackend(BackendFile, "remove", err)
	}
	return nil
}

// List walks every shard. Expired and unreadable files are removed on the way.
func (s *FileStore) List(ctx context.Context) ([]*Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*Draft
	err := filepath.WalkDir(s.dir, func(path string, e fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if e.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		d, err := readDraft(path)
		if err != nil || d == nil || d.IsExpired() {
			_ = os.Remove(path)
			return nil
		}
		out = append(out, d)
		return nil
	})
	if err != nil {
		return nil, wrapBackend(BackendFile, "list", err)
	}
	sortDrafts(out)
	return out, nil
}

// Close is a no-op.
func (s *FileStore) Close() error { return nil }

// readDraft returns nil, nil when the file does not exist. A corrupt file is
// treated as missing and removed.
func readDraft(path string) (*Draft, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapBackend(BackendFile, "read", err)
	}
	var d Draft
	if err := json.Unmarshal(data, &d); err != nil {
		_ = os.Remove(path)
		return nil, nil
	}
	return &d, nil
}

var _ Store = (*FileStore)(nil)
