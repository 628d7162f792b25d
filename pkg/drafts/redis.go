package drafts

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/organogram/pkg/observability"
)

// DefaultRedisPrefix names the hash that holds all drafts.
const DefaultRedisPrefix = "organogram:drafts"

// RedisStore keeps every draft as a field of one Redis hash, keyed by
// structure id. Per-draft expiry is checked on read; the hash itself is
// given the store TTL on every write so an idle deployment cleans up.
type RedisStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
	logger *log.Logger
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration, logger *log.Logger) *RedisStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	if logger == nil {
		logger = log.Default()
	}
	return &RedisStore{client: client, key: prefix, ttl: ttl, logger: logger}
}

// OpenRedis connects to addr and pings it before returning the store.
func OpenRedis(ctx context.Context, addr, prefix string, ttl time.Duration, logger *log.Logger) (*RedisStore, error) {
	if addr == "" {
		addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, wrapBackend(BackendRedis, "connect "+addr, err)
	}
	return NewRedisStore(client, prefix, ttl, logger), nil
}

// Get reads one field of the drafts hash. Expired drafts are removed lazily.
func (s *RedisStore) Get(ctx context.Context, structureID string) (*Draft, error) {
	raw, err := s.client.HGet(ctx, s.key, structureID).Result()
	if errors.Is(err, redis.Nil) {
		observability.Drafts().OnDraftLoad(ctx, BackendRedis, false)
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, wrapBackend(BackendRedis, "get", err)
	}

	d, ok := s.decode(structureID, raw)
	if !ok || d.IsExpired() {
		_ = s.client.HDel(ctx, s.key, structureID).Err()
		observability.Drafts().OnDraftLoad(ctx, BackendRedis, false)
		return nil, ErrNotFound
	}
	observability.Drafts().OnDraftLoad(ctx, BackendRedis, true)
	return d, nil
}

// Put sets the draft's field and refreshes the expiry of the whole hash.
func (s *RedisStore) Put(ctx context.Context, d *Draft) error {
	if err := checkDraft(d); err != nil {
		return err
	}
	data, err := json.Marshal(d)
	if err != nil {
		return wrapBackend(BackendRedis, "marshal", err)
	}
	if err := s.client.HSet(ctx, s.key, d.StructureID, data).Err(); err != nil {
		return wrapBackend(BackendRedis, "put", err)
	}
	if s.ttl > 0 {
		if err := s.client.Expire(ctx, s.key, s.ttl).Err(); err != nil {
			s.logger.Warn("failed to refresh draft expiry", "key", s.key, "error", err)
		}
	}
	observability.Drafts().OnDraftSave(ctx, BackendRedis, len(data))
	return nil
}

// Delete removes the draft's field.
func (s *RedisStore) Delete(ctx context.Context, structureID string) error {
	if err := s.client.HDel(ctx, s.key, structureID).Err(); err != nil {
		return wrapBackend(BackendRedis, "delete", err)
	}
	return nil
}

// List returns every live draft in the hash, newest first.
func (s *RedisStore) List(ctx context.Context) ([]*Draft, error) {
	all, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, wrapBackend(BackendRedis, "list", err)
	}
	out := make([]*Draft, 0, len(all))
	var stale []string
	for id, raw := range all {
		d, ok := s.decode(id, raw)
		if !ok || d.IsExpired() {
			stale = append(stale, id)
			continue
		}
		out = append(out, d)
	}
	if len(stale) > 0 {
		_ = s.client.HDel(ctx, s.key, stale...).Err()
	}
	sortDrafts(out)
	return out, nil
}

// Close closes the Redis client.
func (s *RedisStore) Close() error { return s.client.Close() }

func (s *RedisStore) decode(structureID, raw string) (*Draft, bool) {
	var d Draft
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		s.logger.Warn("dropping corrupt draft", "structure", structureID, "error", err)
		return nil, false
	}
	return &d, true
}

var _ Store = (*RedisStore)(nil)
