package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ayush/exploring-space/internal/explore"
)

const (
	DefaultTTL = 24 * time.Hour
	keyPrefix  = "explore:"
)

// RedisStore keeps explore state in Redis as JSON, keyed by session id.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{rdb: rdb, ttl: ttl}
}

// Load returns the state for id, or an empty state if none is stored.
func (s *RedisStore) Load(ctx context.Context, id string) (*explore.State, error) {
	raw, err := s.rdb.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return &explore.State{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}
	var st explore.State
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &st, nil
}

// Save overwrites the state for id and refreshes its TTL.
func (s *RedisStore) Save(ctx context.Context, id string, st *explore.State) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", id, err)
	}
	return s.rdb.Set(ctx, keyPrefix+id, raw, s.ttl).Err()
}

// Delete removes a session.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, keyPrefix+id).Err()
}

// MemoryStore is the in-process fallback when Redis is not configured.
// Entries expire after ttl; Save drops expired entries at most once per
// sweep interval.
type MemoryStore struct {
	mu        sync.Mutex
	ttl       time.Duration
	now       func() time.Time
	nextSweep time.Time
	entries   map[string]memoryEntry
}

type memoryEntry struct {
	raw     []byte
	expires time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{ttl: ttl, now: time.Now, entries: make(map[string]memoryEntry)}
}

// Load returns a copy of the state for id, or an empty state.
func (s *MemoryStore) Load(_ context.Context, id string) (*explore.State, error) {
	s.mu.Lock()
	e, ok := s.entries[id]
	if ok && !s.now().Before(e.expires) {
		delete(s.entries, id)
		ok = false
	}
	s.mu.Unlock()

	if !ok {
		return &explore.State{}, nil
	}
	var st explore.State
	if err := json.Unmarshal(e.raw, &st); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &st, nil
}

// Save stores a copy of st, so later mutation by the caller is not visible.
func (s *MemoryStore) Save(_ context.Context, id string, st *explore.State) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", id, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if !now.Before(s.nextSweep) {
		s.sweep(now)
	}
	s.entries[id] = memoryEntry{raw: raw, expires: now.Add(s.ttl)}
	return nil
}

// sweep must be called with mu held.
func (s *MemoryStore) sweep(now time.Time) {
	for id, e := range s.entries {
		if !now.Before(e.expires) {
			delete(s.entries, id)
		}
	}
	s.nextSweep = now.Add(min(s.ttl, time.Minute))
}

// Delete removes a session.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}
