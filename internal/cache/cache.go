// Package cache is a content-addressed response cache with per-read TTLs.
// Entries are opaque JSON payloads; freshness is decided by the caller's TTL
// at read time, so one store serves categories with wildly different
// lifetimes. Caching is an optimization: every failure path degrades to a
// miss or a no-op, never an error.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Store is the cache contract. Get reports a miss for absent, malformed or
// expired entries. Put is fire-and-forget. Implementations are safe for
// concurrent use; Get and Put are each atomic single-entry operations with no
// cross-call locking.
type Store interface {
	Get(key string, ttl time.Duration) (json.RawMessage, bool)
	Put(key string, payload json.RawMessage)
}

// Key derives the cache key for a request. Parameters are serialized with
// their names sorted so that insertion order never changes the key.
func Key(endpoint string, params map[string]string, category string) string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(endpoint)
	b.WriteString("|{")
	for i, name := range names {
		if i > 0 {
			b.WriteByte(',')
		}
		nb, _ := json.Marshal(name)
		vb, _ := json.Marshal(params[name])
		b.Write(nb)
		b.WriteByte(':')
		b.Write(vb)
	}
	b.WriteByte('}')

	sum := sha256.Sum256([]byte(b.String()))
	return category + "_" + hex.EncodeToString(sum[:])
}

// envelope is the persisted form of an entry.
type envelope struct {
	StoredAt int64           `json:"stored_at"`
	Payload  json.RawMessage `json:"payload"`
}

// DiskStore keeps one JSON file per key under a directory. The store is
// unbounded; stale entries are ignored on read and overwritten in place, never
// proactively deleted.
type DiskStore struct {
	dir    string
	logger *zap.SugaredLogger
	now    func() time.Time
}

// NewDiskStore creates the cache directory if needed and returns a store
// rooted there. A directory that cannot be created yields a nil store and the
// error; callers typically fall back to a Nop store so a bad cache path only
// disables caching for the run.
func NewDiskStore(dir string, logger *zap.SugaredLogger) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskStore{dir: dir, logger: logger, now: time.Now}, nil
}

func (s *DiskStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

func (s *DiskStore) Get(key string, ttl time.Duration) (json.RawMessage, bool) {
	raw, err := os.ReadFile(s.path(key))
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warnf("cache read failed for %v: %v", key, err)
		}
		return nil, false
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		s.logger.Warnf("malformed cache entry %v treated as miss: %v", key, err)
		return nil, false
	}

	if s.now().Sub(time.Unix(env.StoredAt, 0)) > ttl {
		return nil, false
	}
	return env.Payload, true
}

func (s *DiskStore) Put(key string, payload json.RawMessage) {
	raw, err := json.Marshal(envelope{StoredAt: s.now().Unix(), Payload: payload})
	if err != nil {
		s.logger.Warnf("cache marshal failed for %v: %v", key, err)
		return
	}
	if err := os.WriteFile(s.path(key), raw, 0o644); err != nil {
		s.logger.Warnf("cache write failed for %v: %v", key, err)
	}
}

// Nop is the disabled cache: every read misses, every write is dropped.
type Nop struct{}

func (Nop) Get(string, time.Duration) (json.RawMessage, bool) { return nil, false }

func (Nop) Put(string, json.RawMessage) {}
