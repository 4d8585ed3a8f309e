package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	// Namespace prefixes every persisted key
	Namespace = "COUNTRIES_CACHE:"

	// DefaultThrottle bounds how often pending writes reach disk
	DefaultThrottle = 1 * time.Second

	dbFile = "globe.db"
)

var bucketQueries = []byte("queries")

// entry is the persisted envelope of one query result
type entry struct {
	UpdatedAt int64           `json:"updatedAt"` // unix milliseconds
	Data      json.RawMessage `json:"data"`
}

// QueryStore implements domain.Store using BoltDB. Reads are served from
// an in-memory map; writes update memory at once and are flushed to disk
// at most once per throttle interval.
type QueryStore struct {
	db       *bolt.DB
	throttle time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	cache   map[string][]byte // encoded entries, promoted on access
	dirty   map[string]bool   // written since last flush
	deleted map[string]bool   // deleted since last flush
	timer   *time.Timer
	closed  bool
}

// Open opens the store in cacheDir. An empty cacheDir gives a memory-only
// store.
func Open(cacheDir string, throttle time.Duration, logger *slog.Logger) (*QueryStore, error) {
	if throttle <= 0 {
		throttle = DefaultThrottle
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &QueryStore{
		throttle: throttle,
		logger:   logger,
		cache:    make(map[string][]byte),
		dirty:    make(map[string]bool),
		deleted:  make(map[string]bool),
	}
	if cacheDir == "" {
		// Memory-only mode (no persistence)
		return s, nil
	}

	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, err
	}

	db, err := bolt.Open(filepath.Join(cacheDir, dbFile), 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketQueries)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	s.db = db
	return s, nil
}

// Get decodes the value stored under key into dest.
func (s *QueryStore) Get(key string, dest any) (time.Time, bool) {
	data, ok := s.load(key)
	if !ok {
		return time.Time{}, false
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		s.logger.Warn("discarding corrupt cache entry", "key", key, "error", err)
		s.Delete(key)
		return time.Time{}, false
	}
	if err := json.Unmarshal(e.Data, dest); err != nil {
		s.logger.Warn("cache entry does not match destination", "key", key, "error", err)
		return time.Time{}, false
	}
	return time.UnixMilli(e.UpdatedAt), true
}

// Set stores value under key and schedules a flush.
func (s *QueryStore) Set(key string, value any, updatedAt time.Time) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	data, err := json.Marshal(entry{UpdatedAt: updatedAt.UnixMilli(), Data: raw})
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache[key] = data
	delete(s.deleted, key)
	s.dirty[key] = true
	s.scheduleFlushLocked()
	return nil
}

// Delete removes key from memory and, on the next flush, from disk.
func (s *QueryStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cache, key)
	delete(s.dirty, key)
	s.deleted[key] = true
	s.scheduleFlushLocked()
}

// DeletePrefix removes every key starting with prefix.
func (s *QueryStore) DeletePrefix(prefix string) {
	s.mu.Lock()
	for k := range s.cache {
		if strings.HasPrefix(k, prefix) {
			delete(s.cache, k)
			delete(s.dirty, k)
		}
	}
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	// Keys that were never promoted still live on disk only
	full := Namespace + prefix
	err := s.db.Update(func(tx *bolt.Tx) error {
		return deleteMatching(tx.Bucket(bucketQueries), full, func(_, _ []byte) bool { return true })
	})
	if err != nil {
		s.logger.Error("failed to delete cache prefix", "prefix", prefix, "error", err)
	}
}

// Prune deletes persisted entries written before cutoff and returns how
// many were removed.
func (s *QueryStore) Prune(cutoff time.Time) int {
	if err := s.Flush(); err != nil {
		s.logger.Error("flush before prune failed", "error", err)
	}

	s.mu.Lock()
	var stale []string
	for k, data := range s.cache {
		var e entry
		if json.Unmarshal(data, &e) != nil || time.UnixMilli(e.UpdatedAt).Before(cutoff) {
			stale = append(stale, k)
		}
	}
	for _, k := range stale {
		delete(s.cache, k)
	}
	s.mu.Unlock()

	removed := len(stale)
	if s.db == nil {
		return removed
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		return deleteMatching(tx.Bucket(bucketQueries), Namespace, func(k, v []byte) bool {
			var e entry
			if json.Unmarshal(v, &e) == nil && !time.UnixMilli(e.UpdatedAt).Before(cutoff) {
				return false
			}
			if !slices.Contains(stale, strings.TrimPrefix(string(k), Namespace)) {
				removed++
			}
			return true
		})
	})
	if err != nil {
		s.logger.Error("failed to prune cache", "error", err)
	}
	return removed
}

// Flush writes pending changes to disk.
func (s *QueryStore) Flush() error {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	writes := make(map[string][]byte, len(s.dirty))
	for k := range s.dirty {
		writes[k] = s.cache[k]
	}
	deletes := make([]string, 0, len(s.deleted))
	for k := range s.deleted {
		deletes = append(deletes, k)
	}
	s.dirty = make(map[string]bool)
	s.deleted = make(map[string]bool)
	s.mu.Unlock()

	if s.db == nil || (len(writes) == 0 && len(deletes) == 0) {
		return nil
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketQueries)
		for k, data := range writes {
			if err := b.Put([]byte(Namespace+k), data); err != nil {
				return err
			}
		}
		for _, k := range deletes {
			if err := b.Delete([]byte(Namespace + k)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to flush cache: %w", err)
	}
	s.logger.Debug("flushed cache", "writes", len(writes), "deletes", len(deletes))
	return nil
}

// Close flushes pending writes and closes the database.
func (s *QueryStore) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	err := s.Flush()
	if s.db != nil {
		if cerr := s.db.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func (s *QueryStore) load(key string) ([]byte, bool) {
	s.mu.Lock()
	if data, ok := s.cache[key]; ok {
		s.mu.Unlock()
		return data, true
	}
	deleted := s.deleted[key]
	s.mu.Unlock()

	if s.db == nil || deleted {
		return nil, false
	}

	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketQueries).Get([]byte(Namespace + key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if data == nil {
		return nil, false
	}

	// Promote to memory cache
	s.mu.Lock()
	if _, ok := s.cache[key]; !ok && !s.deleted[key] {
		s.cache[key] = data
	}
	s.mu.Unlock()
	return data, true
}

func (s *QueryStore) scheduleFlushLocked() {
	if s.db == nil || s.timer != nil || s.closed {
		return
	}
	s.timer = time.AfterFunc(s.throttle, func() {
		if err := s.Flush(); err != nil {
			s.logger.Error("throttled flush failed", "error", err)
		}
	})
}

// deleteMatching removes keys under prefix for which match returns true.
// Keys are collected first since deleting under a live cursor skips entries.
func deleteMatching(b *bolt.Bucket, prefix string, match func(k, v []byte) bool) error {
	var keys [][]byte
	c := b.Cursor()
	for k, v := c.Seek([]byte(prefix)); k != nil && strings.HasPrefix(string(k), prefix); k, v = c.Next() {
		if match(k, v) {
			keys = append(keys, append([]byte(nil), k...))
		}
	}
	for _, k := range keys {
		if err := b.Delete(k); err != nil {
			return err
		}
	}
	return nil
}
