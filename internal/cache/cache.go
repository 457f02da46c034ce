// Package cache memoizes expensive recomputations on disk. Entries are keyed
// by a hash of their inputs and stored as one YAML file per key, so a rerun
// over values that were already seen skips the computation.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

const entryVersion = 1

// Logger is the narrow logging surface used by the store.
type Logger interface {
	Printf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...any) {}

// Option customizes Store construction.
type Option func(*Store)

// WithLogger overrides the default no-op logger.
func WithLogger(l Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock allows tests to control timestamps.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// Stats counts lookups since the store was opened or last cleared.
type Stats struct {
	Hits   int
	Misses int
}

// Store is a directory of cached results.
type Store struct {
	dir    string
	logger Logger
	clock  func() time.Time

	mu    sync.Mutex
	stats Stats
}

type entryFile[T any] struct {
	Version   int       `yaml:"version"`
	Key       string    `yaml:"key"`
	CreatedAt time.Time `yaml:"created_at"`
	Value     T         `yaml:"value"`
}

// Open creates dir if needed and returns a store rooted there.
func Open(dir string, opts ...Option) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cache: ensure dir: %w", err)
	}
	s := &Store{
		dir:    dir,
		logger: nopLogger{},
		clock:  func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Key hashes name and the ordered inputs into a stable cache key. Inputs are
// length-prefixed so ("ab","c") and ("a","bc") never collide.
func Key(name string, inputs ...string) string {
	h := sha256.New()
	fmt.Fprintf(h, "%d:%s", len(name), name)
	for _, in := range inputs {
		fmt.Fprintf(h, "|%d:%s", len(in), in)
	}
	return hex.EncodeToString(h.Sum(nil))
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".yaml")
}

// Stats returns the hit and miss counters.
func (s *Store) Stats() Stats {
	if s == nil {
		return Stats{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

func (s *Store) count(hit bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if hit {
		s.stats.Hits++
	} else {
		s.stats.Misses++
	}
}

// Clear removes every cached entry and resets the counters.
func (s *Store) Clear() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("cache: list %s: %w", s.dir, err)
	}
	removed := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, e.Name())); err != nil {
			return fmt.Errorf("cache: remove %s: %w", e.Name(), err)
		}
		removed++
	}
	s.mu.Lock()
	s.stats = Stats{}
	s.mu.Unlock()
	s.logger.Printf("cache: cleared %d entries from %s", removed, s.dir)
	return nil
}

// Memoize returns the cached value for key, or runs compute and stores its
// result. The boolean reports a cache hit. An unreadable entry is treated as
// a miss and overwritten.
func Memoize[T any](s *Store, key string, compute func() T) (T, bool, error) {
	if s == nil {
		return compute(), false, nil
	}
	if v, ok := load[T](s, key); ok {
		s.count(true)
		return v, true, nil
	}
	s.count(false)
	v := compute()
	if err := store(s, key, v); err != nil {
		return v, false, err
	}
	return v, false, nil
}

func load[T any](s *Store, key string) (T, bool) {
	var zero T
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		return zero, false
	}
	var entry entryFile[T]
	if err := yaml.Unmarshal(data, &entry); err != nil {
		s.logger.Printf("cache: discard unreadable entry %s: %v", key, err)
		return zero, false
	}
	if entry.Version != entryVersion || entry.Key != key {
		return zero, false
	}
	return entry.Value, true
}

func store[T any](s *Store, key string, v T) error {
	data, err := yaml.Marshal(entryFile[T]{Version: entryVersion, Key: key, CreatedAt: s.clock(), Value: v})
	if err != nil {
		return fmt.Errorf("cache: encode %s: %w", key, err)
	}
	tmp, err := os.CreateTemp(s.dir, ".entry-*.tmp")
	if err != nil {
		return fmt.Errorf("cache: create temp entry: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("cache: write entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("cache: close entry: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path(key)); err != nil {
		return fmt.Errorf("cache: replace entry: %w", err)
	}
	return nil
}
