// Package state stores committed field values and schedules downstream
// reruns for user-originated commits.
package state

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/kingrea/draftfield/internal/field"
)

// Entry is the last committed value for a field.
type Entry struct {
	Value     string
	Origin    field.Origin
	UpdatedAt time.Time
}

// RerunRequest asks the host to recompute. FieldIDs lists the fields whose
// user commits were coalesced into this request.
type RerunRequest struct {
	FieldIDs    []string
	RequestedAt time.Time
}

// Logger is the narrow logging surface used by the manager.
type Logger interface {
	Printf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...any) {}

// Option customizes Manager construction.
type Option func(*Manager)

// WithClock allows tests to control timestamps.
func WithClock(clock func() time.Time) Option {
	return func(m *Manager) {
		if clock != nil {
			m.clock = clock
		}
	}
}

// WithLogger overrides the default no-op logger.
func WithLogger(l Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// Manager implements field.Sink. It holds at most one pending rerun; user
// commits that arrive while one is pending are folded into it.
type Manager struct {
	mu      sync.Mutex
	entries map[string]Entry
	reruns  chan RerunRequest
	clock   func() time.Time
	logger  Logger
}

var _ field.Sink = (*Manager)(nil)

// NewManager constructs an empty manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		entries: map[string]Entry{},
		reruns:  make(chan RerunRequest, 1),
		clock:   func() time.Time { return time.Now().UTC() },
		logger:  nopLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

// Push stores value under fieldID. Only OriginUser pushes request a rerun.
func (m *Manager) Push(fieldID, value string, origin field.Origin) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.clock()
	m.entries[fieldID] = Entry{Value: value, Origin: origin, UpdatedAt: now}
	if !origin.FromUI() {
		return
	}
	m.requestRerunLocked(fieldID, now)
}

func (m *Manager) requestRerunLocked(fieldID string, now time.Time) {
	ids := []string{fieldID}
	select {
	case req := <-m.reruns:
		for _, id := range req.FieldIDs {
			if id != fieldID {
				ids = append(ids, id)
			}
		}
	default:
	}
	sort.Strings(ids)
	m.reruns <- RerunRequest{FieldIDs: ids, RequestedAt: now}
	m.logger.Printf("state: rerun requested by %s", strings.Join(ids, ","))
}

// Reruns delivers coalesced rerun requests.
func (m *Manager) Reruns() <-chan RerunRequest {
	return m.reruns
}

// Get returns the committed entry for fieldID.
func (m *Manager) Get(fieldID string) (Entry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[fieldID]
	return e, ok
}

// StringValue returns the committed value for fieldID or fallback.
func (m *Manager) StringValue(fieldID, fallback string) string {
	if e, ok := m.Get(fieldID); ok {
		return e.Value
	}
	return fallback
}

// Snapshot copies all entries.
func (m *Manager) Snapshot() map[string]Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]Entry, len(m.entries))
	for id, e := range m.entries {
		out[id] = e
	}
	return out
}
