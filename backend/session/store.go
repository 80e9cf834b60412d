// Package session keeps per-conversation state: history, the undo/redo
// stacks, and the last parsed context. Sessions are keyed by id, created on
// first use, and evicted after inactivity. Nothing here is global.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/munishbansal2000/layla-sub008/backend/intent"
	"github.com/munishbansal2000/layla-sub008/backend/itinerary"
)

const (
	defaultTTL      = 30 * time.Minute
	defaultSweep    = 10 * time.Minute
	maxHistoryDepth = 50
)

// Session is the mutable state of one conversation. Itinerary mutation is
// synchronous per session, but a superseded turn may still be winding down
// while its successor runs, so access is guarded.
type Session struct {
	ID      string
	History []intent.Turn

	mu         sync.Mutex
	lastIntent *intent.Intent
	undoStack  []*itinerary.Itinerary
	redoStack  []*itinerary.Itinerary
}

// SetLastIntent records the most recent parsed intent for the session.
func (s *Session) SetLastIntent(in *intent.Intent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastIntent = in
}

// LastIntent returns the most recent parsed intent, or nil.
func (s *Session) LastIntent() *intent.Intent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastIntent
}

// Remember appends a conversation turn, bounding history depth.
func (s *Session) Remember(role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.History = append(s.History, intent.Turn{Role: role, Content: content})
	if len(s.History) > maxHistoryDepth {
		s.History = s.History[len(s.History)-maxHistoryDepth:]
	}
}

// Turns returns a copy of the conversation history.
func (s *Session) Turns() []intent.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]intent.Turn, len(s.History))
	copy(out, s.History)
	return out
}

// PushUndo records the pre-mutation snapshot and invalidates the redo stack,
// keeping history linear.
func (s *Session) PushUndo(snapshot *itinerary.Itinerary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.undoStack = append(s.undoStack, snapshot.Clone())
	s.redoStack = nil
}

// Undo exchanges the current value for the most recent snapshot. Returns nil
// when there is nothing to undo.
func (s *Session) Undo(current *itinerary.Itinerary) *itinerary.Itinerary {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.undoStack) == 0 {
		return nil
	}
	top := s.undoStack[len(s.undoStack)-1]
	s.undoStack = s.undoStack[:len(s.undoStack)-1]
	s.redoStack = append(s.redoStack, current.Clone())
	return top
}

// Redo reverses the most recent Undo. Returns nil when there is nothing to
// redo.
func (s *Session) Redo(current *itinerary.Itinerary) *itinerary.Itinerary {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.redoStack) == 0 {
		return nil
	}
	top := s.redoStack[len(s.redoStack)-1]
	s.redoStack = s.redoStack[:len(s.redoStack)-1]
	s.undoStack = append(s.undoStack, current.Clone())
	return top
}

func (s *Session) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.undoStack) > 0
}

func (s *Session) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.redoStack) > 0
}

// Store holds sessions with TTL eviction on inactivity.
type Store struct {
	cache *gocache.Cache
}

type StoreOption func(*storeConfig)

type storeConfig struct {
	ttl   time.Duration
	sweep time.Duration
}

func WithTTL(ttl time.Duration) StoreOption {
	return func(c *storeConfig) {
		c.ttl = ttl
	}
}

func WithSweepInterval(interval time.Duration) StoreOption {
	return func(c *storeConfig) {
		c.sweep = interval
	}
}

func NewStore(opts ...StoreOption) *Store {
	config := &storeConfig{ttl: defaultTTL, sweep: defaultSweep}
	for _, opt := range opts {
		opt(config)
	}
	return &Store{cache: gocache.New(config.ttl, config.sweep)}
}

// Get returns the session for the id, creating it on first use. Every access
// refreshes the eviction deadline.
func (s *Store) Get(id string) *Session {
	if id == "" {
		id = uuid.NewString()
	}
	if cached, ok := s.cache.Get(id); ok {
		sess := cached.(*Session)
		s.cache.SetDefault(id, sess)
		return sess
	}
	sess := &Session{ID: id}
	s.cache.SetDefault(id, sess)
	return sess
}

// Delete removes a session immediately.
func (s *Store) Delete(id string) {
	s.cache.Delete(id)
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	return s.cache.ItemCount()
}
