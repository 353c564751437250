// ABOUTME: Thread-safe in-memory MCP session store with idle TTL and LRU capacity bound.
// ABOUTME: Owns the session table that every /mcp request resolves against.

package session

import (
	"container/list"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultSweepInterval is how often expired sessions are removed in the background.
const DefaultSweepInterval = time.Minute

// Session is a snapshot of a client session's state.
type Session struct {
	ID              string
	CreatedAt       time.Time
	LastSeen        time.Time
	Initialized     bool
	ProtocolVersion string // declared by the client in initialize
}

// entry stores a session and its position in the recency list.
type entry struct {
	session *Session
	element *list.Element
}

// Options configures a Store.
type Options struct {
	TTL           time.Duration // idle expiry, 0 disables
	MaxSessions   int           // capacity bound, 0 disables
	SweepInterval time.Duration
	Logger        *slog.Logger
}

// Store is the process-wide session table. It is safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*entry
	order    *list.List // session ids, least recently used at front
	ttl      time.Duration
	maxSize  int
	logger   *slog.Logger
	now      func() time.Time
	done     chan struct{}
	closed   bool
}

// New creates a session store. When a TTL is set a background goroutine
// periodically sweeps expired sessions; call Close to stop it.
func New(opts Options) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Store{
		sessions: make(map[string]*entry),
		order:    list.New(),
		ttl:      opts.TTL,
		maxSize:  opts.MaxSessions,
		logger:   logger,
		now:      time.Now,
		done:     make(chan struct{}),
	}

	if s.ttl > 0 {
		interval := opts.SweepInterval
		if interval <= 0 {
			interval = DefaultSweepInterval
		}
		go s.sweep(interval)
	}
	return s
}

// Resolve returns the session for id, refreshing its last-seen time. If id is
// empty, unknown, or expired, a new session with a fresh id is created instead
// and created is true. A caller-supplied unknown id is never adopted.
func (s *Store) Resolve(id string) (sess Session, created bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if id != "" {
		if e, ok := s.liveLocked(id, now); ok {
			e.session.LastSeen = now
			s.order.MoveToBack(e.element)
			return *e.session, false
		}
	}

	if s.maxSize > 0 && len(s.sessions) >= s.maxSize {
		s.evictOldestLocked()
	}

	fresh := &Session{
		ID:        uuid.New().String(),
		CreatedAt: now,
		LastSeen:  now,
	}
	s.sessions[fresh.ID] = &entry{
		session: fresh,
		element: s.order.PushBack(fresh.ID),
	}

	s.logger.Info("session created", "session_id", fresh.ID)
	return *fresh, true
}

// Get returns the session for id without refreshing it.
func (s *Store) Get(id string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.liveLocked(id, s.now())
	if !ok {
		return Session{}, false
	}
	return *e.session, true
}

// MarkInitialized flips the session's initialized flag and records the
// protocol version the client declared. Repeated calls are harmless.
// Returns false if the session does not exist.
func (s *Store) MarkInitialized(id, protocolVersion string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.liveLocked(id, s.now())
	if !ok {
		return false
	}
	e.session.Initialized = true
	if protocolVersion != "" {
		e.session.ProtocolVersion = protocolVersion
	}
	return true
}

// Terminate removes the session. Returns whether it existed.
func (s *Store) Terminate(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.liveLocked(id, s.now())
	if !ok {
		return false
	}
	s.removeLocked(id, e)
	s.logger.Info("session terminated", "session_id", id)
	return true
}

// Count returns the number of live sessions.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// liveLocked looks up a session, dropping it if it has expired.
// Must be called with mu held.
func (s *Store) liveLocked(id string, now time.Time) (*entry, bool) {
	e, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	if s.expired(e.session, now) {
		s.removeLocked(id, e)
		s.logger.Info("session expired", "session_id", id)
		return nil, false
	}
	return e, true
}

func (s *Store) expired(sess *Session, now time.Time) bool {
	return s.ttl > 0 && now.Sub(sess.LastSeen) > s.ttl
}

// removeLocked deletes an entry. Must be called with mu held.
func (s *Store) removeLocked(id string, e *entry) {
	s.order.Remove(e.element)
	delete(s.sessions, id)
}

// evictOldestLocked removes the least recently used session.
// Must be called with mu held.
func (s *Store) evictOldestLocked() {
	front := s.order.Front()
	if front == nil {
		return
	}

	id, _ := front.Value.(string)
	s.order.Remove(front)
	delete(s.sessions, id)
	s.logger.Info("session evicted at capacity", "session_id", id, "max_sessions", s.maxSize)
}

// sweep runs in a background goroutine, periodically removing expired sessions.
func (s *Store) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.runSweep()
		case <-s.done:
			return
		}
	}
}

// runSweep removes all expired sessions.
func (s *Store) runSweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, e := range s.sessions {
		if s.expired(e.session, now) {
			s.removeLocked(id, e)
			removed++
		}
	}
	if removed > 0 {
		s.logger.Debug("swept expired sessions", "removed", removed, "remaining", len(s.sessions))
	}
}

// Close stops the background sweeper. It is safe to call multiple times.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		close(s.done)
		s.closed = true
	}
}
