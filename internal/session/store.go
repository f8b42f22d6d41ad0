// Package session keeps one orchestration controller per browser session.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"salaryinsights/internal/errors"
	"salaryinsights/internal/orchestration"
)

type entry struct {
	controller *orchestration.Controller
	lastSeen   time.Time
}

// Store maps session ids to controllers and evicts idle sessions
type Store struct {
	mu            sync.Mutex
	sessions      map[string]*entry
	ttl           time.Duration
	maxSessions   int
	newController func() *orchestration.Controller
	now           func() time.Time
	done          chan struct{}
	closeOnce     sync.Once
	logger        *errors.Logger
}

// NewStore creates a store; newController builds the controller of a new session
func NewStore(ttl time.Duration, newController func() *orchestration.Controller, logger *errors.Logger) *Store {
	return &Store{
		sessions:      make(map[string]*entry),
		ttl:           ttl,
		newController: newController,
		now:           time.Now,
		done:          make(chan struct{}),
		logger:        logger,
	}
}

// SetMaxSessions caps the number of live sessions; zero or less means no cap
func (s *Store) SetMaxSessions(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maxSessions = n
}

// Get returns the controller of a live session and refreshes its last use
func (s *Store) Get(id string) (*orchestration.Controller, bool) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	e.lastSeen = s.now()
	return e.controller, true
}

// Create starts a new session. At the cap the least recently used session
// is evicted first, preferring one with no flow running.
func (s *Store) Create() (string, *orchestration.Controller) {
	id := uuid.NewString()
	controller := s.newController()

	s.mu.Lock()
	var evicted []*orchestration.Controller
	for s.maxSessions > 0 && len(s.sessions) >= s.maxSessions {
		evicted = append(evicted, s.evictOldestLocked())
	}
	limit := s.maxSessions
	s.sessions[id] = &entry{controller: controller, lastSeen: s.now()}
	s.mu.Unlock()

	for _, c := range evicted {
		c.Close()
	}
	if len(evicted) > 0 {
		s.logger.Warn("Session limit reached, evicted least recently used sessions",
			"evicted_sessions", len(evicted),
			"max_sessions", limit)
	}
	s.logger.Debug("Session created", "session_id", id)
	return id, controller
}

// evictOldestLocked removes the least recently used session, idle ones first.
// s.mu must be held and the store must not be empty.
func (s *Store) evictOldestLocked() *orchestration.Controller {
	var oldestID, oldestIdleID string
	var oldest, oldestIdle time.Time
	for id, e := range s.sessions {
		if oldestID == "" || e.lastSeen.Before(oldest) {
			oldestID, oldest = id, e.lastSeen
		}
		if e.controller.Snapshot().Busy() {
			continue
		}
		if oldestIdleID == "" || e.lastSeen.Before(oldestIdle) {
			oldestIdleID, oldestIdle = id, e.lastSeen
		}
	}

	victim := oldestIdleID
	if victim == "" {
		victim = oldestID
	}
	e := s.sessions[victim]
	delete(s.sessions, victim)
	return e.controller
}

// GetOrCreate returns the session for id, creating one when id is unknown.
// created is true when a new id was issued.
func (s *Store) GetOrCreate(id string) (string, *orchestration.Controller, bool) {
	if controller, ok := s.Get(id); ok {
		return id, controller, false
	}
	newID, controller := s.Create()
	return newID, controller, true
}

// Len returns the number of live sessions
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Cleanup removes sessions idle for longer than the TTL that have no flow
// running, and returns how many were removed
func (s *Store) Cleanup() int {
	s.mu.Lock()
	now := s.now()
	var expired []*orchestration.Controller
	for id, e := range s.sessions {
		if now.Sub(e.lastSeen) <= s.ttl || e.controller.Snapshot().Busy() {
			continue
		}
		expired = append(expired, e.controller)
		delete(s.sessions, id)
	}
	remaining := len(s.sessions)
	s.mu.Unlock()

	for _, controller := range expired {
		controller.Close()
	}

	s.logger.Debug("Session cleanup completed",
		"removed_sessions", len(expired),
		"remaining_sessions", remaining)
	return len(expired)
}

// StartCleanup runs Cleanup every interval until Close is called
func (s *Store) StartCleanup(interval time.Duration) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.Cleanup()
			case <-s.done:
				return
			}
		}
	}()
}

// Close stops the cleanup goroutine and cancels the flows of every session
func (s *Store) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, e := range s.sessions {
		e.controller.Close()
		delete(s.sessions, id)
	}
}
