package server

import (
	"sync"
	"time"

	"codeberg.org/snonux/ankidict/internal/processor"
)

// DefaultSessionTTL is how long an idle session is kept.
const DefaultSessionTTL = time.Hour

// DefaultMaxSessions caps the sessions kept at once. The least recently seen
// one is dropped to make room.
const DefaultMaxSessions = 256

type sessionEntry struct {
	session  *processor.Session
	lastSeen time.Time
}

// sessionStore keeps one processor session per client id.
type sessionStore struct {
	newSession func() *processor.Session
	ttl        time.Duration
	max        int
	now        func() time.Time

	mu      sync.Mutex
	entries map[string]*sessionEntry
}

func newSessionStore(newSession func() *processor.Session, ttl time.Duration, max int) *sessionStore {
	return &sessionStore{
		newSession: newSession,
		ttl:        ttl,
		max:        max,
		now:        time.Now,
		entries:    make(map[string]*sessionEntry),
	}
}

// get returns the session of id, creating it on first use. Idle sessions
// are dropped on the way.
func (s *sessionStore) get(id string) *processor.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, e := range s.entries {
		if key != id && now.Sub(e.lastSeen) > s.ttl {
			delete(s.entries, key)
		}
	}

	e, ok := s.entries[id]
	if !ok {
		if s.max > 0 && len(s.entries) >= s.max {
			s.evictOldest()
		}
		e = &sessionEntry{session: s.newSession()}
		s.entries[id] = e
	}
	e.lastSeen = now
	return e.session
}

func (s *sessionStore) evictOldest() {
	var oldest string
	var seen time.Time
	for key, e := range s.entries {
		if oldest == "" || e.lastSeen.Before(seen) {
			oldest, seen = key, e.lastSeen
		}
	}
	delete(s.entries, oldest)
}

func (s *sessionStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
