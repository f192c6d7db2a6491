package session

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	appErr "github.com/nhollis/docchat/internal/pkg/errors"
)

// Store keeps per-session conversation state in memory, keyed by the
// session id carried in the auth token. Sessions idle past the TTL are
// dropped lazily on access and swept periodically by the scheduler.
type Store struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]*entry
}

type entry struct {
	state        *State
	lastActivity time.Time
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]*entry),
	}
}

// Create registers a fresh session and returns its id.
func (s *Store) Create() string {
	id := newSessionID()
	s.mu.Lock()
	s.entries[id] = &entry{state: NewState(), lastActivity: s.now()}
	s.mu.Unlock()
	return id
}

// Get returns a copy of the session state and refreshes its activity
// timestamp. An unknown or expired session yields ErrSessionGone.
func (s *Store) Get(id string) (*State, error) {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return nil, appErr.ErrSessionGone
	}
	if now.Sub(e.lastActivity) > s.ttl {
		delete(s.entries, id)
		return nil, appErr.ErrSessionGone
	}
	e.lastActivity = now
	return e.state.Clone(), nil
}

// Put persists updated state for an existing session.
func (s *Store) Put(id string, state *State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return appErr.ErrSessionGone
	}
	e.state = state.Clone()
	e.lastActivity = s.now()
	return nil
}

func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.entries, id)
	s.mu.Unlock()
}

// Sweep removes idle sessions and reports how many were dropped.
func (s *Store) Sweep() int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, e := range s.entries {
		if now.Sub(e.lastActivity) > s.ttl {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func newSessionID() string {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}
