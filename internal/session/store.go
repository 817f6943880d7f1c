package session

import (
	"crypto/rand"
	"log/slog"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Store keeps sessions in memory with an idle TTL. Anything untouched
// for longer than the TTL is treated as gone and recreated fresh.
type Store struct {
	sessions map[string]*Session
	ttl      time.Duration
	mu       sync.Mutex
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
	}
}

// CreateOrGet returns the live session for id, creating one when none
// exists or when the stored one has sat idle past the TTL. An empty id
// always mints a new session. The second return reports whether the
// session was created on this call.
func (s *Store) CreateOrGet(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id != "" {
		if sess, ok := s.sessions[id]; ok {
			if time.Since(sess.LastSeen) <= s.ttl {
				return sess, false
			}
			delete(s.sessions, id)
		}
	}

	now := time.Now()
	sess := &Session{
		ID:        newID(),
		State:     AwaitingPhone,
		CreatedAt: now,
		LastSeen:  now,
	}
	s.sessions[sess.ID] = sess
	return sess, true
}

// Sweep drops sessions idle past the TTL and returns the ids of those
// removed, so the caller can release per-session resources such as
// lock entries.
func (s *Store) Sweep() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed []string
	for id, sess := range s.sessions {
		if time.Since(sess.LastSeen) > s.ttl {
			delete(s.sessions, id)
			removed = append(removed, id)
		}
	}
	if len(removed) > 0 {
		slog.Debug("swept idle sessions", "count", len(removed))
	}
	return removed
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func newID() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}
