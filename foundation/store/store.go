// Package store is the in-memory session registry. Sessions exist only for
// the lifetime of a request plus a short TTL so a client can read progress;
// nothing is ever written to disk.
package store

import (
	"errors"
	"sync"
	"time"
)

var ErrInFlight = errors.New("an identical upload is already being analyzed")

type Session struct {
	ID        string
	Hash      string
	Stage     string
	CreatedAt time.Time
	UpdatedAt time.Time
	Done      bool
	Result    any
}

type Store struct {
	mu       sync.RWMutex
	ttl      time.Duration
	sessions map[string]*Session
	inFlight map[string]string
}

func New(ttl time.Duration) *Store {
	return &Store{
		ttl:      ttl,
		sessions: make(map[string]*Session),
		inFlight: make(map[string]string),
	}
}

// Create registers a new session keyed by id. A second upload with the same
// content hash is rejected while the first is still being analyzed.
func (s *Store) Create(id string, hash string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.inFlight[hash]; exists {
		return Session{}, ErrInFlight
	}

	now := time.Now()
	session := &Session{
		ID:        id,
		Hash:      hash,
		Stage:     "uploaded",
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.sessions[id] = session
	s.inFlight[hash] = id

	return *session, nil
}

func (s *Store) SetStage(id string, stage string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, exists := s.sessions[id]
	if !exists {
		return
	}
	session.Stage = stage
	session.UpdatedAt = time.Now()
}

// Complete marks the session finished and releases its content hash so the
// same video may be analyzed again.
func (s *Store) Complete(id string, result any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, exists := s.sessions[id]
	if !exists {
		return
	}
	session.Done = true
	session.Stage = "complete"
	session.Result = result
	session.UpdatedAt = time.Now()
	delete(s.inFlight, session.Hash)
}

func (s *Store) Get(id string) (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, exists := s.sessions[id]
	if !exists {
		return Session{}, false
	}
	return *session, true
}

func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, exists := s.sessions[id]
	if !exists {
		return
	}
	delete(s.inFlight, session.Hash)
	delete(s.sessions, id)
}

// Sweep drops finished sessions older than the TTL and returns how many were
// removed.
func (s *Store) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int
	for id, session := range s.sessions {
		if session.Done && now.Sub(session.UpdatedAt) > s.ttl {
			delete(s.inFlight, session.Hash)
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}
