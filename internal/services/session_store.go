package services

import (
	"sync"

	"foodexpress/internal/models"
)

// SessionStore holds the optional identity of one storefront session.
type SessionStore struct {
	mu       sync.RWMutex
	identity *models.Identity
}

// NewSessionStore creates an anonymous session.
func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

// Login establishes the identity. Any non-empty email and password are accepted.
func (s *SessionStore) Login(email, password string) (models.Session, error) {
	return s.establish(models.Credentials{Email: email, Password: password})
}

// Signup behaves exactly like Login.
func (s *SessionStore) Signup(email, password string) (models.Session, error) {
	return s.establish(models.Credentials{Email: email, Password: password})
}

func (s *SessionStore) establish(creds models.Credentials) (models.Session, error) {
	if err := creds.Validate(); err != nil {
		return models.Session{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = &models.Identity{Email: creds.Email}
	return s.snapshotLocked(), nil
}

// Logout clears the identity. Calling it on an anonymous session is a no-op.
func (s *SessionStore) Logout() models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = nil
	return s.snapshotLocked()
}

// Snapshot returns a copy of the session.
func (s *SessionStore) Snapshot() models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *SessionStore) snapshotLocked() models.Session {
	if s.identity == nil {
		return models.Session{}
	}
	id := *s.identity
	return models.Session{Identity: &id}
}
