package session

import (
	"sync"

	"sunshine/school/internal/model"
)

// Registry maps issued token IDs to live sessions. Logout removes the
// entry, which invalidates the token ahead of its expiry.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Create logs the user into a fresh session stored under id.
func (r *Registry) Create(id string, user model.User) *Session {
	s := New()
	s.Login(user)
	r.mu.Lock()
	r.sessions[id] = s
	r.mu.Unlock()
	return s
}

// Get returns the session for id, if it is still live.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Revoke logs the session out and removes it. It reports whether a session
// existed.
func (r *Registry) Revoke(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return false
	}
	s.Logout()
	delete(r.sessions, id)
	return true
}
