// Package session tracks authenticated identities. A Session is an explicit
// value owned by the interaction layer rather than process-global state, so
// domain code never reads ambient identity.
package session

import (
	"fmt"
	"sync"

	"sunshine/school/internal/auth"
	"sunshine/school/internal/model"
)

// Session is one authenticated identity and the view it is currently on.
// The lifecycle is unauthenticated → Login → view switches → Logout,
// repeatable indefinitely. The mutex makes each accessor safe against a
// concurrent view switch: two requests can share one bearer token.
type Session struct {
	mu            sync.Mutex
	user          model.User
	authenticated bool
	view          string
}

func New() *Session {
	return &Session{}
}

// Login stores the identity and lands on the default view.
func (s *Session) Login(user model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
	s.authenticated = true
	s.view = auth.DefaultView
}

// Logout resets the session to its unauthenticated defaults.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = model.User{}
	s.authenticated = false
	s.view = ""
}

func (s *Session) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

// User returns the authenticated identity, or the zero User when logged out.
func (s *Session) User() model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Role returns the authenticated role, or "" when logged out.
func (s *Session) Role() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user.Role
}

// View returns the current view, or "" when logged out.
func (s *Session) View() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// SetView switches the current view after checking the role may access it.
func (s *Session) SetView(view string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.authenticated {
		return fmt.Errorf("not authenticated")
	}
	if !auth.CanAccess(view, s.user.Role) {
		return fmt.Errorf("role %s may not access %s", s.user.Role, view)
	}
	s.view = view
	return nil
}
