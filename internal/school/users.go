package school

import (
	"strings"

	"sunshine/school/internal/model"
)

// AddUser creates a new account. Usernames are unique case-insensitively.
func (s *Service) AddUser(user model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user.Username = strings.TrimSpace(user.Username)
	user.Name = strings.TrimSpace(user.Name)
	if user.Username == "" || user.Password == "" || user.Name == "" {
		return validationf("username, password and name are required")
	}
	if !model.ValidRole(user.Role) {
		return validationf("role must be %s, %s or %s", model.RoleTeacher, model.RolePrincipal, model.RoleAdmin)
	}
	if _, exists := s.users.Lookup(user.Username); exists {
		return conflictf("username %s already exists", user.Username)
	}
	return s.users.Add(user)
}

// SetPassword overwrites an account's password. There is no old-password
// check: only admins can reach this operation.
func (s *Service) SetPassword(username, newPassword string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if newPassword == "" {
		return validationf("password cannot be empty")
	}
	updated, err := s.users.SetPassword(username, newPassword)
	if err != nil {
		return err
	}
	if !updated {
		return notFoundf("user %s not found", username)
	}
	return nil
}

// DeleteUser removes an account. The caller's own account is protected so
// an admin cannot lock themselves out mid-session.
func (s *Service) DeleteUser(actor, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if username == actor {
		return validationf("cannot delete the account you are signed in with")
	}
	removed, err := s.users.Remove(username)
	if err != nil {
		return err
	}
	if !removed {
		return notFoundf("user %s not found", username)
	}
	return nil
}

// ListUsers returns every account with the password blanked.
func (s *Service) ListUsers() []model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := s.users.Users()
	for i := range users {
		users[i].Password = ""
	}
	return users
}
