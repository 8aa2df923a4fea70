package auth

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"sunshine/school/internal/model"
)

func openTestCredentials(t *testing.T) (*CredentialStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "users.csv")
	creds, err := OpenCredentials(path)
	if err != nil {
		t.Fatalf("open error: %v", err)
	}
	return creds, path
}

func TestSeedsDefaultsWhenMissing(t *testing.T) {
	creds, path := openTestCredentials(t)
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected users file to be created: %v", err)
	}
	users := creds.Users()
	if len(users) != 3 {
		t.Fatalf("expected 3 default accounts, got %d", len(users))
	}
	if users[0].Username != "admin" || users[0].Role != model.RoleAdmin {
		t.Fatalf("expected admin first, got %+v", users[0])
	}

	// A reopen must not reseed or duplicate.
	reopened, err := OpenCredentials(path)
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	if len(reopened.Users()) != 3 {
		t.Fatalf("expected 3 accounts after reopen, got %d", len(reopened.Users()))
	}
}

func TestAuthenticate(t *testing.T) {
	creds, _ := openTestCredentials(t)

	// Case-insensitive and whitespace-trimmed username match.
	user, err := creds.Authenticate("  Admin ", "admin123")
	if err != nil {
		t.Fatalf("expected login to succeed: %v", err)
	}
	if user.Role != model.RoleAdmin {
		t.Fatalf("expected admin role, got %s", user.Role)
	}

	// Wrong password and unknown user fail identically.
	_, wrongPw := creds.Authenticate("admin", "wrong")
	_, unknown := creds.Authenticate("nouser", "x")
	if !errors.Is(wrongPw, ErrInvalidCredentials) || !errors.Is(unknown, ErrInvalidCredentials) {
		t.Fatalf("expected identical credential errors, got %v and %v", wrongPw, unknown)
	}
}

func TestMutations(t *testing.T) {
	creds, path := openTestCredentials(t)

	if err := creds.Add(model.User{Username: "teacher2", Password: "pw", Role: model.RoleTeacher, Name: "Mr. Ali"}); err != nil {
		t.Fatalf("add error: %v", err)
	}
	if _, ok := creds.Lookup("TEACHER2"); !ok {
		t.Fatalf("expected case-insensitive lookup of new account")
	}

	updated, err := creds.SetPassword("teacher2", "pw2")
	if err != nil || !updated {
		t.Fatalf("expected password update, updated=%v err=%v", updated, err)
	}
	if _, err := creds.Authenticate("teacher2", "pw2"); err != nil {
		t.Fatalf("expected new password to work: %v", err)
	}

	removed, err := creds.Remove("teacher2")
	if err != nil || !removed {
		t.Fatalf("expected removal, removed=%v err=%v", removed, err)
	}

	// Mutations persist across a reload.
	reopened, err := OpenCredentials(path)
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	if len(reopened.Users()) != 3 {
		t.Fatalf("expected 3 accounts after remove, got %d", len(reopened.Users()))
	}
}
