// Package auth holds the account store, the static role permission table
// and the session token codec.
//
// Accounts are kept in users.csv with plain-text passwords. That matches the
// file format this service inherited and is preserved so existing files keep
// working, but it is not suitable for any deployment where the data
// directory can be read by untrusted parties.
package auth

import (
	"errors"
	"os"
	"strings"

	"sunshine/school/internal/model"
	"sunshine/school/internal/store"
)

// ErrInvalidCredentials is returned for both an unknown username and a wrong
// password, so a caller cannot probe which usernames exist.
var ErrInvalidCredentials = errors.New("invalid credentials")

var userColumns = []string{"username", "password", "role", "name"}

// defaultUsers seeds a brand-new installation so there is always a way in.
var defaultUsers = []model.User{
	{Username: "admin", Password: "admin123", Role: model.RoleAdmin, Name: "System Admin"},
	{Username: "principal", Password: "principal123", Role: model.RolePrincipal, Name: "Mr. Principal"},
	{Username: "teacher", Password: "teacher123", Role: model.RoleTeacher, Name: "Ms. Teacher"},
}

// CredentialStore is the account table. All mutations rewrite the whole
// file, last writer wins.
type CredentialStore struct {
	table *store.Table
}

// OpenCredentials loads the account table at path. A missing file is not an
// error: the default admin/principal/teacher accounts are written out and
// returned.
func OpenCredentials(path string) (*CredentialStore, error) {
	_, statErr := os.Stat(path)
	table, err := store.Open(path, userColumns)
	if err != nil {
		return nil, err
	}
	c := &CredentialStore{table: table}
	if errors.Is(statErr, os.ErrNotExist) {
		for _, user := range defaultUsers {
			c.table.Append(userRow(user))
		}
		if err := c.table.Save(); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Authenticate matches the username case-insensitively, ignoring
// surrounding whitespace, against the first matching row. The password
// compare is an exact string match.
func (c *CredentialStore) Authenticate(username, password string) (model.User, error) {
	user, ok := c.Lookup(username)
	if !ok {
		return model.User{}, ErrInvalidCredentials
	}
	if user.Password != password {
		return model.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// Lookup finds an account by case-insensitive username.
func (c *CredentialStore) Lookup(username string) (model.User, bool) {
	needle := strings.ToLower(strings.TrimSpace(username))
	row, ok := c.table.Find(func(row store.Row) bool {
		return strings.ToLower(row[0]) == needle
	})
	if !ok {
		return model.User{}, false
	}
	return userFromRow(row), true
}

// Users returns every account in file order.
func (c *CredentialStore) Users() []model.User {
	rows := c.table.Rows()
	users := make([]model.User, len(rows))
	for i, row := range rows {
		users[i] = userFromRow(row)
	}
	return users
}

// Add appends an account and persists. The caller is responsible for
// duplicate checks.
func (c *CredentialStore) Add(user model.User) error {
	c.table.Append(userRow(user))
	return c.table.Save()
}

// SetPassword overwrites the password of the named account in place. It
// reports false when the username does not exist.
func (c *CredentialStore) SetPassword(username, password string) (bool, error) {
	updated := c.table.Update(func(row store.Row) bool {
		return row[0] == username
	}, func(row store.Row) {
		row[1] = password
	})
	if updated == 0 {
		return false, nil
	}
	return true, c.table.Save()
}

// Remove deletes the named account (exact username match) and persists. It
// reports false when nothing was removed.
func (c *CredentialStore) Remove(username string) (bool, error) {
	removed := c.table.Delete(func(row store.Row) bool {
		return row[0] == username
	})
	if removed == 0 {
		return false, nil
	}
	return true, c.table.Save()
}

func userRow(user model.User) store.Row {
	return store.Row{user.Username, user.Password, user.Role, user.Name}
}

func userFromRow(row store.Row) model.User {
	return model.User{Username: row[0], Password: row[1], Role: row[2], Name: row[3]}
}
