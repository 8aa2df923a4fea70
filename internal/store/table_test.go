package store

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

var columns = []string{"ID", "Name", "Class"}

func TestOpenMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "students.csv")
	table, err := Open(path, columns)
	if err != nil {
		t.Fatalf("open error: %v", err)
	}
	if table.Len() != 0 {
		t.Fatalf("expected empty table, got %d rows", table.Len())
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected no file to be created before first save")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "students.csv")
	table, err := Open(path, columns)
	if err != nil {
		t.Fatalf("open error: %v", err)
	}
	table.Append(Row{"S-101", "John Doe", "5"})
	table.Append(Row{"S-102", "Jane Roe", "10"})
	table.Append(Row{"S-103", "Ann Lee", "5"})
	if err := table.Save(); err != nil {
		t.Fatalf("save error: %v", err)
	}

	reloaded, err := Open(path, columns)
	if err != nil {
		t.Fatalf("reload error: %v", err)
	}
	if !reflect.DeepEqual(table.Rows(), reloaded.Rows()) {
		t.Fatalf("round trip mismatch: %v vs %v", table.Rows(), reloaded.Rows())
	}
	// Numeric-looking classes must come back as the same strings.
	if got := reloaded.Rows()[1][2]; got != "10" {
		t.Fatalf("expected class string 10, got %q", got)
	}
}

func TestShortRowsPadded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "students.csv")
	if err := os.WriteFile(path, []byte("ID,Name,Class\nS-101,John Doe\n"), 0o644); err != nil {
		t.Fatalf("write error: %v", err)
	}
	table, err := Open(path, columns)
	if err != nil {
		t.Fatalf("open error: %v", err)
	}
	rows := table.Rows()
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0][2] != "" {
		t.Fatalf("expected missing field to read as empty string, got %q", rows[0][2])
	}
}

func TestUpsertReplacesMatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "attendance.csv")
	table, err := Open(path, []string{"ID", "Date", "Status"})
	if err != nil {
		t.Fatalf("open error: %v", err)
	}
	key := func(row Row) bool { return row[0] == "S-101" && row[1] == "2026-09-01" }
	table.Upsert(key, Row{"S-101", "2026-09-01", "Present"})
	table.Upsert(key, Row{"S-101", "2026-09-01", "Absent"})
	table.Upsert(func(row Row) bool { return row[0] == "S-102" && row[1] == "2026-09-01" },
		Row{"S-102", "2026-09-01", "Leave"})

	if table.Len() != 2 {
		t.Fatalf("expected 2 rows after upserts, got %d", table.Len())
	}
	row, ok := table.Find(key)
	if !ok || row[2] != "Absent" {
		t.Fatalf("expected last status to win, got %v", row)
	}
}

func TestDeleteAndUpdate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.csv")
	table, err := Open(path, []string{"username", "password"})
	if err != nil {
		t.Fatalf("open error: %v", err)
	}
	table.Append(Row{"admin", "admin123"})
	table.Append(Row{"teacher", "teacher123"})

	updated := table.Update(func(row Row) bool { return row[0] == "teacher" }, func(row Row) {
		row[1] = "newpass"
	})
	if updated != 1 {
		t.Fatalf("expected 1 row updated, got %d", updated)
	}
	row, _ := table.Find(func(row Row) bool { return row[0] == "teacher" })
	if row[1] != "newpass" {
		t.Fatalf("expected updated password, got %q", row[1])
	}

	removed := table.Delete(func(row Row) bool { return row[0] == "teacher" })
	if removed != 1 || table.Len() != 1 {
		t.Fatalf("expected exactly one row removed, removed=%d len=%d", removed, table.Len())
	}
}

func TestSaveOverwritesWholeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "students.csv")
	table, _ := Open(path, columns)
	table.Append(Row{"S-101", "John Doe", "5"})
	table.Append(Row{"S-102", "Jane Roe", "6"})
	if err := table.Save(); err != nil {
		t.Fatalf("save error: %v", err)
	}
	table.Delete(func(row Row) bool { return row[0] == "S-101" })
	if err := table.Save(); err != nil {
		t.Fatalf("save error: %v", err)
	}

	reloaded, err := Open(path, columns)
	if err != nil {
		t.Fatalf("reload error: %v", err)
	}
	if reloaded.Len() != 1 {
		t.Fatalf("expected deleted row to be gone after save, got %d rows", reloaded.Len())
	}
}
