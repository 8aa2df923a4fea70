// Package store implements the flat-file table layer. Each entity lives in
// its own CSV file: a header row of column names followed by one row per
// record. Every field is a string on disk and stays a string in memory, so
// numeric-looking values such as class numbers never change type between a
// save and a reload.
package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Row is a single record, one string per column.
type Row []string

// Table is an in-memory copy of one CSV file. A table is loaded once at
// process start and mutated in place; Save rewrites the whole file. There is
// no locking: a single operating process owns each file, last writer wins.
type Table struct {
	path    string
	columns []string
	rows    []Row
}

// Open loads the table at path, or returns an empty table with the declared
// columns if no file exists yet. The file is not created until the first
// Save. Rows shorter than the schema are padded with empty strings; longer
// rows are truncated.
func Open(path string, columns []string) (*Table, error) {
	t := &Table{path: path, columns: columns}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return t, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) == 0 {
		return t, nil
	}
	for _, record := range records[1:] {
		t.rows = append(t.rows, normalize(record, len(columns)))
	}
	return t, nil
}

// Save rewrites the backing file from the full in-memory table. The write
// goes to a temp file in the same directory and is renamed into place, so a
// reader never sees a half-written table.
func (t *Table) Save() error {
	dir := filepath.Dir(t.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(t.path)+".tmp")
	if err != nil {
		return err
	}
	writer := csv.NewWriter(tmp)
	if err := writer.Write(t.columns); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	for _, row := range t.rows {
		if err := writer.Write(row); err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
			return err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), t.path)
}

func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

func (t *Table) Len() int {
	return len(t.rows)
}

// Rows returns a copy of every row in insertion order.
func (t *Table) Rows() []Row {
	rows := make([]Row, len(t.rows))
	for i, row := range t.rows {
		rows[i] = append(Row(nil), row...)
	}
	return rows
}

// Append adds a row, padded or truncated to the table arity.
func (t *Table) Append(row Row) {
	t.rows = append(t.rows, normalize(row, len(t.columns)))
}

// Find returns the first row matching the predicate.
func (t *Table) Find(match func(Row) bool) (Row, bool) {
	for _, row := range t.rows {
		if match(row) {
			return append(Row(nil), row...), true
		}
	}
	return nil, false
}

// Any reports whether some row matches the predicate.
func (t *Table) Any(match func(Row) bool) bool {
	_, ok := t.Find(match)
	return ok
}

// Delete removes every row matching the predicate and reports how many were
// removed.
func (t *Table) Delete(match func(Row) bool) int {
	kept := t.rows[:0]
	removed := 0
	for _, row := range t.rows {
		if match(row) {
			removed++
			continue
		}
		kept = append(kept, row)
	}
	t.rows = kept
	return removed
}

// Update applies mutate to every row matching the predicate, in place, and
// reports how many rows changed.
func (t *Table) Update(match func(Row) bool, mutate func(Row)) int {
	updated := 0
	for _, row := range t.rows {
		if match(row) {
			mutate(row)
			updated++
		}
	}
	return updated
}

// Upsert removes any row matching the predicate, then appends the new row.
// This delete-then-insert is the single primitive behind attendance marking
// and result recording: the last write for a given natural key wins.
func (t *Table) Upsert(match func(Row) bool, row Row) {
	t.Delete(match)
	t.Append(row)
}

func normalize(row Row, arity int) Row {
	out := make(Row, arity)
	copy(out, row)
	return out
}
