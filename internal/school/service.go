// Package school implements the record-keeping operations: enrollment,
// attendance marking, result recording and account management. Every
// operation is a stateless transformation over the flat-file tables:
// validate, check the natural key, drop any conflicting row, append, save.
package school

import (
	"path/filepath"
	"sync"

	"sunshine/school/internal/auth"
	"sunshine/school/internal/model"
	"sunshine/school/internal/store"
)

// Backing file names inside the data directory.
const (
	usersFile             = "users.csv"
	studentsFile          = "students.csv"
	teachersFile          = "teachers.csv"
	studentAttendanceFile = "student_attendance.csv"
	teacherAttendanceFile = "teacher_attendance.csv"
	resultsFile           = "results.csv"
)

var (
	studentColumns           = []string{"Student ID", "Name", "Class"}
	teacherColumns           = []string{"Teacher ID", "Name", "Subject", "Phone"}
	studentAttendanceColumns = []string{"Student ID", "Name", "Class", "Date", "Status"}
	teacherAttendanceColumns = []string{"Teacher ID", "Name", "Date", "Status"}
	resultColumns            = []string{"Student ID", "Name", "Subject", "Marks", "Grade"}
)

// Service owns the six tables for one data directory. Tables are loaded
// once at startup and mutated in place; each mutating operation persists the
// table it touched before returning. A single mutex serializes operations:
// the tables themselves are unsynchronized and the HTTP layer runs handlers
// concurrently, so overlapping requests take turns here and the last write
// for a key still wins.
type Service struct {
	mu                sync.Mutex
	users             *auth.CredentialStore
	students          *store.Table
	teachers          *store.Table
	studentAttendance *store.Table
	teacherAttendance *store.Table
	results           *store.Table
}

// Open loads every table under dataDir, creating only the credential file
// (with its default accounts) when missing. The record tables stay
// in-memory until their first write.
func Open(dataDir string) (*Service, error) {
	users, err := auth.OpenCredentials(filepath.Join(dataDir, usersFile))
	if err != nil {
		return nil, err
	}
	students, err := store.Open(filepath.Join(dataDir, studentsFile), studentColumns)
	if err != nil {
		return nil, err
	}
	teachers, err := store.Open(filepath.Join(dataDir, teachersFile), teacherColumns)
	if err != nil {
		return nil, err
	}
	studentAttendance, err := store.Open(filepath.Join(dataDir, studentAttendanceFile), studentAttendanceColumns)
	if err != nil {
		return nil, err
	}
	teacherAttendance, err := store.Open(filepath.Join(dataDir, teacherAttendanceFile), teacherAttendanceColumns)
	if err != nil {
		return nil, err
	}
	results, err := store.Open(filepath.Join(dataDir, resultsFile), resultColumns)
	if err != nil {
		return nil, err
	}
	return &Service{
		users:             users,
		students:          students,
		teachers:          teachers,
		studentAttendance: studentAttendance,
		teacherAttendance: teacherAttendance,
		results:           results,
	}, nil
}

// Authenticate checks a username/password pair against the account table.
func (s *Service) Authenticate(username, password string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users.Authenticate(username, password)
}

// Summary returns the dashboard counters.
func (s *Service) Summary() model.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.Summary{
		Students: s.students.Len(),
		Teachers: s.teachers.Len(),
		Results:  s.results.Len(),
	}
}
