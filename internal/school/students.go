package school

import (
	"sort"
	"strconv"
	"strings"

	"sunshine/school/internal/model"
	"sunshine/school/internal/store"
)

// EnrollStudent adds a new student. A duplicate Student ID is rejected, the
// existing row is never overwritten.
func (s *Service) EnrollStudent(student model.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	student.ID = strings.TrimSpace(student.ID)
	student.Name = strings.TrimSpace(student.Name)
	if student.ID == "" || student.Name == "" {
		return validationf("student id and name are required")
	}
	if s.students.Any(matchColumn(0, student.ID)) {
		return conflictf("student id %s already exists", student.ID)
	}
	s.students.Append(store.Row{student.ID, student.Name, student.Class})
	return s.students.Save()
}

// LookupStudent finds a student by ID.
func (s *Service) LookupStudent(id string) (model.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookupStudent(id)
}

// lookupStudent is LookupStudent for callers already holding the lock.
func (s *Service) lookupStudent(id string) (model.Student, error) {
	row, ok := s.students.Find(matchColumn(0, id))
	if !ok {
		return model.Student{}, notFoundf("student %s not found", id)
	}
	return studentFromRow(row), nil
}

// ListStudents returns every student, optionally filtered by class. The
// empty filter means all classes.
func (s *Service) ListStudents(class string) []model.Student {
	s.mu.Lock()
	defer s.mu.Unlock()
	students := []model.Student{}
	for _, row := range s.students.Rows() {
		if class != "" && row[2] != class {
			continue
		}
		students = append(students, studentFromRow(row))
	}
	return students
}

// Classes returns the distinct classes in natural order: numeric-looking
// classes by value, the rest lexically after them. The comparator is
// display-time only; class values stay opaque strings everywhere else.
func (s *Service) Classes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := map[string]bool{}
	classes := []string{}
	for _, row := range s.students.Rows() {
		if !seen[row[2]] {
			seen[row[2]] = true
			classes = append(classes, row[2])
		}
	}
	sort.Slice(classes, func(i, j int) bool {
		return classLess(classes[i], classes[j])
	})
	return classes
}

func classLess(a, b string) bool {
	ai, aerr := strconv.Atoi(a)
	bi, berr := strconv.Atoi(b)
	switch {
	case aerr == nil && berr == nil:
		return ai < bi
	case aerr == nil:
		return true
	case berr == nil:
		return false
	default:
		return a < b
	}
}

func studentFromRow(row store.Row) model.Student {
	return model.Student{ID: row[0], Name: row[1], Class: row[2]}
}

func matchColumn(index int, value string) func(store.Row) bool {
	return func(row store.Row) bool {
		return row[index] == value
	}
}
