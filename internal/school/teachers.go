package school

import (
	"strings"

	"sunshine/school/internal/model"
	"sunshine/school/internal/store"
)

// RegisterTeacher adds a new teacher. A duplicate Teacher ID is rejected.
func (s *Service) RegisterTeacher(teacher model.Teacher) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	teacher.ID = strings.TrimSpace(teacher.ID)
	teacher.Name = strings.TrimSpace(teacher.Name)
	teacher.Phone = strings.TrimSpace(teacher.Phone)
	if teacher.ID == "" || teacher.Name == "" || teacher.Phone == "" {
		return validationf("teacher id, name and phone are required")
	}
	if s.teachers.Any(matchColumn(0, teacher.ID)) {
		return conflictf("teacher id %s already exists", teacher.ID)
	}
	s.teachers.Append(store.Row{teacher.ID, teacher.Name, teacher.Subject, teacher.Phone})
	return s.teachers.Save()
}

// LookupTeacher finds a teacher by ID.
func (s *Service) LookupTeacher(id string) (model.Teacher, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookupTeacher(id)
}

// lookupTeacher is LookupTeacher for callers already holding the lock.
func (s *Service) lookupTeacher(id string) (model.Teacher, error) {
	row, ok := s.teachers.Find(matchColumn(0, id))
	if !ok {
		return model.Teacher{}, notFoundf("teacher %s not found", id)
	}
	return teacherFromRow(row), nil
}

// ListTeachers returns every teacher in file order.
func (s *Service) ListTeachers() []model.Teacher {
	s.mu.Lock()
	defer s.mu.Unlock()
	teachers := []model.Teacher{}
	for _, row := range s.teachers.Rows() {
		teachers = append(teachers, teacherFromRow(row))
	}
	return teachers
}

func teacherFromRow(row store.Row) model.Teacher {
	return model.Teacher{ID: row[0], Name: row[1], Subject: row[2], Phone: row[3]}
}
