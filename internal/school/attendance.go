package school

import (
	"strings"
	"time"

	"sunshine/school/internal/model"
	"sunshine/school/internal/store"
)

const dateLayout = "2006-01-02"

// MarkStudentAttendance records one status for one student on one day. A
// second mark for the same (student, date) replaces the first silently.
func (s *Service) MarkStudentAttendance(studentID, date, status string) (model.StudentAttendance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	date, err := normalizeDate(date)
	if err != nil {
		return model.StudentAttendance{}, err
	}
	if !model.ValidStatus(status) {
		return model.StudentAttendance{}, validationf("status must be %s, %s or %s", model.StatusPresent, model.StatusAbsent, model.StatusLeave)
	}
	student, err := s.lookupStudent(strings.TrimSpace(studentID))
	if err != nil {
		return model.StudentAttendance{}, err
	}

	entry := model.StudentAttendance{
		StudentID: student.ID,
		Name:      student.Name,
		Class:     student.Class,
		Date:      date,
		Status:    status,
	}
	s.studentAttendance.Upsert(func(row store.Row) bool {
		return row[0] == student.ID && row[3] == date
	}, store.Row{entry.StudentID, entry.Name, entry.Class, entry.Date, entry.Status})
	return entry, s.studentAttendance.Save()
}

// StudentAttendanceOn returns the marks for one day, optionally filtered by
// class.
func (s *Service) StudentAttendanceOn(date, class string) []model.StudentAttendance {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := []model.StudentAttendance{}
	for _, row := range s.studentAttendance.Rows() {
		if row[3] != date {
			continue
		}
		if class != "" && row[2] != class {
			continue
		}
		entries = append(entries, model.StudentAttendance{
			StudentID: row[0], Name: row[1], Class: row[2], Date: row[3], Status: row[4],
		})
	}
	return entries
}

// MarkTeacherAttendance records one status for one teacher on one day with
// the same last-mark-wins upsert as student attendance.
func (s *Service) MarkTeacherAttendance(teacherID, date, status string) (model.TeacherAttendance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	date, err := normalizeDate(date)
	if err != nil {
		return model.TeacherAttendance{}, err
	}
	if !model.ValidStatus(status) {
		return model.TeacherAttendance{}, validationf("status must be %s, %s or %s", model.StatusPresent, model.StatusAbsent, model.StatusLeave)
	}
	teacher, err := s.lookupTeacher(strings.TrimSpace(teacherID))
	if err != nil {
		return model.TeacherAttendance{}, err
	}

	entry := model.TeacherAttendance{
		TeacherID: teacher.ID,
		Name:      teacher.Name,
		Date:      date,
		Status:    status,
	}
	s.teacherAttendance.Upsert(func(row store.Row) bool {
		return row[0] == teacher.ID && row[2] == date
	}, store.Row{entry.TeacherID, entry.Name, entry.Date, entry.Status})
	return entry, s.teacherAttendance.Save()
}

// TeacherAttendanceOn returns the teacher marks for one day.
func (s *Service) TeacherAttendanceOn(date string) []model.TeacherAttendance {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := []model.TeacherAttendance{}
	for _, row := range s.teacherAttendance.Rows() {
		if row[2] != date {
			continue
		}
		entries = append(entries, model.TeacherAttendance{
			TeacherID: row[0], Name: row[1], Date: row[2], Status: row[3],
		})
	}
	return entries
}

func normalizeDate(date string) (string, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return "", validationf("date is required")
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return "", validationf("date must be in %s form", dateLayout)
	}
	return date, nil
}
