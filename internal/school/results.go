package school

import (
	"strconv"
	"strings"

	"sunshine/school/internal/model"
	"sunshine/school/internal/store"
)

// GradeFor maps marks to a letter grade. Total over 0..100 and defined for
// anything else too (below 50 is an F).
func GradeFor(marks int) string {
	switch {
	case marks >= 90:
		return "A+"
	case marks >= 80:
		return "A"
	case marks >= 70:
		return "B"
	case marks >= 60:
		return "C"
	case marks >= 50:
		return "D"
	default:
		return "F"
	}
}

// RecordResult saves one subject result for a student, deriving the grade.
// Results are keyed by (student name, subject): recording the same subject
// again replaces the earlier row. The name key is historical file format —
// two students sharing a name collide, and the report card looks rows up by
// name the same way, so changing the key here would orphan existing rows.
func (s *Service) RecordResult(studentID, subject string, marks int) (model.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return model.Result{}, validationf("subject is required")
	}
	if marks < 0 || marks > 100 {
		return model.Result{}, validationf("marks must be between 0 and 100")
	}
	student, err := s.lookupStudent(strings.TrimSpace(studentID))
	if err != nil {
		return model.Result{}, err
	}

	result := model.Result{
		StudentID: student.ID,
		Name:      student.Name,
		Subject:   subject,
		Marks:     marks,
		Grade:     GradeFor(marks),
	}
	s.results.Upsert(func(row store.Row) bool {
		return row[1] == student.Name && row[2] == subject
	}, resultRow(result))
	return result, s.results.Save()
}

// ReportCard returns a student's results by name plus the average marks.
// Rows whose marks no longer parse are skipped for the average but still
// listed.
func (s *Service) ReportCard(studentName string) ([]model.Result, float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	results := []model.Result{}
	total, counted := 0, 0
	for _, row := range s.results.Rows() {
		if row[1] != studentName {
			continue
		}
		result := resultFromRow(row)
		if marks, err := strconv.Atoi(row[3]); err == nil {
			total += marks
			counted++
		}
		results = append(results, result)
	}
	if counted == 0 {
		return results, 0
	}
	return results, float64(total) / float64(counted)
}

// ListResults returns every result in file order.
func (s *Service) ListResults() []model.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	results := []model.Result{}
	for _, row := range s.results.Rows() {
		results = append(results, resultFromRow(row))
	}
	return results
}

func resultRow(result model.Result) store.Row {
	return store.Row{result.StudentID, result.Name, result.Subject, strconv.Itoa(result.Marks), result.Grade}
}

func resultFromRow(row store.Row) model.Result {
	marks, _ := strconv.Atoi(row[3])
	return model.Result{StudentID: row[0], Name: row[1], Subject: row[2], Marks: marks, Grade: row[4]}
}
