// Package http exposes the record-keeping operations over JSON. The server
// owns nothing domain-shaped itself: it authenticates, consults the role
// table for the view each route belongs to, dispatches to the school
// service and translates typed errors to status codes.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sunshine/school/internal/auth"
	"sunshine/school/internal/config"
	"sunshine/school/internal/model"
	"sunshine/school/internal/school"
	"sunshine/school/internal/session"
)

type Server struct {
	cfg      config.Config
	school   *school.Service
	sessions *session.Registry
}

func NewServer(cfg config.Config, svc *school.Service, sessions *session.Registry) *Server {
	return &Server{cfg: cfg, school: svc, sessions: sessions}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/auth/login", s.handleLogin)
	r.With(s.authMiddleware).Post("/auth/logout", s.handleLogout)
	r.With(s.authMiddleware).Get("/auth/me", s.handleGetMe)
	r.With(s.authMiddleware).Put("/auth/view", s.handleSetView)

	r.With(s.authMiddleware, s.requireView(auth.ViewDashboard)).Get("/dashboard", s.handleDashboard)
	r.With(s.authMiddleware, s.requireView(auth.ViewDashboard)).Get("/classes", s.handleListClasses)

	r.With(s.authMiddleware, s.requireView(auth.ViewAddStudent)).Post("/students", s.handleEnrollStudent)
	// Teachers marking attendance need the roster too, so the listing is
	// reachable from either view.
	r.With(s.authMiddleware, s.requireView(auth.ViewRecords, auth.ViewStudentAttendance)).Get("/students", s.handleListStudents)
	r.With(s.authMiddleware, s.requireView(auth.ViewAddTeacher)).Post("/teachers", s.handleRegisterTeacher)
	r.With(s.authMiddleware, s.requireView(auth.ViewRecords)).Get("/teachers", s.handleListTeachers)

	r.With(s.authMiddleware, s.requireView(auth.ViewStudentAttendance)).Post("/attendance/students", s.handleMarkStudentAttendance)
	r.With(s.authMiddleware, s.requireView(auth.ViewStudentAttendance)).Get("/attendance/students", s.handleStudentAttendanceOn)
	r.With(s.authMiddleware, s.requireView(auth.ViewTeacherAttendance)).Post("/attendance/teachers", s.handleMarkTeacherAttendance)
	r.With(s.authMiddleware, s.requireView(auth.ViewTeacherAttendance)).Get("/attendance/teachers", s.handleTeacherAttendanceOn)

	r.With(s.authMiddleware, s.requireView(auth.ViewStudentResults)).Post("/results", s.handleRecordResult)
	r.With(s.authMiddleware, s.requireView(auth.ViewStudentResults)).Get("/results/report", s.handleReportCard)
	r.With(s.authMiddleware, s.requireView(auth.ViewRecords)).Get("/results", s.handleListResults)

	r.Route("/users", func(r chi.Router) {
		r.Use(s.authMiddleware, s.requireView(auth.ViewManageUsers))
		r.Get("/", s.handleListUsers)
		r.Post("/", s.handleAddUser)
		r.Patch("/{username}/password", s.handleSetPassword)
		r.Delete("/{username}", s.handleDeleteUser)
	})

	return r
}

// Auth

type claimsKey struct{}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r.Header.Get("Authorization"))
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing_token", "authorization header required")
			return
		}
		claims, err := auth.ParseToken(s.cfg.JWTSecret, s.cfg.JWTIssuer, token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid_token", "token is invalid or expired")
			return
		}
		if _, ok := s.sessions.Get(claims.ID); !ok {
			writeError(w, http.StatusUnauthorized, "session_expired", "session has been signed out")
			return
		}
		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func claimsFromContext(ctx context.Context) *auth.Claims {
	value := ctx.Value(claimsKey{})
	claims, _ := value.(*auth.Claims)
	return claims
}

// requireView gates a route on the role table entries for the given views;
// access to any one of them is enough. The view table is the single
// authorization source; handlers never re-check roles.
func (s *Server) requireView(views ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := claimsFromContext(r.Context())
			if claims == nil {
				writeError(w, http.StatusUnauthorized, "missing_token", "authorization header required")
				return
			}
			for _, view := range views {
				if auth.CanAccess(view, claims.Role) {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeError(w, http.StatusForbidden, "forbidden", "role may not access "+strings.Join(views, " or "))
		})
	}
}

// Models

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userSummary struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

type loginResponse struct {
	AccessToken string      `json:"accessToken"`
	User        userSummary `json:"user"`
	Views       []string    `json:"views"`
}

type meResponse struct {
	User  userSummary `json:"user"`
	Views []string    `json:"views"`
	View  string      `json:"view"`
}

type enrollStudentRequest struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Class string `json:"class"`
}

type registerTeacherRequest struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Subject string `json:"subject"`
	Phone   string `json:"phone"`
}

type markAttendanceRequest struct {
	ID     string `json:"id"`
	Date   string `json:"date"`
	Status string `json:"status"`
}

type recordResultRequest struct {
	StudentID string `json:"studentId"`
	Subject   string `json:"subject"`
	Marks     int    `json:"marks"`
}

type addUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Name     string `json:"name"`
}

type setPasswordRequest struct {
	Password string `json:"password"`
}

type setViewRequest struct {
	View string `json:"view"`
}

type studentResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Class string `json:"class"`
}

type teacherResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Subject string `json:"subject"`
	Phone   string `json:"phone"`
}

type studentAttendanceResponse struct {
	StudentID string `json:"studentId"`
	Name      string `json:"name"`
	Class     string `json:"class"`
	Date      string `json:"date"`
	Status    string `json:"status"`
}

type teacherAttendanceResponse struct {
	TeacherID string `json:"teacherId"`
	Name      string `json:"name"`
	Date      string `json:"date"`
	Status    string `json:"status"`
}

type resultResponse struct {
	StudentID string `json:"studentId"`
	Name      string `json:"name"`
	Subject   string `json:"subject"`
	Marks     int    `json:"marks"`
	Grade     string `json:"grade"`
}

type reportCardResponse struct {
	Student string           `json:"student"`
	Results []resultResponse `json:"results"`
	Average float64          `json:"average"`
}

// Handlers

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "malformed request body")
		return
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "missing_credentials", "username and password are required")
		return
	}

	user, err := s.school.Authenticate(req.Username, req.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid username or password")
		return
	}

	token, tokenID, err := auth.NewAccessToken(s.cfg.JWTSecret, s.cfg.JWTIssuer, s.cfg.AccessTokenTTL, user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "token_error", "could not issue token")
		return
	}
	s.sessions.Create(tokenID, user)

	writeJSON(w, http.StatusOK, loginResponse{
		AccessToken: token,
		User:        userSummary{Username: user.Username, Name: user.Name, Role: user.Role},
		Views:       auth.AllowedViews(user.Role),
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	s.sessions.Revoke(claims.ID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "signed_out"})
}

func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	view := ""
	if sess, ok := s.sessions.Get(claims.ID); ok {
		view = sess.View()
	}
	writeJSON(w, http.StatusOK, meResponse{
		User:  userSummary{Username: claims.Username, Name: claims.Name, Role: claims.Role},
		Views: auth.AllowedViews(claims.Role),
		View:  view,
	})
}

func (s *Server) handleSetView(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	var req setViewRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "malformed request body")
		return
	}
	sess, ok := s.sessions.Get(claims.ID)
	if !ok {
		writeError(w, http.StatusUnauthorized, "session_expired", "session has been signed out")
		return
	}
	if err := sess.SetView(req.View); err != nil {
		writeError(w, http.StatusForbidden, "forbidden", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"view": sess.View()})
}

func (s *Server) handleDashboard(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.school.Summary())
}

func (s *Server) handleListClasses(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.school.Classes())
}

func (s *Server) handleEnrollStudent(w http.ResponseWriter, r *http.Request) {
	var req enrollStudentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "malformed request body")
		return
	}
	student := model.Student{ID: req.ID, Name: req.Name, Class: req.Class}
	if err := s.school.EnrollStudent(student); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, studentResponse{ID: strings.TrimSpace(req.ID), Name: strings.TrimSpace(req.Name), Class: req.Class})
}

func (s *Server) handleListStudents(w http.ResponseWriter, r *http.Request) {
	students := s.school.ListStudents(r.URL.Query().Get("class"))
	out := make([]studentResponse, len(students))
	for i, student := range students {
		out[i] = studentResponse{ID: student.ID, Name: student.Name, Class: student.Class}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRegisterTeacher(w http.ResponseWriter, r *http.Request) {
	var req registerTeacherRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "malformed request body")
		return
	}
	teacher := model.Teacher{ID: req.ID, Name: req.Name, Subject: req.Subject, Phone: req.Phone}
	if err := s.school.RegisterTeacher(teacher); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, teacherResponse{ID: strings.TrimSpace(req.ID), Name: strings.TrimSpace(req.Name), Subject: req.Subject, Phone: strings.TrimSpace(req.Phone)})
}

func (s *Server) handleListTeachers(w http.ResponseWriter, _ *http.Request) {
	teachers := s.school.ListTeachers()
	out := make([]teacherResponse, len(teachers))
	for i, teacher := range teachers {
		out[i] = teacherResponse{ID: teacher.ID, Name: teacher.Name, Subject: teacher.Subject, Phone: teacher.Phone}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleMarkStudentAttendance(w http.ResponseWriter, r *http.Request) {
	var req markAttendanceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "malformed request body")
		return
	}
	entry, err := s.school.MarkStudentAttendance(req.ID, req.Date, req.Status)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, studentAttendanceResponse{
		StudentID: entry.StudentID, Name: entry.Name, Class: entry.Class, Date: entry.Date, Status: entry.Status,
	})
}

func (s *Server) handleStudentAttendanceOn(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "date query parameter is required")
		return
	}
	entries := s.school.StudentAttendanceOn(date, r.URL.Query().Get("class"))
	out := make([]studentAttendanceResponse, len(entries))
	for i, entry := range entries {
		out[i] = studentAttendanceResponse{
			StudentID: entry.StudentID, Name: entry.Name, Class: entry.Class, Date: entry.Date, Status: entry.Status,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleMarkTeacherAttendance(w http.ResponseWriter, r *http.Request) {
	var req markAttendanceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "malformed request body")
		return
	}
	entry, err := s.school.MarkTeacherAttendance(req.ID, req.Date, req.Status)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, teacherAttendanceResponse{
		TeacherID: entry.TeacherID, Name: entry.Name, Date: entry.Date, Status: entry.Status,
	})
}

func (s *Server) handleTeacherAttendanceOn(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "date query parameter is required")
		return
	}
	entries := s.school.TeacherAttendanceOn(date)
	out := make([]teacherAttendanceResponse, len(entries))
	for i, entry := range entries {
		out[i] = teacherAttendanceResponse{
			TeacherID: entry.TeacherID, Name: entry.Name, Date: entry.Date, Status: entry.Status,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRecordResult(w http.ResponseWriter, r *http.Request) {
	var req recordResultRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "malformed request body")
		return
	}
	result, err := s.school.RecordResult(req.StudentID, req.Subject, req.Marks)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resultResponse{
		StudentID: result.StudentID, Name: result.Name, Subject: result.Subject, Marks: result.Marks, Grade: result.Grade,
	})
}

func (s *Server) handleReportCard(w http.ResponseWriter, r *http.Request) {
	student := r.URL.Query().Get("student")
	if student == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "student query parameter is required")
		return
	}
	results, average := s.school.ReportCard(student)
	out := make([]resultResponse, len(results))
	for i, result := range results {
		out[i] = resultResponse{
			StudentID: result.StudentID, Name: result.Name, Subject: result.Subject, Marks: result.Marks, Grade: result.Grade,
		}
	}
	writeJSON(w, http.StatusOK, reportCardResponse{Student: student, Results: out, Average: average})
}

func (s *Server) handleListResults(w http.ResponseWriter, _ *http.Request) {
	results := s.school.ListResults()
	out := make([]resultResponse, len(results))
	for i, result := range results {
		out[i] = resultResponse{
			StudentID: result.StudentID, Name: result.Name, Subject: result.Subject, Marks: result.Marks, Grade: result.Grade,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleListUsers(w http.ResponseWriter, _ *http.Request) {
	users := s.school.ListUsers()
	out := make([]userSummary, len(users))
	for i, user := range users {
		out[i] = userSummary{Username: user.Username, Name: user.Name, Role: user.Role}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAddUser(w http.ResponseWriter, r *http.Request) {
	var req addUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "malformed request body")
		return
	}
	user := model.User{Username: req.Username, Password: req.Password, Role: req.Role, Name: req.Name}
	if err := s.school.AddUser(user); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, userSummary{Username: strings.TrimSpace(req.Username), Name: strings.TrimSpace(req.Name), Role: req.Role})
}

func (s *Server) handleSetPassword(w http.ResponseWriter, r *http.Request) {
	var req setPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "malformed request body")
		return
	}
	username := chi.URLParam(r, "username")
	if err := s.school.SetPassword(username, req.Password); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "password_updated"})
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	username := chi.URLParam(r, "username")
	if err := s.school.DeleteUser(claims.Username, username); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Utilities

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func decodeJSON(r *http.Request, out interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(out)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{"error": code, "message": message})
}

// writeDomainError maps the school error taxonomy onto status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	var validation *school.ValidationError
	var conflict *school.ConflictError
	var notFound *school.NotFoundError
	switch {
	case errors.As(err, &validation):
		writeError(w, http.StatusBadRequest, "validation_failed", validation.Reason)
	case errors.As(err, &conflict):
		writeError(w, http.StatusConflict, "conflict", conflict.Reason)
	case errors.As(err, &notFound):
		writeError(w, http.StatusNotFound, "not_found", notFound.Reason)
	default:
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
	}
}
