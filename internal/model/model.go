package model

// Roles known to the system. A user's role decides which views the
// presentation layer may show and which operations it may invoke.
const (
	RoleAdmin     = "admin"
	RolePrincipal = "principal"
	RoleTeacher   = "teacher"
)

// Attendance statuses.
const (
	StatusPresent = "Present"
	StatusAbsent  = "Absent"
	StatusLeave   = "Leave"
)

// User is a system account. Passwords are stored in plain text for
// compatibility with existing users.csv files; see the warning in README.
type User struct {
	Username string
	Password string
	Role     string
	Name     string
}

type Student struct {
	ID    string
	Name  string
	Class string
}

type Teacher struct {
	ID      string
	Name    string
	Subject string
	Phone   string
}

// StudentAttendance is one status for one student on one day. Name and
// Class are copied from the student record at marking time, not linked.
type StudentAttendance struct {
	StudentID string
	Name      string
	Class     string
	Date      string
	Status    string
}

type TeacherAttendance struct {
	TeacherID string
	Name      string
	Date      string
	Status    string
}

// Result is one exam result. Rows are keyed by (Name, Subject), matching
// the historical file format: two students sharing a name collide.
type Result struct {
	StudentID string
	Name      string
	Subject   string
	Marks     int
	Grade     string
}

// Summary holds the dashboard counters.
type Summary struct {
	Students int `json:"students"`
	Teachers int `json:"teachers"`
	Results  int `json:"results"`
}

func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RolePrincipal, RoleTeacher:
		return true
	}
	return false
}

func ValidStatus(status string) bool {
	switch status {
	case StatusPresent, StatusAbsent, StatusLeave:
		return true
	}
	return false
}
