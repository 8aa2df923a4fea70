package auth

// View identifiers. The presentation layer shows at most these pages; the
// HTTP layer refuses any request whose route maps to a view the caller's
// role is not granted.
const (
	ViewDashboard         = "Dashboard"
	ViewAddStudent        = "Add Student"
	ViewAddTeacher        = "Add Teacher"
	ViewStudentAttendance = "Student Attendance"
	ViewTeacherAttendance = "Teacher Attendance"
	ViewStudentResults    = "Student Results"
	ViewRecords           = "View Records"
	ViewManageUsers       = "Manage Users"
)

// DefaultView is the landing view after login.
const DefaultView = ViewDashboard

// rolePages is the single source of truth for authorization. Manage Users
// is admin-exclusive; Add Student, Add Teacher and View Records are for
// principal and admin only.
var rolePages = map[string][]string{
	"admin": {
		ViewDashboard,
		ViewAddStudent,
		ViewAddTeacher,
		ViewStudentAttendance,
		ViewTeacherAttendance,
		ViewStudentResults,
		ViewRecords,
		ViewManageUsers,
	},
	"principal": {
		ViewDashboard,
		ViewAddStudent,
		ViewAddTeacher,
		ViewStudentAttendance,
		ViewTeacherAttendance,
		ViewStudentResults,
		ViewRecords,
	},
	"teacher": {
		ViewDashboard,
		ViewStudentAttendance,
		ViewStudentResults,
	},
}

// AllowedViews returns the ordered views a role may reach. An unknown role
// gets no views rather than an error.
func AllowedViews(role string) []string {
	views, ok := rolePages[role]
	if !ok {
		return nil
	}
	return append([]string(nil), views...)
}

// CanAccess reports whether the role may reach the view.
func CanAccess(view, role string) bool {
	for _, allowed := range rolePages[role] {
		if allowed == view {
			return true
		}
	}
	return false
}
