package models

// RoleType defines the user role type
type RoleType string

const (
	RoleStudent RoleType = "STUDENT"
	RoleTeacher RoleType = "TEACHER"
)

// Valid reports whether r is one of the known roles
func (r RoleType) Valid() bool {
	return r == RoleStudent || r == RoleTeacher
}

// Permission strings granted through roles
const (
	PermAddCourse     = "courses.add_course"
	PermChangeCourse  = "courses.change_course"
	PermDeleteCourse  = "courses.delete_course"
	PermAddContent    = "courses.add_content"
	PermChangeContent = "courses.change_content"
	PermDeleteContent = "courses.delete_content"
	PermEnrollCourse  = "courses.enroll_course"
	PermAddReview     = "courses.add_review"
)

var rolePermissions = map[RoleType][]string{
	RoleTeacher: {
		PermAddCourse,
		PermChangeCourse,
		PermDeleteCourse,
		PermAddContent,
		PermChangeContent,
		PermDeleteContent,
	},
	RoleStudent: {
		PermEnrollCourse,
		PermAddReview,
	},
}

// PermissionsFor returns the permission strings held by a role
func PermissionsFor(role RoleType) []string {
	perms := rolePermissions[role]
	out := make([]string, len(perms))
	copy(out, perms)
	return out
}

// HasPermission reports whether role holds every permission in perms
func HasPermission(role RoleType, perms ...string) bool {
	held := rolePermissions[role]
	for _, p := range perms {
		found := false
		for _, h := range held {
			if h == p {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
