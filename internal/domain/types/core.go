package types

// Role is the kind of user the app is acting for.
type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
)

// Valid reports whether r is one of the two assignable roles.
func (r Role) Valid() bool { return r == RolePatient || r == RoleDoctor }

// String returns the string form of the role.
func (r Role) String() string { return string(r) }

// ParseRole converts user input to a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", &ValidationError{Field: "role", Message: "must be patient or doctor"}
	}
	return r, nil
}

// Route names a navigation target.
type Route string

const (
	RouteWelcome          Route = "welcome"
	RouteRoleSelection    Route = "role-selection"
	RoutePatientDashboard Route = "patient-dashboard"
	RouteDoctorDashboard  Route = "doctor-dashboard"
)

// String returns the string form of the route.
func (r Route) String() string { return string(r) }

// SessionID identifies a hand-off session issued by the vault server.
type SessionID string

// String returns the string form of the session id.
func (id SessionID) String() string { return string(id) }

// RecordID identifies one patient record within a hand-off session.
type RecordID string

// String returns the string form of the record id.
func (id RecordID) String() string { return string(id) }
