package domain

// Role is the kind of principal an Account represents.
type Role string

const (
	RoleDoctor  Role = "DOCTOR"
	RolePatient Role = "PATIENT"
)

// IsValid checks if a role is valid
func (r Role) IsValid() bool {
	switch r {
	case RoleDoctor, RolePatient:
		return true
	}
	return false
}

// DisplayName returns a user-friendly display name for the role
func (r Role) DisplayName() string {
	switch r {
	case RoleDoctor:
		return "Doctor"
	case RolePatient:
		return "Patient"
	default:
		return string(r)
	}
}
