package domain

type Role string

const (
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

func (r Role) Valid() bool {
	return r == RoleDoctor || r == RolePatient
}

// Recipient identifies one side of an appointment. Doctor and patient IDs
// live in separate collections, so the role is part of the identity.
type Recipient struct {
	ID   int64 `json:"id"`
	Role Role  `json:"role"`
}
