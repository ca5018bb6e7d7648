package domain

// Role identifies the kind of account behind a profile.
type Role string

const (
	RoleStudent     Role = "student"
	RoleMentor      Role = "mentor"
	RoleInstitution Role = "institution"
	RoleParent      Role = "parent"
)

// ValidRole reports whether r is one of the known account roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleStudent, RoleMentor, RoleInstitution, RoleParent:
		return true
	}
	return false
}

// VerificationStatus is the explicit state of an education record's
// institution verification. The column is a nullable boolean; this enum
// keeps the state machine exhaustively matchable in code.
type VerificationStatus string

const (
	VerificationUnverified VerificationStatus = "unverified"
	VerificationVerified   VerificationStatus = "verified"
	VerificationRejected   VerificationStatus = "rejected"
)

// VerificationFromColumn maps the stored nullable boolean to the enum.
func VerificationFromColumn(v *bool) VerificationStatus {
	switch {
	case v == nil:
		return VerificationUnverified
	case *v:
		return VerificationVerified
	default:
		return VerificationRejected
	}
}

// Column maps the enum back to the stored nullable boolean.
func (s VerificationStatus) Column() *bool {
	switch s {
	case VerificationVerified:
		t := true
		return &t
	case VerificationRejected:
		f := false
		return &f
	default:
		return nil
	}
}

// Decided reports whether the status is terminal. Verify and reject both
// are; there is no un-verify transition.
func (s VerificationStatus) Decided() bool {
	return s == VerificationVerified || s == VerificationRejected
}
