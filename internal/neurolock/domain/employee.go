package domain

import "time"

// Employee is a registered operator identified by a sequential badge ID.
type Employee struct {
	EmpID        string
	Name         string
	PasswordHash string
	TOTPSecret   string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TOTPEnrolled reports whether the employee completed TOTP enrollment.
func (e Employee) TOTPEnrolled() bool {
	return e.TOTPSecret != ""
}

// TOTPEnrollment is what a fresh enrollment hands back for the
// authenticator app.
type TOTPEnrollment struct {
	Secret  string
	URL     string
	Issuer  string
	Account string
}
