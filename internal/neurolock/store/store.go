package store

import (
	"context"
	"errors"
	"time"

	"github.com/neurolock/neurolock/internal/neurolock/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite today)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable.
type Store interface {
	Employees() Employees
	Captures() Captures

	ApplyMigrations() error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

type Employees interface {
	// GetEmployeeByID returns an employee by badge id.
	GetEmployeeByID(ctx context.Context, empID string) (domain.Employee, error)

	// CreateEmployee inserts a new employee (emp_id is assigned by the caller).
	CreateEmployee(ctx context.Context, e domain.Employee) error

	// NextSequence returns the highest numeric suffix among assigned badge
	// ids, or 0 when the table is empty. Callers derive the next badge from it.
	NextSequence(ctx context.Context) (int, error)

	// UpdatePasswordHash sets the password_hash (argon2) and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, empID string, newHash string) error

	// UpdateTOTPSecret sets the TOTP secret and bumps updated_at.
	UpdateTOTPSecret(ctx context.Context, empID string, secret string) error

	// IsEmpty returns true if there are no employees.
	IsEmpty(ctx context.Context) (bool, error)
}

type Captures interface {
	// CreateCapture stores the audit record of one verification attempt.
	CreateCapture(ctx context.Context, c domain.Capture) error

	// ListCapturesByEmployee returns captures for an employee, newest first.
	ListCapturesByEmployee(ctx context.Context, empID string, limit int) ([]domain.Capture, error)

	// DeleteCapturesBefore removes capture rows older than the cutoff and
	// returns the image paths of the removed rows so files can be reaped.
	DeleteCapturesBefore(ctx context.Context, cutoff time.Time) ([]string, error)
}
