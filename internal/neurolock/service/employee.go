package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/neurolock/neurolock/internal/neurolock/domain"
	"github.com/neurolock/neurolock/internal/neurolock/store"
	"github.com/neurolock/neurolock/pkg/cryptox"
)

var (
	ErrBadCompanyCode     = errors.New("company code mismatch")
	ErrPasswordMismatch   = errors.New("password confirmation mismatch")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNameRequired       = errors.New("name is required")
	ErrPasswordTooShort   = errors.New("password too short")
)

const (
	minPasswordLength = 8

	// Badge ids start at E100 to keep them visually distinct from small
	// integers in logs and spreadsheets.
	empIDBase = 100
)

// EmployeeService registers employees and checks password credentials.
type EmployeeService struct {
	Store store.Store

	// CompanyCode gates self-registration. Compared verbatim.
	CompanyCode string

	// assignMu serializes badge assignment so two concurrent registrations
	// never derive the same sequence number.
	assignMu sync.Mutex
}

// Register creates a new employee and returns the assigned badge id.
func (s *EmployeeService) Register(ctx context.Context, name, companyCode, password, confirm string) (domain.Employee, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Employee{}, ErrNameRequired
	}
	if companyCode != s.CompanyCode {
		return domain.Employee{}, ErrBadCompanyCode
	}
	if password != confirm {
		return domain.Employee{}, ErrPasswordMismatch
	}
	if len(password) < minPasswordLength {
		return domain.Employee{}, ErrPasswordTooShort
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.Employee{}, fmt.Errorf("failed to hash password: %w", err)
	}

	s.assignMu.Lock()
	defer s.assignMu.Unlock()

	seq, err := s.Store.Employees().NextSequence(ctx)
	if err != nil {
		return domain.Employee{}, fmt.Errorf("failed to read badge sequence: %w", err)
	}
	if seq < empIDBase-1 {
		seq = empIDBase - 1
	}

	now := time.Now().UTC()
	emp := domain.Employee{
		EmpID:        fmt.Sprintf("E%d", seq+1),
		Name:         name,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Store.Employees().CreateEmployee(ctx, emp); err != nil {
		return domain.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}
	return emp, nil
}

// Authenticate checks the password factor for an employee. It returns
// ErrInvalidCredentials for both unknown badges and wrong passwords so the
// caller leaks nothing about which one failed.
func (s *EmployeeService) Authenticate(ctx context.Context, empID, password string) (domain.Employee, error) {
	emp, err := s.Store.Employees().GetEmployeeByID(ctx, empID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Employee{}, ErrInvalidCredentials
		}
		return domain.Employee{}, fmt.Errorf("failed to load employee: %w", err)
	}

	if err := cryptox.VerifyPassword(password, emp.PasswordHash); err != nil {
		return domain.Employee{}, ErrInvalidCredentials
	}
	return emp, nil
}

// ChangePassword rotates an employee's password after re-checking the current
// one. The badge id comes from an authenticated session, so a missing row is a
// server error rather than a credential failure.
func (s *EmployeeService) ChangePassword(ctx context.Context, empID, current, next string) error {
	emp, err := s.Store.Employees().GetEmployeeByID(ctx, empID)
	if err != nil {
		return fmt.Errorf("failed to load employee: %w", err)
	}
	if err := cryptox.VerifyPassword(current, emp.PasswordHash); err != nil {
		return ErrInvalidCredentials
	}
	if len(next) < minPasswordLength {
		return ErrPasswordTooShort
	}

	hash, err := cryptox.HashPassword(next)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.Store.Employees().UpdatePasswordHash(ctx, empID, hash); err != nil {
		return fmt.Errorf("failed to update password hash: %w", err)
	}
	return nil
}

// GetEmployeeByID fetches an employee by badge id.
func (s *EmployeeService) GetEmployeeByID(ctx context.Context, empID string) (domain.Employee, error) {
	return s.Store.Employees().GetEmployeeByID(ctx, empID)
}
