package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	"github.com/neurolock/neurolock/internal/neurolock/domain"
	"github.com/neurolock/neurolock/internal/neurolock/store"
)

var (
	ErrInvalidTOTPCode = errors.New("invalid TOTP code")
	ErrTOTPNotEnrolled = errors.New("TOTP not enrolled for this employee")
	ErrTOTPEnrolled    = errors.New("TOTP already enrolled for this employee")
)

// MFAService manages the TOTP fallback used when the liveness check cannot
// clear the focus threshold (poor lighting, webcam trouble).
type MFAService struct {
	Store  store.Store
	Issuer string // issuer name shown in authenticator apps
}

// EnrollTOTP generates a TOTP secret for the employee and returns the
// otpauth URL for the authenticator app.
func (s *MFAService) EnrollTOTP(ctx context.Context, empID string) (domain.TOTPEnrollment, error) {
	emp, err := s.Store.Employees().GetEmployeeByID(ctx, empID)
	if err != nil {
		return domain.TOTPEnrollment{}, fmt.Errorf("failed to load employee: %w", err)
	}
	if emp.TOTPEnrolled() {
		return domain.TOTPEnrollment{}, ErrTOTPEnrolled
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.Issuer,
		AccountName: empID,
		Period:      30,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return domain.TOTPEnrollment{}, fmt.Errorf("failed to generate TOTP key: %w", err)
	}

	if err := s.Store.Employees().UpdateTOTPSecret(ctx, empID, key.Secret()); err != nil {
		return domain.TOTPEnrollment{}, fmt.Errorf("failed to store TOTP secret: %w", err)
	}

	return domain.TOTPEnrollment{
		Secret:  key.Secret(),
		URL:     key.URL(),
		Issuer:  s.Issuer,
		Account: empID,
	}, nil
}

// VerifyTOTP checks a one-time code against the employee's enrolled secret.
func (s *MFAService) VerifyTOTP(ctx context.Context, empID string, code string) error {
	emp, err := s.Store.Employees().GetEmployeeByID(ctx, empID)
	if err != nil {
		return fmt.Errorf("failed to load employee: %w", err)
	}
	if !emp.TOTPEnrolled() {
		return ErrTOTPNotEnrolled
	}

	if !totp.Validate(code, emp.TOTPSecret) {
		return ErrInvalidTOTPCode
	}
	return nil
}
