package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/neurolock/neurolock/internal/neurolock/store/drivers/sqlite"
)

const testCompanyCode = "230106"

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func TestRegisterAssignsSequentialBadges(t *testing.T) {
	ctx := context.Background()
	svc := &EmployeeService{Store: newTestStore(t), CompanyCode: testCompanyCode}

	first, err := svc.Register(ctx, "Ada Lovelace", testCompanyCode, "correct-horse", "correct-horse")
	require.NoError(t, err)
	require.Equal(t, "E100", first.EmpID)

	second, err := svc.Register(ctx, "Grace Hopper", testCompanyCode, "battery-staple", "battery-staple")
	require.NoError(t, err)
	require.Equal(t, "E101", second.EmpID)
}

func TestRegisterValidation(t *testing.T) {
	ctx := context.Background()
	svc := &EmployeeService{Store: newTestStore(t), CompanyCode: testCompanyCode}

	_, err := svc.Register(ctx, "  ", testCompanyCode, "long-enough-pw", "long-enough-pw")
	require.ErrorIs(t, err, ErrNameRequired)

	_, err = svc.Register(ctx, "Ada", "999999", "long-enough-pw", "long-enough-pw")
	require.ErrorIs(t, err, ErrBadCompanyCode)

	_, err = svc.Register(ctx, "Ada", testCompanyCode, "long-enough-pw", "different")
	require.ErrorIs(t, err, ErrPasswordMismatch)

	_, err = svc.Register(ctx, "Ada", testCompanyCode, "short", "short")
	require.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc := &EmployeeService{Store: newTestStore(t), CompanyCode: testCompanyCode}

	emp, err := svc.Register(ctx, "Ada Lovelace", testCompanyCode, "correct-horse", "correct-horse")
	require.NoError(t, err)

	got, err := svc.Authenticate(ctx, emp.EmpID, "correct-horse")
	require.NoError(t, err)
	require.Equal(t, emp.EmpID, got.EmpID)
	require.Equal(t, "Ada Lovelace", got.Name)

	_, err = svc.Authenticate(ctx, emp.EmpID, "wrong-password")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	// Unknown badges fail with the same error as bad passwords.
	_, err = svc.Authenticate(ctx, "E999", "correct-horse")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	svc := &EmployeeService{Store: newTestStore(t), CompanyCode: testCompanyCode}

	emp, err := svc.Register(ctx, "Ada Lovelace", testCompanyCode, "correct-horse", "correct-horse")
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, emp.EmpID, "wrong-password", "battery-staple")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	err = svc.ChangePassword(ctx, emp.EmpID, "correct-horse", "short")
	require.ErrorIs(t, err, ErrPasswordTooShort)

	require.NoError(t, svc.ChangePassword(ctx, emp.EmpID, "correct-horse", "battery-staple"))

	// The old password stops working and the new one takes over.
	_, err = svc.Authenticate(ctx, emp.EmpID, "correct-horse")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	got, err := svc.Authenticate(ctx, emp.EmpID, "battery-staple")
	require.NoError(t, err)
	require.Equal(t, emp.EmpID, got.EmpID)
}

func TestEmployeeTableStartsEmpty(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &EmployeeService{Store: st, CompanyCode: testCompanyCode}

	empty, err := st.Employees().IsEmpty(ctx)
	require.NoError(t, err)
	require.True(t, empty)

	_, err = svc.Register(ctx, "Ada", testCompanyCode, "correct-horse", "correct-horse")
	require.NoError(t, err)

	empty, err = st.Employees().IsEmpty(ctx)
	require.NoError(t, err)
	require.False(t, empty)
}

func TestAuthenticateStoresNoPlaintext(t *testing.T) {
	ctx := context.Background()
	svc := &EmployeeService{Store: newTestStore(t), CompanyCode: testCompanyCode}

	emp, err := svc.Register(ctx, "Ada", testCompanyCode, "correct-horse", "correct-horse")
	require.NoError(t, err)
	require.NotContains(t, emp.PasswordHash, "correct-horse")
	require.Contains(t, emp.PasswordHash, "$argon2id$")
}
