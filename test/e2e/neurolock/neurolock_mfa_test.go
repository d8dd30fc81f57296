package neurolock_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"

	"github.com/neurolock/neurolock/pkg/neurosdk"
)

// TestMFAEnrollmentAndFallback tests the complete TOTP enrollment and fallback
// authentication flow. Enrollment requires a fully authenticated session, so
// the employee first passes the liveness check, enrolls, and then uses TOTP to
// finish a later login where the liveness check fails.
func TestMFAEnrollmentAndFallback(t *testing.T) {
	baseURL, cleanup := setupContainer(t)
	defer cleanup()

	client := neurosdk.NewClient(baseURL)
	ctx := context.Background()

	empID := registerAndLogin(t, client)

	// Pass the liveness check to reach the authenticated stage.
	challenge, err := client.IssueChallenge(ctx)
	require.NoError(t, err)
	_, err = client.SubmitVerification(ctx, passingVerifyRequest(challenge))
	require.NoError(t, err)

	// Enroll in TOTP.
	enrollResp, err := client.EnrollTOTP(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, enrollResp.Secret, "TOTP secret should be returned")
	require.NotEmpty(t, enrollResp.QRCode, "otpauth URL should be returned")
	require.Equal(t, empID, enrollResp.Account)

	// Confirm the enrollment with a generated code.
	err = client.VerifyTOTP(ctx, generateTOTP(t, enrollResp.Secret))
	require.NoError(t, err)
	t.Logf("TOTP enrollment completed for %s", empID)

	// Start over with a fresh pending session.
	err = client.Logout(ctx)
	require.NoError(t, err)
	_, err = client.Login(ctx, empID, testPassword)
	require.NoError(t, err)

	// Fail the liveness check, then fall back to TOTP.
	challenge2, err := client.IssueChallenge(ctx)
	require.NoError(t, err)
	failReq := passingVerifyRequest(challenge2)
	failReq.FocusScore = 0.1
	_, err = client.SubmitVerification(ctx, failReq)
	assertRejected(t, err, neurosdk.ReasonLowFocus)

	session, err := client.CompleteMFA(ctx, generateTOTP(t, enrollResp.Secret))
	require.NoError(t, err)
	require.True(t, session.Authenticated)
	require.Contains(t, session.AMR, "pwd")
	require.Contains(t, session.AMR, "otp")
	require.NotContains(t, session.AMR, "face")

	t.Logf("Authenticated via TOTP fallback, AMR: %v", session.AMR)
}

// TestMFARejectsInvalidCode verifies wrong and premature codes are rejected.
func TestMFARejectsInvalidCode(t *testing.T) {
	baseURL, cleanup := setupContainer(t)
	defer cleanup()

	client := neurosdk.NewClient(baseURL)
	ctx := context.Background()

	registerAndLogin(t, client)

	// MFA completion without any enrollment must fail.
	_, err := client.CompleteMFA(ctx, "000000")
	var apiErr *neurosdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	require.Equal(t, "totp_not_enrolled", apiErr.Code)

	// Enroll via the liveness path.
	challenge, err := client.IssueChallenge(ctx)
	require.NoError(t, err)
	_, err = client.SubmitVerification(ctx, passingVerifyRequest(challenge))
	require.NoError(t, err)

	enrollResp, err := client.EnrollTOTP(ctx)
	require.NoError(t, err)
	err = client.VerifyTOTP(ctx, generateTOTP(t, enrollResp.Secret))
	require.NoError(t, err)

	// Double enrollment is refused.
	_, err = client.EnrollTOTP(ctx)
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	require.Equal(t, "totp_already_enrolled", apiErr.Code)

	t.Logf("Invalid MFA scenarios correctly rejected")
}

// generateTOTP generates a TOTP code for the given secret.
func generateTOTP(t *testing.T, secret string) string {
	t.Helper()

	code, err := totp.GenerateCode(secret, time.Now())
	require.NoError(t, err)

	return code
}
