package jwtx_test

import (
	"testing"
	"time"

	"github.com/neurolock/neurolock/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestSignAndVerifyRoundTrip(t *testing.T) {
	t.Parallel()

	kp, err := jwtx.NewEphemeralKeypair("neurolock-test")
	require.NoError(t, err)

	claims := jwtx.NewSessionClaims(
		"01ARZ3NDEKTSV4RRFFQ69G5FAV", "sid-1", "E100",
		jwtx.StagePending, []string{jwtx.AMRPassword},
		time.Hour, "neurolock-test", time.Now(),
	)

	token, err := kp.Sign(claims)
	require.NoError(t, err)

	parsed, err := kp.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "E100", parsed.EmpID)
	require.Equal(t, jwtx.StagePending, parsed.Stage)
	require.Equal(t, []string{jwtx.AMRPassword}, parsed.AMR)
	require.False(t, parsed.Authenticated())
}

func TestVerifyRejectsForeignKey(t *testing.T) {
	t.Parallel()

	a, err := jwtx.NewEphemeralKeypair("neurolock-test")
	require.NoError(t, err)
	b, err := jwtx.NewEphemeralKeypair("neurolock-test")
	require.NoError(t, err)

	claims := jwtx.NewSessionClaims(
		"sub", "sid", "E101", jwtx.StageAuthenticated,
		[]string{jwtx.AMRPassword, jwtx.AMRFace},
		time.Hour, "neurolock-test", time.Now(),
	)

	token, err := a.Sign(claims)
	require.NoError(t, err)

	_, err = b.Verify(token)
	require.Error(t, err)
}

func TestVerifyRejectsExpired(t *testing.T) {
	t.Parallel()

	kp, err := jwtx.NewEphemeralKeypair("neurolock-test")
	require.NoError(t, err)

	claims := jwtx.NewSessionClaims(
		"sub", "sid", "E102", jwtx.StagePending, []string{jwtx.AMRPassword},
		time.Minute, "neurolock-test", time.Now().Add(-2*time.Minute),
	)

	token, err := kp.Sign(claims)
	require.NoError(t, err)

	_, err = kp.Verify(token)
	require.Error(t, err)
}

func TestVerifyRejectsWrongIssuer(t *testing.T) {
	t.Parallel()

	kp, err := jwtx.NewEphemeralKeypair("expected-issuer")
	require.NoError(t, err)

	claims := jwtx.NewSessionClaims(
		"sub", "sid", "E103", jwtx.StagePending, []string{jwtx.AMRPassword},
		time.Hour, "other-issuer", time.Now(),
	)

	token, err := kp.Sign(claims)
	require.NoError(t, err)

	_, err = kp.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrIssuer)
}
