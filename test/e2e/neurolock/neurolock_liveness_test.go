package neurolock_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/neurolock/neurolock/pkg/neurosdk"
)

func TestLivenessHappyPath(t *testing.T) {
	baseURL, cleanup := setupContainer(t)
	defer cleanup()
	ctx := context.Background()

	client := neurosdk.NewClient(baseURL)
	registerAndLogin(t, client)

	challenge, err := client.IssueChallenge(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, challenge.Nonce)
	require.NotEmpty(t, challenge.Label)
	require.Equal(t, 8, challenge.TTL)

	verify, err := client.SubmitVerification(ctx, passingVerifyRequest(challenge))
	require.NoError(t, err)
	require.Equal(t, "success", verify.Status)
	require.Equal(t, 0.95, verify.FocusScore)

	session, err := client.Session(ctx)
	require.NoError(t, err)
	require.True(t, session.Authenticated)
	require.Contains(t, session.AMR, "face")
}

func TestLivenessNonceSingleUse(t *testing.T) {
	baseURL, cleanup := setupContainer(t)
	defer cleanup()
	ctx := context.Background()

	client := neurosdk.NewClient(baseURL)
	registerAndLogin(t, client)

	challenge, err := client.IssueChallenge(ctx)
	require.NoError(t, err)

	req := passingVerifyRequest(challenge)
	_, err = client.SubmitVerification(ctx, req)
	require.NoError(t, err)

	// Replaying the same nonce reports unknown_nonce, not a stale state.
	_, err = client.SubmitVerification(ctx, req)
	assertRejected(t, err, neurosdk.ReasonUnknownNonce)
}

func TestLivenessFailedAttemptBurnsNonce(t *testing.T) {
	baseURL, cleanup := setupContainer(t)
	defer cleanup()
	ctx := context.Background()

	client := neurosdk.NewClient(baseURL)
	registerAndLogin(t, client)

	challenge, err := client.IssueChallenge(ctx)
	require.NoError(t, err)

	// Fail the confidence gate.
	req := passingVerifyRequest(challenge)
	req.FocusScore = 0.1
	_, err = client.SubmitVerification(ctx, req)
	assertRejected(t, err, neurosdk.ReasonLowFocus)

	// A perfect retry on the same nonce is too late.
	req.FocusScore = 0.95
	_, err = client.SubmitVerification(ctx, req)
	assertRejected(t, err, neurosdk.ReasonUnknownNonce)

	session, err := client.Session(ctx)
	require.NoError(t, err)
	require.False(t, session.Authenticated)
}

func TestLivenessChallengeExpiry(t *testing.T) {
	baseURL, cleanup := setupContainer(t)
	defer cleanup()
	ctx := context.Background()

	client := neurosdk.NewClient(baseURL)
	registerAndLogin(t, client)

	challenge, err := client.IssueChallenge(ctx)
	require.NoError(t, err)

	// Sleep past TTL + grace (8s + 2s).
	time.Sleep(11 * time.Second)

	req := passingVerifyRequest(challenge)
	_, err = client.SubmitVerification(ctx, req)
	assertRejected(t, err, neurosdk.ReasonChallengeExpired)
}

func TestLivenessStaleTimestamp(t *testing.T) {
	baseURL, cleanup := setupContainer(t)
	defer cleanup()
	ctx := context.Background()

	client := neurosdk.NewClient(baseURL)
	registerAndLogin(t, client)

	challenge, err := client.IssueChallenge(ctx)
	require.NoError(t, err)

	req := passingVerifyRequest(challenge)
	req.Ts = float64(time.Now().Add(-time.Minute).UnixNano()) / 1e9
	_, err = client.SubmitVerification(ctx, req)
	assertRejected(t, err, neurosdk.ReasonStaleTimestamp)
}

func TestLivenessFaceTooSmall(t *testing.T) {
	baseURL, cleanup := setupContainer(t)
	defer cleanup()
	ctx := context.Background()

	client := neurosdk.NewClient(baseURL)
	registerAndLogin(t, client)

	challenge, err := client.IssueChallenge(ctx)
	require.NoError(t, err)

	req := passingVerifyRequest(challenge)
	req.Face = "aGVsbG8=" // far below the 5000-byte floor
	_, err = client.SubmitVerification(ctx, req)
	assertRejected(t, err, neurosdk.ReasonFaceInvalid)
}

func TestLivenessWrongChallengeClaim(t *testing.T) {
	baseURL, cleanup := setupContainer(t)
	defer cleanup()
	ctx := context.Background()

	client := neurosdk.NewClient(baseURL)
	registerAndLogin(t, client)

	challenge, err := client.IssueChallenge(ctx)
	require.NoError(t, err)

	req := passingVerifyRequest(challenge)
	if challenge.Challenge == "smile" {
		req.ChallengeObserved = "blink_twice"
	} else {
		req.ChallengeObserved = "smile"
	}
	_, err = client.SubmitVerification(ctx, req)
	assertRejected(t, err, neurosdk.ReasonChallengeNotVerified)
}

func TestLivenessRequiresPendingSession(t *testing.T) {
	baseURL, cleanup := setupContainer(t)
	defer cleanup()
	ctx := context.Background()

	// Fresh client with no session at all.
	client := neurosdk.NewClient(baseURL)

	_, err := client.IssueChallenge(ctx)
	var apiErr *neurosdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}
