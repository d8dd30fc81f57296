package neurolock_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/neurolock/neurolock/pkg/neurosdk"
)

/*
 * Common constants and helper functions for liveness service end-to-end
 * tests. This includes container setup, flow helpers, and assertions.
 */

const (
	testImageName = "neurolock-test:latest"

	companyCode  = "230106"
	testName     = "Ada Lovelace"
	testPassword = "correct-horse-battery"
)

// TestMain manages the test lifecycle, builds the Docker image once before
// all tests and cleans it up after all tests complete.
func TestMain(m *testing.M) {
	fmt.Fprintf(os.Stdout, "Building NeuroLock Docker image...")

	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up NeuroLock Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

func buildDockerImage() error {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/neurolock/Dockerfile",
		"../../../")
	cmd.Dir = "."
	cmd.Stdout = os.Stdout
	cmd.Stderr = nil

	return cmd.Run()
}

func cleanupDockerImage() {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "rmi", "-f", testImageName)
	_ = cmd.Run() // Ignore errors - image might not exist
}

// setupContainer starts the liveness service in a container and returns the
// base URL. Rate limits are relaxed so rapid-fire tests don't trip them; the
// dedicated rate limit test uses setupContainerWithDefaultRateLimits.
func setupContainer(t *testing.T) (string, func()) {
	return setupContainerWithEnv(t, map[string]string{
		"RATELIMIT_STRICT_REQUESTS":   "1000",
		"RATELIMIT_STRICT_WINDOW_SEC": "60",
		"RATELIMIT_STRICT_BURST":      "1000",
		"RATELIMIT_MODERATE_REQUESTS": "1000",
		"RATELIMIT_MODERATE_BURST":    "1000",
	})
}

// setupContainerWithDefaultRateLimits starts the service with production
// rate limits, for testing that rate limiting actually works.
func setupContainerWithDefaultRateLimits(t *testing.T) (string, func()) {
	return setupContainerWithEnv(t, nil)
}

func setupContainerWithEnv(t *testing.T, extraEnv map[string]string) (string, func()) {
	t.Helper()
	ctx := context.Background()

	env := map[string]string{
		"NEUROLOCK_DATABASE_FILE": "/tmp/neurolock.db",
		"NEUROLOCK_PEPPER_FILE":   "/tmp/pepper",
		"NEUROLOCK_CAPTURE_DIR":   "/tmp/captures",
		"NEUROLOCK_COMPANY_CODE":  companyCode,
		"ENV":                     "test",
		"LOG_LEVEL":               "info",
		"LOG_FORMAT":              "json",
	}
	for k, v := range extraEnv {
		env[k] = v
	}

	req := testcontainers.ContainerRequest{
		Image:        testImageName,
		ExposedPorts: []string{"8080/tcp"},
		Env:          env,
		WaitingFor: wait.ForHTTP("/livez").
			WithPort("8080/tcp").
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	baseURL := fmt.Sprintf("http://%s:%s", host, mappedPort.Port())

	cleanup := func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}

	return baseURL, cleanup
}

// registerAndLogin creates a fresh employee and establishes a pending
// session on the client.
func registerAndLogin(t *testing.T, client *neurosdk.Client) string {
	t.Helper()
	ctx := context.Background()

	reg, err := client.Register(ctx, neurosdk.RegisterRequest{
		Name:            testName,
		CompanyCode:     companyCode,
		Password:        testPassword,
		ConfirmPassword: testPassword,
	})
	require.NoError(t, err, "Registration should succeed")
	require.NotEmpty(t, reg.EmpID)

	login, err := client.Login(ctx, reg.EmpID, testPassword)
	require.NoError(t, err, "Login should succeed")
	require.Equal(t, "pending", login.Stage)

	return reg.EmpID
}

// validFacePayload returns a base64 image payload above the plausibility
// threshold.
func validFacePayload() string {
	return base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{0xAB}, 6000))
}

// passingVerifyRequest builds a submission whose signals satisfy every
// challenge type in the catalog.
func passingVerifyRequest(challenge *neurosdk.ChallengeResponse) neurosdk.VerifyRequest {
	return neurosdk.VerifyRequest{
		Nonce:             challenge.Nonce,
		Ts:                float64(time.Now().UnixNano()) / 1e9,
		Face:              validFacePayload(),
		BlinkCount:        3,
		HeadMotion:        0.9,
		FocusScore:        0.95,
		ChallengeObserved: challenge.Challenge,
	}
}

// assertRejected verifies an error is a verification rejection with the
// expected reason code.
func assertRejected(t *testing.T, err error, reason string) {
	t.Helper()
	var verr *neurosdk.VerificationError
	require.ErrorAs(t, err, &verr, "expected a verification rejection")
	require.Equal(t, reason, verr.Reason)
}
