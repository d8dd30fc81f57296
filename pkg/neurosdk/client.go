package neurosdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"
)

// Client talks to a NeuroLock service. The zero value is not usable; create
// one with NewClient. Session cookies are tracked automatically, so a Login
// followed by IssueChallenge/SubmitVerification behaves like a browser.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a service client with an in-memory cookie jar.
func NewClient(baseURL string) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
			Jar:     jar,
		},
	}
}

// Register creates a new employee and returns the minted employee ID.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	var out RegisterResponse
	if err := c.postJSON(ctx, "/v1/employees/register", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ChangePassword rotates the authenticated employee's password.
func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	req := ChangePasswordRequest{CurrentPassword: current, NewPassword: next}
	return c.postJSON(ctx, "/v1/employees/password", req, nil)
}

// Login performs the level-1 password check, establishing a pending session.
func (c *Client) Login(ctx context.Context, empID, password string) (*LoginResponse, error) {
	var out LoginResponse
	if err := c.postJSON(ctx, "/v1/login", LoginRequest{EmpID: empID, Password: password}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout clears the session cookie.
func (c *Client) Logout(ctx context.Context) error {
	return c.postJSON(ctx, "/v1/logout", nil, nil)
}

// Session returns the caller's current session state.
func (c *Client) Session(ctx context.Context) (*SessionResponse, error) {
	var out SessionResponse
	if err := c.getJSON(ctx, "/v1/session", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// IssueChallenge requests a fresh liveness challenge.
func (c *Client) IssueChallenge(ctx context.Context) (*ChallengeResponse, error) {
	var out ChallengeResponse
	if err := c.getJSON(ctx, "/v1/liveness/challenge", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmitVerification submits a liveness challenge response. A rejection is
// returned as *VerificationError; transport and server errors as *APIError.
func (c *Client) SubmitVerification(ctx context.Context, req VerifyRequest) (*VerifySuccessResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("neurosdk: marshal request: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, "/v1/liveness/verify", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		var out VerifySuccessResponse
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return nil, fmt.Errorf("neurosdk: decode response: %w", err)
		}
		return &out, nil
	}

	var fail VerifyFailResponse
	if err := json.NewDecoder(resp.Body).Decode(&fail); err != nil || fail.Status != "fail" {
		return nil, &APIError{StatusCode: resp.StatusCode, Code: "server_error"}
	}
	return nil, &VerificationError{Reason: fail.Reason, Field: fail.Field}
}

// ListAttempts returns the caller's recent verification attempts.
func (c *Client) ListAttempts(ctx context.Context) (*AttemptsResponse, error) {
	var out AttemptsResponse
	if err := c.getJSON(ctx, "/v1/liveness/attempts", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CompleteMFA finishes authentication with a TOTP code after low_focus.
func (c *Client) CompleteMFA(ctx context.Context, code string) (*SessionResponse, error) {
	var out SessionResponse
	if err := c.postJSON(ctx, "/v1/liveness/mfa", MFACompleteRequest{Code: code}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// EnrollTOTP begins TOTP enrollment for the authenticated employee.
func (c *Client) EnrollTOTP(ctx context.Context) (*TOTPEnrollResponse, error) {
	var out TOTPEnrollResponse
	if err := c.postJSON(ctx, "/v1/mfa/totp/enroll", struct{}{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyTOTP confirms enrollment with a live code.
func (c *Client) VerifyTOTP(ctx context.Context, code string) error {
	return c.postJSON(ctx, "/v1/mfa/totp/verify", TOTPVerifyRequest{Code: code}, nil)
}

// Livez checks the liveness probe.
func (c *Client) Livez(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.getJSON(ctx, "/livez", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Readyz checks the readiness probe, including dependency health.
func (c *Client) Readyz(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.getJSON(ctx, "/readyz", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body *bytes.Reader) (*http.Response, error) {
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, c.BaseURL+path, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("neurosdk: create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("neurosdk: send request: %w", err)
	}
	return resp, nil
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("neurosdk: marshal request: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return decodeOrError(resp, out)
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return decodeOrError(resp, out)
}

func decodeOrError(resp *http.Response, out any) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil || apiErr.Error == "" {
			return &APIError{StatusCode: resp.StatusCode, Code: "server_error"}
		}
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        apiErr.Error,
			Description: apiErr.ErrorDescription,
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("neurosdk: decode response: %w", err)
	}
	return nil
}
