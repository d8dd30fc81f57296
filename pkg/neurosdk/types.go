// Package neurosdk provides the wire types for the NeuroLock liveness
// authentication service and a small HTTP client used by integration tests
// and other services.
package neurosdk

// ErrorResponse is the generic error body for non-verification failures.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// RegisterRequest creates a new employee record.
type RegisterRequest struct {
	Name            string `json:"name"`
	CompanyCode     string `json:"company_code"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// RegisterResponse returns the minted employee ID.
type RegisterResponse struct {
	EmpID string `json:"emp_id"`
	Name  string `json:"name"`
}

// ChangePasswordRequest rotates the password for the authenticated employee.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// LoginRequest is the level-1 knowledge factor.
type LoginRequest struct {
	EmpID    string `json:"emp_id"`
	Password string `json:"password"`
}

// LoginResponse reports the pending session. The session token itself travels
// in the neurolock_session cookie; Token duplicates it for non-browser clients.
type LoginResponse struct {
	EmpID string `json:"emp_id"`
	Stage string `json:"stage"`
	Token string `json:"token"`
}

// SessionResponse describes the caller's current session.
type SessionResponse struct {
	EmpID         string   `json:"emp_id"`
	Stage         string   `json:"stage"`
	Authenticated bool     `json:"authenticated"`
	AMR           []string `json:"amr,omitempty"`
}

// ChallengeResponse is returned when a liveness challenge is issued.
type ChallengeResponse struct {
	Nonce     string `json:"nonce"`
	Challenge string `json:"challenge"`
	Label     string `json:"label"`
	TTL       int    `json:"ttl"`
}

// VerifyRequest is the client's liveness challenge response. All fields are
// required.
type VerifyRequest struct {
	Nonce string `json:"nonce"`

	// Ts is the client clock at capture time, unix seconds.
	Ts float64 `json:"ts"`

	// Face is the captured frame, as a data URI or raw base64 JPEG.
	Face string `json:"face"`

	BlinkCount int     `json:"blink_count"`
	HeadMotion float64 `json:"head_motion"`
	FocusScore float64 `json:"focus_score"`

	// ChallengeObserved is the challenge the client believes it performed.
	// The server cross-checks it against the issued challenge but never
	// substitutes it.
	ChallengeObserved string `json:"challenge_observed"`
}

// VerifySuccessResponse is the 200 body for an accepted verification.
type VerifySuccessResponse struct {
	Status     string  `json:"status"` // always "success"
	Message    string  `json:"message"`
	FocusScore float64 `json:"focus_score"`
}

// VerifyFailResponse is the 400 body for a rejected verification.
type VerifyFailResponse struct {
	Status     string   `json:"status"` // always "fail"
	Reason     string   `json:"reason"`
	Field      string   `json:"field,omitempty"`
	FocusScore *float64 `json:"focus_score,omitempty"`
}

// MFACompleteRequest finishes authentication with a TOTP code after a
// low_focus rejection.
type MFACompleteRequest struct {
	Code string `json:"code"`
}

// TOTPEnrollResponse carries the enrollment secret, shown once.
type TOTPEnrollResponse struct {
	Secret  string `json:"secret"`
	QRCode  string `json:"qr_code"`
	Issuer  string `json:"issuer"`
	Account string `json:"account"`
}

// TOTPVerifyRequest confirms an enrollment.
type TOTPVerifyRequest struct {
	Code string `json:"code"`
}

// AttemptRecord is one audited verification attempt.
type AttemptRecord struct {
	Challenge  string `json:"challenge"`
	Accepted   bool   `json:"accepted"`
	Reason     string `json:"reason,omitempty"`
	ImageBytes int64  `json:"image_bytes"`
	CapturedAt string `json:"captured_at"`
}

// AttemptsResponse lists the caller's audited attempts, newest first.
type AttemptsResponse struct {
	Attempts []AttemptRecord `json:"attempts"`
}

// HealthResponse is returned by the livez/readyz probes.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports per-dependency readiness.
type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}
