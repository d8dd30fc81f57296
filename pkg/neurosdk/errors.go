package neurosdk

import "fmt"

// Verification rejection reason codes. These are the complete taxonomy; every
// rejected verification maps onto exactly one of them.
const (
	ReasonMissingField         = "missing_field"
	ReasonUnknownNonce         = "unknown_nonce"
	ReasonChallengeExpired     = "challenge_expired"
	ReasonStaleTimestamp       = "stale_timestamp"
	ReasonFaceInvalid          = "face_invalid"
	ReasonChallengeNotVerified = "challenge_not_verified"
	ReasonLowFocus             = "low_focus"
)

// APIError represents a non-2xx response from the service.
type APIError struct {
	StatusCode  int
	Code        string
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("neurosdk: %d %s: %s", e.StatusCode, e.Code, e.Description)
}

// VerificationError represents a rejected liveness verification.
type VerificationError struct {
	Reason string
	Field  string
}

func (e *VerificationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("neurosdk: verification rejected: %s (%s)", e.Reason, e.Field)
	}
	return "neurosdk: verification rejected: " + e.Reason
}
