package domain

import "time"

// Capture is the audit record of one verification attempt. The image itself
// is written to disk; the row keeps the path plus the verdict context.
type Capture struct {
	ID    string
	EmpID string

	// Nonce holds a SHA-256 fingerprint of the challenge nonce, never the
	// raw value.
	Nonce      string
	Challenge  ChallengeType
	Accepted   bool
	Reason     RejectReason
	ImagePath  string
	ImageBytes int64
	CapturedAt time.Time
}
