package domain

// RejectReason is a terminal verdict code for a failed verification. Each
// submission yields exactly one reason, the first gate that fails.
type RejectReason string

const (
	ReasonMissingField         RejectReason = "missing_field"
	ReasonUnknownNonce         RejectReason = "unknown_nonce"
	ReasonChallengeExpired     RejectReason = "challenge_expired"
	ReasonStaleTimestamp       RejectReason = "stale_timestamp"
	ReasonFaceInvalid          RejectReason = "face_invalid"
	ReasonChallengeNotVerified RejectReason = "challenge_not_verified"
	ReasonLowFocus             RejectReason = "low_focus"
)

// Verdict is the outcome of one verification pipeline run.
type Verdict struct {
	Accepted bool
	Reason   RejectReason
	// Field names the offending payload field for missing_field verdicts.
	Field string
	// FocusScore echoes the submitted score when the payload carried one
	// and the pipeline read that far. Nil otherwise.
	FocusScore *float64
}

// Accept builds the success verdict, echoing the submitted focus score.
func Accept(focus float64) Verdict {
	return Verdict{Accepted: true, FocusScore: &focus}
}

// Reject builds a failure verdict with no focus echo.
func Reject(reason RejectReason) Verdict {
	return Verdict{Reason: reason}
}

// RejectField builds a missing_field verdict naming the absent field.
func RejectField(field string) Verdict {
	return Verdict{Reason: ReasonMissingField, Field: field}
}

// RejectWithFocus builds a failure verdict that echoes the focus score.
func RejectWithFocus(reason RejectReason, focus float64) Verdict {
	return Verdict{Reason: reason, FocusScore: &focus}
}
