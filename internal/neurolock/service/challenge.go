package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"math"
	"math/big"
	"strings"
	"time"

	"github.com/neurolock/neurolock/internal/neurolock/domain"
	"github.com/neurolock/neurolock/internal/neurolock/nonce"
)

// Policy carries the tunable thresholds of the verification pipeline.
type Policy struct {
	TTL          time.Duration // nominal challenge validity window
	Grace        time.Duration // jitter absorbed past the nominal window
	MaxSkew      time.Duration // tolerated client clock offset
	MinFocus     float64       // inclusive lower bound on focus_score
	MinFaceBytes int           // decoded image payloads below this are rejected
}

// DefaultPolicy mirrors the reference deployment values.
func DefaultPolicy() Policy {
	return Policy{
		TTL:          8 * time.Second,
		Grace:        2 * time.Second,
		MaxSkew:      6 * time.Second,
		MinFocus:     0.45,
		MinFaceBytes: 5000,
	}
}

// Submission is one client verification attempt. Fields are pointers so the
// schema gate can tell "absent" from zero values.
type Submission struct {
	Nonce             *string
	Ts                *float64
	Face              *string
	BlinkCount        *int
	HeadMotion        *float64
	FocusScore        *float64
	ChallengeObserved *string
}

// AuditSink receives the decoded capture of each attempt that got past the
// payload gate. Implementations must not block the verdict path.
type AuditSink interface {
	RecordAttempt(ctx context.Context, empID string, rec domain.ChallengeRecord, verdict domain.Verdict, image []byte)
}

// ChallengeService issues liveness challenges and judges submissions.
type ChallengeService struct {
	Nonces *nonce.Store
	Policy Policy

	// Audit is optional. When set, attempts that reach the challenge gate
	// have their decoded image handed off for asynchronous persistence.
	Audit AuditSink

	// Now is the clock, injectable for tests. Defaults to time.Now.
	Now func() time.Time
}

func (s *ChallengeService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// IssueChallenge draws a challenge type uniformly at random from the catalog
// and mints a single-use nonce for it. Draws are independent: crypto/rand
// backs the selection, so no sequence of issued challenges predicts the next.
func (s *ChallengeService) IssueChallenge(ctx context.Context) (domain.ChallengeRecord, error) {
	idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(domain.Catalog))))
	if err != nil {
		return domain.ChallengeRecord{}, fmt.Errorf("failed to draw challenge type: %w", err)
	}
	ct := domain.Catalog[idx.Int64()]

	rec, err := s.Nonces.Issue(ct, s.Policy.TTL, s.now())
	if err != nil {
		return domain.ChallengeRecord{}, fmt.Errorf("failed to issue nonce: %w", err)
	}
	return rec, nil
}

// Verify runs the gate pipeline over one submission and returns the verdict.
// Gates run in a fixed order and the first failure is terminal. The nonce is
// consumed before any judgment of the payload, so a submission burns its
// nonce whether or not the rest of the pipeline passes: a client cannot probe
// whether a nonce is still alive without spending it.
func (s *ChallengeService) Verify(ctx context.Context, empID string, sub Submission) domain.Verdict {
	// Gate 1: schema. Every field present and plausibly shaped.
	if field, ok := s.checkSchema(sub); !ok {
		return domain.RejectField(field)
	}

	// Gate 2: nonce redemption. Unknown and already-spent nonces are
	// indistinguishable here.
	rec, ok := s.Nonces.Consume(*sub.Nonce)
	if !ok {
		return domain.Reject(domain.ReasonUnknownNonce)
	}

	now := s.now()

	// Gate 3: challenge freshness against issuance, with grace for jitter.
	if now.Sub(rec.IssuedAt) > rec.TTL+s.Policy.Grace {
		return s.audit(ctx, empID, rec, domain.Reject(domain.ReasonChallengeExpired), nil)
	}

	// Gate 4: client clock skew. Catches replayed payloads that carry an
	// old embedded timestamp through a still-valid nonce window.
	clientTime := time.Unix(0, int64(*sub.Ts*float64(time.Second)))
	if skew := now.Sub(clientTime); skew > s.Policy.MaxSkew || skew < -s.Policy.MaxSkew {
		return s.audit(ctx, empID, rec, domain.Reject(domain.ReasonStaleTimestamp), nil)
	}

	// Gate 5: payload plausibility. A coarse anti-spoof size heuristic,
	// not a biometric check.
	image, ok := decodeFacePayload(*sub.Face, s.Policy.MinFaceBytes)
	if !ok {
		return s.audit(ctx, empID, rec, domain.Reject(domain.ReasonFaceInvalid), nil)
	}

	// Gate 6: challenge correctness. The issued type picks the predicate;
	// the claimed type is only cross-checked against it.
	claimed, err := domain.ParseChallengeType(*sub.ChallengeObserved)
	if err != nil || !rec.Type.Satisfied(claimed, *sub.BlinkCount, *sub.HeadMotion) {
		return s.audit(ctx, empID, rec, domain.RejectWithFocus(domain.ReasonChallengeNotVerified, *sub.FocusScore), image)
	}

	// Gate 7: confidence threshold, inclusive at the bound.
	if *sub.FocusScore < s.Policy.MinFocus {
		return s.audit(ctx, empID, rec, domain.RejectWithFocus(domain.ReasonLowFocus, *sub.FocusScore), image)
	}

	return s.audit(ctx, empID, rec, domain.Accept(*sub.FocusScore), image)
}

// checkSchema reports the first absent or malformed field, in submission
// order, or ok when the payload is structurally sound.
func (s *ChallengeService) checkSchema(sub Submission) (string, bool) {
	switch {
	case sub.Nonce == nil || *sub.Nonce == "":
		return "nonce", false
	case sub.Ts == nil || math.IsNaN(*sub.Ts) || *sub.Ts <= 0:
		return "ts", false
	case sub.Face == nil || *sub.Face == "":
		return "face", false
	case sub.BlinkCount == nil || *sub.BlinkCount < 0:
		return "blink_count", false
	case sub.HeadMotion == nil || math.IsNaN(*sub.HeadMotion) || *sub.HeadMotion < 0:
		return "head_motion", false
	case sub.FocusScore == nil || math.IsNaN(*sub.FocusScore) || *sub.FocusScore < 0 || *sub.FocusScore > 1:
		return "focus_score", false
	case sub.ChallengeObserved == nil || *sub.ChallengeObserved == "":
		return "challenge_observed", false
	}
	return "", true
}

// audit hands the attempt to the sink, when one is wired, and passes the
// verdict straight through. The sink must not delay the response.
func (s *ChallengeService) audit(ctx context.Context, empID string, rec domain.ChallengeRecord, v domain.Verdict, image []byte) domain.Verdict {
	if s.Audit != nil {
		s.Audit.RecordAttempt(ctx, empID, rec, v, image)
	}
	return v
}

// decodeFacePayload accepts a data URI or bare base64 image and returns the
// decoded bytes when they clear the minimum size.
func decodeFacePayload(face string, minBytes int) ([]byte, bool) {
	if idx := strings.Index(face, ","); idx >= 0 && strings.HasPrefix(face, "data:") {
		face = face[idx+1:]
	}

	image, err := base64.StdEncoding.DecodeString(face)
	if err != nil {
		image, err = base64.RawStdEncoding.DecodeString(face)
		if err != nil {
			return nil, false
		}
	}
	if len(image) < minBytes {
		return nil, false
	}
	return image, true
}
