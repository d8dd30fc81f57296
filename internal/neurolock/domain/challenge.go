package domain

import (
	"fmt"
	"time"
)

// ChallengeType identifies one liveness challenge from the fixed catalog.
// It is a closed set: adding a type means extending every switch below, which
// the compiler surfaces at each call site.
type ChallengeType int

const (
	ChallengeUnknown ChallengeType = iota
	ChallengeBlinkTwice
	ChallengeLookLeftRight
	ChallengeFollowDot
	ChallengeSmile
)

// Catalog lists the issuable challenge types, in issue order for tests.
var Catalog = []ChallengeType{
	ChallengeBlinkTwice,
	ChallengeLookLeftRight,
	ChallengeFollowDot,
	ChallengeSmile,
}

// Signal thresholds for the per-type correctness predicates.
const (
	blinkTwiceMinCount     = 2
	lookLeftRightMinMotion = 0.6
	followDotMinMotion     = 0.4
	followDotMinBlinks     = 1
)

// Wire returns the snake_case identifier used in the JSON protocol.
func (t ChallengeType) Wire() string {
	switch t {
	case ChallengeBlinkTwice:
		return "blink_twice"
	case ChallengeLookLeftRight:
		return "look_left_right"
	case ChallengeFollowDot:
		return "follow_dot"
	case ChallengeSmile:
		return "smile"
	default:
		return "unknown"
	}
}

// Label returns the human-readable instruction shown to the user.
func (t ChallengeType) Label() string {
	switch t {
	case ChallengeBlinkTwice:
		return "Blink twice"
	case ChallengeLookLeftRight:
		return "Turn your head left then right"
	case ChallengeFollowDot:
		return "Follow the moving dot on screen"
	case ChallengeSmile:
		return "Smile once"
	default:
		return ""
	}
}

// ParseChallengeType maps a wire identifier back to its type.
func ParseChallengeType(s string) (ChallengeType, error) {
	switch s {
	case "blink_twice":
		return ChallengeBlinkTwice, nil
	case "look_left_right":
		return ChallengeLookLeftRight, nil
	case "follow_dot":
		return ChallengeFollowDot, nil
	case "smile":
		return ChallengeSmile, nil
	default:
		return ChallengeUnknown, fmt.Errorf("unknown challenge type %q", s)
	}
}

// Satisfied applies the issued type's correctness predicate to the reported
// signals. The claimed type is cross-checked against the issued type; it never
// selects the predicate.
//
// Note the SMILE predicate accepts on the claimed type alone: the client-side
// mouth-region detector is trusted, making it the weakest gate in the catalog.
func (t ChallengeType) Satisfied(claimed ChallengeType, blinkCount int, headMotion float64) bool {
	if claimed != t {
		return false
	}

	switch t {
	case ChallengeBlinkTwice:
		return blinkCount >= blinkTwiceMinCount
	case ChallengeLookLeftRight:
		return headMotion > lookLeftRightMinMotion
	case ChallengeFollowDot:
		return headMotion > followDotMinMotion || blinkCount >= followDotMinBlinks
	case ChallengeSmile:
		return true
	default:
		return false
	}
}

// ChallengeRecord is the server-side state for one issued challenge. Records
// live only in the in-process nonce store; the store is their sole owner and
// nothing mutates one after publication.
type ChallengeRecord struct {
	Nonce    string
	Type     ChallengeType
	IssuedAt time.Time
	TTL      time.Duration
}

// ExpiresAt returns the end of the nominal validity window, before grace.
func (r ChallengeRecord) ExpiresAt() time.Time {
	return r.IssuedAt.Add(r.TTL)
}
