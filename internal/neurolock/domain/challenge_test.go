package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChallengeWireRoundTrip(t *testing.T) {
	for _, ct := range Catalog {
		parsed, err := ParseChallengeType(ct.Wire())
		require.NoError(t, err)
		require.Equal(t, ct, parsed)
		require.NotEmpty(t, ct.Label())
	}

	_, err := ParseChallengeType("wave_hand")
	require.Error(t, err)
}

func TestChallengeSatisfied(t *testing.T) {
	tests := []struct {
		name    string
		issued  ChallengeType
		claimed ChallengeType
		blinks  int
		motion  float64
		want    bool
	}{
		{"blink twice met", ChallengeBlinkTwice, ChallengeBlinkTwice, 2, 0, true},
		{"blink twice over", ChallengeBlinkTwice, ChallengeBlinkTwice, 5, 0, true},
		{"blink once short", ChallengeBlinkTwice, ChallengeBlinkTwice, 1, 0.9, false},
		{"look left right met", ChallengeLookLeftRight, ChallengeLookLeftRight, 0, 0.61, true},
		{"look left right at threshold", ChallengeLookLeftRight, ChallengeLookLeftRight, 0, 0.6, false},
		{"follow dot via motion", ChallengeFollowDot, ChallengeFollowDot, 0, 0.41, true},
		{"follow dot motion at threshold", ChallengeFollowDot, ChallengeFollowDot, 0, 0.4, false},
		{"follow dot via blink", ChallengeFollowDot, ChallengeFollowDot, 1, 0, true},
		{"follow dot neither", ChallengeFollowDot, ChallengeFollowDot, 0, 0.1, false},
		{"smile on claim alone", ChallengeSmile, ChallengeSmile, 0, 0, true},
		{"claimed type mismatch", ChallengeBlinkTwice, ChallengeSmile, 5, 1.0, false},
		{"smile claimed for blink issue", ChallengeSmile, ChallengeBlinkTwice, 2, 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.issued.Satisfied(tc.claimed, tc.blinks, tc.motion)
			require.Equal(t, tc.want, got)
		})
	}
}
