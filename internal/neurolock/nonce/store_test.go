package nonce

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/neurolock/neurolock/internal/neurolock/domain"
)

func TestStoreIssueAndConsume(t *testing.T) {
	s := NewStore()
	now := time.Now()

	rec, err := s.Issue(domain.ChallengeBlinkTwice, 8*time.Second, now)
	require.NoError(t, err)
	require.NotEmpty(t, rec.Nonce)
	require.Equal(t, domain.ChallengeBlinkTwice, rec.Type)
	require.Equal(t, 1, s.Len())

	got, ok := s.Consume(rec.Nonce)
	require.True(t, ok)
	require.Equal(t, rec, got)
	require.Equal(t, 0, s.Len())

	_, ok = s.Consume(rec.Nonce)
	require.False(t, ok, "second redemption must fail")
}

func TestStoreConsumeUnknown(t *testing.T) {
	s := NewStore()
	_, ok := s.Consume("never-issued")
	require.False(t, ok)
}

func TestStoreIssueUniqueNonces(t *testing.T) {
	s := NewStore()
	now := time.Now()

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		rec, err := s.Issue(domain.ChallengeSmile, time.Second, now)
		require.NoError(t, err)
		_, dup := seen[rec.Nonce]
		require.False(t, dup)
		seen[rec.Nonce] = struct{}{}
	}
}

func TestStoreConsumeSingleWinner(t *testing.T) {
	s := NewStore()
	rec, err := s.Issue(domain.ChallengeFollowDot, 8*time.Second, time.Now())
	require.NoError(t, err)

	const racers = 32
	var wins atomic.Int32
	var start, done sync.WaitGroup
	start.Add(1)
	done.Add(racers)
	for i := 0; i < racers; i++ {
		go func() {
			defer done.Done()
			start.Wait()
			if _, ok := s.Consume(rec.Nonce); ok {
				wins.Add(1)
			}
		}()
	}
	start.Done()
	done.Wait()

	require.Equal(t, int32(1), wins.Load(), "exactly one consumer may win")
}

func TestStoreSweep(t *testing.T) {
	s := NewStore()
	base := time.Now()

	old, err := s.Issue(domain.ChallengeBlinkTwice, 8*time.Second, base.Add(-time.Minute))
	require.NoError(t, err)
	fresh, err := s.Issue(domain.ChallengeSmile, 8*time.Second, base)
	require.NoError(t, err)

	removed := s.Sweep(base, 2*time.Second)
	require.Equal(t, 1, removed)

	_, ok := s.Consume(old.Nonce)
	require.False(t, ok, "swept record must be gone")
	_, ok = s.Consume(fresh.Nonce)
	require.True(t, ok, "live record must survive the sweep")
}

func TestStoreSweepGraceBoundary(t *testing.T) {
	s := NewStore()
	base := time.Now()

	rec, err := s.Issue(domain.ChallengeLookLeftRight, 8*time.Second, base)
	require.NoError(t, err)

	// Exactly at TTL+grace the record is still within the window.
	removed := s.Sweep(base.Add(10*time.Second), 2*time.Second)
	require.Equal(t, 0, removed)

	removed = s.Sweep(base.Add(10*time.Second+time.Millisecond), 2*time.Second)
	require.Equal(t, 1, removed)

	_, ok := s.Consume(rec.Nonce)
	require.False(t, ok)
}
