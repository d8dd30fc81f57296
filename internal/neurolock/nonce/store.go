// Package nonce holds the in-process store of outstanding liveness
// challenges. Each nonce is redeemable exactly once: Consume removes the
// record under the same lock that looks it up, so concurrent submissions of
// one nonce produce a single winner.
package nonce

import (
	"sync"
	"time"

	"github.com/neurolock/neurolock/internal/neurolock/domain"
	"github.com/neurolock/neurolock/pkg/cryptox"
)

// Store maps nonce strings to their issued challenge records.
type Store struct {
	mu      sync.Mutex
	records map[string]domain.ChallengeRecord
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{records: make(map[string]domain.ChallengeRecord)}
}

// Issue mints a fresh nonce bound to the given challenge type and records it.
// The nonce is 128 bits of crypto/rand output; on the astronomically rare
// collision with a live record it simply redraws.
func (s *Store) Issue(ct domain.ChallengeType, ttl time.Duration, now time.Time) (domain.ChallengeRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for {
		n, err := cryptox.GenerateToken(cryptox.TokenSize128)
		if err != nil {
			return domain.ChallengeRecord{}, err
		}
		if _, exists := s.records[n]; exists {
			continue
		}
		rec := domain.ChallengeRecord{
			Nonce:    n,
			Type:     ct,
			IssuedAt: now,
			TTL:      ttl,
		}
		s.records[n] = rec
		return rec, nil
	}
}

// Consume removes and returns the record for the nonce. The second return is
// false when the nonce is unknown or already redeemed. Expiry is not judged
// here: a consumed-but-expired record still burns, which is what makes replay
// of a timed-out nonce indistinguishable from replay of a redeemed one.
func (s *Store) Consume(nonce string) (domain.ChallengeRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[nonce]
	if !ok {
		return domain.ChallengeRecord{}, false
	}
	delete(s.records, nonce)
	return rec, true
}

// Sweep drops records whose validity window, extended by grace, has passed.
// It returns the number removed.
func (s *Store) Sweep(now time.Time, grace time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for n, rec := range s.records {
		if now.After(rec.ExpiresAt().Add(grace)) {
			delete(s.records, n)
			removed++
		}
	}
	return removed
}

// Len reports the number of outstanding records.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}
