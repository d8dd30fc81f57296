package service

import (
	"fmt"
	"time"

	"github.com/neurolock/neurolock/pkg/cryptox"
	"github.com/neurolock/neurolock/pkg/jwtx"
)

// SessionService mints and upgrades the staged session tokens. A password
// login yields a pending session; only a passed liveness check (or the TOTP
// fallback) upgrades it to authenticated.
type SessionService struct {
	Keypair *jwtx.Keypair
	TTL     time.Duration
}

func (s *SessionService) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return jwtx.DefaultSessionTTL
}

// MintPending issues a fresh pending session for an employee who has passed
// the password factor only.
func (s *SessionService) MintPending(empID string) (string, jwtx.Claims, error) {
	sid, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		return "", jwtx.Claims{}, fmt.Errorf("failed to generate session id: %w", err)
	}

	claims := jwtx.NewSessionClaims(empID, sid, empID, jwtx.StagePending,
		[]string{jwtx.AMRPassword}, s.ttl(), s.Keypair.Issuer(), time.Now())

	token, err := s.Keypair.Sign(claims)
	if err != nil {
		return "", jwtx.Claims{}, fmt.Errorf("failed to sign session token: %w", err)
	}
	return token, claims, nil
}

// Upgrade re-mints the session at the authenticated stage, preserving the
// session id and appending the second factor's method to the AMR list.
func (s *SessionService) Upgrade(claims *jwtx.Claims, method string) (string, jwtx.Claims, error) {
	amr := append(append([]string{}, claims.AMR...), method)

	upgraded := jwtx.NewSessionClaims(claims.Subject, claims.SID, claims.EmpID,
		jwtx.StageAuthenticated, amr, s.ttl(), s.Keypair.Issuer(), time.Now())

	token, err := s.Keypair.Sign(upgraded)
	if err != nil {
		return "", jwtx.Claims{}, fmt.Errorf("failed to sign upgraded session token: %w", err)
	}
	return token, upgraded, nil
}
