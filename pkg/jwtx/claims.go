package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultSessionTTL is the default lifetime for session tokens. Sessions are
// deliberately long-lived relative to challenges; the liveness gate is the
// short-lived factor.
const DefaultSessionTTL = 12 * time.Hour

// Session stages. A password login produces a pending session; only a
// successful liveness verification upgrades it.
const (
	StagePending       = "pending"
	StageAuthenticated = "authenticated"
)

// Authentication method references recorded in the session token.
const (
	AMRPassword = "pwd"
	AMRFace     = "face"
	AMROTP      = "otp"
)

var (
	ErrIssuer  = errors.New("jwtx: unexpected issuer")
	ErrExpired = errors.New("jwtx: token expired")
)

// Claims are the session-token claims shared across the service.
type Claims struct {
	jwt.RegisteredClaims

	// SID identifies the login session across the pending -> authenticated
	// upgrade so both tokens can be correlated in logs.
	SID string `json:"sid,omitempty"`

	// EmpID is the public employee identifier ("E100" style).
	EmpID string `json:"emp_id,omitempty"`

	// Stage is either StagePending or StageAuthenticated.
	Stage string `json:"stage,omitempty"`

	// AMR lists the authentication methods that produced this session,
	// e.g. ["pwd"] after login, ["pwd","face"] after liveness.
	AMR []string `json:"amr,omitempty"`
}

// NewSessionClaims builds minimally-correct session claims.
func NewSessionClaims(
	subject, sid, empID, stage string,
	amr []string,
	ttl time.Duration,
	issuer string,
	now time.Time,
) Claims {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}

	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		SID:   sid,
		EmpID: empID,
		Stage: stage,
		AMR:   amr,
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// ValidateIssuer checks if the issuer matches the expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil // nothing to enforce
	}
	if c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateExpiry checks the exp claim against the current time.
func (c *Claims) ValidateExpiry() error {
	if c.ExpiresAt == nil || time.Now().After(c.ExpiresAt.Time) {
		return ErrExpired
	}
	return nil
}

// Authenticated reports whether the session passed the liveness gate.
func (c *Claims) Authenticated() bool {
	return c.Stage == StageAuthenticated
}
