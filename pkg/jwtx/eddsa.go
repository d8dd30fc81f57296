package jwtx

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier validates a signed session token and returns its claims.
type Verifier interface {
	Verify(tokenStr string) (*Claims, error)
}

// SignVerifier both issues and validates session tokens. *Keypair is the
// production implementation; health probes use the interface to exercise a
// full sign and verify round trip.
type SignVerifier interface {
	Verifier
	Sign(claims Claims) (string, error)
	Issuer() string
}

// Keypair signs and verifies session tokens with a single Ed25519 key.
// Keys are generated per process: a restart invalidates all outstanding
// sessions, matching the in-memory challenge store's restart semantics.
type Keypair struct {
	kid    string
	key    ed25519.PrivateKey
	pub    ed25519.PublicKey
	issuer string
}

// NewEphemeralKeypair generates a fresh Ed25519 keypair for session signing.
func NewEphemeralKeypair(issuer string) (*Keypair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("jwtx: generate ed25519 key: %w", err)
	}

	// kid is a fingerprint of the public key so rotated processes are
	// distinguishable in parsed tokens.
	sum := sha256.Sum256(pub)
	kid := base64.RawURLEncoding.EncodeToString(sum[:8])

	return &Keypair{kid: kid, key: priv, pub: pub, issuer: issuer}, nil
}

// KID returns the key identifier embedded in token headers.
func (k *Keypair) KID() string { return k.kid }

// Issuer returns the issuer enforced on signed and verified tokens.
func (k *Keypair) Issuer() string { return k.issuer }

// Sign turns claims into a signed compact JWT string.
func (k *Keypair) Sign(claims Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	token.Header["kid"] = k.kid

	signed, err := token.SignedString(k.key)
	if err != nil {
		return "", fmt.Errorf("jwtx: sign: %w", err)
	}
	return signed, nil
}

// Verify validates the JWT string and returns its parsed Claims.
func (k *Keypair) Verify(tokenStr string) (*Claims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}))

	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		if kid != k.kid {
			return nil, fmt.Errorf("jwtx: unknown kid %q", kid)
		}
		return k.pub, nil
	})
	if err != nil {
		return nil, fmt.Errorf("jwtx: parse or verify: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("jwtx: invalid token claims")
	}

	if err := claims.ValidateIssuer(k.issuer); err != nil {
		return nil, err
	}
	if err := claims.ValidateExpiry(); err != nil {
		return nil, err
	}

	return claims, nil
}
