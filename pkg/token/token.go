// Package token issues and verifies the bearer tokens that gate access to
// protected gateway actions. Tokens are self-describing: the signed payload
// carries the client identity and validity window, so verification needs no
// server-side session state.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for every verification failure. Malformed,
// tampered, expired and unknown-subject tokens are deliberately
// indistinguishable to the caller.
var ErrInvalidToken = errors.New("invalid token")

const issuer = "filegate"

// Service issues and verifies bearer tokens.
type Service interface {
	// Issue returns a signed token for the given client identifier.
	Issue(clientID string) (string, error)
	// Verify returns the client identifier a token was issued for, or
	// ErrInvalidToken.
	Verify(token string) (string, error)
	// TTL returns the configured token lifetime.
	TTL() time.Duration
}

// Claims is the signed token payload.
type Claims struct {
	jwt.RegisteredClaims
	ClientID string `json:"client_id"`
}

// HMACService signs tokens with HMAC-SHA256 over a shared key.
type HMACService struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// Option configures an HMACService.
type Option func(*HMACService)

// WithClock overrides the time source. Used by tests to simulate expiry.
func WithClock(now func() time.Time) Option {
	return func(s *HMACService) {
		s.now = now
	}
}

// NewHMACService creates a token service signing with the given key.
func NewHMACService(key []byte, ttl time.Duration, opts ...Option) *HMACService {
	s := &HMACService{
		key: key,
		ttl: ttl,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *HMACService) Issue(clientID string) (string, error) {
	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   clientID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		ClientID: clientID,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
}

func (s *HMACService) Verify(tokenString string) (string, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims,
		func(_ *jwt.Token) (any, error) { return s.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}
	if claims.ClientID == "" {
		return "", ErrInvalidToken
	}
	return claims.ClientID, nil
}

func (s *HMACService) TTL() time.Duration {
	return s.ttl
}
