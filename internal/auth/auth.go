// Package auth derives the caller's account state from a JWT access token.
package auth

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoSecret is returned when signing or verifying without a secret.
var ErrNoSecret = errors.New("jwt secret not configured")

// Claims are the token claims the client cares about.
type Claims struct {
	Premium bool `json:"premium"`
	jwt.RegisteredClaims
}

// Session is the client's view of the signed-in account. It starts out
// resolving until Resolve is called.
//
// The client cannot check signatures; the backend does. Resolve only
// decodes the token and honours its expiry.
type Session struct {
	mu        sync.RWMutex
	claims    *Claims
	resolving bool
	now       func() time.Time
}

// NewSession creates a session that is still resolving.
func NewSession() *Session {
	return &Session{resolving: true, now: time.Now}
}

// Resolve finishes resolution with token. An empty token resolves to an
// anonymous session. An unparsable token also resolves to anonymous and
// returns the parse error.
func (s *Session) Resolve(token string) error {
	var (
		claims *Claims
		err    error
	)
	if token != "" {
		claims, err = parseUnverified(token)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.claims = claims
	s.resolving = false
	return err
}

func parseUnverified(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	return claims, nil
}

// Loading returns true until Resolve has been called.
func (s *Session) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resolving
}

// IsAuthenticated returns true for a resolved, unexpired token.
func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.validLocked()
}

// IsPremium returns true if the authenticated account is premium.
func (s *Session) IsPremium() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.validLocked() && s.claims.Premium
}

// Subject returns the account id, or "" when anonymous.
func (s *Session) Subject() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.validLocked() {
		return ""
	}
	return s.claims.Subject
}

func (s *Session) validLocked() bool {
	if s.claims == nil {
		return false
	}
	if s.claims.ExpiresAt != nil && !s.now().Before(s.claims.ExpiresAt.Time) {
		return false
	}
	return true
}

// Issue signs an HS256 token for subject valid for ttl.
func Issue(secret, subject string, premium bool, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", ErrNoSecret
	}
	now := time.Now()
	claims := Claims{
		Premium: premium,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// Verify checks token's signature and expiry against secret.
func Verify(secret, token string) (*Claims, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %s", t.Method.Alg())
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("verify token: %w", err)
	}
	return claims, nil
}
