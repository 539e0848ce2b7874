package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/niksmo/snublejuice/internal/core/domain"
	"github.com/niksmo/snublejuice/internal/core/port"
)

var _ port.TokenManager = (*TokenManager)(nil)

// TokenTTL is the lifetime of a session token and of its cookie.
const TokenTTL = 365 * 24 * time.Hour

var errNoKey = errors.New("signing key is empty")

type claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}

// A TokenManager signs and verifies HS256 session tokens.
type TokenManager struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

type TokenManagerOpt func(*TokenManager)

func TTLOpt(ttl time.Duration) TokenManagerOpt {
	return func(tm *TokenManager) { tm.ttl = ttl }
}

func ClockOpt(now func() time.Time) TokenManagerOpt {
	return func(tm *TokenManager) { tm.now = now }
}

func NewTokenManager(key string, opts ...TokenManagerOpt) (TokenManager, error) {
	const op = "NewTokenManager"

	if key == "" {
		return TokenManager{}, fmt.Errorf("%s: %w", op, errNoKey)
	}

	tm := TokenManager{key: []byte(key), ttl: TokenTTL, now: time.Now}
	for _, opt := range opts {
		opt(&tm)
	}
	return tm, nil
}

func (tm TokenManager) Sign(username string) (string, error) {
	const op = "TokenManager.Sign"

	now := tm.now().UTC()
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.ttl)),
		},
		Username: username,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(tm.key)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return token, nil
}

// Verify returns the username of a valid token.
// Any failure is reported as [domain.ErrUnauthorized].
func (tm TokenManager) Verify(token string) (string, error) {
	const op = "TokenManager.Verify"

	var c claims
	_, err := jwt.ParseWithClaims(token, &c,
		func(*jwt.Token) (any, error) { return tm.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(tm.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", fmt.Errorf("%s: %w: %w", op, domain.ErrUnauthorized, err)
	}
	if c.Username == "" {
		return "", fmt.Errorf("%s: %w: no username", op, domain.ErrUnauthorized)
	}
	return c.Username, nil
}
