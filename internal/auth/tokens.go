// Package auth holds password policy, hashing and the signed tokens used
// for sessions and password resets.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenTypeReset   = "reset"
	TokenTypeSession = "session"
)

var (
	ErrInvalidToken   = errors.New("invalid or expired token")
	ErrWrongTokenType = errors.New("invalid token type")
	ErrWeakSecret     = errors.New("token secret must be at least 32 bytes")
)

// Claims is the payload of every token: {type, userId, exp}.
type Claims struct {
	Type   string `json:"type"`
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// Tokens signs and verifies HS256 tokens. Reset tokens are time bounded
// only; nothing records that one has been used.
type Tokens struct {
	secret []byte
	now    func() time.Time
}

func NewTokens(secret []byte) (*Tokens, error) {
	if len(secret) < 32 {
		return nil, ErrWeakSecret
	}
	return &Tokens{secret: secret, now: time.Now}, nil
}

// WithClock returns a copy of t that reads time from now.
func (t *Tokens) WithClock(now func() time.Time) *Tokens {
	return &Tokens{secret: t.secret, now: now}
}

// Issue signs a token of the given type for userID that expires after ttl.
func (t *Tokens) Issue(tokenType, userID string, ttl time.Duration) (string, error) {
	if userID == "" {
		return "", errors.New("user id is required")
	}
	if ttl <= 0 {
		return "", errors.New("ttl must be positive")
	}
	now := t.now()
	claims := Claims{
		Type:   tokenType,
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (t *Tokens) IssueReset(userID string, ttl time.Duration) (string, error) {
	return t.Issue(TokenTypeReset, userID, ttl)
}

func (t *Tokens) IssueSession(userID string, ttl time.Duration) (string, error) {
	return t.Issue(TokenTypeSession, userID, ttl)
}

func (t *Tokens) ParseReset(raw string) (*Claims, error) {
	return t.Parse(raw, TokenTypeReset)
}

func (t *Tokens) ParseSession(raw string) (*Claims, error) {
	return t.Parse(raw, TokenTypeSession)
}

// Parse verifies signature and expiry, then requires the type claim to be
// wantType. Any failure wraps ErrInvalidToken or is ErrWrongTokenType.
func (t *Tokens) Parse(raw, wantType string) (*Claims, error) {
	if raw == "" {
		return nil, ErrInvalidToken
	}
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (any, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Type != wantType {
		return nil, ErrWrongTokenType
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("%w: missing user id", ErrInvalidToken)
	}
	return claims, nil
}
