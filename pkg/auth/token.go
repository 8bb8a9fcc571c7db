// Package auth authenticates users of grammard.
//
// Users log in with email and password, and get an access token (HS256 JWT).
// Requests carry it as "Authorization: Bearer <token>".
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	kdb "github.com/opst/grammarfab/pkg/db"
)

var ErrInvalidToken = errors.New("invalid token")

// TokenTypeAccess is the value of "type" claim of access tokens.
const TokenTypeAccess = "access"

type Claims struct {
	jwt.RegisteredClaims

	// kind of the token. Only TokenTypeAccess is accepted.
	Type  string `json:"type"`
	Email string `json:"email"`
}

// Token is an issued access token.
type Token struct {
	Value     string
	JTI       string
	ExpiresAt time.Time
}

// Tokens issues and verifies access tokens.
type Tokens struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
	jti      func() string
}

type TokensOption func(*Tokens) *Tokens

// WithClock replaces the clock used to issue and verify tokens.
func WithClock(now func() time.Time) TokensOption {
	return func(t *Tokens) *Tokens {
		t.now = now
		return t
	}
}

// WithTokenIdGenerator replaces the generator of "jti".
func WithTokenIdGenerator(jti func() string) TokensOption {
	return func(t *Tokens) *Tokens {
		t.jti = jti
		return t
	}
}

// NewTokens creates Tokens.
//
// # Args
//
// - secret: HMAC key
//
// - issuer, audience: "iss" and "aud" of tokens. Tokens with other values are rejected.
//
// - ttl: lifetime of tokens
func NewTokens(secret []byte, issuer, audience string, ttl time.Duration, options ...TokensOption) *Tokens {
	t := &Tokens{
		secret:   secret,
		issuer:   issuer,
		audience: audience,
		ttl:      ttl,
		now:      time.Now,
		jti:      uuid.NewString,
	}
	for _, opt := range options {
		t = opt(t)
	}
	return t
}

// TTL returns the lifetime of tokens.
func (t *Tokens) TTL() time.Duration {
	return t.ttl
}

// Issue signs a new access token for the user.
func (t *Tokens) Issue(user kdb.User) (Token, error) {
	now := t.now()
	exp := now.Add(t.ttl)
	jti := t.jti()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Subject:   user.UUID,
			Audience:  jwt.ClaimStrings{t.audience},
			ExpiresAt: jwt.NewNumericDate(exp),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        jti,
		},
		Type:  TokenTypeAccess,
		Email: user.Email,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return Token{}, err
	}
	return Token{Value: signed, JTI: jti, ExpiresAt: exp.Truncate(time.Second)}, nil
}

// Verify checks the token and returns its claims.
//
// # Returns
//
// - *Claims
//
// - error: wraps ErrInvalidToken when the token is malformed, not signed by us,
// expired, for other issuer or audience, or not an access token.
func (t *Tokens) Verify(token string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(t.issuer),
		jwt.WithAudience(t.audience),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(t.now),
	)

	claims := new(Claims)
	if _, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	}); err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}

	if claims.Type != TokenTypeAccess {
		return nil, fmt.Errorf("%w: unexpected token type: %q", ErrInvalidToken, claims.Type)
	}
	if claims.Subject == "" || claims.ID == "" {
		return nil, fmt.Errorf("%w: sub or jti is missing", ErrInvalidToken)
	}
	return claims, nil
}
