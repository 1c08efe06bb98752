// Package token issues and validates the JWT access tokens carrying a
// user's identity and role.
package token

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/warroomhq/incident-command/internal/domain"
	"github.com/warroomhq/incident-command/internal/identity"
)

const issuer = "incident-command"

// Claims are the token claims. Role travels in the token so route
// guards never need a user lookup.
type Claims struct {
	Role domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// Authenticator signs and validates HS256 tokens.
type Authenticator struct {
	secret   []byte
	duration time.Duration
	now      func() time.Time
}

// NewAuthenticator creates a new authenticator. Tokens expire after the
// given duration.
func NewAuthenticator(secret string, duration time.Duration) *Authenticator {
	return &Authenticator{
		secret:   []byte(secret),
		duration: duration,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// GenerateToken issues a signed token for the user.
func (a *Authenticator) GenerateToken(_ context.Context, user *domain.User) (string, error) {
	now := a.now()
	claims := &Claims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.duration)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and verifies a token, returning the embedded
// user id and role.
func (a *Authenticator) ValidateToken(_ context.Context, tokenString string) (string, domain.Role, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(func() time.Time { return a.now() }))
	if err != nil {
		return "", "", identity.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", "", identity.ErrInvalidToken
	}
	if !claims.Role.IsValid() {
		return "", "", identity.ErrInvalidToken
	}

	return claims.Subject, claims.Role, nil
}
