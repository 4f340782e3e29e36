// Copyright (c) 2026 Lumina. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and session token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer via the [TokenProvider] interface.
package sec

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims represents the payload embedded inside an admin session token.
//
// # Why custom claims?
//
// By embedding the Username directly inside the JWT, [middleware.Authenticate]
// can reconstruct the admin context WITHOUT a session lookup on every single
// API request. The admin panel is single-user, so there is no role hierarchy.
type SessionClaims struct {
	jwt.RegisteredClaims

	// Username identifies the admin account the session belongs to.
	Username string `json:"unm"`
}

// TokenService handles generation and verification of session tokens using HS256.
//
// The portfolio runs as a single service, so a shared HMAC secret is
// sufficient; there is no second party that would need a public key.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewTokenService creates a new TokenService signing with the given secret.
func NewTokenService(secret string, issuer string, ttl time.Duration) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, fmt.Errorf("sec: session secret must be at least 16 bytes")
	}

	return &TokenService{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
	}, nil
}

/*
IssueToken creates a signed session token for the admin account.

Parameters:
  - username: string

Returns:
  - string: Signed JWT
  - error: Signing failures
*/
func (service *TokenService) IssueToken(username string) (string, error) {

	now := time.Now()

	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(service.ttl)),
		},
		Username: username,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign session token: %w", err)
	}

	return signed, nil
}

/*
VerifyToken parses and validates a session token string.

Description: Rejects tokens with a wrong signing method, bad signature,
wrong issuer, or past expiry.

Parameters:
  - tokenStr: string

Returns:
  - *SessionClaims: The verified session claims
  - error: Verification failures
*/
func (service *TokenService) VerifyToken(tokenStr string) (*SessionClaims, error) {

	claims := &SessionClaims{}

	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method %v", t.Header["alg"])
		}
		return service.secret, nil
	}, jwt.WithIssuer(service.issuer), jwt.WithExpirationRequired())

	if err != nil {
		return nil, fmt.Errorf("sec: invalid session token: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("sec: session token failed validation")
	}

	return claims, nil
}

// TTL exposes the configured session lifetime (used for cookie MaxAge).
func (service *TokenService) TTL() time.Duration {
	return service.ttl
}
