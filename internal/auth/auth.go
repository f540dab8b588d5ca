// Stratodrift - Balloon Fleet Trajectory Simulation and Coverage Analytics
// Copyright 2026 Dana R. (driftlabs)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlabs/stratodrift

// Package auth issues and validates the API's bearer tokens.
//
// Clients exchange a pre-shared API key (stored as a bcrypt hash in
// configuration) for a short-lived HS256 JWT at the token endpoint, then
// present the JWT on every protected request. Tokens are stateless: they
// cannot be revoked before expiry, so the TTL should stay short.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/driftlabs/stratodrift/internal/config"
)

// ErrInvalidToken is returned for tokens that are expired, tampered,
// malformed, or signed for another issuer or audience.
var ErrInvalidToken = errors.New("invalid token")

// ErrInvalidKey is returned when an API key does not match the configured
// hash.
var ErrInvalidKey = errors.New("invalid API key")

// Claims carries the registered JWT claims for an API client.
type Claims struct {
	jwt.RegisteredClaims
}

// Manager creates and validates JWT tokens and verifies API keys.
type Manager struct {
	secret     []byte
	apiKeyHash []byte
	ttl        time.Duration
	issuer     string
	audience   string
}

// NewManager creates a token manager from the auth configuration. The
// configuration loader has already enforced secret length, hash format, and
// TTL bounds; this guards only against direct construction with an empty
// secret.
func NewManager(cfg *config.AuthConfig) (*Manager, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT secret is required but was empty")
	}

	return &Manager{
		secret:     []byte(cfg.JWTSecret),
		apiKeyHash: []byte(cfg.APIKeyHash),
		ttl:        cfg.TokenTTL,
		issuer:     cfg.Issuer,
		audience:   cfg.Audience,
	}, nil
}

// VerifyAPIKey compares a presented API key against the configured bcrypt
// hash. bcrypt comparison is constant-time for equal-cost hashes.
func (m *Manager) VerifyAPIKey(key string) error {
	if len(m.apiKeyHash) == 0 {
		return fmt.Errorf("%w: no API key hash configured", ErrInvalidKey)
	}
	if err := bcrypt.CompareHashAndPassword(m.apiKeyHash, []byte(key)); err != nil {
		return ErrInvalidKey
	}
	return nil
}

// IssueToken creates a signed JWT for the given subject, valid from now
// until the configured TTL elapses.
func (m *Manager) IssueToken(subject string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(m.ttl)

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Audience:  jwt.ClaimStrings{m.audience},
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	return signed, expiresAt, nil
}

// ValidateToken parses and validates a JWT, checking the HMAC signature,
// signing algorithm, expiry, and the issuer and audience claims.
func (m *Manager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.secret, nil
		},
		jwt.WithIssuer(m.issuer),
		jwt.WithAudience(m.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// TTL returns the configured token lifetime.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}
