// Campanile - Campus Event Management Platform
// Copyright 2026 Campanile Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/campanile-app/campanile

// Package auth provides JWT-based authentication for the HTTP API.
// Tokens are stateless HS256 tokens carrying the user's id, username, and
// role; there is no server-side session state.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/campanile-app/campanile/internal/models"
)

// minSecretLength is the minimum accepted JWT secret length.
const minSecretLength = 32

var (
	ErrSecretTooShort = fmt.Errorf("jwt secret must be at least %d characters", minSecretLength)
	ErrInvalidToken   = errors.New("invalid token")
)

// Claims are the JWT claims issued for an authenticated user.
type Claims struct {
	UserID   string          `json:"uid"`
	Username string          `json:"username"`
	Role     models.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// Config holds token signing configuration.
type Config struct {
	// Secret signs tokens with HMAC-SHA256. Minimum 32 characters.
	Secret string `koanf:"secret"`
	// TokenTTL is how long issued tokens remain valid.
	TokenTTL time.Duration `koanf:"token_ttl"`
	// Issuer is stamped into the iss claim.
	Issuer string `koanf:"issuer"`
}

// DefaultConfig returns token defaults. The secret has no default and must
// come from configuration.
func DefaultConfig() *Config {
	return &Config{
		TokenTTL: 24 * time.Hour,
		Issuer:   "campanile",
	}
}

// JWTManager creates and validates tokens.
type JWTManager struct {
	secret []byte
	ttl    time.Duration
	issuer string

	// nowFn is swapped in tests for deterministic expiry checks.
	nowFn func() time.Time
}

// NewJWTManager validates the configuration and returns a manager.
func NewJWTManager(cfg *Config) (*JWTManager, error) {
	if len(cfg.Secret) < minSecretLength {
		return nil, ErrSecretTooShort
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = DefaultConfig().TokenTTL
	}
	return &JWTManager{
		secret: []byte(cfg.Secret),
		ttl:    ttl,
		issuer: cfg.Issuer,
		nowFn:  time.Now,
	}, nil
}

// GenerateToken issues a signed token for the user.
func (m *JWTManager) GenerateToken(user *models.User) (string, error) {
	now := m.nowFn()
	claims := &Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    m.issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken verifies the signature, algorithm, and time claims and
// returns the embedded claims. Rejecting non-HMAC algorithms up front
// blocks algorithm-confusion tokens.
func (m *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.nowFn))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if !claims.Role.IsValid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidToken, claims.Role)
	}

	return claims, nil
}
