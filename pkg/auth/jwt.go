// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package auth

import (
	"crypto/ed25519"
	"fmt"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"

	nucleoerrors "github.com/tombee/nucleo-server/pkg/errors"
)

// DefaultTokenLifetime is used by GenerateJWT when claims carry no expiry.
const DefaultTokenLifetime = time.Hour

var (
	// ErrEmptyToken is returned for an empty token string.
	ErrEmptyToken = nucleoerrors.New("token is empty")
	// ErrNoSigningKey is returned when JWTConfig has no key for the operation.
	ErrNoSigningKey = nucleoerrors.New("no signing key configured")
	// ErrInvalidIssuer is returned when the iss claim does not match.
	ErrInvalidIssuer = nucleoerrors.New("invalid issuer")
	// ErrInvalidAudience is returned when the aud claim does not contain the expected audience.
	ErrInvalidAudience = nucleoerrors.New("invalid audience")
)

// JWTConfig configures access token signing and validation.
type JWTConfig struct {
	// Secret is the HS256 key.
	Secret []byte

	// PublicKey verifies EdDSA tokens.
	PublicKey ed25519.PublicKey

	// PrivateKey signs EdDSA tokens. Takes precedence over Secret for signing.
	PrivateKey ed25519.PrivateKey

	// Issuer is required on validated tokens and stamped on generated ones.
	Issuer string

	// Audience, when set, must appear in the aud claim.
	Audience string

	// ClockSkew is the leeway applied to exp and nbf.
	ClockSkew time.Duration

	// Lifetime overrides DefaultTokenLifetime for generated tokens.
	Lifetime time.Duration
}

// Claims are the access token claims.
type Claims struct {
	jwt.RegisteredClaims
	UserID string   `json:"user_id,omitempty"`
	Scopes []string `json:"scopes,omitempty"`
}

// HasScope reports whether the claims grant scope.
func (c *Claims) HasScope(scope string) bool {
	return slices.Contains(c.Scopes, scope)
}

func (cfg JWTConfig) keyFunc(token *jwt.Token) (any, error) {
	switch token.Method.Alg() {
	case jwt.SigningMethodHS256.Alg():
		if len(cfg.Secret) == 0 {
			return nil, fmt.Errorf("HS256: %w", ErrNoSigningKey)
		}
		return cfg.Secret, nil
	case jwt.SigningMethodEdDSA.Alg():
		if cfg.PublicKey == nil {
			return nil, fmt.Errorf("EdDSA: %w", ErrNoSigningKey)
		}
		return cfg.PublicKey, nil
	default:
		return nil, fmt.Errorf("unexpected signing method: %v", token.Method.Alg())
	}
}

// ValidateJWT parses tokenString and checks its signature, time claims,
// issuer and audience.
func ValidateJWT(tokenString string, cfg JWTConfig) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrEmptyToken
	}

	parser := jwt.NewParser(
		jwt.WithLeeway(cfg.ClockSkew),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg(), jwt.SigningMethodEdDSA.Alg()}),
	)

	claims := &Claims{}
	if _, err := parser.ParseWithClaims(tokenString, claims, cfg.keyFunc); err != nil {
		return nil, nucleoerrors.Wrap(err, "failed to parse token")
	}

	if cfg.Issuer != "" && claims.Issuer != cfg.Issuer {
		return nil, fmt.Errorf("%w: expected %s, got %s", ErrInvalidIssuer, cfg.Issuer, claims.Issuer)
	}

	if cfg.Audience != "" && !slices.Contains(claims.Audience, cfg.Audience) {
		return nil, fmt.Errorf("%w: expected %s", ErrInvalidAudience, cfg.Audience)
	}

	return claims, nil
}

// GenerateJWT signs claims, filling in the expiry, issue time and issuer
// when they are missing.
func GenerateJWT(claims Claims, cfg JWTConfig) (string, error) {
	now := time.Now()
	if claims.ExpiresAt == nil {
		lifetime := cfg.Lifetime
		if lifetime <= 0 {
			lifetime = DefaultTokenLifetime
		}
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(lifetime))
	}
	if claims.IssuedAt == nil {
		claims.IssuedAt = jwt.NewNumericDate(now)
	}
	if claims.Issuer == "" {
		claims.Issuer = cfg.Issuer
	}

	var (
		method jwt.SigningMethod
		key    any
	)
	switch {
	case cfg.PrivateKey != nil:
		method, key = jwt.SigningMethodEdDSA, cfg.PrivateKey
	case len(cfg.Secret) > 0:
		method, key = jwt.SigningMethodHS256, cfg.Secret
	default:
		return "", ErrNoSigningKey
	}

	signed, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		return "", nucleoerrors.Wrap(err, "failed to sign token")
	}
	return signed, nil
}

// ExpiresAtTime returns the expiry of claims, or the zero time.
func (c *Claims) ExpiresAtTime() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}
