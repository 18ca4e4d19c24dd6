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

// Package header defines the HTTP header names shared between services and
// the middleware that issues or consumes session tokens.
package header

import (
	"net/http"
	"time"
)

// Token header names. External middleware reads and writes exactly these names.
const (
	AccessToken        = "x-access-token"
	AccessTokenExpiry  = "x-access-token-expired-at"
	RefreshToken       = "x-refresh-token"
	RefreshTokenExpiry = "x-refresh-token-expired-at"
)

// Map is a flat set of header values keyed by header name.
type Map map[string]string

// Apply copies every entry of m onto h, replacing existing values.
func (m Map) Apply(h http.Header) {
	for k, v := range m {
		h.Set(k, v)
	}
}

// TokenSet holds the tokens issued to a client after authentication.
type TokenSet struct {
	AccessToken           string
	AccessTokenExpiresAt  time.Time
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
}

// Map returns the non-empty token values keyed by their header names.
// Expiry timestamps are formatted as RFC 3339 in UTC.
func (t TokenSet) Map() Map {
	m := Map{}
	if t.AccessToken != "" {
		m[AccessToken] = t.AccessToken
	}
	if !t.AccessTokenExpiresAt.IsZero() {
		m[AccessTokenExpiry] = t.AccessTokenExpiresAt.UTC().Format(time.RFC3339)
	}
	if t.RefreshToken != "" {
		m[RefreshToken] = t.RefreshToken
	}
	if !t.RefreshTokenExpiresAt.IsZero() {
		m[RefreshTokenExpiry] = t.RefreshTokenExpiresAt.UTC().Format(time.RFC3339)
	}
	return m
}

// Apply writes the token headers onto h.
func (t TokenSet) Apply(h http.Header) {
	t.Map().Apply(h)
}

// Names returns every token header name in a stable order, suitable for a
// CORS expose list.
func Names() []string {
	return []string{AccessToken, AccessTokenExpiry, RefreshToken, RefreshTokenExpiry}
}
