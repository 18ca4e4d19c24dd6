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

// Package auth extracts and verifies request credentials.
//
// Extraction failures are returned as *response.ErrorResponse values built
// from a response.Catalog, so they can be written to the client unchanged.
package auth

import (
	"encoding/base64"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/tombee/nucleo-server/pkg/response"
)

const (
	// SchemeBasic is the Authorization scheme of HTTP Basic credentials.
	SchemeBasic = "Basic"
	// SchemeBearer is the Authorization scheme of bearer tokens.
	SchemeBearer = "Bearer"
)

const (
	basicFormatMessage  = "credentials must be in Basic Auth format"
	bearerFormatMessage = "credentials must be in Bearer format"
	missingMessage      = "missing authorization header"
)

// Credentials is a decoded Basic Auth pair.
type Credentials struct {
	Username string
	Password string
}

// Extractor parses Authorization values. Errors are built from its catalog,
// so they follow the catalog's debug setting.
type Extractor struct {
	catalog *response.Catalog
}

// NewExtractor returns an Extractor using cat. A nil cat means response.Default.
func NewExtractor(cat *response.Catalog) *Extractor {
	if cat == nil {
		cat = response.Default
	}
	return &Extractor{catalog: cat}
}

var defaultExtractor = NewExtractor(nil)

// splitScheme returns the first two space separated fields of token.
// Anything after the second field is ignored.
func splitScheme(token string) (scheme, value string, ok bool) {
	parts := strings.Split(token, " ")
	if len(parts) < 2 {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// BasicAuth decodes a "Basic <base64>" value. The error is a Bad Request
// response that never carries data.
//
// Decoding is strict. A payload that is not base64 in any of the standard
// or URL alphabets, or that decodes to invalid UTF-8, is rejected instead
// of being repaired with replacement characters.
func (e *Extractor) BasicAuth(token string) (Credentials, error) {
	scheme, encoded, ok := splitScheme(token)
	if !ok || scheme != SchemeBasic {
		return Credentials{}, e.basicError()
	}

	decoded, ok := decodeBase64(encoded)
	if !ok {
		return Credentials{}, e.basicError()
	}

	username, password, _ := strings.Cut(decoded, ":")
	return Credentials{Username: username, Password: password}, nil
}

// BearerToken returns the token of a "Bearer <token>" value.
func (e *Extractor) BearerToken(token string) (string, error) {
	scheme, value, ok := splitScheme(token)
	if !ok || scheme != SchemeBearer {
		return "", e.catalog.BadRequest.Wrap(response.WrapOptions{Message: bearerFormatMessage})
	}
	return value, nil
}

// BasicAuthFromRequest reads Basic credentials from the Authorization header.
// A missing header is Unauthorized.
func (e *Extractor) BasicAuthFromRequest(r *http.Request) (Credentials, error) {
	value := r.Header.Get("Authorization")
	if value == "" {
		return Credentials{}, e.missing()
	}
	return e.BasicAuth(value)
}

// BearerTokenFromRequest reads a bearer token from the Authorization header.
// A missing header is Unauthorized.
func (e *Extractor) BearerTokenFromRequest(r *http.Request) (string, error) {
	value := r.Header.Get("Authorization")
	if value == "" {
		return "", e.missing()
	}
	return e.BearerToken(value)
}

// Catalog returns the catalog errors are built from.
func (e *Extractor) Catalog() *response.Catalog { return e.catalog }

func (e *Extractor) basicError() error {
	return e.catalog.BadRequest.Wrap(response.WrapOptions{
		Message:  basicFormatMessage,
		ShowData: true,
	})
}

func (e *Extractor) missing() error {
	return e.catalog.Unauthorized.Wrap(response.WrapOptions{
		Message:  missingMessage,
		ShowData: true,
	})
}

// decodeBase64 accepts padded and unpadded input in both the standard and
// URL-safe alphabets. The result must be valid UTF-8.
func decodeBase64(s string) (string, bool) {
	for _, enc := range []*base64.Encoding{
		base64.StdEncoding,
		base64.RawStdEncoding,
		base64.URLEncoding,
		base64.RawURLEncoding,
	} {
		if b, err := enc.DecodeString(s); err == nil {
			if !utf8.Valid(b) {
				return "", false
			}
			return string(b), true
		}
	}
	return "", false
}

// ExtractBasicAuth decodes a Basic Auth value using the default catalog.
func ExtractBasicAuth(token string) (Credentials, error) {
	return defaultExtractor.BasicAuth(token)
}

// ExtractBearerToken returns the token of a Bearer value using the default catalog.
func ExtractBearerToken(token string) (string, error) {
	return defaultExtractor.BearerToken(token)
}

// BasicAuthFromRequest uses the default catalog.
func BasicAuthFromRequest(r *http.Request) (Credentials, error) {
	return defaultExtractor.BasicAuthFromRequest(r)
}

// BearerTokenFromRequest uses the default catalog.
func BearerTokenFromRequest(r *http.Request) (string, error) {
	return defaultExtractor.BearerTokenFromRequest(r)
}
