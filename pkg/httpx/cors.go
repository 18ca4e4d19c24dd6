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

package httpx

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/tombee/nucleo-server/pkg/config"
	"github.com/tombee/nucleo-server/pkg/header"
)

// CORSConfig holds CORS middleware configuration.
type CORSConfig struct {
	// Enabled determines if CORS middleware is active.
	Enabled bool

	// AllowedOrigins lists the origins allowed to make cross origin requests.
	// "*" allows any origin and "*.example.com" allows subdomains.
	AllowedOrigins []string

	// ReflectOrigin echoes any request origin back.
	ReflectOrigin bool

	// AllowedMethods defaults to GET, POST, PUT, PATCH, DELETE and OPTIONS.
	AllowedMethods []string

	// AllowedHeaders defaults to Content-Type and Authorization.
	AllowedHeaders []string

	// ExposedHeaders defaults to the token headers and X-Request-ID.
	ExposedHeaders []string

	// MaxAge is the preflight cache lifetime in seconds. Default: 86400
	MaxAge int

	// AllowCredentials sends Access-Control-Allow-Credentials. It is never
	// sent together with a literal "*" origin.
	AllowCredentials bool

	// ExcludePaths are doublestar patterns matched against the request path,
	// e.g. "/admin/**".
	ExcludePaths []string
}

// DefaultCORSConfig returns a disabled configuration with default lists.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", HeaderRequestID},
		ExposedHeaders:   append(header.Names(), HeaderRequestID),
		MaxAge:           86400,
		AllowCredentials: true,
	}
}

// CORSFromOrigin maps a parsed cors_origin setting onto DefaultCORSConfig.
func CORSFromOrigin(origin config.CorsOrigin) CORSConfig {
	cfg := DefaultCORSConfig()
	switch origin.Kind() {
	case config.CorsAny:
		cfg.Enabled = true
		cfg.AllowedOrigins = []string{"*"}
	case config.CorsReflect:
		cfg.Enabled = true
		cfg.ReflectOrigin = true
	case config.CorsList:
		cfg.Enabled = true
		cfg.AllowedOrigins = origin.Origins()
	}
	return cfg
}

// CORS returns the CORS middleware for cfg, or a no-op when disabled.
func CORS(cfg CORSConfig) Middleware {
	if !cfg.Enabled {
		return func(next http.Handler) http.Handler { return next }
	}

	defaults := DefaultCORSConfig()
	if len(cfg.AllowedMethods) == 0 {
		cfg.AllowedMethods = defaults.AllowedMethods
	}
	if len(cfg.AllowedHeaders) == 0 {
		cfg.AllowedHeaders = defaults.AllowedHeaders
	}
	if cfg.ExposedHeaders == nil {
		cfg.ExposedHeaders = defaults.ExposedHeaders
	}
	if cfg.MaxAge == 0 {
		cfg.MaxAge = defaults.MaxAge
	}

	methods := strings.Join(cfg.AllowedMethods, ", ")
	headers := strings.Join(cfg.AllowedHeaders, ", ")
	exposed := strings.Join(cfg.ExposedHeaders, ", ")
	// Responses differ per origin unless every origin gets "*".
	varyOrigin := cfg.ReflectOrigin || !slices.Contains(cfg.AllowedOrigins, "*")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if excluded(r.URL.Path, cfg.ExcludePaths) {
				next.ServeHTTP(w, r)
				return
			}
			if varyOrigin {
				w.Header().Add("Vary", "Origin")
			}

			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			allowed, ok := cfg.allowOrigin(origin)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Set("Access-Control-Allow-Origin", allowed)
			if allowed != "*" && cfg.AllowCredentials {
				h.Set("Access-Control-Allow-Credentials", "true")
			}
			if exposed != "" {
				h.Set("Access-Control-Expose-Headers", exposed)
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				h.Set("Access-Control-Allow-Methods", methods)
				h.Set("Access-Control-Allow-Headers", headers)
				if cfg.MaxAge > 0 {
					h.Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (cfg CORSConfig) allowOrigin(origin string) (string, bool) {
	switch {
	case cfg.ReflectOrigin:
		return origin, true
	case slices.Contains(cfg.AllowedOrigins, "*"):
		return "*", true
	case isOriginAllowed(origin, cfg.AllowedOrigins):
		return origin, true
	default:
		return "", false
	}
}

// isOriginAllowed supports exact matches and "*.suffix" wildcards.
func isOriginAllowed(origin string, allowedOrigins []string) bool {
	for _, allowed := range allowedOrigins {
		if allowed == origin {
			return true
		}
		if suffix, ok := strings.CutPrefix(allowed, "*"); ok && strings.HasPrefix(suffix, ".") && strings.HasSuffix(origin, suffix) {
			return true
		}
	}
	return false
}

// excluded reports whether path matches any pattern. Malformed patterns
// never match.
func excluded(path string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, path); err == nil && ok {
			return true
		}
	}
	return false
}
