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
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/tombee/nucleo-server/internal/log"
	"github.com/tombee/nucleo-server/pkg/auth"
	"github.com/tombee/nucleo-server/pkg/response"
)

// TokenVerifier checks a bearer token. Returning a *response.ErrorResponse
// sends it as is; any other error becomes Unauthorized.
type TokenVerifier func(ctx context.Context, token string) error

// RequireBearer rejects requests without a bearer token accepted by verify.
func RequireBearer(ex *auth.Extractor, verify TokenVerifier, opts ...Option) Middleware {
	rs := authResponder(ex, opts)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := ex.BearerTokenFromRequest(r)
			if err != nil {
				rs.Error(w, r, err)
				return
			}
			if err := verify(r.Context(), token); err != nil {
				rs.rejectToken(w, r, token, err)
				return
			}
			ctx := context.WithValue(r.Context(), tokenKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireJWT rejects requests without a valid JWT and stores its claims.
func RequireJWT(ex *auth.Extractor, cfg auth.JWTConfig, opts ...Option) Middleware {
	rs := authResponder(ex, opts)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := ex.BearerTokenFromRequest(r)
			if err != nil {
				rs.Error(w, r, err)
				return
			}
			claims, err := auth.ValidateJWT(token, cfg)
			if err != nil {
				rs.rejectToken(w, r, token, err)
				return
			}
			ctx := context.WithValue(r.Context(), tokenKey, token)
			ctx = context.WithValue(ctx, claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireScope rejects requests whose JWT claims lack scope. It must run
// inside RequireJWT.
func RequireScope(ex *auth.Extractor, scope string, opts ...Option) Middleware {
	rs := authResponder(ex, opts)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok || !claims.HasScope(scope) {
				rs.Error(w, r, rs.catalog.Forbidden.Wrap(response.WrapOptions{
					Message: "missing required scope",
					Data:    scope,
				}))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireBasic checks Basic credentials against users, a username to
// bcrypt hash table. 401 responses carry a WWW-Authenticate challenge for
// realm.
func RequireBasic(ex *auth.Extractor, realm string, users map[string]string, opts ...Option) Middleware {
	rs := authResponder(ex, opts)
	challenge := `Basic realm="` + realmEscaper.Replace(realm) + `", charset="UTF-8"`
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			creds, err := ex.BasicAuthFromRequest(r)
			if err == nil && !auth.VerifyCredentials(users, creds) {
				rs.log().DebugContext(r.Context(), "credentials rejected",
					"username", creds.Username,
					"password", log.SanitizeSecret(creds.Password))
				err = rs.catalog.Unauthorized.Wrap(response.WrapOptions{
					Message:  "invalid credentials",
					ShowData: true,
				})
			}
			if err != nil {
				if rs.catalog.FromError(err).HTTPStatus() == http.StatusUnauthorized {
					w.Header().Set("WWW-Authenticate", challenge)
				}
				rs.Error(w, r, err)
				return
			}
			ctx := context.WithValue(r.Context(), usernameKey, creds.Username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

var realmEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func authResponder(ex *auth.Extractor, opts []Option) *Responder {
	return NewResponder(append([]Option{WithCatalog(ex.Catalog())}, opts...)...)
}

func (rs *Responder) rejectToken(w http.ResponseWriter, r *http.Request, token string, err error) {
	rs.log().DebugContext(r.Context(), "token rejected",
		"token", log.SanitizeToken(token),
		log.Error(err))

	var er *response.ErrorResponse
	if !errors.As(err, &er) {
		er = rs.catalog.Unauthorized.Wrap(response.WrapOptions{
			Message: "invalid token",
			Data:    err.Error(),
			Cause:   err,
		})
	}
	rs.Error(w, r, er)
}
