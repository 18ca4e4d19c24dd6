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
	"net/http"

	"github.com/tombee/nucleo-server/pkg/auth"
)

type ctxKey int

const (
	requestIDKey ctxKey = iota
	clientIPKey
	envelopeKey
	claimsKey
	tokenKey
	usernameKey
)

// Middleware wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

// Chain applies mw to h so that mw[0] is the outermost handler.
func Chain(h http.Handler, mw ...Middleware) http.Handler {
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	return h
}

// envelope records what Write sent, for Logging and Metrics.
type envelope struct {
	status int
	code   string
}

func trackEnvelope(r *http.Request) (*http.Request, *envelope) {
	if e, ok := r.Context().Value(envelopeKey).(*envelope); ok {
		return r, e
	}
	e := &envelope{}
	return r.WithContext(context.WithValue(r.Context(), envelopeKey, e)), e
}

func recordEnvelope(ctx context.Context, status int, code string) {
	if e, ok := ctx.Value(envelopeKey).(*envelope); ok {
		e.status = status
		e.code = code
	}
}

// statusWriter remembers the status code written through it.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func wrapWriter(w http.ResponseWriter) *statusWriter {
	if sw, ok := w.(*statusWriter); ok {
		return sw
	}
	return &statusWriter{ResponseWriter: w}
}

func (w *statusWriter) WriteHeader(status int) {
	if w.status == 0 {
		w.status = status
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

func (w *statusWriter) written() bool { return w.status != 0 }

// Status returns the written status, 200 if the handler wrote nothing.
func (w *statusWriter) Status() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

// RequestIDFromContext returns the ID stored by RequestID.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// ClientIP returns the address resolved by TrustedProxy.
func ClientIP(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey).(string)
	return ip
}

// ClaimsFromContext returns the claims stored by RequireJWT.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*auth.Claims)
	return c, ok
}

// BearerTokenFromContext returns the token accepted by RequireBearer or RequireJWT.
func BearerTokenFromContext(ctx context.Context) string {
	tok, _ := ctx.Value(tokenKey).(string)
	return tok
}

// UsernameFromContext returns the user authenticated by RequireBasic.
func UsernameFromContext(ctx context.Context) string {
	u, _ := ctx.Value(usernameKey).(string)
	return u
}
