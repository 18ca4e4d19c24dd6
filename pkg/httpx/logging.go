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
	"log/slog"
	"net/http"
	"time"

	"github.com/tombee/nucleo-server/internal/log"
)

// Logging writes one log line per request with the status and envelope code.
func Logging(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	logger = log.WithComponent(logger, "http")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			r, env := trackEnvelope(r)
			sw := wrapWriter(w)

			next.ServeHTTP(sw, r)

			reqLogger := logger
			if id := RequestIDFromContext(r.Context()); id != "" {
				reqLogger = log.WithRequestID(logger, id)
			}
			log.LogRequest(r.Context(), reqLogger, log.Request{
				Method:   r.Method,
				Path:     r.URL.Path,
				Status:   sw.Status(),
				Code:     env.code,
				Duration: time.Since(start),
				ClientIP: ClientIP(r.Context()),
			})
		})
	}
}
