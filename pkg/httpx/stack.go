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
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"

	"github.com/tombee/nucleo-server/pkg/auth"
	"github.com/tombee/nucleo-server/pkg/config"
	"github.com/tombee/nucleo-server/pkg/response"
)

// StackOptions configures NewStack.
type StackOptions struct {
	// Logger defaults to slog.Default.
	Logger *slog.Logger

	// Registerer receives the HTTP metrics. nil disables metrics.
	Registerer prometheus.Registerer

	// TracerProvider enables a server span per request when set.
	TracerProvider trace.TracerProvider

	// CORS overrides the configuration derived from the server's cors_origin.
	CORS *CORSConfig
}

// Stack is the middleware chain and response helpers derived from one
// config.Server.
type Stack struct {
	Catalog   *response.Catalog
	Extractor *auth.Extractor
	Responder *Responder
	Metrics   *Metrics

	chain []Middleware
}

// NewStack builds the standard chain for server. The catalog follows the
// server's debug setting.
func NewStack(server *config.Server, opts StackOptions) (*Stack, error) {
	cat := response.NewCatalog(server.ResponseSettings())

	proxy, err := TrustedProxy(server)
	if err != nil {
		return nil, fmt.Errorf("failed to configure trusted proxies: %w", err)
	}

	corsCfg := CORSFromOrigin(server.CorsOrigin())
	if opts.CORS != nil {
		corsCfg = *opts.CORS
	}

	s := &Stack{
		Catalog:   cat,
		Extractor: auth.NewExtractor(cat),
		Responder: NewResponder(WithCatalog(cat), WithLogger(opts.Logger)),
	}

	s.chain = []Middleware{RequestID, proxy}
	if opts.TracerProvider != nil {
		s.chain = append(s.chain, Tracing(opts.TracerProvider))
	}
	s.chain = append(s.chain, Logging(opts.Logger))
	if opts.Registerer != nil {
		s.Metrics = NewMetrics(opts.Registerer)
		s.chain = append(s.chain, s.Metrics.Middleware)
	}
	s.chain = append(s.chain,
		Recover(cat, WithLogger(opts.Logger)),
		CORS(corsCfg),
	)
	return s, nil
}

// Handler wraps h with the stack.
func (s *Stack) Handler(h http.Handler) http.Handler {
	return Chain(h, s.chain...)
}

// Handle adapts an error returning handler and wraps it with the stack.
func (s *Stack) Handle(h Handler) http.Handler {
	return s.Handler(s.Responder.Handle(h))
}

// NotFound writes the catalog's Not Found envelope.
func (s *Stack) NotFound() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.Responder.Error(w, r, s.Catalog.NotFound)
	})
}
