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
	"encoding/json"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tombee/nucleo-server/internal/log"
	"github.com/tombee/nucleo-server/pkg/response"
)

// ContentTypeJSON is the Content-Type of every envelope.
const ContentTypeJSON = "application/json; charset=utf-8"

// Responder writes envelopes. Errors that are not *response.ErrorResponse
// are converted with its catalog, so they follow the catalog's debug setting.
type Responder struct {
	catalog *response.Catalog
	logger  *slog.Logger
}

// Option configures a Responder.
type Option func(*Responder)

// WithCatalog sets the catalog used to convert plain errors.
func WithCatalog(cat *response.Catalog) Option {
	return func(r *Responder) {
		if cat != nil {
			r.catalog = cat
		}
	}
}

// WithLogger sets the logger for encoding failures and recovered panics.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Responder) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewResponder returns a Responder using response.Default and slog.Default
// unless overridden.
func NewResponder(opts ...Option) *Responder {
	r := &Responder{catalog: response.Default}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (rs *Responder) log() *slog.Logger {
	if rs.logger == nil {
		return slog.Default()
	}
	return rs.logger
}

// Catalog returns the responder's catalog.
func (rs *Responder) Catalog() *response.Catalog { return rs.catalog }

// Write composes c with opts and writes it as JSON. opts.Headers are set on
// the response before the status line.
func (rs *Responder) Write(w http.ResponseWriter, r *http.Request, c response.Composable, opts response.ComposeOptions) {
	resp := c.Compose(opts)
	status := resp.HTTPStatus
	if status < 100 || status > 999 {
		status = http.StatusInternalServerError
		if c.Success() {
			status = http.StatusOK
		}
	}

	body := response.GetResponseBody(resp, c.Success())
	code := resp.Code
	if b, ok := body.(response.Body); ok {
		code = b.Code
	}
	recordEnvelope(r.Context(), status, code)

	opts.Headers.Apply(w.Header())
	w.Header().Set("Content-Type", ContentTypeJSON)
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		rs.log().ErrorContext(r.Context(), "failed to write response envelope",
			slog.String(log.CodeKey, code),
			log.Error(err))
		return
	}
	log.Trace(r.Context(), rs.log(), "wrote response envelope",
		slog.Int(log.StatusKey, status),
		slog.String(log.CodeKey, code))
}

// Success writes s with data as the payload.
func (rs *Responder) Success(w http.ResponseWriter, r *http.Request, s *response.SuccessResponse, data any) {
	rs.Write(w, r, s, response.ComposeOptions{Data: data})
}

// Error writes err as an error envelope and records it on the request span.
// A nil err writes the catalog's internal error.
func (rs *Responder) Error(w http.ResponseWriter, r *http.Request, err error) {
	er := rs.catalog.FromError(err)
	if er == nil {
		er = rs.catalog.Internal
		err = er
	}

	if span := trace.SpanFromContext(r.Context()); span.IsRecording() {
		span.RecordError(err)
		span.SetStatus(codes.Error, er.Message())
		span.SetAttributes(
			attribute.String("nucleo.response.code", er.Code()),
			attribute.Int("http.response.status_code", er.HTTPStatus()),
		)
	}

	rs.Write(w, r, er, response.ComposeOptions{})
}

// Handler is an http handler that reports failures by returning an error.
type Handler func(w http.ResponseWriter, r *http.Request) error

// Handle adapts h. A returned error is written with rs.Error unless h has
// already written a response.
func (rs *Responder) Handle(h Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := wrapWriter(w)
		if err := h(sw, r); err != nil {
			if sw.written() {
				rs.log().WarnContext(r.Context(), "handler failed after writing response", log.Error(err))
				return
			}
			rs.Error(sw, r, err)
		}
	})
}

var std = NewResponder()

// Write uses a Responder built on response.Default.
func Write(w http.ResponseWriter, r *http.Request, c response.Composable, opts response.ComposeOptions) {
	std.Write(w, r, c, opts)
}

// WriteSuccess uses a Responder built on response.Default.
func WriteSuccess(w http.ResponseWriter, r *http.Request, s *response.SuccessResponse, data any) {
	std.Success(w, r, s, data)
}

// WriteError uses a Responder built on response.Default.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	std.Error(w, r, err)
}

// Handle adapts h with a Responder configured by opts.
func Handle(h Handler, opts ...Option) http.Handler {
	return NewResponder(opts...).Handle(h)
}
