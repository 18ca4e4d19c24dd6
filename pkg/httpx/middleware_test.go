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
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tombee/nucleo-server/internal/log"
	"github.com/tombee/nucleo-server/pkg/config"
	"github.com/tombee/nucleo-server/pkg/response"
)

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	t.Run("propagates client id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(HeaderRequestID, "abc-123")

		rec := serve(h, req)
		assert.Equal(t, "abc-123", seen)
		assert.Equal(t, "abc-123", rec.Header().Get(HeaderRequestID))
	})

	for name, id := range map[string]string{
		"missing":       "",
		"too long":      strings.Repeat("a", 129),
		"control chars": "bad\nid",
	} {
		t.Run("generates when "+name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if id != "" {
				req.Header[HeaderRequestID] = []string{id}
			}

			rec := serve(h, req)
			_, err := uuid.Parse(seen)
			assert.NoError(t, err)
			assert.Equal(t, seen, rec.Header().Get(HeaderRequestID))
		})
	}
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&log.Config{Level: "debug", Output: &buf})

	proxy, err := NewProxyMatcher(nil)
	require.NoError(t, err)

	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, r, response.ErrNotFound)
	}), RequestID, proxy.Middleware, Logging(logger))

	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	req.RemoteAddr = "192.0.2.10:4000"
	req.Header.Set(HeaderRequestID, "rid-1")
	serve(h, req)

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "WARN", line["level"])
	assert.Equal(t, "http", line[log.ComponentKey])
	assert.Equal(t, "/missing", line["path"])
	assert.EqualValues(t, http.StatusNotFound, line[log.StatusKey])
	assert.Equal(t, "404", line[log.CodeKey])
	assert.Equal(t, "rid-1", line[log.RequestIDKey])
	assert.Equal(t, "192.0.2.10", line[log.ClientIPKey])
}

func TestLogging_WithoutRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&log.Config{Output: &buf})

	h := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	serve(h, httptest.NewRequest(http.MethodGet, "/", nil))

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "INFO", line["level"])
	assert.NotContains(t, line, log.RequestIDKey)
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	h := m.Middleware(Handle(func(w http.ResponseWriter, r *http.Request) error {
		if r.URL.Path == "/fail" {
			return response.ErrBadRequest
		}
		WriteSuccess(w, r, response.OK, nil)
		return nil
	}))

	serve(h, httptest.NewRequest(http.MethodGet, "/ok", nil))
	serve(h, httptest.NewRequest(http.MethodGet, "/ok", nil))
	serve(h, httptest.NewRequest(http.MethodGet, "/fail", nil))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Responses(http.StatusOK, "OK")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Responses(http.StatusBadRequest, "400")))

	count, err := testutil.GatherAndCount(reg, "nucleo_http_responses_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestMetrics_NilRegisterer(t *testing.T) {
	m := NewMetrics(nil)
	serve(m.Middleware(okHandler), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Responses(http.StatusOK, "")))
}

func TestRecover(t *testing.T) {
	panicking := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	})

	t.Run("hides panic value", func(t *testing.T) {
		rec := serve(Recover(response.Default, WithLogger(slog.New(slog.DiscardHandler)))(panicking), httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"success":false,"code":"ERROR","message":"Internal Error","data":null}`, rec.Body.String())
	})

	t.Run("debug exposes panic value", func(t *testing.T) {
		rec := serve(Recover(debugCatalog, WithLogger(slog.New(slog.DiscardHandler)))(panicking), httptest.NewRequest(http.MethodGet, "/", nil))
		assert.JSONEq(t, `{"success":false,"code":"ERROR","message":"Internal Error","data":{"__debug":"kaboom"}}`, rec.Body.String())
	})

	t.Run("abort handler is re-raised", func(t *testing.T) {
		h := Recover(response.Default)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic(http.ErrAbortHandler)
		}))
		assert.PanicsWithError(t, http.ErrAbortHandler.Error(), func() {
			serve(h, httptest.NewRequest(http.MethodGet, "/", nil))
		})
	})
}

func TestNewStack(t *testing.T) {
	server := config.New(config.Attributes{
		ListenPort: 8080,
		TrustProxy: config.TrustProxyString("*"),
		CorsOrigin: "https://app.test",
		Debug:      true,
	})

	reg := prometheus.NewRegistry()
	stack, err := NewStack(server, StackOptions{Logger: slog.New(slog.DiscardHandler), Registerer: reg})
	require.NoError(t, err)
	assert.True(t, stack.Catalog.Settings().Debug)
	assert.Same(t, stack.Catalog, stack.Extractor.Catalog())

	var clientIP string
	h := stack.Handle(func(w http.ResponseWriter, r *http.Request) error {
		clientIP = ClientIP(r.Context())
		return errors.New("store unavailable")
	})

	req := httptest.NewRequest(http.MethodGet, "/items", nil)
	req.Header.Set("Origin", "https://app.test")
	req.Header.Set(HeaderForwardedFor, "198.51.100.4")
	rec := serve(h, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "https://app.test", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, rec.Header().Get(HeaderRequestID))
	assert.Equal(t, "198.51.100.4", clientIP)
	assert.JSONEq(t, `{"success":false,"code":"ERROR","message":"Internal Error","data":{"__debug":"store unavailable"}}`, rec.Body.String())
	assert.Equal(t, 1.0, testutil.ToFloat64(stack.Metrics.Responses(http.StatusInternalServerError, "ERROR")))

	rec = serve(stack.Handler(stack.NotFound()), httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNewStack_InvalidTrustProxy(t *testing.T) {
	server := config.New(config.Attributes{ListenPort: 8080, TrustProxy: config.TrustProxyList("bogus")})

	_, err := NewStack(server, StackOptions{})
	assert.Error(t, err)
}
