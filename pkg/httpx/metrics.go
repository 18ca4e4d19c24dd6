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
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts written envelopes.
type Metrics struct {
	responses *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

// NewMetrics registers the HTTP collectors with reg. A nil reg creates
// unregistered collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		responses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nucleo_http_responses_total",
				Help: "Total HTTP responses by status and envelope code",
			},
			[]string{"status", "code"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "nucleo_http_request_duration_seconds",
				Help:    "HTTP request latency by method",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
	}
}

// Middleware records every request passing through it.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		r, env := trackEnvelope(r)
		sw := wrapWriter(w)

		next.ServeHTTP(sw, r)

		m.responses.WithLabelValues(strconv.Itoa(sw.Status()), env.code).Inc()
		m.duration.WithLabelValues(r.Method).Observe(time.Since(start).Seconds())
	})
}

// Responses returns the response counter for status and code.
func (m *Metrics) Responses(status int, code string) prometheus.Counter {
	return m.responses.WithLabelValues(strconv.Itoa(status), code)
}
