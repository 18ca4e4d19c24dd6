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

package config

import (
	"fmt"
	"strconv"

	"github.com/tombee/nucleo-server/pkg/response"
	"github.com/tombee/nucleo-server/pkg/urlutil"
)

// DefaultHostname is used when Attributes.Hostname is empty.
const DefaultHostname = "localhost"

// Attributes is the raw server configuration before normalization.
type Attributes struct {
	// ListenPort is the TCP port the server listens on.
	ListenPort int `yaml:"listen_port" validate:"required,min=1,max=65535"`

	// TrustProxy lists the reverse proxies allowed to set forwarded headers.
	TrustProxy TrustProxy `yaml:"trust_proxy,omitempty"`

	// BasePath is the path prefix of every route. nil means no prefix.
	BasePath *string `yaml:"base_path,omitempty"`

	// HTTPBaseURL is the public base URL. Invalid or empty values are
	// replaced by one derived from the other fields.
	HTTPBaseURL string `yaml:"http_base_url,omitempty"`

	// Hostname is the public host name. Default: localhost
	Hostname string `yaml:"hostname,omitempty" validate:"omitempty,hostname_rfc1123|ip"`

	// Secure selects https for derived URLs.
	Secure StrictBool `yaml:"secure"`

	// CorsOrigin is the raw CORS origin setting, see ParseCorsOrigin.
	CorsOrigin string `yaml:"cors_origin,omitempty"`

	// Debug enables diagnostic data in error envelopes.
	Debug StrictBool `yaml:"debug"`
}

// Server is the canonical server configuration. It is immutable and safe
// for concurrent use.
type Server struct {
	listenPort  int
	basePath    string
	httpBaseURL string
	hostname    string
	secure      bool
	trustProxy  []string
	corsOrigin  CorsOrigin
	debug       bool
}

// New normalizes attrs into a Server. It never fails; use
// Attributes.Validate to reject bad input first.
func New(attrs Attributes) *Server {
	s := &Server{
		listenPort: attrs.ListenPort,
		hostname:   attrs.Hostname,
		secure:     bool(attrs.Secure),
		trustProxy: attrs.TrustProxy.Resolve(),
		corsOrigin: ParseCorsOrigin(attrs.CorsOrigin),
		debug:      bool(attrs.Debug),
	}

	if attrs.BasePath != nil {
		s.basePath = urlutil.SanitizePath(*attrs.BasePath)
	}

	if s.hostname == "" {
		s.hostname = DefaultHostname
	}

	if attrs.HTTPBaseURL != "" && urlutil.IsValidURL(attrs.HTTPBaseURL) {
		s.httpBaseURL = urlutil.SanitizePathEnd(attrs.HTTPBaseURL)
	} else {
		s.httpBaseURL = s.GetBaseURL("http")
	}

	return s
}

// GetBaseURL builds protocol[s]://hostname[:port]/basePath. The "s" suffix
// is added when the server is secure; the port is omitted for 80 and 443.
func (s *Server) GetBaseURL(protocol string) string {
	host := s.hostname
	if s.listenPort != 80 && s.listenPort != 443 {
		host += ":" + strconv.Itoa(s.listenPort)
	}

	if s.secure {
		protocol += "s"
	}

	return fmt.Sprintf("%s://%s/%s", protocol, host, s.basePath)
}

// IsTrustProxyEnabled reports whether any proxy is trusted.
func (s *Server) IsTrustProxyEnabled() bool {
	return len(s.trustProxy) > 0
}

// ListenPort returns the TCP port.
func (s *Server) ListenPort() int { return s.listenPort }

// Addr returns the listen address in the form expected by http.Server.
func (s *Server) Addr() string { return ":" + strconv.Itoa(s.listenPort) }

// BasePath returns the sanitized base path: no leading slash, one trailing
// slash, or "" for none.
func (s *Server) BasePath() string { return s.basePath }

// HTTPBaseURL returns the public base URL, always ending in "/".
func (s *Server) HTTPBaseURL() string { return s.httpBaseURL }

// Hostname returns the public host name.
func (s *Server) Hostname() string { return s.hostname }

// Secure reports whether derived URLs use TLS schemes.
func (s *Server) Secure() bool { return s.secure }

// TrustProxy returns a copy of the trusted proxy list.
func (s *Server) TrustProxy() []string {
	out := make([]string, len(s.trustProxy))
	copy(out, s.trustProxy)
	return out
}

// CorsOrigin returns the parsed CORS origin setting.
func (s *Server) CorsOrigin() CorsOrigin { return s.corsOrigin }

// Debug reports whether debug mode is enabled.
func (s *Server) Debug() bool { return s.debug }

// ResponseSettings returns the response settings implied by the
// configuration, ready for response.NewCatalog.
func (s *Server) ResponseSettings() response.Settings {
	return response.Settings{Debug: s.debug}
}

// URL resolves p against the public base URL.
func (s *Server) URL(p string) string {
	return urlutil.JoinPath(s.httpBaseURL, p)
}
