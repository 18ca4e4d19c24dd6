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
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"

	"github.com/tombee/nucleo-server/pkg/config"
)

// HeaderForwardedFor is the header read from trusted proxies.
const HeaderForwardedFor = "X-Forwarded-For"

// Named address ranges accepted in trust_proxy entries.
var proxyPresets = map[string][]string{
	"loopback":    {"127.0.0.0/8", "::1/128"},
	"linklocal":   {"169.254.0.0/16", "fe80::/10"},
	"uniquelocal": {"10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16", "fc00::/7"},
}

// ProxyMatcher decides which peers may set X-Forwarded-For.
type ProxyMatcher struct {
	all      bool
	prefixes []netip.Prefix
}

// NewProxyMatcher parses trust_proxy entries. Each entry may hold several
// comma separated values, each "*", a preset name, an IP or a CIDR.
func NewProxyMatcher(entries []string) (*ProxyMatcher, error) {
	m := &ProxyMatcher{}
	for _, entry := range entries {
		for _, v := range strings.Split(entry, ",") {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			if err := m.add(v); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

func (m *ProxyMatcher) add(v string) error {
	if v == config.TrustAll {
		m.all = true
		return nil
	}
	if cidrs, ok := proxyPresets[v]; ok {
		for _, c := range cidrs {
			m.prefixes = append(m.prefixes, netip.MustParsePrefix(c))
		}
		return nil
	}
	if strings.Contains(v, "/") {
		p, err := netip.ParsePrefix(v)
		if err != nil {
			return fmt.Errorf("invalid trust_proxy entry %q: %w", v, err)
		}
		m.prefixes = append(m.prefixes, p.Masked())
		return nil
	}
	addr, err := netip.ParseAddr(v)
	if err != nil {
		return fmt.Errorf("invalid trust_proxy entry %q: %w", v, err)
	}
	addr = addr.Unmap()
	m.prefixes = append(m.prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	return nil
}

// Enabled reports whether any proxy is trusted.
func (m *ProxyMatcher) Enabled() bool {
	return m.all || len(m.prefixes) > 0
}

// Trusted reports whether addr is a trusted proxy.
func (m *ProxyMatcher) Trusted(addr netip.Addr) bool {
	if !addr.IsValid() {
		return false
	}
	if m.all {
		return true
	}
	addr = addr.Unmap()
	for _, p := range m.prefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// ClientIP resolves the client address of r. X-Forwarded-For is walked from
// the right while hops are trusted; the first untrusted hop is the client.
// If every hop is trusted the leftmost one is returned. A malformed hop
// stops the walk at the last good address.
func (m *ProxyMatcher) ClientIP(r *http.Request) string {
	peer := peerAddr(r.RemoteAddr)
	if !m.Trusted(peer) {
		if peer.IsValid() {
			return peer.String()
		}
		return r.RemoteAddr
	}

	hops := forwardedHops(r.Header.Values(HeaderForwardedFor))
	client := peer
	for i := len(hops) - 1; i >= 0; i-- {
		addr, err := netip.ParseAddr(hops[i])
		if err != nil {
			break
		}
		client = addr.Unmap()
		if !m.Trusted(client) {
			break
		}
	}
	return client.String()
}

func peerAddr(remote string) netip.Addr {
	host, _, err := net.SplitHostPort(remote)
	if err != nil {
		host = remote
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return netip.Addr{}
	}
	return addr.Unmap()
}

func forwardedHops(values []string) []string {
	var hops []string
	for _, v := range values {
		for _, hop := range strings.Split(v, ",") {
			if hop = strings.TrimSpace(hop); hop != "" {
				hops = append(hops, hop)
			}
		}
	}
	return hops
}

// TrustedProxy stores the resolved client address for ClientIP. Without
// trusted proxies the peer address is used.
func TrustedProxy(server *config.Server) (Middleware, error) {
	m, err := NewProxyMatcher(server.TrustProxy())
	if err != nil {
		return nil, err
	}
	return m.Middleware, nil
}

// Middleware stores the client address resolved by m.
func (m *ProxyMatcher) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), clientIPKey, m.ClientIP(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
