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

// Package urlutil normalizes URL paths and validates base URLs used in
// server configuration.
package urlutil

import (
	"net/url"
	"strings"
)

// SanitizePathEnd collapses any run of trailing slashes into a single slash,
// appending one when p has none.
func SanitizePathEnd(p string) string {
	if !strings.HasSuffix(p, "/") {
		return p + "/"
	}
	return strings.TrimRight(p, "/") + "/"
}

// SanitizePath applies SanitizePathEnd and strips every leading slash, so
// "/api//" becomes "api/". A path made only of slashes becomes "".
func SanitizePath(p string) string {
	return strings.TrimLeft(SanitizePathEnd(p), "/")
}

// IsValidURL reports whether s parses as an absolute URL. Hierarchical web
// schemes (http, https, ws, wss) must also name a host.
func IsValidURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https", "ws", "wss":
		return u.Host != ""
	}
	return u.Opaque != "" || u.Host != "" || u.Path != ""
}

// JoinPath appends p to base, which is expected to end with a slash.
// Leading slashes on p are dropped so the result never contains "//" at the seam.
func JoinPath(base, p string) string {
	return SanitizePathEnd(base) + strings.TrimLeft(p, "/")
}
