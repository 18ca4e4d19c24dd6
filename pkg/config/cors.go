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

import "strings"

// CorsKind identifies the shape of a parsed CORS origin setting.
type CorsKind int

const (
	// CorsUnset means no override; callers keep their default policy.
	CorsUnset CorsKind = iota
	// CorsAny allows every origin ("*").
	CorsAny
	// CorsReflect echoes the request origin back ("true").
	CorsReflect
	// CorsList allows an explicit list of origins.
	CorsList
)

// String returns the kind name.
func (k CorsKind) String() string {
	switch k {
	case CorsAny:
		return "any"
	case CorsReflect:
		return "reflect"
	case CorsList:
		return "list"
	default:
		return "unset"
	}
}

// CorsOrigin is a parsed CORS origin setting.
type CorsOrigin struct {
	kind    CorsKind
	origins []string
}

// ParseCorsOrigin parses a raw setting such as an environment variable:
// "*" allows any origin, "true" reflects the request origin, "" leaves the
// default in place, and anything else is split on "," into a literal list.
// Segments are not trimmed, deduplicated, or filtered.
func ParseCorsOrigin(input string) CorsOrigin {
	switch input {
	case "*":
		return CorsOrigin{kind: CorsAny}
	case "true":
		return CorsOrigin{kind: CorsReflect}
	case "":
		return CorsOrigin{kind: CorsUnset}
	default:
		return CorsOrigin{kind: CorsList, origins: strings.Split(input, ",")}
	}
}

// Kind returns the setting's shape.
func (c CorsOrigin) Kind() CorsKind { return c.kind }

// IsSet reports whether the setting overrides the default policy.
func (c CorsOrigin) IsSet() bool { return c.kind != CorsUnset }

// Origins returns a copy of the explicit origins for CorsList, nil otherwise.
func (c CorsOrigin) Origins() []string {
	if c.kind != CorsList {
		return nil
	}
	return append([]string(nil), c.origins...)
}

// Value returns the setting as a loosely typed value: "*" for CorsAny, true
// for CorsReflect, nil for CorsUnset and []string for CorsList. This is the
// shape most CORS libraries accept for their origin option.
func (c CorsOrigin) Value() any {
	switch c.kind {
	case CorsAny:
		return "*"
	case CorsReflect:
		return true
	case CorsList:
		return c.Origins()
	default:
		return nil
	}
}

// AllowAll reports whether every origin is allowed.
func (c CorsOrigin) AllowAll() bool { return c.kind == CorsAny }

// Reflect reports whether the request origin is echoed back.
func (c CorsOrigin) Reflect() bool { return c.kind == CorsReflect }
