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
	"gopkg.in/yaml.v3"
)

// TrustAll is the trust-proxy entry that trusts every peer.
const TrustAll = "*"

type trustProxyKind int

const (
	trustProxyAbsent trustProxyKind = iota
	trustProxyString
	trustProxyList
	trustProxyOther
)

// TrustProxy is the raw trust-proxy setting. Deployments supply it as a
// single string, a list, or occasionally something else entirely; Resolve
// turns every shape into the canonical list. The zero value is "absent".
type TrustProxy struct {
	kind  trustProxyKind
	value string
	list  []string
}

// TrustProxyString returns a string-shaped setting.
func TrustProxyString(s string) TrustProxy {
	return TrustProxy{kind: trustProxyString, value: s}
}

// TrustProxyList returns a list-shaped setting.
func TrustProxyList(items ...string) TrustProxy {
	return TrustProxy{kind: trustProxyList, list: append([]string(nil), items...)}
}

// TrustProxyOther returns a setting of an unsupported shape, which resolves
// to an empty list.
func TrustProxyOther() TrustProxy {
	return TrustProxy{kind: trustProxyOther}
}

// IsSet reports whether any value was supplied.
func (t TrustProxy) IsSet() bool {
	return t.kind != trustProxyAbsent
}

// Resolve returns the canonical ordered list. "*" becomes ["*"], an empty
// string or list becomes [], any other string becomes a one-element list,
// and lists are returned as given. Absent or unsupported values disable
// proxy trust.
func (t TrustProxy) Resolve() []string {
	switch t.kind {
	case trustProxyString:
		if t.value == "" {
			return []string{}
		}
		return []string{t.value}
	case trustProxyList:
		if len(t.list) == 0 {
			return []string{}
		}
		return append([]string(nil), t.list...)
	default:
		return []string{}
	}
}

// UnmarshalYAML accepts a string scalar, a sequence of strings, or null.
// Any other node is recorded as an unsupported shape.
func (t *TrustProxy) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		switch node.Tag {
		case "!!null":
			*t = TrustProxy{}
		case "!!str":
			*t = TrustProxyString(node.Value)
		default:
			*t = TrustProxyOther()
		}
	case yaml.SequenceNode:
		var items []string
		if err := node.Decode(&items); err != nil {
			return err
		}
		*t = TrustProxyList(items...)
	default:
		*t = TrustProxyOther()
	}
	return nil
}

// MarshalYAML writes the resolved form for strings and lists.
func (t TrustProxy) MarshalYAML() (any, error) {
	switch t.kind {
	case trustProxyString:
		return t.value, nil
	case trustProxyList:
		return t.list, nil
	default:
		return nil, nil
	}
}
