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

// StrictBool is a flag read from YAML that is true only for a real
// boolean true. Any other node, quoted "true" included, decodes to false
// instead of failing the load.
type StrictBool bool

// UnmarshalYAML implements yaml.Unmarshaler.
func (b *StrictBool) UnmarshalYAML(node *yaml.Node) error {
	*b = false
	if node.Kind != yaml.ScalarNode || node.Tag != "!!bool" {
		return nil
	}
	var v bool
	if err := node.Decode(&v); err != nil {
		return nil
	}
	*b = StrictBool(v)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (b StrictBool) MarshalYAML() (any, error) {
	return bool(b), nil
}
