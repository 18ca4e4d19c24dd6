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

package response

import (
	"fmt"
	"net/http"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Definition describes one entry of a ResponseMap.
type Definition struct {
	Message string   `yaml:"message"`
	Success *bool    `yaml:"success,omitempty"`
	Code    string   `yaml:"code,omitempty"`
	Options *Options `yaml:"options,omitempty"`
}

// ResponseMap translates symbolic keys into prebuilt responses. It is
// immutable after construction.
type ResponseMap struct {
	catalog *Catalog
	errors  map[string]*ErrorResponse
	success map[string]*SuccessResponse
}

// NewResponseMap builds a ResponseMap from defs. Each code defaults to its
// key. Entries with Success explicitly false become errors; everything else
// becomes a success. Lookups of unknown keys fall back to cat's OK and
// Internal responses; a nil cat means Default.
func NewResponseMap(defs map[string]Definition, cat *Catalog) *ResponseMap {
	if cat == nil {
		cat = Default
	}

	m := &ResponseMap{
		catalog: cat,
		errors:  make(map[string]*ErrorResponse),
		success: make(map[string]*SuccessResponse),
	}

	for key, def := range defs {
		code := def.Code
		if code == "" {
			code = key
		}

		if def.Success != nil && !*def.Success {
			m.errors[key] = cat.NewError(def.Message, code, def.Options)
		} else {
			m.success[key] = NewSuccessResponse(def.Message, code, def.Options)
		}
	}

	return m
}

// Error returns the error registered under key, or the catalog's internal
// error.
func (m *ResponseMap) Error(key string) *ErrorResponse {
	if e, ok := m.errors[key]; ok {
		return e
	}
	return m.catalog.Internal
}

// Success returns the success registered under key, or the catalog's OK.
func (m *ResponseMap) Success(key string) *SuccessResponse {
	if s, ok := m.success[key]; ok {
		return s
	}
	return m.catalog.OK
}

// ErrorKeys returns the registered error keys in sorted order.
func (m *ResponseMap) ErrorKeys() []string {
	keys := make([]string, 0, len(m.errors))
	for k := range m.errors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SuccessKeys returns the registered success keys in sorted order.
func (m *ResponseMap) SuccessKeys() []string {
	keys := make([]string, 0, len(m.success))
	for k := range m.success {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ParseResponseMap decodes a YAML document of key to Definition. Entries
// that give options without an http_status get 200 for successes and 500
// for errors.
func ParseResponseMap(data []byte, cat *Catalog) (*ResponseMap, error) {
	var defs map[string]Definition
	if err := yaml.Unmarshal(data, &defs); err != nil {
		return nil, fmt.Errorf("failed to parse response map: %w", err)
	}

	for key, def := range defs {
		if def.Options == nil || def.Options.HTTPStatus != 0 {
			continue
		}
		opts := *def.Options
		opts.HTTPStatus = http.StatusOK
		if def.Success != nil && !*def.Success {
			opts.HTTPStatus = http.StatusInternalServerError
		}
		def.Options = &opts
		defs[key] = def
	}

	return NewResponseMap(defs, cat), nil
}

// LoadResponseMap reads and parses a YAML response map from path.
func LoadResponseMap(path string, cat *Catalog) (*ResponseMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read response map: %w", err)
	}
	return ParseResponseMap(data, cat)
}
