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

// Package config normalizes deployment-time HTTP server settings into an
// immutable canonical form.
//
// Raw input arrives as Attributes, either constructed in code or loaded from
// YAML and environment variables with Load. New resolves Attributes into a
// Server: the base path is sanitized, the trust-proxy union is flattened to a
// list, and a valid base URL is always available.
//
//	srv, err := config.Load("server.yaml")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(srv.HTTPBaseURL()) // e.g. "https://api.example.com/v1/"
package config
