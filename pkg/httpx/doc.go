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

// Package httpx adapts the response envelope, configuration and credential
// helpers to net/http.
//
// Middleware reads values stored by the middleware outside it, so the
// usual order from outermost to innermost is RequestID, TrustedProxy,
// Tracing, Logging, Metrics, Recover, CORS and then the auth middleware.
// NewStack builds that chain from a config.Server.
package httpx
