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

// Package response defines the uniform envelope returned by every API call.
//
// A SuccessResponse or ErrorResponse is built once at startup, usually via a
// Catalog or a ResponseMap, and composed per request into a Response. The
// wire body produced from a Response always has the shape
//
//	{"success": bool, "code": string, "message": string, "data": any|null}
//
// while the HTTP status travels out of band in Response.HTTPStatus.
//
// # Debug mode
//
// ErrorResponse.Wrap accepts diagnostic data. That data reaches the client
// only when the caller asks for it explicitly (WrapOptions.ShowData) or when
// the ErrorResponse was created with Settings.Debug enabled, in which case it
// is nested under the "__debug" key. Debug mode is a startup decision carried
// by Settings; nothing in this package reads the environment on its own.
package response
