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
	"encoding/json"
	"net/http"
	"os"

	"github.com/tombee/nucleo-server/pkg/header"
)

// Default codes and messages used when a response omits them.
const (
	SuccessMessage       = "Success"
	SuccessCode          = "OK"
	InternalErrorMessage = "Internal Error"
	InternalErrorCode    = "ERROR"
)

// DebugDataKey is the body key holding diagnostic data in debug mode.
const DebugDataKey = "__debug"

// DebugEnv is the environment variable that enables debug mode when set to "true".
const DebugEnv = "DEBUG"

// Options is the metadata attached to a response definition.
type Options struct {
	// HTTPStatus is the status line the HTTP layer should send.
	HTTPStatus int `json:"httpStatus" yaml:"http_status"`

	// Data is the default payload of an error response.
	Data any `json:"data,omitempty" yaml:"data,omitempty"`
}

// Settings carries startup-time decisions that change how responses behave.
type Settings struct {
	// Debug attaches wrapped diagnostic data to error bodies under "__debug".
	Debug bool
}

// SettingsFromEnv reads Settings from the process environment.
// Only DEBUG=true enables debug mode.
func SettingsFromEnv() Settings {
	return Settings{Debug: os.Getenv(DebugEnv) == "true"}
}

// Response is a composed, wire-ready result. It is plain data owned by the
// caller.
type Response struct {
	Success bool
	Code    string
	Message string
	Data    any

	// HTTPHeaders is reserved for collaborators that attach headers out of band.
	HTTPHeaders header.Map

	// HTTPStatus is the status line for the collaborating HTTP layer.
	HTTPStatus int

	// HTTPBody, when non-nil, replaces the synthesized body verbatim.
	HTTPBody any
}

// Body is the wire shape of every envelope.
type Body struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// ComposeOptions are per-call overrides applied by Compose.
type ComposeOptions struct {
	// Data replaces the stored payload when non-nil.
	Data any

	// Headers is accepted for symmetry with the HTTP layer and is not used
	// in the composed output.
	Headers header.Map

	// Message replaces the stored message when non-empty.
	Message string
}

// Composable is implemented by SuccessResponse and ErrorResponse.
type Composable interface {
	Compose(opts ComposeOptions) Response
	Success() bool
	HTTPStatus() int
}

// GetResponseBody returns the wire body for resp. An explicit HTTPBody wins;
// otherwise the envelope is synthesized from resp, with missing fields
// replaced by the success or internal-error defaults depending on
// fallbackSuccess.
func GetResponseBody(resp Response, fallbackSuccess bool) any {
	if resp.HTTPBody != nil {
		return resp.HTTPBody
	}

	fallbackCode, fallbackMessage := InternalErrorCode, InternalErrorMessage
	if fallbackSuccess {
		fallbackCode, fallbackMessage = SuccessCode, SuccessMessage
	}

	body := Body{
		Success: resp.Success || fallbackSuccess,
		Code:    resp.Code,
		Message: resp.Message,
		Data:    resp.Data,
	}
	if body.Code == "" {
		body.Code = fallbackCode
	}
	if body.Message == "" {
		body.Message = fallbackMessage
	}
	return body
}

// SuccessResponse is a prebuilt successful result.
type SuccessResponse struct {
	code    string
	message string
	options Options
}

// NewSuccessResponse creates a SuccessResponse. An empty code becomes "OK"
// and nil opts become a plain 200.
func NewSuccessResponse(message, code string, opts *Options) *SuccessResponse {
	s := &SuccessResponse{
		code:    code,
		message: message,
		options: Options{HTTPStatus: http.StatusOK},
	}
	if s.code == "" {
		s.code = SuccessCode
	}
	if opts != nil {
		s.options = *opts
	}
	return s
}

// Success always reports true.
func (s *SuccessResponse) Success() bool { return true }

// Code returns the response code.
func (s *SuccessResponse) Code() string { return s.code }

// Message returns the stored message.
func (s *SuccessResponse) Message() string { return s.message }

// Options returns a copy of the response metadata.
func (s *SuccessResponse) Options() Options { return s.options }

// HTTPStatus returns the configured status code.
func (s *SuccessResponse) HTTPStatus() int { return s.options.HTTPStatus }

// Compose builds a Response. Success bodies carry only the data given in opts.
func (s *SuccessResponse) Compose(opts ComposeOptions) Response {
	resp := Response{
		Success:    true,
		Code:       s.code,
		Message:    s.message,
		Data:       opts.Data,
		HTTPStatus: s.options.HTTPStatus,
	}
	if opts.Message != "" {
		resp.Message = opts.Message
	}
	return resp
}

// MarshalJSON encodes the default composed body.
func (s *SuccessResponse) MarshalJSON() ([]byte, error) {
	return json.Marshal(GetResponseBody(s.Compose(ComposeOptions{}), true))
}

// ErrorResponse is a prebuilt failure. It is also an error, so handlers can
// return it directly and let the HTTP layer compose it.
type ErrorResponse struct {
	code    string
	message string
	options Options
	debug   bool
	cause   error
}

// NewErrorResponse creates an ErrorResponse. An empty code becomes "ERROR"
// and nil opts become a plain 500. settings decides how Wrap treats
// diagnostic data.
func NewErrorResponse(message, code string, opts *Options, settings Settings) *ErrorResponse {
	e := &ErrorResponse{
		code:    code,
		message: message,
		options: Options{HTTPStatus: http.StatusInternalServerError},
		debug:   settings.Debug,
	}
	if e.code == "" {
		e.code = InternalErrorCode
	}
	if opts != nil {
		e.options = *opts
	}
	return e
}

// Error implements the error interface with the response message.
func (e *ErrorResponse) Error() string { return e.message }

// Unwrap returns the internal cause passed to Wrap, if any. The cause is
// never serialized.
func (e *ErrorResponse) Unwrap() error { return e.cause }

// Is matches any ErrorResponse with the same code and status, so wrapped
// copies of a prebuilt error compare equal to it under errors.Is.
func (e *ErrorResponse) Is(target error) bool {
	t, ok := target.(*ErrorResponse)
	if !ok {
		return false
	}
	return t.code == e.code && t.options.HTTPStatus == e.options.HTTPStatus
}

// Success always reports false.
func (e *ErrorResponse) Success() bool { return false }

// Code returns the error code.
func (e *ErrorResponse) Code() string { return e.code }

// Message returns the stored message.
func (e *ErrorResponse) Message() string { return e.message }

// Options returns a copy of the error metadata.
func (e *ErrorResponse) Options() Options { return e.options }

// HTTPStatus returns the configured status code.
func (e *ErrorResponse) HTTPStatus() int { return e.options.HTTPStatus }

// Debug reports whether the error was built in debug mode.
func (e *ErrorResponse) Debug() bool { return e.debug }

// Compose builds a Response. Data falls back to the data stored in the
// error's options.
func (e *ErrorResponse) Compose(opts ComposeOptions) Response {
	resp := Response{
		Success:    false,
		Code:       e.code,
		Message:    e.message,
		Data:       e.options.Data,
		HTTPStatus: e.options.HTTPStatus,
	}
	if opts.Message != "" {
		resp.Message = opts.Message
	}
	if opts.Data != nil {
		resp.Data = opts.Data
	}
	return resp
}

// MarshalJSON encodes the default composed body.
func (e *ErrorResponse) MarshalJSON() ([]byte, error) {
	return json.Marshal(GetResponseBody(e.Compose(ComposeOptions{}), false))
}

// WrapOptions control how Wrap derives a new error.
type WrapOptions struct {
	// Data is diagnostic or client-facing payload.
	Data any

	// Message replaces the message when non-empty.
	Message string

	// ShowData exposes Data to the client regardless of debug mode.
	ShowData bool

	// Cause is an internal error kept for errors.Is/As. It is never serialized.
	Cause error
}

// Wrap returns a copy of e with the same code and metadata. Data is exposed
// as-is when ShowData is set, nested under "__debug" when e was built in
// debug mode, and dropped otherwise. e itself is never modified.
func (e *ErrorResponse) Wrap(opts WrapOptions) *ErrorResponse {
	wrapped := &ErrorResponse{
		code:    e.code,
		message: e.message,
		options: e.options,
		debug:   e.debug,
		cause:   opts.Cause,
	}
	if opts.Message != "" {
		wrapped.message = opts.Message
	}

	switch {
	case opts.ShowData:
		wrapped.options.Data = opts.Data
	case e.debug:
		debugData := map[string]any{}
		if opts.Data != nil {
			debugData[DebugDataKey] = opts.Data
		}
		wrapped.options.Data = debugData
	}

	return wrapped
}
