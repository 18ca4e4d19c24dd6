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
	"errors"
	"net/http"
)

// Catalog holds the standard responses for one set of Settings. Its fields
// are set once by NewCatalog and must be treated as read-only.
type Catalog struct {
	settings Settings

	OK           *SuccessResponse
	Internal     *ErrorResponse
	BadRequest   *ErrorResponse
	Unauthorized *ErrorResponse
	Forbidden    *ErrorResponse
	NotFound     *ErrorResponse
}

// NewCatalog builds the standard responses using settings.
func NewCatalog(settings Settings) *Catalog {
	return &Catalog{
		settings:     settings,
		OK:           NewSuccessResponse(SuccessMessage, "", nil),
		Internal:     NewErrorResponse(InternalErrorMessage, "", nil, settings),
		BadRequest:   NewErrorResponse("Bad Request", "400", &Options{HTTPStatus: http.StatusBadRequest}, settings),
		Unauthorized: NewErrorResponse("Unauthorized", "401", &Options{HTTPStatus: http.StatusUnauthorized}, settings),
		Forbidden:    NewErrorResponse("Forbidden", "403", &Options{HTTPStatus: http.StatusForbidden}, settings),
		NotFound:     NewErrorResponse("Not Found", "404", &Options{HTTPStatus: http.StatusNotFound}, settings),
	}
}

// Settings returns the settings the catalog was built with.
func (c *Catalog) Settings() Settings { return c.settings }

// NewError creates an ErrorResponse sharing the catalog's settings.
func (c *Catalog) NewError(message, code string, opts *Options) *ErrorResponse {
	return NewErrorResponse(message, code, opts, c.settings)
}

// FromError returns the ErrorResponse found in err's chain. Any other error
// becomes the internal error, with err's text as diagnostic data so it only
// surfaces in debug mode. A nil err yields nil.
func (c *Catalog) FromError(err error) *ErrorResponse {
	if err == nil {
		return nil
	}
	var er *ErrorResponse
	if errors.As(err, &er) {
		return er
	}
	return c.Internal.Wrap(WrapOptions{Data: err.Error(), Cause: err})
}

// Default is the catalog built with debug mode off.
var Default = NewCatalog(Settings{})

// Standard responses from the Default catalog.
var (
	OK              = Default.OK
	ErrInternal     = Default.Internal
	ErrBadRequest   = Default.BadRequest
	ErrUnauthorized = Default.Unauthorized
	ErrForbidden    = Default.Forbidden
	ErrNotFound     = Default.NotFound
)

// AsErrorResponse is Default.FromError.
func AsErrorResponse(err error) *ErrorResponse {
	return Default.FromError(err)
}
