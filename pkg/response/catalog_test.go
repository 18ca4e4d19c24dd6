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
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCatalog(t *testing.T) {
	cat := NewCatalog(Settings{})

	tests := []struct {
		name       string
		resp       *ErrorResponse
		wantCode   string
		wantStatus int
		wantMsg    string
	}{
		{name: "internal", resp: cat.Internal, wantCode: "ERROR", wantStatus: http.StatusInternalServerError, wantMsg: "Internal Error"},
		{name: "bad request", resp: cat.BadRequest, wantCode: "400", wantStatus: http.StatusBadRequest, wantMsg: "Bad Request"},
		{name: "unauthorized", resp: cat.Unauthorized, wantCode: "401", wantStatus: http.StatusUnauthorized, wantMsg: "Unauthorized"},
		{name: "forbidden", resp: cat.Forbidden, wantCode: "403", wantStatus: http.StatusForbidden, wantMsg: "Forbidden"},
		{name: "not found", resp: cat.NotFound, wantCode: "404", wantStatus: http.StatusNotFound, wantMsg: "Not Found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCode, tt.resp.Code())
			assert.Equal(t, tt.wantStatus, tt.resp.HTTPStatus())
			assert.Equal(t, tt.wantMsg, tt.resp.Message())
		})
	}

	assert.Equal(t, "OK", cat.OK.Code())
	assert.Equal(t, "Success", cat.OK.Message())
	assert.Equal(t, http.StatusOK, cat.OK.HTTPStatus())
}

func TestNewCatalog_PropagatesSettings(t *testing.T) {
	debug := NewCatalog(Settings{Debug: true})

	assert.True(t, debug.Settings().Debug)
	assert.True(t, debug.BadRequest.Debug())
	assert.True(t, debug.NewError("x", "X", nil).Debug())
	assert.False(t, Default.BadRequest.Debug())
}

func TestDefaultSingletons(t *testing.T) {
	assert.Same(t, Default.OK, OK)
	assert.Same(t, Default.Internal, ErrInternal)
	assert.Same(t, Default.BadRequest, ErrBadRequest)
	assert.Same(t, Default.Unauthorized, ErrUnauthorized)
	assert.Same(t, Default.Forbidden, ErrForbidden)
	assert.Same(t, Default.NotFound, ErrNotFound)
}

func TestCatalog_FromError(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.Nil(t, Default.FromError(nil))
	})

	t.Run("error response in chain", func(t *testing.T) {
		err := fmt.Errorf("lookup: %w", ErrNotFound)
		assert.Same(t, ErrNotFound, Default.FromError(err))
	})

	t.Run("plain error hides detail outside debug", func(t *testing.T) {
		cause := errors.New("connection refused")
		got := AsErrorResponse(cause)

		assert.Equal(t, InternalErrorCode, got.Code())
		assert.Nil(t, got.Compose(ComposeOptions{}).Data)
		assert.True(t, errors.Is(got, cause))
	})

	t.Run("plain error exposes detail in debug", func(t *testing.T) {
		cat := NewCatalog(Settings{Debug: true})
		got := cat.FromError(errors.New("connection refused"))

		assert.Equal(t, map[string]any{DebugDataKey: "connection refused"}, got.Compose(ComposeOptions{}).Data)
	})
}
