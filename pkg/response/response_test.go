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
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tombee/nucleo-server/pkg/header"
)

func TestNewSuccessResponse_Defaults(t *testing.T) {
	s := NewSuccessResponse("Created", "", nil)

	assert.True(t, s.Success())
	assert.Equal(t, SuccessCode, s.Code())
	assert.Equal(t, "Created", s.Message())
	assert.Equal(t, http.StatusOK, s.HTTPStatus())
	assert.Nil(t, s.Options().Data)
}

func TestNewErrorResponse_Defaults(t *testing.T) {
	e := NewErrorResponse("boom", "", nil, Settings{})

	assert.False(t, e.Success())
	assert.Equal(t, InternalErrorCode, e.Code())
	assert.Equal(t, "boom", e.Error())
	assert.Equal(t, http.StatusInternalServerError, e.HTTPStatus())
	assert.False(t, e.Debug())
}

func TestNewResponse_CopiesOptions(t *testing.T) {
	opts := &Options{HTTPStatus: http.StatusConflict, Data: "taken"}
	e := NewErrorResponse("Conflict", "USER_EXISTS", opts, Settings{})

	opts.HTTPStatus = http.StatusTeapot
	opts.Data = "changed"

	assert.Equal(t, http.StatusConflict, e.HTTPStatus())
	assert.Equal(t, "taken", e.Options().Data)
}

func TestCompose_RoundTrip(t *testing.T) {
	tests := []struct {
		name        string
		resp        Composable
		opts        ComposeOptions
		wantSuccess bool
		wantCode    string
		wantMessage string
		wantStatus  int
		wantData    any
	}{
		{
			name:        "success without overrides",
			resp:        NewSuccessResponse("User created", "USER_CREATED", &Options{HTTPStatus: http.StatusCreated}),
			wantSuccess: true,
			wantCode:    "USER_CREATED",
			wantMessage: "User created",
			wantStatus:  http.StatusCreated,
		},
		{
			name:        "success with message and data",
			resp:        NewSuccessResponse("User created", "USER_CREATED", &Options{HTTPStatus: http.StatusCreated}),
			opts:        ComposeOptions{Message: "Welcome", Data: map[string]string{"id": "42"}},
			wantSuccess: true,
			wantCode:    "USER_CREATED",
			wantMessage: "Welcome",
			wantStatus:  http.StatusCreated,
			wantData:    map[string]string{"id": "42"},
		},
		{
			name:        "success ignores stored data",
			resp:        NewSuccessResponse("ok", "", &Options{HTTPStatus: http.StatusOK, Data: "hidden"}),
			wantSuccess: true,
			wantCode:    "OK",
			wantMessage: "ok",
			wantStatus:  http.StatusOK,
		},
		{
			name:        "error falls back to stored data",
			resp:        NewErrorResponse("Gone", "GONE", &Options{HTTPStatus: http.StatusGone, Data: "moved"}, Settings{}),
			wantCode:    "GONE",
			wantMessage: "Gone",
			wantStatus:  http.StatusGone,
			wantData:    "moved",
		},
		{
			name:        "error override data wins",
			resp:        NewErrorResponse("Gone", "GONE", &Options{HTTPStatus: http.StatusGone, Data: "moved"}, Settings{}),
			opts:        ComposeOptions{Data: "elsewhere", Message: "Moved away"},
			wantCode:    "GONE",
			wantMessage: "Moved away",
			wantStatus:  http.StatusGone,
			wantData:    "elsewhere",
		},
		{
			name:        "headers do not affect output",
			resp:        ErrNotFound,
			opts:        ComposeOptions{Headers: header.Map{header.AccessToken: "abc"}},
			wantCode:    "404",
			wantMessage: "Not Found",
			wantStatus:  http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.resp.Compose(tt.opts)

			assert.Equal(t, tt.wantSuccess, got.Success)
			assert.Equal(t, tt.wantCode, got.Code)
			assert.Equal(t, tt.wantMessage, got.Message)
			assert.Equal(t, tt.wantStatus, got.HTTPStatus)
			assert.Equal(t, tt.wantData, got.Data)
			assert.Nil(t, got.HTTPHeaders)
			assert.Nil(t, got.HTTPBody)
		})
	}
}

func TestMarshalJSON(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		data, err := json.Marshal(OK)
		require.NoError(t, err)
		assert.JSONEq(t, `{"success":true,"code":"OK","message":"Success","data":null}`, string(data))
	})

	t.Run("error", func(t *testing.T) {
		data, err := json.Marshal(ErrForbidden)
		require.NoError(t, err)
		assert.JSONEq(t, `{"success":false,"code":"403","message":"Forbidden","data":null}`, string(data))
	})

	t.Run("error with stored data", func(t *testing.T) {
		e := NewErrorResponse("Invalid", "INVALID", &Options{HTTPStatus: 422, Data: map[string]any{"field": "email"}}, Settings{})
		data, err := json.Marshal(e)
		require.NoError(t, err)
		assert.JSONEq(t, `{"success":false,"code":"INVALID","message":"Invalid","data":{"field":"email"}}`, string(data))
	})

	t.Run("nested in a struct", func(t *testing.T) {
		data, err := json.Marshal(struct {
			Result *SuccessResponse `json:"result"`
		}{Result: OK})
		require.NoError(t, err)
		assert.JSONEq(t, `{"result":{"success":true,"code":"OK","message":"Success","data":null}}`, string(data))
	})
}

func TestGetResponseBody(t *testing.T) {
	tests := []struct {
		name            string
		resp            Response
		fallbackSuccess bool
		want            any
	}{
		{
			name: "explicit body is returned verbatim",
			resp: Response{Code: "IGNORED", HTTPBody: map[string]string{"raw": "yes"}},
			want: map[string]string{"raw": "yes"},
		},
		{
			name: "empty response falls back to internal error",
			resp: Response{},
			want: Body{Success: false, Code: InternalErrorCode, Message: InternalErrorMessage},
		},
		{
			name:            "empty response falls back to success",
			resp:            Response{},
			fallbackSuccess: true,
			want:            Body{Success: true, Code: SuccessCode, Message: SuccessMessage},
		},
		{
			name: "fields are kept",
			resp: Response{Success: false, Code: "X", Message: "y", Data: 3, HTTPStatus: 418},
			want: Body{Success: false, Code: "X", Message: "y", Data: 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetResponseBody(tt.resp, tt.fallbackSuccess))
		})
	}
}

func TestWrap_HidesDataOutsideDebug(t *testing.T) {
	wrapped := ErrBadRequest.Wrap(WrapOptions{Data: map[string]int{"x": 1}, Message: "bad input"})

	resp := wrapped.Compose(ComposeOptions{})
	assert.Nil(t, resp.Data)
	assert.Equal(t, "bad input", resp.Message)
	assert.Equal(t, "400", resp.Code)
	assert.Equal(t, http.StatusBadRequest, resp.HTTPStatus)

	data, err := json.Marshal(wrapped)
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"x"`)
}

func TestWrap_ShowData(t *testing.T) {
	wrapped := ErrBadRequest.Wrap(WrapOptions{Data: map[string]int{"x": 1}, ShowData: true})

	assert.Equal(t, map[string]int{"x": 1}, wrapped.Compose(ComposeOptions{}).Data)
	assert.Equal(t, "Bad Request", wrapped.Message())
}

func TestWrap_DebugMode(t *testing.T) {
	cat := NewCatalog(Settings{Debug: true})

	t.Run("data is nested under debug key", func(t *testing.T) {
		wrapped := cat.BadRequest.Wrap(WrapOptions{Data: map[string]int{"x": 1}})

		assert.Equal(t, map[string]any{DebugDataKey: map[string]int{"x": 1}}, wrapped.Compose(ComposeOptions{}).Data)
		assert.True(t, wrapped.Debug())
	})

	t.Run("show data still wins", func(t *testing.T) {
		wrapped := cat.BadRequest.Wrap(WrapOptions{Data: "visible", ShowData: true})
		assert.Equal(t, "visible", wrapped.Compose(ComposeOptions{}).Data)
	})

	t.Run("nil data yields an empty debug object", func(t *testing.T) {
		data, err := json.Marshal(cat.BadRequest.Wrap(WrapOptions{}))
		require.NoError(t, err)
		assert.JSONEq(t, `{"success":false,"code":"400","message":"Bad Request","data":{}}`, string(data))
	})
}

func TestWrap_DoesNotModifyReceiver(t *testing.T) {
	cat := NewCatalog(Settings{Debug: true})
	base := cat.NewError("Original", "ORIG", &Options{HTTPStatus: http.StatusConflict, Data: "stored"})

	_ = base.Wrap(WrapOptions{Data: "secret", Message: "changed"})
	_ = base.Wrap(WrapOptions{Data: "shown", ShowData: true})

	assert.Equal(t, "Original", base.Message())
	assert.Equal(t, "stored", base.Options().Data)
}

func TestWrap_InheritsStoredData(t *testing.T) {
	base := NewErrorResponse("Locked", "LOCKED", &Options{HTTPStatus: http.StatusLocked, Data: "retry later"}, Settings{})

	wrapped := base.Wrap(WrapOptions{Data: "internal detail"})
	assert.Equal(t, "retry later", wrapped.Compose(ComposeOptions{}).Data)
}

func TestErrorResponse_ErrorChain(t *testing.T) {
	cause := errors.New("decode failed")
	wrapped := ErrBadRequest.Wrap(WrapOptions{Message: "invalid body", Cause: cause})

	var err error = fmt.Errorf("handler: %w", wrapped)

	assert.True(t, errors.Is(err, ErrBadRequest))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(err, cause))

	var target *ErrorResponse
	require.True(t, errors.As(err, &target))
	assert.Equal(t, "invalid body", target.Message())
}

func TestSettingsFromEnv(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{value: "true", want: true},
		{value: "TRUE", want: false},
		{value: "1", want: false},
		{value: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv(DebugEnv, tt.value)
			assert.Equal(t, tt.want, SettingsFromEnv().Debug)
		})
	}
}
