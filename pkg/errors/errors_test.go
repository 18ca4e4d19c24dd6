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

package errors_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	nucleoerrors "github.com/tombee/nucleo-server/pkg/errors"
)

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name    string
		err     *nucleoerrors.ValidationError
		wantMsg string
	}{
		{
			name:    "with field",
			err:     &nucleoerrors.ValidationError{Field: "listen_port", Message: "must be at least 1"},
			wantMsg: "validation failed on listen_port: must be at least 1",
		},
		{
			name:    "without field",
			err:     &nucleoerrors.ValidationError{Message: "invalid document"},
			wantMsg: "validation failed: invalid document",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMsg, tt.err.Error())
		})
	}
}

func TestValidationErrors(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, "validation failed", nucleoerrors.ValidationErrors{}.Error())
	})

	t.Run("single error uses its own message", func(t *testing.T) {
		errs := nucleoerrors.ValidationErrors{{Field: "hostname", Message: "bad"}}
		assert.Equal(t, "validation failed on hostname: bad", errs.Error())
	})

	t.Run("multiple errors are listed", func(t *testing.T) {
		errs := nucleoerrors.ValidationErrors{
			{Field: "listen_port", Message: "required"},
			{Field: "hostname", Message: "bad"},
		}
		assert.Contains(t, errs.Error(), "2 validation errors")
		assert.Contains(t, errs.Error(), "listen_port")
		assert.Contains(t, errs.Error(), "hostname")
		assert.Equal(t, []string{"listen_port", "hostname"}, errs.Fields())
	})
}

func TestConfigError(t *testing.T) {
	cause := errors.New("no such file")
	err := &nucleoerrors.ConfigError{Key: "config_file", Reason: "failed to load from app.yaml", Cause: cause}

	assert.Equal(t, "config error at config_file: failed to load from app.yaml: no such file", err.Error())
	assert.True(t, errors.Is(err, cause))

	var target *nucleoerrors.ConfigError
	require.True(t, nucleoerrors.As(nucleoerrors.Wrap(err, "startup"), &target))
	assert.Equal(t, "config_file", target.Key)

	noKey := &nucleoerrors.ConfigError{Reason: "empty"}
	assert.Equal(t, "config error: empty", noKey.Error())
}

func TestWrap(t *testing.T) {
	assert.Nil(t, nucleoerrors.Wrap(nil, "context"))
	assert.Nil(t, nucleoerrors.Wrapf(nil, "context %d", 1))

	root := errors.New("root cause")
	wrapped := nucleoerrors.Wrapf(root, "loading %s", "app.yaml")
	assert.Equal(t, "loading app.yaml: root cause", wrapped.Error())
	assert.True(t, nucleoerrors.Is(wrapped, root))
	assert.Equal(t, root, errors.Unwrap(wrapped))
}
