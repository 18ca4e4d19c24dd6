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
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	nucleoerrors "github.com/tombee/nucleo-server/pkg/errors"
	"github.com/tombee/nucleo-server/pkg/response"
)

// DefaultListenPort is the port used when neither the file nor the
// environment sets one.
const DefaultListenPort = 8080

// Environment variables read by Load.
const (
	EnvListenPort  = "NUCLEO_LISTEN_PORT"
	EnvBasePath    = "NUCLEO_BASE_PATH"
	EnvHTTPBaseURL = "NUCLEO_HTTP_BASE_URL"
	EnvHostname    = "NUCLEO_HOSTNAME"
	EnvSecure      = "NUCLEO_SECURE"
	EnvTrustProxy  = "NUCLEO_TRUST_PROXY"
	EnvCorsOrigin  = "NUCLEO_CORS_ORIGIN"
)

// DefaultAttributes returns the attributes Load starts from.
func DefaultAttributes() Attributes {
	return Attributes{
		ListenPort: DefaultListenPort,
	}
}

// Load builds a Server from defaults, an optional YAML file at path, and
// environment variables, in that order of precedence. Variables from
// dotenvFiles are loaded first without overriding the real environment;
// with no dotenvFiles a ".env" in the working directory is used if present.
func Load(path string, dotenvFiles ...string) (*Server, error) {
	attrs, err := LoadAttributes(path, dotenvFiles...)
	if err != nil {
		return nil, err
	}
	return New(attrs), nil
}

// LoadAttributes is Load without the final normalization step.
func LoadAttributes(path string, dotenvFiles ...string) (Attributes, error) {
	if err := loadDotEnv(dotenvFiles); err != nil {
		return Attributes{}, &nucleoerrors.ConfigError{
			Key:    "dotenv",
			Reason: "failed to load environment file",
			Cause:  err,
		}
	}

	attrs := DefaultAttributes()

	if path != "" {
		if err := attrs.loadFromFile(path); err != nil {
			return Attributes{}, &nucleoerrors.ConfigError{
				Key:    "config_file",
				Reason: fmt.Sprintf("failed to load from %s", path),
				Cause:  err,
			}
		}
	}

	if err := attrs.loadFromEnv(); err != nil {
		return Attributes{}, &nucleoerrors.ConfigError{
			Key:    "environment",
			Reason: "invalid environment override",
			Cause:  err,
		}
	}

	if err := attrs.Validate(); err != nil {
		return Attributes{}, &nucleoerrors.ConfigError{
			Key:    "validation",
			Reason: "configuration validation failed",
			Cause:  err,
		}
	}

	return attrs, nil
}

func loadDotEnv(files []string) error {
	if len(files) == 0 {
		err := godotenv.Load()
		if nucleoerrors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return godotenv.Load(files...)
}

func (a *Attributes) loadFromFile(path string) error {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nucleoerrors.Wrap(err, "failed to get home directory")
		}
		path = filepath.Join(home, path[2:])
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nucleoerrors.Wrapf(err, "failed to read config file %s", path)
	}

	if err := yaml.Unmarshal(data, a); err != nil {
		return nucleoerrors.Wrap(err, "failed to parse YAML")
	}

	return nil
}

// loadFromEnv applies environment overrides. Boolean variables are true only
// for the exact string "true".
func (a *Attributes) loadFromEnv() error {
	if val, ok := os.LookupEnv(EnvListenPort); ok && val != "" {
		port, err := strconv.Atoi(val)
		if err != nil {
			return &nucleoerrors.ValidationError{
				Field:      EnvListenPort,
				Message:    fmt.Sprintf("%q is not an integer", val),
				Suggestion: "set a port number such as 8080",
			}
		}
		a.ListenPort = port
	}
	if val, ok := os.LookupEnv(EnvBasePath); ok {
		a.BasePath = &val
	}
	if val := os.Getenv(EnvHTTPBaseURL); val != "" {
		a.HTTPBaseURL = val
	}
	if val := os.Getenv(EnvHostname); val != "" {
		a.Hostname = val
	}
	if val, ok := os.LookupEnv(EnvSecure); ok {
		a.Secure = val == "true"
	}
	if val, ok := os.LookupEnv(EnvTrustProxy); ok {
		a.TrustProxy = TrustProxyString(val)
	}
	if val, ok := os.LookupEnv(EnvCorsOrigin); ok {
		a.CorsOrigin = val
	}
	if val, ok := os.LookupEnv(response.DebugEnv); ok {
		a.Debug = val == "true"
	}
	return nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// Validate checks a against the field constraints. The returned error is a
// nucleoerrors.ValidationErrors listing every failing field.
func (a Attributes) Validate() error {
	err := validate.Struct(a)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !nucleoerrors.As(err, &fieldErrs) {
		return err
	}

	errs := make(nucleoerrors.ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		errs = append(errs, &nucleoerrors.ValidationError{
			Field:      fe.Field(),
			Message:    describeFieldError(fe),
			Suggestion: suggestFor(fe.Field()),
		})
	}
	return errs
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s, got %v", fe.Param(), fe.Value())
	case "max":
		return fmt.Sprintf("must be at most %s, got %v", fe.Param(), fe.Value())
	case "hostname_rfc1123|ip":
		return fmt.Sprintf("must be a host name or IP address, got %q", fe.Value())
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}

func suggestFor(field string) string {
	switch field {
	case "listen_port":
		return "use a TCP port between 1 and 65535"
	case "hostname":
		return "use the public host name without scheme or port"
	default:
		return ""
	}
}
