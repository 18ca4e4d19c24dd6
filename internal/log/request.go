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

package log

import (
	"context"
	"log/slog"
	"time"
)

// Request describes one completed HTTP request.
type Request struct {
	Method   string
	Path     string
	Status   int
	Code     string
	Duration time.Duration
	ClientIP string
}

// LogRequest writes one line for req. The request ID is expected on logger,
// see WithRequestID. Server errors are logged at error
// level, client errors at warn and everything else at info.
func LogRequest(ctx context.Context, logger *slog.Logger, req Request) {
	attrs := []slog.Attr{
		slog.String("method", req.Method),
		slog.String("path", req.Path),
		slog.Int(StatusKey, req.Status),
		slog.Int64(DurationKey, req.Duration.Milliseconds()),
	}
	if req.Code != "" {
		attrs = append(attrs, slog.String(CodeKey, req.Code))
	}
	if req.ClientIP != "" {
		attrs = append(attrs, slog.String(ClientIPKey, req.ClientIP))
	}

	level := slog.LevelInfo
	switch {
	case req.Status >= 500:
		level = slog.LevelError
	case req.Status >= 400:
		level = slog.LevelWarn
	}

	logger.LogAttrs(ctx, level, "http request", attrs...)
}
