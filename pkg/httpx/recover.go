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

package httpx

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/tombee/nucleo-server/internal/log"
	"github.com/tombee/nucleo-server/pkg/response"
)

// Recover turns panics into the catalog's internal error envelope. The
// panic value is only exposed in debug mode. http.ErrAbortHandler is
// re-raised.
func Recover(cat *response.Catalog, opts ...Option) Middleware {
	rs := NewResponder(append([]Option{WithCatalog(cat)}, opts...)...)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := wrapWriter(w)
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				err := fmt.Errorf("panic: %v", rec)
				rs.log().ErrorContext(r.Context(), "handler panicked",
					log.Error(err),
					"stack", string(debug.Stack()))

				if sw.written() {
					return
				}
				rs.Error(sw, r, rs.catalog.Internal.Wrap(response.WrapOptions{
					Data:  fmt.Sprint(rec),
					Cause: err,
				}))
			}()
			next.ServeHTTP(sw, r)
		})
	}
}
