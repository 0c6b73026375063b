// internal/middleware/access.go
//
// Request-scoped logger and access log.
//
// Context
// -------
// Every request gets a child of the base logger tagged with chi's request
// id, stored via logger.WithContext so handlers and lower middleware log
// with the same id.  After the handler returns one INFO line records the
// method, path, status, size, and duration.
//
// Notes
// -----
// • Must run after chimw.RequestID.
// • Oxford commas, two spaces after periods.

package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/yanizio/interactive/internal/logger"
)

// AccessLog returns a wrapper that logs every request through base.
func AccessLog(base *zap.SugaredLogger) func(http.Handler) http.Handler {
	if base == nil {
		base = zap.S()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			l := base.With("req_id", chimw.GetReqID(r.Context()))
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r.WithContext(logger.WithContext(r.Context(), l)))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			l.Infow("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"htmx", r.Header.Get("HX-Request") == "true",
			)
		})
	}
}
