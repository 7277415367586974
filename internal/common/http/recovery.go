package http

import (
	"net/http"
	"runtime/debug"

	"github.com/weathermate/backend/internal/common/logger"
)

// RecoveryMiddleware turns panics into a structured 500; the stack trace
// stays in the log, never in the response.
func RecoveryMiddleware(log *logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.Criticalf("panic recovered: %v\n%s", err, debug.Stack())
					WriteError(w, r, http.StatusInternalServerError, "internal server error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
