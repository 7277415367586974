package http

import (
	"net/http"

	"github.com/weathermate/backend/internal/common/constants"
	"github.com/weathermate/backend/internal/common/httpmetrics"
	"github.com/weathermate/backend/internal/common/logger"
)

// BuildBaseHandler wraps the application handler with the shared middleware
// chain: security headers, panic recovery, trace ids, body limits, metrics.
func BuildBaseHandler(log *logger.Logger, handler http.Handler) http.Handler {
	recovery := RecoveryMiddleware(log)
	maxRequestSize := MaxRequestSizeMiddleware(constants.DefaultMaxRequestSize)

	return SecurityHeadersMiddleware(
		recovery(
			TraceIDMiddleware(
				maxRequestSize(
					httpmetrics.Wrap(handler),
				),
			),
		),
	)
}
