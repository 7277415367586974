package token

import (
	"context"
	"net/http"
	"strings"

	commonhttp "github.com/weathermate/backend/internal/common/http"
	"github.com/weathermate/backend/internal/common/logger"
)

// Identity is the authenticated caller extracted from a validated access
// token; it is the only thing handlers downstream see of the credential.
type Identity struct {
	Username string
}

type contextKey string

const identityKey contextKey = "identity"

// Middleware guards resource endpoints with a Bearer access token. Refresh
// tokens are rejected here regardless of validity.
func Middleware(svc *Service, log *logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get("Authorization")
			if raw == "" || !strings.HasPrefix(raw, "Bearer ") {
				log.Warnf("auth failed path=%s: missing or invalid authorization header", r.URL.Path)
				commonhttp.WriteError(w, r, http.StatusUnauthorized, "missing or invalid authorization")
				return
			}

			subject, err := svc.Validate(strings.TrimPrefix(raw, "Bearer "), KindAccess)
			if err != nil {
				log.Warnf("auth failed path=%s: %v", r.URL.Path, err)
				commonhttp.WriteError(w, r, http.StatusUnauthorized, "invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, Identity{Username: subject})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func FromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityKey).(Identity)
	return identity, ok
}
