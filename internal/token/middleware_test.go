package token_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/weathermate/backend/internal/common/clock"
	"github.com/weathermate/backend/internal/common/logger"
	"github.com/weathermate/backend/internal/token"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()

	log, err := logger.New("", "test", "CRITICAL")
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	return log
}

func TestMiddleware_MissingHeader(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	svc := newTestService(t, clk)

	handler := token.Middleware(svc, newTestLogger(t))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/history", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestMiddleware_RefreshTokenRejected(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	svc := newTestService(t, clk)

	refreshToken, err := svc.IssueRefresh("alex")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	handler := token.Middleware(svc, newTestLogger(t))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
	req.Header.Set("Authorization", "Bearer "+refreshToken)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for refresh token at resource endpoint, got %d", rec.Code)
	}
}

func TestMiddleware_ValidAccessToken(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	svc := newTestService(t, clk)

	accessToken, err := svc.IssueAccess("alex")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	var got token.Identity
	handler := token.Middleware(svc, newTestLogger(t))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := token.FromContext(r.Context())
		if !ok {
			t.Error("expected identity in context")
		}
		got = identity
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	if got.Username != "alex" {
		t.Errorf("expected identity alex, got %s", got.Username)
	}
}
