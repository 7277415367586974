package http_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	commonerrors "github.com/weathermate/backend/internal/common/errors"
	commonhttp "github.com/weathermate/backend/internal/common/http"
)

func decodeErrorBody(t *testing.T, rec *httptest.ResponseRecorder) commonhttp.ErrorResponse {
	t.Helper()
	var body commonhttp.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	return body
}

func TestWriteError_Envelope(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/weather/London", nil)
	rec := httptest.NewRecorder()

	commonhttp.WriteError(rec, req, http.StatusNotFound, "City not found: London")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected JSON content type, got %q", ct)
	}

	body := decodeErrorBody(t, rec)
	if body.Status != 404 || body.Error != "Not Found" || body.Path != "/api/weather/London" {
		t.Errorf("unexpected envelope: %+v", body)
	}
	if body.Message != "City not found: London" {
		t.Errorf("unexpected message: %q", body.Message)
	}
}

func TestWriteDomainError_MapsStatus(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantLabel  string
	}{
		{"city not found", commonerrors.ErrCityNotFound, http.StatusNotFound, "Not Found"},
		{"provider down", commonerrors.ErrProviderUnavailable, http.StatusBadGateway, "Bad Gateway"},
		{"wrapped cause", commonerrors.ErrProviderUnavailable.WithCause(errors.New("dial tcp: timeout")), http.StatusBadGateway, "Bad Gateway"},
		{"opaque error", errors.New("pq: connection refused"), http.StatusInternalServerError, "Internal Server Error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
			rec := httptest.NewRecorder()

			commonhttp.WriteDomainError(rec, req, tc.err)

			if rec.Code != tc.wantStatus {
				t.Errorf("expected %d, got %d", tc.wantStatus, rec.Code)
			}

			body := decodeErrorBody(t, rec)
			if body.Error != tc.wantLabel {
				t.Errorf("expected label %q, got %q", tc.wantLabel, body.Error)
			}
		})
	}
}

func TestWriteDomainError_NeverLeaksCause(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
	rec := httptest.NewRecorder()

	commonhttp.WriteDomainError(rec, req, errors.New("password hash mismatch for row 42"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}

	if got := rec.Body.String(); strings.Contains(got, "password") || strings.Contains(got, "row 42") {
		t.Errorf("internal details leaked into response: %s", got)
	}
}

func TestGetClientIP(t *testing.T) {
	cases := []struct {
		name    string
		setup   func(r *http.Request)
		want    string
	}{
		{
			"x-real-ip wins",
			func(r *http.Request) { r.Header.Set("X-Real-IP", "203.0.113.9") },
			"203.0.113.9",
		},
		{
			"first forwarded-for hop",
			func(r *http.Request) { r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1") },
			"203.0.113.9",
		},
		{
			"remote addr fallback",
			func(r *http.Request) { r.RemoteAddr = "192.0.2.4:51234" },
			"192.0.2.4",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tc.setup(req)

			if got := commonhttp.GetClientIP(req); got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}
