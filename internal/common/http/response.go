package http

import (
	"encoding/json"
	"net/http"
	"strings"

	commonerrors "github.com/weathermate/backend/internal/common/errors"
)

// ErrorResponse is the structured error body returned by every endpoint.
type ErrorResponse struct {
	Status  int    `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message"`
	Path    string `json:"path"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, r *http.Request, status int, message string) {
	WriteJSON(w, status, ErrorResponse{
		Status:  status,
		Error:   statusLabel(status),
		Message: message,
		Path:    r.URL.Path,
	})
}

// WriteDomainError maps a DomainError to its HTTP status; anything else
// becomes a 500 without leaking internals.
func WriteDomainError(w http.ResponseWriter, r *http.Request, err error) {
	if de, ok := commonerrors.AsDomainError(err); ok {
		WriteError(w, r, de.HTTPStatus(), de.Message())
		return
	}
	WriteError(w, r, http.StatusInternalServerError, "internal server error")
}

func DecodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func GetClientIP(r *http.Request) string {
	ip := r.Header.Get("X-Real-IP")
	if ip == "" {
		ip = r.Header.Get("X-Forwarded-For")
		if idx := strings.Index(ip, ","); idx != -1 {
			ip = strings.TrimSpace(ip[:idx])
		}
	}
	if ip == "" {
		ip = r.RemoteAddr
		if idx := strings.LastIndex(ip, ":"); idx != -1 {
			ip = ip[:idx]
		}
	}
	return ip
}

func statusLabel(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "Validation Error"
	case http.StatusUnauthorized:
		return "Unauthorized"
	case http.StatusNotFound:
		return "Not Found"
	case http.StatusConflict:
		return "Conflict"
	case http.StatusBadGateway:
		return "Bad Gateway"
	default:
		return http.StatusText(status)
	}
}
