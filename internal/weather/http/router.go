package http

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	commonhttp "github.com/weathermate/backend/internal/common/http"
	"github.com/weathermate/backend/internal/common/logger"
	"github.com/weathermate/backend/internal/token"
	"github.com/weathermate/backend/internal/weather/service"
)

type weatherResponse struct {
	City        string  `json:"city"`
	Temperature float64 `json:"temperature"`
	FeelsLike   float64 `json:"feelsLike"`
	Humidity    int     `json:"humidity"`
	WindSpeed   float64 `json:"windSpeed"`
}

type historyEntryResponse struct {
	ID          string    `json:"id"`
	City        string    `json:"city"`
	SearchedAt  time.Time `json:"searchedAt"`
	Temperature float64   `json:"temperature"`
}

type Handler struct {
	weather *service.WeatherService
	timeout time.Duration
	log     *logger.Logger
}

// NewHandler mounts the token-guarded resource endpoints. Only access
// tokens pass the middleware; refresh tokens are rejected before reaching
// any handler here.
func NewHandler(
	weather *service.WeatherService,
	tokens *token.Service,
	timeout time.Duration,
	log *logger.Logger,
) http.Handler {
	h := &Handler{weather: weather, timeout: timeout, log: log}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/weather/", h.getWeather)
	mux.HandleFunc("/api/history", h.getHistory)

	return token.Middleware(tokens, log)(mux)
}

func (h *Handler) getWeather(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		commonhttp.WriteError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	identity, ok := token.FromContext(r.Context())
	if !ok {
		commonhttp.WriteError(w, r, http.StatusUnauthorized, "missing identity")
		return
	}

	city, ok := extractCityFromPath(r.URL.Path)
	if !ok {
		commonhttp.WriteError(w, r, http.StatusBadRequest, "city is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	report, err := h.weather.Fetch(ctx, city, identity.Username)
	if err != nil {
		commonhttp.WriteDomainError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, weatherResponse{
		City:        report.City,
		Temperature: report.Temperature,
		FeelsLike:   report.FeelsLike,
		Humidity:    report.Humidity,
		WindSpeed:   report.WindSpeed,
	})
}

func (h *Handler) getHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		commonhttp.WriteError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	identity, ok := token.FromContext(r.Context())
	if !ok {
		commonhttp.WriteError(w, r, http.StatusUnauthorized, "missing identity")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	entries, err := h.weather.History(ctx, identity.Username)
	if err != nil {
		commonhttp.WriteDomainError(w, r, err)
		return
	}

	response := make([]historyEntryResponse, 0, len(entries))
	for _, entry := range entries {
		response = append(response, historyEntryResponse{
			ID:          entry.ID,
			City:        entry.City,
			SearchedAt:  entry.SearchedAt,
			Temperature: entry.Temperature,
		})
	}

	commonhttp.WriteJSON(w, http.StatusOK, response)
}

// extractCityFromPath pulls the city segment out of /api/weather/{city};
// the segment is URL-decoded so names like "New%20York" round-trip.
func extractCityFromPath(path string) (string, bool) {
	const prefix = "/api/weather/"
	if !strings.HasPrefix(path, prefix) {
		return "", false
	}

	city := strings.TrimPrefix(path, prefix)
	city = strings.TrimSuffix(city, "/")
	if city == "" || strings.Contains(city, "/") {
		return "", false
	}

	decoded, err := url.PathUnescape(city)
	if err != nil {
		return "", false
	}

	return decoded, true
}
