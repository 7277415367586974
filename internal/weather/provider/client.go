// Package provider wraps the external weather API. Every lookup is a live
// call; responses are never cached here.
package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	commonerrors "github.com/weathermate/backend/internal/common/errors"
	"github.com/weathermate/backend/internal/observability/metrics"
)

// Conditions is the subset of the provider payload the service exposes.
type Conditions struct {
	Temperature float64
	FeelsLike   float64
	Humidity    int
	WindSpeed   float64
}

type Client interface {
	CurrentByCity(ctx context.Context, city string) (Conditions, error)
}

type OpenWeatherMap struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewOpenWeatherMap(baseURL, apiKey string, timeout time.Duration) *OpenWeatherMap {
	return &OpenWeatherMap{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

type weatherResponse struct {
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

func (c *OpenWeatherMap) CurrentByCity(ctx context.Context, city string) (Conditions, error) {
	u, err := url.Parse(c.baseURL + "/weather")
	if err != nil {
		return Conditions{}, commonerrors.ErrProviderUnavailable.WithCause(err)
	}
	q := u.Query()
	q.Set("q", city)
	q.Set("appid", c.apiKey)
	q.Set("units", "metric")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Conditions{}, commonerrors.ErrProviderUnavailable.WithCause(err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.WeatherProviderDurationSeconds.Observe(time.Since(start).Seconds())
	if err != nil {
		return Conditions{}, commonerrors.ErrProviderUnavailable.WithCause(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return Conditions{}, commonerrors.ErrCityNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return Conditions{}, commonerrors.ErrProviderUnavailable
	}

	var payload weatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Conditions{}, commonerrors.ErrProviderUnavailable.WithCause(err)
	}

	return Conditions{
		Temperature: payload.Main.Temp,
		FeelsLike:   payload.Main.FeelsLike,
		Humidity:    payload.Main.Humidity,
		WindSpeed:   payload.Wind.Speed,
	}, nil
}
