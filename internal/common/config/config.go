package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/weathermate/backend/internal/common/constants"
	commonerrors "github.com/weathermate/backend/internal/common/errors"
)

// Config is immutable after Load and passed explicitly to every component;
// nothing reads the environment past process start.
type Config struct {
	HTTPPort        string
	DatabaseURL     string
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	WeatherAPIURL   string
	WeatherAPIKey   string
	WeatherTimeout  time.Duration
	RequestTimeout  time.Duration
}

// Load reads .env overrides (if present) and then the environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	jwtSecret, err := mustEnv("JWT_SECRET")
	if err != nil {
		return Config{}, err
	}

	if len(jwtSecret) < constants.JWTSecretMinLength {
		return Config{}, fmt.Errorf("%w: got %d bytes", commonerrors.ErrInvalidJWTSecret, len(jwtSecret))
	}

	databaseURL, err := mustEnv("DATABASE_URL")
	if err != nil {
		return Config{}, err
	}

	weatherAPIKey, err := mustEnv("WEATHER_API_KEY")
	if err != nil {
		return Config{}, err
	}

	return Config{
		HTTPPort:        getEnv("HTTP_PORT", constants.DefaultHTTPPort),
		DatabaseURL:     databaseURL,
		JWTSecret:       jwtSecret,
		AccessTokenTTL:  getDurationEnv("ACCESS_TOKEN_TTL", constants.DefaultAccessTokenTTL),
		RefreshTokenTTL: getDurationEnv("REFRESH_TOKEN_TTL", constants.DefaultRefreshTokenTTL),
		WeatherAPIURL:   getEnv("WEATHER_API_URL", constants.DefaultWeatherAPIURL),
		WeatherAPIKey:   weatherAPIKey,
		WeatherTimeout:  getDurationEnv("WEATHER_REQUEST_TIMEOUT", constants.DefaultWeatherTimeout),
		RequestTimeout:  getDurationEnv("REQUEST_TIMEOUT", constants.DefaultRequestTimeout),
	}, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func mustEnv(key string) (string, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", fmt.Errorf("%w: %s", commonerrors.ErrMissingRequiredEnv, key)
	}
	return v, nil
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
