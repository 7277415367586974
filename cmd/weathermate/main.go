package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	authhttp "github.com/weathermate/backend/internal/auth/http"
	authservice "github.com/weathermate/backend/internal/auth/service"
	"github.com/weathermate/backend/internal/common/clock"
	"github.com/weathermate/backend/internal/common/config"
	"github.com/weathermate/backend/internal/common/constants"
	commoncrypto "github.com/weathermate/backend/internal/common/crypto"
	"github.com/weathermate/backend/internal/common/db"
	commonhttp "github.com/weathermate/backend/internal/common/http"
	"github.com/weathermate/backend/internal/common/logger"
	srv "github.com/weathermate/backend/internal/common/server"
	"github.com/weathermate/backend/internal/token"
	userrepo "github.com/weathermate/backend/internal/user/repository"
	weatherhttp "github.com/weathermate/backend/internal/weather/http"
	"github.com/weathermate/backend/internal/weather/provider"
	weatherrepo "github.com/weathermate/backend/internal/weather/repository"
	weatherservice "github.com/weathermate/backend/internal/weather/service"
)

func main() {
	log, err := logger.New(os.Getenv("LOG_DIR"), "weathermate", os.Getenv("LOG_LEVEL"))
	if err != nil {
		os.Stderr.WriteString(fmt.Sprintf("failed to initialize logger: %v\n", err))
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	pool := db.NewPool(log, cfg.DatabaseURL)
	defer pool.Close()

	clk := clock.NewRealClock()
	tokens, err := token.NewService(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL, clk)
	if err != nil {
		log.Fatalf("failed to initialize token service: %v", err)
	}

	users := userrepo.NewPgRepository(pool)
	history := weatherrepo.NewPgRepository(pool)
	hasher := &commoncrypto.BcryptHasher{}
	idGenerator := commoncrypto.NewUUIDGenerator()

	auth := authservice.NewAuthService(users, hasher, idGenerator, tokens, clk, log)

	weatherClient := provider.NewOpenWeatherMap(cfg.WeatherAPIURL, cfg.WeatherAPIKey, cfg.WeatherTimeout)
	weather := weatherservice.NewWeatherService(
		weatherClient,
		history,
		users,
		idGenerator,
		clk,
		constants.DefaultHistoryPageSize,
		log,
	)

	mux := http.NewServeMux()
	mux.Handle("/", authhttp.NewHandler(auth, cfg.RequestTimeout, log))
	mux.Handle("/api/", weatherhttp.NewHandler(weather, tokens, cfg.RequestTimeout, log))
	mux.HandleFunc("/health", commonhttp.HealthHandler(log))
	mux.Handle("/metrics", promhttp.Handler())

	rateLimiter := commonhttp.NewRateLimiter(constants.RateLimitRequestsPerSecond, constants.RateLimitBurst)
	baseHandler := commonhttp.BuildBaseHandler(log, mux)

	rateLimited := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/health" || r.URL.Path == "/metrics" {
				next.ServeHTTP(w, r)
				return
			}
			rateLimiter.Middleware(next).ServeHTTP(w, r)
		})
	}

	server := srv.NewServer(srv.DefaultServerConfig(cfg.HTTPPort), rateLimited(baseHandler))

	srv.StartWithGracefulShutdown(server, log, "weathermate", nil)
}
