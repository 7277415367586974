// Package service implements the fetch-and-record flow: a live provider
// lookup whose success, and only success, appends one search history record
// for the requesting user.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/weathermate/backend/internal/common/clock"
	commoncrypto "github.com/weathermate/backend/internal/common/crypto"
	commonerrors "github.com/weathermate/backend/internal/common/errors"
	"github.com/weathermate/backend/internal/common/logger"
	"github.com/weathermate/backend/internal/observability/metrics"
	userrepo "github.com/weathermate/backend/internal/user/repository"
	"github.com/weathermate/backend/internal/weather/domain"
	"github.com/weathermate/backend/internal/weather/provider"
	weatherrepo "github.com/weathermate/backend/internal/weather/repository"
)

type Report struct {
	City        string
	Temperature float64
	FeelsLike   float64
	Humidity    int
	WindSpeed   float64
}

type HistoryEntry struct {
	ID          string
	City        string
	SearchedAt  time.Time
	Temperature float64
}

type WeatherService struct {
	provider    provider.Client
	history     weatherrepo.Repository
	users       userrepo.Repository
	idGen       commoncrypto.IDGenerator
	clock       clock.Clock
	log         *logger.Logger
	historySize int
}

func NewWeatherService(
	providerClient provider.Client,
	history weatherrepo.Repository,
	users userrepo.Repository,
	idGen commoncrypto.IDGenerator,
	clk clock.Clock,
	historySize int,
	log *logger.Logger,
) *WeatherService {
	return &WeatherService{
		provider:    providerClient,
		history:     history,
		users:       users,
		idGen:       idGen,
		clock:       clk,
		log:         log,
		historySize: historySize,
	}
}

// Fetch calls the provider for city and, on success, records the lookup for
// username. Provider failures write nothing.
func (s *WeatherService) Fetch(ctx context.Context, city, username string) (Report, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			return Report{}, commonerrors.ErrUserNotFound
		}
		return Report{}, commonerrors.ErrDatabaseError.WithCause(err)
	}

	conditions, err := s.provider.CurrentByCity(ctx, city)
	if err != nil {
		metrics.WeatherLookupsTotal.WithLabelValues("provider_error").Inc()
		s.log.WithFields(ctx, logger.Fields{
			"city":   city,
			"action": "weather_lookup_failed",
		}).Warnf("weather lookup failed: %v", err)
		return Report{}, err
	}

	id, err := s.idGen.NewID()
	if err != nil {
		return Report{}, commonerrors.ErrInternalError.WithCause(err)
	}

	record := domain.SearchHistory{
		ID:          id,
		City:        city,
		SearchedAt:  s.clock.Now(),
		Temperature: conditions.Temperature,
		UserID:      string(user.ID),
	}

	if err := s.history.Create(ctx, record); err != nil {
		metrics.WeatherLookupsTotal.WithLabelValues("history_write_error").Inc()
		s.log.WithFields(ctx, logger.Fields{
			"city":    city,
			"user_id": string(user.ID),
			"action":  "history_write_failed",
		}).Errorf("failed to record search history: %v", err)
		return Report{}, commonerrors.ErrDatabaseError.WithCause(err)
	}

	metrics.WeatherLookupsTotal.WithLabelValues("success").Inc()
	metrics.HistoryRecordsWritten.Inc()
	s.log.WithFields(ctx, logger.Fields{
		"city":    city,
		"user_id": string(user.ID),
		"action":  "weather_lookup_success",
	}).Info("weather lookup recorded")

	return Report{
		City:        city,
		Temperature: conditions.Temperature,
		FeelsLike:   conditions.FeelsLike,
		Humidity:    conditions.Humidity,
		WindSpeed:   conditions.WindSpeed,
	}, nil
}

// History returns the caller's past lookups newest-first. The result is
// never nil.
func (s *WeatherService) History(ctx context.Context, username string) ([]HistoryEntry, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			return nil, commonerrors.ErrUserNotFound
		}
		return nil, commonerrors.ErrDatabaseError.WithCause(err)
	}

	records, err := s.history.ListByUserID(ctx, string(user.ID), s.historySize)
	if err != nil {
		return nil, commonerrors.ErrDatabaseError.WithCause(err)
	}

	entries := make([]HistoryEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, HistoryEntry{
			ID:          rec.ID,
			City:        rec.City,
			SearchedAt:  rec.SearchedAt,
			Temperature: rec.Temperature,
		})
	}

	return entries, nil
}
