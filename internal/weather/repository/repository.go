package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/weathermate/backend/internal/weather/domain"
)

type Repository interface {
	Create(ctx context.Context, record domain.SearchHistory) error
	ListByUserID(ctx context.Context, userID string, limit int) ([]domain.SearchHistory, error)
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) Create(ctx context.Context, record domain.SearchHistory) error {
	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO search_history (id, city, searched_at, temperature, user_id)
		 VALUES ($1, $2, $3, $4, $5)`,
		record.ID,
		record.City,
		record.SearchedAt,
		record.Temperature,
		record.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to create history record: %w", err)
	}
	return nil
}

// ListByUserID returns the owner's records newest-first.
func (r *PgRepository) ListByUserID(ctx context.Context, userID string, limit int) ([]domain.SearchHistory, error) {
	rows, err := r.pool.Query(
		ctx,
		`SELECT id, city, searched_at, temperature, user_id
		 FROM search_history
		 WHERE user_id = $1
		 ORDER BY searched_at DESC
		 LIMIT $2`,
		userID,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	records := make([]domain.SearchHistory, 0)
	for rows.Next() {
		var rec domain.SearchHistory
		if err := rows.Scan(&rec.ID, &rec.City, &rec.SearchedAt, &rec.Temperature, &rec.UserID); err != nil {
			return nil, fmt.Errorf("failed to scan history record: %w", err)
		}
		records = append(records, rec)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("rows iteration error: %w", rows.Err())
	}

	return records, nil
}
