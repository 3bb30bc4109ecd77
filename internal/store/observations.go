// Package store is the PostgreSQL persistence layer: observation series in,
// fit runs and forecast windows out.
package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/horizon/backend/internal/contracts"
)

// ObservationRepository 관측 시계열 저장소
// ⭐ SSOT: 학습 데이터 조회는 여기서만
type ObservationRepository struct {
	pool *pgxpool.Pool
}

// NewObservationRepository creates a new observation repository
func NewObservationRepository(pool *pgxpool.Pool) *ObservationRepository {
	return &ObservationRepository{pool: pool}
}

// GetSeries retrieves all observations of a dataset ordered by the order
// key. A NULL target scans into an invalid row; it is the engine's job to
// drop it, not the store's.
func (r *ObservationRepository) GetSeries(ctx context.Context, dataset string) ([]contracts.Row, error) {
	query := `
		SELECT order_key, target, labels
		FROM forecast.observations
		WHERE dataset = $1
		ORDER BY order_key ASC
	`

	rows, err := r.pool.Query(ctx, query, dataset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []contracts.Row
	for rows.Next() {
		var (
			row    contracts.Row
			target *float64
			labels map[string]string
		)
		if err := rows.Scan(&row.Order, &target, &labels); err != nil {
			return nil, err
		}
		if target != nil {
			row.Target = *target
			row.Valid = true
		}
		row.Labels = labels
		out = append(out, row)
	}
	return out, rows.Err()
}

// SaveSeries stores observation rows for a dataset. Invalid rows persist a
// NULL target.
func (r *ObservationRepository) SaveSeries(ctx context.Context, dataset string, series []contracts.Row) error {
	if len(series) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO forecast.observations (dataset, order_key, target, labels)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (dataset, order_key, labels) DO UPDATE SET
			target = EXCLUDED.target`

	for _, row := range series {
		var target *float64
		if row.Valid {
			t := row.Target
			target = &t
		}
		batch.Queue(query, dataset, row.Order, target, row.Labels)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range series {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}

	return nil
}
