package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/horizon/backend/internal/contracts"
)

// ForecastRepository 예측 결과 저장소
type ForecastRepository struct {
	pool *pgxpool.Pool
}

// NewForecastRepository 새 저장소 생성
func NewForecastRepository(pool *pgxpool.Pool) *ForecastRepository {
	return &ForecastRepository{pool: pool}
}

// SaveForecasts stores the per-row forecast windows of one run. Row index
// keeps the original request order reconstructible.
func (r *ForecastRepository) SaveForecasts(ctx context.Context, runID int64, forecasts []contracts.Forecast) error {
	if len(forecasts) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO forecast.windows (run_id, row_index, group_key, fallback, window_values)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (run_id, row_index) DO UPDATE SET
			group_key = EXCLUDED.group_key,
			fallback = EXCLUDED.fallback,
			window_values = EXCLUDED.window_values`

	for i, fc := range forecasts {
		batch.Queue(query, runID, i, string(fc.Group), fc.Fallback, fc.Values)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range forecasts {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}

	return nil
}

// GetForecasts retrieves the stored windows of a run in row order.
func (r *ForecastRepository) GetForecasts(ctx context.Context, runID int64) ([]contracts.Forecast, error) {
	query := `
		SELECT group_key, fallback, window_values
		FROM forecast.windows
		WHERE run_id = $1
		ORDER BY row_index ASC`

	rows, err := r.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []contracts.Forecast
	for rows.Next() {
		var (
			fc    contracts.Forecast
			group string
		)
		if err := rows.Scan(&group, &fc.Fallback, &fc.Values); err != nil {
			return nil, err
		}
		fc.Group = contracts.GroupKey(group)
		out = append(out, fc)
	}
	return out, rows.Err()
}
