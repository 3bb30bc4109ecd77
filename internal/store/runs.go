package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/horizon/backend/internal/contracts"
)

// RunRepository 적합 실행 이력 저장소
type RunRepository struct {
	pool *pgxpool.Pool
}

// NewRunRepository 새 저장소 생성
func NewRunRepository(pool *pgxpool.Pool) *RunRepository {
	return &RunRepository{pool: pool}
}

// SaveRun persists one fit run with its trial bookkeeping as JSONB.
func (r *RunRepository) SaveRun(ctx context.Context, run *contracts.FitRun) (int64, error) {
	trialsJSON, err := json.Marshal(run.Trials)
	if err != nil {
		return 0, err
	}

	query := `
		INSERT INTO forecast.fit_runs
			(strategy_id, config_hash, family, trials, group_count, skip_count, duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	var id int64
	err = r.pool.QueryRow(ctx, query,
		run.StrategyID, run.ConfigHash, string(run.Family),
		trialsJSON, run.GroupCount, run.SkipCount, run.Duration.Milliseconds(),
	).Scan(&id)

	return id, err
}

// GetRecentRuns retrieves the most recent fit runs, newest first.
func (r *RunRepository) GetRecentRuns(ctx context.Context, limit int) ([]contracts.FitRun, error) {
	query := `
		SELECT id, strategy_id, config_hash, family, trials, group_count, skip_count,
			   duration_ms, created_at
		FROM forecast.fit_runs
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []contracts.FitRun
	for rows.Next() {
		var (
			run        contracts.FitRun
			family     string
			trialsJSON []byte
			durationMS int64
		)
		if err := rows.Scan(
			&run.ID, &run.StrategyID, &run.ConfigHash, &family, &trialsJSON,
			&run.GroupCount, &run.SkipCount, &durationMS, &run.CreatedAt,
		); err != nil {
			return nil, err
		}
		run.Family = contracts.FamilyTag(family)
		run.Duration = time.Duration(durationMS) * time.Millisecond
		if len(trialsJSON) > 0 {
			if err := json.Unmarshal(trialsJSON, &run.Trials); err != nil {
				return nil, err
			}
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
