package engineconfig

import (
	"fmt"
	"math"

	"github.com/wonny/horizon/backend/internal/contracts"
	"github.com/wonny/horizon/backend/internal/models"
)

// ValidationError 검증 실패 (프로그램 중단)
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks all required constraints
// 실패 시 error 반환 (프로그램 중단)
func Validate(cfg *Config) error {
	// === Meta ===
	if cfg.Meta.StrategyID == "" {
		return ValidationError{"meta.strategy_id", "required"}
	}

	// === Engine ===
	if cfg.Engine.TargetColumn == "" {
		return ValidationError{"engine.target_column", "required"}
	}
	if cfg.Engine.Horizon <= 0 {
		return ValidationError{"engine.horizon", "must be > 0"}
	}
	if cfg.Engine.Window < 0 {
		return ValidationError{"engine.window", "must be >= 0"}
	}
	if cfg.Engine.SeasonalityOverride < 0 {
		return ValidationError{"engine.seasonality_override", "must be >= 0"}
	}
	for i, col := range cfg.Engine.GroupBy {
		if col == "" {
			return ValidationError{
				Field:   fmt.Sprintf("engine.group_by[%d]", i),
				Message: "must not be empty",
			}
		}
	}
	if cfg.Engine.ModelFamily != "" && !models.Known(contracts.FamilyTag(cfg.Engine.ModelFamily)) {
		return ValidationError{"engine.model_family", fmt.Sprintf("unknown family '%s'", cfg.Engine.ModelFamily)}
	}
	for i, cand := range cfg.Engine.Candidates {
		if !models.Known(contracts.FamilyTag(cand)) {
			return ValidationError{
				Field:   fmt.Sprintf("engine.candidates[%d]", i),
				Message: fmt.Sprintf("unknown family '%s'", cand),
			}
		}
	}

	// === Data ===
	if cfg.Data.Dataset == "" {
		return ValidationError{"data.dataset", "required"}
	}
	if cfg.Data.TrainPct <= 0 {
		return ValidationError{"data.train_pct", "must be > 0"}
	}
	if cfg.Data.DevPct < 0 || cfg.Data.TestPct < 0 {
		return ValidationError{"data", "dev_pct and test_pct must be >= 0"}
	}
	total := cfg.Data.TrainPct + cfg.Data.DevPct + cfg.Data.TestPct
	if math.Abs(total-1.0) > 1e-9 {
		return ValidationError{"data", fmt.Sprintf("split pcts must sum to 1.0, got %.4f", total)}
	}

	return nil
}
