package engineconfig

import (
	"time"

	"github.com/wonny/horizon/backend/internal/contracts"
)

// Config는 예측 전략의 전체 설정
type Config struct {
	Meta   Meta   `yaml:"meta" json:"meta"`
	Engine Engine `yaml:"engine" json:"engine"`
	Data   Data   `yaml:"data" json:"data"`
}

// Meta 메타 정보
type Meta struct {
	StrategyID string `yaml:"strategy_id" json:"strategy_id"`
	Version    string `yaml:"version" json:"version"`
}

// Engine 예측 엔진 설정
type Engine struct {
	TargetColumn        string   `yaml:"target_column" json:"target_column"`
	Horizon             int      `yaml:"horizon" json:"horizon"`
	GroupBy             []string `yaml:"group_by" json:"group_by"`
	Window              int      `yaml:"window" json:"window"`
	SeasonalityOverride int      `yaml:"seasonality_override" json:"seasonality_override"`
	ModelFamily         string   `yaml:"model_family" json:"model_family"` // 고정 시 탐색 생략
	Candidates          []string `yaml:"candidates" json:"candidates"`
	AutoSize            *bool    `yaml:"auto_size" json:"auto_size"`
	HyperparamSearch    *bool    `yaml:"hyperparam_search" json:"hyperparam_search"`
	UseDecomposition    bool     `yaml:"use_decomposition" json:"use_decomposition"`
	Seed                int64    `yaml:"seed" json:"seed"`
}

// Data 학습 데이터 설정
type Data struct {
	Dataset  string  `yaml:"dataset" json:"dataset"`
	TrainPct float64 `yaml:"train_pct" json:"train_pct"`
	DevPct   float64 `yaml:"dev_pct" json:"dev_pct"`
	TestPct  float64 `yaml:"test_pct" json:"test_pct"`
}

// EngineConfig converts the YAML strategy into the engine's runtime config.
// Pointer booleans distinguish "absent" from "false" so the engine defaults
// (both on) survive an omitted key.
func (c *Config) EngineConfig() contracts.EngineConfig {
	cfg := contracts.DefaultEngineConfig(c.Engine.TargetColumn, c.Engine.Horizon)
	cfg.GroupBy = c.Engine.GroupBy
	if c.Engine.Window > 0 {
		cfg.Window = c.Engine.Window
	}
	cfg.SeasonalityOverride = c.Engine.SeasonalityOverride
	cfg.ModelFamily = contracts.FamilyTag(c.Engine.ModelFamily)
	for _, cand := range c.Engine.Candidates {
		cfg.Candidates = append(cfg.Candidates, contracts.FamilyTag(cand))
	}
	if c.Engine.AutoSize != nil {
		cfg.AutoSize = *c.Engine.AutoSize
	}
	if c.Engine.HyperparamSearch != nil {
		cfg.HyperparamSearch = *c.Engine.HyperparamSearch
	}
	cfg.UseDecomposition = c.Engine.UseDecomposition
	cfg.Seed = c.Engine.Seed
	return cfg
}

// FitSnapshot 적합 실행 스냅샷 (재현성용)
type FitSnapshot struct {
	ConfigHash string    `json:"config_hash"`
	ConfigYAML string    `json:"config_yaml"`
	StrategyID string    `json:"strategy_id"`
	CreatedAt  time.Time `json:"created_at"`
}
