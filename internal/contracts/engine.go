package contracts

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// EngineConfig 엔진 생성 시 고정되는 설정 묶음
// Horizon은 엔진 인스턴스 수명 동안 불변이다
type EngineConfig struct {
	TargetColumn string   `json:"target_column"`
	Horizon      int      `json:"horizon"`
	GroupBy      []string `json:"group_by,omitempty"`

	// Window is the lookback window: groups with fewer observations are
	// skipped at fit time and treated as unseen at inference.
	Window int `json:"window"`

	// SeasonalityOverride pins the seasonal period for every group.
	// Zero means use the per-group auto-detected value.
	SeasonalityOverride int `json:"seasonality_override,omitempty"`

	// ModelFamily pins a single family and disables the candidate list.
	ModelFamily FamilyTag    `json:"model_family,omitempty"`
	ModelOpts   ModelOptions `json:"model_opts"`

	// Candidates is the ordered model-family search space. Empty means
	// DefaultCandidates, unless ModelFamily pins one.
	Candidates []FamilyTag `json:"candidates,omitempty"`

	AutoSize         bool `json:"auto_size"`
	HyperparamSearch bool `json:"hyperparam_search"`
	UseDecomposition bool `json:"use_decomposition"`

	Seed int64 `json:"seed"`
}

// DefaultEngineConfig 기본 설정
func DefaultEngineConfig(target string, horizon int) EngineConfig {
	return EngineConfig{
		TargetColumn:     target,
		Horizon:          horizon,
		Window:           5,
		AutoSize:         true,
		HyperparamSearch: true,
	}
}

// Validate checks the fatal configuration errors: these are raised at
// construction and never recovered inside the engine.
func (c *EngineConfig) Validate() error {
	if c.TargetColumn == "" {
		return fmt.Errorf("target column is required")
	}
	if c.Horizon <= 0 {
		return fmt.Errorf("horizon must be positive, got %d", c.Horizon)
	}
	if c.Window < 1 {
		return fmt.Errorf("window must be at least 1, got %d", c.Window)
	}
	for _, col := range c.GroupBy {
		if col == "" {
			return fmt.Errorf("group-by column name must not be empty")
		}
	}
	return nil
}

// FamilyCandidates resolves the effective search space: a pinned family
// degenerates the candidate set to a singleton.
func (c *EngineConfig) FamilyCandidates() []FamilyTag {
	if c.ModelFamily != "" {
		return []FamilyTag{c.ModelFamily}
	}
	if len(c.Candidates) > 0 {
		return c.Candidates
	}
	return DefaultCandidates()
}

// TrialResult 탐색 트라이얼 결과 (트라이얼당 하나)
type TrialResult struct {
	Family FamilyTag `json:"family"`
	Error  float64   `json:"error"` // +Inf when the trial failed
	Failed bool      `json:"failed"`
}

// trialResultJSON mirrors TrialResult with a nullable error, since the
// infinite-error sentinel is not representable in JSON.
type trialResultJSON struct {
	Family FamilyTag `json:"family"`
	Error  *float64  `json:"error"`
	Failed bool      `json:"failed"`
}

// MarshalJSON encodes a failed trial's infinite error as null.
func (t TrialResult) MarshalJSON() ([]byte, error) {
	out := trialResultJSON{Family: t.Family, Failed: t.Failed}
	if !math.IsInf(t.Error, 0) && !math.IsNaN(t.Error) {
		e := t.Error
		out.Error = &e
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores the infinite-error sentinel from a null error.
func (t *TrialResult) UnmarshalJSON(data []byte) error {
	var in trialResultJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	t.Family = in.Family
	t.Failed = in.Failed
	if in.Error != nil {
		t.Error = *in.Error
	} else {
		t.Error = math.Inf(1)
	}
	return nil
}

// FitRun is the bookkeeping record of one committed fit.
type FitRun struct {
	ID         int64         `json:"id"`
	StrategyID string        `json:"strategy_id"`
	ConfigHash string        `json:"config_hash"`
	Family     FamilyTag     `json:"family"`
	Trials     []TrialResult `json:"trials,omitempty"`
	GroupCount int           `json:"group_count"`
	SkipCount  int           `json:"skip_count"`
	Duration   time.Duration `json:"duration"`
	CreatedAt  time.Time     `json:"created_at"`
}
