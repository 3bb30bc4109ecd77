package engineconfig

import (
	"os"
	"path/filepath"
	"testing"
)

const validYAML = `meta:
  strategy_id: demand-daily
  version: "1.0"

engine:
  target_column: sales
  horizon: 3
  group_by: [region, sku]
  window: 10
  use_decomposition: true

data:
  dataset: retail_daily
  train_pct: 0.8
  dev_pct: 0.1
  test_pct: 0.1
`

func writeStrategy(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "strategy.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	cfg, raw, err := Load(writeStrategy(t, validYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(raw) == 0 {
		t.Error("raw yaml bytes must be returned for the snapshot")
	}
	if cfg.Meta.StrategyID != "demand-daily" {
		t.Errorf("strategy_id = %q", cfg.Meta.StrategyID)
	}

	ec := cfg.EngineConfig()
	if ec.TargetColumn != "sales" || ec.Horizon != 3 || ec.Window != 10 {
		t.Errorf("engine config conversion: %+v", ec)
	}
	if len(ec.GroupBy) != 2 || ec.GroupBy[0] != "region" {
		t.Errorf("group_by: %v", ec.GroupBy)
	}
	// 생략된 불리언 키는 엔진 기본값(켜짐)을 유지해야 함
	if !ec.AutoSize || !ec.HyperparamSearch {
		t.Errorf("omitted booleans lost engine defaults: %+v", ec)
	}
	if !ec.UseDecomposition {
		t.Error("use_decomposition not carried over")
	}
}

func TestLoadRejectsUnknownField(t *testing.T) {
	bad := validYAML + "\nunknown_section:\n  oops: 1\n"
	if _, _, err := Load(writeStrategy(t, bad)); err == nil {
		t.Fatal("unknown field must fail the load")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestHashDeterministic(t *testing.T) {
	cfg, _, err := Load(writeStrategy(t, validYAML))
	if err != nil {
		t.Fatal(err)
	}

	h1, err := Hash(cfg)
	if err != nil {
		t.Fatal(err)
	}
	h2, _ := Hash(cfg)

	if h1 != h2 {
		t.Errorf("hash not deterministic: %s vs %s", h1, h2)
	}
	if len(h1) != 64 {
		t.Errorf("expected sha256 hex length 64, got %d", len(h1))
	}

	// 설정이 바뀌면 해시도 바뀐다
	cfg.Engine.Horizon = 4
	h3, _ := Hash(cfg)
	if h3 == h1 {
		t.Error("hash must change with the config")
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Meta:   Meta{StrategyID: "s1"},
			Engine: Engine{TargetColumn: "y", Horizon: 3},
			Data:   Data{Dataset: "d1", TrainPct: 0.8, DevPct: 0.1, TestPct: 0.1},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"missing strategy id", func(c *Config) { c.Meta.StrategyID = "" }, "meta.strategy_id"},
		{"missing target", func(c *Config) { c.Engine.TargetColumn = "" }, "engine.target_column"},
		{"zero horizon", func(c *Config) { c.Engine.Horizon = 0 }, "engine.horizon"},
		{"negative window", func(c *Config) { c.Engine.Window = -1 }, "engine.window"},
		{"empty group column", func(c *Config) { c.Engine.GroupBy = []string{""} }, "engine.group_by[0]"},
		{"unknown family", func(c *Config) { c.Engine.ModelFamily = "prophet" }, "engine.model_family"},
		{"unknown candidate", func(c *Config) { c.Engine.Candidates = []string{"naive", "lstm"} }, "engine.candidates[1]"},
		{"missing dataset", func(c *Config) { c.Data.Dataset = "" }, "data.dataset"},
		{"bad split sum", func(c *Config) { c.Data.TestPct = 0.3 }, "data"},
	}

	if err := Validate(base()); err != nil {
		t.Fatalf("base config must be valid: %v", err)
	}

	for _, tc := range tests {
		cfg := base()
		tc.mutate(cfg)

		err := Validate(cfg)
		if err == nil {
			t.Errorf("%s: expected error", tc.name)
			continue
		}
		ve, ok := err.(ValidationError)
		if !ok {
			t.Errorf("%s: expected ValidationError, got %T", tc.name, err)
			continue
		}
		if ve.Field != tc.field {
			t.Errorf("%s: field = %q, want %q", tc.name, ve.Field, tc.field)
		}
	}
}

func TestNewFitSnapshot(t *testing.T) {
	cfg, raw, err := Load(writeStrategy(t, validYAML))
	if err != nil {
		t.Fatal(err)
	}

	snap, err := NewFitSnapshot(cfg, raw)
	if err != nil {
		t.Fatal(err)
	}
	if snap.StrategyID != "demand-daily" || snap.ConfigYAML != string(raw) {
		t.Errorf("snapshot: %+v", snap)
	}
	if snap.CreatedAt.IsZero() {
		t.Error("created_at must be set")
	}
}
