package contracts

import (
	"context"
	"encoding/json"
	"math"
	"testing"
)

func TestKeyFor(t *testing.T) {
	tests := []struct {
		name    string
		row     Row
		groupBy []string
		want    GroupKey
	}{
		{"no grouping", Row{Labels: map[string]string{"region": "A"}}, nil, DefaultGroup},
		{"single column", Row{Labels: map[string]string{"region": "A"}}, []string{"region"}, "A"},
		{"two columns", Row{Labels: map[string]string{"region": "A", "sku": "x1"}}, []string{"region", "sku"}, "A|x1"},
		{"missing label", Row{Labels: map[string]string{"region": "A"}}, []string{"region", "sku"}, "A|"},
		{"nil labels", Row{}, []string{"region"}, ""},
	}

	for _, tc := range tests {
		if got := KeyFor(tc.row, tc.groupBy); got != tc.want {
			t.Errorf("%s: KeyFor = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestEngineConfigValidate(t *testing.T) {
	tests := []struct {
		name  string
		cfg   EngineConfig
		valid bool
	}{
		{"defaults", DefaultEngineConfig("sales", 3), true},
		{"missing target", EngineConfig{Horizon: 3, Window: 5}, false},
		{"zero horizon", EngineConfig{TargetColumn: "sales", Window: 5}, false},
		{"negative horizon", EngineConfig{TargetColumn: "sales", Horizon: -1, Window: 5}, false},
		{"zero window", EngineConfig{TargetColumn: "sales", Horizon: 3}, false},
		{"empty group column", EngineConfig{TargetColumn: "sales", Horizon: 3, Window: 5, GroupBy: []string{""}}, false},
	}

	for _, tc := range tests {
		err := tc.cfg.Validate()
		if tc.valid && err != nil {
			t.Errorf("%s: expected valid, got %v", tc.name, err)
		}
		if !tc.valid && err == nil {
			t.Errorf("%s: expected error, got nil", tc.name)
		}
	}
}

func TestFamilyCandidates(t *testing.T) {
	// 고정 패밀리 → 단일 후보
	pinned := EngineConfig{ModelFamily: FamilyTheta, Candidates: []FamilyTag{FamilyNaive}}
	if got := pinned.FamilyCandidates(); len(got) != 1 || got[0] != FamilyTheta {
		t.Errorf("pinned family: got %v", got)
	}

	custom := EngineConfig{Candidates: []FamilyTag{FamilyNaive, FamilyPolyTrend}}
	if got := custom.FamilyCandidates(); len(got) != 2 || got[0] != FamilyNaive {
		t.Errorf("custom candidates: got %v", got)
	}

	var def EngineConfig
	if got := def.FamilyCandidates(); len(got) != 4 || got[0] != FamilyCroston {
		t.Errorf("default candidates: got %v", got)
	}
}

// stubForecaster는 MinOffset 산술 검증용 최소 구현
type stubForecaster struct {
	retained int
	diff     int
}

func (s stubForecaster) Fit(ctx context.Context, series []float64, horizon int) error { return nil }
func (s stubForecaster) Predict(offsets []int) ([]float64, error)                     { return nil, nil }
func (s stubForecaster) Fitted() bool                                                 { return true }
func (s stubForecaster) RetainedLength() int                                          { return s.retained }
func (s stubForecaster) DifferencingOrder() int                                       { return s.diff }

func TestMinOffset(t *testing.T) {
	tests := []struct {
		retained int
		diff     int
		want     int
	}{
		{10, 0, -9},
		{10, 1, -8},
		{10, 2, -7},
		{1, 0, 0},
	}

	for _, tc := range tests {
		got := MinOffset(stubForecaster{retained: tc.retained, diff: tc.diff})
		if got != tc.want {
			t.Errorf("MinOffset(retained=%d, diff=%d) = %d, want %d", tc.retained, tc.diff, got, tc.want)
		}
	}
}

func TestTrialResultJSONInfinity(t *testing.T) {
	// 실패 트라이얼의 +Inf 에러는 null로 직렬화되어야 함
	failed := TrialResult{Family: FamilyTheta, Error: math.Inf(1), Failed: true}

	data, err := json.Marshal(failed)
	if err != nil {
		t.Fatalf("marshal failed trial: %v", err)
	}

	var back TrialResult
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Failed || !math.IsInf(back.Error, 1) {
		t.Errorf("round trip lost the failure sentinel: %+v", back)
	}

	ok := TrialResult{Family: FamilyCroston, Error: 0.42}
	data, err = json.Marshal(ok)
	if err != nil {
		t.Fatalf("marshal successful trial: %v", err)
	}
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Error != 0.42 || back.Failed {
		t.Errorf("round trip changed the trial: %+v", back)
	}
}

func TestIsOffsetUnavailable(t *testing.T) {
	err := &OffsetUnavailableError{Requested: -20, Min: -9}
	if !IsOffsetUnavailable(err) {
		t.Error("expected IsOffsetUnavailable to match")
	}
	if IsOffsetUnavailable(ErrNotFitted) {
		t.Error("ErrNotFitted must not match")
	}
}
