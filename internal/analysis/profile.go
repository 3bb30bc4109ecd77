package analysis

import (
	"github.com/rs/zerolog"

	"github.com/wonny/horizon/backend/internal/contracts"
	"github.com/wonny/horizon/backend/internal/dataset"
)

// maxSeasonLag bounds the ACF scan for seasonality candidates.
const maxSeasonLag = 60

// Profile 그룹별 시계열 분석 결과
// 샘플링 간격 추정치, 계절 주기 후보, 분해 전처리 결과를 담는다
type Profile struct {
	// Deltas is the estimated mean sampling interval per group, in order-by
	// units. The default-group entry is always present and covers all rows.
	Deltas map[contracts.GroupKey]float64

	// Periods is the auto-detected seasonal period candidate per group.
	Periods map[contracts.GroupKey]int

	// Decompositions holds the precomputed seasonal/trend decomposition per
	// group, when the series is long enough for its detected period.
	Decompositions map[contracts.GroupKey]*Decomposition
}

// Analyzer 시계열 분석기
type Analyzer struct {
	log zerolog.Logger
}

// NewAnalyzer 새 분석기 생성
func NewAnalyzer(log zerolog.Logger) *Analyzer {
	return &Analyzer{
		log: log.With().Str("component", "analysis").Logger(),
	}
}

// Analyze profiles the training rows: per-group sampling interval,
// seasonality candidate, and decomposition. Rows are cleaned the same way
// the fitter cleans them (sorted by order, null targets dropped) so that
// decomposition indices line up with the fitted series.
func (a *Analyzer) Analyze(rows []contracts.Row, groupBy []string) *Profile {
	profile := &Profile{
		Deltas:         make(map[contracts.GroupKey]float64),
		Periods:        make(map[contracts.GroupKey]int),
		Decompositions: make(map[contracts.GroupKey]*Decomposition),
	}

	sorted := dataset.SortByOrder(rows)

	// Default-group delta over the whole dataset, regardless of grouping
	profile.Deltas[contracts.DefaultGroup] = meanDelta(sorted)

	keys, groups := dataset.Partition(sorted, groupBy)
	for _, key := range keys {
		series := groups[key]
		profile.Deltas[key] = meanDelta(series)

		values := dataset.Targets(series)
		if len(values) < 3 {
			profile.Periods[key] = 1
			continue
		}

		period := DetectPeriod(values, maxSeasonLag)
		profile.Periods[key] = period

		if period > 1 {
			if decomp := FitDecomposition(values, period); decomp != nil {
				profile.Decompositions[key] = decomp
			}
		}

		a.log.Debug().
			Str("group", string(key)).
			Int("observations", len(values)).
			Int("period", period).
			Float64("delta", profile.Deltas[key]).
			Msg("group profiled")
	}

	return profile
}

// Delta returns the sampling-interval estimate for a group, falling back to
// the default-group estimate and finally to 1.
func (p *Profile) Delta(group contracts.GroupKey) float64 {
	if d, ok := p.Deltas[group]; ok && d > 0 {
		return d
	}
	if d, ok := p.Deltas[contracts.DefaultGroup]; ok && d > 0 {
		return d
	}
	return 1
}

// meanDelta 연속 관측치 간 평균 간격
func meanDelta(rows []contracts.Row) float64 {
	if len(rows) < 2 {
		return 1
	}

	sum := 0.0
	for i := 1; i < len(rows); i++ {
		sum += rows[i].Order - rows[i-1].Order
	}
	return sum / float64(len(rows)-1)
}
