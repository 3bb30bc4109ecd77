package engine

import (
	"context"
	"math"

	"github.com/rs/zerolog"

	"github.com/wonny/horizon/backend/internal/contracts"
)

// Objective scores one candidate family; +Inf means the trial failed.
type Objective func(ctx context.Context, family contracts.FamilyTag) float64

// GridSearch is the categorical search driver: it evaluates every candidate
// exactly once (len(candidates) trials, no early stopping) and returns the
// minimizing choice with per-trial bookkeeping.
type GridSearch struct {
	log zerolog.Logger
}

// NewGridSearch 새 그리드 탐색 드라이버 생성
func NewGridSearch(log zerolog.Logger) *GridSearch {
	return &GridSearch{
		log: log.With().Str("component", "engine.search").Logger(),
	}
}

// Run evaluates all candidates and selects the one with minimum error.
// Ties break toward the earlier candidate. allFailed is true when every
// trial recorded the infinite-error sentinel.
func (s *GridSearch) Run(ctx context.Context, candidates []contracts.FamilyTag, objective Objective) (best contracts.FamilyTag, trials []contracts.TrialResult, allFailed bool) {
	trials = make([]contracts.TrialResult, 0, len(candidates))

	best = candidates[0]
	bestErr := math.Inf(1)
	allFailed = true

	for _, family := range candidates {
		s.log.Info().Str("family", string(family)).Msg("starting trial")

		trialErr := objective(ctx, family)
		failed := math.IsInf(trialErr, 1)
		trials = append(trials, contracts.TrialResult{
			Family: family,
			Error:  trialErr,
			Failed: failed,
		})

		s.log.Info().
			Str("family", string(family)).
			Float64("error", trialErr).
			Bool("failed", failed).
			Msg("trial completed")

		if !failed {
			allFailed = false
			if trialErr < bestErr {
				best = family
				bestErr = trialErr
			}
		}
	}

	return best, trials, allFailed
}

// smape is the symmetric mean absolute percentage error between the true
// and predicted series, over the shorter common length. Zero/zero terms
// contribute no error.
func smape(yTrue, yPred []float64) float64 {
	n := len(yTrue)
	if len(yPred) < n {
		n = len(yPred)
	}
	if n == 0 {
		return math.Inf(1)
	}

	sum := 0.0
	for i := 0; i < n; i++ {
		denom := math.Abs(yTrue[i]) + math.Abs(yPred[i])
		if denom == 0 {
			continue
		}
		sum += 2 * math.Abs(yTrue[i]-yPred[i]) / denom
	}
	return sum / float64(n)
}
