package contracts

import "context"

// FamilyTag 모델 패밀리 식별자
type FamilyTag string

const (
	// FamilyNaive repeats the last observed value.
	FamilyNaive FamilyTag = "naive"
	// FamilyCroston handles intermittent demand series.
	FamilyCroston FamilyTag = "croston"
	// FamilyTheta is simple exponential smoothing with drift.
	FamilyTheta FamilyTag = "theta"
	// FamilySeasonalTrend decomposes into seasonal means plus a linear trend.
	FamilySeasonalTrend FamilyTag = "seasonal_trend"
	// FamilyPolyTrend fits a low-degree polynomial trend.
	FamilyPolyTrend FamilyTag = "poly_trend"
	// FamilyAutoARIMA searches a small ARIMA order grid by AICc. It is the
	// designated fallback when a tag does not resolve.
	FamilyAutoARIMA FamilyTag = "auto_arima"
)

// DefaultCandidates 하이퍼파라미터 탐색 기본 후보 목록
// 순서가 곧 동률일 때의 우선순위다
func DefaultCandidates() []FamilyTag {
	return []FamilyTag{
		FamilyCroston,
		FamilyTheta,
		FamilySeasonalTrend,
		FamilyPolyTrend,
	}
}

// ModelOptions are the keyword options passed to a model constructor.
type ModelOptions struct {
	// SeasonalPeriod is the seasonality hint (sp). Zero disables it, which
	// the fitter does when a decomposition stage already removes seasonality.
	SeasonalPeriod int
	// Seed makes any stochastic initialization reproducible. The committed
	// families draw nothing at predict time, so inference is deterministic.
	Seed int64
}

// Forecaster is the consumed forecasting-model capability. Offsets are
// relative to the training cutoff: offset 0 is the last training
// observation, 1..H the future steps, negative offsets reach back into the
// retained training window.
type Forecaster interface {
	// Fit trains on the series with the given relative horizon.
	Fit(ctx context.Context, series []float64, horizon int) error

	// Predict returns one value per requested offset, as a single coherent
	// trajectory. Offsets below MinOffset yield an OffsetUnavailableError.
	Predict(offsets []int) ([]float64, error)

	// Fitted reports whether the model fit successfully.
	Fitted() bool

	// RetainedLength is the number of training observations the model keeps.
	RetainedLength() int

	// DifferencingOrder is the amount of internal differencing applied;
	// it raises the minimum answerable offset.
	DifferencingOrder() int
}

// MinOffset is the most negative offset a fitted forecaster can answer:
// the start of its retained training window adjusted for differencing.
func MinOffset(f Forecaster) int {
	return -f.RetainedLength() + 1 + f.DifferencingOrder()
}
