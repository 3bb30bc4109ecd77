package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// ACF calculates the autocorrelation function for lags 0..maxLag.
func ACF(values []float64, maxLag int) []float64 {
	n := len(values)
	if maxLag >= n {
		maxLag = n - 1
	}
	if maxLag < 0 {
		return nil
	}

	mean := stat.Mean(values, nil)
	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	if variance == 0 {
		return nil
	}

	acf := make([]float64, maxLag+1)
	for k := 0; k <= maxLag; k++ {
		sum := 0.0
		for i := k; i < n; i++ {
			sum += (values[i] - mean) * (values[i-k] - mean)
		}
		acf[k] = sum / variance
	}

	return acf
}

// DetectPeriod picks the seasonal period candidate of a series: the lag with
// the strongest autocorrelation beyond the 95% confidence bound. Returns 1
// when no lag is significant (i.e. no seasonality).
func DetectPeriod(values []float64, maxLag int) int {
	acf := ACF(values, maxLag)
	if acf == nil {
		return 1
	}

	confBound := 1.96 / math.Sqrt(float64(len(values)))

	best, bestVal := 1, confBound
	for lag := 2; lag < len(acf); lag++ {
		if acf[lag] > bestVal {
			best = lag
			bestVal = acf[lag]
		}
	}

	return best
}
