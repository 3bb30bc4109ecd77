package engine

import "math"

// FreqUnit is a coarse calendar sampling-frequency label.
type FreqUnit string

const (
	FreqSecond  FreqUnit = "S"
	FreqMinute  FreqUnit = "T"
	FreqHour    FreqUnit = "H"
	FreqDay     FreqUnit = "D"
	FreqWeek    FreqUnit = "W"
	FreqMonth   FreqUnit = "M" // ≈ 4 weeks
	FreqQuarter FreqUnit = "Q" // ≈ 3 months
	FreqYear    FreqUnit = "Y" // ≈ 12 months
)

var freqSeconds = []struct {
	unit FreqUnit
	secs float64
}{
	{FreqSecond, 1},
	{FreqMinute, 60},
	{FreqHour, 60 * 60},
	{FreqDay, 60 * 60 * 24},
	{FreqWeek, 60 * 60 * 24 * 7},
	{FreqMonth, 60 * 60 * 24 * 7 * 4},
	{FreqQuarter, 60 * 60 * 24 * 7 * 4 * 3},
	{FreqYear, 60 * 60 * 24 * 7 * 4 * 12},
}

// EstimateFreq maps an average inter-observation delta in seconds to the
// calendar unit with the closest nominal duration. Total and deterministic.
func EstimateFreq(avgDeltaSeconds float64) FreqUnit {
	best := freqSeconds[0].unit
	bestDiff := math.Abs(freqSeconds[0].secs - avgDeltaSeconds)
	for _, c := range freqSeconds[1:] {
		if diff := math.Abs(c.secs - avgDeltaSeconds); diff < bestDiff {
			best = c.unit
			bestDiff = diff
		}
	}
	return best
}
