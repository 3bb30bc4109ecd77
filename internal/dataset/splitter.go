package dataset

import (
	"fmt"
	"math"

	"github.com/wonny/horizon/backend/internal/contracts"
)

// SplitConfig 분할 비율 설정
type SplitConfig struct {
	TrainPct float64
	DevPct   float64
	TestPct  float64
}

// DefaultSplitConfig returns the standard 80/10/10 split.
func DefaultSplitConfig() SplitConfig {
	return SplitConfig{TrainPct: 0.8, DevPct: 0.1, TestPct: 0.1}
}

// Validate checks that the percentages sum to one. A bad split is a
// configuration error: fatal, raised before any split happens.
func (c SplitConfig) Validate() error {
	sum := c.TrainPct + c.DevPct + c.TestPct
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("split percentages must sum to 1, got %.4f", sum)
	}
	if c.TrainPct <= 0 {
		return fmt.Errorf("train percentage must be positive")
	}
	return nil
}

// Split partitions rows into train/dev/test slices. Rows are sorted by the
// order-by value and split per group, so each group contributes its oldest
// observations to train and its newest to test. The concatenated outputs
// remain sorted by order within each group.
func Split(rows []contracts.Row, groupBy []string, cfg SplitConfig) (train, dev, test []contracts.Row, err error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, err
	}

	sorted := SortByOrder(rows)
	keys, groups := Partition(sorted, groupBy)

	for _, key := range keys {
		series := groups[key]
		n := len(series)

		trainEnd := int(math.Round(float64(n) * cfg.TrainPct))
		devEnd := trainEnd + int(math.Round(float64(n)*cfg.DevPct))
		if trainEnd > n {
			trainEnd = n
		}
		if devEnd > n {
			devEnd = n
		}

		train = append(train, series[:trainEnd]...)
		dev = append(dev, series[trainEnd:devEnd]...)
		test = append(test, series[devEnd:]...)
	}

	return train, dev, test, nil
}
