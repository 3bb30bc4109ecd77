package contracts

import (
	"errors"
	"fmt"
)

// ErrNotFitted predict 호출 시 모델이 미적합 상태
var ErrNotFitted = errors.New("forecaster is not fitted")

// ErrInsufficientData is returned when a series is shorter than the model's
// minimum history requirement.
var ErrInsufficientData = errors.New("insufficient observations to fit")

// OffsetUnavailableError is a data-availability error: the caller asked a
// forecaster for an offset below its minimum answerable bound. It is
// distinct from a numerical fit failure and from the unseen-group case,
// which is expected and handled by fallback forecasting.
type OffsetUnavailableError struct {
	Requested int
	Min       int
}

func (e *OffsetUnavailableError) Error() string {
	return fmt.Sprintf("offset %d below minimum answerable offset %d", e.Requested, e.Min)
}

// IsOffsetUnavailable reports whether err is an OffsetUnavailableError.
func IsOffsetUnavailable(err error) bool {
	var oue *OffsetUnavailableError
	return errors.As(err, &oue)
}
