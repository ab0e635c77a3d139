package feature

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// MinHistory is the number of prior days a row needs before every lookback
// feature is defined.
const MinHistory = 7

// ErrInsufficientHistory is returned when fewer than MinHistory prior demand
// values are available.
var ErrInsufficientHistory = errors.New("insufficient history for lag features")

// Lags holds the features computed from earlier demand values.
type Lags struct {
	Lag1         float64
	Lag7         float64
	RollingMean3 float64
	RollingMean7 float64
}

// Lookback computes the lag and rolling-mean features of the row that follows
// prior. prior is every demand value strictly before that row, oldest first;
// nothing at or after the row itself can be read.
func Lookback(prior []float64) (Lags, error) {
	n := len(prior)
	if n < MinHistory {
		return Lags{}, fmt.Errorf("%w: have %d prior days, need %d", ErrInsufficientHistory, n, MinHistory)
	}
	return Lags{
		Lag1:         prior[n-1],
		Lag7:         prior[n-7],
		RollingMean3: stat.Mean(prior[n-3:], nil),
		RollingMean7: stat.Mean(prior[n-7:], nil),
	}, nil
}
