// Package forecast extends a demand history forward one day at a time,
// feeding every prediction back in as lookback for the following days.
package forecast

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/your-org/demand-forecast/internal/feature"
	"github.com/your-org/demand-forecast/internal/model"
	"github.com/your-org/demand-forecast/internal/series"
)

var (
	// ErrPredictionFailed matches every *StepError.
	ErrPredictionFailed = errors.New("prediction failed")
	// ErrInvalidHorizon is returned for a horizon that is not positive.
	ErrInvalidHorizon = errors.New("forecast horizon must be positive")
)

// StepError reports the forecast step whose prediction failed. No points are
// returned alongside it.
type StepError struct {
	Step int
	Date time.Time
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("forecast step %d (%s): %v", e.Step, e.Date.Format(time.DateOnly), e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

func (e *StepError) Is(target error) bool { return target == ErrPredictionFailed }

// Point is one forecast day.
type Point struct {
	Date     time.Time
	Demand   float64
	Features feature.Vector
}

// Extend predicts demand for every row of future, in order. history must be
// a valid daily series with at least feature.MinHistory rows and future must
// start the day after it ends. Lookback for step i reads historical demand and
// the predictions of steps before i, never step i itself or later.
func Extend(ctx context.Context, p model.Predictor, history, future series.Series) ([]Point, error) {
	if len(history) < feature.MinHistory {
		return nil, fmt.Errorf("%w: have %d rows, need %d", feature.ErrInsufficientHistory, len(history), feature.MinHistory)
	}
	if err := history.Validate(); err != nil {
		return nil, fmt.Errorf("invalid history: %w", err)
	}
	if len(future) == 0 {
		return nil, ErrInvalidHorizon
	}
	if err := history.Continues(future); err != nil {
		return nil, fmt.Errorf("invalid future rows: %w", err)
	}

	// One contiguous demand slice: truth first, predictions appended as they land.
	demand := make([]float64, len(history), len(history)+len(future))
	copy(demand, history.Demands())

	points := make([]Point, 0, len(future))
	for step, obs := range future {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		lags, err := feature.Lookback(demand)
		if err != nil {
			return nil, err
		}
		v := feature.Assemble(obs, lags)
		y, err := p.Predict(ctx, v)
		if err != nil {
			return nil, &StepError{Step: step, Date: obs.Date, Err: err}
		}
		demand = append(demand, y)
		points = append(points, Point{Date: obs.Date, Demand: y, Features: v})
	}
	return points, nil
}
