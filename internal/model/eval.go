package model

import (
	"context"
	"fmt"
	"math"

	"github.com/your-org/demand-forecast/internal/feature"
)

// Score summarises prediction error over a labelled set.
type Score struct {
	N    int
	RMSE float64
	MAE  float64
}

// Evaluate predicts every row of X and compares against y.
func Evaluate(ctx context.Context, p Predictor, X []feature.Vector, y []float64) (Score, error) {
	if len(X) != len(y) {
		return Score{}, fmt.Errorf("feature rows (%d) and targets (%d) differ in length", len(X), len(y))
	}
	if len(X) == 0 {
		return Score{}, ErrEmptyTrainingSet
	}
	var se, ae float64
	for i, v := range X {
		pred, err := p.Predict(ctx, v)
		if err != nil {
			return Score{}, fmt.Errorf("failed to predict row %d: %w", i, err)
		}
		d := pred - y[i]
		se += d * d
		ae += math.Abs(d)
	}
	n := float64(len(X))
	return Score{N: len(X), RMSE: math.Sqrt(se / n), MAE: ae / n}, nil
}
