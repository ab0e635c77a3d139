// Package model defines the regression contract the forecaster relies on and
// provides the gradient-boosted tree model that fulfils it.
package model

import (
	"context"
	"errors"

	"github.com/your-org/demand-forecast/internal/feature"
)

var (
	// ErrModelUnavailable is returned when no trained model can be used,
	// either because none has been published yet or the artifact cannot be read.
	ErrModelUnavailable = errors.New("model unavailable")
	// ErrSchemaMismatch is returned when a stored model was trained on a
	// different feature list than feature.Names.
	ErrSchemaMismatch = errors.New("model feature schema mismatch")
	// ErrNotFitted is returned by Predict before Fit succeeded.
	ErrNotFitted = errors.New("model is not fitted")
	// ErrEmptyTrainingSet is returned by Fit when there are no rows.
	ErrEmptyTrainingSet = errors.New("empty training set")
)

// Predictor maps one feature vector to a demand estimate.
type Predictor interface {
	Predict(ctx context.Context, v feature.Vector) (float64, error)
}

// Regressor is a Predictor that can be trained.
type Regressor interface {
	Predictor
	// Fit trains the model. X and y must have the same length.
	Fit(ctx context.Context, X []feature.Vector, y []float64) error
	// Version identifies the trained state; it changes on every Fit.
	Version() string
}

// PredictorFunc adapts a function to the Predictor interface.
type PredictorFunc func(ctx context.Context, v feature.Vector) (float64, error)

// Predict calls f(ctx, v).
func (f PredictorFunc) Predict(ctx context.Context, v feature.Vector) (float64, error) {
	return f(ctx, v)
}
