package model

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/your-org/demand-forecast/internal/feature"
)

// Params are the boosting hyper-parameters.
type Params struct {
	NEstimators    int     `json:"n_estimators" yaml:"n_estimators"`
	LearningRate   float64 `json:"learning_rate" yaml:"learning_rate"`
	MaxDepth       int     `json:"max_depth" yaml:"max_depth"`
	MinSamplesLeaf int     `json:"min_samples_leaf" yaml:"min_samples_leaf"`
	Lambda         float64 `json:"lambda" yaml:"lambda"`
}

// DefaultParams mirror the usual xgboost regressor defaults.
func DefaultParams() Params {
	return Params{
		NEstimators:    100,
		LearningRate:   0.3,
		MaxDepth:       6,
		MinSamplesLeaf: 1,
		Lambda:         1,
	}
}

// Validate rejects parameters Fit cannot work with.
func (p Params) Validate() error {
	switch {
	case p.NEstimators <= 0:
		return fmt.Errorf("n_estimators must be positive, got %d", p.NEstimators)
	case p.LearningRate <= 0 || p.LearningRate > 1:
		return fmt.Errorf("learning_rate must be in (0, 1], got %g", p.LearningRate)
	case p.MaxDepth <= 0:
		return fmt.Errorf("max_depth must be positive, got %d", p.MaxDepth)
	case p.MinSamplesLeaf <= 0:
		return fmt.Errorf("min_samples_leaf must be positive, got %d", p.MinSamplesLeaf)
	case p.Lambda < 0:
		return fmt.Errorf("lambda must not be negative, got %g", p.Lambda)
	}
	return nil
}

// GradientBoosting is a squared-error gradient-boosted regression tree
// ensemble. A fitted model is read-only and safe for concurrent Predict calls;
// Fit must not run concurrently with anything else on the same value.
type GradientBoosting struct {
	params    Params
	version   string
	baseScore float64
	trees     []*node
	trainedAt time.Time
}

// NewGradientBoosting creates an unfitted model.
func NewGradientBoosting(p Params) *GradientBoosting {
	return &GradientBoosting{params: p}
}

// Params returns the hyper-parameters.
func (m *GradientBoosting) Params() Params {
	return m.params
}

// Version returns the identifier assigned by the last successful Fit.
func (m *GradientBoosting) Version() string {
	return m.version
}

// TrainedAt returns when the last successful Fit finished.
func (m *GradientBoosting) TrainedAt() time.Time {
	return m.trainedAt
}

// Trees returns the number of boosting rounds in the ensemble.
func (m *GradientBoosting) Trees() int {
	return len(m.trees)
}

// Fit trains the ensemble from scratch.
func (m *GradientBoosting) Fit(ctx context.Context, X []feature.Vector, y []float64) error {
	if err := m.params.Validate(); err != nil {
		return fmt.Errorf("invalid params: %w", err)
	}
	if len(X) == 0 {
		return ErrEmptyTrainingSet
	}
	if len(X) != len(y) {
		return fmt.Errorf("feature rows (%d) and targets (%d) differ in length", len(X), len(y))
	}

	n := len(X)
	cols := make([][]float64, feature.Count)
	for f := range cols {
		cols[f] = make([]float64, n)
	}
	for i, v := range X {
		for f, val := range v.Values() {
			cols[f][i] = val
		}
	}

	// Every tree starts from the full sample set sorted once per feature.
	sorted := make([][]int, feature.Count)
	scratch := make([]float64, n)
	for f := range sorted {
		copy(scratch, cols[f])
		sorted[f] = make([]int, n)
		floats.Argsort(scratch, sorted[f])
	}

	base := stat.Mean(y, nil)
	pred := make([]float64, n)
	for i := range pred {
		pred[i] = base
	}
	residual := make([]float64, n)
	row := make([]float64, feature.Count)

	b := &treeBuilder{cols: cols, residual: residual, params: m.params, side: make([]bool, n)}
	trees := make([]*node, 0, m.params.NEstimators)
	for round := 0; round < m.params.NEstimators; round++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("fit interrupted at round %d: %w", round, err)
		}
		floats.SubTo(residual, y, pred)
		tree := b.build(sorted, 0)
		trees = append(trees, tree)
		for i := range pred {
			for f := range row {
				row[f] = cols[f][i]
			}
			pred[i] += tree.eval(row)
		}
	}

	m.baseScore = base
	m.trees = trees
	m.version = fmt.Sprintf("model-%s", uuid.New().String())
	m.trainedAt = time.Now().UTC()
	return nil
}

// Predict returns the ensemble estimate for v.
func (m *GradientBoosting) Predict(ctx context.Context, v feature.Vector) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if len(m.trees) == 0 {
		return 0, ErrNotFitted
	}
	x := v.Values()
	out := m.baseScore
	for _, t := range m.trees {
		out += t.eval(x)
	}
	return out, nil
}
