// Package training owns the model lifecycle: generating history, fitting or
// loading a model, persisting it and publishing snapshots for serving.
package training

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/your-org/demand-forecast/internal/feature"
	"github.com/your-org/demand-forecast/internal/metrics"
	"github.com/your-org/demand-forecast/internal/model"
	"github.com/your-org/demand-forecast/internal/series"
)

// Training run sources, used as log fields and metric labels.
const (
	SourceLoad    = "load"
	SourceFit     = "fit"
	SourceRetrain = "retrain"
)

// HistorySource produces the daily history a model is trained on.
type HistorySource interface {
	Historical(start, end time.Time) (series.Series, error)
}

// Options configure a Trainer.
type Options struct {
	// Start is the first historical day.
	Start time.Time
	// End is the last historical day. Zero means today.
	End time.Time
	// ModelPath is where the artifact is written and read. Empty disables
	// persistence.
	ModelPath string
	// RetrainOnStart fits a fresh model in Bootstrap even when an artifact
	// exists.
	RetrainOnStart bool
	Params         model.Params
}

// Trainer fits models and publishes them to a Store.
type Trainer struct {
	source  HistorySource
	store   *model.Store
	opts    Options
	logger  *zap.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewTrainer creates a Trainer. logger and m may be nil.
func NewTrainer(source HistorySource, store *model.Store, opts Options, logger *zap.Logger, m *metrics.Metrics) (*Trainer, error) {
	if source == nil || store == nil {
		return nil, errors.New("trainer needs a history source and a store")
	}
	if err := opts.Params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid model params: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Trainer{
		source:  source,
		store:   store,
		opts:    opts,
		logger:  logger,
		metrics: m,
		now:     time.Now,
	}, nil
}

// Bootstrap establishes the first snapshot. It loads the stored artifact when
// RetrainOnStart is off and one exists, and fits a new model otherwise. An
// artifact that cannot be used is logged and replaced by a fresh fit.
func (t *Trainer) Bootstrap(ctx context.Context) (*model.Snapshot, error) {
	history, err := t.history()
	if err != nil {
		return nil, err
	}

	if !t.opts.RetrainOnStart && t.opts.ModelPath != "" && model.Exists(t.opts.ModelPath) {
		m, err := model.Load(t.opts.ModelPath)
		if err == nil {
			snap, err := t.publish(m, history, m.TrainedAt())
			if err != nil {
				return nil, err
			}
			t.metrics.ObserveTraining(SourceLoad, metrics.OutcomeOK, 0, 0)
			t.logger.Info("loaded model artifact",
				zap.String("path", t.opts.ModelPath),
				zap.String("model_version", m.Version()),
				zap.Int("history_rows", len(history)))
			return snap, nil
		}
		t.metrics.ObserveTraining(SourceLoad, metrics.OutcomeError, 0, 0)
		t.logger.Warn("model artifact unusable, fitting a new model",
			zap.String("path", t.opts.ModelPath),
			zap.Error(err))
	}

	return t.fit(ctx, SourceFit, history)
}

// Retrain regenerates history, fits a new model and swaps it in. Forecasts
// already running keep the snapshot they started with.
func (t *Trainer) Retrain(ctx context.Context) (*model.Snapshot, error) {
	history, err := t.history()
	if err != nil {
		return nil, err
	}
	return t.fit(ctx, SourceRetrain, history)
}

// Run retrains every interval until ctx is done. Failed runs are logged and
// the previous snapshot stays in service.
func (t *Trainer) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	t.logger.Info("starting retrain loop", zap.Duration("interval", interval))
	for {
		select {
		case <-ticker.C:
			if _, err := t.Retrain(ctx); err != nil {
				if ctx.Err() != nil {
					return
				}
				t.logger.Error("scheduled retrain failed", zap.Error(err))
			}
		case <-ctx.Done():
			t.logger.Info("stopping retrain loop")
			return
		}
	}
}

func (t *Trainer) history() (series.Series, error) {
	end := t.opts.End
	if end.IsZero() {
		end = t.now()
	}
	history, err := t.source.Historical(t.opts.Start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to generate history: %w", err)
	}
	return history, nil
}

func (t *Trainer) fit(ctx context.Context, source string, history series.Series) (*model.Snapshot, error) {
	ts := feature.BuildTrainingSet(history)
	if ts.Len() == 0 {
		t.metrics.ObserveTraining(source, metrics.OutcomeError, 0, 0)
		return nil, fmt.Errorf("%w: %d history rows, need more than %d", model.ErrEmptyTrainingSet, len(history), feature.MinHistory)
	}

	started := time.Now()
	m := model.NewGradientBoosting(t.opts.Params)
	if err := m.Fit(ctx, ts.X, ts.Y); err != nil {
		t.metrics.ObserveTraining(source, metrics.OutcomeError, 0, 0)
		return nil, fmt.Errorf("failed to fit model: %w", err)
	}
	elapsed := time.Since(started)

	score, err := model.Evaluate(ctx, m, ts.X, ts.Y)
	if err != nil {
		return nil, fmt.Errorf("failed to score model: %w", err)
	}

	if t.opts.ModelPath != "" {
		if err := m.Save(t.opts.ModelPath); err != nil {
			t.metrics.ObserveTraining(source, metrics.OutcomeError, 0, 0)
			return nil, fmt.Errorf("failed to save model: %w", err)
		}
	}

	snap, err := t.publish(m, history, m.TrainedAt())
	if err != nil {
		return nil, err
	}
	t.metrics.ObserveTraining(source, metrics.OutcomeOK, ts.Len(), elapsed)
	t.logger.Info("model trained",
		zap.String("source", source),
		zap.String("model_version", m.Version()),
		zap.Int("rows", ts.Len()),
		zap.Int("dropped_rows", len(history)-ts.Len()),
		zap.Float64("train_rmse", score.RMSE),
		zap.Float64("train_mae", score.MAE),
		zap.Duration("elapsed", elapsed))
	return snap, nil
}

func (t *Trainer) publish(m model.Regressor, history series.Series, trainedAt time.Time) (*model.Snapshot, error) {
	snap, err := model.NewSnapshot(m, history, trainedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to build snapshot: %w", err)
	}
	if prev := t.store.Publish(snap); prev != nil {
		t.logger.Debug("replaced model snapshot",
			zap.String("previous_version", prev.Version),
			zap.String("model_version", snap.Version))
	}
	t.metrics.SetModel(snap.Version)
	return snap, nil
}
