package training

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/demand-forecast/internal/metrics"
	"github.com/your-org/demand-forecast/internal/model"
	"github.com/your-org/demand-forecast/internal/series"
	"github.com/your-org/demand-forecast/internal/synth"
)

var (
	testStart = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	testEnd   = time.Date(2023, 3, 31, 0, 0, 0, 0, time.UTC)
)

func fastParams() model.Params {
	return model.Params{NEstimators: 10, LearningRate: 0.3, MaxDepth: 3, MinSamplesLeaf: 1, Lambda: 1}
}

func newTestTrainer(t *testing.T, opts Options, store *model.Store, m *metrics.Metrics) *Trainer {
	t.Helper()
	if opts.Start.IsZero() {
		opts.Start = testStart
	}
	if opts.End.IsZero() {
		opts.End = testEnd
	}
	if opts.Params == (model.Params{}) {
		opts.Params = fastParams()
	}
	tr, err := NewTrainer(synth.New(synth.WithSeed(42)), store, opts, nil, m)
	require.NoError(t, err)
	return tr
}

func TestTrainer_BootstrapFitsAndSaves(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	store := model.NewStore()
	m := metrics.New(prometheus.NewRegistry())
	tr := newTestTrainer(t, Options{ModelPath: path, RetrainOnStart: true}, store, m)

	snap, err := tr.Bootstrap(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, snap.Version)
	assert.Len(t, snap.History, 90)
	assert.True(t, model.Exists(path))

	cur, err := store.Current()
	require.NoError(t, err)
	assert.Same(t, snap, cur)

	assert.Equal(t, 83.0, testutil.ToFloat64(m.TrainingRows))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TrainingRuns.WithLabelValues(SourceFit, metrics.OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ModelInfo.WithLabelValues(snap.Version)))
}

func TestTrainer_BootstrapLoadsArtifact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")

	first := newTestTrainer(t, Options{ModelPath: path, RetrainOnStart: true}, model.NewStore(), nil)
	trained, err := first.Bootstrap(context.Background())
	require.NoError(t, err)

	store := model.NewStore()
	second := newTestTrainer(t, Options{ModelPath: path, RetrainOnStart: false}, store, nil)
	loaded, err := second.Bootstrap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, trained.Version, loaded.Version)
	assert.True(t, trained.TrainedAt.Equal(loaded.TrainedAt))
}

func TestTrainer_BootstrapRetrainsOnStart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")

	first := newTestTrainer(t, Options{ModelPath: path, RetrainOnStart: true}, model.NewStore(), nil)
	a, err := first.Bootstrap(context.Background())
	require.NoError(t, err)

	second := newTestTrainer(t, Options{ModelPath: path, RetrainOnStart: true}, model.NewStore(), nil)
	b, err := second.Bootstrap(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, a.Version, b.Version)

	stored, err := model.Load(path)
	require.NoError(t, err)
	assert.Equal(t, b.Version, stored.Version())
}

func TestTrainer_BootstrapReplacesCorruptArtifact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o644))

	tr := newTestTrainer(t, Options{ModelPath: path}, model.NewStore(), nil)
	snap, err := tr.Bootstrap(context.Background())
	require.NoError(t, err)

	stored, err := model.Load(path)
	require.NoError(t, err)
	assert.Equal(t, snap.Version, stored.Version())
}

func TestTrainer_RetrainSwapsSnapshot(t *testing.T) {
	store := model.NewStore()
	tr := newTestTrainer(t, Options{RetrainOnStart: true}, store, nil)

	a, err := tr.Bootstrap(context.Background())
	require.NoError(t, err)
	b, err := tr.Retrain(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, a.Version, b.Version)
	cur, err := store.Current()
	require.NoError(t, err)
	assert.Same(t, b, cur)
	// The earlier snapshot is untouched.
	assert.Len(t, a.History, 90)
}

func TestTrainer_ShortHistory(t *testing.T) {
	tr := newTestTrainer(t, Options{End: testStart.AddDate(0, 0, 6)}, model.NewStore(), nil)
	_, err := tr.Bootstrap(context.Background())
	assert.ErrorIs(t, err, model.ErrEmptyTrainingSet)
}

type failingSource struct{}

func (failingSource) Historical(time.Time, time.Time) (series.Series, error) {
	return nil, errors.New("no data")
}

func TestTrainer_SourceError(t *testing.T) {
	tr, err := NewTrainer(failingSource{}, model.NewStore(), Options{Params: fastParams()}, nil, nil)
	require.NoError(t, err)
	_, err = tr.Retrain(context.Background())
	assert.ErrorContains(t, err, "no data")
}

func TestNewTrainer_Validation(t *testing.T) {
	_, err := NewTrainer(nil, model.NewStore(), Options{Params: fastParams()}, nil, nil)
	assert.Error(t, err)

	_, err = NewTrainer(synth.New(), model.NewStore(), Options{Params: model.Params{}}, nil, nil)
	assert.Error(t, err)
}

func TestTrainer_Run(t *testing.T) {
	store := model.NewStore()
	m := metrics.New(prometheus.NewRegistry())
	tr := newTestTrainer(t, Options{}, store, m)

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		tr.Run(ctx, 50*time.Millisecond)
	}()

	assert.Eventually(t, func() bool {
		return testutil.ToFloat64(m.TrainingRuns.WithLabelValues(SourceRetrain, metrics.OutcomeOK)) >= 2
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	wg.Wait()

	_, err := store.Current()
	assert.NoError(t, err)
}
