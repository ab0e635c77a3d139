package model

import (
	"errors"
	"sync/atomic"
	"time"

	"github.com/your-org/demand-forecast/internal/series"
)

// Snapshot pairs a trained model with the history it was trained on. It is
// immutable once published; retraining publishes a new Snapshot.
type Snapshot struct {
	Version   string
	Model     Predictor
	History   series.Series
	TrainedAt time.Time
}

// NewSnapshot captures m and a private copy of history.
func NewSnapshot(m Regressor, history series.Series, trainedAt time.Time) (*Snapshot, error) {
	if m == nil {
		return nil, errors.New("snapshot needs a model")
	}
	if m.Version() == "" {
		return nil, ErrNotFitted
	}
	if err := history.Validate(); err != nil {
		return nil, err
	}
	return &Snapshot{
		Version:   m.Version(),
		Model:     m,
		History:   history.Clone(),
		TrainedAt: trainedAt,
	}, nil
}

// Store hands out the current Snapshot. Readers that called Current keep
// using their snapshot even if a newer one is published meanwhile.
type Store struct {
	cur atomic.Pointer[Snapshot]
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{}
}

// Current returns the latest published snapshot.
func (s *Store) Current() (*Snapshot, error) {
	snap := s.cur.Load()
	if snap == nil {
		return nil, ErrModelUnavailable
	}
	return snap, nil
}

// Publish makes snap the current snapshot and returns the one it replaced,
// which may be nil.
func (s *Store) Publish(snap *Snapshot) *Snapshot {
	return s.cur.Swap(snap)
}
