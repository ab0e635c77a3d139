// Package series holds the daily demand observations the rest of the system works on.
package series

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrEmpty is returned when an operation needs at least one observation.
	ErrEmpty = errors.New("series is empty")
	// ErrUnordered is returned when dates are not strictly increasing.
	ErrUnordered = errors.New("series dates are not strictly increasing")
	// ErrGap is returned when two consecutive observations are more than one day apart.
	ErrGap = errors.New("series has a gap in its daily cadence")
)

// Observation is one calendar day of demand and its exogenous drivers.
type Observation struct {
	Date        time.Time `json:"date"`
	Demand      float64   `json:"demand"`
	Price       float64   `json:"price"`
	Promotion   int       `json:"promotion"`
	Holiday     int       `json:"holiday"`
	Temperature float64   `json:"temperature"`
}

// Series is an ordered sequence of daily observations.
type Series []Observation

// Day truncates t to midnight UTC of its calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NextDay returns the calendar day after t.
func NextDay(t time.Time) time.Time {
	return Day(t).AddDate(0, 0, 1)
}

// DateRange returns every calendar day from start through end inclusive.
// It returns nil when end is before start.
func DateRange(start, end time.Time) []time.Time {
	start, end = Day(start), Day(end)
	if end.Before(start) {
		return nil
	}
	days := int(end.Sub(start).Hours()/24) + 1
	dates := make([]time.Time, 0, days)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

// Len returns the number of observations.
func (s Series) Len() int {
	return len(s)
}

// Demands returns the demand column.
func (s Series) Demands() []float64 {
	out := make([]float64, len(s))
	for i, o := range s {
		out[i] = o.Demand
	}
	return out
}

// Last returns the final observation.
func (s Series) Last() (Observation, error) {
	if len(s) == 0 {
		return Observation{}, ErrEmpty
	}
	return s[len(s)-1], nil
}

// Tail returns at most the last n observations.
func (s Series) Tail(n int) Series {
	if n <= 0 {
		return Series{}
	}
	if n >= len(s) {
		return s
	}
	return s[len(s)-n:]
}

// Clone returns a copy that shares no backing array with s.
func (s Series) Clone() Series {
	out := make(Series, len(s))
	copy(out, s)
	return out
}

// Validate checks that dates are strictly increasing with exactly one day
// between neighbours.
func (s Series) Validate() error {
	if len(s) == 0 {
		return ErrEmpty
	}
	for i := 1; i < len(s); i++ {
		if err := checkStep(s[i-1].Date, s[i].Date); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
	}
	return nil
}

// Continues reports whether next starts the day after s ends and is itself a
// valid daily series.
func (s Series) Continues(next Series) error {
	if err := next.Validate(); err != nil {
		return err
	}
	last, err := s.Last()
	if err != nil {
		return err
	}
	if err := checkStep(last.Date, next[0].Date); err != nil {
		return fmt.Errorf("continuation: %w", err)
	}
	return nil
}

func checkStep(prev, cur time.Time) error {
	prev, cur = Day(prev), Day(cur)
	if !cur.After(prev) {
		return fmt.Errorf("%w: %s after %s", ErrUnordered, cur.Format(time.DateOnly), prev.Format(time.DateOnly))
	}
	if !cur.Equal(prev.AddDate(0, 0, 1)) {
		return fmt.Errorf("%w: %s to %s", ErrGap, prev.Format(time.DateOnly), cur.Format(time.DateOnly))
	}
	return nil
}
