package feature

import (
	"github.com/your-org/demand-forecast/internal/series"
)

// Row is an observation together with its model inputs.
// Complete is false when the row lacks the lookback to define every feature.
type Row struct {
	series.Observation
	Features Vector
	Complete bool
}

// Assemble builds the inputs of one observation from its drivers, its date and
// the lookback features computed for it.
func Assemble(obs series.Observation, lags Lags) Vector {
	cal := Calendar(obs.Date)
	return Vector{
		Price:        obs.Price,
		Promotion:    obs.Promotion,
		Holiday:      obs.Holiday,
		Temperature:  obs.Temperature,
		DayOfWeek:    cal.DayOfWeek,
		Weekend:      cal.Weekend,
		Month:        cal.Month,
		Quarter:      cal.Quarter,
		IsMonthStart: cal.IsMonthStart,
		IsMonthEnd:   cal.IsMonthEnd,
		Lag1:         lags.Lag1,
		Lag7:         lags.Lag7,
		RollingMean3: lags.RollingMean3,
		RollingMean7: lags.RollingMean7,
	}
}

// Enrich computes the features of every row of s. s must already be sorted by
// date; lookback is taken by position.
func Enrich(s series.Series) []Row {
	demand := s.Demands()
	rows := make([]Row, len(s))
	for i, obs := range s {
		lags, err := Lookback(demand[:i])
		rows[i] = Row{
			Observation: obs,
			Features:    Assemble(obs, lags),
			Complete:    err == nil,
		}
	}
	return rows
}

// TrainingSet is the model input matrix and target for the rows of a series
// that have full lookback.
type TrainingSet struct {
	X    []Vector
	Y    []float64
	Rows series.Series
}

// Len returns the number of training rows.
func (t TrainingSet) Len() int {
	return len(t.Y)
}

// BuildTrainingSet enriches s and drops every incomplete row.
func BuildTrainingSet(s series.Series) TrainingSet {
	rows := Enrich(s)
	ts := TrainingSet{
		X:    make([]Vector, 0, len(rows)),
		Y:    make([]float64, 0, len(rows)),
		Rows: make(series.Series, 0, len(rows)),
	}
	for _, r := range rows {
		if !r.Complete {
			continue
		}
		ts.X = append(ts.X, r.Features)
		ts.Y = append(ts.Y, r.Demand)
		ts.Rows = append(ts.Rows, r.Observation)
	}
	return ts
}
