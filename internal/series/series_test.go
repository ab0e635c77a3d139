package series

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestDateRange(t *testing.T) {
	dates := DateRange(day("2024-02-27"), day("2024-03-02"))
	require.Len(t, dates, 5)
	assert.Equal(t, day("2024-02-29"), dates[2])
	assert.Equal(t, day("2024-03-02"), dates[4])

	assert.Nil(t, DateRange(day("2024-03-02"), day("2024-03-01")))
}

func TestDay_TruncatesToUTCMidnight(t *testing.T) {
	loc := time.FixedZone("JST", 9*60*60)
	in := time.Date(2024, 5, 10, 23, 30, 0, 0, loc)
	assert.Equal(t, time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC), Day(in))
}

func TestSeries_Validate(t *testing.T) {
	tests := []struct {
		name    string
		dates   []string
		wantErr error
	}{
		{name: "daily", dates: []string{"2024-01-01", "2024-01-02", "2024-01-03"}},
		{name: "empty", dates: nil, wantErr: ErrEmpty},
		{name: "duplicate", dates: []string{"2024-01-01", "2024-01-01"}, wantErr: ErrUnordered},
		{name: "descending", dates: []string{"2024-01-02", "2024-01-01"}, wantErr: ErrUnordered},
		{name: "gap", dates: []string{"2024-01-01", "2024-01-03"}, wantErr: ErrGap},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Series
			for _, d := range tt.dates {
				s = append(s, Observation{Date: day(d)})
			}
			err := s.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSeries_Continues(t *testing.T) {
	hist := Series{{Date: day("2024-01-01")}, {Date: day("2024-01-02")}}

	assert.NoError(t, hist.Continues(Series{{Date: day("2024-01-03")}}))
	assert.ErrorIs(t, hist.Continues(Series{{Date: day("2024-01-04")}}), ErrGap)
	assert.ErrorIs(t, hist.Continues(Series{{Date: day("2024-01-02")}}), ErrUnordered)
	assert.ErrorIs(t, Series{}.Continues(Series{{Date: day("2024-01-02")}}), ErrEmpty)
}

func TestSeries_TailAndDemands(t *testing.T) {
	s := Series{{Demand: 1}, {Demand: 2}, {Demand: 3}}
	assert.Equal(t, []float64{2, 3}, s.Tail(2).Demands())
	assert.Equal(t, []float64{1, 2, 3}, s.Tail(10).Demands())
	assert.Empty(t, s.Tail(0))

	last, err := s.Last()
	require.NoError(t, err)
	assert.Equal(t, 3.0, last.Demand)
}
