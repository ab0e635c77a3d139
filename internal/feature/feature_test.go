package feature

import (
	"net/url"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/demand-forecast/internal/series"
)

// knownSeries returns n daily observations starting 2024-01-01 whose demand
// is 100+i*i, so every lag and mean can be computed by hand.
func knownSeries(n int) series.Series {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := make(series.Series, n)
	for i := range s {
		s[i] = series.Observation{
			Date:        start.AddDate(0, 0, i),
			Demand:      float64(100 + i*i),
			Price:       10,
			Temperature: 20,
		}
	}
	return s
}

func TestNames_Order(t *testing.T) {
	want := []string{
		"price", "promotion", "holiday", "temperature",
		"day_of_week", "weekend", "month", "quarter",
		"is_month_start", "is_month_end", "lag_1", "lag_7",
		"rolling_mean_3", "rolling_mean_7",
	}
	assert.Equal(t, want, Names())
	assert.True(t, SameSchema(want))
	assert.False(t, SameSchema(want[:13]))

	swapped := Names()
	swapped[10], swapped[11] = swapped[11], swapped[10]
	assert.False(t, SameSchema(swapped))
}

func TestVector_ValuesRoundTrip(t *testing.T) {
	v := Vector{
		Price: 9.5, Promotion: 1, Holiday: 0, Temperature: 21.3,
		DayOfWeek: 6, Weekend: 1, Month: 12, Quarter: 4,
		IsMonthStart: 0, IsMonthEnd: 1,
		Lag1: 101, Lag7: 99, RollingMean3: 100.5, RollingMean7: 98.25,
	}
	vals := v.Values()
	require.Len(t, vals, Count)
	assert.Equal(t, v, fromValues(vals))
	assert.Equal(t, 21.3, vals[3])
	assert.Equal(t, 98.25, vals[13])
}

func TestCalendar(t *testing.T) {
	tests := []struct {
		date string
		want CalendarFeatures
	}{
		// Monday
		{"2024-01-01", CalendarFeatures{DayOfWeek: 0, Weekend: 0, Month: 1, Quarter: 1, IsMonthStart: 1, IsMonthEnd: 0}},
		// Leap day, Thursday
		{"2024-02-29", CalendarFeatures{DayOfWeek: 3, Weekend: 0, Month: 2, Quarter: 1, IsMonthStart: 0, IsMonthEnd: 1}},
		// Saturday
		{"2024-06-15", CalendarFeatures{DayOfWeek: 5, Weekend: 1, Month: 6, Quarter: 2, IsMonthStart: 0, IsMonthEnd: 0}},
		// Sunday, year end
		{"2023-12-31", CalendarFeatures{DayOfWeek: 6, Weekend: 1, Month: 12, Quarter: 4, IsMonthStart: 0, IsMonthEnd: 1}},
		{"2023-07-01", CalendarFeatures{DayOfWeek: 5, Weekend: 1, Month: 7, Quarter: 3, IsMonthStart: 1, IsMonthEnd: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			d, err := time.Parse(time.DateOnly, tt.date)
			require.NoError(t, err)
			assert.Equal(t, tt.want, Calendar(d))
		})
	}
}

func TestLookback_InsufficientHistory(t *testing.T) {
	for n := 0; n < MinHistory; n++ {
		_, err := Lookback(make([]float64, n))
		assert.ErrorIs(t, err, ErrInsufficientHistory, "n=%d", n)
	}
	_, err := Lookback(make([]float64, MinHistory))
	assert.NoError(t, err)
}

func TestEnrich_LookbackCorrectness(t *testing.T) {
	s := knownSeries(20)
	rows := Enrich(s)
	require.Len(t, rows, 20)

	d := s.Demands()
	for i, r := range rows {
		if i < MinHistory {
			assert.False(t, r.Complete, "row %d should lack lookback", i)
			continue
		}
		require.True(t, r.Complete, "row %d", i)
		assert.Equal(t, d[i-1], r.Features.Lag1, "lag_1 row %d", i)
		assert.Equal(t, d[i-7], r.Features.Lag7, "lag_7 row %d", i)
		assert.InDelta(t, (d[i-3]+d[i-2]+d[i-1])/3, r.Features.RollingMean3, 1e-9, "rolling_mean_3 row %d", i)
		sum7 := 0.0
		for j := i - 7; j < i; j++ {
			sum7 += d[j]
		}
		assert.InDelta(t, sum7/7, r.Features.RollingMean7, 1e-9, "rolling_mean_7 row %d", i)
	}
}

func TestEnrich_Deterministic(t *testing.T) {
	s := knownSeries(30)
	first := Enrich(s)
	second := Enrich(s)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Enrich is not deterministic (-first +second):\n%s", diff)
	}
}

func TestEnrich_NoFutureLeak(t *testing.T) {
	s := knownSeries(20)
	base := Enrich(s)

	for i := MinHistory; i < len(s); i++ {
		mutated := s.Clone()
		for j := i; j < len(mutated); j++ {
			mutated[j].Demand = -1e6
		}
		got := Enrich(mutated)[i].Features
		assert.Equal(t, base[i].Features, got, "row %d read demand at or after itself", i)
	}
}

func TestBuildTrainingSet_DropsIncompleteRows(t *testing.T) {
	s := knownSeries(20)
	ts := BuildTrainingSet(s)

	require.Equal(t, 20-MinHistory, ts.Len())
	require.Len(t, ts.X, ts.Len())
	require.Len(t, ts.Rows, ts.Len())
	assert.Equal(t, s[MinHistory].Date, ts.Rows[0].Date)
	assert.Equal(t, s[MinHistory].Demand, ts.Y[0])
	assert.Equal(t, s[MinHistory-1].Demand, ts.X[0].Lag1)

	assert.Zero(t, BuildTrainingSet(knownSeries(MinHistory)).Len())
}

func TestParseVector(t *testing.T) {
	valid := url.Values{
		"price":          {"9.99"},
		"promotion":      {"1"},
		"holiday":        {"0"},
		"temperature":    {" 23.5 "},
		"day_of_week":    {"4"},
		"weekend":        {"0"},
		"month":          {"7"},
		"quarter":        {"3"},
		"is_month_start": {"0"},
		"is_month_end":   {"0"},
		"lag_1":          {"110"},
		"lag_7":          {"95.5"},
		"rolling_mean_3": {"104.3"},
		"rolling_mean_7": {"101"},
	}

	t.Run("valid", func(t *testing.T) {
		v, err := ParseVector(valid)
		require.NoError(t, err)
		assert.Equal(t, Vector{
			Price: 9.99, Promotion: 1, Temperature: 23.5, DayOfWeek: 4,
			Month: 7, Quarter: 3, Lag1: 110, Lag7: 95.5,
			RollingMean3: 104.3, RollingMean7: 101,
		}, v)
	})

	t.Run("integer field given a float", func(t *testing.T) {
		form := cloneValues(valid)
		form.Set("promotion", "1.0")
		_, err := ParseVector(form)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidInput)

		var ce *CoercionError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "promotion", ce.Field)
		assert.Equal(t, "1.0", ce.Value)
	})

	t.Run("float field not numeric", func(t *testing.T) {
		form := cloneValues(valid)
		form.Set("price", "cheap")
		_, err := ParseVector(form)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("missing field", func(t *testing.T) {
		form := cloneValues(valid)
		form.Del("rolling_mean_7")
		_, err := ParseVector(form)
		var ce *CoercionError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "rolling_mean_7", ce.Field)
		assert.Contains(t, err.Error(), "required")
	})
}

func cloneValues(v url.Values) url.Values {
	out := url.Values{}
	for k, vs := range v {
		out[k] = append([]string(nil), vs...)
	}
	return out
}
