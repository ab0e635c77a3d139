// Package feature derives the model inputs from a daily demand series.
//
// The same Vector type is used to train the model, to run the recursive
// forecast and to answer single-point simulations, so the name, order and
// derivation of every input is fixed in one place.
package feature

// Count is the number of model inputs.
const Count = 14

var names = [Count]string{
	"price",
	"promotion",
	"holiday",
	"temperature",
	"day_of_week",
	"weekend",
	"month",
	"quarter",
	"is_month_start",
	"is_month_end",
	"lag_1",
	"lag_7",
	"rolling_mean_3",
	"rolling_mean_7",
}

// Names returns the ordered feature names.
func Names() []string {
	out := make([]string, Count)
	copy(out, names[:])
	return out
}

// Vector is one row of model inputs.
type Vector struct {
	Price        float64 `json:"price"`
	Promotion    int     `json:"promotion"`
	Holiday      int     `json:"holiday"`
	Temperature  float64 `json:"temperature"`
	DayOfWeek    int     `json:"day_of_week"`
	Weekend      int     `json:"weekend"`
	Month        int     `json:"month"`
	Quarter      int     `json:"quarter"`
	IsMonthStart int     `json:"is_month_start"`
	IsMonthEnd   int     `json:"is_month_end"`
	Lag1         float64 `json:"lag_1"`
	Lag7         float64 `json:"lag_7"`
	RollingMean3 float64 `json:"rolling_mean_3"`
	RollingMean7 float64 `json:"rolling_mean_7"`
}

// Values returns the inputs in Names order.
func (v Vector) Values() []float64 {
	return []float64{
		v.Price,
		float64(v.Promotion),
		float64(v.Holiday),
		v.Temperature,
		float64(v.DayOfWeek),
		float64(v.Weekend),
		float64(v.Month),
		float64(v.Quarter),
		float64(v.IsMonthStart),
		float64(v.IsMonthEnd),
		v.Lag1,
		v.Lag7,
		v.RollingMean3,
		v.RollingMean7,
	}
}

// fromValues is the inverse of Values. vals must have Count elements.
func fromValues(vals []float64) Vector {
	return Vector{
		Price:        vals[0],
		Promotion:    int(vals[1]),
		Holiday:      int(vals[2]),
		Temperature:  vals[3],
		DayOfWeek:    int(vals[4]),
		Weekend:      int(vals[5]),
		Month:        int(vals[6]),
		Quarter:      int(vals[7]),
		IsMonthStart: int(vals[8]),
		IsMonthEnd:   int(vals[9]),
		Lag1:         vals[10],
		Lag7:         vals[11],
		RollingMean3: vals[12],
		RollingMean7: vals[13],
	}
}

// SameSchema reports whether got lists exactly the feature names, in order.
func SameSchema(got []string) bool {
	if len(got) != Count {
		return false
	}
	for i, n := range got {
		if n != names[i] {
			return false
		}
	}
	return true
}
