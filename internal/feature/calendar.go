package feature

import (
	"time"

	"github.com/your-org/demand-forecast/internal/series"
)

// CalendarFeatures are the inputs that depend only on the date.
type CalendarFeatures struct {
	DayOfWeek    int // Monday=0 ... Sunday=6
	Weekend      int
	Month        int
	Quarter      int
	IsMonthStart int
	IsMonthEnd   int
}

// Calendar derives the calendar features of a day.
func Calendar(date time.Time) CalendarFeatures {
	d := series.Day(date)
	dow := (int(d.Weekday()) + 6) % 7
	month := int(d.Month())
	return CalendarFeatures{
		DayOfWeek:    dow,
		Weekend:      boolToInt(dow == 5 || dow == 6),
		Month:        month,
		Quarter:      (month-1)/3 + 1,
		IsMonthStart: boolToInt(d.Day() == 1),
		IsMonthEnd:   boolToInt(d.AddDate(0, 0, 1).Month() != d.Month()),
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
