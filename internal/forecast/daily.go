package forecast

import (
	"github.com/lox/weatherdash/internal/models"
)

const (
	// MaxDays is the number of days shown in the forecast strip.
	MaxDays = 5

	// MiddayHour is the earliest hour a sample may represent its day,
	// except for the first day in the series.
	MiddayHour = 12

	dayKeyLayout = "2006-01-02"
)

// Daily picks one representative sample per calendar day from a
// chronological 3-hourly series, returning at most MaxDays entries.
//
// A day is represented by its first sample at or after MiddayHour. The
// first accepted entry is the exception: when nothing has been picked yet,
// whatever sample comes first is taken, so a series that starts mid-morning
// still shows today. Later days with no afternoon samples are skipped.
func Daily(entries []models.ForecastEntry) []models.DailyForecast {
	seen := make(map[string]bool)
	var days []models.DailyForecast

	for _, e := range entries {
		key := e.Time.Format(dayKeyLayout)
		if seen[key] || len(days) >= MaxDays {
			continue
		}
		if e.Time.Hour() >= MiddayHour || len(days) == 0 {
			days = append(days, models.DailyForecast{ForecastEntry: e, Date: key})
			seen[key] = true
		}
	}

	return days
}
