package api

import (
	"time"

	"github.com/lox/weatherdash/internal/dashboard"
	"github.com/lox/weatherdash/internal/forecast"
	"github.com/lox/weatherdash/internal/models"
)

// LookupView is the JSON shape returned for a city lookup.
type LookupView struct {
	ID          string      `json:"id"`
	Query       string      `json:"query"`
	RequestedAt time.Time   `json:"requested_at"`
	Current     CurrentView `json:"current"`
	Daily       []DailyView `json:"daily"`
	Favorite    bool        `json:"favorite"`
	Warning     string      `json:"warning,omitempty"`
}

type CurrentView struct {
	models.CurrentWeather
	Icon string `json:"icon"`
}

type DailyView struct {
	Date        string  `json:"date"`
	Weekday     string  `json:"weekday"`
	Temp        float64 `json:"temp"`
	TempMin     float64 `json:"temp_min"`
	TempMax     float64 `json:"temp_max"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
}

type HistoryView struct {
	ID          string    `json:"id"`
	City        string    `json:"city"`
	RequestedAt time.Time `json:"requested_at"`
	OK          bool      `json:"ok"`
	ErrorKind   string    `json:"error_kind,omitempty"`
	HTTPStatus  int64     `json:"http_status,omitempty"`
	Temp        *float64  `json:"temp,omitempty"`
	Description string    `json:"description,omitempty"`
}

type HealthStatus struct {
	Status    string `json:"status"`
	Favorites int    `json:"favorites"`
}

func newLookupView(l *dashboard.Lookup, favorite bool) LookupView {
	v := LookupView{
		ID:          l.ID,
		Query:       l.Query,
		RequestedAt: l.RequestedAt,
		Current: CurrentView{
			CurrentWeather: *l.Current,
			Icon:           forecast.Icon(l.Current.Condition),
		},
		Daily:    make([]DailyView, 0, len(l.Daily)),
		Favorite: favorite,
	}
	if l.ForecastErr != nil {
		v.Warning = "forecast unavailable"
	}
	for _, d := range l.Daily {
		v.Daily = append(v.Daily, DailyView{
			Date:        d.Date,
			Weekday:     d.Time.Format("Mon"),
			Temp:        d.Temp,
			TempMin:     d.TempMin,
			TempMax:     d.TempMax,
			Description: d.Description,
			Icon:        forecast.Icon(d.Condition),
		})
	}
	return v
}

func newHistoryView(rec models.LookupRecord) HistoryView {
	v := HistoryView{
		ID:          rec.ID,
		City:        rec.City,
		RequestedAt: rec.RequestedAt,
		OK:          rec.OK,
		ErrorKind:   rec.ErrorKind.String,
		HTTPStatus:  rec.HTTPStatus.Int64,
		Description: rec.Description.String,
	}
	if rec.Temp.Valid {
		t := rec.Temp.Float64
		v.Temp = &t
	}
	return v
}
