package models

import (
	"database/sql"
	"time"
)

type CurrentWeather struct {
	City        string    `json:"city"`
	Country     string    `json:"country"`
	Temp        float64   `json:"temp"`
	FeelsLike   float64   `json:"feels_like"`
	Humidity    int       `json:"humidity"`
	Pressure    float64   `json:"pressure"`
	WindSpeed   float64   `json:"wind_speed"`
	Condition   string    `json:"condition"` // OWM icon code, e.g. "01d"
	Description string    `json:"description"`
	Sunrise     time.Time `json:"sunrise"`
	Sunset      time.Time `json:"sunset"`
}

// ForecastEntry is one 3-hourly sample from the forecast feed.
type ForecastEntry struct {
	Time        time.Time `json:"time"`
	Temp        float64   `json:"temp"`
	TempMin     float64   `json:"temp_min"`
	TempMax     float64   `json:"temp_max"`
	Condition   string    `json:"condition"`
	Description string    `json:"description"`
}

// DailyForecast is the sample chosen to represent a calendar day.
type DailyForecast struct {
	ForecastEntry
	Date string `json:"date"` // YYYY-MM-DD in local time
}

// LookupRecord is a row in the lookup history table.
type LookupRecord struct {
	ID          string
	City        string
	RequestedAt time.Time
	OK          bool
	ErrorKind   sql.NullString // "transport", "status", "parse"
	HTTPStatus  sql.NullInt64
	Temp        sql.NullFloat64
	Description sql.NullString
	CreatedAt   time.Time
}
