package dashboard

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lox/weatherdash/internal/favorites"
	"github.com/lox/weatherdash/internal/forecast"
	"github.com/lox/weatherdash/internal/metrics"
	"github.com/lox/weatherdash/internal/models"
	"github.com/lox/weatherdash/internal/owm"
)

var ErrEmptyCity = errors.New("city name is required")

// WeatherSource is the provider the dashboard reads from.
type WeatherSource interface {
	FetchCurrent(ctx context.Context, city string) (*models.CurrentWeather, error)
	FetchForecast(ctx context.Context, city string) ([]models.ForecastEntry, error)
}

// History records lookups. It is optional.
type History interface {
	RecordLookup(rec models.LookupRecord) error
}

// LookupError is what the user sees when current weather could not be
// retrieved. Transport, status and parse failures all collapse into it.
type LookupError struct {
	City string
	Err  error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("could not retrieve weather for %q", e.City)
}

func (e *LookupError) Unwrap() error { return e.Err }

// Lookup is the result of searching for one city.
type Lookup struct {
	ID          string                 `json:"id"`
	Query       string                 `json:"query"`
	RequestedAt time.Time              `json:"requested_at"`
	Current     *models.CurrentWeather `json:"current"`
	Daily       []models.DailyForecast `json:"daily"`

	// ForecastErr is set when current weather succeeded but the forecast
	// did not; the current conditions are still shown.
	ForecastErr error `json:"-"`
}

type Dashboard struct {
	weather   WeatherSource
	favorites *favorites.Store
	history   History
	now       func() time.Time
}

func New(weather WeatherSource, favs *favorites.Store) *Dashboard {
	return &Dashboard{
		weather:   weather,
		favorites: favs,
		now:       time.Now,
	}
}

// WithHistory enables recording lookups.
func (d *Dashboard) WithHistory(h History) *Dashboard {
	d.history = h
	return d
}

// Lookup fetches current weather for city and, only if that succeeds, the
// forecast reduced to one entry per day.
func (d *Dashboard) Lookup(ctx context.Context, city string) (*Lookup, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, ErrEmptyCity
	}

	result := &Lookup{
		ID:          uuid.NewString(),
		Query:       city,
		RequestedAt: d.now(),
	}

	current, err := d.weather.FetchCurrent(ctx, city)
	if err != nil {
		log.Printf("dashboard: current weather for %q: %v", city, err)
		metrics.LookupsTotal.WithLabelValues("failed").Inc()
		d.record(result, err)
		return nil, &LookupError{City: city, Err: err}
	}
	result.Current = current

	entries, err := d.weather.FetchForecast(ctx, city)
	if err != nil {
		log.Printf("dashboard: forecast for %q: %v", city, err)
		metrics.LookupsTotal.WithLabelValues("partial").Inc()
		result.ForecastErr = err
	} else {
		metrics.LookupsTotal.WithLabelValues("ok").Inc()
		result.Daily = forecast.Daily(entries)
	}

	d.record(result, nil)
	return result, nil
}

// Startup looks up the first favorite, if there is one.
func (d *Dashboard) Startup(ctx context.Context) (*Lookup, error) {
	favs := d.favorites.List()
	if len(favs) == 0 {
		return nil, nil
	}
	return d.Lookup(ctx, favs[0])
}

func (d *Dashboard) Favorites() []string {
	return d.favorites.List()
}

// AddFavorite adds city to the favorites. Persistence is best-effort: a
// failed write is logged and the in-memory list keeps the city.
func (d *Dashboard) AddFavorite(city string) (bool, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return false, ErrEmptyCity
	}
	added, err := d.favorites.Add(city)
	if err != nil {
		metrics.FavoritesSaveErrors.Inc()
		log.Printf("favorites: save after add %q: %v", city, err)
	}
	return added, nil
}

// RemoveFavorite removes city from the favorites, with the same
// best-effort persistence as AddFavorite.
func (d *Dashboard) RemoveFavorite(city string) bool {
	removed, err := d.favorites.Remove(strings.TrimSpace(city))
	if err != nil {
		metrics.FavoritesSaveErrors.Inc()
		log.Printf("favorites: save after remove %q: %v", city, err)
	}
	return removed
}

func (d *Dashboard) record(result *Lookup, err error) {
	if d.history == nil {
		return
	}

	rec := models.LookupRecord{
		ID:          result.ID,
		City:        result.Query,
		RequestedAt: result.RequestedAt,
		OK:          err == nil,
	}
	if result.Current != nil {
		rec.City = result.Current.City
		rec.Temp = sql.NullFloat64{Float64: result.Current.Temp, Valid: true}
		rec.Description = sql.NullString{String: result.Current.Description, Valid: true}
	}
	if err != nil {
		rec.ErrorKind = sql.NullString{String: owm.Kind(err), Valid: true}
		var se *owm.StatusError
		if errors.As(err, &se) {
			rec.HTTPStatus = sql.NullInt64{Int64: int64(se.Status), Valid: true}
		}
	}

	if err := d.history.RecordLookup(rec); err != nil {
		log.Printf("dashboard: record lookup: %v", err)
	}
}
