package owm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/lox/weatherdash/internal/httputil"
	"github.com/lox/weatherdash/internal/metrics"
	"github.com/lox/weatherdash/internal/models"
)

const (
	DefaultBaseURL = "https://api.openweathermap.org/data/2.5"
	Units          = "metric"

	endpointCurrent  = "weather"
	endpointForecast = "forecast"
)

// Client talks to the OpenWeatherMap current weather and 5-day/3-hour
// forecast endpoints. It does not retry or cache.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
	loc     *time.Location
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		client:  httputil.NewClient(),
		loc:     time.Local,
	}
}

// WithBaseURL points the client at a different API root (tests, proxies).
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

// WithLocation sets the zone used to interpret provider timestamps.
func (c *Client) WithLocation(loc *time.Location) *Client {
	if loc != nil {
		c.loc = loc
	}
	return c
}

type currentResponse struct {
	Name *string `json:"name"`
	Main *struct {
		Temp      *float64 `json:"temp"`
		FeelsLike *float64 `json:"feels_like"`
		Humidity  *int     `json:"humidity"`
		Pressure  *float64 `json:"pressure"`
	} `json:"main"`
	Wind *struct {
		Speed *float64 `json:"speed"`
	} `json:"wind"`
	Weather []weatherCondition `json:"weather"`
	Sys     *struct {
		Country *string `json:"country"`
		Sunrise *int64  `json:"sunrise"`
		Sunset  *int64  `json:"sunset"`
	} `json:"sys"`
}

type weatherCondition struct {
	ID          int     `json:"id"`
	Main        string  `json:"main"`
	Description *string `json:"description"`
	Icon        *string `json:"icon"`
}

type forecastResponse struct {
	List []forecastItem `json:"list"`
}

type forecastItem struct {
	Dt   *int64 `json:"dt"`
	Main *struct {
		Temp    *float64 `json:"temp"`
		TempMin *float64 `json:"temp_min"`
		TempMax *float64 `json:"temp_max"`
	} `json:"main"`
	Weather []weatherCondition `json:"weather"`
}

// FetchCurrent returns current conditions for city. A non-200 response is
// a *StatusError and never yields a partially populated result.
func (c *Client) FetchCurrent(ctx context.Context, city string) (*models.CurrentWeather, error) {
	body, err := c.get(ctx, endpointCurrent, city)
	if err != nil {
		return nil, err
	}

	var data currentResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, &ParseError{Endpoint: endpointCurrent, Err: err}
	}
	return c.parseCurrent(&data)
}

func (c *Client) parseCurrent(data *currentResponse) (*models.CurrentWeather, error) {
	missing := func(field string) error {
		return &ParseError{Endpoint: endpointCurrent, Field: field}
	}

	switch {
	case data.Name == nil:
		return nil, missing("name")
	case data.Main == nil || data.Main.Temp == nil:
		return nil, missing("main.temp")
	case data.Main.Pressure == nil:
		return nil, missing("main.pressure")
	case data.Sys == nil || data.Sys.Country == nil:
		return nil, missing("sys.country")
	case data.Sys.Sunrise == nil:
		return nil, missing("sys.sunrise")
	case data.Sys.Sunset == nil:
		return nil, missing("sys.sunset")
	case len(data.Weather) == 0:
		return nil, missing("weather")
	case data.Weather[0].Icon == nil:
		return nil, missing("weather.icon")
	case data.Weather[0].Description == nil:
		return nil, missing("weather.description")
	}

	cw := &models.CurrentWeather{
		City:        *data.Name,
		Country:     *data.Sys.Country,
		Temp:        *data.Main.Temp,
		Pressure:    *data.Main.Pressure,
		Condition:   *data.Weather[0].Icon,
		Description: *data.Weather[0].Description,
		Sunrise:     time.Unix(*data.Sys.Sunrise, 0).In(c.loc),
		Sunset:      time.Unix(*data.Sys.Sunset, 0).In(c.loc),
	}
	if data.Main.FeelsLike != nil {
		cw.FeelsLike = *data.Main.FeelsLike
	}
	if data.Main.Humidity != nil {
		cw.Humidity = *data.Main.Humidity
	}
	if data.Wind != nil && data.Wind.Speed != nil {
		cw.WindSpeed = *data.Wind.Speed
	}
	return cw, nil
}

// FetchForecast returns the 3-hourly forecast series in the order the
// provider delivered it.
func (c *Client) FetchForecast(ctx context.Context, city string) ([]models.ForecastEntry, error) {
	body, err := c.get(ctx, endpointForecast, city)
	if err != nil {
		return nil, err
	}

	var data forecastResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, &ParseError{Endpoint: endpointForecast, Err: err}
	}

	entries := make([]models.ForecastEntry, 0, len(data.List))
	for i, item := range data.List {
		entry, field := c.parseForecastItem(item)
		if field != "" {
			return nil, &ParseError{Endpoint: endpointForecast, Field: "list[" + strconv.Itoa(i) + "]." + field}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (c *Client) parseForecastItem(item forecastItem) (models.ForecastEntry, string) {
	switch {
	case item.Dt == nil:
		return models.ForecastEntry{}, "dt"
	case item.Main == nil || item.Main.Temp == nil:
		return models.ForecastEntry{}, "main.temp"
	case item.Main.TempMin == nil:
		return models.ForecastEntry{}, "main.temp_min"
	case item.Main.TempMax == nil:
		return models.ForecastEntry{}, "main.temp_max"
	case len(item.Weather) == 0:
		return models.ForecastEntry{}, "weather"
	}

	entry := models.ForecastEntry{
		Time:    time.Unix(*item.Dt, 0).In(c.loc),
		Temp:    *item.Main.Temp,
		TempMin: *item.Main.TempMin,
		TempMax: *item.Main.TempMax,
	}
	if w := item.Weather[0]; w.Icon != nil {
		entry.Condition = *w.Icon
	}
	if w := item.Weather[0]; w.Description != nil {
		entry.Description = *w.Description
	}
	return entry, ""
}

func (c *Client) get(ctx context.Context, endpoint, city string) ([]byte, error) {
	params := url.Values{}
	params.Set("q", city)
	params.Set("units", Units)
	params.Set("appid", c.apiKey)
	u := c.baseURL + "/" + endpoint + "?" + params.Encode()

	req, err := httputil.NewGetRequest(ctx, u)
	if err != nil {
		return nil, &TransportError{Endpoint: endpoint, Err: err}
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	metrics.OWMAPILatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.OWMAPICallsTotal.WithLabelValues(endpoint, "error").Inc()
		return nil, &TransportError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	metrics.OWMAPICallsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{Endpoint: endpoint, Status: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Endpoint: endpoint, Err: err}
	}
	return body, nil
}
