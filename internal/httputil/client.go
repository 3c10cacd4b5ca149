package httputil

import (
	"context"
	"net/http"
	"time"
)

const (
	DefaultTimeout = 30 * time.Second
	UserAgent      = "WeatherDash/1.0"
)

// NewClient returns an HTTP client with standard timeout configuration.
func NewClient() *http.Client {
	return &http.Client{
		Timeout: DefaultTimeout,
	}
}

// NewGetRequest builds a GET request carrying the dashboard User-Agent.
func NewGetRequest(ctx context.Context, url string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "application/json")
	return req, nil
}
