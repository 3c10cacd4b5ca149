package owm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const currentBody = `{
  "name": "Erbil",
  "main": {"temp": 31.4, "feels_like": 29.8, "humidity": 18, "pressure": 1008},
  "wind": {"speed": 4.1},
  "weather": [{"id": 800, "main": "Clear", "description": "clear sky", "icon": "01d"}],
  "sys": {"country": "IQ", "sunrise": 1717900000, "sunset": 1717951000}
}`

const forecastBody = `{
  "list": [
    {"dt": 1717902000, "main": {"temp": 25.0, "temp_min": 24.0, "temp_max": 26.0}, "weather": [{"description": "clear sky", "icon": "01d"}]},
    {"dt": 1717912800, "main": {"temp": 30.0, "temp_min": 29.0, "temp_max": 31.0}, "weather": [{"description": "few clouds", "icon": "02d"}]}
  ]
}`

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("test-key").WithBaseURL(srv.URL).WithLocation(time.UTC)
}

func TestFetchCurrent(t *testing.T) {
	var gotQuery map[string]string
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/weather" {
			t.Errorf("path = %q, want /weather", r.URL.Path)
		}
		q := r.URL.Query()
		gotQuery = map[string]string{"q": q.Get("q"), "units": q.Get("units"), "appid": q.Get("appid")}
		w.Write([]byte(currentBody))
	})

	cw, err := client.FetchCurrent(context.Background(), "Erbil")
	if err != nil {
		t.Fatalf("FetchCurrent: %v", err)
	}

	if gotQuery["q"] != "Erbil" || gotQuery["units"] != "metric" || gotQuery["appid"] != "test-key" {
		t.Errorf("query = %v", gotQuery)
	}
	if cw.City != "Erbil" || cw.Country != "IQ" {
		t.Errorf("city = %q/%q, want Erbil/IQ", cw.City, cw.Country)
	}
	if cw.Temp != 31.4 || cw.FeelsLike != 29.8 {
		t.Errorf("temp = %v feels %v", cw.Temp, cw.FeelsLike)
	}
	if cw.Humidity != 18 || cw.Pressure != 1008 || cw.WindSpeed != 4.1 {
		t.Errorf("humidity/pressure/wind = %d/%v/%v", cw.Humidity, cw.Pressure, cw.WindSpeed)
	}
	if cw.Condition != "01d" || cw.Description != "clear sky" {
		t.Errorf("condition = %q %q", cw.Condition, cw.Description)
	}
	if !cw.Sunrise.Equal(time.Unix(1717900000, 0)) || !cw.Sunset.Equal(time.Unix(1717951000, 0)) {
		t.Errorf("sunrise/sunset = %v/%v", cw.Sunrise, cw.Sunset)
	}
}

func TestFetchCurrent_OptionalFieldsDefault(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"name": "Mosul",
			"main": {"temp": 20, "pressure": 1012},
			"weather": [{"description": "mist", "icon": "50n"}],
			"sys": {"country": "IQ", "sunrise": 1, "sunset": 2}
		}`))
	})

	cw, err := client.FetchCurrent(context.Background(), "Mosul")
	if err != nil {
		t.Fatalf("FetchCurrent: %v", err)
	}
	if cw.FeelsLike != 0 || cw.Humidity != 0 || cw.WindSpeed != 0 {
		t.Errorf("optional fields = %v/%d/%v, want zero", cw.FeelsLike, cw.Humidity, cw.WindSpeed)
	}
}

func TestFetchCurrent_NotFound(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"cod":"404","message":"city not found"}`))
	})

	cw, err := client.FetchCurrent(context.Background(), "Atlantis")
	if cw != nil {
		t.Errorf("expected nil result, got %+v", cw)
	}
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want *StatusError", err)
	}
	if se.Status != http.StatusNotFound {
		t.Errorf("Status = %d, want 404", se.Status)
	}
	if !errors.Is(err, ErrLookupFailed) {
		t.Error("expected errors.Is(err, ErrLookupFailed)")
	}
	if Kind(err) != "status" {
		t.Errorf("Kind = %q, want status", Kind(err))
	}
}

func TestFetchCurrent_MissingRequiredField(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"no name", `{"main":{"temp":1,"pressure":1},"weather":[{"description":"x","icon":"01d"}],"sys":{"country":"IQ","sunrise":1,"sunset":2}}`, "name"},
		{"no temp", `{"name":"A","main":{"pressure":1},"weather":[{"description":"x","icon":"01d"}],"sys":{"country":"IQ","sunrise":1,"sunset":2}}`, "main.temp"},
		{"no pressure", `{"name":"A","main":{"temp":1},"weather":[{"description":"x","icon":"01d"}],"sys":{"country":"IQ","sunrise":1,"sunset":2}}`, "main.pressure"},
		{"no sys", `{"name":"A","main":{"temp":1,"pressure":1},"weather":[{"description":"x","icon":"01d"}]}`, "sys.country"},
		{"no sunset", `{"name":"A","main":{"temp":1,"pressure":1},"weather":[{"description":"x","icon":"01d"}],"sys":{"country":"IQ","sunrise":1}}`, "sys.sunset"},
		{"empty weather", `{"name":"A","main":{"temp":1,"pressure":1},"weather":[],"sys":{"country":"IQ","sunrise":1,"sunset":2}}`, "weather"},
		{"no icon", `{"name":"A","main":{"temp":1,"pressure":1},"weather":[{"description":"x"}],"sys":{"country":"IQ","sunrise":1,"sunset":2}}`, "weather.icon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			})
			cw, err := client.FetchCurrent(context.Background(), "A")
			if cw != nil {
				t.Errorf("expected nil result, got %+v", cw)
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("err = %v, want *ParseError", err)
			}
			if pe.Field != tt.field {
				t.Errorf("Field = %q, want %q", pe.Field, tt.field)
			}
		})
	}
}

func TestFetchCurrent_MalformedJSON(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"name": `))
	})

	_, err := client.FetchCurrent(context.Background(), "A")
	if Kind(err) != "parse" {
		t.Errorf("Kind = %q, want parse (err=%v)", Kind(err), err)
	}
}

func TestFetchCurrent_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := NewClient("k").WithBaseURL(url)
	_, err := client.FetchCurrent(context.Background(), "Duhok")

	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("err = %v, want *TransportError", err)
	}
	if !errors.Is(err, ErrLookupFailed) {
		t.Error("expected errors.Is(err, ErrLookupFailed)")
	}
}

func TestFetchForecast(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/forecast" {
			t.Errorf("path = %q, want /forecast", r.URL.Path)
		}
		w.Write([]byte(forecastBody))
	})

	entries, err := client.FetchForecast(context.Background(), "Erbil")
	if err != nil {
		t.Fatalf("FetchForecast: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	if !entries[0].Time.Before(entries[1].Time) {
		t.Error("entries reordered")
	}
	if entries[1].Temp != 30 || entries[1].TempMin != 29 || entries[1].TempMax != 31 {
		t.Errorf("entry[1] temps = %+v", entries[1])
	}
	if entries[1].Condition != "02d" || entries[1].Description != "few clouds" {
		t.Errorf("entry[1] condition = %q %q", entries[1].Condition, entries[1].Description)
	}
}

func TestFetchForecast_MissingField(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"list":[{"dt":1,"main":{"temp":1,"temp_max":2},"weather":[{"icon":"01d"}]}]}`))
	})

	entries, err := client.FetchForecast(context.Background(), "A")
	if entries != nil {
		t.Errorf("expected nil entries, got %d", len(entries))
	}
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want *ParseError", err)
	}
	if pe.Field != "list[0].main.temp_min" {
		t.Errorf("Field = %q", pe.Field)
	}
}

func TestFetchForecast_ServerError(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := client.FetchForecast(context.Background(), "A")
	var se *StatusError
	if !errors.As(err, &se) || se.Status != http.StatusInternalServerError {
		t.Fatalf("err = %v, want 500 StatusError", err)
	}
	if se.Body != "boom" {
		t.Errorf("Body = %q, want boom", se.Body)
	}
}
