package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lox/weatherdash/internal/dashboard"
)

func (s *Server) handleWeather(w http.ResponseWriter, r *http.Request) {
	result, err := s.dash.Lookup(r.Context(), r.URL.Query().Get("city"))
	if errors.Is(err, dashboard.ErrEmptyCity) {
		writeError(w, http.StatusBadRequest, "query parameter 'city' is required")
		return
	}
	var le *dashboard.LookupError
	if errors.As(err, &le) {
		writeError(w, http.StatusBadGateway, le.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	favorite := slices.Contains(s.dash.Favorites(), result.Current.City)
	writeJSON(w, http.StatusOK, newLookupView(result, favorite))
}

func (s *Server) handleListFavorites(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.dash.Favorites())
}

type addFavoriteRequest struct {
	City string `json:"city"`
}

func (s *Server) handleAddFavorite(w http.ResponseWriter, r *http.Request) {
	var req addFavoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	added, err := s.dash.AddFavorite(req.City)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	status := http.StatusCreated
	if !added {
		status = http.StatusOK
	}
	writeJSON(w, status, map[string]any{
		"added":     added,
		"favorites": s.dash.Favorites(),
	})
}

func (s *Server) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	city, err := url.PathUnescape(chi.URLParam(r, "city"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid city")
		return
	}

	if !s.dash.RemoveFavorite(city) {
		writeError(w, http.StatusNotFound, "city is not a favorite")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"removed":   true,
		"favorites": s.dash.Favorites(),
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeJSON(w, http.StatusOK, []HistoryView{})
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if l, err := strconv.Atoi(v); err == nil && l > 0 && l <= 200 {
			limit = l
		}
	}

	records, err := s.history.RecentLookups(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	views := make([]HistoryView, 0, len(records))
	for _, rec := range records {
		views = append(views, newHistoryView(rec))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handlePopular(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeJSON(w, http.StatusOK, []any{})
		return
	}

	days := 7
	if v := r.URL.Query().Get("days"); v != "" {
		if d, err := strconv.Atoi(v); err == nil && d > 0 {
			days = d
		}
	}

	counts, err := s.history.PopularCities(time.Now().AddDate(0, 0, -days), 5)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, counts)
}
