package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lox/weatherdash/internal/dashboard"
	"github.com/lox/weatherdash/internal/models"
	"github.com/lox/weatherdash/internal/store"
)

// HistoryReader is the read side of the lookup history.
type HistoryReader interface {
	RecentLookups(limit int) ([]models.LookupRecord, error)
	PopularCities(since time.Time, limit int) ([]store.CityCount, error)
}

type Server struct {
	dash    *dashboard.Dashboard
	history HistoryReader
	port    string
}

func NewServer(dash *dashboard.Dashboard, history HistoryReader, port string) *Server {
	return &Server{
		dash:    dash,
		history: history,
		port:    port,
	}
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/weather", s.handleWeather)
		r.Get("/favorites", s.handleListFavorites)
		r.Post("/favorites", s.handleAddFavorite)
		r.Delete("/favorites/{city}", s.handleRemoveFavorite)
		r.Get("/history", s.handleHistory)
		r.Get("/history/popular", s.handlePopular)
	})
	return r
}

func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:    ":" + s.port,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	log.Printf("api: listening on :%s", s.port)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthStatus{
		Status:    "ok",
		Favorites: len(s.dash.Favorites()),
	})
}
