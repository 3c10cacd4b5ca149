package main

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"
	kongdotenv "github.com/titusjaka/kong-dotenv-go"
	_ "modernc.org/sqlite"

	"github.com/lox/weatherdash/internal/dashboard"
	"github.com/lox/weatherdash/internal/favorites"
	"github.com/lox/weatherdash/internal/owm"
	"github.com/lox/weatherdash/internal/store"
)

type Globals struct {
	APIKey        string `name:"api-key" env:"OPENWEATHER_API_KEY" help:"OpenWeatherMap API key."`
	BaseURL       string `name:"base-url" env:"OPENWEATHER_BASE_URL" default:"${owm_base_url}" help:"OpenWeatherMap API root."`
	FavoritesFile string `name:"favorites-file" env:"WEATHERDASH_FAVORITES" default:"${favorites_file}" type:"path" help:"Path to the favorites JSON file."`
	DB            string `name:"db" env:"WEATHERDASH_DB" default:"data/weatherdash.db" type:"path" help:"Path to the lookup history database."`
	NoHistory     bool   `name:"no-history" help:"Do not record lookups."`
	Timezone      string `name:"tz" env:"WEATHERDASH_TZ" help:"Timezone for forecast days (default: system local)."`
}

type CLI struct {
	Globals

	EnvFile kongdotenv.ENVFileConfig `kong:"optional,name=env-file,help='Path to .env file'"`

	Lookup    LookupCmd    `cmd:"" default:"withargs" help:"Show current weather and the 5-day forecast for a city."`
	Current   CurrentCmd   `cmd:"" help:"Show current weather for a city."`
	Forecast  ForecastCmd  `cmd:"" help:"Show the forecast for a city."`
	Favorites FavoritesCmd `cmd:"" help:"Manage favorite cities."`
	History   HistoryCmd   `cmd:"" help:"Show recent lookups."`
	Serve     ServeCmd     `cmd:"" help:"Run the dashboard HTTP API."`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("weatherdash"),
		kong.Description("Current weather, 5-day forecasts and favorite cities."),
		kong.UsageOnError(),
		kong.Vars{
			"owm_base_url":   owm.DefaultBaseURL,
			"favorites_file": favorites.DefaultPath,
		},
	)
	ctx.FatalIfErrorf(ctx.Run(&cli.Globals))
}

func (g *Globals) location() *time.Location {
	if g.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(g.Timezone)
	if err != nil {
		log.Printf("Warning: could not load timezone %q, using local: %v", g.Timezone, err)
		return time.Local
	}
	return loc
}

func (g *Globals) client() (*owm.Client, error) {
	if g.APIKey == "" {
		return nil, errors.New("OPENWEATHER_API_KEY environment variable (or --api-key) required")
	}
	return owm.NewClient(g.APIKey).WithBaseURL(g.BaseURL).WithLocation(g.location()), nil
}

func (g *Globals) openFavorites() *favorites.Store {
	return favorites.Open(g.FavoritesFile)
}

// openStore opens and migrates the history database. The returned close
// func is always safe to call.
func (g *Globals) openStore() (*store.Store, func(), error) {
	if dir := filepath.Dir(g.DB); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, func() {}, fmt.Errorf("create database dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", g.DB)
	if err != nil {
		return nil, func() {}, fmt.Errorf("open database: %w", err)
	}

	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")

	st := store.New(db, g.location())
	if err := st.Migrate(); err != nil {
		db.Close()
		return nil, func() {}, fmt.Errorf("migrate: %w", err)
	}
	return st, func() { db.Close() }, nil
}

// newDashboard wires the client, favorites and (optionally) history.
func (g *Globals) newDashboard() (*dashboard.Dashboard, *store.Store, func(), error) {
	client, err := g.client()
	if err != nil {
		return nil, nil, func() {}, err
	}
	dash := dashboard.New(client, g.openFavorites())

	if g.NoHistory {
		return dash, nil, func() {}, nil
	}

	st, closeFn, err := g.openStore()
	if err != nil {
		log.Printf("history disabled: %v", err)
		return dash, nil, func() {}, nil
	}
	return dash.WithHistory(st), st, closeFn, nil
}
