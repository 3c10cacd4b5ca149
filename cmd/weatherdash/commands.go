package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/lox/weatherdash/internal/api"
	"github.com/lox/weatherdash/internal/dashboard"
	"github.com/lox/weatherdash/internal/forecast"
	"github.com/lox/weatherdash/internal/models"
)

type LookupCmd struct {
	City string `arg:"" optional:"" help:"City to look up (default: first favorite)."`
}

func (c *LookupCmd) Run(g *Globals) error {
	dash, _, closeFn, err := g.newDashboard()
	if err != nil {
		return err
	}
	defer closeFn()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var result *dashboard.Lookup
	if c.City == "" {
		result, err = dash.Startup(ctx)
	} else {
		result, err = dash.Lookup(ctx, c.City)
	}
	if err != nil {
		return err
	}
	if result == nil {
		fmt.Println("No favorite cities yet. Pass a city name to look one up.")
		return nil
	}

	printCurrent(os.Stdout, result.Current, dash.Favorites())
	fmt.Println()
	if result.ForecastErr != nil {
		fmt.Println("Forecast unavailable.")
		return nil
	}
	printDaily(os.Stdout, result.Daily)
	return nil
}

type CurrentCmd struct {
	City string `arg:"" help:"City to look up."`
}

func (c *CurrentCmd) Run(g *Globals) error {
	client, err := g.client()
	if err != nil {
		return err
	}
	city := strings.TrimSpace(c.City)
	if city == "" {
		return dashboard.ErrEmptyCity
	}

	cw, err := client.FetchCurrent(context.Background(), city)
	if err != nil {
		return &dashboard.LookupError{City: city, Err: err}
	}
	printCurrent(os.Stdout, cw, g.openFavorites().List())
	return nil
}

type ForecastCmd struct {
	City string `arg:"" help:"City to look up."`
	All  bool   `help:"Print every 3-hour sample instead of one per day."`
}

func (c *ForecastCmd) Run(g *Globals) error {
	client, err := g.client()
	if err != nil {
		return err
	}
	city := strings.TrimSpace(c.City)
	if city == "" {
		return dashboard.ErrEmptyCity
	}

	entries, err := client.FetchForecast(context.Background(), city)
	if err != nil {
		return &dashboard.LookupError{City: city, Err: err}
	}

	if c.All {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%.0f°C\t%s\n", e.Time.Format("Mon 01/02 15:04"), forecast.Icon(e.Condition), e.Temp, titleCase(e.Description))
		}
		return w.Flush()
	}
	printDaily(os.Stdout, forecast.Daily(entries))
	return nil
}

type FavoritesCmd struct {
	List   FavoritesListCmd   `cmd:"" default:"1" help:"List favorite cities."`
	Add    FavoritesAddCmd    `cmd:"" help:"Add a favorite city."`
	Remove FavoritesRemoveCmd `cmd:"" help:"Remove a favorite city."`
}

type FavoritesListCmd struct{}

func (c *FavoritesListCmd) Run(g *Globals) error {
	favs := g.openFavorites().List()
	if len(favs) == 0 {
		fmt.Println("No favorite cities yet")
		return nil
	}
	for i, city := range favs {
		fmt.Printf("%d. %s\n", i+1, city)
	}
	return nil
}

type FavoritesAddCmd struct {
	City string `arg:"" help:"City to add."`
}

func (c *FavoritesAddCmd) Run(g *Globals) error {
	city := strings.TrimSpace(c.City)
	if city == "" {
		return dashboard.ErrEmptyCity
	}
	added, err := g.openFavorites().Add(city)
	if err != nil {
		return fmt.Errorf("save favorites: %w", err)
	}
	if !added {
		fmt.Printf("%s is already in your favorites\n", city)
		return nil
	}
	fmt.Printf("Added %s to favorites\n", city)
	return nil
}

type FavoritesRemoveCmd struct {
	City string `arg:"" help:"City to remove."`
}

func (c *FavoritesRemoveCmd) Run(g *Globals) error {
	removed, err := g.openFavorites().Remove(strings.TrimSpace(c.City))
	if err != nil {
		return fmt.Errorf("save favorites: %w", err)
	}
	if !removed {
		fmt.Printf("%s is not in your favorites\n", c.City)
		return nil
	}
	fmt.Printf("Removed %s from favorites\n", c.City)
	return nil
}

type HistoryCmd struct {
	Limit   int  `default:"20" help:"Number of lookups to show."`
	Popular bool `help:"Show the most looked-up cities over the last week instead."`
}

func (c *HistoryCmd) Run(g *Globals) error {
	st, closeFn, err := g.openStore()
	if err != nil {
		return err
	}
	defer closeFn()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if c.Popular {
		counts, err := st.PopularCities(time.Now().AddDate(0, 0, -7), c.Limit)
		if err != nil {
			return err
		}
		for _, pc := range counts {
			fmt.Fprintf(w, "%s\t%d\n", pc.City, pc.Count)
		}
		return w.Flush()
	}

	records, err := st.RecentLookups(c.Limit)
	if err != nil {
		return err
	}
	for _, rec := range records {
		status := "ok"
		if !rec.OK {
			status = rec.ErrorKind.String
			if rec.HTTPStatus.Valid {
				status = fmt.Sprintf("%s %d", status, rec.HTTPStatus.Int64)
			}
		}
		temp := ""
		if rec.Temp.Valid {
			temp = fmt.Sprintf("%.0f°C", rec.Temp.Float64)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", rec.RequestedAt.Format("2006-01-02 15:04"), rec.City, status, temp)
	}
	return w.Flush()
}

type ServeCmd struct {
	Port string `default:"8080" env:"PORT" help:"HTTP server port."`
}

func (c *ServeCmd) Run(g *Globals) error {
	dash, st, closeFn, err := g.newDashboard()
	if err != nil {
		return err
	}
	defer closeFn()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var history api.HistoryReader
	if st != nil {
		history = st
	}
	return api.NewServer(dash, history, c.Port).Run(ctx)
}

func printCurrent(w io.Writer, cw *models.CurrentWeather, favs []string) {
	star := ""
	for _, f := range favs {
		if f == cw.City {
			star = " ★"
			break
		}
	}
	fmt.Fprintf(w, "%s, %s%s\n", cw.City, cw.Country, star)
	fmt.Fprintf(w, "%s  %.0f°C  %s\n", forecast.Icon(cw.Condition), cw.Temp, titleCase(cw.Description))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Feels like\t%.0f°C\n", cw.FeelsLike)
	fmt.Fprintf(tw, "Humidity\t%d%%\n", cw.Humidity)
	fmt.Fprintf(tw, "Pressure\t%.0f hPa\n", cw.Pressure)
	fmt.Fprintf(tw, "Wind\t%.1f m/s\n", cw.WindSpeed)
	fmt.Fprintf(tw, "Sunrise\t%s\n", cw.Sunrise.Format("03:04 PM"))
	fmt.Fprintf(tw, "Sunset\t%s\n", cw.Sunset.Format("03:04 PM"))
	tw.Flush()
}

func printDaily(w io.Writer, days []models.DailyForecast) {
	if len(days) == 0 {
		fmt.Fprintln(w, "No forecast data.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, d := range days {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.0f°C\t%.0f° / %.0f°\t%s\n",
			d.Time.Format("Mon"), d.Time.Format("01/02"), forecast.Icon(d.Condition),
			d.Temp, d.TempMax, d.TempMin, titleCase(d.Description))
	}
	tw.Flush()
}

// titleCase upper-cases the first letter of each word ("light rain" -> "Light Rain").
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		words[i] = strings.ToUpper(string(r[0])) + string(r[1:])
	}
	return strings.Join(words, " ")
}
