package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lox/weatherdash/internal/models"
)

// Store keeps the lookup history. It records what was searched and how it
// went; weather data is never served back out of it.
type Store struct {
	db  *sql.DB
	loc *time.Location
}

func New(db *sql.DB, loc *time.Location) *Store {
	if loc == nil {
		loc = time.Local
	}
	return &Store{db: db, loc: loc}
}

func (s *Store) RecordLookup(rec models.LookupRecord) error {
	_, err := s.db.Exec(`
		INSERT INTO lookups (id, city, requested_at, ok, error_kind, http_status, temp, description)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, rec.ID, rec.City, rec.RequestedAt.UTC(), rec.OK, rec.ErrorKind, rec.HTTPStatus, rec.Temp, rec.Description)
	if err != nil {
		return fmt.Errorf("insert lookup: %w", err)
	}
	return nil
}

// RecentLookups returns the newest lookups first.
func (s *Store) RecentLookups(limit int) ([]models.LookupRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`
		SELECT id, city, requested_at, ok, error_kind, http_status, temp, description, created_at
		FROM lookups
		ORDER BY requested_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.LookupRecord
	for rows.Next() {
		var rec models.LookupRecord
		if err := rows.Scan(&rec.ID, &rec.City, &rec.RequestedAt, &rec.OK, &rec.ErrorKind, &rec.HTTPStatus, &rec.Temp, &rec.Description, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.RequestedAt = rec.RequestedAt.In(s.loc)
		records = append(records, rec)
	}
	return records, rows.Err()
}

type CityCount struct {
	City  string `json:"city"`
	Count int    `json:"count"`
}

// PopularCities counts successful lookups since the given time, grouping
// city names case-insensitively.
func (s *Store) PopularCities(since time.Time, limit int) ([]CityCount, error) {
	if limit <= 0 {
		limit = 5
	}
	rows, err := s.db.Query(`
		SELECT MIN(city), COUNT(*) AS n
		FROM lookups
		WHERE ok = TRUE AND requested_at >= ?
		GROUP BY city COLLATE NOCASE
		ORDER BY n DESC, MIN(city) ASC
		LIMIT ?
	`, since.UTC(), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []CityCount
	for rows.Next() {
		var c CityCount
		if err := rows.Scan(&c.City, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}
