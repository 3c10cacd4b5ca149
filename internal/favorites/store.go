package favorites

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"slices"
	"sync"
)

// DefaultPath is where the favorites file lives relative to the working directory.
const DefaultPath = "favorite_cities.json"

// DefaultCities is used when the favorites file is missing or unreadable.
var DefaultCities = []string{"Duhok", "Erbil", "Kirkuk", "Mosul", "Sulaymaniah"}

var (
	ErrNotFound = errors.New("favorites file not found")
	ErrCorrupt  = errors.New("favorites file is not a JSON array of strings")
)

// Store holds an ordered, duplicate-free list of city names backed by a
// JSON array file. Every mutation rewrites the whole file.
type Store struct {
	path string

	mu     sync.Mutex
	cities []string
}

// New returns an empty store for path. Call Load or use Open to read the file.
func New(path string) *Store {
	return &Store{path: path}
}

// Open creates a store for path and populates it with LoadOrDefault.
func Open(path string) *Store {
	s := New(path)
	s.cities = s.LoadOrDefault()
	return s
}

func (s *Store) Path() string {
	return s.path
}

// Load reads the favorites file and replaces the in-memory list with its
// contents. On error the in-memory list is left unchanged and the caller
// decides what to fall back to.
func (s *Store) Load() ([]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, s.path)
	}
	if err != nil {
		return nil, fmt.Errorf("read favorites: %w", err)
	}

	var cities []string
	if err := json.Unmarshal(data, &cities); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if cities == nil {
		return nil, ErrCorrupt
	}
	cities = dedupe(cities)

	s.mu.Lock()
	s.cities = cities
	s.mu.Unlock()

	return slices.Clone(cities), nil
}

// LoadOrDefault loads the file, substituting DefaultCities on any fault.
// The fallback is kept in memory only; it is written on the next mutation.
func (s *Store) LoadOrDefault() []string {
	cities, err := s.Load()
	if err == nil {
		return cities
	}
	if !errors.Is(err, ErrNotFound) {
		log.Printf("favorites: %v, using defaults", err)
	}

	fallback := slices.Clone(DefaultCities)
	s.mu.Lock()
	s.cities = fallback
	s.mu.Unlock()
	return slices.Clone(fallback)
}

// List returns a copy of the current list.
func (s *Store) List() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.cities)
}

func (s *Store) Contains(city string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Contains(s.cities, city)
}

// Add appends city if it is not already present and persists the list.
// It reports whether the list changed. A save error is returned but the
// in-memory change is kept.
func (s *Store) Add(city string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if slices.Contains(s.cities, city) {
		return false, nil
	}
	s.cities = append(s.cities, city)
	return true, s.saveLocked()
}

// Remove deletes the first occurrence of city and persists the list.
func (s *Store) Remove(city string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.Index(s.cities, city)
	if i < 0 {
		return false, nil
	}
	s.cities = slices.Delete(s.cities, i, i+1)
	return true, s.saveLocked()
}

// Save overwrites the favorites file with the full in-memory list.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked()
}

func (s *Store) saveLocked() error {
	cities := s.cities
	if cities == nil {
		cities = []string{}
	}
	data, err := json.Marshal(cities)
	if err != nil {
		return fmt.Errorf("encode favorites: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create favorites dir: %w", err)
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".favorites-*.json")
	if err != nil {
		return fmt.Errorf("write favorites: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write favorites: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write favorites: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write favorites: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write favorites: %w", err)
	}
	return nil
}

func dedupe(cities []string) []string {
	out := make([]string, 0, len(cities))
	for _, c := range cities {
		if !slices.Contains(out, c) {
			out = append(out, c)
		}
	}
	return out
}
