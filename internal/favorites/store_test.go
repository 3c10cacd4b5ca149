package favorites

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func setupTestStore(t *testing.T, contents string) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "favorite_cities.json")
	if contents != "" {
		if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
			t.Fatalf("write fixture: %v", err)
		}
	}
	return Open(path)
}

func readFile(t *testing.T, s *Store) []string {
	t.Helper()
	cities, err := New(s.Path()).Load()
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	return cities
}

func TestLoad_Missing(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "nope.json"))
	_, err := s.Load()
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestLoadOrDefault_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "favorite_cities.json")
	s := Open(path)

	if got := s.List(); !slices.Equal(got, DefaultCities) {
		t.Errorf("List() = %v, want %v", got, DefaultCities)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Error("fallback list should not be written back on load")
	}
}

func TestLoadOrDefault_Corrupt(t *testing.T) {
	tests := []struct {
		name     string
		contents string
	}{
		{"garbage", "not json"},
		{"object", `{"cities": ["Erbil"]}`},
		{"null", "null"},
		{"numbers", "[1, 2]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := setupTestStore(t, tt.contents)
			if got := s.List(); !slices.Equal(got, DefaultCities) {
				t.Errorf("List() = %v, want defaults", got)
			}
			if _, err := New(s.Path()).Load(); !errors.Is(err, ErrCorrupt) {
				t.Errorf("Load err = %v, want ErrCorrupt", err)
			}
		})
	}
}

func TestLoad_ExistingFile(t *testing.T) {
	s := setupTestStore(t, `["Paris", "Erbil", "Paris"]`)
	want := []string{"Paris", "Erbil"}
	if got := s.List(); !slices.Equal(got, want) {
		t.Errorf("List() = %v, want %v", got, want)
	}
}

func TestLoad_EmptyArray(t *testing.T) {
	s := setupTestStore(t, `[]`)
	if got := s.List(); len(got) != 0 {
		t.Errorf("List() = %v, want empty", got)
	}
}

func TestAdd_AppendsAndPersists(t *testing.T) {
	s := setupTestStore(t, `["Duhok", "Erbil"]`)

	changed, err := s.Add("London")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if !changed {
		t.Error("Add reported no change")
	}

	want := []string{"Duhok", "Erbil", "London"}
	if got := s.List(); !slices.Equal(got, want) {
		t.Errorf("List() = %v, want %v", got, want)
	}
	if got := readFile(t, s); !slices.Equal(got, want) {
		t.Errorf("file = %v, want %v", got, want)
	}
}

func TestAdd_Idempotent(t *testing.T) {
	s := setupTestStore(t, `["Duhok"]`)

	if _, err := s.Add("Erbil"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	changed, err := s.Add("Erbil")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if changed {
		t.Error("second Add reported a change")
	}

	want := []string{"Duhok", "Erbil"}
	if got := s.List(); !slices.Equal(got, want) {
		t.Errorf("List() = %v, want %v", got, want)
	}
}

func TestAdd_CaseSensitive(t *testing.T) {
	s := setupTestStore(t, `["erbil"]`)
	if changed, _ := s.Add("Erbil"); !changed {
		t.Error("Add(Erbil) should not match erbil")
	}
	if got := len(s.List()); got != 2 {
		t.Errorf("len = %d, want 2", got)
	}
}

func TestAdd_WritesFallbackOnFirstMutation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "favorite_cities.json")
	s := Open(path)

	if _, err := s.Add("Baghdad"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	want := append(slices.Clone(DefaultCities), "Baghdad")
	if got := readFile(t, s); !slices.Equal(got, want) {
		t.Errorf("file = %v, want %v", got, want)
	}
}

func TestRemove(t *testing.T) {
	tests := []struct {
		name    string
		initial string
		remove  string
		want    []string
		changed bool
	}{
		{"middle", `["A", "B", "C"]`, "B", []string{"A", "C"}, true},
		{"first", `["A", "B", "C"]`, "A", []string{"B", "C"}, true},
		{"last", `["A", "B", "C"]`, "C", []string{"A", "B"}, true},
		{"absent", `["A", "B"]`, "Z", []string{"A", "B"}, false},
		{"only", `["A"]`, "A", []string{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := setupTestStore(t, tt.initial)
			changed, err := s.Remove(tt.remove)
			if err != nil {
				t.Fatalf("Remove: %v", err)
			}
			if changed != tt.changed {
				t.Errorf("changed = %v, want %v", changed, tt.changed)
			}
			if got := s.List(); !slices.Equal(got, tt.want) {
				t.Errorf("List() = %v, want %v", got, tt.want)
			}
			if tt.changed {
				if got := readFile(t, s); !slices.Equal(got, tt.want) {
					t.Errorf("file = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestAdd_SaveFailureKeepsMemoryState(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, nil, 0644); err != nil {
		t.Fatal(err)
	}
	s := Open(filepath.Join(blocker, "favorite_cities.json"))

	changed, err := s.Add("Basra")
	if err == nil {
		t.Fatal("expected save error")
	}
	if !changed {
		t.Error("expected in-memory change")
	}
	if !s.Contains("Basra") {
		t.Error("Basra missing from in-memory list")
	}
}

func TestSave_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "favorites.json")
	s := Open(path)
	if err := s.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if got := readFile(t, s); !slices.Equal(got, DefaultCities) {
		t.Errorf("file = %v, want defaults", got)
	}
}

func TestList_ReturnsCopy(t *testing.T) {
	s := setupTestStore(t, `["A", "B"]`)
	got := s.List()
	got[0] = "mutated"
	if s.List()[0] != "A" {
		t.Error("List() exposed internal slice")
	}
}
