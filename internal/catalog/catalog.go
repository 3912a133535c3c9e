// Package catalog holds the set of movies the service recommends from.
//
// The active catalog is an immutable Snapshot behind an atomic pointer.
// Readers take a snapshot and keep using it for the whole request; a reload
// builds a fresh snapshot and swaps it in without touching the old one.
package catalog

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"sync/atomic"
	"time"

	"github.com/popcornpicks/popcornpicks-server/internal/domain"
	"github.com/popcornpicks/popcornpicks-server/internal/metrics"
)

// SourceBuiltin names the compiled-in trending list.
const SourceBuiltin = "builtin"

// Trending is the default catalog used when no catalog file is configured.
func Trending() []domain.Movie {
	return []domain.Movie{
		{
			ID:          1,
			Title:       "John Wick",
			Rating:      7.4,
			Description: "An ex-hitman comes out of retirement to track down the gangsters that killed his dog.",
		},
		{
			ID:          2,
			Title:       "Inception",
			Rating:      8.8,
			Description: "A thief who steals corporate secrets through the use of dream-sharing technology.",
		},
		{
			ID:          3,
			Title:       "The Matrix",
			Rating:      8.7,
			Description: "A computer hacker learns about the true nature of his reality and his role in the war against its controllers.",
		},
	}
}

// Snapshot is one immutable version of the catalog.
type Snapshot struct {
	movies   []domain.Movie
	byID     map[int]int
	Source   string
	Version  uint64
	LoadedAt time.Time
}

func newSnapshot(movies []domain.Movie, source string, version uint64) *Snapshot {
	s := &Snapshot{
		movies:   domain.CloneMovies(movies),
		byID:     make(map[int]int, len(movies)),
		Source:   source,
		Version:  version,
		LoadedAt: time.Now(),
	}
	for i, m := range s.movies {
		s.byID[m.ID] = i
	}
	return s
}

// Movies returns the snapshot's movies. The slice is shared: callers must
// not modify it.
func (s *Snapshot) Movies() []domain.Movie {
	return s.movies
}

// Get returns a copy of the movie with the given ID.
func (s *Snapshot) Get(id int) (domain.Movie, bool) {
	i, ok := s.byID[id]
	if !ok {
		return domain.Movie{}, false
	}
	return s.movies[i].Bare(), true
}

// Len returns the number of movies.
func (s *Snapshot) Len() int {
	return len(s.movies)
}

// Catalog serves the current snapshot and reloads it from a file.
type Catalog struct {
	current atomic.Pointer[Snapshot]
	path    string
	logger  *slog.Logger
}

// New creates a catalog. With an empty path the built-in trending list is
// used and Reload is a no-op; otherwise the file must load cleanly.
func New(path string, logger *slog.Logger) (*Catalog, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Catalog{path: path, logger: logger}

	if path == "" {
		c.publish(newSnapshot(Trending(), SourceBuiltin, 1))
		return c, nil
	}

	movies, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	c.publish(newSnapshot(movies, path, 1))
	return c, nil
}

// NewFromMovies creates a catalog over a fixed movie list.
func NewFromMovies(movies []domain.Movie) *Catalog {
	c := &Catalog{logger: slog.Default()}
	c.publish(newSnapshot(movies, SourceBuiltin, 1))
	return c
}

// Snapshot returns the active snapshot.
func (c *Catalog) Snapshot() *Snapshot {
	return c.current.Load()
}

// Movies returns the active snapshot's movies.
func (c *Catalog) Movies() []domain.Movie {
	return c.Snapshot().Movies()
}

// Get looks up a movie by ID in the active snapshot.
func (c *Catalog) Get(id int) (domain.Movie, bool) {
	return c.Snapshot().Get(id)
}

// Path returns the backing file, or "" for the built-in list.
func (c *Catalog) Path() string {
	return c.path
}

// Reload re-reads the catalog file. On error the active snapshot is kept.
func (c *Catalog) Reload() error {
	if c.path == "" {
		return nil
	}

	movies, err := LoadFile(c.path)
	if err != nil {
		metrics.CatalogReloads.WithLabelValues("error").Inc()
		c.logger.Warn("catalog reload failed, keeping previous snapshot",
			"path", c.path,
			"error", err,
		)
		return err
	}

	next := newSnapshot(movies, c.path, c.Snapshot().Version+1)
	c.publish(next)
	metrics.CatalogReloads.WithLabelValues("ok").Inc()
	c.logger.Info("catalog reloaded",
		"path", c.path,
		"movies", next.Len(),
		"version", next.Version,
	)
	return nil
}

func (c *Catalog) publish(s *Snapshot) {
	c.current.Store(s)
	metrics.CatalogSize.Set(float64(s.Len()))
}

// LoadFile reads a JSON array of movies and validates it.
func LoadFile(path string) ([]domain.Movie, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var movies []domain.Movie
	if err := json.Unmarshal(data, &movies); err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", path, err)
	}
	if err := validate(movies); err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}

	// Enrichment is computed per request, never loaded.
	for i := range movies {
		movies[i].Enrichment = nil
	}
	return movies, nil
}

func validate(movies []domain.Movie) error {
	if len(movies) == 0 {
		return ErrEmpty
	}
	seen := make(map[int]struct{}, len(movies))
	for i, m := range movies {
		if m.ID <= 0 {
			return fmt.Errorf("entry %d: %w", i, ErrInvalidID)
		}
		if m.Title == "" {
			return fmt.Errorf("entry %d: %w", i, ErrMissingTitle)
		}
		if _, dup := seen[m.ID]; dup {
			return fmt.Errorf("entry %d (id %d): %w", i, m.ID, ErrDuplicateID)
		}
		seen[m.ID] = struct{}{}
	}
	return nil
}

// IDs returns the sorted movie IDs of a snapshot.
func (s *Snapshot) IDs() []int {
	ids := make([]int, 0, len(s.byID))
	for id := range s.byID {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
