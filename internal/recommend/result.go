package recommend

import "github.com/popcornpicks/popcornpicks-server/internal/domain"

// Outcome tags a recommendation result.
type Outcome string

// Recommendation outcomes. Everything but OutcomeSuccess is a fallback that
// carries the catalog unchanged.
const (
	OutcomeSuccess     Outcome = "success"
	OutcomeNoFavorites Outcome = "no_favorites"
	OutcomeNoGenreData Outcome = "no_genre_data"
	OutcomeNoMatches   Outcome = "no_matches"
)

// Human-readable reasons sent with each outcome.
const (
	MessageSuccess     = "Recommended for you based on your favorite genre"
	MessageNoFavorites = "No favorites yet. Here are some trending movies"
	MessageNoGenreData = "Could not determine your favorite genre. Here are some trending movies"
	MessageNoMatches   = "No movies match your favorite genre. Here are some trending movies"
)

// Result is the tagged outcome of a recommendation computation.
type Result struct {
	Outcome Outcome
	Message string
	Movies  []domain.Movie
	// DominantGenre is set only when Outcome is OutcomeSuccess.
	DominantGenre string
	// Genres is the histogram that led to the outcome, empty for
	// OutcomeNoFavorites and OutcomeNoGenreData.
	Genres []GenreCount
}

// IsFallback reports whether the result carries the unpersonalized catalog.
func (r Result) IsFallback() bool {
	return r.Outcome != OutcomeSuccess
}

func success(movies []domain.Movie, genre string, genres []GenreCount) Result {
	return Result{Outcome: OutcomeSuccess, Message: MessageSuccess, Movies: movies, DominantGenre: genre, Genres: genres}
}

// fallback returns the catalog copied, so callers can never reach the shared
// snapshot through a result.
func fallback(outcome Outcome, message string, catalog []domain.Movie, genres []GenreCount) Result {
	return Result{Outcome: outcome, Message: message, Movies: domain.CloneMovies(catalog), Genres: genres}
}
