// Package domain holds the core PopcornPicks types shared by the store,
// the recommendation engine and the API.
package domain

import "strings"

// Movie is a catalog entry. ID, Title, Rating and Description form its
// identity and are never changed by enrichment.
type Movie struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Rating      float64 `json:"rating"`
	Description string  `json:"description"`

	// Enrichment is nil until a metadata lookup for Title succeeds.
	Enrichment *Enrichment `json:"enrichment,omitempty"`
}

// Enrichment is the metadata attached to a movie for one response.
type Enrichment struct {
	Poster string `json:"poster"`
	Plot   string `json:"plot"`
	Year   string `json:"year"`
	// Genre is the comma-joined genre list, e.g. "Action, Crime, Thriller".
	Genre string `json:"genre"`
}

// JoinGenres renders a parsed genre list the way lookup services return it.
func JoinGenres(genres []string) string {
	return strings.Join(genres, ", ")
}

// Enriched reports whether metadata has been attached.
func (m Movie) Enriched() bool {
	return m.Enrichment != nil
}

// WithEnrichment returns a copy of m carrying e. The receiver is untouched,
// so a shared catalog entry can be enriched per response without mutation.
// Applying the same enrichment twice yields an equal movie.
func (m Movie) WithEnrichment(e Enrichment) Movie {
	m.Enrichment = &e
	return m
}

// Bare returns a copy of m with enrichment stripped.
func (m Movie) Bare() Movie {
	m.Enrichment = nil
	return m
}

// CloneMovies copies a slice of movies, including each enrichment record.
func CloneMovies(movies []Movie) []Movie {
	if movies == nil {
		return nil
	}
	out := make([]Movie, len(movies))
	for i, m := range movies {
		if m.Enrichment != nil {
			e := *m.Enrichment
			m.Enrichment = &e
		}
		out[i] = m
	}
	return out
}
