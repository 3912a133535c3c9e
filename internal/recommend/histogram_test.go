package recommend

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/popcornpicks/popcornpicks-server/internal/domain"
	"github.com/popcornpicks/popcornpicks-server/internal/metadata"
)

func TestHistogram_Empty(t *testing.T) {
	var h Histogram
	_, ok := h.Dominant()
	assert.False(t, ok)
	assert.Zero(t, h.Len())
	assert.Empty(t, h.Counts())
}

func TestHistogram_TieBreak(t *testing.T) {
	tests := []struct {
		name   string
		genres []string
		want   string
	}{
		{"action seen first", []string{"Action", "Thriller", "Thriller", "Action"}, "Action"},
		{"thriller seen first", []string{"Thriller", "Action", "Action", "Thriller"}, "Thriller"},
		{"clear winner", []string{"Drama", "Comedy", "Comedy"}, "Comedy"},
		{"single", []string{"Horror"}, "Horror"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var h Histogram
			for _, g := range tt.genres {
				h.Add(g)
			}
			got, ok := h.Dominant()
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHistogram_AccumulateSkipsFailures(t *testing.T) {
	var h Histogram
	h.Accumulate([]metadata.Result{
		metadata.Found(metadata.Result{Genres: []string{"Action", "Crime"}}),
		metadata.NotFound(errors.New("no such title")),
		metadata.Unavailable(errors.New("timeout")),
		metadata.Found(metadata.Result{}),
		metadata.Found(metadata.Result{Genres: []string{"Crime"}}),
	})

	assert.Equal(t, []GenreCount{{"Action", 1}, {"Crime", 2}}, h.Counts())
	got, _ := h.Dominant()
	assert.Equal(t, "Crime", got)
}

func TestEnrich(t *testing.T) {
	m := domain.Movie{ID: 3, Title: "The Matrix", Rating: 8.7}
	res := metadata.Found(metadata.Result{Poster: "p", Plot: "q", Year: "1999", Genres: []string{"Action", "Sci-Fi"}})

	once := Enrich(m, res)
	twice := Enrich(once, res)

	assert.Equal(t, once, twice)
	assert.Equal(t, "Action, Sci-Fi", twice.Enrichment.Genre)
	assert.Nil(t, m.Enrichment)

	assert.Nil(t, Enrich(once, metadata.Unavailable(errors.New("x"))).Enrichment)
}
