package recommend

import (
	"github.com/popcornpicks/popcornpicks-server/internal/domain"
	"github.com/popcornpicks/popcornpicks-server/internal/metadata"
)

// EnrichmentFrom builds the enrichment record for a found result.
func EnrichmentFrom(res metadata.Result) domain.Enrichment {
	return domain.Enrichment{
		Poster: res.Poster,
		Plot:   res.Plot,
		Year:   res.Year,
		Genre:  domain.JoinGenres(res.Genres),
	}
}

// Enrich returns a copy of m carrying res. When res was not found the copy
// has no enrichment at all.
func Enrich(m domain.Movie, res metadata.Result) domain.Movie {
	if !res.Found {
		return m.Bare()
	}
	return m.WithEnrichment(EnrichmentFrom(res))
}
