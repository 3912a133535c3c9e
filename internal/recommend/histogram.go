package recommend

import "github.com/popcornpicks/popcornpicks-server/internal/metadata"

// GenreCount is one histogram bucket.
type GenreCount struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

// Histogram counts genres and remembers the order each genre was first seen.
// The zero value is ready to use.
type Histogram struct {
	order  []string
	counts map[string]int
}

// Add increments genre by one.
func (h *Histogram) Add(genre string) {
	if h.counts == nil {
		h.counts = make(map[string]int)
	}
	if _, seen := h.counts[genre]; !seen {
		h.order = append(h.order, genre)
	}
	h.counts[genre]++
}

// Accumulate adds every genre of every found result, in order. Results that
// were not found, or that carry no genres, contribute nothing.
func (h *Histogram) Accumulate(results []metadata.Result) {
	for _, r := range results {
		if !r.Found {
			continue
		}
		for _, g := range r.Genres {
			h.Add(g)
		}
	}
}

// Dominant returns the genre with the highest count. Among equal counts the
// genre inserted first wins. ok is false for an empty histogram.
func (h *Histogram) Dominant() (genre string, ok bool) {
	best := 0
	for _, g := range h.order {
		if c := h.counts[g]; c > best {
			genre, best = g, c
		}
	}
	return genre, best > 0
}

// Len returns the number of distinct genres.
func (h *Histogram) Len() int {
	return len(h.order)
}

// Counts returns the buckets in insertion order.
func (h *Histogram) Counts() []GenreCount {
	out := make([]GenreCount, len(h.order))
	for i, g := range h.order {
		out[i] = GenreCount{Genre: g, Count: h.counts[g]}
	}
	return out
}
