// Package main resolves movie titles against the metadata service from the
// command line. Handy for checking an API key or a catalog's titles.
//
// Usage:
//
//	OMDB_API_KEY=xxxx go run ./cmd/lookup "John Wick" "The Matrix"
//	go run ./cmd/lookup --id tt0133093
//	go run ./cmd/lookup --search matrix
//	go run ./cmd/lookup --recommend "Heat,John Wick"
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/popcornpicks/popcornpicks-server/internal/catalog"
	"github.com/popcornpicks/popcornpicks-server/internal/config"
	"github.com/popcornpicks/popcornpicks-server/internal/domain"
	"github.com/popcornpicks/popcornpicks-server/internal/logger"
	"github.com/popcornpicks/popcornpicks-server/internal/metadata"
	"github.com/popcornpicks/popcornpicks-server/internal/metadata/omdb"
	"github.com/popcornpicks/popcornpicks-server/internal/recommend"
)

var (
	apiKey       = flag.String("api-key", os.Getenv("OMDB_API_KEY"), "OMDb API key")
	baseURL      = flag.String("base-url", envOr("OMDB_BASE_URL", config.DefaultOMDbURL), "OMDb base URL")
	byID         = flag.Bool("id", false, "Treat arguments as IMDb IDs")
	search       = flag.Bool("search", false, "Search mode: list candidate titles")
	recommendFor = flag.String("recommend", "", "Comma-separated favorite titles to recommend from the catalog")
	timeout      = flag.Duration("timeout", 5*time.Second, "Per-lookup timeout")
	retries      = flag.Int("retries", 0, "Retries for unavailable lookups")
	verbose      = flag.Bool("v", false, "Log client activity to stderr")
)

func main() {
	flag.Parse()

	level := "warn"
	if *verbose {
		level = "debug"
	}
	log := logger.New(logger.Config{Writer: os.Stderr, Level: logger.ParseLevel(level)})

	client, err := omdb.New(omdb.Config{
		BaseURL:    *baseURL,
		APIKey:     *apiKey,
		Timeout:    *timeout,
		MaxRetries: *retries,
	}, log.Logger)
	if err != nil {
		log.WithError(err).Fatal("Failed to create client")
	}
	defer client.Close()

	ctx := context.Background()
	out := json.NewEncoder(os.Stdout)
	out.SetIndent("", "  ")

	switch {
	case *recommendFor != "":
		runRecommend(ctx, client, out, *recommendFor, log)
	case *search:
		runSearch(ctx, client, out, flag.Args())
	default:
		runLookup(ctx, client, out, flag.Args())
	}
}

// lookupOutput is what one title resolves to.
type lookupOutput struct {
	Query  string   `json:"query"`
	Found  bool     `json:"found"`
	Reason string   `json:"reason,omitempty"`
	Error  string   `json:"error,omitempty"`
	Title  string   `json:"title,omitempty"`
	Year   string   `json:"year,omitempty"`
	IMDbID string   `json:"imdb_id,omitempty"`
	Genres []string `json:"genres,omitempty"`
	Plot   string   `json:"plot,omitempty"`
}

func runLookup(ctx context.Context, client *omdb.Client, out *json.Encoder, args []string) {
	if len(args) == 0 {
		usage("at least one title is required")
	}

	for _, q := range args {
		var res metadata.Result
		if *byID {
			res = client.FetchByID(ctx, q)
		} else {
			res = client.FetchByTitle(ctx, q)
		}

		o := lookupOutput{Query: q, Found: res.Found}
		if res.Found {
			o.Title, o.Year, o.IMDbID, o.Genres, o.Plot = res.Title, res.Year, res.IMDbID, res.Genres, res.Plot
		} else {
			o.Reason = res.Reason.String()
			if res.Err != nil {
				o.Error = res.Err.Error()
			}
		}
		encode(out, o)
	}
}

func runSearch(ctx context.Context, client *omdb.Client, out *json.Encoder, args []string) {
	if len(args) == 0 {
		usage("a search query is required")
	}

	candidates, err := client.Search(ctx, strings.Join(args, " "))
	if err != nil {
		fmt.Fprintf(os.Stderr, "search failed: %v\n", err)
		os.Exit(1)
	}
	encode(out, candidates)
}

// recommendOutput mirrors the recommendation endpoint.
type recommendOutput struct {
	Outcome       string                 `json:"outcome"`
	Message       string                 `json:"message"`
	DominantGenre string                 `json:"dominant_genre,omitempty"`
	Genres        []recommend.GenreCount `json:"genres,omitempty"`
	Movies        []domain.Movie         `json:"movies"`
}

func runRecommend(ctx context.Context, client *omdb.Client, out *json.Encoder, titles string, log *logger.Logger) {
	path := os.Getenv("CATALOG_PATH")
	cat, err := catalog.New(path, log.Logger)
	if err != nil {
		log.WithField("catalog_path", path).WithError(err).Fatal("Failed to load catalog")
	}

	var favs []domain.Favorite
	for t := range strings.SplitSeq(titles, ",") {
		if t = strings.TrimSpace(t); t != "" {
			favs = append(favs, domain.Favorite{MovieTitle: t})
		}
	}

	res := recommend.NewEngine(client, 4, log.Logger).Recommend(ctx, favs, cat.Movies())
	encode(out, recommendOutput{
		Outcome:       string(res.Outcome),
		Message:       res.Message,
		DominantGenre: res.DominantGenre,
		Genres:        res.Genres,
		Movies:        res.Movies,
	})
}

func encode(out *json.Encoder, v any) {
	if err := out.Encode(v); err != nil {
		log.Fatalf("encode output: %v", err)
	}
}

func usage(msg string) {
	fmt.Fprintf(os.Stderr, "lookup: %s\n\n", msg)
	flag.Usage()
	os.Exit(2)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
