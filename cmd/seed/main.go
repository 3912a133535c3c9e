// Package main provides a tool to seed the database with a demo account.
//
// It creates a user and saves a few trending movies as favorites so the
// recommendation endpoint has something to work with.
//
// Usage:
//
//	DATA_PATH=~/.popcornpicks go run ./cmd/seed
//	go run ./cmd/seed --email demo@example.com --password popcorn --favorites 1,3
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/popcornpicks/popcornpicks-server/internal/auth"
	"github.com/popcornpicks/popcornpicks-server/internal/catalog"
	"github.com/popcornpicks/popcornpicks-server/internal/config"
	"github.com/popcornpicks/popcornpicks-server/internal/domain"
	"github.com/popcornpicks/popcornpicks-server/internal/id"
	"github.com/popcornpicks/popcornpicks-server/internal/logger"
	"github.com/popcornpicks/popcornpicks-server/internal/store"
	"github.com/popcornpicks/popcornpicks-server/internal/store/sqlite"
)

var (
	dataPath    = flag.String("data-path", os.Getenv("DATA_PATH"), "Directory holding popcornpicks.db")
	email       = flag.String("email", "demo@popcornpicks.local", "Demo user email")
	password    = flag.String("password", "popcorn", "Demo user password")
	favorites   = flag.String("favorites", "1,3", "Comma-separated catalog IDs to favorite")
	catalogPath = flag.String("catalog-path", os.Getenv("CATALOG_PATH"), "Optional JSON catalog to pick favorites from")
)

func main() {
	flag.Parse()

	base := *dataPath
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to resolve home directory: %v", err)
		}
		base = filepath.Join(home, ".popcornpicks")
	}
	data := config.DataConfig{BasePath: base}

	fmt.Printf("Opening database at: %s\n", data.DatabasePath())

	s, err := sqlite.Open(data.DatabasePath(), logger.Discard())
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	cat, err := catalog.New(*catalogPath, logger.Discard())
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}

	ctx := context.Background()

	user, err := ensureUser(ctx, s, *email, *password)
	if err != nil {
		log.Fatalf("Failed to create demo user: %v", err)
	}

	ids, err := parseIDs(*favorites)
	if err != nil {
		log.Fatalf("Invalid --favorites: %v", err)
	}

	added := 0
	for _, movieID := range ids {
		movie, ok := cat.Get(movieID)
		if !ok {
			fmt.Printf("  Movie %d is not in the catalog, skipping\n", movieID)
			continue
		}

		fav := &domain.Favorite{UserID: user.ID, MovieID: movie.ID, MovieTitle: movie.Title}
		if err := s.AddFavorite(ctx, fav); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				fmt.Printf("  %s already in favorites\n", movie.Title)
				continue
			}
			log.Fatalf("Failed to add favorite %d: %v", movieID, err)
		}
		fmt.Printf("  Added favorite: %s\n", movie.Title)
		added++
	}

	fmt.Printf("\nSeeded %s with %d new favorites\n", user.Email, added)
}

// ensureUser returns the user with email, creating it when missing.
func ensureUser(ctx context.Context, s *sqlite.Store, email, password string) (*domain.User, error) {
	existing, err := s.GetUserByEmail(ctx, email)
	if err == nil {
		fmt.Printf("User %s already exists, reusing\n", email)
		return existing, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	userID, err := id.Generate(id.PrefixUser)
	if err != nil {
		return nil, err
	}

	user := &domain.User{ID: userID, Email: email, PasswordHash: hash}
	if err := s.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	fmt.Printf("Created user: %s (%s)\n", email, userID)
	return user, nil
}

func parseIDs(raw string) ([]int, error) {
	var out []int
	for part := range strings.SplitSeq(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", part)
		}
		out = append(out, n)
	}
	return out, nil
}
