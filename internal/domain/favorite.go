package domain

import "time"

// Favorite records that a user saved a catalog movie. The pair
// (UserID, MovieID) is unique.
type Favorite struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	MovieID    int       `json:"movie_id"`
	MovieTitle string    `json:"movie_title"`
	CreatedAt  time.Time `json:"created_at"`
}

// Titles returns the movie titles of favs in order.
func Titles(favs []Favorite) []string {
	out := make([]string, len(favs))
	for i, f := range favs {
		out[i] = f.MovieTitle
	}
	return out
}
