package api

import "github.com/popcornpicks/popcornpicks-server/internal/service"

// Services groups the business services the handlers call.
type Services struct {
	Auth            *service.AuthService
	Favorites       *service.FavoriteService
	Movies          *service.MovieService
	Recommendations *service.RecommendationService
	Metadata        *service.MetadataService
}
