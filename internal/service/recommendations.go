package service

import (
	"context"

	"github.com/popcornpicks/popcornpicks-server/internal/catalog"
	domainerrors "github.com/popcornpicks/popcornpicks-server/internal/errors"
	"github.com/popcornpicks/popcornpicks-server/internal/recommend"
	"github.com/popcornpicks/popcornpicks-server/internal/store"
)

// RecommendationService computes recommendations for signed-in users.
type RecommendationService struct {
	favorites store.Favorites
	catalog   *catalog.Catalog
	engine    *recommend.Engine
}

// NewRecommendationService creates a recommendation service.
func NewRecommendationService(favs store.Favorites, cat *catalog.Catalog, engine *recommend.Engine) *RecommendationService {
	return &RecommendationService{favorites: favs, catalog: cat, engine: engine}
}

// ForUser recommends from the active catalog snapshot based on the user's
// favorites. Lookup failures never surface as errors; only a failure to read
// the favorites does.
func (s *RecommendationService) ForUser(ctx context.Context, userID string) (recommend.Result, error) {
	favs, err := s.favorites.ListFavorites(ctx, userID)
	if err != nil {
		return recommend.Result{}, domainerrors.Wrap(err, domainerrors.CodeInternal, MsgFavoritesFailed)
	}
	return s.engine.Recommend(ctx, favs, s.catalog.Movies()), nil
}
