package providers

import (
	"github.com/samber/do/v2"

	"github.com/popcornpicks/popcornpicks-server/internal/auth"
	"github.com/popcornpicks/popcornpicks-server/internal/logger"
	"github.com/popcornpicks/popcornpicks-server/internal/recommend"
	"github.com/popcornpicks/popcornpicks-server/internal/service"
	"github.com/popcornpicks/popcornpicks-server/internal/validation"
)

// ProvideValidator provides the shared request validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokens := do.MustInvoke[*auth.TokenService](i)
	v := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(storeHandle.Store, tokens, v, log.Component("auth")), nil
}

// ProvideFavoriteService provides the favorites service.
func ProvideFavoriteService(i do.Injector) (*service.FavoriteService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewFavoriteService(storeHandle.Store, log.Component("favorites")), nil
}

// ProvideMovieService provides the movie catalog service.
func ProvideMovieService(i do.Injector) (*service.MovieService, error) {
	cat := do.MustInvoke[*CatalogHandle](i)
	client := do.MustInvoke[*OMDbClientHandle](i)
	engine := do.MustInvoke[*recommend.Engine](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewMovieService(cat.Catalog, client.Client, engine, log.Component("movies")), nil
}

// ProvideRecommendationService provides the recommendation service.
func ProvideRecommendationService(i do.Injector) (*service.RecommendationService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	cat := do.MustInvoke[*CatalogHandle](i)
	engine := do.MustInvoke[*recommend.Engine](i)

	return service.NewRecommendationService(storeHandle.Store, cat.Catalog, engine), nil
}

// ProvideMetadataService provides direct access to the lookup service.
func ProvideMetadataService(i do.Injector) (*service.MetadataService, error) {
	client := do.MustInvoke[*OMDbClientHandle](i)
	v := do.MustInvoke[*validation.Validator](i)

	return service.NewMetadataService(client.Client, v), nil
}
