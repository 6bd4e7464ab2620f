package storage

import (
	"context"
	"fmt"

	"github.com/jsau/apiserver/internal/adapters/repository"
	"github.com/jsau/apiserver/internal/infrastructure/config"
	"github.com/jsau/apiserver/internal/infrastructure/database"
	"github.com/jsau/apiserver/internal/infrastructure/logger"
	"github.com/jsau/apiserver/internal/ports"
)

// Stores bundles the repositories selected by the storage configuration
type Stores struct {
	Recipes   ports.RecipeRepository
	Favorites ports.FavoriteRepository
	Documents ports.DocumentRepository

	backend string
	db      *database.DB
}

// Open builds the repositories for cfg. The badger backend opens its
// database here; Close releases it.
func Open(cfg config.StorageConfig, appLogger *logger.Logger) (*Stores, error) {
	documents, err := repository.NewDocumentRepository(cfg.DocumentsDir)
	if err != nil {
		return nil, err
	}

	stores := &Stores{
		Recipes:   repository.NewRecipeFileRepository(cfg.RecipesFile),
		Documents: documents,
		backend:   cfg.FavoritesBackend,
	}

	switch cfg.FavoritesBackend {
	case config.BackendFile:
		stores.Favorites = repository.NewFavoriteFileRepository(cfg.FavoritesFile)
	case config.BackendBadger:
		db, err := database.New(cfg, appLogger)
		if err != nil {
			return nil, err
		}
		stores.db = db
		stores.Favorites = repository.NewFavoriteBadgerRepository(db.DB)
	default:
		return nil, fmt.Errorf("unknown favorites backend %q", cfg.FavoritesBackend)
	}

	return stores, nil
}

// Backend names the favorites backend in use
func (s *Stores) Backend() string {
	return s.backend
}

// Check reports the health of each store by name; a nil value means healthy
func (s *Stores) Check(ctx context.Context) map[string]error {
	checks := map[string]error{
		"documents": s.Documents.Check(),
	}

	_, err := s.Recipes.Load(ctx)
	checks["recipes"] = err

	if s.db != nil {
		if err := s.db.HealthCheck(); err != nil {
			checks["favorites"] = err
			return checks
		}
	}
	_, err = s.Favorites.Load(ctx)
	checks["favorites"] = err

	return checks
}

// Info returns backend details for diagnostics
func (s *Stores) Info() map[string]interface{} {
	info := map[string]interface{}{"favorites_backend": s.backend}
	if s.db != nil {
		info["badger"] = s.db.GetInfo()
	}
	return info
}

// Close releases the badger database, if any
func (s *Stores) Close() error {
	if s.db == nil {
		return nil
	}
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close favorites store: %w", err)
	}
	return nil
}
