package ports

import (
	"context"

	"github.com/jsau/apiserver/internal/domain/entities"
)

// RecipeRepository reads the recipe catalog. A missing catalog loads as an
// empty slice; unparseable contents return entities.ErrStoreCorrupt.
type RecipeRepository interface {
	Load(ctx context.Context) ([]entities.Recipe, error)
}

// FavoriteRepository persists the favorites list as a whole. Implementations
// return entities.ErrStoreMissing when the backing store does not exist and
// entities.ErrStoreCorrupt when it cannot be parsed.
type FavoriteRepository interface {
	Load(ctx context.Context) ([]entities.Favorite, error)
	Save(ctx context.Context, favorites []entities.Favorite) error
}

// DocumentRepository resolves names inside the document directory.
type DocumentRepository interface {
	// Resolve returns the absolute path of name, or entities.ErrDocumentNotFound
	// when it is absent, not a regular file, or outside the directory.
	Resolve(name string) (string, error)
	// Check reports whether the directory itself is usable.
	Check() error
}

// StoreObserver receives one event per store load or save.
type StoreObserver interface {
	ObserveStoreOperation(store, op string, err error)
}
