package repository

import (
	"context"

	"github.com/jsau/apiserver/internal/domain/entities"
	"github.com/jsau/apiserver/internal/ports"
)

// FavoriteFileRepository keeps the favorites list in a JSON array file that
// is rewritten wholesale on every save. The file must already exist.
type FavoriteFileRepository struct {
	path string
}

// NewFavoriteFileRepository creates a favorites repository over path
func NewFavoriteFileRepository(path string) ports.FavoriteRepository {
	return &FavoriteFileRepository{path: path}
}

func (r *FavoriteFileRepository) Load(ctx context.Context) ([]entities.Favorite, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var favorites []entities.Favorite
	if err := readJSONFile(r.path, &favorites); err != nil {
		return nil, err
	}

	if favorites == nil {
		favorites = []entities.Favorite{}
	}
	return favorites, nil
}

func (r *FavoriteFileRepository) Save(ctx context.Context, favorites []entities.Favorite) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if favorites == nil {
		favorites = []entities.Favorite{}
	}
	return writeJSONFile(r.path, favorites)
}
