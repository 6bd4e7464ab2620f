package repository

import (
	"context"
	"errors"

	"github.com/jsau/apiserver/internal/domain/entities"
	"github.com/jsau/apiserver/internal/ports"
)

// RecipeFileRepository reads the catalog from a JSON array file on every call
type RecipeFileRepository struct {
	path string
}

// NewRecipeFileRepository creates a recipe repository over path
func NewRecipeFileRepository(path string) ports.RecipeRepository {
	return &RecipeFileRepository{path: path}
}

func (r *RecipeFileRepository) Load(ctx context.Context) ([]entities.Recipe, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var recipes []entities.Recipe
	if err := readJSONFile(r.path, &recipes); err != nil {
		if errors.Is(err, entities.ErrStoreMissing) {
			return []entities.Recipe{}, nil
		}
		return nil, err
	}

	if recipes == nil {
		recipes = []entities.Recipe{}
	}
	return recipes, nil
}
