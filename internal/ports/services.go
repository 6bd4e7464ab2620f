package ports

import (
	"context"

	"github.com/jsau/apiserver/internal/domain/entities"
)

// RecipeService exposes the read-only catalog
type RecipeService interface {
	ListRecipes(ctx context.Context) ([]entities.Recipe, error)
	GetRecipeDocument(ctx context.Context, name string) (string, error)
	GetRecipeByID(ctx context.Context, rawID string) (*RecipeDocument, error)
}

// FavoriteService manages the favorites list
type FavoriteService interface {
	AddFavorite(ctx context.Context, req AddFavoriteRequest) (*entities.Favorite, error)
	ListFavorites(ctx context.Context) ([]entities.Favorite, error)
	RemoveFavorite(ctx context.Context, req RemoveFavoriteRequest) (*entities.Favorite, error)
}

// RecipeDocument is a resolved download for one recipe
type RecipeDocument struct {
	Recipe   entities.Recipe
	Path     string
	FileName string
}

// Request types
type AddFavoriteRequest struct {
	RecetteFile string `json:"recetteFile" validate:"required"`
}

type RemoveFavoriteRequest struct {
	Filename string `json:"filename" validate:"required"`
}
