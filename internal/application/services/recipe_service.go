package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/jsau/apiserver/internal/domain/entities"
	"github.com/jsau/apiserver/internal/infrastructure/logger"
	"github.com/jsau/apiserver/internal/ports"
)

const recipeStore = "recipes"

// RecipeService handles catalog lookups
type RecipeService struct {
	recipeRepo ports.RecipeRepository
	documents  ports.DocumentRepository
	observer   ports.StoreObserver
	logger     *logger.Logger
}

// NewRecipeService creates a new recipe service. observer may be nil.
func NewRecipeService(recipeRepo ports.RecipeRepository, documents ports.DocumentRepository, observer ports.StoreObserver, logger *logger.Logger) *RecipeService {
	return &RecipeService{
		recipeRepo: recipeRepo,
		documents:  documents,
		observer:   observer,
		logger:     logger.WithComponent("recipes"),
	}
}

// ListRecipes returns the whole catalog
func (s *RecipeService) ListRecipes(ctx context.Context) ([]entities.Recipe, error) {
	recipes, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return recipes, nil
}

// GetRecipeDocument resolves <name>.html in the document directory
func (s *RecipeService) GetRecipeDocument(ctx context.Context, name string) (string, error) {
	path, err := s.documents.Resolve(name + ".html")
	if err != nil {
		return "", fmt.Errorf("recipe document %q: %w", name, err)
	}
	return path, nil
}

// GetRecipeByID finds the recipe with the given id and resolves its
// downloadable document
func (s *RecipeService) GetRecipeByID(ctx context.Context, rawID string) (*ports.RecipeDocument, error) {
	id, err := parseLeadingInt(rawID)
	outOfRange := errors.Is(err, strconv.ErrRange)
	if err != nil && !outOfRange {
		return nil, &entities.ValidationError{Field: "id", Reason: "must start with an integer"}
	}

	recipes, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	// no stored id can be that large
	if outOfRange {
		return nil, fmt.Errorf("id %s: %w", strings.TrimSpace(rawID), entities.ErrRecipeNotFound)
	}

	var found *entities.Recipe
	for i := range recipes {
		if recipes[i].HasID && recipes[i].ID == id {
			found = &recipes[i]
			break
		}
	}
	if found == nil {
		return nil, fmt.Errorf("id %d: %w", id, entities.ErrRecipeNotFound)
	}

	fileName := found.DocumentFileName()
	path, err := s.documents.Resolve(fileName)
	if err != nil {
		if errors.Is(err, entities.ErrDocumentNotFound) {
			return nil, fmt.Errorf("recipe %d: %w", id, err)
		}
		return nil, fmt.Errorf("%w: resolve %s: %w", entities.ErrInternal, fileName, err)
	}

	return &ports.RecipeDocument{
		Recipe:   *found,
		Path:     path,
		FileName: fileName,
	}, nil
}

// parseLeadingInt reads the integer at the start of s: leading whitespace,
// an optional sign, then every digit up to the first non-digit. "12abc" is
// 12 and "1.5" is 1. It fails only when no digit follows the sign.
func parseLeadingInt(s string) (int, error) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, strconv.ErrSyntax
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (s *RecipeService) load(ctx context.Context) ([]entities.Recipe, error) {
	recipes, err := s.recipeRepo.Load(ctx)
	observe(s.observer, s.logger, recipeStore, "load", len(recipes), err)
	if err != nil {
		return nil, fmt.Errorf("%w: load recipes: %w", entities.ErrInternal, err)
	}
	return recipes, nil
}

func observe(observer ports.StoreObserver, l *logger.Logger, store, op string, records int, err error) {
	if observer != nil {
		observer.ObserveStoreOperation(store, op, err)
	}
	l.LogStoreOperation(store, op, records, err)
}
