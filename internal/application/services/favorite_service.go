package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jsau/apiserver/internal/domain/entities"
	"github.com/jsau/apiserver/internal/infrastructure/logger"
	"github.com/jsau/apiserver/internal/ports"
)

const favoriteStore = "favorites"

// FavoriteService handles the favorites list. Every operation is a full
// load/modify/save cycle; mu serialises them so concurrent requests cannot
// overwrite each other's changes.
type FavoriteService struct {
	mu           sync.Mutex
	favoriteRepo ports.FavoriteRepository
	documents    ports.DocumentRepository
	observer     ports.StoreObserver
	logger       *logger.Logger
}

// NewFavoriteService creates a new favorite service. observer may be nil.
func NewFavoriteService(favoriteRepo ports.FavoriteRepository, documents ports.DocumentRepository, observer ports.StoreObserver, logger *logger.Logger) *FavoriteService {
	return &FavoriteService{
		favoriteRepo: favoriteRepo,
		documents:    documents,
		observer:     observer,
		logger:       logger.WithComponent("favorites"),
	}
}

// AddFavorite appends a favorite for an existing document
func (s *FavoriteService) AddFavorite(ctx context.Context, req ports.AddFavoriteRequest) (*entities.Favorite, error) {
	if req.RecetteFile == "" {
		return nil, &entities.ValidationError{Field: "recetteFile", Reason: "required"}
	}

	if _, err := s.documents.Resolve(req.RecetteFile); err != nil {
		return nil, fmt.Errorf("add favorite %q: %w", req.RecetteFile, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	favorites, err := s.load(ctx)
	if err != nil {
		if errors.Is(err, entities.ErrStoreMissing) {
			return nil, fmt.Errorf("%w: %w", entities.ErrNotFound, err)
		}
		return nil, fmt.Errorf("%w: %w", entities.ErrInternal, err)
	}

	if entities.FindFavorite(favorites, req.RecetteFile) >= 0 {
		return nil, fmt.Errorf("%q: %w", req.RecetteFile, entities.ErrFavoriteExists)
	}

	favorite := entities.Favorite{
		ID:          entities.NextFavoriteID(favorites),
		RecetteFile: req.RecetteFile,
	}
	favorites = append(favorites, favorite)

	if err := s.save(ctx, favorites); err != nil {
		return nil, fmt.Errorf("%w: %w", entities.ErrInternal, err)
	}

	s.logger.Infow("Favorite added", "id", favorite.ID, "recette_file", favorite.RecetteFile)
	return &favorite, nil
}

// ListFavorites returns every favorite, or entities.ErrNoFavorites when the
// list is empty
func (s *FavoriteService) ListFavorites(ctx context.Context) ([]entities.Favorite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	favorites, err := s.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entities.ErrInternal, err)
	}

	if len(favorites) == 0 {
		return favorites, entities.ErrNoFavorites
	}
	return favorites, nil
}

// RemoveFavorite deletes the first favorite whose recetteFile matches
func (s *FavoriteService) RemoveFavorite(ctx context.Context, req ports.RemoveFavoriteRequest) (*entities.Favorite, error) {
	if req.Filename == "" {
		return nil, &entities.ValidationError{Field: "filename", Reason: "required"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	favorites, err := s.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entities.ErrInternal, err)
	}

	idx := entities.FindFavorite(favorites, req.Filename)
	if idx < 0 {
		return nil, fmt.Errorf("%q: %w", req.Filename, entities.ErrFavoriteNotFound)
	}

	removed := favorites[idx]
	favorites = append(favorites[:idx], favorites[idx+1:]...)

	if err := s.save(ctx, favorites); err != nil {
		return nil, fmt.Errorf("%w: %w", entities.ErrInternal, err)
	}

	s.logger.Infow("Favorite removed", "id", removed.ID, "recette_file", removed.RecetteFile)
	return &removed, nil
}

// Check loads the store once without modifying it
func (s *FavoriteService) Check(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.favoriteRepo.Load(ctx)
	return err
}

func (s *FavoriteService) load(ctx context.Context) ([]entities.Favorite, error) {
	favorites, err := s.favoriteRepo.Load(ctx)
	observe(s.observer, s.logger, favoriteStore, "load", len(favorites), err)
	if err != nil {
		return nil, fmt.Errorf("load favorites: %w", err)
	}
	return favorites, nil
}

func (s *FavoriteService) save(ctx context.Context, favorites []entities.Favorite) error {
	err := s.favoriteRepo.Save(ctx, favorites)
	observe(s.observer, s.logger, favoriteStore, "save", len(favorites), err)
	if err != nil {
		return fmt.Errorf("save favorites: %w", err)
	}
	return nil
}
