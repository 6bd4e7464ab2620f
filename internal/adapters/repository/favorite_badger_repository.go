package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/jsau/apiserver/internal/domain/entities"
	"github.com/jsau/apiserver/internal/ports"
)

const favoritesKey = "favorites:list"

// FavoriteBadgerRepository stores the whole favorites array under one key of
// an embedded BadgerDB. A missing key loads as an empty list.
type FavoriteBadgerRepository struct {
	db *badger.DB
}

// NewFavoriteBadgerRepository creates a BadgerDB-backed favorites repository
func NewFavoriteBadgerRepository(db *badger.DB) ports.FavoriteRepository {
	return &FavoriteBadgerRepository{db: db}
}

func (r *FavoriteBadgerRepository) Load(ctx context.Context) ([]entities.Favorite, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	favorites := []entities.Favorite{}
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(favoritesKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("get favorites: %w", err)
		}

		return item.Value(func(val []byte) error {
			if err := json.Unmarshal(val, &favorites); err != nil {
				return fmt.Errorf("decode favorites: %w: %v", entities.ErrStoreCorrupt, err)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	if favorites == nil {
		favorites = []entities.Favorite{}
	}
	return favorites, nil
}

func (r *FavoriteBadgerRepository) Save(ctx context.Context, favorites []entities.Favorite) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if favorites == nil {
		favorites = []entities.Favorite{}
	}
	data, err := json.Marshal(favorites)
	if err != nil {
		return fmt.Errorf("encode favorites: %w", err)
	}

	return r.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(favoritesKey), data); err != nil {
			return fmt.Errorf("set favorites: %w", err)
		}
		return nil
	})
}
