package favorites

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kelana-travel/kelana/app/kv"
	"github.com/kelana-travel/kelana/internal/types"
)

const keyPrefix = "favorites_"

func favoritesKey(userID string) string {
	return keyPrefix + userID
}

var _ Repository = (*RepositoryImpl)(nil)

type Repository interface {
	// List returns the user's favorited composite place ids in saved order.
	List(ctx context.Context, userID string) ([]string, error)
	// IsFavorite reports membership of a single place.
	IsFavorite(ctx context.Context, userID string, ref types.PlaceRef) (bool, error)
	// Toggle flips membership and returns the new state. The whole set is
	// rewritten; duplicates can never accumulate.
	Toggle(ctx context.Context, userID string, ref types.PlaceRef) (bool, error)
}

type RepositoryImpl struct {
	logger *slog.Logger
	store  kv.Store
}

func NewRepository(store kv.Store, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{logger: logger, store: store}
}

func (r *RepositoryImpl) List(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	if _, err := kv.GetJSON(ctx, r.store, favoritesKey(userID), &ids); err != nil {
		return nil, fmt.Errorf("load favorites: %w", err)
	}
	return ids, nil
}

func (r *RepositoryImpl) IsFavorite(ctx context.Context, userID string, ref types.PlaceRef) (bool, error) {
	ids, err := r.List(ctx, userID)
	if err != nil {
		return false, err
	}
	composite := ref.String()
	for _, id := range ids {
		if id == composite {
			return true, nil
		}
	}
	return false, nil
}

func (r *RepositoryImpl) Toggle(ctx context.Context, userID string, ref types.PlaceRef) (bool, error) {
	ids, err := r.List(ctx, userID)
	if err != nil {
		return false, err
	}

	composite := ref.String()
	next := make([]string, 0, len(ids)+1)
	removed := false
	for _, id := range ids {
		if id == composite {
			removed = true
			continue
		}
		next = append(next, id)
	}
	if !removed {
		next = append(next, composite)
	}

	if err := kv.SetJSON(ctx, r.store, favoritesKey(userID), next); err != nil {
		return false, fmt.Errorf("save favorites: %w", err)
	}
	return !removed, nil
}
