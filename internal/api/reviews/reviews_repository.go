package reviews

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kelana-travel/kelana/app/kv"
	"github.com/kelana-travel/kelana/internal/types"
)

const keyPrefix = "reviews_"

func reviewsKey(ref types.PlaceRef) string {
	return keyPrefix + ref.String()
}

var _ Repository = (*RepositoryImpl)(nil)

type Repository interface {
	ListForPlace(ctx context.Context, ref types.PlaceRef) ([]types.Review, error)
	// ListForUser scans every reviews_* key and keeps entries authored by
	// userID. Linear in the total number of reviews, which is fine at this
	// data scale.
	ListForUser(ctx context.Context, userID string) ([]types.UserReview, error)
	// Upsert replaces the entry matching editing by (ID, Date), or appends
	// review with a fresh timestamp id when editing is nil or unmatched.
	// Either way the whole array is rewritten.
	Upsert(ctx context.Context, ref types.PlaceRef, review types.Review, editing *types.Review) (*types.Review, error)
	// Delete removes the single entry matching review by (ID, Date).
	Delete(ctx context.Context, ref types.PlaceRef, review types.Review) error
}

type RepositoryImpl struct {
	logger *slog.Logger
	store  kv.Store
}

func NewRepository(store kv.Store, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{logger: logger, store: store}
}

func (r *RepositoryImpl) ListForPlace(ctx context.Context, ref types.PlaceRef) ([]types.Review, error) {
	var reviews []types.Review
	if _, err := kv.GetJSON(ctx, r.store, reviewsKey(ref), &reviews); err != nil {
		return nil, fmt.Errorf("load reviews: %w", err)
	}
	return reviews, nil
}

func (r *RepositoryImpl) ListForUser(ctx context.Context, userID string) ([]types.UserReview, error) {
	keys, err := r.store.Keys(ctx, keyPrefix)
	if err != nil {
		return nil, fmt.Errorf("scan review keys: %w", err)
	}

	var out []types.UserReview
	for _, key := range keys {
		var reviews []types.Review
		if _, err := kv.GetJSON(ctx, r.store, key, &reviews); err != nil {
			return nil, fmt.Errorf("load reviews under %q: %w", key, err)
		}
		placeID := strings.TrimPrefix(key, keyPrefix)
		for _, rev := range reviews {
			if rev.AuthorID == userID {
				out = append(out, types.UserReview{Review: rev, PlaceID: placeID})
			}
		}
	}
	return out, nil
}

func (r *RepositoryImpl) Upsert(ctx context.Context, ref types.PlaceRef, review types.Review, editing *types.Review) (*types.Review, error) {
	reviews, err := r.ListForPlace(ctx, ref)
	if err != nil {
		return nil, err
	}

	if editing != nil {
		for i := range reviews {
			if reviews[i].ID == editing.ID && reviews[i].Date == editing.Date {
				// Keep the original identity pair, replace the content.
				review.ID = reviews[i].ID
				review.Date = reviews[i].Date
				reviews[i] = review
				if err := r.save(ctx, ref, reviews); err != nil {
					return nil, err
				}
				return &review, nil
			}
		}
	}

	review.ID = time.Now().UnixMilli()
	review.Date = time.Now().Format("2006-01-02")
	reviews = append(reviews, review)
	if err := r.save(ctx, ref, reviews); err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, ref types.PlaceRef, review types.Review) error {
	reviews, err := r.ListForPlace(ctx, ref)
	if err != nil {
		return err
	}
	next := make([]types.Review, 0, len(reviews))
	for _, rev := range reviews {
		if rev.ID == review.ID && rev.Date == review.Date {
			continue
		}
		next = append(next, rev)
	}
	if len(next) == len(reviews) {
		return fmt.Errorf("review %d@%s: %w", review.ID, review.Date, types.ErrNotFound)
	}
	return r.save(ctx, ref, next)
}

func (r *RepositoryImpl) save(ctx context.Context, ref types.PlaceRef, reviews []types.Review) error {
	if err := kv.SetJSON(ctx, r.store, reviewsKey(ref), reviews); err != nil {
		return fmt.Errorf("save reviews: %w", err)
	}
	return nil
}
