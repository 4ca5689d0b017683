package trips

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kelana-travel/kelana/app/kv"
	"github.com/kelana-travel/kelana/internal/types"
)

const keyPrefix = "trips_"

func tripsKey(userID string) string {
	return keyPrefix + userID
}

var _ Repository = (*RepositoryImpl)(nil)

type Repository interface {
	List(ctx context.Context, userID string) ([]types.Trip, error)
	// Append stores a new trip at the end of the user's list.
	Append(ctx context.Context, userID string, trip types.Trip) error
	// SetDates overwrites both dates of the trip together. There is no
	// partial date update.
	SetDates(ctx context.Context, userID string, tripID int64, start, end *time.Time) error
	// Delete removes a trip by id and rewrites the remaining list.
	Delete(ctx context.Context, userID string, tripID int64) error
}

type RepositoryImpl struct {
	logger *slog.Logger
	store  kv.Store
}

func NewRepository(store kv.Store, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{logger: logger, store: store}
}

func (r *RepositoryImpl) List(ctx context.Context, userID string) ([]types.Trip, error) {
	var trips []types.Trip
	if _, err := kv.GetJSON(ctx, r.store, tripsKey(userID), &trips); err != nil {
		return nil, fmt.Errorf("load trips: %w", err)
	}
	return trips, nil
}

func (r *RepositoryImpl) save(ctx context.Context, userID string, trips []types.Trip) error {
	if err := kv.SetJSON(ctx, r.store, tripsKey(userID), trips); err != nil {
		return fmt.Errorf("save trips: %w", err)
	}
	return nil
}

func (r *RepositoryImpl) Append(ctx context.Context, userID string, trip types.Trip) error {
	trips, err := r.List(ctx, userID)
	if err != nil {
		return err
	}
	return r.save(ctx, userID, append(trips, trip))
}

func (r *RepositoryImpl) SetDates(ctx context.Context, userID string, tripID int64, start, end *time.Time) error {
	trips, err := r.List(ctx, userID)
	if err != nil {
		return err
	}
	for i := range trips {
		if trips[i].ID == tripID {
			trips[i].StartDate = start
			trips[i].EndDate = end
			return r.save(ctx, userID, trips)
		}
	}
	return fmt.Errorf("trip %d: %w", tripID, types.ErrNotFound)
}

func (r *RepositoryImpl) Delete(ctx context.Context, userID string, tripID int64) error {
	trips, err := r.List(ctx, userID)
	if err != nil {
		return err
	}
	next := make([]types.Trip, 0, len(trips))
	for _, t := range trips {
		if t.ID != tripID {
			next = append(next, t)
		}
	}
	if len(next) == len(trips) {
		return fmt.Errorf("trip %d: %w", tripID, types.ErrNotFound)
	}
	return r.save(ctx, userID, next)
}
