package favorites

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kelana-travel/kelana/internal/catalog"
	"github.com/kelana-travel/kelana/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	IsFavorite(ctx context.Context, userID string, ref types.PlaceRef) (bool, error)
	// Toggle flips membership and returns the new state. Guests (empty
	// userID) are a silent no-op returning false, as in the original UI.
	Toggle(ctx context.Context, userID string, ref types.PlaceRef) (bool, error)
	// List resolves the user's favorites against the catalog. Entries whose
	// place no longer resolves are skipped, not errors.
	List(ctx context.Context, userID string) ([]catalog.CityPlace, error)
}

type ServiceImpl struct {
	logger  *slog.Logger
	repo    Repository
	catalog *catalog.Catalog
}

func NewService(repo Repository, cat *catalog.Catalog, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{logger: logger, repo: repo, catalog: cat}
}

func (s *ServiceImpl) IsFavorite(ctx context.Context, userID string, ref types.PlaceRef) (bool, error) {
	if userID == "" {
		return false, nil
	}
	return s.repo.IsFavorite(ctx, userID, ref)
}

func (s *ServiceImpl) Toggle(ctx context.Context, userID string, ref types.PlaceRef) (bool, error) {
	ctx, span := otel.Tracer("favoritesService").Start(ctx, "Toggle", trace.WithAttributes(
		attribute.String("user.id", userID),
		attribute.String("place.id", ref.String()),
	))
	defer span.End()

	if userID == "" {
		span.SetStatus(codes.Ok, "Guest toggle ignored")
		return false, nil
	}

	l := s.logger.With(slog.String("method", "Toggle"), slog.String("userID", userID))

	state, err := s.repo.Toggle(ctx, userID, ref)
	if err != nil {
		l.ErrorContext(ctx, "Failed to toggle favorite", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to toggle favorite")
		return false, err
	}

	l.DebugContext(ctx, "Favorite toggled", slog.String("place", ref.String()), slog.Bool("favorited", state))
	span.SetStatus(codes.Ok, "Favorite toggled")
	return state, nil
}

func (s *ServiceImpl) List(ctx context.Context, userID string) ([]catalog.CityPlace, error) {
	ctx, span := otel.Tracer("favoritesService").Start(ctx, "List", trace.WithAttributes(
		attribute.String("user.id", userID),
	))
	defer span.End()

	if userID == "" {
		span.SetStatus(codes.Ok, "Guest has no favorites")
		return nil, nil
	}

	ids, err := s.repo.List(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to load favorites")
		return nil, err
	}

	places := make([]catalog.CityPlace, 0, len(ids))
	for _, id := range ids {
		place, err := s.catalog.ResolveComposite(id)
		if err != nil {
			// Dangling favorite: the catalog moved on, the key did not.
			s.logger.DebugContext(ctx, "Skipping unresolvable favorite", slog.String("id", id))
			continue
		}
		places = append(places, *place)
	}
	span.SetStatus(codes.Ok, "Favorites listed")
	return places, nil
}
