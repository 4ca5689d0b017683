package reviews

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kelana-travel/kelana/internal/catalog"
	"github.com/kelana-travel/kelana/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	ListForPlace(ctx context.Context, ref types.PlaceRef) ([]types.Review, error)
	ListForUser(ctx context.Context, userID string) ([]types.UserReview, error)
	// Submit validates the draft and writes it: editing a known (ID, Date)
	// pair replaces in place, anything else appends. Validation failures
	// abort before any write.
	Submit(ctx context.Context, ref types.PlaceRef, draft types.Review, editing *types.Review) (*types.Review, error)
	Delete(ctx context.Context, ref types.PlaceRef, review types.Review) error
}

type ServiceImpl struct {
	logger  *slog.Logger
	repo    Repository
	catalog *catalog.Catalog
}

func NewService(repo Repository, cat *catalog.Catalog, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{logger: logger, repo: repo, catalog: cat}
}

func (s *ServiceImpl) ListForPlace(ctx context.Context, ref types.PlaceRef) ([]types.Review, error) {
	ctx, span := otel.Tracer("reviewsService").Start(ctx, "ListForPlace", trace.WithAttributes(
		attribute.String("place.id", ref.String()),
	))
	defer span.End()

	reviews, err := s.repo.ListForPlace(ctx, ref)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to load reviews")
		return nil, err
	}
	span.SetStatus(codes.Ok, "Reviews listed")
	return reviews, nil
}

func (s *ServiceImpl) ListForUser(ctx context.Context, userID string) ([]types.UserReview, error) {
	ctx, span := otel.Tracer("reviewsService").Start(ctx, "ListForUser", trace.WithAttributes(
		attribute.String("user.id", userID),
	))
	defer span.End()

	if userID == "" {
		span.SetStatus(codes.Ok, "Guest has no reviews")
		return nil, nil
	}

	reviews, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to scan reviews")
		return nil, err
	}
	span.SetStatus(codes.Ok, "Reviews scanned")
	return reviews, nil
}

func validateDraft(draft types.Review) error {
	if draft.Rating < types.ReviewMinRating || draft.Rating > types.ReviewMaxRating {
		return fmt.Errorf("rating must be between %d and %d: %w",
			types.ReviewMinRating, types.ReviewMaxRating, types.ErrValidation)
	}
	if len(strings.TrimSpace(draft.Title)) < types.ReviewMinTitleLen {
		return fmt.Errorf("title must be at least %d characters: %w", types.ReviewMinTitleLen, types.ErrValidation)
	}
	if len(strings.TrimSpace(draft.Text)) < types.ReviewMinTextLen {
		return fmt.Errorf("review text must be at least %d characters: %w", types.ReviewMinTextLen, types.ErrValidation)
	}
	if draft.Photo == "" {
		return fmt.Errorf("a photo is required: %w", types.ErrValidation)
	}
	return nil
}

func (s *ServiceImpl) Submit(ctx context.Context, ref types.PlaceRef, draft types.Review, editing *types.Review) (*types.Review, error) {
	ctx, span := otel.Tracer("reviewsService").Start(ctx, "Submit", trace.WithAttributes(
		attribute.String("place.id", ref.String()),
		attribute.String("user.id", draft.AuthorID),
		attribute.Bool("editing", editing != nil),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Submit"), slog.String("place", ref.String()))

	if draft.AuthorID == "" {
		return nil, fmt.Errorf("login required to review: %w", types.ErrValidation)
	}
	if _, err := s.catalog.ResolvePlace(ref); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Unknown place")
		return nil, err
	}
	if err := validateDraft(draft); err != nil {
		l.DebugContext(ctx, "Review rejected", slog.Any("error", err))
		span.SetStatus(codes.Error, "Review rejected")
		return nil, err
	}
	draft.Title = strings.TrimSpace(draft.Title)
	draft.Text = strings.TrimSpace(draft.Text)

	review, err := s.repo.Upsert(ctx, ref, draft, editing)
	if err != nil {
		l.ErrorContext(ctx, "Failed to save review", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to save review")
		return nil, err
	}

	l.InfoContext(ctx, "Review saved", slog.Int64("reviewID", review.ID))
	span.SetStatus(codes.Ok, "Review saved")
	return review, nil
}

func (s *ServiceImpl) Delete(ctx context.Context, ref types.PlaceRef, review types.Review) error {
	ctx, span := otel.Tracer("reviewsService").Start(ctx, "Delete", trace.WithAttributes(
		attribute.String("place.id", ref.String()),
		attribute.Int64("review.id", review.ID),
	))
	defer span.End()

	if err := s.repo.Delete(ctx, ref, review); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to delete review")
		return err
	}
	s.logger.InfoContext(ctx, "Review deleted",
		slog.String("place", ref.String()), slog.Int64("reviewID", review.ID))
	span.SetStatus(codes.Ok, "Review deleted")
	return nil
}
