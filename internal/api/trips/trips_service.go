package trips

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kelana-travel/kelana/internal/catalog"
	"github.com/kelana-travel/kelana/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	List(ctx context.Context, userID string) ([]types.Trip, error)
	// Create validates the name, resolves the destination against the
	// catalog and appends a new trip without dates.
	Create(ctx context.Context, userID, name, destinationID string) (*types.Trip, error)
	// SetDates overwrites both dates together; when both are set the end
	// must not precede the start.
	SetDates(ctx context.Context, userID string, tripID int64, start, end *time.Time) error
	Delete(ctx context.Context, userID string, tripID int64) error
}

type ServiceImpl struct {
	logger  *slog.Logger
	repo    Repository
	catalog *catalog.Catalog
}

func NewService(repo Repository, cat *catalog.Catalog, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{logger: logger, repo: repo, catalog: cat}
}

func (s *ServiceImpl) List(ctx context.Context, userID string) ([]types.Trip, error) {
	ctx, span := otel.Tracer("tripsService").Start(ctx, "List", trace.WithAttributes(
		attribute.String("user.id", userID),
	))
	defer span.End()

	if userID == "" {
		span.SetStatus(codes.Ok, "Guest has no trips")
		return nil, nil
	}

	trips, err := s.repo.List(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to load trips")
		return nil, err
	}
	span.SetStatus(codes.Ok, "Trips listed")
	return trips, nil
}

func (s *ServiceImpl) Create(ctx context.Context, userID, name, destinationID string) (*types.Trip, error) {
	ctx, span := otel.Tracer("tripsService").Start(ctx, "Create", trace.WithAttributes(
		attribute.String("user.id", userID),
		attribute.String("trip.destination", destinationID),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Create"), slog.String("userID", userID))

	if userID == "" {
		return nil, fmt.Errorf("login required to create trips: %w", types.ErrValidation)
	}
	name = strings.TrimSpace(name)
	destinationID = strings.TrimSpace(destinationID)
	if name == "" || destinationID == "" {
		return nil, fmt.Errorf("trip name and destination are required: %w", types.ErrValidation)
	}

	dest, err := s.catalog.ResolveComposite(destinationID)
	if err != nil {
		l.WarnContext(ctx, "Unknown trip destination", slog.String("destination", destinationID))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Unknown destination")
		return nil, err
	}

	trip := types.Trip{
		ID:            time.Now().UnixMilli(),
		Name:          name,
		DestinationID: dest.Ref.String(),
		Image:         dest.Image,
	}
	if err := s.repo.Append(ctx, userID, trip); err != nil {
		l.ErrorContext(ctx, "Failed to save trip", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to save trip")
		return nil, err
	}

	l.InfoContext(ctx, "Trip created", slog.Int64("tripID", trip.ID), slog.String("destination", trip.DestinationID))
	span.SetStatus(codes.Ok, "Trip created")
	return &trip, nil
}

func (s *ServiceImpl) SetDates(ctx context.Context, userID string, tripID int64, start, end *time.Time) error {
	ctx, span := otel.Tracer("tripsService").Start(ctx, "SetDates", trace.WithAttributes(
		attribute.String("user.id", userID),
		attribute.Int64("trip.id", tripID),
	))
	defer span.End()

	if start != nil && end != nil && end.Before(*start) {
		return fmt.Errorf("trip end date precedes start date: %w", types.ErrValidation)
	}

	if err := s.repo.SetDates(ctx, userID, tripID, start, end); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to set trip dates")
		return err
	}
	span.SetStatus(codes.Ok, "Trip dates set")
	return nil
}

func (s *ServiceImpl) Delete(ctx context.Context, userID string, tripID int64) error {
	ctx, span := otel.Tracer("tripsService").Start(ctx, "Delete", trace.WithAttributes(
		attribute.String("user.id", userID),
		attribute.Int64("trip.id", tripID),
	))
	defer span.End()

	if err := s.repo.Delete(ctx, userID, tripID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to delete trip")
		return err
	}
	s.logger.InfoContext(ctx, "Trip deleted", slog.String("userID", userID), slog.Int64("tripID", tripID))
	span.SetStatus(codes.Ok, "Trip deleted")
	return nil
}
