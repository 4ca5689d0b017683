package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kelana-travel/kelana/internal/types"
)

// Registration form limits, mirrored from the original client validation.
const (
	minUsernameLen = 3
	minPasswordLen = 6
)

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	Register(ctx context.Context, username, password string) (*types.User, error)
	Login(ctx context.Context, username, password string) (*types.User, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (*types.User, error)
	WatchSession(ctx context.Context) (<-chan *types.User, error)
}

type ServiceImpl struct {
	logger *slog.Logger
	repo   Repository
}

func NewService(repo Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{logger: logger, repo: repo}
}

func (s *ServiceImpl) Register(ctx context.Context, username, password string) (*types.User, error) {
	ctx, span := otel.Tracer("authService").Start(ctx, "Register", trace.WithAttributes(
		attribute.String("user.username", username),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Register"), slog.String("username", username))

	username = strings.TrimSpace(username)
	if len(username) < minUsernameLen {
		return nil, fmt.Errorf("username must be at least %d characters: %w", minUsernameLen, types.ErrValidation)
	}
	if len(password) < minPasswordLen {
		return nil, fmt.Errorf("password must be at least %d characters: %w", minPasswordLen, types.ErrValidation)
	}

	user, err := s.repo.Register(ctx, username, password)
	if err != nil {
		l.WarnContext(ctx, "Registration failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Registration failed")
		return nil, err
	}

	l.InfoContext(ctx, "User registered", slog.String("userID", user.ID))
	span.SetStatus(codes.Ok, "User registered")
	return user, nil
}

func (s *ServiceImpl) Login(ctx context.Context, username, password string) (*types.User, error) {
	ctx, span := otel.Tracer("authService").Start(ctx, "Login", trace.WithAttributes(
		attribute.String("user.username", username),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Login"), slog.String("username", username))

	user, err := s.repo.Login(ctx, username, password)
	if err != nil {
		l.WarnContext(ctx, "Login failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Login failed")
		return nil, err
	}

	l.InfoContext(ctx, "User logged in", slog.String("userID", user.ID))
	span.SetStatus(codes.Ok, "User logged in")
	return user, nil
}

func (s *ServiceImpl) Logout(ctx context.Context) error {
	ctx, span := otel.Tracer("authService").Start(ctx, "Logout")
	defer span.End()

	if err := s.repo.Logout(ctx); err != nil {
		s.logger.ErrorContext(ctx, "Logout failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Logout failed")
		return err
	}
	span.SetStatus(codes.Ok, "Session cleared")
	return nil
}

func (s *ServiceImpl) CurrentUser(ctx context.Context) (*types.User, error) {
	ctx, span := otel.Tracer("authService").Start(ctx, "CurrentUser")
	defer span.End()

	user, err := s.repo.CurrentUser(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Session read failed")
		return nil, err
	}
	span.SetStatus(codes.Ok, "Session read")
	return user, nil
}

func (s *ServiceImpl) WatchSession(ctx context.Context) (<-chan *types.User, error) {
	return s.repo.WatchSession(ctx)
}
