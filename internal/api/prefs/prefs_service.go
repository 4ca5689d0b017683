package prefs

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kelana-travel/kelana/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	// Theme returns the saved theme, defaulting to light. Guests share one
	// theme key.
	Theme(ctx context.Context, userID string) (string, error)
	SetTheme(ctx context.Context, userID, theme string) error
	// Language returns the user's saved language or the configured default.
	// Guest language is never persisted.
	Language(ctx context.Context, userID string) (string, error)
	SetLanguage(ctx context.Context, userID, lang string) error
}

type ServiceImpl struct {
	logger      *slog.Logger
	repo        Repository
	defaultLang string
}

func NewService(repo Repository, defaultLang string, logger *slog.Logger) *ServiceImpl {
	if defaultLang == "" {
		defaultLang = types.DefaultLanguage
	}
	return &ServiceImpl{logger: logger, repo: repo, defaultLang: defaultLang}
}

func (s *ServiceImpl) Theme(ctx context.Context, userID string) (string, error) {
	theme, err := s.repo.Theme(ctx, userID)
	if err != nil {
		return "", err
	}
	if theme != types.ThemeLight && theme != types.ThemeDark {
		return types.ThemeLight, nil
	}
	return theme, nil
}

func (s *ServiceImpl) SetTheme(ctx context.Context, userID, theme string) error {
	ctx, span := otel.Tracer("prefsService").Start(ctx, "SetTheme", trace.WithAttributes(
		attribute.String("user.id", userID),
		attribute.String("theme", theme),
	))
	defer span.End()

	if theme != types.ThemeLight && theme != types.ThemeDark {
		return fmt.Errorf("unknown theme %q: %w", theme, types.ErrValidation)
	}
	if err := s.repo.SetTheme(ctx, userID, theme); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to save theme")
		return err
	}
	s.logger.DebugContext(ctx, "Theme saved", slog.String("userID", userID), slog.String("theme", theme))
	span.SetStatus(codes.Ok, "Theme saved")
	return nil
}

func (s *ServiceImpl) Language(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return s.defaultLang, nil
	}
	lang, err := s.repo.Language(ctx, userID)
	if err != nil {
		return "", err
	}
	if !types.IsSupportedLanguage(lang) {
		return s.defaultLang, nil
	}
	return lang, nil
}

func (s *ServiceImpl) SetLanguage(ctx context.Context, userID, lang string) error {
	ctx, span := otel.Tracer("prefsService").Start(ctx, "SetLanguage", trace.WithAttributes(
		attribute.String("user.id", userID),
		attribute.String("lang", lang),
	))
	defer span.End()

	if !types.IsSupportedLanguage(lang) {
		return fmt.Errorf("unsupported language %q: %w", lang, types.ErrValidation)
	}
	if userID == "" {
		// Guest language lives only in the running session, as in the
		// original UI.
		span.SetStatus(codes.Ok, "Guest language not persisted")
		return nil
	}
	if err := s.repo.SetLanguage(ctx, userID, lang); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to save language")
		return err
	}
	span.SetStatus(codes.Ok, "Language saved")
	return nil
}
