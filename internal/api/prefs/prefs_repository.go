package prefs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kelana-travel/kelana/app/kv"
)

// Theme keys are per user with a shared key for guests; language is only
// persisted for logged-in users.
const (
	themeKeyPrefix = "theme_"
	guestThemeKey  = "theme_guest"
	langKeyPrefix  = "lang_"
)

func themeKey(userID string) string {
	if userID == "" {
		return guestThemeKey
	}
	return themeKeyPrefix + userID
}

func langKey(userID string) string {
	return langKeyPrefix + userID
}

var _ Repository = (*RepositoryImpl)(nil)

type Repository interface {
	Theme(ctx context.Context, userID string) (string, error)
	SetTheme(ctx context.Context, userID, theme string) error
	Language(ctx context.Context, userID string) (string, error)
	SetLanguage(ctx context.Context, userID, lang string) error
}

type RepositoryImpl struct {
	logger *slog.Logger
	store  kv.Store
}

func NewRepository(store kv.Store, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{logger: logger, store: store}
}

func (r *RepositoryImpl) Theme(ctx context.Context, userID string) (string, error) {
	var theme string
	if _, err := kv.GetJSON(ctx, r.store, themeKey(userID), &theme); err != nil {
		return "", fmt.Errorf("load theme: %w", err)
	}
	return theme, nil
}

func (r *RepositoryImpl) SetTheme(ctx context.Context, userID, theme string) error {
	if err := kv.SetJSON(ctx, r.store, themeKey(userID), theme); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	return nil
}

func (r *RepositoryImpl) Language(ctx context.Context, userID string) (string, error) {
	var lang string
	if _, err := kv.GetJSON(ctx, r.store, langKey(userID), &lang); err != nil {
		return "", fmt.Errorf("load language: %w", err)
	}
	return lang, nil
}

func (r *RepositoryImpl) SetLanguage(ctx context.Context, userID, lang string) error {
	if err := kv.SetJSON(ctx, r.store, langKey(userID), lang); err != nil {
		return fmt.Errorf("save language: %w", err)
	}
	return nil
}
