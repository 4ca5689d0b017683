package prefs

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kelana-travel/kelana/app/kv"
	"github.com/kelana-travel/kelana/internal/types"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testService(t *testing.T) (*ServiceImpl, kv.Store) {
	t.Helper()
	store := kv.NewMemory()
	repo := NewRepository(store, testLogger())
	return NewService(repo, "en", testLogger()), store
}

func TestService_Theme(t *testing.T) {
	ctx := context.Background()
	svc, store := testService(t)

	t.Run("defaults to light", func(t *testing.T) {
		theme, err := svc.Theme(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, types.ThemeLight, theme)
	})

	t.Run("set and read back", func(t *testing.T) {
		require.NoError(t, svc.SetTheme(ctx, "u1", types.ThemeDark))
		theme, err := svc.Theme(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, types.ThemeDark, theme)
	})

	t.Run("unknown theme is rejected", func(t *testing.T) {
		assert.ErrorIs(t, svc.SetTheme(ctx, "u1", "sepia"), types.ErrValidation)
	})

	t.Run("corrupt stored value falls back to light", func(t *testing.T) {
		require.NoError(t, kv.SetJSON(ctx, store, themeKey("u2"), "neon"))
		theme, err := svc.Theme(ctx, "u2")
		require.NoError(t, err)
		assert.Equal(t, types.ThemeLight, theme)
	})

	t.Run("guests share one theme key", func(t *testing.T) {
		require.NoError(t, svc.SetTheme(ctx, "", types.ThemeDark))

		var stored string
		ok, err := kv.GetJSON(ctx, store, guestThemeKey, &stored)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, types.ThemeDark, stored)

		theme, err := svc.Theme(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, types.ThemeDark, theme)
	})
}

func TestService_Language(t *testing.T) {
	ctx := context.Background()
	svc, store := testService(t)

	t.Run("defaults to the configured language", func(t *testing.T) {
		lang, err := svc.Language(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, "en", lang)
	})

	t.Run("set and read back", func(t *testing.T) {
		require.NoError(t, svc.SetLanguage(ctx, "u1", "id"))
		lang, err := svc.Language(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, "id", lang)
	})

	t.Run("unsupported language is rejected", func(t *testing.T) {
		assert.ErrorIs(t, svc.SetLanguage(ctx, "u1", "fr"), types.ErrValidation)
	})

	t.Run("stored unsupported language falls back to the default", func(t *testing.T) {
		require.NoError(t, kv.SetJSON(ctx, store, langKey("u3"), "xx"))
		lang, err := svc.Language(ctx, "u3")
		require.NoError(t, err)
		assert.Equal(t, "en", lang)
	})

	t.Run("guest language is never persisted", func(t *testing.T) {
		require.NoError(t, svc.SetLanguage(ctx, "", "id"))

		keys, err := store.Keys(ctx, langKeyPrefix)
		require.NoError(t, err)
		assert.Empty(t, keys)

		lang, err := svc.Language(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, "en", lang)
	})
}
