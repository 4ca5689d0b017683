package kv

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "kelana.db.json")

	store, err := NewFile(path, testLogger())
	require.NoError(t, err)

	t.Run("absent key returns nil", func(t *testing.T) {
		raw, err := store.Get(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, raw)
	})

	t.Run("set persists across instances", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "user", []byte(`{"id":"u1","username":"alice"}`)))

		reopened, err := NewFile(path, testLogger())
		require.NoError(t, err)
		raw, err := reopened.Get(ctx, "user")
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":"u1","username":"alice"}`, string(raw))
	})

	t.Run("rejects values that are not JSON", func(t *testing.T) {
		assert.Error(t, store.Set(ctx, "bad", []byte("not json")))
	})

	t.Run("delete rewrites the document", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "theme_guest", []byte(`"dark"`)))
		require.NoError(t, store.Delete(ctx, "theme_guest"))
		raw, err := store.Get(ctx, "theme_guest")
		require.NoError(t, err)
		assert.Nil(t, raw)
	})

	t.Run("keys filters by prefix", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "trips_u1", []byte(`[]`)))
		require.NoError(t, store.Set(ctx, "trips_u2", []byte(`[]`)))
		keys, err := store.Keys(ctx, "trips_")
		require.NoError(t, err)
		assert.Equal(t, []string{"trips_u1", "trips_u2"}, keys)
	})

	t.Run("corrupt file is treated as empty", func(t *testing.T) {
		corruptPath := filepath.Join(t.TempDir(), "corrupt.json")
		require.NoError(t, os.WriteFile(corruptPath, []byte("{{{{"), 0o644))

		corrupt, err := NewFile(corruptPath, testLogger())
		require.NoError(t, err)
		raw, err := corrupt.Get(ctx, "anything")
		require.NoError(t, err)
		assert.Nil(t, raw)

		// Writing afterwards starts a fresh document.
		require.NoError(t, corrupt.Set(ctx, "user", []byte(`"x"`)))
		raw, err = corrupt.Get(ctx, "user")
		require.NoError(t, err)
		assert.Equal(t, []byte(`"x"`), raw)
	})
}

func TestFile_Watch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	path := filepath.Join(t.TempDir(), "kelana.db.json")
	store, err := NewFile(path, testLogger())
	require.NoError(t, err)

	events, err := store.Watch(ctx)
	require.NoError(t, err)

	// An external writer replacing the file must produce an event.
	writer, err := NewFile(path, testLogger())
	require.NoError(t, err)
	require.NoError(t, writer.Set(ctx, "user", []byte(`{"id":"u1"}`)))

	select {
	case _, ok := <-events:
		assert.True(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a storage change event")
	}
}
