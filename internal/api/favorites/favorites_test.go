package favorites

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kelana-travel/kelana/app/kv"
	"github.com/kelana-travel/kelana/internal/catalog"
	"github.com/kelana-travel/kelana/internal/types"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testService(t *testing.T) (*ServiceImpl, kv.Store) {
	t.Helper()
	store := kv.NewMemory()
	cat, err := catalog.Load("", testLogger())
	require.NoError(t, err)
	repo := NewRepository(store, testLogger())
	return NewService(repo, cat, testLogger()), store
}

func TestRepository_Toggle(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(kv.NewMemory(), testLogger())
	kuta := types.PlaceRef{City: "Bali", Place: "Kuta Beach"}

	state, err := repo.Toggle(ctx, "u1", kuta)
	require.NoError(t, err)
	assert.True(t, state)

	fav, err := repo.IsFavorite(ctx, "u1", kuta)
	require.NoError(t, err)
	assert.True(t, fav)

	// Toggling again removes it; two toggles always return to the start.
	state, err = repo.Toggle(ctx, "u1", kuta)
	require.NoError(t, err)
	assert.False(t, state)

	ids, err := repo.List(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestRepository_Toggle_PerUser(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(kv.NewMemory(), testLogger())
	kuta := types.PlaceRef{City: "Bali", Place: "Kuta Beach"}

	_, err := repo.Toggle(ctx, "u1", kuta)
	require.NoError(t, err)

	fav, err := repo.IsFavorite(ctx, "u2", kuta)
	require.NoError(t, err)
	assert.False(t, fav)
}

func TestService_GuestNoOps(t *testing.T) {
	ctx := context.Background()
	svc, store := testService(t)
	kuta := types.PlaceRef{City: "Bali", Place: "Kuta Beach"}

	state, err := svc.Toggle(ctx, "", kuta)
	require.NoError(t, err)
	assert.False(t, state)

	// Nothing was written for the guest.
	keys, err := store.Keys(ctx, keyPrefix)
	require.NoError(t, err)
	assert.Empty(t, keys)

	places, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Nil(t, places)
}

func TestService_List_ResolvesAndSkipsDangling(t *testing.T) {
	ctx := context.Background()
	svc, store := testService(t)

	// One resolvable favorite and one whose place left the catalog.
	require.NoError(t, kv.SetJSON(ctx, store, favoritesKey("u1"),
		[]string{"Bali-Kuta Beach", "Bali-Closed Attraction"}))

	places, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, places, 1)
	assert.Equal(t, "Bali", places[0].City)
	assert.Equal(t, "Kuta Beach", places[0].Ref.Place)
}
