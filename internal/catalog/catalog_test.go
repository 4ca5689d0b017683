package catalog

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kelana-travel/kelana/internal/types"
)

func loadTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := Load("", slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return c
}

func TestLoad_Embedded(t *testing.T) {
	c := loadTestCatalog(t)

	assert.Len(t, c.Cities(), 3)
	assert.Len(t, c.Places(), 7)

	city, err := c.City("Bali")
	require.NoError(t, err)
	assert.Len(t, city.Places, 3)

	_, err = c.City("Atlantis")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestCatalog_ResolvePlace(t *testing.T) {
	c := loadTestCatalog(t)

	place, err := c.ResolvePlace(types.PlaceRef{City: "Bali", Place: "Kuta Beach"})
	require.NoError(t, err)
	assert.Equal(t, "Bali", place.City)
	assert.Equal(t, "Kuta Beach", place.Name.Resolve("en"))
	assert.InDelta(t, 4.5, place.Rating, 0.001)

	_, err = c.ResolvePlace(types.PlaceRef{City: "Bali", Place: "Nowhere"})
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestCatalog_ResolveComposite(t *testing.T) {
	c := loadTestCatalog(t)

	t.Run("valid composite", func(t *testing.T) {
		place, err := c.ResolveComposite("Yogyakarta-Borobudur Temple")
		require.NoError(t, err)
		assert.Equal(t, "Yogyakarta", place.City)
	})

	t.Run("malformed composite", func(t *testing.T) {
		_, err := c.ResolveComposite("no separator here")
		assert.ErrorIs(t, err, types.ErrNotFound)
	})

	t.Run("unknown place", func(t *testing.T) {
		_, err := c.ResolveComposite("Jakarta-Lost Lagoon")
		assert.ErrorIs(t, err, types.ErrNotFound)
	})
}

func TestCatalog_Flatten(t *testing.T) {
	c := loadTestCatalog(t)

	entries := c.Flatten("id")
	require.Len(t, entries, 10)

	var cities, places int
	for _, e := range entries {
		switch e.Kind {
		case types.EntryCity:
			cities++
		case types.EntryPlace:
			places++
		}
	}
	assert.Equal(t, 3, cities)
	assert.Equal(t, 7, places)

	// Place names resolve in the requested language while refs keep the
	// canonical english form used for storage keys.
	var kuta *types.FlatEntry
	for i := range entries {
		if entries[i].Ref == (types.PlaceRef{City: "Bali", Place: "Kuta Beach"}) {
			kuta = &entries[i]
			break
		}
	}
	require.NotNil(t, kuta)
	assert.Equal(t, "Pantai Kuta", kuta.Name)
	assert.Equal(t, "Bali", kuta.City)
}
