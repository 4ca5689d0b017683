package discover

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kelana-travel/kelana/internal/catalog"
	"github.com/kelana-travel/kelana/internal/types"
)

func loadTestCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Load("", slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return c
}

func TestSearch(t *testing.T) {
	entries := loadTestCatalog(t).Flatten("en")

	t.Run("case-insensitive substring match", func(t *testing.T) {
		hits := Search(entries, "beACH")
		require.Len(t, hits, 1)
		assert.Equal(t, "Kuta Beach", hits[0].Name)
	})

	t.Run("matches cities and places alike", func(t *testing.T) {
		hits := Search(entries, "bali")
		require.Len(t, hits, 1)
		assert.Equal(t, types.EntryCity, hits[0].Kind)
	})

	t.Run("blank query matches nothing", func(t *testing.T) {
		assert.Nil(t, Search(entries, ""))
		assert.Nil(t, Search(entries, "   "))
	})

	t.Run("matches against the resolved language", func(t *testing.T) {
		localized := loadTestCatalog(t).Flatten("id")
		hits := Search(localized, "pantai kuta")
		require.Len(t, hits, 1)
		assert.Equal(t, "Pantai Kuta", hits[0].Name)
	})
}

func TestFilterByCity(t *testing.T) {
	places := loadTestCatalog(t).Places()

	t.Run("exact city match", func(t *testing.T) {
		bali := FilterByCity(places, "Bali")
		require.Len(t, bali, 3)
		for _, p := range bali {
			assert.Equal(t, "Bali", p.City)
		}
	})

	t.Run("sentinel passes everything through", func(t *testing.T) {
		assert.Len(t, FilterByCity(places, "All"), len(places))
		assert.Len(t, FilterByCity(places, "aLL"), len(places))
	})

	t.Run("unknown city yields nothing", func(t *testing.T) {
		assert.Empty(t, FilterByCity(places, "Atlantis"))
	})
}

func TestSort(t *testing.T) {
	places := loadTestCatalog(t).Places()

	t.Run("by rating descending", func(t *testing.T) {
		sorted := Sort(places, SortByRating, "en")
		require.Len(t, sorted, len(places))
		for i := 1; i < len(sorted); i++ {
			assert.GreaterOrEqual(t, sorted[i-1].Rating, sorted[i].Rating)
		}
		assert.Equal(t, "Borobudur Temple", sorted[0].Name.Resolve("en"))
	})

	t.Run("by name ascending", func(t *testing.T) {
		sorted := Sort(places, SortByName, "en")
		require.Len(t, sorted, len(places))
		for i := 1; i < len(sorted); i++ {
			assert.LessOrEqual(t, sorted[i-1].Name.Resolve("en"), sorted[i].Name.Resolve("en"))
		}
	})

	t.Run("input slice is left untouched", func(t *testing.T) {
		first := places[0].Name.Resolve("en")
		Sort(places, SortByName, "en")
		assert.Equal(t, first, places[0].Name.Resolve("en"))
	})
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	t.Run("concatenated pages reconstruct the input", func(t *testing.T) {
		page1 := Paginate(items, 1, 3)
		page2 := Paginate(items, 2, 3)
		page3 := Paginate(items, 3, 3)

		assert.Equal(t, 3, page1.TotalPages)
		var all []int
		all = append(all, page1.Items...)
		all = append(all, page2.Items...)
		all = append(all, page3.Items...)
		assert.Equal(t, items, all)
	})

	t.Run("page below one clamps to the first page", func(t *testing.T) {
		page := Paginate(items, 0, 3)
		assert.Equal(t, 1, page.Page)
		assert.Equal(t, []int{1, 2, 3}, page.Items)
	})

	t.Run("page beyond the last is empty", func(t *testing.T) {
		page := Paginate(items, 9, 3)
		assert.Empty(t, page.Items)
		assert.Equal(t, 3, page.TotalPages)
	})

	t.Run("empty input", func(t *testing.T) {
		page := Paginate([]int{}, 1, 3)
		assert.Empty(t, page.Items)
		assert.Equal(t, 0, page.TotalPages)
	})

	t.Run("non-positive size falls back to the default", func(t *testing.T) {
		page := Paginate(items, 1, 0)
		assert.Len(t, page.Items, 7)
		assert.Equal(t, 1, page.TotalPages)
	})
}
