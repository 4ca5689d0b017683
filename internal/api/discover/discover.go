// Package discover is the query engine over the static catalog: free-text
// search, city filtering, sorting and pagination. Everything here is a pure
// function over in-memory snapshots; nothing touches the kv layer.
package discover

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/kelana-travel/kelana/internal/catalog"
	"github.com/kelana-travel/kelana/internal/types"
)

// AllCities is the sentinel filter value meaning "no city filter".
const AllCities = "All"

type SortKey string

const (
	SortByRating SortKey = "rating"
	SortByName   SortKey = "name"
)

// Search returns entries whose display name contains query, case
// insensitively, preserving input order. A blank query matches nothing: the
// typeahead shows no suggestions until the user types.
func Search(entries []types.FlatEntry, query string) []types.FlatEntry {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var out []types.FlatEntry
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Name), q) {
			out = append(out, e)
		}
	}
	return out
}

// FilterByCity keeps places whose city matches exactly. The AllCities
// sentinel (case-insensitive) passes everything through.
func FilterByCity(places []catalog.CityPlace, city string) []catalog.CityPlace {
	if strings.EqualFold(city, AllCities) {
		return places
	}
	var out []catalog.CityPlace
	for _, p := range places {
		if p.City == city {
			out = append(out, p)
		}
	}
	return out
}

// Sort returns a sorted copy: rating descending, or display name ascending
// under the collation rules of lang. The sort is stable so equal keys keep
// their catalog order, and the input slice is never reordered.
func Sort(places []catalog.CityPlace, key SortKey, lang string) []catalog.CityPlace {
	out := make([]catalog.CityPlace, len(places))
	copy(out, places)

	switch key {
	case SortByRating:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Rating > out[j].Rating
		})
	case SortByName:
		coll := collate.New(language.Make(lang))
		sort.SliceStable(out, func(i, j int) bool {
			return coll.CompareString(out[i].Name.Resolve(lang), out[j].Name.Resolve(lang)) < 0
		})
	}
	return out
}

// Page is one page of results plus the page count for the whole input.
type Page[T any] struct {
	Items      []T
	Page       int
	TotalPages int
}

// Paginate slices items into 1-indexed pages of the given size. Pages below
// 1 clamp to the first page; pages beyond the last yield an empty slice.
// Concatenating pages 1..TotalPages reconstructs the input exactly.
func Paginate[T any](items []T, page, size int) Page[T] {
	if size <= 0 {
		size = 10
	}
	total := (len(items) + size - 1) / size
	if page < 1 {
		page = 1
	}
	if len(items) == 0 || page > total {
		return Page[T]{Items: []T{}, Page: page, TotalPages: total}
	}

	start := (page - 1) * size
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return Page[T]{Items: items[start:end], Page: page, TotalPages: total}
}
