// Package catalog holds the static city/place dataset. It is loaded once at
// startup and read-only afterwards; every mutable store keys into it through
// types.PlaceRef.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/kelana-travel/kelana/internal/types"
)

//go:embed data/catalog.json
var embeddedCatalog []byte

// CityPlace is a place joined with the city it belongs to, the shape the
// query engine and the per-user stores work with.
type CityPlace struct {
	types.Place
	City string
	Ref  types.PlaceRef
}

// Catalog is the immutable city/place tree plus lookup indexes.
type Catalog struct {
	cities []types.City
	byCity map[string]*types.City
	places []CityPlace
	byRef  map[types.PlaceRef]*CityPlace
}

// Load reads the catalog from path, or from the embedded dataset when path
// is empty.
func Load(path string, logger *slog.Logger) (*Catalog, error) {
	raw := embeddedCatalog
	if path != "" {
		var err error
		raw, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read catalog %q: %w", path, err)
		}
	}

	var cities []types.City
	if err := json.Unmarshal(raw, &cities); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	c := &Catalog{
		cities: cities,
		byCity: make(map[string]*types.City, len(cities)),
		byRef:  make(map[types.PlaceRef]*CityPlace),
	}
	for i := range c.cities {
		city := &c.cities[i]
		c.byCity[city.Name] = city
		for j := range city.Places {
			place := city.Places[j]
			ref := types.PlaceRef{City: city.Name, Place: place.Name.Resolve(types.DefaultLanguage)}
			c.places = append(c.places, CityPlace{Place: place, City: city.Name, Ref: ref})
		}
	}
	for i := range c.places {
		c.byRef[c.places[i].Ref] = &c.places[i]
	}

	logger.Info("Catalog loaded",
		slog.Int("cities", len(c.cities)),
		slog.Int("places", len(c.places)),
	)
	return c, nil
}

// Cities returns the city list in dataset order.
func (c *Catalog) Cities() []types.City {
	return c.cities
}

// City looks a city up by its name.
func (c *Catalog) City(name string) (*types.City, error) {
	city, ok := c.byCity[name]
	if !ok {
		return nil, fmt.Errorf("city %q: %w", name, types.ErrNotFound)
	}
	return city, nil
}

// Places returns every place across all cities, each joined with its city.
func (c *Catalog) Places() []CityPlace {
	return c.places
}

// ResolvePlace resolves a structured place reference.
func (c *Catalog) ResolvePlace(ref types.PlaceRef) (*CityPlace, error) {
	place, ok := c.byRef[ref]
	if !ok {
		return nil, fmt.Errorf("place %q: %w", ref.String(), types.ErrNotFound)
	}
	return place, nil
}

// ResolveComposite resolves a composite identifier string, the form used in
// storage keys and route parameters.
func (c *Catalog) ResolveComposite(composite string) (*CityPlace, error) {
	ref, ok := types.ParsePlaceRef(composite)
	if !ok {
		return nil, fmt.Errorf("composite id %q: %w", composite, types.ErrNotFound)
	}
	return c.ResolvePlace(ref)
}

// Flatten produces one entry per city and one per place with display names
// resolved for lang. The result feeds typeahead search.
func (c *Catalog) Flatten(lang string) []types.FlatEntry {
	entries := make([]types.FlatEntry, 0, len(c.cities)+len(c.places))
	for i := range c.cities {
		city := &c.cities[i]
		entries = append(entries, types.FlatEntry{
			Kind: types.EntryCity,
			Name: city.Name,
			City: city.Name,
		})
	}
	for i := range c.places {
		p := &c.places[i]
		entries = append(entries, types.FlatEntry{
			Kind:  types.EntryPlace,
			Ref:   p.Ref,
			Name:  p.Name.Resolve(lang),
			City:  p.City,
			Image: p.Image,
		})
	}
	return entries
}
