package types

import "strings"

// City is one entry of the static catalog. The catalog is loaded once at
// startup and never mutated.
type City struct {
	ID          string        `json:"id"`
	Name        string        `json:"city"`
	Description LocalizedText `json:"description"`
	Places      []Place       `json:"places"`
}

// Place is a point of interest inside a city.
type Place struct {
	Name        LocalizedText `json:"name"`
	Category    LocalizedText `json:"category"`
	Rating      float64       `json:"rating"`
	Image       string        `json:"image"`
	Description LocalizedText `json:"description"`
	Hotels      []Lodging     `json:"hotels,omitempty"`
	Restaurants []Lodging     `json:"restaurants,omitempty"`
}

// Lodging is a hotel or restaurant attached to a place.
type Lodging struct {
	Name   string  `json:"name"`
	Rating float64 `json:"rating,omitempty"`
	Image  string  `json:"image,omitempty"`
}

// PlaceRef addresses a place by its city name and its English place name.
// It is the internal currency for place identity; the concatenated composite
// string only appears at the storage-key and routing boundary.
type PlaceRef struct {
	City  string
	Place string
}

// String renders the composite identifier used as a storage key fragment and
// as a route parameter. Writes and reads must agree on this rendering.
func (r PlaceRef) String() string {
	return r.City + "-" + r.Place
}

// IsZero reports whether the ref is empty.
func (r PlaceRef) IsZero() bool {
	return r.City == "" && r.Place == ""
}

// ParsePlaceRef splits a composite identifier on the first "-". City names in
// the catalog never contain the separator; place names may, so everything
// after the first separator belongs to the place.
func ParsePlaceRef(composite string) (PlaceRef, bool) {
	city, place, ok := strings.Cut(composite, "-")
	if !ok || city == "" || place == "" {
		return PlaceRef{}, false
	}
	return PlaceRef{City: city, Place: place}, true
}

// FlatEntry is one row of the flattened catalog used for typeahead search.
// Kind distinguishes city rows from place rows.
type FlatEntry struct {
	Kind  EntryKind `json:"kind"`
	Ref   PlaceRef  `json:"ref"`
	Name  string    `json:"name"`
	City  string    `json:"city"`
	Image string    `json:"image,omitempty"`
}

type EntryKind string

const (
	EntryCity  EntryKind = "city"
	EntryPlace EntryKind = "place"
)
