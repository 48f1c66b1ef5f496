// Package places acquires points of interest around a map point: it queries
// Overpass API mirrors in order, classifies the tagged elements it gets back
// and turns them into distance-sorted Place records.
package places

import "strings"

// Category is the closed set of place kinds shown to the user.
type Category string

const (
	Restaurant Category = "restaurant"
	Hotel      Category = "hotel"
	Attraction Category = "attraction"
	Nature     Category = "nature"
	Shopping   Category = "shopping"
)

// Categories lists every category in display order.
var Categories = []Category{Restaurant, Hotel, Attraction, Nature, Shopping}

// ParseCategory matches s case-insensitively against the known categories.
func ParseCategory(s string) (Category, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, c := range Categories {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// Tags is the free-form key/value bag attached to an OSM element.
type Tags map[string]string

// Has reports whether key is set to a non-empty value.
func (t Tags) Has(key string) bool {
	return t[key] != ""
}

// Is reports whether key is set to one of values.
func (t Tags) Is(key string, values ...string) bool {
	v := t[key]
	if v == "" {
		return false
	}
	for _, want := range values {
		if v == want {
			return true
		}
	}
	return false
}

// Place is a named point of interest produced by one fetch.
type Place struct {
	ID          string   `json:"id"`
	OSMID       int64    `json:"osmId,omitempty"`
	Name        string   `json:"name"`
	Category    Category `json:"category"`
	Description string   `json:"description"`
	Lat         float64  `json:"lat"`
	Lng         float64  `json:"lng"`
	Tags        Tags     `json:"tags,omitempty"`
	Distance    float64  `json:"distance"` // metres from the search center
}
