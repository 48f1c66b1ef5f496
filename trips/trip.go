// Package trips keeps the user's trips and favorites and persists them as a
// single JSON document in a data.Store.
package trips

import (
	"time"

	"tripspotter/places"
)

// Location is a place saved into a trip. Order is 1-based and contiguous.
type Location struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Category places.Category `json:"category"`
	Lat      float64         `json:"lat"`
	Lng      float64         `json:"lng"`
	Order    int             `json:"order"`
}

// LocationOf copies the fields of p a trip keeps.
func LocationOf(p *places.Place) Location {
	return Location{
		ID:       p.ID,
		Name:     p.Name,
		Category: p.Category,
		Lat:      p.Lat,
		Lng:      p.Lng,
	}
}

// Trip is a named, dated collection of locations.
type Trip struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	StartDate string     `json:"startDate"`
	EndDate   string     `json:"endDate"`
	Icon      string     `json:"icon"`
	Notes     string     `json:"notes"`
	Locations []Location `json:"locations"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Has reports whether a location with id is already in the trip.
func (t *Trip) Has(id string) bool {
	for _, l := range t.Locations {
		if l.ID == id {
			return true
		}
	}
	return false
}

func (t *Trip) renumber() {
	for i := range t.Locations {
		t.Locations[i].Order = i + 1
	}
}

func (t *Trip) clone() *Trip {
	c := *t
	c.Locations = append([]Location{}, t.Locations...)
	return &c
}

// Snapshot is the copy of a place kept for a favorite, so the favorite
// survives the working list being replaced.
type Snapshot struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Category    places.Category `json:"category"`
	Description string          `json:"description"`
	Lat         float64         `json:"lat"`
	Lng         float64         `json:"lng"`
	Tags        places.Tags     `json:"tags,omitempty"`
}

// SnapshotOf copies p into a favorite snapshot.
func SnapshotOf(p *places.Place) *Snapshot {
	return &Snapshot{
		ID:          p.ID,
		Name:        p.Name,
		Category:    p.Category,
		Description: p.Description,
		Lat:         p.Lat,
		Lng:         p.Lng,
		Tags:        p.Tags,
	}
}

// Place turns the snapshot back into a place record.
func (s *Snapshot) Place() *places.Place {
	return &places.Place{
		ID:          s.ID,
		Name:        s.Name,
		Category:    s.Category,
		Description: s.Description,
		Lat:         s.Lat,
		Lng:         s.Lng,
		Tags:        s.Tags,
	}
}

// State is the persisted document.
type State struct {
	Trips          []*Trip    `json:"trips"`
	Favorites      []string   `json:"favorites"`
	FavoritePlaces []Snapshot `json:"favoritePlaces"`
}

// Stats are the counters shown next to the trip list.
type Stats struct {
	Trips     int `json:"trips"`
	Favorites int `json:"favorites"`
	Places    int `json:"places"` // locations across all trips
}
