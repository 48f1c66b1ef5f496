package trips

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	sanitize "github.com/mrz1836/go-sanitize"

	"tripspotter/app"
	"tripspotter/data"
	"tripspotter/places"
)

// StateKey is the key the state document is stored under.
const StateKey = "travelPlannerData"

// DefaultIcon is used for trips created without one.
const DefaultIcon = "fa-umbrella-beach"

// DateLayout is the format of trip start and end dates.
const DateLayout = "2006-01-02"

var (
	ErrMissingField  = errors.New("missing required field")
	ErrInvalidDate   = errors.New("invalid date")
	ErrTripNotFound  = errors.New("trip not found")
	ErrAlreadyInTrip = errors.New("already in this trip")
)

// TripInput is the user-supplied part of a new trip.
type TripInput struct {
	Name      string
	StartDate string
	EndDate   string
	Icon      string
	Notes     string
}

// Store holds trips and favorites in memory and rewrites the whole state to
// its backend after every change.
type Store struct {
	mu    sync.RWMutex
	blob  data.Store
	state State

	// now is swapped in tests
	now func() time.Time
}

// New returns a store loaded from blob. A missing or unreadable document
// yields an empty state.
func New(blob data.Store) *Store {
	s := &Store{blob: blob, now: time.Now}
	s.load()
	return s
}

func (s *Store) load() {
	var st State
	err := data.LoadJSON(s.blob, StateKey, &st)
	switch {
	case errors.Is(err, data.ErrNotFound):
		st = State{}
	case err != nil:
		app.Log("trips", "Error loading saved data, starting empty: %v", err)
		st = State{}
	default:
		app.Log("trips", "Loaded %d trips, %d favorites", len(st.Trips), len(st.Favorites))
	}

	// drop null entries a hand-edited document may carry
	trips := make([]*Trip, 0, len(st.Trips))
	for _, t := range st.Trips {
		if t != nil {
			trips = append(trips, t)
		}
	}
	st.Trips = trips
	if st.Favorites == nil {
		st.Favorites = []string{}
	}
	if st.FavoritePlaces == nil {
		st.FavoritePlaces = []Snapshot{}
	}
	s.state = st
}

// save writes the state; callers hold the write lock. A failed write is
// logged and the in-memory state stays current.
func (s *Store) save() {
	if err := data.SaveJSON(s.blob, StateKey, &s.state); err != nil {
		app.Log("trips", "Error saving data: %v", err)
	}
}

func (s *Store) newID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:11]
	return "id_" + strconv.FormatInt(s.now().UnixMilli(), 36) + suffix
}

func (s *Store) find(id string) *Trip {
	for _, t := range s.state.Trips {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func cleanLine(v string) string {
	return strings.TrimSpace(sanitize.XSS(sanitize.SingleLine(v)))
}

// CreateTrip validates in and appends a new, empty trip.
func (s *Store) CreateTrip(in TripInput) (*Trip, error) {
	name := cleanLine(in.Name)
	start := strings.TrimSpace(in.StartDate)
	end := strings.TrimSpace(in.EndDate)

	for _, f := range []struct{ field, val string }{
		{"name", name}, {"startDate", start}, {"endDate", end},
	} {
		if f.val == "" {
			return nil, fmt.Errorf("%w: %s", ErrMissingField, f.field)
		}
	}
	from, err := time.Parse(DateLayout, start)
	if err != nil {
		return nil, fmt.Errorf("%w: startDate %q", ErrInvalidDate, start)
	}
	to, err := time.Parse(DateLayout, end)
	if err != nil {
		return nil, fmt.Errorf("%w: endDate %q", ErrInvalidDate, end)
	}
	if to.Before(from) {
		return nil, fmt.Errorf("%w: trip ends before it starts", ErrInvalidDate)
	}

	icon := sanitize.PathName(strings.TrimSpace(in.Icon))
	if icon == "" {
		icon = DefaultIcon
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := &Trip{
		ID:        s.newID(),
		Name:      name,
		StartDate: start,
		EndDate:   end,
		Icon:      icon,
		Notes:     strings.TrimSpace(sanitize.XSS(in.Notes)),
		Locations: []Location{},
		CreatedAt: s.now().UTC(),
	}
	s.state.Trips = append(s.state.Trips, t)
	s.save()
	app.Log("trips", "Created trip %s %q", t.ID, t.Name)
	return t.clone(), nil
}

// DeleteTrip removes the trip with id.
func (s *Store) DeleteTrip(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, t := range s.state.Trips {
		if t.ID == id {
			s.state.Trips = append(s.state.Trips[:i], s.state.Trips[i+1:]...)
			s.save()
			return nil
		}
	}
	return ErrTripNotFound
}

// AddPlace appends loc to the trip, numbering it after the existing stops.
func (s *Store) AddPlace(tripID string, loc Location) (*Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.find(tripID)
	if t == nil {
		return nil, ErrTripNotFound
	}
	if t.Has(loc.ID) {
		return nil, ErrAlreadyInTrip
	}
	loc.Order = len(t.Locations) + 1
	t.Locations = append(t.Locations, loc)
	s.save()
	return t.clone(), nil
}

// RemoveLocation drops the stop with locationID and renumbers the rest.
// Removing a stop that is not in the trip changes nothing.
func (s *Store) RemoveLocation(tripID, locationID string) (*Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.find(tripID)
	if t == nil {
		return nil, ErrTripNotFound
	}
	kept := make([]Location, 0, len(t.Locations))
	for _, l := range t.Locations {
		if l.ID != locationID {
			kept = append(kept, l)
		}
	}
	if len(kept) == len(t.Locations) {
		return t.clone(), nil
	}
	t.Locations = kept
	t.renumber()
	s.save()
	return t.clone(), nil
}

// OptimizeTrip reorders the stops by repeatedly visiting the nearest
// unvisited one, starting from the current first stop.
func (s *Store) OptimizeTrip(tripID string) (*Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.find(tripID)
	if t == nil {
		return nil, ErrTripNotFound
	}
	if len(t.Locations) < 3 {
		return t.clone(), nil
	}

	locs := t.Locations
	used := make([]bool, len(locs))
	route := make([]Location, 0, len(locs))
	route = append(route, locs[0])
	used[0] = true
	for len(route) < len(locs) {
		last := route[len(route)-1]
		best, bestDist := -1, math.MaxFloat64
		for j, l := range locs {
			if used[j] {
				continue
			}
			if d := places.Distance(last.Lat, last.Lng, l.Lat, l.Lng); d < bestDist {
				best, bestDist = j, d
			}
		}
		used[best] = true
		route = append(route, locs[best])
	}
	t.Locations = route
	t.renumber()
	s.save()
	return t.clone(), nil
}

// ToggleFavorite flips the favorite state of id and returns the new state.
// When adding, snap is cached unless a snapshot for id already exists; snap
// may be nil. Removing drops the id and its snapshot.
func (s *Store) ToggleFavorite(id string, snap *Snapshot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, f := range s.state.Favorites {
		if f != id {
			continue
		}
		s.state.Favorites = append(s.state.Favorites[:i], s.state.Favorites[i+1:]...)
		kept := s.state.FavoritePlaces[:0]
		for _, p := range s.state.FavoritePlaces {
			if p.ID != id {
				kept = append(kept, p)
			}
		}
		s.state.FavoritePlaces = kept
		s.save()
		return false
	}

	s.state.Favorites = append(s.state.Favorites, id)
	if snap != nil && s.snapshot(id) == nil {
		c := *snap
		c.ID = id
		s.state.FavoritePlaces = append(s.state.FavoritePlaces, c)
	}
	s.save()
	return true
}

func (s *Store) snapshot(id string) *Snapshot {
	for i := range s.state.FavoritePlaces {
		if s.state.FavoritePlaces[i].ID == id {
			return &s.state.FavoritePlaces[i]
		}
	}
	return nil
}

// Snapshot returns a copy of the cached snapshot for id.
func (s *Store) Snapshot(id string) (*Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p := s.snapshot(id)
	if p == nil {
		return nil, false
	}
	c := *p
	return &c, true
}

// Trips returns copies of every trip in creation order.
func (s *Store) Trips() []*Trip {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Trip, 0, len(s.state.Trips))
	for _, t := range s.state.Trips {
		out = append(out, t.clone())
	}
	return out
}

// Trip returns a copy of the trip with id.
func (s *Store) Trip(id string) (*Trip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t := s.find(id)
	if t == nil {
		return nil, ErrTripNotFound
	}
	return t.clone(), nil
}

// Favorites returns the snapshots of favorited places in the order they
// were added. Favorites without a snapshot are skipped.
func (s *Store) Favorites() []Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Snapshot, 0, len(s.state.Favorites))
	for _, id := range s.state.Favorites {
		if p := s.snapshot(id); p != nil {
			out = append(out, *p)
		}
	}
	return out
}

// IsFavorite reports whether id is favorited.
func (s *Store) IsFavorite(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, f := range s.state.Favorites {
		if f == id {
			return true
		}
	}
	return false
}

// InAnyTrip reports whether some trip contains a stop with id.
func (s *Store) InAnyTrip(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.state.Trips {
		if t.Has(id) {
			return true
		}
	}
	return false
}

func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := Stats{Trips: len(s.state.Trips), Favorites: len(s.state.Favorites)}
	for _, t := range s.state.Trips {
		st.Places += len(t.Locations)
	}
	return st
}
