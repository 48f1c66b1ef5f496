// Package planner owns the application state: the working list of nearby
// places, the trip store, preferences and user notices.
package planner

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"tripspotter/app"
	"tripspotter/data"
	"tripspotter/notify"
	"tripspotter/places"
	"tripspotter/trips"
)

// ThemeKey is the preference key holding "dark" or "light".
const ThemeKey = "theme"

const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

var (
	ErrPlaceNotFound = errors.New("place not found")
	ErrNoTrips       = errors.New("create a trip first")
	ErrChooseTrip    = errors.New("several trips exist, choose one")
	ErrInvalidTheme  = errors.New("theme must be dark, light or toggle")
)

// PlaceView is a place annotated with the user's saved state.
type PlaceView struct {
	*places.Place
	Favorite bool `json:"favorite"`
	InTrip   bool `json:"inTrip"`
}

// Stats are the counters of the sidebar.
type Stats struct {
	trips.Stats
	Nearby int `json:"nearby"`
}

type Planner struct {
	fetcher *places.Fetcher
	trips   *trips.Store
	prefs   data.Store
	notices *notify.Hub

	// Radius is the search radius used when a request gives none.
	Radius int

	mu     sync.RWMutex
	list   []*places.Place
	search *places.Result // last completed search, without places
}

// New wires a planner. It takes over the fetcher's start hook to announce
// searches.
func New(f *places.Fetcher, t *trips.Store, prefs data.Store, hub *notify.Hub) *Planner {
	p := &Planner{
		fetcher: f,
		trips:   t,
		prefs:   prefs,
		notices: hub,
		Radius:  places.DefaultRadius,
	}
	f.OnStart = p.searching
	return p
}

func (p *Planner) searching(lat, lng float64, radius int) {
	p.notices.Publish(notify.Info, "Searching places within %s...", radiusText(radius))
}

func radiusText(m int) string {
	if m >= 1000 {
		return strconv.FormatFloat(float64(m)/1000, 'f', -1, 64) + " km"
	}
	return strconv.Itoa(m) + "m"
}

// Explore fetches the places around lat/lng and makes them the working
// list. A call made while another search runs returns places.ErrBusy and
// changes nothing. Any other answer replaces the list, so an empty answer
// leaves it empty.
func (p *Planner) Explore(ctx context.Context, lat, lng float64, radius int) (*places.Result, error) {
	if radius <= 0 {
		radius = p.Radius
	}
	res, err := p.fetcher.Nearby(ctx, lat, lng, radius)
	if err != nil {
		return nil, err
	}

	meta := *res
	meta.Places = nil

	p.mu.Lock()
	p.search = &meta
	p.list = res.Places
	p.mu.Unlock()

	switch {
	case res.Source == places.SourceDemo:
		p.notices.Publish(notify.Info, "Using sample data (API temporarily unavailable)")
	case res.Empty:
		p.notices.Publish(notify.Info, "No places found in this area. Try a larger radius!")
	case len(res.Places) > 0:
		p.notices.Publish(notify.Success, "Found %d places nearby!", len(res.Places))
	default:
		p.notices.Publish(notify.Info, "No places found. Try another area.")
	}
	return res, nil
}

// Places returns the working list narrowed by f.
func (p *Planner) Places(f places.Filter) []PlaceView {
	p.mu.RLock()
	list := places.Apply(p.list, f)
	p.mu.RUnlock()
	return p.views(list)
}

func (p *Planner) view(pl *places.Place) PlaceView {
	return PlaceView{
		Place:    pl,
		Favorite: p.trips.IsFavorite(pl.ID),
		InTrip:   p.trips.InAnyTrip(pl.ID),
	}
}

// LastSearch describes the most recent completed search, or nil.
func (p *Planner) LastSearch() *places.Result {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.search
}

// Clear empties the working list.
func (p *Planner) Clear() {
	p.mu.Lock()
	p.list = nil
	p.search = nil
	p.mu.Unlock()
	p.notices.Publish(notify.Info, "Map cleared")
}

// Lookup finds a place in the working list, then among favorite snapshots.
func (p *Planner) Lookup(id string) (*places.Place, error) {
	p.mu.RLock()
	for _, pl := range p.list {
		if pl.ID == id {
			p.mu.RUnlock()
			return pl, nil
		}
	}
	p.mu.RUnlock()

	if s, ok := p.trips.Snapshot(id); ok {
		return s.Place(), nil
	}
	return nil, ErrPlaceNotFound
}

// ToggleFavorite flips the favorite state of a known place and returns the
// new state. Unfavoriting works for any favorited id.
func (p *Planner) ToggleFavorite(id string) (bool, error) {
	var snap *trips.Snapshot
	if !p.trips.IsFavorite(id) {
		pl, err := p.Lookup(id)
		if err != nil {
			return false, err
		}
		snap = trips.SnapshotOf(pl)
	}

	if p.trips.ToggleFavorite(id, snap) {
		p.notices.Publish(notify.Success, "Added to favorites! ❤️")
		return true, nil
	}
	p.notices.Publish(notify.Info, "Removed from favorites")
	return false, nil
}

// Favorites returns the favorite snapshots.
func (p *Planner) Favorites() []trips.Snapshot {
	return p.trips.Favorites()
}

// Trips returns every trip.
func (p *Planner) Trips() []*trips.Trip {
	return p.trips.Trips()
}

// Trip returns the trip with id.
func (p *Planner) Trip(id string) (*trips.Trip, error) {
	return p.trips.Trip(id)
}

// CreateTrip creates a trip and, when placeID is set, adds that place to it.
func (p *Planner) CreateTrip(in trips.TripInput, placeID string) (*trips.Trip, error) {
	var pl *places.Place
	if placeID != "" {
		var err error
		if pl, err = p.Lookup(placeID); err != nil {
			return nil, err
		}
	}

	t, err := p.trips.CreateTrip(in)
	switch {
	case errors.Is(err, trips.ErrMissingField):
		p.notices.Publish(notify.Error, "Please fill in required fields")
		return nil, err
	case errors.Is(err, trips.ErrInvalidDate):
		p.notices.Publish(notify.Error, "Please enter valid dates")
		return nil, err
	case err != nil:
		return nil, err
	}
	p.notices.Publish(notify.Success, "Trip created! 🎉")

	if pl == nil {
		return t, nil
	}
	return p.addPlace(t.ID, pl)
}

// DeleteTrip removes a trip.
func (p *Planner) DeleteTrip(id string) error {
	if err := p.trips.DeleteTrip(id); err != nil {
		return err
	}
	p.notices.Publish(notify.Info, "Trip deleted")
	return nil
}

// AddToTrip adds a known place to a trip.
func (p *Planner) AddToTrip(tripID, placeID string) (*trips.Trip, error) {
	pl, err := p.Lookup(placeID)
	if err != nil {
		return nil, err
	}
	return p.addPlace(tripID, pl)
}

func (p *Planner) addPlace(tripID string, pl *places.Place) (*trips.Trip, error) {
	t, err := p.trips.AddPlace(tripID, trips.LocationOf(pl))
	if errors.Is(err, trips.ErrAlreadyInTrip) {
		p.notices.Publish(notify.Error, "Already in this trip!")
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	p.notices.Publish(notify.Success, "Added \"%s\" to \"%s\"!", pl.Name, t.Name)
	return t, nil
}

// QuickAdd adds a place to the only trip. With no trips it returns
// ErrNoTrips, with several ErrChooseTrip.
func (p *Planner) QuickAdd(placeID string) (*trips.Trip, error) {
	pl, err := p.Lookup(placeID)
	if err != nil {
		return nil, err
	}
	list := p.trips.Trips()
	switch len(list) {
	case 0:
		p.notices.Publish(notify.Info, "Create a trip first!")
		return nil, ErrNoTrips
	case 1:
		return p.addPlace(list[0].ID, pl)
	}
	return nil, ErrChooseTrip
}

// RemoveLocation drops a stop from a trip.
func (p *Planner) RemoveLocation(tripID, locationID string) (*trips.Trip, error) {
	t, err := p.trips.RemoveLocation(tripID, locationID)
	if err != nil {
		return nil, err
	}
	p.notices.Publish(notify.Info, "Location removed from trip")
	return t, nil
}

// OptimizeTrip reorders a trip's stops by proximity.
func (p *Planner) OptimizeTrip(id string) (*trips.Trip, error) {
	t, err := p.trips.OptimizeTrip(id)
	if err != nil {
		return nil, err
	}
	p.notices.Publish(notify.Success, "Route optimized for \"%s\"", t.Name)
	return t, nil
}

// Theme returns the saved theme, light unless dark was chosen.
func (p *Planner) Theme() string {
	b, err := p.prefs.Get(ThemeKey)
	if err == nil && string(b) == ThemeDark {
		return ThemeDark
	}
	return ThemeLight
}

// SetTheme stores dark or light, or flips the current theme for "toggle".
func (p *Planner) SetTheme(theme string) (string, error) {
	switch theme {
	case ThemeDark, ThemeLight:
	case "toggle":
		theme = ThemeDark
		if p.Theme() == ThemeDark {
			theme = ThemeLight
		}
	default:
		return "", ErrInvalidTheme
	}
	if err := p.prefs.Set(ThemeKey, []byte(theme)); err != nil {
		app.Log("planner", "Error saving theme: %v", err)
	}
	return theme, nil
}

func (p *Planner) Stats() Stats {
	p.mu.RLock()
	n := len(p.list)
	p.mu.RUnlock()
	return Stats{Stats: p.trips.Stats(), Nearby: n}
}

// StatusChecks reports component health for the status page.
func (p *Planner) StatusChecks() []app.StatusCheck {
	st := p.Stats()
	checks := []app.StatusCheck{
		{Name: "Storage", Status: true, Details: p.prefs.Name()},
		{Name: "Trips", Status: true, Details: strconv.Itoa(st.Trips) + " trips, " + strconv.Itoa(st.Places) + " places"},
		{Name: "Notices", Status: true, Details: strconv.Itoa(p.notices.Clients()) + " clients"},
	}
	if s := p.LastSearch(); s != nil {
		checks = append(checks, app.StatusCheck{
			Name:    "Last search",
			Status:  s.Source == places.SourceRemote,
			Details: string(s.Source) + " " + s.Mirror,
		})
	}
	return checks
}
