package trips

import (
	"errors"
	"strings"
	"testing"
	"time"

	"tripspotter/data"
	"tripspotter/places"
)

var week = TripInput{Name: "Istanbul", StartDate: "2026-01-02", EndDate: "2026-01-09"}

func loc(id string, lat, lng float64) Location {
	return Location{ID: id, Name: "Place " + id, Category: places.Attraction, Lat: lat, Lng: lng}
}

func orders(t *Trip) string {
	var b strings.Builder
	for _, l := range t.Locations {
		b.WriteString(l.ID)
	}
	return b.String()
}

func TestCreateTrip(t *testing.T) {
	s := New(data.NewMemoryStore())
	s.now = func() time.Time { return time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC) }

	trip, err := s.CreateTrip(TripInput{
		Name:      "  Istanbul\n<script>alert(1)</script> ",
		StartDate: "2026-01-02",
		EndDate:   "2026-01-09",
		Notes:     "Bring a jacket",
	})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(trip.ID, "id_") || len(trip.ID) <= len("id_")+8 {
		t.Errorf("id = %q", trip.ID)
	}
	if strings.Contains(trip.Name, "<script") || strings.Contains(trip.Name, "\n") {
		t.Errorf("name not sanitized: %q", trip.Name)
	}
	if !strings.HasPrefix(trip.Name, "Istanbul") {
		t.Errorf("name = %q", trip.Name)
	}
	if trip.Icon != DefaultIcon {
		t.Errorf("icon = %q, want %q", trip.Icon, DefaultIcon)
	}
	if trip.Locations == nil || len(trip.Locations) != 0 {
		t.Errorf("locations = %v, want empty", trip.Locations)
	}
	if !trip.CreatedAt.Equal(s.now()) {
		t.Errorf("createdAt = %v", trip.CreatedAt)
	}
	if got := s.Stats().Trips; got != 1 {
		t.Errorf("trip count = %d", got)
	}
}

func TestCreateTripValidation(t *testing.T) {
	tests := []struct {
		name string
		in   TripInput
		want error
	}{
		{"no name", TripInput{StartDate: "2026-01-02", EndDate: "2026-01-03"}, ErrMissingField},
		{"blank name", TripInput{Name: "   ", StartDate: "2026-01-02", EndDate: "2026-01-03"}, ErrMissingField},
		{"no start", TripInput{Name: "x", EndDate: "2026-01-03"}, ErrMissingField},
		{"no end", TripInput{Name: "x", StartDate: "2026-01-02"}, ErrMissingField},
		{"bad start", TripInput{Name: "x", StartDate: "02/01/2026", EndDate: "2026-01-03"}, ErrInvalidDate},
		{"bad end", TripInput{Name: "x", StartDate: "2026-01-02", EndDate: "2026-13-01"}, ErrInvalidDate},
		{"backwards", TripInput{Name: "x", StartDate: "2026-01-05", EndDate: "2026-01-03"}, ErrInvalidDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blob := data.NewMemoryStore()
			s := New(blob)
			if _, err := s.CreateTrip(tt.in); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
			if len(s.Trips()) != 0 {
				t.Error("rejected trip was stored")
			}
			if _, err := blob.Get(StateKey); !errors.Is(err, data.ErrNotFound) {
				t.Error("rejected trip was persisted")
			}
		})
	}
}

func TestMissingFieldNamesField(t *testing.T) {
	s := New(data.NewMemoryStore())
	_, err := s.CreateTrip(TripInput{Name: "x", StartDate: "2026-01-02"})
	if err == nil || !strings.Contains(err.Error(), "endDate") {
		t.Errorf("err = %v, want it to name endDate", err)
	}
}

func TestDeleteTrip(t *testing.T) {
	s := New(data.NewMemoryStore())
	a, _ := s.CreateTrip(week)
	b, _ := s.CreateTrip(week)

	if err := s.DeleteTrip("id_missing"); !errors.Is(err, ErrTripNotFound) {
		t.Errorf("err = %v", err)
	}
	if err := s.DeleteTrip(a.ID); err != nil {
		t.Fatal(err)
	}
	got := s.Trips()
	if len(got) != 1 || got[0].ID != b.ID {
		t.Errorf("trips = %v", got)
	}
}

func TestAddPlace(t *testing.T) {
	s := New(data.NewMemoryStore())
	trip, _ := s.CreateTrip(week)

	for i, id := range []string{"a", "b", "c"} {
		got, err := s.AddPlace(trip.ID, loc(id, 41, 29))
		if err != nil {
			t.Fatal(err)
		}
		if o := got.Locations[i].Order; o != i+1 {
			t.Errorf("order of %s = %d, want %d", id, o, i+1)
		}
	}

	if _, err := s.AddPlace(trip.ID, loc("b", 41, 29)); !errors.Is(err, ErrAlreadyInTrip) {
		t.Errorf("duplicate add err = %v", err)
	}
	got, _ := s.Trip(trip.ID)
	if len(got.Locations) != 3 {
		t.Errorf("duplicate add changed the trip: %d stops", len(got.Locations))
	}

	if _, err := s.AddPlace("id_missing", loc("z", 0, 0)); !errors.Is(err, ErrTripNotFound) {
		t.Errorf("unknown trip err = %v", err)
	}
	if !s.InAnyTrip("a") || s.InAnyTrip("z") {
		t.Error("InAnyTrip mismatch")
	}
}

func TestRemoveLocationRenumbers(t *testing.T) {
	s := New(data.NewMemoryStore())
	trip, _ := s.CreateTrip(week)
	for _, id := range []string{"a", "b", "c"} {
		s.AddPlace(trip.ID, loc(id, 41, 29))
	}

	got, err := s.RemoveLocation(trip.ID, "b")
	if err != nil {
		t.Fatal(err)
	}
	if orders(got) != "ac" {
		t.Fatalf("stops = %s", orders(got))
	}
	for i, l := range got.Locations {
		if l.Order != i+1 {
			t.Errorf("%s order = %d, want %d", l.ID, l.Order, i+1)
		}
	}

	if _, err := s.RemoveLocation("id_missing", "a"); !errors.Is(err, ErrTripNotFound) {
		t.Errorf("err = %v", err)
	}
	if got, _ := s.RemoveLocation(trip.ID, "zz"); orders(got) != "ac" {
		t.Errorf("removing an absent stop changed the trip: %s", orders(got))
	}
}

func TestOptimizeTrip(t *testing.T) {
	s := New(data.NewMemoryStore())
	trip, _ := s.CreateTrip(week)
	// Start, then a far stop, then two stops close to the start.
	s.AddPlace(trip.ID, loc("a", 41.000, 29.000))
	s.AddPlace(trip.ID, loc("d", 41.100, 29.000))
	s.AddPlace(trip.ID, loc("b", 41.001, 29.000))
	s.AddPlace(trip.ID, loc("c", 41.003, 29.000))

	got, err := s.OptimizeTrip(trip.ID)
	if err != nil {
		t.Fatal(err)
	}
	if orders(got) != "abcd" {
		t.Errorf("route = %s, want abcd", orders(got))
	}
	for i, l := range got.Locations {
		if l.Order != i+1 {
			t.Errorf("%s order = %d", l.ID, l.Order)
		}
	}
	if _, err := s.OptimizeTrip("id_missing"); !errors.Is(err, ErrTripNotFound) {
		t.Errorf("err = %v", err)
	}
}

func TestToggleFavorite(t *testing.T) {
	s := New(data.NewMemoryStore())
	p := &places.Place{ID: "osm_1_node", Name: "Galata Tower", Category: places.Attraction, Lat: 41.0256, Lng: 28.9741}

	if !s.ToggleFavorite(p.ID, SnapshotOf(p)) {
		t.Fatal("first toggle should favorite")
	}
	if !s.IsFavorite(p.ID) {
		t.Error("IsFavorite = false")
	}
	favs := s.Favorites()
	if len(favs) != 1 || favs[0].Name != "Galata Tower" {
		t.Fatalf("favorites = %+v", favs)
	}

	if s.ToggleFavorite(p.ID, SnapshotOf(p)) {
		t.Fatal("second toggle should unfavorite")
	}
	if s.IsFavorite(p.ID) || len(s.Favorites()) != 0 {
		t.Error("favorite not fully removed")
	}
	if _, ok := s.Snapshot(p.ID); ok {
		t.Error("snapshot left behind")
	}
	if st := s.Stats(); st.Favorites != 0 {
		t.Errorf("favorite count = %d", st.Favorites)
	}
}

func TestToggleFavoriteWithoutSnapshot(t *testing.T) {
	s := New(data.NewMemoryStore())
	if !s.ToggleFavorite("demo_1_x", nil) {
		t.Fatal("toggle should favorite")
	}
	if !s.IsFavorite("demo_1_x") || len(s.Favorites()) != 0 {
		t.Error("favorite without snapshot should count but not list")
	}
	if s.Stats().Favorites != 1 {
		t.Error("favorite count should include ids without snapshots")
	}
}

func TestStatePersists(t *testing.T) {
	blob := data.NewMemoryStore()
	s := New(blob)
	trip, _ := s.CreateTrip(week)
	s.AddPlace(trip.ID, loc("a", 41, 29))
	s.ToggleFavorite("a", &Snapshot{ID: "a", Name: "A"})

	raw, err := blob.Get(StateKey)
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{`"trips"`, `"favorites"`, `"favoritePlaces"`, `"startDate"`, `"order":1`} {
		if !strings.Contains(string(raw), key) {
			t.Errorf("persisted state missing %s: %s", key, raw)
		}
	}

	again := New(blob)
	if st := again.Stats(); st != (Stats{Trips: 1, Favorites: 1, Places: 1}) {
		t.Errorf("reloaded stats = %+v", st)
	}
	if _, ok := again.Snapshot("a"); !ok {
		t.Error("snapshot not reloaded")
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	for _, raw := range []string{"{not json", `{"trips": "nope"}`, `[]`} {
		blob := data.NewMemoryStore()
		blob.Set(StateKey, []byte(raw))

		s := New(blob)
		if st := s.Stats(); st != (Stats{}) {
			t.Errorf("%q: stats = %+v, want empty", raw, st)
		}
		if favs := s.Favorites(); favs == nil || len(favs) != 0 {
			t.Errorf("%q: favorites = %v", raw, favs)
		}
		if _, err := s.CreateTrip(week); err != nil {
			t.Errorf("%q: store unusable after bad load: %v", raw, err)
		}
	}
}

type failingStore struct{ *data.MemoryStore }

func (f *failingStore) Set(key string, val []byte) error { return errors.New("disk full") }

func TestSaveFailureKeepsMemoryState(t *testing.T) {
	s := New(&failingStore{MemoryStore: data.NewMemoryStore()})
	trip, err := s.CreateTrip(week)
	if err != nil {
		t.Fatalf("CreateTrip should succeed despite the write error: %v", err)
	}
	if _, err := s.Trip(trip.ID); err != nil {
		t.Error("trip missing from memory after failed write")
	}
}

func TestReturnedTripsAreCopies(t *testing.T) {
	s := New(data.NewMemoryStore())
	trip, _ := s.CreateTrip(week)
	s.AddPlace(trip.ID, loc("a", 41, 29))

	got, _ := s.Trip(trip.ID)
	got.Locations[0].Name = "changed"
	got.Name = "changed"

	again, _ := s.Trip(trip.ID)
	if again.Name == "changed" || again.Locations[0].Name == "changed" {
		t.Error("caller mutation leaked into the store")
	}
}
