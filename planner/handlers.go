package planner

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"tripspotter/app"
	"tripspotter/places"
	"tripspotter/trips"
)

var (
	errMissingParam = errors.New("missing parameter")
	errInvalidParam = errors.New("invalid parameter")
)

const (
	minRadius = 100
	maxRadius = 5000
)

// Register mounts the action surface on mux.
func (p *Planner) Register(mux *http.ServeMux) {
	mux.HandleFunc("/places/nearby", app.Methods(p.handleNearby, http.MethodPost))
	mux.HandleFunc("/places", app.Methods(p.handlePlaces, http.MethodGet))
	mux.HandleFunc("/places/clear", app.Methods(p.handleClear, http.MethodPost))

	mux.HandleFunc("/trips", app.Methods(p.handleTrips, http.MethodGet, http.MethodPost))
	mux.HandleFunc("/trips/delete", app.Methods(p.handleDeleteTrip, http.MethodPost))
	mux.HandleFunc("/trips/add", app.Methods(p.handleAddToTrip, http.MethodPost))
	mux.HandleFunc("/trips/quickadd", app.Methods(p.handleQuickAdd, http.MethodPost))
	mux.HandleFunc("/trips/remove", app.Methods(p.handleRemoveLocation, http.MethodPost))
	mux.HandleFunc("/trips/optimize", app.Methods(p.handleOptimize, http.MethodPost))
	mux.HandleFunc("/trips/share", app.Methods(p.handleShare, http.MethodGet))

	mux.HandleFunc("/favorites", app.Methods(p.handleFavorites, http.MethodGet))
	mux.HandleFunc("/favorites/toggle", app.Methods(p.handleToggleFavorite, http.MethodPost))

	mux.HandleFunc("/theme", app.Methods(p.handleTheme, http.MethodGet, http.MethodPost))
	mux.HandleFunc("/stats", app.Methods(p.handleStats, http.MethodGet))
	mux.HandleFunc("/events", p.notices.Handler)
}

// fail maps an operation error to a status code.
func (p *Planner) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, places.ErrBusy):
		app.Conflict(w, r, "A search is already in progress")
	case errors.Is(err, errMissingParam),
		errors.Is(err, errInvalidParam),
		errors.Is(err, trips.ErrMissingField),
		errors.Is(err, trips.ErrInvalidDate),
		errors.Is(err, ErrInvalidTheme):
		app.BadRequest(w, r, err.Error())
	case errors.Is(err, trips.ErrTripNotFound),
		errors.Is(err, ErrPlaceNotFound):
		app.NotFound(w, r, err.Error())
	case errors.Is(err, ErrChooseTrip):
		app.RespondStatus(w, http.StatusConflict, map[string]interface{}{
			"error": err.Error(),
			"trips": p.Trips(),
		})
	case errors.Is(err, trips.ErrAlreadyInTrip),
		errors.Is(err, ErrNoTrips):
		app.Conflict(w, r, err.Error())
	default:
		app.Log("planner", "%s %s: %v", r.Method, r.URL.Path, err)
		app.ServerError(w, r, "Something went wrong")
	}
}

// parseForm answers 400 when the request parameters cannot be parsed.
func parseForm(w http.ResponseWriter, r *http.Request) bool {
	if err := r.ParseForm(); err != nil {
		app.BadRequest(w, r, "malformed form: "+err.Error())
		return false
	}
	return true
}

func required(r *http.Request, name string) (string, error) {
	v := strings.TrimSpace(r.Form.Get(name))
	if v == "" {
		return "", fmt.Errorf("%w: %s", errMissingParam, name)
	}
	return v, nil
}

func coordinate(r *http.Request, name string, limit float64) (float64, error) {
	s, err := required(r, name)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < -limit || v > limit {
		return 0, fmt.Errorf("%w: %s", errInvalidParam, name)
	}
	return v, nil
}

func (p *Planner) views(list []*places.Place) []PlaceView {
	out := make([]PlaceView, 0, len(list))
	for _, pl := range list {
		out = append(out, p.view(pl))
	}
	return out
}

type searchResponse struct {
	*places.Result
	Places []PlaceView `json:"places"`
}

func (p *Planner) handleNearby(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}

	lat, err := coordinate(r, "lat", 90)
	if err != nil {
		p.fail(w, r, err)
		return
	}
	lng, err := coordinate(r, "lng", 180)
	if err != nil {
		p.fail(w, r, err)
		return
	}

	radius := p.Radius
	if s := r.Form.Get("radius"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			p.fail(w, r, fmt.Errorf("%w: radius", errInvalidParam))
			return
		}
		radius = v
	}
	if radius < minRadius {
		radius = minRadius
	}
	if radius > maxRadius {
		radius = maxRadius
	}

	// the search outlives a client that hangs up mid-fetch
	res, err := p.Explore(context.WithoutCancel(r.Context()), lat, lng, radius)
	if err != nil {
		p.fail(w, r, err)
		return
	}
	app.RespondJSON(w, searchResponse{Result: res, Places: p.views(res.Places)})
}

func (p *Planner) handlePlaces(w http.ResponseWriter, r *http.Request) {
	f := places.Filter{
		Category: strings.TrimSpace(r.URL.Query().Get("category")),
		Query:    r.URL.Query().Get("q"),
	}
	if c := f.Category; c != "" && !strings.EqualFold(c, places.AllCategories) {
		if _, ok := places.ParseCategory(c); !ok {
			p.fail(w, r, fmt.Errorf("%w: category", errInvalidParam))
			return
		}
	}
	app.RespondJSON(w, map[string]interface{}{
		"places":     p.Places(f),
		"search":     p.LastSearch(),
		"categories": places.Categories,
	})
}

func (p *Planner) handleClear(w http.ResponseWriter, r *http.Request) {
	p.Clear()
	app.RespondJSON(w, map[string]bool{"cleared": true})
}

func (p *Planner) handleTrips(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		app.RespondJSON(w, map[string]interface{}{"trips": p.Trips()})
		return
	}

	if !parseForm(w, r) {
		return
	}
	in := trips.TripInput{
		Name:      r.Form.Get("name"),
		StartDate: r.Form.Get("start_date"),
		EndDate:   r.Form.Get("end_date"),
		Icon:      r.Form.Get("icon"),
		Notes:     r.Form.Get("notes"),
	}
	t, err := p.CreateTrip(in, strings.TrimSpace(r.Form.Get("place_id")))
	if err != nil {
		p.fail(w, r, err)
		return
	}
	app.RespondStatus(w, http.StatusCreated, t)
}

func (p *Planner) handleDeleteTrip(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	id, err := required(r, "id")
	if err == nil {
		err = p.DeleteTrip(id)
	}
	if err != nil {
		p.fail(w, r, err)
		return
	}
	app.RespondJSON(w, map[string]string{"deleted": id})
}

func (p *Planner) handleAddToTrip(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	tripID, err := required(r, "trip_id")
	if err != nil {
		p.fail(w, r, err)
		return
	}
	placeID, err := required(r, "place_id")
	if err != nil {
		p.fail(w, r, err)
		return
	}
	t, err := p.AddToTrip(tripID, placeID)
	if err != nil {
		p.fail(w, r, err)
		return
	}
	app.RespondJSON(w, t)
}

func (p *Planner) handleQuickAdd(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	placeID, err := required(r, "place_id")
	if err != nil {
		p.fail(w, r, err)
		return
	}
	t, err := p.QuickAdd(placeID)
	if err != nil {
		p.fail(w, r, err)
		return
	}
	app.RespondJSON(w, t)
}

func (p *Planner) handleRemoveLocation(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	tripID, err := required(r, "trip_id")
	if err != nil {
		p.fail(w, r, err)
		return
	}
	locID, err := required(r, "location_id")
	if err != nil {
		p.fail(w, r, err)
		return
	}
	t, err := p.RemoveLocation(tripID, locID)
	if err != nil {
		p.fail(w, r, err)
		return
	}
	app.RespondJSON(w, t)
}

func (p *Planner) handleOptimize(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	id, err := required(r, "id")
	if err != nil {
		p.fail(w, r, err)
		return
	}
	t, err := p.OptimizeTrip(id)
	if err != nil {
		p.fail(w, r, err)
		return
	}
	app.RespondJSON(w, t)
}

func (p *Planner) handleShare(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	id, err := required(r, "id")
	if err != nil {
		p.fail(w, r, err)
		return
	}
	t, err := p.Trip(id)
	if err != nil {
		p.fail(w, r, err)
		return
	}

	if r.Form.Get("format") == "qr" {
		size := 256
		if v, err := strconv.Atoi(r.Form.Get("size")); err == nil && v >= 64 && v <= 1024 {
			size = v
		}
		png, err := trips.QRCode(t, size)
		if err != nil {
			p.fail(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(png)
		return
	}

	text := trips.Itinerary(t)
	app.Route(app.RouteOpts{
		JSON: func(w http.ResponseWriter, r *http.Request) {
			app.RespondJSON(w, map[string]interface{}{"trip": t, "itinerary": text})
		},
		HTML: func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.Write([]byte(text))
		},
	})(w, r)
}

func (p *Planner) handleFavorites(w http.ResponseWriter, r *http.Request) {
	app.RespondJSON(w, map[string]interface{}{"favorites": p.Favorites()})
}

func (p *Planner) handleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	id, err := required(r, "id")
	if err != nil {
		p.fail(w, r, err)
		return
	}
	fav, err := p.ToggleFavorite(id)
	if err != nil {
		p.fail(w, r, err)
		return
	}
	app.RespondJSON(w, map[string]interface{}{"id": id, "favorite": fav})
}

func (p *Planner) handleTheme(w http.ResponseWriter, r *http.Request) {
	theme := p.Theme()
	if r.Method == http.MethodPost {
		if !parseForm(w, r) {
			return
		}
		var err error
		if theme, err = p.SetTheme(strings.TrimSpace(r.Form.Get("theme"))); err != nil {
			p.fail(w, r, err)
			return
		}
	}
	app.RespondJSON(w, map[string]string{"theme": theme})
}

func (p *Planner) handleStats(w http.ResponseWriter, r *http.Request) {
	app.RespondJSON(w, p.Stats())
}
