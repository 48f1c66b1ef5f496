package places

import (
	"context"
	"errors"
	"math/rand"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/sync/semaphore"

	"tripspotter/app"
)

// DefaultRadius is the search radius in metres used when none is given.
const DefaultRadius = 1500

// AttemptTimeout bounds each mirror attempt.
const AttemptTimeout = 15 * time.Second

// DefaultMirrors are equivalent public Overpass endpoints, tried in order.
var DefaultMirrors = []string{
	"https://overpass-api.de/api/interpreter",
	"https://overpass.kumi.systems/api/interpreter",
	"https://maps.mail.ru/osm/tools/overpass/api/interpreter",
}

// ErrBusy is returned when a fetch is already running.
var ErrBusy = errors.New("places: fetch already in progress")

// Source says where the places of a Result came from.
type Source string

const (
	SourceRemote Source = "remote"
	SourceDemo   Source = "demo"
)

// Result is the outcome of one nearby fetch.
type Result struct {
	Places   []*Place `json:"places"`
	Source   Source   `json:"source"`
	Mirror   string   `json:"mirror,omitempty"`
	Empty    bool     `json:"empty"` // a mirror answered with no elements
	Attempts int      `json:"attempts"`
	Lat      float64  `json:"lat"`
	Lng      float64  `json:"lng"`
	Radius   int      `json:"radius"`
}

// Fetcher finds places near a point. Only one fetch runs at a time.
type Fetcher struct {
	Mirrors   []string
	Transport Transport
	Timeout   time.Duration
	// Rand returns a value in [0, 1); it places synthetic fallback results.
	Rand func() float64
	// OnStart, when set, is called once a fetch holds the guard.
	OnStart func(lat, lng float64, radius int)

	busy *semaphore.Weighted
}

// NewFetcher returns a fetcher over mirrors, or DefaultMirrors when empty.
func NewFetcher(t Transport, mirrors []string) *Fetcher {
	if len(mirrors) == 0 {
		mirrors = DefaultMirrors
	}
	return &Fetcher{
		Mirrors:   append([]string(nil), mirrors...),
		Transport: t,
		Timeout:   AttemptTimeout,
		Rand:      rand.Float64,
		busy:      semaphore.NewWeighted(1),
	}
}

// MirrorsFromEnv parses a comma-separated mirror list, falling back to
// OVERPASS_MIRRORS and then DefaultMirrors.
func MirrorsFromEnv(list string) []string {
	if list == "" {
		list = os.Getenv("OVERPASS_MIRRORS")
	}
	var out []string
	for _, m := range strings.Split(list, ",") {
		if m = strings.TrimSpace(m); m != "" {
			out = append(out, m)
		}
	}
	if len(out) == 0 {
		return append([]string(nil), DefaultMirrors...)
	}
	return out
}

// Nearby fetches places within radius metres of lat/lng. Mirrors are tried
// one after another; the first decodable answer wins even when it is empty.
// When every mirror fails the result holds synthetic places instead, so
// Nearby only errors when it is already running (ErrBusy) or ctx is done.
func (f *Fetcher) Nearby(ctx context.Context, lat, lng float64, radius int) (*Result, error) {
	if !f.busy.TryAcquire(1) {
		return nil, ErrBusy
	}
	defer f.busy.Release(1)

	if radius <= 0 {
		radius = DefaultRadius
	}
	if f.OnStart != nil {
		f.OnStart(lat, lng, radius)
	}
	query := BuildQuery(lat, lng, radius)
	n := len(f.Mirrors)

	res := &Result{Lat: lat, Lng: lng, Radius: radius}
	var resp *Response
	state := Next(MirrorState{}, Start, n)
	for !state.Done() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		endpoint := f.Mirrors[state.Index]
		res.Attempts++
		r, err := f.attempt(ctx, endpoint, query)
		if err != nil {
			app.Log("places", "Endpoint %s failed, trying next: %v", endpoint, err)
			state = Next(state, AttemptFailed, n)
			continue
		}
		resp = r
		state = Next(state, AttemptSucceeded, n)
	}

	if state.Phase == FailedAll {
		app.Log("places", "All %d endpoints failed, using sample data", n)
		res.Source = SourceDemo
		res.Places = Demo(lat, lng, radius, f.Rand)
		return res, nil
	}

	res.Source = SourceRemote
	res.Mirror = f.Mirrors[state.Index]
	if len(resp.Elements) == 0 {
		res.Empty = true
		res.Places = []*Place{}
		return res, nil
	}
	res.Places = Ingest(resp.Elements, lat, lng)
	app.Log("places", "%s: %d elements, %d places", res.Mirror, len(resp.Elements), len(res.Places))
	return res, nil
}

// attempt runs one bounded query and records it in the API log.
func (f *Fetcher) attempt(ctx context.Context, endpoint, query string) (*Response, error) {
	timeout := f.Timeout
	if timeout <= 0 {
		timeout = AttemptTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	resp, err := f.Transport.Query(ctx, endpoint, query)
	status := http.StatusOK
	var se *StatusError
	switch {
	case errors.As(err, &se):
		status = se.Code
	case err != nil:
		status = 0
	case resp == nil:
		err = errors.New("overpass: empty response")
		status = 0
	}
	app.RecordAPICall("overpass", http.MethodPost, endpoint, status, time.Since(start), err)
	return resp, err
}
