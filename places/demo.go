package places

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// DemoDescription is the description of every synthetic place.
const DemoDescription = "Sample place - Click to add to your trip"

// demoPlaces are placed at offsets (degrees per kilometre of radius) from
// the search center.
var demoPlaces = []struct {
	name     string
	category Category
	dLat     float64
	dLng     float64
}{
	{"Local Restaurant", Restaurant, 0.002, 0.003},
	{"City Museum", Attraction, -0.001, 0.002},
	{"Grand Hotel", Hotel, 0.003, -0.001},
	{"Central Park", Nature, -0.002, -0.002},
	{"Shopping Mall", Shopping, 0.001, -0.003},
	{"Historic Cafe", Restaurant, -0.003, 0.001},
	{"Art Gallery", Attraction, 0.002, -0.002},
	{"Boutique Hotel", Hotel, -0.001, -0.001},
	{"Beach Resort", Nature, 0.004, 0.001},
	{"Fashion Store", Shopping, -0.002, 0.003},
}

// Demo returns the synthetic places shown when no mirror answers. Each gets
// a random distance strictly between 10% and 90% of radius; rnd must return
// values in [0, 1).
func Demo(lat, lng float64, radius int, rnd func() float64) []*Place {
	if radius <= 0 {
		radius = DefaultRadius
	}
	scale := float64(radius) / 1000
	r := float64(radius)

	out := make([]*Place, 0, len(demoPlaces))
	for i, d := range demoPlaces {
		out = append(out, &Place{
			ID:          fmt.Sprintf("demo_%d_%s", i, uuid.NewString()),
			Name:        d.name,
			Category:    d.category,
			Description: DemoDescription,
			Lat:         lat + d.dLat*scale,
			Lng:         lng + d.dLng*scale,
			Distance:    demoDistance(r, rnd),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Distance < out[j].Distance
	})
	return out
}

// demoDistance draws a distance in the open interval (0.1r, 0.9r), falling
// back to the midpoint if rnd keeps landing on the bounds.
func demoDistance(r float64, rnd func() float64) float64 {
	lo, hi := r*0.1, r*0.9
	for i := 0; i < 100; i++ {
		if d := rnd()*(r*0.8) + lo; d > lo && d < hi {
			return d
		}
	}
	return r * 0.5
}
