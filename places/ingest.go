package places

import (
	"fmt"
	"sort"
	"strings"
)

// MaxResults caps the number of places kept from one fetch.
const MaxResults = 50

// LatLon is the center coordinate Overpass attaches to ways and relations.
type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Element is one raw entry of an Overpass response.
type Element struct {
	ID     int64    `json:"id"`
	Type   string   `json:"type"`
	Lat    *float64 `json:"lat,omitempty"`
	Lon    *float64 `json:"lon,omitempty"`
	Center *LatLon  `json:"center,omitempty"`
	Tags   Tags     `json:"tags"`
}

// Position returns the element's own coordinates, falling back to its center.
func (e Element) Position() (lat, lng float64, ok bool) {
	if e.Lat != nil && e.Lon != nil {
		return *e.Lat, *e.Lon, true
	}
	if e.Center != nil {
		return e.Center.Lat, e.Center.Lon, true
	}
	return 0, 0, false
}

// Name returns the first usable name tag: name, then name:en, then name:tr.
func (e Element) Name() string {
	for _, k := range []string{"name", "name:en", "name:tr"} {
		if v := e.Tags[k]; v != "" {
			return v
		}
	}
	return ""
}

// Ingest turns raw elements into places around the given center. Elements
// without coordinates or a name are skipped, later elements whose name
// matches an earlier one (case-insensitive, trimmed) are dropped, and the
// result is sorted by distance and capped at MaxResults.
func Ingest(elements []Element, centerLat, centerLng float64) []*Place {
	out := make([]*Place, 0, len(elements))
	seen := make(map[string]struct{}, len(elements))

	for _, el := range elements {
		lat, lng, ok := el.Position()
		if !ok {
			continue
		}
		name := el.Name()
		if name == "" {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(name))
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		tags := el.Tags
		if tags == nil {
			tags = Tags{}
		}
		typ := el.Type
		if typ == "" {
			typ = "node"
		}

		out = append(out, &Place{
			ID:          fmt.Sprintf("osm_%d_%s", el.ID, typ),
			OSMID:       el.ID,
			Name:        name,
			Category:    Classify(tags),
			Description: Describe(tags),
			Lat:         lat,
			Lng:         lng,
			Tags:        tags,
			Distance:    Distance(centerLat, centerLng, lat, lng),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Distance < out[j].Distance
	})
	if len(out) > MaxResults {
		out = out[:MaxResults]
	}
	return out
}
