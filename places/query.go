package places

import (
	"fmt"
	"strconv"
	"strings"
)

// queryTimeout is the server-side timeout requested from Overpass, in seconds.
const queryTimeout = 45

// queryLimit caps how many elements Overpass returns.
const queryLimit = 100

// queryFilters are the unioned statements of the nearby query. AROUND is
// replaced with the around:<radius>,<lat>,<lng> filter.
var queryFilters = []string{
	// food & drink
	`node["amenity"~"restaurant|cafe|fast_food|bar|pub|food_court|ice_cream|biergarten"](AROUND);`,
	`way["amenity"~"restaurant|cafe|bar"](AROUND);`,

	// accommodation
	`node["tourism"~"hotel|hostel|guest_house|motel|apartment|chalet"](AROUND);`,
	`way["tourism"~"hotel|hostel|guest_house|motel"](AROUND);`,

	// attractions
	`node["tourism"~"attraction|museum|gallery|viewpoint|artwork|zoo|aquarium|theme_park|information"](AROUND);`,
	`way["tourism"~"attraction|museum|gallery|zoo|aquarium|theme_park"](AROUND);`,
	`relation["tourism"~"attraction|museum"](AROUND);`,

	// historic
	`node["historic"](AROUND);`,
	`way["historic"](AROUND);`,
	`relation["historic"](AROUND);`,
	`node["heritage"](AROUND);`,
	`way["heritage"](AROUND);`,
	`node["building"="church"](AROUND);`,
	`node["building"="cathedral"](AROUND);`,
	`node["building"="mosque"](AROUND);`,
	`node["building"="synagogue"](AROUND);`,
	`node["building"="temple"](AROUND);`,
	`way["building"~"church|cathedral|mosque|synagogue|temple"](AROUND);`,
	`node["amenity"~"place_of_worship"](AROUND);`,
	`way["amenity"="place_of_worship"](AROUND);`,

	// monuments
	`node["memorial"](AROUND);`,
	`node["man_made"~"tower|lighthouse|windmill"](AROUND);`,
	`way["man_made"~"tower|lighthouse"](AROUND);`,

	// entertainment
	`node["amenity"~"theatre|cinema|nightclub|casino|arts_centre|community_centre"](AROUND);`,
	`way["amenity"~"theatre|cinema|arts_centre"](AROUND);`,

	// nature
	`node["leisure"~"park|garden|nature_reserve|playground|beach_resort|marina"](AROUND);`,
	`way["leisure"~"park|garden|nature_reserve|marina"](AROUND);`,
	`node["natural"~"beach|peak|waterfall|cave_entrance|spring|hot_spring"](AROUND);`,
	`way["natural"~"beach|wood"](AROUND);`,
	`node["tourism"="picnic_site"](AROUND);`,

	// shopping
	`node["shop"~"mall|department_store|supermarket|clothes|gift|jewelry|antiques|art"](AROUND);`,
	`way["shop"~"mall|department_store"](AROUND);`,
	`node["amenity"="marketplace"](AROUND);`,
	`way["amenity"="marketplace"](AROUND);`,
}

// BuildQuery returns the Overpass QL query for every POI class within
// radius metres of lat/lng.
func BuildQuery(lat, lng float64, radius int) string {
	around := fmt.Sprintf("around:%d,%s,%s", radius,
		strconv.FormatFloat(lat, 'f', -1, 64),
		strconv.FormatFloat(lng, 'f', -1, 64))

	var b strings.Builder
	fmt.Fprintf(&b, "[out:json][timeout:%d];\n(\n", queryTimeout)
	for _, f := range queryFilters {
		b.WriteString("  ")
		b.WriteString(strings.Replace(f, "AROUND", around, 1))
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, ");\nout center %d;", queryLimit)
	return b.String()
}
