package places

// Rule maps matching tags to a category. Rules are evaluated in order and
// the first match wins.
type Rule struct {
	Name     string
	Match    func(Tags) bool
	Category Category
}

// rules is the classification cascade; slice order is precedence. The
// historic rule must stay ahead of culture and nature.
var rules = []Rule{
	{
		Name: "food",
		Match: func(t Tags) bool {
			return t.Is("amenity", "restaurant", "cafe", "fast_food", "bar", "pub", "food_court", "ice_cream", "biergarten")
		},
		Category: Restaurant,
	},
	{
		Name: "accommodation",
		Match: func(t Tags) bool {
			return t.Is("tourism", "hotel", "hostel", "guest_house", "motel", "apartment", "chalet")
		},
		Category: Hotel,
	},
	{
		Name: "historic",
		Match: func(t Tags) bool {
			return t.Has("historic") || t.Has("heritage") || t.Has("memorial") ||
				t.Is("building", "church", "cathedral", "mosque", "synagogue", "temple") ||
				t.Is("amenity", "place_of_worship") ||
				t.Is("man_made", "tower", "lighthouse")
		},
		Category: Attraction,
	},
	{
		Name: "culture",
		Match: func(t Tags) bool {
			return t.Is("tourism", "attraction", "museum", "gallery", "viewpoint", "artwork", "zoo", "aquarium", "theme_park") ||
				t.Is("amenity", "theatre", "cinema", "arts_centre", "nightclub", "casino")
		},
		Category: Attraction,
	},
	{
		Name: "nature",
		Match: func(t Tags) bool {
			return t.Is("leisure", "park", "garden", "nature_reserve", "beach_resort", "marina") ||
				t.Has("natural") ||
				t.Is("tourism", "picnic_site")
		},
		Category: Nature,
	},
	{
		Name: "shopping",
		Match: func(t Tags) bool {
			return t.Has("shop") || t.Is("amenity", "marketplace")
		},
		Category: Shopping,
	},
}

// Rules returns a copy of the classification cascade in evaluation order.
func Rules() []Rule {
	return append([]Rule(nil), rules...)
}

// Classify returns the category of the first matching rule, or Attraction.
func Classify(tags Tags) Category {
	for _, r := range rules {
		if r.Match(tags) {
			return r.Category
		}
	}
	return Attraction
}
