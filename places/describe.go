package places

import "strings"

// DescriptionSeparator joins the parts of a generated description.
const DescriptionSeparator = " • "

// DefaultDescription is used when no descriptive tags are present.
const DefaultDescription = "Click + to add to your trip"

const maxHoursLen = 30

var historicLabels = map[string]string{
	"monument":            "🏛️ Monument",
	"memorial":            "🎖️ Memorial",
	"castle":              "🏰 Castle",
	"ruins":               "🏚️ Historic Ruins",
	"archaeological_site": "🏺 Archaeological Site",
	"church":              "⛪ Church",
	"mosque":              "🕌 Mosque",
	"palace":              "👑 Palace",
	"fort":                "🏰 Fort",
	"tower":               "🗼 Tower",
	"building":            "🏛️ Historic Building",
}

// Describe builds a short summary from the descriptive tags of a place.
func Describe(tags Tags) string {
	var parts []string

	if v := tags["historic"]; v != "" {
		label, ok := historicLabels[v]
		if !ok {
			label = "🏛️ Historic: " + v
		}
		parts = append(parts, label)
	}
	if tags.Has("heritage") {
		parts = append(parts, "🌟 Heritage Site")
	}
	if v := tags["cuisine"]; v != "" {
		parts = append(parts, "🍴 "+v)
	}
	if v := tags["opening_hours"]; v != "" {
		parts = append(parts, "🕐 "+truncate(v, maxHoursLen))
	}
	if v := tags["phone"]; v != "" {
		parts = append(parts, "📞 "+v)
	}
	if tags.Has("website") {
		parts = append(parts, "🌐 Website")
	}
	if tags["wheelchair"] == "yes" {
		parts = append(parts, "♿ Accessible")
	}
	if v := tags["stars"]; v != "" {
		parts = append(parts, "⭐ "+v+" stars")
	}
	if v := tags["addr:street"]; v != "" {
		parts = append(parts, "📍 "+v)
	}
	if v := tags["religion"]; v != "" {
		parts = append(parts, "🙏 "+v)
	}

	if len(parts) == 0 {
		return DefaultDescription
	}
	return strings.Join(parts, DescriptionSeparator)
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
