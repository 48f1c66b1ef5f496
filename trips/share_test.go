package trips

import (
	"bytes"
	"strings"
	"testing"

	"tripspotter/places"
)

func TestFormatDateRange(t *testing.T) {
	tests := []struct{ start, end, want string }{
		{"2026-01-02", "2026-01-09", "Jan 2 - Jan 9, 2026"},
		{"2025-12-28", "2026-01-03", "Dec 28 - Jan 3, 2026"},
		{"soon", "2026-01-09", "soon - 2026-01-09"},
	}
	for _, tt := range tests {
		if got := FormatDateRange(tt.start, tt.end); got != tt.want {
			t.Errorf("FormatDateRange(%q, %q) = %q, want %q", tt.start, tt.end, got, tt.want)
		}
	}
}

func TestItinerary(t *testing.T) {
	trip := &Trip{
		Name:      "Istanbul",
		StartDate: "2026-01-02",
		EndDate:   "2026-01-09",
		Notes:     "Bring a jacket",
		Locations: []Location{
			{ID: "a", Name: "Hagia Sophia", Category: "attraction", Lat: 41.0086, Lng: 28.9802, Order: 1},
			{ID: "b", Name: "Cafe Istanbul", Category: "restaurant", Lat: 41.009, Lng: 28.979, Order: 2},
		},
	}
	got := Itinerary(trip)
	for _, want := range []string{
		"Istanbul\nJan 2 - Jan 9, 2026\n",
		"1. Hagia Sophia (Attraction) 41.00860, 28.98020\n",
		"2. Cafe Istanbul (Restaurant) 41.00900, 28.97900\n",
		"Notes: Bring a jacket",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("itinerary missing %q:\n%s", want, got)
		}
	}

	empty := Itinerary(&Trip{Name: "Empty", StartDate: "2026-01-02", EndDate: "2026-01-02"})
	if !strings.Contains(empty, "No places yet") || strings.Contains(empty, "Notes:") {
		t.Errorf("empty itinerary:\n%s", empty)
	}
}

func TestQRCode(t *testing.T) {
	trip := &Trip{Name: "Istanbul", StartDate: "2026-01-02", EndDate: "2026-01-09"}
	png, err := QRCode(trip, 128)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG\r\n\x1a\n")) {
		t.Error("QR code is not a PNG")
	}
}

func TestCategoryLabel(t *testing.T) {
	for c, want := range map[places.Category]string{
		places.Restaurant: "Restaurant",
		places.Nature:     "Nature",
		"":                "",
	} {
		if got := CategoryLabel(c); got != want {
			t.Errorf("CategoryLabel(%q) = %q, want %q", c, got, want)
		}
	}
}
