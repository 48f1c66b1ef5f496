package trips

import (
	"fmt"
	"strings"
	"time"

	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"tripspotter/places"
)

// CategoryLabel returns the display name of c, e.g. "Restaurant".
func CategoryLabel(c places.Category) string {
	// a Caser keeps state, so each call gets its own
	return cases.Title(language.English).String(string(c))
}

// FormatDateRange renders two YYYY-MM-DD dates as "Jan 2 - Jan 9, 2026".
// Unparseable dates are returned as given.
func FormatDateRange(start, end string) string {
	from, err1 := time.Parse(DateLayout, start)
	to, err2 := time.Parse(DateLayout, end)
	if err1 != nil || err2 != nil {
		return start + " - " + end
	}
	return from.Format("Jan 2") + " - " + to.Format("Jan 2, 2006")
}

// Itinerary renders t as plain text.
func Itinerary(t *Trip) string {
	var b strings.Builder
	b.WriteString(t.Name + "\n")
	b.WriteString(FormatDateRange(t.StartDate, t.EndDate) + "\n\n")

	if len(t.Locations) == 0 {
		b.WriteString("No places yet\n")
	}
	for _, l := range t.Locations {
		fmt.Fprintf(&b, "%d. %s (%s) %.5f, %.5f\n", l.Order, l.Name, CategoryLabel(l.Category), l.Lat, l.Lng)
	}
	if n := strings.TrimSpace(t.Notes); n != "" {
		b.WriteString("\nNotes: " + n + "\n")
	}
	return b.String()
}

// QRCode encodes the itinerary of t as a PNG image size pixels wide.
func QRCode(t *Trip, size int) ([]byte, error) {
	if size <= 0 {
		size = 256
	}
	png, err := qrcode.Encode(Itinerary(t), qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("trip qr code: %w", err)
	}
	return png, nil
}
