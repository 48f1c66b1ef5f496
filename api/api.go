package api

import (
	"fmt"
	"strings"
)

type Endpoint struct {
	Name        string
	Path        string
	Method      string
	Params      []*Param
	Response    []*Value
	Description string
}

type Param struct {
	Name        string
	Value       string
	Description string
}

type Value struct {
	Type   string
	Params []*Param
}

var tripParams = []*Param{
	{Name: "id", Value: "string", Description: "Trip id"},
	{Name: "name", Value: "string", Description: "Trip name"},
	{Name: "startDate", Value: "string", Description: "First day, YYYY-MM-DD"},
	{Name: "endDate", Value: "string", Description: "Last day, YYYY-MM-DD"},
	{Name: "icon", Value: "string", Description: "Icon class"},
	{Name: "notes", Value: "string", Description: "Free-form notes"},
	{Name: "locations", Value: "array", Description: "Stops as {id, name, category, lat, lng, order}"},
	{Name: "createdAt", Value: "string", Description: "RFC 3339 creation time"},
}

var tripResponse = []*Value{{Type: "JSON", Params: tripParams}}

var Endpoints = []*Endpoint{{
	Name:        "Nearby Places",
	Path:        "/places/nearby",
	Method:      "POST",
	Description: "Search points of interest around a map point. Falls back to sample places when no mirror answers.",
	Params: []*Param{
		{Name: "lat", Value: "number", Description: "Latitude"},
		{Name: "lng", Value: "number", Description: "Longitude"},
		{Name: "radius", Value: "number", Description: "Search radius in metres, 100 to 5000 (optional)"},
	},
	Response: []*Value{{
		Type: "JSON",
		Params: []*Param{
			{Name: "places", Value: "array", Description: "Places sorted by distance"},
			{Name: "source", Value: "string", Description: "remote or demo"},
			{Name: "mirror", Value: "string", Description: "Mirror that answered"},
			{Name: "empty", Value: "bool", Description: "The mirror answered with no results"},
			{Name: "attempts", Value: "number", Description: "Mirrors tried"},
		},
	}},
}, {
	Name:        "Places",
	Path:        "/places",
	Method:      "GET",
	Description: "List the places of the last search",
	Params: []*Param{
		{Name: "category", Value: "string", Description: "all, restaurant, hotel, attraction, nature or shopping"},
		{Name: "q", Value: "string", Description: "Text matched against name and description"},
	},
	Response: []*Value{{
		Type: "JSON",
		Params: []*Param{
			{Name: "places", Value: "array", Description: "Matching places with favorite and inTrip flags"},
			{Name: "search", Value: "object", Description: "Details of the last search"},
		},
	}},
}, {
	Name:        "Clear Places",
	Path:        "/places/clear",
	Method:      "POST",
	Description: "Clear the search results",
}, {
	Name:        "Trips",
	Path:        "/trips",
	Method:      "GET",
	Description: "List trips",
	Response: []*Value{{
		Type:   "JSON",
		Params: []*Param{{Name: "trips", Value: "array", Description: "All trips in creation order"}},
	}},
}, {
	Name:        "Create Trip",
	Path:        "/trips",
	Method:      "POST",
	Description: "Create a trip, optionally with a first place",
	Params: []*Param{
		{Name: "name", Value: "string", Description: "Trip name (required)"},
		{Name: "start_date", Value: "string", Description: "YYYY-MM-DD (required)"},
		{Name: "end_date", Value: "string", Description: "YYYY-MM-DD (required)"},
		{Name: "icon", Value: "string", Description: "Icon class, defaults to fa-umbrella-beach"},
		{Name: "notes", Value: "string", Description: "Notes"},
		{Name: "place_id", Value: "string", Description: "Place to add once created"},
	},
	Response: tripResponse,
}, {
	Name:        "Delete Trip",
	Path:        "/trips/delete",
	Method:      "POST",
	Description: "Delete a trip",
	Params:      []*Param{{Name: "id", Value: "string", Description: "Trip id"}},
}, {
	Name:        "Add To Trip",
	Path:        "/trips/add",
	Method:      "POST",
	Description: "Add a place to a trip",
	Params: []*Param{
		{Name: "trip_id", Value: "string", Description: "Trip id"},
		{Name: "place_id", Value: "string", Description: "Place id from the search results or favorites"},
	},
	Response: tripResponse,
}, {
	Name:        "Quick Add",
	Path:        "/trips/quickadd",
	Method:      "POST",
	Description: "Add a place to the only trip. Answers 409 with the trip list when there are several.",
	Params:      []*Param{{Name: "place_id", Value: "string", Description: "Place id"}},
	Response:    tripResponse,
}, {
	Name:        "Remove From Trip",
	Path:        "/trips/remove",
	Method:      "POST",
	Description: "Remove a stop from a trip and renumber the rest",
	Params: []*Param{
		{Name: "trip_id", Value: "string", Description: "Trip id"},
		{Name: "location_id", Value: "string", Description: "Stop id"},
	},
	Response: tripResponse,
}, {
	Name:        "Optimize Trip",
	Path:        "/trips/optimize",
	Method:      "POST",
	Description: "Reorder stops by visiting the nearest next stop first",
	Params:      []*Param{{Name: "id", Value: "string", Description: "Trip id"}},
	Response:    tripResponse,
}, {
	Name:        "Share Trip",
	Path:        "/trips/share",
	Method:      "GET",
	Description: "Plain-text itinerary, or a PNG QR code of it",
	Params: []*Param{
		{Name: "id", Value: "string", Description: "Trip id"},
		{Name: "format", Value: "string", Description: "qr for a PNG image"},
		{Name: "size", Value: "number", Description: "QR image size in pixels, 64 to 1024"},
	},
}, {
	Name:        "Favorites",
	Path:        "/favorites",
	Method:      "GET",
	Description: "List favorite places",
	Response: []*Value{{
		Type:   "JSON",
		Params: []*Param{{Name: "favorites", Value: "array", Description: "Saved place snapshots"}},
	}},
}, {
	Name:        "Toggle Favorite",
	Path:        "/favorites/toggle",
	Method:      "POST",
	Description: "Add or remove a favorite",
	Params:      []*Param{{Name: "id", Value: "string", Description: "Place id"}},
	Response: []*Value{{
		Type:   "JSON",
		Params: []*Param{{Name: "favorite", Value: "bool", Description: "New favorite state"}},
	}},
}, {
	Name:        "Theme",
	Path:        "/theme",
	Method:      "POST",
	Description: "Set the theme",
	Params:      []*Param{{Name: "theme", Value: "string", Description: "dark, light or toggle"}},
}, {
	Name:        "Stats",
	Path:        "/stats",
	Method:      "GET",
	Description: "Trip, favorite, planned place and search result counts",
}, {
	Name:        "Events",
	Path:        "/events",
	Method:      "GET",
	Description: "WebSocket stream of notices as {type, message, time}",
}, {
	Name:        "Status",
	Path:        "/status",
	Method:      "GET",
	Description: "Service health, mirrors and recent logs. Add quick=1 for a short check.",
}}

func table(b *strings.Builder, params []*Param) {
	b.WriteString("| Field | Type | Description |\n")
	b.WriteString("| ----- | ---- | ----------- |\n")
	for _, param := range params {
		fmt.Fprintf(b, "|	%s	|	%s	|	%s	|\n", param.Name, param.Value, param.Description)
	}
	b.WriteString("\n")
}

// Markdown API document
func Markdown() string {
	var b strings.Builder

	b.WriteString("# API Documentation\n\n")
	b.WriteString("Requests take form-encoded or query parameters and answer JSON. ")
	b.WriteString("Errors are returned as `{\"error\": \"message\"}`.\n\n")
	b.WriteString("```bash\n")
	b.WriteString("curl -d lat=41.0082 -d lng=28.9784 http://localhost:8080/places/nearby\n")
	b.WriteString("```\n\n")
	b.WriteString("---\n\n")
	b.WriteString("## Endpoints\n\n")

	for _, endpoint := range Endpoints {
		fmt.Fprintf(&b, "## %s\n\n", endpoint.Name)
		fmt.Fprintf(&b, "%s\n\n", endpoint.Description)
		fmt.Fprintf(&b, "```%s %s```\n\n", endpoint.Method, endpoint.Path)

		if endpoint.Params != nil {
			b.WriteString("#### Request\n\n")
			b.WriteString("Format: form\n\n")
			table(&b, endpoint.Params)
		}

		for _, resp := range endpoint.Response {
			b.WriteString("#### Response\n\n")
			fmt.Fprintf(&b, "Format: %s\n\n", resp.Type)
			table(&b, resp.Params)
		}
		b.WriteString("\\\n\n")
	}

	return b.String()
}
