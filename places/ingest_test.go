package places

import (
	"fmt"
	"testing"
)

func ptr(f float64) *float64 { return &f }

func node(id int64, name string, lat, lng float64, tags Tags) Element {
	if tags == nil {
		tags = Tags{}
	}
	if name != "" {
		tags["name"] = name
	}
	return Element{ID: id, Type: "node", Lat: ptr(lat), Lon: ptr(lng), Tags: tags}
}

func TestIngestDedupesByNormalizedName(t *testing.T) {
	elements := []Element{
		node(1, "Cafe Istanbul", 41.0090, 28.9790, Tags{"amenity": "cafe"}),
		node(2, "cafe istanbul ", 41.0083, 28.9785, Tags{"amenity": "cafe"}),
	}
	got := Ingest(elements, 41.0082, 28.9784)
	if len(got) != 1 {
		t.Fatalf("Ingest kept %d places, want 1", len(got))
	}
	if got[0].ID != "osm_1_node" || got[0].Name != "Cafe Istanbul" {
		t.Errorf("kept %s %q, want the first occurrence", got[0].ID, got[0].Name)
	}
}

func TestIngestSkipsUnusableElements(t *testing.T) {
	elements := []Element{
		{ID: 1, Type: "node", Tags: Tags{"name": "Nowhere"}},
		{ID: 2, Type: "node", Lat: ptr(41.01), Tags: Tags{"name": "Half"}},
		node(3, "", 41.01, 28.98, Tags{"amenity": "bench"}),
		node(4, "", 41.01, 28.98, Tags{"name:en": "English Name"}),
		node(5, "", 41.01, 28.98, Tags{"name:tr": "Türkçe Ad"}),
		{ID: 6, Type: "way", Center: &LatLon{Lat: 41.02, Lon: 28.97}, Tags: Tags{"name": "Center Way", "leisure": "park"}},
	}
	got := Ingest(elements, 41.0082, 28.9784)

	ids := map[string]*Place{}
	for _, p := range got {
		ids[p.ID] = p
	}
	if len(got) != 3 {
		t.Fatalf("Ingest kept %d places, want 3: %v", len(got), ids)
	}
	if p := ids["osm_4_node"]; p == nil || p.Name != "English Name" {
		t.Errorf("name:en fallback not used: %+v", p)
	}
	if p := ids["osm_5_node"]; p == nil || p.Name != "Türkçe Ad" {
		t.Errorf("name:tr fallback not used: %+v", p)
	}
	p := ids["osm_6_way"]
	if p == nil {
		t.Fatal("center-only way was dropped")
	}
	if p.Lat != 41.02 || p.Lng != 28.97 || p.Category != Nature || p.OSMID != 6 {
		t.Errorf("center way = %+v", p)
	}
}

func TestIngestNamePrecedence(t *testing.T) {
	el := node(1, "", 41, 29, Tags{"name": "Primary", "name:en": "English", "name:tr": "Turkish"})
	got := Ingest([]Element{el}, 41, 29)
	if len(got) != 1 || got[0].Name != "Primary" {
		t.Errorf("Ingest = %+v, want name Primary", got)
	}
}

func TestIngestZeroCoordinatesArePresent(t *testing.T) {
	got := Ingest([]Element{node(1, "Null Island Buoy", 0, 0, nil)}, 0, 0)
	if len(got) != 1 || got[0].Distance != 0 {
		t.Errorf("Ingest = %+v, want one place at distance 0", got)
	}
}

func TestIngestDefaultsType(t *testing.T) {
	el := Element{ID: 9, Lat: ptr(1), Lon: ptr(1), Tags: Tags{"name": "Untyped"}}
	got := Ingest([]Element{el}, 1, 1)
	if len(got) != 1 || got[0].ID != "osm_9_node" {
		t.Errorf("Ingest = %+v, want id osm_9_node", got)
	}
	if got[0].Tags == nil {
		t.Error("Tags should never be nil")
	}
}

func TestIngestSortsAndTruncates(t *testing.T) {
	var elements []Element
	// Insert in descending distance so sorting is observable.
	for i := 120; i > 0; i-- {
		elements = append(elements, node(int64(i), fmt.Sprintf("Place %d", i), 41+float64(i)*0.0005, 29, nil))
	}
	got := Ingest(elements, 41, 29)
	if len(got) != MaxResults {
		t.Fatalf("Ingest returned %d places, want %d", len(got), MaxResults)
	}
	for i := 1; i < len(got); i++ {
		if got[i].Distance < got[i-1].Distance {
			t.Fatalf("not sorted at %d: %v < %v", i, got[i].Distance, got[i-1].Distance)
		}
	}
	if got[0].Name != "Place 1" {
		t.Errorf("closest = %q, want Place 1", got[0].Name)
	}
}

func TestIngestFillsClassificationAndDescription(t *testing.T) {
	el := node(42, "Hagia Sophia", 41.0086, 28.9802, Tags{"historic": "mosque", "tourism": "attraction"})
	got := Ingest([]Element{el}, 41.0082, 28.9784)
	if len(got) != 1 {
		t.Fatal("expected one place")
	}
	p := got[0]
	if p.Category != Attraction {
		t.Errorf("Category = %q", p.Category)
	}
	if p.Description != "🕌 Mosque" {
		t.Errorf("Description = %q", p.Description)
	}
	if p.Distance <= 0 {
		t.Errorf("Distance = %v, want > 0", p.Distance)
	}
}

func TestIngestIsScopedToOneCall(t *testing.T) {
	batch := []Element{node(1, "Galata Tower", 41.0256, 28.9741, Tags{"man_made": "tower"})}
	if n := len(Ingest(batch, 41, 29)); n != 1 {
		t.Fatalf("first call kept %d", n)
	}
	if n := len(Ingest(batch, 41, 29)); n != 1 {
		t.Errorf("second call kept %d, dedup leaked across calls", n)
	}
}
