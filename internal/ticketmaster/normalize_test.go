package ticketmaster

import (
	"testing"
	"time"
)

func rawEvent(id, venue, dateTime string, performers ...string) Event {
	ev := Event{
		ID:   id,
		Name: "Test Event " + id,
		Dates: Dates{
			Start: DateStart{DateTime: dateTime},
		},
	}
	if venue != "" {
		ev.Embedded.Venues = []Venue{{
			Name:    venue,
			City:    City{Name: "Berlin"},
			Country: Country{Name: "Germany"},
		}}
	}
	for _, p := range performers {
		ev.Embedded.Attractions = append(ev.Embedded.Attractions, Attraction{ID: "a-" + p, Name: p})
	}
	return ev
}

func TestNormalizeCollapsesSameVenueAndDay(t *testing.T) {
	events := []Event{
		rawEvent("e1", "Astra", "2024-06-01T19:00:00Z"),
		rawEvent("e2", "Astra", "2024-06-01T21:30:00Z"), // same venue, same day, later time
	}

	canonical := Normalize(events)
	if len(canonical) != 1 {
		t.Fatalf("expected 1 canonical event, got %d", len(canonical))
	}
	// First seen wins; the duplicate is dropped, not merged.
	if canonical[0].ExternalID != "e1" {
		t.Fatalf("expected first-seen event e1 to win, got %s", canonical[0].ExternalID)
	}
}

func TestNormalizeKeepsDifferentVenueOrDay(t *testing.T) {
	events := []Event{
		rawEvent("e1", "Astra", "2024-06-01T19:00:00Z"),
		rawEvent("e2", "Columbiahalle", "2024-06-01T19:00:00Z"),
		rawEvent("e3", "Astra", "2024-06-02T19:00:00Z"), // one day apart
	}

	canonical := Normalize(events)
	if len(canonical) != 3 {
		t.Fatalf("expected 3 canonical events, got %d", len(canonical))
	}
}

func TestNormalizeUnknownVenueAndDateStillKey(t *testing.T) {
	// Two distinct events with no venue and no date collide on the
	// (unknown, unknown) key; the accepted policy drops the second.
	events := []Event{
		rawEvent("e1", "", ""),
		rawEvent("e2", "", ""),
	}

	canonical := Normalize(events)
	if len(canonical) != 1 {
		t.Fatalf("expected 1 canonical event, got %d", len(canonical))
	}
	if canonical[0].Venue != "unknown" {
		t.Fatalf("expected default venue \"unknown\", got %q", canonical[0].Venue)
	}
	if canonical[0].Date != nil {
		t.Fatalf("expected nil date, got %v", canonical[0].Date)
	}
}

func TestNormalizeFestivalFlag(t *testing.T) {
	seven := rawEvent("e1", "Wiese", "2024-08-01T12:00:00Z",
		"A", "B", "C", "D", "E", "F", "G")
	six := rawEvent("e2", "Halle", "2024-08-02T12:00:00Z",
		"A", "B", "C", "D", "E", "F")

	canonical := Normalize([]Event{seven, six})
	if len(canonical) != 2 {
		t.Fatalf("expected 2 canonical events, got %d", len(canonical))
	}
	if !canonical[0].Festival {
		t.Fatal("expected festival = true for 7 performers")
	}
	if canonical[1].Festival {
		t.Fatal("expected festival = false for 6 performers")
	}
}

func TestNormalizeFieldDerivation(t *testing.T) {
	ev := rawEvent("e1", "Astra", "2024-06-01T19:00:00Z", "Band One", "Band Two")
	ev.URL = "https://tickets.example/e1"
	ev.Dates.Status.Code = "onsale"
	ev.Sales.Public.StartDateTime = "2024-01-15T10:00:00Z"
	ev.Embedded.Venues[0].Location = Location{Longitude: "13.4530", Latitude: "52.5070"}

	canonical := Normalize([]Event{ev})
	if len(canonical) != 1 {
		t.Fatalf("expected 1 canonical event, got %d", len(canonical))
	}
	ce := canonical[0]

	if !ce.OnSale {
		t.Fatal("expected on_sale = true for status code onsale")
	}
	if ce.SaleStart == nil || !ce.SaleStart.Equal(time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected sale start: %v", ce.SaleStart)
	}
	if ce.Date == nil || !ce.Date.Equal(time.Date(2024, 6, 1, 19, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected date: %v", ce.Date)
	}
	if ce.Longitude == nil || *ce.Longitude != 13.453 {
		t.Fatalf("unexpected longitude: %v", ce.Longitude)
	}
	if ce.Latitude == nil || *ce.Latitude != 52.507 {
		t.Fatalf("unexpected latitude: %v", ce.Latitude)
	}
	if ce.Country != "Germany" || ce.City != "Berlin" {
		t.Fatalf("unexpected location: %q / %q", ce.Country, ce.City)
	}
	if ce.Summary != "Band One, Band Two in Berlin" {
		t.Fatalf("unexpected summary: %q", ce.Summary)
	}
	if ce.CreatedAt.IsZero() {
		t.Fatal("expected creation timestamp to be set")
	}
}

func TestNormalizeMalformedFieldsDegrade(t *testing.T) {
	ev := rawEvent("e1", "Astra", "not-a-date")
	ev.Sales.Public.StartDateTime = "also-not-a-date"
	ev.Embedded.Venues[0].Location = Location{Longitude: "east", Latitude: ""}

	canonical := Normalize([]Event{ev})
	if len(canonical) != 1 {
		t.Fatalf("expected 1 canonical event, got %d", len(canonical))
	}
	ce := canonical[0]

	if ce.Date != nil {
		t.Fatalf("expected nil date for malformed date-time, got %v", ce.Date)
	}
	if ce.SaleStart != nil {
		t.Fatalf("expected nil sale start for malformed value, got %v", ce.SaleStart)
	}
	if ce.Longitude != nil || ce.Latitude != nil {
		t.Fatalf("expected nil coordinates, got %v / %v", ce.Longitude, ce.Latitude)
	}
}
