package ticketmaster

import (
	"strconv"
	"strings"
	"time"
)

const unknownVenue = "unknown"

// CanonicalEvent is the normalized, deduplicated representation of one
// external event. Malformed optional source fields degrade to nil or a
// default; normalization never fails.
type CanonicalEvent struct {
	ExternalID string
	Name       string
	Venue      string
	City       string
	Country    string
	Longitude  *float64
	Latitude   *float64
	Date       *time.Time // nil when the source lacks a start date-time
	OnSale     bool
	SaleStart  *time.Time
	Festival   bool
	Summary    string
	URL        string
	CreatedAt  time.Time
}

// Normalize converts raw events into canonical events, collapsing
// duplicates within the batch. Two events collapse when their venue name
// and day-truncated date match; the first seen in iteration order wins
// and later duplicates are dropped, not merged. Events with an unknown
// venue or unknown date still take part in the key, so distinct events
// can collide there; that risk is accepted.
func Normalize(events []Event) []CanonicalEvent {
	now := time.Now()

	seen := make(map[string]struct{}, len(events))
	canonical := make([]CanonicalEvent, 0, len(events))
	for _, ev := range events {
		ce := normalizeEvent(ev, now)
		key := dedupKey(ce)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		canonical = append(canonical, ce)
	}
	return canonical
}

func dedupKey(ce CanonicalEvent) string {
	day := "unknown"
	if ce.Date != nil {
		day = ce.Date.Format("2006-01-02")
	}
	return ce.Venue + "|" + day
}

func normalizeEvent(ev Event, now time.Time) CanonicalEvent {
	ce := CanonicalEvent{
		ExternalID: ev.ID,
		Name:       ev.Name,
		Venue:      unknownVenue,
		OnSale:     ev.Dates.Status.Code == "onsale",
		URL:        ev.URL,
		CreatedAt:  now,
	}

	if len(ev.Embedded.Venues) > 0 {
		v := ev.Embedded.Venues[0]
		if v.Name != "" {
			ce.Venue = v.Name
		}
		ce.City = v.City.Name
		ce.Country = v.Country.Name
		ce.Longitude = parseCoordinate(v.Location.Longitude)
		ce.Latitude = parseCoordinate(v.Location.Latitude)
	}

	if t, err := time.Parse(time.RFC3339, ev.Dates.Start.DateTime); err == nil {
		ce.Date = &t
	}
	if t, err := time.Parse(time.RFC3339, ev.Sales.Public.StartDateTime); err == nil {
		ce.SaleStart = &t
	}

	performers := ev.Embedded.Attractions
	ce.Festival = len(performers) > 6

	names := make([]string, 0, len(performers))
	for _, a := range performers {
		if a.Name != "" {
			names = append(names, a.Name)
		}
	}
	ce.Summary = strings.Join(names, ", ")
	if ce.City != "" {
		if ce.Summary != "" {
			ce.Summary += " in " + ce.City
		} else {
			ce.Summary = ce.City
		}
	}

	return ce
}

func parseCoordinate(raw string) *float64 {
	if raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &f
}
