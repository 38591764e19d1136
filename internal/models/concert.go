package models

import "time"

// Concert is a reconciled event record referenced by one or more bands.
// A concert is created once per unique external event id or (venue, date)
// pair; later fetches matching either key link to it without changing
// its stored fields.
type Concert struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	Venue      string     `json:"venue"`
	City       string     `json:"city"`
	Country    string     `json:"country"`
	Longitude  *float64   `json:"longitude,omitempty"`
	Latitude   *float64   `json:"latitude,omitempty"`
	Date       *time.Time `json:"date,omitempty"` // nil when the source lacks a start date-time
	OnSale     bool       `json:"on_sale"`
	SaleStart  *time.Time `json:"sale_start,omitempty"`
	ExternalID string     `json:"external_id"`
	Summary    string     `json:"summary"` // human-readable lineup description
	Festival   bool       `json:"festival"`
	URL        string     `json:"url,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// ConcertWithBands carries a concert together with the ids of every band
// linked to it, regardless of who is asking.
type ConcertWithBands struct {
	Concert
	BandIDs []int64 `json:"band_ids"`
}

// ConcertView is a concert inside a wishlist projection, annotated with
// the wishlist members performing at it (not the full lineup).
type ConcertView struct {
	Concert
	ParticipatingBands     []Band `json:"participating_bands"`
	ParticipatingBandCount int    `json:"participating_band_count"`
}

// ConcertFilter narrows a wishlist projection. The date range applies
// only when both bounds are present; Countries is an allow-list.
type ConcertFilter struct {
	From      *time.Time
	To        *time.Time
	Countries []string
}
