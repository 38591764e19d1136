package models

import "time"

// Band represents a performing act tracked by one or more users.
// Bands are created lazily the first time they are referenced and are
// never merged with another band record afterwards.
type Band struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	ExternalID *string   `json:"external_id,omitempty"` // Ticketmaster attraction id
	CreatedAt  time.Time `json:"created_at"`
}

// BandSummary is a band annotated with the number of concerts retained
// for it inside a wishlist projection.
type BandSummary struct {
	Band
	ConcertCount int `json:"concert_count"`
}
