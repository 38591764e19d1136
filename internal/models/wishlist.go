package models

import "time"

// Wishlist groups bands a user wants to follow. Concerts are never
// referenced directly; they are derived transitively through the bands.
type Wishlist struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// WishlistView is the read-only, filtered, deduplicated concert view
// derived from a wishlist's member bands.
type WishlistView struct {
	Wishlist
	Bands    []BandSummary `json:"bands"`
	Concerts []ConcertView `json:"concerts"`
}
