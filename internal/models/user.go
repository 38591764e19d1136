package models

import "time"

// User is an account owning wishlists, movie ratings and game playtime.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}
