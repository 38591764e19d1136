package models

import "time"

// Movie is a rated film imported from TMDb for a user.
type Movie struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	ExternalID  int64     `json:"external_id"` // TMDb movie id
	Title       string    `json:"title"`
	ReleaseDate string    `json:"release_date,omitempty"`
	Rating      float64   `json:"rating"` // TMDb vote average
	PosterPath  string    `json:"poster_path,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Game is an owned Steam title with accumulated playtime for a user.
type Game struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	AppID           int64     `json:"app_id"` // Steam app id
	Name            string    `json:"name"`
	PlaytimeMinutes int64     `json:"playtime_minutes"`
	IconURL         string    `json:"icon_url,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
