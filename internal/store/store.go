// Package store provides persistence backed by Postgres. Each aggregate
// has its own file; lookups that miss return a sentinel error rather
// than a wrapped failure so callers can branch on them.
package store

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrUserExists signals the username is already taken.
	ErrUserExists = errors.New("user already exists")
	// ErrInvalidCredentials indicates a login failure.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrBandNotFound indicates the band does not exist.
	ErrBandNotFound = errors.New("band not found")
	// ErrBandExists signals a duplicate band name or external id.
	ErrBandExists = errors.New("band already exists")
	// ErrConcertNotFound indicates neither concert lookup key matched.
	ErrConcertNotFound = errors.New("concert not found")
	// ErrConcertExists signals a concurrent insert won the unique
	// constraint on external id or (venue, date).
	ErrConcertExists = errors.New("concert already exists")
	// ErrWishlistNotFound indicates the wishlist does not exist.
	ErrWishlistNotFound = errors.New("wishlist not found")
	// ErrWishlistExists signals a duplicate wishlist name for the user.
	ErrWishlistExists = errors.New("wishlist already exists")
)

// Store provides persistence backed by Postgres.
type Store struct {
	db *sql.DB
}

// New sets up a Store using the provided database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
