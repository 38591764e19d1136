package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"gigfeed/internal/models"
)

// CreateWishlist adds a wishlist for a user. Names are unique per user.
func (s *Store) CreateWishlist(ctx context.Context, userID int64, name string) (*models.Wishlist, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("wishlist name is required")
	}

	wishlist := &models.Wishlist{UserID: userID, Name: name}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO wishlists (user_id, name)
		VALUES ($1, $2)
		RETURNING id, created_at
	`, userID, name).Scan(&wishlist.ID, &wishlist.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrWishlistExists
		}
		return nil, fmt.Errorf("insert wishlist: %w", err)
	}
	return wishlist, nil
}

// WishlistByID retrieves a single wishlist.
func (s *Store) WishlistByID(ctx context.Context, id int64) (*models.Wishlist, error) {
	var w models.Wishlist
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, created_at
		FROM wishlists
		WHERE id = $1
	`, id).Scan(&w.ID, &w.UserID, &w.Name, &w.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrWishlistNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select wishlist: %w", err)
	}
	return &w, nil
}

// ListWishlistsByUser returns all wishlists owned by a user.
func (s *Store) ListWishlistsByUser(ctx context.Context, userID int64) ([]models.Wishlist, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, name, created_at
		FROM wishlists
		WHERE user_id = $1
		ORDER BY name ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("select wishlists: %w", err)
	}
	defer rows.Close()

	var wishlists []models.Wishlist
	for rows.Next() {
		var w models.Wishlist
		if err := rows.Scan(&w.ID, &w.UserID, &w.Name, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan wishlist: %w", err)
		}
		wishlists = append(wishlists, w)
	}
	return wishlists, rows.Err()
}

// DeleteWishlist removes a wishlist and its band references.
func (s *Store) DeleteWishlist(ctx context.Context, userID, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM wishlist_bands
		WHERE wishlist_id = $1
	`, id); err != nil {
		return fmt.Errorf("delete wishlist references: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		DELETE FROM wishlists
		WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return fmt.Errorf("delete wishlist: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if deleted == 0 {
		return ErrWishlistNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	tx = nil

	return nil
}

// AddWishlistBand links a band to a wishlist. A band appears at most
// once per wishlist; adding an existing member is a no-op.
func (s *Store) AddWishlistBand(ctx context.Context, wishlistID, bandID int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO wishlist_bands (wishlist_id, band_id)
		VALUES ($1, $2)
		ON CONFLICT (wishlist_id, band_id) DO NOTHING
	`, wishlistID, bandID)
	if err != nil {
		return false, fmt.Errorf("add wishlist band: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return rows > 0, nil
}

// RemoveWishlistBand unlinks a band from a wishlist.
func (s *Store) RemoveWishlistBand(ctx context.Context, wishlistID, bandID int64) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM wishlist_bands
		WHERE wishlist_id = $1 AND band_id = $2
	`, wishlistID, bandID)
	if err != nil {
		return fmt.Errorf("remove wishlist band: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return ErrBandNotFound
	}
	return nil
}

// WishlistBands returns the member bands of a wishlist.
func (s *Store) WishlistBands(ctx context.Context, wishlistID int64) ([]models.Band, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT b.id, b.name, b.external_id, b.created_at
		FROM wishlist_bands wb
		JOIN bands b ON b.id = wb.band_id
		WHERE wb.wishlist_id = $1
		ORDER BY b.name ASC
	`, wishlistID)
	if err != nil {
		return nil, fmt.Errorf("select wishlist bands: %w", err)
	}
	defer rows.Close()

	var bands []models.Band
	for rows.Next() {
		var band models.Band
		if err := rows.Scan(&band.ID, &band.Name, &band.ExternalID, &band.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan band: %w", err)
		}
		bands = append(bands, band)
	}
	return bands, rows.Err()
}
