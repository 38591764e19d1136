package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"gigfeed/internal/models"
)

// CreateBand adds a new band. Bands are created on first reference and
// never merged afterwards; a duplicate name or external id is rejected.
func (s *Store) CreateBand(ctx context.Context, name string, externalID *string) (*models.Band, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("band name is required")
	}

	band := &models.Band{Name: name, ExternalID: externalID}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO bands (name, external_id)
		VALUES ($1, $2)
		RETURNING id, created_at
	`, name, externalID).Scan(&band.ID, &band.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrBandExists
		}
		return nil, fmt.Errorf("insert band: %w", err)
	}

	return band, nil
}

// BandByID retrieves a single band.
func (s *Store) BandByID(ctx context.Context, id int64) (*models.Band, error) {
	var band models.Band
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, external_id, created_at
		FROM bands
		WHERE id = $1
	`, id).Scan(&band.ID, &band.Name, &band.ExternalID, &band.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBandNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select band: %w", err)
	}
	return &band, nil
}

// BandByName retrieves a band by its unique display name.
func (s *Store) BandByName(ctx context.Context, name string) (*models.Band, error) {
	var band models.Band
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, external_id, created_at
		FROM bands
		WHERE name = $1
	`, name).Scan(&band.ID, &band.Name, &band.ExternalID, &band.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBandNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select band: %w", err)
	}
	return &band, nil
}

// ListBands returns all bands ordered by name.
func (s *Store) ListBands(ctx context.Context) ([]models.Band, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, external_id, created_at
		FROM bands
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("select bands: %w", err)
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

// BandsByIDs returns the bands matching the given ids.
func (s *Store) BandsByIDs(ctx context.Context, ids []int64) ([]models.Band, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, external_id, created_at
		FROM bands
		WHERE id = ANY($1)
		ORDER BY name ASC
	`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("select bands by ids: %w", err)
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

// DeleteBand removes a band, its concert references and any concerts
// left without a single band reference afterwards. Returns the number
// of removed references and the ids of the purged orphan concerts.
func (s *Store) DeleteBand(ctx context.Context, bandID int64) (int64, []int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	// Concerts touched by this band, captured before the references go.
	rows, err := tx.QueryContext(ctx, `
		SELECT concert_id
		FROM band_concerts
		WHERE band_id = $1
	`, bandID)
	if err != nil {
		return 0, nil, fmt.Errorf("select band references: %w", err)
	}
	var concertIDs []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, nil, fmt.Errorf("scan concert id: %w", err)
		}
		concertIDs = append(concertIDs, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, nil, fmt.Errorf("iterate band references: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		DELETE FROM band_concerts
		WHERE band_id = $1
	`, bandID)
	if err != nil {
		return 0, nil, fmt.Errorf("delete band references: %w", err)
	}
	removedRefs, err := res.RowsAffected()
	if err != nil {
		return 0, nil, fmt.Errorf("rows affected: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM wishlist_bands
		WHERE band_id = $1
	`, bandID); err != nil {
		return 0, nil, fmt.Errorf("delete wishlist references: %w", err)
	}

	var orphanIDs []int64
	if len(concertIDs) > 0 {
		orphanRows, err := tx.QueryContext(ctx, `
			DELETE FROM concerts
			WHERE id = ANY($1)
			  AND NOT EXISTS (
				SELECT 1 FROM band_concerts bc WHERE bc.concert_id = concerts.id
			  )
			RETURNING id
		`, pq.Array(concertIDs))
		if err != nil {
			return 0, nil, fmt.Errorf("delete orphan concerts: %w", err)
		}
		for orphanRows.Next() {
			var id int64
			if err := orphanRows.Scan(&id); err != nil {
				orphanRows.Close()
				return 0, nil, fmt.Errorf("scan orphan id: %w", err)
			}
			orphanIDs = append(orphanIDs, id)
		}
		orphanRows.Close()
		if err := orphanRows.Err(); err != nil {
			return 0, nil, fmt.Errorf("iterate orphan ids: %w", err)
		}
	}

	res, err = tx.ExecContext(ctx, `
		DELETE FROM bands
		WHERE id = $1
	`, bandID)
	if err != nil {
		return 0, nil, fmt.Errorf("delete band: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, nil, fmt.Errorf("rows affected: %w", err)
	}
	if deleted == 0 {
		return 0, nil, ErrBandNotFound
	}

	if err := tx.Commit(); err != nil {
		return 0, nil, fmt.Errorf("commit tx: %w", err)
	}
	tx = nil

	return removedRefs, orphanIDs, nil
}
