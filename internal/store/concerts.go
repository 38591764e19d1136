package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"gigfeed/internal/models"
)

const concertColumns = `id, name, venue, city, country, longitude, latitude,
		       date, on_sale, sale_start, external_id, summary, festival, url, created_at`

func scanConcert(row interface{ Scan(...any) error }, c *models.Concert) error {
	return row.Scan(
		&c.ID, &c.Name, &c.Venue, &c.City, &c.Country, &c.Longitude, &c.Latitude,
		&c.Date, &c.OnSale, &c.SaleStart, &c.ExternalID, &c.Summary, &c.Festival,
		&c.URL, &c.CreatedAt,
	)
}

// FindConcertByKeys looks up a stored concert by external event id or by
// the (venue, date) pair. A nil date only matches a stored NULL date.
// The lookup is read-only; a miss returns ErrConcertNotFound.
func (s *Store) FindConcertByKeys(ctx context.Context, externalID, venue string, date *time.Time) (*models.Concert, error) {
	var (
		row *sql.Row
		c   models.Concert
	)

	if date != nil {
		row = s.db.QueryRowContext(ctx, `
			SELECT `+concertColumns+`
			FROM concerts
			WHERE external_id = $1 OR (venue = $2 AND date = $3)
			LIMIT 1
		`, externalID, venue, *date)
	} else {
		row = s.db.QueryRowContext(ctx, `
			SELECT `+concertColumns+`
			FROM concerts
			WHERE external_id = $1 OR (venue = $2 AND date IS NULL)
			LIMIT 1
		`, externalID, venue)
	}

	if err := scanConcert(row, &c); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrConcertNotFound
		}
		return nil, fmt.Errorf("find concert: %w", err)
	}
	return &c, nil
}

// ConcertByID retrieves a single concert.
func (s *Store) ConcertByID(ctx context.Context, id int64) (*models.Concert, error) {
	var c models.Concert
	row := s.db.QueryRowContext(ctx, `
		SELECT `+concertColumns+`
		FROM concerts
		WHERE id = $1
	`, id)
	if err := scanConcert(row, &c); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrConcertNotFound
		}
		return nil, fmt.Errorf("select concert: %w", err)
	}
	return &c, nil
}

// CreateConcert inserts a new concert with the given fields. A unique
// violation on external_id or (venue, date) reports ErrConcertExists so
// the caller can re-match and link to the row that won.
func (s *Store) CreateConcert(ctx context.Context, c *models.Concert) (*models.Concert, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO concerts (name, venue, city, country, longitude, latitude,
		                      date, on_sale, sale_start, external_id, summary, festival, url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id
	`,
		c.Name, c.Venue, c.City, c.Country, c.Longitude, c.Latitude,
		c.Date, c.OnSale, c.SaleStart, c.ExternalID, c.Summary, c.Festival,
		c.URL, c.CreatedAt,
	).Scan(&c.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrConcertExists
		}
		return nil, fmt.Errorf("insert concert: %w", err)
	}
	return c, nil
}

// LinkBandConcert creates the band-concert reference unless it already
// exists. Linking an already-linked pair is a no-op, not an error; the
// returned flag reports whether a row was written.
func (s *Store) LinkBandConcert(ctx context.Context, bandID, concertID int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO band_concerts (band_id, concert_id)
		VALUES ($1, $2)
		ON CONFLICT (band_id, concert_id) DO NOTHING
	`, bandID, concertID)
	if err != nil {
		return false, fmt.Errorf("link band concert: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return rows > 0, nil
}

// ConcertsByBand returns every concert linked to the band, each carrying
// the full set of band ids linked to it (not just the requesting band).
func (s *Store) ConcertsByBand(ctx context.Context, bandID int64) ([]models.ConcertWithBands, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.name, c.venue, c.city, c.country, c.longitude, c.latitude,
		       c.date, c.on_sale, c.sale_start, c.external_id, c.summary, c.festival, c.url, c.created_at,
		       array_agg(all_refs.band_id ORDER BY all_refs.band_id) AS band_ids
		FROM band_concerts bc
		JOIN concerts c ON c.id = bc.concert_id
		JOIN band_concerts all_refs ON all_refs.concert_id = c.id
		WHERE bc.band_id = $1
		GROUP BY c.id
		ORDER BY c.date ASC NULLS LAST, c.id ASC
	`, bandID)
	if err != nil {
		return nil, fmt.Errorf("select concerts by band: %w", err)
	}
	defer rows.Close()

	var concerts []models.ConcertWithBands
	for rows.Next() {
		var (
			c       models.ConcertWithBands
			bandIDs pq.Int64Array
		)
		err := rows.Scan(
			&c.ID, &c.Name, &c.Venue, &c.City, &c.Country, &c.Longitude, &c.Latitude,
			&c.Date, &c.OnSale, &c.SaleStart, &c.ExternalID, &c.Summary, &c.Festival,
			&c.URL, &c.CreatedAt, &bandIDs,
		)
		if err != nil {
			return nil, fmt.Errorf("scan concert: %w", err)
		}
		c.BandIDs = bandIDs
		concerts = append(concerts, c)
	}
	return concerts, rows.Err()
}
