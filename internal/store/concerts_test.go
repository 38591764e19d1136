package store

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"gigfeed/internal/models"
)

var concertRowColumns = []string{
	"id", "name", "venue", "city", "country", "longitude", "latitude",
	"date", "on_sale", "sale_start", "external_id", "summary", "festival", "url", "created_at",
}

func concertRow(id int64, externalID, venue string, date any) *sqlmock.Rows {
	return sqlmock.NewRows(concertRowColumns).AddRow(
		id, "Test Event", venue, "Berlin", "Germany", nil, nil,
		date, true, nil, externalID, "", false, "", time.Now(),
	)
}

func TestFindConcertMatchesExternalID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)
	date := time.Date(2024, 6, 1, 19, 0, 0, 0, time.UTC)

	// The OR lookup lets an external id match even when venue/date differ.
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE external_id = $1 OR (venue = $2 AND date = $3)`)).
		WithArgs("E1", "Columbiahalle", date).
		WillReturnRows(concertRow(7, "E1", "Astra", date.AddDate(0, 0, 3)))

	concert, err := s.FindConcertByKeys(context.Background(), "E1", "Columbiahalle", &date)
	if err != nil {
		t.Fatalf("FindConcertByKeys: %v", err)
	}
	if concert.ID != 7 || concert.ExternalID != "E1" {
		t.Fatalf("unexpected concert: %#v", concert)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestFindConcertNilDateMatchesStoredNull(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE external_id = $1 OR (venue = $2 AND date IS NULL)`)).
		WithArgs("E2", "Astra").
		WillReturnRows(concertRow(9, "E2", "Astra", nil))

	concert, err := s.FindConcertByKeys(context.Background(), "E2", "Astra", nil)
	if err != nil {
		t.Fatalf("FindConcertByKeys: %v", err)
	}
	if concert.ID != 9 || concert.Date != nil {
		t.Fatalf("unexpected concert: %#v", concert)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestFindConcertNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)
	date := time.Date(2024, 6, 1, 19, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE external_id = $1 OR (venue = $2 AND date = $3)`)).
		WithArgs("E3", "Astra", date).
		WillReturnError(sql.ErrNoRows)

	_, err = s.FindConcertByKeys(context.Background(), "E3", "Astra", &date)
	if !errors.Is(err, ErrConcertNotFound) {
		t.Fatalf("expected ErrConcertNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateConcertUniqueViolation(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO concerts`)).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err = s.CreateConcert(context.Background(), &models.Concert{
		Name:       "Test Event",
		Venue:      "Astra",
		ExternalID: "E1",
		CreatedAt:  time.Now(),
	})
	if !errors.Is(err, ErrConcertExists) {
		t.Fatalf("expected ErrConcertExists, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestLinkBandConcertIdempotent(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	link := regexp.QuoteMeta(`
		INSERT INTO band_concerts (band_id, concert_id)
		VALUES ($1, $2)
		ON CONFLICT (band_id, concert_id) DO NOTHING
	`)

	mock.ExpectExec(link).
		WithArgs(int64(1), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(link).
		WithArgs(int64(1), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	created, err := s.LinkBandConcert(context.Background(), 1, 7)
	if err != nil {
		t.Fatalf("LinkBandConcert: %v", err)
	}
	if !created {
		t.Fatal("expected first link to create a reference")
	}

	created, err = s.LinkBandConcert(context.Background(), 1, 7)
	if err != nil {
		t.Fatalf("LinkBandConcert second call: %v", err)
	}
	if created {
		t.Fatal("expected second link to be a no-op")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
