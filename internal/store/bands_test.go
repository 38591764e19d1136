package store

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

func TestCreateBand(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)
	externalID := "K8vZ9171234"

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO bands (name, external_id)`)).
		WithArgs("Dream Theater", &externalID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(4), time.Now()))

	band, err := s.CreateBand(context.Background(), "Dream Theater", &externalID)
	if err != nil {
		t.Fatalf("CreateBand: %v", err)
	}
	if band.ID != 4 || band.Name != "Dream Theater" {
		t.Fatalf("unexpected band: %#v", band)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateBandDuplicateName(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO bands`)).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err = s.CreateBand(context.Background(), "Dream Theater", nil)
	if !errors.Is(err, ErrBandExists) {
		t.Fatalf("expected ErrBandExists, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeleteBandPurgesOrphanConcerts(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT concert_id`)).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"concert_id"}).AddRow(int64(10)).AddRow(int64(11)))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM band_concerts`)).
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM wishlist_bands`)).
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// Concert 10 is still linked to another band; only 11 goes away.
	mock.ExpectQuery(regexp.QuoteMeta(`DELETE FROM concerts`)).
		WithArgs(pq.Array([]int64{10, 11})).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM bands`)).
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	removedRefs, orphanIDs, err := s.DeleteBand(context.Background(), 4)
	if err != nil {
		t.Fatalf("DeleteBand: %v", err)
	}
	if removedRefs != 2 {
		t.Fatalf("expected 2 removed references, got %d", removedRefs)
	}
	if len(orphanIDs) != 1 || orphanIDs[0] != 11 {
		t.Fatalf("expected orphan concert 11, got %v", orphanIDs)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeleteBandNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT concert_id`)).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"concert_id"}))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM band_concerts`)).
		WithArgs(int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM wishlist_bands`)).
		WithArgs(int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM bands`)).
		WithArgs(int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, _, err = s.DeleteBand(context.Background(), 99)
	if !errors.Is(err, ErrBandNotFound) {
		t.Fatalf("expected ErrBandNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
