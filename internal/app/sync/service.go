// Package sync reconciles fetched Ticketmaster events against stored
// concerts for one band at a time: fetch, normalize and dedup the batch,
// then match each canonical event and either create-and-link a new
// concert or idempotently link the band to the existing one.
package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"gigfeed/internal/apperror"
	"gigfeed/internal/models"
	"gigfeed/internal/store"
	"gigfeed/internal/ticketmaster"
)

// Store defines the persistence operations the reconciler needs.
type Store interface {
	BandByID(ctx context.Context, id int64) (*models.Band, error)
	FindConcertByKeys(ctx context.Context, externalID, venue string, date *time.Time) (*models.Concert, error)
	CreateConcert(ctx context.Context, c *models.Concert) (*models.Concert, error)
	LinkBandConcert(ctx context.Context, bandID, concertID int64) (bool, error)
}

// EventSource fetches raw events from the external source.
type EventSource interface {
	SearchEvents(ctx context.Context, attractionID string) ([]ticketmaster.Event, error)
	SearchEventsByKeyword(ctx context.Context, keyword string) ([]ticketmaster.Event, error)
}

// Result summarizes one band sync.
type Result struct {
	Processed      int `json:"processed"`
	NewConcerts    int `json:"new_concerts"`
	LinkedExisting int `json:"linked_existing"`
}

// Service runs the sync pipeline. Each call is a linear sequence of
// store operations with no internal parallelism and no retries; writes
// committed before a failure stay committed.
type Service struct {
	store  Store
	events EventSource
	logger zerolog.Logger
}

// New constructs a sync Service.
func New(store Store, events EventSource, logger zerolog.Logger) *Service {
	return &Service{store: store, events: events, logger: logger}
}

// SyncBand fetches the band's events and reconciles each canonical
// event against the store.
func (s *Service) SyncBand(ctx context.Context, bandID int64) (*Result, error) {
	if s.events == nil {
		return nil, apperror.Validation("ticketmaster integration is not configured")
	}

	band, err := s.store.BandByID(ctx, bandID)
	if err != nil {
		if errors.Is(err, store.ErrBandNotFound) {
			return nil, apperror.NotFound("band", bandID)
		}
		return nil, err
	}

	var raw []ticketmaster.Event
	if band.ExternalID != nil {
		raw, err = s.events.SearchEvents(ctx, *band.ExternalID)
	} else {
		raw, err = s.events.SearchEventsByKeyword(ctx, band.Name)
	}
	if err != nil {
		if errors.Is(err, ticketmaster.ErrRateLimited) {
			return nil, apperror.RateLimited("ticketmaster")
		}
		return nil, apperror.Upstream("ticketmaster", err)
	}

	canonical := ticketmaster.Normalize(raw)

	result := &Result{Processed: len(canonical)}
	for _, ev := range canonical {
		created, err := s.reconcile(ctx, band.ID, ev)
		if err != nil {
			return nil, fmt.Errorf("reconcile event %s: %w", ev.ExternalID, err)
		}
		if created {
			result.NewConcerts++
		} else {
			result.LinkedExisting++
		}
	}

	s.logger.Info().
		Int64("band_id", band.ID).
		Int("processed", result.Processed).
		Int("new_concerts", result.NewConcerts).
		Msg("band sync completed")

	return result, nil
}

// reconcile matches one canonical event and links the band to a new or
// existing concert. An existing concert keeps its stored field values;
// the canonical event is not merged back into it.
func (s *Service) reconcile(ctx context.Context, bandID int64, ev ticketmaster.CanonicalEvent) (bool, error) {
	concert, err := s.store.FindConcertByKeys(ctx, ev.ExternalID, ev.Venue, ev.Date)
	if err == nil {
		_, err := s.store.LinkBandConcert(ctx, bandID, concert.ID)
		return false, err
	}
	if !errors.Is(err, store.ErrConcertNotFound) {
		return false, err
	}

	created, err := s.store.CreateConcert(ctx, concertFromEvent(ev))
	if errors.Is(err, store.ErrConcertExists) {
		// A concurrent sync inserted the same concert between the
		// lookup and the insert; link to the row that won.
		concert, err := s.store.FindConcertByKeys(ctx, ev.ExternalID, ev.Venue, ev.Date)
		if err != nil {
			return false, err
		}
		_, err = s.store.LinkBandConcert(ctx, bandID, concert.ID)
		return false, err
	}
	if err != nil {
		return false, err
	}

	if _, err := s.store.LinkBandConcert(ctx, bandID, created.ID); err != nil {
		return false, err
	}
	return true, nil
}

func concertFromEvent(ev ticketmaster.CanonicalEvent) *models.Concert {
	return &models.Concert{
		Name:       ev.Name,
		Venue:      ev.Venue,
		City:       ev.City,
		Country:    ev.Country,
		Longitude:  ev.Longitude,
		Latitude:   ev.Latitude,
		Date:       ev.Date,
		OnSale:     ev.OnSale,
		SaleStart:  ev.SaleStart,
		ExternalID: ev.ExternalID,
		Summary:    ev.Summary,
		Festival:   ev.Festival,
		URL:        ev.URL,
		CreatedAt:  ev.CreatedAt,
	}
}
