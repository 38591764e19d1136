// Package bands coordinates band lifecycle operations. Bands are created
// on first reference, resolved against Ticketmaster when possible, and
// purge their orphaned concerts when deleted.
package bands

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"gigfeed/internal/apperror"
	"gigfeed/internal/models"
	"gigfeed/internal/store"
	"gigfeed/internal/ticketmaster"
)

// Store defines persistence operations for bands.
type Store interface {
	CreateBand(ctx context.Context, name string, externalID *string) (*models.Band, error)
	BandByID(ctx context.Context, id int64) (*models.Band, error)
	BandByName(ctx context.Context, name string) (*models.Band, error)
	ListBands(ctx context.Context) ([]models.Band, error)
	DeleteBand(ctx context.Context, bandID int64) (int64, []int64, error)
}

// AttractionFinder resolves a band name to its external source id.
type AttractionFinder interface {
	FindAttraction(ctx context.Context, keyword string) (*ticketmaster.Attraction, error)
}

// DeleteResult reports the side effects of a band deletion.
type DeleteResult struct {
	RemovedReferences       int64   `json:"removed_references"`
	RemovedOrphanConcertIDs []int64 `json:"removed_orphan_concert_ids"`
}

// Service coordinates band operations.
type Service struct {
	store       Store
	attractions AttractionFinder
	logger      zerolog.Logger
}

// New constructs a bands Service. The attraction finder may be nil when
// no Ticketmaster credentials are configured.
func New(store Store, attractions AttractionFinder, logger zerolog.Logger) *Service {
	return &Service{store: store, attractions: attractions, logger: logger}
}

// Ensure returns the band with the given name, creating it on first
// reference. A newly created band gets its external source id from an
// attraction lookup when one matches.
func (s *Service) Ensure(ctx context.Context, name string) (*models.Band, error) {
	band, err := s.store.BandByName(ctx, name)
	if err == nil {
		return band, nil
	}
	if !errors.Is(err, store.ErrBandNotFound) {
		return nil, err
	}

	var externalID *string
	if s.attractions != nil {
		attraction, err := s.attractions.FindAttraction(ctx, name)
		switch {
		case err == nil:
			externalID = &attraction.ID
		case errors.Is(err, ticketmaster.ErrAttractionNotFound):
			// Band stays local-only until a later sync resolves it.
		case errors.Is(err, ticketmaster.ErrRateLimited):
			return nil, apperror.RateLimited("ticketmaster")
		default:
			return nil, apperror.Upstream("ticketmaster", err)
		}
	}

	band, err = s.store.CreateBand(ctx, name, externalID)
	if errors.Is(err, store.ErrBandExists) {
		// Lost the create race; the stored band wins.
		return s.store.BandByName(ctx, name)
	}
	return band, err
}

// Get retrieves a band by id.
func (s *Service) Get(ctx context.Context, id int64) (*models.Band, error) {
	band, err := s.store.BandByID(ctx, id)
	if errors.Is(err, store.ErrBandNotFound) {
		return nil, apperror.NotFound("band", id)
	}
	return band, err
}

// List returns all bands.
func (s *Service) List(ctx context.Context) ([]models.Band, error) {
	return s.store.ListBands(ctx)
}

// Delete removes a band, its concert references and any concerts left
// with zero band references.
func (s *Service) Delete(ctx context.Context, id int64) (*DeleteResult, error) {
	removedRefs, orphanIDs, err := s.store.DeleteBand(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrBandNotFound) {
			return nil, apperror.NotFound("band", id)
		}
		return nil, err
	}

	s.logger.Info().
		Int64("band_id", id).
		Int64("removed_references", removedRefs).
		Int("orphan_concerts", len(orphanIDs)).
		Msg("band deleted")

	return &DeleteResult{
		RemovedReferences:       removedRefs,
		RemovedOrphanConcertIDs: orphanIDs,
	}, nil
}
