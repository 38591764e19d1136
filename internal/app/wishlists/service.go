// Package wishlists coordinates wishlist CRUD and the read-only concert
// projection derived from a wishlist's member bands.
package wishlists

import (
	"context"
	"errors"
	"strings"

	"gigfeed/internal/apperror"
	"gigfeed/internal/models"
	"gigfeed/internal/store"
)

// Store defines persistence operations for wishlists and the traversal
// queries the projector needs.
type Store interface {
	CreateWishlist(ctx context.Context, userID int64, name string) (*models.Wishlist, error)
	WishlistByID(ctx context.Context, id int64) (*models.Wishlist, error)
	ListWishlistsByUser(ctx context.Context, userID int64) ([]models.Wishlist, error)
	DeleteWishlist(ctx context.Context, userID, id int64) error
	AddWishlistBand(ctx context.Context, wishlistID, bandID int64) (bool, error)
	RemoveWishlistBand(ctx context.Context, wishlistID, bandID int64) error
	WishlistBands(ctx context.Context, wishlistID int64) ([]models.Band, error)
	ConcertsByBand(ctx context.Context, bandID int64) ([]models.ConcertWithBands, error)
	BandByID(ctx context.Context, id int64) (*models.Band, error)
}

// Service coordinates wishlist operations.
type Service struct {
	store Store
}

// New constructs a wishlists Service.
func New(store Store) *Service {
	return &Service{store: store}
}

// Create adds a wishlist for the user.
func (s *Service) Create(ctx context.Context, userID int64, name string) (*models.Wishlist, error) {
	wishlist, err := s.store.CreateWishlist(ctx, userID, name)
	if errors.Is(err, store.ErrWishlistExists) {
		return nil, apperror.Conflict("wishlist name already in use")
	}
	return wishlist, err
}

// List returns the user's wishlists.
func (s *Service) List(ctx context.Context, userID int64) ([]models.Wishlist, error) {
	return s.store.ListWishlistsByUser(ctx, userID)
}

// Delete removes a wishlist the user owns.
func (s *Service) Delete(ctx context.Context, userID, id int64) error {
	err := s.store.DeleteWishlist(ctx, userID, id)
	if errors.Is(err, store.ErrWishlistNotFound) {
		return apperror.NotFound("wishlist", id)
	}
	return err
}

// AddBand links a band to a wishlist; adding a member twice is a no-op.
func (s *Service) AddBand(ctx context.Context, wishlistID, bandID int64) error {
	if _, err := s.store.WishlistByID(ctx, wishlistID); err != nil {
		if errors.Is(err, store.ErrWishlistNotFound) {
			return apperror.NotFound("wishlist", wishlistID)
		}
		return err
	}
	if _, err := s.store.BandByID(ctx, bandID); err != nil {
		if errors.Is(err, store.ErrBandNotFound) {
			return apperror.NotFound("band", bandID)
		}
		return err
	}

	_, err := s.store.AddWishlistBand(ctx, wishlistID, bandID)
	return err
}

// RemoveBand unlinks a band from a wishlist.
func (s *Service) RemoveBand(ctx context.Context, wishlistID, bandID int64) error {
	err := s.store.RemoveWishlistBand(ctx, wishlistID, bandID)
	if errors.Is(err, store.ErrBandNotFound) {
		return apperror.NotFound("band", bandID)
	}
	return err
}

// Project assembles the deduplicated, filtered concert view across the
// wishlist's member bands. Each band's concert list is filtered
// independently and the final set is the union of the filtered views;
// per-band counts reflect that band's retained concerts. Participating
// bands on each concert are the linked bands that are also wishlist
// members, not the full lineup.
func (s *Service) Project(ctx context.Context, wishlistID int64, filter models.ConcertFilter) (*models.WishlistView, error) {
	wishlist, err := s.store.WishlistByID(ctx, wishlistID)
	if err != nil {
		if errors.Is(err, store.ErrWishlistNotFound) {
			return nil, apperror.NotFound("wishlist", wishlistID)
		}
		return nil, err
	}

	members, err := s.store.WishlistBands(ctx, wishlistID)
	if err != nil {
		return nil, err
	}

	memberByID := make(map[int64]models.Band, len(members))
	for _, band := range members {
		memberByID[band.ID] = band
	}

	view := &models.WishlistView{
		Wishlist: *wishlist,
		Bands:    make([]models.BandSummary, 0, len(members)),
		Concerts: []models.ConcertView{},
	}

	retained := make(map[int64]int) // concert id -> index into view.Concerts
	for _, band := range members {
		concerts, err := s.store.ConcertsByBand(ctx, band.ID)
		if err != nil {
			return nil, err
		}

		count := 0
		for _, concert := range concerts {
			if !matchesFilter(concert.Concert, filter) {
				continue
			}
			count++
			if _, ok := retained[concert.ID]; ok {
				continue
			}

			participating := make([]models.Band, 0, len(concert.BandIDs))
			for _, bandID := range concert.BandIDs {
				if member, ok := memberByID[bandID]; ok {
					participating = append(participating, member)
				}
			}

			retained[concert.ID] = len(view.Concerts)
			view.Concerts = append(view.Concerts, models.ConcertView{
				Concert:                concert.Concert,
				ParticipatingBands:     participating,
				ParticipatingBandCount: len(participating),
			})
		}

		view.Bands = append(view.Bands, models.BandSummary{Band: band, ConcertCount: count})
	}

	return view, nil
}

// matchesFilter applies the optional date range and country allow-list.
// The range applies only when both bounds are present; a concert with no
// scheduled date is excluded by a supplied range.
func matchesFilter(c models.Concert, filter models.ConcertFilter) bool {
	if filter.From != nil && filter.To != nil {
		if c.Date == nil {
			return false
		}
		if c.Date.Before(*filter.From) || c.Date.After(*filter.To) {
			return false
		}
	}

	if len(filter.Countries) > 0 {
		allowed := false
		for _, country := range filter.Countries {
			if strings.EqualFold(country, c.Country) {
				allowed = true
				break
			}
		}
		if !allowed {
			return false
		}
	}

	return true
}
