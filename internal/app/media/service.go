// Package media imports movie ratings from TMDb and game playtime from
// Steam. Both are straightforward fetch-and-upsert flows with no
// deduplication logic.
package media

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"gigfeed/internal/apperror"
	"gigfeed/internal/models"
	"gigfeed/internal/steam"
	"gigfeed/internal/tmdb"
)

// Store defines persistence operations for imported media.
type Store interface {
	UpsertMovie(ctx context.Context, m *models.Movie) error
	ListMoviesByUser(ctx context.Context, userID int64) ([]models.Movie, error)
	UpsertGame(ctx context.Context, g *models.Game) error
	ListGamesByUser(ctx context.Context, userID int64) ([]models.Game, error)
}

// MovieSource fetches movie details from TMDb.
type MovieSource interface {
	GetMovie(ctx context.Context, id int64) (*tmdb.Movie, error)
}

// GameSource fetches owned games from Steam.
type GameSource interface {
	GetOwnedGames(ctx context.Context, steamID string) ([]steam.Game, error)
}

// Service coordinates media imports.
type Service struct {
	store  Store
	movies MovieSource
	games  GameSource
	logger zerolog.Logger
}

// New constructs a media Service. Either source may be nil when its
// credentials are not configured.
func New(store Store, movies MovieSource, games GameSource, logger zerolog.Logger) *Service {
	return &Service{store: store, movies: movies, games: games, logger: logger}
}

// ImportMovie fetches one TMDb movie and upserts it for the user.
func (s *Service) ImportMovie(ctx context.Context, userID, tmdbID int64) (*models.Movie, error) {
	if s.movies == nil {
		return nil, apperror.Validation("TMDb integration is not configured")
	}

	fetched, err := s.movies.GetMovie(ctx, tmdbID)
	if err != nil {
		if errors.Is(err, tmdb.ErrRateLimited) {
			return nil, apperror.RateLimited("tmdb")
		}
		return nil, apperror.Upstream("tmdb", err)
	}

	movie := &models.Movie{
		UserID:      userID,
		ExternalID:  fetched.ID,
		Title:       fetched.Title,
		ReleaseDate: fetched.ReleaseDate,
		Rating:      fetched.VoteAverage,
		PosterPath:  fetched.PosterPath,
	}
	if err := s.store.UpsertMovie(ctx, movie); err != nil {
		return nil, err
	}
	return movie, nil
}

// ListMovies returns the user's imported movies.
func (s *Service) ListMovies(ctx context.Context, userID int64) ([]models.Movie, error) {
	return s.store.ListMoviesByUser(ctx, userID)
}

// SyncGames refreshes the user's Steam library and returns the number
// of games upserted.
func (s *Service) SyncGames(ctx context.Context, userID int64, steamID string) (int, error) {
	if s.games == nil {
		return 0, apperror.Validation("Steam integration is not configured")
	}

	owned, err := s.games.GetOwnedGames(ctx, steamID)
	if err != nil {
		if errors.Is(err, steam.ErrRateLimited) {
			return 0, apperror.RateLimited("steam")
		}
		return 0, apperror.Upstream("steam", err)
	}

	for _, g := range owned {
		game := &models.Game{
			UserID:          userID,
			AppID:           g.AppID,
			Name:            g.Name,
			PlaytimeMinutes: g.PlaytimeMinutes,
			IconURL:         g.IconURL(),
		}
		if err := s.store.UpsertGame(ctx, game); err != nil {
			return 0, err
		}
	}

	s.logger.Info().
		Int64("user_id", userID).
		Int("games", len(owned)).
		Msg("steam library synced")

	return len(owned), nil
}

// ListGames returns the user's games.
func (s *Service) ListGames(ctx context.Context, userID int64) ([]models.Game, error) {
	return s.store.ListGamesByUser(ctx, userID)
}
