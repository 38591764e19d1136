// Package httpapi wires the HTTP handlers to the underlying services.
package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"gigfeed/internal/app/bands"
	"gigfeed/internal/app/sync"
	"gigfeed/internal/auth"
	"gigfeed/internal/models"
)

// UserService captures the account operations needed by the handlers.
type UserService interface {
	Signup(ctx context.Context, username, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (string, error)
}

// BandService coordinates band lifecycle operations.
type BandService interface {
	Ensure(ctx context.Context, name string) (*models.Band, error)
	Get(ctx context.Context, id int64) (*models.Band, error)
	List(ctx context.Context) ([]models.Band, error)
	Delete(ctx context.Context, id int64) (*bands.DeleteResult, error)
}

// SyncService runs the concert reconciliation pipeline for one band.
type SyncService interface {
	SyncBand(ctx context.Context, bandID int64) (*sync.Result, error)
}

// WishlistService coordinates wishlist CRUD and projections.
type WishlistService interface {
	Create(ctx context.Context, userID int64, name string) (*models.Wishlist, error)
	List(ctx context.Context, userID int64) ([]models.Wishlist, error)
	Delete(ctx context.Context, userID, id int64) error
	AddBand(ctx context.Context, wishlistID, bandID int64) error
	RemoveBand(ctx context.Context, wishlistID, bandID int64) error
	Project(ctx context.Context, wishlistID int64, filter models.ConcertFilter) (*models.WishlistView, error)
}

// MediaService coordinates movie and game imports.
type MediaService interface {
	ImportMovie(ctx context.Context, userID, tmdbID int64) (*models.Movie, error)
	ListMovies(ctx context.Context, userID int64) ([]models.Movie, error)
	SyncGames(ctx context.Context, userID int64, steamID string) (int, error)
	ListGames(ctx context.Context, userID int64) ([]models.Game, error)
}

// Server wires HTTP handlers to the underlying services.
type Server struct {
	users     UserService
	bands     BandService
	sync      SyncService
	wishlists WishlistService
	media     MediaService
	tokens    *auth.TokenService
}

// New configures a Server with the given services.
func New(
	users UserService,
	bandSvc BandService,
	syncSvc SyncService,
	wishlists WishlistService,
	media MediaService,
	tokens *auth.TokenService,
) *Server {
	return &Server{
		users:     users,
		bands:     bandSvc,
		sync:      syncSvc,
		wishlists: wishlists,
		media:     media,
		tokens:    tokens,
	}
}

// Routes exposes the HTTP handlers.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogging)
	r.Use(recovery)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/signup", s.handleSignup)
		r.Post("/auth/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Get("/bands", s.handleListBands)
			r.Post("/bands", s.handleEnsureBand)
			r.Get("/bands/{id}", s.handleGetBand)
			r.Delete("/bands/{id}", s.handleDeleteBand)
			r.Post("/bands/{id}/sync", s.handleSyncBand)

			r.Get("/wishlists", s.handleListWishlists)
			r.Post("/wishlists", s.handleCreateWishlist)
			r.Get("/wishlists/{id}", s.handleWishlistView)
			r.Delete("/wishlists/{id}", s.handleDeleteWishlist)
			r.Put("/wishlists/{id}/bands/{bandID}", s.handleAddWishlistBand)
			r.Delete("/wishlists/{id}/bands/{bandID}", s.handleRemoveWishlistBand)

			r.Get("/movies", s.handleListMovies)
			r.Post("/movies", s.handleImportMovie)
			r.Get("/games", s.handleListGames)
			r.Post("/games/sync", s.handleSyncGames)
		})
	})

	return r
}
