package main

import (
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"gigfeed/internal/app/bands"
	"gigfeed/internal/app/media"
	"gigfeed/internal/app/sync"
	"gigfeed/internal/app/users"
	"gigfeed/internal/app/wishlists"
	"gigfeed/internal/auth"
	"gigfeed/internal/httpapi"
	"gigfeed/internal/steam"
	"gigfeed/internal/store"
	"gigfeed/internal/ticketmaster"
	"gigfeed/internal/tmdb"
)

func newHTTPHandler(cfg Config, db *sql.DB, logger zerolog.Logger) (http.Handler, error) {
	dataStore := store.New(db)

	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return nil, err
	}

	var tmClient *ticketmaster.Client
	if cfg.TicketmasterKey != "" {
		tmClient = ticketmaster.NewClient(cfg.TicketmasterKey)
		logger.Info().Msg("ticketmaster client initialized")
	} else {
		logger.Warn().Msg("TICKETMASTER_API_KEY not set, concert sync disabled")
	}

	var movieSource media.MovieSource
	if cfg.TMDBKey != "" {
		movieSource = tmdb.NewClient(cfg.TMDBKey)
	}
	var gameSource media.GameSource
	if cfg.SteamKey != "" {
		gameSource = steam.NewClient(cfg.SteamKey)
	}

	userSvc := users.New(dataStore, tokens)
	wishlistSvc := wishlists.New(dataStore)
	mediaSvc := media.New(dataStore, movieSource, gameSource, logger)

	var attractionFinder bands.AttractionFinder
	var eventSource sync.EventSource
	if tmClient != nil {
		attractionFinder = tmClient
		eventSource = tmClient
	}
	bandSvc := bands.New(dataStore, attractionFinder, logger)
	syncSvc := sync.New(dataStore, eventSource, logger)

	server := httpapi.New(userSvc, bandSvc, syncSvc, wishlistSvc, mediaSvc, tokens)
	return withCORS(cfg.AllowedOrigins, server.Routes()), nil
}

func withCORS(allowedOrigins []string, next http.Handler) http.Handler {
	originAllowed := func(origin string) bool {
		if len(allowedOrigins) == 0 || origin == "" {
			return false
		}
		for _, o := range allowedOrigins {
			if strings.EqualFold(o, origin) {
				return true
			}
		}
		return false
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if originAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Authorization")
			w.Header().Set("Access-Control-Max-Age", "3600")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func newHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}
