package store

import (
	"context"
	"fmt"

	"gigfeed/internal/models"
)

// UpsertMovie inserts or refreshes an imported movie rating for a user.
func (s *Store) UpsertMovie(ctx context.Context, m *models.Movie) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO movies (user_id, external_id, title, release_date, rating, poster_path)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, external_id)
		DO UPDATE SET title = EXCLUDED.title, release_date = EXCLUDED.release_date,
		              rating = EXCLUDED.rating, poster_path = EXCLUDED.poster_path,
		              updated_at = NOW()
		RETURNING id, created_at, updated_at
	`, m.UserID, m.ExternalID, m.Title, m.ReleaseDate, m.Rating, m.PosterPath).
		Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert movie: %w", err)
	}
	return nil
}

// ListMoviesByUser returns a user's imported movies, newest first.
func (s *Store) ListMoviesByUser(ctx context.Context, userID int64) ([]models.Movie, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, external_id, title, release_date, rating, poster_path, created_at, updated_at
		FROM movies
		WHERE user_id = $1
		ORDER BY updated_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("select movies: %w", err)
	}
	defer rows.Close()

	var movies []models.Movie
	for rows.Next() {
		var m models.Movie
		err := rows.Scan(&m.ID, &m.UserID, &m.ExternalID, &m.Title, &m.ReleaseDate,
			&m.Rating, &m.PosterPath, &m.CreatedAt, &m.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan movie: %w", err)
		}
		movies = append(movies, m)
	}
	return movies, rows.Err()
}

// UpsertGame inserts or refreshes an owned Steam game for a user.
func (s *Store) UpsertGame(ctx context.Context, g *models.Game) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO games (user_id, app_id, name, playtime_minutes, icon_url)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, app_id)
		DO UPDATE SET name = EXCLUDED.name, playtime_minutes = EXCLUDED.playtime_minutes,
		              icon_url = EXCLUDED.icon_url, updated_at = NOW()
		RETURNING id, created_at, updated_at
	`, g.UserID, g.AppID, g.Name, g.PlaytimeMinutes, g.IconURL).
		Scan(&g.ID, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert game: %w", err)
	}
	return nil
}

// ListGamesByUser returns a user's games ordered by playtime.
func (s *Store) ListGamesByUser(ctx context.Context, userID int64) ([]models.Game, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, app_id, name, playtime_minutes, icon_url, created_at, updated_at
		FROM games
		WHERE user_id = $1
		ORDER BY playtime_minutes DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("select games: %w", err)
	}
	defer rows.Close()

	var games []models.Game
	for rows.Next() {
		var g models.Game
		err := rows.Scan(&g.ID, &g.UserID, &g.AppID, &g.Name, &g.PlaytimeMinutes,
			&g.IconURL, &g.CreatedAt, &g.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		games = append(games, g)
	}
	return games, rows.Err()
}
