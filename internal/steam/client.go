// Package steam fetches owned games and playtime from the Steam Web API.
package steam

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const baseURL = "https://api.steampowered.com"

// ErrRateLimited signals the Steam API returned HTTP 429.
var ErrRateLimited = errors.New("steam rate limit exceeded")

// Game is one owned title from the Steam library.
type Game struct {
	AppID           int64  `json:"appid"`
	Name            string `json:"name"`
	PlaytimeMinutes int64  `json:"playtime_forever"`
	IconHash        string `json:"img_icon_url,omitempty"`
}

// IconURL builds the CDN address of the game's icon, when one exists.
func (g Game) IconURL() string {
	if g.IconHash == "" {
		return ""
	}
	return fmt.Sprintf("https://media.steampowered.com/steamcommunity/public/images/apps/%d/%s.jpg", g.AppID, g.IconHash)
}

type ownedGamesResponse struct {
	Response struct {
		GameCount int    `json:"game_count"`
		Games     []Game `json:"games"`
	} `json:"response"`
}

// Client calls the Steam Web API.
type Client struct {
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new Steam client.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// GetOwnedGames returns the games owned by a Steam account.
func (c *Client) GetOwnedGames(ctx context.Context, steamID string) ([]Game, error) {
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("steamid", steamID)
	params.Set("include_appinfo", "1")
	params.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, "GET", baseURL+"/IPlayerService/GetOwnedGames/v1/?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("steam api error: %s - %s", resp.Status, string(body))
	}

	var result ownedGamesResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return result.Response.Games, nil
}
