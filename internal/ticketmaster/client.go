// Package ticketmaster fetches events from the Ticketmaster discovery
// API and normalizes them into canonical concert records.
package ticketmaster

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

const baseURL = "https://app.ticketmaster.com/discovery/v2"

var (
	// ErrRateLimited signals the discovery API returned HTTP 429.
	ErrRateLimited = errors.New("ticketmaster rate limit exceeded")
	// ErrAttractionNotFound indicates no attraction matched the keyword.
	ErrAttractionNotFound = errors.New("attraction not found")
)

// Client calls the Ticketmaster discovery API.
type Client struct {
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new discovery API client.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Discovery API response structures. Every nested field may be absent.

type eventsResponse struct {
	Embedded *struct {
		Events []Event `json:"events"`
	} `json:"_embedded,omitempty"`
}

type attractionsResponse struct {
	Embedded *struct {
		Attractions []Attraction `json:"attractions"`
	} `json:"_embedded,omitempty"`
}

// Event is one raw discovery API event record.
type Event struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	URL      string        `json:"url,omitempty"`
	Dates    Dates         `json:"dates,omitempty"`
	Sales    Sales         `json:"sales,omitempty"`
	Embedded EventEmbedded `json:"_embedded,omitempty"`
}

// Dates carries the scheduled start and sale status of an event.
type Dates struct {
	Start  DateStart  `json:"start,omitempty"`
	Status DateStatus `json:"status,omitempty"`
}

// DateStart holds the scheduled start date-time, when known.
type DateStart struct {
	DateTime string `json:"dateTime,omitempty"`
}

// DateStatus carries the sale status code ("onsale", "offsale", ...).
type DateStatus struct {
	Code string `json:"code,omitempty"`
}

// Sales describes the public sale window.
type Sales struct {
	Public PublicSale `json:"public,omitempty"`
}

// PublicSale holds the public sale start, which may be missing or invalid.
type PublicSale struct {
	StartDateTime string `json:"startDateTime,omitempty"`
}

// EventEmbedded nests the venues and performer list of an event.
type EventEmbedded struct {
	Venues      []Venue      `json:"venues,omitempty"`
	Attractions []Attraction `json:"attractions,omitempty"`
}

// Venue is the raw venue record with nested country, city and geo fields.
type Venue struct {
	Name     string   `json:"name,omitempty"`
	City     City     `json:"city,omitempty"`
	Country  Country  `json:"country,omitempty"`
	Location Location `json:"location,omitempty"`
}

// City names the venue's city.
type City struct {
	Name string `json:"name,omitempty"`
}

// Country names the venue's country.
type Country struct {
	Name string `json:"name,omitempty"`
}

// Location carries geo-coordinates as decimal strings, per the API.
type Location struct {
	Longitude string `json:"longitude,omitempty"`
	Latitude  string `json:"latitude,omitempty"`
}

// Attraction is a performer listed on an event.
type Attraction struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// doRequest performs a GET against the discovery API with the api key
// appended, decoding the body into result.
func (c *Client) doRequest(ctx context.Context, endpoint string, params url.Values, result any) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, "GET", baseURL+endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("ticketmaster api error: %s - %s", resp.Status, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// SearchEvents returns the raw events listed for an attraction.
func (c *Client) SearchEvents(ctx context.Context, attractionID string) ([]Event, error) {
	params := url.Values{}
	params.Set("attractionId", attractionID)
	params.Set("size", "200")

	var result eventsResponse
	if err := c.doRequest(ctx, "/events.json", params, &result); err != nil {
		return nil, err
	}
	if result.Embedded == nil {
		return nil, nil
	}
	return result.Embedded.Events, nil
}

// SearchEventsByKeyword returns the raw events matching a free-text
// keyword, for bands without a known attraction id.
func (c *Client) SearchEventsByKeyword(ctx context.Context, keyword string) ([]Event, error) {
	params := url.Values{}
	params.Set("keyword", keyword)
	params.Set("size", "200")

	var result eventsResponse
	if err := c.doRequest(ctx, "/events.json", params, &result); err != nil {
		return nil, err
	}
	if result.Embedded == nil {
		return nil, nil
	}
	return result.Embedded.Events, nil
}

// FindAttraction resolves a band name to its attraction record,
// returning the first match.
func (c *Client) FindAttraction(ctx context.Context, keyword string) (*Attraction, error) {
	params := url.Values{}
	params.Set("keyword", keyword)
	params.Set("size", "1")

	var result attractionsResponse
	if err := c.doRequest(ctx, "/attractions.json", params, &result); err != nil {
		return nil, err
	}
	if result.Embedded == nil || len(result.Embedded.Attractions) == 0 {
		return nil, ErrAttractionNotFound
	}
	return &result.Embedded.Attractions[0], nil
}
