package google

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yanqian/moodmate/internal/domain/places"
)

const (
	defaultBaseURL = "https://maps.googleapis.com/maps/api/place"
	photoMaxWidth  = 400
)

// Client queries the Google Places Nearby Search API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient builds an API client. An empty apiKey makes every lookup fail
// with places.ErrMissingAPIKey so the chain moves on.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	endpoint := strings.TrimSpace(baseURL)
	if endpoint == "" {
		endpoint = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(endpoint, "/"),
		apiKey:     strings.TrimSpace(apiKey),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) Name() string { return "google" }

// Nearby implements places.Provider.
func (c *Client) Nearby(ctx context.Context, q places.Query) ([]places.Place, error) {
	if c.apiKey == "" {
		return nil, places.ErrMissingAPIKey
	}
	placeType := "restaurant"
	if q.Kind == places.KindHotels {
		placeType = "lodging"
	}
	params := url.Values{}
	params.Set("location", fmt.Sprintf("%s,%s",
		strconv.FormatFloat(q.Location.Latitude, 'f', -1, 64),
		strconv.FormatFloat(q.Location.Longitude, 'f', -1, 64)))
	params.Set("radius", strconv.Itoa(q.Radius))
	params.Set("type", placeType)
	params.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/nearbysearch/json?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build places request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("places request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("places request error: status=%d body=%s", resp.StatusCode, string(payload))
	}

	var raw nearbyResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode places response: %w", err)
	}
	if raw.Status != "OK" {
		return nil, fmt.Errorf("google places api error: %s %s", raw.Status, raw.ErrorMessage)
	}

	out := make([]places.Place, 0, len(raw.Results))
	for _, r := range raw.Results {
		out = append(out, c.toPlace(r))
	}
	return out, nil
}

type nearbyResponse struct {
	Status       string         `json:"status"`
	ErrorMessage string         `json:"error_message"`
	Results      []nearbyResult `json:"results"`
}

type nearbyResult struct {
	PlaceID      string   `json:"place_id"`
	Name         string   `json:"name"`
	Vicinity     string   `json:"vicinity"`
	Rating       *float64 `json:"rating"`
	PriceLevel   *int     `json:"price_level"`
	Types        []string `json:"types"`
	Photos       []photo  `json:"photos"`
	OpeningHours *struct {
		OpenNow *bool `json:"open_now"`
	} `json:"opening_hours"`
}

type photo struct {
	Reference string `json:"photo_reference"`
}

func (c *Client) toPlace(r nearbyResult) places.Place {
	p := places.Place{
		ID:         r.PlaceID,
		Name:       r.Name,
		Address:    r.Vicinity,
		Rating:     r.Rating,
		PriceLevel: r.PriceLevel,
		Types:      r.Types,
	}
	if p.Types == nil {
		p.Types = []string{}
	}
	if len(r.Photos) > 0 && r.Photos[0].Reference != "" {
		params := url.Values{}
		params.Set("maxwidth", strconv.Itoa(photoMaxWidth))
		params.Set("photoreference", r.Photos[0].Reference)
		params.Set("key", c.apiKey)
		p.PhotoURL = c.baseURL + "/photo?" + params.Encode()
	}
	if r.OpeningHours != nil {
		p.OpenNow = r.OpeningHours.OpenNow
	}
	return p
}

var _ places.Provider = (*Client)(nil)
