package yelp

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
	defaultBaseURL = "https://api.yelp.com/v3"
	maxRadius      = 40000
	resultLimit    = 20
)

// Client queries the Yelp Fusion business search API. It only serves restaurants.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient builds an API client.
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

func (c *Client) Name() string { return "yelp" }

// Nearby implements places.Provider.
func (c *Client) Nearby(ctx context.Context, q places.Query) ([]places.Place, error) {
	if q.Kind != places.KindRestaurants {
		return nil, places.ErrUnsupportedKind
	}
	if c.apiKey == "" {
		return nil, places.ErrMissingAPIKey
	}
	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(q.Location.Latitude, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(q.Location.Longitude, 'f', -1, 64))
	params.Set("radius", strconv.Itoa(min(q.Radius, maxRadius)))
	params.Set("categories", "restaurants,food")
	params.Set("limit", strconv.Itoa(resultLimit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/businesses/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build yelp request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yelp request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("yelp request error: status=%d body=%s", resp.StatusCode, string(payload))
	}

	var raw searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode yelp response: %w", err)
	}
	out := make([]places.Place, 0, len(raw.Businesses))
	for _, b := range raw.Businesses {
		out = append(out, b.toPlace())
	}
	return out, nil
}

type searchResponse struct {
	Businesses []business `json:"businesses"`
}

type business struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Rating   *float64 `json:"rating"`
	Price    string   `json:"price"`
	ImageURL string   `json:"image_url"`
	Distance *float64 `json:"distance"`
	Phone    string   `json:"phone"`
	URL      string   `json:"url"`
	Location struct {
		DisplayAddress []string `json:"display_address"`
	} `json:"location"`
	Categories []struct {
		Alias string `json:"alias"`
	} `json:"categories"`
}

func (b business) toPlace() places.Place {
	p := places.Place{
		ID:          b.ID,
		Name:        b.Name,
		Address:     strings.Join(b.Location.DisplayAddress, ", "),
		Rating:      b.Rating,
		PhotoURL:    b.ImageURL,
		Distance:    b.Distance,
		PhoneNumber: b.Phone,
		Website:     b.URL,
		Types:       make([]string, 0, len(b.Categories)),
	}
	if n := len(b.Price); n > 0 {
		p.PriceLevel = &n
	}
	for _, c := range b.Categories {
		p.Types = append(p.Types, c.Alias)
	}
	return p
}

var _ places.Provider = (*Client)(nil)
