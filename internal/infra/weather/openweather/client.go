package openweather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/yanqian/moodmate/internal/domain/weather"
)

const defaultBaseURL = "https://api.openweathermap.org/data/2.5/weather"

// Client fetches current conditions from the OpenWeatherMap API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	clock      clockwork.Clock
}

// NewClient builds an API client. An empty baseURL selects the public endpoint.
func NewClient(baseURL, apiKey string, timeout time.Duration, clock clockwork.Clock) *Client {
	endpoint := strings.TrimSpace(baseURL)
	if endpoint == "" {
		endpoint = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Client{
		baseURL:    strings.TrimRight(endpoint, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		clock:      clock,
	}
}

// ByCoordinates implements weather.Provider.
func (c *Client) ByCoordinates(ctx context.Context, coords weather.Coordinates) (weather.Snapshot, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(coords.Latitude, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(coords.Longitude, 'f', -1, 64))
	return c.fetch(ctx, params)
}

// ByCity implements weather.Provider.
func (c *Client) ByCity(ctx context.Context, city string) (weather.Snapshot, error) {
	params := url.Values{}
	params.Set("q", city)
	return c.fetch(ctx, params)
}

func (c *Client) fetch(ctx context.Context, params url.Values) (weather.Snapshot, error) {
	params.Set("appid", c.apiKey)
	params.Set("units", "metric")
	endpoint := c.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return weather.Snapshot{}, fmt.Errorf("build weather request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return weather.Snapshot{}, fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return weather.Snapshot{}, &weather.APIError{StatusCode: resp.StatusCode, Body: string(payload)}
	}

	var raw apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return weather.Snapshot{}, fmt.Errorf("decode weather response: %w", err)
	}
	return normalize(raw, c.clock.Now()), nil
}

type apiResponse struct {
	Name    string       `json:"name"`
	Main    apiMain      `json:"main"`
	Weather []apiWeather `json:"weather"`
	Wind    apiWind      `json:"wind"`
}

type apiMain struct {
	Temp     float64 `json:"temp"`
	Humidity int     `json:"humidity"`
}

type apiWeather struct {
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type apiWind struct {
	Speed float64 `json:"speed"`
}

func normalize(raw apiResponse, fetchedAt time.Time) weather.Snapshot {
	snapshot := weather.Snapshot{
		Location:    raw.Name,
		Temperature: math.Round(raw.Main.Temp),
		Humidity:    raw.Main.Humidity,
		WindSpeed:   raw.Wind.Speed,
		FetchedAt:   fetchedAt,
	}
	if len(raw.Weather) > 0 {
		snapshot.Condition = strings.ToLower(raw.Weather[0].Main)
		snapshot.Description = raw.Weather[0].Description
		snapshot.Icon = raw.Weather[0].Icon
	}
	return snapshot
}

var _ weather.Provider = (*Client)(nil)
