package places

import (
	"context"
	"errors"
	"time"

	"github.com/yanqian/moodmate/internal/domain/weather"
)

// Kind selects what sort of place to look for.
type Kind string

const (
	KindHotels      Kind = "hotels"
	KindRestaurants Kind = "restaurants"
)

// ErrUnsupportedKind is returned by providers that cannot search a kind.
var ErrUnsupportedKind = errors.New("place kind not supported by provider")

// ErrMissingAPIKey is returned by providers configured without credentials.
var ErrMissingAPIKey = errors.New("places provider api key not configured")

// Place is one nearby result.
type Place struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Address      string   `json:"address"`
	Rating       *float64 `json:"rating,omitempty"`
	PriceLevel   *int     `json:"priceLevel,omitempty"`
	PhotoURL     string   `json:"photoUrl,omitempty"`
	Distance     *float64 `json:"distance,omitempty"`
	PhoneNumber  string   `json:"phoneNumber,omitempty"`
	Website      string   `json:"website,omitempty"`
	OpeningHours []string `json:"openingHours,omitempty"`
	Types        []string `json:"types"`
	OpenNow      *bool    `json:"openNow,omitempty"`
}

// Query describes a nearby search.
type Query struct {
	Location weather.Coordinates
	Kind     Kind
	Radius   int
}

// Provider searches an upstream places API.
type Provider interface {
	Name() string
	Nearby(ctx context.Context, q Query) ([]Place, error)
}

// Result bundles hotels and restaurants around one location.
type Result struct {
	Location            weather.Coordinates `json:"location"`
	Hotels              []Place             `json:"hotels"`
	Restaurants         []Place             `json:"restaurants"`
	HotelsProvider      string              `json:"hotelsProvider"`
	RestaurantsProvider string              `json:"restaurantsProvider"`
	UpdatedAt           time.Time           `json:"updatedAt"`
}

// Config drives search radii and refresh cadence.
type Config struct {
	HotelRadius      int
	RestaurantRadius int
	RefreshInterval  time.Duration
}

func (c Config) withDefaults() Config {
	if c.HotelRadius <= 0 {
		c.HotelRadius = 5000
	}
	if c.RestaurantRadius <= 0 {
		c.RestaurantRadius = 2000
	}
	if c.RefreshInterval <= 0 {
		c.RefreshInterval = 5 * time.Minute
	}
	return c
}
