package weather

import (
	"context"
	"time"
)

// Snapshot is a point-in-time weather readout for a location.
type Snapshot struct {
	Location    string    `json:"location"`
	Temperature float64   `json:"temperature"`
	Condition   string    `json:"condition"`
	Description string    `json:"description"`
	Humidity    int       `json:"humidity"`
	WindSpeed   float64   `json:"windSpeed"`
	Icon        string    `json:"icon,omitempty"`
	FetchedAt   time.Time `json:"fetchedAt"`
	Demo        bool      `json:"demo,omitempty"`
}

// IsZero reports whether no weather has been fetched.
func (s Snapshot) IsZero() bool {
	return s.Location == "" && s.Condition == "" && s.FetchedAt.IsZero()
}

// Coordinates are device coordinates in decimal degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether the coordinates fall inside the WGS84 ranges.
func (c Coordinates) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}

// LocationQuery carries what the client learned from device geolocation:
// either coordinates or the reason it could not obtain them.
type LocationQuery struct {
	Coordinates *Coordinates
	GeoFailure  FailureReason
}

// StrategyName identifies one step of the location fallback chain.
type StrategyName string

const (
	StrategyCache       StrategyName = "cache"
	StrategyCoordinates StrategyName = "coordinates"
	StrategyDefaultCity StrategyName = "default_city"
	StrategyDemo        StrategyName = "demo"
	StrategyCity        StrategyName = "city"
)

// Resolution reports which strategy produced the snapshot and which failure,
// if any, it recovered from.
type Resolution struct {
	Snapshot  Snapshot
	Strategy  StrategyName
	Recovered *Error
}

// Provider fetches live weather from an upstream API.
type Provider interface {
	ByCoordinates(ctx context.Context, coords Coordinates) (Snapshot, error)
	ByCity(ctx context.Context, city string) (Snapshot, error)
}

// Cache stores the most recent snapshot per scope.
type Cache interface {
	Get(ctx context.Context, key string) (Snapshot, bool, error)
	Set(ctx context.Context, key string, snapshot Snapshot, ttl time.Duration) error
}

// Config wires runtime knobs for the weather domain.
type Config struct {
	DefaultCity  string
	CacheTTL     time.Duration
	DemoFallback bool
}
