package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Auth     AuthConfig     `yaml:"auth"`
	Weather  WeatherConfig  `yaml:"weather"`
	LLM      LLMConfig      `yaml:"llm"`
	AI       AIConfig       `yaml:"ai"`
	Places   PlacesConfig   `yaml:"places"`
	Postgres PostgresConfig `yaml:"postgres"`
	Valkey   ValkeyConfig   `yaml:"valkey"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// AuthConfig configures JWT issuance.
type AuthConfig struct {
	Secret          string        `yaml:"secret"`
	TokenTTL        time.Duration `yaml:"tokenTtl"`
	RefreshTokenTTL time.Duration `yaml:"refreshTokenTtl"`
}

// WeatherConfig configures the OpenWeatherMap client and its fallback chain.
type WeatherConfig struct {
	APIKey       string        `yaml:"apiKey"`
	BaseURL      string        `yaml:"baseUrl"`
	Timeout      time.Duration `yaml:"timeout"`
	DefaultCity  string        `yaml:"defaultCity"`
	CacheTTL     time.Duration `yaml:"cacheTtl"`
	DemoFallback bool          `yaml:"demoFallback"`
}

// LLMConfig contains ChatGPT/OpenAI settings.
type LLMConfig struct {
	APIKey      string        `yaml:"apiKey"`
	BaseURL     string        `yaml:"baseUrl"`
	Model       string        `yaml:"model"`
	Temperature float32       `yaml:"temperature"`
	MaxTokens   int           `yaml:"maxTokens"`
	Timeout     time.Duration `yaml:"timeout"`
}

// AIConfig tunes the AI recommendation and improvement features.
type AIConfig struct {
	HistoryLimit         int           `yaml:"historyLimit"`
	HistoryTokenBudget   int           `yaml:"historyTokenBudget"`
	ImprovementMaxTokens int           `yaml:"improvementMaxTokens"`
	ImprovementBudget    int           `yaml:"improvementTokenBudget"`
	BreakerMaxFailures   uint32        `yaml:"breakerMaxFailures"`
	BreakerOpenTimeout   time.Duration `yaml:"breakerOpenTimeout"`
}

// PlacesConfig configures nearby hotel and restaurant lookups.
type PlacesConfig struct {
	GoogleAPIKey     string        `yaml:"googleApiKey"`
	GoogleBaseURL    string        `yaml:"googleBaseUrl"`
	YelpAPIKey       string        `yaml:"yelpApiKey"`
	YelpBaseURL      string        `yaml:"yelpBaseUrl"`
	Timeout          time.Duration `yaml:"timeout"`
	HotelRadius      int           `yaml:"hotelRadius"`
	RestaurantRadius int           `yaml:"restaurantRadius"`
	RefreshInterval  time.Duration `yaml:"refreshInterval"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// ValkeyConfig contains connection information for the weather cache.
type ValkeyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Prefix  string `yaml:"prefix"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	setString("HTTP_ADDRESS", &cfg.HTTP.Address)
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	setBool("HTTP_RATE_LIMIT_ENABLED", &cfg.HTTP.RateLimit.Enabled)
	setInt("HTTP_RATE_LIMIT_RPM", &cfg.HTTP.RateLimit.RequestsPerMinute)
	setInt("HTTP_RATE_LIMIT_BURST", &cfg.HTTP.RateLimit.Burst)

	setString("AUTH_SECRET", &cfg.Auth.Secret)
	setDuration("AUTH_TOKEN_TTL", &cfg.Auth.TokenTTL)
	setDuration("AUTH_REFRESH_TOKEN_TTL", &cfg.Auth.RefreshTokenTTL)

	setString("WEATHER_API_KEY", &cfg.Weather.APIKey)
	setString("WEATHER_BASE_URL", &cfg.Weather.BaseURL)
	setString("WEATHER_DEFAULT_CITY", &cfg.Weather.DefaultCity)
	setDuration("WEATHER_CACHE_TTL", &cfg.Weather.CacheTTL)
	setBool("WEATHER_DEMO_FALLBACK", &cfg.Weather.DemoFallback)

	setString("LLM_API_KEY", &cfg.LLM.APIKey)
	setString("LLM_BASE_URL", &cfg.LLM.BaseURL)
	setString("LLM_MODEL", &cfg.LLM.Model)
	if v := os.Getenv("LLM_TEMPERATURE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil {
			cfg.LLM.Temperature = float32(parsed)
		}
	}
	setInt("LLM_MAX_TOKENS", &cfg.LLM.MaxTokens)

	setString("GOOGLE_PLACES_API_KEY", &cfg.Places.GoogleAPIKey)
	setString("YELP_API_KEY", &cfg.Places.YelpAPIKey)
	setDuration("PLACES_REFRESH_INTERVAL", &cfg.Places.RefreshInterval)

	setString("POSTGRES_DSN", &cfg.Postgres.DSN)
	if v := os.Getenv("POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("VALKEY_ADDR"); v != "" {
		cfg.Valkey.Addr = v
		cfg.Valkey.Enabled = true
	}
	setBool("VALKEY_ENABLED", &cfg.Valkey.Enabled)
}

func setString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setBool(key string, dst *bool) {
	if v := os.Getenv(key); v != "" {
		*dst = v == "1" || strings.EqualFold(v, "true")
	}
}

func setInt(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			*dst = parsed
		}
	}
}

func setDuration(key string, dst *time.Duration) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			*dst = parsed
		}
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:        ":8080",
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   30 * time.Second,
			AllowedOrigins: []string{"*"},
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 120,
				Burst:             30,
			},
		},
		Auth: AuthConfig{
			Secret:          "change-me",
			TokenTTL:        time.Hour,
			RefreshTokenTTL: 7 * 24 * time.Hour,
		},
		Weather: WeatherConfig{
			BaseURL:     "https://api.openweathermap.org/data/2.5/weather",
			Timeout:     5 * time.Second,
			DefaultCity: "Mumbai",
			CacheTTL:    5 * time.Minute,
		},
		LLM: LLMConfig{
			BaseURL:     "https://api.openai.com/v1",
			Model:       "gpt-4o-mini",
			Temperature: 0.7,
			MaxTokens:   1500,
			Timeout:     20 * time.Second,
		},
		AI: AIConfig{
			HistoryLimit:         20,
			HistoryTokenBudget:   1200,
			ImprovementMaxTokens: 2000,
			ImprovementBudget:    3000,
			BreakerMaxFailures:   5,
			BreakerOpenTimeout:   30 * time.Second,
		},
		Places: PlacesConfig{
			GoogleBaseURL:    "https://maps.googleapis.com/maps/api/place",
			YelpBaseURL:      "https://api.yelp.com/v3",
			Timeout:          5 * time.Second,
			HotelRadius:      5000,
			RestaurantRadius: 2000,
			RefreshInterval:  5 * time.Minute,
		},
		Postgres: PostgresConfig{
			MaxConns: 4,
		},
		Valkey: ValkeyConfig{
			Prefix: "weather",
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if strings.TrimSpace(c.Auth.Secret) == "" {
		return errors.New("auth.secret cannot be empty")
	}
	if c.Auth.TokenTTL <= 0 || c.Auth.RefreshTokenTTL <= 0 {
		return errors.New("auth token ttls must be positive")
	}
	if strings.TrimSpace(c.Weather.DefaultCity) == "" {
		return errors.New("weather.defaultCity cannot be empty")
	}
	if c.Weather.CacheTTL < 0 {
		return errors.New("weather.cacheTtl cannot be negative")
	}
	if strings.TrimSpace(c.LLM.Model) == "" {
		return errors.New("llm.model cannot be empty")
	}
	if c.Places.RefreshInterval <= 0 {
		return errors.New("places.refreshInterval must be positive")
	}
	if c.Valkey.Enabled && strings.TrimSpace(c.Valkey.Addr) == "" {
		return errors.New("valkey.addr cannot be empty when valkey is enabled")
	}
	return nil
}
