package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/moodmate/internal/domain/auth"
	"github.com/yanqian/moodmate/internal/domain/improvement"
	"github.com/yanqian/moodmate/internal/domain/places"
	"github.com/yanqian/moodmate/internal/domain/recommendation"
	"github.com/yanqian/moodmate/internal/domain/weather"
	"github.com/yanqian/moodmate/internal/infra/config"
	"github.com/yanqian/moodmate/internal/infra/historyrepo"
	"github.com/yanqian/moodmate/internal/infra/improvementrepo"
	"github.com/yanqian/moodmate/internal/infra/llm/chatgpt"
	"github.com/yanqian/moodmate/internal/infra/llm/tokens"
	"github.com/yanqian/moodmate/internal/infra/places/google"
	"github.com/yanqian/moodmate/internal/infra/places/yelp"
	"github.com/yanqian/moodmate/internal/infra/userrepo"
	"github.com/yanqian/moodmate/internal/infra/weather/openweather"
	"github.com/yanqian/moodmate/internal/infra/weathercache"
	"github.com/yanqian/moodmate/pkg/metrics"
)

// historyStore is satisfied by both history repositories, which persist
// recommendations and weather logs side by side.
type historyStore interface {
	recommendation.HistoryRepository
	recommendation.WeatherLogRepository
}

func provideClock() clockwork.Clock {
	return clockwork.NewRealClock()
}

func provideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return reg
}

func provideMetrics(reg *prometheus.Registry) *metrics.Metrics {
	return metrics.New(reg)
}

// providePostgresPool returns a nil pool when no DSN is configured or the
// database is unreachable; repositories then fall back to memory.
func providePostgresPool(cfg *config.Config, logger *slog.Logger) (*pgxpool.Pool, func()) {
	noop := func() {}
	dsn := strings.TrimSpace(cfg.Postgres.DSN)
	if dsn == "" {
		logger.Info("postgres dsn not set, using memory repositories")
		return nil, noop
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory repositories", "error", err)
		return nil, noop
	}
	if cfg.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Postgres.MaxConns
	}
	if cfg.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory repositories", "error", err)
		return nil, noop
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory repositories", "error", err)
		pool.Close()
		return nil, noop
	}
	logger.Info("postgres repositories enabled")
	return pool, pool.Close
}

func provideAuthConfig(cfg *config.Config) auth.Config {
	return auth.Config{
		Secret:          cfg.Auth.Secret,
		TokenTTL:        cfg.Auth.TokenTTL,
		RefreshTokenTTL: cfg.Auth.RefreshTokenTTL,
	}
}

func provideAuthRepository(pool *pgxpool.Pool) auth.Repository {
	if pool == nil {
		return userrepo.NewMemoryRepository()
	}
	return userrepo.NewPostgresRepository(pool)
}

func provideHistoryStore(pool *pgxpool.Pool) historyStore {
	if pool == nil {
		return historyrepo.NewMemoryRepository()
	}
	return historyrepo.NewPostgresRepository(pool)
}

func provideHistoryRepository(store historyStore) recommendation.HistoryRepository {
	return store
}

func provideWeatherLogRepository(store historyStore) recommendation.WeatherLogRepository {
	return store
}

func provideImprovementRepository(pool *pgxpool.Pool) improvement.Repository {
	if pool == nil {
		return improvementrepo.NewMemoryRepository()
	}
	return improvementrepo.NewPostgresRepository(pool)
}

func provideWeatherConfig(cfg *config.Config) weather.Config {
	return weather.Config{
		DefaultCity:  cfg.Weather.DefaultCity,
		CacheTTL:     cfg.Weather.CacheTTL,
		DemoFallback: cfg.Weather.DemoFallback,
	}
}

func provideWeatherProvider(cfg *config.Config, clock clockwork.Clock) weather.Provider {
	return openweather.NewClient(cfg.Weather.BaseURL, cfg.Weather.APIKey, cfg.Weather.Timeout, clock)
}

func provideWeatherCache(cfg *config.Config, clock clockwork.Clock, logger *slog.Logger) (weather.Cache, func()) {
	noop := func() {}
	if cfg.Valkey.Enabled {
		opt, err := buildValkeyOptions(cfg)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory cache", "error", err)
			return weathercache.NewMemoryCache(clock), noop
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory cache", "error", err)
			return weathercache.NewMemoryCache(clock), noop
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory cache", "error", err)
			client.Close()
		} else {
			logger.Info("valkey weather cache enabled", "addr", cfg.Valkey.Addr)
			return weathercache.NewValkeyCache(client, cfg.Valkey.Prefix), client.Close
		}
	}
	return weathercache.NewMemoryCache(clock), noop
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(cfg.Valkey.Addr, "://") {
		opt, err = valkey.ParseURL(cfg.Valkey.Addr)
	} else {
		opt = valkey.ClientOption{InitAddress: []string{cfg.Valkey.Addr}}
	}
	if err != nil {
		return valkey.ClientOption{}, err
	}
	return opt, nil
}

// provideChatClient returns a nil interface, never a typed nil, when no key
// is configured so downstream nil checks hold.
func provideChatClient(cfg *config.Config, logger *slog.Logger) recommendation.ChatClient {
	if strings.TrimSpace(cfg.LLM.APIKey) == "" {
		logger.Info("llm api key not set, AI recommendations disabled")
		return nil
	}
	client, err := chatgpt.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.Timeout)
	if err != nil {
		logger.Error("failed to create llm client, AI recommendations disabled", "error", err)
		return nil
	}
	return client
}

func provideTokenCounter(cfg *config.Config, logger *slog.Logger) tokens.Counter {
	return tokens.NewCounter(cfg.LLM.Model, logger)
}

func provideRecommendationProvider(
	cfg *config.Config,
	catalog *recommendation.Catalog,
	client recommendation.ChatClient,
	history recommendation.HistoryRepository,
	logs recommendation.WeatherLogRepository,
	counter tokens.Counter,
	clock clockwork.Clock,
	m *metrics.Metrics,
	logger *slog.Logger,
) recommendation.Provider {
	static := recommendation.NewStaticProvider(catalog)
	if client == nil {
		return static
	}
	ai := recommendation.NewAIProvider(recommendation.AIConfig{
		Model:              cfg.LLM.Model,
		Temperature:        cfg.LLM.Temperature,
		MaxTokens:          cfg.LLM.MaxTokens,
		HistoryLimit:       cfg.AI.HistoryLimit,
		HistoryTokenBudget: cfg.AI.HistoryTokenBudget,
	}, client, history, logs, counter, clock, logger)
	return recommendation.NewFallbackProvider(ai, static, recommendation.BreakerConfig{
		MaxFailures: cfg.AI.BreakerMaxFailures,
		OpenTimeout: cfg.AI.BreakerOpenTimeout,
	}, m, logger)
}

func provideImprovementConfig(cfg *config.Config) improvement.Config {
	return improvement.Config{
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.AI.ImprovementMaxTokens,
		TokenBudget: cfg.AI.ImprovementBudget,
	}
}

func providePlacesConfig(cfg *config.Config) places.Config {
	return places.Config{
		HotelRadius:      cfg.Places.HotelRadius,
		RestaurantRadius: cfg.Places.RestaurantRadius,
		RefreshInterval:  cfg.Places.RefreshInterval,
	}
}

func providePlacesService(cfg *config.Config, placesCfg places.Config, m *metrics.Metrics, clock clockwork.Clock, logger *slog.Logger) places.Service {
	googleClient := google.NewClient(cfg.Places.GoogleBaseURL, cfg.Places.GoogleAPIKey, cfg.Places.Timeout)
	yelpClient := yelp.NewClient(cfg.Places.YelpBaseURL, cfg.Places.YelpAPIKey, cfg.Places.Timeout)
	return places.NewService(placesCfg, googleClient, yelpClient, m, clock, logger)
}
