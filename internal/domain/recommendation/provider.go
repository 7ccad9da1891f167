package recommendation

import (
	"context"
	"errors"
	"log/slog"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/yanqian/moodmate/pkg/metrics"
)

// Provider produces a bundle for a weather snapshot and mood.
type Provider interface {
	Fetch(ctx context.Context, req Request) (Bundle, error)
}

// StaticProvider serves the catalog and never fails.
type StaticProvider struct {
	catalog *Catalog
}

// NewStaticProvider wraps catalog.
func NewStaticProvider(catalog *Catalog) *StaticProvider {
	return &StaticProvider{catalog: catalog}
}

func (p *StaticProvider) Fetch(_ context.Context, req Request) (Bundle, error) {
	return p.catalog.For(req.Mood), nil
}

// FallbackProvider tries primary and serves fallback with the same mood when
// primary fails or its breaker is open. Primary errors are never surfaced.
type FallbackProvider struct {
	primary  Provider
	fallback Provider
	breaker  *gobreaker.CircuitBreaker[Bundle]
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewFallbackProvider composes primary and fallback behind a circuit breaker.
func NewFallbackProvider(primary, fallback Provider, cfg BreakerConfig, m *metrics.Metrics, logger *slog.Logger) *FallbackProvider {
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = 5
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}
	log := logger.With("component", "recommendation.fallback")
	settings := gobreaker.Settings{
		Name:        "ai-recommendations",
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		// Cancelled callers do not count against the AI backend.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("recommendation breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	}
	return &FallbackProvider{
		primary:  primary,
		fallback: fallback,
		breaker:  gobreaker.NewCircuitBreaker[Bundle](settings),
		metrics:  m,
		logger:   log,
	}
}

func (p *FallbackProvider) Fetch(ctx context.Context, req Request) (Bundle, error) {
	if ctx.Err() != nil {
		p.metrics.AIFallback("cancelled")
		return p.fallback.Fetch(ctx, req)
	}
	bundle, err := p.breaker.Execute(func() (Bundle, error) {
		return p.primary.Fetch(ctx, req)
	})
	if err == nil {
		return bundle, nil
	}

	reason := "error"
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		reason = "breaker_open"
	}
	p.metrics.AIFallback(reason)
	p.logger.Warn("primary recommendation provider failed, serving fallback", "mood", req.Mood, "reason", reason, "error", err)
	return p.fallback.Fetch(ctx, req)
}

var (
	_ Provider = (*StaticProvider)(nil)
	_ Provider = (*FallbackProvider)(nil)
)
