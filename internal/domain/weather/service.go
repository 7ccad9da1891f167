package weather

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	apperrors "github.com/yanqian/moodmate/pkg/errors"
	"github.com/yanqian/moodmate/pkg/metrics"
)

// Service resolves the current weather for a user.
type Service interface {
	ByLocation(ctx context.Context, scope string, q LocationQuery) (Resolution, error)
	ByCity(ctx context.Context, scope, city string) (Snapshot, error)
}

type strategy struct {
	name     StrategyName
	recovers []FailureReason
	run      func(ctx context.Context, scope string, q LocationQuery) (Snapshot, error)
}

func (st strategy) canRecover(err *Error) bool {
	if err == nil {
		return false
	}
	for _, r := range st.recovers {
		if r == err.Reason {
			return true
		}
	}
	return false
}

type service struct {
	cfg      Config
	provider Provider
	cache    Cache
	metrics  *metrics.Metrics
	logger   *slog.Logger
	clock    clockwork.Clock
	chain    []strategy

	mu        sync.Mutex
	lastKnown map[string]Coordinates
}

// NewService wires the weather domain.
func NewService(cfg Config, provider Provider, cache Cache, m *metrics.Metrics, clock clockwork.Clock, logger *slog.Logger) Service {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	s := &service{
		cfg:       cfg,
		provider:  provider,
		cache:     cache,
		metrics:   m,
		logger:    logger.With("component", "weather.service"),
		clock:     clock,
		lastKnown: make(map[string]Coordinates),
	}
	s.chain = []strategy{
		{name: StrategyCache, run: s.fromCache},
		{name: StrategyCoordinates, recovers: []FailureReason{ReasonCacheMiss}, run: s.fromCoordinates},
		{name: StrategyDefaultCity, recovers: []FailureReason{ReasonPermissionDenied, ReasonPositionUnavailable, ReasonTimeout, ReasonNetwork}, run: s.fromDefaultCity},
	}
	if cfg.DemoFallback {
		s.chain = append(s.chain, strategy{name: StrategyDemo, recovers: []FailureReason{ReasonNetwork}, run: s.demo})
	}
	return s
}

func (s *service) ByLocation(ctx context.Context, scope string, q LocationQuery) (Resolution, error) {
	if q.Coordinates != nil && !q.Coordinates.Valid() {
		return Resolution{}, apperrors.Wrap("invalid_input", "coordinates are out of range", nil)
	}

	var last *Error
	for i, st := range s.chain {
		if i > 0 && !st.canRecover(last) {
			continue
		}
		snapshot, err := st.run(ctx, scope, q)
		if err == nil {
			if st.name != StrategyCache {
				s.store(ctx, scope, snapshot)
			}
			s.metrics.WeatherResolved(string(st.name))
			s.logger.Info("weather resolved", "scope", scope, "strategy", st.name, "location", snapshot.Location)
			recovered := last
			if recovered != nil && recovered.Reason == ReasonCacheMiss {
				recovered = nil
			}
			return Resolution{Snapshot: snapshot, Strategy: st.name, Recovered: recovered}, nil
		}
		last = asError(err, ReasonNetwork)
		if last.Reason != ReasonCacheMiss {
			s.logger.Warn("weather strategy failed", "scope", scope, "strategy", st.name, "reason", last.Reason, "error", err)
		}
	}
	if last == nil {
		last = &Error{Reason: ReasonNetwork, Err: errors.New("no weather strategy available")}
	}
	return Resolution{}, last
}

func (s *service) ByCity(ctx context.Context, scope, city string) (Snapshot, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return Snapshot{}, apperrors.Wrap("invalid_input", "city cannot be empty", nil)
	}
	snapshot, err := s.provider.ByCity(ctx, city)
	if err != nil {
		s.logger.Warn("weather city lookup failed", "scope", scope, "city", city, "error", err)
		return Snapshot{}, asError(err, ReasonNetwork)
	}
	s.store(ctx, scope, snapshot)
	s.metrics.WeatherResolved(string(StrategyCity))
	return snapshot, nil
}

func (s *service) fromCache(ctx context.Context, scope string, _ LocationQuery) (Snapshot, error) {
	if s.cache == nil {
		return Snapshot{}, &Error{Reason: ReasonCacheMiss}
	}
	snapshot, ok, err := s.cache.Get(ctx, scope)
	if err != nil {
		s.metrics.WeatherCacheLookup("error")
		s.logger.Warn("weather cache read failed", "scope", scope, "error", err)
		return Snapshot{}, &Error{Reason: ReasonCacheMiss, Err: err}
	}
	if !ok {
		s.metrics.WeatherCacheLookup("miss")
		return Snapshot{}, &Error{Reason: ReasonCacheMiss}
	}
	s.metrics.WeatherCacheLookup("hit")
	return snapshot, nil
}

func (s *service) fromCoordinates(ctx context.Context, scope string, q LocationQuery) (Snapshot, error) {
	if q.GeoFailure != "" {
		return Snapshot{}, &Error{Reason: q.GeoFailure}
	}
	var coords Coordinates
	if q.Coordinates != nil {
		coords = *q.Coordinates
		s.remember(scope, coords)
	} else {
		known, ok := s.recall(scope)
		if !ok {
			return Snapshot{}, &Error{Reason: ReasonPositionUnavailable, Err: errors.New("no coordinates reported")}
		}
		coords = known
	}
	snapshot, err := s.provider.ByCoordinates(ctx, coords)
	if err != nil {
		return Snapshot{}, asError(err, ReasonNetwork)
	}
	return snapshot, nil
}

func (s *service) fromDefaultCity(ctx context.Context, _ string, _ LocationQuery) (Snapshot, error) {
	if s.cfg.DefaultCity == "" {
		return Snapshot{}, &Error{Reason: ReasonNetwork, Err: errors.New("default city not configured")}
	}
	snapshot, err := s.provider.ByCity(ctx, s.cfg.DefaultCity)
	if err != nil {
		return Snapshot{}, asError(err, ReasonNetwork)
	}
	return snapshot, nil
}

func (s *service) demo(_ context.Context, _ string, _ LocationQuery) (Snapshot, error) {
	return DemoSnapshot(s.clock.Now()), nil
}

// DemoSnapshot is the synthesized reading served when live weather is unreachable.
func DemoSnapshot(at time.Time) Snapshot {
	return Snapshot{
		Location:    "Demo Location",
		Temperature: 22,
		Condition:   "cloudy",
		Description: "partly cloudy",
		Humidity:    65,
		WindSpeed:   12,
		Icon:        "02d",
		FetchedAt:   at,
		Demo:        true,
	}
}

func (s *service) store(ctx context.Context, scope string, snapshot Snapshot) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, scope, snapshot, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("weather cache write failed", "scope", scope, "error", err)
	}
}

func (s *service) remember(scope string, coords Coordinates) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastKnown[scope] = coords
}

func (s *service) recall(scope string) (Coordinates, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	coords, ok := s.lastKnown[scope]
	return coords, ok
}
