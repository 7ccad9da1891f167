package places

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/yanqian/moodmate/internal/domain/weather"
	apperrors "github.com/yanqian/moodmate/pkg/errors"
	"github.com/yanqian/moodmate/pkg/metrics"
)

// Service looks up places near a location.
type Service interface {
	Nearby(ctx context.Context, loc weather.Coordinates) (Result, error)
}

type service struct {
	cfg         Config
	hotels      []Provider
	restaurants []Provider
	metrics     *metrics.Metrics
	clock       clockwork.Clock
	logger      *slog.Logger
}

// NewService builds the provider chains: hotels try google then the mock,
// restaurants try google, then yelp, then the mock.
func NewService(cfg Config, google, yelp Provider, m *metrics.Metrics, clock clockwork.Clock, logger *slog.Logger) Service {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	var hotels, restaurants []Provider
	if google != nil {
		hotels = append(hotels, google)
		restaurants = append(restaurants, google)
	}
	if yelp != nil {
		restaurants = append(restaurants, yelp)
	}
	hotels = append(hotels, MockProvider{})
	restaurants = append(restaurants, MockProvider{})
	return &service{
		cfg:         cfg.withDefaults(),
		hotels:      hotels,
		restaurants: restaurants,
		metrics:     m,
		clock:       clock,
		logger:      logger.With("component", "places.service"),
	}
}

func (s *service) Nearby(ctx context.Context, loc weather.Coordinates) (Result, error) {
	if !loc.Valid() {
		return Result{}, apperrors.Wrap("invalid_input", "coordinates are out of range", nil)
	}
	res := Result{Location: loc}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		places, name, err := s.firstSuccess(gctx, s.hotels, Query{Location: loc, Kind: KindHotels, Radius: s.cfg.HotelRadius})
		res.Hotels, res.HotelsProvider = places, name
		return err
	})
	g.Go(func() error {
		places, name, err := s.firstSuccess(gctx, s.restaurants, Query{Location: loc, Kind: KindRestaurants, Radius: s.cfg.RestaurantRadius})
		res.Restaurants, res.RestaurantsProvider = places, name
		return err
	})
	if err := g.Wait(); err != nil {
		return Result{}, apperrors.Wrap("places_error", "failed to look up nearby places", err)
	}
	res.UpdatedAt = s.clock.Now()
	return res, nil
}

func (s *service) firstSuccess(ctx context.Context, chain []Provider, q Query) ([]Place, string, error) {
	var errs []error
	for _, p := range chain {
		places, err := p.Nearby(ctx, q)
		s.metrics.PlacesLookup(p.Name(), err)
		if err == nil {
			if places == nil {
				places = []Place{}
			}
			return places, p.Name(), nil
		}
		s.logger.Warn("places provider failed", "provider", p.Name(), "kind", q.Kind, "error", err)
		errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
		if ctx.Err() != nil {
			break
		}
	}
	return nil, "", errors.Join(errs...)
}
