package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/jonboulle/clockwork"

	"github.com/yanqian/moodmate/internal/domain/mood"
	"github.com/yanqian/moodmate/internal/domain/recommendation"
	"github.com/yanqian/moodmate/internal/domain/weather"
	apperrors "github.com/yanqian/moodmate/pkg/errors"
)

const weatherUnavailable = "Weather service is unavailable."

// Service orchestrates weather, mood and recommendations per user.
type Service interface {
	RefreshByLocation(ctx context.Context, userID string, q weather.LocationQuery) (View, error)
	RefreshByCity(ctx context.Context, userID, city string) (View, error)
	SelectMood(ctx context.Context, userID string, m mood.Mood) (View, error)
	Current(userID string) View
	Reset(userID string)
}

type service struct {
	weather         weather.Service
	recommendations recommendation.Service
	clock           clockwork.Clock
	logger          *slog.Logger

	// generations are issued service wide so a Reset never lets an old
	// in-flight result match a fresh session.
	generation atomic.Uint64

	mu       sync.Mutex
	sessions map[string]*session
}

// NewService wires the dashboard orchestration.
func NewService(weatherSvc weather.Service, recs recommendation.Service, clock clockwork.Clock, logger *slog.Logger) Service {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &service{
		weather:         weatherSvc,
		recommendations: recs,
		clock:           clock,
		logger:          logger.With("component", "dashboard.service"),
		sessions:        make(map[string]*session),
	}
}

type outcome struct {
	snapshot *weather.Snapshot
	strategy weather.StrategyName
	advisory string
	bundle   *recommendation.Bundle
	mood     mood.Mood
	source   MoodSource
}

func (s *service) RefreshByLocation(ctx context.Context, userID string, q weather.LocationQuery) (View, error) {
	if q.Coordinates != nil && !q.Coordinates.Valid() {
		return View{}, apperrors.Wrap("invalid_input", "coordinates are out of range", nil)
	}
	gen, selected := s.begin(userID, nil)
	res, err := s.weather.ByLocation(ctx, userID, q)
	if err != nil {
		return s.fail(userID, gen, weatherFailure(err))
	}
	out, err := s.recommend(ctx, userID, res.Snapshot, selected)
	if err != nil {
		return s.fail(userID, gen, err)
	}
	out.strategy = res.Strategy
	out.advisory = res.Recovered.Advisory()
	return s.apply(userID, gen, out), nil
}

func (s *service) RefreshByCity(ctx context.Context, userID, city string) (View, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return View{}, apperrors.Wrap("invalid_input", "city cannot be empty", nil)
	}
	gen, selected := s.begin(userID, nil)
	snapshot, err := s.weather.ByCity(ctx, userID, city)
	if err != nil {
		return s.fail(userID, gen, weatherFailure(err))
	}
	out, err := s.recommend(ctx, userID, snapshot, selected)
	if err != nil {
		return s.fail(userID, gen, err)
	}
	out.strategy = weather.StrategyCity
	return s.apply(userID, gen, out), nil
}

func (s *service) SelectMood(ctx context.Context, userID string, m mood.Mood) (View, error) {
	if m != "" && !m.Valid() {
		return View{}, apperrors.Wrap("invalid_input", "unknown mood", nil)
	}
	gen, _ := s.begin(userID, &m)
	current := s.Current(userID)

	if current.Weather == nil {
		out := outcome{}
		if m != "" {
			bundle := s.recommendations.ForMood(m)
			out = outcome{bundle: &bundle, mood: m, source: MoodSelected}
		}
		return s.apply(userID, gen, out), nil
	}

	out, err := s.recommend(ctx, userID, *current.Weather, m)
	if err != nil {
		return s.fail(userID, gen, err)
	}
	out.strategy = current.Strategy
	out.advisory = current.Advisory
	return s.apply(userID, gen, out), nil
}

func (s *service) Current(userID string) View {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	if !ok {
		return View{}
	}
	return sess.view
}

func (s *service) Reset(userID string) {
	s.mu.Lock()
	delete(s.sessions, userID)
	s.mu.Unlock()
	s.logger.Info("dashboard reset", "user_id", userID)
}

// begin issues the generation for a new intent. A non-nil selection is
// recorded immediately so later intents observe it.
func (s *service) begin(userID string, selection *mood.Mood) (uint64, mood.Mood) {
	gen := s.generation.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.session(userID)
	sess.latest = gen
	if selection != nil {
		sess.selected = *selection
	}
	return gen, sess.selected
}

func (s *service) recommend(ctx context.Context, userID string, snapshot weather.Snapshot, selected mood.Mood) (outcome, error) {
	bundle, err := s.recommendations.ForWeatherAndMood(ctx, snapshot, selected, userID)
	if err != nil {
		return outcome{}, err
	}
	source := MoodDerived
	if selected != "" {
		source = MoodSelected
	}
	return outcome{snapshot: &snapshot, bundle: &bundle, mood: bundle.Mood, source: source}, nil
}

func (s *service) apply(userID string, gen uint64, out outcome) View {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	if !ok || sess.latest != gen {
		s.logger.Debug("dropping superseded dashboard result", "user_id", userID, "generation", gen)
		return s.superseded(sess)
	}
	sess.view = View{
		Weather:         out.snapshot,
		Strategy:        out.strategy,
		Advisory:        out.advisory,
		Mood:            out.mood,
		MoodSource:      out.source,
		Recommendations: out.bundle,
		Generation:      gen,
		UpdatedAt:       s.clock.Now().UTC(),
	}
	return sess.view
}

// fail reports err only when the failing intent is still the latest one.
func (s *service) fail(userID string, gen uint64, err error) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	if !ok || sess.latest != gen {
		return s.superseded(sess), nil
	}
	return View{}, err
}

func (s *service) superseded(sess *session) View {
	var view View
	if sess != nil {
		view = sess.view
	}
	view.Superseded = true
	return view
}

func (s *service) session(userID string) *session {
	sess, ok := s.sessions[userID]
	if !ok {
		sess = &session{}
		s.sessions[userID] = sess
	}
	return sess
}

func weatherFailure(err error) error {
	if apperrors.CodeOf(err) != "" {
		return err
	}
	var werr *weather.Error
	if errors.As(err, &werr) {
		message := werr.Advisory()
		if message == "" {
			message = weatherUnavailable
		}
		return apperrors.Wrap("weather_error", message, err)
	}
	return apperrors.Wrap("weather_error", weatherUnavailable, err)
}

var _ Service = (*service)(nil)
