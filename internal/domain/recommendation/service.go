package recommendation

import (
	"context"
	"log/slog"
	"strings"

	"github.com/yanqian/moodmate/internal/domain/mood"
	"github.com/yanqian/moodmate/internal/domain/weather"
	apperrors "github.com/yanqian/moodmate/pkg/errors"
	"github.com/yanqian/moodmate/pkg/metrics"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// Service exposes mood based recommendations.
type Service interface {
	ForMood(m mood.Mood) Bundle
	ForWeather(ctx context.Context, snapshot weather.Snapshot, userID string) (Bundle, error)
	ForWeatherAndMood(ctx context.Context, snapshot weather.Snapshot, explicit mood.Mood, userID string) (Bundle, error)
	History(ctx context.Context, userID string, limit int) ([]HistoryEntry, error)
	SubmitFeedback(ctx context.Context, userID, id string, rating int, helpful *bool) (HistoryEntry, error)
}

type service struct {
	catalog  *Catalog
	provider Provider
	history  HistoryRepository
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewService wires the recommendation domain. provider decides whether
// weather driven bundles come from the AI or the catalog.
func NewService(catalog *Catalog, provider Provider, history HistoryRepository, m *metrics.Metrics, logger *slog.Logger) Service {
	if provider == nil {
		provider = NewStaticProvider(catalog)
	}
	return &service{
		catalog:  catalog,
		provider: provider,
		history:  history,
		metrics:  m,
		logger:   logger.With("component", "recommendation.service"),
	}
}

// MoodFromWeather derives the mood for a snapshot.
func MoodFromWeather(snapshot weather.Snapshot) mood.Mood {
	return mood.FromCondition(snapshot.Condition)
}

func (s *service) ForMood(m mood.Mood) Bundle {
	bundle := s.catalog.For(m)
	s.metrics.RecommendationServed(string(bundle.Source))
	return bundle
}

func (s *service) ForWeather(ctx context.Context, snapshot weather.Snapshot, userID string) (Bundle, error) {
	return s.ForWeatherAndMood(ctx, snapshot, "", userID)
}

func (s *service) ForWeatherAndMood(ctx context.Context, snapshot weather.Snapshot, explicit mood.Mood, userID string) (Bundle, error) {
	m := explicit
	if m == "" {
		m = MoodFromWeather(snapshot)
	} else if !m.Valid() {
		return Bundle{}, apperrors.Wrap("invalid_input", "unknown mood", nil)
	}
	bundle, err := s.provider.Fetch(ctx, Request{Weather: snapshot, Mood: m, UserID: userID})
	if err != nil {
		return Bundle{}, apperrors.Wrap("recommendation_error", "failed to build recommendations", err)
	}
	s.metrics.RecommendationServed(string(bundle.Source))
	return bundle, nil
}

func (s *service) History(ctx context.Context, userID string, limit int) ([]HistoryEntry, error) {
	if s.history == nil {
		return []HistoryEntry{}, nil
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	entries, err := s.history.ListHistory(ctx, userID, limit)
	if err != nil {
		return nil, apperrors.Wrap("history_error", "failed to load history", err)
	}
	return entries, nil
}

func (s *service) SubmitFeedback(ctx context.Context, userID, id string, rating int, helpful *bool) (HistoryEntry, error) {
	id = strings.TrimSpace(id)
	if rating < 1 || rating > 5 {
		return HistoryEntry{}, apperrors.Wrap("invalid_input", "rating must be between 1 and 5", nil)
	}
	if s.history == nil || id == "" {
		return HistoryEntry{}, apperrors.Wrap("not_found", "recommendation not found", nil)
	}
	entry, ok, err := s.history.GetHistory(ctx, id)
	if err != nil {
		return HistoryEntry{}, apperrors.Wrap("history_error", "failed to load recommendation", err)
	}
	if !ok || entry.UserID != userID {
		return HistoryEntry{}, apperrors.Wrap("not_found", "recommendation not found", nil)
	}
	updated, err := s.history.UpdateFeedback(ctx, id, rating, helpful)
	if err != nil {
		return HistoryEntry{}, apperrors.Wrap("history_error", "failed to store feedback", err)
	}
	s.logger.Info("recommendation feedback stored", "user_id", userID, "id", id, "rating", rating)
	return updated, nil
}
