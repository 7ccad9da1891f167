package improvement

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/yanqian/moodmate/internal/domain/recommendation"
	"github.com/yanqian/moodmate/internal/infra/llm/chatgpt"
	"github.com/yanqian/moodmate/internal/infra/llm/tokens"
	apperrors "github.com/yanqian/moodmate/pkg/errors"
)

const defaultLatestLimit = 10

// Service analyses recommendation history and proposes catalog improvements.
type Service interface {
	Analyze(ctx context.Context) ([]Improvement, error)
	Latest(ctx context.Context, limit int) ([]Improvement, error)
}

type service struct {
	cfg     Config
	client  recommendation.ChatClient
	history recommendation.HistoryRepository
	logs    recommendation.WeatherLogRepository
	repo    Repository
	counter tokens.Counter
	clock   clockwork.Clock
	logger  *slog.Logger
}

// NewService wires the improvement domain. A nil client disables Analyze.
func NewService(cfg Config, client recommendation.ChatClient, history recommendation.HistoryRepository, logs recommendation.WeatherLogRepository, repo Repository, counter tokens.Counter, clock clockwork.Clock, logger *slog.Logger) Service {
	if cfg.HistorySample <= 0 {
		cfg.HistorySample = 100
	}
	if cfg.WeatherSample <= 0 {
		cfg.WeatherSample = 50
	}
	if cfg.PromptItems <= 0 {
		cfg.PromptItems = 20
	}
	if counter == nil {
		counter = tokens.WordEstimate{}
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &service{
		cfg:     cfg,
		client:  client,
		history: history,
		logs:    logs,
		repo:    repo,
		counter: counter,
		clock:   clock,
		logger:  logger.With("component", "improvement.service"),
	}
}

func (s *service) Analyze(ctx context.Context) ([]Improvement, error) {
	if s.client == nil {
		return nil, apperrors.Wrap("ai_disabled", "AI analysis is not configured", nil)
	}

	entries, err := s.history.ListHistory(ctx, "", s.cfg.HistorySample)
	if err != nil {
		return nil, apperrors.Wrap("history_error", "failed to load recommendation history", err)
	}
	weatherLogs, err := s.logs.ListWeatherLogs(ctx, "", s.cfg.WeatherSample)
	if err != nil {
		return nil, apperrors.Wrap("history_error", "failed to load weather history", err)
	}
	s.logger.Info("improvement analysis started", "history", len(entries), "weather_logs", len(weatherLogs))

	completion, err := s.client.CreateChatCompletion(ctx, chatgpt.ChatCompletionRequest{
		Model: s.cfg.Model,
		Messages: []chatgpt.Message{
			{Role: "system", Content: "You are an AI system analyst. Return only valid JSON, no additional text."},
			{Role: "user", Content: s.buildPrompt(entries, weatherLogs)},
		},
		Temperature:    s.cfg.Temperature,
		MaxTokens:      s.cfg.MaxTokens,
		ResponseFormat: chatgpt.JSONObject,
	})
	if err != nil {
		return nil, apperrors.Wrap("llm_error", "chatgpt request failed", err)
	}
	content, ok := completion.FirstContent()
	if !ok {
		return nil, apperrors.Wrap("llm_error", "chatgpt returned no choices", nil)
	}
	items, err := s.parse(content)
	if err != nil {
		return nil, apperrors.Wrap("llm_error", "chatgpt response malformed", err)
	}
	if err := s.repo.Add(ctx, items); err != nil {
		return nil, apperrors.Wrap("improvement_error", "failed to store improvements", err)
	}
	s.logger.Info("improvement analysis stored", "count", len(items))
	return items, nil
}

func (s *service) Latest(ctx context.Context, limit int) ([]Improvement, error) {
	if limit <= 0 {
		limit = defaultLatestLimit
	}
	items, err := s.repo.Latest(ctx, limit)
	if err != nil {
		return nil, apperrors.Wrap("improvement_error", "failed to load improvements", err)
	}
	return items, nil
}

type historyLine struct {
	Location string `json:"location"`
	Weather  string `json:"weather"`
	Mood     string `json:"mood"`
	Type     string `json:"type"`
	Item     any    `json:"item"`
	Rating   *int   `json:"rating,omitempty"`
	Helpful  *bool  `json:"helpful,omitempty"`
}

type weatherLine struct {
	Location    string  `json:"location"`
	Weather     string  `json:"weather"`
	Temperature float64 `json:"temperature"`
	Mood        string  `json:"mood"`
}

func (s *service) buildPrompt(entries []recommendation.HistoryEntry, logs []recommendation.WeatherLogEntry) string {
	historyLines := make([]string, 0, s.cfg.PromptItems)
	for i, e := range entries {
		if i == s.cfg.PromptItems {
			break
		}
		historyLines = append(historyLines, encodeLine(historyLine{
			Location: e.Location,
			Weather:  e.WeatherCondition,
			Mood:     string(e.Mood),
			Type:     string(e.Type),
			Item:     json.RawMessage(orEmptyObject(e.Data)),
			Rating:   e.UserFeedback,
			Helpful:  e.WasHelpful,
		}))
	}
	weatherLines := make([]string, 0, s.cfg.PromptItems)
	for i, l := range logs {
		if i == s.cfg.PromptItems {
			break
		}
		weatherLines = append(weatherLines, encodeLine(weatherLine{
			Location:    l.Location,
			Weather:     l.WeatherCondition,
			Temperature: l.Temperature,
			Mood:        string(l.MoodSelected),
		}))
	}
	half := s.cfg.TokenBudget / 2
	historyLines = tokens.FitBudget(s.counter, historyLines, half)
	weatherLines = tokens.FitBudget(s.counter, weatherLines, half)

	return fmt.Sprintf(`Analyze the following data and suggest improvements for a weather-mood recommendation system.

Recommendation history (newest first, one JSON object per line):
%s

Weather history (newest first, one JSON object per line):
%s

Suggest improvements in these categories:
1. Food recommendations that could be added
2. Music recommendations that could be enhanced
3. Stay recommendations that could be improved
4. General mood-weather correlations that could be refined

Return ONLY a JSON object with this structure:
{
  "foodSuggestions": [{"suggestion": "", "reasoning": "", "targetMood": "", "targetWeather": ""}],
  "musicSuggestions": [{"suggestion": "", "reasoning": "", "targetMood": "", "targetWeather": ""}],
  "staySuggestions": [{"suggestion": "", "reasoning": "", "targetMood": "", "targetWeather": ""}],
  "generalImprovements": [{"suggestion": "", "reasoning": "", "priority": "high/medium/low"}]
}

Focus on Indian context and preferences.`, joinOrNone(historyLines), joinOrNone(weatherLines))
}

func encodeLine(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(raw)
}

func orEmptyObject(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return json.RawMessage("{}")
	}
	return raw
}

func joinOrNone(lines []string) string {
	if len(lines) == 0 {
		return "none"
	}
	return strings.Join(lines, "\n")
}

type suggestionWire struct {
	Suggestion    string `json:"suggestion"`
	Reasoning     string `json:"reasoning"`
	TargetMood    string `json:"targetMood"`
	TargetWeather string `json:"targetWeather"`
	Priority      string `json:"priority"`
}

type analysisWire struct {
	FoodSuggestions     []suggestionWire `json:"foodSuggestions"`
	MusicSuggestions    []suggestionWire `json:"musicSuggestions"`
	StaySuggestions     []suggestionWire `json:"staySuggestions"`
	GeneralImprovements []suggestionWire `json:"generalImprovements"`
}

func (s *service) parse(raw string) ([]Improvement, error) {
	sanitized := strings.TrimSpace(raw)
	sanitized = strings.TrimPrefix(sanitized, "```json")
	sanitized = strings.TrimSuffix(sanitized, "```")
	sanitized = strings.TrimSpace(sanitized)

	var wire analysisWire
	if err := json.Unmarshal([]byte(sanitized), &wire); err != nil {
		return nil, err
	}
	now := s.clock.Now()
	out := make([]Improvement, 0)
	add := func(kind Type, list []suggestionWire) {
		for _, w := range list {
			text := strings.TrimSpace(w.Suggestion)
			if text == "" {
				continue
			}
			analysis := Analysis{Reasoning: strings.TrimSpace(w.Reasoning)}
			if kind == TypeGeneral {
				analysis.Priority = strings.ToLower(strings.TrimSpace(w.Priority))
			} else {
				analysis.TargetMood = strings.TrimSpace(w.TargetMood)
				analysis.TargetWeather = strings.TrimSpace(w.TargetWeather)
			}
			out = append(out, Improvement{
				ID:              uuid.NewString(),
				ImprovementType: kind,
				Suggestion:      text,
				DataAnalysis:    analysis,
				Status:          StatusPending,
				CreatedAt:       now,
			})
		}
	}
	add(TypeFood, wire.FoodSuggestions)
	add(TypeMusic, wire.MusicSuggestions)
	add(TypeStay, wire.StaySuggestions)
	add(TypeGeneral, wire.GeneralImprovements)
	return out, nil
}
