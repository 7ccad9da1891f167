package recommendation

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/yanqian/moodmate/internal/infra/llm/chatgpt"
	"github.com/yanqian/moodmate/internal/infra/llm/tokens"
	apperrors "github.com/yanqian/moodmate/pkg/errors"
)

// ChatClient is the LLM surface the AI provider needs.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error)
}

// AIProvider asks the LLM for personalised suggestions and records them in history.
type AIProvider struct {
	cfg     AIConfig
	client  ChatClient
	history HistoryRepository
	logs    WeatherLogRepository
	counter tokens.Counter
	clock   clockwork.Clock
	logger  *slog.Logger
}

// NewAIProvider wires the LLM backed provider.
func NewAIProvider(cfg AIConfig, client ChatClient, history HistoryRepository, logs WeatherLogRepository, counter tokens.Counter, clock clockwork.Clock, logger *slog.Logger) *AIProvider {
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = 20
	}
	if counter == nil {
		counter = tokens.WordEstimate{}
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &AIProvider{
		cfg:     cfg,
		client:  client,
		history: history,
		logs:    logs,
		counter: counter,
		clock:   clock,
		logger:  logger.With("component", "recommendation.ai"),
	}
}

func (p *AIProvider) Fetch(ctx context.Context, req Request) (Bundle, error) {
	recent := p.recentHistory(ctx, req.UserID)

	completion, err := p.client.CreateChatCompletion(ctx, chatgpt.ChatCompletionRequest{
		Model: p.cfg.Model,
		Messages: []chatgpt.Message{
			{Role: "system", Content: "You are an expert recommendation system. Always return valid JSON only, no additional text."},
			{Role: "user", Content: p.buildPrompt(req, recent)},
		},
		Temperature:    p.cfg.Temperature,
		MaxTokens:      p.cfg.MaxTokens,
		ResponseFormat: chatgpt.JSONObject,
	})
	if err != nil {
		return Bundle{}, apperrors.Wrap("llm_error", "chatgpt request failed", err)
	}
	content, ok := completion.FirstContent()
	if !ok {
		return Bundle{}, apperrors.Wrap("llm_error", "chatgpt returned no choices", nil)
	}

	bundle, err := parseAIBundle(content)
	if err != nil {
		return Bundle{}, apperrors.Wrap("llm_error", "chatgpt response malformed", err)
	}
	bundle.Mood = req.Mood
	bundle.Source = SourceAI

	p.persist(ctx, req, &bundle)
	p.logger.Info("ai recommendations generated",
		"user_id", req.UserID,
		"mood", req.Mood,
		"foods", len(bundle.Foods),
		"music", len(bundle.Music),
		"stays", len(bundle.Stays),
		"total_tokens", completion.Usage.TotalTokens,
	)
	return bundle, nil
}

func (p *AIProvider) recentHistory(ctx context.Context, userID string) []string {
	if p.history == nil || userID == "" {
		return nil
	}
	entries, err := p.history.ListHistory(ctx, userID, p.cfg.HistoryLimit)
	if err != nil {
		p.logger.Warn("load recommendation history failed", "user_id", userID, "error", err)
		return nil
	}
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, describeHistory(e))
	}
	return tokens.FitBudget(p.counter, lines, p.cfg.HistoryTokenBudget)
}

func describeHistory(e HistoryEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "- %s %s for a %s mood in %s weather at %s", e.Type, itemLabel(e.Data), e.Mood, e.WeatherCondition, e.Location)
	if e.UserFeedback != nil {
		fmt.Fprintf(&b, " (rated %d/5)", *e.UserFeedback)
	}
	if e.WasHelpful != nil {
		if *e.WasHelpful {
			b.WriteString(" (helpful)")
		} else {
			b.WriteString(" (not helpful)")
		}
	}
	return b.String()
}

func itemLabel(raw json.RawMessage) string {
	var probe struct {
		Name  string `json:"name"`
		Title string `json:"title"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return "item"
	}
	if probe.Title != "" {
		return fmt.Sprintf("%q", probe.Title)
	}
	if probe.Name != "" {
		return fmt.Sprintf("%q", probe.Name)
	}
	return "item"
}

func (p *AIProvider) buildPrompt(req Request, history []string) string {
	w := req.Weather
	historyBlock := "none"
	if len(history) > 0 {
		historyBlock = strings.Join(history, "\n")
	}
	return fmt.Sprintf(`You recommend food, music, and stays based on weather and mood.

Current context:
- Location: %s
- Weather: %s, %.0f°C
- Description: %s
- User mood: %s

Recent history:
%s

Based on the weather, mood, location (Indian context), and the user's history, generate personalised recommendations.
Focus on Indian cuisine, Telugu/Indian music, and Indian hospitality options.

Return ONLY a JSON object with this structure:
{
  "foods": [{"name": "", "description": "", "type": "Comfort/Healthy/Savory/Dessert", "image": "emoji", "aiReasoning": "why it fits"}],
  "music": [{"title": "", "artist": "", "genre": "", "spotify_url": "", "aiReasoning": "why it fits"}],
  "stays": [{"name": "", "description": "", "type": "Resort/Hotel/Homestay/Heritage", "image": "emoji", "aiReasoning": "why it fits"}],
  "insights": "brief explanation of the recommendation strategy"
}`, w.Location, w.Condition, w.Temperature, w.Description, req.Mood, historyBlock)
}

type aiFood struct {
	Food
	AIReasoning string `json:"aiReasoning"`
}

type aiMusic struct {
	Music
	AIReasoning string `json:"aiReasoning"`
}

type aiStay struct {
	Stay
	AIReasoning string `json:"aiReasoning"`
}

type aiBundleWire struct {
	Foods    []aiFood  `json:"foods"`
	Music    []aiMusic `json:"music"`
	Stays    []aiStay  `json:"stays"`
	Insights string    `json:"insights"`
}

func parseAIBundle(raw string) (Bundle, error) {
	sanitized := strings.TrimSpace(raw)
	sanitized = strings.TrimPrefix(sanitized, "```json")
	sanitized = strings.TrimSuffix(sanitized, "```")
	sanitized = strings.Trim(sanitized, "`")
	sanitized = strings.TrimSpace(strings.TrimPrefix(sanitized, "json"))

	var wire aiBundleWire
	if err := json.Unmarshal([]byte(sanitized), &wire); err != nil {
		return Bundle{}, err
	}
	if len(wire.Foods)+len(wire.Music)+len(wire.Stays) == 0 {
		return Bundle{}, fmt.Errorf("no recommendations in response")
	}

	bundle := Bundle{
		Foods:    make([]Food, 0, len(wire.Foods)),
		Music:    make([]Music, 0, len(wire.Music)),
		Stays:    make([]Stay, 0, len(wire.Stays)),
		Insights: strings.TrimSpace(wire.Insights),
	}
	for _, f := range wire.Foods {
		bundle.Foods = append(bundle.Foods, f.Food.withWhy(f.AIReasoning))
	}
	for _, m := range wire.Music {
		bundle.Music = append(bundle.Music, m.Music.withWhy(m.AIReasoning))
	}
	for _, s := range wire.Stays {
		bundle.Stays = append(bundle.Stays, s.Stay.withWhy(s.AIReasoning))
	}
	return bundle, nil
}

func (f Food) withWhy(reason string) Food {
	if f.Why == "" {
		f.Why = strings.TrimSpace(reason)
	}
	return f
}

func (m Music) withWhy(reason string) Music {
	if m.Why == "" {
		m.Why = strings.TrimSpace(reason)
	}
	return m
}

func (s Stay) withWhy(reason string) Stay {
	if s.Why == "" {
		s.Why = strings.TrimSpace(reason)
	}
	return s
}

// persist records every suggested item and the weather context. Item ids are
// replaced by the history ids so feedback can reference them. Storage
// failures are logged; the bundle is still served.
func (p *AIProvider) persist(ctx context.Context, req Request, bundle *Bundle) {
	if req.UserID == "" {
		return
	}
	now := p.clock.Now()
	entries := make([]HistoryEntry, 0, len(bundle.Foods)+len(bundle.Music)+len(bundle.Stays))
	record := func(kind ItemType, assign func(id string) any) {
		id := uuid.NewString()
		data, err := json.Marshal(assign(id))
		if err != nil {
			p.logger.Warn("encode history item failed", "type", kind, "error", err)
			return
		}
		entries = append(entries, HistoryEntry{
			ID:               id,
			UserID:           req.UserID,
			Location:         req.Weather.Location,
			WeatherCondition: req.Weather.Condition,
			Mood:             req.Mood,
			Type:             kind,
			Data:             data,
			CreatedAt:        now,
		})
	}
	for i := range bundle.Foods {
		record(ItemFood, func(id string) any { bundle.Foods[i].ID = id; return bundle.Foods[i] })
	}
	for i := range bundle.Music {
		record(ItemMusic, func(id string) any { bundle.Music[i].ID = id; return bundle.Music[i] })
	}
	for i := range bundle.Stays {
		record(ItemStay, func(id string) any { bundle.Stays[i].ID = id; return bundle.Stays[i] })
	}

	if p.history != nil {
		if err := p.history.AddHistory(ctx, entries); err != nil {
			p.logger.Warn("store recommendation history failed", "user_id", req.UserID, "error", err)
		}
	}
	if p.logs != nil {
		err := p.logs.AddWeatherLog(ctx, WeatherLogEntry{
			ID:               uuid.NewString(),
			UserID:           req.UserID,
			Location:         req.Weather.Location,
			WeatherCondition: req.Weather.Condition,
			Temperature:      req.Weather.Temperature,
			MoodSelected:     req.Mood,
			RecordedAt:       now,
		})
		if err != nil {
			p.logger.Warn("store weather log failed", "user_id", req.UserID, "error", err)
		}
	}
}

var _ Provider = (*AIProvider)(nil)
