package improvement

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/yanqian/moodmate/internal/domain/mood"
	"github.com/yanqian/moodmate/internal/domain/recommendation"
	"github.com/yanqian/moodmate/internal/infra/llm/chatgpt"
	apperrors "github.com/yanqian/moodmate/pkg/errors"
)

type stubChat struct {
	prompt  string
	content string
	err     error
}

func (s *stubChat) CreateChatCompletion(_ context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error) {
	var resp chatgpt.ChatCompletionResponse
	if len(req.Messages) > 1 {
		s.prompt = req.Messages[1].Content
	}
	if s.err != nil {
		return resp, s.err
	}
	resp.Choices = append(resp.Choices, struct {
		Message chatgpt.Message `json:"message"`
	}{Message: chatgpt.Message{Role: "assistant", Content: s.content}})
	return resp, nil
}

type stubData struct {
	history     []recommendation.HistoryEntry
	logs        []recommendation.WeatherLogEntry
	historyLim  int
	weatherLim  int
	historyUser string
}

func (s *stubData) AddHistory(context.Context, []recommendation.HistoryEntry) error { return nil }

func (s *stubData) ListHistory(_ context.Context, userID string, limit int) ([]recommendation.HistoryEntry, error) {
	s.historyUser = userID
	s.historyLim = limit
	return s.history, nil
}

func (s *stubData) GetHistory(context.Context, string) (recommendation.HistoryEntry, bool, error) {
	return recommendation.HistoryEntry{}, false, nil
}

func (s *stubData) UpdateFeedback(context.Context, string, int, *bool) (recommendation.HistoryEntry, error) {
	return recommendation.HistoryEntry{}, errors.New("unused")
}

func (s *stubData) AddWeatherLog(context.Context, recommendation.WeatherLogEntry) error { return nil }

func (s *stubData) ListWeatherLogs(_ context.Context, _ string, limit int) ([]recommendation.WeatherLogEntry, error) {
	s.weatherLim = limit
	return s.logs, nil
}

type stubRepo struct {
	mu    sync.Mutex
	items []Improvement
}

func (r *stubRepo) Add(_ context.Context, items []Improvement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, items...)
	return nil
}

func (r *stubRepo) Latest(_ context.Context, limit int) ([]Improvement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if limit > len(r.items) {
		limit = len(r.items)
	}
	return r.items[:limit], nil
}

const analysisReply = `{
	"foodSuggestions": [{"suggestion": "Add Mirchi Bajji", "reasoning": "Popular in rain", "targetMood": "sad", "targetWeather": "rain"}],
	"musicSuggestions": [],
	"staySuggestions": [{"suggestion": "  ", "reasoning": "blank is skipped"}],
	"generalImprovements": [{"suggestion": "Weight recent feedback", "reasoning": "Ratings drift", "priority": "HIGH"}]
}`

func newTestService(chat recommendation.ChatClient, data *stubData, repo Repository, clock clockwork.Clock) Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(Config{Model: "gpt-4o-mini", Temperature: 0.3, MaxTokens: 1500}, chat, data, data, repo, nil, clock, logger)
}

func TestAnalyzeStoresSuggestions(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC))
	data := &stubData{}
	repo := &stubRepo{}
	svc := newTestService(&stubChat{content: analysisReply}, data, repo, clock)

	items, err := svc.Analyze(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)

	require.Equal(t, TypeFood, items[0].ImprovementType)
	require.Equal(t, "Add Mirchi Bajji", items[0].Suggestion)
	require.Equal(t, Analysis{Reasoning: "Popular in rain", TargetMood: "sad", TargetWeather: "rain"}, items[0].DataAnalysis)
	require.Equal(t, StatusPending, items[0].Status)
	require.Equal(t, clock.Now(), items[0].CreatedAt)

	require.Equal(t, TypeGeneral, items[1].ImprovementType)
	require.Equal(t, "high", items[1].DataAnalysis.Priority)
	require.Empty(t, items[1].DataAnalysis.TargetMood)

	require.Equal(t, items, repo.items)
	require.Equal(t, 100, data.historyLim)
	require.Equal(t, 50, data.weatherLim)
	require.Empty(t, data.historyUser)
}

func TestAnalyzeSamplesAtMostTwentyEntries(t *testing.T) {
	data := &stubData{}
	for i := 0; i < 30; i++ {
		data.history = append(data.history, recommendation.HistoryEntry{
			ID:   fmt.Sprint(i),
			Mood: mood.Happy,
			Type: recommendation.ItemFood,
			Data: []byte(fmt.Sprintf(`{"name":"dish-%02d"}`, i)),
		})
	}
	chat := &stubChat{content: analysisReply}
	svc := newTestService(chat, data, &stubRepo{}, clockwork.NewFakeClock())

	_, err := svc.Analyze(context.Background())
	require.NoError(t, err)
	require.Contains(t, chat.prompt, "dish-19")
	require.NotContains(t, chat.prompt, "dish-20")
	require.Equal(t, 20, strings.Count(chat.prompt, `"type":"food"`))
}

func TestAnalyzeWithoutClient(t *testing.T) {
	svc := newTestService(nil, &stubData{}, &stubRepo{}, clockwork.NewFakeClock())
	_, err := svc.Analyze(context.Background())
	require.True(t, apperrors.IsCode(err, "ai_disabled"))
}

func TestAnalyzeLLMFailures(t *testing.T) {
	for name, chat := range map[string]*stubChat{
		"transport": {err: errors.New("boom")},
		"malformed": {content: "nope"},
	} {
		t.Run(name, func(t *testing.T) {
			repo := &stubRepo{}
			svc := newTestService(chat, &stubData{}, repo, clockwork.NewFakeClock())
			_, err := svc.Analyze(context.Background())
			require.True(t, apperrors.IsCode(err, "llm_error"))
			require.Empty(t, repo.items)
		})
	}
}

func TestLatestDefaultsToTen(t *testing.T) {
	repo := &stubRepo{}
	for i := 0; i < 12; i++ {
		repo.items = append(repo.items, Improvement{ID: fmt.Sprint(i)})
	}
	svc := newTestService(nil, &stubData{}, repo, clockwork.NewFakeClock())
	items, err := svc.Latest(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, items, 10)
}
