package recommendation

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"

	"github.com/yanqian/moodmate/internal/infra/llm/chatgpt"
)

func jsonUnmarshal(raw string, v any) error {
	return json.Unmarshal([]byte(raw), v)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubChat struct {
	mu       sync.Mutex
	calls    int
	requests []chatgpt.ChatCompletionRequest
	content  string
	err      error
	noChoice bool
}

func (s *stubChat) CreateChatCompletion(_ context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.requests = append(s.requests, req)
	var resp chatgpt.ChatCompletionResponse
	if s.err != nil {
		return resp, s.err
	}
	if s.noChoice {
		return resp, nil
	}
	resp.Choices = append(resp.Choices, struct {
		Message chatgpt.Message `json:"message"`
	}{Message: chatgpt.Message{Role: "assistant", Content: s.content}})
	return resp, nil
}

type stubHistory struct {
	mu      sync.Mutex
	entries []HistoryEntry
	logs    []WeatherLogEntry
	listErr error
}

func (s *stubHistory) AddHistory(_ context.Context, entries []HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entries...)
	return nil
}

func (s *stubHistory) ListHistory(_ context.Context, userID string, limit int) ([]HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := []HistoryEntry{}
	for i := len(s.entries) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		if userID == "" || s.entries[i].UserID == userID {
			out = append(out, s.entries[i])
		}
	}
	return out, nil
}

func (s *stubHistory) GetHistory(_ context.Context, id string) (HistoryEntry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if e.ID == id {
			return e, true, nil
		}
	}
	return HistoryEntry{}, false, nil
}

func (s *stubHistory) UpdateFeedback(_ context.Context, id string, rating int, helpful *bool) (HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.entries {
		if e.ID == id {
			e.UserFeedback = &rating
			e.WasHelpful = helpful
			s.entries[i] = e
			return e, nil
		}
	}
	return HistoryEntry{}, io.EOF
}

func (s *stubHistory) AddWeatherLog(_ context.Context, entry WeatherLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, entry)
	return nil
}

func (s *stubHistory) ListWeatherLogs(_ context.Context, _ string, _ int) ([]WeatherLogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]WeatherLogEntry(nil), s.logs...), nil
}

type stubProvider struct {
	calls  int
	bundle Bundle
	err    error
}

func (p *stubProvider) Fetch(_ context.Context, req Request) (Bundle, error) {
	p.calls++
	if p.err != nil {
		return Bundle{}, p.err
	}
	b := p.bundle
	b.Mood = req.Mood
	return b, nil
}
