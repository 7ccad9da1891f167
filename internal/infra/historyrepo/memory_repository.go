package historyrepo

import (
	"context"
	"errors"
	"sync"

	"github.com/yanqian/moodmate/internal/domain/recommendation"
)

// MemoryRepository keeps recommendation history and weather logs in process memory.
type MemoryRepository struct {
	mu      sync.RWMutex
	entries []recommendation.HistoryEntry
	index   map[string]int
	logs    []recommendation.WeatherLogEntry
}

// NewMemoryRepository constructs an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{index: make(map[string]int)}
}

// AddHistory appends entries in order. Either all entries are stored or none.
func (r *MemoryRepository) AddHistory(_ context.Context, entries []recommendation.HistoryEntry) error {
	for _, e := range entries {
		if e.ID == "" {
			return errors.New("history entry id is required")
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range entries {
		r.index[e.ID] = len(r.entries)
		r.entries = append(r.entries, e)
	}
	return nil
}

// ListHistory returns newest entries first.
func (r *MemoryRepository) ListHistory(_ context.Context, userID string, limit int) ([]recommendation.HistoryEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]recommendation.HistoryEntry, 0)
	for i := len(r.entries) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		e := r.entries[i]
		if userID != "" && e.UserID != userID {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// GetHistory fetches one entry by id.
func (r *MemoryRepository) GetHistory(_ context.Context, id string) (recommendation.HistoryEntry, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	pos, ok := r.index[id]
	if !ok {
		return recommendation.HistoryEntry{}, false, nil
	}
	return r.entries[pos], true, nil
}

// UpdateFeedback stores a rating and optional helpful flag.
func (r *MemoryRepository) UpdateFeedback(_ context.Context, id string, rating int, helpful *bool) (recommendation.HistoryEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pos, ok := r.index[id]
	if !ok {
		return recommendation.HistoryEntry{}, errors.New("history entry not found")
	}
	e := r.entries[pos]
	e.UserFeedback = &rating
	if helpful != nil {
		h := *helpful
		e.WasHelpful = &h
	}
	r.entries[pos] = e
	return e, nil
}

// AddWeatherLog appends a weather log entry.
func (r *MemoryRepository) AddWeatherLog(_ context.Context, entry recommendation.WeatherLogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, entry)
	return nil
}

// ListWeatherLogs returns newest entries first.
func (r *MemoryRepository) ListWeatherLogs(_ context.Context, userID string, limit int) ([]recommendation.WeatherLogEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]recommendation.WeatherLogEntry, 0)
	for i := len(r.logs) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		if userID != "" && r.logs[i].UserID != userID {
			continue
		}
		out = append(out, r.logs[i])
	}
	return out, nil
}

var (
	_ recommendation.HistoryRepository    = (*MemoryRepository)(nil)
	_ recommendation.WeatherLogRepository = (*MemoryRepository)(nil)
)
