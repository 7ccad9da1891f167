package improvementrepo

import (
	"context"
	"sync"

	"github.com/yanqian/moodmate/internal/domain/improvement"
)

// MemoryRepository keeps improvement suggestions in process memory.
type MemoryRepository struct {
	mu    sync.RWMutex
	items []improvement.Improvement
}

// NewMemoryRepository constructs an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// Add appends items in order.
func (r *MemoryRepository) Add(_ context.Context, items []improvement.Improvement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, items...)
	return nil
}

// Latest returns the newest records first.
func (r *MemoryRepository) Latest(_ context.Context, limit int) ([]improvement.Improvement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]improvement.Improvement, 0, min(limit, len(r.items)))
	for i := len(r.items) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.items[i])
	}
	return out, nil
}

var _ improvement.Repository = (*MemoryRepository)(nil)
