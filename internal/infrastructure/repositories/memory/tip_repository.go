package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/tessyjonburica/Droppio/internal/core/domain"
	"github.com/tessyjonburica/Droppio/internal/core/ports"
)

type MemoryTipRepository struct {
	tips map[domain.TipID]*domain.Tip
	mu   sync.RWMutex
}

func NewMemoryTipRepository() ports.TipRepository {
	return &MemoryTipRepository{
		tips: make(map[domain.TipID]*domain.Tip),
	}
}

func (r *MemoryTipRepository) Create(ctx context.Context, tip *domain.Tip) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tips[tip.ID]; exists {
		return fmt.Errorf("tip already exists: %s", tip.ID)
	}

	r.tips[tip.ID] = tip
	return nil
}

func (r *MemoryTipRepository) GetByID(ctx context.Context, id domain.TipID) (*domain.Tip, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tip, exists := r.tips[id]
	if !exists {
		return nil, domain.ErrTipNotFound
	}
	return tip, nil
}
