package memory

import (
	"context"
	"sync"

	"github.com/tessyjonburica/Droppio/internal/core/domain"
	"github.com/tessyjonburica/Droppio/internal/core/ports"
)

type MemoryOverlayRepository struct {
	overlays map[domain.UserID]*domain.Overlay
	mu       sync.RWMutex
}

func NewMemoryOverlayRepository() ports.OverlayRepository {
	return &MemoryOverlayRepository{
		overlays: make(map[domain.UserID]*domain.Overlay),
	}
}

func (r *MemoryOverlayRepository) Upsert(ctx context.Context, overlay *domain.Overlay) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.overlays[overlay.StreamerID] = overlay
	return nil
}

func (r *MemoryOverlayRepository) FindByStreamer(ctx context.Context, streamerID domain.UserID) (*domain.Overlay, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	overlay, exists := r.overlays[streamerID]
	if !exists {
		return nil, domain.ErrOverlayNotFound
	}
	return overlay, nil
}
