package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/tessyjonburica/Droppio/internal/core/domain"
	"github.com/tessyjonburica/Droppio/internal/core/ports"
)

type RedisOverlayRepository struct {
	client *redis.Client
}

func NewRedisOverlayRepository(client *redis.Client) ports.OverlayRepository {
	return &RedisOverlayRepository{client: client}
}

func (r *RedisOverlayRepository) overlayKey(streamerID domain.UserID) string {
	return "droppio:overlay:" + string(streamerID)
}

func (r *RedisOverlayRepository) Upsert(ctx context.Context, overlay *domain.Overlay) error {
	data, err := json.Marshal(overlay)
	if err != nil {
		return fmt.Errorf("failed to marshal overlay: %w", err)
	}
	if err := r.client.Set(ctx, r.overlayKey(overlay.StreamerID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set overlay in Redis: %w", err)
	}
	return nil
}

func (r *RedisOverlayRepository) FindByStreamer(ctx context.Context, streamerID domain.UserID) (*domain.Overlay, error) {
	data, err := r.client.Get(ctx, r.overlayKey(streamerID)).Result()
	if err == redis.Nil {
		return nil, domain.ErrOverlayNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get overlay from Redis: %w", err)
	}

	var overlay domain.Overlay
	if err := json.Unmarshal([]byte(data), &overlay); err != nil {
		return nil, fmt.Errorf("failed to unmarshal overlay: %w", err)
	}
	return &overlay, nil
}
