package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/tessyjonburica/Droppio/internal/core/domain"
	"github.com/tessyjonburica/Droppio/internal/core/ports"
)

type RedisTipRepository struct {
	client *redis.Client
}

func NewRedisTipRepository(client *redis.Client) ports.TipRepository {
	return &RedisTipRepository{client: client}
}

func (r *RedisTipRepository) tipKey(id domain.TipID) string {
	return "droppio:tip:" + string(id)
}

// creatorTipsKey keeps a per-creator list of tip ids in arrival order.
func (r *RedisTipRepository) creatorTipsKey(creatorID domain.UserID) string {
	return "droppio:creator:" + string(creatorID) + ":tips"
}

func (r *RedisTipRepository) Create(ctx context.Context, tip *domain.Tip) error {
	data, err := json.Marshal(tip)
	if err != nil {
		return fmt.Errorf("failed to marshal tip: %w", err)
	}

	if err := r.client.Set(ctx, r.tipKey(tip.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set tip in Redis: %w", err)
	}
	if err := r.client.RPush(ctx, r.creatorTipsKey(tip.CreatorID), string(tip.ID)).Err(); err != nil {
		return fmt.Errorf("failed to append tip to creator list: %w", err)
	}
	return nil
}

func (r *RedisTipRepository) GetByID(ctx context.Context, id domain.TipID) (*domain.Tip, error) {
	data, err := r.client.Get(ctx, r.tipKey(id)).Result()
	if err == redis.Nil {
		return nil, domain.ErrTipNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tip from Redis: %w", err)
	}

	var tip domain.Tip
	if err := json.Unmarshal([]byte(data), &tip); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tip: %w", err)
	}
	return &tip, nil
}
