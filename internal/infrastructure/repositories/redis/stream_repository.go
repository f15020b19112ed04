package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/tessyjonburica/Droppio/internal/core/domain"
	"github.com/tessyjonburica/Droppio/internal/core/ports"
)

type RedisStreamRepository struct {
	client *redis.Client
}

func NewRedisStreamRepository(client *redis.Client) ports.StreamRepository {
	return &RedisStreamRepository{client: client}
}

func (r *RedisStreamRepository) streamKey(id domain.StreamID) string {
	return "droppio:stream:" + string(id)
}

// activeKey is the secondary index mapping a streamer id to their
// currently live stream id. At most one stream per streamer is live.
func (r *RedisStreamRepository) activeKey(streamerID domain.UserID) string {
	return "droppio:streamer:" + string(streamerID) + ":active"
}

func (r *RedisStreamRepository) Create(ctx context.Context, stream *domain.Stream) error {
	if err := r.write(ctx, stream); err != nil {
		return err
	}
	if stream.IsLive {
		if err := r.client.Set(ctx, r.activeKey(stream.StreamerID), string(stream.ID), 0).Err(); err != nil {
			return fmt.Errorf("failed to index active stream: %w", err)
		}
	}
	return nil
}

func (r *RedisStreamRepository) GetByID(ctx context.Context, id domain.StreamID) (*domain.Stream, error) {
	data, err := r.client.Get(ctx, r.streamKey(id)).Result()
	if err == redis.Nil {
		return nil, domain.ErrStreamNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get stream from Redis: %w", err)
	}

	var stream domain.Stream
	if err := json.Unmarshal([]byte(data), &stream); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stream: %w", err)
	}
	return &stream, nil
}

func (r *RedisStreamRepository) Update(ctx context.Context, stream *domain.Stream) error {
	if err := r.write(ctx, stream); err != nil {
		return err
	}
	if stream.IsLive {
		if err := r.client.Set(ctx, r.activeKey(stream.StreamerID), string(stream.ID), 0).Err(); err != nil {
			return fmt.Errorf("failed to index active stream: %w", err)
		}
		return nil
	}
	if err := r.client.Del(ctx, r.activeKey(stream.StreamerID)).Err(); err != nil {
		return fmt.Errorf("failed to clear active stream index: %w", err)
	}
	return nil
}

func (r *RedisStreamRepository) FindActiveByStreamer(ctx context.Context, streamerID domain.UserID) (*domain.Stream, error) {
	id, err := r.client.Get(ctx, r.activeKey(streamerID)).Result()
	if err == redis.Nil {
		return nil, domain.ErrStreamNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve active stream from Redis: %w", err)
	}
	return r.GetByID(ctx, domain.StreamID(id))
}

func (r *RedisStreamRepository) write(ctx context.Context, stream *domain.Stream) error {
	data, err := json.Marshal(stream)
	if err != nil {
		return fmt.Errorf("failed to marshal stream: %w", err)
	}
	if err := r.client.Set(ctx, r.streamKey(stream.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set stream in Redis: %w", err)
	}
	return nil
}
