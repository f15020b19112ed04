package services

import (
	"context"
	"fmt"
	"time"

	"github.com/tessyjonburica/Droppio/internal/core/domain"
	"github.com/tessyjonburica/Droppio/internal/core/ports"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StreamService owns live-state transitions and the viewer-channel
// broadcasts they produce.
type StreamService struct {
	streams  ports.StreamRepository
	users    ports.UserRepository
	notifier ports.Notifier
	logger   *zap.SugaredLogger
}

func NewStreamService(
	streams ports.StreamRepository,
	users ports.UserRepository,
	notifier ports.Notifier,
	logger *zap.SugaredLogger,
) *StreamService {
	return &StreamService{
		streams:  streams,
		users:    users,
		notifier: notifier,
		logger:   logger,
	}
}

// StartStream creates a live stream for the creator and announces it to
// any viewer connections already subscribed to the stream key.
func (s *StreamService) StartStream(ctx context.Context, streamerID domain.UserID, title, platform string) (*domain.Stream, error) {
	streamer, err := s.users.GetByID(ctx, streamerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load streamer: %w", err)
	}
	if streamer.Role != domain.RoleCreator {
		return nil, fmt.Errorf("user %s is not a creator", streamerID)
	}

	if existing, err := s.streams.FindActiveByStreamer(ctx, streamerID); err == nil && existing != nil {
		return nil, fmt.Errorf("streamer %s already has a live stream %s", streamerID, existing.ID)
	}

	stream := &domain.Stream{
		ID:         domain.StreamID(uuid.NewString()),
		StreamerID: streamerID,
		Title:      title,
		Platform:   platform,
		IsLive:     true,
		StartedAt:  time.Now(),
	}
	if err := s.streams.Create(ctx, stream); err != nil {
		return nil, fmt.Errorf("failed to create stream: %w", err)
	}

	s.logger.Infow("stream started", "stream_id", stream.ID, "streamer_id", streamerID)
	s.notifier.BroadcastStreamStarted(stream, streamer)
	return stream, nil
}

// EndStream flips the live flag and tells connected viewers the stream is
// over.
func (s *StreamService) EndStream(ctx context.Context, streamID domain.StreamID) error {
	stream, err := s.streams.GetByID(ctx, streamID)
	if err != nil {
		return err
	}
	if !stream.IsLive {
		return domain.ErrStreamNotLive
	}

	now := time.Now()
	stream.IsLive = false
	stream.EndedAt = &now
	if err := s.streams.Update(ctx, stream); err != nil {
		return fmt.Errorf("failed to end stream: %w", err)
	}

	s.logger.Infow("stream ended", "stream_id", streamID)
	s.notifier.BroadcastStreamEnded(streamID)
	return nil
}
