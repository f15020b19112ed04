package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tessyjonburica/Droppio/internal/core/domain"
	"github.com/tessyjonburica/Droppio/internal/core/ports"
	"github.com/tessyjonburica/Droppio/pkg/tracing"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// TipService resolves decoded TipSent events to application identities,
// persists the tip record and triggers channel fan-out. Notification
// delivery is best-effort: the on-chain payment is the source of truth
// and a dropped notification is never retried.
type TipService struct {
	users    ports.UserRepository
	streams  ports.StreamRepository
	tips     ports.TipRepository
	notifier ports.Notifier
	logger   *zap.SugaredLogger
}

func NewTipService(
	users ports.UserRepository,
	streams ports.StreamRepository,
	tips ports.TipRepository,
	notifier ports.Notifier,
	logger *zap.SugaredLogger,
) *TipService {
	return &TipService{
		users:    users,
		streams:  streams,
		tips:     tips,
		notifier: notifier,
		logger:   logger,
	}
}

// ProcessTipEvent runs the resolution pipeline for one decoded chain
// event. An event whose recipient is not a registered creator is not an
// error; it is simply not actionable and is discarded.
func (s *TipService) ProcessTipEvent(ctx context.Context, event *domain.TipSentEvent) error {
	ctx, span := tracing.StartSpan(ctx, "tip.process")
	defer span.End()
	span.SetAttributes(
		attribute.String("tx_hash", event.TxHash),
		attribute.String("recipient", event.To),
	)

	creator, err := s.users.FindByWallet(ctx, event.To)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.logger.Warnw("creator not found for wallet, discarding event",
				"wallet", event.To,
				"tx_hash", event.TxHash,
			)
			return nil
		}
		tracing.RecordError(ctx, err)
		return fmt.Errorf("failed to resolve creator: %w", err)
	}

	viewer, err := s.findOrCreateViewer(ctx, event.From)
	if err != nil {
		tracing.RecordError(ctx, err)
		return fmt.Errorf("failed to resolve viewer: %w", err)
	}

	var streamID domain.StreamID
	mode := domain.TipModeOffline
	if stream, err := s.streams.FindActiveByStreamer(ctx, creator.ID); err == nil && stream != nil {
		streamID = stream.ID
		mode = domain.TipModeLive
	} else if err != nil && !errors.Is(err, domain.ErrStreamNotFound) {
		s.logger.Warnw("active stream lookup failed, treating tip as offline",
			"creator_id", creator.ID,
			"error", err,
		)
	}

	tip := &domain.Tip{
		ID:        domain.TipID(uuid.NewString()),
		CreatorID: creator.ID,
		ViewerID:  viewer.ID,
		StreamID:  streamID,
		Amount:    domain.FormatEther(event.Amount),
		TxHash:    event.TxHash,
		Mode:      mode,
		CreatedAt: time.Now(),
	}

	if err := s.tips.Create(ctx, tip); err != nil {
		tracing.RecordError(ctx, err)
		return fmt.Errorf("failed to persist tip %s: %w", event.TxHash, err)
	}

	s.logger.Infow("tip persisted",
		"tip_id", tip.ID,
		"creator_id", creator.ID,
		"viewer_id", viewer.ID,
		"amount_eth", tip.Amount,
		"mode", mode,
	)

	// Dashboard always hears about the tip; overlay alerts are a
	// live-stream-only feature.
	s.notifier.NotifyTipReceived(creator.ID, tip, viewer)
	if mode == domain.TipModeLive {
		s.notifier.NotifyOverlayTip(creator.ID, tip, viewer)
	}

	return nil
}

func (s *TipService) findOrCreateViewer(ctx context.Context, wallet string) (*domain.User, error) {
	viewer, err := s.users.FindByWallet(ctx, wallet)
	if err == nil {
		return viewer, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	viewer = &domain.User{
		ID:            domain.UserID(uuid.NewString()),
		WalletAddress: wallet,
		Role:          domain.RoleViewer,
		CreatedAt:     time.Now(),
	}
	if err := s.users.Create(ctx, viewer); err != nil {
		return nil, err
	}

	s.logger.Infow("created viewer identity for unknown wallet", "wallet", wallet, "viewer_id", viewer.ID)
	return viewer, nil
}
