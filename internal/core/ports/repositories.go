package ports

import (
	"context"

	"github.com/tessyjonburica/Droppio/internal/core/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id domain.UserID) (*domain.User, error)
	FindByWallet(ctx context.Context, walletAddress string) (*domain.User, error)
}

type StreamRepository interface {
	Create(ctx context.Context, stream *domain.Stream) error
	GetByID(ctx context.Context, id domain.StreamID) (*domain.Stream, error)
	Update(ctx context.Context, stream *domain.Stream) error
	FindActiveByStreamer(ctx context.Context, streamerID domain.UserID) (*domain.Stream, error)
}

type TipRepository interface {
	Create(ctx context.Context, tip *domain.Tip) error
	GetByID(ctx context.Context, id domain.TipID) (*domain.Tip, error)
}

type OverlayRepository interface {
	Upsert(ctx context.Context, overlay *domain.Overlay) error
	FindByStreamer(ctx context.Context, streamerID domain.UserID) (*domain.Overlay, error)
}
