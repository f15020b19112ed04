package ports

import (
	"context"

	"github.com/tessyjonburica/Droppio/internal/core/domain"
)

// Notifier fans a domain event out to the live connections subscribed to
// the relevant channel. Every method is best-effort: no subscribers is a
// silent no-op and a failed send to one connection never surfaces to the
// caller.
type Notifier interface {
	NotifyTipReceived(streamerID domain.UserID, tip *domain.Tip, viewer *domain.User)
	NotifyOverlayTip(streamerID domain.UserID, tip *domain.Tip, viewer *domain.User)
	NotifyViewerJoined(streamerID domain.UserID, viewerID string, viewerCount int)
	NotifyViewerLeft(streamerID domain.UserID, viewerID string, viewerCount int)
	BroadcastStreamStarted(stream *domain.Stream, streamer *domain.User)
	BroadcastStreamEnded(streamID domain.StreamID)
}

// TipProcessor resolves a decoded chain event to application identities,
// persists the tip and triggers fan-out. The chain listener is its only
// caller.
type TipProcessor interface {
	ProcessTipEvent(ctx context.Context, event *domain.TipSentEvent) error
}
