package ws

import (
	"go.uber.org/zap"

	"github.com/tessyjonburica/Droppio/internal/core/domain"
	"github.com/tessyjonburica/Droppio/internal/core/ports"
	"github.com/tessyjonburica/Droppio/internal/infrastructure/monitoring"
)

var _ ports.Notifier = (*Fanout)(nil)

// Fanout delivers events to the subscribers of a channel. A failed
// write on one connection never blocks or drops delivery to the rest;
// the heartbeat sweep is responsible for evicting dead connections.
type Fanout struct {
	registry *Registry
	logger   *zap.SugaredLogger
	metrics  *monitoring.Collector
}

func NewFanout(registry *Registry, logger *zap.SugaredLogger, metrics *monitoring.Collector) *Fanout {
	return &Fanout{
		registry: registry,
		logger:   logger,
		metrics:  metrics,
	}
}

// Notify sends one event to every subscriber of (channel, key). It
// returns the number of connections the event was written to.
func (f *Fanout) Notify(channel ChannelType, key string, event Event) int {
	subs := f.registry.Lookup(channel, key)
	if len(subs) == 0 {
		return 0
	}

	delivered := 0
	for _, sub := range subs {
		if err := sub.Conn().WriteJSON(event); err != nil {
			f.logger.Warnw("fan-out write failed",
				"channel", channel,
				"key", key,
				"event", event.Type,
				"error", err)
			f.metrics.RecordFanoutFailed(string(channel))
			continue
		}
		delivered++
		f.metrics.RecordFanoutDelivered(string(channel))
	}
	return delivered
}

func (f *Fanout) NotifyTipReceived(streamerID domain.UserID, tip *domain.Tip, viewer *domain.User) {
	f.Notify(ChannelStreamer, string(streamerID), Event{
		Type: EventTipReceived,
		Data: TipReceivedData{
			TipID:  string(tip.ID),
			Amount: tip.Amount,
			Viewer: TipViewer{
				ID:            string(viewer.ID),
				WalletAddress: viewer.WalletAddress,
				DisplayName:   viewer.DisplayName,
			},
			Timestamp: eventTimestamp(),
		},
	})
}

func (f *Fanout) NotifyOverlayTip(streamerID domain.UserID, tip *domain.Tip, viewer *domain.User) {
	f.Notify(ChannelOverlay, string(streamerID), Event{
		Type: EventTipAlert,
		Data: TipReceivedData{
			TipID:  string(tip.ID),
			Amount: tip.Amount,
			Viewer: TipViewer{
				WalletAddress: viewer.WalletAddress,
				DisplayName:   viewer.DisplayName,
			},
			Timestamp: eventTimestamp(),
		},
	})
}

func (f *Fanout) NotifyViewerJoined(streamerID domain.UserID, viewerID string, viewerCount int) {
	f.Notify(ChannelStreamer, string(streamerID), Event{
		Type: EventViewerJoined,
		Data: ViewerCountData{
			ViewerID:    viewerID,
			ViewerCount: viewerCount,
			Timestamp:   eventTimestamp(),
		},
	})
}

func (f *Fanout) NotifyViewerLeft(streamerID domain.UserID, viewerID string, viewerCount int) {
	f.Notify(ChannelStreamer, string(streamerID), Event{
		Type: EventViewerLeft,
		Data: ViewerCountData{
			ViewerID:    viewerID,
			ViewerCount: viewerCount,
			Timestamp:   eventTimestamp(),
		},
	})
}

// BroadcastStreamStarted reaches only the viewers of that stream's key,
// same as BroadcastStreamEnded. Viewers of other streams never see it.
func (f *Fanout) BroadcastStreamStarted(stream *domain.Stream, streamer *domain.User) {
	f.Notify(ChannelViewer, string(stream.ID), Event{
		Type: EventStreamStarted,
		Data: StreamStartedData{
			StreamID: string(stream.ID),
			Streamer: StreamerInfo{
				ID:          string(streamer.ID),
				DisplayName: streamer.DisplayName,
				AvatarURL:   streamer.AvatarURL,
			},
			Platform:  stream.Platform,
			Timestamp: eventTimestamp(),
		},
	})
}

func (f *Fanout) BroadcastStreamEnded(streamID domain.StreamID) {
	f.Notify(ChannelViewer, string(streamID), Event{
		Type: EventStreamEnded,
		Data: StreamEndedData{
			StreamID:  string(streamID),
			Timestamp: eventTimestamp(),
		},
	})
}
