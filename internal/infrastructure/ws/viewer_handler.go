package ws

import (
	"github.com/gin-gonic/gin"

	"github.com/tessyjonburica/Droppio/internal/core/domain"
	apperrors "github.com/tessyjonburica/Droppio/pkg/errors"
	"github.com/tessyjonburica/Droppio/pkg/validation"
)

// anonymousViewerID identifies unauthenticated viewers in join and
// leave events.
const anonymousViewerID = "anonymous"

// HandleViewer admits a viewer connection to a live stream. Viewers
// need no credential, but the stream must exist and be live. Each join
// and leave is announced to the streamer channel with the updated
// viewer count.
func (s *Server) HandleViewer(c *gin.Context) {
	conn, sock, ok := s.upgrade(c)
	if !ok {
		return
	}

	streamID := c.Param("streamId")
	if err := validation.ValidateEntityID(streamID); err != nil {
		s.reject(conn, apperrors.NewInvalidKeyError("invalid stream id"))
		return
	}

	stream, err := s.streams.GetByID(c.Request.Context(), domain.StreamID(streamID))
	if err != nil {
		s.reject(conn, apperrors.NewAdmissionError(apperrors.ErrCodeNotFound, "stream not found"))
		return
	}
	if !stream.IsLive {
		s.reject(conn, apperrors.NewAdmissionError(apperrors.ErrCodeStreamNotLive, "stream is not live"))
		return
	}

	streamerID := stream.StreamerID
	reg := s.registry.Register(ChannelViewer, streamID, conn, "")
	s.metrics.RecordConnectionOpened(string(ChannelViewer))
	s.logger.Infow("viewer joined", "stream_id", streamID)
	s.fanout.NotifyViewerJoined(streamerID, anonymousViewerID, s.registry.ViewerCount(streamID))

	s.readLoop(sock, conn, reg, func() {
		s.logger.Infow("viewer left", "stream_id", streamID)
		s.fanout.NotifyViewerLeft(streamerID, anonymousViewerID, s.registry.ViewerCount(streamID))
	})
}
