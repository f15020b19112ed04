package ws

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	"github.com/tessyjonburica/Droppio/internal/core/domain"
	apperrors "github.com/tessyjonburica/Droppio/pkg/errors"
	"github.com/tessyjonburica/Droppio/pkg/validation"
)

// HandleOverlay admits a browser-source overlay connection. Overlays
// authenticate with a per-creator access token rather than a user
// session, so OBS scenes work without a login flow.
func (s *Server) HandleOverlay(c *gin.Context) {
	conn, sock, ok := s.upgrade(c)
	if !ok {
		return
	}

	creatorID := c.Param("creatorId")
	if err := validation.ValidateEntityID(creatorID); err != nil {
		s.reject(conn, apperrors.NewInvalidKeyError("invalid creator id"))
		return
	}

	token := bearerToken(c)
	if token == "" {
		s.reject(conn, apperrors.NewNoCredentialError())
		return
	}

	overlay, err := s.overlays.FindByStreamer(c.Request.Context(), domain.UserID(creatorID))
	if err != nil {
		s.reject(conn, apperrors.NewAdmissionError(apperrors.ErrCodeNotFound, "no overlay configured"))
		return
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(overlay.AccessToken)) != 1 {
		s.reject(conn, apperrors.NewInvalidCredentialError())
		return
	}

	reg := s.registry.Register(ChannelOverlay, creatorID, conn, overlay.StreamerID)
	s.metrics.RecordConnectionOpened(string(ChannelOverlay))
	s.logger.Infow("overlay connected", "creator_id", creatorID)

	s.readLoop(sock, conn, reg, func() {
		s.logger.Infow("overlay disconnected", "creator_id", creatorID)
	})
}
