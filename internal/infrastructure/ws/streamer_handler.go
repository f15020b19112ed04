package ws

import (
	"github.com/gin-gonic/gin"

	"github.com/tessyjonburica/Droppio/internal/core/domain"
	apperrors "github.com/tessyjonburica/Droppio/pkg/errors"
	"github.com/tessyjonburica/Droppio/pkg/validation"
)

// HandleStreamer admits a creator's dashboard connection. The caller
// must present a token resolving to the same user id as the path, and
// that user must hold the creator role.
func (s *Server) HandleStreamer(c *gin.Context) {
	conn, sock, ok := s.upgrade(c)
	if !ok {
		return
	}

	streamerID := c.Param("streamerId")
	if err := validation.ValidateEntityID(streamerID); err != nil {
		s.reject(conn, apperrors.NewInvalidKeyError("invalid streamer id"))
		return
	}

	token := bearerToken(c)
	if token == "" {
		s.reject(conn, apperrors.NewNoCredentialError())
		return
	}

	user, err := s.auth.ResolveIdentity(c.Request.Context(), token)
	if err != nil {
		s.reject(conn, apperrors.NewInvalidCredentialError())
		return
	}
	if string(user.ID) != streamerID {
		s.reject(conn, apperrors.NewIdentityMismatchError())
		return
	}
	if user.Role != domain.RoleCreator {
		s.reject(conn, apperrors.NewAdmissionError(apperrors.ErrCodeNotCreator, "not a creator account"))
		return
	}

	reg := s.registry.Register(ChannelStreamer, streamerID, conn, user.ID)
	s.metrics.RecordConnectionOpened(string(ChannelStreamer))
	s.logger.Infow("streamer connected", "streamer_id", streamerID)

	s.readLoop(sock, conn, reg, func() {
		s.logger.Infow("streamer disconnected", "streamer_id", streamerID)
	})
}
