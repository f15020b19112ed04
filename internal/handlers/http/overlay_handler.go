package http

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tessyjonburica/Droppio/internal/core/domain"
	"github.com/tessyjonburica/Droppio/internal/core/ports"
	"github.com/tessyjonburica/Droppio/pkg/errors"
)

// OverlayHandler provisions the access token an OBS browser source uses
// to join the overlay channel. Rotating the token invalidates the old
// overlay URL.
type OverlayHandler struct {
	overlays ports.OverlayRepository
}

func NewOverlayHandler(overlays ports.OverlayRepository) *OverlayHandler {
	return &OverlayHandler{overlays: overlays}
}

func (h *OverlayHandler) SetupRoutes(router gin.IRouter, authRequired gin.HandlerFunc) {
	api := router.Group("/api/v1/overlay")
	{
		api.GET("/token", authRequired, h.GetToken)
		api.POST("/token/rotate", authRequired, h.RotateToken)
	}
}

type OverlayTokenResponse struct {
	Token string `json:"token"`
}

func (h *OverlayHandler) GetToken(c *gin.Context) {
	userID := c.MustGet("user_id").(domain.UserID)

	overlay, err := h.overlays.FindByStreamer(c.Request.Context(), userID)
	if err == domain.ErrOverlayNotFound {
		overlay, err = h.provision(c, userID)
	}
	if err != nil {
		c.Error(errors.WrapError(err, errors.ErrCodeInternal, "failed to load overlay"))
		return
	}
	c.JSON(http.StatusOK, OverlayTokenResponse{Token: overlay.AccessToken})
}

func (h *OverlayHandler) RotateToken(c *gin.Context) {
	userID := c.MustGet("user_id").(domain.UserID)

	overlay, err := h.provision(c, userID)
	if err != nil {
		c.Error(errors.WrapError(err, errors.ErrCodeInternal, "failed to rotate overlay token"))
		return
	}
	c.JSON(http.StatusOK, OverlayTokenResponse{Token: overlay.AccessToken})
}

func (h *OverlayHandler) provision(c *gin.Context, userID domain.UserID) (*domain.Overlay, error) {
	token, err := newAccessToken()
	if err != nil {
		return nil, err
	}
	overlay := &domain.Overlay{
		ID:          domain.OverlayID(uuid.NewString()),
		StreamerID:  userID,
		AccessToken: token,
		CreatedAt:   time.Now(),
	}
	if err := h.overlays.Upsert(c.Request.Context(), overlay); err != nil {
		return nil, err
	}
	return overlay, nil
}

func newAccessToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
