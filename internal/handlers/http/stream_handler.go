package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tessyjonburica/Droppio/internal/core/domain"
	"github.com/tessyjonburica/Droppio/internal/core/ports"
	"github.com/tessyjonburica/Droppio/internal/core/services"
	"github.com/tessyjonburica/Droppio/pkg/errors"
)

type StreamHandler struct {
	streamService *services.StreamService
	streams       ports.StreamRepository
}

func NewStreamHandler(streamService *services.StreamService, streams ports.StreamRepository) *StreamHandler {
	return &StreamHandler{
		streamService: streamService,
		streams:       streams,
	}
}

// SetupRoutes mounts the stream endpoints behind the auth middleware
// supplied by the caller.
func (h *StreamHandler) SetupRoutes(router gin.IRouter, authRequired gin.HandlerFunc) {
	api := router.Group("/api/v1/streams")
	{
		api.GET("/:id", h.GetStream)
		api.POST("/start", authRequired, h.StartStream)
		api.POST("/:id/end", authRequired, h.EndStream)
	}
}

type StartStreamRequest struct {
	Title    string `json:"title" binding:"required,max=200"`
	Platform string `json:"platform" binding:"max=50"`
}

type StreamResponse struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Platform string `json:"platform"`
	IsLive   bool   `json:"isLive"`
}

func streamResponse(stream *domain.Stream) StreamResponse {
	return StreamResponse{
		ID:       string(stream.ID),
		Title:    stream.Title,
		Platform: stream.Platform,
		IsLive:   stream.IsLive,
	}
}

func (h *StreamHandler) GetStream(c *gin.Context) {
	stream, err := h.streams.GetByID(c.Request.Context(), domain.StreamID(c.Param("id")))
	if err != nil {
		c.Error(errors.NewAdmissionError(errors.ErrCodeNotFound, "stream not found"))
		return
	}
	c.JSON(http.StatusOK, streamResponse(stream))
}

func (h *StreamHandler) StartStream(c *gin.Context) {
	var req StartStreamRequest
	if err := c.BindJSON(&req); err != nil {
		c.Error(errors.NewInvalidInputError("invalid request format"))
		return
	}

	userID := c.MustGet("user_id").(domain.UserID)
	stream, err := h.streamService.StartStream(c.Request.Context(), userID, req.Title, req.Platform)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, streamResponse(stream))
}

func (h *StreamHandler) EndStream(c *gin.Context) {
	streamID := domain.StreamID(c.Param("id"))

	stream, err := h.streams.GetByID(c.Request.Context(), streamID)
	if err != nil {
		c.Error(errors.NewAdmissionError(errors.ErrCodeNotFound, "stream not found"))
		return
	}
	if stream.StreamerID != c.MustGet("user_id").(domain.UserID) {
		c.Error(errors.NewIdentityMismatchError())
		return
	}

	if err := h.streamService.EndStream(c.Request.Context(), streamID); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ended"})
}
