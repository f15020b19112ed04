package ws

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/tessyjonburica/Droppio/internal/core/ports"
	"github.com/tessyjonburica/Droppio/internal/core/services"
	"github.com/tessyjonburica/Droppio/internal/infrastructure/monitoring"
	apperrors "github.com/tessyjonburica/Droppio/pkg/errors"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Should be configured properly for production
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Server owns the three WebSocket channel endpoints. Admission always
// upgrades first and validates after, so a rejected client receives a
// proper close frame instead of an opaque HTTP error.
type Server struct {
	registry *Registry
	fanout   *Fanout
	auth     services.AuthService
	streams  ports.StreamRepository
	overlays ports.OverlayRepository
	metrics  *monitoring.Collector
	logger   *zap.SugaredLogger

	pongTimeout  time.Duration
	writeTimeout time.Duration
}

func NewServer(
	registry *Registry,
	fanout *Fanout,
	auth services.AuthService,
	streams ports.StreamRepository,
	overlays ports.OverlayRepository,
	metrics *monitoring.Collector,
	logger *zap.SugaredLogger,
	pongTimeout, writeTimeout time.Duration,
) *Server {
	return &Server{
		registry:     registry,
		fanout:       fanout,
		auth:         auth,
		streams:      streams,
		overlays:     overlays,
		metrics:      metrics,
		logger:       logger,
		pongTimeout:  pongTimeout,
		writeTimeout: writeTimeout,
	}
}

// RegisterRoutes mounts the channel endpoints on a gin router.
func (s *Server) RegisterRoutes(r gin.IRouter) {
	r.GET("/ws/streamer/:streamerId", s.HandleStreamer)
	r.GET("/ws/viewer/:streamId", s.HandleViewer)
	r.GET("/ws/overlay/:creatorId", s.HandleOverlay)
}

func (s *Server) upgrade(c *gin.Context) (*wsConn, *websocket.Conn, bool) {
	sock, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Errorw("websocket upgrade failed", "error", err)
		return nil, nil, false
	}
	return newWSConn(sock, s.writeTimeout), sock, true
}

// reject sends a close frame carrying the admission error and tears the
// socket down.
func (s *Server) reject(conn *wsConn, appErr *apperrors.AppError) {
	s.metrics.RecordAdmissionRejected(string(appErr.Code))
	_ = conn.Close(appErr.CloseCode, string(appErr.Code)+": "+appErr.Message)
}

// bearerToken extracts a credential from the Authorization header or,
// for browser clients that cannot set headers on WebSocket dials, the
// token query parameter.
func bearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return c.Query("token")
}

type inboundFrame struct {
	Type string `json:"type"`
}

// readLoop drains the socket until it dies. Pong control frames and
// {"type":"pong"} text frames both refresh liveness; every other frame
// is ignored. On exit the connection is marked dead and deregistered.
func (s *Server) readLoop(sock *websocket.Conn, conn *wsConn, reg *Connection, onClose func()) {
	defer func() {
		conn.markClosed()
		s.registry.Deregister(reg)
		s.metrics.RecordConnectionClosed(string(reg.Channel()))
		if onClose != nil {
			onClose()
		}
		sock.Close()
	}()

	sock.SetReadDeadline(time.Now().Add(s.pongTimeout))
	sock.SetPongHandler(func(string) error {
		sock.SetReadDeadline(time.Now().Add(s.pongTimeout))
		s.registry.Touch(reg)
		return nil
	})

	for {
		_, data, err := sock.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debugw("websocket read failed", "channel", reg.Channel(), "key", reg.Key(), "error", err)
			}
			return
		}

		var frame inboundFrame
		if json.Unmarshal(data, &frame) == nil && frame.Type == "pong" {
			sock.SetReadDeadline(time.Now().Add(s.pongTimeout))
			s.registry.Touch(reg)
		}
	}
}
