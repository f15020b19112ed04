package ws

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tessyjonburica/Droppio/internal/core/domain"
	"github.com/tessyjonburica/Droppio/internal/core/ports"
	"github.com/tessyjonburica/Droppio/internal/core/services"
	"github.com/tessyjonburica/Droppio/internal/infrastructure/repositories/memory"
	"github.com/tessyjonburica/Droppio/pkg/logger"
)

type serverFixture struct {
	registry *Registry
	users    ports.UserRepository
	streams  ports.StreamRepository
	overlays ports.OverlayRepository
	auth     services.AuthService
	httpSrv  *httptest.Server
}

func newServerFixture(t *testing.T) *serverFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &serverFixture{
		registry: NewRegistry(),
		users:    memory.NewMemoryUserRepository(),
		streams:  memory.NewMemoryStreamRepository(),
		overlays: memory.NewMemoryOverlayRepository(),
	}
	f.auth = services.NewAuthService("test-secret", time.Hour, 24*time.Hour, f.users)

	log := logger.Nop()
	fanout := NewFanout(f.registry, log, nil)
	server := NewServer(f.registry, fanout, f.auth, f.streams, f.overlays, nil, log, time.Minute, time.Second)

	router := gin.New()
	server.RegisterRoutes(router)
	f.httpSrv = httptest.NewServer(router)
	t.Cleanup(f.httpSrv.Close)
	return f
}

func (f *serverFixture) wsURL(path string) string {
	return "ws" + strings.TrimPrefix(f.httpSrv.URL, "http") + path
}

// expectClose reads until the server closes the socket and returns the
// close code.
func expectClose(t *testing.T, conn *websocket.Conn) int {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			closeErr, ok := err.(*websocket.CloseError)
			require.True(t, ok, "expected close error, got %v", err)
			return closeErr.Code
		}
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestViewerRejectedWhenStreamMissing(t *testing.T) {
	f := newServerFixture(t)

	conn, _, err := websocket.DefaultDialer.Dial(f.wsURL("/ws/viewer/no-such-stream"), nil)
	require.NoError(t, err)
	defer conn.Close()

	assert.Equal(t, websocket.ClosePolicyViolation, expectClose(t, conn))
}

func TestViewerRejectedWhenStreamNotLive(t *testing.T) {
	f := newServerFixture(t)
	require.NoError(t, f.streams.Create(context.Background(), &domain.Stream{
		ID:         "stream-1",
		StreamerID: "creator-1",
		IsLive:     false,
	}))

	conn, _, err := websocket.DefaultDialer.Dial(f.wsURL("/ws/viewer/stream-1"), nil)
	require.NoError(t, err)
	defer conn.Close()

	assert.Equal(t, websocket.ClosePolicyViolation, expectClose(t, conn))
}

func TestViewerAdmittedAndCounted(t *testing.T) {
	f := newServerFixture(t)
	require.NoError(t, f.streams.Create(context.Background(), &domain.Stream{
		ID:         "stream-1",
		StreamerID: "creator-1",
		IsLive:     true,
	}))

	dashboard := newFakeConn()
	f.registry.Register(ChannelStreamer, "creator-1", dashboard, "creator-1")

	conn, _, err := websocket.DefaultDialer.Dial(f.wsURL("/ws/viewer/stream-1"), nil)
	require.NoError(t, err)

	waitFor(t, func() bool { return f.registry.ViewerCount("stream-1") == 1 })
	waitFor(t, func() bool { return len(dashboard.events()) == 1 })

	joined := dashboard.events()[0].(Event)
	assert.Equal(t, EventViewerJoined, joined.Type)
	assert.Equal(t, 1, joined.Data.(ViewerCountData).ViewerCount)

	conn.Close()
	waitFor(t, func() bool { return f.registry.ViewerCount("stream-1") == 0 })
	waitFor(t, func() bool { return len(dashboard.events()) == 2 })
	assert.Equal(t, EventViewerLeft, dashboard.events()[1].(Event).Type)
}

func TestStreamerRejectedWithoutToken(t *testing.T) {
	f := newServerFixture(t)

	conn, _, err := websocket.DefaultDialer.Dial(f.wsURL("/ws/streamer/creator-1"), nil)
	require.NoError(t, err)
	defer conn.Close()

	assert.Equal(t, websocket.ClosePolicyViolation, expectClose(t, conn))
}

func TestStreamerRejectedForOtherUsersChannel(t *testing.T) {
	f := newServerFixture(t)
	require.NoError(t, f.users.Create(context.Background(), &domain.User{
		ID:            "creator-1",
		WalletAddress: "0xaaa0000000000000000000000000000000000001",
		Role:          domain.RoleCreator,
	}))

	token, err := f.auth.GenerateToken("creator-1", "0xaaa0000000000000000000000000000000000001")
	require.NoError(t, err)

	conn, _, err := websocket.DefaultDialer.Dial(f.wsURL("/ws/streamer/creator-2?token="+token), nil)
	require.NoError(t, err)
	defer conn.Close()

	assert.Equal(t, websocket.ClosePolicyViolation, expectClose(t, conn))
}

func TestStreamerAdmittedWithValidToken(t *testing.T) {
	f := newServerFixture(t)
	require.NoError(t, f.users.Create(context.Background(), &domain.User{
		ID:            "creator-1",
		WalletAddress: "0xaaa0000000000000000000000000000000000001",
		Role:          domain.RoleCreator,
	}))

	token, err := f.auth.GenerateToken("creator-1", "0xaaa0000000000000000000000000000000000001")
	require.NoError(t, err)

	conn, _, err := websocket.DefaultDialer.Dial(f.wsURL("/ws/streamer/creator-1?token="+token), nil)
	require.NoError(t, err)
	defer conn.Close()

	waitFor(t, func() bool { return len(f.registry.Lookup(ChannelStreamer, "creator-1")) == 1 })
}

func TestOverlayTokenChecked(t *testing.T) {
	f := newServerFixture(t)
	require.NoError(t, f.overlays.Upsert(context.Background(), &domain.Overlay{
		ID:          "overlay-1",
		StreamerID:  "creator-1",
		AccessToken: "secret-token",
	}))

	bad, _, err := websocket.DefaultDialer.Dial(f.wsURL("/ws/overlay/creator-1?token=wrong"), nil)
	require.NoError(t, err)
	defer bad.Close()
	assert.Equal(t, websocket.ClosePolicyViolation, expectClose(t, bad))

	good, _, err := websocket.DefaultDialer.Dial(f.wsURL("/ws/overlay/creator-1?token=secret-token"), nil)
	require.NoError(t, err)
	defer good.Close()
	waitFor(t, func() bool { return len(f.registry.Lookup(ChannelOverlay, "creator-1")) == 1 })
}

func TestPongMessageRefreshesLiveness(t *testing.T) {
	f := newServerFixture(t)
	require.NoError(t, f.streams.Create(context.Background(), &domain.Stream{
		ID:         "stream-1",
		StreamerID: "creator-1",
		IsLive:     true,
	}))

	conn, _, err := websocket.DefaultDialer.Dial(f.wsURL("/ws/viewer/stream-1"), nil)
	require.NoError(t, err)
	defer conn.Close()

	waitFor(t, func() bool { return f.registry.ViewerCount("stream-1") == 1 })
	reg := f.registry.Lookup(ChannelViewer, "stream-1")[0]
	before := f.registry.LastPing(reg)

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, conn.WriteJSON(map[string]string{"type": "pong"}))

	waitFor(t, func() bool { return f.registry.LastPing(reg).After(before) })
}
