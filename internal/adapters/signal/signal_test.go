package signal

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dkeye/Board/internal/app"
	"github.com/dkeye/Board/internal/app/orch"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	srv    *httptest.Server
	orch   *orch.Orchestrator
	ctl    *SignalWSController
	cancel context.CancelFunc
}

func newTestServer(t *testing.T, opts Options) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	o := orch.New(app.SimplePolicy{})
	ctl := NewSignalWSController(o, opts)
	ctx, cancel := context.WithCancel(context.Background())

	r := gin.New()
	r.GET("/ws", func(c *gin.Context) { ctl.HandleSignal(ctx, c) })
	srv := httptest.NewServer(r)

	ts := &testServer{srv: srv, orch: o, ctl: ctl, cancel: cancel}
	t.Cleanup(func() {
		cancel()
		srv.Close()
		shutdownCtx, done := context.WithTimeout(context.Background(), 2*time.Second)
		defer done()
		_ = ctl.Shutdown(shutdownCtx)
	})
	return ts
}

func (ts *testServer) dial(t *testing.T) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.srv.URL, "http") + "/ws"
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ws.Close() })
	return ws
}

func send(t *testing.T, ws *websocket.Conn, v any) {
	t.Helper()
	require.NoError(t, ws.WriteJSON(v))
}

func recv(t *testing.T, ws *websocket.Conn) map[string]any {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	var m map[string]any
	require.NoError(t, ws.ReadJSON(&m))
	return m
}

func joinMsg(name, pid, room string) map[string]any {
	return map[string]any{
		"type":           "join",
		"name":           name,
		"participant_id": pid,
		"room_id":        room,
		"is_host":        false,
		"is_presenter":   true,
	}
}

func TestJoinDrawAndPing(t *testing.T) {
	ts := newTestServer(t, DefaultOptions())
	a := ts.dial(t)
	b := ts.dial(t)

	send(t, a, joinMsg("Alice", "pa", "board"))
	m := recv(t, a)
	assert.Equal(t, orch.TypeJoinConfirmed, m["type"])
	assert.Equal(t, "board", m["room_id"])

	send(t, b, joinMsg("Bob", "pb", "board"))
	assert.Equal(t, orch.TypeJoinConfirmed, recv(t, b)["type"])

	m = recv(t, a)
	assert.Equal(t, orch.TypeParticipantJoined, m["type"])
	assert.Equal(t, "Bob", m["name"])
	assert.Equal(t, orch.TypeRosterUpdated, recv(t, a)["type"])

	send(t, a, map[string]any{"type": "draw_update", "image_data": "data:image/png;base64,AAA"})
	m = recv(t, b)
	assert.Equal(t, orch.TypeSnapshot, m["type"])
	assert.Equal(t, "data:image/png;base64,AAA", m["image_data"])

	// the sender's next frame is the pong, not its own snapshot
	send(t, a, map[string]any{"type": "ping"})
	assert.Equal(t, orch.TypePong, recv(t, a)["type"])

	send(t, b, map[string]any{"type": "clear_canvas"})
	assert.Equal(t, orch.TypeCanvasCleared, recv(t, a)["type"])
	assert.False(t, ts.orch.Snapshots.Has("board"))
}

func TestJoinValidationError(t *testing.T) {
	ts := newTestServer(t, DefaultOptions())
	a := ts.dial(t)

	send(t, a, joinMsg("", "pa", "board"))
	m := recv(t, a)
	assert.Equal(t, orch.TypeError, m["type"])
	assert.Equal(t, orch.ErrKindValidation, m["error"])
	assert.Empty(t, ts.orch.Roster("board"))
}

func TestMalformedFramesAreIgnored(t *testing.T) {
	ts := newTestServer(t, DefaultOptions())
	a := ts.dial(t)

	require.NoError(t, a.WriteMessage(websocket.TextMessage, []byte("not json")))
	send(t, a, map[string]any{"type": "mystery"})
	send(t, a, map[string]any{"type": "draw_update", "image_data": "x"})
	send(t, a, map[string]any{"type": "ping"})
	assert.Equal(t, orch.TypePong, recv(t, a)["type"])
}

func TestDisconnectNotifiesRoom(t *testing.T) {
	ts := newTestServer(t, DefaultOptions())
	a := ts.dial(t)
	b := ts.dial(t)

	send(t, a, joinMsg("Alice", "pa", "board"))
	recv(t, a)
	send(t, b, joinMsg("Bob", "pb", "board"))
	recv(t, b)
	recv(t, a)
	recv(t, a)

	require.NoError(t, b.Close())

	m := recv(t, a)
	assert.Equal(t, orch.TypeParticipantLeft, m["type"])
	assert.Equal(t, "Bob", m["name"])
	m = recv(t, a)
	assert.Equal(t, orch.TypeRosterUpdated, m["type"])
	assert.Len(t, m["roster"], 1)

	require.Eventually(t, func() bool { return ts.orch.Conns.Count() == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestDrawUpdateRateLimited(t *testing.T) {
	opts := DefaultOptions()
	opts.DrawRateLimit = 1
	opts.DrawRateInterval = time.Minute
	ts := newTestServer(t, opts)
	a := ts.dial(t)

	send(t, a, joinMsg("Alice", "pa", "board"))
	recv(t, a)

	send(t, a, map[string]any{"type": "draw_update", "image_data": "one"})
	send(t, a, map[string]any{"type": "draw_update", "image_data": "two"})
	m := recv(t, a)
	assert.Equal(t, orch.TypeError, m["type"])
	assert.Equal(t, orch.ErrKindRateLimited, m["error"])

	img, ok := ts.orch.Snapshots.Get("board")
	require.True(t, ok)
	assert.Equal(t, `"one"`, string(img))
}

func TestShutdownClosesConnections(t *testing.T) {
	ts := newTestServer(t, DefaultOptions())
	a := ts.dial(t)
	send(t, a, joinMsg("Alice", "pa", "board"))
	recv(t, a)

	ts.cancel()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, ts.ctl.Shutdown(ctx))

	require.NoError(t, a.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := a.ReadMessage()
	assert.Error(t, err)
	assert.Empty(t, ts.orch.Roster("board"))
}
