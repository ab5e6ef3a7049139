package signal

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/dkeye/Board/internal/app/orch"
	"github.com/dkeye/Board/internal/core"
	"github.com/dkeye/Board/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

type Options struct {
	ReadLimit        int64
	PingPeriod       time.Duration
	WriteWait        time.Duration
	SendBuffer       int
	DrawRateLimit    int
	DrawRateInterval time.Duration
}

func DefaultOptions() Options {
	return Options{
		ReadLimit:        4 << 20,
		PingPeriod:       30 * time.Second,
		WriteWait:        10 * time.Second,
		SendBuffer:       32,
		DrawRateLimit:    60,
		DrawRateInterval: time.Second,
	}
}

type SignalWSController struct {
	Orch    *orch.Orchestrator
	opts    Options
	limiter *RoomRateLimiter

	mu      sync.Mutex
	closing bool
	wg      sync.WaitGroup
}

func NewSignalWSController(o *orch.Orchestrator, opts Options) *SignalWSController {
	return &SignalWSController{
		Orch:    o,
		opts:    opts,
		limiter: NewRoomRateLimiter(opts.DrawRateLimit, opts.DrawRateInterval),
	}
}

type WsSignalConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *WsSignalConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return core.ErrClosed
	}
	select {
	case c.send <- f:
	default:
		return core.ErrBackpressure
	}
	return nil
}

func (c *WsSignalConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	if c.conn != nil {
		_ = c.conn.Close()
	}
	c.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleSignal upgrades the request and starts the connection pumps.
// ctx bounds the connection lifetime; canceling it closes the socket.
func (ctl *SignalWSController) HandleSignal(ctx context.Context, c *gin.Context) {
	token := c.GetString("client_token")

	ctl.mu.Lock()
	if ctl.closing {
		ctl.mu.Unlock()
		c.AbortWithStatus(http.StatusServiceUnavailable)
		return
	}
	ctl.wg.Add(2)
	ctl.mu.Unlock()

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		ctl.wg.Add(-2)
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}

	id := domain.ConnectionID(uuid.NewString())
	log.Info().Str("module", "signal").Str("conn", string(id)).Str("client", token).Msg("new WS connection")

	conn := &WsSignalConn{
		conn: ws,
		send: make(chan core.Frame, ctl.opts.SendBuffer),
	}

	ctx, cancel := context.WithCancel(ctx)
	ctl.Orch.Connect(id, conn, cancel)

	go func() {
		defer ctl.wg.Done()
		ctl.writePump(ctx, id, conn)
	}()
	go func() {
		defer ctl.wg.Done()
		defer cancel()
		ctl.readPump(ctx, id, conn)
	}()
}

// Shutdown stops accepting connections and waits for the running pumps to exit.
func (ctl *SignalWSController) Shutdown(ctx context.Context) error {
	ctl.mu.Lock()
	ctl.closing = true
	ctl.mu.Unlock()

	done := make(chan struct{})
	go func() {
		ctl.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
