package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/sketchspy/sketchspy/internal/app/orch"
	"github.com/sketchspy/sketchspy/internal/config"
	"github.com/sketchspy/sketchspy/internal/core"
	"github.com/sketchspy/sketchspy/internal/metrics"
)

var ErrBackpressure = errors.New("backpressure")

// Draw input above this rate is shed before it reaches the relay.
const (
	drawEventsPerSecond = 60
	drawEventBurst      = 120
)

type SignalWSController struct {
	Orch    *orch.Orchestrator
	Cfg     *config.Config
	Metrics *metrics.Set

	// appCtx is the process-lifetime context. Games run on it so they
	// outlive the requester's connection but still stop on shutdown.
	appCtx context.Context
}

func NewSignalWSController(appCtx context.Context, o *orch.Orchestrator, cfg *config.Config, m *metrics.Set) *SignalWSController {
	return &SignalWSController{appCtx: appCtx, Orch: o, Cfg: cfg, Metrics: m}
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
		return errors.New("connection closed")
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
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
	_ = c.conn.Close()
	c.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleSignal upgrades the request and binds the session to the registry.
// Per-player state (name, role, draw permission) survives reconnects within
// the same client token.
func (ctl *SignalWSController) HandleSignal(c *gin.Context) {
	sid := core.SessionID(c.GetString("client_token"))
	log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("new WS connection")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Msg("ws upgrade")
		return
	}
	if ctl.Cfg.ReadLimit > 0 {
		ws.SetReadLimit(ctl.Cfg.ReadLimit)
	}

	conn := &WsSignalConn{
		conn: ws,
		send: make(chan core.Frame, 64),
	}

	player := ctl.Orch.Registry.GetOrCreatePlayer(sid)
	sess := core.NewMemberSession(player, conn)
	ctx, cancel := context.WithCancel(ctl.appCtx)
	ctl.Orch.Registry.BindSignal(sid, sess, cancel)
	ctl.Metrics.ClientConnected()

	limiter := rate.NewLimiter(drawEventsPerSecond, drawEventBurst)

	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, sid, conn, limiter)
}
