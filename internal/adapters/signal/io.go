package signal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/sketchspy/sketchspy/internal/app"
	"github.com/sketchspy/sketchspy/internal/core"
)

func (ctl *SignalWSController) writePump(ctx context.Context, c *WsSignalConn) {
	ping := time.NewTicker(ctl.Cfg.PingPeriod)
	defer ping.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Msg("writePump ctx done")
			return
		case <-ping.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				log.Warn().Err(err).Str("module", "signal").Msg("writePump ping error")
				return
			}
		case data, ok := <-c.send:
			if !ok {
				log.Warn().Str("module", "signal").Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		}
	}
}

func (ctl *SignalWSController) readPump(ctx context.Context, sid core.SessionID, c *WsSignalConn, limiter *rate.Limiter) {
	defer func() {
		log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("readPump closing")
		c.Close()
		ctl.Orch.Disconnect(sid)
		ctl.Metrics.ClientDisconnected()
	}()

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("readPump ctx done")
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				log.Info().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("readPump read error")
				return
			}
			ctl.handleMessage(sid, c, data, limiter)
		}
	}
}

func (ctl *SignalWSController) handleMessage(sid core.SessionID, c *WsSignalConn, data []byte, limiter *rate.Limiter) {
	var env struct {
		Type string          `json:"type"`
		ID   string          `json:"id"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad json")
		return
	}

	if app.IsDrawEvent(env.Type) {
		if !limiter.Allow() {
			log.Debug().Str("module", "signal").Str("sid", string(sid)).Msg("draw event rate limited")
			return
		}
		ctl.Orch.OnDraw(sid, app.DrawEvent(env.Type), env.Data)
		return
	}

	switch env.Type {
	case "createLobby":
		ctl.handleCreateLobby(sid, c, env.ID, data)
	case "joinLobby":
		ctl.handleJoinLobby(sid, c, env.ID, data)
	case "namePlayer":
		ctl.handleNamePlayer(sid, c, env.ID, data)
	case "leaveLobby":
		ctl.handleLeaveLobby(sid, c, env.ID)
	case "startGame":
		ctl.handleStartGame(sid, c, env.ID, data)
	case "readyAck":
		ctl.Orch.Acks.Resolve(env.ID, env.Data)
	case "guessAck":
		// The guess payload rides the whole envelope so arrival stays one hop.
		ctl.Orch.Acks.Resolve(env.ID, json.RawMessage(data))
	case "ping":
		ctl.handlePing(c)
	case "whoami":
		ctl.handleWhoAmI(sid, c)
	default:
		log.Warn().Str("module", "signal").Str("type", env.Type).Msg("unknown signal")
	}
}

func (ctl *SignalWSController) sendJSON(c *WsSignalConn, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("sendJSON marshal")
		return
	}
	_ = c.TrySend(b)
}

type ackResponse struct {
	Type  string `json:"type"`
	ID    string `json:"id"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// sendAck reports request outcome as a boolean result, never a fault.
func (ctl *SignalWSController) sendAck(c *WsSignalConn, id string, err error) {
	resp := ackResponse{Type: "ack", ID: id, OK: err == nil}
	if err != nil {
		resp.Error = err.Error()
	}
	ctl.sendJSON(c, resp)
}
