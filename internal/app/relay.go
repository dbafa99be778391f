package app

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/sketchspy/sketchspy/internal/core"
)

// DrawEvent names the drawing-input events a client may emit.
type DrawEvent string

const (
	EventBeginDrawing DrawEvent = "beginDrawing"
	EventDrawTo       DrawEvent = "drawTo"
	EventEndDrawing   DrawEvent = "endDrawing"
	EventClearCanvas  DrawEvent = "clearCanvas"
)

var drawEvents = map[DrawEvent]struct{}{
	EventBeginDrawing: {},
	EventDrawTo:       {},
	EventEndDrawing:   {},
	EventClearCanvas:  {},
}

func IsDrawEvent(t string) bool {
	_, ok := drawEvents[DrawEvent(t)]
	return ok
}

type drawFrame struct {
	Type DrawEvent       `json:"type"`
	From string          `json:"from"`
	Data json.RawMessage `json:"data,omitempty"`
}

// DrawRelay gates drawing input per connection: an event is re-broadcast to
// the rest of the sender's lobby only while the sender holds draw permission.
// Gated-off events are silently dropped, not queued or errored. A sender
// outside any lobby reaches nobody.
type DrawRelay struct {
	Registry *Registry
	Lobbies  core.LobbyFactory
}

func NewDrawRelay(registry *Registry, lobbies core.LobbyFactory) *DrawRelay {
	return &DrawRelay{Registry: registry, Lobbies: lobbies}
}

// Relay forwards one draw event with its original arguments. The second
// return is false when nothing was relayed.
func (r *DrawRelay) Relay(sid core.SessionID, event DrawEvent, payload json.RawMessage) (core.LobbyService, core.PublishResult, bool) {
	sess, ok := r.Registry.GetSession(sid)
	if !ok {
		return nil, core.PublishResult{}, false
	}
	if !sess.Player().MayDraw() {
		log.Debug().Str("module", "app.relay").Str("sid", string(sid)).Str("event", string(event)).Msg("draw event dropped, no permission")
		return nil, core.PublishResult{}, false
	}
	lobbyName, _, ok := r.Registry.LobbyOf(sid)
	if !ok {
		// Isolated room keyed by the sender's own identity: reaches nobody.
		return nil, core.PublishResult{}, false
	}
	lobby, ok := r.Lobbies.Get(lobbyName)
	if !ok {
		return nil, core.PublishResult{}, false
	}

	frame, err := json.Marshal(drawFrame{Type: event, From: sess.Player().DisplayName(), Data: payload})
	if err != nil {
		log.Error().Err(err).Str("module", "app.relay").Msg("marshal draw frame")
		return nil, core.PublishResult{}, false
	}
	res := lobby.Broadcast(sid, core.Frame(frame))
	return lobby, res, true
}

// ReArm restores a session's out-of-game draw permission. Called on lobby
// join/leave and at game end so a stale grant never leaks across phases.
func (r *DrawRelay) ReArm(sess core.MemberSession, outOfGameDefault bool) {
	sess.Player().AllowDraw(outOfGameDefault)
}
