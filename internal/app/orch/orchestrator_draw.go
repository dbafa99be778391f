package orch

import (
	"encoding/json"

	"github.com/sketchspy/sketchspy/internal/app"
	"github.com/sketchspy/sketchspy/internal/core"
)

// OnDraw routes one drawing-input event through the permission-gated relay
// and applies the backpressure policy to members who could not keep up.
func (o *Orchestrator) OnDraw(sid core.SessionID, event app.DrawEvent, payload json.RawMessage) {
	lobby, res, ok := o.Relay.Relay(sid, event, payload)
	if !ok {
		return
	}
	o.Metrics.DrawRelayed(res.SentTo)
	if o.Policy == nil {
		return
	}
	for _, slow := range res.Dropped {
		switch o.Policy.OnBackPressure(lobby, slow) {
		case app.KickMember:
			for _, snap := range lobby.Members() {
				if snap.Session == slow {
					o.KickBySID(snap.SID)
				}
			}
		case app.MarkSlow, app.DropFrame, app.NoAction:
		}
	}
}
