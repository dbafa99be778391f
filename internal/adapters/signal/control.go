package signal

import (
	"github.com/sketchspy/sketchspy/internal/core"
	"github.com/sketchspy/sketchspy/internal/domain"
)

func (ctl *SignalWSController) handlePing(conn *WsSignalConn) {
	ctl.sendJSON(conn, struct {
		Type string `json:"type"`
	}{Type: "pong"})
}

func (ctl *SignalWSController) handleWhoAmI(sid core.SessionID, conn *WsSignalConn) {
	player := ctl.Orch.Registry.GetOrCreatePlayer(sid)

	resp := struct {
		Type    string           `json:"type"`
		Name    string           `json:"name"`
		Role    domain.Role      `json:"role"`
		CanDraw bool             `json:"can_draw"`
		Lobby   domain.LobbyName `json:"lobby,omitempty"`
	}{
		Type:    "whoami",
		Name:    player.DisplayName(),
		Role:    player.Role(),
		CanDraw: player.MayDraw(),
	}
	if lobbyName, _, ok := ctl.Orch.Registry.LobbyOf(sid); ok {
		resp.Lobby = lobbyName
	}
	ctl.sendJSON(conn, resp)
}
