package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/sketchspy/sketchspy/internal/core"
	"github.com/sketchspy/sketchspy/internal/domain"
)

func (ctl *SignalWSController) handleCreateLobby(sid core.SessionID, conn *WsSignalConn, ackID string, data []byte) {
	type payload struct {
		Name     string           `json:"name"`
		Size     int              `json:"size,omitempty"`
		Settings *domain.Settings `json:"settings,omitempty"`
	}
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad createLobby payload")
		ctl.sendAck(conn, ackID, err)
		return
	}
	name, err := domain.ParseLobbyName(p.Name)
	if err != nil {
		ctl.sendAck(conn, ackID, err)
		return
	}
	settings := domain.DefaultSettings()
	if p.Settings != nil {
		settings = *p.Settings
	}

	err = ctl.Orch.CreateLobby(name, settings, p.Size)
	if err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Str("lobby", p.Name).Msg("createLobby failed")
	}
	ctl.sendAck(conn, ackID, err)
}

func (ctl *SignalWSController) handleJoinLobby(sid core.SessionID, conn *WsSignalConn, ackID string, data []byte) {
	type payload struct {
		Name string `json:"name"`
	}
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad joinLobby payload")
		ctl.sendAck(conn, ackID, err)
		return
	}

	err := ctl.Orch.JoinLobby(sid, domain.LobbyName(p.Name))
	ctl.sendAck(conn, ackID, err)
	if err != nil {
		return
	}

	if lobby, ok := ctl.Orch.Lobbies.Get(domain.LobbyName(p.Name)); ok {
		ctl.sendJSON(conn, struct {
			Type    string           `json:"type"`
			Lobby   domain.LobbyName `json:"lobby"`
			Members []core.MemberDTO `json:"members"`
			Count   int              `json:"count"`
		}{
			Type:    "lobbyState",
			Lobby:   lobby.Name(),
			Members: lobby.MembersSnapshot(),
			Count:   lobby.MemberCount(),
		})
	}
}

func (ctl *SignalWSController) handleNamePlayer(sid core.SessionID, conn *WsSignalConn, ackID string, data []byte) {
	type payload struct {
		Lobby string `json:"lobby"`
		Name  string `json:"name"`
	}
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad namePlayer payload")
		ctl.sendAck(conn, ackID, err)
		return
	}

	err := ctl.Orch.NamePlayer(sid, domain.LobbyName(p.Lobby), p.Name)
	ctl.sendAck(conn, ackID, err)
}

func (ctl *SignalWSController) handleLeaveLobby(sid core.SessionID, conn *WsSignalConn, ackID string) {
	err := ctl.Orch.LeaveLobby(sid)
	ctl.sendAck(conn, ackID, err)
}

// handleStartGame runs the whole game off this goroutine; the requester gets
// its ack when the game finishes or start is rejected.
func (ctl *SignalWSController) handleStartGame(sid core.SessionID, conn *WsSignalConn, ackID string, data []byte) {
	type payload struct {
		Name string `json:"name"`
	}
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad startGame payload")
		ctl.sendAck(conn, ackID, err)
		return
	}

	// The game runs on the process context, not the connection's: the
	// requester disconnecting must not abort it, shutdown must.
	go func() {
		err := ctl.Orch.StartGame(ctl.appCtx, domain.LobbyName(p.Name))
		if err != nil {
			log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Str("lobby", p.Name).Msg("startGame failed")
		}
		ctl.sendAck(conn, ackID, err)
	}()
}
