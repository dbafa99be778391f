package orch

import (
	"github.com/rs/zerolog/log"

	"github.com/sketchspy/sketchspy/internal/app"
	"github.com/sketchspy/sketchspy/internal/core"
	"github.com/sketchspy/sketchspy/internal/domain"
)

// CreateLobby registers a new named lobby. The creator is not joined
// automatically; joining is a separate explicit step.
func (o *Orchestrator) CreateLobby(name domain.LobbyName, settings domain.Settings, size int) error {
	if size <= 0 {
		size = o.Cfg.DefaultLobbySize
	}
	if _, err := o.Lobbies.Create(name, settings, size); err != nil {
		return err
	}
	o.Metrics.LobbyCreated()
	return nil
}

// JoinLobby adds the session to the lobby, leaving any prior lobby first.
func (o *Orchestrator) JoinLobby(sid core.SessionID, name domain.LobbyName) error {
	lobby, ok := o.Lobbies.Get(name)
	if !ok {
		return app.ErrLobbyNotFound
	}
	sess, ok := o.Registry.GetSession(sid)
	if !ok {
		return app.ErrNoSession
	}
	if prior, _, inLobby := o.Registry.LobbyOf(sid); inLobby {
		if prior == name {
			return app.ErrAlreadyMember
		}
		if err := o.LeaveLobby(sid); err != nil {
			return err
		}
	}
	for !lobby.AddMember(sid, sess) {
		if !lobby.Closed() {
			return app.ErrLobbyFull
		}
		// Lost the race with the last leave: the reference is to a lobby
		// the manager already deregistered. Re-resolve the name.
		if lobby, ok = o.Lobbies.Get(name); !ok {
			return app.ErrLobbyNotFound
		}
	}
	o.Registry.UpdateLobby(sid, name)
	o.outOfGameSetup(sess)
	log.Info().Str("module", "orch").Str("sid", string(sid)).Str("lobby", string(name)).Msg("joined lobby")
	return nil
}

// LeaveLobby removes the session from its current lobby and deregisters the
// lobby the instant it empties, so a later lookup never observes it.
func (o *Orchestrator) LeaveLobby(sid core.SessionID) error {
	name, sess, ok := o.Registry.LobbyOf(sid)
	if !ok {
		return app.ErrNotInLobby
	}
	lobby, ok := o.Lobbies.Get(name)
	if ok {
		lobby.RemoveMember(sid)
		// Close before deregistering so no join sneaks in between the
		// emptiness check and the removal.
		if lobby.CloseIfEmpty() {
			o.Lobbies.Remove(name)
			o.Metrics.LobbyRemoved()
		}
	}
	o.Registry.ClearLobby(sid)
	o.outOfGameSetup(sess)
	log.Info().Str("module", "orch").Str("sid", string(sid)).Str("lobby", string(name)).Msg("left lobby")
	return nil
}

// NamePlayer assigns a display name, rejecting duplicates within the lobby
// before they can reach a vote tally.
func (o *Orchestrator) NamePlayer(sid core.SessionID, name domain.LobbyName, display string) error {
	lobby, ok := o.Lobbies.Get(name)
	if !ok {
		return app.ErrLobbyNotFound
	}
	if !lobby.Contains(sid) {
		return app.ErrNotInLobby
	}
	sess, ok := o.Registry.GetSession(sid)
	if !ok {
		return app.ErrNoSession
	}
	if lobby.ContainsName(display) {
		return app.ErrNameTaken
	}
	if err := sess.Player().SetName(display); err != nil {
		return err
	}
	log.Info().Str("module", "orch").Str("sid", string(sid)).Str("name", display).Msg("player named")
	return nil
}

// Disconnect performs the same cleanup as an explicit leave, then drops the
// session binding.
func (o *Orchestrator) Disconnect(sid core.SessionID) {
	if _, _, ok := o.Registry.LobbyOf(sid); ok {
		_ = o.LeaveLobby(sid)
	}
	o.Registry.Unbind(sid)
}

// KickBySID force-removes a member, used for backpressure policy evictions.
func (o *Orchestrator) KickBySID(sid core.SessionID) {
	if _, _, ok := o.Registry.LobbyOf(sid); ok {
		_ = o.LeaveLobby(sid)
	}
	o.Registry.Cancel(sid)
}
