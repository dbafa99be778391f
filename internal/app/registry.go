package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/sketchspy/sketchspy/internal/core"
	"github.com/sketchspy/sketchspy/internal/domain"
)

type sessionEntry struct {
	Lobby   domain.LobbyName
	Session core.MemberSession
	Cancel  context.CancelFunc
}

// Registry owns the sid -> session bindings and the per-connection player
// state. It is explicitly constructed and passed around, never a global, so
// multiple orchestrators under test do not share state.
type Registry struct {
	mu       sync.RWMutex
	sessions map[core.SessionID]*sessionEntry
	players  map[core.SessionID]*domain.Player
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[core.SessionID]*sessionEntry),
		players:  make(map[core.SessionID]*domain.Player),
	}
}

func (r *Registry) GetOrCreatePlayer(sid core.SessionID) *domain.Player {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.players[sid]; ok {
		return p
	}
	p := domain.NewPlayer(domain.PlayerID(sid))
	r.players[sid] = p
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("created new player")
	return p
}

func (r *Registry) BindSignal(sid core.SessionID, sess core.MemberSession, cancel context.CancelFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[sid] = &sessionEntry{Session: sess, Cancel: cancel}
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("bound signal")
}

func (r *Registry) GetSession(sid core.SessionID) (core.MemberSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.sessions[sid]; ok {
		return e.Session, true
	}
	return nil, false
}

// Unbind drops the transport binding. Player meta survives so a reconnect
// under the same client token keeps its name.
func (r *Registry) Unbind(sid core.SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sid)
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("unbind session")
}

// LobbyOf reports the lobby a session currently occupies, if any.
func (r *Registry) LobbyOf(sid core.SessionID) (domain.LobbyName, core.MemberSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.sessions[sid]
	if !ok || entry.Lobby == "" {
		return "", nil, false
	}
	return entry.Lobby, entry.Session, true
}

func (r *Registry) UpdateLobby(sid core.SessionID, name domain.LobbyName) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.sessions[sid]
	if !ok {
		return false
	}
	entry.Lobby = name
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Str("lobby", string(name)).Msg("updated lobby")
	return true
}

func (r *Registry) ClearLobby(sid core.SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry, ok := r.sessions[sid]; ok {
		entry.Lobby = ""
	}
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("cleared lobby association")
}

func (r *Registry) Cancel(sid core.SessionID) bool {
	r.mu.RLock()
	e, ok := r.sessions[sid]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	if e.Cancel != nil {
		e.Cancel()
	}
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("canceled session")
	return true
}

func (r *Registry) SessionCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
