package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/sketchspy/sketchspy/internal/core"
	"github.com/sketchspy/sketchspy/internal/domain"
)

// LobbyManagerImpl enforces process-wide lobby name uniqueness. Creating does
// not auto-join the creator; joining is a separate explicit step.
type LobbyManagerImpl struct {
	sel *core.Selector

	mu      sync.RWMutex
	lobbies map[domain.LobbyName]core.LobbyService
}

func NewLobbyManager(sel *core.Selector) *LobbyManagerImpl {
	if sel == nil {
		sel = core.NewSelector()
	}
	return &LobbyManagerImpl{sel: sel, lobbies: make(map[domain.LobbyName]core.LobbyService)}
}

func (m *LobbyManagerImpl) Create(name domain.LobbyName, settings domain.Settings, size int) (core.LobbyService, error) {
	settings.Normalize()
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.lobbies[name]; ok {
		return nil, ErrLobbyExists
	}
	lobby := core.NewLobbyService(name, settings, size, m.sel)
	m.lobbies[name] = lobby
	log.Info().Str("module", "app.lobbies").Str("lobby", string(name)).Int("capacity", lobby.Capacity()).Msg("lobby created")
	return lobby, nil
}

func (m *LobbyManagerImpl) Get(name domain.LobbyName) (core.LobbyService, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	lobby, ok := m.lobbies[name]
	return lobby, ok
}

// Remove deregisters a lobby; removing an unknown name is a no-op.
func (m *LobbyManagerImpl) Remove(name domain.LobbyName) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.lobbies[name]; !ok {
		return
	}
	delete(m.lobbies, name)
	log.Info().Str("module", "app.lobbies").Str("lobby", string(name)).Msg("lobby removed")
}

func (m *LobbyManagerImpl) List() []core.LobbyInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]core.LobbyInfo, 0, len(m.lobbies))
	for name, l := range m.lobbies {
		out = append(out, core.LobbyInfo{Name: name, MemberCount: l.MemberCount(), Capacity: l.Capacity()})
	}
	return out
}
