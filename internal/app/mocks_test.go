package app

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/sketchspy/sketchspy/internal/core"
	"github.com/sketchspy/sketchspy/internal/domain"
)

type fakeConn struct {
	mu     sync.Mutex
	frames []core.Frame
	fail   bool
}

func (c *fakeConn) TrySend(f core.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return errors.New("backpressure")
	}
	c.frames = append(c.frames, f)
	return nil
}

func (c *fakeConn) Close() {}

func (c *fakeConn) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.frames)
}

// last decodes the most recent frame into a generic map.
func (c *fakeConn) last() map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.frames) == 0 {
		return nil
	}
	var out map[string]any
	if err := json.Unmarshal(c.frames[len(c.frames)-1], &out); err != nil {
		return nil
	}
	return out
}

// bindMember registers a player with the registry, binds a fake transport and
// drops the member into the lobby, mirroring what join does in production.
func bindMember(reg *Registry, lobby core.LobbyService, id string) (core.SessionID, *fakeConn) {
	sid := core.SessionID(id)
	conn := &fakeConn{}
	player := reg.GetOrCreatePlayer(sid)
	sess := core.NewMemberSession(player, conn)
	reg.BindSignal(sid, sess, nil)
	if lobby != nil {
		lobby.AddMember(sid, sess)
		reg.UpdateLobby(sid, lobby.Name())
	}
	return sid, conn
}

func testSettings() domain.Settings {
	s := domain.DefaultSettings()
	s.Normalize()
	return s
}
