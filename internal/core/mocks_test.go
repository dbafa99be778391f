package core

import (
	"errors"
	"sync"

	"github.com/sketchspy/sketchspy/internal/domain"
)

// fakeConn records every frame it is handed; flip fail to simulate a member
// whose send buffer is full.
type fakeConn struct {
	mu     sync.Mutex
	frames []Frame
	fail   bool
}

func (c *fakeConn) TrySend(f Frame) error {
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

func newTestMember(id string) (SessionID, MemberSession, *fakeConn) {
	conn := &fakeConn{}
	player := domain.NewPlayer(domain.PlayerID(id))
	return SessionID(id), NewMemberSession(player, conn), conn
}
