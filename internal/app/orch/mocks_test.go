package orch

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sketchspy/sketchspy/internal/app"
	"github.com/sketchspy/sketchspy/internal/config"
	"github.com/sketchspy/sketchspy/internal/core"
	"github.com/sketchspy/sketchspy/internal/domain"
	"github.com/sketchspy/sketchspy/internal/metrics"
	"github.com/sketchspy/sketchspy/internal/prompt"
)

// fakeConn decodes every outbound frame so tests can assert on the event
// stream. onFrame runs synchronously from TrySend and is how test players
// answer ready checks and guesses.
type fakeConn struct {
	mu      sync.Mutex
	decoded []map[string]any
	fail    bool
	onFrame func(typ string, frame map[string]any)
}

func (c *fakeConn) TrySend(f core.Frame) error {
	c.mu.Lock()
	if c.fail {
		c.mu.Unlock()
		return errors.New("backpressure")
	}
	var frame map[string]any
	if err := json.Unmarshal(f, &frame); err != nil {
		c.mu.Unlock()
		return err
	}
	c.decoded = append(c.decoded, frame)
	cb := c.onFrame
	c.mu.Unlock()

	typ, _ := frame["type"].(string)
	if cb != nil {
		cb(typ, frame)
	}
	return nil
}

func (c *fakeConn) Close() {}

func (c *fakeConn) ofType(typ string) []map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []map[string]any
	for _, frame := range c.decoded {
		if frame["type"] == typ {
			out = append(out, frame)
		}
	}
	return out
}

func (c *fakeConn) hasType(typ string) bool {
	return len(c.ofType(typ)) > 0
}

type gameEnv struct {
	t       *testing.T
	o       *Orchestrator
	reg     *app.Registry
	lobbies *app.LobbyManagerImpl
}

func newGameEnv(t *testing.T) *gameEnv {
	t.Helper()
	cfg := config.Default()
	cfg.ReadyTimeout = 100 * time.Millisecond
	cfg.RoundPause = time.Millisecond

	reg := app.NewRegistry()
	lobbies := app.NewLobbyManager(core.NewSeededSelector(11))
	o := &Orchestrator{
		Registry: reg,
		Lobbies:  lobbies,
		Acks:     app.NewAckBroker(),
		Relay:    app.NewDrawRelay(reg, lobbies),
		Prompts:  prompt.NewGenerator(core.NewSeededSelector(5)),
		Policy:   app.SimplePolicy{},
		Cfg:      cfg,
		Metrics:  metrics.New(),
	}
	// Timed phases finish instantly so a full game runs in microseconds.
	o.wait = func(ctx context.Context, d time.Duration) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			return nil
		}
	}
	return &gameEnv{t: t, o: o, reg: reg, lobbies: lobbies}
}

func (e *gameEnv) connect(id string) *fakeConn {
	sid := core.SessionID(id)
	conn := &fakeConn{}
	player := e.reg.GetOrCreatePlayer(sid)
	e.reg.BindSignal(sid, core.NewMemberSession(player, conn), nil)
	return conn
}

func (e *gameEnv) joinNamed(lobby domain.LobbyName, id, name string) *fakeConn {
	e.t.Helper()
	conn := e.connect(id)
	require.NoError(e.t, e.o.JoinLobby(core.SessionID(id), lobby))
	require.NoError(e.t, e.o.NamePlayer(core.SessionID(id), lobby, name))
	return conn
}

// autoPlay wires a scripted player: acks the ready check when ready, and
// answers every guess request with guess (empty means stay silent).
func (e *gameEnv) autoPlay(conn *fakeConn, ready bool, guess string) {
	conn.onFrame = func(typ string, frame map[string]any) {
		id, _ := frame["id"].(string)
		switch typ {
		case "readyCheck":
			if ready {
				e.o.Acks.Resolve(id, nil)
			}
		case "guessImposter":
			if guess != "" {
				payload, _ := json.Marshal(guessAnswer{Guess: guess})
				e.o.Acks.Resolve(id, payload)
			}
		}
	}
}

// quickSettings keeps the timed phases at millisecond scale.
func quickSettings() domain.Settings {
	return domain.Settings{
		TurnLength:    time.Millisecond,
		GuessTime:     100 * time.Millisecond,
		ImposterCount: 1,
		Rounds:        1,
		Difficulty:    domain.DifficultyEasy,
	}
}
