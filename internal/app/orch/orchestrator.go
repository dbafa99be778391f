// Package orch drives lobby membership and the per-game phase sequence.
package orch

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sketchspy/sketchspy/internal/app"
	"github.com/sketchspy/sketchspy/internal/config"
	"github.com/sketchspy/sketchspy/internal/core"
	"github.com/sketchspy/sketchspy/internal/domain"
	"github.com/sketchspy/sketchspy/internal/metrics"
	"github.com/sketchspy/sketchspy/internal/prompt"
)

type Orchestrator struct {
	Registry *app.Registry
	Lobbies  core.LobbyFactory
	Acks     *app.AckBroker
	Relay    *app.DrawRelay
	Prompts  *prompt.Generator
	Policy   app.Policy
	Cfg      *config.Config
	Metrics  *metrics.Set

	mu      sync.Mutex
	running map[domain.LobbyName]struct{}

	// wait is swapped in tests; nil means a real timer.
	wait func(ctx context.Context, d time.Duration) error
}

func (o *Orchestrator) sleep(ctx context.Context, d time.Duration) error {
	if o.wait != nil {
		return o.wait(ctx, d)
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (o *Orchestrator) tryAcquire(name domain.LobbyName) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.running == nil {
		o.running = make(map[domain.LobbyName]struct{})
	}
	if _, ok := o.running[name]; ok {
		return false
	}
	o.running[name] = struct{}{}
	return true
}

func (o *Orchestrator) release(name domain.LobbyName) {
	o.mu.Lock()
	delete(o.running, name)
	o.mu.Unlock()
}

// GameRunning reports whether a game is in flight for the lobby.
func (o *Orchestrator) GameRunning(name domain.LobbyName) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, ok := o.running[name]
	return ok
}

func (o *Orchestrator) encode(v any) (core.Frame, bool) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Msg("encode event")
		return nil, false
	}
	return core.Frame(b), true
}

func (o *Orchestrator) publish(lobby core.LobbyService, v any) {
	frame, ok := o.encode(v)
	if !ok {
		return
	}
	res := lobby.Publish(frame)
	if len(res.Dropped) > 0 {
		log.Warn().Str("module", "orch").Str("lobby", string(lobby.Name())).Int("dropped", len(res.Dropped)).Msg("publish dropped members")
	}
}

func (o *Orchestrator) unicast(sess core.MemberSession, v any) {
	frame, ok := o.encode(v)
	if !ok {
		return
	}
	if err := sess.Signal().TrySend(frame); err != nil {
		log.Warn().Err(err).Str("module", "orch").Str("player", string(sess.Player().ID())).Msg("unicast dropped")
	}
}

// outOfGameSetup restores the out-of-game draw default for one session.
func (o *Orchestrator) outOfGameSetup(sess core.MemberSession) {
	o.Relay.ReArm(sess, o.Cfg.OutOfGameDrawEnabled)
}
