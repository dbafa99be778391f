package orch

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/sketchspy/sketchspy/internal/app"
	"github.com/sketchspy/sketchspy/internal/core"
	"github.com/sketchspy/sketchspy/internal/domain"
	"github.com/sketchspy/sketchspy/internal/prompt"
)

// StartGame drives one full game for the lobby: ready check, role
// assignment, the round loop and the post-game reset. It blocks until the
// game ends and must not be invoked twice concurrently for one lobby; a
// second call while one is in flight is rejected.
func (o *Orchestrator) StartGame(ctx context.Context, name domain.LobbyName) error {
	lobby, ok := o.Lobbies.Get(name)
	if !ok {
		return app.ErrLobbyNotFound
	}
	if lobby.MemberCount() < o.Cfg.MinimumPlayers {
		return app.ErrNotEnoughPlayers
	}
	if !o.tryAcquire(name) {
		return app.ErrGameInProgress
	}
	defer o.release(name)

	logger := log.With().Str("module", "orch.game").Str("lobby", string(name)).Logger()

	if err := o.readyCheck(ctx, lobby); err != nil {
		logger.Warn().Err(err).Msg("ready check failed, aborting start")
		return err
	}
	logger.Info().Msg("all players ready, game starting")
	o.Metrics.GameStarted()

	o.publish(lobby, playersInLobbyEvent{Type: "playersInLobby", Players: lobby.Names()})
	o.publish(lobby, typeOnlyEvent{Type: "startGame"})

	// Roles from a previous game must not leak into this one.
	lobby.ResetRoles()
	settings := lobby.Settings()
	imposters := lobby.PickImposters(settings.ImposterCount)
	o.sendRoles(lobby)

	foundSIDs := make(map[core.SessionID]bool, len(imposters))
	foundNames := make([]string, 0, len(imposters))

	for round := 1; round <= settings.Rounds; round++ {
		logger.Info().Int("round", round).Msg("round starting")
		o.publish(lobby, startRoundEvent{Type: "startRound", Round: round, Rounds: settings.Rounds})

		o.sendPrompts(lobby, settings)

		if err := o.drawPhase(ctx, lobby, settings); err != nil {
			logger.Warn().Err(err).Msg("game cancelled mid draw phase")
			break
		}

		accused, count := o.votePhase(ctx, lobby, settings)
		o.publish(lobby, votingFinishedEvent{Type: "votingFinished", Name: accused, Count: count})

		// Debrief: an imposter cannot be found twice to inflate the tally.
		if snap, ok := lobby.SessionByName(accused); ok {
			if snap.Session.Player().Role() == domain.RoleImposter && !foundSIDs[snap.SID] {
				foundSIDs[snap.SID] = true
				foundNames = append(foundNames, accused)
				logger.Info().Str("accused", accused).Msg("imposter found")
			}
		}

		o.publish(lobby, typeOnlyEvent{Type: "endRound"})
		if round < settings.Rounds {
			if err := o.sleep(ctx, o.Cfg.RoundPause); err != nil {
				break
			}
		}
	}

	o.postGame(lobby, imposters, foundSIDs, foundNames, &logger)
	return nil
}

// readyCheck broadcasts a readiness request to every current member; each
// must acknowledge before the deadline. A single missed ack fails the whole
// step, with no partial quorum and no per-member retry.
func (o *Orchestrator) readyCheck(ctx context.Context, lobby core.LobbyService) error {
	members := lobby.Members()
	ids := make([]string, 0, len(members))
	acked := make(chan struct{}, len(members))
	done := make(chan struct{})
	defer close(done)

	for _, snap := range members {
		id, ch := o.Acks.Expect()
		ids = append(ids, id)
		o.unicast(snap.Session, readyCheckEvent{Type: "readyCheck", ID: id})
		go func(ch <-chan json.RawMessage) {
			select {
			case <-ch:
				select {
				case acked <- struct{}{}:
				case <-done:
				}
			case <-done:
			}
		}(ch)
	}

	timer := time.NewTimer(o.Cfg.ReadyTimeout)
	defer timer.Stop()

	for remaining := len(members); remaining > 0; {
		select {
		case <-acked:
			remaining--
		case <-timer.C:
			for _, id := range ids {
				o.Acks.Cancel(id)
			}
			return app.ErrReadyCheckFailed
		case <-ctx.Done():
			for _, id := range ids {
				o.Acks.Cancel(id)
			}
			return ctx.Err()
		}
	}
	return nil
}

// sendRoles tells every real member their role and gives each imposter the
// full co-imposter name list; reals never see that list.
func (o *Orchestrator) sendRoles(lobby core.LobbyService) {
	imposterNames := lobby.ImposterNames()
	for _, snap := range lobby.Members() {
		role := snap.Session.Player().Role()
		o.unicast(snap.Session, roleEvent{Type: "role", Role: role})
		if role == domain.RoleImposter {
			o.unicast(snap.Session, imposterListEvent{Type: "imposterList", Imposters: imposterNames})
		}
	}
}

// sendPrompts distributes per-connection because content differs by role.
func (o *Orchestrator) sendPrompts(lobby core.LobbyService, settings domain.Settings) {
	text := o.Prompts.Generate(settings)
	for _, snap := range lobby.Members() {
		p := text
		if snap.Session.Player().Role() == domain.RoleImposter {
			p = prompt.ImposterPrompt
		}
		o.unicast(snap.Session, promptEvent{Type: "prompt", Prompt: p})
	}
}

// drawPhase walks a fresh random turn order strictly sequentially: grant
// draw permission, announce the turn, wait the fixed turn length, revoke.
// Members who left mid-phase are skipped.
func (o *Orchestrator) drawPhase(ctx context.Context, lobby core.LobbyService, settings domain.Settings) error {
	order := lobby.RandomOrder()
	for _, snap := range order {
		if !lobby.Contains(snap.SID) {
			continue
		}
		p := snap.Session.Player()
		p.AllowDraw(true)
		o.publish(lobby, startTurnAllEvent{Type: "startTurnAll", Name: p.DisplayName(), Seconds: settings.TurnLengthSec})
		o.unicast(snap.Session, startTurnEvent{Type: "startTurn", Seconds: settings.TurnLengthSec})

		err := o.sleep(ctx, settings.TurnLength)

		p.AllowDraw(false)
		o.unicast(snap.Session, typeOnlyEvent{Type: "endTurn"})
		if err != nil {
			return err
		}
	}
	if o.Cfg.ClearOnEnd {
		o.publish(lobby, typeOnlyEvent{Type: "clearCanvas"})
	}
	return nil
}

// votePhase asks every current member for a name-guess and tallies the
// responses. Missing votes are simply not counted. Ties break to the first
// guess in response-arrival order that holds the maximum count.
func (o *Orchestrator) votePhase(ctx context.Context, lobby core.LobbyService, settings domain.Settings) (string, int) {
	members := lobby.Members()
	ids := make([]string, 0, len(members))
	responses := make(chan json.RawMessage, len(members))
	done := make(chan struct{})
	defer close(done)

	for _, snap := range members {
		id, ch := o.Acks.Expect()
		ids = append(ids, id)
		o.unicast(snap.Session, guessImposterEvent{Type: "guessImposter", ID: id, Seconds: settings.GuessTimeSec})
		go func(ch <-chan json.RawMessage) {
			select {
			case payload := <-ch:
				select {
				case responses <- payload:
				case <-done:
				}
			case <-done:
			}
		}(ch)
	}

	timer := time.NewTimer(settings.GuessTime)
	defer timer.Stop()

	votes := make([]string, 0, len(members))
collect:
	for remaining := len(members); remaining > 0; {
		select {
		case payload := <-responses:
			remaining--
			var ans guessAnswer
			if err := json.Unmarshal(payload, &ans); err != nil || ans.Guess == "" {
				continue
			}
			votes = append(votes, ans.Guess)
		case <-timer.C:
			break collect
		case <-ctx.Done():
			break collect
		}
	}
	for _, id := range ids {
		o.Acks.Cancel(id)
	}
	return tally(votes)
}

// tally counts votes by guessed name; the winner is the first vote in
// arrival order whose total equals the maximum.
func tally(votes []string) (string, int) {
	if len(votes) == 0 {
		return "", 0
	}
	counts := make(map[string]int, len(votes))
	max := 0
	for _, v := range votes {
		counts[v]++
		if counts[v] > max {
			max = counts[v]
		}
	}
	for _, v := range votes {
		if counts[v] == max {
			return v, max
		}
	}
	return "", 0
}

// postGame resets every remaining participant to the out-of-game default,
// clears roles, and reports the final outcome: the real side wins iff every
// originally assigned imposter was found.
func (o *Orchestrator) postGame(lobby core.LobbyService, imposters []core.MemberSnap, foundSIDs map[core.SessionID]bool, foundNames []string, logger *zerolog.Logger) {
	winner := domain.RoleImposter
	if len(foundSIDs) == len(imposters) {
		winner = domain.RoleReal
	}

	for _, snap := range lobby.Members() {
		o.outOfGameSetup(snap.Session)
	}
	lobby.ResetRoles()

	o.publish(lobby, endGameEvent{Type: "endGame", ImpostersFound: foundNames, Winner: winner})
	o.Metrics.GameCompleted()
	logger.Info().Str("winner", string(winner)).Strs("imposters_found", foundNames).Msg("game over")
}
