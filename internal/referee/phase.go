package referee

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/osu-autoref/internal/lobby"
	"github.com/mauv0809/osu-autoref/internal/match"
	"github.com/mauv0809/osu-autoref/internal/pool"
	"github.com/mauv0809/osu-autoref/internal/pubsub"
	"github.com/mauv0809/osu-autoref/internal/score"
)

// handleEvent processes one lobby event to completion.
func (r *Referee) handleEvent(ev lobby.Event) {
	switch e := ev.(type) {
	case lobby.PlayerJoined:
		r.onPlayerJoined(e)
	case lobby.PlayerLeft:
		r.onPlayerLeft(e)
	case lobby.AllPlayersReady:
		r.onAllReady()
	case lobby.GameStarted:
		r.onGameStarted()
	case lobby.GameFinished:
		r.onGameFinished(e)
	case lobby.TimerExpired:
		r.onTimerExpired()
	case lobby.ChatMessage:
		r.onChat(e)
	case lobby.Synced:
		r.onSynced()
	case lobby.Closed:
		log.Info("Lobby closed")
		r.done = true
	default:
		log.Warn("Unhandled lobby event", "type", fmt.Sprintf("%T", ev))
	}
}

func (r *Referee) onTimerExpired() {
	st := r.state
	if !st.AutoReferee {
		log.Debug("Timer ended with auto referee off", "phase", st.Phase)
		return
	}
	r.metrics.IncTimersExpired(st.Phase.String())

	if st.TimeoutRunning {
		st.TimeoutRunning = false
		log.Info("Timeout over", "phase", st.Phase)
		r.say("The timeout is over.")
		r.resumePhase()
		return
	}
	if st.TimeoutPending && (st.Phase == Banning || st.Phase == Picking || st.Phase == WaitingForStart) {
		st.TimeoutPending = false
		st.TimeoutRunning = true
		log.Info("Timeout given", "phase", st.Phase)
		r.say(fmt.Sprintf("Timeout! Play resumes in %s.", seconds(r.settings.Timers.Timeout)))
		r.check("StartTimer", r.lobby.StartTimer(r.settings.Timers.Timeout))
		return
	}

	switch st.Phase {
	case Banning:
		late := st.BanningTeam
		st.BanningTeam = late.Other()
		st.BanTimerExpired = true
		log.Info("Ban timer ran out", "team", r.teamName(late))
		r.say(fmt.Sprintf("Time has run out for %s.", r.teamName(late)))
		r.promptBan()
	case Picking:
		late := st.PickingTeam
		st.PickingTeam = late.Other()
		st.PickTimerExpired = true
		log.Info("Pick timer ran out", "team", r.teamName(late))
		r.say(fmt.Sprintf("Time has run out for %s.", r.teamName(late)))
		r.promptPick()
	case WaitingForStart:
		if st.TiebreakerPending {
			return
		}
		log.Info("Players weren't ready after the timer ran out. Forcing start.")
		r.check("StartMatch", r.lobby.StartMatch(r.settings.Timers.ForceStart))
	default:
		log.Debug("Timer ended with nothing to do", "phase", st.Phase)
	}
}

func (r *Referee) onAllReady() {
	st := r.state
	if !st.AutoReferee || st.Phase != WaitingForStart {
		log.Debug("All players ready, not starting", "phase", st.Phase, "auto", st.AutoReferee)
		return
	}
	if st.TiebreakerPending {
		log.Debug("All players ready, tiebreaker map not selected yet")
		return
	}
	if expected := r.settings.ExpectedPlayers(); st.PlayersPresent < expected {
		log.Info("All players ready but some are missing", "present", st.PlayersPresent, "expected", expected)
		return
	}
	r.check("AbortTimer", r.lobby.AbortTimer())
	r.check("StartMatch", r.lobby.StartMatch(r.settings.Timers.ReadyStart))
}

func (r *Referee) onGameStarted() {
	st := r.state
	log.Info("Game started", "map", st.CurrentMap)
	if st.Phase == Complete {
		return
	}
	st.MatchStartedAt = r.now()
	r.setPhase(Playing)
}

// aggregate sums the team scores of a finished game. Fails count.
func (r *Referee) aggregate(scores []match.PlayerScore) (red, blue int64) {
	for _, s := range scores {
		side := s.Side
		if !side.Valid() {
			side = r.rosterSide(s.Name)
		}
		switch side {
		case match.Red:
			red += s.Score
		case match.Blue:
			blue += s.Score
		default:
			log.Warn("Ignoring score of player without a team", "player", s.Name, "score", s.Score)
		}
	}
	return red, blue
}

func (r *Referee) onGameFinished(e lobby.GameFinished) {
	st := r.state
	if !st.AutoReferee {
		log.Info("Game finished with auto referee off", "scores", len(e.Scores))
		if st.Phase == Playing {
			r.setPhase(Idle)
		}
		return
	}
	if st.Phase != Playing {
		log.Warn("Ignoring finished game outside of play", "phase", st.Phase, "scores", len(e.Scores))
		return
	}

	red, blue := r.aggregate(e.Scores)
	diff := red - blue
	winner, ok := st.Score.Apply(diff)
	if ok {
		if diff < 0 {
			diff = -diff
		}
		r.say(fmt.Sprintf("%s wins by %d", r.teamName(winner), diff))
		r.metrics.IncRoundsPlayed(winner.Colour())
	} else {
		r.say("It was a tie!")
		r.metrics.IncRoundsPlayed("tie")
	}
	log.Info("Round finished", "map", st.CurrentMap, "red", red, "blue", blue, "winner", winner)
	r.printScore()

	// An expired pick timer already handed the pick to the other team.
	if !st.PickTimerExpired {
		st.PickingTeam = st.PickingTeam.Other()
	}
	st.PickTimerExpired = false
	r.publish(pubsub.EventRoundFinished, pubsub.MatchEvent{Code: st.CurrentMap, Winner: r.teamName(winner)})

	outcome, side := st.Score.Evaluate()
	switch outcome {
	case score.Winner:
		r.setPhase(Complete)
		log.Info("Match complete", "winner", r.teamName(side))
		r.say(fmt.Sprintf("%s has won the match!", r.teamName(side)))
		r.publish(pubsub.EventMatchCompleted, pubsub.MatchEvent{Winner: r.teamName(side)})
	case score.Tiebreaker:
		r.say("It's time for the tiebreaker!")
		st.TiebreakerPending = true
		r.setPhase(WaitingForStart)
		r.check("RequestSync", r.lobby.RequestSync())
	default:
		r.setPhase(r.nextCyclePhase())
		r.resumePhase()
	}
}

// onSynced selects the tiebreaker once the lobby has caught up with the
// previous game.
func (r *Referee) onSynced() {
	st := r.state
	if !st.TiebreakerPending {
		log.Debug("Lobby synced")
		return
	}
	st.TiebreakerPending = false
	entry, ok := r.pool.Lookup(r.settings.Tiebreaker)
	if !ok {
		log.Error("Tiebreaker map is not in the pool", "code", r.settings.Tiebreaker)
		r.say("No tiebreaker map is configured, a referee has to select it.")
		alert := r.alert("", "tiebreaker map "+r.settings.Tiebreaker+" is not in the pool")
		r.sendAlert(func(ctx context.Context) error { return r.notifier.SendFailureAlert(ctx, alert) })
		return
	}
	r.selectMap(entry)
	if st.AutoReferee && st.Phase == WaitingForStart {
		r.promptReady()
	}
}

func (r *Referee) onChat(e lobby.ChatMessage) {
	text := strings.TrimSpace(e.Text)
	log.Debug("Chat", "sender", e.Sender, "text", text)

	if r.isPanic(text) {
		r.triggerPanic(e.Sender)
		return
	}
	if strings.HasPrefix(text, r.settings.CommandPrefix) {
		if !r.isTrusted(e.Sender) {
			log.Warn("Ignoring command from untrusted sender", "sender", e.Sender, "text", text)
			return
		}
		if _, err := r.execute(e.Sender, strings.TrimPrefix(text, r.settings.CommandPrefix)); err != nil {
			log.Warn("Command failed", "sender", e.Sender, "text", text, "error", err)
		}
		return
	}
	r.trySelect(e.Sender, text)
}

// trySelect treats chat from the team whose turn it is as a ban or pick.
func (r *Referee) trySelect(sender, text string) {
	st := r.state
	if !st.AutoReferee {
		return
	}
	var side match.Side
	switch st.Phase {
	case Banning:
		side = st.BanningTeam
	case Picking:
		side = st.PickingTeam
	default:
		return
	}
	if !r.settings.Teams[side].HasMember(sender) {
		return
	}

	entry, err := r.pool.Resolve(text, false, st)
	switch {
	case err == nil:
	case errors.Is(err, pool.ErrAlreadyBanned):
		r.say(entry.Code + " is already banned.")
		return
	case errors.Is(err, pool.ErrAlreadyPicked):
		r.say(entry.Code + " was already picked.")
		return
	default:
		log.Debug("Chat did not select a map", "sender", sender, "reason", err)
		return
	}
	if r.isTiebreaker(entry.Code) {
		r.say("The tiebreaker cannot be banned or picked.")
		return
	}

	if st.Phase == Banning {
		r.ban(side, entry)
	} else {
		r.pick(side, entry, true)
	}
}
