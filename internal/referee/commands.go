package referee

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/osu-autoref/internal/match"
	"github.com/mauv0809/osu-autoref/internal/pubsub"
	"github.com/mauv0809/osu-autoref/internal/score"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrBadArguments   = errors.New("bad arguments")
	ErrNoBansLeft     = errors.New("no bans remaining")
	ErrMapTaken       = errors.New("map already banned or picked")
	ErrMatchComplete  = errors.New("match is complete")
)

// execute runs an operator command given without its prefix. The returned text
// summarises the effect for callers outside the lobby.
func (r *Referee) execute(sender, line string) (string, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", fmt.Errorf("%w: empty command", ErrUnknownCommand)
	}
	verb := strings.ToLower(fields[0])
	args := fields[1:]
	log.Info("Received command", "verb", verb, "sender", sender, "args", args)

	var (
		reply string
		err   error
	)
	switch verb {
	case "close":
		reply = r.cmdClose()
	case "invite":
		reply = r.cmdInvite()
	case "addref":
		reply, err = r.cmdAddRef(args)
	case "map":
		reply, err = r.cmdMap(args)
	case "forcepick":
		reply, err = r.cmdForcePick(args)
	case "forceban":
		reply, err = r.cmdForceBan(args)
	case "score":
		reply, err = r.cmdScore(args)
	case "auto":
		reply, err = r.cmdAuto(args)
	case "picking":
		reply, err = r.cmdPicking(args)
	case "banning":
		reply, err = r.cmdBanning(args)
	case "ping":
		r.say("pong")
		reply = "pong"
	case "timeout":
		reply = r.cmdTimeout()
	case "abort":
		reply = r.cmdAbort()
	case "remind":
		reply, err = r.cmdRemind(args)
	default:
		log.Warn("Unrecognized command", "verb", verb, "sender", sender)
		return "", fmt.Errorf("%w: %q", ErrUnknownCommand, verb)
	}
	if err != nil {
		return "", err
	}
	r.metrics.IncCommands(verb)
	return reply, nil
}

func (r *Referee) cmdClose() string {
	log.Info("Closing lobby")
	r.say("Closing the lobby.")
	r.check("Close", r.lobby.Close())
	r.done = true
	return "lobby closed"
}

func (r *Referee) cmdInvite() string {
	n := 0
	for _, team := range r.settings.Teams {
		for _, member := range team.Members {
			if r.check("InvitePlayer", r.lobby.InvitePlayer(member)) {
				n++
			}
		}
	}
	return fmt.Sprintf("invited %d players", n)
}

func (r *Referee) cmdAddRef(args []string) (string, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("%w: addref <name>...", ErrBadArguments)
	}
	r.addTrusted(args...)
	r.check("AddRefs", r.lobby.AddRefs(args...))
	return "added referees: " + strings.Join(args, ", "), nil
}

func (r *Referee) cmdMap(args []string) (string, error) {
	if r.state.Phase == Complete {
		return "", ErrMatchComplete
	}
	entry, err := r.pool.Resolve(strings.Join(args, " "), true, r.state)
	if err != nil {
		r.say("No map matches " + strings.Join(args, " "))
		return "", err
	}
	r.selectMap(entry)
	return "selected " + entry.Code, nil
}

func (r *Referee) cmdForcePick(args []string) (string, error) {
	st := r.state
	if st.Phase == Complete {
		return "", ErrMatchComplete
	}
	entry, err := r.pool.Resolve(strings.Join(args, " "), true, st)
	if err != nil {
		r.say("No map matches " + strings.Join(args, " "))
		return "", err
	}
	record := !st.IsBanned(entry.Code) && !st.IsPicked(entry.Code) && !r.isTiebreaker(entry.Code)
	r.pick(st.PickingTeam, entry, record)
	return fmt.Sprintf("%s picked for %s", entry.Code, r.teamName(st.PickingTeam)), nil
}

func (r *Referee) cmdForceBan(args []string) (string, error) {
	st := r.state
	if st.BansRemaining <= 0 {
		r.say("There are no bans left.")
		return "", ErrNoBansLeft
	}
	entry, err := r.pool.Resolve(strings.Join(args, " "), true, st)
	if err != nil {
		r.say("No map matches " + strings.Join(args, " "))
		return "", err
	}
	if st.IsBanned(entry.Code) || st.IsPicked(entry.Code) || r.isTiebreaker(entry.Code) {
		r.say(entry.Code + " cannot be banned.")
		return "", fmt.Errorf("%w: %s", ErrMapTaken, entry.Code)
	}
	side := st.BanningTeam
	r.ban(side, entry)
	return fmt.Sprintf("%s banned for %s", entry.Code, r.teamName(side)), nil
}

func (r *Referee) cmdScore(args []string) (string, error) {
	if len(args) != 2 {
		return "", fmt.Errorf("%w: score <red> <blue>", ErrBadArguments)
	}
	red, err := strconv.Atoi(args[0])
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadArguments, err)
	}
	blue, err := strconv.Atoi(args[1])
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadArguments, err)
	}
	st := r.state
	if err := st.Score.Set(red, blue); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadArguments, err)
	}
	log.Info("Score overridden", "red", red, "blue", blue)
	r.printScore()

	outcome, side := st.Score.Evaluate()
	switch {
	case outcome == score.Winner && st.Phase != Complete:
		r.setPhase(Complete)
		r.say(fmt.Sprintf("%s has won the match!", r.teamName(side)))
		r.publish(pubsub.EventMatchCompleted, pubsub.MatchEvent{Winner: r.teamName(side)})
	case outcome != score.Winner && st.Phase == Complete:
		// Reopened by a correction; automation resumes with "auto on".
		r.setPhase(Idle)
	}
	return fmt.Sprintf("score is %d-%d", red, blue), nil
}

func (r *Referee) cmdAuto(args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("%w: auto on|off", ErrBadArguments)
	}
	mode := strings.ToLower(args[0])
	if mode != "on" && mode != "off" {
		return "", fmt.Errorf("%w: auto on|off", ErrBadArguments)
	}
	st := r.state
	st.AutoReferee = mode == "on"
	if st.AutoReferee {
		r.say("Auto referee is ON")
	} else {
		r.say("Auto referee is OFF")
	}
	log.Info("Auto referee toggled", "enabled", st.AutoReferee, "phase", st.Phase)

	if st.AutoReferee {
		switch st.Phase {
		case Idle, Banning, Picking:
			r.setPhase(r.nextCyclePhase())
			r.resumePhase()
		case WaitingForStart:
			r.resumePhase()
		}
	}
	return "auto referee " + mode, nil
}

func (r *Referee) cmdPicking(args []string) (string, error) {
	side := r.parseSide(strings.Join(args, " "))
	if !side.Valid() {
		return "", fmt.Errorf("%w: picking red|blue|<team>", ErrBadArguments)
	}
	st := r.state
	st.PickingTeam = side
	st.PickTimerExpired = false
	r.say(r.teamName(side) + " is picking.")
	if st.AutoReferee && st.Phase == Picking {
		r.promptPick()
	}
	return r.teamName(side) + " is picking", nil
}

func (r *Referee) cmdBanning(args []string) (string, error) {
	side := r.parseSide(strings.Join(args, " "))
	if !side.Valid() {
		return "", fmt.Errorf("%w: banning red|blue|<team>", ErrBadArguments)
	}
	st := r.state
	st.BanningTeam = side
	if st.FirstBanningTeam.Valid() {
		st.FirstBanningTeam = anchorFor(r.settings.BanOrder, side, st.BansDone)
	}
	r.say(r.teamName(side) + " is banning.")
	if st.AutoReferee && st.Phase == Banning {
		r.promptBan()
	}
	return r.teamName(side) + " is banning", nil
}

func (r *Referee) cmdTimeout() string {
	r.state.TimeoutPending = true
	r.say(fmt.Sprintf("An additional %s of timeout has been given.", seconds(r.settings.Timers.Timeout)))
	r.say("It will be added after the current timer ends.")
	return "timeout queued"
}

func (r *Referee) cmdAbort() string {
	r.check("AbortMatch", r.lobby.AbortMatch())
	r.say("Match aborted manually.")
	if r.state.Phase == Playing {
		r.setPhase(WaitingForStart)
	}
	return "game aborted"
}

func (r *Referee) cmdRemind(args []string) (string, error) {
	what := "all"
	if len(args) > 0 {
		what = strings.ToLower(args[0])
	}
	st := r.state
	lines := map[string]string{
		"bans":  fmt.Sprintf("Bans: %s: %s | %s: %s", r.teamName(match.Red), list(st.Banned[match.Red]), r.teamName(match.Blue), list(st.Banned[match.Blue])),
		"picks": fmt.Sprintf("Picks: %s: %s | %s: %s", r.teamName(match.Red), list(st.Picked[match.Red]), r.teamName(match.Blue), list(st.Picked[match.Blue])),
		"maps":  "Remaining maps: " + list(st.Remaining),
	}
	switch what {
	case "picks", "bans", "maps":
		r.say(lines[what])
	case "score":
		r.printScore()
	case "all":
		r.say(lines["picks"])
		r.say(lines["bans"])
		r.printScore()
		r.say(lines["maps"])
	default:
		return "", fmt.Errorf("%w: remind [picks|bans|score|maps|all]", ErrBadArguments)
	}
	return "reminded " + what, nil
}

func list(codes []string) string {
	if len(codes) == 0 {
		return "none"
	}
	return strings.Join(codes, ", ")
}

func (r *Referee) isPanic(text string) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	t = strings.TrimSpace(strings.TrimPrefix(t, r.settings.CommandPrefix))
	return t == strings.ToLower(r.settings.PanicKeyword)
}

// triggerPanic hands the lobby back to a human. Automation is off and the
// alert is sent even when the aborts fail.
func (r *Referee) triggerPanic(sender string) {
	st := r.state
	log.Warn("Panic called", "sender", sender, "phase", st.Phase)
	r.metrics.IncPanics()
	st.AutoReferee = false

	if st.Phase == Playing {
		r.check("AbortTimer", r.lobby.AbortTimer())
		if r.withinLeniency() {
			r.check("AbortMatch", r.lobby.AbortMatch())
			r.setPhase(WaitingForStart)
		}
	}
	r.say("Panic called! Auto referee is OFF and a referee has been notified.")

	alert := r.alert(sender, "panic")
	r.sendAlert(func(ctx context.Context) error {
		return r.notifier.SendPanicAlert(ctx, alert)
	})
	r.publish(pubsub.EventPanic, pubsub.MatchEvent{Sender: sender})
}
