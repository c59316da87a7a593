package referee

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/osu-autoref/internal/lobby"
	"github.com/mauv0809/osu-autoref/internal/match"
	"github.com/mauv0809/osu-autoref/internal/metrics"
	"github.com/mauv0809/osu-autoref/internal/notifier"
	"github.com/mauv0809/osu-autoref/internal/pool"
	"github.com/mauv0809/osu-autoref/internal/pubsub"
)

const (
	failureAlertInterval = time.Minute
	alertTimeout         = 30 * time.Second
)

// Referee runs one match in one lobby.
type Referee struct {
	settings Settings
	pool     *pool.Pool
	lobby    lobby.Lobby
	notifier notifier.Notifier
	metrics  metrics.Metrics
	pubsub   pubsub.PubSubClient

	state *MatchState
	// trusted holds normalised names allowed to run commands.
	trusted map[string]bool
	refs    []string

	inbox   chan Msg
	stopped chan struct{}
	done    bool

	now       func() time.Time
	lastAlert map[string]time.Time
	alerts    sync.WaitGroup
}

// New creates a referee for the configured match. The tiebreaker map is kept
// out of the pickable maps.
func New(settings Settings, p *pool.Pool, lb lobby.Lobby, n notifier.Notifier, m metrics.Metrics, ps pubsub.PubSubClient) (*Referee, error) {
	settings = settings.WithDefaults()
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid match settings: %w", err)
	}
	if _, ok := p.Lookup(settings.Tiebreaker); !ok {
		log.Warn("Tiebreaker map is not in the pool", "code", settings.Tiebreaker)
	}

	codes := slices.DeleteFunc(p.Codes(), func(c string) bool {
		return strings.EqualFold(c, settings.Tiebreaker)
	})

	r := &Referee{
		settings:  settings,
		pool:      p,
		lobby:     lb,
		notifier:  n,
		metrics:   m,
		pubsub:    ps,
		state:     newState(settings, codes),
		trusted:   make(map[string]bool),
		inbox:     make(chan Msg, 16),
		stopped:   make(chan struct{}),
		now:       time.Now,
		lastAlert: make(map[string]time.Time),
	}
	if settings.Operator != "" {
		r.trusted[match.NormalizeName(settings.Operator)] = true
	}
	r.addTrusted(settings.TrustedPeople...)
	return r, nil
}

func (r *Referee) addTrusted(names ...string) {
	for _, name := range names {
		n := match.NormalizeName(name)
		if n == "" || slices.ContainsFunc(r.refs, func(ref string) bool { return match.NormalizeName(ref) == n }) {
			continue
		}
		r.trusted[n] = true
		r.refs = append(r.refs, name)
	}
}

func (r *Referee) isTrusted(sender string) bool {
	return r.trusted[match.NormalizeName(sender)]
}

func (r *Referee) teamName(side match.Side) string {
	if !side.Valid() {
		return "nobody"
	}
	return r.settings.Teams[side].Name
}

// rosterSide finds the team a player is rostered on.
func (r *Referee) rosterSide(name string) match.Side {
	for _, side := range []match.Side{match.Red, match.Blue} {
		if r.settings.Teams[side].HasMember(name) {
			return side
		}
	}
	return match.NoSide
}

// parseSide accepts a lobby colour or a team name.
func (r *Referee) parseSide(arg string) match.Side {
	if side := match.SideFromColour(arg); side.Valid() {
		return side
	}
	n := match.NormalizeName(arg)
	for _, side := range []match.Side{match.Red, match.Blue} {
		if match.NormalizeName(r.settings.Teams[side].Name) == n {
			return side
		}
	}
	return match.NoSide
}

func (r *Referee) setPhase(p Phase) {
	st := r.state
	if st.Phase == p {
		return
	}
	log.Info("Phase changed", "from", st.Phase, "to", p)
	if p != Banning {
		st.BanTimerExpired = false
	}
	if p == Playing || p == Complete {
		st.TimeoutRunning = false
	}
	if p == Complete {
		st.TimeoutPending = false
		st.TiebreakerPending = false
		st.PickTimerExpired = false
	}
	st.Phase = p
}

// check surfaces a failed lobby call. Alerts are limited to one per operation
// per failureAlertInterval.
func (r *Referee) check(op string, err error) bool {
	if err == nil {
		return true
	}
	log.Error("Lobby call failed", "op", op, "error", err)
	r.metrics.IncLobbyCallFailures(op)

	now := r.now()
	if last, ok := r.lastAlert[op]; ok && now.Sub(last) < failureAlertInterval {
		return false
	}
	r.lastAlert[op] = now
	alert := r.alert("", fmt.Sprintf("%s failed: %v", op, err))
	r.sendAlert(func(ctx context.Context) error {
		return r.notifier.SendFailureAlert(ctx, alert)
	})
	return false
}

func (r *Referee) alert(sender, reason string) notifier.Alert {
	return notifier.Alert{
		Lobby:    r.lobby.Name(),
		Link:     r.lobby.Link(),
		Referees: slices.Clone(r.refs),
		Sender:   sender,
		Reason:   reason,
	}
}

func (r *Referee) sendAlert(send func(ctx context.Context) error) {
	r.alerts.Add(1)
	go func() {
		defer r.alerts.Done()
		ctx, cancel := context.WithTimeout(context.Background(), alertTimeout)
		defer cancel()
		if err := send(ctx); err != nil {
			log.Error("Failed to send alert", "error", err)
		}
	}()
}

func (r *Referee) publish(t pubsub.EventType, ev pubsub.MatchEvent) {
	ev.Lobby = r.lobby.Name()
	ev.Red = r.state.Score.Points(match.Red)
	ev.Blue = r.state.Score.Points(match.Blue)
	if err := r.pubsub.SendMessage(t, ev); err != nil {
		log.Error("Failed to publish match event", "type", t, "error", err)
	}
}

func (r *Referee) say(text string) {
	r.check("SendMessage", r.lobby.SendMessage(text))
}

func seconds(d time.Duration) string {
	return fmt.Sprintf("%ds", int(d.Round(time.Second).Seconds()))
}

func (r *Referee) printScore() {
	st := r.state
	r.say(fmt.Sprintf("%s %d -- %d %s",
		r.teamName(match.Red), st.Score.Points(match.Red),
		st.Score.Points(match.Blue), r.teamName(match.Blue)))
}

func (r *Referee) promptBan() {
	r.say(fmt.Sprintf("%s, you have %s to ban a map.", r.teamName(r.state.BanningTeam), seconds(r.settings.Timers.BanWait)))
	r.check("StartTimer", r.lobby.StartTimer(r.settings.Timers.BanWait))
}

func (r *Referee) promptPick() {
	if len(r.state.Remaining) == 0 {
		log.Warn("No maps left to pick")
		r.say("There are no maps left to pick, a referee has to choose the next one.")
		return
	}
	r.say(fmt.Sprintf("%s, you have %s to pick the next map.", r.teamName(r.state.PickingTeam), seconds(r.settings.Timers.PickWait)))
	r.check("StartTimer", r.lobby.StartTimer(r.settings.Timers.PickWait))
}

func (r *Referee) promptReady() {
	r.say(fmt.Sprintf("You have %s to ready up.", seconds(r.settings.Timers.ReadyUp)))
	r.check("StartTimer", r.lobby.StartTimer(r.settings.Timers.ReadyUp))
}

// resumePhase prompts whoever the current phase is waiting for.
func (r *Referee) resumePhase() {
	switch r.state.Phase {
	case Banning:
		r.promptBan()
	case Picking:
		r.promptPick()
	case WaitingForStart:
		if !r.state.TiebreakerPending {
			r.promptReady()
		}
	}
}

// selectMap changes the lobby map without touching picks or bans.
func (r *Referee) selectMap(entry pool.Entry) {
	r.say("Selecting " + entry.DisplayName)
	r.check("SetMap", r.lobby.SetMap(entry.BeatmapID))
	r.check("SetMods", r.lobby.SetMods(entry.Selection()))
	r.state.CurrentMap = entry.Code
}

func (r *Referee) isTiebreaker(code string) bool {
	return strings.EqualFold(code, r.settings.Tiebreaker)
}

func (r *Referee) ban(side match.Side, entry pool.Entry) {
	st := r.state
	if !st.FirstBanningTeam.Valid() {
		st.FirstBanningTeam = anchorFor(r.settings.BanOrder, side, st.BansDone)
	}
	st.Banned[side] = append(st.Banned[side], entry.Code)
	st.removeRemaining(entry.Code)
	st.BansRemaining--
	st.BansDone++
	st.BanTimerExpired = false
	st.TimeoutRunning = false

	log.Info("Map banned", "code", entry.Code, "team", r.teamName(side), "bansRemaining", st.BansRemaining)
	if st.Phase == Banning {
		r.check("AbortTimer", r.lobby.AbortTimer())
	}
	r.say(fmt.Sprintf("%s banned %s", r.teamName(side), entry.DisplayName))
	r.metrics.IncMapsBanned()
	r.publish(pubsub.EventMapBanned, pubsub.MatchEvent{Team: r.teamName(side), Code: entry.Code})

	st.BanningTeam = banOwner(r.settings.BanOrder, st.FirstBanningTeam, st.BansDone)
	if st.Phase == Banning || st.Phase == Picking {
		r.setPhase(r.nextCyclePhase())
		if st.AutoReferee {
			r.resumePhase()
		}
	}
}

// pick plays entry next. record is false for maps that were already taken,
// which a referee can still force.
func (r *Referee) pick(side match.Side, entry pool.Entry, record bool) {
	st := r.state
	if record {
		st.Picked[side] = append(st.Picked[side], entry.Code)
		st.removeRemaining(entry.Code)
		st.PicksDone++
		r.metrics.IncMapsPicked()
	}
	log.Info("Map picked", "code", entry.Code, "team", r.teamName(side), "recorded", record)
	st.TimeoutRunning = false

	r.check("AbortTimer", r.lobby.AbortTimer())
	r.selectMap(entry)
	r.setPhase(WaitingForStart)
	r.say(fmt.Sprintf("%s picked %s.", r.teamName(side), entry.Code))
	if record {
		r.publish(pubsub.EventMapPicked, pubsub.MatchEvent{Team: r.teamName(side), Code: entry.Code})
	}
	if st.AutoReferee {
		r.promptReady()
	}
}

func (r *Referee) withinLeniency() bool {
	return r.now().Sub(r.state.MatchStartedAt) < r.settings.Timers.AbortLeniency
}
