package referee

import (
	"testing"
	"time"

	"github.com/mauv0809/osu-autoref/internal/lobby"
	"github.com/mauv0809/osu-autoref/internal/match"
	"github.com/mauv0809/osu-autoref/internal/metrics"
	"github.com/mauv0809/osu-autoref/internal/notifier"
	"github.com/mauv0809/osu-autoref/internal/pool"
	"github.com/mauv0809/osu-autoref/internal/pubsub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	ref      *Referee
	lobby    *lobby.Mock
	notifier *notifier.Mock
	metrics  *metrics.Mock
	pubsub   *pubsub.MockPubSubClient
	now      time.Time
}

func testSettings() Settings {
	return Settings{
		Teams: [2]match.Team{
			{Name: "Red Team", Members: []string{"alice", "Bob Smith"}},
			{Name: "Blue Team", Members: []string{"carol", "dave"}},
		},
		BestOf:      7,
		PerTeamBans: 2,
		BanOrder:    "ABBA",
		TeamSize:    2,
		Timers: Timers{
			PickWait:      120 * time.Second,
			BanWait:       90 * time.Second,
			ReadyUp:       120 * time.Second,
			ReadyStart:    10 * time.Second,
			ForceStart:    5 * time.Second,
			Timeout:       60 * time.Second,
			AbortLeniency: 30 * time.Second,
		},
		Operator:      "AutoRef",
		TrustedPeople: []string{"ref1"},
	}
}

func testPool(t *testing.T) *pool.Pool {
	t.Helper()
	p, err := pool.New([]pool.Entry{
		{Code: "NM1", BeatmapID: 1, DisplayName: "NM1: xi - FREEDOM DiVE [FOUR DIMENSIONS]"},
		{Code: "NM2", BeatmapID: 2, DisplayName: "NM2: Camellia - Exit This Earth's Atomosphere [Evolution]"},
		{Code: "NM3", BeatmapID: 3, DisplayName: "NM3: Camellia - Ghost [Spirit]"},
		{Code: "HD1", BeatmapID: 4, DisplayName: "HD1: DragonForce - Through the Fire and Flames [Legend]"},
		{Code: "HR1", BeatmapID: 5, DisplayName: "HR1: nekodex - new beginnings [Insane]"},
		{Code: "DT1", BeatmapID: 6, DisplayName: "DT1: Halozy - Genryuu Kaiko [Higan Torrent]"},
		{Code: "FM1", BeatmapID: 7, DisplayName: "FM1: Kenji Ninuma - DISCO PRINCE [Normal]"},
		{Code: "TB", BeatmapID: 8, DisplayName: "TB: Fractal Dreamers - Gardens Under A Spring Sky [Vernal]"},
	})
	require.NoError(t, err)
	return p
}

func newFixture(t *testing.T, mutate ...func(*Settings)) *fixture {
	t.Helper()
	s := testSettings()
	for _, m := range mutate {
		m(&s)
	}
	f := &fixture{
		lobby:    lobby.NewMock(),
		notifier: notifier.NewMock(),
		metrics:  metrics.NewMock(),
		pubsub:   pubsub.NewMock(),
		now:      time.Date(2025, 7, 9, 20, 0, 0, 0, time.UTC),
	}
	ref, err := New(s, testPool(t), f.lobby, f.notifier, f.metrics, f.pubsub)
	require.NoError(t, err)
	ref.now = func() time.Time { return f.now }
	f.ref = ref
	return f
}

func noBans(s *Settings) { s.PerTeamBans = 0 }

func (f *fixture) advance(d time.Duration) { f.now = f.now.Add(d) }

func (f *fixture) state() *MatchState { return f.ref.state }

func (f *fixture) command(t *testing.T, line string) string {
	t.Helper()
	reply, err := f.ref.execute("AutoRef", line)
	require.NoError(t, err, line)
	return reply
}

func (f *fixture) chat(sender, text string) {
	f.ref.handleEvent(lobby.ChatMessage{Sender: sender, Text: text})
}

// member returns a rostered player of the side.
func (f *fixture) member(side match.Side) string {
	return f.ref.settings.Teams[side].Members[0]
}

// play runs a full game in which the red and blue players score the given totals.
func (f *fixture) play(red, blue int64) {
	f.ref.handleEvent(lobby.GameStarted{})
	f.ref.handleEvent(lobby.GameFinished{Scores: []match.PlayerScore{
		{Name: "alice", Side: match.Red, Score: red, Passed: true},
		{Name: "carol", Side: match.Blue, Score: blue, Passed: true},
	}})
}

func (f *fixture) joinAll() {
	for _, team := range f.ref.settings.Teams {
		for i, m := range team.Members {
			f.ref.handleEvent(lobby.PlayerJoined{Name: m, Slot: i, Side: match.NoSide})
		}
	}
}

func TestNew_ExcludesTiebreakerFromRemaining(t *testing.T) {
	f := newFixture(t)
	assert.NotContains(t, f.state().Remaining, "TB")
	assert.Len(t, f.state().Remaining, 7)
	assert.Equal(t, 4, f.state().BansRemaining)
	assert.Equal(t, Idle, f.state().Phase)
	assert.Equal(t, match.NoSide, f.state().FirstBanningTeam)
}

func TestNew_RejectsInvalidSettings(t *testing.T) {
	s := testSettings()
	s.BestOf = 4
	_, err := New(s, testPool(t), lobby.NewMock(), notifier.NewMock(), metrics.NewMock(), pubsub.NewMock())
	assert.Error(t, err)
}

func TestBanOrder_ABBA(t *testing.T) {
	f := newFixture(t)
	f.command(t, "auto on")
	require.Equal(t, Banning, f.state().Phase)

	var order []match.Side
	for _, code := range []string{"NM1", "NM2", "HD1", "HR1"} {
		side := f.state().BanningTeam
		order = append(order, side)
		f.chat(f.member(side), code)
	}

	assert.Equal(t, []match.Side{match.Red, match.Blue, match.Blue, match.Red}, order)
	assert.Equal(t, 0, f.state().BansRemaining)
	assert.Equal(t, []string{"NM1", "HR1"}, f.state().Banned[match.Red])
	assert.Equal(t, []string{"NM2", "HD1"}, f.state().Banned[match.Blue])
	assert.Equal(t, Picking, f.state().Phase)
	assert.Equal(t, []string{"NM3", "DT1", "FM1"}, f.state().Remaining)
	assert.Equal(t, 4, f.metrics.MapsBanned())
}

func expectedOwner(pattern string, i int) match.Side {
	if pattern[i%len(pattern)] == 'A' {
		return match.Red
	}
	return match.Blue
}

func TestBanOrder_Patterns(t *testing.T) {
	patterns := []string{"AB", "ABBA", "AABB", "ABAB", "ABBAAB"}
	for _, pattern := range patterns {
		for perTeam := 1; perTeam <= 3; perTeam++ {
			t.Run(pattern, func(t *testing.T) {
				f := newFixture(t, func(s *Settings) {
					s.BanOrder = pattern
					s.PerTeamBans = perTeam
				})
				f.command(t, "auto on")

				for i := 0; i < perTeam*2; i++ {
					require.Equal(t, Banning, f.state().Phase)
					require.Equal(t, expectedOwner(pattern, i), f.state().BanningTeam, "ban %d", i)
					f.chat(f.member(f.state().BanningTeam), f.state().Remaining[0])
				}
				assert.Equal(t, 0, f.state().BansRemaining)
				assert.Equal(t, Picking, f.state().Phase)
			})
		}
	}
}

func TestBanOrder_TimerSkipKeepsPattern(t *testing.T) {
	patterns := []string{"AB", "ABBA", "AABB"}
	for _, pattern := range patterns {
		t.Run(pattern, func(t *testing.T) {
			f := newFixture(t, func(s *Settings) {
				s.BanOrder = pattern
				s.PerTeamBans = 3
			})
			f.command(t, "auto on")

			f.chat(f.member(f.state().BanningTeam), f.state().Remaining[0])

			// The owner of slot 1 runs out of time.
			owner := f.state().BanningTeam
			require.Equal(t, expectedOwner(pattern, 1), owner)
			f.ref.handleEvent(lobby.TimerExpired{})
			assert.Equal(t, owner.Other(), f.state().BanningTeam)
			assert.True(t, f.state().BanTimerExpired)

			f.chat(f.member(f.state().BanningTeam), f.state().Remaining[0])
			assert.False(t, f.state().BanTimerExpired)

			for i := 2; i < 6; i++ {
				require.Equal(t, expectedOwner(pattern, i), f.state().BanningTeam, "ban %d", i)
				f.chat(f.member(f.state().BanningTeam), f.state().Remaining[0])
			}
			assert.Equal(t, 0, f.state().BansRemaining)
		})
	}
}

func TestBanOrder_SkipBeforeFirstBanAnchorsOnFirstBanner(t *testing.T) {
	f := newFixture(t)
	f.command(t, "auto on")
	f.ref.handleEvent(lobby.TimerExpired{})
	require.Equal(t, match.Blue, f.state().BanningTeam)

	var order []match.Side
	for i := 0; i < 4; i++ {
		side := f.state().BanningTeam
		order = append(order, side)
		f.chat(f.member(side), f.state().Remaining[0])
	}
	assert.Equal(t, match.Blue, f.state().FirstBanningTeam)
	assert.Equal(t, []match.Side{match.Blue, match.Red, match.Red, match.Blue}, order)
}

func TestBan_IgnoresOtherTeamAndChatter(t *testing.T) {
	f := newFixture(t)
	f.command(t, "auto on")

	f.chat("carol", "NM1")
	f.chat("alice", "gg")
	f.chat("alice", "camellia")
	f.chat("stranger", "NM1")

	assert.Equal(t, 4, f.state().BansRemaining)
	assert.Empty(t, f.state().Banned[match.Red])
}

func TestSplitBans(t *testing.T) {
	f := newFixture(t, func(s *Settings) {
		s.SplitBansBefore = 2
		s.SplitPicksBetween = 2
	})
	f.command(t, "auto on")

	f.chat("alice", "NM1")
	f.chat("carol", "NM2")
	require.Equal(t, Picking, f.state().Phase, "picks start after the first bans")
	assert.Equal(t, 2, f.state().BansRemaining)

	f.chat("alice", "HD1")
	require.Equal(t, WaitingForStart, f.state().Phase)
	f.play(1000, 500)
	require.Equal(t, Picking, f.state().Phase)
	require.Equal(t, match.Blue, f.state().PickingTeam)

	f.chat("carol", "HR1")
	f.play(1000, 500)
	require.Equal(t, Banning, f.state().Phase, "bans resume after the picks in between")
	assert.Equal(t, match.Blue, f.state().BanningTeam)

	f.chat("carol", "DT1")
	f.chat("alice", "NM3")
	assert.Equal(t, 0, f.state().BansRemaining)
	assert.Equal(t, Picking, f.state().Phase)
	assert.Equal(t, 4, f.state().BansDone)
	assert.Equal(t, 2, f.state().PicksDone)
}

func TestPick_WaitsForStart(t *testing.T) {
	f := newFixture(t, noBans)
	f.command(t, "auto on")
	require.Equal(t, Picking, f.state().Phase)
	f.lobby.Reset()

	f.chat("alice", "freedom dive")

	assert.Equal(t, WaitingForStart, f.state().Phase)
	assert.Equal(t, []string{"NM1"}, f.state().Picked[match.Red])
	assert.NotContains(t, f.state().Remaining, "NM1")
	assert.Equal(t, "NM1", f.state().CurrentMap)
	assert.Equal(t, []string{"AbortTimer", "SendMessage", "SetMap", "SetMods", "SendMessage", "SendMessage", "StartTimer"}, f.lobby.Methods())

	setMap := f.lobby.CallsTo("SetMap")
	require.Len(t, setMap, 1)
	assert.Equal(t, 1, setMap[0].Args[0])
	assert.Equal(t, "NF", f.lobby.CallsTo("SetMods")[0].Args[0])
	timers := f.lobby.CallsTo("StartTimer")
	assert.Equal(t, 120*time.Second, timers[len(timers)-1].Args[0])
	assert.Equal(t, []pubsub.EventType{pubsub.EventMapPicked}, f.pubsub.Types())
}

func TestPick_RejectsTakenMaps(t *testing.T) {
	f := newFixture(t, func(s *Settings) { s.PerTeamBans = 1 })
	f.command(t, "auto on")
	f.chat("alice", "NM1")
	f.chat("carol", "NM2")
	require.Equal(t, Picking, f.state().Phase)

	f.chat("alice", "NM1")
	assert.Equal(t, Picking, f.state().Phase)
	assert.Contains(t, f.lobby.Messages(), "NM1 is already banned.")

	f.chat("alice", "HD1")
	f.play(1000, 0)
	f.chat("carol", "through the fire")
	assert.Equal(t, Picking, f.state().Phase)
	assert.Contains(t, f.lobby.Messages(), "HD1 was already picked.")
	assert.Equal(t, []string{"HD1"}, f.state().Picked[match.Red])
	assert.Empty(t, f.state().Picked[match.Blue])
}

func TestPick_TiebreakerNotPickable(t *testing.T) {
	f := newFixture(t, noBans)
	f.command(t, "auto on")
	f.chat("alice", "gardens under")

	assert.Equal(t, Picking, f.state().Phase)
	assert.Contains(t, f.lobby.Messages(), "The tiebreaker cannot be banned or picked.")
}

// A pick timer that runs out hands the pick over. The game that follows must
// not hand it over a second time.
func TestPickTimerExpiry_FlipsOnce(t *testing.T) {
	f := newFixture(t, noBans)
	f.command(t, "auto on")
	require.Equal(t, match.Red, f.state().PickingTeam)

	f.ref.handleEvent(lobby.TimerExpired{})
	require.Equal(t, match.Blue, f.state().PickingTeam)
	require.True(t, f.state().PickTimerExpired)

	f.chat("carol", "NM2")
	f.play(100, 200)

	assert.Equal(t, match.Blue, f.state().PickingTeam)
	assert.False(t, f.state().PickTimerExpired)
	assert.Equal(t, Picking, f.state().Phase)

	f.chat("dave", "HD1")
	f.play(100, 200)
	assert.Equal(t, match.Red, f.state().PickingTeam, "normal games flip the picking team")
}

func TestGameFinished_ScoresRounds(t *testing.T) {
	f := newFixture(t, noBans)
	f.command(t, "auto on")

	f.chat("alice", "NM1")
	f.ref.handleEvent(lobby.GameStarted{})
	f.ref.handleEvent(lobby.GameFinished{Scores: []match.PlayerScore{
		{Name: "alice", Side: match.Red, Score: 300000},
		{Name: "Bob_Smith", Side: match.NoSide, Score: 200000},
		{Name: "carol", Side: match.Blue, Score: 450000},
		{Name: "dave", Side: match.Blue, Score: 10000},
		{Name: "spectator", Side: match.NoSide, Score: 999999},
	}})

	assert.Equal(t, 1, f.state().Score.Points(match.Red), "roster fills in missing sides")
	assert.Equal(t, 0, f.state().Score.Points(match.Blue))
	assert.Contains(t, f.lobby.Messages(), "Red Team wins by 40000")
	assert.Contains(t, f.lobby.Messages(), "Red Team 1 -- 0 Blue Team")
	assert.Equal(t, 1, f.metrics.RoundsPlayed("red"))
}

func TestGameFinished_TieChangesNothing(t *testing.T) {
	f := newFixture(t, noBans)
	f.command(t, "auto on")
	f.chat("alice", "NM1")
	f.play(1000, 1000)

	assert.Equal(t, 0, f.state().Score.Points(match.Red))
	assert.Equal(t, 0, f.state().Score.Points(match.Blue))
	assert.Contains(t, f.lobby.Messages(), "It was a tie!")
	assert.Equal(t, Picking, f.state().Phase)
	assert.Equal(t, 1, f.metrics.RoundsPlayed("tie"))
}

func TestGameFinished_WinEndsMatch(t *testing.T) {
	f := newFixture(t, noBans)
	f.command(t, "score 3 3")
	f.command(t, "score 3 2")
	f.command(t, "auto on")

	f.chat("alice", "NM1")
	f.play(1000, 10)

	assert.Equal(t, Complete, f.state().Phase)
	assert.Equal(t, 4, f.state().Score.Points(match.Red))
	assert.Contains(t, f.lobby.Messages(), "Red Team has won the match!")
	assert.Contains(t, f.pubsub.Types(), pubsub.EventMatchCompleted)

	// Nothing automatic happens after the match is over.
	f.lobby.Reset()
	f.ref.handleEvent(lobby.TimerExpired{})
	f.ref.handleEvent(lobby.AllPlayersReady{})
	f.chat("carol", "NM2")
	assert.Empty(t, f.lobby.Methods())
}

func TestComplete_IsTerminal(t *testing.T) {
	f := newFixture(t, noBans)
	f.command(t, "score 3 2")
	f.command(t, "auto on")
	f.chat("alice", "NM1")
	f.play(1000, 10)
	require.Equal(t, Complete, f.state().Phase)
	f.lobby.Reset()

	f.ref.handleEvent(lobby.GameFinished{Scores: []match.PlayerScore{
		{Name: "carol", Side: match.Blue, Score: 5000},
	}})
	assert.Equal(t, Complete, f.state().Phase)
	assert.Equal(t, 4, f.state().Score.Points(match.Red))
	assert.Equal(t, 2, f.state().Score.Points(match.Blue), "a stray result is not scored")

	_, err := f.ref.execute("ref1", "forcepick NM2")
	assert.ErrorIs(t, err, ErrMatchComplete)
	_, err = f.ref.execute("ref1", "map NM3")
	assert.ErrorIs(t, err, ErrMatchComplete)
	assert.Equal(t, Complete, f.state().Phase)
	assert.Empty(t, f.lobby.Methods())
}

func TestGameFinished_IgnoredWithoutGame(t *testing.T) {
	f := newFixture(t, noBans)
	f.command(t, "auto on")
	f.chat("alice", "NM1")
	f.lobby.Reset()

	f.ref.handleEvent(lobby.GameFinished{Scores: []match.PlayerScore{
		{Name: "alice", Side: match.Red, Score: 1000},
	}})
	assert.Equal(t, WaitingForStart, f.state().Phase)
	assert.Equal(t, 0, f.state().Score.Points(match.Red))
	assert.Empty(t, f.lobby.Methods())
}

func TestTiebreaker_WaitsForSync(t *testing.T) {
	f := newFixture(t, noBans)
	f.joinAll()
	f.command(t, "score 3 2")
	f.command(t, "auto on")
	f.chat("alice", "NM1")
	f.play(10, 1000)

	require.Equal(t, WaitingForStart, f.state().Phase)
	require.True(t, f.state().TiebreakerPending)
	assert.Contains(t, f.lobby.Messages(), "It's time for the tiebreaker!")
	assert.Len(t, f.lobby.CallsTo("RequestSync"), 1)
	assert.Len(t, f.lobby.CallsTo("SetMap"), 1, "tiebreaker map waits for the lobby")

	f.lobby.Reset()
	f.ref.handleEvent(lobby.AllPlayersReady{})
	f.ref.handleEvent(lobby.TimerExpired{})
	assert.Empty(t, f.lobby.CallsTo("StartMatch"))

	f.ref.handleEvent(lobby.Synced{})
	assert.False(t, f.state().TiebreakerPending)
	setMap := f.lobby.CallsTo("SetMap")
	require.Len(t, setMap, 1)
	assert.Equal(t, 8, setMap[0].Args[0])
	assert.Equal(t, "Freemod", f.lobby.CallsTo("SetMods")[0].Args[0])
	assert.Equal(t, "TB", f.state().CurrentMap)
	assert.Len(t, f.lobby.CallsTo("StartTimer"), 1)

	f.ref.handleEvent(lobby.AllPlayersReady{})
	assert.Len(t, f.lobby.CallsTo("StartMatch"), 1)

	f.play(5000, 10)
	assert.Equal(t, Complete, f.state().Phase)
	assert.Contains(t, f.lobby.Messages(), "Red Team has won the match!")
}

func TestReadyCheck_WaitsForFullRoster(t *testing.T) {
	f := newFixture(t, noBans)
	f.ref.handleEvent(lobby.PlayerJoined{Name: "AutoRef", Slot: 0})
	f.ref.handleEvent(lobby.PlayerJoined{Name: "alice", Slot: 1})
	f.ref.handleEvent(lobby.PlayerJoined{Name: "Bob_Smith", Slot: 2})
	f.ref.handleEvent(lobby.PlayerJoined{Name: "carol", Slot: 3})
	f.command(t, "auto on")
	f.chat("alice", "NM1")
	require.Equal(t, WaitingForStart, f.state().Phase)
	require.Equal(t, 3, f.state().PlayersPresent, "the operator is not a player")

	f.lobby.Reset()
	f.ref.handleEvent(lobby.AllPlayersReady{})
	assert.Empty(t, f.lobby.CallsTo("StartMatch"), "3 of 4 players must not start")

	f.ref.handleEvent(lobby.PlayerJoined{Name: "dave", Slot: 4})
	assert.Len(t, f.lobby.CallsTo("StartTimer"), 1, "a join restarts the ready timer")
	f.ref.handleEvent(lobby.AllPlayersReady{})

	starts := f.lobby.CallsTo("StartMatch")
	require.Len(t, starts, 1)
	assert.Equal(t, 10*time.Second, starts[0].Args[0])
	methods := f.lobby.Methods()
	assert.Equal(t, []string{"AbortTimer", "StartMatch"}, methods[len(methods)-2:])
}

func TestReadyTimer_ForcesStart(t *testing.T) {
	f := newFixture(t, noBans)
	f.command(t, "auto on")
	f.chat("alice", "NM1")
	f.lobby.Reset()

	f.ref.handleEvent(lobby.TimerExpired{})
	starts := f.lobby.CallsTo("StartMatch")
	require.Len(t, starts, 1)
	assert.Equal(t, 5*time.Second, starts[0].Args[0])

	f.ref.handleEvent(lobby.GameStarted{})
	assert.Equal(t, Playing, f.state().Phase)
	assert.Equal(t, f.now, f.state().MatchStartedAt)
}

func TestTimeout_RunsAtNextExpiry(t *testing.T) {
	f := newFixture(t, noBans)
	f.command(t, "auto on")
	f.command(t, "timeout")
	require.True(t, f.state().TimeoutPending)
	f.lobby.Reset()

	f.ref.handleEvent(lobby.TimerExpired{})
	assert.False(t, f.state().TimeoutPending)
	assert.True(t, f.state().TimeoutRunning)
	assert.Equal(t, match.Red, f.state().PickingTeam, "timeout replaces the expiry")
	assert.Equal(t, 60*time.Second, f.lobby.CallsTo("StartTimer")[0].Args[0])

	f.ref.handleEvent(lobby.TimerExpired{})
	assert.False(t, f.state().TimeoutRunning)
	assert.Equal(t, match.Red, f.state().PickingTeam, "the interrupted team is prompted again")
	assert.Equal(t, 120*time.Second, f.lobby.CallsTo("StartTimer")[1].Args[0])
	assert.Contains(t, f.lobby.Messages(), "The timeout is over.")

	f.ref.handleEvent(lobby.TimerExpired{})
	assert.Equal(t, match.Blue, f.state().PickingTeam)
}

func TestTimeout_EndsWhenBanMade(t *testing.T) {
	f := newFixture(t)
	f.command(t, "auto on")
	f.command(t, "timeout")
	f.ref.handleEvent(lobby.TimerExpired{})
	require.True(t, f.state().TimeoutRunning)

	f.chat("alice", "NM1")
	assert.False(t, f.state().TimeoutRunning)
	require.Equal(t, match.Blue, f.state().BanningTeam)
	f.lobby.Reset()

	f.ref.handleEvent(lobby.TimerExpired{})
	assert.Equal(t, match.Red, f.state().BanningTeam, "the ban timer flips the turn")
	assert.True(t, f.state().BanTimerExpired)
	assert.NotContains(t, f.lobby.Messages(), "The timeout is over.")
}

func TestTimeout_EndsWhenPickMade(t *testing.T) {
	f := newFixture(t, noBans)
	f.command(t, "auto on")
	f.command(t, "timeout")
	f.ref.handleEvent(lobby.TimerExpired{})
	require.True(t, f.state().TimeoutRunning)

	f.chat("alice", "NM1")
	assert.False(t, f.state().TimeoutRunning)
	require.Equal(t, WaitingForStart, f.state().Phase)
	f.lobby.Reset()

	f.ref.handleEvent(lobby.TimerExpired{})
	starts := f.lobby.CallsTo("StartMatch")
	require.Len(t, starts, 1, "the ready timer force-starts")
	assert.Equal(t, 5*time.Second, starts[0].Args[0])
}

func TestAutoOff_IgnoresTimersAndChat(t *testing.T) {
	f := newFixture(t, noBans)
	f.command(t, "auto on")
	f.command(t, "auto off")
	f.lobby.Reset()

	f.ref.handleEvent(lobby.TimerExpired{})
	f.chat("alice", "NM1")

	assert.Equal(t, match.Red, f.state().PickingTeam)
	assert.Empty(t, f.state().Picked[match.Red])
	assert.Empty(t, f.lobby.Methods())
}
