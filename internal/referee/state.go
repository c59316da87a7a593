package referee

import (
	"slices"
	"time"

	"github.com/mauv0809/osu-autoref/internal/match"
	"github.com/mauv0809/osu-autoref/internal/score"
)

// Phase is the single step of the match cycle the referee is in.
type Phase int

const (
	Idle Phase = iota
	Banning
	Picking
	WaitingForStart
	Playing
	Complete
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Banning:
		return "banning"
	case Picking:
		return "picking"
	case WaitingForStart:
		return "waiting_for_start"
	case Playing:
		return "playing"
	case Complete:
		return "complete"
	default:
		return "unknown"
	}
}

// MatchState is everything the referee knows about the running match. It is
// owned by the dispatch goroutine.
type MatchState struct {
	Phase Phase

	TimeoutPending bool
	// TimeoutRunning is set while the timeout countdown replaces the phase timer.
	TimeoutRunning   bool
	PickTimerExpired bool
	BanTimerExpired  bool
	// TiebreakerPending waits for the lobby to confirm it has settled before
	// the tiebreaker map is selected.
	TiebreakerPending bool

	Score *score.Tracker

	BansRemaining int
	BansDone      int
	PicksDone     int

	// FirstBanningTeam anchors the ban order. NoSide until the first ban.
	FirstBanningTeam match.Side
	BanningTeam      match.Side
	PickingTeam      match.Side

	Banned    [2][]string
	Picked    [2][]string
	Remaining []string
	// CurrentMap is the code of the map last selected in the lobby.
	CurrentMap string

	AutoReferee    bool
	MatchStartedAt time.Time
	// PlayersPresent counts rostered players in the lobby.
	PlayersPresent int
	// Players maps normalised names in the lobby to their side.
	Players map[string]match.Side
}

func newState(s Settings, codes []string) *MatchState {
	return &MatchState{
		Phase:            Idle,
		Score:            score.New(s.BestOf),
		BansRemaining:    s.TotalBans(),
		FirstBanningTeam: match.NoSide,
		BanningTeam:      s.FirstBan,
		PickingTeam:      s.FirstPick,
		Remaining:        slices.Clone(codes),
		Players:          make(map[string]match.Side),
	}
}

// IsBanned implements pool.Taken.
func (m *MatchState) IsBanned(code string) bool {
	return slices.Contains(m.Banned[match.Red], code) || slices.Contains(m.Banned[match.Blue], code)
}

// IsPicked implements pool.Taken.
func (m *MatchState) IsPicked(code string) bool {
	return slices.Contains(m.Picked[match.Red], code) || slices.Contains(m.Picked[match.Blue], code)
}

func (m *MatchState) removeRemaining(code string) {
	m.Remaining = slices.DeleteFunc(m.Remaining, func(c string) bool { return c == code })
}

// Snapshot is a read-only copy of MatchState for callers outside the dispatch
// goroutine.
type Snapshot struct {
	Lobby             string      `json:"lobby"`
	Link              string      `json:"link"`
	Phase             string      `json:"phase"`
	AutoReferee       bool        `json:"autoReferee"`
	Teams             [2]string   `json:"teams"`
	Score             [2]int      `json:"score"`
	WinningScore      int         `json:"winningScore"`
	BansRemaining     int         `json:"bansRemaining"`
	BanningTeam       string      `json:"banningTeam"`
	PickingTeam       string      `json:"pickingTeam"`
	Banned            [2][]string `json:"banned"`
	Picked            [2][]string `json:"picked"`
	Remaining         []string    `json:"remaining"`
	CurrentMap        string      `json:"currentMap,omitempty"`
	PlayersPresent    int         `json:"playersPresent"`
	TimeoutPending    bool        `json:"timeoutPending"`
	TiebreakerPending bool        `json:"tiebreakerPending"`
}

func (r *Referee) snapshot() Snapshot {
	st := r.state
	snap := Snapshot{
		Lobby:             r.lobby.Name(),
		Link:              r.lobby.Link(),
		Phase:             st.Phase.String(),
		AutoReferee:       st.AutoReferee,
		Teams:             [2]string{r.teamName(match.Red), r.teamName(match.Blue)},
		Score:             [2]int{st.Score.Points(match.Red), st.Score.Points(match.Blue)},
		WinningScore:      st.Score.Winning(),
		BansRemaining:     st.BansRemaining,
		BanningTeam:       r.teamName(st.BanningTeam),
		PickingTeam:       r.teamName(st.PickingTeam),
		Remaining:         slices.Clone(st.Remaining),
		CurrentMap:        st.CurrentMap,
		PlayersPresent:    st.PlayersPresent,
		TimeoutPending:    st.TimeoutPending,
		TiebreakerPending: st.TiebreakerPending,
	}
	for _, side := range []match.Side{match.Red, match.Blue} {
		snap.Banned[side] = slices.Clone(st.Banned[side])
		snap.Picked[side] = slices.Clone(st.Picked[side])
	}
	return snap
}
