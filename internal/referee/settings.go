package referee

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mauv0809/osu-autoref/internal/match"
)

const (
	DefaultCommandPrefix = ">"
	DefaultTiebreaker    = "TB"
	DefaultPanicKeyword  = "panic"
)

// Timers holds every countdown the referee uses.
type Timers struct {
	PickWait time.Duration
	BanWait  time.Duration
	// ReadyUp is how long players get to ready after a map is selected.
	ReadyUp time.Duration
	// ReadyStart is the start countdown once everyone is ready.
	ReadyStart time.Duration
	// ForceStart is the start countdown when ReadyUp ran out.
	ForceStart    time.Duration
	Timeout       time.Duration
	AbortLeniency time.Duration
}

// Settings configure a single match. They are read once and never change.
type Settings struct {
	Teams       [2]match.Team
	BestOf      int
	PerTeamBans int
	// BanOrder is read as A = first banner, B = the other team, e.g. "ABBA".
	BanOrder string
	// SplitBansBefore > 0 pauses banning after that many bans so that
	// SplitPicksBetween picks can happen before the remaining bans.
	SplitBansBefore   int
	SplitPicksBetween int
	FirstBan          match.Side
	FirstPick         match.Side
	// TeamSize is the number of players per side expected in the lobby.
	TeamSize int
	Timers   Timers

	// Operator is the account running the referee. It is always trusted and
	// becomes host when it joins.
	Operator      string
	TrustedPeople []string
	CommandPrefix string
	Tiebreaker    string
	PanicKeyword  string
}

// TotalBans is the number of bans in the whole match.
func (s Settings) TotalBans() int { return s.PerTeamBans * 2 }

// ExpectedPlayers is the headcount required before an all-ready starts the game.
func (s Settings) ExpectedPlayers() int { return s.TeamSize * 2 }

func (s Settings) splitBans() bool {
	return s.SplitBansBefore > 0 && s.SplitBansBefore < s.TotalBans() && s.SplitPicksBetween > 0
}

// WithDefaults fills unset optional fields.
func (s Settings) WithDefaults() Settings {
	if s.CommandPrefix == "" {
		s.CommandPrefix = DefaultCommandPrefix
	}
	if s.Tiebreaker == "" {
		s.Tiebreaker = DefaultTiebreaker
	}
	if s.PanicKeyword == "" {
		s.PanicKeyword = DefaultPanicKeyword
	}
	if s.BanOrder == "" {
		s.BanOrder = "AB"
	}
	if !s.FirstBan.Valid() {
		s.FirstBan = match.Red
	}
	if !s.FirstPick.Valid() {
		s.FirstPick = match.Red
	}
	if s.TeamSize <= 0 {
		s.TeamSize = min(len(s.Teams[match.Red].Members), len(s.Teams[match.Blue].Members))
	}
	return s
}

// Validate reports the first configuration problem found.
func (s Settings) Validate() error {
	if s.BestOf <= 0 || s.BestOf%2 == 0 {
		return fmt.Errorf("bestOf must be a positive odd number, got %d", s.BestOf)
	}
	if s.PerTeamBans < 0 {
		return fmt.Errorf("perTeamBans must not be negative, got %d", s.PerTeamBans)
	}
	for i, t := range s.Teams {
		if strings.TrimSpace(t.Name) == "" {
			return fmt.Errorf("team %d has no name", i)
		}
		if len(t.Members) == 0 {
			return fmt.Errorf("team %q has no members", t.Name)
		}
	}
	if match.NormalizeName(s.Teams[0].Name) == match.NormalizeName(s.Teams[1].Name) {
		return errors.New("team names must differ")
	}
	for _, r := range s.BanOrder {
		if r != 'A' && r != 'B' {
			return fmt.Errorf("ban order %q may only contain A and B", s.BanOrder)
		}
	}
	if s.SplitBansBefore < 0 || s.SplitPicksBetween < 0 {
		return errors.New("split ban thresholds must not be negative")
	}
	if s.SplitBansBefore > s.TotalBans() {
		return fmt.Errorf("split after %d bans but only %d bans in total", s.SplitBansBefore, s.TotalBans())
	}
	if s.SplitPicksBetween >= s.BestOf {
		return fmt.Errorf("%d picks between bans leaves no room in a best of %d", s.SplitPicksBetween, s.BestOf)
	}
	if s.TeamSize <= 0 {
		return errors.New("team size must be positive")
	}
	return nil
}
