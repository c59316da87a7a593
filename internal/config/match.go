package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/mauv0809/osu-autoref/internal/match"
	"github.com/mauv0809/osu-autoref/internal/pool"
	"github.com/mauv0809/osu-autoref/internal/referee"
)

var defaultTimers = TimersFile{
	PickWait:        120,
	BanWait:         120,
	WaitingForStart: 120,
	ReadyStart:      10,
	ForceStart:      10,
	Timeout:         120,
	AbortLeniency:   30,
}

// LoadMatch reads and decodes match.json.
func LoadMatch(path string) (MatchFile, error) {
	var mf MatchFile
	data, err := os.ReadFile(path)
	if err != nil {
		return mf, fmt.Errorf("error reading match file: %w", err)
	}
	if err := json.Unmarshal(data, &mf); err != nil {
		return mf, fmt.Errorf("error parsing match file %s: %w", path, err)
	}
	return mf, nil
}

// LoadPool reads pool.json into pool entries without display names.
func LoadPool(path string) ([]pool.Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading pool file: %w", err)
	}
	var raw []PoolFileEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("error parsing pool file %s: %w", path, err)
	}
	entries := make([]pool.Entry, 0, len(raw))
	for _, e := range raw {
		entries = append(entries, pool.Entry{Code: strings.TrimSpace(e.Code), BeatmapID: e.ID, Mods: e.Mod})
	}
	return entries, nil
}

// LobbyName is the room title, "<tournament>: <red> vs <blue>".
func (m MatchFile) LobbyName() string {
	if len(m.Teams) != 2 {
		return m.Tournament
	}
	return fmt.Sprintf("%s: %s vs %s", m.Tournament, m.Teams[0].Name, m.Teams[1].Name)
}

// Settings converts the file into validated referee settings. operator is
// the account the referee logs in with.
func (m MatchFile) Settings(operator string) (referee.Settings, error) {
	if len(m.Teams) != 2 {
		return referee.Settings{}, fmt.Errorf("match needs exactly two teams, got %d", len(m.Teams))
	}
	firstBan, err := parseSide(m.FirstBan)
	if err != nil {
		return referee.Settings{}, fmt.Errorf("firstBan: %w", err)
	}
	firstPick, err := parseSide(m.FirstPick)
	if err != nil {
		return referee.Settings{}, fmt.Errorf("firstPick: %w", err)
	}

	s := referee.Settings{
		BestOf:        m.BestOf,
		PerTeamBans:   m.PerTeamBans,
		BanOrder:      strings.ToUpper(m.BanOrder),
		FirstBan:      firstBan,
		FirstPick:     firstPick,
		TeamSize:      m.TeamSize,
		Timers:        m.Timers.durations(),
		Operator:      operator,
		TrustedPeople: m.TrustedPeople,
		CommandPrefix: m.CommandPrefix,
		Tiebreaker:    m.Tiebreaker,
		PanicKeyword:  m.PanicKeyword,
	}
	for i, t := range m.Teams {
		s.Teams[i] = match.Team{Name: t.Name, Members: t.Members}
	}
	if m.SplitBans != nil {
		s.SplitBansBefore = m.SplitBans.Before
		s.SplitPicksBetween = m.SplitBans.PicksBetween
	}

	s = s.WithDefaults()
	if err := s.Validate(); err != nil {
		return referee.Settings{}, err
	}
	return s, nil
}

func (t TimersFile) durations() referee.Timers {
	pick := func(v, fallback int) time.Duration {
		if v <= 0 {
			v = fallback
		}
		return time.Duration(v) * time.Second
	}
	d := defaultTimers
	return referee.Timers{
		PickWait:      pick(t.PickWait, d.PickWait),
		BanWait:       pick(t.BanWait, d.BanWait),
		ReadyUp:       pick(t.WaitingForStart, d.WaitingForStart),
		ReadyStart:    pick(t.ReadyStart, d.ReadyStart),
		ForceStart:    pick(t.ForceStart, d.ForceStart),
		Timeout:       pick(t.Timeout, d.Timeout),
		AbortLeniency: pick(t.AbortLeniency, d.AbortLeniency),
	}
}

func parseSide(v string) (match.Side, error) {
	if strings.TrimSpace(v) == "" {
		return match.NoSide, nil
	}
	side := match.SideFromColour(v)
	if !side.Valid() {
		return match.NoSide, fmt.Errorf("unknown side %q, want red or blue", v)
	}
	return side, nil
}
