package bancho

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/mauv0809/osu-autoref/internal/lobby"
	"github.com/mauv0809/osu-autoref/internal/match"
)

// BotName is the account that reports everything happening in a room.
const BotName = "BanchoBot"

var (
	joinedRe   = regexp.MustCompile(`^(.+) joined in slot (\d+)(?: for team (red|blue))?\.$`)
	leftRe     = regexp.MustCompile(`^(.+) left the game\.$`)
	teamRe     = regexp.MustCompile(`^(.+) changed to (Red|Blue)$`)
	finishedRe = regexp.MustCompile(`^(.+) finished playing \(Score: (\d+), (PASSED|FAILED)\)\.$`)
	roomRe     = regexp.MustCompile(`^Room name: (.+), History: https://osu\.ppy\.sh/mp/(\d+)$`)
	slotRe     = regexp.MustCompile(`^Slot (\d+)\s+(?:Not Ready|Ready|No Map)\s+https://osu\.ppy\.sh/u/\d+ (.+?)\s*\[(.*)\]$`)
	createdRe  = regexp.MustCompile(`^Created the tournament match https://osu\.ppy\.sh/mp/(\d+) (.+)$`)
)

// playerScored is one "finished playing" line. They arrive before the
// match finished line and are collected until it does.
type playerScored struct {
	Name   string
	Score  int64
	Passed bool
}

// teamChanged is reported when a player moves to another colour, and for
// every slot line of a settings dump.
type teamChanged struct {
	Name string
	Side match.Side
}

// parseLine turns a BanchoBot line from a room channel into a lobby event
// or one of the bookkeeping notices above. It returns nil for anything else.
func parseLine(text string) any {
	text = strings.TrimSpace(text)
	switch text {
	case "All players are ready":
		return lobby.AllPlayersReady{}
	case "The match has started!":
		return lobby.GameStarted{}
	case "The match has finished!":
		return lobby.GameFinished{}
	case "Countdown finished":
		return lobby.TimerExpired{}
	case "Closed the match":
		return lobby.Closed{}
	}

	if m := joinedRe.FindStringSubmatch(text); m != nil {
		slot, _ := strconv.Atoi(m[2])
		return lobby.PlayerJoined{Name: m[1], Slot: slot, Side: match.SideFromColour(m[3])}
	}
	if m := leftRe.FindStringSubmatch(text); m != nil {
		return lobby.PlayerLeft{Name: m[1]}
	}
	if m := teamRe.FindStringSubmatch(text); m != nil {
		return teamChanged{Name: m[1], Side: match.SideFromColour(m[2])}
	}
	if m := finishedRe.FindStringSubmatch(text); m != nil {
		score, err := strconv.ParseInt(m[2], 10, 64)
		if err != nil {
			return nil
		}
		return playerScored{Name: m[1], Score: score, Passed: m[3] == "PASSED"}
	}
	if roomRe.MatchString(text) {
		return lobby.Synced{}
	}
	if m := slotRe.FindStringSubmatch(text); m != nil {
		return teamChanged{Name: m[2], Side: slotSide(m[3])}
	}
	return nil
}

// slotSide reads the bracketed tail of a settings slot line, for example
// "Host / Team Blue / Hidden".
func slotSide(tail string) match.Side {
	for _, part := range strings.Split(tail, "/") {
		part = strings.TrimSpace(part)
		if colour, ok := strings.CutPrefix(part, "Team "); ok {
			return match.SideFromColour(colour)
		}
	}
	return match.NoSide
}

// parseCreated reads the private reply to a make command.
func parseCreated(text string) (id int, name string, ok bool) {
	m := createdRe.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return 0, "", false
	}
	id, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, "", false
	}
	return id, m[2], true
}
