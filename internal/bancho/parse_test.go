package bancho

import (
	"testing"

	"github.com/mauv0809/osu-autoref/internal/lobby"
	"github.com/mauv0809/osu-autoref/internal/match"
	"github.com/stretchr/testify/assert"
)

func TestParseLine(t *testing.T) {
	cases := []struct {
		name string
		line string
		want any
	}{
		{name: "join without team", line: "alice joined in slot 1.", want: lobby.PlayerJoined{Name: "alice", Slot: 1, Side: match.NoSide}},
		{name: "join with team", line: "Bob Smith joined in slot 4 for team blue.", want: lobby.PlayerJoined{Name: "Bob Smith", Slot: 4, Side: match.Blue}},
		{name: "left", line: "carol left the game.", want: lobby.PlayerLeft{Name: "carol"}},
		{name: "team change", line: "dave changed to Red", want: teamChanged{Name: "dave", Side: match.Red}},
		{name: "all ready", line: "All players are ready", want: lobby.AllPlayersReady{}},
		{name: "started", line: "The match has started!", want: lobby.GameStarted{}},
		{name: "finished", line: "The match has finished!", want: lobby.GameFinished{}},
		{name: "timer", line: "Countdown finished", want: lobby.TimerExpired{}},
		{name: "closed", line: "Closed the match", want: lobby.Closed{}},
		{name: "passed score", line: "alice finished playing (Score: 812345, PASSED).", want: playerScored{Name: "alice", Score: 812345, Passed: true}},
		{name: "failed score", line: "Bob Smith finished playing (Score: 0, FAILED).", want: playerScored{Name: "Bob Smith", Score: 0}},
		{name: "settings header syncs", line: "Room name: OWC: Red vs Blue, History: https://osu.ppy.sh/mp/111", want: lobby.Synced{}},
		{
			name: "settings slot",
			line: "Slot 2  Not Ready https://osu.ppy.sh/u/1234 carol           [Host / Team Blue / Hidden]",
			want: teamChanged{Name: "carol", Side: match.Blue},
		},
		{name: "host change ignored", line: "Changed match host to alice", want: nil},
		{name: "countdown notice ignored", line: "Countdown ends in 30 seconds", want: nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, parseLine(tc.line))
		})
	}
}

func TestParseCreated(t *testing.T) {
	id, name, ok := parseCreated("Created the tournament match https://osu.ppy.sh/mp/98765 OWC: Red vs Blue")
	assert.True(t, ok)
	assert.Equal(t, 98765, id)
	assert.Equal(t, "OWC: Red vs Blue", name)

	_, _, ok = parseCreated("You cannot create any more tournament matches.")
	assert.False(t, ok)
}
