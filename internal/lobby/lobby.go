package lobby

import (
	"time"

	"github.com/mauv0809/osu-autoref/internal/match"
)

// Lobby is the set of multiplayer room operations the referee drives.
// Implementations must apply calls in the order they are made.
type Lobby interface {
	Name() string
	Link() string

	SendMessage(text string) error
	SetPassword(password string) error
	// SetSettings switches the room to team versus with score v2.
	SetSettings(teamSize int) error
	SetMap(beatmapID int) error
	SetMods(mods string) error
	AddRefs(names ...string) error
	InvitePlayer(name string) error
	ChangeTeam(name string, side match.Side) error
	SetHost(name string) error

	// StartTimer replaces any running countdown.
	StartTimer(d time.Duration) error
	AbortTimer() error
	StartMatch(countdown time.Duration) error
	AbortMatch() error

	// RequestSync asks the room for a round-trip; a Synced event follows once
	// everything issued before it has been applied.
	RequestSync() error
	Close() error
}

// Event is anything the lobby reports back to the referee.
type Event interface{ isLobbyEvent() }

type PlayerJoined struct {
	Name string
	Slot int
	// Side is the colour the room reported, NoSide outside team modes.
	Side match.Side
}

func (PlayerJoined) isLobbyEvent() {}

type PlayerLeft struct{ Name string }

func (PlayerLeft) isLobbyEvent() {}

type AllPlayersReady struct{}

func (AllPlayersReady) isLobbyEvent() {}

type GameStarted struct{}

func (GameStarted) isLobbyEvent() {}

type GameFinished struct {
	Scores []match.PlayerScore
}

func (GameFinished) isLobbyEvent() {}

type TimerExpired struct{}

func (TimerExpired) isLobbyEvent() {}

type ChatMessage struct {
	Sender string
	Text   string
}

func (ChatMessage) isLobbyEvent() {}

type Synced struct{}

func (Synced) isLobbyEvent() {}

// Closed is reported when the room is gone and no further events will come.
type Closed struct{}

func (Closed) isLobbyEvent() {}
