package bancho

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/osu-autoref/internal/lobby"
	"github.com/mauv0809/osu-autoref/internal/match"
)

const (
	teamModeTeamVs = 2
	scoreModeV2    = 3
)

// Lobby is a tournament room on Bancho. Every operation is a chat command
// queued in order on the shared connection.
type Lobby struct {
	id      int
	name    string
	channel string
	send    func(target, text string) error
	events  chan lobby.Event
	quit    chan struct{}
	once    sync.Once

	mu     sync.Mutex
	sides  map[string]match.Side
	scores []playerScored
}

var _ lobby.Lobby = (*Lobby)(nil)

func newLobby(id int, name string, send func(target, text string) error) *Lobby {
	return &Lobby{
		id:      id,
		name:    name,
		channel: fmt.Sprintf("#mp_%d", id),
		send:    send,
		events:  make(chan lobby.Event, 64),
		quit:    make(chan struct{}),
		sides:   make(map[string]match.Side),
	}
}

// ID is the multiplayer match id.
func (l *Lobby) ID() int { return l.id }

// Channel is the IRC channel of the room.
func (l *Lobby) Channel() string { return l.channel }

func (l *Lobby) Name() string { return l.name }
func (l *Lobby) Link() string { return fmt.Sprintf("https://osu.ppy.sh/mp/%d", l.id) }

// Events delivers everything the room reports. Closed is the last event.
func (l *Lobby) Events() <-chan lobby.Event { return l.events }

func (l *Lobby) SendMessage(text string) error { return l.send(l.channel, text) }

func (l *Lobby) mp(format string, args ...any) error {
	return l.send(l.channel, "!mp "+fmt.Sprintf(format, args...))
}

func (l *Lobby) SetPassword(password string) error { return l.mp("password %s", password) }

func (l *Lobby) SetSettings(teamSize int) error {
	return l.mp("set %d %d %d", teamModeTeamVs, scoreModeV2, teamSize)
}

func (l *Lobby) SetMap(beatmapID int) error { return l.mp("map %d 0", beatmapID) }
func (l *Lobby) SetMods(mods string) error  { return l.mp("mods %s", mods) }

func (l *Lobby) AddRefs(names ...string) error {
	if len(names) == 0 {
		return nil
	}
	nicks := make([]string, len(names))
	for i, n := range names {
		nicks[i] = ircName(n)
	}
	return l.mp("addref %s", strings.Join(nicks, " "))
}

func (l *Lobby) InvitePlayer(name string) error { return l.mp("invite %s", ircName(name)) }

func (l *Lobby) ChangeTeam(name string, side match.Side) error {
	if !side.Valid() {
		return fmt.Errorf("cannot move %s to side %s", name, side)
	}
	return l.mp("team %s %s", ircName(name), side.Colour())
}

func (l *Lobby) SetHost(name string) error { return l.mp("host %s", ircName(name)) }

func (l *Lobby) StartTimer(d time.Duration) error { return l.mp("timer %d", seconds(d)) }
func (l *Lobby) AbortTimer() error                { return l.mp("aborttimer") }

func (l *Lobby) StartMatch(countdown time.Duration) error {
	if s := seconds(countdown); s > 0 {
		return l.mp("start %d", s)
	}
	return l.mp("start")
}

func (l *Lobby) AbortMatch() error  { return l.mp("abort") }
func (l *Lobby) RequestSync() error { return l.mp("settings") }
func (l *Lobby) Close() error       { return l.mp("close") }

// dispatch handles one message posted in the room channel.
func (l *Lobby) dispatch(sender, text string) {
	if sender != BotName {
		l.emit(lobby.ChatMessage{Sender: sender, Text: text})
		return
	}

	switch ev := parseLine(text).(type) {
	case nil:
		log.Debug("Ignoring BanchoBot line", "lobby", l.channel, "text", text)
	case playerScored:
		l.mu.Lock()
		l.scores = append(l.scores, ev)
		l.mu.Unlock()
	case teamChanged:
		l.setSide(ev.Name, ev.Side)
	case lobby.PlayerJoined:
		if ev.Side.Valid() {
			l.setSide(ev.Name, ev.Side)
		}
		l.emit(ev)
	case lobby.GameStarted:
		l.mu.Lock()
		l.scores = nil
		l.mu.Unlock()
		l.emit(ev)
	case lobby.GameFinished:
		ev.Scores = l.takeScores()
		l.emit(ev)
	case lobby.Closed:
		l.shutdown()
	case lobby.Event:
		l.emit(ev)
	}
}

func (l *Lobby) setSide(name string, side match.Side) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sides[match.NormalizeName(name)] = side
}

func (l *Lobby) takeScores() []match.PlayerScore {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]match.PlayerScore, 0, len(l.scores))
	for _, s := range l.scores {
		side, ok := l.sides[match.NormalizeName(s.Name)]
		if !ok {
			side = match.NoSide
		}
		out = append(out, match.PlayerScore{Name: s.Name, Side: side, Score: s.Score, Passed: s.Passed})
	}
	l.scores = nil
	return out
}

// emit blocks until the referee takes the event, so a slow consumer holds
// up the connection rather than losing a result.
func (l *Lobby) emit(ev lobby.Event) {
	select {
	case <-l.quit:
		return
	default:
	}
	select {
	case l.events <- ev:
	case <-l.quit:
	}
}

// shutdown reports Closed once and stops further events. It never blocks,
// since the consumer may already be gone.
func (l *Lobby) shutdown() {
	l.once.Do(func() {
		select {
		case l.events <- lobby.Closed{}:
		default:
			log.Warn("Lobby event buffer full, Closed not delivered", "lobby", l.channel)
		}
		close(l.quit)
	})
}

// ircName is the nickname form of an osu! username.
func ircName(name string) string {
	return strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
}

func seconds(d time.Duration) int {
	return int(d.Round(time.Second) / time.Second)
}
