package lobby

import (
	"sync"
	"time"

	"github.com/mauv0809/osu-autoref/internal/match"
)

// Call is one recorded Lobby method invocation.
type Call struct {
	Method string
	Args   []any
}

// Mock is a mock implementation of the Lobby interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	LobbyName string
	LobbyLink string

	// ErrFunc, when set, decides the error returned for a method.
	ErrFunc func(method string) error

	// Calls records every call in order.
	Calls []Call
}

var _ Lobby = (*Mock)(nil)

// NewMock creates a new mock lobby.
func NewMock() *Mock {
	return &Mock{LobbyName: "TEST: Red vs Blue", LobbyLink: "https://osu.ppy.sh/mp/1"}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = nil
}

func (m *Mock) record(method string, args ...any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, Call{Method: method, Args: args})
	if m.ErrFunc != nil {
		return m.ErrFunc(method)
	}
	return nil
}

// Methods returns the recorded method names in call order.
func (m *Mock) Methods() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.Calls))
	for _, c := range m.Calls {
		out = append(out, c.Method)
	}
	return out
}

// CallsTo returns the recorded calls to one method.
func (m *Mock) CallsTo(method string) []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Call
	for _, c := range m.Calls {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

// Messages returns the chat lines sent so far.
func (m *Mock) Messages() []string {
	var out []string
	for _, c := range m.CallsTo("SendMessage") {
		out = append(out, c.Args[0].(string))
	}
	return out
}

func (m *Mock) Name() string { return m.LobbyName }
func (m *Mock) Link() string { return m.LobbyLink }

func (m *Mock) SendMessage(text string) error { return m.record("SendMessage", text) }
func (m *Mock) SetPassword(pw string) error { return m.record("SetPassword", pw) }
func (m *Mock) SetSettings(size int) error { return m.record("SetSettings", size) }
func (m *Mock) SetMap(beatmapID int) error { return m.record("SetMap", beatmapID) }
func (m *Mock) SetMods(mods string) error { return m.record("SetMods", mods) }
func (m *Mock) InvitePlayer(name string) error { return m.record("InvitePlayer", name) }
func (m *Mock) SetHost(name string) error { return m.record("SetHost", name) }
func (m *Mock) StartTimer(d time.Duration) error { return m.record("StartTimer", d) }
func (m *Mock) AbortTimer() error { return m.record("AbortTimer") }
func (m *Mock) AbortMatch() error { return m.record("AbortMatch") }
func (m *Mock) RequestSync() error { return m.record("RequestSync") }
func (m *Mock) Close() error { return m.record("Close") }

func (m *Mock) AddRefs(names ...string) error {
	args := make([]any, len(names))
	for i, n := range names {
		args[i] = n
	}
	return m.record("AddRefs", args...)
}

func (m *Mock) ChangeTeam(name string, side match.Side) error {
	return m.record("ChangeTeam", name, side)
}

func (m *Mock) StartMatch(countdown time.Duration) error {
	return m.record("StartMatch", countdown)
}
