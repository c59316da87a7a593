package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                sync.Mutex
	mapsBanned        int
	mapsPicked        int
	roundsPlayed      map[string]int
	timersExpired     map[string]int
	commands          map[string]int
	panics            int
	lobbyCallFailures map[string]int
	eventDurations    []float64
	slackNotifSent    int
	slackNotifFailed  int
	startupTime       float64
}

var _ Metrics = (*Mock)(nil)

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		roundsPlayed:      make(map[string]int),
		timersExpired:     make(map[string]int),
		commands:          make(map[string]int),
		lobbyCallFailures: make(map[string]int),
		eventDurations:    make([]float64, 0),
	}
}

func (m *Mock) IncMapsBanned() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mapsBanned++
}

func (m *Mock) IncMapsPicked() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mapsPicked++
}

func (m *Mock) IncRoundsPlayed(winner string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roundsPlayed[winner]++
}

func (m *Mock) IncTimersExpired(phase string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timersExpired[phase]++
}

func (m *Mock) IncCommands(verb string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commands[verb]++
}

func (m *Mock) IncPanics() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.panics++
}

func (m *Mock) IncLobbyCallFailures(op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lobbyCallFailures[op]++
}

func (m *Mock) ObserveEventDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.eventDurations = append(m.eventDurations, duration)
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// Getters for test assertions

func (m *Mock) MapsBanned() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mapsBanned
}

func (m *Mock) MapsPicked() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mapsPicked
}

func (m *Mock) RoundsPlayed(winner string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.roundsPlayed[winner]
}

func (m *Mock) TimersExpired(phase string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.timersExpired[phase]
}

func (m *Mock) Commands(verb string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.commands[verb]
}

func (m *Mock) Panics() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.panics
}

func (m *Mock) LobbyCallFailures(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lobbyCallFailures[op]
}

func (m *Mock) EventDurations() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.eventDurations
}

func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}

func (m *Mock) StartupTime() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.startupTime
}
