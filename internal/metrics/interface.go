package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the referee from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncMapsBanned()
	IncMapsPicked()
	// IncRoundsPlayed counts finished games by winning colour, or "tie".
	IncRoundsPlayed(winner string)
	IncTimersExpired(phase string)
	IncCommands(verb string)
	IncPanics()
	IncLobbyCallFailures(op string)
	ObserveEventDuration(duration float64)
	IncSlackNotifSent()
	IncSlackNotifFailed()
	SetStartupTime(duration float64)
}
