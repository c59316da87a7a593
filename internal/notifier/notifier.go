package notifier

import "context"

// Alert describes a situation in the lobby that needs a human referee.
type Alert struct {
	Lobby    string
	Link     string
	Referees []string
	// Sender is who triggered the alert, empty for automatic alerts.
	Sender string
	Reason string
}

// Notifier defines a high-level interface for sending operational alerts outside the lobby.
// This decouples the referee from the specific notification provider (e.g., Slack).
type Notifier interface {
	// SendPanicAlert is used when someone in the lobby asks for a human.
	SendPanicAlert(ctx context.Context, alert Alert) error
	// SendFailureAlert reports lobby operations that could not be applied.
	SendFailureAlert(ctx context.Context, alert Alert) error
}
