package referee

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/osu-autoref/internal/lobby"
)

// ErrStopped is returned to callers once Run has returned.
var ErrStopped = errors.New("referee stopped")

// Msg is a request handled on the dispatch goroutine.
type Msg interface{ isRefereeMsg() }

// GetState asks for a Snapshot of the match.
type GetState struct {
	Reply chan Snapshot
}

func (GetState) isRefereeMsg() {}

// RunCommand executes an operator command from outside the lobby chat.
type RunCommand struct {
	Sender string
	Text   string
	Reply  chan CommandResult
}

func (RunCommand) isRefereeMsg() {}

// Relay sends a line of text to the lobby chat.
type Relay struct {
	Text  string
	Reply chan error
}

func (Relay) isRefereeMsg() {}

type CommandResult struct {
	Reply string
	Err   error
}

// Run dispatches lobby events and requests one at a time until the lobby
// closes, the event channel is closed or ctx is cancelled.
func (r *Referee) Run(ctx context.Context, events <-chan lobby.Event) error {
	defer close(r.stopped)
	defer r.alerts.Wait()

	log.Info("Referee started", "lobby", r.lobby.Name(), "bestOf", r.settings.BestOf, "bans", r.settings.TotalBans())
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				log.Info("Lobby event stream ended")
				return nil
			}
			r.timed(func() { r.handleEvent(ev) })
		case m := <-r.inbox:
			r.timed(func() { r.handleMsg(m) })
		}
		if r.done {
			log.Info("Referee finished", "lobby", r.lobby.Name(), "phase", r.state.Phase)
			return nil
		}
	}
}

func (r *Referee) timed(fn func()) {
	start := time.Now()
	fn()
	r.metrics.ObserveEventDuration(time.Since(start).Seconds())
}

func (r *Referee) handleMsg(m Msg) {
	switch msg := m.(type) {
	case GetState:
		msg.Reply <- r.snapshot()
	case RunCommand:
		msg.Reply <- r.runExternal(msg.Sender, msg.Text)
	case Relay:
		err := r.lobby.SendMessage(msg.Text)
		r.check("SendMessage", err)
		msg.Reply <- err
	}
}

// runExternal handles commands from already authenticated sources, so the
// trusted list is not consulted.
func (r *Referee) runExternal(sender, text string) CommandResult {
	text = strings.TrimSpace(text)
	if r.isPanic(text) {
		r.triggerPanic(sender)
		return CommandResult{Reply: "panic sent"}
	}
	reply, err := r.execute(sender, strings.TrimPrefix(text, r.settings.CommandPrefix))
	return CommandResult{Reply: reply, Err: err}
}

func (r *Referee) send(ctx context.Context, m Msg) error {
	select {
	case r.inbox <- m:
		return nil
	case <-r.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// await waits for the reply to a request. A reply sent just before Run
// returned still wins over ErrStopped.
func await[T any](ctx context.Context, r *Referee, reply <-chan T) (T, error) {
	var zero T
	select {
	case v := <-reply:
		return v, nil
	case <-r.stopped:
		select {
		case v := <-reply:
			return v, nil
		default:
			return zero, ErrStopped
		}
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Snapshot returns a copy of the current match state.
func (r *Referee) Snapshot(ctx context.Context) (Snapshot, error) {
	reply := make(chan Snapshot, 1)
	if err := r.send(ctx, GetState{Reply: reply}); err != nil {
		return Snapshot{}, err
	}
	return await(ctx, r, reply)
}

// Submit runs an operator command, with or without the command prefix.
func (r *Referee) Submit(ctx context.Context, sender, text string) (string, error) {
	reply := make(chan CommandResult, 1)
	if err := r.send(ctx, RunCommand{Sender: sender, Text: text, Reply: reply}); err != nil {
		return "", err
	}
	res, err := await(ctx, r, reply)
	if err != nil {
		return "", err
	}
	return res.Reply, res.Err
}

// Say relays a line of text to the lobby chat.
func (r *Referee) Say(ctx context.Context, text string) error {
	reply := make(chan error, 1)
	if err := r.send(ctx, Relay{Text: text, Reply: reply}); err != nil {
		return err
	}
	err, waitErr := await(ctx, r, reply)
	if waitErr != nil {
		return waitErr
	}
	return err
}
