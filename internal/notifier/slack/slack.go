package slack

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	json "github.com/goccy/go-json"
	"github.com/mauv0809/osu-autoref/internal/metrics"
	"github.com/mauv0809/osu-autoref/internal/notifier"
	"github.com/sethvargo/go-retry"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

const (
	sendTimeout  = 10 * time.Second
	maxRetries   = 3
	retryBackoff = 500 * time.Millisecond
)

// Notifier posts referee alerts to a Slack channel.
type Notifier struct {
	api       slackClient
	channelID string
	// mention is prepended to every alert, e.g. "<!here>" or "<@U123>".
	mention string
	// dryRun logs alerts instead of posting them.
	dryRun  bool
	metrics metrics.Metrics
	backoff time.Duration
}

// NewNotifier creates a new Notifier. An empty token puts it in dry-run mode.
func NewNotifier(token, channelID, mention string, metrics metrics.Metrics) *Notifier {
	n := &Notifier{
		channelID: channelID,
		mention:   mention,
		dryRun:    token == "",
		metrics:   metrics,
		backoff:   retryBackoff,
	}
	if !n.dryRun {
		n.api = slack.New(token)
	}
	return n
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID, mention string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		mention:   mention,
		metrics:   metrics,
		backoff:   time.Millisecond,
	}
}

func (s *Notifier) sendMessage(ctx context.Context, message slack.Message) (string, string, error) {
	if s.dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}

	var channelID, timestamp string
	b := retry.WithMaxRetries(maxRetries, retry.NewExponential(s.backoff))
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
		defer cancel()

		var err error
		channelID, timestamp, err = s.api.PostMessageContext(
			sendCtx,
			s.channelID,
			slack.MsgOptionBlocks(message.Blocks.BlockSet...),
			slack.MsgOptionText(fallbackText(message), false),
			slack.MsgOptionAsUser(true),
		)
		if err != nil {
			log.Warn("Slack post failed, retrying", "error", err, "channel", s.channelID)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", s.channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

// SendPanicAlert implements notifier.Notifier.
func (s *Notifier) SendPanicAlert(ctx context.Context, alert notifier.Alert) error {
	_, _, err := s.sendMessage(ctx, s.formatPanicAlert(alert))
	return err
}

// SendFailureAlert implements notifier.Notifier.
func (s *Notifier) SendFailureAlert(ctx context.Context, alert notifier.Alert) error {
	_, _, err := s.sendMessage(ctx, s.formatFailureAlert(alert))
	return err
}

// formatPanicAlert creates the Slack message for a panic in the lobby using Block Kit.
func (s *Notifier) formatPanicAlert(alert notifier.Alert) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🚨 Referee needed! 🚨", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	who := alert.Sender
	if who == "" {
		who = "someone"
	}
	text := fmt.Sprintf("%s*%s* used panic in *%s*. Auto referee is now OFF.", s.mentionPrefix(), who, alert.Lobby)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", text, false, false), nil, nil))

	blocks = append(blocks, s.lobbyContext(alert)...)
	return slack.NewBlockMessage(blocks...)
}

// formatFailureAlert creates the Slack message for a failed lobby operation.
func (s *Notifier) formatFailureAlert(alert notifier.Alert) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "⚠️ Lobby operation failed", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	text := fmt.Sprintf("%s%s in *%s*", s.mentionPrefix(), alert.Reason, alert.Lobby)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", text, false, false), nil, nil))

	blocks = append(blocks, s.lobbyContext(alert)...)
	return slack.NewBlockMessage(blocks...)
}

func (s *Notifier) lobbyContext(alert notifier.Alert) []slack.Block {
	var elements []slack.MixedElement
	if alert.Link != "" {
		elements = append(elements, slack.NewTextBlockObject("mrkdwn", fmt.Sprintf("<%s|Match link>", alert.Link), false, false))
	}
	if len(alert.Referees) > 0 {
		elements = append(elements, slack.NewTextBlockObject("plain_text", "Referees: "+strings.Join(alert.Referees, ", "), true, false))
	}
	if len(elements) == 0 {
		return nil
	}
	return []slack.Block{slack.NewContextBlock("", elements...)}
}

func (s *Notifier) mentionPrefix() string {
	if s.mention == "" {
		return ""
	}
	return s.mention + " "
}

// fallbackText is the notification text shown where blocks are not rendered.
func fallbackText(message slack.Message) string {
	for _, b := range message.Blocks.BlockSet {
		if section, ok := b.(*slack.SectionBlock); ok && section.Text != nil {
			return section.Text.Text
		}
	}
	return "osu! autoref alert"
}
