package adapter

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/slack-go/slack"

	"github.com/NamanSoni18/Finmate-Backend/internal/errors"
)

// SlackNotifier posts escalation alerts to a channel where human agents
// watch for distressed customers.
type SlackNotifier struct {
	client  *slack.Client
	channel string
}

func NewSlackNotifier(botToken, channel string) *SlackNotifier {
	if botToken == "" {
		botToken = os.Getenv("SLACK_BOT_TOKEN")
	}
	return &SlackNotifier{
		client:  slack.New(botToken),
		channel: channel,
	}
}

func (s *SlackNotifier) NotifyEscalation(ctx context.Context, sessionID, message string) error {
	text := fmt.Sprintf(
		":rotating_light: Customer needs a human. Session `%s` said:\n> %s",
		sessionID, message)

	_, _, err := s.client.PostMessageContext(ctx, s.channel, slack.MsgOptionText(text, false))
	if err != nil {
		return errors.Wrap(err, "post slack escalation")
	}
	slog.Debug("slack escalation sent", "channel", s.channel, "session_id", sessionID)
	return nil
}
