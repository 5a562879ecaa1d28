package notify

import (
	"context"

	slackgo "github.com/slack-go/slack"
)

// SlackNotifier posts outcome messages to one Slack channel.
type SlackNotifier struct {
	client  *slackgo.Client
	channel string
}

// NewSlackNotifier creates a Slack sink from a bot token and channel id.
func NewSlackNotifier(botToken, channel string) *SlackNotifier {
	return &SlackNotifier{
		client:  slackgo.New(botToken),
		channel: channel,
	}
}

func (s *SlackNotifier) Name() string { return "slack" }

func (s *SlackNotifier) Notify(ctx context.Context, ev Event) error {
	_, _, err := s.client.PostMessageContext(ctx, s.channel,
		slackgo.MsgOptionText(message(ev), false))
	return err
}
