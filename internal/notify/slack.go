// internal/notify/slack.go
package notify

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"
)

const viewButtonLabel = "View in Notion"

// SlackSink delivers notifications as Slack direct messages. Recipients are
// resolved by workspace email; messages go out as a mrkdwn section with a
// link button when the action carries a link.
type SlackSink struct {
	client *slack.Client
}

func NewSlackSink(token string) *SlackSink {
	return &SlackSink{client: slack.New(token)}
}

func (s *SlackSink) ResolveRecipient(ctx context.Context, email string) (string, error) {
	user, err := s.client.GetUserByEmailContext(ctx, email)
	if err != nil {
		return "", fmt.Errorf("lookup user by email: %w", err)
	}
	return user.ID, nil
}

func (s *SlackSink) Deliver(ctx context.Context, handle, message, link string) error {
	blocks := []slack.Block{
		slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, message, false, false),
			nil, nil,
		),
	}

	// Slack rejects buttons with empty URLs, so linkless messages go out as
	// a plain section.
	if link != "" {
		button := slack.NewButtonBlockElement("", "",
			slack.NewTextBlockObject(slack.PlainTextType, viewButtonLabel, false, false))
		button.URL = link
		blocks = append(blocks, slack.NewActionBlock("", button))
	}

	if _, _, err := s.client.PostMessageContext(ctx, handle, slack.MsgOptionBlocks(blocks...)); err != nil {
		return fmt.Errorf("post message: %w", err)
	}
	return nil
}
