// Package notify delivers sync outcome announcements to the operations
// channel. Delivery is best effort: a failed notification is logged and
// never fails the pipeline that triggered it.
package notify

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"
	"go.uber.org/zap"
)

// SlackNotifier posts one mrkdwn section block per event to a fixed channel.
type SlackNotifier struct {
	client  *slack.Client
	channel string
	log     *zap.Logger
}

// NewSlackNotifier creates a notifier posting to the given channel.
func NewSlackNotifier(token, channel string, log *zap.Logger) *SlackNotifier {
	return &SlackNotifier{
		client:  slack.New(token),
		channel: channel,
		log:     log,
	}
}

func (n *SlackNotifier) post(ctx context.Context, text, fallback string) {
	block := slack.NewSectionBlock(
		slack.NewTextBlockObject(slack.MarkdownType, text, false, false),
		nil, nil,
	)
	_, _, err := n.client.PostMessageContext(ctx, n.channel,
		slack.MsgOptionBlocks(block),
		slack.MsgOptionText(fallback, false),
	)
	if err != nil {
		n.log.Error("posting slack notification failed",
			zap.String("fallback", fallback),
			zap.Error(err),
		)
	}
}

func (n *SlackNotifier) OrderCreated(ctx context.Context, orderNumber string) {
	n.post(ctx, fmt.Sprintf("*Inventory Order Created*: %s", orderNumber),
		"inventory order created message")
}

func (n *SlackNotifier) OrderCreateFailed(ctx context.Context, orderNumber, detail string) {
	n.post(ctx, fmt.Sprintf("*Error creating Inventory Order*: %s\nError Message: %s", orderNumber, detail),
		"inventory order error message")
}

func (n *SlackNotifier) CustomerCreated(ctx context.Context, name string) {
	n.post(ctx, fmt.Sprintf("*Inventory Customer Created*: %s", name),
		"inventory customer created message")
}

func (n *SlackNotifier) CustomerCreateFailed(ctx context.Context, name, detail string) {
	n.post(ctx, fmt.Sprintf("*Error creating Inventory Customer*: %s\nError Message: %s", name, detail),
		"inventory customer error message")
}

func (n *SlackNotifier) ProductCreated(ctx context.Context, name string) {
	n.post(ctx, fmt.Sprintf("*CRM Product Created*: %s", name),
		"crm product created message")
}

func (n *SlackNotifier) ProductCreateFailed(ctx context.Context, name, detail string) {
	n.post(ctx, fmt.Sprintf("*Error creating CRM Product*: %s\nError Message: %s", name, detail),
		"crm product error message")
}

func (n *SlackNotifier) OrderUpdated(ctx context.Context, orderNumber string) {
	n.post(ctx, fmt.Sprintf("*CRM Order Updated*: %s", orderNumber),
		"crm order updated message")
}

func (n *SlackNotifier) OrderUpdateFailed(ctx context.Context, orderNumber, detail string) {
	n.post(ctx, fmt.Sprintf("*Error updating CRM Order*: %s\nError Message: %s", orderNumber, detail),
		"crm order error message")
}
