package slack

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/herald/pkg/domain/interfaces"
	"github.com/m-mizutani/herald/pkg/domain/model"
	"github.com/slack-go/slack"
)

type notifier struct {
	webhookURL string
}

// NewNotifier creates a notifier posting to a Slack incoming webhook
func NewNotifier(webhookURL string) interfaces.Notifier {
	return &notifier{webhookURL: webhookURL}
}

// Notify posts a summary of the publish result
func (n *notifier) Notify(ctx context.Context, result *model.PublishResult) error {
	summary := formatSummary(result)

	msg := &slack.WebhookMessage{
		Text: summary,
		Blocks: &slack.Blocks{
			BlockSet: []slack.Block{
				slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, summary, false, false), nil, nil),
			},
		},
	}

	if err := slack.PostWebhookContext(ctx, n.webhookURL, msg); err != nil {
		return goerr.Wrap(err, "failed to post Slack message",
			goerr.V("repo", result.Release.Repository.FullName()),
			goerr.V("tag", result.Release.TagName),
		)
	}
	return nil
}

func formatSummary(result *model.PublishResult) string {
	var sb strings.Builder

	newArtifacts := result.NewArtifacts()
	fmt.Fprintf(&sb, "Published *%s* `%s`: %d artifacts (%d new)",
		result.Release.Repository.FullName(),
		result.Release.TagName,
		len(result.Artifacts),
		len(newArtifacts),
	)

	for _, a := range newArtifacts {
		fmt.Fprintf(&sb, "\n• `%s`", a.Name)
	}

	if result.Previous != nil {
		fmt.Fprintf(&sb, "\n%d commits since `%s`", len(result.Commits), result.Previous.TagName)
	}

	return sb.String()
}
