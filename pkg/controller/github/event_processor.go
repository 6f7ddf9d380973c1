package github

import (
	"context"
	"os"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/herald/pkg/domain/interfaces"
	"github.com/m-mizutani/herald/pkg/domain/model"
	"github.com/m-mizutani/herald/pkg/usecase"
)

// EventProcessor runs a publish for the event that triggered a GitHub Actions workflow
type EventProcessor struct {
	publisher interfaces.PublishUseCase
}

// NewEventProcessor creates a new GitHub Actions event processor
func NewEventProcessor(publisher interfaces.PublishUseCase) *EventProcessor {
	return &EventProcessor{
		publisher: publisher,
	}
}

// ProcessEvent reads the event payload written by the runner and publishes
// artifacts when the workflow was triggered by a release. Other events are
// skipped and yield a nil result.
func (p *EventProcessor) ProcessEvent(ctx context.Context, actx *model.ActionContext) (*model.PublishResult, error) {
	logger := ctxlog.From(ctx)

	if actx.EventName != "" && actx.EventName != string(model.EventTypeRelease) {
		logger.Info("Ignoring unsupported event type", "event_name", actx.EventName)
		return nil, nil
	}

	if actx.EventPath == "" {
		return nil, goerr.New("event payload path is not set, GITHUB_EVENT_PATH is required")
	}

	payload, err := os.ReadFile(actx.EventPath)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read event payload", goerr.V("path", actx.EventPath))
	}

	release, err := usecase.ParseReleaseEvent(payload)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to extract release from event", goerr.V("path", actx.EventPath))
	}

	// The workflow checkout SHA is the exact commit being released
	if actx.SHA != "" {
		release.CommitSHA = actx.SHA
	}

	logger.Info("Processing release event",
		"owner", release.Repository.Owner,
		"repo", release.Repository.Name,
		"tag", release.TagName,
		"action", release.Action,
		"commit_sha", release.CommitSHA,
	)

	result, err := p.publisher.Publish(ctx, release, actx.ArtifactsDir)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to publish release",
			goerr.V("repo", release.Repository.FullName()),
			goerr.V("tag", release.TagName),
		)
	}

	return result, nil
}
