package usecase

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/herald/pkg/domain/interfaces"
	"github.com/m-mizutani/herald/pkg/domain/model"
	"github.com/m-mizutani/herald/pkg/utils/async"
)

type webhookUseCase struct {
	publisher    interfaces.PublishUseCase
	artifactsDir string
	dispatch     func(ctx context.Context, handler func(ctx context.Context) error)
}

// WebhookOption is a functional option for the webhook use case
type WebhookOption func(*webhookUseCase)

// WithDispatcher replaces async.Dispatch, mainly to run publish synchronously in tests
func WithDispatcher(dispatch func(ctx context.Context, handler func(ctx context.Context) error)) WebhookOption {
	return func(uc *webhookUseCase) {
		uc.dispatch = dispatch
	}
}

// NewWebhook creates a new instance of WebhookUseCase that publishes artifactsDir
// whenever a release is published
func NewWebhook(publisher interfaces.PublishUseCase, artifactsDir string, opts ...WebhookOption) interfaces.WebhookUseCase {
	uc := &webhookUseCase{
		publisher:    publisher,
		artifactsDir: artifactsDir,
		dispatch:     async.Dispatch,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// ProcessEvent processes a webhook event. Publishing runs in background because
// GitHub expects a webhook response within seconds.
func (uc *webhookUseCase) ProcessEvent(ctx context.Context, event *model.WebhookEvent) error {
	logger := ctxlog.From(ctx)

	logger.Info("Processing webhook event",
		"id", event.ID,
		"type", event.Type,
		"action", event.Action,
		"repository", event.Repository,
		"sender", event.Sender,
		"supported", event.IsSupportedEvent(),
	)

	if !event.IsSupportedEvent() {
		logger.Debug("Ignoring unsupported event",
			"type", event.Type,
			"action", event.Action,
		)
		return nil
	}

	release, err := ParseReleaseEvent(event.RawPayload)
	if err != nil {
		return goerr.Wrap(err, "failed to parse release event", goerr.V("delivery_id", event.ID))
	}

	uc.dispatch(ctx, func(ctx context.Context) error {
		_, err := uc.publisher.Publish(ctx, release, uc.artifactsDir)
		return err
	})

	return nil
}
