package interfaces

import (
	"context"

	"github.com/m-mizutani/herald/pkg/domain/model"
)

// WebhookUseCase defines the interface for webhook event processing
type WebhookUseCase interface {
	ProcessEvent(ctx context.Context, event *model.WebhookEvent) error
}

// PublishUseCase uploads artifacts to a release and rewrites its body
type PublishUseCase interface {
	Publish(ctx context.Context, release *model.ReleaseEvent, artifactsDir string) (*model.PublishResult, error)
}
