package interfaces

import (
	"context"

	"github.com/m-mizutani/herald/pkg/domain/model"
)

// Notifier reports a finished publish run to an external channel
type Notifier interface {
	Notify(ctx context.Context, result *model.PublishResult) error
}

// ArtifactMirror stores a copy of each uploaded artifact outside GitHub
type ArtifactMirror interface {
	Mirror(ctx context.Context, release *model.ReleaseEvent, artifact *model.Artifact) error
}
