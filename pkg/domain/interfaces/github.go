package interfaces

import (
	"context"

	"github.com/m-mizutani/herald/pkg/domain/model"
)

// GitHubClient defines operations for interacting with GitHub API
type GitHubClient interface {
	// LatestRelease returns the latest published release, or nil if the repository has none
	LatestRelease(ctx context.Context, repo model.Repository) (*model.Release, error)

	// ListReleases returns all releases of the repository, newest first
	ListReleases(ctx context.Context, repo model.Repository) ([]*model.Release, error)

	// CompareCommits returns commits reachable from head but not from base
	CompareCommits(ctx context.Context, repo model.Repository, base, head string) ([]*model.Commit, error)

	// UploadAsset uploads artifact to the release identified by uploadURL
	UploadAsset(ctx context.Context, uploadURL string, artifact *model.Artifact) error

	// UpdateReleaseBody replaces the body of the release
	UpdateReleaseBody(ctx context.Context, repo model.Repository, releaseID int64, body string) error
}
