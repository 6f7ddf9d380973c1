package usecase

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/herald/pkg/domain/interfaces"
	"github.com/m-mizutani/herald/pkg/domain/model"
	"github.com/m-mizutani/herald/pkg/domain/types"
)

type publishUseCase struct {
	githubClient interfaces.GitHubClient
	notifier     interfaces.Notifier
	mirror       interfaces.ArtifactMirror
	contentTypes ContentTypes
	format       bodyFormat
	dryRun       bool
}

// PublishOption is a functional option for the publish use case
type PublishOption func(*publishUseCase)

// WithContentTypes sets per-extension content type overrides
func WithContentTypes(contentTypes ContentTypes) PublishOption {
	return func(uc *publishUseCase) {
		uc.contentTypes = contentTypes
	}
}

// WithChangelogHeading sets the heading line of the changelog section
func WithChangelogHeading(heading string) PublishOption {
	return func(uc *publishUseCase) {
		if heading != "" {
			uc.format.heading = heading
		}
	}
}

// WithFullCommitMessage writes whole commit messages instead of their first line
func WithFullCommitMessage(full bool) PublishOption {
	return func(uc *publishUseCase) {
		uc.format.fullMessage = full
	}
}

// WithNotifier reports each finished run
func WithNotifier(notifier interfaces.Notifier) PublishOption {
	return func(uc *publishUseCase) {
		uc.notifier = notifier
	}
}

// WithMirror copies each uploaded artifact to secondary storage
func WithMirror(mirror interfaces.ArtifactMirror) PublishOption {
	return func(uc *publishUseCase) {
		uc.mirror = mirror
	}
}

// WithDryRun renders the release body without writing anything
func WithDryRun(dryRun bool) PublishOption {
	return func(uc *publishUseCase) {
		uc.dryRun = dryRun
	}
}

// NewPublish creates a new instance of PublishUseCase
func NewPublish(githubClient interfaces.GitHubClient, opts ...PublishOption) interfaces.PublishUseCase {
	uc := &publishUseCase{
		githubClient: githubClient,
		format: bodyFormat{
			heading: types.DefaultChangelogHeading,
		},
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Publish uploads every artifact in artifactsDir to the release and rewrites its body
func (uc *publishUseCase) Publish(ctx context.Context, release *model.ReleaseEvent, artifactsDir string) (*model.PublishResult, error) {
	logger := ctxlog.From(ctx).With(
		slog.String("run_id", uuid.NewString()),
		slog.String("repo", release.Repository.FullName()),
		slog.String("tag", release.TagName),
	)
	ctx = ctxlog.With(ctx, logger)

	logger.Info("Publishing release artifacts",
		"release_id", release.ReleaseID,
		"artifacts_dir", artifactsDir,
		"dry_run", uc.dryRun,
	)

	artifacts, err := uc.listArtifacts(ctx, artifactsDir)
	if err != nil {
		return nil, err
	}

	previous, err := uc.previousRelease(ctx, release)
	if err != nil {
		return nil, err
	}

	for _, a := range artifacts {
		a.New = previous == nil || !previous.HasAsset(a.Name)
	}

	for _, a := range artifacts {
		if err := uc.uploadArtifact(ctx, release, a); err != nil {
			return nil, err
		}
	}

	var commits []*model.Commit
	if previous != nil {
		commits, err = uc.githubClient.CompareCommits(ctx, release.Repository, previous.TagName, release.Head())
		if err != nil {
			return nil, goerr.Wrap(err, "failed to collect changelog",
				goerr.V("base", previous.TagName),
				goerr.V("head", release.Head()),
			)
		}
		logger.Info("Collected changelog",
			"base", previous.TagName,
			"head", release.Head(),
			"commit_count", len(commits),
		)
	}

	result := &model.PublishResult{
		Release:   release,
		Previous:  previous,
		Artifacts: artifacts,
		Commits:   commits,
		Body:      renderBody(uc.format, artifacts, previous, commits),
		DryRun:    uc.dryRun,
	}

	if uc.dryRun {
		logger.Info("Dry run, release body is not updated")
		return result, nil
	}

	if err := uc.githubClient.UpdateReleaseBody(ctx, release.Repository, release.ReleaseID, result.Body); err != nil {
		return nil, goerr.Wrap(err, "failed to update release body")
	}

	logger.Info("Updated release body",
		"artifact_count", len(artifacts),
		"new_artifact_count", len(result.NewArtifacts()),
	)

	if uc.notifier != nil {
		if err := uc.notifier.Notify(ctx, result); err != nil {
			logger.Warn("Failed to notify publish result", "error", err)
		}
	}

	return result, nil
}

// listArtifacts returns regular files directly under dir, sorted by name
func (uc *publishUseCase) listArtifacts(ctx context.Context, dir string) ([]*model.Artifact, error) {
	logger := ctxlog.From(ctx)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read artifacts directory", goerr.V("dir", dir))
	}

	var artifacts []*model.Artifact
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		// Stat follows symlinks so that linked files are published too
		info, err := os.Stat(path)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to stat artifact", goerr.V("path", path))
		}
		if !info.Mode().IsRegular() {
			logger.Debug("Skipping non-regular entry", "path", path)
			continue
		}

		artifacts = append(artifacts, &model.Artifact{
			Name:        entry.Name(),
			Path:        path,
			Size:        info.Size(),
			ContentType: uc.contentTypes.Resolve(entry.Name()),
		})
	}

	logger.Info("Found artifacts", "count", len(artifacts))
	return artifacts, nil
}

// previousRelease returns the release preceding the one being published, or nil
func (uc *publishUseCase) previousRelease(ctx context.Context, release *model.ReleaseEvent) (*model.Release, error) {
	logger := ctxlog.From(ctx)

	latest, err := uc.githubClient.LatestRelease(ctx, release.Repository)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to look up latest release")
	}
	if latest == nil {
		logger.Info("No prior release found")
		return nil, nil
	}
	if latest.ID != release.ReleaseID {
		logger.Info("Found previous release", "previous_tag", latest.TagName)
		return latest, nil
	}

	// A published release becomes "latest" immediately, look further back
	releases, err := uc.githubClient.ListReleases(ctx, release.Repository)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to look up previous release")
	}
	for _, r := range releases {
		if r.ID == release.ReleaseID || r.Draft || r.Prerelease {
			continue
		}
		logger.Info("Found previous release", "previous_tag", r.TagName)
		return r, nil
	}

	logger.Info("No prior release found")
	return nil, nil
}

func (uc *publishUseCase) uploadArtifact(ctx context.Context, release *model.ReleaseEvent, artifact *model.Artifact) error {
	logger := ctxlog.From(ctx)

	logger.Info("Uploading artifact",
		"name", artifact.Name,
		"size", artifact.Size,
		"content_type", artifact.ContentType,
		"new", artifact.New,
	)

	if uc.dryRun {
		return nil
	}

	if err := uc.githubClient.UploadAsset(ctx, release.UploadURL, artifact); err != nil {
		logger.Error("Failed to upload artifact", "name", artifact.Name, "error", err)
		return goerr.Wrap(err, "failed to upload artifact", goerr.V("name", artifact.Name))
	}

	if uc.mirror != nil {
		if err := uc.mirror.Mirror(ctx, release, artifact); err != nil {
			return goerr.Wrap(err, "failed to mirror artifact", goerr.V("name", artifact.Name))
		}
	}

	return nil
}
