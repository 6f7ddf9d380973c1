package usecase

import (
	"encoding/json"

	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/herald/pkg/domain/model"
	"github.com/m-mizutani/herald/pkg/domain/types"
)

// ParseReleaseEvent extracts the release to publish from a "release" event payload.
// target_commitish is usually a branch that may have moved past the tag, so
// CommitSHA is left empty and the tag ends the changelog range unless the
// caller knows the exact commit.
func ParseReleaseEvent(payload []byte) (*model.ReleaseEvent, error) {
	var event github.ReleaseEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, goerr.Wrap(types.ErrInvalidEvent, "failed to unmarshal release event", goerr.V("error", err.Error()))
	}

	if event.GetRelease() == nil {
		return nil, goerr.Wrap(types.ErrInvalidEvent, "missing release information in release event")
	}
	if event.GetRepo() == nil {
		return nil, goerr.Wrap(types.ErrInvalidEvent, "missing repository information in release event")
	}

	release := &model.ReleaseEvent{
		Action:    event.GetAction(),
		ReleaseID: event.GetRelease().GetID(),
		TagName:   event.GetRelease().GetTagName(),
		UploadURL: event.GetRelease().GetUploadURL(),
		Body:      event.GetRelease().GetBody(),
		Repository: model.Repository{
			Owner: event.GetRepo().GetOwner().GetLogin(),
			Name:  event.GetRepo().GetName(),
		},
	}

	if release.ReleaseID == 0 || release.UploadURL == "" || release.Repository.Owner == "" || release.Repository.Name == "" {
		return nil, goerr.Wrap(types.ErrInvalidEvent, "missing required fields",
			goerr.V("release_id", release.ReleaseID),
			goerr.V("upload_url", release.UploadURL),
			goerr.V("owner", release.Repository.Owner),
			goerr.V("repo", release.Repository.Name),
		)
	}

	return release, nil
}
