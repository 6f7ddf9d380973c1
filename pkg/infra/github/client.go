package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/herald/pkg/domain/interfaces"
	"github.com/m-mizutani/herald/pkg/domain/model"
	"github.com/m-mizutani/herald/pkg/domain/types"
)

const perPage = 100

type client struct {
	githubClient *github.Client
}

// config holds internal client configuration
type config struct {
	baseURL   string
	transport http.RoundTripper
}

// Option is a functional option for the GitHub client
type Option func(*config)

// WithBaseURL sets the REST API endpoint, e.g. GITHUB_API_URL on GitHub Enterprise Server
func WithBaseURL(baseURL string) Option {
	return func(c *config) {
		c.baseURL = baseURL
	}
}

// WithTransport sets the underlying HTTP transport
func WithTransport(rt http.RoundTripper) Option {
	return func(c *config) {
		c.transport = rt
	}
}

func newConfig(opts []Option) *config {
	cfg := &config{
		transport: http.DefaultTransport,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// NewClient creates a new GitHub client authenticated with a token such as GITHUB_TOKEN
func NewClient(token string, opts ...Option) (interfaces.GitHubClient, error) {
	if token == "" {
		return nil, types.ErrMissingToken
	}

	cfg := newConfig(opts)
	githubClient := github.NewClient(&http.Client{Transport: cfg.transport}).WithAuthToken(token)
	if err := applyBaseURL(githubClient, cfg.baseURL); err != nil {
		return nil, err
	}

	return &client{githubClient: githubClient}, nil
}

// NewAppClient creates a new GitHub client with App installation authentication
func NewAppClient(appID, installationID int64, privateKey []byte, opts ...Option) (interfaces.GitHubClient, error) {
	cfg := newConfig(opts)

	itr, err := ghinstallation.New(cfg.transport, appID, installationID, privateKey)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create GitHub App transport",
			goerr.V("app_id", appID),
			goerr.V("installation_id", installationID),
		)
	}
	if cfg.baseURL != "" {
		itr.BaseURL = strings.TrimSuffix(cfg.baseURL, "/")
	}

	githubClient := github.NewClient(&http.Client{Transport: itr})
	if err := applyBaseURL(githubClient, cfg.baseURL); err != nil {
		return nil, err
	}

	return &client{githubClient: githubClient}, nil
}

func applyBaseURL(githubClient *github.Client, baseURL string) error {
	if baseURL == "" {
		return nil
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return goerr.Wrap(err, "invalid GitHub API URL", goerr.V("url", baseURL))
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	githubClient.BaseURL = u
	return nil
}

// LatestRelease returns the latest release. A repository without any release yields (nil, nil).
func (c *client) LatestRelease(ctx context.Context, repo model.Repository) (*model.Release, error) {
	release, _, err := c.githubClient.Repositories.GetLatestRelease(ctx, repo.Owner, repo.Name)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to get latest release", goerr.V("repo", repo.FullName()))
	}

	return toRelease(release), nil
}

// ListReleases returns every release of the repository, following pagination
func (c *client) ListReleases(ctx context.Context, repo model.Repository) ([]*model.Release, error) {
	var releases []*model.Release
	opt := &github.ListOptions{PerPage: perPage}

	for {
		page, resp, err := c.githubClient.Repositories.ListReleases(ctx, repo.Owner, repo.Name, opt)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list releases",
				goerr.V("repo", repo.FullName()),
				goerr.V("page", opt.Page),
			)
		}

		for _, r := range page {
			releases = append(releases, toRelease(r))
		}

		if resp.NextPage == 0 {
			break
		}
		opt.Page = resp.NextPage
	}

	return releases, nil
}

// CompareCommits returns commits between base and head, following pagination
func (c *client) CompareCommits(ctx context.Context, repo model.Repository, base, head string) ([]*model.Commit, error) {
	var commits []*model.Commit
	opt := &github.ListOptions{PerPage: perPage}

	for {
		comparison, resp, err := c.githubClient.Repositories.CompareCommits(ctx, repo.Owner, repo.Name, base, head, opt)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to compare commits",
				goerr.V("repo", repo.FullName()),
				goerr.V("base", base),
				goerr.V("head", head),
			)
		}

		for _, rc := range comparison.Commits {
			commits = append(commits, &model.Commit{
				SHA:         rc.GetSHA(),
				Message:     rc.GetCommit().GetMessage(),
				AuthorName:  rc.GetCommit().GetAuthor().GetName(),
				AuthorLogin: rc.GetAuthor().GetLogin(),
				AuthorURL:   rc.GetAuthor().GetHTMLURL(),
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opt.Page = resp.NextPage
	}

	return commits, nil
}

// UploadAsset uploads the artifact file to the release upload URL taken from the event
func (c *client) UploadAsset(ctx context.Context, uploadURL string, artifact *model.Artifact) error {
	f, err := os.Open(artifact.Path)
	if err != nil {
		return goerr.Wrap(err, "failed to open artifact", goerr.V("path", artifact.Path))
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return goerr.Wrap(err, "failed to stat artifact", goerr.V("path", artifact.Path))
	}

	target, err := expandUploadURL(uploadURL, artifact.Name)
	if err != nil {
		return err
	}

	req, err := c.githubClient.NewUploadRequest(target, f, stat.Size(), artifact.ContentType)
	if err != nil {
		return goerr.Wrap(err, "failed to create upload request", goerr.V("url", target))
	}

	asset := new(github.ReleaseAsset)
	if _, err := c.githubClient.Do(ctx, req, asset); err != nil {
		return goerr.Wrap(err, "failed to upload release asset",
			goerr.V("name", artifact.Name),
			goerr.V("content_type", artifact.ContentType),
			goerr.V("size", stat.Size()),
			goerr.V("errors", validationErrors(err)),
		)
	}

	return nil
}

// UpdateReleaseBody replaces only the body of the release
func (c *client) UpdateReleaseBody(ctx context.Context, repo model.Repository, releaseID int64, body string) error {
	_, _, err := c.githubClient.Repositories.EditRelease(ctx, repo.Owner, repo.Name, releaseID, &github.RepositoryRelease{
		Body: github.Ptr(body),
	})
	if err != nil {
		return goerr.Wrap(err, "failed to update release",
			goerr.V("repo", repo.FullName()),
			goerr.V("release_id", releaseID),
		)
	}
	return nil
}

// expandUploadURL turns "https://uploads.github.com/repos/o/r/releases/1/assets{?name,label}"
// into a concrete URL carrying the asset name
func expandUploadURL(uploadURL, name string) (string, error) {
	base, _, _ := strings.Cut(uploadURL, "{")
	u, err := url.Parse(base)
	if err != nil {
		return "", goerr.Wrap(err, "invalid release upload URL", goerr.V("upload_url", uploadURL))
	}
	if !u.IsAbs() {
		return "", goerr.New("release upload URL must be absolute", goerr.V("upload_url", uploadURL))
	}

	q := u.Query()
	q.Set("name", name)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func toRelease(r *github.RepositoryRelease) *model.Release {
	release := &model.Release{
		ID:         r.GetID(),
		TagName:    r.GetTagName(),
		Draft:      r.GetDraft(),
		Prerelease: r.GetPrerelease(),
	}
	for _, asset := range r.Assets {
		release.AssetNames = append(release.AssetNames, asset.GetName())
	}
	return release
}

func isNotFound(err error) bool {
	var errResp *github.ErrorResponse
	if !errors.As(err, &errResp) || errResp.Response == nil {
		return false
	}
	return errResp.Response.StatusCode == http.StatusNotFound
}

// validationErrors flattens nested API validation errors, e.g. "ReleaseAsset.name: already_exists"
func validationErrors(err error) []string {
	var errResp *github.ErrorResponse
	if !errors.As(err, &errResp) {
		return nil
	}

	details := make([]string, 0, len(errResp.Errors))
	for _, e := range errResp.Errors {
		detail := fmt.Sprintf("%s.%s: %s", e.Resource, e.Field, e.Code)
		if e.Message != "" {
			detail += " (" + e.Message + ")"
		}
		details = append(details, detail)
	}
	return details
}
