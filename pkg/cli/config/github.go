package config

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/herald/pkg/domain/interfaces"
	githubinfra "github.com/m-mizutani/herald/pkg/infra/github"
	"github.com/urfave/cli/v3"
)

// GitHub holds GitHub configuration
type GitHub struct {
	Token  string
	APIURL string

	AppID          int64
	InstallationID int64
	PrivateKey     string
	WebhookSecret  string
}

func (c *GitHub) apiURLFlag() cli.Flag {
	return &cli.StringFlag{
		Name:        "github-api-url",
		Usage:       "GitHub REST API URL, set for GitHub Enterprise Server",
		Destination: &c.APIURL,
		Sources:     cli.EnvVars("HERALD_GITHUB_API_URL", "GITHUB_API_URL"),
	}
}

// Flags returns CLI flags for token authentication, used in workflow steps
func (c *GitHub) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "github-token",
			Usage:       "GitHub token with contents:write permission",
			Destination: &c.Token,
			Sources:     cli.EnvVars("HERALD_GITHUB_TOKEN", "GITHUB_TOKEN"),
		},
		c.apiURLFlag(),
	}
}

// AppFlags returns CLI flags for GitHub App authentication, used by the webhook server
func (c *GitHub) AppFlags() []cli.Flag {
	return []cli.Flag{
		&cli.Int64Flag{
			Name:        "github-app-id",
			Usage:       "GitHub App ID",
			Required:    true,
			Destination: &c.AppID,
			Sources:     cli.EnvVars("HERALD_GITHUB_APP_ID"),
		},
		&cli.Int64Flag{
			Name:        "github-app-installation-id",
			Usage:       "GitHub App installation ID",
			Required:    true,
			Destination: &c.InstallationID,
			Sources:     cli.EnvVars("HERALD_GITHUB_APP_INSTALLATION_ID"),
		},
		&cli.StringFlag{
			Name:        "github-app-private-key",
			Usage:       "GitHub App private key (PEM content)",
			Required:    true,
			Destination: &c.PrivateKey,
			Sources:     cli.EnvVars("HERALD_GITHUB_APP_PRIVATE_KEY"),
		},
		&cli.StringFlag{
			Name:        "github-webhook-secret",
			Usage:       "GitHub webhook secret",
			Required:    true,
			Destination: &c.WebhookSecret,
			Sources:     cli.EnvVars("HERALD_GITHUB_WEBHOOK_SECRET"),
		},
		c.apiURLFlag(),
	}
}

// NewClient builds a token authenticated client
func (c *GitHub) NewClient() (interfaces.GitHubClient, error) {
	client, err := githubinfra.NewClient(c.Token, githubinfra.WithBaseURL(c.APIURL))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create GitHub client")
	}
	return client, nil
}

// NewAppClient builds a GitHub App installation client
func (c *GitHub) NewAppClient() (interfaces.GitHubClient, error) {
	client, err := githubinfra.NewAppClient(c.AppID, c.InstallationID, []byte(c.PrivateKey), githubinfra.WithBaseURL(c.APIURL))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create GitHub App client")
	}
	return client, nil
}
