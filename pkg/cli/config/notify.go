package config

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/herald/pkg/domain/types"
	"github.com/m-mizutani/herald/pkg/infra/gcs"
	slackinfra "github.com/m-mizutani/herald/pkg/infra/slack"
	"github.com/m-mizutani/herald/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// Notify holds configuration of optional outputs besides the GitHub release
type Notify struct {
	SlackWebhookURL string
	GCSBucket       string
	GCSPrefix       string
}

// Flags returns CLI flags for notification and mirroring
func (c *Notify) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-webhook-url",
			Usage:       "Slack incoming webhook URL to report published releases",
			Destination: &c.SlackWebhookURL,
			Sources:     cli.EnvVars("HERALD_SLACK_WEBHOOK_URL", "INPUT_SLACK_WEBHOOK_URL"),
		},
		&cli.StringFlag{
			Name:        "gcs-bucket",
			Usage:       "Cloud Storage bucket to mirror artifacts to",
			Destination: &c.GCSBucket,
			Sources:     cli.EnvVars("HERALD_GCS_BUCKET", "INPUT_GCS_BUCKET"),
		},
		&cli.StringFlag{
			Name:        "gcs-prefix",
			Usage:       "Object name prefix in the mirror bucket",
			Destination: &c.GCSPrefix,
			Sources:     cli.EnvVars("HERALD_GCS_PREFIX", "INPUT_GCS_PREFIX"),
		},
	}
}

// PublishOptions builds notifier and mirror options. The returned closer must be
// called once publishing is done.
func (c *Notify) PublishOptions(ctx context.Context) ([]usecase.PublishOption, func(), error) {
	var opts []usecase.PublishOption
	closer := func() {}

	if c.SlackWebhookURL != "" {
		opts = append(opts, usecase.WithNotifier(slackinfra.NewNotifier(c.SlackWebhookURL)))
	}

	if c.GCSBucket != "" {
		mirror, err := gcs.NewMirror(ctx, c.GCSBucket, c.GCSPrefix)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, usecase.WithMirror(mirror))
		closer = func() { _ = mirror.Close() }
	}

	return opts, closer, nil
}

// Sentry holds error reporting configuration
type Sentry struct {
	DSN         string
	Environment string
}

// Flags returns CLI flags for Sentry
func (c *Sentry) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "sentry-dsn",
			Usage:       "Sentry DSN to report failures",
			Destination: &c.DSN,
			Sources:     cli.EnvVars("HERALD_SENTRY_DSN"),
		},
		&cli.StringFlag{
			Name:        "sentry-env",
			Usage:       "Sentry environment",
			Value:       "production",
			Destination: &c.Environment,
			Sources:     cli.EnvVars("HERALD_SENTRY_ENV"),
		},
	}
}

// Configure initializes the Sentry client when a DSN is given
func (c *Sentry) Configure() error {
	if c.DSN == "" {
		return nil
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         c.DSN,
		Environment: c.Environment,
		Release:     types.Version,
	}); err != nil {
		return goerr.Wrap(err, "failed to initialize Sentry")
	}
	return nil
}

// Report sends err to Sentry and waits for delivery
func (c *Sentry) Report(err error) {
	if c.DSN == "" {
		return
	}
	sentry.CaptureException(err)
	sentry.Flush(2 * time.Second)
}
