package config

import (
	"github.com/m-mizutani/herald/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

// Action holds the inputs of a workflow step. Defaults follow the variables
// set by the GitHub Actions runner; "artifacts" is the action input.
type Action struct {
	ArtifactsDir string
	EventName    string
	EventPath    string
	SHA          string
	SettingsFile string
	DryRun       bool
}

func (c *Action) artifactsFlag() cli.Flag {
	return &cli.StringFlag{
		Name:        "artifacts",
		Aliases:     []string{"a"},
		Usage:       "Directory containing files to upload as release assets",
		Required:    true,
		Destination: &c.ArtifactsDir,
		Sources:     cli.EnvVars("HERALD_ARTIFACTS", "INPUT_ARTIFACTS"),
	}
}

func (c *Action) settingsFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to TOML settings file",
			Destination: &c.SettingsFile,
			Sources:     cli.EnvVars("HERALD_CONFIG", "INPUT_CONFIG"),
		},
		&cli.BoolFlag{
			Name:        "dry-run",
			Usage:       "Render the release body without uploading or editing anything",
			Destination: &c.DryRun,
			Sources:     cli.EnvVars("HERALD_DRY_RUN", "INPUT_DRY_RUN"),
		},
	}
}

// ServeFlags returns the subset of inputs used by the webhook server
func (c *Action) ServeFlags() []cli.Flag {
	return append([]cli.Flag{c.artifactsFlag()}, c.settingsFlags()...)
}

// Flags returns CLI flags for workflow step inputs
func (c *Action) Flags() []cli.Flag {
	flags := []cli.Flag{
		c.artifactsFlag(),
		&cli.StringFlag{
			Name:        "event-name",
			Usage:       "Name of the event that triggered the workflow",
			Destination: &c.EventName,
			Sources:     cli.EnvVars("GITHUB_EVENT_NAME"),
		},
		&cli.StringFlag{
			Name:        "event-path",
			Usage:       "Path to the event payload JSON file",
			Destination: &c.EventPath,
			Sources:     cli.EnvVars("GITHUB_EVENT_PATH"),
		},
		&cli.StringFlag{
			Name:        "sha",
			Usage:       "Commit SHA used as the end of the changelog range",
			Destination: &c.SHA,
			Sources:     cli.EnvVars("GITHUB_SHA"),
		},
	}
	return append(flags, c.settingsFlags()...)
}

// ActionContext converts the inputs to the domain model
func (c *Action) ActionContext() *model.ActionContext {
	return &model.ActionContext{
		EventName:    c.EventName,
		EventPath:    c.EventPath,
		SHA:          c.SHA,
		ArtifactsDir: c.ArtifactsDir,
	}
}
