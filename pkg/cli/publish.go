package cli

import (
	"context"

	"github.com/fatih/color"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/herald/pkg/cli/config"
	githubctrl "github.com/m-mizutani/herald/pkg/controller/github"
	"github.com/m-mizutani/herald/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdPublish() *cli.Command {
	var (
		actionCfg config.Action
		githubCfg config.GitHub
		notifyCfg config.Notify
	)

	var flags []cli.Flag
	flags = append(flags, actionCfg.Flags()...)
	flags = append(flags, githubCfg.Flags()...)
	flags = append(flags, notifyCfg.Flags()...)

	return &cli.Command{
		Name:    "publish",
		Aliases: []string{"p"},
		Usage:   "Upload artifacts to the release that triggered the workflow",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			// Token is checked before anything touches the network
			client, err := githubCfg.NewClient()
			if err != nil {
				return err
			}

			opts, closer, err := publishOptions(ctx, &actionCfg, &notifyCfg)
			if err != nil {
				return err
			}
			defer closer()

			processor := githubctrl.NewEventProcessor(usecase.NewPublish(client, opts...))
			result, err := processor.ProcessEvent(ctx, actionCfg.ActionContext())
			if err != nil {
				return err
			}
			if result == nil {
				ctxlog.From(ctx).Info("Nothing to publish")
				return nil
			}

			printSummary(color.Output, result)
			return nil
		},
	}
}

func publishOptions(ctx context.Context, actionCfg *config.Action, notifyCfg *config.Notify) ([]usecase.PublishOption, func(), error) {
	settings, err := config.LoadSettings(actionCfg.SettingsFile)
	if err != nil {
		return nil, nil, err
	}

	notifyOpts, closer, err := notifyCfg.PublishOptions(ctx)
	if err != nil {
		return nil, nil, err
	}

	opts := settings.PublishOptions()
	opts = append(opts, notifyOpts...)
	opts = append(opts, usecase.WithDryRun(actionCfg.DryRun))
	return opts, closer, nil
}
