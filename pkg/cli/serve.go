package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/herald/pkg/cli/config"
	controller "github.com/m-mizutani/herald/pkg/controller/http"
	"github.com/m-mizutani/herald/pkg/usecase"
	"github.com/m-mizutani/herald/pkg/utils/async"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var (
		serverCfg config.Server
		actionCfg config.Action
		githubCfg config.GitHub
		notifyCfg config.Notify
	)

	var flags []cli.Flag
	flags = append(flags, serverCfg.Flags()...)
	flags = append(flags, actionCfg.ServeFlags()...)
	flags = append(flags, githubCfg.AppFlags()...)
	flags = append(flags, notifyCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start webhook server publishing artifacts on release events",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			logger.Info("Starting herald server",
				slog.String("addr", serverCfg.Addr),
				slog.String("artifacts", actionCfg.ArtifactsDir),
			)

			client, err := githubCfg.NewAppClient()
			if err != nil {
				return err
			}

			opts, closer, err := publishOptions(ctx, &actionCfg, &notifyCfg)
			if err != nil {
				return err
			}
			defer closer()

			// Create use cases
			publishUC := usecase.NewPublish(client, opts...)
			webhookUC := usecase.NewWebhook(publishUC, actionCfg.ArtifactsDir)

			// Create HTTP server with options
			server, err := controller.NewServer(
				ctx,
				webhookUC,
				controller.WithAddr(serverCfg.Addr),
				controller.WithWebhookSecret(githubCfg.WebhookSecret),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			// Start server in goroutine
			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("HTTP server error", slog.Any("error", err))
				}
			}()

			// Wait for interrupt signal
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			}

			// Graceful shutdown
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			// Publishes dispatched before shutdown are still uploading
			if err := async.Wait(shutdownCtx); err != nil {
				return goerr.Wrap(err, "pending publishes did not finish")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}
