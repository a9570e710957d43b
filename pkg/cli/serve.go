package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/mdview/pkg/cli/config"
	controller "github.com/m-mizutani/mdview/pkg/controller/http"
	"github.com/m-mizutani/mdview/pkg/usecase"
	"github.com/m-mizutani/mdview/pkg/utils/async"
	"github.com/m-mizutani/mdview/pkg/utils/content"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var (
		serverCfg   config.Server
		githubCfg   config.GitHub
		rendererCfg config.Renderer
		sentryCfg   config.Sentry
	)

	var flags []cli.Flag
	flags = append(flags, serverCfg.Flags()...)
	flags = append(flags, rendererCfg.Flags()...)
	flags = append(flags, githubCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			if err := rendererCfg.Load(c); err != nil {
				return err
			}
			renderer, err := rendererCfg.Build()
			if err != nil {
				return err
			}
			styleSheet, err := renderer.StyleSheet()
			if err != nil {
				return err
			}

			githubClient, err := githubCfg.NewClient()
			if err != nil {
				return err
			}

			if err := sentryCfg.Configure(); err != nil {
				return err
			}
			if sentryCfg.Enabled() {
				defer sentry.Flush(2 * time.Second)
			}

			logger.Info("Starting mdview server",
				slog.String("addr", serverCfg.Addr),
				slog.Any("renderer", rendererCfg),
				slog.Bool("github_app", githubCfg.AppID != 0),
				slog.String("github_base_url", githubCfg.BaseURL),
				slog.Bool("sentry", sentryCfg.Enabled()),
			)

			previewUC := usecase.NewPreview(renderer, content.NewDecoder())

			server, err := controller.NewServer(
				ctx,
				previewUC,
				controller.WithAddr(serverCfg.Addr),
				controller.WithGitHubClient(githubClient),
				controller.WithStyleSheet(styleSheet),
				controller.WithSettleDelay(renderer.SettleDelay()),
				controller.WithSentry(sentryCfg.Enabled()),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			serveErr := async.Go(ctx, "http server", func(ctx context.Context) error {
				ctxlog.From(ctx).Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return goerr.Wrap(err, "HTTP server stopped", goerr.V("addr", serverCfg.Addr))
				}
				return nil
			})

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigChan)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			case err := <-serveErr:
				return err
			}

			// Graceful shutdown
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}
