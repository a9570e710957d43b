package cli

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/mdview/pkg/cli/config"
	"github.com/m-mizutani/mdview/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

// Run runs the CLI application
func Run(ctx context.Context, args []string) error {
	var logger *slog.Logger
	app := newApp(os.Stdout, &logger)

	if err := app.Run(ctx, args); err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Error("CLI execution failed", slog.Any("error", err))
		return err
	}

	return nil
}

// newApp builds the root command. Command output goes to w, the configured
// logger is stored in logger.
func newApp(w io.Writer, logger **slog.Logger) *cli.Command {
	var loggerCfg config.Logger

	return &cli.Command{
		Name:    "mdview",
		Usage:   "GitHub Markdown file preview",
		Version: types.Version,
		Flags:   loggerCfg.Flags(),
		Writer:  w,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			l, err := loggerCfg.Configure()
			if err != nil {
				return nil, err
			}

			*logger = l
			slog.SetDefault(l)
			ctx = ctxlog.With(ctx, l)
			return ctx, nil
		},
		Commands: []*cli.Command{
			cmdServe(),
			cmdRender(w),
		},
	}
}
