package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/mdview/pkg/cli/config"
	"github.com/m-mizutani/mdview/pkg/domain/model"
	"github.com/m-mizutani/mdview/pkg/usecase"
	"github.com/m-mizutani/mdview/pkg/utils/content"
	"github.com/m-mizutani/mdview/pkg/view"
	"github.com/urfave/cli/v3"
)

func cmdRender(w io.Writer) *cli.Command {
	var (
		githubCfg   config.GitHub
		rendererCfg config.Renderer
		repo        string
		ref         string
		page        bool
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "repo",
			Aliases:     []string{"r"},
			Usage:       "Fetch FILE from this GitHub repository (owner/name) instead of the local disk",
			Destination: &repo,
		},
		&cli.StringFlag{
			Name:        "ref",
			Usage:       "Branch, tag or commit for --repo (default branch when empty)",
			Destination: &ref,
		},
		&cli.BoolFlag{
			Name:        "page",
			Usage:       "Print a complete HTML page instead of the preview fragment",
			Destination: &page,
		},
	}
	flags = append(flags, rendererCfg.Flags()...)
	flags = append(flags, githubCfg.Flags()...)

	return &cli.Command{
		Name:      "render",
		Usage:     "Render a file preview to stdout",
		ArgsUsage: "FILE",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() != 1 {
				return goerr.New("render requires exactly one FILE argument", goerr.V("args", c.Args().Slice()))
			}
			path := c.Args().First()

			if err := rendererCfg.Load(c); err != nil {
				return err
			}
			renderer, err := rendererCfg.Build()
			if err != nil {
				return err
			}

			var file *model.FileDescriptor
			if repo != "" {
				file, err = fetchFile(ctx, &githubCfg, repo, path, ref)
			} else {
				file, err = readFile(path)
			}
			if err != nil {
				return err
			}

			previewUC := usecase.NewPreview(renderer, content.NewDecoder())
			v, err := previewUC.Render(ctx, file)
			if err != nil {
				return err
			}

			out := view.Panel
			if page {
				out = view.Page
			}
			html, err := out(v, renderer.SettleDelay())
			if err != nil {
				return err
			}

			ctxlog.From(ctx).Debug("Rendered file",
				"render_id", uuid.NewString(),
				"kind", v.Kind(),
				"path", file.Path,
			)

			if _, err := fmt.Fprintln(w, html.String()); err != nil {
				return goerr.Wrap(err, "failed to write output")
			}
			return nil
		},
	}
}

// readFile loads a local file as already-decoded text
func readFile(path string) (*model.FileDescriptor, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read file", goerr.V("path", path))
	}

	return &model.FileDescriptor{
		Name:    filepath.Base(path),
		Path:    path,
		Content: string(raw),
		Size:    int64(len(raw)),
	}, nil
}

func fetchFile(ctx context.Context, cfg *config.GitHub, repo, path, ref string) (*model.FileDescriptor, error) {
	owner, name, ok := strings.Cut(repo, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return nil, goerr.New("--repo must be in owner/name form", goerr.V("repo", repo))
	}

	client, err := cfg.NewClient()
	if err != nil {
		return nil, err
	}

	return client.GetFile(ctx, owner, name, strings.TrimPrefix(path, "/"), ref)
}
