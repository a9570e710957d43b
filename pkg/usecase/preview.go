package usecase

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/mdview/pkg/domain/interfaces"
	"github.com/m-mizutani/mdview/pkg/domain/model"
)

type previewUseCase struct {
	renderer interfaces.MarkdownRenderer
	decoder  interfaces.ContentDecoder
}

// NewPreview creates a new instance of PreviewUseCase
func NewPreview(renderer interfaces.MarkdownRenderer, decoder interfaces.ContentDecoder) interfaces.PreviewUseCase {
	return &previewUseCase{
		renderer: renderer,
		decoder:  decoder,
	}
}

// Render dispatches the file to the unsupported, decode error or Markdown view
func (uc *previewUseCase) Render(ctx context.Context, file *model.FileDescriptor) (model.View, error) {
	logger := ctxlog.From(ctx)

	if file.Kind() != model.FileKindMarkdown {
		logger.Debug("Preview not supported for file type",
			"name", file.Name,
			"path", file.Path,
		)
		return &model.UnsupportedView{Name: file.Name, Path: file.Path}, nil
	}

	text, err := uc.decoder.Decode(file.Content, file.Encoding)
	if err != nil {
		logger.Debug("Failed to decode file content",
			"name", file.Name,
			"encoding", file.Encoding,
			"error", err,
		)
		return &model.DecodeErrorView{
			Name:    file.Name,
			Path:    file.Path,
			Message: err.Error(),
		}, nil
	}

	body, err := uc.renderer.Render(ctx, text)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to render markdown",
			goerr.V("name", file.Name),
			goerr.V("path", file.Path),
		)
	}

	logger.Debug("Rendered markdown preview",
		"name", file.Name,
		"size", file.Size,
	)

	return &model.MarkdownView{
		Name:           file.Name,
		Path:           file.Path,
		HTML:           body,
		HeadingAnchors: uc.renderer.HeadingAnchors(),
	}, nil
}
