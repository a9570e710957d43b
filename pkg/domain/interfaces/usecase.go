package interfaces

import (
	"context"

	"github.com/m-mizutani/mdview/pkg/domain/model"
)

// PreviewUseCase turns a file descriptor into a view
type PreviewUseCase interface {
	// Render classifies, decodes and renders the file. Unsupported files and
	// decode failures are returned as views, not errors.
	Render(ctx context.Context, file *model.FileDescriptor) (model.View, error)
}
