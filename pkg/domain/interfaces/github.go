package interfaces

import (
	"context"

	"github.com/m-mizutani/mdview/pkg/domain/model"
)

// GitHubClient defines operations for interacting with GitHub API
type GitHubClient interface {
	// GetFile fetches a single file entry from the contents API. An empty ref means the default branch.
	GetFile(ctx context.Context, owner, repo, path, ref string) (*model.FileDescriptor, error)
}
