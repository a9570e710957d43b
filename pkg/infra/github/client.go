package github

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/mdview/pkg/domain/interfaces"
	"github.com/m-mizutani/mdview/pkg/domain/model"
)

var (
	ErrFileNotFound = goerr.New("file not found")
	ErrNotAFile     = goerr.New("path is not a file")
)

type client struct {
	githubClient *github.Client
}

// Option is a functional option for the GitHub client
type Option func(*github.Client) error

// WithBaseURL points the client at a GitHub Enterprise or test API endpoint
func WithBaseURL(raw string) Option {
	return func(c *github.Client) error {
		if !strings.HasSuffix(raw, "/") {
			raw += "/"
		}
		u, err := url.Parse(raw)
		if err != nil {
			return goerr.Wrap(err, "invalid GitHub API base URL", goerr.V("url", raw))
		}
		c.BaseURL = u
		return nil
	}
}

// NewClient creates a new GitHub client with App authentication
func NewClient(appID, installationID int64, privateKey []byte, opts ...Option) (interfaces.GitHubClient, error) {
	itr, err := ghinstallation.New(http.DefaultTransport, appID, installationID, privateKey)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create GitHub App transport",
			goerr.V("app_id", appID),
			goerr.V("installation_id", installationID),
		)
	}

	c, err := newClient(github.NewClient(&http.Client{Transport: itr}), opts...)
	if err != nil {
		return nil, err
	}

	// Installation tokens come from the same API host as contents
	itr.BaseURL = strings.TrimSuffix(c.githubClient.BaseURL.String(), "/")
	return c, nil
}

// NewTokenClient creates a new GitHub client authenticated with a personal access token.
// An empty token gives an unauthenticated client limited to public repositories.
func NewTokenClient(token string, opts ...Option) (interfaces.GitHubClient, error) {
	githubClient := github.NewClient(nil)
	if token != "" {
		githubClient = githubClient.WithAuthToken(token)
	}
	return newClient(githubClient, opts...)
}

// NewClientFromHTTP creates a new GitHub client on top of an existing HTTP client
func NewClientFromHTTP(httpClient *http.Client, opts ...Option) (interfaces.GitHubClient, error) {
	return newClient(github.NewClient(httpClient), opts...)
}

func newClient(githubClient *github.Client, opts ...Option) (*client, error) {
	for _, opt := range opts {
		if err := opt(githubClient); err != nil {
			return nil, err
		}
	}
	return &client{githubClient: githubClient}, nil
}

// GetFile fetches a single file from the contents API without decoding it
func (c *client) GetFile(ctx context.Context, owner, repo, path, ref string) (*model.FileDescriptor, error) {
	var opts *github.RepositoryContentGetOptions
	if ref != "" {
		opts = &github.RepositoryContentGetOptions{Ref: ref}
	}

	fileContent, dirContent, resp, err := c.githubClient.Repositories.GetContents(ctx, owner, repo, path, opts)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, goerr.Wrap(ErrFileNotFound, "failed to get file contents",
				goerr.V("owner", owner),
				goerr.V("repo", repo),
				goerr.V("path", path),
				goerr.V("ref", ref),
			)
		}
		return nil, goerr.Wrap(err, "failed to get file contents",
			goerr.V("owner", owner),
			goerr.V("repo", repo),
			goerr.V("path", path),
			goerr.V("ref", ref),
		)
	}

	if fileContent == nil {
		return nil, goerr.Wrap(ErrNotAFile, "contents API returned a directory",
			goerr.V("path", path),
			goerr.V("entries", len(dirContent)),
		)
	}
	if t := fileContent.GetType(); t != "" && t != "file" {
		return nil, goerr.Wrap(ErrNotAFile, "contents API returned a non-file entry",
			goerr.V("path", path),
			goerr.V("type", t),
		)
	}

	// RepositoryContent.GetContent decodes; the raw field is kept as delivered
	var raw string
	if fileContent.Content != nil {
		raw = *fileContent.Content
	}

	return &model.FileDescriptor{
		Name:        fileContent.GetName(),
		Path:        fileContent.GetPath(),
		Content:     raw,
		Encoding:    fileContent.GetEncoding(),
		Size:        int64(fileContent.GetSize()),
		DownloadURL: fileContent.DownloadURL,
	}, nil
}
