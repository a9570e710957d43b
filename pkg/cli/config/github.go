package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/mdview/pkg/domain/interfaces"
	githubinfra "github.com/m-mizutani/mdview/pkg/infra/github"
	"github.com/urfave/cli/v3"
)

// GitHub holds GitHub API configuration
type GitHub struct {
	Token          string `masq:"secret"`
	AppID          int64
	InstallationID int64
	PrivateKey     string `masq:"secret"`
	PrivateKeyFile string
	BaseURL        string
}

// Flags returns CLI flags for GitHub configuration
func (c *GitHub) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "github-token",
			Usage:       "GitHub personal access token (unauthenticated when empty)",
			Destination: &c.Token,
			Sources:     cli.EnvVars("MDVIEW_GITHUB_TOKEN", "GITHUB_TOKEN"),
		},
		&cli.Int64Flag{
			Name:        "github-app-id",
			Usage:       "GitHub App ID, takes precedence over the token",
			Destination: &c.AppID,
			Sources:     cli.EnvVars("MDVIEW_GITHUB_APP_ID"),
		},
		&cli.Int64Flag{
			Name:        "github-installation-id",
			Usage:       "GitHub App installation ID",
			Destination: &c.InstallationID,
			Sources:     cli.EnvVars("MDVIEW_GITHUB_INSTALLATION_ID"),
		},
		&cli.StringFlag{
			Name:        "github-private-key",
			Usage:       "GitHub App private key (PEM)",
			Destination: &c.PrivateKey,
			Sources:     cli.EnvVars("MDVIEW_GITHUB_PRIVATE_KEY"),
		},
		&cli.StringFlag{
			Name:        "github-private-key-file",
			Usage:       "Path to the GitHub App private key",
			Destination: &c.PrivateKeyFile,
			Sources:     cli.EnvVars("MDVIEW_GITHUB_PRIVATE_KEY_FILE"),
		},
		&cli.StringFlag{
			Name:        "github-base-url",
			Usage:       "GitHub API base URL for GitHub Enterprise",
			Destination: &c.BaseURL,
			Sources:     cli.EnvVars("MDVIEW_GITHUB_BASE_URL"),
		},
	}
}

// NewClient builds a GitHub client. App credentials are used when an app ID
// is configured, otherwise the token (possibly empty).
func (c *GitHub) NewClient() (interfaces.GitHubClient, error) {
	var opts []githubinfra.Option
	if c.BaseURL != "" {
		opts = append(opts, githubinfra.WithBaseURL(c.BaseURL))
	}

	if c.AppID == 0 {
		return githubinfra.NewTokenClient(c.Token, opts...)
	}

	if c.InstallationID == 0 {
		return nil, goerr.New("github-installation-id is required with github-app-id")
	}

	privateKey := []byte(c.PrivateKey)
	if len(privateKey) == 0 && c.PrivateKeyFile != "" {
		raw, err := os.ReadFile(c.PrivateKeyFile)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read GitHub App private key", goerr.V("path", c.PrivateKeyFile))
		}
		privateKey = raw
	}
	if len(privateKey) == 0 {
		return nil, goerr.New("github-private-key or github-private-key-file is required with github-app-id")
	}

	return githubinfra.NewClient(c.AppID, c.InstallationID, privateKey, opts...)
}
