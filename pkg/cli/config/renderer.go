package config

import (
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/mdview/pkg/anchor"
	"github.com/m-mizutani/mdview/pkg/markdown"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// Renderer holds Markdown renderer configuration
type Renderer struct {
	ConfigFile     string
	HeadingAnchors bool
	HighlightStyle string
	SettleDelay    time.Duration
	Emoji          bool
}

// rendererFile is the layout of the TOML file given by --config
type rendererFile struct {
	HeadingAnchors    *bool   `toml:"heading_anchors"`
	HighlightStyle    *string `toml:"highlight_style"`
	ScrollSettleDelay *string `toml:"scroll_settle_delay"`
	Emoji             *bool   `toml:"emoji"`
}

// Flags returns CLI flags for renderer configuration
func (c *Renderer) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to a TOML file with renderer settings",
			Destination: &c.ConfigFile,
			Sources:     cli.EnvVars("MDVIEW_CONFIG"),
		},
		&cli.BoolFlag{
			Name:        "heading-anchors",
			Usage:       "Assign heading IDs, add permalinks and scroll to the URL fragment",
			Value:       true,
			Destination: &c.HeadingAnchors,
			Sources:     cli.EnvVars("MDVIEW_HEADING_ANCHORS"),
		},
		&cli.StringFlag{
			Name:        "highlight-style",
			Usage:       "Syntax highlight style",
			Value:       markdown.DefaultHighlightStyle,
			Destination: &c.HighlightStyle,
			Sources:     cli.EnvVars("MDVIEW_HIGHLIGHT_STYLE"),
		},
		&cli.DurationFlag{
			Name:        "scroll-settle-delay",
			Usage:       "Delay before scrolling to a fragment target",
			Value:       anchor.DefaultSettleDelay,
			Destination: &c.SettleDelay,
			Sources:     cli.EnvVars("MDVIEW_SCROLL_SETTLE_DELAY"),
		},
		&cli.BoolFlag{
			Name:        "emoji",
			Usage:       "Render :shortcode: emoji",
			Value:       true,
			Destination: &c.Emoji,
			Sources:     cli.EnvVars("MDVIEW_EMOJI"),
		},
	}
}

// Load reads the config file, if any. Values of flags set on the command
// line or through the environment take precedence over the file.
func (c *Renderer) Load(cmd *cli.Command) error {
	if c.ConfigFile == "" {
		return nil
	}

	raw, err := os.ReadFile(c.ConfigFile)
	if err != nil {
		return goerr.Wrap(err, "failed to read config file", goerr.V("path", c.ConfigFile))
	}

	var file rendererFile
	if err := toml.Unmarshal(raw, &file); err != nil {
		return goerr.Wrap(err, "failed to parse config file", goerr.V("path", c.ConfigFile))
	}

	if file.HeadingAnchors != nil && !cmd.IsSet("heading-anchors") {
		c.HeadingAnchors = *file.HeadingAnchors
	}
	if file.HighlightStyle != nil && !cmd.IsSet("highlight-style") {
		c.HighlightStyle = *file.HighlightStyle
	}
	if file.ScrollSettleDelay != nil && !cmd.IsSet("scroll-settle-delay") {
		d, err := time.ParseDuration(*file.ScrollSettleDelay)
		if err != nil {
			return goerr.Wrap(err, "invalid scroll_settle_delay",
				goerr.V("path", c.ConfigFile),
				goerr.V("value", *file.ScrollSettleDelay))
		}
		c.SettleDelay = d
	}
	if file.Emoji != nil && !cmd.IsSet("emoji") {
		c.Emoji = *file.Emoji
	}

	return nil
}

// Build creates the Markdown renderer
func (c *Renderer) Build() (*markdown.Renderer, error) {
	if c.SettleDelay < 0 {
		return nil, goerr.New("scroll-settle-delay must not be negative", goerr.V("value", c.SettleDelay))
	}

	return markdown.New(
		markdown.WithHeadingAnchors(c.HeadingAnchors),
		markdown.WithEmoji(c.Emoji),
		markdown.WithHighlightStyle(c.HighlightStyle),
		markdown.WithSettleDelay(c.SettleDelay),
	), nil
}
