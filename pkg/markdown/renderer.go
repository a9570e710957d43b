// Package markdown renders GitHub flavored Markdown into sanitized HTML.
//
// The pipeline is fixed: goldmark parses GFM (optionally assigning heading
// IDs) and passes raw HTML through, bluemonday sanitizes the result, chroma
// highlights code blocks of the sanitized tree, and finally per-element
// transforms adjust links and headings while the tree is serialized.
package markdown

import (
	"bytes"
	"context"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/mdview/pkg/anchor"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DefaultHighlightStyle is the chroma style used when none is configured
const DefaultHighlightStyle = "github"

type config struct {
	headingAnchors bool
	emoji          bool
	highlightStyle string
	settleDelay    time.Duration
}

// Option is a functional option for Renderer
type Option func(*config)

// WithHeadingAnchors enables heading IDs, heading permalinks and scroll-to-fragment on Attach
func WithHeadingAnchors(enabled bool) Option {
	return func(c *config) {
		c.headingAnchors = enabled
	}
}

// WithEmoji enables GitHub emoji shortcodes such as :tada:
func WithEmoji(enabled bool) Option {
	return func(c *config) {
		c.emoji = enabled
	}
}

// WithHighlightStyle sets the chroma style name used for the stylesheet
func WithHighlightStyle(name string) Option {
	return func(c *config) {
		c.highlightStyle = name
	}
}

// WithSettleDelay sets the delay between a fragment change and the scroll
func WithSettleDelay(d time.Duration) Option {
	return func(c *config) {
		c.settleDelay = d
	}
}

// Renderer converts Markdown to HTML. It is immutable after New and safe for concurrent use.
type Renderer struct {
	md             goldmark.Markdown
	policy         *bluemonday.Policy
	highlighter    *highlighter
	transforms     transformSet
	navigator      *anchor.Navigator
	headingAnchors bool
}

// New creates a Renderer. Without options it is the minimal variant: no
// heading IDs, no permalinks and Attach does nothing.
func New(opts ...Option) *Renderer {
	cfg := &config{
		highlightStyle: DefaultHighlightStyle,
		settleDelay:    anchor.DefaultSettleDelay,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	extensions := []goldmark.Extender{
		extension.GFM, // tables, strikethrough, task lists, autolinks
	}
	if cfg.emoji {
		extensions = append(extensions, emoji.Emoji)
	}

	var parserOpts []parser.Option
	if cfg.headingAnchors {
		parserOpts = append(parserOpts, parser.WithAutoHeadingID())
	}

	md := goldmark.New(
		goldmark.WithExtensions(extensions...),
		goldmark.WithParserOptions(parserOpts...),
		// Raw HTML is let through here; the sanitizer runs after
		goldmark.WithRendererOptions(goldmarkhtml.WithUnsafe()),
	)

	return &Renderer{
		md:             md,
		policy:         newPolicy(),
		highlighter:    newHighlighter(cfg.highlightStyle),
		transforms:     newTransformSet(cfg.headingAnchors),
		navigator:      anchor.New(anchor.WithSettleDelay(cfg.settleDelay)),
		headingAnchors: cfg.headingAnchors,
	}
}

// HeadingAnchors reports whether the anchor navigation variant is enabled
func (r *Renderer) HeadingAnchors() bool {
	return r.headingAnchors
}

// SettleDelay returns the delay used by Attach before scrolling
func (r *Renderer) SettleDelay() time.Duration {
	return r.navigator.SettleDelay()
}

// Render converts Markdown source into sanitized HTML. Markdown is never
// rejected; malformed input degrades as the parser sees fit.
func (r *Renderer) Render(ctx context.Context, source string) (string, error) {
	var buf bytes.Buffer
	pc := parser.NewContext(parser.WithIDs(newSlugIDs()))
	if err := r.md.Convert([]byte(source), &buf, parser.WithContext(pc)); err != nil {
		return "", goerr.Wrap(err, "failed to convert markdown")
	}

	sanitized := r.policy.SanitizeReader(&buf)

	root := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(sanitized, root)
	if err != nil {
		return "", goerr.Wrap(err, "failed to parse sanitized html")
	}
	for _, n := range nodes {
		root.AppendChild(n)
	}

	if err := r.highlighter.apply(root); err != nil {
		return "", err
	}
	r.transforms.apply(root)

	var out bytes.Buffer
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&out, c); err != nil {
			return "", goerr.Wrap(err, "failed to serialize html")
		}
	}

	ctxlog.From(ctx).Debug("Rendered markdown",
		"source_bytes", len(source),
		"html_bytes", out.Len(),
		"heading_anchors", r.headingAnchors,
	)

	return out.String(), nil
}

// Attach installs scroll-to-fragment behavior on host. The minimal variant
// installs nothing and returns a Detach that does nothing.
func (r *Renderer) Attach(host anchor.Host) anchor.Detach {
	if !r.headingAnchors {
		return func() {}
	}
	return r.navigator.Attach(host)
}

// StyleSheet returns the CSS for highlighted code blocks
func (r *Renderer) StyleSheet() (string, error) {
	return r.highlighter.styleSheet()
}
