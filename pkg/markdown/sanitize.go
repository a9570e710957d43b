package markdown

import (
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

var (
	languageClass = regexp.MustCompile(`^language-[\w+#.-]+$`)
	headingID     = regexp.MustCompile(`^[\p{L}\p{M}\p{N}_-]+$`)
)

func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()

	p.AllowElements("del", "s", "pre", "code", "details", "summary")

	// Declared language of fenced code blocks, read by the highlighter
	p.AllowAttrs("class").Matching(languageClass).OnElements("code")

	// Slugs keep Unicode letters, the global id pattern is ASCII only
	p.AllowAttrs("id").Matching(headingID).OnElements("h1", "h2", "h3", "h4", "h5", "h6")

	// Task list items
	p.AllowAttrs("type").Matching(regexp.MustCompile(`^checkbox$`)).OnElements("input")
	p.AllowAttrs("checked", "disabled").OnElements("input")

	// Layout attributes common in README files
	p.AllowAttrs("width", "align").OnElements("img", "div", "p")

	return p
}
