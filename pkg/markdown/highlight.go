package markdown

import (
	"bytes"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const languageClassPrefix = "language-"

type highlighter struct {
	style     *chroma.Style
	formatter *chromahtml.Formatter
}

func newHighlighter(styleName string) *highlighter {
	return &highlighter{
		style:     styles.Get(styleName),
		formatter: chromahtml.New(chromahtml.WithClasses(true)),
	}
}

// apply replaces every <pre><code> block under root with highlighted markup
func (h *highlighter) apply(root *html.Node) error {
	var blocks []*html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Pre && codeChild(n) != nil {
			blocks = append(blocks, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	for _, pre := range blocks {
		code := codeChild(pre)
		lang := languageOf(code)

		highlighted, err := h.highlight(lang, textContent(code))
		if err != nil {
			return err
		}

		nodes, err := html.ParseFragment(strings.NewReader(highlighted), pre.Parent)
		if err != nil {
			return goerr.Wrap(err, "failed to parse highlighted code", goerr.V("language", lang))
		}
		for _, n := range nodes {
			if lang != "" {
				if c := codeChild(n); c != nil {
					addClass(c, languageClassPrefix+lang)
				}
			}
			pre.Parent.InsertBefore(n, pre)
		}
		pre.Parent.RemoveChild(pre)
	}

	return nil
}

func (h *highlighter) highlight(lang, src string) (string, error) {
	var lexer chroma.Lexer
	if lang != "" {
		lexer = lexers.Get(lang)
	}
	if lexer == nil {
		lexer = lexers.Analyse(src)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, src)
	if err != nil {
		return "", goerr.Wrap(err, "failed to tokenise code", goerr.V("language", lang))
	}

	var buf bytes.Buffer
	if err := h.formatter.Format(&buf, h.style, iterator); err != nil {
		return "", goerr.Wrap(err, "failed to format code", goerr.V("language", lang))
	}
	return buf.String(), nil
}

func (h *highlighter) styleSheet() (string, error) {
	var buf bytes.Buffer
	if err := h.formatter.WriteCSS(&buf, h.style); err != nil {
		return "", goerr.Wrap(err, "failed to write highlight stylesheet")
	}
	return buf.String(), nil
}

func codeChild(n *html.Node) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Code {
			return c
		}
	}
	return nil
}

func languageOf(code *html.Node) string {
	for _, class := range strings.Fields(getAttr(code, "class")) {
		if lang, ok := strings.CutPrefix(class, languageClassPrefix); ok {
			return lang
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
