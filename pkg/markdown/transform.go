package markdown

import (
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const permalinkSymbol = "🔗"

// transform rewrites one element in place
type transform func(n *html.Node)

// transformSet maps an element kind to its transform
type transformSet map[atom.Atom]transform

func newTransformSet(headingAnchors bool) transformSet {
	set := transformSet{
		atom.A: openInNewTab,
	}
	if headingAnchors {
		for _, h := range []atom.Atom{atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6} {
			set[h] = appendPermalink
		}
	}
	return set
}

// apply visits children before their parent, so elements a transform adds
// are not transformed again.
func (s transformSet) apply(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		s.apply(c)
		c = next
	}
	if n.Type != html.ElementNode {
		return
	}
	if fn, ok := s[n.DataAtom]; ok {
		fn(n)
	}
}

func openInNewTab(n *html.Node) {
	setAttr(n, "target", "_blank")

	rel := strings.Fields(getAttr(n, "rel"))
	for _, token := range []string{"noopener", "noreferrer"} {
		if !slices.Contains(rel, token) {
			rel = append(rel, token)
		}
	}
	setAttr(n, "rel", strings.Join(rel, " "))
}

func appendPermalink(n *html.Node) {
	id := getAttr(n, "id")
	if id == "" {
		return
	}

	link := &html.Node{
		Type:     html.ElementNode,
		Data:     "a",
		DataAtom: atom.A,
		Attr: []html.Attribute{
			{Key: "href", Val: "#" + id},
			{Key: "class", Val: "anchor-link"},
			{Key: "aria-hidden", Val: "true"},
			{Key: "title", Val: "Anchor link"},
		},
	}
	link.AppendChild(&html.Node{Type: html.TextNode, Data: permalinkSymbol})
	n.AppendChild(link)
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func addClass(n *html.Node, class string) {
	classes := strings.Fields(getAttr(n, "class"))
	if slices.Contains(classes, class) {
		return
	}
	setAttr(n, "class", strings.Join(append(classes, class), " "))
}
