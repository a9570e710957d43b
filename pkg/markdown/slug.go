package markdown

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
)

// fallbackSlug is used for headings whose text has no letters or digits
const fallbackSlug = "heading"

// slugIDs generates heading IDs the way GitHub does: lowercased, Unicode
// letters and digits kept, spaces turned into hyphens, other punctuation
// dropped. Repeats get -1, -2, ... suffixes. One instance serves one document.
type slugIDs struct {
	seen map[string]struct{}
}

var _ parser.IDs = (*slugIDs)(nil)

func newSlugIDs() *slugIDs {
	return &slugIDs{seen: map[string]struct{}{}}
}

func (s *slugIDs) Generate(value []byte, kind ast.NodeKind) []byte {
	base := slugify(string(value))
	if base == "" {
		base = fallbackSlug
	}

	slug := base
	for i := 1; ; i++ {
		if _, ok := s.seen[slug]; !ok {
			break
		}
		slug = base + "-" + strconv.Itoa(i)
	}

	s.seen[slug] = struct{}{}
	return []byte(slug)
}

func (s *slugIDs) Put(value []byte) {
	s.seen[string(value)] = struct{}{}
}

func slugify(text string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(text)) {
		switch {
		case r == ' ':
			sb.WriteRune('-')
		case r == '-' || r == '_':
			sb.WriteRune(r)
		case unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsMark(r):
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
