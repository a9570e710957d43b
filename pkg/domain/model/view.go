package model

// ViewKind identifies which View variant was produced
type ViewKind string

const (
	ViewKindMarkdown    ViewKind = "markdown"
	ViewKindUnsupported ViewKind = "unsupported"
	ViewKindDecodeError ViewKind = "decode_error"
)

// View is the result of previewing a file. The set of implementations is closed:
// *UnsupportedView, *DecodeErrorView and *MarkdownView.
type View interface {
	Kind() ViewKind
	isView()
}

// UnsupportedView is shown for files that have no preview
type UnsupportedView struct {
	Name string
	Path string
}

// DecodeErrorView is shown when the file content could not be decoded
type DecodeErrorView struct {
	Name    string
	Path    string
	Message string // Decoder message, shown verbatim
}

// MarkdownView holds sanitized HTML rendered from a Markdown file
type MarkdownView struct {
	Name           string
	Path           string
	HTML           string
	HeadingAnchors bool
}

func (*UnsupportedView) Kind() ViewKind { return ViewKindUnsupported }
func (*DecodeErrorView) Kind() ViewKind { return ViewKindDecodeError }
func (*MarkdownView) Kind() ViewKind    { return ViewKindMarkdown }

func (*UnsupportedView) isView() {}
func (*DecodeErrorView) isView() {}
func (*MarkdownView) isView()    {}
