package interfaces

import "context"

// MarkdownRenderer converts Markdown text into sanitized HTML
type MarkdownRenderer interface {
	Render(ctx context.Context, source string) (string, error)
	HeadingAnchors() bool
}

// ContentDecoder decodes file content delivered by the contents API
type ContentDecoder interface {
	Decode(content, encoding string) (string, error)
}
