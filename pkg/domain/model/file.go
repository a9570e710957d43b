package model

import "regexp"

// FileDescriptor represents a single file entry as returned by the GitHub contents API
type FileDescriptor struct {
	Name        string  `json:"name"`
	Path        string  `json:"path"`
	Content     string  `json:"content"`  // Encoded as declared by Encoding
	Encoding    string  `json:"encoding"` // "base64" for GitHub, "" when Content is plain text
	Size        int64   `json:"size"`
	DownloadURL *string `json:"download_url,omitempty"`
}

// FileKind is the preview classification of a file
type FileKind string

const (
	FileKindMarkdown    FileKind = "markdown"
	FileKindUnsupported FileKind = "unsupported"
)

var markdownFileName = regexp.MustCompile(`(?i)\.(md|mdx)$`)

// ClassifyFile decides how a file is previewed from its name alone
func ClassifyFile(name string) FileKind {
	if markdownFileName.MatchString(name) {
		return FileKindMarkdown
	}
	return FileKindUnsupported
}

// Kind returns the preview classification of the file
func (f *FileDescriptor) Kind() FileKind {
	return ClassifyFile(f.Name)
}
