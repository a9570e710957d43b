package usecase_test

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/mdview/pkg/domain/model"
	"github.com/m-mizutani/mdview/pkg/markdown"
	"github.com/m-mizutani/mdview/pkg/usecase"
	"github.com/m-mizutani/mdview/pkg/utils/content"
)

// MockRenderer is a mock implementation of MarkdownRenderer
type MockRenderer struct {
	renderFunc  func(ctx context.Context, source string) (string, error)
	renderCalls []string
	anchors     bool
}

func (m *MockRenderer) Render(ctx context.Context, source string) (string, error) {
	m.renderCalls = append(m.renderCalls, source)
	if m.renderFunc != nil {
		return m.renderFunc(ctx, source)
	}
	return "<p>rendered</p>", nil
}

func (m *MockRenderer) HeadingAnchors() bool {
	return m.anchors
}

// MockDecoder is a mock implementation of ContentDecoder
type MockDecoder struct {
	decodeCalls int
}

func (m *MockDecoder) Decode(content, encoding string) (string, error) {
	m.decodeCalls++
	return "decoded", nil
}

func encode(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

func TestPreviewUseCase_Unsupported(t *testing.T) {
	for _, name := range []string{"main.go", "Makefile", "README.markdown", "image.png", ""} {
		t.Run(name, func(t *testing.T) {
			renderer := &MockRenderer{}
			decoder := &MockDecoder{}
			uc := usecase.NewPreview(renderer, decoder)

			view, err := uc.Render(context.Background(), &model.FileDescriptor{
				Name:     name,
				Path:     "dir/" + name,
				Content:  "%%%",
				Encoding: "base64",
			})
			gt.NoError(t, err)

			unsupported, ok := view.(*model.UnsupportedView)
			gt.True(t, ok)
			gt.Equal(t, unsupported.Name, name)
			gt.Equal(t, unsupported.Path, "dir/"+name)
			gt.Equal(t, decoder.decodeCalls, 0)
			gt.Equal(t, len(renderer.renderCalls), 0)
		})
	}
}

func TestPreviewUseCase_Markdown(t *testing.T) {
	texts := []string{
		"# Policy\n\nBody text.\n",
		"",
		"日本語の見出し\n===\n",
		"line\r\nwith crlf\r\n",
	}

	for _, name := range []string{"README.md", "guide.MDX"} {
		for _, text := range texts {
			renderer := &MockRenderer{anchors: true}
			uc := usecase.NewPreview(renderer, content.NewDecoder())

			file := &model.FileDescriptor{
				Name:     name,
				Path:     "docs/" + name,
				Content:  encode(text),
				Encoding: "base64",
				Size:     int64(len(text)),
			}
			original := *file

			view, err := uc.Render(context.Background(), file)
			gt.NoError(t, err)

			md, ok := view.(*model.MarkdownView)
			gt.True(t, ok)
			gt.Equal(t, md.HTML, "<p>rendered</p>")
			gt.Equal(t, md.Name, name)
			gt.True(t, md.HeadingAnchors)

			gt.Equal(t, len(renderer.renderCalls), 1)
			gt.Equal(t, renderer.renderCalls[0], text)

			// The descriptor is left untouched
			gt.Equal(t, *file, original)
		}
	}
}

func TestPreviewUseCase_DecodeError(t *testing.T) {
	renderer := &MockRenderer{}
	uc := usecase.NewPreview(renderer, content.NewDecoder())

	view, err := uc.Render(context.Background(), &model.FileDescriptor{
		Name:     "README.md",
		Path:     "README.md",
		Content:  "not*base64",
		Encoding: "base64",
	})
	gt.NoError(t, err)

	decodeErr, ok := view.(*model.DecodeErrorView)
	gt.True(t, ok)
	gt.Equal(t, decodeErr.Name, "README.md")
	gt.String(t, decodeErr.Message).Contains("invalid base64 content")
	gt.Equal(t, len(renderer.renderCalls), 0)

	// Message is the decoder's own message
	_, decoderErr := content.NewDecoder().Decode("not*base64", "base64")
	gt.Equal(t, decodeErr.Message, decoderErr.Error())
}

func TestPreviewUseCase_ContentUnavailable(t *testing.T) {
	renderer := &MockRenderer{}
	uc := usecase.NewPreview(renderer, content.NewDecoder())

	view, err := uc.Render(context.Background(), &model.FileDescriptor{
		Name:     "HUGE.md",
		Encoding: "none",
	})
	gt.NoError(t, err)
	gt.Equal(t, view.Kind(), model.ViewKindDecodeError)
	gt.Equal(t, len(renderer.renderCalls), 0)
}

func TestPreviewUseCase_RendererFailure(t *testing.T) {
	renderer := &MockRenderer{
		renderFunc: func(ctx context.Context, source string) (string, error) {
			return "", errors.New("boom")
		},
	}
	uc := usecase.NewPreview(renderer, content.NewDecoder())

	view, err := uc.Render(context.Background(), &model.FileDescriptor{
		Name:     "README.md",
		Content:  encode("# x"),
		Encoding: "base64",
	})
	gt.Error(t, err)
	gt.V(t, view).Nil()
	gt.String(t, err.Error()).Contains("failed to render markdown")
}

func TestPreviewUseCase_WithMarkdownRenderer(t *testing.T) {
	uc := usecase.NewPreview(markdown.New(markdown.WithHeadingAnchors(true)), content.NewDecoder())

	view, err := uc.Render(context.Background(), &model.FileDescriptor{
		Name:     "README.md",
		Content:  encode("## Hello World\n\n<script>alert(1)</script>\n"),
		Encoding: "base64",
	})
	gt.NoError(t, err)

	md, ok := view.(*model.MarkdownView)
	gt.True(t, ok)
	gt.String(t, md.HTML).Contains(`id="hello-world"`)
	gt.String(t, md.HTML).Contains(`href="#hello-world"`)
	gt.False(t, strings.Contains(md.HTML, "<script"))
}
