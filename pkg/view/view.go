// Package view renders preview views into HTML panels and pages.
package view

import (
	"embed"
	"time"

	"github.com/google/safehtml"
	"github.com/google/safehtml/template"
	"github.com/google/safehtml/uncheckedconversions"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/mdview/pkg/domain/model"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.ParseFS(template.TrustedFSFromEmbed(templateFS), "templates/*.tmpl"))

type markdownPanel struct {
	Body     safehtml.HTML
	Anchors  bool
	SettleMS int64
}

type pageData struct {
	Title   string
	Panel   safehtml.HTML
	Anchors bool
}

// Panel renders the HTML fragment shown for a view
func Panel(view model.View, settleDelay time.Duration) (safehtml.HTML, error) {
	var (
		h   safehtml.HTML
		err error
	)

	switch v := view.(type) {
	case *model.UnsupportedView:
		h, err = executeTemplate("unsupported", v)
	case *model.DecodeErrorView:
		h, err = executeTemplate("decode_error", v)
	case *model.MarkdownView:
		h, err = executeTemplate("markdown", &markdownPanel{
			// Sanitized by the markdown renderer
			Body:     uncheckedconversions.HTMLFromStringKnownToSatisfyTypeContract(v.HTML),
			Anchors:  v.HeadingAnchors,
			SettleMS: settleDelay.Milliseconds(),
		})
	default:
		return safehtml.HTML{}, goerr.New("unknown view type", goerr.V("kind", view.Kind()))
	}

	if err != nil {
		return safehtml.HTML{}, goerr.Wrap(err, "failed to render preview panel", goerr.V("kind", view.Kind()))
	}
	return h, nil
}

// Page wraps the panel of a view into a standalone HTML page
func Page(view model.View, settleDelay time.Duration) (safehtml.HTML, error) {
	panel, err := Panel(view, settleDelay)
	if err != nil {
		return safehtml.HTML{}, err
	}

	name, path, _ := Fields(view)
	title := name
	if path != "" {
		title = path
	}

	md, isMarkdown := view.(*model.MarkdownView)
	page, err := executeTemplate("page", &pageData{
		Title:   title,
		Panel:   panel,
		Anchors: isMarkdown && md.HeadingAnchors,
	})
	if err != nil {
		return safehtml.HTML{}, goerr.Wrap(err, "failed to render preview page")
	}
	return page, nil
}

func executeTemplate(name string, data any) (safehtml.HTML, error) {
	t := templates.Lookup(name)
	if t == nil {
		return safehtml.HTML{}, goerr.New("template not found", goerr.V("name", name))
	}
	return t.ExecuteToHTML(data)
}

// Fields returns the file name, path and message carried by a view
func Fields(view model.View) (name, path, message string) {
	switch v := view.(type) {
	case *model.UnsupportedView:
		return v.Name, v.Path, ""
	case *model.DecodeErrorView:
		return v.Name, v.Path, v.Message
	case *model.MarkdownView:
		return v.Name, v.Path, ""
	}
	return "", "", ""
}
