//go:build js && wasm

// Command mdview-wasm renders Markdown in the browser and keeps the page
// scrolled to the heading named by the URL fragment.
//
// It registers two globals:
//
//	mdviewRender(elementID, markdown, anchors) -> error message or null
//	mdviewDetach(elementID)
package main

import (
	"context"
	"syscall/js"

	"github.com/m-mizutani/mdview/pkg/anchor"
	"github.com/m-mizutani/mdview/pkg/domain/model"
	"github.com/m-mizutani/mdview/pkg/markdown"
	"github.com/m-mizutani/mdview/pkg/view"
)

func main() {
	renderers := map[bool]*markdown.Renderer{
		true:  markdown.New(markdown.WithHeadingAnchors(true), markdown.WithEmoji(true)),
		false: markdown.New(markdown.WithEmoji(true)),
	}
	host := anchor.NewBrowserHost()
	detach := map[string]anchor.Detach{}

	release := func(id string) {
		if d, ok := detach[id]; ok {
			d()
			delete(detach, id)
		}
	}

	js.Global().Set("mdviewRender", js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) < 2 {
			return "mdviewRender(elementID, markdown, anchors) requires at least two arguments"
		}
		id, source := args[0].String(), args[1].String()
		anchors := len(args) > 2 && args[2].Truthy()

		el := js.Global().Get("document").Call("getElementById", id)
		if el.IsNull() || el.IsUndefined() {
			return "element not found: " + id
		}

		r := renderers[anchors]
		body, err := r.Render(context.Background(), source)
		if err != nil {
			return err.Error()
		}
		panel, err := view.Panel(&model.MarkdownView{HTML: body, HeadingAnchors: anchors}, r.SettleDelay())
		if err != nil {
			return err.Error()
		}

		release(id)
		el.Set("innerHTML", panel.String())
		detach[id] = r.Attach(host)
		return nil
	}))

	js.Global().Set("mdviewDetach", js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) > 0 {
			release(args[0].String())
		}
		return nil
	}))

	select {}
}
