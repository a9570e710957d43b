//go:build js && wasm

package anchor

import "syscall/js"

// BrowserHost binds Host to the window and document of the running page
type BrowserHost struct {
	window   js.Value
	document js.Value
}

// NewBrowserHost creates a BrowserHost for the global window
func NewBrowserHost() *BrowserHost {
	window := js.Global()
	return &BrowserHost{
		window:   window,
		document: window.Get("document"),
	}
}

func (h *BrowserHost) Hash() string {
	return h.window.Get("location").Get("hash").String()
}

func (h *BrowserHost) OnHashChange(fn func()) func() {
	cb := js.FuncOf(func(this js.Value, args []js.Value) any {
		fn()
		return nil
	})
	h.window.Call("addEventListener", "hashchange", cb)

	return func() {
		h.window.Call("removeEventListener", "hashchange", cb)
		cb.Release()
	}
}

func (h *BrowserHost) FindByID(id string) (Element, bool) {
	el := h.document.Call("getElementById", id)
	if el.IsNull() || el.IsUndefined() {
		return nil, false
	}
	return &browserElement{value: el}, true
}

type browserElement struct {
	value js.Value
}

func (e *browserElement) ScrollIntoView(smooth bool) {
	behavior := "auto"
	if smooth {
		behavior = "smooth"
	}
	e.value.Call("scrollIntoView", map[string]any{"behavior": behavior})
}
