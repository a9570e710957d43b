package anchor_test

import (
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/mdview/pkg/anchor"
)

type fakeElement struct {
	id   string
	host *fakeHost
}

func (e *fakeElement) ScrollIntoView(smooth bool) {
	e.host.mu.Lock()
	defer e.host.mu.Unlock()
	e.host.scrolls = append(e.host.scrolls, scrollCall{id: e.id, smooth: smooth})
}

type scrollCall struct {
	id     string
	smooth bool
}

// fakeHost counts installed listeners so leaks are observable
type fakeHost struct {
	mu        sync.Mutex
	hash      string
	nextID    int
	listeners map[int]func()
	elements  map[string]bool
	scrolls   []scrollCall
}

func newFakeHost(hash string, ids ...string) *fakeHost {
	h := &fakeHost{
		hash:      hash,
		listeners: make(map[int]func()),
		elements:  make(map[string]bool),
	}
	for _, id := range ids {
		h.elements[id] = true
	}
	return h
}

func (h *fakeHost) Hash() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.hash
}

func (h *fakeHost) OnHashChange(fn func()) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	h.listeners[id] = fn
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.listeners, id)
	}
}

func (h *fakeHost) FindByID(id string) (anchor.Element, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.elements[id] {
		return nil, false
	}
	return &fakeElement{id: id, host: h}, true
}

func (h *fakeHost) navigate(hash string) {
	h.mu.Lock()
	h.hash = hash
	listeners := make([]func(), 0, len(h.listeners))
	for _, fn := range h.listeners {
		listeners = append(listeners, fn)
	}
	h.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

func (h *fakeHost) listenerCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.listeners)
}

func (h *fakeHost) scrolled() []scrollCall {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]scrollCall(nil), h.scrolls...)
}

func immediate(_ time.Duration, fn func()) { fn() }

func TestNavigator_Attach(t *testing.T) {
	t.Run("installs one listener and does nothing without a fragment", func(t *testing.T) {
		host := newFakeHost("", "intro")
		nav := anchor.New(anchor.WithScheduler(immediate))

		detach := nav.Attach(host)
		defer detach()

		gt.Equal(t, host.listenerCount(), 1)
		gt.Equal(t, len(host.scrolled()), 0)
	})

	t.Run("scrolls to the current fragment on attach", func(t *testing.T) {
		host := newFakeHost("#intro", "intro")
		nav := anchor.New(anchor.WithScheduler(immediate))

		detach := nav.Attach(host)
		defer detach()

		scrolls := host.scrolled()
		gt.Equal(t, len(scrolls), 1)
		gt.Equal(t, scrolls[0].id, "intro")
		gt.True(t, scrolls[0].smooth)
	})

	t.Run("scrolls on fragment change", func(t *testing.T) {
		host := newFakeHost("", "intro", "usage")
		nav := anchor.New(anchor.WithScheduler(immediate))

		detach := nav.Attach(host)
		defer detach()

		host.navigate("#usage")
		host.navigate("#intro")

		scrolls := host.scrolled()
		gt.Equal(t, len(scrolls), 2)
		gt.Equal(t, scrolls[0].id, "usage")
		gt.Equal(t, scrolls[1].id, "intro")
	})

	t.Run("missing target is a no-op", func(t *testing.T) {
		host := newFakeHost("#nowhere", "intro")
		nav := anchor.New(anchor.WithScheduler(immediate))

		detach := nav.Attach(host)
		defer detach()
		host.navigate("#also-nowhere")

		gt.Equal(t, len(host.scrolled()), 0)
	})

	t.Run("cleared fragment does not scroll", func(t *testing.T) {
		host := newFakeHost("", "intro")
		nav := anchor.New(anchor.WithScheduler(immediate))

		detach := nav.Attach(host)
		defer detach()
		host.navigate("")

		gt.Equal(t, len(host.scrolled()), 0)
	})
}

func TestNavigator_Detach(t *testing.T) {
	t.Run("removes the listener", func(t *testing.T) {
		host := newFakeHost("", "intro")
		nav := anchor.New(anchor.WithScheduler(immediate))

		detach := nav.Attach(host)
		detach()

		gt.Equal(t, host.listenerCount(), 0)
		host.navigate("#intro")
		gt.Equal(t, len(host.scrolled()), 0)
	})

	t.Run("is idempotent", func(t *testing.T) {
		host := newFakeHost("")
		nav := anchor.New(anchor.WithScheduler(immediate))

		first := nav.Attach(host)
		second := nav.Attach(host)
		first()
		first()

		gt.Equal(t, host.listenerCount(), 1)
		second()
		gt.Equal(t, host.listenerCount(), 0)
	})

	t.Run("repeated attach and detach does not leak listeners", func(t *testing.T) {
		host := newFakeHost("", "intro")
		nav := anchor.New(anchor.WithScheduler(immediate))

		detach := nav.Attach(host)
		detach()
		detach = nav.Attach(host)
		detach()
		gt.Equal(t, host.listenerCount(), 0)

		detach = nav.Attach(host)
		defer detach()
		gt.Equal(t, host.listenerCount(), 1)

		host.navigate("#intro")
		gt.Equal(t, len(host.scrolled()), 1)
	})
}

func TestNavigator_Delay(t *testing.T) {
	t.Run("uses the settle delay", func(t *testing.T) {
		var delays []time.Duration
		host := newFakeHost("#intro", "intro")
		nav := anchor.New(
			anchor.WithSettleDelay(50*time.Millisecond),
			anchor.WithScheduler(func(d time.Duration, fn func()) {
				delays = append(delays, d)
				fn()
			}),
		)

		detach := nav.Attach(host)
		defer detach()

		gt.Equal(t, nav.SettleDelay(), 50*time.Millisecond)
		gt.Equal(t, len(delays), 1)
		gt.Equal(t, delays[0], 50*time.Millisecond)
	})

	t.Run("default delay", func(t *testing.T) {
		gt.Equal(t, anchor.New().SettleDelay(), anchor.DefaultSettleDelay)
	})

	t.Run("superseded scrolls are not cancelled", func(t *testing.T) {
		var pending []func()
		host := newFakeHost("", "a", "b")
		nav := anchor.New(anchor.WithScheduler(func(_ time.Duration, fn func()) {
			pending = append(pending, fn)
		}))

		detach := nav.Attach(host)
		defer detach()

		host.navigate("#a")
		host.navigate("#b")
		gt.Equal(t, len(host.scrolled()), 0)
		gt.Equal(t, len(pending), 2)

		for _, fn := range pending {
			fn()
		}

		// Both callbacks read the fragment when they fire
		scrolls := host.scrolled()
		gt.Equal(t, len(scrolls), 2)
		gt.Equal(t, scrolls[0].id, "b")
		gt.Equal(t, scrolls[1].id, "b")
	})

	t.Run("scrolls after a real timer", func(t *testing.T) {
		host := newFakeHost("#intro", "intro")
		nav := anchor.New(anchor.WithSettleDelay(10 * time.Millisecond))

		detach := nav.Attach(host)
		defer detach()

		gt.Equal(t, len(host.scrolled()), 0)

		deadline := time.Now().Add(time.Second)
		for len(host.scrolled()) == 0 && time.Now().Before(deadline) {
			time.Sleep(5 * time.Millisecond)
		}
		gt.Equal(t, len(host.scrolled()), 1)
	})
}

func TestFragmentID(t *testing.T) {
	tests := []struct {
		hash string
		want string
	}{
		{hash: "#hello-world", want: "hello-world"},
		{hash: "hello-world", want: "hello-world"},
		{hash: "#", want: ""},
		{hash: "", want: ""},
		{hash: "#%E6%A6%82%E8%A6%81", want: "概要"},
		{hash: "#100%", want: "100%"},
	}

	for _, tt := range tests {
		t.Run(tt.hash, func(t *testing.T) {
			gt.Equal(t, anchor.FragmentID(tt.hash), tt.want)
		})
	}
}
