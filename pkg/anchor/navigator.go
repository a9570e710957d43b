// Package anchor scrolls the page to the element named by the URL fragment,
// on attach and on every later fragment change.
package anchor

import (
	"net/url"
	"strings"
	"sync"
	"time"
)

// DefaultSettleDelay is how long a scroll waits after the triggering event so
// that freshly rendered content is in the DOM. This is a timing heuristic and
// not a synchronization guarantee; slow hosts may need a larger value.
const DefaultSettleDelay = 300 * time.Millisecond

// Element is a node that can be scrolled into view
type Element interface {
	ScrollIntoView(smooth bool)
}

// Host is the browsing environment the navigator is attached to
type Host interface {
	// Hash returns the current URL fragment including the leading '#', or "" when there is none
	Hash() string
	// OnHashChange registers fn for fragment changes and returns a function removing it
	OnHashChange(fn func()) (remove func())
	// FindByID returns the element with the given id
	FindByID(id string) (Element, bool)
}

// Detach releases what Attach installed. It is safe to call more than once.
type Detach func()

// Scheduler runs fn once after d
type Scheduler func(d time.Duration, fn func())

// Option is a functional option for Navigator
type Option func(*Navigator)

// WithSettleDelay overrides DefaultSettleDelay
func WithSettleDelay(d time.Duration) Option {
	return func(n *Navigator) {
		n.delay = d
	}
}

// WithScheduler replaces time.AfterFunc as the way delayed scrolls are run
func WithScheduler(s Scheduler) Option {
	return func(n *Navigator) {
		n.schedule = s
	}
}

// Navigator scrolls to fragment targets. Pending scrolls are never cancelled:
// a newer fragment change schedules its own scroll and both fire.
type Navigator struct {
	delay    time.Duration
	schedule Scheduler
}

// New creates a Navigator
func New(opts ...Option) *Navigator {
	n := &Navigator{
		delay: DefaultSettleDelay,
		schedule: func(d time.Duration, fn func()) {
			time.AfterFunc(d, fn)
		},
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// SettleDelay returns the configured delay before scrolling
func (n *Navigator) SettleDelay() time.Duration {
	return n.delay
}

// Attach installs a fragment change listener on host and scrolls to the
// current fragment if there is one.
func (n *Navigator) Attach(host Host) Detach {
	handle := func() { n.scrollToHash(host) }

	remove := host.OnHashChange(handle)
	if host.Hash() != "" {
		handle()
	}

	var once sync.Once
	return func() {
		once.Do(remove)
	}
}

func (n *Navigator) scrollToHash(host Host) {
	hash := host.Hash()
	if hash == "" {
		return
	}

	n.schedule(n.delay, func() {
		id := FragmentID(host.Hash())
		if id == "" {
			return
		}
		if el, ok := host.FindByID(id); ok {
			el.ScrollIntoView(true)
		}
	})
}

// FragmentID converts a URL fragment such as "#hello-world" into the element id it names
func FragmentID(hash string) string {
	id := strings.TrimPrefix(hash, "#")
	if decoded, err := url.PathUnescape(id); err == nil {
		return decoded
	}
	return id
}
