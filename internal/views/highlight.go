package views

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"
)

// DefaultHighlightInterval is how often a new widget is picked for live updates.
const DefaultHighlightInterval = 5 * time.Second

// Highlighter periodically picks one random widget id as the "live" card. It
// belongs to the consuming view: Start on mount, Close on teardown.
type Highlighter struct {
	src      Snapshotter
	interval time.Duration
	pick     func(n int) int

	mu      sync.Mutex
	current int
	has     bool
	cancel  context.CancelFunc
	done    chan struct{}
}

func NewHighlighter(src Snapshotter, interval time.Duration) *Highlighter {
	if interval <= 0 {
		interval = DefaultHighlightInterval
	}
	return &Highlighter{src: src, interval: interval, pick: rand.IntN}
}

// Start picks a widget immediately and then once per interval until ctx is
// cancelled or Close is called. Calling Start on a running highlighter is a no-op.
func (h *Highlighter) Start(ctx context.Context) {
	h.mu.Lock()
	if h.cancel != nil {
		h.mu.Unlock()
		return
	}
	ctx, h.cancel = context.WithCancel(ctx)
	h.done = make(chan struct{})
	done := h.done
	h.mu.Unlock()

	h.Refresh()
	go func() {
		defer close(done)
		ticker := time.NewTicker(h.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				h.Refresh()
			}
		}
	}()
}

// Refresh picks a new highlighted widget now. An empty collection clears it.
func (h *Highlighter) Refresh() {
	widgets := h.src.All()

	h.mu.Lock()
	defer h.mu.Unlock()
	if len(widgets) == 0 {
		h.current, h.has = 0, false
		return
	}
	h.current, h.has = widgets[h.pick(len(widgets))].ID, true
}

// Current returns the highlighted widget id, if any.
func (h *Highlighter) Current() (int, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current, h.has
}

// Close stops the ticker goroutine and waits for it to exit.
func (h *Highlighter) Close() {
	h.mu.Lock()
	cancel, done := h.cancel, h.done
	h.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}
