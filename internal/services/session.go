package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/GregMSThompson/widget-dashboard/internal/views"
	"github.com/GregMSThompson/widget-dashboard/pkg/logger"
)

type SessionOptions struct {
	SearchDebounce    time.Duration
	HighlightInterval time.Duration
	// InitialLatency overrides the first-load delay; nil keeps the random 400-800ms.
	InitialLatency func() time.Duration
}

// Session is the state owned by one dashboard view: the debounced filter
// text, the random highlight ticker and the load subscription. It lives from
// NewSession until Close.
type Session struct {
	ID string

	search    *views.Debouncer[string]
	highlight *views.Highlighter
	load      *views.Subscription

	mu     sync.RWMutex
	filter string

	closeOnce sync.Once
}

func NewSession(ctx context.Context, src views.Snapshotter, opts SessionOptions) *Session {
	if opts.SearchDebounce <= 0 {
		opts.SearchDebounce = views.DefaultSearchDebounce
	}

	s := &Session{
		ID:        uuid.NewString(),
		highlight: views.NewHighlighter(src, opts.HighlightInterval),
		load:      views.NewSubscription(src),
	}
	if opts.InitialLatency != nil {
		s.load.WithLatency(opts.InitialLatency)
	}

	log, ctx := logger.With(ctx, "session", s.ID)
	s.search = views.NewDebouncer(opts.SearchDebounce, func(q string) {
		s.mu.Lock()
		s.filter = q
		s.mu.Unlock()
		log.Debug("filter applied", "query", q)
	})

	s.highlight.Start(ctx)
	log.Info("dashboard session started")
	return s
}

// Search feeds raw input; it becomes the filter once input has been idle
// for the debounce delay.
func (s *Session) Search(query string) {
	s.search.Push(query)
}

// Filter returns the last applied filter text.
func (s *Session) Filter() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter
}

func (s *Session) Highlighted() (int, bool) {
	return s.highlight.Current()
}

func (s *Session) Subscription() *views.Subscription {
	return s.load
}

// Close cancels the pending search and the highlight ticker. Safe to call
// more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.search.Stop()
		s.highlight.Close()
	})
}
