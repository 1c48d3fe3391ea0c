package views

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/GregMSThompson/widget-dashboard/internal/errs"
	"github.com/GregMSThompson/widget-dashboard/internal/models"
)

const (
	minInitialLatency = 400 * time.Millisecond
	maxInitialLatency = 800 * time.Millisecond
)

// Snapshotter is the read side of the state manager.
type Snapshotter interface {
	All() []models.Widget
	Get(id int) (models.Widget, bool)
}

// Subscription simulates fetching the collection over a network: the first
// successful Load waits a random 400-800ms, later loads return at once.
type Subscription struct {
	src     Snapshotter
	latency func() time.Duration

	mu     sync.Mutex
	warmed bool
}

func NewSubscription(src Snapshotter) *Subscription {
	return &Subscription{src: src, latency: initialLatency}
}

// WithLatency overrides the initial delay source; tests use it to stay fast.
func (s *Subscription) WithLatency(fn func() time.Duration) *Subscription {
	s.latency = fn
	return s
}

// Load returns the current snapshot. A cancelled ctx aborts the initial wait
// and leaves the subscription cold.
func (s *Subscription) Load(ctx context.Context) ([]models.Widget, error) {
	s.mu.Lock()
	warmed := s.warmed
	s.mu.Unlock()

	if !warmed {
		t := time.NewTimer(s.latency())
		defer t.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-t.C:
		}
		s.mu.Lock()
		s.warmed = true
		s.mu.Unlock()
	}
	return s.src.All(), nil
}

func initialLatency() time.Duration {
	return minInitialLatency + rand.N(maxInitialLatency-minInitialLatency)
}

// Stream returns the current snapshot of widget id. Despite the name it is a
// point lookup; periodic refresh belongs to the caller.
func Stream(src Snapshotter, id int) (models.Widget, error) {
	w, ok := src.Get(id)
	if !ok {
		return models.Widget{}, errs.NewNotFoundError(fmt.Sprintf("widget with id=%d not found", id))
	}
	return w, nil
}
