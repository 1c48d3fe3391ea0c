package helpers

import (
	"context"

	"github.com/GregMSThompson/widget-dashboard/pkg/logger"
)

// TestCtx returns a context carrying a discarding debug-level logger, so
// debug-only code paths run under test.
func TestCtx() context.Context {
	return logger.ToContext(context.Background(), logger.New("debug", logger.NewTestHandler))
}
