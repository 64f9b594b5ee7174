package providers

import (
	"context"
	"time"
)

// shutdownTimeout bounds how long a handle may block in Shutdown.
// The HTTP server drains first, then the SSE manager closes its streams.
const shutdownTimeout = 30 * time.Second

// shutdownContext returns the context every Shutdownable handle drains under.
func shutdownContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), shutdownTimeout)
}
