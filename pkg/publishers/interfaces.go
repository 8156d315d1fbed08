package publishers

import (
	"context"

	"github.com/samvad-hq/crawlstats/internal/logger"
)

// Publisher delivers statistics snapshots to one downstream sink.
type Publisher interface {
	ID() string
	Type() string
	Publish(ctx context.Context, evt Event) error
}

// closer is implemented by publishers that hold client connections.
type closer interface {
	Close() error
}

func ensureLogger(log logger.Logger) logger.Logger {
	if log == nil {
		return logger.NopLogger{}
	}
	return log
}
