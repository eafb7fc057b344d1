package mongodb

import (
	"context"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/event"
)

// NewCommandMonitor fans command events out to the tracing monitor and logs
// them with zerolog at debug level.
func NewCommandMonitor(tracing *event.CommandMonitor, logger zerolog.Logger) *event.CommandMonitor {
	return &event.CommandMonitor{
		Started: func(ctx context.Context, evt *event.CommandStartedEvent) {
			if tracing != nil && tracing.Started != nil {
				tracing.Started(ctx, evt)
			}

			logger.Debug().
				Str("command", evt.CommandName).
				Str("database", evt.DatabaseName).
				Int64("request_id", evt.RequestID).
				Msg("mongodb command started")
		},
		Succeeded: func(ctx context.Context, evt *event.CommandSucceededEvent) {
			if tracing != nil && tracing.Succeeded != nil {
				tracing.Succeeded(ctx, evt)
			}

			logger.Debug().
				Str("command", evt.CommandName).
				Int64("request_id", evt.RequestID).
				Dur("duration", evt.Duration).
				Msg("mongodb command succeeded")
		},
		Failed: func(ctx context.Context, evt *event.CommandFailedEvent) {
			if tracing != nil && tracing.Failed != nil {
				tracing.Failed(ctx, evt)
			}

			logger.Error().
				Str("command", evt.CommandName).
				Int64("request_id", evt.RequestID).
				Dur("duration", evt.Duration).
				Str("failure", evt.Failure).
				Msg("mongodb command failed")
		},
	}
}
