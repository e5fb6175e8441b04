package server

import (
	"context"

	"github.com/oshokin/alarm-clock/internal/display"
	"github.com/oshokin/alarm-clock/internal/events"
	"github.com/oshokin/alarm-clock/internal/logger"
)

// logEvents writes one log line per event until the subscription closes.
// A subscription dropped for falling behind is logged and not renewed.
func logEvents(ctx context.Context, sub *events.Subscription) {
	for event := range sub.C() {
		logger.InfoKV(
			ctx,
			display.EventLine(event),
			"event_id", event.ID.String(),
			"event", event.Type,
		)
	}

	logger.Debug(ctx, "Event log subscription closed")
}
