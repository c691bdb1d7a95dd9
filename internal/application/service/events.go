package service

import (
	"context"

	"github.com/garyjia/lic-claimdesk/internal/application/dispatcher"
	"github.com/garyjia/lic-claimdesk/internal/domain/event"
)

// publish dispatches evt after the state change is saved. Handler failures
// are logged and never undo the change.
func publish(ctx context.Context, d dispatcher.Dispatcher, logger Logger, evt *event.Event) {
	if d == nil {
		return
	}
	if err := d.Dispatch(ctx, evt); err != nil {
		logger.Warn("Event handlers failed", "event_type", evt.Type, "error", err)
	}
}
