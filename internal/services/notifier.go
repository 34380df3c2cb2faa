package services

import (
	"context"
	"log"
	"time"

	"github.com/gramseva/apiserver/types"
)

// ChangeNotifier pushes row-change events to subscribed clients.
type ChangeNotifier interface {
	Publish(ctx context.Context, event types.ChangeEvent) error
}

// notifyChange publishes a change event without failing the operation:
// the row is already committed, so a broker outage only costs liveness
// of the push channel.
func notifyChange(ctx context.Context, notifier ChangeNotifier, table, action, entityID, status string) {
	if notifier == nil {
		return
	}
	event := types.ChangeEvent{
		Table:    table,
		Action:   action,
		EntityID: entityID,
		Status:   status,
		At:       time.Now(),
	}
	if err := notifier.Publish(ctx, event); err != nil {
		log.Printf("failed to publish %s change for %s: %v", table, entityID, err)
	}
}
