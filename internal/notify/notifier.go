package notify

import (
	"context"
	"encoding/json"

	"github.com/gramseva/apiserver/internal/mq"
	"github.com/gramseva/apiserver/types"
)

// Notifier publishes change events to the configured broker, one
// channel per table.
type Notifier struct {
	mq *mq.MQ
}

// New constructs a Notifier over the given broker.
func New(m *mq.MQ) *Notifier {
	return &Notifier{mq: m}
}

// Publish sends the event to the channel named after its table.
func (n *Notifier) Publish(ctx context.Context, event types.ChangeEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	_, err = n.mq.Publish(ctx, event.Table, data, map[string]string{
		"action": event.Action,
	})
	return err
}
