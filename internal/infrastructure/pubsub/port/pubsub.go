package port

import "context"

// Handler consumes one published payload. It must not block for long; slow
// consumers stall the subscription they run on.
type Handler func(payload []byte)

// Bus is the minimal publish/subscribe contract used to fan message events
// out across service nodes. Delivery is best-effort: subscribers that are
// down when a payload is published never see it, and no ordering beyond
// "delivered after publish" is promised. Durable truth stays in the message
// store.
type Bus interface {
	// Publish sends payload to every current subscriber of channel.
	Publish(ctx context.Context, channel string, payload []byte) error

	// Subscribe invokes h for every payload published to channel until the
	// returned stop function is called or ctx is canceled.
	Subscribe(ctx context.Context, channel string, h Handler) (stop func() error, err error)

	// Close releases the bus and all its subscriptions.
	Close() error
}
