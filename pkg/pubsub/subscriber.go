package pubsub

import (
	"context"
	"time"
)

// SubscribeHandler processes a message of topic. Errors are logged by the
// subscriber and the message is not delivered again.
type SubscribeHandler func(ctx context.Context, topic string, pack *Pack, t time.Time) error

type Subscriber interface {
	Subscribe(ctx context.Context)
	Stop(ctx context.Context) error
}
