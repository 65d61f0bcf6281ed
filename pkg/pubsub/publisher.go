package pubsub

import "context"

// Pack is a single message. Key decides the partition, so every message of the same
// lottery request keeps its order.
type Pack struct {
	Key []byte
	Msg []byte
}

type Publisher interface {
	Publish(context.Context, string, *Pack) error

	// Stop flushes pending messages and releases the connection.
	Stop(context.Context) error
}
