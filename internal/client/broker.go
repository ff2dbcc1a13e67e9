package client

import "context"

// Broker fans accepted submissions out to interested consumers.
type Broker interface {
	PublishMessage(ctx context.Context, message []byte) error
	SubscribeToMessages(id string) (<-chan []byte, error)
	UnsubscribeFromMessages(id string) error
	Close() error
}

const subscriberBufferSize = 100
