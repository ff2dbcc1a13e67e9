package client

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

type inMemoryBroker struct {
	subscribers     map[string]chan []byte
	subscriberMutex sync.RWMutex
	closed          bool
}

func NewInMemoryBroker() Broker {
	return &inMemoryBroker{
		subscribers: make(map[string]chan []byte),
	}
}

// PublishMessage never blocks; a subscriber with a full buffer misses the message.
func (b *inMemoryBroker) PublishMessage(_ context.Context, message []byte) error {
	b.subscriberMutex.RLock()
	defer b.subscriberMutex.RUnlock()

	for id, msgChan := range b.subscribers {
		select {
		case msgChan <- message:
		default:
			logrus.Debugf("Subscriber %s is full, dropping message", id)
		}
	}
	return nil
}

func (b *inMemoryBroker) SubscribeToMessages(id string) (<-chan []byte, error) {
	b.subscriberMutex.Lock()
	defer b.subscriberMutex.Unlock()

	if b.closed {
		return nil, ErrBrokerClosed
	}

	if msgChan, exists := b.subscribers[id]; exists {
		return msgChan, nil
	}

	msgChan := make(chan []byte, subscriberBufferSize)
	b.subscribers[id] = msgChan
	return msgChan, nil
}

func (b *inMemoryBroker) UnsubscribeFromMessages(id string) error {
	b.subscriberMutex.Lock()
	defer b.subscriberMutex.Unlock()

	if msgChan, exists := b.subscribers[id]; exists {
		delete(b.subscribers, id)
		close(msgChan)
	}
	return nil
}

func (b *inMemoryBroker) Close() error {
	b.subscriberMutex.Lock()
	defer b.subscriberMutex.Unlock()

	for id, msgChan := range b.subscribers {
		delete(b.subscribers, id)
		close(msgChan)
	}
	b.closed = true
	return nil
}
